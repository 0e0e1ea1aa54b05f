package geocode

import (
	"context"
	"errors"

	"github.com/matst80/location-listing/pkg/types"
)

// Chain tries each service in order and returns the first resolved place.
type Chain []Service

func (c Chain) Resolve(ctx context.Context, address string) (types.Place, error) {
	if len(c) == 0 {
		return types.Place{}, &Error{Address: address, Err: ErrUnavailable}
	}
	errs := make([]error, 0, len(c))
	for _, s := range c {
		place, err := s.Resolve(ctx, address)
		if err == nil {
			return place, nil
		}
		if ctx.Err() != nil {
			return types.Place{}, err
		}
		errs = append(errs, err)
	}
	return types.Place{}, errors.Join(errs...)
}
