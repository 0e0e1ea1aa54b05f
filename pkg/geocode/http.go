package geocode

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matst80/location-listing/pkg/common/jsoncompat"
	"github.com/matst80/location-listing/pkg/types"
)

// HTTPService calls a Google style geocoding endpoint:
//
//	GET {URL}?address=...&key=...
//	{"status": "OK", "results": [{"formatted_address": "...", "geometry": {"location": {"lat": 1, "lng": 2}}}]}
type HTTPService struct {
	URL    string
	Key    string
	Client *http.Client
}

func NewHTTPService(endpoint, key string, timeout time.Duration) *HTTPService {
	return &HTTPService{
		URL:    endpoint,
		Key:    key,
		Client: &http.Client{Timeout: timeout},
	}
}

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
	Results      []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location types.Location `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

func (s *HTTPService) Resolve(ctx context.Context, address string) (types.Place, error) {
	place, err := s.resolve(ctx, address)
	observe("http", err)
	return place, err
}

func (s *HTTPService) resolve(ctx context.Context, address string) (types.Place, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return types.Place{}, &Error{Address: address, Err: ErrEmptyAddress}
	}
	q := url.Values{}
	q.Set("address", address)
	if s.Key != "" {
		q.Set("key", s.Key)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL+"?"+q.Encode(), nil)
	if err != nil {
		return types.Place{}, &Error{Address: address, Err: err}
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(req)
	if err != nil {
		return types.Place{}, &Error{Address: address, Err: fmt.Errorf("%w: %v", ErrUnavailable, err)}
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return types.Place{}, &Error{Address: address, Err: fmt.Errorf("%w: status %d", ErrUnavailable, res.StatusCode)}
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return types.Place{}, &Error{Address: address, Err: fmt.Errorf("%w: %v", ErrUnavailable, err)}
	}
	var data geocodeResponse
	if err := jsoncompat.Unmarshal(body, &data); err != nil {
		return types.Place{}, &Error{Address: address, Err: fmt.Errorf("%w: %v", ErrUnavailable, err)}
	}
	switch data.Status {
	case "OK":
	case "ZERO_RESULTS":
		return types.Place{}, &Error{Address: address, Err: ErrNotFound}
	default:
		return types.Place{}, &Error{Address: address, Err: fmt.Errorf("%w: %s %s", ErrUnavailable, data.Status, data.ErrorMessage)}
	}
	if len(data.Results) == 0 {
		return types.Place{}, &Error{Address: address, Err: ErrNotFound}
	}
	first := data.Results[0]
	return types.Place{
		Address:  first.FormattedAddress,
		Location: first.Geometry.Location,
	}, nil
}
