package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"github.com/matst80/location-listing/pkg/common/jsoncompat"
)

// Sequence is an ordered list that also accepts the object form PHP's
// json_encode produces for sparse or keyed arrays ({"0": .., "1": ..}).
// Objects are ordered by their integer keys; any other key is rejected.
type Sequence[T any] []T

func (s *Sequence[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = Sequence[T]{}
		return nil
	}
	switch data[0] {
	case '[':
		var items []T
		if err := jsoncompat.Unmarshal(data, &items); err != nil {
			return err
		}
		*s = items
		return nil
	case '{':
		var keyed map[string]json.RawMessage
		if err := jsoncompat.Unmarshal(data, &keyed); err != nil {
			return err
		}
		keys := make([]int, 0, len(keyed))
		byIndex := make(map[int]json.RawMessage, len(keyed))
		for k, v := range keyed {
			i, err := strconv.Atoi(k)
			if err != nil || i < 0 {
				return fmt.Errorf("%w: key %q", ErrNotASequence, k)
			}
			keys = append(keys, i)
			byIndex[i] = v
		}
		slices.Sort(keys)
		items := make([]T, len(keys))
		for n, i := range keys {
			if err := jsoncompat.Unmarshal(byIndex[i], &items[n]); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
		}
		*s = items
		return nil
	}
	return fmt.Errorf("%w: got %q", ErrNotASequence, data[:1])
}
