package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/schema"

	"github.com/matst80/location-listing/pkg/coordinator"
	"github.com/matst80/location-listing/pkg/types"
)

var ErrBadRequest = errors.New("bad request")

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

// FilterRequest is the location filter form: checked tags, the location
// input and, when picked from the autocomplete, the resolved place.
type FilterRequest struct {
	Tags             []string `schema:"tag"`
	Location         string   `schema:"location"`
	Lat              float64  `schema:"lat"`
	Lng              float64  `schema:"lng"`
	FormattedAddress string   `schema:"formatted_address"`
}

func (f *FilterRequest) Form(raw *types.RawListing) coordinator.FilterForm {
	form := coordinator.FilterForm{Tags: make([]types.Tag, 0, len(f.Tags)+1)}
	for _, value := range f.Tags {
		form.Tags = append(form.Tags, types.Tag{
			Type:  types.TagTypeTag,
			Value: value,
			Label: raw.Label(types.TagTypeTag, value),
		})
	}
	location := strings.TrimSpace(f.Location)
	if location == "" {
		return form
	}
	form.Tags = append(form.Tags, types.Tag{Type: types.TagTypeLocation, Value: location, Label: location})
	place := &types.Place{
		Address:  f.FormattedAddress,
		Location: types.Location{Latitude: f.Lat, Longitude: f.Lng},
	}
	if place.HasLocation() {
		if place.Address == "" {
			place.Address = location
		}
		form.Place = place
	}
	return form
}

type ClearRequest struct {
	Type  string `schema:"type,default:tag"`
	Value string `schema:"value"`
}

func (c *ClearRequest) Tag() (types.Tag, error) {
	if c.Type != types.TagTypeClearAll && c.Value == "" {
		return types.Tag{}, fmt.Errorf("%w: value is required", ErrBadRequest)
	}
	return types.Tag{Type: c.Type, Value: c.Value}, nil
}

func isJson(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

func decodeForm(r *http.Request, out any) error {
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if err := decoder.Decode(out, r.Form); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}

func (ws *WebServer) filterForm(r *http.Request, raw *types.RawListing) (coordinator.FilterForm, error) {
	req := &FilterRequest{}
	if err := decodeForm(r, req); err != nil {
		return coordinator.FilterForm{}, err
	}
	return req.Form(raw), nil
}

func (ws *WebServer) clearedTag(r *http.Request) (types.Tag, error) {
	req := &ClearRequest{}
	if err := decodeForm(r, req); err != nil {
		return types.Tag{}, err
	}
	return req.Tag()
}
