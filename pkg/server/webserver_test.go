package server

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/matst80/location-listing/pkg/common/jsoncompat"
	"github.com/matst80/location-listing/pkg/coordinator"
	"github.com/matst80/location-listing/pkg/events"
	"github.com/matst80/location-listing/pkg/master"
	"github.com/matst80/location-listing/pkg/types"
)

func testListing(n int) *types.RawListing {
	promos := make(types.Sequence[types.PromoRecord], n)
	for i := range promos {
		tag := "even"
		if i%2 == 1 {
			tag = "odd"
		}
		promos[i] = types.PromoRecord{
			Title: types.PromoTitle{Text: fmt.Sprintf("Office %02d", i), Href: fmt.Sprintf("/office/%d", i)},
			Tags:  types.Sequence[types.PromoTag]{{Id: tag, Label: tag}},
		}
	}
	return &types.RawListing{
		MaxItems:    3,
		ImagePromos: &types.RawImagePromos{Items: promos},
		Filters:     types.Sequence[types.Tag]{{Type: types.TagTypeTag, Value: "odd", Label: "Odd offices"}},
	}
}

func testMarkers(n int) []types.Marker {
	markers := make([]types.MapMarker, n)
	for i := range markers {
		markers[i] = types.MapMarker{Id: fmt.Sprint(i), Position: types.Location{Latitude: float64(i), Longitude: 1}}
	}
	return types.AsMarkers(markers)
}

type testResponse struct {
	Widget string `json:"widget"`
	View   *struct {
		Heading    types.TagState        `json:"resultsHeading"`
		Pagination types.PaginationState `json:"pagination"`
		TotalPages int                   `json:"totalPages"`
		Page       struct {
			Markup []string `json:"markup"`
		} `json:"page"`
		Markers []types.MapMarker `json:"markers"`
		Place   *types.Place      `json:"place"`
	} `json:"view"`
	Events []struct {
		Name events.Name `json:"name"`
	} `json:"events"`
	Error string `json:"error"`
}

func newTestServer(t *testing.T) (*WebServer, *httptest.Server) {
	compiler := master.CompilerFunc(func(p types.PromoRecord) (types.Markup, error) {
		return types.Markup(fmt.Sprintf(`<a href="%s">%s</a>`, p.Title.Href, p.Title.Text)), nil
	})
	ws := NewWebServer(coordinator.Options{Compiler: compiler})
	ws.Listing = testListing(8)
	ws.Markers = testMarkers(8)
	srv := httptest.NewServer(ws.Handle())
	t.Cleanup(srv.Close)
	return ws, srv
}

func call(t *testing.T, req *http.Request, status int) testResponse {
	t.Helper()
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}
	var body testResponse
	if res.StatusCode != status {
		t.Fatalf("Expected status %d, got %d: %s", status, res.StatusCode, b)
	}
	if err := jsoncompat.Unmarshal(b, &body); err != nil {
		t.Fatalf("Expected json body, got %s", b)
	}
	return body
}

func get(t *testing.T, u string, status int) testResponse {
	req, _ := http.NewRequest(http.MethodGet, u, nil)
	return call(t, req, status)
}

func postForm(t *testing.T, u string, form url.Values, status int) testResponse {
	req, _ := http.NewRequest(http.MethodPost, u, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return call(t, req, status)
}

func postJson(t *testing.T, u, body string, status int) testResponse {
	req, _ := http.NewRequest(http.MethodPost, u, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return call(t, req, status)
}

func TestCreateDefaultListing(t *testing.T) {
	_, srv := newTestServer(t)
	res := postJson(t, srv.URL+"/api/listings", "", http.StatusOK)
	if res.Widget == "" || res.View == nil {
		t.Fatalf("Expected a ready widget, got %+v", res)
	}
	if res.View.TotalPages != 3 || len(res.View.Page.Markup) != 3 {
		t.Errorf("Expected 3 rows of 3 pages, got %+v", res.View)
	}
	if len(res.View.Markers) != 3 || res.View.Markers[2].Id != "2" {
		t.Errorf("Expected markers of page 1, got %+v", res.View.Markers)
	}
}

func TestFilterFlow(t *testing.T) {
	_, srv := newTestServer(t)
	id := postJson(t, srv.URL+"/api/listings", "", http.StatusOK).Widget
	base := srv.URL + "/api/listings/" + id

	res := postForm(t, base+"/filter", url.Values{"tag": {"odd"}}, http.StatusOK)
	if res.View.Heading.TotalResults != 4 || res.View.TotalPages != 2 {
		t.Errorf("Expected 4 odd offices on 2 pages, got %+v", res.View.Heading)
	}
	if res.View.Heading.Tags[0].Label != "Odd offices" {
		t.Errorf("Expected filter label, got %+v", res.View.Heading.Tags)
	}
	names := make([]events.Name, len(res.Events))
	for i, e := range res.Events {
		names[i] = e.Name
	}
	expected := []events.Name{events.ResultsHeadingUpdated, events.MarkersUpdated, events.PaginationUpdated}
	if fmt.Sprint(names) != fmt.Sprint(expected) {
		t.Errorf("Expected %v, got %v", expected, names)
	}

	res = postJson(t, base+"/page/next", "", http.StatusOK)
	if res.View.Pagination.CurrentPage != 2 || res.View.Heading.NumResults != "4 - 4" {
		t.Errorf("Expected last odd office on page 2, got %+v", res.View.Heading)
	}

	res = postForm(t, base+"/clear", url.Values{"value": {"odd"}}, http.StatusOK)
	if res.View.Heading.TotalResults != 8 || len(res.Events) != 4 {
		t.Errorf("Expected all offices and a filter ui update, got %+v", res)
	}

	req, _ := http.NewRequest(http.MethodGet, base+"/html", nil)
	httpRes, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	httpRes.Body.Close()
	if httpRes.StatusCode != http.StatusOK || !strings.HasPrefix(httpRes.Header.Get("Content-Type"), "text/html") {
		t.Errorf("Expected html page, got %d", httpRes.StatusCode)
	}
}

func TestFilterWithPickedPlace(t *testing.T) {
	_, srv := newTestServer(t)
	id := postJson(t, srv.URL+"/api/listings", "", http.StatusOK).Widget
	form := url.Values{"location": {"Boston"}, "lat": {"7.1"}, "lng": {"1"}, "formatted_address": {"Boston, MA"}}
	res := postForm(t, srv.URL+"/api/listings/"+id+"/filter", form, http.StatusOK)
	if res.View.Place == nil || res.View.Place.Address != "Boston, MA" {
		t.Fatalf("Expected picked place, got %+v", res.View.Place)
	}
	if res.View.Markers[0].Id != "7" || res.View.Markers[1].Id != "6" {
		t.Errorf("Expected closest offices first, got %+v", res.View.Markers)
	}
}

func TestPostedListingAndMarkers(t *testing.T) {
	_, srv := newTestServer(t)
	listing := `{"maxItems": 2, "imagePromos": {"items": {"0": {"title": {"text": "B"}}, "1": {"title": {"text": "A"}}}}}`
	id := postJson(t, srv.URL+"/api/listings", listing, http.StatusOK).Widget
	base := srv.URL + "/api/listings/" + id

	postJson(t, base+"/page/next", "", http.StatusConflict)
	postJson(t, base+"/markers", `[{"id": "only"}]`, http.StatusBadRequest)
	res := postJson(t, base+"/markers", `{"markers": [{"id": "b"}, {"id": "a"}]}`, http.StatusOK)
	if res.View == nil || len(res.View.Page.Markup) != 2 {
		t.Fatalf("Expected ready widget, got %+v", res)
	}
	res = postJson(t, base+"/events/"+string(events.FilterFormSubmitted), `{"tags": []}`, http.StatusOK)
	if res.View.Markers[0].Id != "b" {
		t.Errorf("Expected source order without filters, got %+v", res.View.Markers)
	}
}

func TestErrors(t *testing.T) {
	_, srv := newTestServer(t)
	get(t, srv.URL+"/api/listings/missing", http.StatusNotFound)
	postJson(t, srv.URL+"/api/listings", `{"maxItems": 1}`, http.StatusBadRequest)

	id := postJson(t, srv.URL+"/api/listings", "", http.StatusOK).Widget
	base := srv.URL + "/api/listings/" + id
	postJson(t, base+"/page/last", "", http.StatusBadRequest)
	res, err := http.Get(base + "/page/next")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("Expected pagination to require POST, got %d", res.StatusCode)
	}
	postForm(t, base+"/clear", url.Values{}, http.StatusBadRequest)
	postJson(t, base+"/events/resize", `{}`, http.StatusBadRequest)
	postJson(t, base+"/events/"+string(events.RowClicked), `{"index": 7}`, http.StatusBadRequest)

	req, _ := http.NewRequest(http.MethodDelete, base, nil)
	call(t, req, http.StatusOK)
	get(t, base, http.StatusNotFound)
}

func TestFilterRequestForm(t *testing.T) {
	req := &FilterRequest{Tags: []string{"odd", "even"}, Location: " 02108 "}
	form := req.Form(testListing(2))
	if len(form.Tags) != 3 || form.Tags[0].Label != "Odd offices" || form.Tags[1].Label != "even" {
		t.Errorf("Expected labelled tags, got %+v", form.Tags)
	}
	if form.Tags[2].Type != types.TagTypeLocation || form.Tags[2].Value != "02108" || form.Place != nil {
		t.Errorf("Expected location tag without place, got %+v", form)
	}
}

func TestPrune(t *testing.T) {
	ws, srv := newTestServer(t)
	postJson(t, srv.URL+"/api/listings", "", http.StatusOK)
	if n := ws.Prune(-time.Second); n != 1 || ws.Registry.Len() != 0 || len(ws.recorders) != 0 {
		t.Errorf("Expected widget and recorder to be pruned, got %d", n)
	}
}

func TestStream(t *testing.T) {
	ws, srv := newTestServer(t)
	ws.Bus = events.NewBus()
	id := postJson(t, srv.URL+"/api/listings", "", http.StatusOK).Widget
	other := postJson(t, srv.URL+"/api/listings", "", http.StatusOK).Widget

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/listings/"+id+"/stream", nil)
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", res.StatusCode)
	}

	// more events of the other widget than the stream buffers
	for i := 0; i < streamBuffer; i++ {
		postJson(t, srv.URL+"/api/listings/"+other+"/page/next", "", http.StatusOK)
	}
	postJson(t, srv.URL+"/api/listings/"+id+"/page/next", "", http.StatusOK)

	line, err := bufio.NewReader(res.Body).ReadBytes('\n')
	if err != nil {
		t.Fatalf("Expected an event line, got %v", err)
	}
	var e struct {
		Name   events.Name `json:"name"`
		Widget string      `json:"widget"`
	}
	if err := jsoncompat.Unmarshal(line, &e); err != nil {
		t.Fatalf("Expected json line, got %s", line)
	}
	if e.Widget != id || e.Name != events.ResultsHeadingUpdated {
		t.Errorf("Expected heading update of %s, got %+v", id, e)
	}
}

func TestStreamDisabled(t *testing.T) {
	_, srv := newTestServer(t)
	id := postJson(t, srv.URL+"/api/listings", "", http.StatusOK).Widget
	res, err := http.Get(srv.URL + "/api/listings/" + id + "/stream")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", res.StatusCode)
	}
}
