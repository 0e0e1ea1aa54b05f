package coordinator

import (
	"fmt"
	"testing"

	"github.com/matst80/location-listing/pkg/events"
	"github.com/matst80/location-listing/pkg/master"
	"github.com/matst80/location-listing/pkg/render"
	"github.com/matst80/location-listing/pkg/types"
)

// testRaw builds n offices where office i has marker latitude i, the tag
// "even" or "odd", and a title that sorts in reverse index order.
func testRaw(n, maxItems int) *types.RawListing {
	promos := make(types.Sequence[types.PromoRecord], n)
	for i := range promos {
		tag := "even"
		if i%2 == 1 {
			tag = "odd"
		}
		promos[i] = types.PromoRecord{
			Title: types.PromoTitle{Text: fmt.Sprintf("Office %c", 'A'+rune(n-1-i))},
			Tags:  types.Sequence[types.PromoTag]{{Id: tag, Label: tag}},
		}
	}
	return &types.RawListing{
		MaxItems:    maxItems,
		ImagePromos: &types.RawImagePromos{Items: promos},
		Filters:     types.Sequence[types.Tag]{{Type: types.TagTypeTag, Value: "even", Label: "Even offices"}},
	}
}

func testMarkers(n int) []types.MapMarker {
	markers := make([]types.MapMarker, n)
	for i := range markers {
		markers[i] = types.MapMarker{Id: fmt.Sprint(i), Position: types.Location{Latitude: float64(i)}}
	}
	return markers
}

var titleCompiler = master.CompilerFunc(func(p types.PromoRecord) (types.Markup, error) {
	return types.Markup(fmt.Sprintf(`<a href="#">%s</a>`, p.Title.Text)), nil
})

func newTestCoordinator(t *testing.T, n, maxItems int, opts Options) (*Coordinator, *events.Recorder) {
	t.Helper()
	rec := &events.Recorder{}
	opts.Emitter = rec
	opts.Compiler = titleCompiler
	if opts.Renderer == nil {
		opts.Renderer = render.NewRenderer(render.NewBuffer())
	}
	c, err := New(testRaw(n, maxItems), opts)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := c.OnMapReady(types.AsMarkers(testMarkers(n))); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	return c, rec
}

func markerLatitudes(markers []types.Marker) []float64 {
	ret := make([]float64, len(markers))
	for i, m := range markers {
		ret[i] = m.GetPosition().Latitude
	}
	return ret
}

func itemOrder(data *types.MasterData) []int {
	ret := make([]int, len(data.Items))
	for i, item := range data.Items {
		ret[i] = item.Index
	}
	return ret
}
