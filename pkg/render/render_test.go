package render

import (
	"errors"
	"html/template"
	"strings"
	"testing"

	"github.com/matst80/location-listing/pkg/types"
)

func testData() *types.MasterData {
	items := []types.Item{
		{IsActive: true, Page: 1, Index: 0, Markup: `<div><a href="/a">A</a></div>`},
		{IsActive: false, Page: 0, Index: 1, Markup: `<div>B</div>`},
		{IsActive: true, Page: 1, Index: 2, Markup: `<div>C</div>`},
		{IsActive: true, Page: 2, Index: 3, Markup: `<div><button>D</button></div>`},
	}
	return &types.MasterData{MaxItems: 2, TotalPages: 2, Items: items}
}

func TestRenderPage(t *testing.T) {
	buf := NewBuffer()
	r := NewRenderer(buf)
	page, err := r.RenderPage(testData(), 1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(page.Markup) != 2 || page.Markup[1] != `<div>C</div>` {
		t.Errorf("Expected active rows of page 1, got %v", page.Markup)
	}
	if buf.HTML() != `<div><a href="/a">A</a></div><div>C</div>` {
		t.Errorf("Expected container to hold page 1, got %s", buf.HTML())
	}
	if page.Focus == nil || page.Focus.Tag != "a" || page.Focus.Href != "/a" || page.Focus.Text != "A" {
		t.Errorf("Expected link to be focusable, got %+v", page.Focus)
	}
}

func TestRenderPageIsIdempotent(t *testing.T) {
	buf := NewBuffer()
	r := NewRenderer(buf)
	data := testData()
	_, _ = r.RenderPage(data, 2)
	first := buf.HTML()
	_, _ = r.RenderPage(data, 2)
	if buf.HTML() != first {
		t.Errorf("Expected same content after re-render, got %s and %s", first, buf.HTML())
	}
	if len(buf.Markup()) != 1 {
		t.Errorf("Expected 1 row, got %d", len(buf.Markup()))
	}
}

func TestRenderEmptyPage(t *testing.T) {
	buf := NewBuffer()
	_ = buf.Replace([]types.Markup{"<div>old</div>"})
	page, err := NewRenderer(buf).RenderPage(testData(), 5)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(page.Markup) != 0 || page.Focus != nil || buf.HTML() != "" {
		t.Errorf("Expected empty page and cleared container, got %+v", page)
	}
}

// detachedContainer writes the first rows through and then fails, like a
// container removed from the page while rendering.
type detachedContainer struct {
	buf   *Buffer
	calls int
}

func (c *detachedContainer) Replace(rows []types.Markup) error {
	c.calls++
	if c.calls > 1 {
		return errors.New("detached")
	}
	return c.buf.Replace(rows)
}

func TestRenderContainerError(t *testing.T) {
	c := &detachedContainer{buf: NewBuffer()}
	r := NewRenderer(c)
	data := testData()
	if _, err := r.RenderPage(data, 1); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	before := c.buf.HTML()
	if _, err := r.RenderPage(data, 2); err == nil {
		t.Error("Expected container error")
	}
	if c.buf.HTML() != before {
		t.Errorf("Expected previous page to stay rendered, got %s", c.buf.HTML())
	}
}

func TestBufferReplaceCopiesRows(t *testing.T) {
	buf := NewBuffer()
	rows := []types.Markup{"<div>A</div>", "<div>B</div>"}
	_ = buf.Replace(rows)
	rows[0] = "<div>changed</div>"
	if buf.HTML() != "<div>A</div><div>B</div>" {
		t.Errorf("Expected buffer to keep its own rows, got %s", buf.HTML())
	}
}

func TestFirstFocusable(t *testing.T) {
	cases := map[types.Markup]string{
		`<div><a name="x">skip</a><a href="#">go</a></div>`:           "a",
		`<div><input type="hidden"><input type="text"></div>`:          "input",
		`<div><button disabled>x</button><select></select></div>`:      "select",
		`<div tabindex="-1"><span tabindex="0">x</span></div>`:         "span",
		`<div><textarea></textarea></div>`:                             "textarea",
	}
	for markup, tag := range cases {
		f := FirstFocusable(markup)
		if f == nil || f.Tag != tag {
			t.Errorf("Expected %s in %s, got %+v", tag, markup, f)
		}
	}
	if f := FirstFocusable(`<div><p>nothing</p></div>`); f != nil {
		t.Errorf("Expected nothing focusable, got %+v", f)
	}
}

func TestTemplateCompiler(t *testing.T) {
	c, err := NewTemplateCompiler("")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	c.Icons["wifi"] = template.HTML(`<svg class="wifi"></svg>`)
	markup, err := c.Compile(types.PromoRecord{
		Title:       types.PromoTitle{Text: "Boston <Office>", Href: "/boston"},
		Description: `<p>Open <b>daily</b><script>alert(1)</script></p>`,
		Phone:       "555-0100",
		Tags:        types.Sequence[types.PromoTag]{{Id: "wifi", Label: "Wi-Fi"}},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	s := string(markup)
	for _, want := range []string{
		`<a href="/boston">Boston &lt;Office&gt;</a>`,
		`<p>Open <b>daily</b></p>`,
		`<svg class="wifi"></svg><span>Wi-Fi</span>`,
		`href="tel:555-0100"`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("Expected %s in %s", want, s)
		}
	}
	if strings.Contains(s, "script") {
		t.Errorf("Expected script to be stripped, got %s", s)
	}
	if f := FirstFocusable(markup); f == nil || f.Href != "/boston" {
		t.Errorf("Expected title link to be focusable, got %+v", f)
	}
}

func TestTemplateCompilerBadTemplate(t *testing.T) {
	if _, err := NewTemplateCompiler("{{ .Broken "); err == nil {
		t.Error("Expected parse error")
	}
}
