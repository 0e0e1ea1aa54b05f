package render

import (
	"fmt"

	"github.com/matst80/location-listing/pkg/types"
)

type Page struct {
	Number int            `json:"page"`
	Markup []types.Markup `json:"markup"`
	// Focus is the first focusable element of the first row, nil when the
	// page is empty or the row has nothing focusable.
	Focus *Focusable `json:"focus,omitempty"`
}

type Renderer struct {
	container Container
}

func NewRenderer(container Container) *Renderer {
	if container == nil {
		container = NewBuffer()
	}
	return &Renderer{container: container}
}

func (r *Renderer) Container() Container {
	return r.container
}

// RenderPage replaces the container content with the rows active on page.
// The container keeps its previous rows when the replace fails.
func (r *Renderer) RenderPage(data *types.MasterData, page int) (Page, error) {
	items := data.ActiveItems(page)
	ret := Page{
		Number: page,
		Markup: make([]types.Markup, 0, len(items)),
	}
	for _, item := range items {
		ret.Markup = append(ret.Markup, item.Markup)
	}
	if err := r.container.Replace(ret.Markup); err != nil {
		return ret, fmt.Errorf("replace rows: %w", err)
	}
	if len(ret.Markup) > 0 {
		ret.Focus = FirstFocusable(ret.Markup[0])
	}
	return ret, nil
}
