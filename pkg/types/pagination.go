package types

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/matst80/location-listing/pkg/common/jsoncompat"
)

type PageDescriptor struct {
	Text   string `json:"text"`
	Active bool   `json:"active"`
}

type PageControl struct {
	Text     string `json:"text,omitempty"`
	Hide     bool   `json:"hide"`
	Disabled bool   `json:"disabled"`
}

type PaginationState struct {
	Prev        PageControl              `json:"prev"`
	Next        PageControl              `json:"next"`
	Pages       Sequence[PageDescriptor] `json:"pages"`
	CurrentPage int                      `json:"currentPage"`
}

func (p PaginationState) Clone() PaginationState {
	p.Pages = slices.Clone(p.Pages)
	return p
}

// ActivePage returns the number of the page flagged active, if any.
func (p PaginationState) ActivePage() (int, bool) {
	for _, page := range p.Pages {
		if !page.Active {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimSpace(page.Text)); err == nil {
			return n, true
		}
	}
	return 0, false
}

const (
	NextPage     PageTarget = "next"
	PreviousPage PageTarget = "previous"
)

// PageTarget is either a page number or one of the relative targets
// "next" and "previous".
type PageTarget string

func PageNumber(n int) PageTarget {
	return PageTarget(strconv.Itoa(n))
}

func (t *PageTarget) UnmarshalJSON(data []byte) error {
	var n int
	if err := jsoncompat.Unmarshal(data, &n); err == nil {
		*t = PageNumber(n)
		return nil
	}
	var s string
	if err := jsoncompat.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("page target must be a number or string: %w", err)
	}
	*t = PageTarget(s)
	return nil
}
