package render

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/matst80/location-listing/pkg/types"
)

type Focusable struct {
	Tag  string `json:"tag"`
	Id   string `json:"id,omitempty"`
	Href string `json:"href,omitempty"`
	Text string `json:"text,omitempty"`
}

// FirstFocusable returns the first element in markup that can take keyboard
// focus, or nil.
func FirstFocusable(markup types.Markup) *Focusable {
	z := html.NewTokenizer(strings.NewReader(string(markup)))
	var found *Focusable
	for {
		switch z.Next() {
		case html.ErrorToken:
			return found
		case html.TextToken:
			if found != nil {
				found.Text += string(z.Text())
			}
		case html.EndTagToken:
			if found != nil {
				name, _ := z.TagName()
				if string(name) == found.Tag {
					found.Text = strings.TrimSpace(found.Text)
					return found
				}
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			if found != nil {
				continue
			}
			token := z.Token()
			if isFocusable(token) {
				found = &Focusable{
					Tag:  token.Data,
					Id:   attr(token, "id"),
					Href: attr(token, "href"),
				}
				if token.Type == html.SelfClosingTagToken || token.DataAtom == atom.Input {
					return found
				}
			}
		}
	}
}

func isFocusable(token html.Token) bool {
	if _, disabled := lookup(token, "disabled"); disabled {
		return false
	}
	if tabindex, ok := lookup(token, "tabindex"); ok {
		return strings.TrimSpace(tabindex) != "-1"
	}
	switch token.DataAtom {
	case atom.A:
		_, ok := lookup(token, "href")
		return ok
	case atom.Input:
		return !strings.EqualFold(attr(token, "type"), "hidden")
	case atom.Button, atom.Select, atom.Textarea:
		return true
	}
	return false
}

func lookup(token html.Token, key string) (string, bool) {
	for _, a := range token.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func attr(token html.Token, key string) string {
	v, _ := lookup(token, key)
	return v
}
