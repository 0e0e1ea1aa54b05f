package render

import (
	"bytes"
	"fmt"
	"html/template"
	"os"

	"github.com/microcosm-cc/bluemonday"

	"github.com/matst80/location-listing/pkg/types"
)

const DefaultRowTemplate = `<article class="ma__image-promo">
{{- with .Image }}<img class="ma__image-promo__image" src="{{ .Src }}" alt="{{ .Alt }}">{{ end }}
<h2 class="ma__image-promo__title">{{ if .Title.Href }}<a href="{{ .Title.Href }}">{{ .Title.Text }}</a>{{ else }}{{ .Title.Text }}{{ end }}</h2>
{{- if .TagsFormatted }}<ul class="ma__image-promo__tags">{{ range .TagsFormatted }}<li>{{ .Svg }}<span>{{ .Label }}</span></li>{{ end }}</ul>{{ end }}
{{- with .Description }}<div class="ma__image-promo__description">{{ . }}</div>{{ end }}
{{- with .Location }}<div class="ma__image-promo__location">{{ . }}</div>{{ end }}
{{- with .Phone }}<a class="ma__image-promo__phone" href="tel:{{ . }}">{{ . }}</a>{{ end }}
</article>`

type FormattedTag struct {
	Label string
	Svg   template.HTML
}

// RowData is what the row template renders.
type RowData struct {
	types.PromoRecord
	Description   template.HTML
	TagsFormatted []FormattedTag
}

// TemplateCompiler compiles promo records to row markup. Descriptions may
// carry html from the cms and are sanitized before rendering.
type TemplateCompiler struct {
	tmpl   *template.Template
	policy *bluemonday.Policy
	// Icons maps a tag id to the svg shown next to its label.
	Icons map[string]template.HTML
}

func NewTemplateCompiler(text string) (*TemplateCompiler, error) {
	if text == "" {
		text = DefaultRowTemplate
	}
	tmpl, err := template.New("row").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse row template: %w", err)
	}
	return &TemplateCompiler{
		tmpl:   tmpl,
		policy: bluemonday.UGCPolicy(),
		Icons:  make(map[string]template.HTML),
	}, nil
}

func LoadTemplateCompiler(path string) (*TemplateCompiler, error) {
	if path == "" {
		return NewTemplateCompiler("")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read row template: %w", err)
	}
	return NewTemplateCompiler(string(b))
}

func (c *TemplateCompiler) Compile(promo types.PromoRecord) (types.Markup, error) {
	data := RowData{
		PromoRecord:   promo,
		Description:   template.HTML(c.policy.Sanitize(promo.Description)),
		TagsFormatted: make([]FormattedTag, 0, len(promo.Tags)),
	}
	for _, tag := range promo.Tags {
		data.TagsFormatted = append(data.TagsFormatted, FormattedTag{
			Label: tag.Label,
			Svg:   c.Icons[tag.Id],
		})
	}
	var buf bytes.Buffer
	if err := c.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %q: %w", promo.Title.Text, err)
	}
	return types.Markup(buf.String()), nil
}
