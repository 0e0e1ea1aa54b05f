package types

type PromoTitle struct {
	Text string `json:"text"`
	Href string `json:"href,omitempty"`
}

type PromoImage struct {
	Src string `json:"src,omitempty"`
	Alt string `json:"alt,omitempty"`
}

type PromoTag struct {
	Id    string `json:"id"`
	Label string `json:"label"`
}

// PromoRecord is the raw content of one listing row as rendered by the server.
type PromoRecord struct {
	Title       PromoTitle         `json:"title"`
	Description string             `json:"description,omitempty"`
	Location    string             `json:"location,omitempty"`
	Phone       string             `json:"phone,omitempty"`
	Image       *PromoImage        `json:"image,omitempty"`
	Tags        Sequence[PromoTag] `json:"tags"`
}

func (p *PromoRecord) HasTag(values []string) bool {
	for _, tag := range p.Tags {
		for _, v := range values {
			if tag.Id == v {
				return true
			}
		}
	}
	return false
}
