package documents

// HeaderData is the hero section content
type HeaderData struct {
	Logo                string  `json:"logo"`
	Title               string  `json:"title"`
	Subtitle            string  `json:"subtitle"`
	Description         string  `json:"description"`
	BackgroundImage     string  `json:"backgroundImage"`
	CTAText             string  `json:"ctaText"`
	CTALink             string  `json:"ctaLink"`
	ShowCTA             bool    `json:"showCta"`
	ShowScrollIndicator bool    `json:"showScrollIndicator"`
	TextColor           string  `json:"textColor"`
	OverlayOpacity      float64 `json:"overlayOpacity"`
}

func DefaultHeaderData() HeaderData {
	return HeaderData{
		Logo:                "/placeholder.svg?height=80&width=200&text=Logo",
		Title:               "Bem-vindos à Nossa Empresa",
		Subtitle:            "Soluções Inovadoras",
		Description:         "Oferecemos produtos e serviços de alta qualidade para transformar seu negócio e alcançar resultados extraordinários.",
		BackgroundImage:     "/placeholder.svg?height=600&width=1200&text=Header+Background",
		CTAText:             "Conheça Nossos Produtos",
		CTALink:             "#produtos",
		ShowCTA:             true,
		ShowScrollIndicator: true,
		TextColor:           "#ffffff",
		OverlayOpacity:      0.5,
	}
}

// Clamp keeps the overlay opacity within 0..1
func (h HeaderData) Clamp() HeaderData {
	switch {
	case h.OverlayOpacity < 0:
		h.OverlayOpacity = 0
	case h.OverlayOpacity > 1:
		h.OverlayOpacity = 1
	}
	return h
}
