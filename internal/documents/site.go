package documents

// SiteConfig is the SEO and identity metadata of the page
type SiteConfig struct {
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	Keywords         string       `json:"keywords"`
	Author           string       `json:"author"`
	URL              string       `json:"url"`
	Logo             string       `json:"logo"`
	Favicon          string       `json:"favicon"`
	Language         string       `json:"language"`
	OGImage          string       `json:"ogImage"`
	TwitterCard      string       `json:"twitterCard"`
	GoogleAnalytics  string       `json:"googleAnalytics"`
	GoogleTagManager string       `json:"googleTagManager"`
	FacebookPixel    string       `json:"facebookPixel"`
	Schema           SchemaConfig `json:"schema"`
}

// SchemaConfig feeds the schema.org structured data
type SchemaConfig struct {
	Type        string        `json:"type"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Address     PostalAddress `json:"address"`
	Phone       string        `json:"phone"`
	Email       string        `json:"email"`
	SocialMedia SocialMedia   `json:"socialMedia"`
}

type PostalAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

type SocialMedia struct {
	Facebook  string `json:"facebook"`
	Instagram string `json:"instagram"`
	Twitter   string `json:"twitter"`
	LinkedIn  string `json:"linkedin"`
	YouTube   string `json:"youtube"`
}

// Links returns the configured profiles in a fixed order
func (s SocialMedia) Links() []string {
	var links []string
	for _, l := range []string{s.Facebook, s.Instagram, s.Twitter, s.LinkedIn, s.YouTube} {
		if l != "" {
			links = append(links, l)
		}
	}
	return links
}

func DefaultSiteConfig() SiteConfig {
	return SiteConfig{
		Title:       "Landing Page CMS - Sistema de Gerenciamento",
		Description: "Sistema completo de gerenciamento de conteúdo para landing pages com FAQ, depoimentos, galeria e analytics avançados.",
		Keywords:    "landing page, cms, gerenciamento, faq, depoimentos, galeria, analytics, leads",
		Author:      "Sua Empresa",
		URL:         "https://seusite.com.br",
		Logo:        "/logo.png",
		Favicon:     "/favicon.ico",
		Language:    "pt-BR",
		OGImage:     "/og-image.jpg",
		TwitterCard: "summary_large_image",
		Schema: SchemaConfig{
			Type:        "Organization",
			Name:        "Sua Empresa",
			Description: "Empresa especializada em soluções digitais inovadoras",
			Address: PostalAddress{
				Street:  "Rua Exemplo, 123",
				City:    "São Paulo",
				State:   "SP",
				ZipCode: "01234-567",
				Country: "Brasil",
			},
			Phone: "+55 11 99999-9999",
			Email: "contato@seusite.com.br",
			SocialMedia: SocialMedia{
				Facebook:  "https://facebook.com/suaempresa",
				Instagram: "https://instagram.com/suaempresa",
				Twitter:   "https://twitter.com/suaempresa",
				LinkedIn:  "https://linkedin.com/company/suaempresa",
				YouTube:   "https://youtube.com/@suaempresa",
			},
		},
	}
}

// SEOConfig is the older flat SEO document some installs still carry under seo-config
type SEOConfig struct {
	Title            string `json:"title"`
	Description      string `json:"description"`
	Keywords         string `json:"keywords"`
	Author           string `json:"author"`
	URL              string `json:"url"`
	Language         string `json:"language"`
	GoogleAnalytics  string `json:"googleAnalytics"`
	GoogleTagManager string `json:"googleTagManager"`
	FacebookPixel    string `json:"facebookPixel"`
}

func DefaultSEOConfig() SEOConfig {
	return SEOConfig{
		Title:       "Moda Feminina Premium",
		Description: "Descubra as últimas tendências em moda feminina com qualidade premium e preços acessíveis.",
		Keywords:    "moda feminina, roupas, vestidos, blusas, calças",
		Author:      "Moda Premium",
		URL:         "https://modapremium.com.br",
		Language:    "pt-BR",
	}
}
