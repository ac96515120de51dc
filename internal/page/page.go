// Package page composes the public landing page from the stored documents.
package page

import (
	"context"
	"strings"

	"github.com/localnerve/jam-build-landing/internal/documents"
	"github.com/localnerve/jam-build-landing/internal/sections"
	"go.uber.org/zap"
)

// Page is everything the public front end needs in one response
type Page struct {
	Meta           Meta               `json:"meta"`
	StructuredData map[string]any     `json:"structuredData"`
	Theme          Theme              `json:"theme"`
	Footer         documents.Footer   `json:"footer"`
	Sections       []sections.Mounted `json:"sections"`
}

type Meta struct {
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Keywords         []string  `json:"keywords"`
	Author           string    `json:"author"`
	Language         string    `json:"language"`
	Canonical        string    `json:"canonical"`
	Favicon          string    `json:"favicon"`
	OpenGraph        OpenGraph `json:"openGraph"`
	TwitterCard      string    `json:"twitterCard"`
	GoogleAnalytics  string    `json:"googleAnalytics,omitempty"`
	GoogleTagManager string    `json:"googleTagManager,omitempty"`
	FacebookPixel    string    `json:"facebookPixel,omitempty"`
}

type OpenGraph struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Image       string `json:"image"`
	SiteName    string `json:"siteName"`
	Locale      string `json:"locale"`
	Type        string `json:"type"`
}

type Theme struct {
	documents.GlobalConfig
	CSSVariables map[string]string `json:"cssVariables"`
}

// FAQEntry carries the rendered answer next to the source text
type FAQEntry struct {
	documents.FAQItem
	AnswerHTML string `json:"answerHtml"`
}

type CollectionContent[T any] struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Items    []T    `json:"items"`
}

type ContactContent struct {
	StoreTypes   []documents.StoreType `json:"storeTypes"`
	RequireTaxID bool                  `json:"requireTaxId"`
}

// Composer builds the Page
type Composer struct {
	catalog      *documents.Catalog
	requireTaxID bool
	log          *zap.Logger
}

func NewComposer(catalog *documents.Catalog, requireTaxID bool, log *zap.Logger) *Composer {
	return &Composer{
		catalog:      catalog,
		requireTaxID: requireTaxID,
		log:          log.Named("page"),
	}
}

// Compose reads every document and renders the enabled sections
func (c *Composer) Compose(ctx context.Context) Page {
	site := c.catalog.SiteConfig.Get(ctx)
	seo := c.catalog.SEO.Get(ctx)
	global := c.catalog.GlobalConfig.Get(ctx)

	return Page{
		Meta:           BuildMeta(site, seo),
		StructuredData: StructuredData(site),
		Theme:          Theme{GlobalConfig: global, CSSVariables: global.CSSVariables()},
		Footer:         global.Footer,
		Sections:       sections.Render(ctx, c.catalog.Sections.Get(ctx), c.Renderers(), c.log),
	}
}

// Renderers is the static component table of the page
func (c *Composer) Renderers() map[string]sections.Renderer {
	static := func(context.Context, documents.Section) (any, bool, error) {
		return nil, true, nil
	}

	return map[string]sections.Renderer{
		documents.ComponentHeader: func(ctx context.Context, _ documents.Section) (any, bool, error) {
			return c.catalog.Header.Get(ctx).Clamp(), true, nil
		},
		documents.ComponentCompany:  static,
		documents.ComponentShowroom: static,
		documents.ComponentReseller: static,
		documents.ComponentGallery: func(ctx context.Context, _ documents.Section) (any, bool, error) {
			doc := c.catalog.Gallery.Get(ctx)
			return collectionContent(doc.Config, doc.Items), doc.Config.Active, nil
		},
		documents.ComponentTestimonials: func(ctx context.Context, _ documents.Section) (any, bool, error) {
			doc := c.catalog.Testimonials.Get(ctx)
			return collectionContent(doc.Config, doc.Items), doc.Config.Active, nil
		},
		documents.ComponentFAQ: func(ctx context.Context, _ documents.Section) (any, bool, error) {
			doc := c.catalog.FAQ.Get(ctx)
			entries := make([]FAQEntry, 0, len(doc.Items))
			for _, item := range doc.Items {
				entries = append(entries, FAQEntry{FAQItem: item, AnswerHTML: RenderMarkdown(item.Answer)})
			}
			return collectionContent(doc.Config, entries), doc.Config.Active, nil
		},
		documents.ComponentContact: func(context.Context, documents.Section) (any, bool, error) {
			return ContactContent{StoreTypes: documents.StoreTypes(), RequireTaxID: c.requireTaxID}, true, nil
		},
	}
}

func collectionContent[T any](cfg documents.CollectionConfig, items []T) CollectionContent[T] {
	if items == nil {
		items = []T{}
	}
	return CollectionContent[T]{Title: cfg.Title, Subtitle: cfg.Subtitle, Items: items}
}

// BuildMeta takes identity from the site config. Analytics ids fall back to the older SEO document.
func BuildMeta(site documents.SiteConfig, seo documents.SEOConfig) Meta {
	return Meta{
		Title:       site.Title,
		Description: site.Description,
		Keywords:    Keywords(site.Keywords),
		Author:      site.Author,
		Language:    site.Language,
		Canonical:   site.URL,
		Favicon:     site.Favicon,
		OpenGraph: OpenGraph{
			Title:       site.Title,
			Description: site.Description,
			URL:         site.URL,
			Image:       absolute(site.URL, site.OGImage),
			SiteName:    site.Schema.Name,
			Locale:      strings.ReplaceAll(site.Language, "-", "_"),
			Type:        "website",
		},
		TwitterCard:      site.TwitterCard,
		GoogleAnalytics:  firstNonEmpty(site.GoogleAnalytics, seo.GoogleAnalytics),
		GoogleTagManager: firstNonEmpty(site.GoogleTagManager, seo.GoogleTagManager),
		FacebookPixel:    firstNonEmpty(site.FacebookPixel, seo.FacebookPixel),
	}
}

// StructuredData is the schema.org JSON-LD object for the organization
func StructuredData(site documents.SiteConfig) map[string]any {
	s := site.Schema
	data := map[string]any{
		"@context":    "https://schema.org",
		"@type":       s.Type,
		"name":        s.Name,
		"description": s.Description,
		"url":         site.URL,
		"logo":        absolute(site.URL, site.Logo),
		"telephone":   s.Phone,
		"email":       s.Email,
		"address": map[string]any{
			"@type":           "PostalAddress",
			"streetAddress":   s.Address.Street,
			"addressLocality": s.Address.City,
			"addressRegion":   s.Address.State,
			"postalCode":      s.Address.ZipCode,
			"addressCountry":  s.Address.Country,
		},
	}
	if links := s.SocialMedia.Links(); len(links) > 0 {
		data["sameAs"] = links
	}
	return data
}

func absolute(base, path string) string {
	if path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(path, "/")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
