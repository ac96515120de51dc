package documents

import (
	"github.com/localnerve/jam-build-landing/internal/storage"
	"go.uber.org/zap"
)

// Catalog holds a repository for every landing page document
type Catalog struct {
	GlobalConfig *Repository[GlobalConfig]
	SiteConfig   *Repository[SiteConfig]
	Sections     *Repository[SectionRegistry]
	FAQ          *Repository[FAQDocument]
	Testimonials *Repository[TestimonialDocument]
	Gallery      *Repository[GalleryDocument]
	Header       *Repository[HeaderData]
	Webhook      *Repository[WebhookConfig]
	Leads        *Repository[LeadList]
	SEO          *Repository[SEOConfig]

	byKey map[string]Document
}

// NewCatalog creates the repositories over one substrate and publisher
func NewCatalog(store storage.Substrate, pub Publisher, log *zap.Logger) *Catalog {
	c := &Catalog{
		GlobalConfig: NewRepository(store, pub, storage.KeyGlobalConfig, DefaultGlobalConfig, log),
		SiteConfig:   NewRepository(store, pub, storage.KeySiteConfig, DefaultSiteConfig, log),
		Sections:     NewRepository(store, pub, storage.KeySectionsConfig, DefaultSections, log),
		FAQ:          NewRepository(store, pub, storage.KeyFAQ, DefaultFAQ, log),
		Testimonials: NewRepository(store, pub, storage.KeyTestimonials, DefaultTestimonials, log),
		Gallery:      NewRepository(store, pub, storage.KeyGallery, DefaultGallery, log),
		Header:       NewRepository(store, pub, storage.KeyHeader, DefaultHeaderData, log),
		Webhook:      NewRepository(store, pub, storage.KeyWebhookConfig, DefaultWebhookConfig, log),
		Leads:        NewRepository(store, pub, storage.KeyLeads, DefaultLeads, log),
		SEO:          NewRepository(store, pub, storage.KeySEOConfig, DefaultSEOConfig, log),
	}

	c.byKey = make(map[string]Document)
	for _, d := range c.Documents() {
		c.byKey[d.Key()] = d
	}
	return c
}

// Documents lists every repository in storage key order
func (c *Catalog) Documents() []Document {
	return []Document{
		c.GlobalConfig,
		c.SiteConfig,
		c.Sections,
		c.FAQ,
		c.Testimonials,
		c.Gallery,
		c.Header,
		c.SEO,
		c.Webhook,
		c.Leads,
	}
}

// Document returns the repository stored under key
func (c *Catalog) Document(key string) (Document, bool) {
	d, ok := c.byKey[key]
	return d, ok
}
