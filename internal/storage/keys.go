package storage

import "strings"

// Document keys of the landing page substrate
const (
	KeyGlobalConfig   = "global-config"
	KeySiteConfig     = "site-config"
	KeySectionsConfig = "sections-config"
	KeyFAQ            = "faq-data"
	KeyTestimonials   = "depoimentos-data"
	KeyGallery        = "galeria-data"
	KeyHeader         = "header-data"
	KeyWebhookConfig  = "webhook-config"
	KeyLeads          = "leads-data"
	KeySEOConfig      = "seo-config"
)

// Topic returns the change notification topic for a document key.
// Data keys drop their "-data" suffix: faq-data publishes faq-updated.
func Topic(key string) string {
	return strings.TrimSuffix(key, "-data") + "-updated"
}

// ContentKeys are the documents readable without admin authorization
func ContentKeys() []string {
	return []string{
		KeyGlobalConfig,
		KeySiteConfig,
		KeySectionsConfig,
		KeyFAQ,
		KeyTestimonials,
		KeyGallery,
		KeyHeader,
		KeySEOConfig,
	}
}

// AllKeys lists every document key
func AllKeys() []string {
	return append(ContentKeys(), KeyWebhookConfig, KeyLeads)
}

// IsContentKey reports whether key is a public content document
func IsContentKey(key string) bool {
	for _, k := range ContentKeys() {
		if k == key {
			return true
		}
	}
	return false
}

// IsKnownKey reports whether key is any landing page document
func IsKnownKey(key string) bool {
	return IsContentKey(key) || key == KeyWebhookConfig || key == KeyLeads
}
