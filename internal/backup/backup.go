// backup.go
//
// Landing page content service with lead capture
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of jam-build-landing.
// jam-build-landing is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// jam-build-landing is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with jam-build-landing.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

// Package backup exports, imports and clears the landing page documents.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/localnerve/jam-build-landing/internal/documents"
	"github.com/localnerve/jam-build-landing/internal/storage"
	"go.uber.org/zap"
)

// Bundle is the export file. Absent documents are null.
type Bundle struct {
	FAQ            json.RawMessage `json:"faq"`
	Testimonials   json.RawMessage `json:"depoimentos"`
	Gallery        json.RawMessage `json:"galeria"`
	Header         json.RawMessage `json:"header"`
	GlobalConfig   json.RawMessage `json:"globalConfig"`
	SiteConfig     json.RawMessage `json:"siteConfig"`
	SectionsConfig json.RawMessage `json:"sectionsConfig"`
	SEOConfig      json.RawMessage `json:"seoConfig"`
	WebhookConfig  json.RawMessage `json:"webhookConfig"`
	Leads          json.RawMessage `json:"leads"`
	ExportDate     string          `json:"exportDate"`
}

// fields pairs each bundle field with its storage key
func (b *Bundle) fields() []struct {
	key string
	raw *json.RawMessage
} {
	return []struct {
		key string
		raw *json.RawMessage
	}{
		{storage.KeyFAQ, &b.FAQ},
		{storage.KeyTestimonials, &b.Testimonials},
		{storage.KeyGallery, &b.Gallery},
		{storage.KeyHeader, &b.Header},
		{storage.KeyGlobalConfig, &b.GlobalConfig},
		{storage.KeySiteConfig, &b.SiteConfig},
		{storage.KeySectionsConfig, &b.SectionsConfig},
		{storage.KeySEOConfig, &b.SEOConfig},
		{storage.KeyWebhookConfig, &b.WebhookConfig},
		{storage.KeyLeads, &b.Leads},
	}
}

// Filename names an export made at t
func Filename(t time.Time) string {
	return "landing-cms-backup-" + t.UTC().Format(time.DateOnly) + ".json"
}

// Service runs backup operations over the substrate
type Service struct {
	store   storage.Substrate
	catalog *documents.Catalog
	pub     documents.Publisher
	log     *zap.Logger
	now     func() time.Time
}

func NewService(store storage.Substrate, catalog *documents.Catalog, pub documents.Publisher, log *zap.Logger) *Service {
	return &Service{
		store:   store,
		catalog: catalog,
		pub:     pub,
		log:     log.Named("backup"),
		now:     time.Now,
	}
}

// Export copies every stored document as is
func (s *Service) Export(ctx context.Context) Bundle {
	b := Bundle{ExportDate: s.now().UTC().Format(time.RFC3339)}
	for _, f := range b.fields() {
		if raw, found := s.store.Load(ctx, f.key); found {
			*f.raw = raw
		}
	}
	return b
}

// ImportResult lists the keys written by Import
type ImportResult struct {
	Imported []string `json:"imported"`
}

// Import saves every non-null document of the bundle, publishing each once.
// A rejected document does not stop the others, the errors are joined.
func (s *Service) Import(ctx context.Context, b Bundle) (ImportResult, error) {
	var (
		res  ImportResult
		errs []error
	)
	for _, f := range b.fields() {
		raw := *f.raw
		if len(raw) == 0 || string(raw) == "null" {
			continue
		}
		doc, ok := s.catalog.Document(f.key)
		if !ok {
			continue
		}
		if _, _, err := doc.ReplaceJSON(ctx, raw); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", f.key, err))
			continue
		}
		res.Imported = append(res.Imported, f.key)
	}

	s.log.Info("backup imported", zap.Strings("keys", res.Imported), zap.Int("failed", len(errs)))
	return res, errors.Join(errs...)
}

// Clear removes the content documents. Leads and the webhook config are kept.
// Each cleared topic is published with its default document.
func (s *Service) Clear(ctx context.Context) ([]string, error) {
	keys := storage.ContentKeys()
	if err := s.store.Remove(ctx, keys...); err != nil {
		return nil, err
	}

	for _, key := range keys {
		if doc, ok := s.catalog.Document(key); ok {
			s.pub.Publish(doc.Topic(), doc.DefaultAny())
		}
	}
	s.log.Info("content cleared", zap.Strings("keys", keys))
	return keys, nil
}
