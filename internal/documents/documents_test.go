package documents_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/localnerve/jam-build-landing/internal/documents"
	"github.com/localnerve/jam-build-landing/internal/storage"
	"github.com/localnerve/jam-build-landing/internal/testutil"
	"github.com/localnerve/jam-build-landing/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	topic   string
	payload any
}

type recorder struct {
	mu     sync.Mutex
	events []published
}

func (r *recorder) Publish(topic string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, published{topic, payload})
}

func (r *recorder) topics() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.topic)
	}
	return out
}

func setup(t *testing.T) (*documents.Catalog, *storage.Store, *recorder) {
	t.Helper()
	store := storage.NewStore(testutil.NewDB(t), testutil.NewLogger(t))
	rec := &recorder{}
	return documents.NewCatalog(store, rec, testutil.NewLogger(t)), store, rec
}

func TestEmptyStoreReturnsDefaults(t *testing.T) {
	ctx := context.Background()
	catalog, _, rec := setup(t)

	assert.Equal(t, documents.DefaultGlobalConfig(), catalog.GlobalConfig.Get(ctx))
	assert.Equal(t, documents.DefaultSiteConfig(), catalog.SiteConfig.Get(ctx))
	assert.Equal(t, documents.DefaultSections(), catalog.Sections.Get(ctx))
	assert.Equal(t, documents.DefaultFAQ(), catalog.FAQ.Get(ctx))
	assert.Equal(t, documents.DefaultTestimonials(), catalog.Testimonials.Get(ctx))
	assert.Equal(t, documents.DefaultGallery(), catalog.Gallery.Get(ctx))
	assert.Equal(t, documents.DefaultHeaderData(), catalog.Header.Get(ctx))
	assert.Equal(t, documents.DefaultWebhookConfig(), catalog.Webhook.Get(ctx))
	assert.Equal(t, documents.DefaultLeads(), catalog.Leads.Get(ctx))
	assert.Empty(t, rec.topics(), "reads never publish")
}

func TestDefaultsAreIndependentCopies(t *testing.T) {
	ctx := context.Background()
	catalog, _, _ := setup(t)

	faq := catalog.FAQ.Get(ctx)
	faq.Items[0].Question = "changed"

	assert.Equal(t, documents.DefaultFAQ(), catalog.FAQ.Get(ctx))
}

func TestSaveRoundTripAndPublish(t *testing.T) {
	ctx := context.Background()
	catalog, _, rec := setup(t)

	faq := catalog.FAQ.Get(ctx)
	faq.Items = append(faq.Items, documents.FAQItem{ID: "7", Question: "Q?", Answer: "A."})
	faq.Config.Active = false

	version, err := catalog.FAQ.Save(ctx, faq)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), version)

	assert.Equal(t, faq, catalog.FAQ.Get(ctx))
	assert.Equal(t, []string{"faq-updated"}, rec.topics())
	assert.Equal(t, faq, rec.events[0].payload)
}

func TestPartialDocumentMergesOntoDefaults(t *testing.T) {
	ctx := context.Background()
	catalog, store, _ := setup(t)

	_, err := store.Save(ctx, storage.KeyGlobalConfig, json.RawMessage(`{"colors":{"primary":"#000000"}}`))
	require.NoError(t, err)

	got := catalog.GlobalConfig.Get(ctx)
	want := documents.DefaultGlobalConfig()
	want.Colors.Primary = "#000000"
	assert.Equal(t, want, got)
}

func TestCollectionWithoutItemsKeepsDefaultItems(t *testing.T) {
	ctx := context.Background()
	catalog, store, _ := setup(t)

	_, err := store.Save(ctx, storage.KeyGallery, json.RawMessage(`{"config":{"title":"Outono"}}`))
	require.NoError(t, err)

	got := catalog.Gallery.Get(ctx)
	assert.Equal(t, documents.DefaultGallery().Items, got.Items)
	assert.Equal(t, "Outono", got.Config.Title)
	assert.Equal(t, documents.DefaultGallery().Config.Subtitle, got.Config.Subtitle)
}

func TestStoredListReplacesDefaultList(t *testing.T) {
	ctx := context.Background()
	catalog, store, _ := setup(t)

	_, err := store.Save(ctx, storage.KeySectionsConfig, json.RawMessage(`[{"id":"faq","component":"FAQSection","enabled":true,"order":0}]`))
	require.NoError(t, err)

	sections := catalog.Sections.Get(ctx)
	require.Len(t, sections, 1)
	assert.Equal(t, "faq", sections[0].ID)
}

func TestWrongFieldTypeKeepsRestOfDocument(t *testing.T) {
	ctx := context.Background()
	catalog, store, _ := setup(t)

	_, err := store.Save(ctx, storage.KeyHeader, json.RawMessage(`{"title":"Olá","overlayOpacity":"high"}`))
	require.NoError(t, err)

	got := catalog.Header.Get(ctx)
	assert.Equal(t, "Olá", got.Title)
	assert.Equal(t, 0.5, got.OverlayOpacity)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	catalog, _, rec := setup(t)

	header, version, err := catalog.Header.Update(ctx, func(h documents.HeaderData) (documents.HeaderData, bool, error) {
		h.Title = "Novo"
		return h, true, nil
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), version)
	assert.Equal(t, "Novo", header.Title)
	assert.Equal(t, "Novo", catalog.Header.Get(ctx).Title)

	_, version, err = catalog.Header.Update(ctx, func(h documents.HeaderData) (documents.HeaderData, bool, error) {
		return h, false, nil
	})
	require.NoError(t, err)
	assert.Zero(t, version)
	assert.Equal(t, []string{"header-updated"}, rec.topics(), "unchanged updates do not publish")
}

func TestReplaceJSONRejectsWrongShape(t *testing.T) {
	ctx := context.Background()
	catalog, _, rec := setup(t)

	doc, ok := catalog.Document(storage.KeyWebhookConfig)
	require.True(t, ok)

	_, _, err := doc.ReplaceJSON(ctx, json.RawMessage(`{"url": 42}`))
	assert.Error(t, err)
	assert.Empty(t, rec.topics())

	v, _, err := doc.ReplaceJSON(ctx, json.RawMessage(`{"url":"https://hooks.example.com","ativo":true,"timeout":"2500"}`))
	require.NoError(t, err)
	cfg := v.(documents.WebhookConfig)
	assert.True(t, cfg.Enabled())
	assert.Equal(t, 2500*time.Millisecond, cfg.TimeoutDuration(documents.DefaultWebhookTimeout))
	assert.Equal(t, map[string]string{"Content-Type": "application/json"}, cfg.Headers)
}

func TestWebhookHeadersAreReplaced(t *testing.T) {
	cfg := documents.DefaultWebhookConfig()
	require.NoError(t, json.Unmarshal([]byte(`{"headers":{"X-Token":"abc"}}`), &cfg))
	assert.Equal(t, map[string]string{"X-Token": "abc"}, cfg.Headers)
}

func TestCatalogCoversEveryKey(t *testing.T) {
	catalog, _, _ := setup(t)
	for _, key := range storage.AllKeys() {
		_, ok := catalog.Document(key)
		assert.True(t, ok, key)
	}
	assert.Len(t, catalog.Documents(), len(storage.AllKeys()))
}

func TestApplyPreset(t *testing.T) {
	g, err := documents.DefaultGlobalConfig().ApplyPreset("Tema Escuro")
	require.NoError(t, err)
	assert.Equal(t, "#111827", g.Colors.Background)
	assert.Equal(t, "#111827", g.Colors.Text.Primary)

	_, err = g.ApplyPreset("nope")
	assert.Error(t, err)
}

func TestHeaderClamp(t *testing.T) {
	h := documents.DefaultHeaderData()
	h.OverlayOpacity = 3
	assert.Equal(t, 1.0, h.Clamp().OverlayOpacity)
	h.OverlayOpacity = -1
	assert.Equal(t, 0.0, h.Clamp().OverlayOpacity)
}

func TestMistypedSectionKeepsRegistry(t *testing.T) {
	ctx := context.Background()
	catalog, store, _ := setup(t)

	_, err := store.Save(ctx, storage.KeySectionsConfig, json.RawMessage(`[
		{"id":"faq","component":"FAQSection","enabled":true,"order":"0"},
		{"id":"contato","component":"ContatoSection","enabled":true,"order":1},
		42
	]`))
	require.NoError(t, err)

	sections := catalog.Sections.Get(ctx)
	require.Len(t, sections, 2)
	assert.Equal(t, "faq", sections[0].ID)
	assert.True(t, sections[0].Enabled)
	assert.Zero(t, sections[0].Order)
	assert.Equal(t, "contato", sections[1].ID)
	assert.Equal(t, 1, sections[1].Order)
}

func TestMistypedLeadKeepsList(t *testing.T) {
	ctx := context.Background()
	catalog, store, _ := setup(t)

	_, err := store.Save(ctx, storage.KeyLeads, json.RawMessage(`[
		{"id":"1","nome":"Ana","whatsapp":"11999999999","tentativas":"três","status":"erro"},
		{"id":"2","nome":"Beto","whatsapp":"11988888888","status":"sucesso","tentativas":1,
		 "webhookResponse":{"id_lead":987,"status":201,"response":null}}
	]`))
	require.NoError(t, err)

	list := catalog.Leads.Get(ctx)
	require.Len(t, list, 2)
	assert.Equal(t, "Ana", list[0].Name)
	assert.Equal(t, documents.StatusError, list[0].Status)
	assert.Zero(t, list[0].Attempts)
	require.NotNil(t, list[1].Response)
	assert.Equal(t, "987", list[1].Response.RemoteID.String())
	assert.Equal(t, 201, list[1].Response.HTTPStatus)
}

func TestMistypedItemKeepsCollection(t *testing.T) {
	ctx := context.Background()
	catalog, store, _ := setup(t)

	_, err := store.Save(ctx, storage.KeyFAQ, json.RawMessage(`{
		"faqs":[{"id":"x","question":"Entregam?","answer":true},{"id":"y","question":"Parcelam?","answer":"Sim"}],
		"config":{"title":"Dúvidas","active":"yes"}
	}`))
	require.NoError(t, err)

	faq := catalog.FAQ.Get(ctx)
	require.Len(t, faq.Items, 2)
	assert.Equal(t, "Entregam?", faq.Items[0].Question)
	assert.Empty(t, faq.Items[0].Answer)
	assert.Equal(t, "Sim", faq.Items[1].Answer)
	assert.Equal(t, "Dúvidas", faq.Config.Title)
	assert.True(t, faq.Config.Active, "mistyped flag keeps its default")
}

func TestParseStillRejectsMistypedItems(t *testing.T) {
	catalog, _, _ := setup(t)

	_, err := catalog.Gallery.Parse(json.RawMessage(`{"galeria":[{"id":"a","titulo":2024}]}`))
	assert.ErrorIs(t, err, documents.ErrInvalidDocument)

	_, err = catalog.Leads.Parse(json.RawMessage(`[{"id":"1","webhookResponse":{"id_lead":12}}]`))
	assert.NoError(t, err, "numeric remote ids are accepted")
}

func TestWebhookTimeoutIsClamped(t *testing.T) {
	cfg := documents.DefaultWebhookConfig()
	require.NoError(t, json.Unmarshal([]byte(`{"timeout":18446744073709551615}`), &cfg))
	assert.Equal(t, documents.MaxWebhookTimeout, cfg.TimeoutDuration(documents.DefaultWebhookTimeout))

	cfg.Timeout = types.FlexUint64(documents.MaxWebhookTimeout.Milliseconds())
	assert.Equal(t, documents.MaxWebhookTimeout, cfg.TimeoutDuration(documents.DefaultWebhookTimeout))

	cfg.Timeout = 0
	assert.Equal(t, documents.DefaultWebhookTimeout, cfg.TimeoutDuration(documents.DefaultWebhookTimeout))
}
