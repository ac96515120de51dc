package collections_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/localnerve/jam-build-landing/internal/collections"
	"github.com/localnerve/jam-build-landing/internal/documents"
	"github.com/localnerve/jam-build-landing/internal/storage"
	"github.com/localnerve/jam-build-landing/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	mu     sync.Mutex
	topics []string
}

func (c *counter) Publish(topic string, _ any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.topics = append(c.topics, topic)
}

func (c *counter) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.topics)
}

func setup(t *testing.T) (*documents.Catalog, *counter) {
	t.Helper()
	log := testutil.NewLogger(t)
	pub := &counter{}
	return documents.NewCatalog(storage.NewStore(testutil.NewDB(t), log), pub, log), pub
}

func TestAddAppendsPlaceholder(t *testing.T) {
	ctx := context.Background()
	catalog, pub := setup(t)
	admin := collections.NewAdmin(catalog.FAQ, documents.NewFAQItem)

	item, doc, version, err := admin.Add(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), version)
	assert.Len(t, doc.Items, len(documents.DefaultFAQ().Items)+1)
	assert.Equal(t, item, doc.Items[len(doc.Items)-1])
	assert.Equal(t, "Nova pergunta", item.Question)
	assert.Regexp(t, `^\d+-[0-9a-f]{8}$`, item.ID)
	assert.Equal(t, []string{"faq-updated"}, pub.topics)

	second, _, _, err := admin.Add(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, item.ID, second.ID)
}

func TestUpdateField(t *testing.T) {
	ctx := context.Background()
	catalog, pub := setup(t)
	admin := collections.NewAdmin(catalog.Testimonials, documents.NewTestimonial)

	doc, _, err := admin.Update(ctx, "2", "empresa", "Nova Empresa")
	require.NoError(t, err)
	assert.Equal(t, "Nova Empresa", doc.Items[1].Company)
	assert.Equal(t, "Nova Empresa", catalog.Testimonials.Get(ctx).Items[1].Company)
	assert.Equal(t, 1, pub.count())

	_, version, err := admin.Update(ctx, "404", "empresa", "x")
	require.NoError(t, err)
	assert.Zero(t, version, "unknown id is a no-op")
	assert.Equal(t, 1, pub.count())

	_, _, err = admin.Update(ctx, "2", "id", "x")
	assert.ErrorIs(t, err, collections.ErrUnknownField)
	_, _, err = admin.Update(ctx, "2", "salary", "x")
	assert.ErrorIs(t, err, collections.ErrUnknownField)
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	ctx := context.Background()
	catalog, pub := setup(t)
	admin := collections.NewAdmin(catalog.Gallery, documents.NewGalleryItem)

	_, _, err := admin.Delete(ctx, "1", false)
	assert.ErrorIs(t, err, collections.ErrConfirmationRequired)
	assert.Zero(t, pub.count())

	doc, _, err := admin.Delete(ctx, "1", true)
	require.NoError(t, err)
	assert.Equal(t, -1, doc.Index("1"))
	assert.Len(t, doc.Items, 5)

	_, version, err := admin.Delete(ctx, "1", true)
	require.NoError(t, err)
	assert.Zero(t, version)
	assert.Equal(t, 1, pub.count())
}

func TestDeleteEveryItemKeepsEmptyList(t *testing.T) {
	ctx := context.Background()
	catalog, _ := setup(t)
	admin := collections.NewAdmin(catalog.FAQ, documents.NewFAQItem)

	for _, item := range documents.DefaultFAQ().Items {
		_, _, err := admin.Delete(ctx, item.ID, true)
		require.NoError(t, err)
	}
	assert.Empty(t, catalog.FAQ.Get(ctx).Items)
}

func TestSetConfig(t *testing.T) {
	ctx := context.Background()
	catalog, _ := setup(t)
	admin := collections.NewAdmin(catalog.FAQ, documents.NewFAQItem)

	doc, _, err := admin.SetConfig(ctx, "active", "false")
	require.NoError(t, err)
	assert.False(t, doc.Config.Active)
	assert.Len(t, doc.Items, 6, "config is independent of the items")

	doc, _, err = admin.SetConfig(ctx, "title", "Dúvidas")
	require.NoError(t, err)
	assert.Equal(t, "Dúvidas", doc.Config.Title)

	_, _, err = admin.SetConfig(ctx, "active", "maybe")
	assert.ErrorIs(t, err, collections.ErrInvalidValue)
	_, _, err = admin.SetConfig(ctx, "color", "red")
	assert.ErrorIs(t, err, collections.ErrUnknownField)
}

func TestMoveGalleryItem(t *testing.T) {
	ctx := context.Background()
	catalog, _ := setup(t)
	admin := collections.NewAdmin(catalog.Gallery, documents.NewGalleryItem)

	doc, _, err := admin.Move(ctx, 0, 5)
	require.NoError(t, err)
	ids := make([]string, 0, len(doc.Items))
	for _, item := range doc.Items {
		ids = append(ids, item.ID)
	}
	assert.Equal(t, "2,3,4,5,6,1", strings.Join(ids, ","))

	_, _, err = admin.Move(ctx, 0, 6)
	assert.ErrorIs(t, err, collections.ErrIndexOutOfRange)
}

func TestFields(t *testing.T) {
	assert.Equal(t, []string{"question", "answer"}, collections.Fields[documents.FAQItem]())
	assert.Equal(t, []string{"imagem", "titulo", "descricao"}, collections.Fields[documents.GalleryItem]())
}

func TestSaveIndicator(t *testing.T) {
	s := collections.NewSaveIndicator(20 * time.Millisecond)
	assert.Equal(t, collections.StatusIdle, s.Status())

	s.Saving()
	assert.Equal(t, collections.StatusSaving, s.Status())
	s.Done(nil)
	assert.Equal(t, collections.StatusSaved, s.Status())
	assert.Eventually(t, func() bool {
		return s.Status() == collections.StatusIdle
	}, time.Second, 5*time.Millisecond)

	s.Saving()
	s.Done(errors.New("disk full"))
	assert.Equal(t, collections.StatusIdle, s.Status())
}

func TestAddKeepsItemsWithMistypedFields(t *testing.T) {
	ctx := context.Background()
	log := testutil.NewLogger(t)
	store := storage.NewStore(testutil.NewDB(t), log)
	catalog := documents.NewCatalog(store, &counter{}, log)

	_, err := store.Save(ctx, storage.KeyGallery, json.RawMessage(`{
		"galeria":[
			{"id":"a","imagem":"/a.png","titulo":"Primavera","descricao":"um"},
			{"id":"b","imagem":"/b.png","titulo":2024,"descricao":"dois"}
		],
		"config":{"title":"Minha Galeria","subtitle":"","active":true}
	}`))
	require.NoError(t, err)

	admin := collections.NewAdmin(catalog.Gallery, documents.NewGalleryItem)
	item, doc, _, err := admin.Add(ctx)
	require.NoError(t, err)

	require.Len(t, doc.Items, 3)
	assert.Equal(t, "a", doc.Items[0].ID)
	assert.Equal(t, "b", doc.Items[1].ID)
	assert.Equal(t, "/b.png", doc.Items[1].Image)
	assert.Empty(t, doc.Items[1].Title)
	assert.Equal(t, item.ID, doc.Items[2].ID)
	assert.Equal(t, "Minha Galeria", doc.Config.Title)

	stored := catalog.Gallery.Get(ctx)
	assert.Len(t, stored.Items, 3)
}
