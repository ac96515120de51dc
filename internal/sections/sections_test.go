package sections_test

import (
	"context"
	"errors"
	"testing"

	"github.com/localnerve/jam-build-landing/internal/documents"
	"github.com/localnerve/jam-build-landing/internal/sections"
	"github.com/localnerve/jam-build-landing/internal/storage"
	"github.com/localnerve/jam-build-landing/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func static(content any) sections.Renderer {
	return func(context.Context, documents.Section) (any, bool, error) {
		return content, true, nil
	}
}

func components(mounted []sections.Mounted) []string {
	out := make([]string, 0, len(mounted))
	for _, m := range mounted {
		out = append(out, m.Component)
	}
	return out
}

func TestRenderOrdersByOrderField(t *testing.T) {
	reg := documents.SectionRegistry{
		{ID: "c", Component: "C", Enabled: true, Order: 2},
		{ID: "a", Component: "A", Enabled: true, Order: 0},
		{ID: "b", Component: "B", Enabled: true, Order: 1},
	}
	renderers := map[string]sections.Renderer{"A": static(nil), "B": static(nil), "C": static(nil)}

	got := sections.Render(context.Background(), reg, renderers, testutil.NewLogger(t))
	assert.Equal(t, []string{"A", "B", "C"}, components(got))
	assert.Equal(t, []int{0, 1, 2}, []int{got[0].Order, got[1].Order, got[2].Order})
}

func TestRenderTieKeepsArrayPosition(t *testing.T) {
	reg := documents.SectionRegistry{
		{ID: "x", Component: "X", Enabled: true, Order: 1},
		{ID: "y", Component: "Y", Enabled: true, Order: 1},
		{ID: "z", Component: "Z", Enabled: true, Order: 0},
	}
	renderers := map[string]sections.Renderer{"X": static(nil), "Y": static(nil), "Z": static(nil)}

	got := sections.Render(context.Background(), reg, renderers, testutil.NewLogger(t))
	assert.Equal(t, []string{"Z", "X", "Y"}, components(got))
}

func TestRenderSkipsDisabledUnknownHiddenAndFailing(t *testing.T) {
	reg := documents.SectionRegistry{
		{ID: "ok", Component: "OK", Enabled: true, Order: 0},
		{ID: "off", Component: "OK", Enabled: false, Order: 1},
		{ID: "unknown", Component: "Nope", Enabled: true, Order: 2},
		{ID: "hidden", Component: "Hidden", Enabled: true, Order: 3},
		{ID: "broken", Component: "Broken", Enabled: true, Order: 4},
		{ID: "last", Component: "OK", Enabled: true, Order: 5},
	}
	renderers := map[string]sections.Renderer{
		"OK": static("content"),
		"Hidden": func(context.Context, documents.Section) (any, bool, error) {
			return nil, false, nil
		},
		"Broken": func(context.Context, documents.Section) (any, bool, error) {
			return nil, false, errors.New("boom")
		},
	}

	got := sections.Render(context.Background(), reg, renderers, testutil.NewLogger(t))
	require.Len(t, got, 2)
	assert.Equal(t, "ok", got[0].ID)
	assert.Equal(t, "last", got[1].ID)
	assert.Equal(t, "content", got[1].Content)
}

func TestToggleTwiceRestores(t *testing.T) {
	reg := documents.DefaultSections()

	once, err := sections.Toggle(reg, "faq")
	require.NoError(t, err)
	assert.False(t, once[once.Find("faq")].Enabled)
	assert.True(t, reg[reg.Find("faq")].Enabled, "input is not modified")

	twice, err := sections.Toggle(once, "faq")
	require.NoError(t, err)
	assert.Equal(t, reg, twice)

	_, err = sections.Toggle(reg, "missing")
	assert.ErrorIs(t, err, sections.ErrUnknownSection)
}

func TestMoveReassignsOrderToIndex(t *testing.T) {
	reg := documents.SectionRegistry{
		{ID: "a", Order: 0},
		{ID: "b", Order: 1},
		{ID: "c", Order: 2},
	}

	got, err := sections.Move(reg, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a"}, []string{got[0].ID, got[1].ID, got[2].ID})
	for i, s := range got {
		assert.Equal(t, i, s.Order)
	}

	got, err = sections.Move(got, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, reg, got)
}

func TestMoveOutOfRange(t *testing.T) {
	_, err := sections.Move(documents.DefaultSections(), 0, 8)
	assert.ErrorIs(t, err, sections.ErrIndexOutOfRange)
	_, err = sections.Move(documents.DefaultSections(), -1, 0)
	assert.ErrorIs(t, err, sections.ErrIndexOutOfRange)
}

type discard struct{}

func (discard) Publish(string, any) {}

func TestAdmin(t *testing.T) {
	ctx := context.Background()
	log := testutil.NewLogger(t)
	store := storage.NewStore(testutil.NewDB(t), log)
	catalog := documents.NewCatalog(store, discard{}, log)
	admin := sections.NewAdmin(catalog.Sections)

	reg, version, err := admin.Toggle(ctx, "galeria")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), version)
	assert.False(t, reg[reg.Find("galeria")].Enabled)

	reg, _, err = admin.Move(ctx, 7, 0)
	require.NoError(t, err)
	assert.Equal(t, "contato", reg[0].ID)
	assert.Equal(t, "contato", admin.List(ctx)[0].ID)

	_, version, err = admin.Toggle(ctx, "missing")
	assert.ErrorIs(t, err, sections.ErrUnknownSection)
	assert.Zero(t, version)

	reg, _, err = admin.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, documents.DefaultSections(), reg)
	assert.Equal(t, documents.DefaultSections(), catalog.Sections.Get(ctx))
}
