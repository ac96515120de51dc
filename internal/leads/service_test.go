package leads_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/localnerve/jam-build-landing/internal/documents"
	"github.com/localnerve/jam-build-landing/internal/leads"
	"github.com/localnerve/jam-build-landing/internal/storage"
	"github.com/localnerve/jam-build-landing/internal/testutil"
	"github.com/localnerve/jam-build-landing/internal/types"
	"github.com/localnerve/jam-build-landing/internal/webhook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chromeDesktop = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

type topics struct {
	mu   sync.Mutex
	seen []string
}

func (t *topics) Publish(topic string, _ any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seen = append(t.seen, topic)
}

func (t *topics) count(topic string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, s := range t.seen {
		if s == topic {
			n++
		}
	}
	return n
}

type fixture struct {
	svc     *leads.Service
	catalog *documents.Catalog
	store   *storage.Store
	pub     *topics
}

func newFixture(t *testing.T, opts leads.Options) *fixture {
	t.Helper()
	log := testutil.NewLogger(t)
	db := testutil.NewDB(t)
	pub := &topics{}
	store := storage.NewStore(db, log)
	catalog := documents.NewCatalog(store, pub, log)
	svc := leads.NewService(catalog, webhook.NewClient(0, log), storage.NewAttemptLog(db), opts, log)
	return &fixture{svc: svc, catalog: catalog, store: store, pub: pub}
}

func (f *fixture) activate(t *testing.T, url string, timeoutMs uint64) {
	t.Helper()
	cfg := documents.DefaultWebhookConfig()
	cfg.URL = url
	cfg.Active = true
	cfg.Timeout = types.FlexUint64(timeoutMs)
	_, err := f.catalog.Webhook.Save(context.Background(), cfg)
	require.NoError(t, err)
}

func validInput() leads.Input {
	return leads.Input{
		Name:      "  Ana Souza ",
		Phone:     "(11) 98888-7777",
		TaxID:     documents.TaxIDYes,
		StoreType: "online",
		Source:    "instagram",
		UserAgent: chromeDesktop,
	}
}

func TestSubmitInvalidCreatesNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, leads.Options{})

	in := validInput()
	in.Phone = "123"
	in.Name = " "
	_, err := f.svc.Submit(ctx, in)

	var verr *leads.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "nome")
	assert.Contains(t, verr.Fields, "whatsapp")
	assert.Empty(t, f.catalog.Leads.Get(ctx))
	assert.Zero(t, f.pub.count("leads-updated"))
}

func TestSubmitInactiveWebhookIsSkipped(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, leads.Options{})

	lead, err := f.svc.Submit(ctx, validInput())
	require.NoError(t, err)
	assert.Equal(t, documents.StatusSkipped, lead.Status)
	assert.Equal(t, "Ana Souza", lead.Name)
	assert.Equal(t, 1, lead.Attempts)
	assert.Equal(t, leads.DeviceDesktop, lead.Device)
	assert.Equal(t, "Chrome", lead.Browser)
	assert.Regexp(t, `^\d{13}[0-9a-z]{9}$`, lead.ID)

	stored := f.catalog.Leads.Get(ctx)
	require.Len(t, stored, 1)
	assert.Equal(t, documents.StatusSkipped, stored[0].Status)

	attempts, err := f.svc.Attempts(ctx, lead.ID)
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, string(webhook.OutcomeSkipped), attempts[0].Outcome)
}

func TestSubmitDelivers(t *testing.T) {
	ctx := context.Background()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"id_lead":"abc"}`))
	}))
	defer srv.Close()

	f := newFixture(t, leads.Options{})
	f.activate(t, srv.URL, 1000)

	lead, err := f.svc.Submit(ctx, validInput())
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, documents.StatusSuccess, lead.Status)
	require.NotNil(t, lead.Response)
	assert.Equal(t, "abc", lead.Response.RemoteID.String())
	assert.Equal(t, 200, lead.Response.HTTPStatus)

	stored, err := f.svc.Get(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, documents.StatusSuccess, stored.Status)
	assert.Equal(t, 2, f.pub.count("leads-updated"), "persisted once pending, once with the outcome")
}

func TestSubmitDeliveryFailureStillPersists(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	f := newFixture(t, leads.Options{})
	f.activate(t, url, 1000)

	lead, err := f.svc.Submit(ctx, validInput())
	require.NoError(t, err)
	assert.Equal(t, documents.StatusError, lead.Status)

	stored := f.catalog.Leads.Get(ctx)
	require.Len(t, stored, 1)
	assert.Equal(t, documents.StatusError, stored[0].Status)
	assert.NotEmpty(t, stored[0].Response.Error)
}

func TestSubmitTimeout(t *testing.T) {
	ctx := context.Background()
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	f := newFixture(t, leads.Options{})
	f.activate(t, srv.URL, 100)

	start := time.Now()
	lead, err := f.svc.Submit(ctx, validInput())
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, documents.StatusError, lead.Status)
	assert.Equal(t, "timeout after 100ms", lead.Response.Error)

	attempts, err := f.svc.Attempts(ctx, lead.ID)
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.True(t, attempts[0].TimedOut)
}

func TestResendIncrementsAttempts(t *testing.T) {
	ctx := context.Background()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f := newFixture(t, leads.Options{})
	lead, err := f.svc.Submit(ctx, validInput())
	require.NoError(t, err)
	require.Equal(t, 1, lead.Attempts)

	f.activate(t, srv.URL, 1000)

	var seen []int
	for i := 0; i < 3; i++ {
		lead, err = f.svc.Resend(ctx, lead.ID)
		require.NoError(t, err)
		seen = append(seen, lead.Attempts)
	}
	assert.Equal(t, []int{2, 3, 4}, seen)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, documents.StatusSuccess, lead.Status)

	attempts, err := f.svc.Attempts(ctx, lead.ID)
	require.NoError(t, err)
	assert.Len(t, attempts, 4)

	_, err = f.svc.Resend(ctx, "missing")
	assert.ErrorIs(t, err, leads.ErrNotFound)
}

func TestBulkResendIsIndependent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, leads.Options{})

	lead, err := f.svc.Submit(ctx, validInput())
	require.NoError(t, err)

	results := f.svc.BulkResend(ctx, []string{"missing", lead.ID})
	require.Len(t, results, 2)
	assert.NotEmpty(t, results[0].Error)
	assert.Equal(t, lead.ID, results[1].ID)
	assert.Equal(t, documents.StatusSkipped, results[1].Status)
	assert.Empty(t, results[1].Error)
}

func TestTestWebhookPersistsNothing(t *testing.T) {
	ctx := context.Background()
	var name string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body webhook.Payload
		_ = jsonDecode(r, &body)
		name = body.Name
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	f := newFixture(t, leads.Options{})
	_, err := f.svc.TestWebhook(ctx)
	assert.ErrorIs(t, err, leads.ErrWebhookInactive)

	f.activate(t, srv.URL, 1000)
	res, err := f.svc.TestWebhook(ctx)
	require.NoError(t, err)
	assert.True(t, res.Success())
	assert.Equal(t, "Teste Webhook", name)
	assert.Empty(t, f.catalog.Leads.Get(ctx))
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, leads.Options{})
	lead, err := f.svc.Submit(ctx, validInput())
	require.NoError(t, err)

	_, err = f.svc.Delete(ctx, lead.ID, false)
	assert.ErrorIs(t, err, leads.ErrConfirmationRequired)

	deleted, err := f.svc.Delete(ctx, "missing", true)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = f.svc.Delete(ctx, lead.ID, true)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Empty(t, f.catalog.Leads.Get(ctx))

	attempts, err := f.svc.Attempts(ctx, lead.ID)
	require.NoError(t, err)
	assert.Empty(t, attempts)
}

func TestRequireTaxID(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, leads.Options{RequireTaxID: true})

	in := validInput()
	in.TaxID = documents.TaxIDNo
	_, err := f.svc.Submit(ctx, in)
	var verr *leads.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "temCnpj")
}

func TestListFilter(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, leads.Options{})

	a := validInput()
	_, err := f.svc.Submit(ctx, a)
	require.NoError(t, err)

	b := validInput()
	b.Name = "Bruno"
	b.Phone = "21977776666"
	b.Source = "Google"
	b.Location = "Rio de Janeiro"
	_, err = f.svc.Submit(ctx, b)
	require.NoError(t, err)

	assert.Len(t, f.svc.List(ctx, leads.Filter{}), 2)
	assert.Len(t, f.svc.List(ctx, leads.Filter{Search: "google"}), 1)
	assert.Len(t, f.svc.List(ctx, leads.Filter{Search: "rio"}), 1)
	assert.Len(t, f.svc.List(ctx, leads.Filter{Search: "98888"}), 1)
	assert.Len(t, f.svc.List(ctx, leads.Filter{Status: documents.StatusSkipped}), 2)
	assert.Empty(t, f.svc.List(ctx, leads.Filter{Status: documents.StatusSuccess}))
}

func TestSubmitInactiveWebhookWithURLMakesNoCall(t *testing.T) {
	ctx := context.Background()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f := newFixture(t, leads.Options{})
	cfg := documents.DefaultWebhookConfig()
	cfg.URL = srv.URL
	cfg.Active = false
	_, err := f.catalog.Webhook.Save(ctx, cfg)
	require.NoError(t, err)

	lead, err := f.svc.Submit(ctx, validInput())
	require.NoError(t, err)
	assert.Equal(t, documents.StatusSkipped, lead.Status)

	resent, err := f.svc.Resend(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, documents.StatusSkipped, resent.Status)
	assert.Zero(t, calls.Load())
}

func TestSubmitKeepsStoredLeadsWithMistypedFields(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, leads.Options{})

	legacy := `[
		{"id":"1700000000000abc","nome":"Bruno","whatsapp":"11911112222","status":"sucesso","tentativas":1,
		 "webhookResponse":{"id_lead":12345,"status":200,"response":{"id":12345}}},
		{"id":"1700000000001def","nome":"Carla","whatsapp":"11933334444","status":"erro","tentativas":"2"}
	]`
	_, err := f.store.Save(ctx, storage.KeyLeads, json.RawMessage(legacy))
	require.NoError(t, err)

	before := f.catalog.Leads.Get(ctx)
	require.Len(t, before, 2)
	assert.Equal(t, "12345", before[0].Response.RemoteID.String())
	assert.Equal(t, "Carla", before[1].Name)

	lead, err := f.svc.Submit(ctx, validInput())
	require.NoError(t, err)

	stored := f.catalog.Leads.Get(ctx)
	require.Len(t, stored, 3)
	ids := []string{stored[0].ID, stored[1].ID, stored[2].ID}
	assert.Contains(t, ids, "1700000000000abc")
	assert.Contains(t, ids, "1700000000001def")
	assert.Contains(t, ids, lead.ID)
}

func TestBulkResendBoundsConcurrency(t *testing.T) {
	ctx := context.Background()
	var inFlight, peak atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(100 * time.Millisecond)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	f := newFixture(t, leads.Options{ResendConcurrency: 2})
	var ids []string
	for i := 0; i < 5; i++ {
		lead, err := f.svc.Submit(ctx, validInput())
		require.NoError(t, err)
		ids = append(ids, lead.ID)
	}
	f.activate(t, srv.URL, 2000)

	results := f.svc.BulkResend(ctx, ids)
	require.Len(t, results, len(ids))
	for i, r := range results {
		assert.Equal(t, ids[i], r.ID)
		assert.Equal(t, documents.StatusSuccess, r.Status)
		assert.Empty(t, r.Error)
	}
	assert.Equal(t, int32(2), peak.Load())

	for _, l := range f.catalog.Leads.Get(ctx) {
		assert.Equal(t, 2, l.Attempts)
	}
}
