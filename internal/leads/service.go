// service.go
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

// Package leads captures contact form submissions and delivers them to the webhook.
package leads

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/localnerve/jam-build-landing/internal/documents"
	"github.com/localnerve/jam-build-landing/internal/metrics"
	"github.com/localnerve/jam-build-landing/internal/models"
	"github.com/localnerve/jam-build-landing/internal/storage"
	"github.com/localnerve/jam-build-landing/internal/webhook"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNotFound             = errors.New("lead not found")
	ErrConfirmationRequired = errors.New("delete requires confirmation")
	ErrWebhookInactive      = errors.New("webhook is not configured or inactive")
)

// Options tune submission handling
type Options struct {
	// RequireTaxID rejects submissions that answer "nao" to the CNPJ question
	RequireTaxID bool
	// ResendConcurrency bounds parallel deliveries in BulkResend, zero means DefaultResendConcurrency
	ResendConcurrency int
}

// DefaultResendConcurrency is the BulkResend fan-out when none is configured
const DefaultResendConcurrency = 4

// Service owns the lead list and its delivery lifecycle
type Service struct {
	leads    *documents.Repository[documents.LeadList]
	webhook  *documents.Repository[documents.WebhookConfig]
	client   *webhook.Client
	attempts *storage.AttemptLog
	opts     Options
	log      *zap.Logger
	now      func() time.Time
}

func NewService(catalog *documents.Catalog, client *webhook.Client, attempts *storage.AttemptLog, opts Options, log *zap.Logger) *Service {
	return &Service{
		leads:    catalog.Leads,
		webhook:  catalog.Webhook,
		client:   client,
		attempts: attempts,
		opts:     opts,
		log:      log.Named("leads"),
		now:      time.Now,
	}
}

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewID returns <unix-ms><9 random base36 chars>
func NewID(now time.Time) string {
	var b strings.Builder
	b.WriteString(strconv.FormatInt(now.UnixMilli(), 10))
	base := big.NewInt(int64(len(idAlphabet)))
	for i := 0; i < 9; i++ {
		n, err := rand.Int(rand.Reader, base)
		if err != nil {
			b.WriteByte(idAlphabet[now.UnixNano()%int64(len(idAlphabet))])
			continue
		}
		b.WriteByte(idAlphabet[n.Int64()])
	}
	return b.String()
}

// Submit validates and persists a new lead, then attempts delivery. A lead that
// passed validation is always persisted, whatever the delivery outcome.
func (s *Service) Submit(ctx context.Context, in Input) (documents.Lead, error) {
	if err := Validate(in, s.opts.RequireTaxID); err != nil {
		return documents.Lead{}, err
	}

	now := s.now().UTC()
	tel := Detect(in.UserAgent, s.log)
	lead := documents.Lead{
		ID:            NewID(now),
		Name:          strings.TrimSpace(in.Name),
		Phone:         strings.TrimSpace(in.Phone),
		TaxID:         in.TaxID,
		StoreType:     in.StoreType,
		SubmittedAt:   now,
		Status:        documents.StatusPending,
		Attempts:      1,
		LastAttemptAt: &now,
		Source:        strings.TrimSpace(in.Source),
		Device:        tel.Device,
		Browser:       tel.Browser,
		Location:      strings.TrimSpace(in.Location),
		TimeOnPage:    in.TimeOnPage,
		PagesVisited:  in.PagesVisited,
	}

	_, _, err := s.leads.Update(ctx, func(list documents.LeadList) (documents.LeadList, bool, error) {
		return append(list.Clone(), lead), true, nil
	})
	if err != nil {
		return lead, err
	}

	metrics.LeadsSubmitted.WithLabelValues(lead.Device).Inc()
	s.log.Info("lead captured", zap.String("lead", lead.ID), zap.String("device", lead.Device))

	return s.deliver(ctx, lead)
}

// Resend delivers an existing lead again. The lead is marked pending with an
// incremented attempt count before the request goes out.
func (s *Service) Resend(ctx context.Context, id string) (documents.Lead, error) {
	var lead documents.Lead
	_, _, err := s.leads.Update(ctx, func(list documents.LeadList) (documents.LeadList, bool, error) {
		i := list.Index(id)
		if i < 0 {
			return list, false, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		now := s.now().UTC()
		out := list.Clone()
		out[i].Attempts++
		out[i].Status = documents.StatusPending
		out[i].LastAttemptAt = &now
		lead = out[i]
		return out, true, nil
	})
	if err != nil {
		return lead, err
	}
	return s.deliver(ctx, lead)
}

// ResendResult is the outcome of one lead in a bulk resend
type ResendResult struct {
	ID     string               `json:"id"`
	Status documents.LeadStatus `json:"status,omitempty"`
	Error  string               `json:"error,omitempty"`
}

// BulkResend resends the leads with at most ResendConcurrency deliveries in
// flight. One failure does not stop the rest. Results follow the order of ids.
func (s *Service) BulkResend(ctx context.Context, ids []string) []ResendResult {
	limit := s.opts.ResendConcurrency
	if limit <= 0 {
		limit = DefaultResendConcurrency
	}

	results := make([]ResendResult, len(ids))
	var g errgroup.Group
	g.SetLimit(limit)
	for i, id := range ids {
		g.Go(func() error {
			lead, err := s.Resend(ctx, id)
			r := ResendResult{ID: id, Status: lead.Status}
			if err != nil {
				r.Error = err.Error()
			} else if lead.Response != nil && lead.Response.Error != "" {
				r.Error = lead.Response.Error
			}
			results[i] = r
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// TestWebhook posts a synthetic lead. Nothing is persisted.
func (s *Service) TestWebhook(ctx context.Context) (webhook.Result, error) {
	cfg := s.webhook.Get(ctx)
	if !cfg.Enabled() {
		return webhook.Result{Outcome: webhook.OutcomeSkipped}, ErrWebhookInactive
	}

	now := s.now().UTC()
	lead := documents.Lead{
		ID:          fmt.Sprintf("test-%d", now.UnixMilli()),
		Name:        "Teste Webhook",
		Phone:       "(11) 99999-9999",
		TaxID:       documents.TaxIDYes,
		StoreType:   "fisica",
		SubmittedAt: now,
		Status:      documents.StatusPending,
		Attempts:    1,
		Source:      "Teste",
		Device:      DeviceDesktop,
		Browser:     "Chrome",
		Location:    "São Paulo",
	}
	return s.client.Send(ctx, cfg, webhook.NewPayload(lead)), nil
}

// Delete removes a lead once confirmed. An unknown id reports false and writes nothing.
func (s *Service) Delete(ctx context.Context, id string, confirmed bool) (bool, error) {
	if !confirmed {
		return false, ErrConfirmationRequired
	}

	_, version, err := s.leads.Update(ctx, func(list documents.LeadList) (documents.LeadList, bool, error) {
		i := list.Index(id)
		if i < 0 {
			return list, false, nil
		}
		out := list.Clone()
		return append(out[:i], out[i+1:]...), true, nil
	})
	if err != nil {
		return false, err
	}
	if version == 0 {
		return false, nil
	}

	if err := s.attempts.DeleteByLead(ctx, id); err != nil {
		s.log.Warn("delivery attempts not removed", zap.String("lead", id), zap.Error(err))
	}
	return true, nil
}

// Get returns the lead with id
func (s *Service) Get(ctx context.Context, id string) (documents.Lead, error) {
	list := s.leads.Get(ctx)
	i := list.Index(id)
	if i < 0 {
		return documents.Lead{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return list[i], nil
}

// Filter narrows a lead listing
type Filter struct {
	Status documents.LeadStatus
	Search string
}

// Match reports whether l passes the filter. Search is case insensitive over
// name, source and location, and a plain substring match on the phone.
func (f Filter) Match(l documents.Lead) bool {
	if f.Status != "" && l.Status != f.Status {
		return false
	}
	q := strings.TrimSpace(f.Search)
	if q == "" {
		return true
	}
	lq := strings.ToLower(q)
	return strings.Contains(strings.ToLower(l.Name), lq) ||
		strings.Contains(l.Phone, q) ||
		strings.Contains(strings.ToLower(l.Source), lq) ||
		strings.Contains(strings.ToLower(l.Location), lq)
}

// List returns the matching leads, newest first
func (s *Service) List(ctx context.Context, f Filter) []documents.Lead {
	all := s.leads.Get(ctx)
	out := make([]documents.Lead, 0, len(all))
	for _, l := range all {
		if f.Match(l) {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SubmittedAt.After(out[j].SubmittedAt)
	})
	return out
}

// Attempts lists the recorded deliveries of a lead
func (s *Service) Attempts(ctx context.Context, id string) ([]models.DeliveryAttempt, error) {
	return s.attempts.ListByLead(ctx, id)
}

// deliver runs one attempt for lead and stores the outcome. The request context
// only bounds the caller, the attempt and its bookkeeping always complete.
func (s *Service) deliver(ctx context.Context, lead documents.Lead) (documents.Lead, error) {
	ctx = context.WithoutCancel(ctx)

	cfg := s.webhook.Get(ctx)
	var res webhook.Result
	if !cfg.Enabled() {
		res = webhook.Result{Outcome: webhook.OutcomeSkipped, Err: ErrWebhookInactive.Error()}
		lead.Status = documents.StatusSkipped
		lead.Response = nil
	} else {
		res = s.client.Send(ctx, cfg, webhook.NewPayload(lead))
		lead.Response = res.Response()
		if res.Success() {
			lead.Status = documents.StatusSuccess
		} else {
			lead.Status = documents.StatusError
		}
	}

	s.record(ctx, lead, res)

	_, _, err := s.leads.Update(ctx, func(list documents.LeadList) (documents.LeadList, bool, error) {
		i := list.Index(lead.ID)
		if i < 0 {
			s.log.Warn("lead removed during delivery", zap.String("lead", lead.ID))
			return list, false, nil
		}
		out := list.Clone()
		out[i] = lead
		return out, true, nil
	})
	return lead, err
}

func (s *Service) record(ctx context.Context, lead documents.Lead, res webhook.Result) {
	attempt := &models.DeliveryAttempt{
		LeadID:     lead.ID,
		Attempt:    lead.Attempts,
		Outcome:    string(res.Outcome),
		HTTPStatus: res.HTTPStatus,
		Error:      truncate(res.Err, 1024),
		Response:   models.NewJSON(res.Raw),
		DurationMs: res.Duration.Milliseconds(),
		TimedOut:   res.TimedOut(),
	}
	if err := s.attempts.Record(ctx, attempt); err != nil {
		s.log.Warn("delivery attempt not recorded", zap.String("lead", lead.ID), zap.Error(err))
	}
}

// truncate cuts s to at most n bytes without splitting a rune
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
