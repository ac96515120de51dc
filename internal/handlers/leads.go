// leads.go
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

package handlers

import (
	"bytes"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-landing/internal/documents"
	"github.com/localnerve/jam-build-landing/internal/leads"
	"github.com/localnerve/jam-build-landing/internal/types"
	"github.com/localnerve/jam-build-landing/internal/utils"
	"go.uber.org/zap"
)

// DefaultAnalyticsDays is the report window when none is requested
const DefaultAnalyticsDays = 30

// SubmitLead handles POST /api/leads
// @Summary Submit the contact form
// @Description The lead is stored first and then delivered to the webhook. A delivery failure still answers 201, the status field carries the outcome.
// @Tags Leads
// @Accept json
// @Produce json
// @Param body body leads.Input true "Contact form"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 429 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /leads [post]
func (h *Handlers) SubmitLead(c *fiber.Ctx) error {
	var in leads.Input
	if err := c.BodyParser(&in); err != nil {
		return badInput("leads.validation.input")
	}
	in.UserAgent = c.Get(fiber.HeaderUserAgent)

	lead, err := h.leads.Submit(c.UserContext(), in)
	if err != nil {
		return apiError(err, "leads.submit")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Success",
		"ok":      true,
		"id":      lead.ID,
		"status":  lead.Status,
	})
}

// ListLeads handles GET /api/admin/leads
// @Summary List leads, newest first
// @Tags Leads
// @Produce json
// @Param status query string false "pendente, enviado, sucesso, erro or ignorado"
// @Param search query string false "Matches name, phone, source and location"
// @Success 200 {object} map[string]interface{}
// @Security CookieAuth
// @Router /admin/leads [get]
func (h *Handlers) ListLeads(c *fiber.Ctx) error {
	ctx := c.UserContext()
	list := h.leads.List(ctx, leadFilter(c))

	counts := make(map[documents.LeadStatus]int)
	for _, l := range h.leads.List(ctx, leads.Filter{}) {
		counts[l.Status]++
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"leads":    list,
		"total":    len(list),
		"counts":   counts,
		"statuses": documents.Statuses(),
	})
}

// ExportLeads handles GET /api/admin/leads/export
// @Summary Download the filtered leads as CSV
// @Tags Leads
// @Produce text/csv
// @Param status query string false "Status filter"
// @Param search query string false "Search filter"
// @Success 200 {file} file
// @Security CookieAuth
// @Router /admin/leads/export [get]
func (h *Handlers) ExportLeads(c *fiber.Ctx) error {
	list := h.leads.List(c.UserContext(), leadFilter(c))

	var buf bytes.Buffer
	if err := leads.ExportCSV(&buf, list, h.loc); err != nil {
		return apiError(err, "leads.export")
	}

	c.Attachment(leads.ExportFilename(h.now().In(h.loc)))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.Status(fiber.StatusOK).Send(buf.Bytes())
}

// LeadAnalytics handles GET /api/admin/leads/analytics
// @Summary Lead analytics over a trailing window
// @Tags Leads
// @Produce json
// @Param days query int false "Window in days, default 30"
// @Success 200 {object} leads.Report
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /admin/leads/analytics [get]
func (h *Handlers) LeadAnalytics(c *fiber.Ctx) error {
	days := DefaultAnalyticsDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 366 {
			return utils.ErrorResponse(c, "days must be between 1 and 366", fiber.StatusBadRequest, "leads.analytics.input")
		}
		days = n
	}

	all := h.leads.List(c.UserContext(), leads.Filter{})
	return utils.SuccessResponse(c, leads.Analyze(all, h.now(), days, h.loc), fiber.StatusOK)
}

// ResendLead handles POST /api/admin/leads/:id/resend
// @Summary Deliver a lead to the webhook again
// @Tags Leads
// @Produce json
// @Param id path string true "Lead id"
// @Success 200 {object} documents.Lead
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /admin/leads/{id}/resend [post]
func (h *Handlers) ResendLead(c *fiber.Ctx) error {
	lead, err := h.leads.Resend(c.UserContext(), c.Params("id"))
	if err != nil {
		return apiError(err, "leads.resend")
	}
	return utils.SuccessResponse(c, lead, fiber.StatusOK)
}

// bulkResendRequest names the leads to resend. Without ids the status and
// search filter select them.
type bulkResendRequest struct {
	IDs    types.FlexList[string] `json:"ids" swaggertype:"array,string"`
	Status documents.LeadStatus   `json:"status"`
	Search string                 `json:"search"`
}

// BulkResendLeads handles POST /api/admin/leads/resend
// @Summary Resend several leads
// @Description Each lead is resent independently, one failure does not stop the rest
// @Tags Leads
// @Accept json
// @Produce json
// @Param body body bulkResendRequest false "Lead ids, or a filter"
// @Param ids query string false "Comma separated lead ids"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /admin/leads/resend [post]
func (h *Handlers) BulkResendLeads(c *fiber.Ctx) error {
	var body bulkResendRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return badInput("leads.validation.input")
		}
	}

	ids := body.IDs.Slice()
	if len(ids) == 0 {
		ids = parseList(c, "ids")
	}
	if len(ids) == 0 {
		filter := leads.Filter{Status: body.Status, Search: body.Search}
		if filter == (leads.Filter{}) {
			filter = leadFilter(c)
		}
		for _, l := range h.leads.List(c.UserContext(), filter) {
			ids = append(ids, l.ID)
		}
	}

	results := h.leads.BulkResend(c.UserContext(), ids)
	succeeded := 0
	for _, r := range results {
		if r.Error == "" && r.Status == documents.StatusSuccess {
			succeeded++
		}
	}
	h.log.Info("bulk resend", zap.Int("total", len(results)), zap.Int("succeeded", succeeded))

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"results":   results,
		"total":     len(results),
		"succeeded": succeeded,
		"failed":    len(results) - succeeded,
	})
}

// DeleteLead handles DELETE /api/admin/leads/:id?confirm=true
// @Summary Delete a lead and its delivery history
// @Tags Leads
// @Produce json
// @Param id path string true "Lead id"
// @Param confirm query bool true "Must be true"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /admin/leads/{id} [delete]
func (h *Handlers) DeleteLead(c *fiber.Ctx) error {
	id := c.Params("id")
	deleted, err := h.leads.Delete(c.UserContext(), id, confirmed(c))
	if err != nil {
		return apiError(err, "leads.delete")
	}
	if !deleted {
		return utils.NotFoundResponse(c, "Lead '"+id+"' not found")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Success",
		"ok":      true,
		"id":      id,
	})
}

// LeadAttempts handles GET /api/admin/leads/:id/attempts
// @Summary Delivery history of a lead
// @Tags Leads
// @Produce json
// @Param id path string true "Lead id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /admin/leads/{id}/attempts [get]
func (h *Handlers) LeadAttempts(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id := c.Params("id")
	if _, err := h.leads.Get(ctx, id); err != nil {
		return apiError(err, "leads.attempts")
	}
	attempts, err := h.leads.Attempts(ctx, id)
	if err != nil {
		return apiError(err, "leads.attempts")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"leadId":   id,
		"attempts": attempts,
	})
}
