// documents.go
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
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-landing/internal/documents"
	"github.com/localnerve/jam-build-landing/internal/utils"
)

func (h *Handlers) document(c *fiber.Ctx) (documents.Document, error) {
	key := c.Params("document")
	doc, ok := h.catalog.Document(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errUnknownDocument, key)
	}
	return doc, nil
}

// GetDocument handles GET /api/admin/data/:document
// @Summary Get any document
// @Description Get a document merged onto its defaults, including leads and the webhook config
// @Tags Admin
// @Produce json
// @Param document path string true "Document key"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /admin/data/{document} [get]
func (h *Handlers) GetDocument(c *fiber.Ctx) error {
	doc, err := h.document(c)
	if err != nil {
		return apiError(err, "data.document")
	}
	return c.Status(fiber.StatusOK).JSON(doc.GetAny(c.UserContext()))
}

// PutDocument handles PUT /api/admin/data/:document
// @Summary Replace a document
// @Description Replace the whole document. Absent fields take their defaults. The change is published to subscribers.
// @Tags Admin
// @Accept json
// @Produce json
// @Param document path string true "Document key"
// @Param body body object true "The document"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /admin/data/{document} [put]
func (h *Handlers) PutDocument(c *fiber.Ctx) error {
	doc, err := h.document(c)
	if err != nil {
		return apiError(err, "data.document")
	}
	body := c.Body()
	if len(body) == 0 {
		return badInput("data.validation.input")
	}

	v, version, err := doc.ReplaceJSON(c.UserContext(), body)
	if err != nil {
		return apiError(err, "data.validation.input")
	}
	return utils.MutationSuccessResponse(c, version, v)
}

// ResetDocument handles DELETE /api/admin/data/:document
// @Summary Reset a document to its default
// @Tags Admin
// @Produce json
// @Param document path string true "Document key"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /admin/data/{document} [delete]
func (h *Handlers) ResetDocument(c *fiber.Ctx) error {
	doc, err := h.document(c)
	if err != nil {
		return apiError(err, "data.document")
	}
	v, version, err := doc.ResetAny(c.UserContext())
	if err != nil {
		return apiError(err, "data.reset")
	}
	return utils.MutationSuccessResponse(c, version, v)
}

// ClearContent handles DELETE /api/admin/data?confirm=true
// @Summary Clear all content
// @Description Remove every content document. Leads and the webhook config are kept.
// @Tags Admin
// @Produce json
// @Param confirm query bool true "Must be true"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /admin/data [delete]
func (h *Handlers) ClearContent(c *fiber.Ctx) error {
	if !confirmed(c) {
		return utils.ErrorResponse(c, "Clearing all content requires confirm=true", fiber.StatusBadRequest, "data.clear.confirm")
	}
	keys, err := h.backup.Clear(c.UserContext())
	if err != nil {
		return apiError(err, "data.clear")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Success",
		"ok":      true,
		"cleared": keys,
	})
}

// ApplyPreset handles POST /api/admin/global-config/preset/:name
// @Summary Apply a color preset
// @Description Overlay a named palette onto the theme. Text and status colors are kept.
// @Tags Admin
// @Produce json
// @Param name path string true "Preset name"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /admin/global-config/preset/{name} [post]
func (h *Handlers) ApplyPreset(c *fiber.Ctx) error {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		return badInput("theme.preset")
	}

	for _, p := range documents.ColorPresets() {
		if p.Name != name {
			continue
		}
		cfg, version, err := h.catalog.GlobalConfig.Update(c.UserContext(), func(g documents.GlobalConfig) (documents.GlobalConfig, bool, error) {
			next, err := g.ApplyPreset(name)
			return next, err == nil && next != g, err
		})
		if err != nil {
			return apiError(err, "theme.preset")
		}
		return utils.MutationSuccessResponse(c, version, cfg)
	}
	return utils.NotFoundResponse(c, fmt.Sprintf("Color preset '%s' not found", name))
}
