// page.go
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

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-landing/internal/page"
	"github.com/localnerve/jam-build-landing/internal/storage"
	"github.com/localnerve/jam-build-landing/internal/utils"
)

// GetPage handles GET /api/page
// @Summary Get the composed landing page
// @Description Meta tags, structured data, theme, footer and the enabled sections in display order
// @Tags Page
// @Produce json
// @Success 200 {object} page.Page
// @Router /page [get]
func (h *Handlers) GetPage(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(h.composer.Compose(c.UserContext()))
}

// GetContentDocument handles GET /api/data/:document
// @Summary Get a content document
// @Description Get one public content document merged onto its defaults. Leads and the webhook config are not public.
// @Tags Page
// @Produce json
// @Param document path string true "Document key, e.g. faq-data"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /data/{document} [get]
func (h *Handlers) GetContentDocument(c *fiber.Ctx) error {
	key := c.Params("document")
	if !storage.IsContentKey(key) {
		return utils.NotFoundResponse(c, fmt.Sprintf("Document '%s' not found", key))
	}
	doc, ok := h.catalog.Document(key)
	if !ok {
		return utils.NotFoundResponse(c, fmt.Sprintf("Document '%s' not found", key))
	}
	return c.Status(fiber.StatusOK).JSON(doc.GetAny(c.UserContext()))
}

// GetSEOScore handles GET /api/admin/seo/score
// @Summary Score the SEO settings
// @Tags Admin
// @Produce json
// @Success 200 {object} page.SEOReport
// @Security CookieAuth
// @Router /admin/seo/score [get]
func (h *Handlers) GetSEOScore(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(page.SEOScore(h.catalog.SEO.Get(c.UserContext())))
}
