package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-landing/internal/sections"
	"github.com/localnerve/jam-build-landing/internal/utils"
)

// ListSections handles GET /api/admin/sections
// @Summary List the section registry in display order
// @Tags Sections
// @Produce json
// @Success 200 {array} documents.Section
// @Security CookieAuth
// @Router /admin/sections [get]
func (h *Handlers) ListSections(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(sections.Sorted(h.sections.List(c.UserContext())))
}

// ToggleSection handles POST /api/admin/sections/:id/toggle
// @Summary Enable or disable a section
// @Tags Sections
// @Produce json
// @Param id path string true "Section id"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /admin/sections/{id}/toggle [post]
func (h *Handlers) ToggleSection(c *fiber.Ctx) error {
	reg, version, err := h.sections.Toggle(c.UserContext(), c.Params("id"))
	if err != nil {
		return apiError(err, "sections.toggle")
	}
	return utils.MutationSuccessResponse(c, version, sections.Sorted(reg))
}

// MoveSection handles POST /api/admin/sections/move
// @Summary Move a section in the display order
// @Description Positions index the display order. Every order value is renumbered.
// @Tags Sections
// @Accept json
// @Produce json
// @Param body body moveRequest true "From and to positions"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /admin/sections/move [post]
func (h *Handlers) MoveSection(c *fiber.Ctx) error {
	from, to, ok := parseMove(c)
	if !ok {
		return badInput("sections.validation.input")
	}
	reg, version, err := h.sections.Move(c.UserContext(), from, to)
	if err != nil {
		return apiError(err, "sections.move")
	}
	return utils.MutationSuccessResponse(c, version, sections.Sorted(reg))
}

// ResetSections handles POST /api/admin/sections/reset
// @Summary Restore the default section registry
// @Tags Sections
// @Produce json
// @Success 200 {object} utils.SuccessResponseStruct
// @Security CookieAuth
// @Router /admin/sections/reset [post]
func (h *Handlers) ResetSections(c *fiber.Ctx) error {
	reg, version, err := h.sections.Reset(c.UserContext())
	if err != nil {
		return apiError(err, "sections.reset")
	}
	return utils.MutationSuccessResponse(c, version, reg)
}
