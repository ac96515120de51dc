package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-landing/internal/utils"
)

// GetWebhook handles GET /api/admin/webhook
// @Summary Get the webhook configuration
// @Tags Webhook
// @Produce json
// @Success 200 {object} documents.WebhookConfig
// @Security CookieAuth
// @Router /admin/webhook [get]
func (h *Handlers) GetWebhook(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(h.catalog.Webhook.Get(c.UserContext()))
}

// PutWebhook handles PUT /api/admin/webhook
// @Summary Replace the webhook configuration
// @Description The timeout is in milliseconds and may be sent as a number or a string
// @Tags Webhook
// @Accept json
// @Produce json
// @Param body body documents.WebhookConfig true "Webhook configuration"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /admin/webhook [put]
func (h *Handlers) PutWebhook(c *fiber.Ctx) error {
	cfg, err := h.catalog.Webhook.Parse(c.Body())
	if err != nil {
		return apiError(err, "webhook.validation.input")
	}
	version, err := h.catalog.Webhook.Save(c.UserContext(), cfg)
	if err != nil {
		return apiError(err, "webhook.save")
	}
	return utils.MutationSuccessResponse(c, version, cfg)
}

// TestWebhook handles POST /api/admin/webhook/test
// @Summary Send a synthetic lead to the webhook
// @Description Nothing is stored. A delivery failure still answers 200, the outcome field carries it.
// @Tags Webhook
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /admin/webhook/test [post]
func (h *Handlers) TestWebhook(c *fiber.Ctx) error {
	res, err := h.leads.TestWebhook(c.UserContext())
	if err != nil {
		return apiError(err, "webhook.test")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"ok":         res.Success(),
		"outcome":    res.Outcome,
		"httpStatus": res.HTTPStatus,
		"remoteId":   res.RemoteID,
		"response":   res.Raw,
		"error":      res.Err,
		"durationMs": res.Duration.Milliseconds(),
		"timedOut":   res.TimedOut(),
	})
}
