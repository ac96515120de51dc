package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-landing/internal/backup"
	"github.com/localnerve/jam-build-landing/internal/utils"
	"go.uber.org/zap"
)

// ExportBackup handles GET /api/admin/backup
// @Summary Download a backup of every document
// @Description Documents that were never saved are exported as null
// @Tags Backup
// @Produce json
// @Success 200 {object} backup.Bundle
// @Security CookieAuth
// @Router /admin/backup [get]
func (h *Handlers) ExportBackup(c *fiber.Ctx) error {
	bundle := h.backup.Export(c.UserContext())
	c.Attachment(backup.Filename(h.now()))
	return c.Status(fiber.StatusOK).JSON(bundle)
}

// ImportBackup handles POST /api/admin/backup
// @Summary Restore a backup
// @Description Every non-null document is saved and published once. A rejected document does not stop the others.
// @Tags Backup
// @Accept json
// @Produce json
// @Param body body backup.Bundle true "Backup file"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /admin/backup [post]
func (h *Handlers) ImportBackup(c *fiber.Ctx) error {
	var bundle backup.Bundle
	if err := json.Unmarshal(c.Body(), &bundle); err != nil {
		return badInput("backup.validation.input")
	}

	res, err := h.backup.Import(c.UserContext(), bundle)
	if err != nil && len(res.Imported) == 0 {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "backup.import")
	}

	body := fiber.Map{
		"message":  "Success",
		"ok":       err == nil,
		"imported": res.Imported,
	}
	if err != nil {
		body["message"] = "Partially imported"
		body["error"] = err.Error()
	}
	return c.Status(fiber.StatusOK).JSON(body)
}

// UploadBackup handles POST /api/admin/backup/remote
// @Summary Store a backup in the configured bucket
// @Tags Backup
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} utils.ErrorResponseStruct
// @Failure 503 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /admin/backup/remote [post]
func (h *Handlers) UploadBackup(c *fiber.Ctx) error {
	if h.uploader == nil {
		return apiError(backup.ErrRemoteDisabled, "backup.remote")
	}

	key, err := h.uploader.Upload(c.UserContext(), h.backup.Export(c.UserContext()))
	if err != nil {
		return apiError(err, "backup.remote")
	}
	h.log.Info("backup uploaded", zap.String("key", key))

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Success",
		"ok":      true,
		"key":     key,
	})
}
