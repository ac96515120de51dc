package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-landing/internal/backup"
	"github.com/localnerve/jam-build-landing/internal/collections"
	"github.com/localnerve/jam-build-landing/internal/documents"
	"github.com/localnerve/jam-build-landing/internal/leads"
	"github.com/localnerve/jam-build-landing/internal/sections"
	"github.com/localnerve/jam-build-landing/internal/types"
	"github.com/localnerve/jam-build-landing/internal/utils"
	"go.uber.org/zap"
)

var errUnknownDocument = errors.New("unknown document")

// apiError maps a service error onto the status the API reports for it
func apiError(err error, errorType string) error {
	var ce *types.CustomError
	var ve *leads.ValidationError
	if errors.As(err, &ce) || errors.As(err, &ve) {
		return err
	}

	code := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, errUnknownDocument),
		errors.Is(err, errUnknownCollection),
		errors.Is(err, leads.ErrNotFound),
		errors.Is(err, sections.ErrUnknownSection):
		code = fiber.StatusNotFound
	case errors.Is(err, documents.ErrInvalidDocument),
		errors.Is(err, collections.ErrConfirmationRequired),
		errors.Is(err, collections.ErrUnknownField),
		errors.Is(err, collections.ErrInvalidValue),
		errors.Is(err, collections.ErrIndexOutOfRange),
		errors.Is(err, sections.ErrIndexOutOfRange),
		errors.Is(err, leads.ErrConfirmationRequired):
		code = fiber.StatusBadRequest
	case errors.Is(err, leads.ErrWebhookInactive):
		code = fiber.StatusConflict
	case errors.Is(err, backup.ErrRemoteDisabled):
		code = fiber.StatusServiceUnavailable
	}
	return types.Wrap(code, errorType, err)
}

// badInput is the error for an unreadable request body or parameter
func badInput(errorType string) error {
	return types.NewError(fiber.StatusBadRequest, errorType, "Invalid input")
}

// ErrorHandler renders every error returned by a handler in the standard envelope
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	log = log.Named("handlers")
	return func(c *fiber.Ctx, err error) error {
		var ve *leads.ValidationError
		if errors.As(err, &ve) {
			return utils.ValidationErrorResponse(c, "Invalid input", ve.Fields, "leads.validation")
		}

		code := fiber.StatusInternalServerError
		message := err.Error()
		errorType := "unknown"

		var ce *types.CustomError
		var fe *fiber.Error
		switch {
		case errors.As(err, &ce):
			code, message, errorType = ce.Code, ce.Message, ce.Type
		case errors.As(err, &fe):
			code, message = fe.Code, fe.Message
		}

		if code >= fiber.StatusInternalServerError {
			log.Error("request failed", zap.String("path", c.Path()), zap.String("type", errorType), zap.Error(err))
		}
		return utils.ErrorResponse(c, message, code, errorType)
	}
}

// NotFound is the final handler for unmatched routes
func NotFound(c *fiber.Ctx) error {
	return utils.NotFoundResponse(c, "[404] Resource Not Found")
}
