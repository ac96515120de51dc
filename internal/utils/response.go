package utils

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

// SuccessResponse sends a standard success response
func SuccessResponse(c *fiber.Ctx, data interface{}, status int) error {
	return c.Status(status).JSON(data)
}

// ErrorResponse sends the standard error envelope
func ErrorResponse(c *fiber.Ctx, message string, status int, errorType string) error {
	return c.Status(status).JSON(fiber.Map{
		"status":    status,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}

// ValidationErrorResponse sends a 400 listing the rejected fields
func ValidationErrorResponse(c *fiber.Ctx, message string, fields map[string]string, errorType string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"status":    fiber.StatusBadRequest,
		"message":   message,
		"ok":        false,
		"fields":    fields,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}

// NotFoundResponse sends a 404 not found response
func NotFoundResponse(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"status":    fiber.StatusNotFound,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      "notfound",
	})
}

// MutationSuccessResponse sends the result of a document write.
// A zero newVersion means the request changed nothing and no write happened.
func MutationSuccessResponse(c *fiber.Ctx, newVersion uint64, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(mutationBody(newVersion, data))
}

// SavedResponse is MutationSuccessResponse plus the editor save indicator state
func SavedResponse(c *fiber.Ctx, status int, newVersion uint64, data interface{}, saveStatus string) error {
	body := mutationBody(newVersion, data)
	body["saveStatus"] = saveStatus
	return c.Status(status).JSON(body)
}

func mutationBody(newVersion uint64, data interface{}) fiber.Map {
	return fiber.Map{
		"message":    "Success",
		"ok":         true,
		"changed":    newVersion > 0,
		"newVersion": fmt.Sprintf("%d", newVersion),
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"data":       data,
	}
}

// ErrorResponseStruct defines the schema for error responses
type ErrorResponseStruct struct {
	Status    int               `json:"status"`
	Message   string            `json:"message"`
	Ok        bool              `json:"ok"`
	Timestamp string            `json:"timestamp"`
	URL       string            `json:"url"`
	Type      string            `json:"type,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
}

// SuccessResponseStruct defines the schema for mutation success responses
type SuccessResponseStruct struct {
	Message    string      `json:"message"`
	Ok         bool        `json:"ok"`
	Changed    bool        `json:"changed"`
	NewVersion string      `json:"newVersion"`
	Timestamp  string      `json:"timestamp"`
	Data       interface{} `json:"data"`
	SaveStatus string      `json:"saveStatus,omitempty"`
}
