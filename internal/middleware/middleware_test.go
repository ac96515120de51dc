package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-landing/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeValidator struct {
	calls []string
	err   error
}

func (f *fakeValidator) ValidateSession(_ context.Context, _, _, cookie string, roles []string) (any, error) {
	f.calls = append(f.calls, cookie)
	if f.err != nil {
		return nil, f.err
	}
	return map[string]any{"email": "admin@example.com", "roles": roles}, nil
}

func testErrorHandler(c *fiber.Ctx, err error) error {
	var ce *types.CustomError
	if errors.As(err, &ce) {
		return c.Status(ce.Code).JSON(fiber.Map{"type": ce.Type})
	}
	return c.SendStatus(fiber.StatusInternalServerError)
}

func newApp(h ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: testErrorHandler})
	handlers := append(h, func(c *fiber.Ctx) error {
		if c.Locals("user") != nil {
			return c.SendString("user")
		}
		return c.SendString("anonymous")
	})
	app.Get("/admin", handlers...)
	return app
}

func TestAuthAdminDisabled(t *testing.T) {
	app := newApp(AuthAdmin(nil, zap.NewNop()))
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthAdminMissingCookie(t *testing.T) {
	v := &fakeValidator{}
	app := newApp(AuthAdmin(v, zap.NewNop()))
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Empty(t, v.calls)
}

func TestAuthAdminSession(t *testing.T) {
	v := &fakeValidator{}
	app := newApp(AuthAdmin(v, zap.NewNop()))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "abc"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"abc"}, v.calls)

	v.err = errors.New("expired")
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "abc"})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestVersionMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(VersionMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("apiVersion").(string))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Api-Version", "1.0")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, APIVersion, resp.Header.Get("X-Api-Version"))
}

func TestRequestLoggerLevels(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	app := fiber.New(fiber.Config{ErrorHandler: testErrorHandler})
	app.Use(RequestLogger(zap.New(core)))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/boom", func(c *fiber.Ctx) error {
		return &types.CustomError{Code: fiber.StatusBadRequest, Type: "bad"}
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ok", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
	assert.EqualValues(t, fiber.StatusBadRequest, entries[1].ContextMap()["status"])
}
