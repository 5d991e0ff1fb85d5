package http

import (
	"encoding/json"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/account-service/internal/observability"
	apperrors "github.com/spec-kit/account-service/pkg/util"
)

func TestRegisterMiddlewares_MetricsSeeMappedStatus(t *testing.T) {
	t.Parallel()

	metrics := observability.NewMetrics()
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), metrics, 0)
	app.Get("/boom", func(c *fiber.Ctx) error {
		return apperrors.NewValidationError("validation failed", fiber.Map{
			"email": []string{"This field is required"},
		})
	})

	resp, err := app.Test(httptest.NewRequest(stdhttp.MethodGet, "/boom", nil), -1)
	require.NoError(t, err)
	require.Equal(t, stdhttp.StatusBadRequest, resp.StatusCode)

	// The request must be recorded against the status the client received,
	// not the pre-mapping 200 a handler error would otherwise leave behind.
	assert.EqualValues(t, 1, metrics.RequestCount(stdhttp.MethodGet, "/boom", stdhttp.StatusBadRequest))
	assert.Zero(t, metrics.RequestCount(stdhttp.MethodGet, "/boom", stdhttp.StatusOK))
	assert.EqualValues(t, 1, metrics.ErrorCount(apperrors.CodeValidationFailed))
	assert.Greater(t, metrics.TotalLatency(stdhttp.MethodGet, "/boom"), time.Duration(0))
}

func TestRegisterMiddlewares_TimeoutBoundsHandlerContext(t *testing.T) {
	t.Parallel()

	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), nil, 250*time.Millisecond)

	var (
		deadline    time.Time
		hasDeadline bool
	)
	app.Get("/ctx", func(c *fiber.Ctx) error {
		deadline, hasDeadline = c.UserContext().Deadline()
		return c.SendString("ok")
	})

	before := time.Now()
	resp, err := app.Test(httptest.NewRequest(stdhttp.MethodGet, "/ctx", nil), -1)
	require.NoError(t, err)
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)

	require.True(t, hasDeadline, "handler context carries no deadline")
	assert.WithinDuration(t, before.Add(250*time.Millisecond), deadline, 200*time.Millisecond)
}

func TestErrorResponse_EnvelopeShapes(t *testing.T) {
	t.Parallel()

	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), nil, 0)
	app.Get("/validation", func(c *fiber.Ctx) error {
		return apperrors.NewValidationError("validation failed", fiber.Map{
			"email": []string{"Enter a valid email address"},
		})
	})
	app.Get("/reset", func(c *fiber.Ctx) error {
		return apperrors.NewInvalidOrExpired()
	})
	app.Get("/denied", func(c *fiber.Ctx) error {
		return apperrors.NewUnauthorized("authentication required")
	})

	body := func(path string) map[string]json.RawMessage {
		resp, err := app.Test(httptest.NewRequest(stdhttp.MethodGet, path, nil), -1)
		require.NoError(t, err)
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		var out map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(raw, &out), path)
		return out
	}

	// Validation failures are keyed by field.
	out := body("/validation")
	require.Contains(t, out, "errors")
	assert.NotContains(t, out, "error")
	assert.JSONEq(t, `{"email":["Enter a valid email address"]}`, string(out["errors"]))

	// Reset-token failures collapse into non_field_errors.
	out = body("/reset")
	require.Contains(t, out, "errors")
	assert.JSONEq(t, `{"non_field_errors":["Token is not Valid or Expired"]}`, string(out["errors"]))

	// Everything else keeps the error object.
	out = body("/denied")
	require.Contains(t, out, "error")
	assert.NotContains(t, out, "errors")
}
