package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Rioagustianf/POS-SAJIWA--sub000/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordOrderPosted(t *testing.T) {
	m := New()

	m.RecordOrderPosted("CASH", 100000)
	m.RecordOrderPosted("CASH", 50000)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.OrdersPosted.WithLabelValues("CASH")))
	assert.Equal(t, float64(150000), testutil.ToFloat64(m.OrderRevenue.WithLabelValues("CASH")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordOrderPosted("CASH", 1)
		m.RecordOrderRejected("CONFLICT")
		m.RecordOrderCancelled()
		m.RecordCleanup("transactions", 3)
		m.RecordLogin("success")
	})
}

func TestMiddlewareAndHandler(t *testing.T) {
	m := New()
	app := fiber.New()
	app.Use(HTTPMetricsMiddleware(m, logger.Nop()))
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })
	app.Get("/metrics", m.Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/ping", "200")))

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, strings.Contains(string(body), "pos_http_requests_total"))
}

func TestMiddlewareRecordsErrorStatus(t *testing.T) {
	m := New()
	app := fiber.New()
	app.Use(HTTPMetricsMiddleware(m, logger.Nop()))
	app.Get("/teapot", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "short and stout") })

	resp, err := app.Test(httptest.NewRequest("GET", "/teapot", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/teapot", "418")))
}
