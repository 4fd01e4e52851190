package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

const statusOK = "ok"

// RegisterHealthRoutes adds the readiness endpoint and, when a registry is
// configured, the Prometheus scrape endpoint. Only configured backends are
// probed; the chain node is reported but never fails the check because the
// wallet degrades gracefully without it.
func RegisterHealthRoutes(app *fiber.App, d Deps) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		checks := fiber.Map{}
		healthy := true
		probe := func(name string, err error) {
			if err != nil {
				checks[name] = err.Error()
				healthy = false
				return
			}
			checks[name] = statusOK
		}
		if d.DB != nil {
			probe("postgres", d.DB.Ping(ctx))
		}
		if d.Cache != nil {
			probe("redis", d.Cache.Ping(ctx).Err())
		}
		if d.SQLite != nil {
			probe("sqlite", d.SQLite.PingContext(ctx))
		}
		if d.Chain != nil {
			if _, err := d.Chain.LedgerInfo(ctx); err != nil {
				checks["chain"] = err.Error()
			} else {
				checks["chain"] = statusOK
			}
		}

		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
		}
		return c.Status(status).JSON(fiber.Map{
			"status":    checks,
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	if d.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(d.Metrics.Handler()))
	}
}
