package observability

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// PrometheusHandler returns a Gin handler for Prometheus metrics
func PrometheusHandler(handler http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		if handler != nil {
			handler.ServeHTTP(c.Writer, c.Request)
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "metrics handler not initialized",
			})
		}
	}
}

// AuthMetrics counts the interesting auth events.
type AuthMetrics struct {
	Logins        metric.Int64Counter
	LoginFailures metric.Int64Counter
	Refreshes     metric.Int64Counter
}

// NewAuthMetrics registers the auth counters on the global meter provider.
func NewAuthMetrics() (*AuthMetrics, error) {
	meter := otel.Meter("auth-service")

	logins, err := meter.Int64Counter("auth_logins_total",
		metric.WithDescription("Successful logins"))
	if err != nil {
		return nil, err
	}
	failures, err := meter.Int64Counter("auth_login_failures_total",
		metric.WithDescription("Failed login attempts"))
	if err != nil {
		return nil, err
	}
	refreshes, err := meter.Int64Counter("auth_token_refreshes_total",
		metric.WithDescription("Refresh token rotations"))
	if err != nil {
		return nil, err
	}

	return &AuthMetrics{
		Logins:        logins,
		LoginFailures: failures,
		Refreshes:     refreshes,
	}, nil
}
