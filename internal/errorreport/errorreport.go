// Package errorreport sends unexpected request failures to Sentry.
package errorreport

import (
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// Init configures the global Sentry client. An empty dsn leaves reporting
// disabled and is not an error.
func Init(dsn, release, environment string) (bool, error) {
	if dsn == "" {
		return false, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Release:     release,
		Environment: environment,
	})
	if err != nil {
		return false, err
	}

	slog.Info("Sentry error reporting enabled", "release", release)
	return true, nil
}

// Middleware attaches a per-request hub and reports panics before passing
// them on to gin's recovery
func Middleware() gin.HandlerFunc {
	return sentrygin.New(sentrygin.Options{
		Repanic: true,
		Timeout: 2 * time.Second,
	})
}

// Capture reports err on the request's hub, tagged with the matched route
func Capture(c *gin.Context, err error) {
	if err == nil {
		return
	}

	hub := sentrygin.GetHubFromContext(c)
	if hub == nil {
		hub = sentry.CurrentHub()
	}

	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("route", c.FullPath())
		scope.SetContext("request", sentry.Context{"query": c.Request.URL.RawQuery})
		hub.CaptureException(err)
	})
}

// Flush waits up to timeout for buffered events to be delivered
func Flush(timeout time.Duration) {
	sentry.Flush(timeout)
}
