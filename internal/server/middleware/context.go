package middleware

import (
	"context"
	"io"
	"time"

	"github.com/unet360/unet360/backend/internal/metrics"
	"github.com/unet360/unet360/backend/pkg/graph"
	"github.com/unet360/unet360/backend/pkg/logger"
	"github.com/unet360/unet360/backend/pkg/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

type AppUser struct {
	UserID      string
	Role        string
	Permissions []string
}

// EventPublisher announces local graph changes to other instances.
type EventPublisher interface {
	GraphChanged(ctx context.Context, reason, node string) error
}

// ImageStore keeps uploaded panorama images.
type ImageStore interface {
	PutImage(ctx context.Context, key string, contentType string, body io.ReadSeeker) (string, error)
	DeleteImage(ctx context.Context, key string) error
	DownloadLink(ctx context.Context, key string) (string, error)
}

// App is the state shared by every request. Tenants, Events, Images, Key
// and Metrics are optional.
type App struct {
	Store          store.NodeStorage
	Tenants        store.TenantStorage
	Navigator      *graph.Navigator
	Events         EventPublisher
	Images         ImageStore
	Key            jwt.Keyfunc
	Metrics        *metrics.Registry
	MasterAPIKey   string
	MasterUserID   string
	MasterUserRole string

	// TenantActiveWindow is how recent a sign-in must be for a tenant to
	// be reported OK.
	TenantActiveWindow time.Duration
}

// RefreshGraph rebuilds the installed graph and records the attempt.
func (a *App) RefreshGraph(ctx context.Context, trigger string) error {
	err := a.Navigator.Refresh(ctx)
	if a.Metrics != nil {
		a.Metrics.RecordRefresh(trigger, err)
	}
	if err != nil {
		logger.Error("[Graph] Refresh failed", "trigger", trigger, "err", err)
	}
	return err
}

// GraphChanged refreshes the local graph after a write and tells the other
// instances. Both steps are best effort; the write already succeeded.
func (a *App) GraphChanged(ctx context.Context, reason, node string) {
	_ = a.RefreshGraph(ctx, "write")
	a.AnnounceChange(ctx, reason, node)
}

// AnnounceChange publishes a change event when messaging is configured.
func (a *App) AnnounceChange(ctx context.Context, reason, node string) {
	if a.Events == nil {
		return
	}
	if err := a.Events.GraphChanged(ctx, reason, node); err != nil {
		logger.Warn("[Graph] Failed to announce change", "reason", reason, "node", node, "err", err)
	}
}

type AppContext struct {
	echo.Context
	App  *App
	User *AppUser
}

func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{c, app, nil}
			return next(cc)
		}
	}
}
