package middleware

import (
	"github.com/OFFIS-RIT/actorlink/internal/queue"
	"github.com/OFFIS-RIT/actorlink/pkg/query"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/labstack/echo/v4"
)

type AppUser struct {
	UserID      int64
	Role        string
	Permissions []string
}

// App holds the shared dependencies of every handler. Queue and Key are
// nil when no broker or identity provider is configured.
type App struct {
	Links        *query.LinkService
	Queue        queue.Publisher
	Key          *keyfunc.Keyfunc
	MasterAPIKey string
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
