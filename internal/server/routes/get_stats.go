package routes

import (
	"net/http"

	"github.com/OFFIS-RIT/actorlink/internal/server/middleware"

	"github.com/labstack/echo/v4"
)

func GetStatsHandler(c echo.Context) error {
	links := c.(*middleware.AppContext).App.Links

	stats, err := links.Stats(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	return c.JSON(http.StatusOK, stats)
}
