package routes

import (
	"errors"
	"net/http"

	"github.com/OFFIS-RIT/actorlink/internal/server/middleware"
	"github.com/OFFIS-RIT/actorlink/pkg/query"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

func GetActorHandler(c echo.Context) error {
	type getActorParams struct {
		ActorID int64 `param:"id" validate:"required,min=1"`
	}

	type getActorResponse struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}

	params := new(getActorParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	ctx := c.Request().Context()
	links := c.(*middleware.AppContext).App.Links

	name, err := links.ActorName(ctx, params.ActorID)
	if err != nil {
		if errors.Is(err, query.ErrActorNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Actor not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, getActorResponse{ID: params.ActorID, Name: name})
}
