package routes

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/OFFIS-RIT/actorlink/internal/server/middleware"
	"github.com/OFFIS-RIT/actorlink/pkg/logger"
	"github.com/OFFIS-RIT/actorlink/pkg/query"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

// ActorLinkResponse keeps the original wire shape: absent fields are null
// and every link_path entry is a [from, titles, to] triple.
type ActorLinkResponse struct {
	Path       []string    `json:"path"`
	LinkPath   [][3]string `json:"link_path"`
	LinkNumber *int        `json:"link_number"`
	Error      *string     `json:"error"`
}

func errorResponse(format string, args ...any) ActorLinkResponse {
	msg := fmt.Sprintf(format, args...)
	return ActorLinkResponse{Error: &msg}
}

func linkResponse(res *query.LinkResult) ActorLinkResponse {
	linkPath := make([][3]string, 0, len(res.Hops))
	for _, hop := range res.Hops {
		linkPath = append(linkPath, [3]string{hop.From, strings.Join(hop.Movies, ", "), hop.To})
	}
	links := res.Links
	return ActorLinkResponse{
		Path:       res.Path,
		LinkPath:   linkPath,
		LinkNumber: &links,
	}
}

// ActorLinkHandler finds the shortest chain of shared movies between two
// actors.
func ActorLinkHandler(c echo.Context) error {
	type actorLinkBody struct {
		StartActorName  string `json:"start_actor_name"`
		TargetActorName string `json:"target_actor_name"`
	}

	data := new(actorLinkBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse("Invalid request body"))
	}

	ctx := c.Request().Context()
	links := c.(*middleware.AppContext).App.Links

	res, err := links.Link(ctx, data.StartActorName, data.TargetActorName)
	if err != nil {
		var notFound *query.ActorNotFoundError
		if errors.As(err, &notFound) {
			return c.JSON(http.StatusNotFound, errorResponse("Actor '%s' not found in database.", notFound.Name))
		}
		logger.Error("[Server][ActorLink] Search failed", "err", err)
		return c.JSON(http.StatusInternalServerError, errorResponse("Error finding actor link: %s", err.Error()))
	}

	if !res.Found {
		return c.JSON(http.StatusOK, errorResponse("%s", res.NoLinkMessage()))
	}
	return c.JSON(http.StatusOK, linkResponse(res))
}
