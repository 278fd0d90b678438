// Package mcp exposes the actor link search as Model Context Protocol
// tools.
package mcp

import (
	"context"

	"github.com/OFFIS-RIT/actorlink/pkg/query"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func NewMCPServer(links *query.LinkService, version string) *mcp.Server {
	service := NewService(links)

	s := mcp.NewServer(&mcp.Implementation{
		Name:    "actorlink",
		Version: version,
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "find_actor_link",
		Description: "Find the shortest chain of shared movies connecting two actors.",
	}, service.FindActorLink)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "actor_stats",
		Description: "Count the actors, movies and actor-movie links in the database.",
	}, service.ActorStats)

	return s
}

// ServeStdio runs the server on stdin/stdout until the client disconnects
// or ctx is done.
func ServeStdio(ctx context.Context, s *mcp.Server) error {
	return s.Run(ctx, &mcp.StdioTransport{})
}
