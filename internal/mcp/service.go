package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/OFFIS-RIT/actorlink/pkg/logger"
	"github.com/OFFIS-RIT/actorlink/pkg/query"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type Service struct {
	links *query.LinkService
}

func NewService(links *query.LinkService) *Service {
	return &Service{links: links}
}

func unlinked(msg string) FindActorLinkResult {
	return FindActorLinkResult{Path: []string{}, Hops: []query.Hop{}, Message: msg}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
	}
}

// FindActorLink reports unknown actors as a tool error so the model can
// correct the name. Store failures are protocol errors.
func (s *Service) FindActorLink(ctx context.Context, req *mcp.CallToolRequest, args FindActorLinkArgs) (*mcp.CallToolResult, FindActorLinkResult, error) {
	res, err := s.links.Link(ctx, args.StartActorName, args.TargetActorName)
	if err != nil {
		var notFound *query.ActorNotFoundError
		if errors.As(err, &notFound) {
			msg := fmt.Sprintf("Actor '%s' not found in database.", notFound.Name)
			return errorResult(msg), unlinked(msg), nil
		}
		logger.Error("[MCP][FindActorLink] Search failed", "err", err)
		return nil, FindActorLinkResult{}, err
	}

	if !res.Found {
		return nil, unlinked(res.NoLinkMessage()), nil
	}

	steps := make([]string, 0, len(res.Hops))
	for _, hop := range res.Hops {
		steps = append(steps, fmt.Sprintf("%s -> %s (%s)", hop.From, hop.To, strings.Join(hop.Movies, ", ")))
	}
	return nil, FindActorLinkResult{
		Found:   true,
		Path:    res.Path,
		Hops:    res.Hops,
		Links:   res.Links,
		Message: strings.Join(steps, "\n"),
	}, nil
}

func (s *Service) ActorStats(ctx context.Context, req *mcp.CallToolRequest, args ActorStatsArgs) (*mcp.CallToolResult, ActorStatsResult, error) {
	stats, err := s.links.Stats(ctx)
	if err != nil {
		return nil, ActorStatsResult{}, err
	}
	return nil, ActorStatsResult{Actors: stats.Actors, Movies: stats.Movies, Links: stats.Links}, nil
}
