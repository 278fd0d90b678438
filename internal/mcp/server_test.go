package mcp

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/OFFIS-RIT/actorlink/pkg/common"
	"github.com/OFFIS-RIT/actorlink/pkg/query"
	"github.com/OFFIS-RIT/actorlink/pkg/store/sqlite"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

func newLinks(t *testing.T) *query.LinkService {
	t.Helper()
	ctx := context.Background()

	st, err := sqlite.New(ctx, filepath.Join(t.TempDir(), "actorlink.db"))
	require.NoError(t, err)
	t.Cleanup(st.Close)

	require.NoError(t, st.SaveMovies(ctx, []common.MovieCredits{
		{
			Movie: common.Movie{TMDBID: 603, Title: "The Matrix"},
			Cast:  []common.Actor{{TMDBID: 1, Name: "Keanu Reeves"}, {TMDBID: 2, Name: "Carrie-Anne Moss"}},
		},
		{
			Movie: common.Movie{TMDBID: 10, Title: "Memento"},
			Cast:  []common.Actor{{TMDBID: 2, Name: "Carrie-Anne Moss"}, {TMDBID: 3, Name: "Guy Pearce"}},
		},
		{
			Movie: common.Movie{TMDBID: 11, Title: "Solo"},
			Cast:  []common.Actor{{TMDBID: 4, Name: "Loner"}},
		},
	}))
	return query.NewLinkService(st)
}

func TestFindActorLink(t *testing.T) {
	s := NewService(newLinks(t))
	ctx := context.Background()

	res, out, err := s.FindActorLink(ctx, nil, FindActorLinkArgs{StartActorName: "Keanu Reeves", TargetActorName: "Guy Pearce"})
	require.NoError(t, err)
	require.Nil(t, res)
	require.True(t, out.Found)
	require.Equal(t, []string{"Keanu Reeves", "Carrie-Anne Moss", "Guy Pearce"}, out.Path)
	require.Equal(t, 2, out.Links)
	require.Equal(t, "Keanu Reeves -> Carrie-Anne Moss (The Matrix)\nCarrie-Anne Moss -> Guy Pearce (Memento)", out.Message)

	res, out, err = s.FindActorLink(ctx, nil, FindActorLinkArgs{StartActorName: "Keanu Reeves", TargetActorName: "Loner"})
	require.NoError(t, err)
	require.Nil(t, res)
	require.False(t, out.Found)
	require.Equal(t, "No link found between 'Keanu Reeves' and 'Loner'", out.Message)

	res, _, err = s.FindActorLink(ctx, nil, FindActorLinkArgs{StartActorName: "Nobody", TargetActorName: "Loner"})
	require.NoError(t, err)
	require.True(t, res.IsError)
	require.Equal(t, "Actor 'Nobody' not found in database.", res.Content[0].(*mcp.TextContent).Text)
}

func TestActorStats(t *testing.T) {
	_, out, err := NewService(newLinks(t)).ActorStats(context.Background(), nil, ActorStatsArgs{})
	require.NoError(t, err)
	require.Equal(t, ActorStatsResult{Actors: 4, Movies: 3, Links: 5}, out)
}

func TestMCPServer_InMemory(t *testing.T) {
	ctx := context.Background()
	server := NewMCPServer(newLinks(t), "test")

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer serverSession.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	names := make([]string, 0, len(tools.Tools))
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	require.ElementsMatch(t, []string{"find_actor_link", "actor_stats"}, names)

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "find_actor_link",
		Arguments: map[string]any{"start_actor_name": "Keanu Reeves", "target_actor_name": "Guy Pearce"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.NotEmpty(t, res.Content)
}
