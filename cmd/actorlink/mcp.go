package main

import (
	mcpserver "github.com/OFFIS-RIT/actorlink/internal/mcp"
	"github.com/OFFIS-RIT/actorlink/pkg/query"

	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the link search as MCP tools over stdio",
	Long: `Start a Model Context Protocol server on stdin/stdout with the tools
find_actor_link and actor_stats. Logs go to stderr.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		server := mcpserver.NewMCPServer(query.NewLinkService(st), version)
		return mcpserver.ServeStdio(ctx, server)
	},
}
