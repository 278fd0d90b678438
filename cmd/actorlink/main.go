// Command actorlink finds the shortest chain of shared movies between two
// actors from the terminal, and hosts the maintenance and MCP entry points.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/OFFIS-RIT/actorlink/internal/db/migrations"
	"github.com/OFFIS-RIT/actorlink/internal/util"
	"github.com/OFFIS-RIT/actorlink/pkg/logger"
	"github.com/OFFIS-RIT/actorlink/pkg/logger/console"
	"github.com/OFFIS-RIT/actorlink/pkg/store"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	databaseURL string
	debug       bool
)

var rootCmd = &cobra.Command{
	Use:   "actorlink",
	Short: "Find how two actors are connected through the movies they appeared in",
	Long: `actorlink searches the actor/movie relation store for the shortest chain
of co-starring actors between two names.

Examples:
  actorlink find "Kevin Bacon" "Tom Hanks"
  actorlink prompt
  actorlink ingest --from 232000 --to 233000
  actorlink mcp`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(console.NewConsoleLogger(console.ConsoleLoggerParams{
			Debug:  debug,
			JSON:   util.GetEnvBool("LOG_JSON", false),
			Output: os.Stderr,
		}))
	},
}

func init() {
	util.LoadEnv()

	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url",
		util.GetEnvString("DATABASE_URL", "sqlite://actorlink.db"),
		"relation store URL (postgres://... or sqlite://path)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", util.GetEnvBool("DEBUG", false), "enable debug logging")

	rootCmd.AddCommand(findCmd, promptCmd, migrateCmd, ingestCmd, mcpCmd)
}

// openStore migrates the schema to the latest version and opens the store.
func openStore(ctx context.Context) (store.Store, error) {
	if err := store.Migrate(databaseURL, migrations.Up); err != nil {
		return nil, err
	}
	return store.Open(ctx, databaseURL)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		printError(err)
		os.Exit(1)
	}
}
