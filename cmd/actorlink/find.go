package main

import (
	"encoding/json"
	"fmt"

	"github.com/OFFIS-RIT/actorlink/pkg/graph"
	"github.com/OFFIS-RIT/actorlink/pkg/query"

	"github.com/spf13/cobra"
)

var (
	findTrace bool
	findJSON  bool
	findMemo  bool
)

var findCmd = &cobra.Command{
	Use:   "find START_ACTOR TARGET_ACTOR",
	Short: "Find the shortest link between two actors",
	Long: `Find the shortest chain of shared movies between two actors.

Examples:
  actorlink find "Keanu Reeves" "Laurence Fishburne"
  actorlink find "Keanu Reeves" "Meryl Streep" --trace
  actorlink find "Keanu Reeves" "Meryl Streep" --json`,
	Args: cobra.ExactArgs(2),
	RunE: runFind,
}

func init() {
	findCmd.Flags().BoolVar(&findTrace, "trace", false, "print the search levels after the result")
	findCmd.Flags().BoolVar(&findJSON, "json", false, "print the result as JSON")
	findCmd.Flags().BoolVar(&findMemo, "memo", false, "cache store lookups for the duration of the search")
}

func runFind(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	tracer := &graph.RecordingTracer{}
	opts := []graph.FinderOption{graph.WithMemo(findMemo)}
	if findTrace {
		opts = append(opts, graph.WithTracer(tracer))
	}
	links := query.NewLinkService(st, query.WithFinderOptions(opts...))

	res, err := links.Link(ctx, args[0], args[1])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if findJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Fprintln(out, renderLink(res))
	if findTrace {
		fmt.Fprintln(cmd.ErrOrStderr(), renderTrace(tracer.Events()))
	}
	return nil
}
