package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/OFFIS-RIT/actorlink/pkg/query"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Search actor links interactively",
	Long: `Ask for two actor names, print the link between them and ask again.
Enter "exit" or "quit" in either field, or press Ctrl+C, to leave.`,
	Args: cobra.NoArgs,
	RunE: runPrompt,
}

func isQuit(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "exit" || s == "quit"
}

func runPrompt(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	links := query.NewLinkService(st)
	out := cmd.OutOrStdout()

	stats, err := links.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, styles.Muted.Render(fmt.Sprintf(
		"%d actors, %d movies, %d links loaded", stats.Actors, stats.Movies, stats.Links)))

	for {
		var start, target string
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().Title("First actor").Value(&start),
				huh.NewInput().Title("Second actor").Value(&target),
			),
		)
		if err := form.RunWithContext(ctx); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}
		if isQuit(start) || isQuit(target) {
			return nil
		}

		res, err := links.Link(ctx, start, target)
		if err != nil {
			var notFound *query.ActorNotFoundError
			if errors.As(err, &notFound) {
				fmt.Fprintln(out, styles.Error.Render(errorMessage(err)))
				continue
			}
			return err
		}
		fmt.Fprintln(out, renderLink(res))
	}
}
