package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/OFFIS-RIT/actorlink/pkg/graph"
	"github.com/OFFIS-RIT/actorlink/pkg/ingest"
	"github.com/OFFIS-RIT/actorlink/pkg/query"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorAccent = lipgloss.Color("#E5A00D")
	colorMuted  = lipgloss.Color("#6C7086")
	colorError  = lipgloss.Color("#E74C3C")
	colorOK     = lipgloss.Color("#2CD7C7")
)

var styles = struct {
	Title lipgloss.Style
	Actor lipgloss.Style
	Movie lipgloss.Style
	Muted lipgloss.Style
	Error lipgloss.Style
	OK    lipgloss.Style
	Box   lipgloss.Style
}{
	Title: lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
	Actor: lipgloss.NewStyle().Bold(true),
	Movie: lipgloss.NewStyle().Italic(true).Foreground(colorOK),
	Muted: lipgloss.NewStyle().Foreground(colorMuted),
	Error: lipgloss.NewStyle().Foreground(colorError),
	OK:    lipgloss.NewStyle().Foreground(colorOK),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(0, 1),
}

// renderLink formats a search result, one hop per line.
func renderLink(res *query.LinkResult) string {
	if !res.Found {
		return styles.Muted.Render(res.NoLinkMessage())
	}

	var b strings.Builder
	b.WriteString(styles.Title.Render(fmt.Sprintf("%s → %s: %d link(s)", res.Start, res.Target, res.Links)))
	if len(res.Hops) == 0 {
		b.WriteString("\n")
		b.WriteString(styles.Actor.Render(res.Path[0]))
	}
	for _, hop := range res.Hops {
		b.WriteString("\n")
		b.WriteString(styles.Actor.Render(hop.From))
		b.WriteString(styles.Muted.Render(" was in "))
		b.WriteString(styles.Movie.Render(strings.Join(hop.Movies, ", ")))
		b.WriteString(styles.Muted.Render(" with "))
		b.WriteString(styles.Actor.Render(hop.To))
	}
	return styles.Box.Render(b.String())
}

func renderTrace(events []graph.TraceEvent) string {
	lines := make([]string, 0, len(events))
	for _, ev := range events {
		switch ev.Kind {
		case graph.TraceEventLevelExpanded:
			lines = append(lines, fmt.Sprintf("%-8s depth %d: expanded %d, discovered %d",
				ev.Direction, ev.Depth, ev.Expanded, ev.Discovered))
		case graph.TraceEventIntersection:
			lines = append(lines, fmt.Sprintf("%-8s depth %d: met at actor %d", ev.Direction, ev.Depth, ev.Node))
		case graph.TraceEventExhausted:
			lines = append(lines, "frontier exhausted")
		}
	}
	return styles.Muted.Render(strings.Join(lines, "\n"))
}

func renderReport(rep ingest.Report) string {
	return styles.Box.Render(fmt.Sprintf(
		"%s\nrange      [%d, %d)\nscanned    %d (resumed %d)\nsaved      %d\nskipped    %d\nmissing    %d\nfailed     %d\nduration   %s",
		styles.Title.Render("Ingest run "+rep.RunID),
		rep.From, rep.To,
		rep.Scanned, rep.Resumed,
		rep.Saved, rep.Skipped, rep.Missing, rep.Failed,
		rep.Duration.Round(time.Millisecond),
	))
}

// errorMessage maps errors onto the messages shown to the user.
func errorMessage(err error) string {
	var notFound *query.ActorNotFoundError
	if errors.As(err, &notFound) {
		return fmt.Sprintf("Actor '%s' not found in database.", notFound.Name)
	}
	return "Error: " + err.Error()
}

func printError(err error) {
	fmt.Fprintln(os.Stderr, styles.Error.Render(errorMessage(err)))
}
