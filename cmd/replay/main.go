// Command replay prints human-readable transcripts and summaries of recorded
// game sessions from the event log database. Without a session ID it lists
// the most recently started sessions.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/codequest-labs/gridquest/eventlog"
)

func main() {
	dbPath := flag.String("db", "events.db", "Path to the event log database")
	summaryOnly := flag.Bool("summary", false, "Print only the session summary, not the full transcript")
	limit := flag.Int("limit", 10, "Number of sessions to list when no session ID is given")
	flag.Parse()

	store, err := eventlog.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening event log: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flag.NArg() == 0 {
		output, err := listSessions(store, *limit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing sessions: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(output)
		return
	}

	sessionID := flag.Arg(0)

	summary, err := store.Summarize(sessionID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error summarizing session %s: %v\n", sessionID, err)
		os.Exit(1)
	}
	fmt.Print(formatSummary(summary))

	if !*summaryOnly {
		actions, err := store.GetActions(sessionID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading actions for %s: %v\n", sessionID, err)
			os.Exit(1)
		}
		fmt.Print(formatTranscript(actions))
	}
}

// listSessions renders the most recent sessions, one per line.
func listSessions(store *eventlog.Store, limit int) (string, error) {
	sessions, err := store.RecentSessions(limit)
	if err != nil {
		return "", err
	}

	if len(sessions) == 0 {
		return "No recorded sessions\n", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Recorded sessions (%d):\n", len(sessions))
	for _, s := range sessions {
		fmt.Fprintf(&b, "- %s (stage: %s, started: %s)\n",
			s.ID, s.StageID, s.StartedAt.Format("2006-01-02 15:04:05"))
	}
	return b.String(), nil
}

// formatSummary renders the aggregated view of one session.
func formatSummary(summary *eventlog.Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Session: %s\n", summary.Session.ID)
	fmt.Fprintf(&b, "Stage: %s\n", summary.Session.StageID)
	fmt.Fprintf(&b, "Started: %s\n", summary.Session.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Actions: %d over %d turns\n", summary.TotalActions, summary.FinalTurn)
	if summary.FinalStatus != "" {
		fmt.Fprintf(&b, "Outcome: %s\n", summary.FinalStatus)
	}
	fmt.Fprintf(&b, "Lowest HP: %d\n", summary.MinPlayerHP)

	if len(summary.ActionCounts) > 0 {
		names := make([]string, 0, len(summary.ActionCounts))
		for name := range summary.ActionCounts {
			names = append(names, name)
		}
		sort.Strings(names)

		b.WriteString("Action counts:\n")
		for _, name := range names {
			fmt.Fprintf(&b, "  %s: %d\n", name, summary.ActionCounts[name])
		}
	}

	return b.String()
}

// formatTranscript renders the turn-by-turn log of one session.
func formatTranscript(actions []*eventlog.ActionRecord) string {
	if len(actions) == 0 {
		return "\nNo recorded actions\n"
	}

	var b strings.Builder
	b.WriteString("\nTranscript:\n")
	for _, a := range actions {
		line := fmt.Sprintf("Turn %3d: %-10s %s", a.Turn, a.Action, a.Status)
		if a.Message != "" {
			line += " - " + a.Message
		}
		line += fmt.Sprintf(" (HP %d, enemies %d)", a.PlayerHP, a.EnemiesLeft)
		b.WriteString(line + "\n")

		if a.GameStatus != "playing" && a.GameStatus != "" {
			fmt.Fprintf(&b, "          game over: %s\n", a.GameStatus)
		}
	}
	return b.String()
}
