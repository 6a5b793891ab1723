package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/rovem-ai/rovem/journal"
)

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:      "history",
		Usage:     "Show journaled runs",
		ArgsUsage: "[run-id]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "journal",
				Value:   "rovem.db",
				Sources: cli.EnvVars("ROVEM_JOURNAL"),
				Usage:   "SQLite journal path",
			},
			&cli.IntFlag{
				Name:  "limit",
				Value: 10,
				Usage: "Number of runs to list",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			j, err := journal.New(cmd.String("journal"))
			if err != nil {
				return err
			}
			defer j.Close()

			if id := cmd.Args().First(); id != "" {
				rec, err := j.Get(ctx, id)
				if err != nil {
					return err
				}
				fmt.Print(formatRecord(rec))
				return nil
			}

			records, err := j.Recent(ctx, int(cmd.Int("limit")))
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("no journaled runs")
				return nil
			}
			for i := range records {
				fmt.Println(formatLine(&records[i]))
			}
			return nil
		},
	}
}

// formatLine renders one run as a single listing row.
func formatLine(rec *journal.Record) string {
	return fmt.Sprintf("%s  %s  %-9s  %2d steps  %s",
		shortID(rec.ID),
		rec.CreatedAt.Local().Format("2006-01-02 15:04"),
		rec.Status,
		rec.Steps,
		truncate(rec.Objective, 60),
	)
}

// formatRecord renders the full detail view of one run.
func formatRecord(rec *journal.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Run:        %s\n", rec.ID)
	fmt.Fprintf(&b, "Created:    %s\n", rec.CreatedAt.Local().Format(time.RFC3339))
	fmt.Fprintf(&b, "Objective:  %s\n", rec.Objective)
	fmt.Fprintf(&b, "Status:     %s (%s)\n", rec.Status, rec.Finish)
	fmt.Fprintf(&b, "Steps:      %d\n", rec.Steps)
	fmt.Fprintf(&b, "Tokens:     %d in / %d out\n", rec.InputTokens, rec.OutputTokens)
	fmt.Fprintf(&b, "Duration:   %s\n", rec.Duration.Round(time.Millisecond))
	if rec.Retried {
		fmt.Fprintf(&b, "Retried:    yes\n")
	}
	if rec.FinalURL != "" {
		fmt.Fprintf(&b, "Final URL:  %s\n", rec.FinalURL)
	}
	if rec.Outcome != nil && rec.Outcome.Summary != nil {
		b.WriteString("\n")
		b.WriteString(rec.Outcome.Summary.Report())
		b.WriteString("\n")
	} else if rec.Narrative != "" {
		fmt.Fprintf(&b, "\n%s\n", rec.Narrative)
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
