package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/sessionplanner/internal/core"
	"github.com/JonMunkholm/sessionplanner/internal/store"
)

// previewResult is what preview prints.
type previewResult struct {
	File    string             `json:"file"`
	Format  core.Format        `json:"format"`
	Summary core.ImportSummary `json:"summary"`
	Rows    []core.ImportRow   `json:"rows,omitempty"`
}

func parseFile(path, declared string) (core.Format, []core.ImportRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, err
	}
	if len(data) == 0 {
		return "", nil, core.ErrEmptyFile
	}

	var format core.Format
	if declared != "" {
		format, err = core.ParseFormat(declared)
	} else {
		format, err = core.DetectFormat(path, "")
	}
	if err != nil {
		return "", nil, err
	}

	rows, err := core.ParseImport(data, format)
	if err != nil {
		return "", nil, err
	}
	return format, rows, nil
}

func newPreviewCmd(opts *rootOptions) *cobra.Command {
	var format, reportPath string
	var summaryOnly bool

	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Validate an import file and show every row's outcome",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, rows, err := parseFile(args[0], format)
			if err != nil {
				return err
			}

			if reportPath != "" {
				out, err := os.Create(reportPath)
				if err != nil {
					return err
				}
				if err := core.WriteReport(out, rows); err != nil {
					out.Close()
					return err
				}
				if err := out.Close(); err != nil {
					return err
				}
			}

			res := previewResult{File: filepath.Base(args[0]), Format: f, Summary: core.Summarize(rows)}
			if !summaryOnly {
				res.Rows = rows
			}
			return render(cmd.OutOrStdout(), opts.output, res)
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "declared format: csv|json|xml (default: from extension)")
	cmd.Flags().StringVar(&reportPath, "report", "", "also write a CSV report to this path")
	cmd.Flags().BoolVar(&summaryOnly, "summary", false, "print only the summary")
	return cmd
}

// expandInput is the rule file read by expand.
type expandInput struct {
	Draft      core.SessionDraft   `json:"draft" yaml:"draft"`
	Recurrence core.RecurrenceRule `json:"recurrence" yaml:"recurrence"`
}

func readExpandInput(path string) (expandInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return expandInput{}, err
	}

	var in expandInput
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &in)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &in)
	default:
		return expandInput{}, fmt.Errorf("rule file must be .json, .yaml or .yml: %s", path)
	}
	if err != nil {
		return expandInput{}, fmt.Errorf("read rule file %s: %w", path, err)
	}
	return in, nil
}

func newExpandCmd(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "expand <rule-file>",
		Short: "List the occurrences a recurrence rule produces",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readExpandInput(args[0])
			if err != nil {
				return err
			}
			e := &core.Expander{Limit: limit}
			occurrences, err := e.Expand(in.Draft, in.Recurrence)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, occurrences)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "stop after this many occurrences (default and maximum: 365)")
	return cmd
}

func newSampleCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "sample <csv|json|xml>",
		Short: "Write an example import file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := core.ParseFormat(args[0])
			if err != nil {
				return err
			}
			sample, err := core.Sample(format)
			if err != nil {
				return err
			}
			if outPath == "" {
				_, err = cmd.OutOrStdout().Write(sample.Content)
				return err
			}
			return os.WriteFile(outPath, sample.Content, 0o644)
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "", "write to this file instead of stdout")
	return cmd
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	var dbPath, owner, format string
	var skipDuplicates, dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file> --db <path> --owner <id>",
		Short: "Validate a file and commit its rows into a SQLite database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(owner) == "" {
				return errors.New("--owner is required")
			}
			_, rows, err := parseFile(args[0], format)
			if err != nil {
				return err
			}
			drafts := core.SelectRows(rows, core.CommitOptions{SkipDuplicates: skipDuplicates})
			if dryRun {
				return render(cmd.OutOrStdout(), opts.output, map[string]any{
					"summary":    core.Summarize(rows),
					"committing": len(drafts),
				})
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			db, err := store.OpenSQLite(ctx, dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			outcome, err := core.NewBulkCommitter(db, core.MaxBulkItems).Commit(ctx, owner, drafts)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, outcome)
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "sessions.db", "SQLite database path")
	cmd.Flags().StringVar(&owner, "owner", "", "owner id for the created sessions")
	cmd.Flags().StringVar(&format, "format", "", "declared format: csv|json|xml (default: from extension)")
	cmd.Flags().BoolVar(&skipDuplicates, "skip-duplicates", false, "leave out rows flagged as duplicates")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate only; do not write")
	return cmd
}
