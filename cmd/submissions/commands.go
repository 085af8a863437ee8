package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/firstpriority/website/internal/model"
	"github.com/firstpriority/website/internal/repository"
	"github.com/spf13/cobra"
)

func defaultDataDir() string {
	if d := os.Getenv("DATA_DIR"); d != "" {
		return d
	}
	return "data"
}

func newRootCommand(out io.Writer) *cobra.Command {
	var dataDir string

	root := &cobra.Command{
		Use:          "submissions",
		Short:        "Inspect stored contact messages and job applications",
		SilenceUsage: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&dataDir, "data-dir", defaultDataDir(), "directory holding the fallback files")

	repo := func() *repository.FileSubmissionRepository {
		return repository.NewFileSubmissionRepository(dataDir)
	}
	root.AddCommand(newListCommand(repo), newCountCommand(repo))
	return root
}

func parseKind(s string) (model.Kind, error) {
	k := model.Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown kind %q (want contact or hiring)", s)
	}
	return k, nil
}

func newListCommand(repo func() *repository.FileSubmissionRepository) *cobra.Command {
	var (
		kind   string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print stored submissions in the order they arrived",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			k, err := parseKind(kind)
			if err != nil {
				return err
			}
			records, err := repo().List(cmd.Context(), k)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(records)
			}
			tw := tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tNAME\tEMAIL\tMESSAGE")
			for i, r := range records {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, r.Name, r.Email, firstLine(r.Message, 60))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&kind, "kind", string(model.KindContact), "contact or hiring")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func newCountCommand(repo func() *repository.FileSubmissionRepository) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of stored submissions per kind",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, k := range model.Kinds() {
				records, err := repo().List(cmd.Context(), k)
				switch {
				case errors.Is(err, repository.ErrCorrupt):
					fmt.Fprintf(out, "%s\tcorrupt\n", k)
				case err != nil:
					return err
				default:
					fmt.Fprintf(out, "%s\t%d\n", k, len(records))
				}
			}
			return nil
		},
	}
}

// firstLine truncates s at its first newline or max runes.
func firstLine(s string, max int) string {
	runes := []rune(s)
	for i, r := range runes {
		if r == '\n' {
			runes = runes[:i]
			break
		}
	}
	if len(runes) > max {
		return string(runes[:max-1]) + "…"
	}
	return string(runes)
}
