package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cognicore/wordctx/internal/source"
)

func newIngestCmd(flags *globalFlags) *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   "ingest [files...]",
		Short: "Ingest text files into the store",
		Long: `Ingest splits text into sentences and counts every word pair within the
context window. Files ending in .jsonl are read as article dumps with
"title" and "text" fields, .html files are stripped to their text, and
anything else is read as plain text. "-" reads standard input.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if text == "" && len(args) == 0 {
				return errors.New("nothing to ingest: pass files or --text")
			}

			// read every source before touching the store
			docs := make([]source.Document, 0, len(args)+1)
			if text != "" {
				docs = append(docs, source.Document{Path: "inline", Kind: source.KindText, Text: text})
			}
			for _, path := range args {
				if path == "-" {
					data, err := io.ReadAll(cmd.InOrStdin())
					if err != nil {
						return fmt.Errorf("read stdin: %w", err)
					}
					docs = append(docs, source.Document{Path: "stdin", Kind: source.KindText, Text: string(data)})
					continue
				}
				doc, err := source.Load(path)
				if err != nil {
					return err
				}
				if doc.Skipped > 0 {
					slog.Warn("malformed lines skipped", "path", doc.Path, "lines", doc.Skipped)
				}
				docs = append(docs, doc)
			}

			ctx := cmd.Context()
			eng, err := flags.openEngine(ctx)
			if err != nil {
				return err
			}
			defer eng.Close()

			out := cmd.OutOrStdout()
			var firstErr error
			for _, doc := range docs {
				report, err := eng.Ingest(ctx, doc.Path, doc.Text)
				fmt.Fprintf(out, "%s: %d sentences, %d pairs, %d failed (run %s)\n",
					doc.Path, report.Sentences, report.Pairs, report.Failed, report.RunID)
				if err != nil && firstErr == nil {
					firstErr = err
				}
			}
			return firstErr
		},
	}

	cmd.Flags().StringVarP(&text, "text", "t", "", "Ingest this text instead of (or before) files")
	return cmd
}
