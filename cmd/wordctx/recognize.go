package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognicore/wordctx/pkg/wordctx/internalerr"
)

func newRecognizeCmd(flags *globalFlags) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "recognize [sentences...]",
		Short: "Fill masked tokens in sentences",
		Long: `Recognize replaces every token containing "_" or "%" with the stored word
that best fits the surrounding context. Each argument is one sentence;
with no arguments, sentences are read from standard input, one per line,
so context never crosses a line break there. --file reads a whole file
as a single sentence: line breaks are plain whitespace and context spans
them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file != "" && len(args) > 0 {
				return errors.New("pass sentences or --file, not both")
			}

			var whole string
			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("read %s: %w: %w", file, internalerr.ErrInvalidInput, err)
				}
				whole = string(data)
			}

			ctx := cmd.Context()
			eng, err := flags.openEngine(ctx)
			if err != nil {
				return err
			}
			defer eng.Close()

			out := cmd.OutOrStdout()
			recognize := func(sentence string) error {
				got, err := eng.Recognize(ctx, sentence)
				if err != nil {
					return fmt.Errorf("recognize %q: %w", sentence, err)
				}
				fmt.Fprintln(out, got)
				return nil
			}

			if file != "" {
				return recognize(whole)
			}

			if len(args) > 0 {
				for _, s := range args {
					if err := recognize(s); err != nil {
						return err
					}
				}
				return nil
			}

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if err := recognize(line); err != nil {
					return err
				}
			}
			return scanner.Err()
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Recognize the whole file as one sentence")
	return cmd
}
