// Command ratecli scores candidate records from the command line. It runs
// the same pipeline as the server, reading one JSON object from a file or
// stdin and printing the rating as JSON.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/takshd15/elite-signup/internal/adapter/embedding"
	"github.com/takshd15/elite-signup/internal/config"
	"github.com/takshd15/elite-signup/internal/domain"
	"github.com/takshd15/elite-signup/internal/lexicon"
	"github.com/takshd15/elite-signup/internal/usecase"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		inputPath  string
		lexiconDir string
		backend    string
		noExplain  bool
		compact    bool
	)

	cmd := &cobra.Command{
		Use:           "ratecli",
		Short:         "Score a candidate record",
		Long:          "Reads a JSON object describing a candidate from --input (or stdin) and prints its rating.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if lexiconDir != "" {
				cfg.LexiconDir = lexiconDir
			}
			if backend != "" {
				cfg.EmbeddingsBackend = backend
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			record, err := readRecord(inputPath, cmd.InOrStdin())
			if err != nil {
				return err
			}

			weights, err := cfg.Weights()
			if err != nil {
				return err
			}
			lex := lexicon.Load(cfg.LexiconDir)
			emb := embedding.NewResolver(cfg, lex.ArchetypeDescriptions(), lex.Stopwords)
			rater := usecase.NewRaterService(lex, emb, weights)

			res, err := rater.Rate(cmd.Context(), record, !noExplain)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if !compact {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(res)
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "path to the candidate JSON file (default: stdin)")
	cmd.Flags().StringVar(&lexiconDir, "lexicon-dir", "", "directory with lexicon override files")
	cmd.Flags().StringVar(&backend, "backend", "", "similarity backend: onnx, api, or bow")
	cmd.Flags().BoolVar(&noExplain, "no-explain", false, "omit the explanation block")
	cmd.Flags().BoolVar(&compact, "compact", false, "print compact JSON")
	return cmd
}

func readRecord(path string, stdin io.Reader) (domain.CVRecord, error) {
	var r io.Reader = stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()
		r = f
	}
	var record domain.CVRecord
	if err := json.NewDecoder(r).Decode(&record); err != nil {
		return nil, fmt.Errorf("%w: input must be a JSON object: %v", domain.ErrInvalidArgument, err)
	}
	return record, nil
}
