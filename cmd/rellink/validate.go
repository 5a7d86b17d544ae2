package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agenthands/rellink/internal/app"
	"github.com/agenthands/rellink/internal/validation"
)

var (
	validateTopK int
	validateOut  string

	validateCmd = &cobra.Command{
		Use:   "validate [questions.json]",
		Short: "Validate the linked paths of questions against the knowledge graph",
		Args:  cobra.ExactArgs(1),
		RunE:  runValidate,
	}
)

func init() {
	validateCmd.Flags().IntVar(&validateTopK, "top-k", 0, "graphs kept per question (default from config)")
	validateCmd.Flags().StringVarP(&validateOut, "out", "o", "", "output file (default stdout)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	var questions []validation.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return fmt.Errorf("failed to parse %s: %w", args[0], err)
	}

	topK := cfg.Validation.TopK
	if validateTopK > 0 {
		topK = validateTopK
	}

	w, closeOut, err := output(cmd, validateOut)
	if err != nil {
		return err
	}
	defer closeOut()

	return withApp(cmd.Context(), func(a *app.App) error {
		outputs, err := a.Validator.ValidateAll(cmd.Context(), questions, topK, cfg.Validation.AcceptUnvalidatedAsk)
		if err != nil {
			return err
		}
		log.Info("questions validated", "questions", len(outputs), "cache_entries", a.Validator.Cache.Len())
		return writeJSON(w, outputs)
	})
}
