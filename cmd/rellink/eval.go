package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agenthands/rellink/internal/app"
	"github.com/agenthands/rellink/internal/eval"
)

var (
	evalOut string

	evalCmd = &cobra.Command{
		Use:   "eval [dataset.json]",
		Short: "Link an annotated dataset and report precision, recall and F1",
		Args:  cobra.ExactArgs(1),
		RunE:  runEval,
	}
)

func init() {
	evalCmd.Flags().StringVarP(&evalOut, "out", "o", "", "write per-question results to this file")
}

func runEval(cmd *cobra.Command, args []string) error {
	ds, err := eval.LoadDataset(args[0])
	if err != nil {
		return err
	}

	return withApp(cmd.Context(), func(a *app.App) error {
		results, summary, err := eval.Run(cmd.Context(), a.Linker, ds, cfg.Concurrency.BulkLink, log)
		if err != nil {
			return err
		}
		if evalOut != "" {
			w, closeOut, err := output(cmd, evalOut)
			if err != nil {
				return err
			}
			if err := writeJSON(w, results); err != nil {
				closeOut()
				return err
			}
			if err := closeOut(); err != nil {
				return err
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "questions: %d\nprecision: %.4f\nrecall:    %.4f\nf1:        %.4f\n",
			summary.Questions, summary.Precision, summary.Recall, summary.F1)
		return nil
	})
}
