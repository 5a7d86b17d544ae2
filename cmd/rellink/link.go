package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/agenthands/rellink/internal/app"
	"github.com/agenthands/rellink/internal/core/linking"
	"github.com/agenthands/rellink/internal/logger"
)

var (
	linkAMR   string
	linkBatch string
	linkOut   string

	linkCmd = &cobra.Command{
		Use:   "link [question]",
		Short: "Link the relations of one question, or of a batch file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLink,
	}
)

func init() {
	linkCmd.Flags().StringVar(&linkAMR, "amr", "", "AMR graph of the question, or @file to read it from a file")
	linkCmd.Flags().StringVar(&linkBatch, "batch", "", "JSON array of {id, text, amr} questions")
	linkCmd.Flags().StringVarP(&linkOut, "out", "o", "", "output file (default stdout)")
}

// LinkInput is one question of a batch. Questions without an id get a random one.
type LinkInput struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	AMR  string `json:"amr"`
}

type LinkOutput struct {
	ID     string          `json:"id"`
	Text   string          `json:"text"`
	Error  string          `json:"error,omitempty"`
	Result *linking.Result `json:"result,omitempty"`
}

type questionLinker interface {
	Link(ctx context.Context, question, amrText string) (*linking.Result, error)
}

func runLink(cmd *cobra.Command, args []string) error {
	var inputs []LinkInput
	switch {
	case linkBatch != "":
		data, err := os.ReadFile(linkBatch)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(data, &inputs); err != nil {
			return fmt.Errorf("failed to parse %s: %w", linkBatch, err)
		}
	case len(args) == 1:
		amrText, err := readArg(linkAMR)
		if err != nil {
			return err
		}
		if amrText == "" {
			return errors.New("--amr is required with a single question")
		}
		inputs = []LinkInput{{Text: args[0], AMR: amrText}}
	default:
		return errors.New("give a question or --batch")
	}

	w, closeOut, err := output(cmd, linkOut)
	if err != nil {
		return err
	}
	defer closeOut()

	return withApp(cmd.Context(), func(a *app.App) error {
		outputs, err := LinkAll(cmd.Context(), a.Linker, inputs, cfg.Concurrency.BulkLink)
		if err != nil {
			return err
		}
		if len(outputs) == 1 && linkBatch == "" {
			return writeJSON(w, outputs[0])
		}
		return writeJSON(w, outputs)
	})
}

// LinkAll links the inputs with at most workers in flight. A question that fails keeps its error
// in the output and does not stop the others.
func LinkAll(ctx context.Context, linker questionLinker, inputs []LinkInput, workers int) ([]LinkOutput, error) {
	log := logger.OrNop(log)
	outputs := make([]LinkOutput, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, in := range inputs {
		i, in := i, in
		if in.ID == "" {
			in.ID = uuid.NewString()
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out := LinkOutput{ID: in.ID, Text: in.Text}
			res, err := linker.Link(gctx, in.Text, in.AMR)
			if err != nil {
				out.Error = err.Error()
				log.Warn("failed to link question", "id", in.ID, "error", err)
			} else {
				out.Result = res
			}
			outputs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outputs, nil
}

// readArg returns the flag value, or the content of the file it names after "@".
func readArg(v string) (string, error) {
	if len(v) > 1 && v[0] == '@' {
		data, err := os.ReadFile(v[1:])
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return v, nil
}
