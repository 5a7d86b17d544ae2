package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/agenthands/rellink/internal/app"
	"github.com/agenthands/rellink/internal/config"
	"github.com/agenthands/rellink/internal/logger"
)

var (
	configPath string
	logMode    string

	cfg *config.Config
	log *logger.Logger

	rootCmd = &cobra.Command{
		Use:   "rellink",
		Short: "Link the relations of AMR-parsed questions to DBpedia properties",
		Long: `rellink maps the predicates of a question's AMR graph to knowledge-graph
relations, and validates multi-hop paths against a SPARQL endpoint or a Memgraph mirror.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			var err error
			cfg, err = config.LoadOrDefault(configPath)
			if err != nil {
				return err
			}
			if logMode != "" {
				cfg.Log.Mode = logMode
			}
			log, err = logger.New(cfg.Log.Mode)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if log != nil {
				log.Sync()
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default $CONFIG_PATH or config/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logMode, "log-mode", "", "dev or prod, overrides the config")

	rootCmd.AddCommand(linkCmd, validateCmd, evalCmd, serveCmd, mirrorCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// withApp builds the pipeline for one command and closes it afterwards.
func withApp(ctx context.Context, fn func(a *app.App) error) error {
	a, err := app.Build(ctx, cfg, log)
	if err != nil {
		return err
	}
	runErr := fn(a)
	if err := a.Close(context.Background()); err != nil {
		log.Error("failed to close pipeline", "error", err)
	}
	return runErr
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// output opens path for writing, or returns stdout when path is empty.
func output(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
