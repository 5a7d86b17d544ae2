package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agenthands/rellink/internal/app"
	"github.com/agenthands/rellink/internal/driver"
)

var (
	mirrorBatchSize int

	mirrorCmd = &cobra.Command{
		Use:   "mirror [statements]",
		Short: "Load statements into the Memgraph mirror of the knowledge graph",
		Long: `Reads one statement per line, either "subject<TAB>predicate<TAB>object" or an
N-Triples line with IRI terms, and merges them into Memgraph. Literal objects are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: runMirror,
	}
)

func init() {
	mirrorCmd.Flags().IntVar(&mirrorBatchSize, "batch-size", 500, "statements per write")
}

func runMirror(cmd *cobra.Command, args []string) error {
	if cfg.Oracle.Backend != "memgraph" {
		return errors.New("mirror requires oracle.backend = \"memgraph\"")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	statements, skipped, err := ReadStatements(f)
	if err != nil {
		return err
	}
	log.Info("statements read", "statements", len(statements), "skipped", skipped)

	return withApp(cmd.Context(), func(a *app.App) error {
		if err := a.Memgraph.SaveStatements(cmd.Context(), statements, mirrorBatchSize); err != nil {
			return err
		}
		n, err := a.Memgraph.CountStatements(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "mirror holds %d statements\n", n)
		return nil
	})
}

// ReadStatements parses TSV or N-Triples statements. Blank lines and # comments are ignored;
// lines with a literal object or fewer than three terms are counted as skipped.
func ReadStatements(r io.Reader) ([]driver.Statement, int, error) {
	var (
		out     []driver.Statement
		skipped int
	)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		st, ok := parseStatement(line)
		if !ok {
			skipped++
			continue
		}
		out = append(out, st)
	}
	if err := sc.Err(); err != nil {
		return nil, 0, err
	}
	return out, skipped, nil
}

func parseStatement(line string) (driver.Statement, bool) {
	var terms []string
	if strings.Contains(line, "\t") {
		terms = strings.Split(line, "\t")
	} else {
		terms = strings.Fields(strings.TrimSuffix(line, "."))
	}
	if len(terms) < 3 {
		return driver.Statement{}, false
	}
	s, p, o := iriTerm(terms[0]), iriTerm(terms[1]), iriTerm(terms[2])
	if s == "" || p == "" || o == "" {
		return driver.Statement{}, false
	}
	return driver.Statement{Subject: s, Predicate: p, Object: o}, true
}

// iriTerm strips angle brackets; literals and blank nodes give "".
func iriTerm(t string) string {
	t = strings.TrimSpace(t)
	switch {
	case t == "", strings.HasPrefix(t, `"`), strings.HasPrefix(t, "_:"):
		return ""
	case strings.HasPrefix(t, "<") && strings.HasSuffix(t, ">"):
		return t[1 : len(t)-1]
	}
	return t
}
