package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlgate/internal/cli/config"
	"github.com/leapstack-labs/sqlgate/internal/gateway"
)

var errNoSQL = errors.New("no SQL given")

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Input string
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Run SQL against the database",
		Long: `Execute SQL against the configured MySQL database and print the result.

Any statement is accepted. Statements that return rows print them; other
statements print the affected row count and last insert id.

SQL is read from the arguments, from --input, or from piped stdin. When
invoked without any of these on a terminal, enters interactive REPL mode.`,
		Example: `  # Execute SQL directly
  sqlgate query "SELECT * FROM users LIMIT 5"

  # Read SQL from a file
  sqlgate query --input report.sql

  # Pipe SQL and print JSON
  echo "SHOW TABLES" | sqlgate query -o json

  # Interactive mode
  sqlgate query`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	// Determine SQL source before connecting so input errors fail fast
	var sqlQuery string
	repl := false

	switch {
	case len(args) > 0:
		sqlQuery = strings.Join(args, " ")
	case opts.Input != "":
		content, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		sqlQuery = string(content)
	case !stdinIsTerminal():
		// Read from stdin (piped input)
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		sqlQuery = string(content)
	default:
		// No input, TTY detected - enter REPL mode
		repl = true
	}

	if !repl && strings.TrimSpace(sqlQuery) == "" {
		return errNoSQL
	}

	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if repl {
		return runQueryREPL(cmd, cmdCtx)
	}

	return executeAndRender(cmd.Context(), cmd.OutOrStdout(), cmdCtx.Service, sqlQuery, cmdCtx.Cfg.OutputFormat)
}

func executeAndRender(ctx context.Context, w io.Writer, svc *gateway.Service, sqlQuery, format string) error {
	rs, err := svc.Query(ctx, sqlQuery)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	return renderResults(w, rs, format)
}

// outputFormat returns the configured render format for cmd.
func outputFormat(cmd *cobra.Command) string {
	return config.GetConfig(cmd.Context()).OutputFormat
}
