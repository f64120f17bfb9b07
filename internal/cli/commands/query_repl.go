package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlgate/internal/gateway"
)

const (
	replPrompt     = "sqlgate> "
	replContPrompt = "    ...> "
)

var (
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	mutedStyle  = lipgloss.NewStyle().Faint(true)
)

func runQueryREPL(cmd *cobra.Command, cmdCtx *CommandContext) error {
	ctx := cmd.Context()
	svc := cmdCtx.Service
	format := cmdCtx.Cfg.OutputFormat
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          promptStyle.Render(replPrompt),
		HistoryFile:     historyFile(),
		AutoComplete:    newTableCompleter(ctx, svc),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	database := svc.Database()
	if database == "" {
		database = "(none)"
	}
	_, _ = fmt.Fprintf(out, "sqlgate REPL (database: %s)\n", database)
	_, _ = fmt.Fprintln(out, mutedStyle.Render("Type .help for commands, .quit to exit"))
	_, _ = fmt.Fprintln(out)

	// REPL loop
	var multiLineBuffer strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			multiLineBuffer.Reset()
			rl.SetPrompt(promptStyle.Render(replPrompt))
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Dot-commands only at the start of a statement
		if multiLineBuffer.Len() == 0 && strings.HasPrefix(line, ".") {
			if quit := handleDotCommand(ctx, out, errOut, svc, line, format); quit {
				break
			}
			continue
		}

		// Accumulate multi-line SQL until semicolon
		multiLineBuffer.WriteString(line)
		if !strings.HasSuffix(line, ";") {
			multiLineBuffer.WriteString(" ")
			rl.SetPrompt(promptStyle.Render(replContPrompt))
			continue
		}
		rl.SetPrompt(promptStyle.Render(replPrompt))

		query := strings.TrimSuffix(multiLineBuffer.String(), ";")
		multiLineBuffer.Reset()

		if err := executeAndRender(ctx, out, svc, query, format); err != nil {
			printREPLError(errOut, err)
		}
		_, _ = fmt.Fprintln(out)
	}

	return nil
}

// handleDotCommand runs a REPL meta command and reports whether the REPL
// should exit.
func handleDotCommand(ctx context.Context, out, errOut io.Writer, svc *gateway.Service, line, format string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(out)

	case ".tables":
		if err := listTables(ctx, out, svc, format); err != nil {
			printREPLError(errOut, err)
		}

	case ".page":
		if len(parts) < 2 || len(parts) > 4 {
			_, _ = fmt.Fprintln(errOut, "Usage: .page <table> [page] [limit]")
			return false
		}
		var page, limit string
		if len(parts) > 2 {
			page = parts[2]
		}
		if len(parts) > 3 {
			limit = parts[3]
		}
		if err := showTablePage(ctx, out, errOut, svc, parts[1], page, limit, format); err != nil {
			printREPLError(errOut, err)
		}

	case ".clear":
		_, _ = fmt.Fprint(out, "\033[H\033[2J")

	default:
		_, _ = fmt.Fprintf(errOut, "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

func printREPLError(w io.Writer, err error) {
	_, _ = fmt.Fprintln(w, errorStyle.Render("Error: "+err.Error()))
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help                        Show this help message
  .tables                      List tables
  .page <table> [page] [limit] Show a page of table rows (limit may be "all")
  .clear                       Clear the screen
  .quit / .exit                Exit the REPL

Tips:
  - SQL statements must end with a semicolon (;)
  - Use arrow keys to navigate history
  - Tab completion works for table names
`
	_, _ = fmt.Fprintln(w, help)
}

// historyFile returns the per-user REPL history path, or "" to disable
// history when no cache directory is available.
func historyFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	dir = filepath.Join(dir, "sqlgate")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return ""
	}
	return filepath.Join(dir, "query_history")
}

// newTableCompleter creates a readline completer for table names.
func newTableCompleter(ctx context.Context, svc *gateway.Service) *readline.PrefixCompleter {
	// Table names are only a convenience here; errors just leave them out
	tables, _ := svc.ListTables(ctx)

	items := make([]readline.PrefixCompleterInterface, 0, len(tables)+6)
	pageItems := make([]readline.PrefixCompleterInterface, 0, len(tables))
	for _, name := range tables {
		items = append(items, readline.PcItem(name))
		pageItems = append(pageItems, readline.PcItem(name))
	}

	items = append(items,
		readline.PcItem(".help"),
		readline.PcItem(".tables"),
		readline.PcItem(".page", pageItems...),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)

	return readline.NewPrefixCompleter(items...)
}
