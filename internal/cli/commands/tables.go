package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlgate/internal/gateway"
	"github.com/leapstack-labs/sqlgate/internal/rows"
)

// TablesOptions holds options for the tables command.
type TablesOptions struct {
	Page  string
	Limit string
}

// NewTablesCommand creates the tables command.
func NewTablesCommand() *cobra.Command {
	opts := &TablesOptions{}

	cmd := &cobra.Command{
		Use:   "tables [TABLE]",
		Short: "List tables or show a page of table rows",
		Long: `Without arguments, list the tables of the configured database.

With a table name, print one page of its rows. Pages are 1-based; the
limit is a positive row count or "all".`,
		Example: `  sqlgate tables
  sqlgate tables users --page 2 --limit 25
  sqlgate tables users --limit all -o csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			format := outputFormat(cmd)
			if len(args) == 0 {
				return listTables(cmd.Context(), cmd.OutOrStdout(), cmdCtx.Service, format)
			}
			return showTablePage(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(),
				cmdCtx.Service, args[0], opts.Page, opts.Limit, format)
		},
	}

	cmd.Flags().StringVar(&opts.Page, "page", "", "Page number (default 1)")
	cmd.Flags().StringVar(&opts.Limit, "limit", "", `Rows per page, or "all" (default: default_limit)`)

	return cmd
}

func listTables(ctx context.Context, w io.Writer, svc *gateway.Service, format string) error {
	tables, err := svc.ListTables(ctx)
	if err != nil {
		return err
	}

	rs := &rows.ResultSet{Rows: make([]rows.Row, 0, len(tables))}
	for _, name := range tables {
		rs.Rows = append(rs.Rows, rows.Row{"name": name})
	}
	if len(tables) > 0 {
		rs.Columns = []string{"name"}
	}
	return renderResults(w, rs, format)
}

// showTablePage renders one page of table rows to w and the pagination
// summary to info, keeping w machine-readable.
func showTablePage(ctx context.Context, w, info io.Writer, svc *gateway.Service, table, page, limit, format string) error {
	req, err := svc.ParsePageRequest(page, limit)
	if err != nil {
		return err
	}

	tp, err := svc.TableData(ctx, table, req)
	if err != nil {
		return err
	}

	if err := renderResults(w, tp.Result, format); err != nil {
		return err
	}

	p := tp.Pagination
	_, _ = fmt.Fprintf(info, "%s: page %d of %d, limit %s, %d rows total\n",
		tp.Table, p.Page, p.Pages, p.Limit, p.Total)
	return nil
}
