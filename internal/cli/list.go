package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/rshade/virtuallist/internal/cli/pagination"
	"github.com/rshade/virtuallist/internal/config"
	"github.com/rshade/virtuallist/internal/dataset"
)

// listDateLayout is the date column format.
const listDateLayout = "2006-01-02"

// ListResponse is the json output of the list command.
type ListResponse struct {
	Items      []dataset.Row             `json:"items"`
	Pagination pagination.PaginationMeta `json:"pagination"`
}

// NewListCmd creates the list command, which prints derived rows without
// the terminal UI.
func NewListCmd() *cobra.Command {
	var data dataFlags
	var page pagination.PaginationParams
	var output string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print reservation rows with paging and sorting",
		Example: `  # First 20 rows sorted by price, most expensive first
  virtuallist list --generate 500 --limit 20 --sort price:desc

  # Third page of a file as JSON
  virtuallist list --data db.json --page 3 --page-size 50 --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeList(cmd, data, page, output)
		},
	}

	addDataFlags(cmd, &data, false)
	page.AddFlags(cmd)
	cmd.Flags().StringVar(&output, "output", formatTable, "Output format (table, json, ndjson)")

	return cmd
}

func executeList(cmd *cobra.Command, data dataFlags, page pagination.PaginationParams, output string) error {
	if err := validateOutputFormat(output); err != nil {
		return err
	}
	if err := page.Validate(); err != nil {
		return &ExitError{Code: exitCodeUsage, Err: err}
	}
	field, order, err := pagination.ValidateSort(pagination.NewReservationSorter(), page.Sort)
	if err != nil {
		return &ExitError{Code: exitCodeUsage, Err: err}
	}

	ctx := cmd.Context()
	dataCfg := data.resolve(cmd, config.GetGlobalConfig().Data)
	// --limit belongs to pagination here, so every record is loaded.
	dataCfg.Limit = 0
	records, err := loadRecords(ctx, dataCfg)
	if err != nil {
		return fmt.Errorf("loading records: %w", err)
	}

	rows := new(dataset.Deriver).Rows(records, field, order)
	items := pagination.Apply(page, rows)
	meta := pagination.NewPaginationMeta(page, len(rows))

	logger.Debug().Ctx(ctx).
		Int("records", len(records)).
		Int("returned", len(items)).
		Str("sort", field).
		Msg("listed rows")

	out := cmd.OutOrStdout()
	switch output {
	case formatJSON:
		return writeJSON(out, ListResponse{Items: items, Pagination: meta})
	case formatNDJSON:
		return writeNDJSON(out, items)
	default:
		return renderListTable(out, items, meta)
	}
}

func renderListTable(w io.Writer, rows []dataset.Row, meta pagination.PaginationMeta) error {
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, []string{
			fmt.Sprintf("%d", r.ID),
			r.Date.Format(listDateLayout),
			r.CustomerName,
			r.Status,
			dataset.PaymentLabel(r.PaymentOption),
			numberPrinter.Sprintf("$%.2f", r.Price),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "DATE", "CUSTOMER", "STATUS", "PAYMENT", "PRICE").
		Rows(cells...)
	if _, err := fmt.Fprintln(w, t.String()); err != nil {
		return err
	}
	_, err := numberPrinter.Fprintf(w, "page %d of %d · %d rows\n",
		meta.CurrentPage, meta.TotalPages, meta.TotalItems)
	return err
}
