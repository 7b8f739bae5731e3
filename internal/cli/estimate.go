package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/virtuallist/internal/config"
	"github.com/rshade/virtuallist/internal/window"
)

// viewportAuto sizes the viewport from the terminal height.
const viewportAuto = "auto"

//nolint:gochecknoglobals // Printers are safe for concurrent use.
var numberPrinter = message.NewPrinter(language.English)

// terminalSize reports the size of stdout. Replaced in tests.
//
//nolint:gochecknoglobals // Test seam for --viewport auto.
var terminalSize = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// EstimateParams holds the estimate command flags.
type EstimateParams struct {
	ItemHeight float64
	Gap        float64
	Viewport   string
	Scroll     []float64
	Before     int
	After      int
	Output     string
}

// EstimateResult is one estimate, as printed by every output format.
type EstimateResult struct {
	ScrollOffset float64              `json:"scroll_offset"`
	ItemHeight   float64              `json:"item_height"`
	Gap          float64              `json:"gap"`
	Viewport     float64              `json:"viewport"`
	Before       int                  `json:"before"`
	After        int                  `json:"after"`
	Available    bool                 `json:"available"`
	Range        *window.VisibleRange `json:"range,omitempty"`
	Items        int                  `json:"items"`
	Reason       string               `json:"reason,omitempty"`
}

// MarshalJSON writes non-finite inputs (NaN, ±Inf) as null; such results
// are unavailable and carry the reason instead.
func (r EstimateResult) MarshalJSON() ([]byte, error) {
	type plain EstimateResult
	return json.Marshal(struct {
		plain
		ScrollOffset *float64 `json:"scroll_offset"`
		ItemHeight   *float64 `json:"item_height"`
		Gap          *float64 `json:"gap"`
		Viewport     *float64 `json:"viewport"`
	}{
		plain:        plain(r),
		ScrollOffset: finite(r.ScrollOffset),
		ItemHeight:   finite(r.ItemHeight),
		Gap:          finite(r.Gap),
		Viewport:     finite(r.Viewport),
	})
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// NewEstimateCmd creates the estimate command, which evaluates the
// visible-range formula without a terminal UI.
func NewEstimateCmd() *cobra.Command {
	var params EstimateParams

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Compute the visible item range for a scroll position",
		Long: `Computes which items a virtualized list renders in full for the given
item height, viewport height and scroll offsets.

Invalid geometry (zero item height, zero viewport) is reported as
"unavailable" rather than as an error, matching how the list falls back
to its previous range.`,
		Example: `  # The two reference positions
  virtuallist estimate --item-height 124 --viewport 800 --scroll 0 --scroll 1240

  # Use the current terminal height, one line per item
  virtuallist estimate --item-height 1 --viewport auto --scroll 500 --output ndjson`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeEstimate(cmd, params)
		},
	}

	cmd.Flags().Float64Var(&params.ItemHeight, "item-height", 0, "height of one item")
	cmd.Flags().Float64Var(&params.Gap, "gap", 0, "space between items")
	cmd.Flags().StringVar(&params.Viewport, "viewport", "", "viewport height, or 'auto' for the terminal height")
	cmd.Flags().Float64SliceVar(&params.Scroll, "scroll", []float64{0}, "scroll offset (repeatable)")
	cmd.Flags().IntVar(&params.Before, "before", window.DefaultBefore, "screens rendered above the viewport")
	cmd.Flags().IntVar(&params.After, "after", window.DefaultAfter, "screens rendered below the viewport")
	cmd.Flags().StringVar(&params.Output, "output", formatTable, "Output format (table, json, ndjson)")

	return cmd
}

func executeEstimate(cmd *cobra.Command, params EstimateParams) error {
	if err := validateOutputFormat(params.Output); err != nil {
		return err
	}

	buf := window.Buffer{Before: params.Before, After: params.After}
	cfg := config.GetGlobalConfig()
	if !cmd.Flags().Changed("before") {
		buf.Before = cfg.Window.BufferBefore
	}
	if !cmd.Flags().Changed("after") {
		buf.After = cfg.Window.BufferAfter
	}
	if err := buf.Validate(); err != nil {
		return &ExitError{Code: exitCodeUsage, Err: err}
	}

	viewport, err := parseViewport(params.Viewport)
	if err != nil {
		return &ExitError{Code: exitCodeUsage, Err: err}
	}

	results := Estimate(params.ItemHeight, params.Gap, viewport, params.Scroll, buf)
	logger.Debug().Ctx(cmd.Context()).
		Int("positions", len(results)).
		Float64("viewport", viewport).
		Msg("estimated visible ranges")

	out := cmd.OutOrStdout()
	switch params.Output {
	case formatJSON:
		return writeJSON(out, results)
	case formatNDJSON:
		return writeNDJSON(out, results)
	default:
		return renderEstimateTable(out, results)
	}
}

// Estimate evaluates the visible range at each scroll offset.
func Estimate(itemHeight, gap, viewport float64, scrolls []float64, buf window.Buffer) []EstimateResult {
	results := make([]EstimateResult, 0, len(scrolls))
	for _, scroll := range scrolls {
		res := EstimateResult{
			ScrollOffset: scroll,
			ItemHeight:   itemHeight,
			Gap:          gap,
			Viewport:     viewport,
			Before:       buf.Before,
			After:        buf.After,
		}
		r, err := window.Estimate(
			window.ItemMetrics{Height: itemHeight, Gap: gap},
			window.Viewport{ScrollOffset: scroll, ClientHeight: viewport},
			buf,
		)
		if err != nil {
			res.Reason = err.Error()
		} else {
			res.Available = true
			res.Range = &r
			res.Items = r.Len()
		}
		results = append(results, res)
	}
	return results
}

// parseViewport accepts a number or "auto".
func parseViewport(s string) (float64, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return 0, errors.New("--viewport is required")
	case viewportAuto:
		_, height, err := terminalSize()
		if err != nil {
			return 0, fmt.Errorf("--viewport auto needs a terminal: %w", err)
		}
		return float64(height), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid --viewport %q: %w", s, err)
	}
	return v, nil
}

func renderEstimateTable(w io.Writer, results []EstimateResult) error {
	rows := make([][]string, 0, len(results))
	for _, res := range results {
		rangeLabel, items := "unavailable", "-"
		if res.Available {
			rangeLabel = res.Range.String()
			items = numberPrinter.Sprintf("%d", res.Items)
		}
		rows = append(rows, []string{
			numberPrinter.Sprintf("%.0f", res.ScrollOffset),
			numberPrinter.Sprintf("%g", res.ItemHeight+res.Gap),
			numberPrinter.Sprintf("%g", res.Viewport),
			fmt.Sprintf("%d/%d", res.Before, res.After),
			rangeLabel,
			items,
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("SCROLL", "STRIDE", "VIEWPORT", "BUFFER", "RANGE", "ITEMS").
		Rows(rows...)
	_, err := fmt.Fprintln(w, t.String())
	return err
}
