package cli

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/virtuallist/internal/config"
	"github.com/rshade/virtuallist/internal/dataset"
	"github.com/rshade/virtuallist/internal/logging"
	"github.com/rshade/virtuallist/internal/tui"
	"github.com/rshade/virtuallist/internal/window"
)

// ErrNotTerminal is returned when view is run without an interactive terminal.
var ErrNotTerminal = errors.New("view needs an interactive terminal; use 'virtuallist list' for plain output")

// viewParams holds the view command flags. Zero values defer to config.
type viewParams struct {
	data         dataFlags
	before       int
	after        int
	interval     time.Duration
	gap          int
	noVirtualize bool
}

// NewViewCmd creates the view command, the interactive reservation browser.
func NewViewCmd() *cobra.Command {
	var params viewParams

	cmd := &cobra.Command{
		Use:         "view",
		Short:       "Browse reservations in a virtualized list",
		Annotations: map[string]string{annotationTUI: "true"},
		Long: `Opens a scrollable list of reservations. Only the items within a few
screens of the viewport are rendered; the rest are drawn as placeholders
of the same height, so the list scrolls smoothly with any number of records.

The rendered range is recomputed at most once per --interval while
scrolling. Use --no-virtualize to render every item for comparison.`,
		Example: `  virtuallist view --generate 100000
  virtuallist view --data db.json --before 1 --after 1 --interval 100ms
  virtuallist view --generate 5000 --no-virtualize`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
				return &ExitError{Code: exitCodeUsage, Err: ErrNotTerminal}
			}
			opts, err := params.options(cmd, config.GetGlobalConfig())
			if err != nil {
				return err
			}
			return tui.Run(cmd.Context(), opts)
		},
	}

	params.addFlags(cmd)
	return cmd
}

func (p *viewParams) addFlags(cmd *cobra.Command) {
	addDataFlags(cmd, &p.data, true)
	cmd.Flags().IntVar(&p.before, "before", window.DefaultBefore, "screens rendered above the viewport")
	cmd.Flags().IntVar(&p.after, "after", window.DefaultAfter, "screens rendered below the viewport")
	cmd.Flags().DurationVar(&p.interval, "interval", 0, "minimum time between range recomputations")
	cmd.Flags().IntVar(&p.gap, "gap", 0, "blank rows between items")
	cmd.Flags().BoolVar(&p.noVirtualize, "no-virtualize", false, "render every item")
}

// options builds the TUI options from cfg with explicitly set flags on top.
func (p viewParams) options(cmd *cobra.Command, cfg *config.Config) (tui.Options, error) {
	w := cfg.Window
	flags := cmd.Flags()
	if flags.Changed("before") {
		w.BufferBefore = p.before
	}
	if flags.Changed("after") {
		w.BufferAfter = p.after
	}
	if flags.Changed("interval") {
		w.Interval = p.interval
	}
	if flags.Changed("gap") {
		w.ItemGap = p.gap
	}
	if flags.Changed("no-virtualize") {
		w.Disabled = p.noVirtualize
	}

	buf := window.Buffer{Before: w.BufferBefore, After: w.BufferAfter}
	if err := buf.Validate(); err != nil {
		return tui.Options{}, &ExitError{Code: exitCodeUsage, Err: err}
	}
	if w.Interval < 0 {
		return tui.Options{}, &ExitError{Code: exitCodeUsage, Err: config.ErrInvalidInterval}
	}
	if w.ItemGap < 0 {
		return tui.Options{}, &ExitError{Code: exitCodeUsage, Err: config.ErrInvalidGap}
	}

	dataCfg := p.data.resolve(cmd, cfg.Data)
	if dataCfg.Limit < 0 {
		return tui.Options{}, &ExitError{Code: exitCodeUsage, Err: dataset.ErrNegativeLimit}
	}

	return tui.Options{
		Loader: func(ctx context.Context) ([]dataset.Reservation, error) {
			return loadRecords(ctx, dataCfg)
		},
		Buffer:   buf,
		Interval: w.Interval,
		Gap:      w.ItemGap,
		Disabled: w.Disabled,
		Logger:   *logging.FromContext(cmd.Context()),
	}, nil
}
