package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/rshade/virtuallist/internal/clock"
	"github.com/rshade/virtuallist/internal/logging"
	"github.com/rshade/virtuallist/internal/virtualizer"
	"github.com/rshade/virtuallist/internal/window"
)

// Options configures Run.
type Options struct {
	Loader   Loader
	Buffer   window.Buffer
	Interval time.Duration
	Gap      int

	// Disabled renders every item without a virtualizer.
	Disabled bool

	Logger zerolog.Logger
	Clock  clock.Clock

	// Input and Output override the terminal, mainly for tests.
	Input  io.Reader
	Output io.Writer
}

// Run shows the browser until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	logger := logging.ComponentLogger(opts.Logger, "tui")
	model := NewAppModel(ctx, opts.Loader, opts.Gap).WithLogger(logger)

	var program *tea.Program
	var virt *virtualizer.Virtualizer
	if !opts.Disabled {
		vopts := []virtualizer.Option{
			virtualizer.WithBuffer(opts.Buffer),
			virtualizer.WithInterval(opts.Interval),
			virtualizer.WithLogger(opts.Logger),
			virtualizer.WithOnChange(func(r window.VisibleRange) {
				// Leading runs happen inside Update, where Send would block.
				go program.Send(RangeChangedMsg{Range: r})
			}),
		}
		if opts.Clock != nil {
			vopts = append(vopts, virtualizer.WithClock(opts.Clock))
		}

		var err error
		virt, err = virtualizer.New(model.List(), vopts...)
		if err != nil {
			return fmt.Errorf("creating virtualizer: %w", err)
		}
		model = model.WithVirtualizer(virt)
	}

	progOpts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithMouseCellMotion()}
	if opts.Input != nil {
		progOpts = append(progOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		progOpts = append(progOpts, tea.WithOutput(opts.Output))
	} else {
		progOpts = append(progOpts, tea.WithAltScreen())
	}
	program = tea.NewProgram(model, progOpts...)

	if virt != nil {
		if err := virt.Start(ctx); err != nil {
			logger.Warn().Err(err).Msg("list virtualization disabled")
		}
		defer virt.Stop()
	}

	logger.Debug().
		Bool("virtualized", virt != nil).
		Int("gap", opts.Gap).
		Msg("starting program")

	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}
