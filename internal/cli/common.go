package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rshade/virtuallist/internal/config"
	"github.com/rshade/virtuallist/internal/dataset"
)

// Output formats.
const (
	formatTable  = "table"
	formatJSON   = "json"
	formatNDJSON = "ndjson"
)

// Exit codes beyond the generic 1.
const (
	exitCodeConfig = 2
	exitCodeUsage  = 3
)

// ErrInvalidOutputFormat is returned for an unknown --output value.
var ErrInvalidOutputFormat = errors.New("output format must be table, json, or ndjson")

// dataFlags selects where records come from. Zero values defer to config.
type dataFlags struct {
	Paths    []string
	Generate int
	Seed     uint64
	Limit    int
}

// addDataFlags registers the data source flags. withLimit is false for
// commands whose --limit means something else.
func addDataFlags(cmd *cobra.Command, f *dataFlags, withLimit bool) {
	cmd.Flags().StringArrayVar(&f.Paths, "data", nil, "JSON file of reservations (repeatable)")
	cmd.Flags().IntVar(&f.Generate, "generate", 0, "generate N synthetic reservations when no --data is given")
	cmd.Flags().Uint64Var(&f.Seed, "seed", 0, "seed for --generate")
	if withLimit {
		cmd.Flags().IntVar(&f.Limit, "limit", 0, "maximum number of records to load (0 for all)")
	}
}

// resolve overlays explicitly set flags onto the configured data section.
func (f dataFlags) resolve(cmd *cobra.Command, cfg config.DataConfig) config.DataConfig {
	if cmd.Flags().Changed("data") {
		cfg.Paths = f.Paths
	}
	if cmd.Flags().Changed("generate") {
		cfg.Generate = f.Generate
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = f.Seed
	}
	if cmd.Flags().Lookup("limit") != nil && cmd.Flags().Changed("limit") {
		cfg.Limit = f.Limit
	}
	return cfg
}

// loadRecords reads the configured files, or generates records when none are
// configured.
func loadRecords(ctx context.Context, cfg config.DataConfig) ([]dataset.Reservation, error) {
	if cfg.Limit < 0 {
		return nil, fmt.Errorf("%w: got %d", dataset.ErrNegativeLimit, cfg.Limit)
	}
	if len(cfg.Paths) > 0 {
		return dataset.LoadAll(ctx, cfg.Paths, cfg.Limit)
	}

	n := cfg.Generate
	if cfg.Limit > 0 && cfg.Limit < n {
		n = cfg.Limit
	}
	return dataset.Generate(n, cfg.Seed), nil
}

func validateOutputFormat(format string) error {
	switch format {
	case formatTable, formatJSON, formatNDJSON:
		return nil
	default:
		return &ExitError{Code: exitCodeUsage, Err: fmt.Errorf("%w: got %q", ErrInvalidOutputFormat, format)}
	}
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeNDJSON writes each item as one compact JSON line.
func writeNDJSON[T any](w io.Writer, items []T) error {
	enc := json.NewEncoder(w)
	for _, item := range items {
		if err := enc.Encode(item); err != nil {
			return err
		}
	}
	return nil
}
