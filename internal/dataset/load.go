package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/rshade/virtuallist/internal/logging"
)

// collectionKey is the json-server collection holding reservations.
const collectionKey = "reservations"

// Load errors.
var (
	ErrNoPaths        = errors.New("no data files given")
	ErrUnknownFormat  = errors.New("data file must hold a JSON array or an object with a \"reservations\" array")
	ErrNegativeLimit  = errors.New("limit cannot be negative")
	ErrMissingRecords = errors.New("data file has no \"reservations\" collection")
)

// LoadFile reads reservations from path. The file holds either a JSON array
// of reservations or a json-server database object with a "reservations"
// key. A positive limit truncates the result.
func LoadFile(ctx context.Context, path string, limit int) ([]Reservation, error) {
	if limit < 0 {
		return nil, ErrNegativeLimit
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading data file %s: %w", path, err)
	}

	records, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("parsing data file %s: %w", path, err)
	}

	logging.FromContext(ctx).Debug().
		Str("component", "dataset").
		Str("path", path).
		Int("records", len(records)).
		Msg("data file loaded")

	return applyLimit(records, limit), nil
}

// LoadAll reads every path concurrently and concatenates the results in
// argument order. A positive limit applies to the combined result.
func LoadAll(ctx context.Context, paths []string, limit int) ([]Reservation, error) {
	if len(paths) == 0 {
		return nil, ErrNoPaths
	}
	if limit < 0 {
		return nil, ErrNegativeLimit
	}

	parts := make([][]Reservation, len(paths))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		g.Go(func() error {
			records, err := LoadFile(gCtx, path, 0)
			if err != nil {
				return err
			}
			parts[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, p := range parts {
		total += len(p)
	}
	all := make([]Reservation, 0, total)
	for _, p := range parts {
		all = append(all, p...)
	}
	return applyLimit(all, limit), nil
}

func decode(data []byte) ([]Reservation, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrUnknownFormat
	}

	switch trimmed[0] {
	case '[':
		var records []Reservation
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, err
		}
		return records, nil
	case '{':
		var db map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &db); err != nil {
			return nil, err
		}
		raw, ok := db[collectionKey]
		if !ok {
			return nil, ErrMissingRecords
		}
		var records []Reservation
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, err
		}
		return records, nil
	default:
		return nil, ErrUnknownFormat
	}
}

func applyLimit(records []Reservation, limit int) []Reservation {
	if limit > 0 && len(records) > limit {
		return records[:limit]
	}
	return records
}
