package pagination

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// Pagination defaults and sort orders.
const (
	DefaultLimit     = 0
	DefaultOffset    = 0
	DefaultSortField = ""
	DefaultSortOrder = SortOrderAsc
	SortOrderAsc     = "asc"
	SortOrderDesc    = "desc"
)

// Validation errors.
var (
	ErrNegativeValue        = errors.New("pagination values cannot be negative")
	ErrMixedPaginationModes = errors.New("page and offset parameters are mutually exclusive")
	ErrPageSizeWithoutPage  = errors.New("page must be specified when using page-size")
	ErrPageWithoutPageSize  = errors.New("page-size must be specified when using page")
	ErrInvalidSortOrder     = errors.New("sort order must be 'asc' or 'desc'")
	ErrInvalidSortFormat    = errors.New("invalid sort format: use 'field' or 'field:order' (e.g., 'price:desc')")
	ErrEmptySortField       = errors.New("sort field cannot be empty")
	ErrInvalidSortField     = errors.New("invalid sort field")
)

// PaginationParams holds CLI pagination flags.
// Two modes are supported and are mutually exclusive:
//   - Offset-based: --limit and --offset
//   - Page-based: --page and --page-size
//
//nolint:revive // PaginationParams is the canonical name for this exported type.
type PaginationParams struct {
	Limit    int
	Offset   int
	Page     int
	PageSize int

	// Sort is the raw "field[:order]" flag value; see ParseSort.
	Sort string
}

// AddFlags registers the pagination flags on cmd, bound to p.
func (p *PaginationParams) AddFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.IntVar(&p.Limit, "limit", DefaultLimit, "maximum number of rows to print (0 for all)")
	flags.IntVar(&p.Offset, "offset", DefaultOffset, "number of rows to skip")
	flags.IntVar(&p.Page, "page", 0, "1-based page number (requires --page-size)")
	flags.IntVar(&p.PageSize, "page-size", 0, "rows per page (requires --page)")
	flags.StringVar(&p.Sort, "sort", "", "sort by field[:asc|desc]")
}

// Validate checks that the parameters are non-negative and use one mode.
func (p PaginationParams) Validate() error {
	if p.Limit < 0 || p.Offset < 0 || p.Page < 0 || p.PageSize < 0 {
		return ErrNegativeValue
	}
	if p.Page > 0 && p.Offset > 0 {
		return ErrMixedPaginationModes
	}
	if p.Page == 0 && p.PageSize > 0 {
		return ErrPageSizeWithoutPage
	}
	if p.PageSize == 0 && p.Page > 0 {
		return ErrPageWithoutPageSize
	}
	return nil
}

// sortPartsMax is the maximum number of parts in a sort string (field:order).
const sortPartsMax = 2

// ParseSort parses a sort string in the format "field" or "field:order".
//
//nolint:nonamedreturns // Named returns improve readability for this multi-value function.
func ParseSort(sortStr string) (field, order string, err error) {
	if sortStr == "" {
		return DefaultSortField, DefaultSortOrder, nil
	}

	parts := strings.Split(sortStr, ":")
	switch len(parts) {
	case 1:
		field = strings.TrimSpace(parts[0])
		order = DefaultSortOrder
	case sortPartsMax:
		field = strings.TrimSpace(parts[0])
		order = strings.ToLower(strings.TrimSpace(parts[1]))
	default:
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSortFormat, sortStr)
	}

	if field == "" {
		return "", "", ErrEmptySortField
	}

	if order != SortOrderAsc && order != SortOrderDesc {
		return "", "", fmt.Errorf("%w: got %q", ErrInvalidSortOrder, order)
	}

	return field, order, nil
}

// IsPageBased returns true if page-based pagination is active.
func (p PaginationParams) IsPageBased() bool {
	return p.Page > 0
}

// CalculateOffsetLimit returns the effective offset and limit.
// A limit of 0 means no limit.
//
//nolint:nonamedreturns // Named returns improve readability for this multi-value function.
func (p PaginationParams) CalculateOffsetLimit() (offset, limit int) {
	if p.IsPageBased() {
		return (p.Page - 1) * p.PageSize, p.PageSize
	}
	return p.Offset, p.Limit
}

// Apply returns the page of items selected by p.
// For page-based pagination an out-of-range page is capped to the last page;
// an out-of-range offset yields an empty slice.
func Apply[T any](p PaginationParams, items []T) []T {
	if len(items) == 0 {
		return items
	}

	offset, limit := p.CalculateOffsetLimit()

	if p.IsPageBased() && offset >= len(items) {
		offset = ((len(items) - 1) / p.PageSize) * p.PageSize
	}

	if offset >= len(items) {
		return []T{}
	}

	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
