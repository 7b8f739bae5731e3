package pagination

import (
	"fmt"
	"strings"

	"github.com/rshade/virtuallist/internal/dataset"
)

// Sorter sorts rows by a named field.
type Sorter interface {
	// Sort returns rows sorted by field and order without modifying the input.
	Sort(rows []dataset.Row, field, order string) []dataset.Row
	// IsValidField checks if the given field name is valid for sorting.
	IsValidField(field string) bool
	// GetValidFields returns the valid field names in a stable order.
	GetValidFields() []string
}

// ReservationSorter implements Sorter for reservation rows.
type ReservationSorter struct{}

// NewReservationSorter creates a ReservationSorter.
func NewReservationSorter() *ReservationSorter {
	return &ReservationSorter{}
}

// IsValidField checks if the field is valid for sorting.
func (s *ReservationSorter) IsValidField(field string) bool {
	return dataset.IsSortField(field)
}

// GetValidFields returns all valid sort fields.
func (s *ReservationSorter) GetValidFields() []string {
	return dataset.SortFields()
}

// Sort sorts rows by field and order. An invalid field returns rows unchanged.
func (s *ReservationSorter) Sort(rows []dataset.Row, field, order string) []dataset.Row {
	return dataset.SortRows(rows, field, order)
}

// ValidateSort parses sortStr and checks the field against sorter.
// An empty sortStr is valid and means "no sort".
//
//nolint:nonamedreturns // Named returns improve readability for this multi-value function.
func ValidateSort(sorter Sorter, sortStr string) (field, order string, err error) {
	field, order, err = ParseSort(sortStr)
	if err != nil || field == "" {
		return field, order, err
	}
	if !sorter.IsValidField(field) {
		return "", "", fmt.Errorf("%w: %q (valid: %s)",
			ErrInvalidSortField, field, strings.Join(sorter.GetValidFields(), ", "))
	}
	return field, order, nil
}
