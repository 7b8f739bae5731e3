// Package pagination provides paging and sorting for the list command.
//
// It contains:
//   - PaginationParams: --limit/--offset or --page/--page-size flags and their validation
//   - PaginationMeta: metadata describing the returned page
//   - Sorter: field-validated sorting of reservation rows
package pagination
