// Package dataset supplies the reservation records shown in the virtual list.
//
// Records are read from json-server style JSON files or generated
// deterministically; they are never mutated once loaded. Derived display
// rows (effective price, names, sort order) are memoized by Deriver and only
// rebuilt when the source slice or the sort key changes.
package dataset
