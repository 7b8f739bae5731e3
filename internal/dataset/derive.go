package dataset

import (
	"cmp"
	"slices"
	"sync"
)

// Sort fields understood by SortRows.
const (
	FieldID            = "id"
	FieldDate          = "date"
	FieldCustomerName  = "customer.name"
	FieldCustomerEmail = "customer.email"
	FieldPaymentOption = "paymentOption"
	FieldStatus        = "status"
	FieldPrice         = "price"
)

// Sort orders.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Row is a reservation with its derived display values.
type Row struct {
	Reservation

	CustomerName string  `json:"customerName"`
	ManagerName  string  `json:"managerName"`
	Price        float64 `json:"price"`
}

// Derive builds the display row for r.
func Derive(r Reservation) Row {
	return Row{
		Reservation:  r,
		CustomerName: r.Customer.Name(),
		ManagerName:  r.Room.Location.Manager.Name(),
		Price:        EffectivePrice(r),
	}
}

// SortFields returns the valid sort fields in a stable order.
func SortFields() []string {
	fields := []string{
		FieldID, FieldDate, FieldCustomerName, FieldCustomerEmail,
		FieldPaymentOption, FieldStatus, FieldPrice,
	}
	slices.Sort(fields)
	return fields
}

// IsSortField reports whether field is a valid sort field.
func IsSortField(field string) bool {
	return slices.Contains(SortFields(), field)
}

// SortRows returns a sorted copy of rows. Unknown fields return rows unchanged.
// The sort is stable; descending order reverses the comparison, not the input.
func SortRows(rows []Row, field, order string) []Row {
	if !IsSortField(field) {
		return rows
	}

	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b Row) int {
		c := compareField(a, b, field)
		if order == OrderDesc {
			return -c
		}
		return c
	})
	return sorted
}

func compareField(a, b Row, field string) int {
	switch field {
	case FieldID:
		return cmp.Compare(a.ID, b.ID)
	case FieldDate:
		return a.Date.Compare(b.Date)
	case FieldCustomerName:
		return cmp.Compare(a.CustomerName, b.CustomerName)
	case FieldCustomerEmail:
		return cmp.Compare(a.Customer.Email, b.Customer.Email)
	case FieldPaymentOption:
		return cmp.Compare(a.PaymentOption, b.PaymentOption)
	case FieldStatus:
		return cmp.Compare(a.Status, b.Status)
	case FieldPrice:
		return cmp.Compare(a.Price, b.Price)
	default:
		return 0
	}
}

// DeriverStats reports memoization effectiveness.
type DeriverStats struct {
	Hits   int `json:"hits"`
	Misses int `json:"misses"`
}

// Deriver memoizes sorted display rows. Rows are rebuilt only when the source
// slice identity (backing array and length) or the sort key changes.
// It is safe for concurrent use.
type Deriver struct {
	mu     sync.Mutex
	source []Reservation
	field  string
	order  string
	rows   []Row
	valid  bool
	stats  DeriverStats
}

// Rows returns the derived rows for source sorted by field/order.
func (d *Deriver) Rows(source []Reservation, field, order string) []Row {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.valid && sameSlice(d.source, source) && d.field == field && d.order == order {
		d.stats.Hits++
		return d.rows
	}

	d.stats.Misses++
	rows := make([]Row, len(source))
	for i, r := range source {
		rows[i] = Derive(r)
	}
	d.rows = SortRows(rows, field, order)
	d.source = source
	d.field = field
	d.order = order
	d.valid = true
	return d.rows
}

// Stats returns hit/miss counters.
func (d *Deriver) Stats() DeriverStats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}

func sameSlice(a, b []Reservation) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return (a == nil) == (b == nil)
	}
	return &a[0] == &b[0]
}
