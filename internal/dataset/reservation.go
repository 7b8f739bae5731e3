package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Discount types.
const (
	DiscountPercent = "percent"
	DiscountFixed   = "fixed"
)

// Payment options.
const (
	PaymentVisa   = "visa"
	PaymentMaster = "master"
	PaymentCheck  = "check"
	PaymentCash   = "cash"
)

// Reservation is one booking record.
type Reservation struct {
	ID            int       `json:"id"`
	Status        string    `json:"status"`
	Date          time.Time `json:"date"`
	PaymentOption string    `json:"paymentOption"`
	Discount      *Discount `json:"discount,omitempty"`
	Customer      Person    `json:"customer"`
	Room          Room      `json:"room"`
}

// Discount is applied to the room price.
type Discount struct {
	Type  string  `json:"type"`
	Value float64 `json:"value"`
}

// Person is a customer or location manager.
type Person struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	PrimaryPhone   Phone  `json:"primaryPhone"`
	SecondaryPhone Phone  `json:"secondaryPhone"`
}

// Name returns "First Last".
func (p Person) Name() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	default:
		return p.FirstName + " " + p.LastName
	}
}

// Room is the reserved room.
type Room struct {
	Price    float64  `json:"price"`
	Location Location `json:"location"`
}

// Location groups rooms under one manager.
type Location struct {
	Name    string `json:"name,omitempty"`
	Manager Person `json:"manager"`
}

// Phone holds the raw digits of a phone number. Mock data encodes phones as
// either JSON numbers or strings; both decode to the same value.
type Phone string

// UnmarshalJSON accepts a JSON string, number, or null.
func (p *Phone) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*p = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = Phone(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("phone must be a string or number: %w", err)
		}
		*p = Phone(n.String())
		return nil
	}
}

// EffectivePrice returns the room price after the reservation's discount.
// Percent discounts scale the price; any other discount type is subtracted.
func EffectivePrice(r Reservation) float64 {
	price := r.Room.Price
	if r.Discount == nil {
		return price
	}
	if r.Discount.Type == DiscountPercent {
		return price * (100 - r.Discount.Value) / 100
	}
	return price - r.Discount.Value
}

// PaymentLabel returns the display label for a payment option.
func PaymentLabel(option string) string {
	switch option {
	case PaymentVisa:
		return "VISA"
	case PaymentMaster:
		return "MasterCard"
	case PaymentCheck:
		return "Check"
	case PaymentCash:
		return "Cash"
	default:
		return option
	}
}
