package model

import "time"

// Default operating window applied when a day is configured without
// explicit hours: effectively the whole day.
const (
	DefaultWindowStart = "00:01"
	DefaultWindowEnd   = "23:59"
)

// Product represents a bookable travel offering published by a seller.
// Quantity is the remaining bookable capacity and is mutated exclusively
// by the reservation engine; it never goes below zero on a committed
// write. OperationDays and Tickets are owned child collections loaded
// alongside the product.
//
// Fields:
//
//	ID            – primary key identifier.
//	MemberID      – member ID of the owning seller.
//	Name          – product title.
//	Type          – category code (sightseeing, festival, ...).
//	Description   – free-form description.
//	ImageURL      – representative image location.
//	Address       – street address of the offering.
//	DetailAddress – optional address supplement.
//	PhoneNumber   – contact number.
//	Homepage      – optional website.
//	CityCode      – region code.
//	Quantity      – remaining bookable capacity (>= 0).
//	Price         – representative price shown in listings.
//	CreatedAt     – creation timestamp.
//	UpdatedAt     – last update timestamp.
type Product struct {
	ID            uint64         // products.id
	MemberID      uint64         // products.member_id
	Name          string         // products.name
	Type          string         // products.type
	Description   string         // products.description
	ImageURL      *string        // products.image_url (nullable)
	Address       string         // products.address
	DetailAddress *string        // products.detail_address (nullable)
	PhoneNumber   string         // products.phone_number
	Homepage      *string        // products.homepage (nullable)
	CityCode      string         // products.city_code
	Quantity      int            // products.quantity
	Price         int            // products.price
	CreatedAt     time.Time      // products.created_at
	UpdatedAt     time.Time      // products.updated_at
	OperationDays []OperationDay // owned schedule, loaded with the product
	Tickets       []Ticket       // owned price tiers, loaded with the product
}

// OperationDay is a calendar date on which a product accepts
// reservations, together with the time windows open on that date.
// Two operation days are duplicates when their dates are equal,
// regardless of hours.
type OperationDay struct {
	ID        uint64          // operation_days.id
	ProductID uint64          // operation_days.product_id
	Date      string          // operation_days.date (YYYY-MM-DD)
	Hours     []OperationHour // owned windows, loaded with the day
}

// OperationHour is a single (start, end) window within an operation day.
// Times are stored as HH:MM strings; matching is exact tuple equality.
type OperationHour struct {
	ID        uint64 // operation_hours.id
	DayID     uint64 // operation_hours.operation_day_id
	StartTime string // operation_hours.start_time (HH:MM)
	EndTime   string // operation_hours.end_time (HH:MM)
}

// Ticket is a named price tier offered under a product (e.g. adult,
// child). Two tickets are equal when both name and price match.
type Ticket struct {
	ID        uint64 // tickets.id
	ProductID uint64 // tickets.product_id
	Name      string // tickets.name
	Price     int    // tickets.price
}

// Equal reports whether two operation days describe the same date.
func (d OperationDay) Equal(other OperationDay) bool {
	return d.Date == other.Date
}

// Equal reports whether two tickets describe the same tier.
func (t Ticket) Equal(other Ticket) bool {
	return t.Name == other.Name && t.Price == other.Price
}

// NormalizeWindow fills an unset (start, end) pair with the default
// all-day window. A pair is considered unset only when both values are
// empty; a half-set pair is returned unchanged and will simply fail the
// exact match below.
func NormalizeWindow(start, end string) (string, string) {
	if start == "" && end == "" {
		return DefaultWindowStart, DefaultWindowEnd
	}
	return start, end
}

// FindOperationDay returns the product's operation day matching the given
// date exactly, or nil when the product does not operate on that date.
func (p *Product) FindOperationDay(date string) *OperationDay {
	for i := range p.OperationDays {
		if p.OperationDays[i].Date == date {
			return &p.OperationDays[i]
		}
	}
	return nil
}

// HasWindow reports whether the day has an operation hour whose
// (start, end) tuple equals the requested window. Partial overlap or
// containment does not count.
func (d *OperationDay) HasWindow(start, end string) bool {
	for _, h := range d.Hours {
		if h.StartTime == start && h.EndTime == end {
			return true
		}
	}
	return false
}

// DefaultHours synthesizes the all-day window used when a day is created
// without explicit hours.
func DefaultHours() []OperationHour {
	return []OperationHour{{StartTime: DefaultWindowStart, EndTime: DefaultWindowEnd}}
}
