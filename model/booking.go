// Package model holds the canonical booking row, the natural key value types and the star schema rows.
package model

import (
	"strconv"

	"github.com/golang-sql/civil"
)

// NullInt is an integer that may be absent in the source extract.
type NullInt struct {
	Int   int
	Valid bool
}

// NewNullInt returns a present NullInt.
func NewNullInt(i int) NullInt {
	return NullInt{Int: i, Valid: true}
}

func (n NullInt) String() string {
	if !n.Valid {
		return ""
	}
	return strconv.Itoa(n.Int)
}

// RawBookingRecord is one canonical row of the booking extract.
// It is comparable and doubles as its own de-duplication key.
// The source "company" column is not carried.
type RawBookingRecord struct {
	Hotel                       string
	IsCanceled                  int
	LeadTime                    int
	ArrivalYear                 int
	ArrivalMonth                string
	ArrivalWeekNumber           int
	ArrivalDayOfMonth           int
	StaysInWeekendNights        int
	StaysInWeekNights           int
	Adults                      int
	Children                    int
	Babies                      int
	Meal                        string
	Country                     string
	MarketSegment               string
	DistributionChannel         string
	IsRepeatedGuest             int
	PreviousCancellations       int
	PreviousBookingsNotCanceled int
	ReservedRoomType            string
	AssignedRoomType            string
	BookingChanges              int
	DepositType                 string
	Agent                       NullInt
	DaysInWaitingList           int
	CustomerType                string
	ADR                         float64
	RequiredCarParkingSpaces    int
	TotalOfSpecialRequests      int
	ReservationStatus           string
	ReservationStatusDate       civil.Date
}

func (r RawBookingRecord) HotelKey() HotelKey {
	return NewHotelKey(r.Hotel, r.MarketSegment, r.DistributionChannel)
}

func (r RawBookingRecord) DateKey() DateKey {
	return NewDateKey(r.ReservationStatusDate)
}

func (r RawBookingRecord) CustomerKey() CustomerKey {
	return NewCustomerKey(r.Adults, r.Children, r.Babies, r.CustomerType, r.Country)
}

func (r RawBookingRecord) AgentKey() AgentKey {
	return NewAgentKey(r.Agent)
}

// SourceColumns lists the source column names carried by RawBookingRecord in extract order.
var SourceColumns = []string{
	"hotel", "is_canceled", "lead_time", "arrival_date_year", "arrival_date_month", "arrival_date_week_number",
	"arrival_date_day_of_month", "stays_in_weekend_nights", "stays_in_week_nights", "adults", "children", "babies",
	"meal", "country", "market_segment", "distribution_channel", "is_repeated_guest", "previous_cancellations",
	"previous_bookings_not_canceled", "reserved_room_type", "assigned_room_type", "booking_changes", "deposit_type",
	"agent", "days_in_waiting_list", "customer_type", "adr", "required_car_parking_spaces",
	"total_of_special_requests", "reservation_status", "reservation_status_date",
}

// SourceValues returns the row keyed by source column name, used by row filters and rejects output.
func (r RawBookingRecord) SourceValues() map[string]interface{} {
	var agent interface{}
	if r.Agent.Valid {
		agent = r.Agent.Int
	}
	return map[string]interface{}{
		"hotel":                          r.Hotel,
		"is_canceled":                    r.IsCanceled,
		"lead_time":                      r.LeadTime,
		"arrival_date_year":              r.ArrivalYear,
		"arrival_date_month":             r.ArrivalMonth,
		"arrival_date_week_number":       r.ArrivalWeekNumber,
		"arrival_date_day_of_month":      r.ArrivalDayOfMonth,
		"stays_in_weekend_nights":        r.StaysInWeekendNights,
		"stays_in_week_nights":           r.StaysInWeekNights,
		"adults":                         r.Adults,
		"children":                       r.Children,
		"babies":                         r.Babies,
		"meal":                           r.Meal,
		"country":                        r.Country,
		"market_segment":                 r.MarketSegment,
		"distribution_channel":           r.DistributionChannel,
		"is_repeated_guest":              r.IsRepeatedGuest,
		"previous_cancellations":         r.PreviousCancellations,
		"previous_bookings_not_canceled": r.PreviousBookingsNotCanceled,
		"reserved_room_type":             r.ReservedRoomType,
		"assigned_room_type":             r.AssignedRoomType,
		"booking_changes":                r.BookingChanges,
		"deposit_type":                   r.DepositType,
		"agent":                          agent,
		"days_in_waiting_list":           r.DaysInWaitingList,
		"customer_type":                  r.CustomerType,
		"adr":                            r.ADR,
		"required_car_parking_spaces":    r.RequiredCarParkingSpaces,
		"total_of_special_requests":      r.TotalOfSpecialRequests,
		"reservation_status":             r.ReservationStatus,
		"reservation_status_date":        r.ReservationStatusDate.String(),
	}
}
