package model

import (
	"github.com/golang-sql/civil"
	c "github.com/relloyd/hotelpipe/constants"
	"github.com/relloyd/hotelpipe/stream"
)

// FactBookingRow is one fully keyed booking. AgentID is nil when the agent is absent or unresolved.
type FactBookingRow struct {
	HotelID                  int64
	DateID                   int64
	CustomerID               int64
	AgentID                  *int64
	IsCanceled               bool
	LeadTime                 int
	StaysInWeekendNights     int
	StaysInWeekNights        int
	ADR                      float64
	BookingChanges           int
	DepositType              string
	DaysInWaitingList        int
	RequiredCarParkingSpaces int
	TotalOfSpecialRequests   int
	ReservationStatus        string
	ReservationStatusDate    civil.Date
	LoadRunID                string
}

// FactColumns lists fact_bookings columns in insert order.
var FactColumns = []string{
	c.ColHotelId,
	c.ColDateId,
	c.ColCustomerId,
	c.ColAgentId,
	c.ColIsCanceled,
	c.ColLeadTime,
	c.ColStaysInWeekendNights,
	c.ColStaysInWeekNights,
	c.ColAdr,
	c.ColBookingChanges,
	c.ColDepositType,
	c.ColDaysInWaitingList,
	c.ColRequiredCarParkingSpaces,
	c.ColTotalOfSpecialRequests,
	c.ColReservationStatus,
	c.ColReservationStatusDate,
	c.ColLoadRunId,
}

func (f FactBookingRow) Record() stream.Record {
	var agent interface{}
	if f.AgentID != nil {
		agent = *f.AgentID
	}
	values := []interface{}{
		f.HotelID,
		f.DateID,
		f.CustomerID,
		agent,
		f.IsCanceled,
		f.LeadTime,
		f.StaysInWeekendNights,
		f.StaysInWeekNights,
		f.ADR,
		f.BookingChanges,
		f.DepositType,
		f.DaysInWaitingList,
		f.RequiredCarParkingSpaces,
		f.TotalOfSpecialRequests,
		f.ReservationStatus,
		f.ReservationStatusDate.String(),
		f.LoadRunID,
	}
	rec, err := stream.NewRecordFromValues(FactColumns, values)
	if err != nil {
		panic(err) // FactColumns and values are kept in step above.
	}
	return rec
}
