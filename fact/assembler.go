// Package fact joins canonical booking rows against the dimension mappings to produce fact rows.
package fact

import (
	c "github.com/relloyd/hotelpipe/constants"
	"github.com/relloyd/hotelpipe/keymap"
	"github.com/relloyd/hotelpipe/logger"
	"github.com/relloyd/hotelpipe/model"
)

// Rejection is a canonical row excluded from the facts and the gaps that excluded it.
type Rejection struct {
	Row  model.RawBookingRecord
	Gaps []MappingResolutionGap
}

type Result struct {
	Facts    []model.FactBookingRow
	Rejected []Rejection
	Report   *MismatchReport
}

type Assembler struct {
	log        logger.Logger
	mappings   *keymap.Mappings
	sampleSize int
	runID      string
}

// NewAssembler returns an Assembler that stamps every fact with runID.
// sampleSize defaults when it is not positive.
func NewAssembler(log logger.Logger, mappings *keymap.Mappings, sampleSize int, runID string) *Assembler {
	if sampleSize <= 0 {
		sampleSize = c.MismatchSampleSizeDefault
	}
	return &Assembler{log: log, mappings: mappings, sampleSize: sampleSize, runID: runID}
}

// Assemble resolves the keys of each row. Rows missing a hotel, date or customer id are rejected.
// An absent agent gives a null agent id; a present agent that cannot be resolved also gives a null
// agent id and is reported as an agent gap without rejecting the row.
func (a *Assembler) Assemble(rows []model.RawBookingRecord) *Result {
	res := &Result{
		Facts:    make([]model.FactBookingRow, 0, len(rows)),
		Rejected: make([]Rejection, 0),
		Report:   NewMismatchReport(),
	}
	for idx, row := range rows {
		if idx > 0 && idx%c.ProgressLogFrequencyRows == 0 {
			a.log.Info("assembled ", idx, " of ", len(rows), " rows")
		}
		f, gaps, ok := a.assembleRow(row)
		for _, g := range gaps {
			res.Report.record(g, a.sampleSize)
		}
		if !ok {
			res.Rejected = append(res.Rejected, Rejection{Row: row, Gaps: gaps})
			continue
		}
		res.Facts = append(res.Facts, f)
	}
	if !res.Report.Empty() {
		a.log.Warn("unresolved dimension keys:\n", res.Report.String())
	}
	a.log.Info("prepared ", len(res.Facts), " facts; rejected ", len(res.Rejected), " rows")
	return res
}

func (a *Assembler) assembleRow(row model.RawBookingRecord) (f model.FactBookingRow, gaps []MappingResolutionGap, ok bool) {
	ok = true
	hk := row.HotelKey()
	if f.HotelID, ok = a.mappings.Hotels.Lookup(hk); !ok {
		gaps = append(gaps, MappingResolutionGap{Dimension: DimensionHotel, Key: hk.String()})
	}
	dk := row.DateKey()
	dateID, found := a.mappings.Dates.Lookup(dk)
	if !found {
		gaps = append(gaps, MappingResolutionGap{Dimension: DimensionDate, Key: dk.String()})
	}
	ck := row.CustomerKey()
	customerID, foundCustomer := a.mappings.Customers.Lookup(ck)
	if !foundCustomer {
		gaps = append(gaps, MappingResolutionGap{Dimension: DimensionCustomer, Key: ck.String()})
	}
	if row.Agent.Valid {
		ak := row.AgentKey()
		if agentID, found := a.mappings.Agents.Lookup(ak); found {
			f.AgentID = &agentID
		} else {
			gaps = append(gaps, MappingResolutionGap{Dimension: DimensionAgent, Key: ak.String()})
		}
	}
	ok = ok && found && foundCustomer
	if !ok {
		return model.FactBookingRow{}, gaps, false
	}
	f.DateID = dateID
	f.CustomerID = customerID
	f.IsCanceled = row.IsCanceled != 0
	f.LeadTime = row.LeadTime
	f.StaysInWeekendNights = row.StaysInWeekendNights
	f.StaysInWeekNights = row.StaysInWeekNights
	f.ADR = row.ADR
	f.BookingChanges = row.BookingChanges
	f.DepositType = row.DepositType
	f.DaysInWaitingList = row.DaysInWaitingList
	f.RequiredCarParkingSpaces = row.RequiredCarParkingSpaces
	f.TotalOfSpecialRequests = row.TotalOfSpecialRequests
	f.ReservationStatus = row.ReservationStatus
	f.ReservationStatusDate = row.ReservationStatusDate
	f.LoadRunID = a.runID
	return f, gaps, true
}
