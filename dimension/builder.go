// Package dimension derives the distinct dimension rows from the canonical booking rows.
// Nothing here talks to a store: surrogate keys stay zero until the key mapper reads them back.
package dimension

import (
	c "github.com/relloyd/hotelpipe/constants"
	"github.com/relloyd/hotelpipe/model"
	"github.com/relloyd/hotelpipe/stream"
)

// Set holds the four dimension row sets, each distinct on its natural key in first-seen order.
type Set struct {
	Hotels    []model.HotelRow
	Dates     []model.DateRow
	Customers []model.CustomerRow
	Agents    []model.AgentRow
}

func Build(rows []model.RawBookingRecord) *Set {
	return &Set{
		Hotels:    Hotels(rows),
		Dates:     Dates(rows),
		Customers: Customers(rows),
		Agents:    Agents(rows),
	}
}

func Hotels(rows []model.RawBookingRecord) []model.HotelRow {
	seen := make(map[model.HotelKey]struct{})
	out := make([]model.HotelRow, 0)
	for _, r := range rows {
		k := r.HotelKey()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, model.HotelRow{HotelName: k.Name, MarketSegment: k.MarketSegment, DistributionChannel: k.DistributionChannel})
	}
	return out
}

// Dates is distinct on the reservation status date; the arrival_* attributes come from the first row seen.
func Dates(rows []model.RawBookingRecord) []model.DateRow {
	seen := make(map[model.DateKey]struct{})
	out := make([]model.DateRow, 0)
	for _, r := range rows {
		k := r.DateKey()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, model.DateRow{
			ArrivalDate:       k.Date,
			ArrivalYear:       r.ArrivalYear,
			ArrivalMonth:      r.ArrivalMonth,
			ArrivalWeekNumber: r.ArrivalWeekNumber,
			ArrivalDayOfMonth: r.ArrivalDayOfMonth,
		})
	}
	return out
}

func Customers(rows []model.RawBookingRecord) []model.CustomerRow {
	seen := make(map[model.CustomerKey]struct{})
	out := make([]model.CustomerRow, 0)
	for _, r := range rows {
		k := r.CustomerKey()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, model.CustomerRow{Adults: k.Adults, Children: k.Children, Babies: k.Babies, CustomerType: k.CustomerType, Country: k.Country})
	}
	return out
}

// Agents includes the Unknown row when any booking lacks an agent.
func Agents(rows []model.RawBookingRecord) []model.AgentRow {
	seen := make(map[model.AgentKey]struct{})
	out := make([]model.AgentRow, 0)
	for _, r := range rows {
		k := r.AgentKey()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, model.AgentRow{AgentName: k.Name})
	}
	return out
}

// Table describes how one dimension is written to and read back from a store.
type Table struct {
	Name       string
	IDColumn   string
	KeyColumns []string
	Records    []stream.Record
}

// Tables returns the dimensions in load order: hotels, dates, customers, agents.
func (s *Set) Tables() []Table {
	t := []Table{
		{Name: c.TableHotels, IDColumn: c.ColHotelId, KeyColumns: model.HotelKeyColumns},
		{Name: c.TableDates, IDColumn: c.ColDateId, KeyColumns: model.DateKeyColumns},
		{Name: c.TableCustomers, IDColumn: c.ColCustomerId, KeyColumns: model.CustomerKeyColumns},
		{Name: c.TableAgents, IDColumn: c.ColAgentId, KeyColumns: model.AgentKeyColumns},
	}
	for _, r := range s.Hotels {
		t[0].Records = append(t[0].Records, r.Record())
	}
	for _, r := range s.Dates {
		t[1].Records = append(t[1].Records, r.Record())
	}
	for _, r := range s.Customers {
		t[2].Records = append(t[2].Records, r.Record())
	}
	for _, r := range s.Agents {
		t[3].Records = append(t[3].Records, r.Record())
	}
	return t
}

// Counts returns the number of distinct rows per dimension table.
func (s *Set) Counts() map[string]int {
	return map[string]int{
		c.TableHotels:    len(s.Hotels),
		c.TableDates:     len(s.Dates),
		c.TableCustomers: len(s.Customers),
		c.TableAgents:    len(s.Agents),
	}
}
