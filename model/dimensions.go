package model

import (
	"github.com/golang-sql/civil"
	c "github.com/relloyd/hotelpipe/constants"
	"github.com/relloyd/hotelpipe/stream"
)

// Dimension rows carry the surrogate ID read back from the store (zero until then) and the
// natural key attributes. The mapstructure tags equal the store column names.

type HotelRow struct {
	ID                  int64  `mapstructure:"hotel_id"`
	HotelName           string `mapstructure:"hotel_name"`
	MarketSegment       string `mapstructure:"market_segment"`
	DistributionChannel string `mapstructure:"distribution_channel"`
}

func (r HotelRow) Key() HotelKey {
	return NewHotelKey(r.HotelName, r.MarketSegment, r.DistributionChannel)
}

func (r HotelRow) Record() stream.Record {
	k := r.Key()
	rec := stream.NewRecord()
	rec.SetData(c.ColHotelName, k.Name)
	rec.SetData(c.ColMarketSegment, k.MarketSegment)
	rec.SetData(c.ColDistributionChannel, k.DistributionChannel)
	return rec
}

type DateRow struct {
	ID                int64      `mapstructure:"date_id"`
	ArrivalDate       civil.Date `mapstructure:"arrival_date"`
	ArrivalYear       int        `mapstructure:"arrival_year"`
	ArrivalMonth      string     `mapstructure:"arrival_month"`
	ArrivalWeekNumber int        `mapstructure:"arrival_week_number"`
	ArrivalDayOfMonth int        `mapstructure:"arrival_day_of_month"`
}

func (r DateRow) Key() DateKey {
	return NewDateKey(r.ArrivalDate)
}

// Record renders arrival_date as YYYY-MM-DD text, which every supported store accepts for a date column.
func (r DateRow) Record() stream.Record {
	rec := stream.NewRecord()
	rec.SetData(c.ColArrivalDate, r.ArrivalDate.String())
	rec.SetData(c.ColArrivalYear, r.ArrivalYear)
	rec.SetData(c.ColArrivalMonth, r.ArrivalMonth)
	rec.SetData(c.ColArrivalWeekNumber, r.ArrivalWeekNumber)
	rec.SetData(c.ColArrivalDayOfMonth, r.ArrivalDayOfMonth)
	return rec
}

type CustomerRow struct {
	ID           int64  `mapstructure:"customer_id"`
	Adults       int    `mapstructure:"adults"`
	Children     int    `mapstructure:"children"`
	Babies       int    `mapstructure:"babies"`
	CustomerType string `mapstructure:"customer_type"`
	Country      string `mapstructure:"country"`
}

func (r CustomerRow) Key() CustomerKey {
	return NewCustomerKey(r.Adults, r.Children, r.Babies, r.CustomerType, r.Country)
}

func (r CustomerRow) Record() stream.Record {
	k := r.Key()
	rec := stream.NewRecord()
	rec.SetData(c.ColAdults, k.Adults)
	rec.SetData(c.ColChildren, k.Children)
	rec.SetData(c.ColBabies, k.Babies)
	rec.SetData(c.ColCustomerType, k.CustomerType)
	rec.SetData(c.ColCountry, k.Country)
	return rec
}

type AgentRow struct {
	ID        int64  `mapstructure:"agent_id"`
	AgentName string `mapstructure:"agent_name"`
}

func (r AgentRow) Key() AgentKey {
	return AgentKeyFromName(r.AgentName)
}

func (r AgentRow) Record() stream.Record {
	rec := stream.NewRecord()
	rec.SetData(c.ColAgentName, r.Key().Name)
	return rec
}

// Column lists per dimension: natural key columns first, then the attributes.

var (
	HotelKeyColumns    = []string{c.ColHotelName, c.ColMarketSegment, c.ColDistributionChannel}
	DateKeyColumns     = []string{c.ColArrivalDate}
	DateColumns        = []string{c.ColArrivalDate, c.ColArrivalYear, c.ColArrivalMonth, c.ColArrivalWeekNumber, c.ColArrivalDayOfMonth}
	CustomerKeyColumns = []string{c.ColAdults, c.ColChildren, c.ColBabies, c.ColCustomerType, c.ColCountry}
	AgentKeyColumns    = []string{c.ColAgentName}
)
