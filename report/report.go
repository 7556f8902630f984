// Package report reads the star schema back into the summaries the dashboard shows.
package report

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	c "github.com/relloyd/hotelpipe/constants"
	"github.com/relloyd/hotelpipe/store"
	"github.com/relloyd/hotelpipe/stream"
)

// Filter narrows the facts considered. Zero values match everything.
type Filter struct {
	Country string `json:"country,omitempty"`
	Hotel   string `json:"hotel,omitempty"`
	Year    int    `json:"year,omitempty"`
}

type MonthlySummary struct {
	Year             int     `json:"year" yaml:"year"`
	Month            string  `json:"month" yaml:"month"`
	Bookings         int     `json:"bookings" yaml:"bookings"`
	Cancellations    int     `json:"cancellations" yaml:"cancellations"`
	CancellationRate float64 `json:"cancellationRate" yaml:"cancellationRate"`
	AverageADR       float64 `json:"averageAdr" yaml:"averageAdr"`
}

type KPI struct {
	Bookings         int     `json:"bookings" yaml:"bookings"`
	Cancellations    int     `json:"cancellations" yaml:"cancellations"`
	CancellationRate float64 `json:"cancellationRate" yaml:"cancellationRate"`
	AverageADR       float64 `json:"averageAdr" yaml:"averageAdr"`
	AverageLeadTime  float64 `json:"averageLeadTime" yaml:"averageLeadTime"`
}

type factRow struct {
	HotelID    int64   `mapstructure:"hotel_id"`
	DateID     int64   `mapstructure:"date_id"`
	CustomerID int64   `mapstructure:"customer_id"`
	IsCanceled bool    `mapstructure:"is_canceled"`
	ADR        float64 `mapstructure:"adr"`
	LeadTime   int     `mapstructure:"lead_time"`
}

type dateRow struct {
	DateID int64  `mapstructure:"date_id"`
	Year   int    `mapstructure:"arrival_year"`
	Month  string `mapstructure:"arrival_month"`
}

type hotelRow struct {
	HotelID int64  `mapstructure:"hotel_id"`
	Name    string `mapstructure:"hotel_name"`
}

type customerRow struct {
	CustomerID int64  `mapstructure:"customer_id"`
	Country    string `mapstructure:"country"`
}

// selectInto reads columns of table and decodes each record into a new T.
func selectInto[T any](ctx context.Context, sel store.Selector, table string, columns []string) ([]T, error) {
	recs, err := sel.Select(ctx, table, columns)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read %v", table)
	}
	retval := make([]T, len(recs))
	for idx, rec := range recs {
		if err = decode(rec, &retval[idx]); err != nil {
			return nil, errors.Wrapf(err, "unable to decode row %d of %v", idx+1, table)
		}
	}
	return retval, nil
}

// timeToString renders timestamps as RFC 3339 text for string targets.
func timeToString(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if t, ok := data.(time.Time); ok && to.Kind() == reflect.String {
		return t.UTC().Format(time.RFC3339), nil
	}
	return data, nil
}

func decode(rec stream.Record, out interface{}) error {
	d, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       timeToString,
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return d.Decode(rec.GetDataMap())
}

type monthKey struct {
	year  int
	month time.Month
	name  string
}

// monthNumber orders month names January..December. Unknown names sort last.
func monthNumber(name string) time.Month {
	if t, err := time.Parse("January", name); err == nil {
		return t.Month()
	}
	return 13
}

// starSchema holds the fact rows that pass a Filter, with their dates resolved.
type starSchema struct {
	facts []factRow
	dates map[int64]dateRow
}

func readStarSchema(ctx context.Context, sel store.Selector, f Filter) (*starSchema, error) {
	facts, err := selectInto[factRow](ctx, sel, c.TableFacts,
		[]string{c.ColHotelId, c.ColDateId, c.ColCustomerId, c.ColIsCanceled, c.ColAdr, c.ColLeadTime})
	if err != nil {
		return nil, err
	}
	dates, err := selectInto[dateRow](ctx, sel, c.TableDates, []string{c.ColDateId, c.ColArrivalYear, c.ColArrivalMonth})
	if err != nil {
		return nil, err
	}
	s := &starSchema{dates: make(map[int64]dateRow, len(dates))}
	for _, d := range dates {
		s.dates[d.DateID] = d
	}
	var hotels map[int64]string
	if f.Hotel != "" {
		rows, err := selectInto[hotelRow](ctx, sel, c.TableHotels, []string{c.ColHotelId, c.ColHotelName})
		if err != nil {
			return nil, err
		}
		hotels = make(map[int64]string, len(rows))
		for _, h := range rows {
			hotels[h.HotelID] = h.Name
		}
	}
	var countries map[int64]string
	if f.Country != "" {
		rows, err := selectInto[customerRow](ctx, sel, c.TableCustomers, []string{c.ColCustomerId, c.ColCountry})
		if err != nil {
			return nil, err
		}
		countries = make(map[int64]string, len(rows))
		for _, cu := range rows {
			countries[cu.CustomerID] = cu.Country
		}
	}
	s.facts = make([]factRow, 0, len(facts))
	for _, fr := range facts {
		d, ok := s.dates[fr.DateID]
		if !ok {
			return nil, fmt.Errorf("fact references date_id %v missing from %v", fr.DateID, c.TableDates)
		}
		if f.Year != 0 && d.Year != f.Year {
			continue
		}
		if hotels != nil && hotels[fr.HotelID] != f.Hotel {
			continue
		}
		if countries != nil && countries[fr.CustomerID] != f.Country {
			continue
		}
		s.facts = append(s.facts, fr)
	}
	return s, nil
}

func rate(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total)
}

// MonthlyBookings groups the filtered facts by arrival year and month, in calendar order.
func MonthlyBookings(ctx context.Context, sel store.Selector, f Filter) ([]MonthlySummary, error) {
	s, err := readStarSchema(ctx, sel, f)
	if err != nil {
		return nil, err
	}
	type acc struct {
		bookings, cancellations int
		adr                     float64
	}
	groups := make(map[monthKey]*acc)
	for _, fr := range s.facts {
		d := s.dates[fr.DateID]
		k := monthKey{year: d.Year, month: monthNumber(d.Month), name: d.Month}
		a, ok := groups[k]
		if !ok {
			a = &acc{}
			groups[k] = a
		}
		a.bookings++
		a.adr += fr.ADR
		if fr.IsCanceled {
			a.cancellations++
		}
	}
	keys := make([]monthKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		if keys[i].month != keys[j].month {
			return keys[i].month < keys[j].month
		}
		return keys[i].name < keys[j].name
	})
	retval := make([]MonthlySummary, 0, len(keys))
	for _, k := range keys {
		a := groups[k]
		retval = append(retval, MonthlySummary{
			Year:             k.year,
			Month:            k.name,
			Bookings:         a.bookings,
			Cancellations:    a.cancellations,
			CancellationRate: rate(a.cancellations, a.bookings),
			AverageADR:       a.adr / float64(a.bookings),
		})
	}
	return retval, nil
}

// KPIs totals the filtered facts.
func KPIs(ctx context.Context, sel store.Selector, f Filter) (*KPI, error) {
	s, err := readStarSchema(ctx, sel, f)
	if err != nil {
		return nil, err
	}
	k := &KPI{}
	var adr, lead float64
	for _, fr := range s.facts {
		k.Bookings++
		if fr.IsCanceled {
			k.Cancellations++
		}
		adr += fr.ADR
		lead += float64(fr.LeadTime)
	}
	if k.Bookings > 0 {
		k.CancellationRate = rate(k.Cancellations, k.Bookings)
		k.AverageADR = adr / float64(k.Bookings)
		k.AverageLeadTime = lead / float64(k.Bookings)
	}
	return k, nil
}

// CSVHeader and CSVLine render a MonthlySummary for the report command.
const CSVHeader = "year,month,bookings,cancellations,cancellation_rate,average_adr"

func (m MonthlySummary) CSVLine() string {
	return fmt.Sprintf("%d,%v,%d,%d,%.4f,%.2f", m.Year, m.Month, m.Bookings, m.Cancellations, m.CancellationRate, m.AverageADR)
}

// RunRecord is one row of the run log.
type RunRecord struct {
	RunID         string `mapstructure:"run_id" json:"runId" yaml:"runId"`
	Status        string `mapstructure:"status" json:"status" yaml:"status"`
	StartedAt     string `mapstructure:"started_at" json:"startedAt" yaml:"startedAt"`
	FinishedAt    string `mapstructure:"finished_at" json:"finishedAt" yaml:"finishedAt"`
	RowsRead      int    `mapstructure:"rows_read" json:"rowsRead" yaml:"rowsRead"`
	FactsInserted int    `mapstructure:"facts_inserted" json:"factsInserted" yaml:"factsInserted"`
	FailedBatches int    `mapstructure:"failed_batches" json:"failedBatches" yaml:"failedBatches"`
}

// RecentRuns returns up to limit runs, newest first. A limit of zero returns them all.
func RecentRuns(ctx context.Context, sel store.Selector, limit int) ([]RunRecord, error) {
	runs, err := selectInto[RunRecord](ctx, sel, c.TableRuns, []string{c.ColRunId, c.ColRunStatus, c.ColRunStartedAt,
		c.ColRunFinishedAt, c.ColRunRowsRead, c.ColRunFactsInserted, c.ColRunFailedBatches})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].StartedAt > runs[j].StartedAt
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}
