package extract

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/golang-sql/civil"
	"github.com/pkg/errors"
	c "github.com/relloyd/hotelpipe/constants"
	"github.com/relloyd/hotelpipe/model"
)

// nullTokens are the textual forms of a missing value in the extract.
var nullTokens = map[string]struct{}{
	"":     {},
	"NA":   {},
	"NULL": {},
	"null": {},
	"NaN":  {},
	"nan":  {},
	"None": {},
}

func isNull(s string) bool {
	_, ok := nullTokens[strings.TrimSpace(s)]
	return ok
}

// sourceRow is the raw text of one extract line. The company column is never read.
type sourceRow struct {
	Hotel                       string `csv:"hotel"`
	IsCanceled                  string `csv:"is_canceled"`
	LeadTime                    string `csv:"lead_time"`
	ArrivalYear                 string `csv:"arrival_date_year"`
	ArrivalMonth                string `csv:"arrival_date_month"`
	ArrivalWeekNumber           string `csv:"arrival_date_week_number"`
	ArrivalDayOfMonth           string `csv:"arrival_date_day_of_month"`
	StaysInWeekendNights        string `csv:"stays_in_weekend_nights"`
	StaysInWeekNights           string `csv:"stays_in_week_nights"`
	Adults                      string `csv:"adults"`
	Children                    string `csv:"children"`
	Babies                      string `csv:"babies"`
	Meal                        string `csv:"meal"`
	Country                     string `csv:"country"`
	MarketSegment               string `csv:"market_segment"`
	DistributionChannel         string `csv:"distribution_channel"`
	IsRepeatedGuest             string `csv:"is_repeated_guest"`
	PreviousCancellations       string `csv:"previous_cancellations"`
	PreviousBookingsNotCanceled string `csv:"previous_bookings_not_canceled"`
	ReservedRoomType            string `csv:"reserved_room_type"`
	AssignedRoomType            string `csv:"assigned_room_type"`
	BookingChanges              string `csv:"booking_changes"`
	DepositType                 string `csv:"deposit_type"`
	Agent                       string `csv:"agent"`
	DaysInWaitingList           string `csv:"days_in_waiting_list"`
	CustomerType                string `csv:"customer_type"`
	ADR                         string `csv:"adr"`
	RequiredCarParkingSpaces    string `csv:"required_car_parking_spaces"`
	TotalOfSpecialRequests      string `csv:"total_of_special_requests"`
	ReservationStatus           string `csv:"reservation_status"`
	ReservationStatusDate       string `csv:"reservation_status_date"`
}

// RequiredColumns must be present in the extract header.
var RequiredColumns = []string{
	"hotel",
	"is_canceled",
	"lead_time",
	"arrival_date_year",
	"arrival_date_month",
	"arrival_date_week_number",
	"arrival_date_day_of_month",
	"stays_in_weekend_nights",
	"stays_in_week_nights",
	"adults",
	"children",
	"babies",
	"country",
	"market_segment",
	"distribution_channel",
	"customer_type",
	"agent",
	"booking_changes",
	"deposit_type",
	"days_in_waiting_list",
	"adr",
	"required_car_parking_spaces",
	"total_of_special_requests",
	"reservation_status",
	"reservation_status_date",
}

// missingColumns returns the required columns absent from header, in required order.
func missingColumns(header []string) []string {
	present := make(map[string]struct{}, len(header))
	for _, h := range header {
		present[strings.TrimSpace(h)] = struct{}{}
	}
	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := present[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}

// rowParser converts one sourceRow, keeping the first parse failure.
type rowParser struct {
	line int
	err  *MalformedSourceError
}

func (p *rowParser) fail(field, value string, err error) {
	if p.err == nil {
		p.err = &MalformedSourceError{Line: p.line, Field: field, Value: value, Err: err}
	}
}

// integer accepts whole numbers, including float text such as "2.0". Absent values yield dflt.
func (p *rowParser) integer(field, value string, dflt int) int {
	if isNull(value) {
		return dflt
	}
	i, ok, err := parseInteger(value)
	if err != nil {
		p.fail(field, value, err)
		return 0
	}
	if !ok {
		p.fail(field, value, errors.New("value is not a whole number"))
	}
	return i
}

func (p *rowParser) nullInteger(field, value string) model.NullInt {
	if isNull(value) {
		return model.NullInt{}
	}
	i, ok, err := parseInteger(value)
	if err != nil {
		p.fail(field, value, err)
		return model.NullInt{}
	}
	if !ok {
		p.fail(field, value, errors.New("value is not a whole number"))
		return model.NullInt{}
	}
	return model.NewNullInt(i)
}

func (p *rowParser) float(field, value string) float64 {
	if isNull(value) {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		p.fail(field, value, err)
	}
	return f
}

func (p *rowParser) date(field, value string) civil.Date {
	d, err := parseDate(value)
	if err != nil {
		p.fail(field, value, err)
	}
	return d
}

// text returns the trimmed value, or dflt when absent.
func (p *rowParser) text(value string, dflt string) string {
	if isNull(value) {
		return dflt
	}
	return strings.TrimSpace(value)
}

// parseInteger returns ok=false for numbers with a fractional part.
func parseInteger(s string) (i int, ok bool, err error) {
	s = strings.TrimSpace(s)
	if i, err = strconv.Atoi(s); err == nil {
		return i, true, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false, nil
	}
	return int(f), true, nil
}

func parseDate(s string) (civil.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return civil.Date{}, errors.New("date is empty")
	}
	for _, layout := range []string{c.DateFormatIso, c.DateFormatUs} {
		if t, err := time.Parse(layout, s); err == nil {
			return civil.DateOf(t), nil
		}
	}
	// Accept full timestamps that carry a date part.
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return civil.DateOf(t), nil
	}
	if len(s) > len(c.DateFormatIso) {
		if t, err := time.Parse(c.DateFormatIso, s[:len(c.DateFormatIso)]); err == nil {
			return civil.DateOf(t), nil
		}
	}
	return civil.Date{}, errors.Errorf("expected a date formatted as %v or %v", c.DateFormatIso, c.DateFormatUs)
}

func (p *rowParser) parse(s *sourceRow) (model.RawBookingRecord, *MalformedSourceError) {
	r := model.RawBookingRecord{
		Hotel:                       p.text(s.Hotel, ""),
		IsCanceled:                  p.integer("is_canceled", s.IsCanceled, 0),
		LeadTime:                    p.integer("lead_time", s.LeadTime, 0),
		ArrivalYear:                 p.integer("arrival_date_year", s.ArrivalYear, 0),
		ArrivalMonth:                p.text(s.ArrivalMonth, ""),
		ArrivalWeekNumber:           p.integer("arrival_date_week_number", s.ArrivalWeekNumber, 0),
		ArrivalDayOfMonth:           p.integer("arrival_date_day_of_month", s.ArrivalDayOfMonth, 0),
		StaysInWeekendNights:        p.integer("stays_in_weekend_nights", s.StaysInWeekendNights, 0),
		StaysInWeekNights:           p.integer("stays_in_week_nights", s.StaysInWeekNights, 0),
		Adults:                      p.integer("adults", s.Adults, 0),
		Children:                    p.integer("children", s.Children, 0),
		Babies:                      p.integer("babies", s.Babies, 0),
		Meal:                        p.text(s.Meal, ""),
		Country:                     p.text(s.Country, c.UnknownSentinel),
		MarketSegment:               p.text(s.MarketSegment, ""),
		DistributionChannel:         p.text(s.DistributionChannel, ""),
		IsRepeatedGuest:             p.integer("is_repeated_guest", s.IsRepeatedGuest, 0),
		PreviousCancellations:       p.integer("previous_cancellations", s.PreviousCancellations, 0),
		PreviousBookingsNotCanceled: p.integer("previous_bookings_not_canceled", s.PreviousBookingsNotCanceled, 0),
		ReservedRoomType:            p.text(s.ReservedRoomType, ""),
		AssignedRoomType:            p.text(s.AssignedRoomType, ""),
		BookingChanges:              p.integer("booking_changes", s.BookingChanges, 0),
		DepositType:                 p.text(s.DepositType, ""),
		Agent:                       p.nullInteger("agent", s.Agent),
		DaysInWaitingList:           p.integer("days_in_waiting_list", s.DaysInWaitingList, 0),
		CustomerType:                p.text(s.CustomerType, ""),
		ADR:                         p.float("adr", s.ADR),
		RequiredCarParkingSpaces:    p.integer("required_car_parking_spaces", s.RequiredCarParkingSpaces, 0),
		TotalOfSpecialRequests:      p.integer("total_of_special_requests", s.TotalOfSpecialRequests, 0),
		ReservationStatus:           p.text(s.ReservationStatus, ""),
		ReservationStatusDate:       p.date("reservation_status_date", s.ReservationStatusDate),
	}
	return r, p.err
}
