package model

import (
	"reflect"
	"testing"
	"time"

	"github.com/golang-sql/civil"
)

func TestNaturalKeysTrimStrings(t *testing.T) {
	if NewHotelKey(" Resort Hotel ", "Direct ", " Direct") != NewHotelKey("Resort Hotel", "Direct", "Direct") {
		t.Fatal("expected hotel keys to ignore surrounding spaces")
	}
	if NewCustomerKey(2, 0, 0, "Transient ", " PRT") != NewCustomerKey(2, 0, 0, "Transient", "PRT") {
		t.Fatal("expected customer keys to ignore surrounding spaces")
	}
}

func TestAgentKeys(t *testing.T) {
	cases := []struct {
		name     string
		got      AgentKey
		expected string
	}{
		{"absent agent", NewAgentKey(NullInt{}), "Unknown"},
		{"present agent", NewAgentKey(NewNullInt(9)), "9"},
		{"agent zero is a real agent", NewAgentKey(NewNullInt(0)), "0"},
		{"store text", AgentKeyFromName("240"), "240"},
		{"store float text", AgentKeyFromName("9.0"), "9"},
		{"store blank", AgentKeyFromName("  "), "Unknown"},
		{"store sentinel", AgentKeyFromName("Unknown"), "Unknown"},
	}
	for _, c := range cases {
		if c.got.Name != c.expected {
			t.Fatalf("%v: expected %q; got %q", c.name, c.expected, c.got.Name)
		}
	}
	if !NewAgentKey(NullInt{}).IsUnknown() {
		t.Fatal("expected absent agent to produce the Unknown key")
	}
}

func TestRowKeysMatchRawKeys(t *testing.T) {
	d := civil.Date{Year: 2015, Month: time.July, Day: 1}
	raw := RawBookingRecord{
		Hotel: "City Hotel", MarketSegment: "Online TA", DistributionChannel: "TA/TO",
		Adults: 2, Children: 1, CustomerType: "Transient", Country: "GBR",
		Agent: NewNullInt(9), ReservationStatusDate: d,
	}
	if (HotelRow{HotelName: "City Hotel", MarketSegment: "Online TA", DistributionChannel: "TA/TO"}).Key() != raw.HotelKey() {
		t.Fatal("hotel row key does not match raw key")
	}
	if (DateRow{ArrivalDate: d}).Key() != raw.DateKey() {
		t.Fatal("date row key does not match raw key")
	}
	if (CustomerRow{Adults: 2, Children: 1, CustomerType: "Transient", Country: "GBR"}).Key() != raw.CustomerKey() {
		t.Fatal("customer row key does not match raw key")
	}
	if (AgentRow{AgentName: "9"}).Key() != raw.AgentKey() {
		t.Fatal("agent row key does not match raw key")
	}
}

func TestFactRecord(t *testing.T) {
	agent := int64(4)
	f := FactBookingRow{HotelID: 1, DateID: 2, CustomerID: 3, AgentID: &agent, IsCanceled: true,
		ReservationStatusDate: civil.Date{Year: 2015, Month: time.July, Day: 1}, LoadRunID: "run1"}
	rec := f.Record()
	if !reflect.DeepEqual(rec.Fields(), FactColumns) {
		t.Fatalf("expected fields %v; got %v", FactColumns, rec.Fields())
	}
	if rec.GetData("agent_id") != int64(4) {
		t.Fatalf("expected agent_id 4; got %v", rec.GetData("agent_id"))
	}
	if rec.GetData("reservation_status_date") != "2015-07-01" {
		t.Fatalf("expected ISO date text; got %v", rec.GetData("reservation_status_date"))
	}
	f.AgentID = nil
	if f.Record().GetData("agent_id") != nil {
		t.Fatal("expected a nil agent_id for a fact without an agent")
	}
}

func TestDimensionRecordsExcludeSurrogateKeys(t *testing.T) {
	rec := DateRow{ID: 7, ArrivalDate: civil.Date{Year: 2016, Month: time.March, Day: 5}, ArrivalYear: 2016,
		ArrivalMonth: "March", ArrivalWeekNumber: 10, ArrivalDayOfMonth: 5}.Record()
	if !reflect.DeepEqual(rec.Fields(), DateColumns) {
		t.Fatalf("expected fields %v; got %v", DateColumns, rec.Fields())
	}
	if _, ok := rec.Lookup("date_id"); ok {
		t.Fatal("expected the surrogate key to be left to the store")
	}
}

func TestSourceColumnsMatchSourceValues(t *testing.T) {
	values := RawBookingRecord{}.SourceValues()
	if len(values) != len(SourceColumns) {
		t.Fatalf("expected %v source values; got %v", len(SourceColumns), len(values))
	}
	for _, col := range SourceColumns {
		if _, ok := values[col]; !ok {
			t.Fatalf("source column %v is missing from SourceValues", col)
		}
	}
}
