package helper

import (
	"reflect"
	"testing"
	"time"

	"github.com/golang-sql/civil"
)

func TestStringSliceToOrderedMap(t *testing.T) {
	m := StringSliceToOrderedMap([]string{"hotel_name", "market_segment", "distribution_channel"})
	got := OrderedMapValuesToStringSlice(m)
	expected := []string{"hotel_name", "market_segment", "distribution_channel"}
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("expected %v; got %v", expected, got)
	}
	if len(OrderedMapValuesToStringSlice(nil)) != 0 {
		t.Fatal("expected an empty slice from a nil ordered map")
	}
}

func TestCsvToStringSliceTrimSpaces(t *testing.T) {
	got := CsvToStringSliceTrimSpaces(" a, b ,c")
	expected := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("expected %v; got %v", expected, got)
	}
	if len(CsvToStringSliceTrimSpaces("  ")) != 0 {
		t.Fatal("expected an empty slice for blank input")
	}
}

func TestSplitRight(t *testing.T) {
	l, r := SplitRight("user/pass@//host:5480/db", "@")
	if l != "user/pass" || r != "//host:5480/db" {
		t.Fatalf("unexpected split: %q %q", l, r)
	}
	l, r = SplitRight("nothing", "@")
	if l != "nothing" || r != "" {
		t.Fatalf("unexpected split without separator: %q %q", l, r)
	}
}

func TestGenerateStringOfColsEqualsCols(t *testing.T) {
	got := GenerateStringOfColsEqualsCols([]string{"a", "b"}, "S", "T", " and ")
	expected := "S.a = T.a and S.b = T.b"
	if got != expected {
		t.Fatalf("expected %q; got %q", expected, got)
	}
}

func TestGetStringFromInterface(t *testing.T) {
	id := int64(42)
	cases := []struct {
		in       interface{}
		expected string
	}{
		{nil, ""},
		{"Resort Hotel", "Resort Hotel"},
		{[]byte("City Hotel"), "City Hotel"},
		{9, "9"},
		{int64(9), "9"},
		{9.0, "9"},
		{75.25, "75.25"},
		{true, "true"},
		{civil.Date{Year: 2015, Month: time.July, Day: 1}, "2015-07-01"},
		{time.Date(2015, time.July, 1, 0, 0, 0, 0, time.UTC), "2015-07-01"},
		{&id, "42"},
	}
	for _, c := range cases {
		if got := GetStringFromInterface(c.in); got != c.expected {
			t.Fatalf("input %#v: expected %q; got %q", c.in, c.expected, got)
		}
	}
}
