package helper

import (
	"strings"
	"testing"
)

type validationInner struct {
	Table string `errorTxt:"table name" mandatory:"yes"`
}

type validationCfg struct {
	Source    string `errorTxt:"source file" mandatory:"yes"`
	BatchSize int    `errorTxt:"batch size" mandatory:"yes"`
	Optional  string `errorTxt:"optional value"`
	Inner     validationInner
	Columns   []string `errorTxt:"columns" mandatory:"yes"`
}

func TestValidateStructIsPopulated(t *testing.T) {
	err := ValidateStructIsPopulated(&validationCfg{})
	if err == nil {
		t.Fatal("expected an error for an empty config")
	}
	for _, txt := range []string{"source file", "batch size", "table name"} {
		if !strings.Contains(err.Error(), txt) {
			t.Fatalf("expected error to mention %q; got %v", txt, err)
		}
	}
	if strings.Contains(err.Error(), "optional value") || strings.Contains(err.Error(), "columns") {
		t.Fatalf("unexpected optional or slice field in error: %v", err)
	}
	ok := validationCfg{Source: "hotel_bookings.csv", BatchSize: 1000, Inner: validationInner{Table: "fact_bookings"}}
	if err := ValidateStructIsPopulated(ok); err != nil {
		t.Fatalf("expected no error; got %v", err)
	}
}
