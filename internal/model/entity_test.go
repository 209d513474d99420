package model

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestParseProficiency(t *testing.T) {
	tests := []struct {
		in   string
		want *Proficiency
	}{
		{"Expert", ptr(ProficiencyExpert)},
		{"expert", ptr(ProficiencyExpert)},
		{"  Intermediate ", ptr(ProficiencyIntermediate)},
		{"BEGINNER", ptr(ProficiencyBeginner)},
		{"", nil},
		{"ninja", nil},
	}
	for _, tt := range tests {
		got := ParseProficiency(tt.in)
		if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
			t.Errorf("ParseProficiency(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseEmploymentType(t *testing.T) {
	tests := []struct {
		in   string
		want *EmploymentType
	}{
		{"Full-time", ptr(EmploymentFullTime)},
		{"fulltime", ptr(EmploymentFullTime)}, // symbolic name match
		{"CONTRACTOR", ptr(EmploymentContractor)},
		{"intern", ptr(EmploymentIntern)},
		{"", nil},
		{"freelancer", nil},
	}
	for _, tt := range tests {
		got := ParseEmploymentType(tt.in)
		if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
			t.Errorf("ParseEmploymentType(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParsePriority(t *testing.T) {
	if got := ParsePriority("high"); got == nil || *got != PriorityHigh {
		t.Errorf("ParsePriority(high) = %v", got)
	}
	if got := ParsePriority("urgent"); got != nil {
		t.Errorf("ParsePriority(urgent) = %v, want nil", got)
	}
}

func TestStringListRoundTrip(t *testing.T) {
	in := StringList{"Go", "Python"}
	v, err := in.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	var out StringList
	if err := out.Scan(v); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip: %v != %v", in, out)
	}

	var empty StringList
	if err := empty.Scan(nil); err != nil {
		t.Fatalf("Scan(nil): %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("Scan(nil) = %v, want empty list", empty)
	}
}

func TestFlexListUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"array", `["Go"," Python ",""]`, []string{"Go", "Python"}},
		{"delimited string", `"Python, Go; Rust"`, []string{"Python", "Go", "Rust"}},
		{"empty string", `""`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l FlexList
			if err := json.Unmarshal([]byte(tt.in), &l); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if !reflect.DeepEqual([]string(l), tt.want) {
				t.Errorf("FlexList(%s) = %v, want %v", tt.in, l, tt.want)
			}
		})
	}
}

func TestResourceOutFormatsDates(t *testing.T) {
	r := Resource{
		ResourceID: "R1", Name: "Asha", Role: "Backend",
		Skills:           StringList{"Go"},
		ProficiencyLevel: ptr(ProficiencyExpert),
	}
	out := r.Out()
	if out.AvailabilityDate != nil {
		t.Errorf("nil date should stay nil, got %v", *out.AvailabilityDate)
	}
	if out.ProficiencyLevel == nil || *out.ProficiencyLevel != "Expert" {
		t.Errorf("proficiency = %v", out.ProficiencyLevel)
	}
}

func ptr[T any](v T) *T { return &v }
