package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	for _, in := range []string{"2025-03-07", "2025-03-07T15:04:05Z", "2025-03-07 10:00:00"} {
		d, err := ParseDate(in)
		if err != nil {
			t.Fatalf("ParseDate(%q) error = %v", in, err)
		}
		if got := d.String(); got != "2025-03-07" {
			t.Errorf("ParseDate(%q) = %s, want 2025-03-07", in, got)
		}
	}

	if _, err := ParseDate("07/03/2025"); err == nil {
		t.Error("ParseDate(07/03/2025) error = nil, want error")
	}
}

func TestDateArithmetic(t *testing.T) {
	d := NewDate(2025, time.January, 30)
	if got := d.AddDays(2).String(); got != "2025-02-01" {
		t.Errorf("AddDays(2) = %s, want 2025-02-01", got)
	}
	if got := d.DaysUntil(d.AddDays(2)); got != 2 {
		t.Errorf("DaysUntil(+2) = %d, want 2", got)
	}
	if got := d.DaysUntil(d.AddDays(-31)); got != -31 {
		t.Errorf("DaysUntil(-31) = %d, want -31", got)
	}
	if !d.Before(d.AddDays(1)) {
		t.Error("Before(next day) = false, want true")
	}
	if !d.Equal(DateOf(time.Date(2025, 1, 30, 23, 59, 0, 0, time.UTC))) {
		t.Error("DateOf(late evening) should equal the same calendar day")
	}
}

func TestDateJSON(t *testing.T) {
	type wrap struct {
		Day  Date  `json:"day"`
		Opt  *Date `json:"opt"`
		Zero Date  `json:"zero"`
	}
	b, err := json.Marshal(wrap{Day: NewDate(2024, time.February, 29)})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"day":"2024-02-29","opt":null,"zero":null}`
	if string(b) != want {
		t.Fatalf("Marshal() = %s, want %s", b, want)
	}

	var back wrap
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got := back.Day.String(); got != "2024-02-29" {
		t.Errorf("Day = %s, want 2024-02-29", got)
	}
	if back.Opt != nil {
		t.Errorf("Opt = %v, want nil", back.Opt)
	}
	if !back.Zero.IsZero() {
		t.Errorf("Zero = %v, want zero date", back.Zero)
	}
}

func TestRunwayString(t *testing.T) {
	tests := []struct {
		r    Runway
		want string
	}{
		{Runway{Days: 90, Beyond: true}, "90+"},
		{Runway{Days: 12}, "12"},
	}
	for _, tt := range tests {
		if got := tt.r.String(); got != tt.want {
			t.Errorf("%+v.String() = %q, want %q", tt.r, got, tt.want)
		}
	}
}

func TestDocStatusOutstanding(t *testing.T) {
	tests := []struct {
		status DocStatus
		valid  bool
		aged   bool
	}{
		{StatusDraft, true, true},
		{StatusOpen, true, true},
		{StatusOverdue, true, true},
		{StatusCancelled, true, true},
		{StatusPaid, true, false},
		{StatusVoid, true, false},
		{"partial", false, true},
		{"", false, true},
	}
	for _, tt := range tests {
		if got := tt.status.Valid(); got != tt.valid {
			t.Errorf("DocStatus(%q).Valid() = %v, want %v", tt.status, got, tt.valid)
		}
		if got := tt.status.Outstanding(); got != tt.aged {
			t.Errorf("DocStatus(%q).Outstanding() = %v, want %v", tt.status, got, tt.aged)
		}
	}
}
