package util

import (
	"errors"
	"testing"
)

func TestParseRecordDatePlain(t *testing.T) {
	got, err := ParseRecordDate("2024-01-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Format(DayFormat) != "2024-01-15" {
		t.Fatalf("unexpected date %v", got)
	}
}

func TestParseRecordDateISO(t *testing.T) {
	cases := []string{
		"2024-01-15T10:30:00",
		"2024-01-15T10:30:00.000",
		"2024-01-15T10:30:00.000Z",
		"2024-01-15 10:30:00",
	}
	for _, s := range cases {
		got, err := ParseRecordDate(s)
		if err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
		if got.Format(DayFormat) != "2024-01-15" {
			t.Fatalf("parse %q: unexpected date %v", s, got)
		}
	}
}

func TestParseRecordDateStripFallback(t *testing.T) {
	got, err := ParseRecordDate("2024-01-15T10:30:00+08:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Format(DayFormat) != "2024-01-15" {
		t.Fatalf("unexpected date %v", got)
	}
}

func TestParseRecordDateInvalid(t *testing.T) {
	_, err := ParseRecordDate("not-a-date")
	if !errors.Is(err, ErrDateParse) {
		t.Fatalf("expected ErrDateParse, got %v", err)
	}
}

func TestFutureDays(t *testing.T) {
	last, err := ParseRecordDate("2024-01-15T10:30:00.000Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := FutureDays(last, 3)
	want := []string{"2024-01-16", "2024-01-17", "2024-01-18"}
	if len(got) != len(want) {
		t.Fatalf("expected %d dates, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("day %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}
