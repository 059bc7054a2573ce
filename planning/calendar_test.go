package planning_test

import (
	"testing"
	"time"

	"github.com/klinke/planning-engine/planning"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func mustDate(t *testing.T, s string) planning.Date {
	t.Helper()
	d, err := planning.ParseDate(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

// =============================================================================
// DATE PARSING
// =============================================================================

func TestParseDate_Roundtrip(t *testing.T) {
	d, err := planning.ParseDate("2024-06-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "2024-06-03" {
		t.Errorf("expected 2024-06-03, got %s", d.String())
	}
	if d.Year() != 2024 || d.Month() != time.June || d.Day() != 3 {
		t.Errorf("wrong components: %d %v %d", d.Year(), d.Month(), d.Day())
	}
}

func TestParseDate_Invalid(t *testing.T) {
	if _, err := planning.ParseDate("03/06/2024"); err == nil {
		t.Error("expected error for non-canonical format")
	}
	if _, err := planning.ParseDate("not-a-date"); err == nil {
		t.Error("expected error for garbage input")
	}
}

// =============================================================================
// BUSINESS DAY ARITHMETIC
// =============================================================================

func TestIsBusinessDay_WeekendExcluded(t *testing.T) {
	// 2024-06-01 is a Saturday, 2024-06-02 a Sunday, 2024-06-03 a Monday
	if mustDate(t, "2024-06-01").IsBusinessDay() {
		t.Error("Saturday should not be a business day")
	}
	if mustDate(t, "2024-06-02").IsBusinessDay() {
		t.Error("Sunday should not be a business day")
	}
	if !mustDate(t, "2024-06-03").IsBusinessDay() {
		t.Error("Monday should be a business day")
	}
}

func TestNextBusinessDay_SkipsWeekend(t *testing.T) {
	// GIVEN: Friday 2024-06-07
	// WHEN: Advancing to the next business day
	// THEN: Monday 2024-06-10 (Saturday and Sunday are skipped)
	next := planning.NextBusinessDay(mustDate(t, "2024-06-07"))
	if next.String() != "2024-06-10" {
		t.Errorf("expected 2024-06-10, got %s", next.String())
	}
}

func TestNextBusinessDay_IsStrictlyNext(t *testing.T) {
	// A Monday input must advance to Tuesday, never return itself.
	next := planning.NextBusinessDay(mustDate(t, "2024-06-03"))
	if next.String() != "2024-06-04" {
		t.Errorf("expected 2024-06-04, got %s", next.String())
	}
}

func TestBusinessDaysOfMonth(t *testing.T) {
	days := planning.BusinessDaysOfMonth(2024, time.June)

	// June 2024 has 20 business days: the 3rd through the 28th minus
	// weekends.
	if len(days) != 20 {
		t.Fatalf("expected 20 business days, got %d", len(days))
	}
	if days[0] != "2024-06-03" {
		t.Errorf("expected first day 2024-06-03, got %s", days[0])
	}
	if days[len(days)-1] != "2024-06-28" {
		t.Errorf("expected last day 2024-06-28, got %s", days[len(days)-1])
	}
	for i := 1; i < len(days); i++ {
		if days[i] <= days[i-1] {
			t.Fatalf("days not strictly ascending at %d: %s then %s", i, days[i-1], days[i])
		}
	}
}

func TestMonthLabel(t *testing.T) {
	if got := mustDate(t, "2026-07-15").MonthLabel(); got != "JULY 2026" {
		t.Errorf("expected JULY 2026, got %s", got)
	}
}
