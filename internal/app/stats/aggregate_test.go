package stats_test

import (
	"testing"
	"time"

	"github.com/fardannozami/bible-reading-tracker/internal/app/stats"
	"github.com/fardannozami/bible-reading-tracker/internal/domain"
	"github.com/fardannozami/bible-reading-tracker/internal/plan"
)

// =============================================================================
// MISSED READINGS, ADMIN AGGREGATE & READER LISTS
// =============================================================================

func TestMissedReadings_BeforeTodayOnly(t *testing.T) {
	completions := completionsFor("Alice", "2025-12-23", "2025-12-26")

	missed := stats.ComputeMissedReadings("Alice", completions, plan.Default(), day("2026-01-02"))

	want := []string{"2025-12-24", "2025-12-27", "2025-12-30", "2025-12-31"}
	if len(missed) != len(want) {
		t.Fatalf("Expected %d missed readings, got %d", len(want), len(missed))
	}
	for i, e := range missed {
		if e.Date != want[i] {
			t.Errorf("Missed[%d]: expected %s, got %s", i, want[i], e.Date)
		}
	}

	last := stats.Last(missed, 2)
	if len(last) != 2 || last[0].Date != "2025-12-30" || last[1].Date != "2025-12-31" {
		t.Errorf("Last(2) should keep the most recent two, got %+v", last)
	}
}

func TestMissedReadings_NothingScheduledYet(t *testing.T) {
	missed := stats.ComputeMissedReadings("Alice", nil, plan.Default(), day("2025-12-23"))
	if len(missed) != 0 {
		t.Errorf("Expected no missed readings on the first day, got %d", len(missed))
	}
}

func TestAdminAggregate_AveragesUnroundedRates(t *testing.T) {
	completions := append(
		completionsFor("Alice", "2025-12-23"),
		completionsFor("Bob", "2026-01-02")...,
	)

	agg := stats.ComputeAdminAggregate([]string{"Alice", "Bob", "Carol"}, completions, plan.Default(), day("2026-01-02"))

	if agg.TotalParticipants != 3 {
		t.Errorf("Expected TotalParticipants=3, got %d", agg.TotalParticipants)
	}
	if agg.TotalCompletions != 2 {
		t.Errorf("Expected TotalCompletions=2, got %d", agg.TotalCompletions)
	}
	// (14.29 + 14.29 + 0) / 3 = 9.52 -> 10; averaging rounded rates would give 9.
	if agg.AvgCompletionPercent != 10 {
		t.Errorf("Expected AvgCompletionPercent=10, got %d", agg.AvgCompletionPercent)
	}
	if agg.TodayCompletions != 1 {
		t.Errorf("Expected TodayCompletions=1, got %d", agg.TodayCompletions)
	}
}

func TestAdminAggregate_Empty(t *testing.T) {
	agg := stats.ComputeAdminAggregate(nil, nil, nil, day("2026-01-02"))
	if agg != (stats.AdminAggregate{}) {
		t.Errorf("Expected zero aggregate, got %+v", agg)
	}
}

func TestTopReaders_RanksByCompleted(t *testing.T) {
	var completions []domain.Completion
	completions = append(completions, completionsFor("Low", "2025-12-23")...)
	completions = append(completions, completionsFor("High", "2025-12-23", "2025-12-24", "2025-12-26")...)
	completions = append(completions, completionsFor("Mid", "2025-12-23", "2025-12-24")...)

	top := stats.TopReaders([]string{"Low", "High", "Mid", "None"}, completions, plan.Default(), day("2026-01-02"), 3)

	if len(top) != 3 {
		t.Fatalf("Expected 3 readers, got %d", len(top))
	}
	if top[0].UserName != "High" || top[1].UserName != "Mid" || top[2].UserName != "Low" {
		t.Errorf("Unexpected order: %s, %s, %s", top[0].UserName, top[1].UserName, top[2].UserName)
	}
}

func TestParticipantSummaries_SortedByName(t *testing.T) {
	got := stats.ParticipantSummaries([]string{"carol", "Bob", "alice"}, nil, plan.Default(), day("2026-01-02"))

	if got[0].UserName != "alice" || got[1].UserName != "Bob" || got[2].UserName != "carol" {
		t.Errorf("Unexpected order: %s, %s, %s", got[0].UserName, got[1].UserName, got[2].UserName)
	}
}

func TestRecentCompletions_NewestFirst(t *testing.T) {
	completions := completionsFor("Alice", "2025-12-23", "2025-12-31", "2025-12-26")

	recent := stats.RecentCompletions("Alice", completions, 2)
	if len(recent) != 2 {
		t.Fatalf("Expected 2 completions, got %d", len(recent))
	}
	if recent[0].Date != "2025-12-31" || recent[1].Date != "2025-12-26" {
		t.Errorf("Unexpected order: %s, %s", recent[0].Date, recent[1].Date)
	}

	if completions[0].Date != "2025-12-23" {
		t.Error("Input slice must not be reordered")
	}
}

func TestFilterCompletions(t *testing.T) {
	base := time.Date(2026, 1, 2, 8, 0, 0, 0, time.UTC)
	completions := []domain.Completion{
		{UserName: "Alice", Date: "2026-01-02", CompletedOn: base},
		{UserName: "Bob", Date: "2026-01-02", CompletedOn: base.Add(time.Hour)},
		{UserName: "Alice", Date: "2025-12-31", CompletedOn: base.Add(2 * time.Hour), Catchup: true},
	}

	page, total := stats.FilterCompletions(completions, "", "", 2)
	if total != 3 || len(page) != 2 {
		t.Fatalf("Expected 2 of 3, got %d of %d", len(page), total)
	}
	if page[0].Date != "2025-12-31" || page[1].UserName != "Bob" {
		t.Errorf("Expected newest completion first, got %+v", page)
	}

	page, total = stats.FilterCompletions(completions, "Alice", "2026-01-02", 50)
	if total != 1 || page[0].UserName != "Alice" || page[0].Date != "2026-01-02" {
		t.Errorf("Filter by user and date failed: %+v", page)
	}
}

func TestCountForDate(t *testing.T) {
	completions := append(completionsFor("Alice", "2026-01-02"), completionsFor("Bob", "2026-01-02", "2026-01-05")...)
	if got := stats.CountForDate(completions, "2026-01-02"); got != 2 {
		t.Errorf("Expected 2, got %d", got)
	}
}
