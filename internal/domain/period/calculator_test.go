package period

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		reference time.Time
		anchor    time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "anchor on the 1st",
			reference: date(2022, time.January, 15),
			anchor:    date(2022, time.January, 1),
			wantStart: date(2022, time.January, 1),
			wantEnd:   date(2022, time.January, 31),
		},
		{
			name:      "anchor on the 1st in February",
			reference: date(2022, time.February, 15),
			anchor:    date(2022, time.January, 1),
			wantStart: date(2022, time.February, 1),
			wantEnd:   date(2022, time.February, 28),
		},
		{
			name:      "mid-month anchor",
			reference: date(2022, time.January, 28),
			anchor:    date(2022, time.January, 15),
			wantStart: date(2022, time.January, 15),
			wantEnd:   date(2022, time.February, 14),
		},
		{
			name:      "anchor on the 30th clamped by February",
			reference: date(2022, time.February, 15),
			anchor:    date(2022, time.January, 30),
			wantStart: date(2022, time.January, 30),
			wantEnd:   date(2022, time.February, 27),
		},
		{
			name:      "anchor on the 31st in a leap year",
			reference: date(2020, time.February, 15),
			anchor:    date(2020, time.January, 31),
			wantStart: date(2020, time.January, 31),
			wantEnd:   date(2020, time.February, 28),
		},
		{
			name:      "anchor on the 31st in a non leap year",
			reference: date(2022, time.February, 15),
			anchor:    date(2022, time.January, 31),
			wantStart: date(2022, time.January, 31),
			wantEnd:   date(2022, time.February, 27),
		},
		{
			name:      "reference on the period start day",
			reference: date(2022, time.January, 15),
			anchor:    date(2022, time.January, 15),
			wantStart: date(2022, time.January, 15),
			wantEnd:   date(2022, time.February, 14),
		},
		{
			name:      "reference just before the anchor day",
			reference: date(2022, time.January, 14),
			anchor:    date(2021, time.June, 15),
			wantStart: date(2021, time.December, 15),
			wantEnd:   date(2022, time.January, 14),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.reference, tt.anchor)
			if !got.Start.Equal(tt.wantStart) {
				t.Errorf("start: got %v, want %v", got.Start, tt.wantStart)
			}
			wantEnd := tt.wantEnd.Add(24*time.Hour - time.Second)
			if !got.End.Equal(wantEnd) {
				t.Errorf("end: got %v, want %v", got.End, wantEnd)
			}
			if !got.Contains(tt.reference) {
				t.Errorf("reference %v not within resolved period [%v, %v]", tt.reference, got.Start, got.End)
			}
		})
	}
}

func TestResolve_SubDayReference(t *testing.T) {
	// A reference with a clock time on the period's last day still
	// resolves to the running period.
	reference := time.Date(2022, time.January, 31, 18, 30, 0, 0, time.UTC)
	got := Resolve(reference, date(2022, time.January, 1))
	if !got.Start.Equal(date(2022, time.January, 1)) {
		t.Errorf("start: got %v, want 2022-01-01", got.Start)
	}
	if !got.Contains(reference) {
		t.Errorf("reference %v not within period", reference)
	}
}

func TestNext(t *testing.T) {
	tests := []struct {
		name      string
		reference time.Time
		anchor    time.Time
		wantStart time.Time
	}{
		{
			name:      "simple next month",
			reference: date(2022, time.January, 15),
			anchor:    date(2022, time.January, 1),
			wantStart: date(2022, time.February, 1),
		},
		{
			name:      "31st anchor recovers after short month",
			reference: date(2022, time.February, 15),
			anchor:    date(2022, time.January, 31),
			wantStart: date(2022, time.February, 28),
		},
		{
			name:      "31st anchor into a 30 day month",
			reference: date(2022, time.March, 31),
			anchor:    date(2022, time.January, 31),
			wantStart: date(2022, time.April, 30),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Next(tt.reference, tt.anchor)
			if !got.Start.Equal(tt.wantStart) {
				t.Errorf("start: got %v, want %v", got.Start, tt.wantStart)
			}
			current := Resolve(tt.reference, tt.anchor)
			if !got.Start.Equal(current.End.Add(time.Second)) {
				t.Errorf("next period start %v does not continue current period end %v", got.Start, current.End)
			}
		})
	}
}

func TestPreviousInvertsNext(t *testing.T) {
	anchors := []time.Time{
		date(2022, time.January, 1),
		date(2022, time.January, 15),
		date(2022, time.January, 30),
		date(2022, time.January, 31),
		date(2020, time.January, 31),
	}
	references := []time.Time{
		date(2022, time.January, 15),
		date(2022, time.February, 15),
		date(2020, time.February, 15),
		date(2022, time.December, 31),
	}

	for _, anchor := range anchors {
		for _, reference := range references {
			current := Resolve(reference, anchor)
			next := Next(reference, anchor)
			back := Previous(next.Start, anchor)
			if !back.Start.Equal(current.Start) || !back.End.Equal(current.End) {
				t.Errorf("anchor %v reference %v: Previous(Next(...).Start) = [%v, %v], want [%v, %v]",
					anchor, reference, back.Start, back.End, current.Start, current.End)
			}
		}
	}
}

func TestPeriodsAreContiguous(t *testing.T) {
	// Walking a year of periods from an end-of-month anchor must leave
	// no gaps and no overlaps.
	anchor := date(2022, time.January, 31)
	current := Resolve(anchor, anchor)
	for i := 0; i < 12; i++ {
		next := Resolve(current.End.AddDate(0, 0, 1), anchor)
		if !next.Start.Equal(current.End.Add(time.Second)) {
			t.Fatalf("gap between period ending %v and period starting %v", current.End, next.Start)
		}
		current = next
	}
}
