package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeRange_Overlaps(t *testing.T) {
	tests := []struct {
		name      string
		existing  TimeRange
		candidate TimeRange
		want      bool
	}{
		{
			name:      "identical ranges",
			existing:  TimeRange{"10:00", "12:00"},
			candidate: TimeRange{"10:00", "12:00"},
			want:      true,
		},
		{
			name:      "candidate starts inside existing",
			existing:  TimeRange{"10:00", "12:00"},
			candidate: TimeRange{"11:00", "13:00"},
			want:      true,
		},
		{
			name:      "candidate ends inside existing",
			existing:  TimeRange{"10:00", "12:00"},
			candidate: TimeRange{"09:00", "11:00"},
			want:      true,
		},
		{
			name:      "candidate contains existing",
			existing:  TimeRange{"10:00", "12:00"},
			candidate: TimeRange{"09:00", "13:00"},
			want:      true,
		},
		{
			name:      "existing contains candidate",
			existing:  TimeRange{"09:00", "13:00"},
			candidate: TimeRange{"10:00", "12:00"},
			want:      true,
		},
		{
			name:      "back to back, candidate after",
			existing:  TimeRange{"10:00", "12:00"},
			candidate: TimeRange{"12:00", "14:00"},
			want:      false,
		},
		{
			name:      "back to back, candidate before",
			existing:  TimeRange{"12:00", "14:00"},
			candidate: TimeRange{"10:00", "12:00"},
			want:      false,
		},
		{
			name:      "disjoint before",
			existing:  TimeRange{"14:00", "16:00"},
			candidate: TimeRange{"10:00", "12:00"},
			want:      false,
		},
		{
			name:      "disjoint after",
			existing:  TimeRange{"08:00", "09:00"},
			candidate: TimeRange{"10:00", "12:00"},
			want:      false,
		},
		{
			name:      "one minute overlap at end",
			existing:  TimeRange{"10:00", "12:01"},
			candidate: TimeRange{"12:00", "14:00"},
			want:      true,
		},
		{
			name:      "crosses midday zero padding",
			existing:  TimeRange{"09:30", "10:30"},
			candidate: TimeRange{"10:29", "11:00"},
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.existing.Overlaps(tt.candidate))
		})
	}
}

// Overlap is a symmetric relation even though the three clauses are not
// individually symmetric.
func TestTimeRange_OverlapsSymmetric(t *testing.T) {
	pairs := []struct {
		a, b TimeRange
	}{
		{TimeRange{"10:00", "12:00"}, TimeRange{"11:00", "13:00"}},
		{TimeRange{"10:00", "12:00"}, TimeRange{"12:00", "14:00"}},
		{TimeRange{"09:00", "17:00"}, TimeRange{"10:00", "11:00"}},
		{TimeRange{"08:00", "09:00"}, TimeRange{"09:30", "10:00"}},
	}
	for _, p := range pairs {
		assert.Equal(t, p.a.Overlaps(p.b), p.b.Overlaps(p.a), "a=%v b=%v", p.a, p.b)
	}
}

func TestFindConflicts(t *testing.T) {
	morning := &Event{ID: "ev-1", Title: "Morning Workshop", StartTime: "09:00", EndTime: "11:00"}
	midday := &Event{ID: "ev-2", Title: "Midday Talk", StartTime: "11:00", EndTime: "13:00"}
	evening := &Event{ID: "ev-3", Title: "Evening Gala", StartTime: "18:00", EndTime: "21:00"}
	existing := []*Event{morning, midday, evening}

	t.Run("overlapping candidate picks only colliding events", func(t *testing.T) {
		got := FindConflicts(existing, TimeRange{Start: "10:00", End: "12:00"})
		require.Len(t, got, 2)
		assert.Equal(t, "ev-1", got[0].ID)
		assert.Equal(t, "ev-2", got[1].ID)
	})

	t.Run("back to back slot is free", func(t *testing.T) {
		got := FindConflicts(existing, TimeRange{Start: "13:00", End: "18:00"})
		require.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("empty existing yields empty non-nil slice", func(t *testing.T) {
		got := FindConflicts(nil, TimeRange{Start: "10:00", End: "12:00"})
		require.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestValidTime(t *testing.T) {
	valid := []string{"00:00", "09:30", "12:00", "23:59"}
	invalid := []string{"9:30", "24:00", "12:60", "12:5", "noon", "", "12:00:00"}
	for _, s := range valid {
		assert.True(t, ValidTime(s), s)
	}
	for _, s := range invalid {
		assert.False(t, ValidTime(s), s)
	}
}

func TestValidDate(t *testing.T) {
	valid := []string{"2025-01-01", "2025-12-31"}
	invalid := []string{"2025-13-01", "2025-00-10", "2025-1-1", "01-01-2025", ""}
	for _, s := range valid {
		assert.True(t, ValidDate(s), s)
	}
	for _, s := range invalid {
		assert.False(t, ValidDate(s), s)
	}
}
