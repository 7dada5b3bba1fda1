package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHasConflict(t *testing.T) {
	base := time.Date(2024, 3, 4, 9, 0, 0, 0, time.Local)

	tests := []struct {
		name     string
		a        Interval
		b        Interval
		expected bool
	}{
		{
			name:     "overlapping intervals",
			a:        Interval{Start: base, End: base.Add(2 * time.Hour)},
			b:        Interval{Start: base.Add(1 * time.Hour), End: base.Add(3 * time.Hour)},
			expected: true,
		},
		{
			name:     "disjoint intervals",
			a:        Interval{Start: base, End: base.Add(1 * time.Hour)},
			b:        Interval{Start: base.Add(2 * time.Hour), End: base.Add(3 * time.Hour)},
			expected: false,
		},
		{
			name:     "touching endpoints do not conflict",
			a:        Interval{Start: base, End: base.Add(1 * time.Hour)},
			b:        Interval{Start: base.Add(1 * time.Hour), End: base.Add(2 * time.Hour)},
			expected: false,
		},
		{
			name:     "one contains the other",
			a:        Interval{Start: base, End: base.Add(3 * time.Hour)},
			b:        Interval{Start: base.Add(1 * time.Hour), End: base.Add(2 * time.Hour)},
			expected: true,
		},
		{
			name:     "identical intervals",
			a:        Interval{Start: base, End: base.Add(1 * time.Hour)},
			b:        Interval{Start: base, End: base.Add(1 * time.Hour)},
			expected: true,
		},
		{
			name:     "missing end assumes one hour",
			a:        Interval{Start: base},
			b:        Interval{Start: base.Add(30 * time.Minute), End: base.Add(90 * time.Minute)},
			expected: true,
		},
		{
			name:     "missing end does not reach past one hour",
			a:        Interval{Start: base},
			b:        Interval{Start: base.Add(1 * time.Hour), End: base.Add(2 * time.Hour)},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HasConflict(tt.a, tt.b))
			// symmetric by definition
			assert.Equal(t, tt.expected, HasConflict(tt.b, tt.a))
		})
	}
}

func TestHasConflict_OrderedProperty(t *testing.T) {
	// for a.Start < b.Start the predicate reduces to a.End > b.Start
	base := time.Date(2024, 3, 4, 9, 0, 0, 0, time.Local)

	for _, gap := range []time.Duration{-30 * time.Minute, 0, 30 * time.Minute} {
		a := Interval{Start: base, End: base.Add(time.Hour)}
		b := Interval{Start: a.End.Add(gap), End: a.End.Add(gap + time.Hour)}
		assert.Equal(t, a.End.After(b.Start), HasConflict(a, b), "gap %v", gap)
	}
}
