package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hh, mm, ss int) time.Time {
	return time.Date(2026, 10, 17, hh, mm, ss, 0, time.UTC)
}

func TestTallyApply_CountsPerKey(t *testing.T) {
	tl := NewTally()
	for i := 0; i < 7; i++ {
		tl.Apply("Team", at(10, i, 0))
	}

	require.Contains(t, tl.Conversations, "Team")
	assert.EqualValues(t, 7, tl.Conversations["Team"].Count)
	assert.EqualValues(t, 7, tl.Totals.Count)
}

func TestTallyApply_FirstSeenIsStable(t *testing.T) {
	tl := NewTally()
	tl.Apply("Alice", at(9, 0, 0))
	tl.Apply("Alice", at(9, 30, 0))
	tl.Apply("Alice", at(11, 15, 0))

	conv := tl.Conversations["Alice"]
	assert.Equal(t, at(9, 0, 0), conv.FirstSeen)
	assert.Equal(t, at(11, 15, 0), conv.LastSeen)
}

func TestTallyApply_LastSeenFollowsMostRecentEvent(t *testing.T) {
	tl := NewTally()
	tl.Apply("Alice", at(12, 0, 0))
	tl.Apply("Alice", at(11, 0, 0))

	conv := tl.Conversations["Alice"]
	assert.Equal(t, at(12, 0, 0), conv.FirstSeen)
	assert.Equal(t, at(11, 0, 0), conv.LastSeen)

	// totals use strict min/max instead of arrival order
	assert.Equal(t, at(11, 0, 0), tl.Totals.First)
	assert.Equal(t, at(12, 0, 0), tl.Totals.Last)
}

func TestTallyApply_TotalEqualsSumOfKeys(t *testing.T) {
	tl := NewTally()
	keys := []string{"Team", "Alice", "Team", "Bob", "Alice", "Team"}
	for i, k := range keys {
		tl.Apply(k, at(10, i, 0))

		var sum int64
		for _, c := range tl.Conversations {
			sum += c.Count
		}
		require.Equal(t, sum, tl.Totals.Count)
	}
	assert.Equal(t, []string{"Team", "Alice", "Bob"}, tl.Order)
	assert.Equal(t, at(10, 0, 0), tl.Totals.First)
	assert.Equal(t, at(10, 5, 0), tl.Totals.Last)
}

func TestTallyClone_IsIndependent(t *testing.T) {
	tl := NewTally()
	tl.Apply("Team", at(10, 0, 0))

	cp := tl.Clone()
	tl.Apply("Team", at(10, 5, 0))
	tl.Apply("Bob", at(10, 6, 0))

	assert.EqualValues(t, 1, cp.Conversations["Team"].Count)
	assert.Equal(t, []string{"Team"}, cp.Order)
	assert.EqualValues(t, 1, cp.Totals.Count)
	assert.Len(t, tl.Rows(), 2)
}

func TestContactDisplayName(t *testing.T) {
	cases := []struct {
		name    string
		contact *Contact
		want    string
	}{
		{"push name wins", &Contact{PushName: "Alice", FullName: "Alice Silva", Number: "5511"}, "Alice"},
		{"saved name", &Contact{FullName: "Alice Silva", Number: "5511"}, "Alice Silva"},
		{"raw number", &Contact{PushName: "  ", Number: "5511"}, "5511"},
		{"nil", nil, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.contact.DisplayName())
		})
	}
}
