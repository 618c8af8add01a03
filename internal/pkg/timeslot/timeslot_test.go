package timeslot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValid(t *testing.T) {
	cases := []struct {
		label string
		want  bool
	}{
		{"08:00", true},
		{"19:00", true},
		{"12:00", true},
		{"07:00", false},
		{"20:00", false},
		{"10:30", false},
		{"8:00", false},
		{"noon", false},
		{"", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Valid(tc.label), "label %q", tc.label)
	}
}

func TestGrid(t *testing.T) {
	g := Grid()
	require.Len(t, g, 12)
	assert.Equal(t, "08:00", g[0])
	assert.Equal(t, "19:00", g[len(g)-1])
	for _, label := range g {
		assert.True(t, Valid(label), "grid label %q must validate", label)
	}
}

func TestValidDate(t *testing.T) {
	assert.True(t, ValidDate("2024-06-01"))
	assert.False(t, ValidDate("2024-13-01"))
	assert.False(t, ValidDate("01-06-2024"))
	assert.False(t, ValidDate("tomorrow"))
}

func TestStartTime(t *testing.T) {
	got, err := StartTime("2024-06-01", "10:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC), got)

	_, err = StartTime("2024-06-01", "bad")
	assert.Error(t, err)
}
