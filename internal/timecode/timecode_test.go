package timecode

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"00:01:02", 62},
		{"01:00:00", 3600},
		{"1:02", 62},
		{"45", 45},
		{"::30", 30},
		{"1::", 3600},
		{":5:", 300},
		{"00:00:01.5", 1.5},
		{"02.25", 2.25},
		{"10.", 10},
		{" 00:00:07 ", 7},
		{"00:99:99", 99*60 + 99},
		{"100:00:00", 360000},
		{"999999:00:00", 999999 * 3600},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{
		"", "   ", "abc", "1:2:3:4", "00:123:00", "00:00:123",
		"-5", "00:0a:00", "1.5:00", "00:00:01.x", "1e3",
		"1000000:00:00", "9999999999999999:00:00",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidTime), "got %v", err)
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "00:00:00"},
		{62, "00:01:02"},
		{62.9, "00:01:02"},
		{3600, "01:00:00"},
		{3723, "01:02:03"},
		{-4, "00:00:00"},
		{360000, "100:00:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.in), "Format(%v)", tt.in)
	}
}

func TestFormatParseAgree(t *testing.T) {
	for _, s := range []string{"00:00:00", "00:59:59", "12:34:56"} {
		assert.Equal(t, s, Format(MustParse(s)))
	}
}

func TestNeedsHours(t *testing.T) {
	assert.False(t, NeedsHours(0))
	assert.False(t, NeedsHours(3599.9))
	assert.True(t, NeedsHours(3600))
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParse("x") })
}
