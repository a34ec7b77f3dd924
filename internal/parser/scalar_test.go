package parser

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToNumber(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   any
		want float64
		ok   bool
	}{
		{"1,234.5", 1234.5, true},
		{" 42 ", 42, true},
		{"-3.5", -3.5, true},
		{"$ 1,000", 1000, true},
		{12.0, 12, true},
		{7, 7, true},
		{"no data", 0, false},
		{"N/A", 0, false},
		{"12 Mar", 0, false},
		{"01-Mar-21", 0, false},
		{"", 0, false},
		{nil, 0, false},
		{"1-2", 0, false},
		{math.NaN(), 0, false},
	}
	for _, tc := range cases {
		got, ok := ToNumber(tc.in)
		assert.Equal(t, tc.ok, ok, "ToNumber(%#v)", tc.in)
		if tc.ok {
			assert.InDelta(t, tc.want, got, 1e-9, "ToNumber(%#v)", tc.in)
		}
	}
}

func TestToPercent(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   any
		want float64
		ok   bool
	}{
		{"45%", 45, true},
		{0.45, 45, true},
		{45.0, 45, true},
		{"0%", 0, true},
		{"0.5%", 0.5, true},
		{"0.5", 50, true},
		{"1", 100, true},
		{0.0, 0, true},
		{"120", 120, true},
		{"—", 0, false},
		{"half", 0, false},
	}
	for _, tc := range cases {
		got, ok := ToPercent(tc.in)
		assert.Equal(t, tc.ok, ok, "ToPercent(%#v)", tc.in)
		if tc.ok {
			assert.InDelta(t, tc.want, got, 1e-9, "ToPercent(%#v)", tc.in)
		}
	}
}

func TestToDate(t *testing.T) {
	t.Parallel()

	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	cases := []struct {
		in   any
		want time.Time
	}{
		{44256.0, day(2021, time.March, 1)},
		{44287.0, day(2021, time.April, 1)},
		{1.0, day(1899, time.December, 31)},
		{"01-Mar-21", day(2021, time.March, 1)},
		{"1-mar-2021", day(2021, time.March, 1)},
		{"15/04/2024", day(2024, time.April, 15)},
		{"15.04.24", day(2024, time.April, 15)},
		{"2024-01-20", day(2024, time.January, 20)},
		{"Jan 20, 2024", day(2024, time.January, 20)},
		{day(2023, time.July, 9), day(2023, time.July, 9)},
	}
	for _, tc := range cases {
		got, ok := ToDate(tc.in)
		require.True(t, ok, "ToDate(%#v)", tc.in)
		assert.True(t, got.Equal(tc.want), "ToDate(%#v)=%s want=%s", tc.in, got, tc.want)
	}

	for _, in := range []any{"bogus", "", "no data", "31-Feb-24", "12/13/2024", "01-Foo-21", math.Inf(1), 1e12} {
		if _, ok := ToDate(in); ok {
			t.Fatalf("expected absent for %#v", in)
		}
	}
}

func TestToDate_SerialFraction(t *testing.T) {
	t.Parallel()

	got, ok := ToDate(44256.5)
	require.True(t, ok)
	assert.Equal(t, time.Date(2021, time.March, 1, 12, 0, 0, 0, time.UTC), got)
}

func TestClassifyFlag(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in    any
		kind  FlagKind
		label string
	}{
		{"Yes", FlagTrue, ""},
		{"y", FlagTrue, ""},
		{"1", FlagTrue, ""},
		{2.0, FlagTrue, ""},
		{true, FlagTrue, ""},
		{"No", FlagFalse, ""},
		{"0", FlagFalse, ""},
		{"F", FlagFalse, ""},
		{"Not in scope", FlagFalse, ""},
		{"notinscope", FlagFalse, ""},
		{"no data", FlagFalse, ""},
		{"", FlagFalse, ""},
		{nil, FlagFalse, ""},
		{"  Studio North ", FlagName, "Studio North"},
		{"#1", FlagTrue, ""},
	}
	for _, tc := range cases {
		kind, label := ClassifyFlag(tc.in)
		if kind != tc.kind || label != tc.label {
			t.Fatalf("ClassifyFlag(%#v)=(%v,%q) want=(%v,%q)", tc.in, kind, label, tc.kind, tc.label)
		}
	}
}
