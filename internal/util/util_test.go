package util

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestFormat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, NoValue, FormatPercent(nil))
	assert.Equal(t, "45%", FormatPercent(ptr(45.4)))
	assert.Equal(t, "1,234.5h", FormatHours(ptr(1234.5)))
	assert.Equal(t, "600h", FormatHours(ptr(600)))
	assert.Equal(t, NoValue, FormatHours(nil))
	assert.Equal(t, "11.5 mo", FormatMonths(ptr(11.478)))
	assert.Equal(t, NoValue, FormatMonths(nil))

	d := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-01", FormatDate(&d))
	assert.Equal(t, NoValue, FormatDate(nil))
	assert.Equal(t, "2 days ago", FormatRelative(d, d.Add(48*time.Hour)))
	assert.Equal(t, NoValue, FormatRelative(time.Time{}, d))
}

func TestFindAvailablePort(t *testing.T) {
	t.Parallel()

	l, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer l.Close()
	busy := l.Addr().(*net.TCPAddr).Port

	p, err := FindAvailablePort(busy, 20)
	require.NoError(t, err)
	assert.NotEqual(t, busy, p)
	assert.Greater(t, p, busy)
}

func TestBrowserCommands(t *testing.T) {
	t.Parallel()

	url := "http://localhost:20261"
	assert.Equal(t, [][]string{{"open", url}}, browserCommands("darwin", url))

	win := browserCommands("windows", url)
	require.Len(t, win, 2)
	assert.Equal(t, "rundll32", win[0][0])
	assert.Equal(t, []string{"explorer", url}, win[1])

	linux := browserCommands("linux", url)
	assert.Equal(t, []string{"xdg-open", url}, linux[0])
	assert.Len(t, linux, 5)
	for _, c := range linux {
		assert.Equal(t, url, c[len(c)-1])
	}
}
