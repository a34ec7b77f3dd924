package util

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

// NoValue 缺失值的展示文本
const NoValue = "/"

// FormatPercent 0–100 的百分比，取整显示
func FormatPercent(v *float64) string {
	if v == nil {
		return NoValue
	}
	return fmt.Sprintf("%d%%", int(math.Round(*v)))
}

// FormatHours 千分位工时，最多保留一位小数
func FormatHours(v *float64) string {
	if v == nil {
		return NoValue
	}
	return humanize.CommafWithDigits(*v, 1) + "h"
}

// FormatMonths 跑道月数
func FormatMonths(v *float64) string {
	if v == nil {
		return NoValue
	}
	return fmt.Sprintf("%.1f mo", *v)
}

// FormatDate yyyy-mm-dd
func FormatDate(t *time.Time) string {
	if t == nil {
		return NoValue
	}
	return t.Format("2006-01-02")
}

// FormatRelative 相对 now 的人类可读时间（"3 days ago"）
func FormatRelative(t, now time.Time) string {
	if t.IsZero() {
		return NoValue
	}
	return humanize.RelTime(t, now, "ago", "from now")
}
