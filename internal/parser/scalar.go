package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ExcelEpoch Excel/Lotus 序列日期的零点
var ExcelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// maxSerial 9999-12-31 对应的序列号
const maxSerial = 2958465

var (
	hasLetter    = regexp.MustCompile(`[a-zA-Z]`)
	nonNumeric   = regexp.MustCompile(`[^0-9.\-]`)
	dayMonAbbrev = regexp.MustCompile(`^(\d{1,2})-([A-Za-z]{3})-(\d{2,4})$`)
	dayMonthYear = regexp.MustCompile(`^(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{2,4})$`)
)

var monthAbbrev = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March, "apr": time.April,
	"may": time.May, "jun": time.June, "jul": time.July, "aug": time.August,
	"sep": time.September, "oct": time.October, "nov": time.November, "dec": time.December,
}

// fallbackLayouts 通用日期解析兜底格式
var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
	"2 Jan 2006",
	"02 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"January 2, 2006",
	"January 2 2006",
	"Mon Jan 2 2006",
	"Mon, 02 Jan 2006 15:04:05 MST",
}

// ToNumber 解析数字，容忍千分位；含字母的文本视为非数字
func ToNumber(v any) (float64, bool) {
	if IsNoData(v) {
		return 0, false
	}
	switch x := v.(type) {
	case float64:
		if math.IsInf(x, 0) {
			return 0, false
		}
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case time.Time, bool:
		return 0, false
	}

	s := CellText(v)
	if s == "" || hasLetter.MatchString(s) {
		return 0, false
	}
	cleaned := nonNumeric.ReplaceAllString(strings.ReplaceAll(s, ",", ""), "")
	if cleaned == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// ToPercent 解析百分比（0-100 口径）
// 带 % 的文本原样使用；其余输入落在 (0,1] 时按小数放大 100 倍
func ToPercent(v any) (float64, bool) {
	if IsNoData(v) {
		return 0, false
	}
	if _, isText := v.(string); !isText {
		n, ok := ToNumber(v)
		if !ok {
			return 0, false
		}
		return scaleFraction(n), true
	}

	s := CellText(v)
	hasPct := strings.Contains(s, "%")
	n, ok := ToNumber(strings.ReplaceAll(s, "%", ""))
	if !ok {
		return 0, false
	}
	if hasPct {
		return n, true
	}
	return scaleFraction(n), true
}

func scaleFraction(n float64) float64 {
	if n > 0 && n <= 1 {
		return n * 100
	}
	return n
}

// ToDate 解析日期：原生时间、Excel 序列号、dd-MMM-yy、dd/mm/yyyy，最后按通用格式兜底
func ToDate(v any) (time.Time, bool) {
	if IsNoData(v) {
		return time.Time{}, false
	}
	switch x := v.(type) {
	case time.Time:
		return x, true
	case float64:
		return FromSerial(x)
	case int:
		return FromSerial(float64(x))
	case int64:
		return FromSerial(float64(x))
	case bool:
		return time.Time{}, false
	}

	s := CellText(v)
	if m := dayMonAbbrev.FindStringSubmatch(s); m != nil {
		month, ok := monthAbbrev[strings.ToLower(m[2])]
		if !ok {
			return time.Time{}, false
		}
		day, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[3])
		return makeDate(year, month, day)
	}
	if m := dayMonthYear.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if month < 1 || month > 12 {
			return time.Time{}, false
		}
		return makeDate(year, time.Month(month), day)
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FromSerial Excel 序列号转日期（1899-12-30 起算，支持小数部分的时间）
func FromSerial(serial float64) (time.Time, bool) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) || serial < -maxSerial || serial > maxSerial {
		return time.Time{}, false
	}
	whole := math.Floor(serial)
	frac := serial - whole
	t := ExcelEpoch.AddDate(0, 0, int(whole))
	if frac > 0 {
		t = t.Add(time.Duration(frac * float64(24*time.Hour)).Round(time.Millisecond))
	}
	return t, true
}

func makeDate(year int, month time.Month, day int) (time.Time, bool) {
	if year < 100 {
		year += 2000
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != month {
		return time.Time{}, false
	}
	return t, true
}

// FlagKind 布尔/团队列的分类结果
type FlagKind int

const (
	// FlagFalse 否/无数据/不在范围内
	FlagFalse FlagKind = iota
	// FlagTrue 是（未指定团队名）
	FlagTrue
	// FlagName 文本看起来是团队/人员名称
	FlagName
)

var truthyTokens = map[string]struct{}{
	"y": {}, "yes": {}, "true": {}, "t": {}, "1": {},
}

var falsyTokens = map[string]struct{}{
	"n": {}, "no": {}, "false": {}, "f": {}, "0": {},
	"na": {}, "n/a": {}, "-": {}, "no data": {}, "nodata": {}, "nan": {},
	"not in scope": {}, "notinscope": {},
}

// ClassifyFlag 对团队/专业列单元格分类，FlagName 时返回去空白后的文本
func ClassifyFlag(v any) (FlagKind, string) {
	if IsNoData(v) || IsOutOfScope(v) {
		return FlagFalse, ""
	}
	s := CellText(v)
	low := strings.ToLower(s)
	if _, ok := falsyTokens[low]; ok {
		return FlagFalse, ""
	}
	if _, ok := truthyTokens[low]; ok {
		return FlagTrue, ""
	}
	if b, ok := v.(bool); ok {
		if b {
			return FlagTrue, ""
		}
		return FlagFalse, ""
	}
	if n, ok := ToNumber(v); ok {
		if n > 0 {
			return FlagTrue, ""
		}
		return FlagFalse, ""
	}
	if hasLetter.MatchString(s) {
		return FlagName, s
	}
	return FlagTrue, ""
}
