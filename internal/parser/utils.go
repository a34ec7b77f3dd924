package parser

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

var separatorRun = regexp.MustCompile(`[\s_-]+`)

// NormalizeKey 规范化列名：去 BOM、去首尾空白、大小写折叠，并删除空白/下划线/连字符
func NormalizeKey(header string) string {
	s := strings.TrimPrefix(header, "\ufeff")
	s = strings.TrimSpace(s)
	s = cases.Fold().String(s)
	return separatorRun.ReplaceAllString(s, "")
}

// noDataTokens 无数据哨兵值（小写比较）
var noDataTokens = map[string]struct{}{
	"":          {},
	"no data":   {},
	"nodata":    {},
	"n/a":       {},
	"na":        {},
	"-":         {},
	"—":         {},
	"/":         {},
	"null":      {},
	"nan":       {},
	"undefined": {},
}

// CellText 单元格的文本形式（已去首尾空白）
func CellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format("2006-01-02")
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}

// IsNoData 是否为无数据哨兵值
func IsNoData(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(x)
	case time.Time:
		return x.IsZero()
	}
	_, ok := noDataTokens[strings.ToLower(CellText(v))]
	return ok
}

// IsOutOfScope 是否为“不在范围内”哨兵值
func IsOutOfScope(v any) bool {
	s := strings.ToLower(CellText(v))
	return strings.Contains(s, "not in scope") || strings.Contains(s, "notinscope")
}

// ContainsAny 检查字符串是否包含任意一个关键词
func ContainsAny(text string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
