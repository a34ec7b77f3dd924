package importer

import (
	"strings"
)

// candidateDelimiters 自动识别的分隔符（同票时取靠前者）
var candidateDelimiters = []rune{',', ';', '\t', '|'}

// DetectDelimiter 根据第一条非空行（去掉引号内内容后）统计分隔符出现次数
func DetectDelimiter(text string) rune {
	var first string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			first = line
			break
		}
	}
	if first == "" {
		return ','
	}

	var b strings.Builder
	inQuotes := false
	for _, ch := range first {
		if ch == '"' {
			inQuotes = !inQuotes
			continue
		}
		if !inQuotes {
			b.WriteRune(ch)
		}
	}
	bare := b.String()

	best, bestCount := ',', 0
	for _, d := range candidateDelimiters {
		if n := strings.Count(bare, string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

// ParseDelimited 解析分隔文本：双引号转义，丢弃 CR，LF 换行，并去掉末尾的全空行
func ParseDelimited(text string, delim rune) [][]string {
	var (
		rows     [][]string
		row      []string
		field    strings.Builder
		inQuotes bool
	)
	runes := []rune(strings.TrimPrefix(text, "\ufeff"))

	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		if inQuotes {
			switch {
			case ch == '"' && i+1 < len(runes) && runes[i+1] == '"':
				field.WriteRune('"')
				i++
			case ch == '"':
				inQuotes = false
			case ch == '\r':
			default:
				field.WriteRune(ch)
			}
			continue
		}

		switch ch {
		case '"':
			inQuotes = true
		case delim:
			row = append(row, field.String())
			field.Reset()
		case '\r':
		case '\n':
			row = append(row, field.String())
			field.Reset()
			rows = append(rows, row)
			row = nil
		default:
			field.WriteRune(ch)
		}
	}
	if field.Len() > 0 || len(row) > 0 {
		row = append(row, field.String())
		rows = append(rows, row)
	}

	for len(rows) > 0 && blankCells(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	return rows
}

func blankCells(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
