package importer

import (
	"fmt"
	"strings"

	"projectintel/internal/parser"
)

// MatrixToTable 首行作为表头（空表头命名为 "Column N"），跳过全空行，短行补空串
func MatrixToTable(matrix [][]any) *parser.Table {
	t := &parser.Table{}
	if len(matrix) == 0 {
		return t
	}

	head := matrix[0]
	t.Headers = make([]string, len(head))
	for i, h := range head {
		name := strings.TrimSpace(strings.TrimPrefix(parser.CellText(h), "\ufeff"))
		if name == "" {
			name = fmt.Sprintf("Column %d", i+1)
		}
		t.Headers[i] = name
	}

	for _, cells := range matrix[1:] {
		if blankRow(cells) {
			continue
		}
		row := make(parser.Row, len(t.Headers))
		for i := range row {
			if i < len(cells) && cells[i] != nil {
				row[i] = cells[i]
			} else {
				row[i] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// StringMatrix 把字符串矩阵转成通用矩阵
func StringMatrix(rows [][]string) [][]any {
	out := make([][]any, len(rows))
	for i, r := range rows {
		cells := make([]any, len(r))
		for j, c := range r {
			cells[j] = c
		}
		out[i] = cells
	}
	return out
}

func blankRow(cells []any) bool {
	for _, c := range cells {
		if s, ok := c.(string); ok {
			if strings.TrimSpace(s) != "" {
				return false
			}
			continue
		}
		if c != nil {
			return false
		}
	}
	return true
}
