package excel

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrNoSheets 工作簿中没有工作表
var ErrNoSheets = errors.New("no sheets found")

// Parser Excel 解析器（只负责把工作表转成单元格矩阵）
type Parser struct {
	file *excelize.File
}

// NewParser 创建解析器
func NewParser() *Parser {
	return &Parser{}
}

// LoadFile 加载 Excel 文件
func (p *Parser) LoadFile(reader io.Reader) error {
	file, err := excelize.OpenReader(reader)
	if err != nil {
		return fmt.Errorf("failed to open excel: %w", err)
	}
	p.file = file
	return nil
}

// FirstSheet 第一个工作表名称
func (p *Parser) FirstSheet() (string, error) {
	if p.file == nil {
		return "", errors.New("no file loaded")
	}
	list := p.file.GetSheetList()
	if len(list) == 0 {
		return "", ErrNoSheets
	}
	return list[0], nil
}

// ReadMatrix 读取工作表的原始值矩阵
// 字符串单元格保留文本；数字与日期单元格转为 float64（日期为 Excel 序列号）
func (p *Parser) ReadMatrix(sheet string) ([][]any, error) {
	if p.file == nil {
		return nil, errors.New("no file loaded")
	}

	rows, err := p.file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}

	matrix := make([][]any, len(rows))
	for r, row := range rows {
		cells := make([]any, len(row))
		for c, raw := range row {
			cells[c] = p.typedCell(sheet, c, r, raw)
		}
		matrix[r] = cells
	}
	return matrix, nil
}

func (p *Parser) typedCell(sheet string, col, row int, raw string) any {
	if strings.TrimSpace(raw) == "" {
		return raw
	}
	axis, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return raw
	}
	typ, err := p.file.GetCellType(sheet, axis)
	if err != nil {
		return raw
	}
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeBool, excelize.CellTypeError:
		return raw
	}
	if f, ok := parseOptionalFloat(raw); ok {
		return f
	}
	return raw
}

// Close 关闭工作簿
func (p *Parser) Close() error {
	if p.file == nil {
		return nil
	}
	err := p.file.Close()
	p.file = nil
	return err
}

func parseOptionalFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
