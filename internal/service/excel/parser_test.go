package excel_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"projectintel/internal/service/excel"
)

func buildWorkbook(t *testing.T, sheet string, rows [][]interface{}) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			t.Fatalf("rename sheet: %v", err)
		}
	}
	for i, row := range rows {
		axis, _ := excelize.CoordinatesToCellName(1, i+1)
		r := row
		if err := f.SetSheetRow(sheet, axis, &r); err != nil {
			t.Fatalf("SetSheetRow failed: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf
}

func TestParser_ReadMatrixKeepsNumbersAndDates(t *testing.T) {
	t.Parallel()

	buf := buildWorkbook(t, "Projects", [][]interface{}{
		{"PC", "AH", "CD1 Start date", "Note"},
		{"P-1", 1200, time.Date(2021, time.March, 1, 0, 0, 0, 0, time.UTC), "12"},
	})

	p := excel.NewParser()
	if err := p.LoadFile(buf); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	t.Cleanup(func() { _ = p.Close() })

	sheet, err := p.FirstSheet()
	if err != nil || sheet != "Projects" {
		t.Fatalf("FirstSheet=%q err=%v", sheet, err)
	}

	m, err := p.ReadMatrix(sheet)
	if err != nil {
		t.Fatalf("ReadMatrix: %v", err)
	}
	if len(m) != 2 {
		t.Fatalf("rows=%d", len(m))
	}
	if got, ok := m[1][0].(string); !ok || got != "P-1" {
		t.Fatalf("code cell=%#v", m[1][0])
	}
	if got, ok := m[1][1].(float64); !ok || got != 1200 {
		t.Fatalf("hours cell=%#v", m[1][1])
	}
	if got, ok := m[1][2].(float64); !ok || got != 44256 {
		t.Fatalf("date cell=%#v", m[1][2])
	}
	if got, ok := m[1][3].(string); !ok || got != "12" {
		t.Fatalf("text cell=%#v", m[1][3])
	}
}

func TestParser_NotLoaded(t *testing.T) {
	t.Parallel()

	p := excel.NewParser()
	if _, err := p.FirstSheet(); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := p.ReadMatrix("x"); err == nil {
		t.Fatalf("expected error")
	}
	if err := p.LoadFile(bytes.NewBufferString("not a workbook")); err == nil {
		t.Fatalf("expected open error")
	}
}
