package exporter

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"projectintel/internal/model"
)

// 导出工作簿中的工作表
const (
	SheetProjects   = "Projects"
	SheetStages     = "Stages"
	SheetDeployment = "Deployment"
)

var (
	projectHeaders = []string{
		"Project Code", "Project Name", "Status", "Status Class", "Teams",
		"Progress %", "Current Stage", "Missed Stages",
		"Allotted Hours", "Consumed Hours", "Balance Hours",
		"Monthly Burn", "Runway Months", "Runway Date",
	}
	stageHeaders = []string{
		"Project Code", "Stage", "Discipline",
		"Start", "Planned End", "Ext End", "Effective End",
		"Deliverables", "Allocated", "Consumed", "Progress %",
		"Status", "Completed", "Alert",
	}
	deploymentHeaders = []string{"Project Code", "Name", "Percent"}
)

// Exporter 派生模型导出器
type Exporter struct{}

// NewExporter 创建导出器
func NewExporter() *Exporter {
	return &Exporter{}
}

// ExportOptions 导出选项
type ExportOptions struct {
	Progress func(ProgressEvent)
}

// Export 把数据集写成工作簿：项目、阶段、人员投入三张表
func (e *Exporter) Export(ds *model.Dataset, opts ExportOptions) (*excelize.File, error) {
	if ds == nil {
		return nil, fmt.Errorf("export: no dataset")
	}
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetProjects); err != nil {
		_ = f.Close()
		return nil, err
	}
	for _, name := range []string{SheetStages, SheetDeployment} {
		if _, err := f.NewSheet(name); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	st, err := newStyles(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	writers := []struct {
		sheet string
		write func(*excelize.File, styles, *model.Dataset) error
	}{
		{SheetProjects, writeProjects},
		{SheetStages, writeStages},
		{SheetDeployment, writeDeployment},
	}
	tracker := newProgressTracker(opts.Progress, len(writers))
	for _, w := range writers {
		tracker.begin(w.sheet)
		if err := w.write(f, st, ds); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("write %s: %w", w.sheet, err)
		}
		tracker.finish(w.sheet)
	}

	f.SetActiveSheet(0)
	return f, nil
}

// WriteFile 导出并保存到 path
func (e *Exporter) WriteFile(ds *model.Dataset, path string, opts ExportOptions) error {
	f, err := e.Export(ds, opts)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

type styles struct {
	header int
	date   int
}

func newStyles(f *excelize.File) (styles, error) {
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return styles{}, err
	}
	dateFmt := "yyyy-mm-dd"
	date, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return styles{}, err
	}
	return styles{header: header, date: date}, nil
}

func writeHeader(f *excelize.File, st styles, sheet string, headers []string) error {
	row := make([]interface{}, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &row); err != nil {
		return err
	}
	if err := f.SetRowStyle(sheet, 1, 1, st.header); err != nil {
		return err
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	})
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// styleDates 给日期列设置日期格式
func styleDates(f *excelize.File, st styles, sheet string, cols []int, lastRow int) error {
	if lastRow < 2 {
		return nil
	}
	for _, col := range cols {
		from, _ := excelize.CoordinatesToCellName(col, 2)
		to, _ := excelize.CoordinatesToCellName(col, lastRow)
		if err := f.SetCellStyle(sheet, from, to, st.date); err != nil {
			return err
		}
	}
	return nil
}

func writeProjects(f *excelize.File, st styles, ds *model.Dataset) error {
	if err := writeHeader(f, st, SheetProjects, projectHeaders); err != nil {
		return err
	}
	cards := make(map[string]model.ProjectCard, len(ds.Cards))
	for _, c := range ds.Cards {
		cards[c.Code] = c
	}

	for i, p := range ds.Projects {
		card := cards[p.Code]
		values := []interface{}{
			p.Code, p.Name, p.Status, string(p.StatusClass), teamsText(p.Teams),
			num(p.ProgressPercent), card.CurrentStageLabel, strings.Join(card.MissedStageLabels, ", "),
			num(p.Hours.Allotted), num(p.Hours.Consumed), num(p.Hours.Balance),
			p.Runway.MonthlyBurnHours, num(p.Runway.RunwayMonths), date(p.Runway.RunwayDate),
		}
		if err := writeRow(f, SheetProjects, i+2, values); err != nil {
			return err
		}
	}
	if err := styleDates(f, st, SheetProjects, []int{14}, len(ds.Projects)+1); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetProjects, "A", "A", 16); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetProjects, "B", "B", 30); err != nil {
		return err
	}
	return f.SetColWidth(SheetProjects, "C", "N", 15)
}

func writeStages(f *excelize.File, st styles, ds *model.Dataset) error {
	if err := writeHeader(f, st, SheetStages, stageHeaders); err != nil {
		return err
	}
	rowNum := 2
	for _, p := range ds.Projects {
		for _, s := range p.Stages {
			if !s.HasData() {
				continue
			}
			values := []interface{}{
				p.Code, s.Code, string(s.Discipline),
				date(s.Start), date(s.PlannedEnd), date(s.ExtendedEnd), date(s.EffectiveEnd),
				num(s.Deliverables), num(s.AllocatedHours), num(s.ConsumedHours), num(s.ProgressPercent),
				s.StatusText, s.Completed, s.Alert.Text,
			}
			if err := writeRow(f, SheetStages, rowNum, values); err != nil {
				return err
			}
			rowNum++
		}
	}
	if err := styleDates(f, st, SheetStages, []int{4, 5, 6, 7}, rowNum-1); err != nil {
		return err
	}
	return f.SetColWidth(SheetStages, "A", "N", 14)
}

func writeDeployment(f *excelize.File, st styles, ds *model.Dataset) error {
	if err := writeHeader(f, st, SheetDeployment, deploymentHeaders); err != nil {
		return err
	}
	rowNum := 2
	for _, p := range ds.Projects {
		for _, d := range p.Deployment {
			if err := writeRow(f, SheetDeployment, rowNum, []interface{}{p.Code, d.Name, d.Percent}); err != nil {
				return err
			}
			rowNum++
		}
	}
	if err := f.SetColWidth(SheetDeployment, "A", "A", 16); err != nil {
		return err
	}
	return f.SetColWidth(SheetDeployment, "B", "B", 28)
}

func teamsText(teams []model.TeamSlot) string {
	parts := make([]string, 0, len(teams))
	for _, t := range teams {
		if t.Name == "" {
			parts = append(parts, string(t.Type))
			continue
		}
		parts = append(parts, string(t.Type)+": "+t.Name)
	}
	return strings.Join(parts, "; ")
}

// num 缺失值写为空单元格
func num(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func date(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
