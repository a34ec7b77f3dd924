package calculator

import (
	"fmt"
	"math"
	"strings"
	"time"

	"projectintel/internal/model"
	"projectintel/internal/parser"
)

// stageAcc 单个阶段跨行合并的中间结果
type stageAcc struct {
	start, end, ext *time.Time

	deliverables, allocated, consumed, progress *float64

	statusText string
}

// BuildStages 合并项目所有行，得到固定顺序的阶段列表
func BuildStages(b *parser.Binding, rows []parser.Row, today time.Time, dueSoonDays int) []model.Stage {
	out := make([]model.Stage, 0, len(model.StageCodes))
	for _, code := range model.StageCodes {
		acc := &stageAcc{}
		for _, r := range rows {
			acc.addRow(b, r, code)
		}
		out = append(out, acc.finish(code, today, dueSoonDays))
	}
	return out
}

func (a *stageAcc) addRow(b *parser.Binding, r parser.Row, code string) {
	start := minDate(b.StageValues(r, code, parser.StageStart))
	end := maxDate(b.StageValues(r, code, parser.StagePlannedEnd))
	ext := maxDate(b.StageValues(r, code, parser.StageExtEnd))

	// 只有计划结束或只有延期结束时互相补齐；没有开始日期时开始 = 结束
	if end == nil && ext != nil {
		end = ext
	}
	if ext == nil && end != nil {
		ext = end
	}
	if start == nil && end != nil {
		start = end
	}

	a.start = earlier(a.start, start)
	a.end = later(a.end, end)
	a.ext = later(a.ext, ext)

	a.deliverables = maxOf(a.deliverables, numbers(b.StageValues(r, code, parser.StageDeliverables), parser.ToNumber))
	a.allocated = maxOf(a.allocated, numbers(b.StageValues(r, code, parser.StageAllocated), parser.ToNumber))
	a.consumed = maxOf(a.consumed, numbers(b.StageValues(r, code, parser.StageConsumed), parser.ToNumber))

	progressCells := b.StageValues(r, code, parser.StageProgress)
	a.progress = maxOf(a.progress, numbers(progressCells, parser.ToPercent))

	if a.statusText == "" {
		a.statusText = statusTextFrom(b.StageValues(r, code, parser.StageStatus), progressCells)
	}
}

func (a *stageAcc) finish(code string, today time.Time, dueSoonDays int) model.Stage {
	st := model.Stage{
		Code:           code,
		Discipline:     model.DisciplineForStage(code),
		Start:          a.start,
		PlannedEnd:     a.end,
		ExtendedEnd:    a.ext,
		EffectiveEnd:   EffectiveEnd(a.end, a.ext),
		Deliverables:   a.deliverables,
		AllocatedHours: a.allocated,
		ConsumedHours:  a.consumed,
	}
	if a.progress != nil {
		pp := clamp(*a.progress, 0, 100)
		st.ProgressPercent = &pp
	}

	st.Completed = IsStatusComplete(a.statusText) ||
		(st.ProgressPercent != nil && *st.ProgressPercent >= 100)
	if st.Completed && st.ProgressPercent == nil {
		full := 100.0
		st.ProgressPercent = &full
	}
	st.StatusText = StageStatusText(a.statusText, st.ProgressPercent)
	st.Alert = StageAlert(st, today, dueSoonDays)
	return st
}

// EffectiveEnd 延期结束晚于计划结束时取延期结束，否则取计划结束
func EffectiveEnd(planned, extended *time.Time) *time.Time {
	switch {
	case planned == nil:
		return extended
	case extended != nil && extended.After(*planned):
		return extended
	default:
		return planned
	}
}

// StageAlert 阶段预警：完成 / 逾期 / 即将到期 / 无
func StageAlert(st model.Stage, today time.Time, dueSoonDays int) model.StageAlert {
	if st.Completed {
		return model.StageAlert{Kind: model.AlertOK, Text: "Complete"}
	}
	end := st.EffectiveEnd
	if end == nil {
		return model.StageAlert{Kind: model.AlertNone}
	}
	if today.After(*end) {
		overdue := DaysBetween(*end, today)
		if overdue < 1 {
			overdue = 1
		}
		return model.StageAlert{Kind: model.AlertBad, Text: fmt.Sprintf("Overdue +%dd", overdue)}
	}

	left := DaysBetween(today, *end)
	if left > dueSoonDays {
		return model.StageAlert{Kind: model.AlertNone}
	}
	if st.Start != nil && today.Before(*st.Start) {
		return model.StageAlert{Kind: model.AlertWarn, Text: fmt.Sprintf("In %dd", DaysBetween(today, *st.Start))}
	}
	spent := 0
	if st.Start != nil {
		spent = max(0, DaysBetween(*st.Start, today))
	}
	return model.StageAlert{Kind: model.AlertWarn, Text: fmt.Sprintf("Spent %dd • Left %dd", spent, max(0, left))}
}

// IsStatusComplete 状态文本是否表示已完成
func IsStatusComplete(text string) bool {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return false
	}
	return parser.ContainsAny(s, "complete", "closed", "approved", "100%") ||
		s == "done" || s == "finish"
}

// StageStatusText 阶段状态文本：原始文本优先，否则按进度推导
func StageStatusText(raw string, progress *float64) string {
	if s := strings.TrimSpace(raw); s != "" && !parser.IsNoData(s) {
		return s
	}
	switch {
	case progress == nil:
		return "/"
	case *progress >= 100:
		return "Complete"
	case *progress > 0:
		return "In progress"
	default:
		return "Not started"
	}
}

// statusTextFrom 状态列的文本；进度列中无法解析为百分比的文本也视为状态
func statusTextFrom(status, progress []any) string {
	for _, v := range status {
		if !parser.IsNoData(v) {
			return parser.CellText(v)
		}
	}
	for _, v := range progress {
		if parser.IsNoData(v) {
			continue
		}
		if _, ok := parser.ToPercent(v); !ok {
			return parser.CellText(v)
		}
	}
	return ""
}

func minDate(cells []any) *time.Time {
	var out *time.Time
	for _, c := range cells {
		if d, ok := parser.ToDate(c); ok {
			out = earlier(out, &d)
		}
	}
	return out
}

func maxDate(cells []any) *time.Time {
	var out *time.Time
	for _, c := range cells {
		if d, ok := parser.ToDate(c); ok {
			out = later(out, &d)
		}
	}
	return out
}

func earlier(a, b *time.Time) *time.Time {
	if a == nil {
		return b
	}
	if b != nil && b.Before(*a) {
		return b
	}
	return a
}

func later(a, b *time.Time) *time.Time {
	if a == nil {
		return b
	}
	if b != nil && b.After(*a) {
		return b
	}
	return a
}

func numbers(cells []any, parse func(any) (float64, bool)) *float64 {
	var out *float64
	for _, c := range cells {
		if n, ok := parse(c); ok {
			v := n
			out = maxOf(out, &v)
		}
	}
	return out
}

func maxOf(a, b *float64) *float64 {
	if a == nil {
		return b
	}
	if b != nil && *b > *a {
		return b
	}
	return a
}

func clamp(n, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, n))
}
