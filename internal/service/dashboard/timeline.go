package dashboard

import (
	"time"

	"projectintel/internal/model"
	"projectintel/internal/service/calculator"
)

// WindowDays 时间轴可视窗口：52 周
const WindowDays = 52 * 7

// NoStageData 项目没有任何阶段数据时的提示
const NoStageData = "No stage data."

// Window 时间轴可视窗口
type Window struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Offset    int       `json:"offset"`
	MaxOffset int       `json:"maxOffset"`
}

// MonthSegment 月份刻度
type MonthSegment struct {
	Label   string `json:"label"`
	Quarter string `json:"quarter"`
	Days    int    `json:"days"`
}

// QuarterSegment 财季刻度（相邻同季度月份合并）
type QuarterSegment struct {
	Quarter string `json:"quarter"`
	Days    int    `json:"days"`
}

// Timeline 项目时间轴视图
type Timeline struct {
	Title          string           `json:"title"`
	ProjectPercent *float64         `json:"projectPercent"`
	Stages         []model.Stage    `json:"stages"`
	RunwayDate     *time.Time       `json:"runwayDate"`
	Today          time.Time        `json:"today"`
	Message        string           `json:"message,omitempty"`
	RangeStart     *time.Time       `json:"rangeStart"`
	RangeEnd       *time.Time       `json:"rangeEnd"`
	Window         *Window          `json:"window"`
	Months         []MonthSegment   `json:"months"`
	Quarters       []QuarterSegment `json:"quarters"`
}

// BuildTimeline 生成时间轴；runwayDate 为空时使用项目自身的跑道日期
func BuildTimeline(p *model.Project, runwayDate *time.Time, today time.Time, offset int) Timeline {
	if runwayDate == nil {
		runwayDate = p.Runway.RunwayDate
	}
	tl := Timeline{
		Title:          p.Title(),
		ProjectPercent: p.ProgressPercent,
		RunwayDate:     runwayDate,
		Today:          today,
		Months:         []MonthSegment{},
		Quarters:       []QuarterSegment{},
	}
	for _, st := range p.Stages {
		if st.HasData() {
			tl.Stages = append(tl.Stages, st)
		}
	}
	if len(tl.Stages) == 0 {
		tl.Stages = []model.Stage{}
		tl.Message = NoStageData
		return tl
	}

	lo, hi := DateRange(tl.Stages, runwayDate, today)
	tl.RangeStart, tl.RangeEnd = &lo, &hi

	span := max(0, calculator.DaysBetween(lo, hi))
	maxOffset := max(0, span-WindowDays)
	offset = min(max(offset, 0), maxOffset)
	start := lo.AddDate(0, 0, offset)
	tl.Window = &Window{
		Start:     start,
		End:       start.AddDate(0, 0, WindowDays),
		Offset:    offset,
		MaxOffset: maxOffset,
	}
	tl.Months = MonthSegments(tl.Window.Start, tl.Window.End)
	tl.Quarters = QuarterSegments(tl.Months)
	return tl
}

// DateRange 今天、跑道日期与所有阶段日期中的最早与最晚
func DateRange(stages []model.Stage, runwayDate *time.Time, today time.Time) (time.Time, time.Time) {
	lo, hi := today, today
	see := func(t *time.Time) {
		if t == nil {
			return
		}
		if t.Before(lo) {
			lo = *t
		}
		if t.After(hi) {
			hi = *t
		}
	}
	see(runwayDate)
	for i := range stages {
		see(stages[i].Start)
		see(stages[i].PlannedEnd)
		see(stages[i].ExtendedEnd)
	}
	return lo, hi
}

// FiscalQuarter 财年从 4 月开始：Q1=4–6 月 … Q4=1–3 月
func FiscalQuarter(m time.Month) string {
	switch {
	case m >= time.April && m <= time.June:
		return "Q1"
	case m >= time.July && m <= time.September:
		return "Q2"
	case m >= time.October && m <= time.December:
		return "Q3"
	default:
		return "Q4"
	}
}

// MonthSegments 把 [start, end) 切成自然月，首尾月份按窗口截断，每段至少 1 天
func MonthSegments(start, end time.Time) []MonthSegment {
	segs := []MonthSegment{}
	cur := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location())
	for cur.Before(end) {
		next := cur.AddDate(0, 1, 0)
		from, to := cur, next
		if from.Before(start) {
			from = start
		}
		if to.After(end) {
			to = end
		}
		segs = append(segs, MonthSegment{
			Label:   cur.Format("Jan 2006"),
			Quarter: FiscalQuarter(cur.Month()),
			Days:    max(1, calculator.DaysBetween(from, to)),
		})
		cur = next
	}
	return segs
}

// QuarterSegments 合并相邻同季度的月份
func QuarterSegments(months []MonthSegment) []QuarterSegment {
	out := []QuarterSegment{}
	for _, m := range months {
		if n := len(out); n > 0 && out[n-1].Quarter == m.Quarter {
			out[n-1].Days += m.Days
			continue
		}
		out = append(out, QuarterSegment{Quarter: m.Quarter, Days: m.Days})
	}
	return out
}
