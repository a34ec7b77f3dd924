package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"projectintel/internal/model"
	"projectintel/internal/service/dashboard"
	"projectintel/internal/util"
)

// 时间轴每次平移的天数
const panStep = 28

// 模拟时每次调整的投入百分比
const simStep = 10.0

var teamTypeCycle = append([]model.Discipline{""}, model.Disciplines...)

var statusCycle = []dashboard.StatusFilter{dashboard.StatusAll, dashboard.StatusActive, dashboard.StatusOnHold}

// DatasetMsg 数据集被重新加载
type DatasetMsg struct {
	Dataset *model.Dataset
	Status  string
}

// Model 终端仪表盘
type Model struct {
	ds      *model.Dataset
	status  string
	now     func() time.Time
	styles  Styles
	state   dashboard.State
	landing dashboard.Landing

	table     table.Model
	filter    textinput.Model
	filtering bool

	person    int
	overrides map[string]float64

	width int
}

// New 创建终端仪表盘；ds 可以为空
func New(ds *model.Dataset, status string, now func() time.Time) Model {
	if now == nil {
		now = time.Now
	}
	ti := textinput.New()
	ti.Placeholder = "search code, name, status, stage"
	ti.Prompt = "/ "
	ti.CharLimit = 64

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Code", Width: 10},
			{Title: "Project", Width: 28},
			{Title: "Status", Width: 12},
			{Title: "Progress", Width: 9},
			{Title: "Current", Width: 8},
			{Title: "Missed", Width: 18},
		}),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	m := Model{
		ds:     ds,
		status: status,
		now:    now,
		styles: DefaultStyles(),
		state:  dashboard.NewState(),
		table:  t,
		filter: ti,
		width:  100,
	}
	m.refresh()
	return m
}

// State 当前仪表盘状态
func (m Model) State() dashboard.State {
	return m.state
}

// Landing 当前首页数据
func (m Model) Landing() dashboard.Landing {
	return m.landing
}

// Init 实现 tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update 实现 tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.table.SetHeight(max(5, msg.Height-10))
		return m, nil

	case DatasetMsg:
		m.ds = msg.Dataset
		m.status = msg.Status
		if m.state.ActiveProject != "" && m.project() == nil {
			m.dispatch(dashboard.Event{Kind: dashboard.EventCloseProject})
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.filtering {
			return m.updateFilter(msg)
		}
		if m.state.ActiveProject != "" {
			return m.updateDetail(msg)
		}
		return m.updateLanding(msg)
	}
	return m, nil
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.filtering = false
		m.filter.Blur()
		return m, nil
	case "esc":
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.dispatch(dashboard.Event{Kind: dashboard.EventSetQuery})
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.dispatch(dashboard.Event{Kind: dashboard.EventSetQuery, Value: m.filter.Value()})
	m.refresh()
	return m, cmd
}

func (m Model) updateLanding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		m.filtering = true
		return m, m.filter.Focus()
	case "s":
		next := statusCycle[(indexOf(statusCycle, m.state.Filter.Status)+1)%len(statusCycle)]
		m.dispatch(dashboard.Event{Kind: dashboard.EventSetStatus, Value: string(next)})
	case "t":
		next := teamTypeCycle[(indexOf(teamTypeCycle, m.state.Filter.TeamType)+1)%len(teamTypeCycle)]
		m.dispatch(dashboard.Event{Kind: dashboard.EventSetTeamType, Value: string(next)})
	case "n":
		if m.state.Filter.TeamType == "" {
			return m, nil
		}
		names := append([]string{""}, m.landing.TeamNames...)
		next := names[(indexOf(names, m.state.Filter.TeamName)+1)%len(names)]
		m.dispatch(dashboard.Event{Kind: dashboard.EventSetTeamName, Value: next})
	case "r":
		m.filter.SetValue("")
		m.dispatch(dashboard.Event{Kind: dashboard.EventResetFilters})
	case "enter":
		row := m.table.SelectedRow()
		if len(row) == 0 {
			return m, nil
		}
		m.dispatch(dashboard.Event{Kind: dashboard.EventSelectProject, Value: row[0]})
		m.person = 0
		m.overrides = nil
		return m, nil
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	m.refresh()
	return m, nil
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.project()
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "backspace":
		m.dispatch(dashboard.Event{Kind: dashboard.EventCloseProject})
		m.overrides = nil
	case "left", "h":
		m.dispatch(dashboard.Event{Kind: dashboard.EventPanTimeline, Days: -panStep})
	case "right", "l":
		m.dispatch(dashboard.Event{Kind: dashboard.EventPanTimeline, Days: panStep})
		if p != nil {
			// 越过最右侧时回拉到可达的最大偏移
			tl := dashboard.BuildTimeline(p, nil, m.today(), m.state.TimelineOffset)
			if tl.Window != nil && m.state.TimelineOffset > tl.Window.MaxOffset {
				m.dispatch(dashboard.Event{Kind: dashboard.EventPanTimeline, Days: tl.Window.MaxOffset - m.state.TimelineOffset})
			}
		}
	case "up", "k":
		m.person = max(0, m.person-1)
	case "down", "j":
		if p != nil {
			m.person = min(m.person+1, max(0, len(m.metrics(p).People)-1))
		}
	case "+", "=":
		m.adjust(p, simStep)
	case "-":
		m.adjust(p, -simStep)
	case "0":
		m.overrides = nil
	}
	return m, nil
}

func (m *Model) adjust(p *model.Project, delta float64) {
	if p == nil {
		return
	}
	people := m.metrics(p).People
	if m.person >= len(people) {
		return
	}
	entry := people[m.person]
	if m.overrides == nil {
		m.overrides = make(map[string]float64)
	}
	m.overrides[entry.Name] = max(0, entry.Percent+delta)
}

func (m *Model) dispatch(e dashboard.Event) {
	m.state = dashboard.Reduce(m.state, e)
}

func (m *Model) refresh() {
	m.landing = dashboard.BuildLanding(m.ds, m.state.Filter)
	rows := make([]table.Row, 0, len(m.landing.Projects))
	for _, c := range m.landing.Projects {
		missed := ""
		if c.MissedCount > 0 {
			missed = strings.Join(c.MissedStageLabels, ",")
		}
		rows = append(rows, table.Row{
			c.Code, c.Name, c.Status, util.FormatPercent(c.ProgressPercent), c.CurrentStageLabel, missed,
		})
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(0, len(rows)-1))
	}
}

func (m Model) project() *model.Project {
	if m.ds == nil || m.state.ActiveProject == "" {
		return nil
	}
	p, ok := m.ds.Project(m.state.ActiveProject)
	if !ok {
		return nil
	}
	return p
}

func (m Model) metrics(p *model.Project) dashboard.Metrics {
	if len(m.overrides) > 0 {
		return dashboard.SimulateMetrics(p, m.overrides, m.now())
	}
	return dashboard.BuildMetrics(p)
}

func (m Model) today() time.Time {
	now := m.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// View 实现 tea.Model
func (m Model) View() string {
	if p := m.project(); p != nil {
		return m.detailView(p)
	}
	return m.landingView()
}

func (m Model) landingView() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Header.Render("Project Intelligence"))
	sb.WriteString("\n")
	if m.status != "" {
		sb.WriteString(m.styles.Muted.Render(m.status))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	if m.ds == nil {
		sb.WriteString(m.styles.Muted.Render("No data loaded."))
		sb.WriteString("\n")
		return sb.String()
	}

	f := m.state.Filter
	team := "All"
	if f.TeamType != "" {
		team = string(f.TeamType)
	}
	name := "-"
	if f.TeamName != "" {
		name = f.TeamName
	}
	fmt.Fprintf(&sb, "%s %s  %s %s  %s %s  %s\n",
		m.styles.Bold.Render("Team:"), team,
		m.styles.Bold.Render("Name:"), name,
		m.styles.Bold.Render("Status:"), f.Status,
		m.styles.Badge.Render(fmt.Sprintf("%d/%d", len(m.landing.Projects), m.landing.Total)))
	if m.filtering || f.Query != "" {
		sb.WriteString(m.filter.View())
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	if len(m.landing.Projects) == 0 {
		sb.WriteString(m.styles.Muted.Render("No projects match the current filters."))
		sb.WriteString("\n")
	} else {
		sb.WriteString(m.table.View())
		sb.WriteString("\n")
	}
	sb.WriteString(m.styles.Footer.Render("enter open · / search · s status · t team · n name · r reset · q quit"))
	return sb.String()
}

func (m Model) detailView(p *model.Project) string {
	met := m.metrics(p)
	tl := dashboard.BuildTimeline(p, met.Runway.RunwayDate, m.today(), m.state.TimelineOffset)

	var sb strings.Builder
	sb.WriteString(m.styles.Header.Render(tl.Title))
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "%s %s   %s %s until %s\n\n",
		m.styles.Bold.Render("Progress:"), util.FormatPercent(tl.ProjectPercent),
		m.styles.Bold.Render("Runway:"), util.FormatMonths(met.Runway.RunwayMonths), util.FormatDate(met.Runway.RunwayDate))

	if tl.Message != "" {
		sb.WriteString(m.styles.Muted.Render(tl.Message))
		sb.WriteString("\n\n")
	} else {
		if tl.Window != nil {
			fmt.Fprintf(&sb, "%s %s to %s (offset %d/%d)\n",
				m.styles.Title.Render("Timeline"),
				util.FormatDate(&tl.Window.Start), util.FormatDate(&tl.Window.End),
				tl.Window.Offset, tl.Window.MaxOffset)
			labels := make([]string, 0, len(tl.Months))
			for _, seg := range tl.Months {
				labels = append(labels, seg.Label)
			}
			sb.WriteString(m.styles.Muted.Render(strings.Join(labels, " | ")))
			sb.WriteString("\n\n")
		}
		st := NewSimpleTable("", []string{"Stage", "Discipline", "Start", "End", "Progress", "Status", "Alert"})
		for _, s := range tl.Stages {
			st.AddRow(s.Code, string(s.Discipline), util.FormatDate(s.Start), util.FormatDate(s.EffectiveEnd),
				util.FormatPercent(s.ProgressPercent), s.StatusText, m.styles.Alert(s.Alert))
		}
		sb.WriteString(st.View(m.styles))
		sb.WriteString("\n")
	}

	sb.WriteString(m.styles.Title.Render("Resources"))
	if met.Simulated {
		sb.WriteString(" " + m.styles.Warn.Render("(simulated)"))
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Allotted %s · Consumed %s · Balance %s\n",
		util.FormatHours(met.Hours.Allotted), util.FormatHours(met.Hours.Consumed), util.FormatHours(met.Hours.Balance))
	people := met.People
	for i, e := range people {
		cursor := "  "
		if i == m.person {
			cursor = "> "
		}
		pct := e.Percent
		fmt.Fprintf(&sb, "%s%-24s %s\n", cursor, e.Name, util.FormatPercent(&pct))
	}
	if len(people) == 0 {
		sb.WriteString(m.styles.Muted.Render("No deployment recorded."))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(m.styles.Footer.Render("←/→ pan · ↑/↓ person · +/- allocation · 0 reset · esc back · q quit"))
	return sb.String()
}

func indexOf[T comparable](items []T, v T) int {
	for i, it := range items {
		if it == v {
			return i
		}
	}
	return 0
}
