package dashboard

import (
	"strings"

	"projectintel/internal/model"
)

// UnspecifiedTeam 团队名筛选中代表“未填写团队名”的选项
const UnspecifiedTeam = "(Unspecified)"

// StatusFilter 项目状态筛选
type StatusFilter string

const (
	StatusAll    StatusFilter = "all"
	StatusActive StatusFilter = "active"
	StatusOnHold StatusFilter = "onhold"
)

// Filter 首页筛选条件；零值表示不过滤
type Filter struct {
	TeamType model.Discipline `json:"teamType"`
	Status   StatusFilter     `json:"status"`
	Query    string           `json:"query"`
	TeamName string           `json:"teamName"`
}

// State 仪表盘状态；每次事件都返回新的值，不在原值上修改
type State struct {
	Filter        Filter `json:"filter"`
	ActiveProject string `json:"activeProject"`
	// TimelineOffset 时间轴窗口相对最早日期的平移天数
	TimelineOffset int `json:"timelineOffset"`
}

// EventKind 状态事件类型
type EventKind string

const (
	EventSetTeamType   EventKind = "setTeamType"
	EventSetStatus     EventKind = "setStatus"
	EventSetQuery      EventKind = "setQuery"
	EventSetTeamName   EventKind = "setTeamName"
	EventSelectProject EventKind = "selectProject"
	EventCloseProject  EventKind = "closeProject"
	EventPanTimeline   EventKind = "panTimeline"
	EventResetFilters  EventKind = "resetFilters"
)

// Event 状态事件
type Event struct {
	Kind  EventKind `json:"kind"`
	Value string    `json:"value"`
	Days  int       `json:"days"`
}

// NewState 初始状态
func NewState() State {
	return State{Filter: Filter{Status: StatusAll}}
}

// Reduce (state, event) -> state'
func Reduce(s State, e Event) State {
	switch e.Kind {
	case EventSetTeamType:
		s.Filter.TeamType = parseTeamType(e.Value)
		s.Filter.TeamName = ""
	case EventSetStatus:
		s.Filter.Status = parseStatus(e.Value)
	case EventSetQuery:
		s.Filter.Query = strings.TrimSpace(e.Value)
	case EventSetTeamName:
		s.Filter.TeamName = strings.TrimSpace(e.Value)
	case EventSelectProject:
		code := strings.TrimSpace(e.Value)
		if code != s.ActiveProject {
			s.TimelineOffset = 0
		}
		s.ActiveProject = code
	case EventCloseProject:
		s.ActiveProject = ""
		s.TimelineOffset = 0
	case EventPanTimeline:
		s.TimelineOffset = max(0, s.TimelineOffset+e.Days)
	case EventResetFilters:
		s.Filter = Filter{Status: StatusAll}
	}
	return s
}

func parseTeamType(v string) model.Discipline {
	for _, d := range model.Disciplines {
		if strings.EqualFold(strings.TrimSpace(v), string(d)) {
			return d
		}
	}
	return ""
}

func parseStatus(v string) StatusFilter {
	switch StatusFilter(strings.ToLower(strings.TrimSpace(v))) {
	case StatusActive:
		return StatusActive
	case StatusOnHold:
		return StatusOnHold
	default:
		return StatusAll
	}
}
