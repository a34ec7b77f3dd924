package model

import "time"

// StatusClass 项目状态分类
type StatusClass string

const (
	StatusActive  StatusClass = "active"
	StatusOnHold  StatusClass = "onhold"
	StatusOther   StatusClass = "other"
	StatusUnknown StatusClass = "unknown"
)

// Stage 单个项目在某一阶段的合并结果
type Stage struct {
	Code         string     `json:"code"`
	Discipline   Discipline `json:"discipline"`
	Start        *time.Time `json:"start"`
	PlannedEnd   *time.Time `json:"plannedEnd"`
	ExtendedEnd  *time.Time `json:"extendedEnd"`
	EffectiveEnd *time.Time `json:"effectiveEnd"`

	Deliverables    *float64 `json:"deliverables"`
	AllocatedHours  *float64 `json:"allocatedHours"`
	ConsumedHours   *float64 `json:"consumedHours"`
	ProgressPercent *float64 `json:"progressPercent"`

	StatusText string     `json:"status"`
	Completed  bool       `json:"completed"`
	Alert      StageAlert `json:"alert"`
}

// HasData 阶段是否有任何来自表格的数据
func (s *Stage) HasData() bool {
	return s.Start != nil || s.PlannedEnd != nil || s.ExtendedEnd != nil ||
		s.Deliverables != nil || s.AllocatedHours != nil || s.ConsumedHours != nil ||
		s.ProgressPercent != nil || (s.StatusText != "" && s.StatusText != "/")
}

// Hours 工时三元组：AH / TCH / BH
type Hours struct {
	Allotted *float64 `json:"allotted"`
	Consumed *float64 `json:"consumed"`
	Balance  *float64 `json:"balance"`
}

// DeploymentEntry 人员投入（绝对百分比，不做归一化）
type DeploymentEntry struct {
	Name    string  `json:"name"`
	Percent float64 `json:"percent"`
}

// TeamSlot 项目在某个专业下的团队
type TeamSlot struct {
	Type Discipline `json:"type"`
	Name string     `json:"name"`
}

// RunwayResult 人力跑道推演结果
type RunwayResult struct {
	FactorDecimal    float64    `json:"factorDecimal"`
	MonthlyBurnHours float64    `json:"monthlyBurnHours"`
	RunwayMonths     *float64   `json:"runwayMonths"`
	RunwayDate       *time.Time `json:"runwayDate"`
}

// Project 以项目编码聚合后的项目模型（只读）
type Project struct {
	Code            string            `json:"code"`
	Name            string            `json:"name"`
	Status          string            `json:"status"`
	StatusClass     StatusClass       `json:"statusClass"`
	Teams           []TeamSlot        `json:"teams"`
	Hours           Hours             `json:"hours"`
	ProgressPercent *float64          `json:"progressPercent"`
	Stages          []Stage           `json:"stages"`
	Deployment      []DeploymentEntry `json:"deployment"`
	Runway          RunwayResult      `json:"runway"`
	RowCount        int               `json:"rowCount"`
}

// Title 时间轴标题："PC — Name"
func (p *Project) Title() string {
	if p.Name == "" {
		return p.Code
	}
	return p.Code + " — " + p.Name
}

// ProjectCard 首页项目卡片
type ProjectCard struct {
	Code              string      `json:"code"`
	Name              string      `json:"name"`
	Status            string      `json:"status"`
	StatusClass       StatusClass `json:"statusClass"`
	Teams             []TeamSlot  `json:"teams"`
	ProgressPercent   *float64    `json:"progressPercent"`
	CurrentStageLabel string      `json:"currentStageLabel"`
	MissedStageLabels []string    `json:"missedStageLabels"`
	MissedCount       int         `json:"missedCount"`
}
