package calculator

import (
	"math"
	"time"

	"projectintel/internal/model"
	"projectintel/internal/parser"
)

// DefaultDueSoonDays 即将到期的提前量（天）
const DefaultDueSoonDays = 14

// Engine 项目模型计算引擎（纯函数：同样的输入与时钟得到同样的输出）
type Engine struct {
	mapper      *parser.FieldMapper
	dueSoonDays int
	now         func() time.Time
}

// Option 引擎选项
type Option func(*Engine)

// WithSchema 使用自定义同义词表
func WithSchema(s *parser.Schema) Option {
	return func(e *Engine) {
		e.mapper = parser.NewFieldMapper(s)
	}
}

// WithDueSoonDays 设置即将到期提前量
func WithDueSoonDays(days int) Option {
	return func(e *Engine) {
		if days >= 0 {
			e.dueSoonDays = days
		}
	}
}

// WithClock 设置时钟（测试使用）
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine 创建计算引擎
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		mapper:      parser.NewFieldMapper(nil),
		dueSoonDays: DefaultDueSoonDays,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Now 当前时刻
func (e *Engine) Now() time.Time {
	return e.now()
}

// Today 当天零点（UTC）
func (e *Engine) Today() time.Time {
	return truncateDay(e.now())
}

// DueSoonDays 即将到期提前量
func (e *Engine) DueSoonDays() int {
	return e.dueSoonDays
}

// Mapper 字段映射器
func (e *Engine) Mapper() *parser.FieldMapper {
	return e.mapper
}

// group 同一项目编码的行
type group struct {
	code string
	rows []parser.Row
}

// Build 把表格聚合成项目列表（按首次出现顺序）
func (e *Engine) Build(t *parser.Table) []*model.Project {
	if t == nil || len(t.Headers) == 0 {
		return []*model.Project{}
	}
	b := e.mapper.Map(t.Headers)
	now := e.now()
	today := truncateDay(now)

	groups := groupRows(b, t.Rows)
	projects := make([]*model.Project, 0, len(groups))
	for _, g := range groups {
		projects = append(projects, e.buildProject(b, g, now, today))
	}
	return projects
}

// BuildDataset 构建完整数据集（项目 + 首页卡片）
func (e *Engine) BuildDataset(info model.DatasetInfo, t *parser.Table) *model.Dataset {
	projects := e.Build(t)
	today := e.Today()

	cards := make([]model.ProjectCard, 0, len(projects))
	for _, p := range projects {
		cards = append(cards, ComputeCard(p, today))
	}
	SortCards(cards)

	if t != nil {
		info.RowCount = len(t.Rows)
	}
	ds := &model.Dataset{
		Info:     info,
		Projects: projects,
		Cards:    cards,
	}
	if t != nil {
		ds.Headers = append([]string(nil), t.Headers...)
	}
	return ds
}

func (e *Engine) buildProject(b *parser.Binding, g group, now, today time.Time) *model.Project {
	status := firstText(b, g.rows, parser.FieldStatus)
	p := &model.Project{
		Code:        g.code,
		Name:        firstText(b, g.rows, parser.FieldName),
		Status:      status,
		StatusClass: ClassifyStatus(status),
		Teams:       ResolveTeams(b, g.rows),
		Hours:       ComputeHours(b, g.rows),
		Stages:      BuildStages(b, g.rows, today, e.dueSoonDays),
		Deployment:  ComputeDeployment(b, g.rows),
		RowCount:    len(g.rows),
	}
	if pp, ok := ComputeProgress(b, g.rows); ok {
		p.ProgressPercent = &pp
	}
	p.Runway = ComputeRunway(p.Deployment, p.Hours.Balance, now)
	return p
}

// groupRows 按项目编码分组；没有编码的行不参与分组
func groupRows(b *parser.Binding, rows []parser.Row) []group {
	var out []group
	pos := make(map[string]int)
	for _, r := range rows {
		code := b.Text(r, parser.FieldCode)
		if parser.IsNoData(code) {
			continue
		}
		i, ok := pos[code]
		if !ok {
			i = len(out)
			pos[code] = i
			out = append(out, group{code: code})
		}
		out[i].rows = append(out[i].rows, r)
	}
	return out
}

// firstText 第一行非空的字段文本
func firstText(b *parser.Binding, rows []parser.Row, f parser.Field) string {
	for _, r := range rows {
		v := b.Value(r, f)
		if !parser.IsNoData(v) {
			return parser.CellText(v)
		}
	}
	return ""
}

// RepresentativeRow 非哨兵单元格最多的一行（并列取靠前者）
func RepresentativeRow(rows []parser.Row) (parser.Row, bool) {
	best, bestScore := -1, -1
	for i, r := range rows {
		if s := r.Filled(); s > bestScore {
			best, bestScore = i, s
		}
	}
	if best < 0 {
		return nil, false
	}
	return rows[best], true
}

// ProjectRows 某项目的全部原始行
func (e *Engine) ProjectRows(t *parser.Table, code string) []parser.Row {
	if t == nil {
		return nil
	}
	b := e.mapper.Map(t.Headers)
	for _, g := range groupRows(b, t.Rows) {
		if g.code == code {
			return g.rows
		}
	}
	return nil
}

func truncateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween round((b - a) / 24h)
func DaysBetween(a, b time.Time) int {
	return int(math.Floor(b.Sub(a).Hours()/24 + 0.5))
}
