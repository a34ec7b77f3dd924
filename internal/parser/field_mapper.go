package parser

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"projectintel/internal/model"
)

// Field 项目级逻辑字段
type Field string

const (
	FieldCode       Field = "code"
	FieldName       Field = "name"
	FieldStatus     Field = "status"
	FieldAllotted   Field = "allotted"
	FieldConsumed   Field = "consumed"
	FieldBalance    Field = "balance"
	FieldDeployment Field = "deployment"
	FieldProgress   Field = "progress"
)

// ProjectFields 项目级字段（识别/报告时的固定顺序）
var ProjectFields = []Field{
	FieldCode, FieldName, FieldStatus,
	FieldAllotted, FieldConsumed, FieldBalance,
	FieldDeployment, FieldProgress,
}

// StageField 阶段级逻辑字段
type StageField string

const (
	StageStart        StageField = "start"
	StagePlannedEnd   StageField = "plannedEnd"
	StageExtEnd       StageField = "extEnd"
	StageDeliverables StageField = "deliverables"
	StageAllocated    StageField = "allocated"
	StageConsumed     StageField = "consumed"
	StageProgress     StageField = "progress"
	StageStatus       StageField = "status"
)

// StageFields 阶段字段固定顺序
var StageFields = []StageField{
	StageStart, StagePlannedEnd, StageExtEnd,
	StageDeliverables, StageAllocated, StageConsumed,
	StageProgress, StageStatus,
}

// stagePlaceholder 阶段模板中的占位符
const stagePlaceholder = "{stage}"

// Schema 字段同义词表：越靠前优先级越高
type Schema struct {
	Fields      map[Field][]string      `yaml:"fields"`
	StageFields map[StageField][]string `yaml:"stage_fields"`
}

// DefaultSchema 内置同义词表
func DefaultSchema() *Schema {
	return &Schema{
		Fields: map[Field][]string{
			FieldCode:       {"PC", "Project Code", "ProjectCode", "Code"},
			FieldName:       {"Project Name", "Project", "Name", "ProjectName"},
			FieldStatus:     {"PS", "Project Status", "Status"},
			FieldAllotted:   {"AH", "Allotted hours", "Allotted Hours", "Allotted", "Allocated hours", "Allocated Hours"},
			FieldConsumed:   {"TCH", "Total consumed hours", "Total Consumed Hours", "Consumed hours", "Consumed Hours", "Consumed"},
			FieldBalance:    {"BH", "Balanced hours", "Balance hours", "Balance Hours", "Balance"},
			FieldDeployment: {"DYT", "Deployment", "Deployement"},
			FieldProgress:   {"PP", "Project progress", "Project progess", "Progress"},
		},
		StageFields: map[StageField][]string{
			StageStart: {
				"{stage} Start date", "{stage} Start Date", "{stage} Start",
				"{stage} Begin", "{stage} StartDate",
			},
			StagePlannedEnd: {
				"{stage} Planned End date", "{stage} Planned End Date",
				"{stage} End date", "{stage} End Date", "{stage} End",
				"{stage} Finish", "{stage} EndDate",
			},
			StageExtEnd: {
				"{stage} Ext end date", "{stage} Ext End date", "{stage} Ext End Date",
				"{stage} Extension end date", "{stage} Extended End date", "{stage} Extended End Date",
			},
			StageDeliverables: {"{stage} Deliverables", "{stage} Deliverable"},
			StageAllocated: {
				"{stage} Allocated", "{stage} Allotted",
				"{stage} Allocated hours", "{stage} Allocated Hours",
			},
			StageConsumed: {"{stage} Consumed", "{stage} Consumed hours", "{stage} Consumed Hours"},
			StageProgress: {"{stage} Status Progress", "{stage} Progress", "{stage} PP"},
			StageStatus:   {"{stage} Status", "{stage} Stage Status"},
		},
	}
}

// LoadSchema 读取 YAML 同义词覆盖文件；未出现的字段沿用内置表
func LoadSchema(path string) (*Schema, error) {
	s := DefaultSchema()
	if path == "" {
		return s, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read synonyms file: %w", err)
	}
	var override Schema
	if err := yaml.Unmarshal(b, &override); err != nil {
		return nil, fmt.Errorf("parse synonyms file: %w", err)
	}
	for f, list := range override.Fields {
		if len(list) > 0 {
			s.Fields[f] = list
		}
	}
	for f, list := range override.StageFields {
		if len(list) > 0 {
			s.StageFields[f] = list
		}
	}
	return s, nil
}

// StageCandidates 把阶段编码代入模板
func (s *Schema) StageCandidates(code string, f StageField) []string {
	tpl := s.StageFields[f]
	out := make([]string, 0, len(tpl))
	for _, t := range tpl {
		out = append(out, strings.ReplaceAll(t, stagePlaceholder, code))
	}
	return out
}

// FieldMapper 把同义词表绑定到具体表头
type FieldMapper struct {
	schema *Schema
}

// NewFieldMapper 创建字段映射器，schema 为空时使用内置表
func NewFieldMapper(schema *Schema) *FieldMapper {
	if schema == nil {
		schema = DefaultSchema()
	}
	return &FieldMapper{schema: schema}
}

// Binding 一个文件的列绑定结果（解析一次，逐行复用）
type Binding struct {
	Index  *HeaderIndex
	fields map[Field]int
	stages map[string]map[StageField][]int
	teams  map[model.Discipline]int
}

// Map 解析表头得到列绑定
func (m *FieldMapper) Map(headers []string) *Binding {
	idx := NewHeaderIndex(headers)
	b := &Binding{
		Index:  idx,
		fields: make(map[Field]int, len(ProjectFields)),
		stages: make(map[string]map[StageField][]int, len(model.StageCodes)),
		teams:  discoverTeamColumns(headers),
	}
	for _, f := range ProjectFields {
		if col, ok := idx.Resolve(m.schema.Fields[f]); ok {
			b.fields[f] = col
		}
	}

	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = NormalizeKey(h)
	}
	for _, code := range model.StageCodes {
		cols := make(map[StageField][]int, len(StageFields))
		for _, f := range StageFields {
			found := idx.ResolveAll(m.schema.StageCandidates(code, f))
			if len(found) == 0 {
				found = discoverStageColumns(normalized, code, f)
			}
			if len(found) > 0 {
				cols[f] = found
			}
		}
		b.stages[code] = cols
	}
	return b
}

// Has 字段是否绑定到了某列
func (b *Binding) Has(f Field) bool {
	_, ok := b.fields[f]
	return ok
}

// Value 读取项目级字段；未绑定时返回空串
func (b *Binding) Value(r Row, f Field) any {
	col, ok := b.fields[f]
	if !ok {
		return ""
	}
	if v := r.Cell(col); v != nil {
		return v
	}
	return ""
}

// Text 读取项目级字段的文本
func (b *Binding) Text(r Row, f Field) string {
	return CellText(b.Value(r, f))
}

// StageValues 读取某阶段某字段命中的全部单元格
func (b *Binding) StageValues(r Row, code string, f StageField) []any {
	cols := b.stages[code][f]
	out := make([]any, 0, len(cols))
	for _, c := range cols {
		out = append(out, r.Cell(c))
	}
	return out
}

// StageColumnCount 已绑定的阶段列数量
func (b *Binding) StageColumnCount() int {
	seen := make(map[int]struct{})
	for _, cols := range b.stages {
		for _, list := range cols {
			for _, c := range list {
				seen[c] = struct{}{}
			}
		}
	}
	return len(seen)
}

// TeamColumn 专业对应的团队列
func (b *Binding) TeamColumn(d model.Discipline) (int, bool) {
	col, ok := b.teams[d]
	return col, ok
}

// discoverTeamColumns 按列名模糊匹配三个专业的团队列（每个专业取第一列）
func discoverTeamColumns(headers []string) map[model.Discipline]int {
	out := make(map[model.Discipline]int, len(model.Disciplines))
	match := map[model.Discipline]func(string) bool{
		model.DisciplineArchitecture: func(n string) bool {
			return n == "arch" || strings.Contains(n, "architecture")
		},
		model.DisciplineInterior: func(n string) bool {
			return strings.Contains(n, "interior")
		},
		model.DisciplineLandscape: func(n string) bool {
			return ContainsAny(n, "landscape", "landacpe")
		},
	}
	for i, h := range headers {
		n := NormalizeKey(h)
		for _, d := range model.Disciplines {
			if _, done := out[d]; done {
				continue
			}
			if match[d](n) {
				out[d] = i
			}
		}
	}
	return out
}

// discoverStageColumns 模板未命中时按“阶段编码前缀 + 关键词”兜底
func discoverStageColumns(normalized []string, code string, f StageField) []int {
	prefix := strings.ToLower(code)
	var pred func(n string) bool
	switch f {
	case StageStart:
		pred = func(n string) bool { return ContainsAny(n, "start", "begin") }
	case StageExtEnd:
		pred = func(n string) bool { return strings.Contains(n, "ext") && ContainsAny(n, "end", "finish") }
	case StagePlannedEnd:
		pred = func(n string) bool { return !strings.Contains(n, "ext") && ContainsAny(n, "end", "finish") }
	case StageDeliverables:
		pred = func(n string) bool { return strings.Contains(n, "deliverable") }
	case StageAllocated:
		pred = func(n string) bool { return ContainsAny(n, "allocated", "allotted") }
	case StageConsumed:
		pred = func(n string) bool { return strings.Contains(n, "consumed") }
	case StageProgress:
		pred = func(n string) bool {
			return strings.Contains(n, "statusprogress") ||
				(strings.Contains(n, "progress") && !strings.Contains(n, "projectprogress")) ||
				strings.HasSuffix(n, "pp")
		}
	case StageStatus:
		pred = func(n string) bool { return strings.Contains(n, "status") && !strings.Contains(n, "statusprogress") }
	default:
		return nil
	}

	var out []int
	for i, n := range normalized {
		if !strings.HasPrefix(n, prefix) {
			continue
		}
		// 防止 WD10 之类的前缀误命中更长的编码
		rest := n[len(prefix):]
		if rest != "" && rest[0] >= '0' && rest[0] <= '9' {
			continue
		}
		if pred(rest) {
			out = append(out, i)
		}
	}
	return out
}
