package calculator

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"projectintel/internal/model"
	"projectintel/internal/parser"
)

var deploymentEntry = regexp.MustCompile(`^(.*?)\s*\(\s*([0-9]+(?:\.[0-9]+)?)\s*%?\s*\)\s*$`)

// blankPersonName 括号前没有名字时使用的占位名
const blankPersonName = "(Blank)"

// ComputeHours 工时：AH/TCH 跨行取最大值；BH 无显式值时 = AH − TCH
func ComputeHours(b *parser.Binding, rows []parser.Row) model.Hours {
	var h model.Hours
	for _, r := range rows {
		h.Allotted = maxOf(h.Allotted, numbers([]any{b.Value(r, parser.FieldAllotted)}, parser.ToNumber))
		h.Consumed = maxOf(h.Consumed, numbers([]any{b.Value(r, parser.FieldConsumed)}, parser.ToNumber))
		h.Balance = maxOf(h.Balance, numbers([]any{b.Value(r, parser.FieldBalance)}, parser.ToNumber))
	}
	if h.Balance == nil && h.Allotted != nil && h.Consumed != nil {
		bh := *h.Allotted - *h.Consumed
		h.Balance = &bh
	}
	return h
}

// ComputeProgress 项目进度：跨行取最大值并限制在 [0,100]
func ComputeProgress(b *parser.Binding, rows []parser.Row) (float64, bool) {
	var pp *float64
	for _, r := range rows {
		pp = maxOf(pp, numbers([]any{b.Value(r, parser.FieldProgress)}, parser.ToPercent))
	}
	if pp == nil {
		return 0, false
	}
	return clamp(*pp, 0, 100), true
}

// ComputeDeployment 人员投入：取第一个非空的投入单元格解析
func ComputeDeployment(b *parser.Binding, rows []parser.Row) []model.DeploymentEntry {
	for _, r := range rows {
		v := b.Value(r, parser.FieldDeployment)
		if parser.IsNoData(v) {
			continue
		}
		return AggregateDeployment(ParseDeploymentCell(parser.CellText(v)))
	}
	return []model.DeploymentEntry{}
}

// ParseDeploymentCell 解析 "Name (NN%), Name" 形式的单元格，没有百分比的条目记为 0
func ParseDeploymentCell(cell string) []model.DeploymentEntry {
	if parser.IsNoData(cell) {
		return nil
	}
	var out []model.DeploymentEntry
	for _, part := range strings.Split(cell, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		m := deploymentEntry.FindStringSubmatch(part)
		if m == nil {
			out = append(out, model.DeploymentEntry{Name: part})
			continue
		}
		name := strings.TrimSpace(m[1])
		if name == "" {
			name = blankPersonName
		}
		pct, _ := strconv.ParseFloat(m[2], 64)
		out = append(out, model.DeploymentEntry{Name: name, Percent: pct})
	}
	return out
}

// AggregateDeployment 同名累加、去掉 ≤0 的条目，按百分比降序
func AggregateDeployment(entries []model.DeploymentEntry) []model.DeploymentEntry {
	out := make([]model.DeploymentEntry, 0, len(entries))
	pos := make(map[string]int)
	for _, e := range entries {
		if e.Percent <= 0 {
			continue
		}
		if i, ok := pos[e.Name]; ok {
			out[i].Percent += e.Percent
			continue
		}
		pos[e.Name] = len(out)
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Percent > out[j].Percent
	})
	return out
}

// Utilization 工时使用情况
type Utilization struct {
	Within             *float64 `json:"within"`
	Exceed             *float64 `json:"exceed"`
	UnallocatedPercent float64  `json:"unallocatedPercent"`
	AllocatedPercent   float64  `json:"allocatedPercent"`
}

// ComputeUtilization within = min(AH,TCH)；exceed = max(0, TCH−AH)；未分配 = max(0, 100 − Σ%)
func ComputeUtilization(h model.Hours, people []model.DeploymentEntry) Utilization {
	var u Utilization
	if h.Allotted != nil && h.Consumed != nil {
		within := min(*h.Allotted, *h.Consumed)
		exceed := max(0, *h.Consumed-*h.Allotted)
		u.Within, u.Exceed = &within, &exceed
	}
	for _, p := range people {
		u.AllocatedPercent += p.Percent
	}
	u.UnallocatedPercent = max(0, 100-u.AllocatedPercent)
	return u
}
