package calculator

import (
	"projectintel/internal/model"
	"projectintel/internal/parser"
)

// ResolveRowTeam 判定一行所属的专业与团队名
// 按 建筑 → 室内 → 景观 顺序，第一个未被排除的专业生效
func ResolveRowTeam(b *parser.Binding, r parser.Row) (model.TeamSlot, bool) {
	for _, d := range model.Disciplines {
		col, ok := b.TeamColumn(d)
		if !ok {
			continue
		}
		kind, label := parser.ClassifyFlag(r.Cell(col))
		switch kind {
		case parser.FlagFalse:
			continue
		case parser.FlagName:
			return model.TeamSlot{Type: d, Name: label}, true
		default:
			return model.TeamSlot{Type: d}, true
		}
	}
	return model.TeamSlot{}, false
}

// ResolveTeams 项目各行团队的去重并集（按专业固定顺序）
func ResolveTeams(b *parser.Binding, rows []parser.Row) []model.TeamSlot {
	byType := make(map[model.Discipline][]model.TeamSlot)
	seen := make(map[model.TeamSlot]struct{})
	for _, r := range rows {
		slot, ok := ResolveRowTeam(b, r)
		if !ok {
			continue
		}
		if _, dup := seen[slot]; dup {
			continue
		}
		seen[slot] = struct{}{}
		byType[slot.Type] = append(byType[slot.Type], slot)
	}

	out := make([]model.TeamSlot, 0, len(seen))
	for _, d := range model.Disciplines {
		out = append(out, byType[d]...)
	}
	return out
}
