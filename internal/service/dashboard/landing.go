package dashboard

import (
	"sort"
	"strings"

	"projectintel/internal/model"
	"projectintel/internal/service/calculator"
)

// Landing 首页视图
type Landing struct {
	Projects  []model.ProjectCard `json:"projects"`
	Total     int                 `json:"total"`
	TeamNames []string            `json:"teamNames"`
	Filter    Filter              `json:"filter"`
}

// BuildLanding 按筛选条件生成首页卡片列表（保持数据集中的排序）
func BuildLanding(ds *model.Dataset, f Filter) Landing {
	out := Landing{Projects: []model.ProjectCard{}, Filter: f}
	if ds == nil {
		return out
	}
	out.Total = len(ds.Cards)
	out.TeamNames = TeamNames(ds.Cards, f.TeamType)
	out.Projects = FilterCards(ds.Cards, f)
	return out
}

// FilterCards 应用团队类型、项目状态、关键字与团队名筛选
func FilterCards(cards []model.ProjectCard, f Filter) []model.ProjectCard {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]model.ProjectCard, 0, len(cards))
	for _, c := range cards {
		if f.TeamType != "" && !hasTeamType(c, f.TeamType) {
			continue
		}
		if f.Status == StatusActive && c.StatusClass != model.StatusActive {
			continue
		}
		if f.Status == StatusOnHold && c.StatusClass != model.StatusOnHold {
			continue
		}
		if f.TeamName != "" && !hasTeamName(c, f.TeamType, f.TeamName) {
			continue
		}
		if q != "" && !strings.Contains(haystack(c), q) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// TeamNames 团队名候选（可限定专业），空团队名归为 "(Unspecified)" 并排在最后
func TeamNames(cards []model.ProjectCard, teamType model.Discipline) []string {
	seen := map[string]string{}
	unspecified := false
	for _, c := range cards {
		for _, t := range c.Teams {
			if teamType != "" && t.Type != teamType {
				continue
			}
			name := strings.TrimSpace(t.Name)
			if name == "" {
				unspecified = true
				continue
			}
			key := strings.ToLower(name)
			if _, ok := seen[key]; !ok {
				seen[key] = name
			}
		}
	}

	names := make([]string, 0, len(seen)+1)
	for _, n := range seen {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return calculator.NaturalLess(names[i], names[j]) })
	if unspecified {
		names = append(names, UnspecifiedTeam)
	}
	return names
}

func hasTeamType(c model.ProjectCard, d model.Discipline) bool {
	for _, t := range c.Teams {
		if t.Type == d {
			return true
		}
	}
	return false
}

func hasTeamName(c model.ProjectCard, d model.Discipline, name string) bool {
	for _, t := range c.Teams {
		if d != "" && t.Type != d {
			continue
		}
		team := strings.TrimSpace(t.Name)
		if name == UnspecifiedTeam {
			if team == "" {
				return true
			}
			continue
		}
		if strings.EqualFold(team, name) {
			return true
		}
	}
	return false
}

func haystack(c model.ProjectCard) string {
	parts := []string{c.Code, c.Name, c.Status, c.CurrentStageLabel}
	parts = append(parts, c.MissedStageLabels...)
	return strings.ToLower(strings.Join(parts, " "))
}
