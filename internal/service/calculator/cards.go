package calculator

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"projectintel/internal/model"
)

// ClassifyStatus 项目状态分类
func ClassifyStatus(status string) model.StatusClass {
	s := strings.ToLower(strings.TrimSpace(status))
	if s == "" {
		return model.StatusUnknown
	}
	compact := strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
	switch {
	case strings.Contains(compact, "hold"):
		return model.StatusOnHold
	case strings.Contains(compact, "active"), strings.Contains(compact, "inprogress"), strings.Contains(compact, "ongoing"):
		return model.StatusActive
	default:
		return model.StatusOther
	}
}

// ComputeCard 首页卡片：当前阶段与错过的阶段
func ComputeCard(p *model.Project, today time.Time) model.ProjectCard {
	card := model.ProjectCard{
		Code:              p.Code,
		Name:              p.Name,
		Status:            p.Status,
		StatusClass:       p.StatusClass,
		Teams:             p.Teams,
		ProgressPercent:   p.ProgressPercent,
		MissedStageLabels: []string{},
	}

	var firstOpen, lastWithData string
	for i := range p.Stages {
		st := &p.Stages[i]
		if !st.HasData() {
			continue
		}
		lastWithData = st.Code
		if !st.Completed && firstOpen == "" {
			firstOpen = st.Code
		}
		if IsMissed(st, today) {
			card.MissedStageLabels = append(card.MissedStageLabels, st.Code)
		}
	}
	card.CurrentStageLabel = firstOpen
	if card.CurrentStageLabel == "" {
		card.CurrentStageLabel = lastWithData
	}
	card.MissedCount = len(card.MissedStageLabels)
	return card
}

// IsMissed 未完成且已超过有效结束日期
func IsMissed(st *model.Stage, today time.Time) bool {
	return !st.Completed && st.EffectiveEnd != nil && today.After(*st.EffectiveEnd)
}

// SortCards 有错过阶段的项目优先，其次按编码自然顺序
func SortCards(cards []model.ProjectCard) {
	sort.SliceStable(cards, func(i, j int) bool {
		mi, mj := cards[i].MissedCount > 0, cards[j].MissedCount > 0
		if mi != mj {
			return mi
		}
		return NaturalLess(cards[i].Code, cards[j].Code)
	})
}

// NaturalLess 数字感知、忽略大小写的字符串比较（"P2" < "P10"）
func NaturalLess(a, b string) bool {
	ra, rb := []rune(strings.ToLower(a)), []rune(strings.ToLower(b))
	i, j := 0, 0
	for i < len(ra) && j < len(rb) {
		ca, cb := ra[i], rb[j]
		if unicode.IsDigit(ca) && unicode.IsDigit(cb) {
			si := i
			for i < len(ra) && unicode.IsDigit(ra[i]) {
				i++
			}
			sj := j
			for j < len(rb) && unicode.IsDigit(rb[j]) {
				j++
			}
			na := strings.TrimLeft(string(ra[si:i]), "0")
			nb := strings.TrimLeft(string(rb[sj:j]), "0")
			if len(na) != len(nb) {
				return len(na) < len(nb)
			}
			if na != nb {
				return na < nb
			}
			continue
		}
		if ca != cb {
			return ca < cb
		}
		i++
		j++
	}
	return len(ra)-i < len(rb)-j
}
