package calculator

import (
	"strings"
	"time"

	"projectintel/internal/model"
)

// Simulator 人力跑道模拟器：持有人员投入的可编辑副本，不回写项目模型
type Simulator struct {
	original []model.DeploymentEntry
	roster   []model.DeploymentEntry
	balance  *float64
	now      func() time.Time
	onChange func(model.RunwayResult)
}

// NewSimulator 以项目当前人员投入为初值创建模拟器
func NewSimulator(p *model.Project, now func() time.Time, onChange func(model.RunwayResult)) *Simulator {
	if now == nil {
		now = time.Now
	}
	s := &Simulator{
		original: cloneRoster(p.Deployment),
		balance:  p.Hours.Balance,
		now:      now,
		onChange: onChange,
	}
	s.roster = cloneRoster(s.original)
	return s
}

// Roster 当前模拟中的人员投入（副本）
func (s *Simulator) Roster() []model.DeploymentEntry {
	return cloneRoster(s.roster)
}

// Result 当前模拟结果
func (s *Simulator) Result() model.RunwayResult {
	return ComputeRunway(s.roster, s.balance, s.now())
}

// SetPercent 修改某人的投入百分比；不存在则追加，≤0 则移除
func (s *Simulator) SetPercent(name string, percent float64) model.RunwayResult {
	name = strings.TrimSpace(name)
	idx := -1
	for i, p := range s.roster {
		if p.Name == name {
			idx = i
			break
		}
	}
	switch {
	case percent <= 0 && idx >= 0:
		s.roster = append(s.roster[:idx], s.roster[idx+1:]...)
	case percent <= 0:
	case idx >= 0:
		s.roster[idx].Percent = percent
	default:
		s.roster = append(s.roster, model.DeploymentEntry{Name: name, Percent: percent})
	}
	return s.emit()
}

// Remove 移除某人
func (s *Simulator) Remove(name string) model.RunwayResult {
	return s.SetPercent(name, 0)
}

// Reset 恢复为项目原始人员投入
func (s *Simulator) Reset() model.RunwayResult {
	s.roster = cloneRoster(s.original)
	return s.emit()
}

func (s *Simulator) emit() model.RunwayResult {
	res := s.Result()
	if s.onChange != nil {
		s.onChange(res)
	}
	return res
}

func cloneRoster(in []model.DeploymentEntry) []model.DeploymentEntry {
	out := make([]model.DeploymentEntry, len(in))
	copy(out, in)
	return out
}
