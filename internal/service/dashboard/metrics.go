package dashboard

import (
	"sort"
	"time"

	"projectintel/internal/model"
	"projectintel/internal/service/calculator"
)

// Metrics 资源面板视图：工时、人员、跑道
type Metrics struct {
	Code        string                  `json:"code"`
	Hours       model.Hours             `json:"hours"`
	Utilization calculator.Utilization  `json:"utilization"`
	People      []model.DeploymentEntry `json:"people"`
	Runway      model.RunwayResult      `json:"runway"`
	Simulated   bool                    `json:"simulated"`
}

// BuildMetrics 以项目原始人员投入生成资源面板
func BuildMetrics(p *model.Project) Metrics {
	people := p.Deployment
	if people == nil {
		people = []model.DeploymentEntry{}
	}
	return Metrics{
		Code:        p.Code,
		Hours:       p.Hours,
		Utilization: calculator.ComputeUtilization(p.Hours, people),
		People:      people,
		Runway:      p.Runway,
	}
}

// SimulateMetrics 以覆盖后的人员投入重新推算（不修改项目）
func SimulateMetrics(p *model.Project, overrides map[string]float64, now time.Time) Metrics {
	sim := calculator.NewSimulator(p, func() time.Time { return now }, nil)
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		sim.SetPercent(name, overrides[name])
	}
	people := calculator.AggregateDeployment(sim.Roster())
	return Metrics{
		Code:        p.Code,
		Hours:       p.Hours,
		Utilization: calculator.ComputeUtilization(p.Hours, people),
		People:      people,
		Runway:      sim.Result(),
		Simulated:   true,
	}
}
