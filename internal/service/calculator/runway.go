package calculator

import (
	"math"
	"time"

	"projectintel/internal/model"
)

const (
	// HoursPerMonth 100% 投入时每月平均工时
	HoursPerMonth = 174.25
	// DaysPerMonth 平均每月天数
	DaysPerMonth = 30.4375
)

// maxRunwayDays 超过该天数不再换算日期（time.Duration 上限约 292 年）
const maxRunwayDays = 100000

// ComputeRunway 按当前人员投入推算剩余工时可支撑的月数与日期
func ComputeRunway(roster []model.DeploymentEntry, balanceHours *float64, now time.Time) model.RunwayResult {
	var res model.RunwayResult
	for _, p := range roster {
		res.FactorDecimal += p.Percent / 100
	}
	res.MonthlyBurnHours = res.FactorDecimal * HoursPerMonth

	if math.IsNaN(res.MonthlyBurnHours) || math.IsInf(res.MonthlyBurnHours, 0) || res.MonthlyBurnHours <= 0 {
		return res
	}
	if balanceHours == nil || *balanceHours <= 0 {
		zero := 0.0
		res.RunwayMonths = &zero
		return res
	}

	months := *balanceHours / res.MonthlyBurnHours
	res.RunwayMonths = &months
	if days := months * DaysPerMonth; days < maxRunwayDays {
		date := now.Add(time.Duration(days * float64(24*time.Hour)))
		res.RunwayDate = &date
	}
	return res
}
