package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"projectintel/internal/model"
	"projectintel/internal/service/dashboard"
	"projectintel/internal/util"
)

// LandingMarkdown 首页项目表的 Markdown 形式
func LandingMarkdown(info model.DatasetInfo, l dashboard.Landing, now time.Time) string {
	var sb strings.Builder
	sb.WriteString("# Projects\n\n")
	if info.FileName != "" {
		fmt.Fprintf(&sb, "Source: **%s** (%s), loaded %s\n\n",
			escapeCell(info.FileName), info.Source, util.FormatRelative(info.LoadedAt, now))
	}
	fmt.Fprintf(&sb, "Showing %d of %d projects. %s\n\n", len(l.Projects), l.Total, filterSummary(l.Filter))

	if len(l.Projects) == 0 {
		sb.WriteString("_No projects match the current filters._\n")
		return sb.String()
	}

	sb.WriteString("| Code | Project | Status | Progress | Current | Missed |\n")
	sb.WriteString("|---|---|---|---|---|---|\n")
	for _, c := range l.Projects {
		missed := "-"
		if c.MissedCount > 0 {
			missed = fmt.Sprintf("%d (%s)", c.MissedCount, strings.Join(c.MissedStageLabels, ", "))
		}
		current := c.CurrentStageLabel
		if current == "" {
			current = "-"
		}
		status := c.Status
		if status == "" {
			status = "-"
		}
		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s | %s |\n",
			escapeCell(c.Code), escapeCell(c.Name), escapeCell(status),
			util.FormatPercent(c.ProgressPercent), escapeCell(current), escapeCell(missed))
	}
	return sb.String()
}

// ProjectMarkdown 项目详情：阶段时间轴与资源面板
func ProjectMarkdown(tl dashboard.Timeline, m dashboard.Metrics) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", tl.Title)
	fmt.Fprintf(&sb, "Progress: **%s**  \nRunway: **%s** until %s\n\n",
		util.FormatPercent(tl.ProjectPercent), util.FormatMonths(m.Runway.RunwayMonths), util.FormatDate(tl.RunwayDate))

	sb.WriteString("## Stages\n\n")
	if tl.Message != "" {
		sb.WriteString(tl.Message + "\n\n")
	} else {
		if tl.Window != nil {
			fmt.Fprintf(&sb, "Window %s to %s\n\n", util.FormatDate(&tl.Window.Start), util.FormatDate(&tl.Window.End))
		}
		sb.WriteString("| Stage | Discipline | Start | End | Progress | Status | Alert |\n")
		sb.WriteString("|---|---|---|---|---|---|---|\n")
		for _, st := range tl.Stages {
			alert := st.Alert.Text
			if alert == "" {
				alert = "-"
			}
			status := st.StatusText
			if status == "" {
				status = "-"
			}
			fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s | %s | %s |\n",
				st.Code, st.Discipline, util.FormatDate(st.Start), util.FormatDate(st.EffectiveEnd),
				util.FormatPercent(st.ProgressPercent), escapeCell(status), escapeCell(alert))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Resources\n\n")
	fmt.Fprintf(&sb, "- Allotted: %s\n- Consumed: %s\n- Balance: %s\n\n",
		util.FormatHours(m.Hours.Allotted), util.FormatHours(m.Hours.Consumed), util.FormatHours(m.Hours.Balance))
	if len(m.People) == 0 {
		sb.WriteString("_No deployment recorded._\n")
		return sb.String()
	}
	sb.WriteString("| Person | Allocation |\n|---|---|\n")
	for _, p := range m.People {
		pct := p.Percent
		fmt.Fprintf(&sb, "| %s | %s |\n", escapeCell(p.Name), util.FormatPercent(&pct))
	}
	return sb.String()
}

// Render 用 glamour 渲染 Markdown；style 为空时自动检测终端
func Render(md, style string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

func filterSummary(f dashboard.Filter) string {
	parts := []string{"Status: " + string(f.Status)}
	if f.TeamType != "" {
		parts = append(parts, "Team: "+string(f.TeamType))
	}
	if f.TeamName != "" {
		parts = append(parts, "Name: "+f.TeamName)
	}
	if f.Query != "" {
		parts = append(parts, fmt.Sprintf("Search: %q", f.Query))
	}
	return strings.Join(parts, " · ")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
