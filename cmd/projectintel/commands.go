package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"projectintel/internal/exporter"
	"projectintel/internal/importer"
	"projectintel/internal/model"
	"projectintel/internal/service/dashboard"
	"projectintel/internal/tui"
	"projectintel/internal/util"
)

func newReportCmd() *cobra.Command {
	var (
		plain   bool
		style   string
		width   int
		project string
		f       filterFlags
	)
	cmd := &cobra.Command{
		Use:   "report <file>",
		Short: "Print the project overview (or one project's detail)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()

			ws, err := a.loadFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			ds := ws.ds
			out := cmd.OutOrStdout()

			if project != "" {
				p, ok := ds.Project(project)
				if !ok {
					return fmt.Errorf("project %q not found", project)
				}
				tl := dashboard.BuildTimeline(p, nil, a.engine.Today(), 0)
				return printMarkdown(out, tui.ProjectMarkdown(tl, dashboard.BuildMetrics(p)), style, width)
			}

			landing := dashboard.BuildLanding(ds, f.state().Filter)
			if plain {
				fmt.Fprint(out, landingTable(landing).View(tui.DefaultStyles()))
				return nil
			}
			return printMarkdown(out, tui.LandingMarkdown(ds.Info, landing, a.engine.Now()), style, width)
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "plain table instead of rendered markdown")
	cmd.Flags().StringVar(&style, "style", "", "glamour style (dark, light, notty, ...; default auto)")
	cmd.Flags().IntVar(&width, "width", 100, "word wrap width")
	cmd.Flags().StringVar(&project, "project", "", "show a single project by code")
	f.register(cmd)
	return cmd
}

func newTUICmd() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "tui <file>",
		Short: "Interactive terminal dashboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()
			// 终端界面占用整个屏幕，关闭日志输出
			a.logger = zap.NewNop()

			ws, err := a.loadFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			prog := tea.NewProgram(tui.New(ws.ds, "Loaded "+ws.ds.Info.FileName, a.engine.Now), tea.WithAltScreen())

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			g, gctx := errgroup.WithContext(ctx)
			if watch {
				w := importer.NewWatcher(ws.coord, args[0], a.logger)
				w.OnReload(func(report *importer.ImportReport, err error) {
					// 失败时内存中仍是上一份数据集
					ds, _ := ws.memory.Dataset()
					var status string
					if err != nil {
						status = importer.FailureMessage(err)
					} else {
						status = fmt.Sprintf("Reloaded %s (%d projects)", report.FileName, report.Projects)
					}
					prog.Send(tui.DatasetMsg{Dataset: ds, Status: status})
				})
				g.Go(func() error { return w.Run(gctx) })
			}
			g.Go(func() error {
				defer cancel()
				_, err := prog.Run()
				return err
			})
			return g.Wait()
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "reload when the file changes")
	return cmd
}

func newExportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export the derived model to an XLSX workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()

			ws, err := a.loadFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			ds := ws.ds
			if output == "" {
				output = exportName(args[0])
			}
			opts := exporter.ExportOptions{Progress: func(e exporter.ProgressEvent) {
				a.logger.Debug("export progress", zap.Int("percent", e.Percent), zap.String("stage", e.Stage))
			}}
			if err := exporter.NewExporter().WriteFile(ds, output, opts); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d projects to %s\n", len(ds.Projects), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default: <file>_dashboard.xlsx)")
	return cmd
}

func newRunwayCmd() *cobra.Command {
	var sets []string
	cmd := &cobra.Command{
		Use:   "runway <file> <project>",
		Short: "Simulate staffing runway with allocation overrides",
		Example: `  projectintel runway projects.xlsx P-101 --set "Alice=50" --set "Bob=0"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := parseOverrides(sets)
			if err != nil {
				return err
			}
			a, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()

			ws, err := a.loadFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			ds := ws.ds
			p, ok := ds.Project(args[1])
			if !ok {
				return fmt.Errorf("project %q not found", args[1])
			}

			out := cmd.OutOrStdout()
			base := dashboard.BuildMetrics(p)
			writeRunway(out, "Baseline", base)
			if len(overrides) > 0 {
				writeRunway(out, "Simulated", dashboard.SimulateMetrics(p, overrides, a.engine.Now()))
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "allocation override name=percent (0 removes the person)")
	return cmd
}

// filterFlags 首页筛选条件的命令行参数
type filterFlags struct {
	teamType string
	status   string
	query    string
	teamName string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.teamType, "team", "", "team type: Architecture|Interior|Landscape")
	cmd.Flags().StringVar(&f.status, "status", "all", "project status: all|active|onhold")
	cmd.Flags().StringVar(&f.query, "query", "", "search text")
	cmd.Flags().StringVar(&f.teamName, "team-name", "", "team name (requires --team)")
}

func (f filterFlags) state() dashboard.State {
	s := dashboard.NewState()
	for _, e := range []dashboard.Event{
		{Kind: dashboard.EventSetTeamType, Value: f.teamType},
		{Kind: dashboard.EventSetStatus, Value: f.status},
		{Kind: dashboard.EventSetQuery, Value: f.query},
		{Kind: dashboard.EventSetTeamName, Value: f.teamName},
	} {
		s = dashboard.Reduce(s, e)
	}
	return s
}

func landingTable(l dashboard.Landing) *tui.SimpleTable {
	t := tui.NewSimpleTable(
		fmt.Sprintf("Projects (%d of %d)", len(l.Projects), l.Total),
		[]string{"Code", "Project", "Status", "Progress", "Current", "Missed"},
	)
	for _, c := range l.Projects {
		t.AddRow(c.Code, c.Name, c.Status, util.FormatPercent(c.ProgressPercent),
			c.CurrentStageLabel, strings.Join(c.MissedStageLabels, ","))
	}
	return t
}

func printMarkdown(w io.Writer, md, style string, width int) error {
	out, err := tui.Render(md, style, width)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, out)
	return err
}

func writeRunway(w io.Writer, label string, m dashboard.Metrics) {
	fmt.Fprintf(w, "%s runway: %s (until %s)\n", label, util.FormatMonths(m.Runway.RunwayMonths), util.FormatDate(m.Runway.RunwayDate))
	fmt.Fprintf(w, "  balance %s, burn %s/month\n", util.FormatHours(m.Hours.Balance), util.FormatHours(&m.Runway.MonthlyBurnHours))
	people := append([]model.DeploymentEntry(nil), m.People...)
	sort.SliceStable(people, func(i, j int) bool { return people[i].Percent > people[j].Percent })
	for _, p := range people {
		pct := p.Percent
		fmt.Fprintf(w, "  %-24s %s\n", p.Name, util.FormatPercent(&pct))
	}
}

func parseOverrides(sets []string) (map[string]float64, error) {
	out := make(map[string]float64, len(sets))
	for _, s := range sets {
		name, value, ok := strings.Cut(s, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --set %q: want name=percent", s)
		}
		pct, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(value), "%"), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --set %q: %w", s, err)
		}
		out[name] = pct
	}
	return out, nil
}

func exportName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "_dashboard.xlsx"
}
