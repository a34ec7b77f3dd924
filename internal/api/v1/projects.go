package v1

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"projectintel/internal/model"
	"projectintel/internal/service/calculator"
	"projectintel/internal/service/dashboard"
	memstore "projectintel/internal/service/store"
)

// ListProjects 首页项目卡片；查询参数覆盖会话中的筛选条件
// GET /api/projects?teamType=&status=&q=&teamName=
func (h *Handler) ListProjects(c *gin.Context) {
	ds, err := h.memory.Dataset()
	if err != nil {
		h.dataError(c, err)
		return
	}

	state := h.session.State()
	if v, ok := c.GetQuery("teamType"); ok {
		state = dashboard.Reduce(state, dashboard.Event{Kind: dashboard.EventSetTeamType, Value: v})
	}
	if v, ok := c.GetQuery("status"); ok {
		state = dashboard.Reduce(state, dashboard.Event{Kind: dashboard.EventSetStatus, Value: v})
	}
	if v, ok := c.GetQuery("q"); ok {
		state = dashboard.Reduce(state, dashboard.Event{Kind: dashboard.EventSetQuery, Value: v})
	}
	if v, ok := c.GetQuery("teamName"); ok {
		state = dashboard.Reduce(state, dashboard.Event{Kind: dashboard.EventSetTeamName, Value: v})
	}
	success(c, dashboard.BuildLanding(ds, state.Filter))
}

// GetProject 单个项目的完整模型
// GET /api/projects/:code
func (h *Handler) GetProject(c *gin.Context) {
	p, ok := h.project(c)
	if !ok {
		return
	}
	success(c, p)
}

// GetTimeline 项目时间轴
// GET /api/projects/:code/timeline?offset=0
func (h *Handler) GetTimeline(c *gin.Context) {
	p, ok := h.project(c)
	if !ok {
		return
	}
	offset := queryInt(c, "offset", h.session.State().TimelineOffset)
	success(c, dashboard.BuildTimeline(p, nil, h.engine.Today(), offset))
}

// GetMetrics 项目资源面板
// GET /api/projects/:code/metrics
func (h *Handler) GetMetrics(c *gin.Context) {
	p, ok := h.project(c)
	if !ok {
		return
	}
	success(c, dashboard.BuildMetrics(p))
}

// RowsResponse 项目原始行
type RowsResponse struct {
	Headers        []string         `json:"headers"`
	Representative map[string]any   `json:"representative"`
	Rows           []map[string]any `json:"rows"`
}

// GetRows 项目原始行；representative 为非空单元格最多的一行
// GET /api/projects/:code/rows
func (h *Handler) GetRows(c *gin.Context) {
	p, ok := h.project(c)
	if !ok {
		return
	}
	table, err := h.memory.Table()
	if err != nil {
		h.dataError(c, err)
		return
	}
	rows := h.engine.ProjectRows(table, p.Code)
	resp := RowsResponse{Headers: table.Headers, Rows: make([]map[string]any, 0, len(rows))}
	for _, r := range rows {
		resp.Rows = append(resp.Rows, table.Object(r))
	}
	if best, ok := calculator.RepresentativeRow(rows); ok {
		resp.Representative = table.Object(best)
	}
	success(c, resp)
}

// RunwayRequest 人员投入覆盖：姓名 → 百分比（≤0 表示移除）
type RunwayRequest struct {
	Overrides map[string]float64 `json:"overrides"`
}

// RunwayResponse 模拟结果，附带按模拟跑道日期生成的时间轴
type RunwayResponse struct {
	Metrics  dashboard.Metrics  `json:"metrics"`
	Timeline dashboard.Timeline `json:"timeline"`
}

// SimulateRunway 人力跑道模拟（不修改项目数据）
// POST /api/projects/:code/runway
func (h *Handler) SimulateRunway(c *gin.Context) {
	p, ok := h.project(c)
	if !ok {
		return
	}
	var req RunwayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, CodeBadRequest, "参数错误: "+err.Error())
		return
	}
	m := dashboard.SimulateMetrics(p, req.Overrides, h.engine.Now())
	tl := dashboard.BuildTimeline(p, m.Runway.RunwayDate, h.engine.Today(), h.session.State().TimelineOffset)
	success(c, RunwayResponse{Metrics: m, Timeline: tl})
}

func (h *Handler) project(c *gin.Context) (*model.Project, bool) {
	p, err := h.memory.GetProject(c.Param("code"))
	if err != nil {
		h.dataError(c, err)
		return nil, false
	}
	return p, true
}

func (h *Handler) dataError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, memstore.ErrNoDataset):
		errorResponse(c, CodeNoData, "尚未加载数据")
	case errors.Is(err, memstore.ErrProjectNotFound):
		errorResponse(c, CodeNotFound, "项目不存在: "+c.Param("code"))
	default:
		errorResponse(c, CodeInternal, err.Error())
	}
}

func queryInt(c *gin.Context, key string, def int) int {
	v, ok := c.GetQuery(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
