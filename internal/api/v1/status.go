package v1

import (
	"github.com/gin-gonic/gin"

	"projectintel/internal/model"
	memstore "projectintel/internal/service/store"
)

// StatusResponse 系统状态
type StatusResponse struct {
	Loaded      bool                `json:"loaded"`
	Status      memstore.LoadStatus `json:"status"`
	Dataset     *model.DatasetInfo  `json:"dataset,omitempty"`
	Projects    int                 `json:"projects"`
	Headers     []string            `json:"headers,omitempty"`
	DueSoonDays int                 `json:"dueSoonDays"`
}

// GetStatus 当前数据集与最近一次加载结果
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	resp := StatusResponse{Status: h.memory.Status()}
	if h.engine != nil {
		resp.DueSoonDays = h.engine.DueSoonDays()
	}
	if ds, err := h.memory.Dataset(); err == nil {
		info := ds.Info
		resp.Loaded = true
		resp.Dataset = &info
		resp.Projects = len(ds.Projects)
		resp.Headers = ds.Headers
	}
	success(c, resp)
}

// ListImports 导入记录
// GET /api/imports?limit=20
func (h *Handler) ListImports(c *gin.Context) {
	if h.cache == nil {
		success(c, []any{})
		return
	}
	limit := queryInt(c, "limit", 20)
	logs, err := h.cache.ListImportLogs(limit)
	if err != nil {
		errorResponse(c, CodeInternal, "读取导入记录失败: "+err.Error())
		return
	}
	success(c, logs)
}
