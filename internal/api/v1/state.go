package v1

import (
	"github.com/gin-gonic/gin"

	"projectintel/internal/service/dashboard"
)

// GetState 仪表盘状态
// GET /api/state
func (h *Handler) GetState(c *gin.Context) {
	success(c, h.session.State())
}

// Dispatch 应用一个状态事件
// POST /api/state  {"kind":"setTeamType","value":"Interior"}
func (h *Handler) Dispatch(c *gin.Context) {
	var e dashboard.Event
	if err := c.ShouldBindJSON(&e); err != nil || e.Kind == "" {
		errorResponse(c, CodeBadRequest, "参数错误")
		return
	}
	state, err := h.session.Dispatch(e)
	if err != nil {
		h.dataError(c, err)
		return
	}
	success(c, state)
}

// ResetSession 清空当前数据集、会话缓存与仪表盘状态
// DELETE /api/session
func (h *Handler) ResetSession(c *gin.Context) {
	if h.cache != nil {
		if err := h.cache.ClearSnapshot(); err != nil {
			errorResponse(c, CodeInternal, "清除会话缓存失败: "+err.Error())
			return
		}
	}
	h.memory.Clear()
	h.session.Reset()
	h.logger.Info("session reset")
	success(c, h.session.State())
}
