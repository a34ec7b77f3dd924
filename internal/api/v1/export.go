package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"projectintel/internal/exporter"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type exportProgressEvent struct {
	Type      string      `json:"type"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// exportFileName 基于数据集文件名生成导出文件名
func exportFileName(source string) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	if base == "" || base == "." {
		base = "projects"
	}
	return base + "_dashboard.xlsx"
}

// Export 直接下载派生模型工作簿
// GET /api/export
func (h *Handler) Export(c *gin.Context) {
	ds, err := h.memory.Dataset()
	if err != nil {
		h.dataError(c, err)
		return
	}
	f, err := h.exporter.Export(ds, exporter.ExportOptions{})
	if err != nil {
		errorResponse(c, CodeInternal, "导出失败: "+err.Error())
		return
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		errorResponse(c, CodeInternal, "导出失败: "+err.Error())
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFileName(ds.Info.FileName)))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ExportStream 导出（SSE 进度 + 完成后提供一次性下载地址）
// POST /api/export/stream
func (h *Handler) ExportStream(c *gin.Context) {
	ds, err := h.memory.Dataset()
	if err != nil {
		h.dataError(c, err)
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		errorResponse(c, CodeInternal, "不支持流式响应")
		return
	}
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	send := func(event exportProgressEvent) {
		event.Timestamp = time.Now()
		b, err := json.Marshal(event)
		if err != nil {
			return
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", b)
		flusher.Flush()
	}

	send(exportProgressEvent{
		Type:    "start",
		Message: "Exporting " + ds.Info.FileName,
		Data:    map[string]any{"projects": len(ds.Projects)},
	})

	lastPercent := -1
	f, err := h.exporter.Export(ds, exporter.ExportOptions{
		Progress: func(p exporter.ProgressEvent) {
			if p.Percent == lastPercent {
				return
			}
			lastPercent = p.Percent
			send(exportProgressEvent{Type: "progress", Message: p.Stage, Data: map[string]any{"percent": p.Percent}})
		},
	})
	if err != nil {
		send(exportProgressEvent{Type: "error", Message: "Export failed: " + err.Error(), Data: map[string]any{}})
		return
	}
	defer f.Close()

	tempPath := filepath.Join(os.TempDir(), fmt.Sprintf("projectintel_export_%d_%d.xlsx", time.Now().UnixNano(), os.Getpid()))
	if err := f.SaveAs(tempPath); err != nil {
		send(exportProgressEvent{Type: "error", Message: "Export failed: " + err.Error(), Data: map[string]any{}})
		_ = os.Remove(tempPath)
		return
	}

	token := h.downloads.register(tempPath, exportFileName(ds.Info.FileName))
	h.logger.Info("export ready", zap.String("file", tempPath), zap.Int("projects", len(ds.Projects)))
	send(exportProgressEvent{
		Type:    "done",
		Message: "Export ready",
		Data: map[string]any{
			"percent":     100,
			"downloadUrl": "/api/export/download/" + token,
		},
	})
}

// DownloadExport 下载导出的文件（一次性）
// GET /api/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	item, ok := h.downloads.take(c.Param("token"))
	if !ok {
		c.JSON(http.StatusNotFound, Response{Code: CodeNotFound, Message: "下载链接已失效"})
		return
	}
	defer os.Remove(item.path)
	if _, err := os.Stat(item.path); err != nil {
		c.JSON(http.StatusNotFound, Response{Code: CodeNotFound, Message: "导出文件不存在"})
		return
	}
	c.FileAttachment(item.path, item.name)
}
