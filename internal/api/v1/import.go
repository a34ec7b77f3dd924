package v1

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"projectintel/internal/importer"
)

// ImportRequest 以 URL 导入的请求体
type ImportRequest struct {
	URL string `json:"url"`
}

// Import 导入数据文件（SSE 流式响应）
// POST /api/import  multipart: file=<文件>；或 JSON/表单: url=<地址>
func (h *Handler) Import(c *gin.Context) {
	src, err := h.importSource(c)
	if err != nil {
		errorResponse(c, CodeBadRequest, err.Error())
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		errorResponse(c, CodeInternal, "不支持流式响应")
		return
	}

	// 设置 SSE 响应头
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	for event := range h.coordinator.Import(c.Request.Context(), src) {
		eventData, err := json.Marshal(event)
		if err != nil {
			continue
		}
		// SSE 格式: data: {json}\n\n
		fmt.Fprintf(c.Writer, "data: %s\n\n", eventData)
		flusher.Flush()
	}
}

func (h *Handler) importSource(c *gin.Context) (importer.Source, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err == nil {
			if fh.Size > maxUploadBytes {
				return nil, fmt.Errorf("文件过大: %d bytes", fh.Size)
			}
			f, err := fh.Open()
			if err != nil {
				return nil, fmt.Errorf("读取上传文件失败: %w", err)
			}
			defer f.Close()
			data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
			if err != nil {
				return nil, fmt.Errorf("读取上传文件失败: %w", err)
			}
			return importer.UploadSource{Name: fh.Filename, Data: data}, nil
		}
		if u := strings.TrimSpace(c.PostForm("url")); u != "" {
			return importer.URLSource{URL: u, Client: h.httpClient}, nil
		}
		return nil, fmt.Errorf("未找到上传文件")
	}

	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.URL) == "" {
		return nil, fmt.Errorf("需要上传文件或提供 url")
	}
	return importer.URLSource{URL: strings.TrimSpace(req.URL), Client: h.httpClient}, nil
}
