package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"projectintel/internal/exporter"
	"projectintel/internal/importer"
	"projectintel/internal/service/calculator"
	"projectintel/internal/service/dashboard"
	memstore "projectintel/internal/service/store"
	"projectintel/internal/store"
)

// 业务错误码
const (
	CodeOK           = 0
	CodeBadRequest   = 1001
	CodeNoData       = 2001
	CodeNotFound     = 4004
	CodeImportFailed = 5001
	CodeInternal     = 5000
)

// maxUploadBytes 上传文件大小上限
const maxUploadBytes = 64 << 20

// Handler API 处理器
type Handler struct {
	memory      *memstore.MemoryStore
	engine      *calculator.Engine
	coordinator *importer.Coordinator
	session     *dashboard.Session
	cache       *store.Store
	exporter    *exporter.Exporter
	downloads   *downloadRegistry
	httpClient  *http.Client
	logger      *zap.Logger
}

// Deps 处理器依赖；Cache 可以为空
type Deps struct {
	Memory      *memstore.MemoryStore
	Engine      *calculator.Engine
	Coordinator *importer.Coordinator
	Session     *dashboard.Session
	Cache       *store.Store
	HTTPClient  *http.Client
	Logger      *zap.Logger
}

// NewHandler 创建 API 处理器
func NewHandler(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	client := d.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	session := d.Session
	if session == nil {
		session = dashboard.NewSession(d.Memory)
	}
	return &Handler{
		memory:      d.Memory,
		engine:      d.Engine,
		coordinator: d.Coordinator,
		session:     session,
		cache:       d.Cache,
		exporter:    exporter.NewExporter(),
		downloads:   newDownloadRegistry(),
		httpClient:  client,
		logger:      logger,
	}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)
	router.GET("/imports", h.ListImports)

	// 数据导入
	router.POST("/import", h.Import)

	// 仪表盘状态
	router.GET("/state", h.GetState)
	router.POST("/state", h.Dispatch)
	router.DELETE("/session", h.ResetSession)

	// 项目
	router.GET("/projects", h.ListProjects)
	router.GET("/projects/:code", h.GetProject)
	router.GET("/projects/:code/timeline", h.GetTimeline)
	router.GET("/projects/:code/metrics", h.GetMetrics)
	router.GET("/projects/:code/rows", h.GetRows)
	router.POST("/projects/:code/runway", h.SimulateRunway)

	// 数据导出
	router.GET("/export", h.Export)
	router.POST("/export/stream", h.ExportStream)
	router.GET("/export/download/:token", h.DownloadExport)
}

// Response 通用响应
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeOK,
		Message: "success",
		Data:    data,
	})
}

func errorResponse(c *gin.Context, code int, message string) {
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: message,
	})
}
