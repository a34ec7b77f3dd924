package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"projectintel/internal/model"
	"projectintel/internal/parser"
	"projectintel/internal/service/calculator"
	memstore "projectintel/internal/service/store"
	"projectintel/internal/store"
)

// Coordinator 导入协调器：读取来源 → 识别 → 计算 → 替换当前数据集 → 写入会话缓存
type Coordinator struct {
	engine     *calculator.Engine
	memory     *memstore.MemoryStore
	cache      *store.Store
	recognizer *parser.SheetRecognizer
	logger     *zap.Logger
}

// NewCoordinator 创建导入协调器；cache 可以为空
func NewCoordinator(engine *calculator.Engine, memory *memstore.MemoryStore, cache *store.Store, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		engine:     engine,
		memory:     memory,
		cache:      cache,
		recognizer: parser.NewSheetRecognizer(engine.Mapper()),
		logger:     logger,
	}
}

// ProgressEvent 进度事件
type ProgressEvent struct {
	Type      string      `json:"type"`    // start/info/done/error
	Message   string      `json:"message"` // 事件消息
	Data      interface{} `json:"data"`    // 附加数据
	Timestamp time.Time   `json:"timestamp"`
}

// ImportReport 导入报告
type ImportReport struct {
	DatasetID   string                 `json:"datasetId"`
	FileName    string                 `json:"fileName"`
	Source      string                 `json:"source"`
	SheetName   string                 `json:"sheetName,omitempty"`
	Delimiter   string                 `json:"delimiter,omitempty"`
	Rows        int                    `json:"rows"`
	Projects    int                    `json:"projects"`
	Recognition model.SheetRecognition `json:"recognition"`
	Duration    time.Duration          `json:"duration"`
}

// FailureMessage 加载失败时展示给用户的状态文本
func FailureMessage(err error) string {
	return "Failed to load: " + err.Error()
}

// Import 异步导入，返回进度通道（完成或出错后关闭）
func (c *Coordinator) Import(ctx context.Context, src Source) <-chan ProgressEvent {
	progressChan := make(chan ProgressEvent, 16)

	go func() {
		defer close(progressChan)
		emit := func(evt ProgressEvent) {
			evt.Timestamp = time.Now()
			select {
			case progressChan <- evt:
			case <-ctx.Done():
			}
		}
		_, _ = c.run(ctx, src, emit)
	}()

	return progressChan
}

// Load 同步导入
func (c *Coordinator) Load(ctx context.Context, src Source) (*ImportReport, error) {
	return c.run(ctx, src, func(ProgressEvent) {})
}

// Restore 从会话缓存恢复上一次成功加载的表格
func (c *Coordinator) Restore(ctx context.Context) (*ImportReport, error) {
	if c.cache == nil {
		return nil, store.ErrNoSnapshot
	}
	snap, err := c.cache.LoadSnapshot()
	if err != nil {
		return nil, err
	}
	return c.Load(ctx, TableSource{Name: snap.FileName, Origin: "cache", Table: snap.Table})
}

func (c *Coordinator) run(ctx context.Context, src Source, emit func(ProgressEvent)) (*ImportReport, error) {
	startTime := time.Now()
	datasetID := uuid.New().String()
	log := c.logger.With(zap.String("dataset", datasetID), zap.String("file", src.Describe()))

	emit(ProgressEvent{
		Type:    "start",
		Message: "Loading " + src.Describe(),
		Data:    map[string]string{"datasetId": datasetID, "source": src.Describe()},
	})

	var logID int64
	if c.cache != nil {
		id, err := c.cache.CreateImportLog(datasetID, src.Describe(), "")
		if err != nil {
			log.Warn("create import log failed", zap.Error(err))
		}
		logID = id
	}

	fail := func(err error) (*ImportReport, error) {
		msg := FailureMessage(err)
		c.memory.Fail(msg)
		log.Error("import failed", zap.Error(err))
		if logID > 0 {
			if lerr := c.cache.FinishImportLog(logID, "error", 0, 0, err.Error()); lerr != nil {
				log.Warn("finish import log failed", zap.Error(lerr))
			}
		}
		emit(ProgressEvent{Type: "error", Message: msg})
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	loaded, err := src.Load(ctx)
	if err != nil {
		return fail(err)
	}
	if loaded.Table == nil {
		loaded.Table = &parser.Table{}
	}

	recognition := c.recognizer.Recognize(loaded.SheetName, loaded.Table)
	emit(ProgressEvent{
		Type:    "info",
		Message: fmt.Sprintf("Read %d rows, layout %s", len(loaded.Table.Rows), recognition.Layout),
		Data:    recognition,
	})
	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	info := model.DatasetInfo{
		ID:         datasetID,
		FileName:   loaded.FileName,
		Source:     loaded.Source,
		SheetName:  loaded.SheetName,
		Delimiter:  loaded.Delimiter,
		LoadedAt:   time.Now(),
		Recognized: recognition,
	}
	ds := c.engine.BuildDataset(info, loaded.Table)
	c.memory.Swap(ds, loaded.Table)

	if c.cache != nil && loaded.Source != "cache" {
		if err := c.cache.SaveSnapshot(store.Snapshot{
			DatasetID: datasetID,
			FileName:  loaded.FileName,
			Source:    loaded.Source,
			SheetName: loaded.SheetName,
			Table:     loaded.Table,
		}); err != nil {
			log.Warn("save session snapshot failed", zap.Error(err))
		}
	}

	report := &ImportReport{
		DatasetID:   datasetID,
		FileName:    loaded.FileName,
		Source:      loaded.Source,
		SheetName:   loaded.SheetName,
		Delimiter:   loaded.Delimiter,
		Rows:        len(loaded.Table.Rows),
		Projects:    len(ds.Projects),
		Recognition: recognition,
		Duration:    time.Since(startTime),
	}
	if logID > 0 {
		if err := c.cache.FinishImportLog(logID, "done", report.Projects, report.Rows, ""); err != nil {
			log.Warn("finish import log failed", zap.Error(err))
		}
	}
	log.Info("import done",
		zap.Int("rows", report.Rows),
		zap.Int("projects", report.Projects),
		zap.String("layout", string(recognition.Layout)),
		zap.Duration("duration", report.Duration),
	)

	emit(ProgressEvent{Type: "done", Message: "Loaded " + loaded.FileName, Data: report})
	return report, nil
}
