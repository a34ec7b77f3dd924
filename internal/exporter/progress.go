package exporter

// ProgressEvent 导出进度（按已写完的工作表计算）
type ProgressEvent struct {
	Percent int
	Stage   string
	Done    int
	Total   int
}

type progressTracker struct {
	fn    func(ProgressEvent)
	total int
	done  int
}

func newProgressTracker(fn func(ProgressEvent), total int) *progressTracker {
	return &progressTracker{fn: fn, total: total}
}

// begin 开始写 stage 对应的工作表
func (p *progressTracker) begin(stage string) {
	p.emit(stage)
}

// finish stage 写完
func (p *progressTracker) finish(stage string) {
	if p.done < p.total {
		p.done++
	}
	p.emit(stage)
}

func (p *progressTracker) emit(stage string) {
	if p.fn == nil || p.total <= 0 {
		return
	}
	p.fn(ProgressEvent{
		Percent: p.done * 100 / p.total,
		Stage:   stage,
		Done:    p.done,
		Total:   p.total,
	})
}
