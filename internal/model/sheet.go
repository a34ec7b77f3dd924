package model

// SheetLayout 表格结构类型（用于输入容错识别）
type SheetLayout string

const (
	// LayoutWide 一个项目重复多行（每个团队分配一行）
	LayoutWide SheetLayout = "wide"
	// LayoutFlat 一个项目一行
	LayoutFlat    SheetLayout = "flat"
	LayoutUnknown SheetLayout = "unknown"
)

// SheetRecognition 表格识别结果
type SheetRecognition struct {
	SheetName     string      `json:"sheetName"`
	Layout        SheetLayout `json:"layout"`
	Score         float64     `json:"score"`
	StageColumns  int         `json:"stageColumns"`
	MissingFields []string    `json:"missingFields"`
}
