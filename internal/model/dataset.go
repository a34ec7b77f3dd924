package model

import "time"

// DatasetInfo 数据集元信息
type DatasetInfo struct {
	ID         string           `json:"id"`
	FileName   string           `json:"fileName"`
	Source     string           `json:"source"`
	SheetName  string           `json:"sheetName,omitempty"`
	Delimiter  string           `json:"delimiter,omitempty"`
	RowCount   int              `json:"rowCount"`
	LoadedAt   time.Time        `json:"loadedAt"`
	Recognized SheetRecognition `json:"recognition"`
}

// Dataset 一次导入得到的完整派生模型
type Dataset struct {
	Info     DatasetInfo   `json:"info"`
	Headers  []string      `json:"headers"`
	Projects []*Project    `json:"projects"`
	Cards    []ProjectCard `json:"cards"`
}

// Project 按编码查找项目
func (d *Dataset) Project(code string) (*Project, bool) {
	if d == nil {
		return nil, false
	}
	for _, p := range d.Projects {
		if p.Code == code {
			return p, true
		}
	}
	return nil, false
}
