package parser

import (
	"projectintel/internal/model"
)

// requiredFields 识别置信度计入的关键字段
var requiredFields = []Field{FieldCode, FieldName, FieldAllotted, FieldConsumed, FieldProgress}

// SheetRecognizer 表格结构识别器
type SheetRecognizer struct {
	mapper *FieldMapper
}

// NewSheetRecognizer 创建识别器
func NewSheetRecognizer(mapper *FieldMapper) *SheetRecognizer {
	if mapper == nil {
		mapper = NewFieldMapper(nil)
	}
	return &SheetRecognizer{mapper: mapper}
}

// Recognize 识别表格结构：关键字段命中率 + 是否存在重复项目行
func (r *SheetRecognizer) Recognize(sheetName string, t *Table) model.SheetRecognition {
	res := model.SheetRecognition{
		SheetName: sheetName,
		Layout:    model.LayoutUnknown,
	}
	if t == nil || len(t.Headers) == 0 {
		return res
	}

	b := r.mapper.Map(t.Headers)
	res.StageColumns = b.StageColumnCount()

	hit := 0
	for _, f := range requiredFields {
		if b.Has(f) {
			hit++
		} else {
			res.MissingFields = append(res.MissingFields, string(f))
		}
	}
	if res.StageColumns > 0 {
		hit++
	} else {
		res.MissingFields = append(res.MissingFields, "stages")
	}
	res.Score = float64(hit) / float64(len(requiredFields)+1)

	if !b.Has(FieldCode) {
		return res
	}

	seen := make(map[string]int)
	repeated := false
	for _, row := range t.Rows {
		code := b.Text(row, FieldCode)
		if IsNoData(code) {
			continue
		}
		seen[code]++
		if seen[code] > 1 {
			repeated = true
		}
	}
	if repeated {
		res.Layout = model.LayoutWide
	} else {
		res.Layout = model.LayoutFlat
	}
	return res
}
