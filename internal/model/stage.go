package model

// Discipline 专业（用于时间轴着色与团队筛选）
type Discipline string

const (
	DisciplineArchitecture Discipline = "Architecture"
	DisciplineInterior     Discipline = "Interior"
	DisciplineLandscape    Discipline = "Landscape"
)

// Disciplines 固定顺序：同一行命中多个专业时按此顺序取第一个
var Disciplines = []Discipline{
	DisciplineArchitecture,
	DisciplineInterior,
	DisciplineLandscape,
}

// StageCodes 固定阶段顺序（27 个）
var StageCodes = []string{
	"CD1", "CD2", "CD3", "CD4", "CD5",
	"SD1", "SD2", "SD3", "SD4",
	"MC", "AD",
	"DD1", "DD2", "DD3", "DD4",
	"TD1", "TD2", "TD3", "TD4", "TD5",
	"WD20", "WD40", "WD60", "WD80", "WD100",
	"DC", "CO",
}

var stageDiscipline = map[string]Discipline{
	"CD1": DisciplineArchitecture, "CD2": DisciplineArchitecture, "CD5": DisciplineArchitecture,
	"SD1": DisciplineArchitecture, "SD2": DisciplineArchitecture, "AD": DisciplineArchitecture,
	"DD1": DisciplineArchitecture, "DD2": DisciplineArchitecture,
	"TD1": DisciplineArchitecture, "TD2": DisciplineArchitecture, "TD3": DisciplineArchitecture,
	"WD20": DisciplineArchitecture, "WD40": DisciplineArchitecture, "WD60": DisciplineArchitecture,

	"CD3": DisciplineInterior, "SD3": DisciplineInterior, "DD3": DisciplineInterior,
	"TD4": DisciplineInterior, "WD100": DisciplineInterior,

	"CD4": DisciplineLandscape, "SD4": DisciplineLandscape, "DD4": DisciplineLandscape,
	"TD5": DisciplineLandscape, "WD80": DisciplineLandscape,
}

// DisciplineForStage 阶段所属专业，未登记的阶段归为建筑
func DisciplineForStage(code string) Discipline {
	if d, ok := stageDiscipline[code]; ok {
		return d
	}
	return DisciplineArchitecture
}

// AlertKind 阶段预警级别
type AlertKind string

const (
	AlertNone AlertKind = "none"
	AlertOK   AlertKind = "ok"
	AlertWarn AlertKind = "warn"
	AlertBad  AlertKind = "bad"
)

// StageAlert 阶段预警（级别 + 展示文本）
type StageAlert struct {
	Kind AlertKind `json:"kind"`
	Text string    `json:"text"`
}
