package parser

// Row 一行原始单元格（string / float64 / time.Time / nil），按列位置存放
type Row []any

// Cell 取第 i 列，越界返回 nil
func (r Row) Cell(i int) any {
	if i < 0 || i >= len(r) {
		return nil
	}
	return r[i]
}

// Filled 非哨兵单元格数量
func (r Row) Filled() int {
	n := 0
	for _, v := range r {
		if !IsNoData(v) {
			n++
		}
	}
	return n
}

// Table 表头 + 数据行（每行长度与表头一致）
type Table struct {
	Headers []string `json:"headers"`
	Rows    []Row    `json:"rows"`
}

// Object 把一行转成 表头 -> 单元格 的映射（原始行视图）
func (t *Table) Object(r Row) map[string]any {
	out := make(map[string]any, len(t.Headers))
	for i, h := range t.Headers {
		out[h] = r.Cell(i)
	}
	return out
}

// HeaderIndex 规范化列名 -> 原始列名（及列位置）
// 同一规范化键出现多次时后者覆盖前者
type HeaderIndex struct {
	headers []string
	keys    map[string]int
}

// NewHeaderIndex 构建列名索引
func NewHeaderIndex(headers []string) *HeaderIndex {
	idx := &HeaderIndex{
		headers: headers,
		keys:    make(map[string]int, len(headers)),
	}
	for i, h := range headers {
		idx.keys[NormalizeKey(h)] = i
	}
	return idx
}

// Lookup 按任意写法查找原始列名
func (x *HeaderIndex) Lookup(candidate string) (string, bool) {
	i, ok := x.Column(candidate)
	if !ok {
		return "", false
	}
	return x.headers[i], true
}

// Column 按任意写法查找列位置
func (x *HeaderIndex) Column(candidate string) (int, bool) {
	i, ok := x.keys[NormalizeKey(candidate)]
	return i, ok
}

// Resolve 按候选顺序返回第一个存在的列
func (x *HeaderIndex) Resolve(candidates []string) (int, bool) {
	for _, c := range candidates {
		if i, ok := x.Column(c); ok {
			return i, true
		}
	}
	return -1, false
}

// ResolveAll 返回所有命中的列（按候选顺序去重）
func (x *HeaderIndex) ResolveAll(candidates []string) []int {
	var out []int
	seen := make(map[int]struct{})
	for _, c := range candidates {
		i, ok := x.Column(c)
		if !ok {
			continue
		}
		if _, dup := seen[i]; dup {
			continue
		}
		seen[i] = struct{}{}
		out = append(out, i)
	}
	return out
}
