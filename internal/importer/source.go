package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"projectintel/internal/parser"
	"projectintel/internal/service/excel"
	"projectintel/internal/sheets"
)

// ErrUnsupportedFormat 不支持的文件扩展名
var ErrUnsupportedFormat = errors.New("unsupported file type")

// ErrNoSheets 工作簿没有任何工作表
var ErrNoSheets = excel.ErrNoSheets

// Loaded 一次读取得到的原始表格
type Loaded struct {
	FileName  string
	Source    string
	SheetName string
	Delimiter string
	Table     *parser.Table
}

// Source 数据来源
type Source interface {
	// Describe 用于日志与进度事件的来源描述
	Describe() string
	Load(ctx context.Context) (*Loaded, error)
}

// ReadBytes 按扩展名解析文件内容
func ReadBytes(name string, data []byte) (*Loaded, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".csv", ".tsv", ".txt":
		text := string(data)
		delim := DetectDelimiter(text)
		rows := ParseDelimited(text, delim)
		return &Loaded{
			FileName:  filepath.Base(name),
			Delimiter: delimiterName(delim),
			Table:     MatrixToTable(StringMatrix(rows)),
		}, nil
	case ".xlsx", ".xlsm", ".xls":
		return readWorkbook(name, data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

func readWorkbook(name string, data []byte) (*Loaded, error) {
	p := excel.NewParser()
	if err := p.LoadFile(bytes.NewReader(data)); err != nil {
		return nil, err
	}
	defer p.Close()

	sheet, err := p.FirstSheet()
	if err != nil {
		return nil, err
	}
	matrix, err := p.ReadMatrix(sheet)
	if err != nil {
		return nil, err
	}
	return &Loaded{
		FileName:  filepath.Base(name),
		SheetName: sheet,
		Table:     MatrixToTable(matrix),
	}, nil
}

// FileSource 本地文件
type FileSource struct {
	Path string
}

// Describe 来源描述
func (s FileSource) Describe() string { return s.Path }

// Load 读取本地文件
func (s FileSource) Load(_ context.Context) (*Loaded, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	l, err := ReadBytes(s.Path, data)
	if err != nil {
		return nil, err
	}
	l.Source = "file"
	return l, nil
}

// UploadSource 上传的文件内容
type UploadSource struct {
	Name string
	Data []byte
}

// Describe 来源描述
func (s UploadSource) Describe() string { return s.Name }

// Load 解析上传内容
func (s UploadSource) Load(_ context.Context) (*Loaded, error) {
	l, err := ReadBytes(s.Name, s.Data)
	if err != nil {
		return nil, err
	}
	l.Source = "upload"
	return l, nil
}

// URLSource 远程默认数据集
type URLSource struct {
	URL    string
	Client *http.Client
}

// Describe 来源描述
func (s URLSource) Describe() string { return s.URL }

// Load 下载并解析远程文件；非 2xx 视为失败
func (s URLSource) Load(ctx context.Context) (*Loaded, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.URL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: HTTP %d", s.URL, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	name := "default.csv"
	if u, err := url.Parse(s.URL); err == nil {
		if base := path.Base(u.Path); base != "" && base != "/" && base != "." && filepath.Ext(base) != "" {
			name = base
		}
	}
	l, err := ReadBytes(name, data)
	if err != nil {
		return nil, err
	}
	l.Source = "url"
	return l, nil
}

// SheetSource Google Sheets（Range 为空时读取第一个工作表）
type SheetSource struct {
	Client *sheets.Client
	Range  string
}

// Describe 来源描述
func (s SheetSource) Describe() string {
	return "sheets:" + s.Client.SpreadsheetID() + "/" + s.Range
}

// Load 读取 Google Sheets 区域
func (s SheetSource) Load(ctx context.Context) (*Loaded, error) {
	readRange := s.Range
	if readRange == "" {
		first, err := s.Client.FirstSheet(ctx)
		if err != nil {
			return nil, err
		}
		readRange = first
	}
	values, err := s.Client.FetchRows(ctx, readRange)
	if err != nil {
		return nil, err
	}
	return &Loaded{
		FileName:  s.Client.SpreadsheetID(),
		Source:    "sheets",
		SheetName: readRange,
		Table:     MatrixToTable(values),
	}, nil
}

// TableSource 已解析的表格（会话缓存恢复使用）
type TableSource struct {
	Name   string
	Origin string
	Table  *parser.Table
}

// Describe 来源描述
func (s TableSource) Describe() string { return s.Name }

// Load 直接返回表格
func (s TableSource) Load(_ context.Context) (*Loaded, error) {
	if s.Table == nil {
		return nil, errors.New("empty cached table")
	}
	return &Loaded{FileName: s.Name, Source: s.Origin, Table: s.Table}, nil
}

func delimiterName(d rune) string {
	if d == '\t' {
		return "tab"
	}
	return string(d)
}
