package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// ErrNoSheets 表格中没有任何工作表
var ErrNoSheets = errors.New("no sheets found")

// Client Google Sheets 只读客户端
type Client struct {
	srv           *sheets.Service
	spreadsheetID string
}

// NewClient 使用服务账号凭据创建客户端
// credsPath 为空时读取 GOOGLE_APPLICATION_CREDENTIALS，仍为空则使用 credentials.json
func NewClient(ctx context.Context, spreadsheetID, credsPath string) (*Client, error) {
	if credsPath == "" {
		credsPath = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	}
	if credsPath == "" {
		credsPath = "credentials.json"
	}

	b, err := os.ReadFile(credsPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}

	config, err := google.JWTConfigFromJSON(b, sheets.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials file: %w", err)
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return &Client{srv: srv, spreadsheetID: spreadsheetID}, nil
}

// SpreadsheetID 表格 ID
func (c *Client) SpreadsheetID() string {
	return c.spreadsheetID
}

// FirstSheet 第一个工作表的名称
func (c *Client) FirstSheet(ctx context.Context) (string, error) {
	sp, err := c.srv.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to get spreadsheet: %w", err)
	}
	for _, s := range sp.Sheets {
		if s.Properties != nil && s.Properties.Title != "" {
			return s.Properties.Title, nil
		}
	}
	return "", ErrNoSheets
}

// FetchRows 读取区域的原始值：数字保持数字，日期返回序列号
func (c *Client) FetchRows(ctx context.Context, readRange string) ([][]interface{}, error) {
	resp, err := c.srv.Spreadsheets.Values.Get(c.spreadsheetID, readRange).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("SERIAL_NUMBER").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve data from sheet: %w", err)
	}
	return resp.Values, nil
}
