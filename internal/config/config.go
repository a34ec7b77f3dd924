package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"projectintel/internal/store"
)

// AppConfig 应用配置
type AppConfig struct {
	Server   ServerConfig   `toml:"server"`
	Data     DataConfig     `toml:"data"`
	Source   SourceConfig   `toml:"source"`
	Business BusinessConfig `toml:"business"`
	Schema   SchemaConfig   `toml:"schema"`
	Log      LogConfig      `toml:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir string `toml:"data_dir"`
	// CacheDB 会话缓存数据库；为空时只在进程内存中缓存
	CacheDB string `toml:"cache_db"`
	// Watch 数据文件变化时自动重新导入
	Watch bool `toml:"watch"`
}

// SourceConfig 启动时自动加载的默认数据集
type SourceConfig struct {
	DefaultFile     string `toml:"default_file"`
	DefaultURL      string `toml:"default_url"`
	SpreadsheetID   string `toml:"spreadsheet_id"`
	SheetRange      string `toml:"sheet_range"`
	CredentialsFile string `toml:"credentials_file"`
}

// BusinessConfig 业务配置
type BusinessConfig struct {
	DueSoonDays int `toml:"due_soon_days"`
}

// SchemaConfig 字段同义词配置
type SchemaConfig struct {
	SynonymsFile string `toml:"synonyms_file"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `toml:"level"`
	Dev   bool   `toml:"dev"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	Found         bool
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20261,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Business: BusinessConfig{
			DueSoonDays: 14,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// DefaultPath 可执行文件同目录下的 config.toml
func DefaultPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, "config.toml")
}

// LoadConfigWithInfo 从 config.toml 加载配置并返回元信息；path 为空时使用 DefaultPath
func LoadConfigWithInfo(path string) (*AppConfig, LoadConfigInfo, error) {
	if path == "" {
		path = DefaultPath()
	}
	info := LoadConfigInfo{Path: path}
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// 配置文件不存在，使用默认配置
			ApplyEnv(config)
			return config, info, nil
		}
		return nil, info, err
	}
	info.Found = true
	info.PortSpecified = isPortSpecifiedInToml(data)

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, info, fmt.Errorf("parse %s: %w", path, err)
	}
	if config.Business.DueSoonDays <= 0 {
		config.Business.DueSoonDays = DefaultConfig().Business.DueSoonDays
	}

	ApplyEnv(config)
	return config, info, nil
}

// LoadConfig 从 config.toml 加载配置
func LoadConfig(path string) (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo(path)
	return config, err
}

// SaveConfig 保存配置到 path
func SaveConfig(config *AppConfig, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadEnv 读取 .env 文件到进程环境变量；文件不存在时忽略，已有的环境变量优先
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// ApplyEnv 环境变量覆盖
func ApplyEnv(config *AppConfig) {
	if v := strings.TrimSpace(os.Getenv("PROJECTINTEL_PORT")); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			config.Server.Port = port
		}
	}
	if v := strings.TrimSpace(os.Getenv("PROJECTINTEL_DEFAULT_URL")); v != "" {
		config.Source.DefaultURL = v
	}
	if v := strings.TrimSpace(os.Getenv("PROJECTINTEL_DB_PATH")); v != "" {
		config.Data.CacheDB = v
	}
	if v := strings.TrimSpace(os.Getenv("SPREADSHEET_ID")); v != "" {
		config.Source.SpreadsheetID = v
	}
	if v := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")); v != "" {
		config.Source.CredentialsFile = v
	}
}

// EnsureDataDir 确保数据目录存在；相对路径以可执行文件目录为基准
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := config.Data.DataDir
	if !filepath.IsAbs(dataDir) {
		exeDir, err := GetExeDir()
		if err != nil {
			exeDir = "."
		}
		dataDir = filepath.Join(exeDir, dataDir)
	}
	if err := os.MkdirAll(filepath.Join(dataDir, "exports"), 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}

// CacheDSN 会话缓存的 SQLite DSN
func CacheDSN(config *AppConfig) string {
	if config.Data.CacheDB == "" {
		return store.MemoryDSN
	}
	return config.Data.CacheDB
}
