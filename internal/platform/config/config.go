package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	// DatasetSourceFile は JSON ファイルから社員データを読み込みます。
	DatasetSourceFile = "file"
	// DatasetSourcePostgres は PostgreSQL から社員データを読み込みます。
	DatasetSourcePostgres = "postgres"
	// DatasetSourceNone は起動時に社員データを読み込みません。
	DatasetSourceNone = "none"

	envPrefix = "ROSTER_"
)

// Config はアプリケーション全体の設定を表現します。
type Config struct {
	Server   ServerConfig   `yaml:"server" envPrefix:"SERVER_"`
	Log      LogConfig      `yaml:"log" envPrefix:"LOG_"`
	Dataset  DatasetConfig  `yaml:"dataset" envPrefix:"DATASET_"`
	Database DatabaseConfig `yaml:"database" envPrefix:"DATABASE_"`
	I18n     I18nConfig     `yaml:"i18n" envPrefix:"I18N_"`
	Roster   RosterConfig   `yaml:"roster"`
}

// ServerConfig は gRPC サーバーに関する設定です。
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr" env:"LISTEN_ADDR"`
}

// LogConfig はロガーの設定です。
type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

// DatasetConfig は起動時に投入する社員データの取得元です。
type DatasetConfig struct {
	Source string `yaml:"source" env:"SOURCE"`
	Path   string `yaml:"path" env:"PATH"`
}

// DatabaseConfig は PostgreSQL 接続に関する設定です。
type DatabaseConfig struct {
	Host               string        `yaml:"host" env:"HOST"`
	Port               int           `yaml:"port" env:"PORT"`
	User               string        `yaml:"user" env:"USER"`
	Password           string        `yaml:"password" env:"PASSWORD"`
	Name               string        `yaml:"name" env:"NAME"`
	SSLMode            string        `yaml:"ssl_mode" env:"SSL_MODE"`
	MaxOpenConns       int           `yaml:"max_open_conns" env:"MAX_OPEN_CONNS"`
	MaxIdleConns       int           `yaml:"max_idle_conns" env:"MAX_IDLE_CONNS"`
	ConnMaxLifetime    time.Duration `yaml:"-"`
	ConnMaxIdleTime    time.Duration `yaml:"-"`
	ConnMaxLifetimeRaw string        `yaml:"conn_max_lifetime" env:"CONN_MAX_LIFETIME"`
	ConnMaxIdleTimeRaw string        `yaml:"conn_max_idle_time" env:"CONN_MAX_IDLE_TIME"`
}

// I18nConfig は翻訳辞書に関する設定です。
// Dir が空の場合はバイナリに埋め込まれた辞書を利用します。
type I18nConfig struct {
	DefaultLocale string `yaml:"default_locale" env:"DEFAULT_LOCALE"`
	Dir           string `yaml:"dir" env:"DIR"`
	// SupersedeStale を有効にすると、最後に要求されたロケールだけが切り替えを確定できます。
	SupersedeStale bool `yaml:"supersede_stale" env:"SUPERSEDE_STALE"`
}

// RosterConfig は一覧表示に関する設定です。
type RosterConfig struct {
	ItemsPerPage int `yaml:"items_per_page" env:"ITEMS_PER_PAGE"`
}

// Load は指定されたパスから設定ファイルを読み込み、ROSTER_ 接頭辞の環境変数で上書きします。
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validateAndNormalize() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("config: server.listen_addr must be set")
	}

	if err := c.Log.validateAndNormalize(); err != nil {
		return err
	}

	if c.I18n.DefaultLocale == "" {
		c.I18n.DefaultLocale = "en"
	}

	if c.Roster.ItemsPerPage == 0 {
		c.Roster.ItemsPerPage = 10
	}
	if c.Roster.ItemsPerPage < 0 {
		return fmt.Errorf("config: roster.items_per_page must be positive")
	}

	switch strings.ToLower(strings.TrimSpace(c.Dataset.Source)) {
	case "", DatasetSourceNone:
		c.Dataset.Source = DatasetSourceNone
	case DatasetSourceFile:
		c.Dataset.Source = DatasetSourceFile
		if c.Dataset.Path == "" {
			return fmt.Errorf("config: dataset.path must be set when dataset.source is %q", DatasetSourceFile)
		}
	case DatasetSourcePostgres:
		c.Dataset.Source = DatasetSourcePostgres
		if err := c.Database.validateAndNormalize(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("config: unsupported dataset.source %q", c.Dataset.Source)
	}

	return nil
}

func (l *LogConfig) validateAndNormalize() error {
	if l.Level == "" {
		l.Level = "info"
	}
	switch l.Format {
	case "":
		l.Format = "text"
	case "text", "json":
	default:
		return fmt.Errorf("config: unsupported log.format %q", l.Format)
	}
	return nil
}

// Validate は PostgreSQL 接続設定を検証し、既定値を補完します。
func (d *DatabaseConfig) Validate() error {
	return d.validateAndNormalize()
}

func (d *DatabaseConfig) validateAndNormalize() error {
	if d.Host == "" {
		return fmt.Errorf("config: database.host must be set")
	}
	if d.Port == 0 {
		return fmt.Errorf("config: database.port must be set")
	}
	if d.User == "" {
		return fmt.Errorf("config: database.user must be set")
	}
	if d.Password == "" {
		return fmt.Errorf("config: database.password must be set")
	}
	if d.Name == "" {
		return fmt.Errorf("config: database.name must be set")
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}

	lifetime, err := parseDurationAllowEmpty(d.ConnMaxLifetimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_lifetime: %w", err)
	}
	d.ConnMaxLifetime = lifetime

	idleTime, err := parseDurationAllowEmpty(d.ConnMaxIdleTimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_idle_time: %w", err)
	}
	d.ConnMaxIdleTime = idleTime

	return nil
}

func parseDurationAllowEmpty(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	return time.ParseDuration(raw)
}

// DSN は pgx 用の接続文字列を返します。ユーザー名とパスワードはエスケープされます。
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + strconv.Itoa(d.Port),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}
