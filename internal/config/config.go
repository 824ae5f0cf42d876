package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	MaxSuggestions int    `mapstructure:"max_suggestions" yaml:"max_suggestions"`
	MaxRows        int    `mapstructure:"max_rows" yaml:"max_rows"`
	Delimiter      string `mapstructure:"delimiter" yaml:"delimiter"`
	Sheet          string `mapstructure:"sheet" yaml:"sheet"`
	OutputFormat   string `mapstructure:"output_format" yaml:"output_format"`

	// HTTP server
	ServerAddr  string `mapstructure:"server_addr" yaml:"server_addr"`
	UploadMaxMB int    `mapstructure:"upload_max_mb" yaml:"upload_max_mb"`

	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`

	// Parallel files for recommend-batch
	BatchJobs int `mapstructure:"batch_jobs" yaml:"batch_jobs"`
}

// Keys lists the settable keys in display order.
var Keys = []string{
	"max_suggestions", "max_rows", "delimiter", "sheet", "output_format",
	"server_addr", "upload_max_mb", "log_level", "log_format", "batch_jobs",
}

// Dir returns ~/.instante.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".instante"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.instante/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Defaults returns the built-in configuration.
func Defaults() *Global {
	return &Global{
		MaxSuggestions: 8,
		MaxRows:        100000,
		Delimiter:      "auto",
		OutputFormat:   "markdown",
		ServerAddr:     ":8080",
		UploadMaxMB:    32,
		LogLevel:       "info",
		LogFormat:      "text",
		BatchJobs:      4,
	}
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("INSTANTE")
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault("max_suggestions", d.MaxSuggestions)
	v.SetDefault("max_rows", d.MaxRows)
	v.SetDefault("delimiter", d.Delimiter)
	v.SetDefault("sheet", d.Sheet)
	v.SetDefault("output_format", d.OutputFormat)
	v.SetDefault("server_addr", d.ServerAddr)
	v.SetDefault("upload_max_mb", d.UploadMaxMB)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("batch_jobs", d.BatchJobs)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Set parses and assigns one key. Values are validated before assignment.
func (c *Global) Set(key, val string) error {
	positive := func() (int, error) {
		i, err := strconv.Atoi(val)
		if err != nil || i <= 0 {
			return 0, fmt.Errorf("invalid positive int for %s: %v", key, val)
		}
		return i, nil
	}
	switch key {
	case "max_suggestions":
		i, err := positive()
		if err != nil {
			return err
		}
		c.MaxSuggestions = i
	case "max_rows":
		i, err := positive()
		if err != nil {
			return err
		}
		c.MaxRows = i
	case "upload_max_mb":
		i, err := positive()
		if err != nil {
			return err
		}
		c.UploadMaxMB = i
	case "batch_jobs":
		i, err := positive()
		if err != nil {
			return err
		}
		c.BatchJobs = i
	case "delimiter":
		switch strings.ToLower(val) {
		case "auto", "comma", "semicolon", "tab", ",", ";", "\\t":
			c.Delimiter = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid delimiter: %s (use auto, comma, semicolon or tab)", val)
		}
	case "sheet":
		c.Sheet = val
	case "output_format":
		switch strings.ToLower(val) {
		case "markdown", "md":
			c.OutputFormat = "markdown"
		case "json", "yaml":
			c.OutputFormat = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid output_format: %s (use markdown, json or yaml)", val)
		}
	case "server_addr":
		c.ServerAddr = val
	case "log_level":
		switch strings.ToLower(val) {
		case "debug", "info", "warn", "error":
			c.LogLevel = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_level: %s (use debug, info, warn or error)", val)
		}
	case "log_format":
		switch strings.ToLower(val) {
		case "text", "json":
			c.LogFormat = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_format: %s (use text or json)", val)
		}
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

// Get returns the display value of key.
func (c *Global) Get(key string) string {
	switch key {
	case "max_suggestions":
		return strconv.Itoa(c.MaxSuggestions)
	case "max_rows":
		return strconv.Itoa(c.MaxRows)
	case "delimiter":
		return c.Delimiter
	case "sheet":
		return c.Sheet
	case "output_format":
		return c.OutputFormat
	case "server_addr":
		return c.ServerAddr
	case "upload_max_mb":
		return strconv.Itoa(c.UploadMaxMB)
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "batch_jobs":
		return strconv.Itoa(c.BatchJobs)
	}
	return ""
}

// DelimiterRune maps the delimiter setting to a rune; 0 means sniff.
func (c *Global) DelimiterRune() rune {
	return ParseDelimiter(c.Delimiter)
}

// ParseDelimiter maps auto, comma, semicolon, tab (or the literal
// characters) to a rune. Unknown values sniff.
func ParseDelimiter(s string) rune {
	switch strings.ToLower(s) {
	case "comma", ",":
		return ','
	case "semicolon", ";":
		return ';'
	case "tab", "\\t", "\t":
		return '\t'
	default:
		return 0
	}
}
