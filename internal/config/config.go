package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"pomodoro/timer/internal/model"
	"pomodoro/timer/internal/timer"
)

const (
	EnvPrefix      = "POMODORO"
	configName     = "pomodoro"
	defaultPort    = "8080"
	defaultAppName = timer.DefaultAppName
)

type Config struct {
	AppName  string         `mapstructure:"app_name" yaml:"app_name"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	DB       DBConfig       `mapstructure:"db" yaml:"db"`
	Timer    TimerConfig    `mapstructure:"timer" yaml:"timer"`
	Sessions SessionsConfig `mapstructure:"sessions" yaml:"sessions"`
	Theme    ThemeConfig    `mapstructure:"theme" yaml:"theme"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

type ServerConfig struct {
	Port        string   `mapstructure:"port" yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

type DBConfig struct {
	// Path is a SQLite file, or ":memory:" to keep the log for the process lifetime only.
	Path          string `mapstructure:"path" yaml:"path"`
	MigrationsDir string `mapstructure:"migrations_dir" yaml:"migrations_dir"`
}

type TimerConfig struct {
	WorkMinutes  int           `mapstructure:"work_minutes" yaml:"work_minutes"`
	BreakMinutes int           `mapstructure:"break_minutes" yaml:"break_minutes"`
	TickInterval time.Duration `mapstructure:"tick_interval" yaml:"tick_interval"`
}

type SessionsConfig struct {
	// Retention caps the log at this many newest entries; 0 keeps everything.
	Retention int `mapstructure:"retention" yaml:"retention"`
}

type ThemeConfig struct {
	UseGradient              bool   `mapstructure:"use_gradient" yaml:"use_gradient"`
	BackgroundColor          string `mapstructure:"background_color" yaml:"background_color"`
	TextColor                string `mapstructure:"text_color" yaml:"text_color"`
	GradientAnimationSeconds int    `mapstructure:"gradient_animation_seconds" yaml:"gradient_animation_seconds"`
}

type LogConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Development bool   `mapstructure:"development" yaml:"development"`
}

func Default() Config {
	return Config{
		AppName: defaultAppName,
		Server: ServerConfig{
			Port:        defaultPort,
			CORSOrigins: []string{"http://localhost:5173", "http://127.0.0.1:5173"},
		},
		DB: DBConfig{
			Path: ":memory:",
		},
		Timer: TimerConfig{
			WorkMinutes:  model.DefaultWorkDurationSeconds / 60,
			BreakMinutes: model.DefaultBreakDurationSeconds / 60,
			TickInterval: time.Second,
		},
		Sessions: SessionsConfig{
			Retention: 500,
		},
		Theme: ThemeConfig{
			UseGradient:              true,
			BackgroundColor:          model.DefaultBackgroundColor,
			TextColor:                model.DefaultTextColor,
			GradientAnimationSeconds: model.DefaultGradientAnimationSeconds,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads defaults, then the YAML file, then POMODORO_* environment
// variables. An empty path searches ./pomodoro.yaml and the user config dir;
// a missing file is only an error when path was given explicitly.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, configName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Default(), fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Default(), fmt.Errorf("decode config: %w", err)
	}
	return cfg.Normalize(), nil
}

// Normalize clamps values so the timer never sees a duration under a minute.
func (c Config) Normalize() Config {
	defaults := Default()
	if strings.TrimSpace(c.AppName) == "" {
		c.AppName = defaults.AppName
	}
	if strings.TrimSpace(c.Server.Port) == "" {
		c.Server.Port = defaults.Server.Port
	}
	c.Server.CORSOrigins = cleanList(c.Server.CORSOrigins)
	if strings.TrimSpace(c.DB.Path) == "" {
		c.DB.Path = defaults.DB.Path
	}
	if c.Timer.WorkMinutes < 1 {
		c.Timer.WorkMinutes = 1
	}
	if c.Timer.BreakMinutes < 1 {
		c.Timer.BreakMinutes = 1
	}
	if c.Timer.TickInterval <= 0 {
		c.Timer.TickInterval = defaults.Timer.TickInterval
	}
	if c.Sessions.Retention < 0 {
		c.Sessions.Retention = 0
	}
	if strings.TrimSpace(c.Log.Level) == "" {
		c.Log.Level = defaults.Log.Level
	}
	return c
}

// Settings is the initial settings-store value described by this config.
func (c Config) Settings() model.Settings {
	return model.Settings{
		WorkDurationSeconds:  c.Timer.WorkMinutes * 60,
		BreakDurationSeconds: c.Timer.BreakMinutes * 60,
		Presentation: model.Presentation{
			UseGradient:              c.Theme.UseGradient,
			BackgroundColor:          c.Theme.BackgroundColor,
			TextColor:                c.Theme.TextColor,
			GradientAnimationSeconds: c.Theme.GradientAnimationSeconds,
		},
	}
}

// WriteDefault writes the default configuration as YAML, refusing to overwrite.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %s already exists", path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	serialized, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("marshal config yaml: %w", err)
	}
	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper, defaults Config) {
	v.SetDefault("app_name", defaults.AppName)
	v.SetDefault("server.port", defaults.Server.Port)
	v.SetDefault("server.cors_origins", defaults.Server.CORSOrigins)
	v.SetDefault("db.path", defaults.DB.Path)
	v.SetDefault("db.migrations_dir", defaults.DB.MigrationsDir)
	v.SetDefault("timer.work_minutes", defaults.Timer.WorkMinutes)
	v.SetDefault("timer.break_minutes", defaults.Timer.BreakMinutes)
	v.SetDefault("timer.tick_interval", defaults.Timer.TickInterval)
	v.SetDefault("sessions.retention", defaults.Sessions.Retention)
	v.SetDefault("theme.use_gradient", defaults.Theme.UseGradient)
	v.SetDefault("theme.background_color", defaults.Theme.BackgroundColor)
	v.SetDefault("theme.text_color", defaults.Theme.TextColor)
	v.SetDefault("theme.gradient_animation_seconds", defaults.Theme.GradientAnimationSeconds)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.development", defaults.Log.Development)
}

func cleanList(values []string) []string {
	items := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				items = append(items, trimmed)
			}
		}
	}
	return items
}
