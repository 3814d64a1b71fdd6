package config

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/language"
)

// Config holds the full application configuration.
type Config struct {
	Worklist   WorklistConfig   `yaml:"worklist" mapstructure:"worklist"`
	Output     OutputConfig     `yaml:"output" mapstructure:"output"`
	Download   DownloadConfig   `yaml:"download" mapstructure:"download"`
	Transcribe TranscribeConfig `yaml:"transcribe" mapstructure:"transcribe"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// WorklistConfig configures worklist discovery and parsing.
type WorklistConfig struct {
	Filename string `yaml:"filename" mapstructure:"filename"`
	Marker   string `yaml:"marker" mapstructure:"marker"`
	Sheet    string `yaml:"sheet" mapstructure:"sheet"`
	SkipRows int    `yaml:"skip_rows" mapstructure:"skip_rows"`
}

// OutputConfig configures where artifacts, checkpoint, and reports land.
type OutputConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// AudioDir is where downloaded audio artifacts are stored.
func (c OutputConfig) AudioDir() string { return filepath.Join(c.Dir, "audio") }

// CheckpointPath is the progress snapshot location.
func (c OutputConfig) CheckpointPath() string { return filepath.Join(c.Dir, "progress.json") }

// ExcelPath is the final Excel report location.
func (c OutputConfig) ExcelPath() string { return filepath.Join(c.Dir, "ergebnisse.xlsx") }

// CSVPath is the final CSV report location.
func (c OutputConfig) CSVPath() string { return filepath.Join(c.Dir, "ergebnisse.csv") }

// HistoryPath is the run-history database location.
func (c OutputConfig) HistoryPath() string { return filepath.Join(c.Dir, "runs.db") }

// DownloadConfig configures the yt-dlp download phase.
type DownloadConfig struct {
	Binary    string `yaml:"binary" mapstructure:"binary"`
	Workers   int    `yaml:"workers" mapstructure:"workers"`
	PerMinute int    `yaml:"per_minute" mapstructure:"per_minute"`
}

// TranscribeConfig configures the whisper transcription phase.
type TranscribeConfig struct {
	Binary   string `yaml:"binary" mapstructure:"binary"`
	Model    string `yaml:"model" mapstructure:"model"`
	Language string `yaml:"language" mapstructure:"language"`
	Device   string `yaml:"device" mapstructure:"device"`
	Workers  int    `yaml:"workers" mapstructure:"workers"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("TRANSKRIPTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("worklist.sheet", "Master")
	v.SetDefault("worklist.skip_rows", 1)
	v.SetDefault("output.dir", "output")
	v.SetDefault("download.binary", "yt-dlp")
	v.SetDefault("download.workers", 1)
	v.SetDefault("download.per_minute", 0)
	v.SetDefault("transcribe.binary", "whisper-ctranslate2")
	v.SetDefault("transcribe.model", "small")
	v.SetDefault("transcribe.language", "de")
	v.SetDefault("transcribe.workers", 1)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if _, err := language.Parse(cfg.Transcribe.Language); err != nil {
		return nil, eris.Wrapf(err, "config: invalid transcribe language %q", cfg.Transcribe.Language)
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
