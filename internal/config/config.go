package config

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type (
	AVLConfig struct {
		Version  string   `koanf:"version"`
		LogLevel string   `koanf:"log_level"`
		LogJson  bool     `koanf:"log_json"`
		LogColor bool     `koanf:"log_color"`
		Debug    bool     `koanf:"debug"`
		Tags     []string `koanf:"tags"`

		Tree    TreeConfig     `koanf:"tree"`
		Render  RenderConfig   `koanf:"render"`
		Metrics *MetricsConfig `koanf:"metrics"`
	}

	TreeConfig struct {
		KeyType KeyType `koanf:"key_type"`
		// Preload keys are inserted, in order, before a session starts.
		Preload         []string `koanf:"preload"`
		CheckInvariants bool     `koanf:"check_invariants"`
		Capacity        int      `koanf:"capacity"`
	}

	RenderConfig struct {
		Style string `koanf:"style"`
	}

	MetricsConfig struct {
		Host      string `koanf:"host"`
		Port      int    `koanf:"port"`
		EnableH2C bool   `koanf:"enable_h2c"`
	}

	KeyType string
)

const (
	KeyTypeInt    KeyType = "int"
	KeyTypeFloat  KeyType = "float"
	KeyTypeString KeyType = "string"
)

func (conf *AVLConfig) GetLogger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(conf.LogLevel)
	if err != nil {
		return nil, err
	}
	config := zap.NewProductionConfig()
	config.Level = level
	config.DisableCaller = true
	config.DisableStacktrace = true
	config.Development = conf.Debug
	config.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	if config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder; conf.LogColor {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if config.Encoding = "console"; conf.LogJson {
		config.InitialFields = map[string]interface{}{
			"version": conf.Version,
			"tags":    conf.Tags,
		}
		config.Encoding = "json"
	}

	return config.Build()
}
