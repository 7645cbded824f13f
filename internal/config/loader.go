package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path"
	"regexp"
	"strings"

	kjson "github.com/knadh/koanf/parsers/json"
	ktoml "github.com/knadh/koanf/parsers/toml"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/mitchellh/mapstructure"
)

var EnvVarRegex = regexp.MustCompile(`\${(?P<var_name>[a-zA-Z0-9_]{1,})(:-(?P<default>.*?)?)?}`)

var defaultConfigExts = []string{"yml", "yaml", "json", "toml"}

// LoadConfig reads the configuration from avlConfigPath, the AVL_CONFIG_PATH
// or AVL_CONFIG_DATA environment variables, or ./config.avl.<ext>, in that
// order. Without any source the defaults are returned.
func LoadConfig(avlConfigPath string) (*AVLConfig, error) {
	var avlConfigData string
	if avlConfigPath == "" {
		avlConfigPath = os.Getenv("AVL_CONFIG_PATH")
		avlConfigData = os.Getenv("AVL_CONFIG_DATA")
	}

	configDataType := os.Getenv("AVL_CONFIG_TYPE")
	if configDataType == "" && avlConfigPath != "" {
		fileExt := strings.ToLower(path.Ext(avlConfigPath))
		if fileExt == "" {
			return nil, errors.New("no config file extension: set env AVL_CONFIG_TYPE to json, toml or yaml")
		}
		configDataType = fileExt[1:]
	}

	var k = koanf.New(".")

	switch {
	case avlConfigPath != "":
		parser, err := determineParser(configDataType)
		if err != nil {
			return nil, err
		}
		if err = k.Load(file.Provider(avlConfigPath), parser); err != nil {
			return nil, fmt.Errorf("error loading '%s' with %s parser: %v", avlConfigPath, configDataType, err)
		}
	case avlConfigData != "":
		if configDataType == "" {
			configDataType = "yaml"
		}
		parser, err := determineParser(configDataType)
		if err != nil {
			return nil, err
		}
		configFileData, err := base64.StdEncoding.DecodeString(
			strings.TrimSpace(avlConfigData))
		if err != nil {
			return nil, fmt.Errorf("AVL_CONFIG_DATA: %w", err)
		}
		if err = k.Load(rawbytes.Provider(configFileData), parser); err != nil {
			return nil, fmt.Errorf("error loading AVL_CONFIG_DATA with %s parser: %v", configDataType, err)
		}
	default:
		for _, ext := range defaultConfigExts {
			parser, err := determineParser(ext)
			if err != nil {
				return nil, err
			}
			if err = k.Load(file.Provider("./config.avl."+ext), parser); err == nil {
				break
			}
		}
	}

	if !envVarCheckBool("AVL_DISABLE_ENV_PARSER") {
		data := k.All()
		var resolveErr error
		resolveConfigStringPattern(data, EnvVarRegex, func(value string, results map[string]string) (string, error) {
			if envVar := os.Getenv(results["var_name"]); envVar != "" {
				return envVar, nil
			} else if strings.Contains(value, results["var_name"]+":-") {
				return results["default"], nil
			}
			return "", nil
		}, func(results map[string]string, err error) {
			resolveErr = errors.Join(resolveErr, fmt.Errorf("%s: %w", results["var_name"], err))
		})
		if resolveErr != nil {
			return nil, resolveErr
		}
		if err := k.Load(confmap.Provider(data, "."), nil); err != nil {
			return nil, err
		}
	}

	kDefault(k, "version", "v1")
	kDefault(k, "log_level", "info")
	kDefault(k, "tree.key_type", string(KeyTypeInt))
	kDefault(k, "render.style", "matrix")
	if k.Exists("metrics") {
		kDefault(k, "metrics.host", "127.0.0.1")
		if err := kRequireAll(k, "metrics.port"); err != nil {
			return nil, fmt.Errorf("metrics: %w", err)
		}
	}

	if err := validateSchema(k.Raw()); err != nil {
		return nil, err
	}

	avlConfig := &AVLConfig{}
	err := k.UnmarshalWithConf("", avlConfig, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           avlConfig,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
				StringToIntHookFunc(), StringToBoolHookFunc(),
			),
		},
	})
	if err != nil {
		return nil, err
	}
	return avlConfig, nil
}

func determineParser(configDataType string) (koanf.Parser, error) {
	switch configDataType {
	case "json":
		return kjson.Parser(), nil
	case "toml":
		return ktoml.Parser(), nil
	case "yaml", "yml":
		return kyaml.Parser(), nil
	default:
		return nil, errors.New("unknown config type: " + configDataType)
	}
}
