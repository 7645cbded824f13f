package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/knadh/koanf/v2"
	"github.com/mitchellh/mapstructure"
)

type FoundFunc func(string, map[string]string) (string, error)
type ErrorFunc func(map[string]string, error)

// resolveConfigStringPattern rewrites every string (or string list) value in
// data whose text matches re, using foundFunc to produce the replacement.
func resolveConfigStringPattern(
	data map[string]any,
	re *regexp.Regexp,
	foundFunc FoundFunc,
	errorFunc ErrorFunc,
) {
	for k, v := range data {
		var values []string
		switch vt := v.(type) {
		case string:
			values = []string{vt}
		case []string:
			values = vt
		case []any:
			values = sliceMap(vt, func(val any) string {
				if s, ok := val.(string); ok {
					return s
				}
				return fmt.Sprint(val)
			})
		default:
			continue
		}
		if len(values) == 0 {
			continue
		}
		hasMatch := false
		for i, value := range values {
			if value == "" {
				continue
			}
			values[i] = re.ReplaceAllStringFunc(value, func(s string) string {
				results := make(map[string]string)
				for _, match := range re.FindAllStringSubmatch(s, -1) {
					for name, sub := range mapSlices(re.SubexpNames(), match) {
						if name != "" {
							results[name] = sub
							hasMatch = true
						}
					}
				}
				result, err := foundFunc(s, results)
				if err != nil {
					errorFunc(results, err)
				}
				return result
			})
		}
		if !hasMatch {
			continue
		}
		if _, ok := v.(string); ok {
			data[k] = values[0]
			continue
		}
		data[k] = values
	}
}

func mapSlices[K comparable, V any](ks []K, vs []V) map[K]V {
	if len(ks) != len(vs) {
		panic("length of ks and vs must be equal")
	}
	result := make(map[K]V, len(ks))
	for i, k := range ks {
		result[k] = vs[i]
	}
	return result
}

func sliceMap[T any, V any](s []T, f func(T) V) []V {
	result := make([]V, len(s))
	for i, v := range s {
		result[i] = f(v)
	}
	return result
}

func StringToIntHookFunc() mapstructure.DecodeHookFuncType {
	return func(from, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to.Kind() != reflect.Int {
			return data, nil
		}
		return strconv.Atoi(data.(string))
	}
}

func StringToBoolHookFunc() mapstructure.DecodeHookFuncType {
	return func(f, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String || t.Kind() != reflect.Bool {
			return data, nil
		}
		return strconv.ParseBool(data.(string))
	}
}

func kDefault(k *koanf.Koanf, key string, value any) {
	if !k.Exists(key) || k.Get(key) == nil || k.String(key) == "" {
		k.Set(key, value)
	}
}

func kRequireAll(k *koanf.Koanf, keys ...string) error {
	for _, key := range keys {
		if !k.Exists(key) {
			return errors.New(key + " is required")
		}
	}
	return nil
}

func envVarCheckBool(name string) bool {
	switch strings.ToLower(os.Getenv(name)) {
	case "true", "1", "yes", "y":
		return true
	}
	return false
}
