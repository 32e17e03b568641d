// Package confparse layers loosely typed configuration maps from the
// environment, a JSON file, a JSON string and key=value flags.
package confparse

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"strconv"
	"strings"
	"time"
)

// Sources lists where one configuration map is read from, lowest
// precedence first: EnvPrefix, File, JSON, KV.
type Sources struct {
	EnvPrefix string
	File      string
	JSON      string
	KV        []string
}

// Empty reports whether no explicit source (file, JSON or KV) is set.
func (s Sources) Empty() bool {
	return s.File == "" && s.JSON == "" && len(s.KV) == 0
}

// ParseKV parses a key=value pair, inferring int, float and bool values.
func ParseKV(kvPair string) (string, any, error) {
	key, raw, ok := strings.Cut(kvPair, "=")
	if !ok {
		return "", nil, fmt.Errorf("invalid format, expected key=value: %s", kvPair)
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return "", nil, fmt.Errorf("empty key in key=value pair")
	}

	return key, inferValue(strings.TrimSpace(raw)), nil
}

func inferValue(s string) any {
	// ints before bools so "1" stays a number
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if s == "true" || s == "false" {
		return s == "true"
	}
	return s
}

// ParseJSON parses a JSON object.
func ParseJSON(jsonStr string) (map[string]any, error) {
	return decodeObject([]byte(jsonStr), "invalid JSON")
}

// ParseFile reads a JSON object from path.
func ParseFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return decodeObject(data, "invalid JSON in "+path)
}

func decodeObject(data []byte, what string) (map[string]any, error) {
	var result any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	m, ok := result.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected a JSON object", what)
	}
	return m, nil
}

// ParseEnv reads PREFIX (a JSON object) and PREFIX_* variables. Keys from
// PREFIX_* are lower-cased and win over the JSON. Malformed JSON in PREFIX
// is ignored.
func ParseEnv(prefix string) map[string]any {
	conf := make(map[string]any)

	if jsonStr := os.Getenv(prefix); jsonStr != "" {
		if m, err := ParseJSON(jsonStr); err == nil {
			maps.Copy(conf, m)
		}
	}

	envPrefix := prefix + "_"
	for _, env := range os.Environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, envPrefix) {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(name, envPrefix))
		if key == "" {
			continue
		}
		conf[key] = inferValue(strings.TrimSpace(value))
	}

	if len(conf) == 0 {
		return nil
	}
	return conf
}

// Merge copies maps left to right; later maps win.
func Merge(confs ...map[string]any) map[string]any {
	result := make(map[string]any)
	for _, c := range confs {
		maps.Copy(result, c)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

// Build merges every source in src. A nil map means nothing was set.
func Build(src Sources) (map[string]any, error) {
	var confs []map[string]any

	if src.EnvPrefix != "" {
		confs = append(confs, ParseEnv(src.EnvPrefix))
	}

	if src.File != "" {
		m, err := ParseFile(src.File)
		if err != nil {
			return nil, err
		}
		confs = append(confs, m)
	}

	if src.JSON != "" {
		m, err := ParseJSON(src.JSON)
		if err != nil {
			return nil, err
		}
		confs = append(confs, m)
	}

	if len(src.KV) > 0 {
		kv := make(map[string]any, len(src.KV))
		for _, pair := range src.KV {
			key, value, err := ParseKV(pair)
			if err != nil {
				return nil, err
			}
			kv[key] = value
		}
		confs = append(confs, kv)
	}

	return Merge(confs...), nil
}

// String returns conf[key] rendered as a string.
func String(conf map[string]any, key string) (string, bool) {
	v, ok := conf[key]
	if !ok || v == nil {
		return "", false
	}
	switch s := v.(type) {
	case string:
		return s, true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	default:
		return fmt.Sprint(v), true
	}
}

// Int returns conf[key] as an int. JSON numbers arrive as float64.
func Int(conf map[string]any, key string) (int, bool, error) {
	v, ok := conf[key]
	if !ok || v == nil {
		return 0, false, nil
	}
	switch n := v.(type) {
	case int:
		return n, true, nil
	case float64:
		if n != float64(int(n)) {
			return 0, true, fmt.Errorf("%s: expected an integer, got %v", key, n)
		}
		return int(n), true, nil
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, true, fmt.Errorf("%s: expected an integer, got %q", key, n)
		}
		return i, true, nil
	}
	return 0, true, fmt.Errorf("%s: expected an integer, got %T", key, v)
}

// Duration returns conf[key] as a duration. Strings use time.ParseDuration;
// bare numbers are seconds.
func Duration(conf map[string]any, key string) (time.Duration, bool, error) {
	v, ok := conf[key]
	if !ok || v == nil {
		return 0, false, nil
	}
	switch d := v.(type) {
	case string:
		parsed, err := time.ParseDuration(d)
		if err != nil {
			return 0, true, fmt.Errorf("%s: %w", key, err)
		}
		return parsed, true, nil
	case int:
		return time.Duration(d) * time.Second, true, nil
	case float64:
		return time.Duration(d * float64(time.Second)), true, nil
	}
	return 0, true, fmt.Errorf("%s: expected a duration, got %T", key, v)
}

// StringMap returns conf[key] as a map of strings, for header sets.
func StringMap(conf map[string]any, key string) (map[string]string, error) {
	v, ok := conf[key]
	if !ok || v == nil {
		return nil, nil
	}
	raw, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected an object, got %T", key, v)
	}
	out := make(map[string]string, len(raw))
	for k := range raw {
		s, _ := String(raw, k)
		out[k] = s
	}
	return out, nil
}
