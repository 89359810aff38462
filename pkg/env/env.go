package env

import (
	"os"
	"strings"
)

// GetOrDefault returns the environment variable value or the default if not set
func GetOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetBool returns the environment variable as a boolean
// Returns false if the variable is not set or is not "true", "1", "yes", or "y" (case insensitive)
func GetBool(key string) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "true", "1", "yes", "y":
		return true
	default:
		return false
	}
}

// GetBoolOrDefault returns the environment variable as a boolean or the default value if not set
func GetBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return GetBool(key)
	}
	return defaultValue
}

// Snapshot returns the current process environment as a map.
// Entries without a value separator are skipped.
func Snapshot() map[string]string {
	vars := make(map[string]string)
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		vars[key] = value
	}
	return vars
}

// SplitList splits a comma separated value into trimmed, non-empty tokens.
// An empty input yields nil.
func SplitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		if token := strings.TrimSpace(part); token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}
