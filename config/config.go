package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Getenv returns the value of an environment variable or a default.
func Getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// GetenvInt returns an integer environment variable or a default.
func GetenvInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// GetenvBool returns a boolean environment variable or a default.
func GetenvBool(key string, def bool) bool {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

// OutputDir returns the directory render outputs are written to.
func OutputDir() string {
	return Getenv("OUTPUT_DIR", filepath.Join(os.TempDir(), "shortform_output"))
}

// WorkDir returns the directory for intermediate artifacts (trimmed audio,
// cropped clips, SRT files).
func WorkDir() string {
	return Getenv("WORK_DIR", filepath.Join(os.TempDir(), "shortform_work"))
}

// KafkaBrokers returns the configured broker list, empty when the task queue
// is not configured.
func KafkaBrokers() []string {
	v := strings.TrimSpace(os.Getenv("KAFKA_BROKERS"))
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
