// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/courtdata/statpipe/internal/domain/dataset"
	"github.com/courtdata/statpipe/internal/platform/logging"
	"github.com/courtdata/statpipe/internal/qa"
	"github.com/courtdata/statpipe/internal/usecase"
)

const (
	EnvDev  = "dev"
	EnvProd = "prod"
)

// Config stores runtime configuration for the pipeline service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	HTTPEnabled    bool
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	LogLevel       logging.Level

	Targets      []usecase.BatchTarget
	PerMode      dataset.PerMode
	SplitTraded  bool
	QATolerance  float64
	QASampleSize int
	QASampleSeed int64
	RowCounts    map[dataset.Kind]qa.RowCountBounds
	MaxWorkers   int

	OutputDir string
	DBURL     string

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled       bool
	PyroscopeServerAddress string
	PyroscopeAppName       string
	PyroscopeAuthToken     string
	PyroscopeUploadRate    time.Duration
}

func Load() (Config, error) {
	appEnv := strings.ToLower(getEnv("APP_ENV", EnvDev))
	if appEnv != EnvDev && appEnv != EnvProd {
		return Config{}, fmt.Errorf("parse APP_ENV: unknown environment %q", appEnv)
	}

	logLevel, err := logging.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("parse LOG_LEVEL: %w", err)
	}

	httpEnabled, err := strconv.ParseBool(getEnv("HTTP_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_ENABLED: %w", err)
	}
	readTimeout, err := getEnvAsDuration("HTTP_READ_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, err
	}
	writeTimeout, err := getEnvAsDuration("HTTP_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return Config{}, err
	}

	targets, err := parseTargets(getEnv("PIPELINE_TARGETS", ""))
	if err != nil {
		return Config{}, err
	}

	perMode, err := dataset.ParsePerMode(getEnv("PER_MODE", string(dataset.PerModeTotals)))
	if err != nil {
		return Config{}, fmt.Errorf("parse PER_MODE: %w", err)
	}
	splitTraded, err := strconv.ParseBool(getEnv("SPLIT_TRADED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SPLIT_TRADED: %w", err)
	}

	qaTolerance, err := getEnvAsFloat("QA_TOLERANCE", 1.0)
	if err != nil {
		return Config{}, err
	}
	qaSampleSize, err := getEnvAsInt("QA_SAMPLE_SIZE", 10)
	if err != nil {
		return Config{}, err
	}
	qaSampleSeed, err := getEnvAsInt("QA_SAMPLE_SEED", 42)
	if err != nil {
		return Config{}, err
	}

	rowCounts, err := parseRowCounts(getEnv("ROW_COUNT_THRESHOLDS", ""))
	if err != nil {
		return Config{}, err
	}

	maxWorkers, err := getEnvAsInt("MAX_WORKERS", 4)
	if err != nil {
		return Config{}, err
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeUploadRate, err := getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", 15*time.Second)
	if err != nil {
		return Config{}, err
	}

	serviceName := getEnv("SERVICE_NAME", "statpipe")

	return Config{
		AppEnv:         appEnv,
		ServiceName:    serviceName,
		ServiceVersion: getEnv("SERVICE_VERSION", "dev"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		HTTPEnabled:    httpEnabled,
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,
		LogLevel:       logLevel,

		Targets:      targets,
		PerMode:      perMode,
		SplitTraded:  splitTraded,
		QATolerance:  qaTolerance,
		QASampleSize: int(qaSampleSize),
		QASampleSeed: qaSampleSeed,
		RowCounts:    rowCounts,
		MaxWorkers:   int(maxWorkers),

		OutputDir: getEnv("OUTPUT_DIR", "out"),
		DBURL:     strings.TrimSpace(getEnv("DB_URL", "")),

		UptraceEnabled: uptraceEnabled,
		UptraceDSN:     uptraceDSN,

		PyroscopeEnabled:       pyroscopeEnabled,
		PyroscopeServerAddress: getEnv("PYROSCOPE_SERVER_ADDRESS", ""),
		PyroscopeAppName:       getEnv("PYROSCOPE_APP_NAME", serviceName),
		PyroscopeAuthToken:     getEnv("PYROSCOPE_AUTH_TOKEN", ""),
		PyroscopeUploadRate:    pyroscopeUploadRate,
	}, nil
}

// RunOptions projects the QA and aggregation configuration into the
// workflow's per-run options.
func (c Config) RunOptions() usecase.RunOptions {
	return usecase.RunOptions{
		PerMode:      c.PerMode,
		SplitTraded:  c.SplitTraded,
		QATolerance:  c.QATolerance,
		QASampleSize: c.QASampleSize,
		QASampleSeed: c.QASampleSeed,
		RowCounts:    c.RowCounts,
	}
}

// parseTargets parses "league:season,league:season" pairs.
func parseTargets(raw string) ([]usecase.BatchTarget, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	out := make([]usecase.BatchTarget, 0)
	for _, piece := range strings.Split(raw, ",") {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		parts := strings.SplitN(piece, ":", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
			return nil, fmt.Errorf("parse PIPELINE_TARGETS: malformed pair %q (want league:season)", piece)
		}
		out = append(out, usecase.BatchTarget{
			League: strings.TrimSpace(parts[0]),
			Season: strings.TrimSpace(parts[1]),
		})
	}
	return out, nil
}

// parseRowCounts parses "kind:min:max,kind:min:max"; max 0 means unbounded.
func parseRowCounts(raw string) (map[dataset.Kind]qa.RowCountBounds, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	out := make(map[dataset.Kind]qa.RowCountBounds)
	for _, piece := range strings.Split(raw, ",") {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		parts := strings.Split(piece, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("parse ROW_COUNT_THRESHOLDS: malformed entry %q (want kind:min:max)", piece)
		}
		kind, err := dataset.ParseKind(parts[0])
		if err != nil {
			return nil, fmt.Errorf("parse ROW_COUNT_THRESHOLDS: %w", err)
		}
		min, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("parse ROW_COUNT_THRESHOLDS min for %s: %w", kind, err)
		}
		max, err := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil {
			return nil, fmt.Errorf("parse ROW_COUNT_THRESHOLDS max for %s: %w", kind, err)
		}
		out[kind] = qa.RowCountBounds{Min: min, Max: max}
	}
	return out, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int64) (int64, error) {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return parsed, nil
}

func getEnvAsFloat(key string, fallback float64) (float64, error) {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return parsed, nil
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return parsed, nil
}
