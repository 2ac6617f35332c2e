package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hockeypikk/hockeypikk/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	DBURL              string
	CORSAllowedOrigins []string
	LogLevel           logging.Level

	NHLBaseURL               string
	NHLTimeout               time.Duration
	NHLMaxRetries            int
	NHLCacheTTL              time.Duration
	NHLCircuitEnabled        bool
	NHLCircuitFailureCount   int
	NHLCircuitOpenTimeout    time.Duration
	NHLCircuitHalfOpenMaxReq int

	PicksProviderBaseURL  string
	PicksProviderTimeout  time.Duration
	PicksProviderCacheTTL time.Duration

	IdentityBaseURL  string
	IdentityTimeout  time.Duration
	IdentityCacheTTL time.Duration

	HistoryDefaultLimit int

	UptraceEnabled     bool
	UptraceDSN         string
	UptraceLogsEnabled bool

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	nhlTimeout, err := time.ParseDuration(getEnv("NHL_TIMEOUT", "8s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NHL_TIMEOUT: %w", err)
	}
	if nhlTimeout <= 0 {
		return Config{}, fmt.Errorf("NHL_TIMEOUT must be > 0")
	}
	nhlMaxRetries, err := getEnvAsInt("NHL_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse NHL_MAX_RETRIES: %w", err)
	}
	if nhlMaxRetries < 0 {
		return Config{}, fmt.Errorf("NHL_MAX_RETRIES must be >= 0")
	}
	nhlCacheTTL, err := time.ParseDuration(getEnv("NHL_CACHE_TTL", "1h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NHL_CACHE_TTL: %w", err)
	}
	if nhlCacheTTL <= 0 {
		return Config{}, fmt.Errorf("NHL_CACHE_TTL must be > 0")
	}
	nhlCircuitEnabled, err := strconv.ParseBool(getEnv("NHL_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NHL_CIRCUIT_ENABLED: %w", err)
	}
	nhlCircuitFailureCount, err := getEnvAsInt("NHL_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse NHL_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if nhlCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("NHL_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	nhlCircuitOpenTimeout, err := time.ParseDuration(getEnv("NHL_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NHL_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if nhlCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("NHL_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	nhlCircuitHalfOpenMaxReq, err := getEnvAsInt("NHL_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse NHL_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if nhlCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("NHL_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	picksTimeout, err := time.ParseDuration(getEnv("PICKS_PROVIDER_TIMEOUT", "8s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PICKS_PROVIDER_TIMEOUT: %w", err)
	}
	if picksTimeout <= 0 {
		return Config{}, fmt.Errorf("PICKS_PROVIDER_TIMEOUT must be > 0")
	}
	picksCacheTTL, err := time.ParseDuration(getEnv("PICKS_PROVIDER_CACHE_TTL", "5m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PICKS_PROVIDER_CACHE_TTL: %w", err)
	}
	if picksCacheTTL <= 0 {
		return Config{}, fmt.Errorf("PICKS_PROVIDER_CACHE_TTL must be > 0")
	}

	identityTimeout, err := time.ParseDuration(getEnv("IDENTITY_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse IDENTITY_TIMEOUT: %w", err)
	}
	if identityTimeout <= 0 {
		return Config{}, fmt.Errorf("IDENTITY_TIMEOUT must be > 0")
	}
	identityCacheTTL, err := time.ParseDuration(getEnv("IDENTITY_CACHE_TTL", "5m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse IDENTITY_CACHE_TTL: %w", err)
	}

	historyDefaultLimit, err := getEnvAsInt("HISTORY_DEFAULT_LIMIT", 30)
	if err != nil {
		return Config{}, fmt.Errorf("parse HISTORY_DEFAULT_LIMIT: %w", err)
	}
	if historyDefaultLimit < 1 {
		return Config{}, fmt.Errorf("HISTORY_DEFAULT_LIMIT must be >= 1")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	serviceName := getEnv("APP_SERVICE_NAME", "hockeypikk-api")

	return Config{
		AppEnv:             appEnv,
		ServiceName:        serviceName,
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		DBURL:              getEnv("DB_URL", ""),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:           parseLogLevel(getEnv("LOG_LEVEL", "info")),

		NHLBaseURL:               getEnv("NHL_BASE_URL", "https://api-web.nhle.com/v1"),
		NHLTimeout:               nhlTimeout,
		NHLMaxRetries:            nhlMaxRetries,
		NHLCacheTTL:              nhlCacheTTL,
		NHLCircuitEnabled:        nhlCircuitEnabled,
		NHLCircuitFailureCount:   nhlCircuitFailureCount,
		NHLCircuitOpenTimeout:    nhlCircuitOpenTimeout,
		NHLCircuitHalfOpenMaxReq: nhlCircuitHalfOpenMaxReq,

		PicksProviderBaseURL:  getEnv("PICKS_PROVIDER_BASE_URL", "https://hockeychallengehelper.com/api"),
		PicksProviderTimeout:  picksTimeout,
		PicksProviderCacheTTL: picksCacheTTL,

		IdentityBaseURL:  getEnv("IDENTITY_BASE_URL", "http://localhost:8081"),
		IdentityTimeout:  identityTimeout,
		IdentityCacheTTL: identityCacheTTL,

		HistoryDefaultLimit: historyDefaultLimit,

		UptraceEnabled:     uptraceEnabled,
		UptraceDSN:         uptraceDSN,
		UptraceLogsEnabled: uptraceLogsEnabled,

		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAppName:           getEnv("PYROSCOPE_APP_NAME", serviceName),
		PyroscopeAuthToken:         getEnv("PYROSCOPE_AUTH_TOKEN", ""),
		PyroscopeBasicAuthUser:     getEnv("PYROSCOPE_BASIC_AUTH_USER", ""),
		PyroscopeBasicAuthPassword: getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""),
		PyroscopeUploadRate:        pyroscopeUploadRate,
	}, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
