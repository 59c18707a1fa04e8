package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/betfaro/betstats/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                           string
	ServiceName                      string
	ServiceVersion                   string
	HTTPAddr                         string
	ReadTimeout                      time.Duration
	WriteTimeout                     time.Duration
	CORSAllowedOrigins               []string
	SwaggerEnabled                   bool
	DBEnabled                        bool
	DBURL                            string
	APIFootballBaseURL               string
	APIFootballAPIKey                string
	APIFootballTimeout               time.Duration
	APIFootballMaxRetries            int
	APIFootballCacheTTL              time.Duration
	APIFootballCircuitEnabled        bool
	APIFootballCircuitFailureCount   int
	APIFootballCircuitOpenTimeout    time.Duration
	APIFootballCircuitHalfOpenMaxReq int
	OpenAIEnabled                    bool
	OpenAIBaseURL                    string
	OpenAIAPIKey                     string
	OpenAIModel                      string
	OpenAITimeout                    time.Duration
	TelegramEnabled                  bool
	TelegramToken                    string
	DailyPicksWorkers                int
	PprofEnabled                     bool
	PprofAddr                        string
	UptraceEnabled                   bool
	UptraceDSN                       string
	PyroscopeEnabled                 bool
	PyroscopeServerAddress           string
	PyroscopeAppName                 string
	PyroscopeAuthToken               string
	PyroscopeBasicAuthUser           string
	PyroscopeBasicAuthPassword       string
	PyroscopeUploadRate              time.Duration
	LogLevel                         logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:         appEnv,
		ServiceName:    getEnv("SERVICE_NAME", "betstats-api"),
		ServiceVersion: getEnv("SERVICE_VERSION", "dev"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
	}

	swaggerDefault := "true"
	if appEnv == EnvProd {
		swaggerDefault = "false"
	}

	swaggerEnabled, err := strconv.ParseBool(getEnv("SWAGGER_ENABLED", swaggerDefault))
	if err != nil {
		return Config{}, fmt.Errorf("parse SWAGGER_ENABLED: %w", err)
	}
	cfg.SwaggerEnabled = swaggerEnabled
	cfg.CORSAllowedOrigins = splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*"))

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	cfg.ReadTimeout = readTimeout

	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}
	cfg.WriteTimeout = writeTimeout

	dbEnabled, err := strconv.ParseBool(getEnv("DB_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_ENABLED: %w", err)
	}
	cfg.DBEnabled = dbEnabled
	cfg.DBURL = getEnv("DB_URL", "")
	if dbEnabled && strings.TrimSpace(cfg.DBURL) == "" {
		return Config{}, fmt.Errorf("DB_URL is required when DB_ENABLED=true")
	}

	cfg.APIFootballBaseURL = getEnv("APIFOOTBALL_BASE_URL", "https://v3.football.api-sports.io")
	cfg.APIFootballAPIKey = getEnv("APIFOOTBALL_API_KEY", "")
	if strings.TrimSpace(cfg.APIFootballAPIKey) == "" {
		return Config{}, fmt.Errorf("APIFOOTBALL_API_KEY is required")
	}

	apiFootballTimeout, err := time.ParseDuration(getEnv("APIFOOTBALL_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APIFOOTBALL_TIMEOUT: %w", err)
	}
	cfg.APIFootballTimeout = apiFootballTimeout

	apiFootballMaxRetries, err := getEnvAsInt("APIFOOTBALL_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse APIFOOTBALL_MAX_RETRIES: %w", err)
	}
	if apiFootballMaxRetries < 0 {
		return Config{}, fmt.Errorf("APIFOOTBALL_MAX_RETRIES must be >= 0")
	}
	cfg.APIFootballMaxRetries = apiFootballMaxRetries

	apiFootballCacheTTL, err := time.ParseDuration(getEnv("APIFOOTBALL_CACHE_TTL", "5m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APIFOOTBALL_CACHE_TTL: %w", err)
	}
	if apiFootballCacheTTL <= 0 {
		return Config{}, fmt.Errorf("APIFOOTBALL_CACHE_TTL must be > 0")
	}
	cfg.APIFootballCacheTTL = apiFootballCacheTTL

	circuitEnabled, err := strconv.ParseBool(getEnv("APIFOOTBALL_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APIFOOTBALL_CIRCUIT_ENABLED: %w", err)
	}
	cfg.APIFootballCircuitEnabled = circuitEnabled

	circuitFailureCount, err := getEnvAsInt("APIFOOTBALL_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse APIFOOTBALL_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if circuitFailureCount < 1 {
		return Config{}, fmt.Errorf("APIFOOTBALL_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	cfg.APIFootballCircuitFailureCount = circuitFailureCount

	circuitOpenTimeout, err := time.ParseDuration(getEnv("APIFOOTBALL_CIRCUIT_OPEN_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APIFOOTBALL_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if circuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("APIFOOTBALL_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	cfg.APIFootballCircuitOpenTimeout = circuitOpenTimeout

	circuitHalfOpenMaxReq, err := getEnvAsInt("APIFOOTBALL_CIRCUIT_HALF_OPEN_MAX_REQ", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse APIFOOTBALL_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if circuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("APIFOOTBALL_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	cfg.APIFootballCircuitHalfOpenMaxReq = circuitHalfOpenMaxReq

	openAIEnabled, err := strconv.ParseBool(getEnv("OPENAI_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse OPENAI_ENABLED: %w", err)
	}
	cfg.OpenAIEnabled = openAIEnabled
	cfg.OpenAIBaseURL = getEnv("OPENAI_BASE_URL", "https://api.openai.com")
	cfg.OpenAIAPIKey = getEnv("OPENAI_API_KEY", "")
	cfg.OpenAIModel = getEnv("OPENAI_MODEL", "gpt-4o-mini")
	if openAIEnabled && strings.TrimSpace(cfg.OpenAIAPIKey) == "" {
		return Config{}, fmt.Errorf("OPENAI_API_KEY is required when OPENAI_ENABLED=true")
	}

	openAITimeout, err := time.ParseDuration(getEnv("OPENAI_TIMEOUT", "8s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse OPENAI_TIMEOUT: %w", err)
	}
	cfg.OpenAITimeout = openAITimeout

	telegramEnabled, err := strconv.ParseBool(getEnv("TELEGRAM_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse TELEGRAM_ENABLED: %w", err)
	}
	cfg.TelegramEnabled = telegramEnabled
	cfg.TelegramToken = getEnv("TELEGRAM_BOT_TOKEN", "")
	if telegramEnabled && strings.TrimSpace(cfg.TelegramToken) == "" {
		return Config{}, fmt.Errorf("TELEGRAM_BOT_TOKEN is required when TELEGRAM_ENABLED=true")
	}

	dailyPicksWorkers, err := getEnvAsInt("DAILY_PICKS_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse DAILY_PICKS_WORKERS: %w", err)
	}
	if dailyPicksWorkers < 1 {
		return Config{}, fmt.Errorf("DAILY_PICKS_WORKERS must be >= 1")
	}
	cfg.DailyPicksWorkers = dailyPicksWorkers

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	cfg.PprofEnabled = pprofEnabled
	cfg.PprofAddr = getEnv("PPROF_ADDR", "")
	if pprofEnabled && strings.TrimSpace(cfg.PprofAddr) == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	cfg.UptraceEnabled = uptraceEnabled
	cfg.UptraceDSN = getEnv("UPTRACE_DSN", "")
	if uptraceEnabled && strings.TrimSpace(cfg.UptraceDSN) == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	cfg.PyroscopeEnabled = pyroscopeEnabled
	cfg.PyroscopeServerAddress = getEnv("PYROSCOPE_SERVER_ADDRESS", "")
	if pyroscopeEnabled && strings.TrimSpace(cfg.PyroscopeServerAddress) == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeAppName = getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName)
	cfg.PyroscopeAuthToken = getEnv("PYROSCOPE_AUTH_TOKEN", "")
	cfg.PyroscopeBasicAuthUser = getEnv("PYROSCOPE_BASIC_AUTH_USER", "")
	cfg.PyroscopeBasicAuthPassword = getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")

	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}
	cfg.PyroscopeUploadRate = pyroscopeUploadRate

	cfg.LogLevel = parseLogLevel(getEnv("APP_LOG_LEVEL", "info"))

	return cfg, nil
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
