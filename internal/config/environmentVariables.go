package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"
	CALLER_ID_KEY  = "callerId"

	NoAuthBypass = false //local debugging only

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 10 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//pipeline
	BatchSize        = 5
	MaxAttempts      = 3
	MinTextLength    = 30  //below this an OCR result counts as a failure
	MinAnalyzeLength = 100 //shorter texts skip AI analysis entirely
	JobTimeout       = 5 * time.Minute

	//chunking defaults
	MaxChunkSize       = 8000
	MinChunkSize       = 100
	ChunkOverlapSize   = 200
	BoundarySearchSpan = 500

	//caches
	ExtractionCacheSize = 64 << 20 //64mb
	AnalysisCacheSize   = 16 << 20
	ChunkCacheSize      = 32 << 20
	ExtractionCacheTTL  = 24 * time.Hour
	AnalysisCacheTTL    = 2 * time.Hour
	ChunkCacheTTL       = 1 * time.Hour

	//provider call bounds
	ProviderCallTimeout = 30 * time.Second
	OcrPollInterval     = 5 * time.Second
	OcrPollCap          = 2 * time.Minute

	//llm
	GeminiModelName   = "gemini-2.5-flash-lite-preview-09-2025"
	OpenAIModelName   = "gpt-4o-mini"
	MaxAnalysisChars  = 24000 //prompt input is truncated past this
	ModelTemperature  = 0.2
	AnalysisKeyFacts  = 15
	AnalysisFindings  = 10
	AnalysisActions   = 10
	AnalysisEvents    = 20
	SummarySentences  = 2
	DescriptionLimit  = 280
	TimelineTitleWords = 8

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	RedisJobDB = 0

	RedisJobTTL = 7 * 24 * time.Hour
)

// Backoff steps applied on transient failures, indexed by attempts-1 and
// clamped to the last entry.
var Backoff = [...]time.Duration{60 * time.Second, 300 * time.Second, 900 * time.Second}

// Env-sourced settings. Loaded once at startup; missing keys keep the
// zero/default and the affected provider is skipped rather than half-wired.
type Env struct {
	RedisAddr     string
	RedisPassword string

	DatabaseURL string //postgres; empty -> in-memory document store

	AwsRegion  string
	BucketName string //empty -> local disk file store
	LocalFiles string

	GeminiAPIKey  string
	OpenAIAPIKey  string
	DocAIEndpoint string
	DocAIAPIKey   string
	OcrWebAPIKey  string

	AuthToken    string //user bearer token
	ServiceToken string //gates POST /process

	BatchSize int
}

// Load reads .env if present and resolves all environment overrides.
func Load() *Env {
	_ = godotenv.Load()

	return &Env{
		RedisAddr:     getEnv("REDIS_ADDR", RedisAddr),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		AwsRegion:     getEnv("AWS_REGION", "us-east-2"),
		BucketName:    getEnv("BUCKET_NAME", ""),
		LocalFiles:    getEnv("LOCAL_FILE_DIR", "document_data"),
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		DocAIEndpoint: getEnv("DOCAI_ENDPOINT", ""),
		DocAIAPIKey:   getEnv("DOCAI_API_KEY", ""),
		OcrWebAPIKey:  getEnv("OCRWEB_API_KEY", ""),
		AuthToken:     getEnv("AUTH_TOKEN", ""),
		ServiceToken:  getEnv("SERVICE_TOKEN", ""),
		BatchSize:     getEnvInt("BATCH_SIZE", BatchSize),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
