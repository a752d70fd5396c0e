package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"studyroom-be/pkg/rag/intent"
	"studyroom-be/pkg/rag/synthesis"

	"github.com/joho/godotenv"
)

type Config struct {
	App           AppConfig
	Database      DatabaseConfig
	Auth          AuthConfig
	KnowledgeBase KnowledgeBaseConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	ContextLogFilePath string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	TelemetryTopic     string
}

type DatabaseConfig struct {
	Connection string
}

type AuthConfig struct {
	JwtSecret string
}

// Gate sources for KnowledgeBaseConfig.GateSource
const (
	GateSourceStatic   = "static"
	GateSourceDatabase = "database"
	GateSourceRedis    = "redis"
)

// Chunk store backends for KnowledgeBaseConfig.Store
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type KnowledgeBaseConfig struct {
	Enabled    bool   // static gate value, and default for the other sources
	GateSource string // "static", "database" or "redis"
	GateKey    string // redis key for the redis source
	Store      string // "postgres" or "memory"
	// FixturePath is a JSON or YAML file of documents loaded into the memory store
	FixturePath string
	// Upload chunking, in characters
	IngestChunkSize    int
	IngestChunkOverlap int
	Engine             synthesis.Config
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			ContextLogFilePath: getEnv("KB_LOG_FILE_PATH", "logs/context.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			TelemetryTopic:     getEnv("KB_TELEMETRY_TOPIC", "KB_CONTEXT_BUILT"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Auth: AuthConfig{
			JwtSecret: getEnv("JWT_SECRET", ""),
		},
		KnowledgeBase: loadKnowledgeBase(),
	}
}

func loadKnowledgeBase() KnowledgeBaseConfig {
	defaults := synthesis.DefaultConfig()
	rules := intent.DefaultRules()

	return KnowledgeBaseConfig{
		Enabled:            getEnvAsBool("KB_ENABLED", true),
		GateSource:         strings.ToLower(getEnv("KB_GATE_SOURCE", GateSourceStatic)),
		GateKey:            getEnv("KB_GATE_REDIS_KEY", "studyroom:kb:enabled"),
		Store:              strings.ToLower(getEnv("KB_STORE", StorePostgres)),
		FixturePath:        getEnv("KB_FIXTURE_PATH", ""),
		IngestChunkSize:    getEnvAsInt("KB_INGEST_CHUNK_SIZE", 1200),
		IngestChunkOverlap: getEnvAsInt("KB_INGEST_CHUNK_OVERLAP", 150),
		Engine: synthesis.Config{
			DocumentCap:       getEnvAsInt("KB_DOCUMENT_CAP", defaults.DocumentCap),
			ChunkCap:          getEnvAsInt("KB_CHUNK_CAP", defaults.ChunkCap),
			ChunksPerDocument: getEnvAsInt("KB_CHUNKS_PER_DOCUMENT", defaults.ChunksPerDocument),
			FragmentCharLimit: getEnvAsInt("KB_FRAGMENT_CHAR_LIMIT", defaults.FragmentCharLimit),
			TokenBudget:       getEnvAsInt("KB_TOKEN_BUDGET", defaults.TokenBudget),
			CharsPerToken:     getEnvAsInt("KB_CHARS_PER_TOKEN", defaults.CharsPerToken),
			SummaryChars:      getEnvAsInt("KB_SUMMARY_CHARS", defaults.SummaryChars),
			TopK:              getEnvAsInt("KB_TOP_K", defaults.TopK),
			Rules: intent.Rules{
				ExplicitPhrases: getEnvAsList("KB_EXPLICIT_PHRASES", rules.ExplicitPhrases),
				BroadPhrases:    getEnvAsList("KB_BROAD_PHRASES", rules.BroadPhrases),
				BroadMinLength:  getEnvAsInt("KB_BROAD_MIN_QUERY_LENGTH", rules.BroadMinLength),
			},
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsList splits a comma separated value; blank entries are ignored.
func getEnvAsList(key string, fallback []string) []string {
	strValue, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	out := make([]string, 0)
	for _, part := range strings.Split(strValue, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
