package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Mongo    MongoConfig
	SMTP     SMTPConfig
	Keys     APIKeys
	Ai       AIConfig
	Search   SearchConfig
	Chat     ChatConfig
	Blogger  BloggerConfig
	Admin    AdminConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	UploadDir          string
	DataDir            string
}

type DatabaseConfig struct {
	Connection string // Postgres DSN for the pgvector store; empty means in-memory vectors
	VectorDim  int
}

type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
	Recipient  string // owner inbox receiving contact messages
}

type APIKeys struct {
	OpenRouter   string
	Groq         string
	HuggingFace  string
	GoogleGemini string
	Jina         string
	Serper       string
	SerpAPI      string
}

type AIConfig struct {
	QueryEmbeddingProvider string // "gemini", "jina", "ollama" or "hash"
	SyncEmbeddingProvider  string
	OllamaBaseURL          string
	OllamaEmbeddingModel   string
	OllamaLLMModel         string

	ChatTier1Model string // free router
	ChatTier2Model string // free router
	ChatTier3Model string // hosted small (Groq)
	ChatTier4Model string // hosted flagship (Gemini)
	CriticModel    string
	SummarizerMode string // "frequency" or "truncate"
}

type SearchConfig struct {
	CacheDir      string
	MaxPerMinute  int
	CacheMaxHours int
}

type ChatConfig struct {
	OwnerName            string
	MaxRequestsPerMinute int
	CacheTTLSeconds      int
	CacheCapacity        int
	ContextBudget        int
}

type BloggerConfig struct {
	BlogsDir         string
	StateFile        string
	SiteDomain       string
	Timezone         string
	TemplatePath     string
	FeedbackPath     string
	PortfolioJSON    string
	ResumePDF        string
	RetentionDays    int
	SchedulerEnabled bool
	OverridesPath    string // optional YAML overrides
	Categories       []string
	WriterModels     []string
}

type AdminConfig struct {
	JWTSecret    string
	PasswordHash string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	cfg := &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "https://althafportfolio.site,http://localhost:3000,http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			UploadDir:          getEnv("UPLOAD_DIR", "uploads"),
			DataDir:            getEnv("DATA_DIR", "data"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
			VectorDim:  getEnvAsInt("VECTOR_DIM", 768),
		},
		Mongo: MongoConfig{
			URI:        getEnv("MONGO_URI", ""),
			Database:   getEnv("MONGO_DATABASE", "portfolio"),
			Collection: getEnv("MONGO_PROJECTS_COLLECTION", "projects"),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Portfolio"),
			Recipient:  getEnv("CONTACT_RECIPIENT", ""),
		},
		Keys: APIKeys{
			OpenRouter:   getEnv("OPENROUTER_API_KEY", ""),
			Groq:         getEnv("GROQ_API_KEY", ""),
			HuggingFace:  getEnv("HUGGINGFACE_API_KEY", ""),
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			Jina:         getEnv("JINA_API_KEY", ""),
			Serper:       getEnv("SERPER_API_KEY", ""),
			SerpAPI:      getEnv("SERPAPI_API_KEY", ""),
		},
		Ai: AIConfig{
			QueryEmbeddingProvider: getEnv("QUERY_EMBEDDING_PROVIDER", "ollama"),
			SyncEmbeddingProvider:  getEnv("SYNC_EMBEDDING_PROVIDER", "ollama"),
			OllamaBaseURL:          getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaEmbeddingModel:   getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			OllamaLLMModel:         getEnv("OLLAMA_LLM_MODEL", ""),
			ChatTier1Model:         getEnv("CHAT_TIER1_MODEL", "meta-llama/llama-3.2-3b-instruct:free"),
			ChatTier2Model:         getEnv("CHAT_TIER2_MODEL", "mistralai/mistral-7b-instruct:free"),
			ChatTier3Model:         getEnv("CHAT_TIER3_MODEL", "llama-3.1-8b-instant"),
			ChatTier4Model:         getEnv("CHAT_TIER4_MODEL", "gemini-2.0-flash"),
			CriticModel:            getEnv("CRITIC_MODEL", "groq:llama-3.1-8b-instant"),
			SummarizerMode:         getEnv("SUMMARIZER_MODE", "truncate"),
		},
		Search: SearchConfig{
			CacheDir:      getEnv("SEARCH_CACHE_DIR", "cache/search"),
			MaxPerMinute:  getEnvAsInt("SEARCH_MAX_PER_MINUTE", 10),
			CacheMaxHours: getEnvAsInt("SEARCH_CACHE_MAX_HOURS", 24),
		},
		Chat: ChatConfig{
			OwnerName:            getEnv("OWNER_NAME", "Althaf"),
			MaxRequestsPerMinute: getEnvAsInt("CHAT_MAX_RPM", 20),
			CacheTTLSeconds:      getEnvAsInt("CHAT_CACHE_TTL", 3600),
			CacheCapacity:        getEnvAsInt("CHAT_CACHE_SIZE", 100),
			ContextBudget:        getEnvAsInt("CHAT_CONTEXT_BUDGET", 12000),
		},
		Blogger: BloggerConfig{
			BlogsDir:         getEnv("BLOGS_DIR", "data/blogs"),
			StateFile:        getEnv("SCHEDULER_STATE_FILE", "data/scheduler_state.json"),
			SiteDomain:       getEnv("SITE_DOMAIN", "althafportfolio.site"),
			Timezone:         getEnv("SCHEDULER_TIMEZONE", "Asia/Kolkata"),
			TemplatePath:     getEnv("BLOG_TEMPLATE_PATH", ""),
			FeedbackPath:     getEnv("BLOG_FEEDBACK_PATH", ""),
			PortfolioJSON:    getEnv("PORTFOLIO_JSON_PATH", "data/portfolio.json"),
			ResumePDF:        getEnv("RESUME_PDF_PATH", ""),
			RetentionDays:    getEnvAsInt("BLOG_RETENTION_DAYS", 60),
			SchedulerEnabled: getEnvAsBool("SCHEDULER_ENABLED", true),
			OverridesPath:    getEnv("BLOGGER_CONFIG_PATH", ""),
			WriterModels: getEnvAsList("WRITER_MODELS", []string{
				"openrouter:meta-llama/llama-3.3-70b-instruct:free",
				"openrouter:deepseek/deepseek-chat:free",
				"groq:llama-3.3-70b-versatile",
			}),
		},
		Admin: AdminConfig{
			JWTSecret:    getEnv("JWT_SECRET", ""),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		},
	}

	if cfg.Blogger.OverridesPath != "" {
		if err := ApplyBloggerOverrides(&cfg.Blogger, cfg.Blogger.OverridesPath); err != nil {
			log.Printf("[WARN] Failed to apply blogger overrides from %s: %v", cfg.Blogger.OverridesPath, err)
		}
	}

	return cfg
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
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

func getEnvAsList(key string, fallback []string) []string {
	strValue := strings.TrimSpace(getEnv(key, ""))
	if strValue == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(strValue, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
