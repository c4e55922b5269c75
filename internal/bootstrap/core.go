package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"portfolio-be/internal/config"
	"portfolio-be/internal/entity"
	"portfolio-be/internal/pkg/logger"
	"portfolio-be/internal/repository/contract"
	"portfolio-be/internal/repository/implementation"
	"portfolio-be/internal/repository/memory"
	"portfolio-be/internal/scheduler"
	"portfolio-be/pkg/blogger"
	"portfolio-be/pkg/database"
	"portfolio-be/pkg/embedding"
	"portfolio-be/pkg/embedding/jina"
	"portfolio-be/pkg/events"
	"portfolio-be/pkg/ingest"
	"portfolio-be/pkg/llm"
	"portfolio-be/pkg/llm/factory"
	"portfolio-be/pkg/llm/gemini"
	pktNats "portfolio-be/pkg/nats"
	"portfolio-be/pkg/vectorstore"
	"portfolio-be/pkg/websearch"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

const geminiEmbeddingModel = "text-embedding-004"

// Core holds everything the HTTP server and the CLI share: stores,
// embedders, the LLM gateway, sync and the auto-blogger.
type Core struct {
	Config *config.Config
	Logger *logger.ZapLogger

	DB    *gorm.DB
	Mongo *mongo.Database

	Vectors       *vectorstore.Client
	QueryEmbedder embedding.Embedder
	SyncEmbedder  embedding.Embedder
	EmbedderNames [2]string // query, sync
	Projects      contract.ProjectRepository
	Blogs         contract.BlogRepository

	Gateway   *llm.Gateway
	Providers []string
	Search    *websearch.Client

	Syncer    *ingest.Syncer
	Blogger   *blogger.Service
	Notifier  events.Notifier
	Events    *pktNats.Publisher
	Scheduler *scheduler.Scheduler

	closers []func() error
}

// NewCore connects every backing service. Optional services (Postgres,
// Mongo, NATS, Redis) degrade to in-process fallbacks when unset or down.
func NewCore(ctx context.Context, cfg *config.Config) (*Core, error) {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	c := &Core{Config: cfg, Logger: sysLogger}

	if err := c.initStores(ctx); err != nil {
		c.Close()
		return nil, err
	}
	c.initEmbedders(ctx)

	c.Gateway = llm.NewGateway(sysLogger)
	providers := factory.RegisterAll(ctx, c.Gateway, factory.Credentials{
		OpenRouterKey:  cfg.Keys.OpenRouter,
		GroqKey:        cfg.Keys.Groq,
		HuggingFaceKey: cfg.Keys.HuggingFace,
		GeminiKey:      cfg.Keys.GoogleGemini,
		OllamaBaseURL:  cfg.Ai.OllamaBaseURL,
		OllamaModel:    cfg.Ai.OllamaLLMModel,
		SiteURL:        cfg.App.BaseURL,
	}, sysLogger)
	c.Providers = providers
	sysLogger.Info(logger.ModuleLLM, "LLM providers registered", map[string]interface{}{
		"providers": providers,
	})

	c.initNotifier()

	c.Syncer = ingest.NewSyncer(c.Vectors, c.SyncEmbedder, c.Projects, c.Blogs, ingest.Options{
		PortfolioPath: cfg.Blogger.PortfolioJSON,
		ResumePath:    cfg.Blogger.ResumePDF,
		SiteDomain:    cfg.Blogger.SiteDomain,
		Categories:    cfg.Blogger.Categories,
	}, sysLogger)

	if err := c.initBlogger(); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initScheduler(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Core) initStores(ctx context.Context) error {
	cfg := c.Config

	if cfg.Database.Connection != "" {
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.App.Environment == "debug")
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		c.DB = db
		c.Vectors = vectorstore.NewClient(implementation.NewPgVectorStore(db))
		c.closers = append(c.closers, func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		})
	} else {
		c.Logger.Warn(logger.ModuleVector, "DB_CONNECTION_STRING not set, using in-memory vectors", nil)
		c.Vectors = vectorstore.NewClient(vectorstore.NewMemoryStore())
	}

	if cfg.Mongo.URI != "" {
		mdb, err := database.NewMongoDatabase(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return fmt.Errorf("connect mongo: %w", err)
		}
		c.Mongo = mdb
		c.Projects = implementation.NewProjectRepository(mdb, cfg.Mongo.Collection)
		c.closers = append(c.closers, func() error {
			return mdb.Client().Disconnect(context.Background())
		})
	} else {
		c.Logger.Warn(logger.ModuleProjects, "MONGO_URI not set, using in-memory project store", nil)
		c.Projects = memory.NewProjectRepository()
	}

	blogs, err := implementation.NewFileBlogRepository(cfg.Blogger.BlogsDir)
	if err != nil {
		return fmt.Errorf("open blogs dir: %w", err)
	}
	c.Blogs = blogs
	return nil
}

func (c *Core) initEmbedders(ctx context.Context) {
	ai := c.Config.Ai
	queryProvider := c.embeddingProvider(ctx, ai.QueryEmbeddingProvider)
	syncProvider := c.embeddingProvider(ctx, ai.SyncEmbeddingProvider)

	if queryProvider.Name() != syncProvider.Name() || queryProvider.Dimension() != syncProvider.Dimension() {
		c.Logger.Warn(logger.ModuleEmbed, "Query and sync embedders differ, retrieval quality will suffer", map[string]interface{}{
			"query": queryProvider.Name(),
			"sync":  syncProvider.Name(),
		})
	}

	c.EmbedderNames = [2]string{queryProvider.Name(), syncProvider.Name()}
	c.QueryEmbedder = embedding.NewSafeEmbedder(queryProvider, embedding.TaskRetrievalQuery, c.Logger)
	c.SyncEmbedder = embedding.NewSafeEmbedder(syncProvider, embedding.TaskRetrievalDocument, c.Logger)
}

// embeddingProvider builds a provider by name. Remote providers without a
// key fall back to the hash embedder so the process still starts.
func (c *Core) embeddingProvider(ctx context.Context, kind string) embedding.EmbeddingProvider {
	cfg := c.Config
	dim := cfg.Database.VectorDim

	switch strings.ToLower(kind) {
	case "gemini":
		if cfg.Keys.GoogleGemini == "" {
			break
		}
		client, err := gemini.NewClient(ctx, cfg.Keys.GoogleGemini)
		if err != nil {
			c.Logger.Warn(logger.ModuleEmbed, "Gemini client failed", map[string]interface{}{"error": err.Error()})
			break
		}
		return embedding.NewGeminiProvider(client, geminiEmbeddingModel, dim)
	case "jina":
		if cfg.Keys.Jina == "" {
			break
		}
		return jina.NewJinaProvider(cfg.Keys.Jina, dim)
	case "hash":
		return embedding.NewHashProvider(dim)
	default:
		return embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaEmbeddingModel, dim)
	}

	c.Logger.Warn(logger.ModuleEmbed, "Embedding provider unavailable, using hash embedder", map[string]interface{}{
		"provider": kind,
	})
	return embedding.NewHashProvider(dim)
}

func (c *Core) initNotifier() {
	notifiers := events.Multi{events.NewLogNotifier(c.Logger)}
	if url := c.Config.App.NatsURL; url != "" {
		pub, err := pktNats.NewPublisher(url, c.Logger)
		if err != nil {
			c.Logger.Warn(logger.ModuleNotify, "Failed to connect to NATS publisher", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			c.Events = pub
			notifiers = append(notifiers, pub)
			c.closers = append(c.closers, func() error { pub.Close(); return nil })
		}
	}
	c.Notifier = notifiers
}

func (c *Core) initBlogger() error {
	cfg := c.Config
	clock := blogger.SystemClock{}
	blogLog := logger.NewIsolatedLogger(filepath.Join(filepath.Dir(cfg.App.LogFilePath), "blogger.log"))

	// Paid providers first, the free scraper last.
	var providers []websearch.Provider
	if cfg.Keys.Serper != "" {
		providers = append(providers, websearch.NewSerperProvider(cfg.Keys.Serper))
	}
	if cfg.Keys.SerpAPI != "" {
		providers = append(providers, websearch.NewSerpAPIProvider(cfg.Keys.SerpAPI))
	}
	providers = append(providers, websearch.NewDuckDuckGoProvider())
	diskCache, err := websearch.NewDiskCache(cfg.Search.CacheDir, time.Duration(cfg.Search.CacheMaxHours)*time.Hour)
	if err != nil {
		c.Logger.Warn(logger.ModuleSearch, "Search cache disabled", map[string]interface{}{"error": err.Error()})
		diskCache = nil
	}
	c.Search = websearch.NewClient(providers, diskCache, cfg.Search.MaxPerMinute, c.Logger)

	template, err := loadText(cfg.Blogger.TemplatePath, blogger.DefaultTemplate)
	if err != nil {
		return fmt.Errorf("load blog template: %w", err)
	}
	checklist, err := loadText(cfg.Blogger.FeedbackPath, blogger.DefaultFeedback)
	if err != nil {
		return fmt.Errorf("load feedback checklist: %w", err)
	}

	categories := cfg.Blogger.Categories
	if len(categories) == 0 {
		categories = entity.DefaultBlogCategories
	}

	blogIndex := c.Vectors.GetOrCreate(vectorstore.CollectionBlogs, c.SyncEmbedder)
	retention := time.Duration(cfg.Blogger.RetentionDays) * 24 * time.Hour

	pipeline := blogger.NewPipeline(
		blogger.NewWebResearcher(c.Search, blogger.NewTrafilaturaExtractor(), clock, blogLog),
		blogger.NewLLMWriter(c.Gateway, cfg.Blogger.WriterModels, template, checklist, clock, blogLog),
		blogger.NewLLMCritic(c.Gateway, cfg.Ai.CriticModel, checklist, blogLog),
		c.Notifier,
		blogLog,
	)
	c.Blogger = blogger.NewService(
		pipeline,
		blogger.NewPublisher(c.Blogs, blogIndex, cfg.Blogger.SiteDomain, clock, blogLog),
		blogger.NewCleaner(c.Blogs, blogIndex, retention, clock, blogLog),
		blogger.NewRotation(cfg.Blogger.StateFile, categories, clock),
		categories,
		c.Notifier,
		blogLog,
	)
	c.closers = append(c.closers, blogLog.Sync)
	return nil
}

func (c *Core) initScheduler(ctx context.Context) error {
	var locker scheduler.Locker = scheduler.NewLocalLocker()
	if url := c.Config.App.RedisURL; url != "" {
		redisLocker, err := scheduler.ConnectRedisLocker(ctx, url)
		if err != nil {
			c.Logger.Warn(logger.ModuleScheduler, "Redis unavailable, using in-process job lock", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			locker = redisLocker
			c.closers = append(c.closers, redisLocker.Close)
		}
	}

	sched, err := scheduler.New(c.Config.Blogger.Timezone, locker, c.Notifier, c.Logger)
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}
	if err := sched.RegisterAll(scheduler.BloggerJobs(c.Blogger)); err != nil {
		return fmt.Errorf("register jobs: %w", err)
	}
	c.Scheduler = sched
	return nil
}

// HealthChecks lists the optional dependencies that are actually wired.
func (c *Core) HealthChecks() map[string]func(ctx context.Context) error {
	checks := map[string]func(ctx context.Context) error{}
	if c.DB != nil {
		checks["postgres"] = func(ctx context.Context) error {
			sqlDB, err := c.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}
	if c.Mongo != nil {
		checks["mongo"] = func(ctx context.Context) error {
			return c.Mongo.Client().Ping(ctx, nil)
		}
	}
	if c.Events != nil {
		checks["nats"] = func(context.Context) error {
			if !c.Events.Connected() {
				return errors.New("not connected")
			}
			return nil
		}
	}
	return checks
}

// Close releases connections in reverse order of creation.
func (c *Core) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
	return errors.Join(errs...)
}

func loadText(path, fallback string) (string, error) {
	if path == "" {
		return fallback, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
