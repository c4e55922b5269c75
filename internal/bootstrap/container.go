package bootstrap

import (
	"time"

	"portfolio-be/internal/config"
	"portfolio-be/internal/controller"
	"portfolio-be/internal/pkg/mailer"
	"portfolio-be/internal/repository/memory"
	"portfolio-be/internal/service"
	"portfolio-be/pkg/assistant"
	"portfolio-be/pkg/cache"
	"portfolio-be/pkg/rag"
	"portfolio-be/pkg/vectorstore"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const summarySentences = 3

type Container struct {
	*Core

	// Controllers
	ChatController    controller.IChatController
	ProjectController controller.IProjectController
	BlogController    controller.IBlogController
	ContactController controller.IContactController
	AdminController   controller.IAdminController
	HealthController  controller.IHealthController

	// Background Services (Exposed for main.go to run)
	SyncConsumerService service.ISyncConsumerService
}

func NewContainer(core *Core) *Container {
	cfg := core.Config
	sysLogger := core.Logger

	// 1. Chat
	var summarizer rag.Summarizer
	if cfg.Ai.SummarizerMode == "frequency" {
		summarizer = rag.NewFrequencySummarizer(summarySentences)
	}
	retriever := rag.NewRetriever(core.Vectors, core.QueryEmbedder, summarizer, sysLogger)

	bot := assistant.New(
		assistant.Config{
			OwnerName:     cfg.Chat.OwnerName,
			Tiers:         ChatTiers(cfg.Ai),
			ContextBudget: cfg.Chat.ContextBudget,
		},
		retriever,
		core.Gateway,
		memory.NewSessionRepository(),
		cache.NewResponseCache(time.Duration(cfg.Chat.CacheTTLSeconds)*time.Second, cfg.Chat.CacheCapacity),
		cache.NewRateLimiter(cfg.Chat.MaxRequestsPerMinute),
		sysLogger,
	)

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)

	// 3. Services
	projectService := service.NewProjectService(
		core.Projects,
		service.NewLocalImageUploader(cfg.App.UploadDir, cfg.App.BaseURL),
		core.Vectors.GetOrCreate(vectorstore.CollectionProjects, core.SyncEmbedder),
		sysLogger,
	)
	ownerService := service.NewOwnerService(cfg.Admin.PasswordHash, cfg.Admin.JWTSecret, pubSub, sysLogger)
	syncConsumer := service.NewSyncConsumerService(pubSub, core.Syncer, core.Notifier, sysLogger)

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		cfg.SMTP.Recipient,
		sysLogger,
	)

	checks := make(map[string]controller.HealthCheck)
	for name, check := range core.HealthChecks() {
		checks[name] = check
	}

	// 4. Controllers
	return &Container{
		Core:              core,
		ChatController:    controller.NewChatController(bot),
		ProjectController: controller.NewProjectController(projectService),
		BlogController:    controller.NewBlogController(core.Blogs, core.Blogger),
		ContactController: controller.NewContactController(emailService),
		AdminController:   controller.NewAdminController(ownerService, core.Scheduler, sysLogger),
		HealthController:  controller.NewHealthController(checks),

		SyncConsumerService: syncConsumer,
	}
}

// ChatTiers maps the four configured models onto their providers: two free
// router models, a hosted small model and the hosted flagship.
func ChatTiers(ai config.AIConfig) []assistant.Tier {
	return []assistant.Tier{
		{Name: "router-primary", Model: "openrouter:" + ai.ChatTier1Model},
		{Name: "router-secondary", Model: "openrouter:" + ai.ChatTier2Model},
		{Name: "hosted-small", Model: "groq:" + ai.ChatTier3Model},
		{Name: "hosted-flagship", Model: "gemini:" + ai.ChatTier4Model},
	}
}
