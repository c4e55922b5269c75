package cli

import (
	"errors"
	"fmt"
	"strings"

	"portfolio-be/internal/bootstrap"
	"portfolio-be/pkg/llm"
	"portfolio-be/pkg/vectorstore"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var errUnhealthy = errors.New("diagnostics found problems")

func init() {
	cmd := &cobra.Command{
		Use:   "diagnose",
		Short: "Check configuration, providers and collections",
		Args:  cobra.NoArgs,
		RunE:  runDiagnose,
	}

	RootCmd.AddCommand(cmd)
}

type report struct {
	problems int
}

func (r *report) section(title string) { color.Cyan("\n== %s ==", title) }

func (r *report) ok(format string, a ...interface{}) { color.Green("  [ok]   "+format, a...) }

func (r *report) warn(format string, a ...interface{}) { color.Yellow("  [warn] "+format, a...) }

func (r *report) bad(format string, a ...interface{}) {
	r.problems++
	color.Red("  [fail] "+format, a...)
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	core, err := openCore(cmd)
	if err != nil {
		return err
	}
	defer core.Close()

	ctx := cmd.Context()
	cfg := core.Config
	r := &report{}

	r.section("Storage")
	if core.DB != nil {
		r.ok("vectors: postgres (pgvector)")
	} else {
		r.warn("vectors: in-memory, lost on restart")
	}
	if core.Mongo != nil {
		r.ok("projects: mongo %s.%s", cfg.Mongo.Database, cfg.Mongo.Collection)
	} else {
		r.warn("projects: in-memory store")
	}
	r.ok("blogs: %s", core.Blogs.Dir())
	for name, check := range core.HealthChecks() {
		if err := check(ctx); err != nil {
			r.bad("%s: %v", name, err)
		} else {
			r.ok("%s reachable", name)
		}
	}

	r.section("Embeddings")
	query, sync := core.EmbedderNames[0], core.EmbedderNames[1]
	if query == sync {
		r.ok("query and sync both use %s (dim %d)", query, core.QueryEmbedder.Dimension())
	} else {
		r.warn("query uses %s but sync uses %s", query, sync)
	}

	r.section("Collections")
	for _, name := range []string{vectorstore.CollectionPortfolio, vectorstore.CollectionProjects, vectorstore.CollectionBlogs} {
		count, err := core.Vectors.GetOrCreate(name, core.SyncEmbedder).Count(ctx)
		switch {
		case err != nil:
			r.bad("%s: %v", name, err)
		case count == 0:
			r.warn("%s: empty, run `portfolioctl sync`", name)
		default:
			r.ok("%s: %d entries", name, count)
		}
	}

	r.section("LLM providers")
	if len(core.Providers) == 0 {
		r.bad("no provider has credentials, chat is offline")
	} else {
		r.ok("registered: %s", strings.Join(core.Providers, ", "))
	}
	for _, tier := range bootstrap.ChatTiers(cfg.Ai) {
		checkModel(r, core.Gateway, "chat "+tier.Name, tier.Model)
	}
	for i, model := range cfg.Blogger.WriterModels {
		checkModel(r, core.Gateway, fmt.Sprintf("writer %d", i+1), model)
	}
	checkModel(r, core.Gateway, "critic", cfg.Ai.CriticModel)

	r.section("Integrations")
	if cfg.Keys.Serper == "" && cfg.Keys.SerpAPI == "" {
		r.warn("web search: only the DuckDuckGo scraper is available")
	} else {
		r.ok("web search: paid provider configured")
	}
	if cfg.SMTP.Host == "" || cfg.SMTP.Recipient == "" {
		r.warn("contact relay: SMTP not configured")
	} else {
		r.ok("contact relay: %s -> %s", cfg.SMTP.Host, cfg.SMTP.Recipient)
	}
	if cfg.Admin.JWTSecret == "" || cfg.Admin.PasswordHash == "" {
		r.warn("admin routes disabled: JWT_SECRET or ADMIN_PASSWORD_HASH missing")
	} else {
		r.ok("admin login configured")
	}
	if core.Events == nil {
		r.warn("notifications: log only (NATS not connected)")
	} else {
		r.ok("notifications: log and NATS")
	}

	r.section("Scheduler")
	for _, st := range core.Scheduler.Status() {
		r.ok("%-14s %-12s next %s", st.Name, st.Cron, st.NextRun.Format("2006-01-02 15:04 MST"))
	}

	fmt.Println()
	if r.problems > 0 {
		color.Red("%d problem(s) found", r.problems)
		return errUnhealthy
	}
	color.Green("All checks passed")
	return nil
}

func checkModel(r *report, gw *llm.Gateway, label, model string) {
	provider, _ := llm.SplitModel(model)
	if gw.Has(provider) {
		r.ok("%s: %s", label, model)
		return
	}
	r.warn("%s: %s skipped, no %q credentials", label, model, provider)
}
