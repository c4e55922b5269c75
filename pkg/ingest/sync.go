package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"portfolio-be/internal/entity"
	"portfolio-be/internal/pkg/logger"
	"portfolio-be/internal/repository/contract"
	"portfolio-be/pkg/embedding"
	"portfolio-be/pkg/metrics"
	"portfolio-be/pkg/sanitize"
	"portfolio-be/pkg/vectorstore"
)

const maxMetaDescription = 500

// Report summarizes one sync run.
type Report struct {
	Collection string         `json:"collection"`
	Total      int            `json:"total"`
	Counts     map[string]int `json:"counts"`
	// Removed lists ids deleted from the collection because they were invalid.
	Removed []string `json:"removed,omitempty"`
	// Orphans lists collection ids with no backing record or file.
	Orphans []string `json:"orphans,omitempty"`
}

type Options struct {
	PortfolioPath string
	ResumePath    string
	SiteDomain    string
	Categories    []string
}

// Syncer rebuilds the vector collections from their sources of truth.
type Syncer struct {
	vectors  *vectorstore.Client
	embedder embedding.Embedder
	projects contract.ProjectRepository
	blogs    contract.BlogRepository
	opts     Options
	logger   logger.ILogger
}

func NewSyncer(
	vectors *vectorstore.Client,
	embedder embedding.Embedder,
	projects contract.ProjectRepository,
	blogs contract.BlogRepository,
	opts Options,
	log logger.ILogger,
) *Syncer {
	if len(opts.Categories) == 0 {
		opts.Categories = entity.DefaultBlogCategories
	}
	return &Syncer{
		vectors:  vectors,
		embedder: embedder,
		projects: projects,
		blogs:    blogs,
		opts:     opts,
		logger:   log,
	}
}

func (s *Syncer) logReport(r *Report) {
	metrics.SyncedEntries.WithLabelValues(r.Collection).Set(float64(r.Total))
	s.logger.Info(logger.ModuleSync, "Sync complete", map[string]interface{}{
		"collection": r.Collection,
		"total":      r.Total,
		"counts":     r.Counts,
		"removed":    len(r.Removed),
		"orphans":    len(r.Orphans),
	})
}

// rebuild wipes a collection and writes records in order.
func (s *Syncer) rebuild(ctx context.Context, name string, records []Record) error {
	if err := s.vectors.Reset(ctx, name); err != nil {
		return fmt.Errorf("reset %s: %w", name, err)
	}
	if len(records) == 0 {
		return nil
	}
	ids := make([]string, len(records))
	docs := make([]string, len(records))
	metas := make([]map[string]interface{}, len(records))
	for i, r := range records {
		ids[i], docs[i], metas[i] = r.ID, r.Document, r.Metadata
	}
	col := s.vectors.GetOrCreate(name, s.embedder)
	if err := col.Upsert(ctx, ids, docs, metas, nil); err != nil {
		return fmt.Errorf("upsert %s: %w", name, err)
	}
	return nil
}

// SyncPortfolio rebuilds the portfolio collection from the canonical JSON.
func (s *Syncer) SyncPortfolio(ctx context.Context) (*Report, error) {
	p, err := LoadPortfolio(s.opts.PortfolioPath)
	if err != nil {
		return nil, err
	}

	var resume string
	if s.opts.ResumePath != "" {
		resume, err = ExtractResumeText(s.opts.ResumePath)
		if err != nil {
			s.logger.Warn(logger.ModuleSync, "Resume text unavailable", map[string]interface{}{"error": err.Error()})
		}
	}

	records := BuildPortfolioRecords(p, resume)
	if err := s.rebuild(ctx, vectorstore.CollectionPortfolio, records); err != nil {
		return nil, err
	}

	report := &Report{Collection: vectorstore.CollectionPortfolio, Total: len(records), Counts: map[string]int{}}
	for _, r := range records {
		report.Counts[fmt.Sprint(r.Metadata["type"])]++
	}
	s.logReport(report)
	return report, nil
}

// SyncProjects rebuilds the projects collection from the record store.
func (s *Syncer) SyncProjects(ctx context.Context) (*Report, error) {
	projects, err := s.projects.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}

	records := make([]Record, 0, len(projects))
	for _, p := range projects {
		records = append(records, ProjectRecord(p))
	}
	if err := s.rebuild(ctx, vectorstore.CollectionProjects, records); err != nil {
		return nil, err
	}

	report := &Report{Collection: vectorstore.CollectionProjects, Total: len(records), Counts: map[string]int{}}
	for _, p := range projects {
		report.Counts[nonEmpty(p.Category, "uncategorized")]++
	}
	s.logReport(report)
	return report, nil
}

// SyncBlogs upserts every blog file with an allowed category. Entries with
// a disallowed category are deleted from the collection and reported for
// cleanup; their files are left alone.
func (s *Syncer) SyncBlogs(ctx context.Context) (*Report, error) {
	blogs, err := s.blogs.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load blogs: %w", err)
	}

	report := &Report{Collection: vectorstore.CollectionBlogs, Counts: map[string]int{}}
	col := s.vectors.GetOrCreate(vectorstore.CollectionBlogs, s.embedder)

	var ids, docs []string
	var metas []map[string]interface{}
	onDisk := make(map[string]struct{}, len(blogs))
	for _, b := range blogs {
		onDisk[b.Id] = struct{}{}
		if !entity.IsAllowedCategory(b.Category, s.opts.Categories) {
			s.logger.Warn(logger.ModuleSync, "Dropping blog with disallowed category", map[string]interface{}{
				"id":       b.Id,
				"category": b.Category,
			})
			report.Removed = append(report.Removed, b.Id)
			continue
		}
		ids = append(ids, b.Id)
		docs = append(docs, b.Content)
		metas = append(metas, BlogMetadata(b, s.opts.SiteDomain))
		report.Counts[b.Category]++
	}

	if len(report.Removed) > 0 {
		if err := col.Delete(ctx, report.Removed, nil); err != nil {
			return nil, fmt.Errorf("delete disallowed blogs: %w", err)
		}
	}
	if err := col.Upsert(ctx, ids, docs, metas, nil); err != nil {
		return nil, fmt.Errorf("upsert blogs: %w", err)
	}
	report.Total = len(ids)

	existing, err := col.Get(ctx, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("list blog entries: %w", err)
	}
	for _, e := range existing {
		if _, ok := onDisk[e.ID]; !ok {
			report.Orphans = append(report.Orphans, e.ID)
		}
	}
	sort.Strings(report.Orphans)

	s.logReport(report)
	return report, nil
}

// SyncAll runs every job and stops at the first failure.
func (s *Syncer) SyncAll(ctx context.Context) ([]*Report, error) {
	var reports []*Report
	for _, job := range []func(context.Context) (*Report, error){s.SyncPortfolio, s.SyncProjects, s.SyncBlogs} {
		r, err := job(ctx)
		if err != nil {
			return reports, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}

// BlogMetadata is the vector metadata stored for a published blog.
func BlogMetadata(b *entity.BlogArtifact, siteDomain string) map[string]interface{} {
	m := map[string]interface{}{"title": b.Title, "category": b.Category}
	if siteDomain != "" {
		m["url"] = BlogURL(siteDomain, b.Id)
	}
	if b.CreatedAt != "" {
		m["timestamp"] = b.CreatedAt
	}
	return m
}

func BlogURL(siteDomain, id string) string {
	return fmt.Sprintf("https://%s/blogs/%s", strings.TrimSuffix(siteDomain, "/"), id)
}

// ProjectRecord builds the rich retrieval document for a project. The
// document spells out the implementation so that questions about
// architecture or tooling match, not just the tagline.
func ProjectRecord(p *entity.Project) Record {
	title := nonEmpty(p.Title, p.Name)
	description := sanitize.Text(nonEmpty(p.Description, p.Summary))

	doc := joinNonEmpty("\n",
		"Project: "+title,
		prefixed("Summary: ", sanitize.Text(p.Summary)),
		prefixed("Description: ", description),
		prefixed("Role: ", p.Role),
		prefixed("Duration: ", p.Duration),
		teamSize(p.TeamSize),
		prefixed("Technologies: ", strings.Join(p.Technologies, ", ")),
		bulletList("Challenges", p.Challenges),
		bulletList("Solutions", p.Solutions),
		bulletList("Achievements", p.Achievements),
		prefixed("Outcomes: ", sanitize.Text(p.Outcomes)),
		implementationDetails(title, p),
	)

	techJSON, _ := json.Marshal(nonNil(p.Technologies))
	metadata := map[string]interface{}{
		"title":        title,
		"description":  logger.Truncate(description, maxMetaDescription),
		"category":     nonEmpty(p.Category, "General"),
		"technologies": string(techJSON),
		"duration":     p.Duration,
		"role":         p.Role,
	}
	return Record{ID: p.Id, Document: doc, Metadata: metadata}
}

func implementationDetails(title string, p *entity.Project) string {
	var b strings.Builder
	b.WriteString("Full implementation details: ")
	fmt.Fprintf(&b, "%s", title)
	if len(p.Technologies) > 0 {
		fmt.Fprintf(&b, " was implemented with %s", strings.Join(p.Technologies, ", "))
	} else {
		b.WriteString(" was implemented")
	}
	if p.Role != "" {
		fmt.Fprintf(&b, ", with the owner acting as %s", p.Role)
	}
	b.WriteString(".")
	if len(p.Challenges) > 0 && len(p.Solutions) > 0 {
		fmt.Fprintf(&b, " Key engineering problems such as %s were addressed by %s.",
			strings.ToLower(strings.Join(p.Challenges, "; ")), strings.ToLower(strings.Join(p.Solutions, "; ")))
	}
	if p.GithubURL != "" {
		fmt.Fprintf(&b, " Source code: %s.", p.GithubURL)
	}
	if p.LiveURL != "" {
		fmt.Fprintf(&b, " Live demo: %s.", p.LiveURL)
	}
	return b.String()
}

func teamSize(n int) string {
	if n <= 0 {
		return ""
	}
	return fmt.Sprintf("Team size: %d", n)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
