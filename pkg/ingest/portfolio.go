package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

// Portfolio is the canonical portfolio JSON document.
type Portfolio struct {
	PersonalInfo   PersonalInfo        `json:"personal_info"`
	Contact        Contact             `json:"contact"`
	Skills         map[string][]string `json:"skills"`
	Experience     []Experience        `json:"experience"`
	Education      []Education         `json:"education"`
	Certifications []Certification     `json:"certifications"`
	Achievements   []string            `json:"achievements"`
	Interests      []string            `json:"interests"`
	Languages      []string            `json:"languages"`
}

type PersonalInfo struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	Location string `json:"location"`
}

type Contact struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`
	Website  string `json:"website"`
}

type Experience struct {
	Company      string   `json:"company"`
	Role         string   `json:"role"`
	Duration     string   `json:"duration"`
	Location     string   `json:"location"`
	Description  string   `json:"description"`
	Highlights   []string `json:"highlights"`
	Technologies []string `json:"technologies"`
}

type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	Duration    string `json:"duration"`
	Grade       string `json:"grade"`
}

type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Date   string `json:"date"`
	URL    string `json:"url"`
}

// Section kinds stored in the "type" metadata key.
const (
	KindPersonalInfo  = "personal_info"
	KindContact       = "contact"
	KindSkill         = "skill"
	KindExperience    = "experience"
	KindEducation     = "education"
	KindCertification = "certification"
	KindAchievements  = "achievements"
	KindInterests     = "interests"
	KindLanguages     = "languages"
	KindResume        = "resume"
)

// Record is one vector-store entry produced by a sync job.
type Record struct {
	ID       string
	Document string
	Metadata map[string]interface{}
}

func LoadPortfolio(path string) (*Portfolio, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read portfolio: %w", err)
	}
	var p Portfolio
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse portfolio: %w", err)
	}
	return &p, nil
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lowercases s and joins alphanumeric runs with underscores.
func Slug(s string) string {
	return strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(s), "_"), "_")
}

// uniqueID returns base, or base_2, base_3 ... when categories collapse to
// the same slug. Callers iterate in sorted order so the suffixes are stable.
func uniqueID(seen map[string]bool, base string) string {
	id := base
	for n := 2; seen[id]; n++ {
		id = fmt.Sprintf("%s_%d", base, n)
	}
	seen[id] = true
	return id
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func meta(kind, section string, extra ...string) map[string]interface{} {
	m := map[string]interface{}{"type": kind, "section": section}
	for i := 0; i+1 < len(extra); i += 2 {
		if extra[i+1] != "" {
			m[extra[i]] = extra[i+1]
		}
	}
	return m
}

// BuildPortfolioRecords renders one record per natural section. The output
// depends only on its input, so repeated syncs produce identical entries.
func BuildPortfolioRecords(p *Portfolio, resumeText string) []Record {
	var out []Record
	name := p.PersonalInfo.Name
	if name == "" {
		name = "The owner"
	}

	if info := p.PersonalInfo; info.Name != "" || info.Summary != "" {
		doc := joinNonEmpty("\n",
			fmt.Sprintf("%s is %s.", name, strings.TrimSuffix(nonEmpty(info.Title, "a software engineer"), ".")),
			info.Summary,
			prefixed("Based in ", info.Location),
		)
		out = append(out, Record{ID: "personal_info", Document: doc, Metadata: meta(KindPersonalInfo, "Personal Information", "name", info.Name)})
	}

	if c := p.Contact; c != (Contact{}) {
		out = append(out, Record{ID: "contact_info", Document: contactProse(name, c), Metadata: meta(KindContact, "Contact Information", "email", c.Email)})
	}

	categories := make([]string, 0, len(p.Skills))
	for cat := range p.Skills {
		categories = append(categories, cat)
	}
	sort.Strings(categories)
	skillIDs := make(map[string]bool, len(categories))
	for _, cat := range categories {
		skills := p.Skills[cat]
		if len(skills) == 0 {
			continue
		}
		doc := fmt.Sprintf("%s skills: %s. %s is proficient in %s.", cat, strings.Join(skills, ", "), name, strings.Join(skills, ", "))
		out = append(out, Record{ID: uniqueID(skillIDs, "skill_"+nonEmpty(Slug(cat), "other")), Document: doc, Metadata: meta(KindSkill, "Skills", "category", cat)})
	}

	for i, e := range p.Experience {
		doc := joinNonEmpty("\n",
			fmt.Sprintf("%s worked as %s at %s.", name, nonEmpty(e.Role, "an engineer"), nonEmpty(e.Company, "a company")),
			prefixed("Duration: ", e.Duration),
			prefixed("Location: ", e.Location),
			e.Description,
			bulletList("Highlights", e.Highlights),
			prefixed("Technologies: ", strings.Join(e.Technologies, ", ")),
		)
		out = append(out, Record{ID: fmt.Sprintf("exp_%d", i), Document: doc, Metadata: meta(KindExperience, "Experience", "company", e.Company, "role", e.Role, "duration", e.Duration)})
	}

	for i, e := range p.Education {
		doc := joinNonEmpty("\n",
			fmt.Sprintf("%s studied %s at %s.", name, joinNonEmpty(" in ", e.Degree, e.Field), nonEmpty(e.Institution, "university")),
			prefixed("Duration: ", e.Duration),
			prefixed("Grade: ", e.Grade),
		)
		out = append(out, Record{ID: fmt.Sprintf("edu_%d", i), Document: doc, Metadata: meta(KindEducation, "Education", "institution", e.Institution, "degree", e.Degree)})
	}

	for i, c := range p.Certifications {
		doc := joinNonEmpty("\n",
			fmt.Sprintf("%s holds the certification %s.", name, c.Name),
			prefixed("Issued by ", c.Issuer),
			prefixed("Date: ", c.Date),
			prefixed("Credential: ", c.URL),
		)
		out = append(out, Record{ID: fmt.Sprintf("cert_%d", i), Document: doc, Metadata: meta(KindCertification, "Certifications", "name", c.Name, "issuer", c.Issuer)})
	}

	if len(p.Achievements) > 0 {
		out = append(out, Record{ID: "achievements", Document: bulletList(name+"'s achievements", p.Achievements), Metadata: meta(KindAchievements, "Achievements")})
	}
	if len(p.Interests) > 0 {
		out = append(out, Record{ID: "interests", Document: fmt.Sprintf("%s is interested in %s.", name, strings.Join(p.Interests, ", ")), Metadata: meta(KindInterests, "Interests")})
	}
	if len(p.Languages) > 0 {
		out = append(out, Record{ID: "languages", Document: fmt.Sprintf("%s speaks %s.", name, strings.Join(p.Languages, ", ")), Metadata: meta(KindLanguages, "Languages")})
	}

	if text := strings.TrimSpace(resumeText); text != "" {
		out = append(out, Record{ID: "resume_text", Document: text, Metadata: meta(KindResume, "Resume")})
	}
	return out
}

// contactProse writes the contact block as sentences so that questions like
// "how can I reach him" match phone, email and location naturally.
func contactProse(name string, c Contact) string {
	var s []string
	if c.Email != "" {
		s = append(s, fmt.Sprintf("You can email %s at %s.", name, c.Email))
	}
	if c.Phone != "" {
		s = append(s, fmt.Sprintf("%s's phone number is %s.", name, c.Phone))
	}
	if c.Location != "" {
		s = append(s, fmt.Sprintf("%s is located in %s.", name, c.Location))
	}
	if c.LinkedIn != "" {
		s = append(s, fmt.Sprintf("LinkedIn profile: %s.", c.LinkedIn))
	}
	if c.GitHub != "" {
		s = append(s, fmt.Sprintf("GitHub profile: %s.", c.GitHub))
	}
	if c.Website != "" {
		s = append(s, fmt.Sprintf("Personal website: %s.", c.Website))
	}
	return strings.Join(s, " ")
}

func nonEmpty(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func prefixed(prefix, v string) string {
	if strings.TrimSpace(v) == "" {
		return ""
	}
	return prefix + v
}

func bulletList(title string, items []string) string {
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(title + ":")
	for _, it := range items {
		b.WriteString("\n- " + it)
	}
	return b.String()
}
