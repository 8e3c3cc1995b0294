// Package resume holds the static portfolio content: personal details, work
// history, projects, skills and education.
package resume

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed resume.yaml
var defaultYAML []byte

// PersonalInfo is the site owner's contact card.
type PersonalInfo struct {
	Name            string `yaml:"name" json:"name"`
	Title           string `yaml:"title" json:"title"`
	Location        string `yaml:"location" json:"location"`
	Email           string `yaml:"email" json:"email"`
	Website         string `yaml:"website" json:"website"`
	LinkedIn        string `yaml:"linkedin" json:"linkedin"`
	GitHub          string `yaml:"github,omitempty" json:"github,omitempty"`
	X               string `yaml:"x,omitempty" json:"x,omitempty"`
	Avatar          string `yaml:"avatar,omitempty" json:"avatar,omitempty"`
	YearsExperience string `yaml:"yearsExperience" json:"years_experience"`
}

// Job is one entry of the work timeline.
type Job struct {
	ID          string   `yaml:"id" json:"id"`
	Company     string   `yaml:"company" json:"company"`
	Title       string   `yaml:"title" json:"title"`
	StartDate   string   `yaml:"startDate" json:"start_date"`
	EndDate     string   `yaml:"endDate" json:"end_date"`
	IsCurrent   bool     `yaml:"isCurrent" json:"is_current"`
	Description []string `yaml:"description" json:"description"`
}

// Dates renders the job's date range.
func (j Job) Dates() string {
	return j.StartDate + " - " + j.EndDate
}

// Project is a portfolio project. URL is empty for unreleased projects.
type Project struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	URL         string   `yaml:"url,omitempty" json:"url,omitempty"`
	Description string   `yaml:"description" json:"description"`
	TechStack   []string `yaml:"techStack" json:"tech_stack"`
	Featured    bool     `yaml:"featured" json:"featured"`
}

// ComingSoon reports whether the project has no public link yet.
func (p Project) ComingSoon() bool {
	return p.URL == ""
}

// SkillCategory groups skills that share one proficiency value.
type SkillCategory struct {
	ID          string   `yaml:"id" json:"id"`
	Category    string   `yaml:"category" json:"category"`
	Skills      []string `yaml:"skills" json:"skills"`
	Proficiency int      `yaml:"proficiency" json:"proficiency"`
}

// Education is a degree entry.
type Education struct {
	ID          string `yaml:"id" json:"id"`
	Institution string `yaml:"institution" json:"institution"`
	Degree      string `yaml:"degree" json:"degree"`
	Field       string `yaml:"field" json:"field"`
	Location    string `yaml:"location" json:"location"`
	Year        int    `yaml:"year" json:"year"`
}

// Resume is the full content of the site.
type Resume struct {
	Personal  PersonalInfo    `yaml:"personal" json:"personal"`
	About     string          `yaml:"about" json:"about"`
	Projects  []Project       `yaml:"projects" json:"projects"`
	Jobs      []Job           `yaml:"jobs" json:"jobs"`
	Skills    []SkillCategory `yaml:"skills" json:"skills"`
	Education []Education     `yaml:"education" json:"education"`
}

// Default returns the embedded resume.
func Default() (*Resume, error) {
	return Parse(defaultYAML)
}

// LoadFile reads a resume from a YAML file.
func LoadFile(path string) (*Resume, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume file %s: %w", path, err)
	}
	return Parse(data)
}

// Load returns the resume at path, or the embedded one when path is empty.
func Load(path string) (*Resume, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

// Parse decodes a YAML resume and checks its invariants.
func Parse(data []byte) (*Resume, error) {
	var r Resume
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse resume YAML: %w", err)
	}
	if err := r.check(); err != nil {
		return nil, err
	}
	return &r, nil
}

// check enforces the table invariants: proficiencies within 0..100 and ids
// unique per table.
func (r *Resume) check() error {
	for _, s := range r.Skills {
		if s.Proficiency < 0 || s.Proficiency > 100 {
			return fmt.Errorf("resume: skill %q proficiency %d out of range 0-100", s.ID, s.Proficiency)
		}
	}

	tables := map[string][]string{}
	for _, j := range r.Jobs {
		tables["jobs"] = append(tables["jobs"], j.ID)
	}
	for _, p := range r.Projects {
		tables["projects"] = append(tables["projects"], p.ID)
	}
	for _, s := range r.Skills {
		tables["skills"] = append(tables["skills"], s.ID)
	}
	for _, e := range r.Education {
		tables["education"] = append(tables["education"], e.ID)
	}
	for table, ids := range tables {
		seen := make(map[string]bool, len(ids))
		for _, id := range ids {
			if id == "" {
				return fmt.Errorf("resume: %s entry with empty id", table)
			}
			if seen[id] {
				return fmt.Errorf("resume: duplicate %s id %q", table, id)
			}
			seen[id] = true
		}
	}
	return nil
}

// SkillEntry is a single skill with its backing proficiency.
type SkillEntry struct {
	Name        string
	Proficiency int
}

// Entries expands a category into per-skill entries; each skill carries the
// category's proficiency.
func (c SkillCategory) Entries() []SkillEntry {
	entries := make([]SkillEntry, len(c.Skills))
	for i, name := range c.Skills {
		entries[i] = SkillEntry{Name: name, Proficiency: c.Proficiency}
	}
	return entries
}

// AverageProficiency is the arithmetic mean of the entries rounded to the
// nearest integer, or 0 without entries.
func AverageProficiency(entries []SkillEntry) int {
	if len(entries) == 0 {
		return 0
	}
	sum := 0
	for _, e := range entries {
		sum += e.Proficiency
	}
	return int(math.Round(float64(sum) / float64(len(entries))))
}
