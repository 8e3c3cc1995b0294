// Package catalog serves the resume tables from an in-memory SQLite database.
// The database is seeded once at startup and only read afterwards.
package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hugoce17/hugocodes/internal/resume"

	_ "modernc.org/sqlite"
)

// SkillOrder selects the ordering of skill categories.
type SkillOrder int

const (
	// SkillsInOrder keeps the data file order.
	SkillsInOrder SkillOrder = iota
	// SkillsByProficiency sorts highest proficiency first, ties in data file order.
	SkillsByProficiency
)

const schema = `
CREATE TABLE jobs (
	pos INTEGER PRIMARY KEY,
	id TEXT NOT NULL UNIQUE,
	company TEXT NOT NULL,
	title TEXT NOT NULL,
	start_date TEXT NOT NULL,
	end_date TEXT NOT NULL,
	is_current INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE job_descriptions (
	job_id TEXT NOT NULL REFERENCES jobs(id),
	pos INTEGER NOT NULL,
	text TEXT NOT NULL,
	PRIMARY KEY (job_id, pos)
);
CREATE TABLE projects (
	pos INTEGER PRIMARY KEY,
	id TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	url TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL,
	featured INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE project_tech (
	project_id TEXT NOT NULL REFERENCES projects(id),
	pos INTEGER NOT NULL,
	label TEXT NOT NULL,
	PRIMARY KEY (project_id, pos)
);
CREATE TABLE skill_categories (
	pos INTEGER PRIMARY KEY,
	id TEXT NOT NULL UNIQUE,
	category TEXT NOT NULL,
	proficiency INTEGER NOT NULL CHECK (proficiency BETWEEN 0 AND 100)
);
CREATE TABLE skill_labels (
	category_id TEXT NOT NULL REFERENCES skill_categories(id),
	pos INTEGER NOT NULL,
	label TEXT NOT NULL,
	PRIMARY KEY (category_id, pos)
);
CREATE TABLE education (
	pos INTEGER PRIMARY KEY,
	id TEXT NOT NULL UNIQUE,
	institution TEXT NOT NULL,
	degree TEXT NOT NULL,
	field TEXT NOT NULL,
	location TEXT NOT NULL,
	year INTEGER NOT NULL
);`

// Catalog is a read-only view of a resume.
type Catalog struct {
	db       *sql.DB
	personal resume.PersonalInfo
	about    string
}

// Open creates an in-memory database and seeds it from r.
func Open(ctx context.Context, r *resume.Resume) (*Catalog, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create catalog schema: %w", err)
	}

	if err := seed(ctx, db, r); err != nil {
		db.Close()
		return nil, err
	}

	return &Catalog{db: db, personal: r.Personal, about: r.About}, nil
}

// Close releases the database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Personal returns the contact card.
func (c *Catalog) Personal() resume.PersonalInfo {
	return c.personal
}

// About returns the summary paragraph.
func (c *Catalog) About() string {
	return c.about
}

func seed(ctx context.Context, db *sql.DB, r *resume.Resume) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for i, j := range r.Jobs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO jobs (pos, id, company, title, start_date, end_date, is_current)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, i, j.ID, j.Company, j.Title, j.StartDate, j.EndDate, j.IsCurrent); err != nil {
			return fmt.Errorf("failed to seed job %s: %w", j.ID, err)
		}
		for k, line := range j.Description {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO job_descriptions (job_id, pos, text) VALUES (?, ?, ?)`,
				j.ID, k, line); err != nil {
				return fmt.Errorf("failed to seed job %s description: %w", j.ID, err)
			}
		}
	}

	for i, p := range r.Projects {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO projects (pos, id, name, url, description, featured)
			VALUES (?, ?, ?, ?, ?, ?)
		`, i, p.ID, p.Name, p.URL, p.Description, p.Featured); err != nil {
			return fmt.Errorf("failed to seed project %s: %w", p.ID, err)
		}
		for k, label := range p.TechStack {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO project_tech (project_id, pos, label) VALUES (?, ?, ?)`,
				p.ID, k, label); err != nil {
				return fmt.Errorf("failed to seed project %s tech: %w", p.ID, err)
			}
		}
	}

	for i, s := range r.Skills {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO skill_categories (pos, id, category, proficiency)
			VALUES (?, ?, ?, ?)
		`, i, s.ID, s.Category, s.Proficiency); err != nil {
			return fmt.Errorf("failed to seed skill category %s: %w", s.ID, err)
		}
		for k, label := range s.Skills {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO skill_labels (category_id, pos, label) VALUES (?, ?, ?)`,
				s.ID, k, label); err != nil {
				return fmt.Errorf("failed to seed skill %s label: %w", s.ID, err)
			}
		}
	}

	for i, e := range r.Education {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO education (pos, id, institution, degree, field, location, year)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, i, e.ID, e.Institution, e.Degree, e.Field, e.Location, e.Year); err != nil {
			return fmt.Errorf("failed to seed education %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}
	return nil
}

// Jobs returns every job in data file order.
func (c *Catalog) Jobs(ctx context.Context) ([]resume.Job, error) {
	return c.jobs(ctx, false)
}

// CurrentJobs returns the jobs marked current, in data file order.
func (c *Catalog) CurrentJobs(ctx context.Context) ([]resume.Job, error) {
	return c.jobs(ctx, true)
}

func (c *Catalog) jobs(ctx context.Context, currentOnly bool) ([]resume.Job, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, company, title, start_date, end_date, is_current
		FROM jobs
		WHERE (? = 0 OR is_current = 1)
		ORDER BY pos
	`, currentOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}

	var jobs []resume.Job
	for rows.Next() {
		var j resume.Job
		if err := rows.Scan(&j.ID, &j.Company, &j.Title, &j.StartDate, &j.EndDate, &j.IsCurrent); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to read jobs: %w", err)
	}
	// release the single connection before the child queries
	rows.Close()

	for i := range jobs {
		lines, err := c.labels(ctx, `SELECT text FROM job_descriptions WHERE job_id = ? ORDER BY pos`, jobs[i].ID)
		if err != nil {
			return nil, err
		}
		jobs[i].Description = lines
	}
	return jobs, nil
}

// Projects returns projects in data file order, optionally only featured ones.
func (c *Catalog) Projects(ctx context.Context, featuredOnly bool) ([]resume.Project, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, name, url, description, featured
		FROM projects
		WHERE (? = 0 OR featured = 1)
		ORDER BY pos
	`, featuredOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}

	var projects []resume.Project
	for rows.Next() {
		var p resume.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.URL, &p.Description, &p.Featured); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to read projects: %w", err)
	}
	rows.Close()

	for i := range projects {
		tech, err := c.labels(ctx, `SELECT label FROM project_tech WHERE project_id = ? ORDER BY pos`, projects[i].ID)
		if err != nil {
			return nil, err
		}
		projects[i].TechStack = tech
	}
	return projects, nil
}

// Skills returns the skill categories in the requested order.
func (c *Catalog) Skills(ctx context.Context, order SkillOrder) ([]resume.SkillCategory, error) {
	query := `SELECT id, category, proficiency FROM skill_categories ORDER BY pos`
	if order == SkillsByProficiency {
		query = `SELECT id, category, proficiency FROM skill_categories ORDER BY proficiency DESC, pos`
	}

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query skills: %w", err)
	}

	var skills []resume.SkillCategory
	for rows.Next() {
		var s resume.SkillCategory
		if err := rows.Scan(&s.ID, &s.Category, &s.Proficiency); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan skill category: %w", err)
		}
		skills = append(skills, s)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to read skills: %w", err)
	}
	rows.Close()

	for i := range skills {
		labels, err := c.labels(ctx, `SELECT label FROM skill_labels WHERE category_id = ? ORDER BY pos`, skills[i].ID)
		if err != nil {
			return nil, err
		}
		skills[i].Skills = labels
	}
	return skills, nil
}

// Education returns degrees in data file order.
func (c *Catalog) Education(ctx context.Context) ([]resume.Education, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, institution, degree, field, location, year
		FROM education
		ORDER BY pos
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query education: %w", err)
	}
	defer rows.Close()

	var education []resume.Education
	for rows.Next() {
		var e resume.Education
		if err := rows.Scan(&e.ID, &e.Institution, &e.Degree, &e.Field, &e.Location, &e.Year); err != nil {
			return nil, fmt.Errorf("failed to scan education: %w", err)
		}
		education = append(education, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read education: %w", err)
	}
	return education, nil
}

func (c *Catalog) labels(ctx context.Context, query string, id string) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query labels for %s: %w", id, err)
	}
	defer rows.Close()

	labels := []string{}
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, fmt.Errorf("failed to scan label for %s: %w", id, err)
		}
		labels = append(labels, label)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read labels for %s: %w", id, err)
	}
	return labels, nil
}

// Snapshot reassembles the full resume from the catalog.
func (c *Catalog) Snapshot(ctx context.Context) (*resume.Resume, error) {
	jobs, err := c.Jobs(ctx)
	if err != nil {
		return nil, err
	}
	projects, err := c.Projects(ctx, false)
	if err != nil {
		return nil, err
	}
	skills, err := c.Skills(ctx, SkillsInOrder)
	if err != nil {
		return nil, err
	}
	education, err := c.Education(ctx)
	if err != nil {
		return nil, err
	}
	return &resume.Resume{
		Personal:  c.personal,
		About:     c.about,
		Projects:  projects,
		Jobs:      jobs,
		Skills:    skills,
		Education: education,
	}, nil
}
