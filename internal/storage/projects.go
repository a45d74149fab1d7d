package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"promptcraft_server/internal/schema"
)

// ProjectPatch lists the fields UpdateProject may change. Nil fields are kept.
type ProjectPatch struct {
	Name        *string              `json:"name"`
	Description *string              `json:"description"`
	Prompt      *string              `json:"prompt"`
	Schema      *schema.LayoutSchema `json:"schema"`
}

const projectColumns = "id, name, description, prompt, schema, created_at, updated_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (schema.Project, error) {
	var p schema.Project
	var doc, created, updated string
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Prompt, &doc, &created, &updated); err != nil {
		return schema.Project{}, err
	}
	if err := json.Unmarshal([]byte(doc), &p.Schema); err != nil {
		return schema.Project{}, fmt.Errorf("storage: decode schema of project %s: %w", p.ID, err)
	}
	var err error
	if p.CreatedAt, err = parseTime(created); err != nil {
		return schema.Project{}, err
	}
	if p.UpdatedAt, err = parseTime(updated); err != nil {
		return schema.Project{}, err
	}
	return p, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertProject(ctx context.Context, db execer, p schema.Project) error {
	doc, err := json.Marshal(p.Schema)
	if err != nil {
		return fmt.Errorf("storage: encode schema of project %s: %w", p.ID, err)
	}
	const q = `INSERT INTO projects (` + projectColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	if _, err := db.ExecContext(ctx, q, p.ID, p.Name, p.Description, p.Prompt, string(doc),
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt)); err != nil {
		return fmt.Errorf("storage: insert project %s: %w", p.ID, err)
	}
	return nil
}

// SaveProject stores p as a new project with a fresh id and timestamps.
func (s *Store) SaveProject(ctx context.Context, p schema.Project) (schema.Project, error) {
	now := s.now()
	p.ID = schema.NewID()
	p.CreatedAt, p.UpdatedAt = now, now
	if strings.TrimSpace(p.Name) == "" {
		p.Name = p.Schema.Name
	}
	if p.Schema.Components == nil {
		p.Schema.Components = []schema.ComponentNode{}
	}
	if err := insertProject(ctx, s.db, p); err != nil {
		return schema.Project{}, err
	}
	return p, nil
}

// GetProject returns the project with id, or ErrNotFound.
func (s *Store) GetProject(ctx context.Context, id string) (schema.Project, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+projectColumns+" FROM projects WHERE id = ?", id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return schema.Project{}, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return schema.Project{}, fmt.Errorf("storage: get project %s: %w", id, err)
	}
	return p, nil
}

// ListProjects returns every project in insertion order.
func (s *Store) ListProjects(ctx context.Context) ([]schema.Project, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+projectColumns+" FROM projects ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("storage: list projects: %w", err)
	}
	defer rows.Close()

	out := []schema.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpdateProject applies patch to the project with id and bumps its
// updated time.
func (s *Store) UpdateProject(ctx context.Context, id string, patch ProjectPatch) (schema.Project, error) {
	p, err := s.GetProject(ctx, id)
	if err != nil {
		return schema.Project{}, err
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Prompt != nil {
		p.Prompt = *patch.Prompt
	}
	if patch.Schema != nil {
		p.Schema = patch.Schema.Clone()
	}
	p.UpdatedAt = s.now()

	doc, err := json.Marshal(p.Schema)
	if err != nil {
		return schema.Project{}, fmt.Errorf("storage: encode schema of project %s: %w", id, err)
	}
	const q = `UPDATE projects SET name = ?, description = ?, prompt = ?, schema = ?, updated_at = ? WHERE id = ?`
	if _, err := s.db.ExecContext(ctx, q, p.Name, p.Description, p.Prompt, string(doc), formatTime(p.UpdatedAt), id); err != nil {
		return schema.Project{}, fmt.Errorf("storage: update project %s: %w", id, err)
	}
	return p, nil
}

// DeleteProject removes the project with id, or returns ErrNotFound.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("storage: delete project %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return nil
}

// ExportProjects returns every project as an indented JSON array.
func (s *Store) ExportProjects(ctx context.Context) ([]byte, error) {
	projects, err := s.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(projects, "", "  ")
}

// ImportProjects replaces the whole project set with the JSON array in
// data. It reports false, and changes nothing, when data is not a JSON
// array of projects. The error is set only for storage failures.
func (s *Store) ImportProjects(ctx context.Context, data []byte) (bool, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		log.Printf("WARN: Rejected project import: payload is not a JSON array")
		return false, nil
	}

	projects := make([]schema.Project, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	now := s.now()
	for i, item := range raw {
		var p schema.Project
		if err := json.Unmarshal(item, &p); err != nil {
			log.Printf("WARN: Rejected project import: entry %d is malformed: %v", i, err)
			return false, nil
		}
		if p.ID == "" || seen[p.ID] {
			p.ID = schema.NewID()
		}
		seen[p.ID] = true
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		if p.UpdatedAt.IsZero() {
			p.UpdatedAt = p.CreatedAt
		}
		projects = append(projects, p)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("storage: begin import: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM projects"); err != nil {
		return false, fmt.Errorf("storage: clear projects: %w", err)
	}
	for _, p := range projects {
		if err := insertProject(ctx, tx, p); err != nil {
			return false, err
		}
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("storage: commit import: %w", err)
	}
	return true, nil
}
