package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Generation is one entry of the generation log.
type Generation struct {
	ID             string `json:"id"`
	Prompt         string `json:"prompt"`
	Source         string `json:"source"`
	SchemaID       string `json:"schemaId"`
	SchemaName     string `json:"schemaName"`
	ComponentCount int    `json:"componentCount"`
	Notice         string `json:"notice,omitempty"`
	CreatedAt      string `json:"createdAt"`
}

// AddGeneration appends g to the log, filling its id and time.
func (s *Store) AddGeneration(ctx context.Context, g Generation) (Generation, error) {
	g.ID = uuid.NewString()
	g.CreatedAt = formatTime(s.now())
	const q = `INSERT INTO generations (id, prompt, source, schema_id, schema_name, component_count, notice, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, q, g.ID, g.Prompt, g.Source, g.SchemaID, g.SchemaName, g.ComponentCount, g.Notice, g.CreatedAt); err != nil {
		return Generation{}, fmt.Errorf("storage: add generation: %w", err)
	}
	return g, nil
}

// ListGenerations returns the newest entries first. limit <= 0 returns all.
func (s *Store) ListGenerations(ctx context.Context, limit int) ([]Generation, error) {
	q := `SELECT id, prompt, source, schema_id, schema_name, component_count, notice, created_at
		FROM generations ORDER BY rowid DESC`
	args := []any{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: list generations: %w", err)
	}
	defer rows.Close()

	out := []Generation{}
	for rows.Next() {
		var g Generation
		if err := rows.Scan(&g.ID, &g.Prompt, &g.Source, &g.SchemaID, &g.SchemaName, &g.ComponentCount, &g.Notice, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("storage: scan generation: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// ClearGenerations empties the log and reports how many entries were removed.
func (s *Store) ClearGenerations(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM generations")
	if err != nil {
		return 0, fmt.Errorf("storage: clear generations: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
