package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"promptcraft_server/internal/schema"
)

// Preferences are the studio settings of the local user.
type Preferences struct {
	Theme                schema.Theme `json:"theme"`
	ShowComponentLibrary bool         `json:"showComponentLibrary"`
	ShowAISuggestions    bool         `json:"showAISuggestions"`
	AutoSave             bool         `json:"autoSave"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		Theme:                schema.DefaultTheme,
		ShowComponentLibrary: true,
		ShowAISuggestions:    true,
		AutoSave:             true,
	}
}

// GetPreferences returns the stored preferences, or the defaults when none
// have been saved.
func (s *Store) GetPreferences(ctx context.Context) (Preferences, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, "SELECT data FROM preferences WHERE id = 1").Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultPreferences(), nil
	}
	if err != nil {
		return Preferences{}, fmt.Errorf("storage: get preferences: %w", err)
	}

	prefs := DefaultPreferences()
	if err := json.Unmarshal([]byte(doc), &prefs); err != nil {
		return Preferences{}, fmt.Errorf("storage: decode preferences: %w", err)
	}
	return prefs, nil
}

// SavePreferences merges the fields present in patch (a JSON object) into
// the stored preferences.
func (s *Store) SavePreferences(ctx context.Context, patch []byte) (Preferences, error) {
	prefs, err := s.GetPreferences(ctx)
	if err != nil {
		return Preferences{}, err
	}
	if err := json.Unmarshal(patch, &prefs); err != nil {
		return Preferences{}, fmt.Errorf("storage: decode preferences patch: %w", err)
	}
	if !prefs.Theme.Valid() {
		prefs.Theme = schema.DefaultTheme
	}

	doc, err := json.Marshal(prefs)
	if err != nil {
		return Preferences{}, fmt.Errorf("storage: encode preferences: %w", err)
	}
	const q = `INSERT INTO preferences (id, data) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data`
	if _, err := s.db.ExecContext(ctx, q, string(doc)); err != nil {
		return Preferences{}, fmt.Errorf("storage: save preferences: %w", err)
	}
	return prefs, nil
}
