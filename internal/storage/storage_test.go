package storage

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptcraft_server/internal/parser"
	"promptcraft_server/internal/schema"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleProject(prompt string) schema.Project {
	sc := parser.New(parser.WithSeed(7)).Generate(prompt)
	return schema.Project{Name: sc.Name, Description: "saved from test", Prompt: prompt, Schema: sc}
}

func TestProjectCRUD(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	saved, err := s.SaveProject(ctx, sampleProject("Create a sales dashboard"))
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())
	assert.Equal(t, saved.CreatedAt, saved.UpdatedAt)

	got, err := s.GetProject(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.Schema, got.Schema)
	assert.Equal(t, "Create a sales dashboard", got.Prompt)

	name := "Renamed"
	updated, err := s.UpdateProject(ctx, saved.ID, ProjectPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, saved.Description, updated.Description)
	assert.False(t, updated.UpdatedAt.Before(saved.UpdatedAt))

	list, err := s.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Renamed", list[0].Name)

	require.NoError(t, s.DeleteProject(ctx, saved.ID))
	assert.ErrorIs(t, s.DeleteProject(ctx, saved.ID), ErrNotFound)
	_, err = s.GetProject(ctx, saved.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.UpdateProject(ctx, saved.ID, ProjectPatch{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveProjectDefaultsNameToSchema(t *testing.T) {
	p := sampleProject("user table")
	p.Name = ""
	saved, err := openTestStore(t).SaveProject(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, p.Schema.Name, saved.Name)
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := openTestStore(t)
	for _, prompt := range []string{"analytics dashboard with map", "contact form", "product cards"} {
		_, err := src.SaveProject(ctx, sampleProject(prompt))
		require.NoError(t, err)
	}
	before, err := src.ListProjects(ctx)
	require.NoError(t, err)

	exported, err := src.ExportProjects(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(exported), "\n  {")

	dst := openTestStore(t)
	_, err = dst.SaveProject(ctx, sampleProject("to be replaced"))
	require.NoError(t, err)

	ok, err := dst.ImportProjects(ctx, exported)
	require.NoError(t, err)
	require.True(t, ok)

	after, err := dst.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].ID, after[i].ID)
		assert.Equal(t, before[i].Schema, after[i].Schema)
		assert.True(t, before[i].CreatedAt.Equal(after[i].CreatedAt))
	}

	again, err := dst.ExportProjects(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, string(exported), string(again))
}

func TestImportRejectsNonArrays(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	_, err := s.SaveProject(ctx, sampleProject("keep me"))
	require.NoError(t, err)

	for _, payload := range []string{`{"id": "x"}`, `null`, `not json`, `[1, 2]`, `"[]"`} {
		ok, err := s.ImportProjects(ctx, []byte(payload))
		require.NoError(t, err, payload)
		assert.False(t, ok, payload)
	}

	list, err := s.ListProjects(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestImportFillsMissingFields(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	ok, err := s.ImportProjects(ctx, []byte(`[{"name": "bare", "schema": {"id": "s1", "name": "S"}}, {"id": "dup"}, {"id": "dup"}]`))
	require.NoError(t, err)
	require.True(t, ok)

	list, err := s.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.NotEmpty(t, list[0].ID)
	assert.NotNil(t, list[0].Schema.Components)
	assert.False(t, list[0].CreatedAt.IsZero())
	assert.Equal(t, "dup", list[1].ID)
	assert.NotEqual(t, "dup", list[2].ID)

	ok, err = s.ImportProjects(ctx, []byte(`[]`))
	require.NoError(t, err)
	assert.True(t, ok)
	list, err = s.ListProjects(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestGenerationLog(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	for _, p := range []string{"one", "two", "three"} {
		_, err := s.AddGeneration(ctx, Generation{Prompt: p, Source: "rules", SchemaID: "id-" + p, SchemaName: p, ComponentCount: 3})
		require.NoError(t, err)
	}

	all, err := s.ListGenerations(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "three", all[0].Prompt)
	assert.NotEmpty(t, all[0].ID)

	latest, err := s.ListGenerations(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, latest, 2)

	n, err := s.ClearGenerations(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	all, err = s.ListGenerations(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestPreferences(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	prefs, err := s.GetPreferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultPreferences(), prefs)

	prefs, err = s.SavePreferences(ctx, []byte(`{"theme": "light", "autoSave": false}`))
	require.NoError(t, err)
	assert.Equal(t, schema.ThemeLight, prefs.Theme)
	assert.False(t, prefs.AutoSave)
	assert.True(t, prefs.ShowAISuggestions)

	prefs, err = s.SavePreferences(ctx, []byte(`{"theme": "sepia"}`))
	require.NoError(t, err)
	assert.Equal(t, schema.ThemeDark, prefs.Theme)
	assert.False(t, prefs.AutoSave)

	_, err = s.SavePreferences(ctx, []byte(`[]`))
	assert.Error(t, err)

	require.NoError(t, s.ClearAll(ctx))
	prefs, err = s.GetPreferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultPreferences(), prefs)
}

func TestExportIsJSONArray(t *testing.T) {
	data, err := openTestStore(t).ExportProjects(context.Background())
	require.NoError(t, err)
	var v []any
	require.NoError(t, json.Unmarshal(data, &v))
	assert.Empty(t, v)
}
