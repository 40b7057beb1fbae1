package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/inkwell-labs/gamebook/internal/snapshot"
	"github.com/inkwell-labs/gamebook/internal/story"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "library.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func storedStory() *snapshot.Story {
	return snapshot.New(snapshot.Context{
		NovelSummary: "summary",
		Gauges:       []story.GaugeDefinition{{ID: "hope", InitialValue: 50}},
	}, []story.Episode{{
		ID:    "ep1",
		Nodes: []story.Node{{ID: "r", Depth: 0, Kind: story.KindRoot, Text: "root"}},
	}}, "gpt-4o-mini")
}

func TestSaveAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.SaveStory(ctx, "", "Lord of the Flies", storedStory())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if id == "" {
		t.Fatal("empty generated id")
	}

	got, err := s.GetStory(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Context.NovelSummary != "summary" || len(got.Episodes) != 1 {
		t.Errorf("loaded story = %+v", got)
	}
}

func TestSave_Upsert(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.SaveStory(ctx, "fixed", "First", storedStory()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := s.SaveStory(ctx, "fixed", "Second", storedStory()); err != nil {
		t.Fatalf("resave: %v", err)
	}

	entries, err := s.ListStories(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].Title != "Second" {
		t.Errorf("title = %q, want Second", entries[0].Title)
	}
	if entries[0].Nodes != 1 || entries[0].Episodes != 1 {
		t.Errorf("counts = %+v", entries[0])
	}
}

func TestGet_NotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetStory(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.SaveStory(ctx, "", "Title", storedStory())
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := s.DeleteStory(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteStory(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	if _, err := s.GetStory(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
