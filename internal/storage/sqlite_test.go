package storage_test

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/nikbrunner/wb/internal/model"
	"github.com/nikbrunner/wb/internal/storage"
)

func openTestDB(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	s, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "workspaces.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStorage: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStorage_SaveLoad(t *testing.T) {
	s := openTestDB(t)
	state := testState()

	if err := s.Save(state); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(loaded, state) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, state)
	}
}

func TestSQLiteStorage_Load_Empty(t *testing.T) {
	s := openTestDB(t)

	state, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(state.Workspaces) != 1 || state.Workspaces[0].Name != model.DefaultWorkspaceName {
		t.Errorf("expected fresh default state, got %+v", state.Workspaces)
	}
}

func TestSQLiteStorage_Save_Overwrites(t *testing.T) {
	s := openTestDB(t)

	if err := s.Save(testState()); err != nil {
		t.Fatalf("first Save: %v", err)
	}

	// A smaller state replaces the previous one entirely
	second := &model.AppState{
		SchemaVersion: model.SchemaVersion,
		Workspaces: []model.Workspace{
			{ID: "ws9", Name: "Solo", ColorID: model.ColorJade, Items: model.Forest{}, PinnedLinks: []model.Link{}},
		},
	}
	if err := s.Save(second); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Workspaces) != 1 || loaded.Workspaces[0].ID != "ws9" {
		t.Errorf("old rows survived the rewrite: %+v", loaded.Workspaces)
	}
	if loaded.SelectedWorkspaceID != nil {
		t.Errorf("stale selection survived: %v", *loaded.SelectedWorkspaceID)
	}
}

func TestSQLiteStorage_PreservesOrdering(t *testing.T) {
	s := openTestDB(t)

	items := model.Forest{}
	ids := []string{"n3", "n1", "n2", "n5", "n4"}
	for _, id := range ids {
		items = append(items, &model.Link{ID: id, Title: id, URL: "https://example.com/" + id})
	}
	state := &model.AppState{
		SchemaVersion: model.SchemaVersion,
		Workspaces: []model.Workspace{
			{ID: "ws1", Name: "Work", ColorID: model.ColorEmber, Items: items, PinnedLinks: []model.Link{}},
		},
	}

	if err := s.Save(state); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	got := loaded.Workspaces[0].Items
	if len(got) != len(ids) {
		t.Fatalf("expected %d items, got %d", len(ids), len(got))
	}
	for i, id := range ids {
		if got[i].NodeID() != id {
			t.Errorf("items[%d] = %s, want %s", i, got[i].NodeID(), id)
		}
	}
}
