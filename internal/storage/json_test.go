package storage_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/nikbrunner/wb/internal/model"
	"github.com/nikbrunner/wb/internal/storage"
)

func testState() *model.AppState {
	selected := "ws1"
	favicon := "/cache/github.com.ico"
	return &model.AppState{
		SchemaVersion:       model.SchemaVersion,
		SelectedWorkspaceID: &selected,
		Workspaces: []model.Workspace{
			{
				ID: "ws1", Name: "Work", ColorID: model.ColorAzure,
				Items: model.Forest{
					&model.Folder{
						ID: "f1", Name: "Dev", IsExpanded: true,
						Children: model.Forest{
							&model.Link{ID: "l1", Title: "GitHub", URL: "https://github.com", FaviconPath: &favicon},
						},
					},
					&model.Link{ID: "l2", Title: "Hacker News", URL: "https://news.ycombinator.com"},
				},
				PinnedLinks: []model.Link{
					{ID: "l3", Title: "Mail", URL: "https://mail.example.com"},
				},
			},
			{
				ID: "ws2", Name: "Play", ColorID: model.ColorEmber,
				Items:       model.Forest{},
				PinnedLinks: []model.Link{},
			},
		},
	}
}

func TestJSONStorage_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workspaces.json")
	s := storage.NewJSONStorage(path)
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

func TestJSONStorage_Load_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.json")
	s := storage.NewJSONStorage(path)

	state, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(state.Workspaces) != 1 || state.Workspaces[0].Name != model.DefaultWorkspaceName {
		t.Errorf("expected fresh default state, got %+v", state.Workspaces)
	}
}

func TestJSONStorage_Load_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workspaces.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	s := storage.NewJSONStorage(path)

	if _, err := s.Load(); err == nil {
		t.Fatal("expected error for corrupt document")
	}

	// The fallback policy: corrupt state yields a usable default
	state := s.LoadOrDefault()
	if len(state.Workspaces) != 1 || state.Workspaces[0].Name != model.DefaultWorkspaceName {
		t.Errorf("expected fresh default state, got %+v", state.Workspaces)
	}
}

func TestJSONStorage_Load_MissingPinnedLinks(t *testing.T) {
	// Document written by a schema that predates pinned links
	doc := `{
		"schemaVersion": 1,
		"selectedWorkspaceId": "ws1",
		"workspaces": [{
			"id": "ws1", "name": "Work", "colorId": "azure",
			"items": [{"type":"link","link":{"id":"l1","title":"GitHub","url":"https://github.com","faviconPath":null}}]
		}]
	}`
	path := filepath.Join(t.TempDir(), "workspaces.json")
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	state, err := storage.NewJSONStorage(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	ws := state.Workspaces[0]
	if ws.PinnedLinks == nil || len(ws.PinnedLinks) != 0 {
		t.Errorf("expected empty pinnedLinks, got %v", ws.PinnedLinks)
	}
	if len(ws.Items) != 1 {
		t.Errorf("items lost in decode: %v", ws.Items)
	}
}

func TestJSONStorage_Load_NoWorkspaces(t *testing.T) {
	doc := `{"schemaVersion": 1, "workspaces": []}`
	path := filepath.Join(t.TempDir(), "workspaces.json")
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	state, err := storage.NewJSONStorage(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(state.Workspaces) != 1 || state.Workspaces[0].Name != model.DefaultWorkspaceName {
		t.Errorf("expected synthesized default workspace, got %+v", state.Workspaces)
	}
}

func TestJSONStorage_Save_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "workspaces.json")
	s := storage.NewJSONStorage(path)

	if err := s.Save(testState()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("file not written: %v", err)
	}
}
