package model_test

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/nikbrunner/wb/internal/model"
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
							&model.Folder{ID: "f2", Name: "Docs", IsExpanded: false, Children: model.Forest{}},
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

func TestAppState_JSONRoundTrip(t *testing.T) {
	state := testState()

	data, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var got model.AppState
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	if !reflect.DeepEqual(&got, state) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", &got, state)
	}
}

func TestForest_JSONEnvelope(t *testing.T) {
	forest := model.Forest{
		&model.Folder{ID: "f1", Name: "Dev", IsExpanded: true, Children: model.Forest{}},
		&model.Link{ID: "l1", Title: "GitHub", URL: "https://github.com"},
	}

	data, err := json.Marshal(forest)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	// The discriminator keeps folders and links apart on the wire
	if !strings.Contains(string(data), `"type":"folder"`) {
		t.Errorf("expected folder discriminator in %s", data)
	}
	if !strings.Contains(string(data), `"type":"link"`) {
		t.Errorf("expected link discriminator in %s", data)
	}

	var got model.Forest
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if _, ok := got[0].(*model.Folder); !ok {
		t.Errorf("first node decoded as %T, want *model.Folder", got[0])
	}
	if _, ok := got[1].(*model.Link); !ok {
		t.Errorf("second node decoded as %T, want *model.Link", got[1])
	}
}

func TestForest_UnmarshalRejectsUnknownType(t *testing.T) {
	var forest model.Forest
	err := json.Unmarshal([]byte(`[{"type":"widget","widget":{}}]`), &forest)
	if err == nil {
		t.Fatal("expected error for unknown node type")
	}
}

func TestAppState_Normalize_MissingPinnedLinks(t *testing.T) {
	// A document written before pinned links existed
	doc := `{
		"schemaVersion": 1,
		"selectedWorkspaceId": "ws1",
		"workspaces": [{"id": "ws1", "name": "Work", "colorId": "azure", "items": []}]
	}`

	var state model.AppState
	if err := json.Unmarshal([]byte(doc), &state); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	state.Normalize()

	if state.Workspaces[0].PinnedLinks == nil || len(state.Workspaces[0].PinnedLinks) != 0 {
		t.Errorf("expected empty pinnedLinks, got %v", state.Workspaces[0].PinnedLinks)
	}
}

func TestAppState_Normalize_SynthesizesDefaultWorkspace(t *testing.T) {
	var state model.AppState
	if err := json.Unmarshal([]byte(`{"schemaVersion":1,"workspaces":[]}`), &state); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	state.Normalize()

	if len(state.Workspaces) != 1 {
		t.Fatalf("expected 1 synthesized workspace, got %d", len(state.Workspaces))
	}
	if state.Workspaces[0].Name != model.DefaultWorkspaceName {
		t.Errorf("expected %q, got %q", model.DefaultWorkspaceName, state.Workspaces[0].Name)
	}
}

func TestAppState_Normalize_RepairsBadFields(t *testing.T) {
	dangling := "gone"
	state := &model.AppState{
		Workspaces: []model.Workspace{
			{ID: "ws1", Name: "Work", ColorID: "chartreuse"},
		},
		SelectedWorkspaceID: &dangling,
	}
	state.Normalize()

	ws := state.Workspaces[0]
	if ws.ColorID != model.ColorEmber {
		t.Errorf("unknown color should reset to default, got %q", ws.ColorID)
	}
	if ws.Items == nil || ws.PinnedLinks == nil {
		t.Error("nil slices should be initialized")
	}
	if state.SelectedWorkspaceID != nil {
		t.Error("dangling selection should be cleared")
	}
	if state.SchemaVersion != model.SchemaVersion {
		t.Errorf("schema version should default, got %d", state.SchemaVersion)
	}
}

func TestAppState_CurrentWorkspace(t *testing.T) {
	state := testState()

	// Resolves the selection
	ws, created := state.CurrentWorkspace()
	if created || ws.ID != "ws1" {
		t.Errorf("expected ws1, got %s (created=%v)", ws.ID, created)
	}

	// Dangling selection falls back to the first workspace
	dangling := "gone"
	state.SelectedWorkspaceID = &dangling
	ws, created = state.CurrentWorkspace()
	if created || ws.ID != "ws1" {
		t.Errorf("expected fallback to ws1, got %s (created=%v)", ws.ID, created)
	}

	// Empty store synthesizes a default workspace
	empty := &model.AppState{SchemaVersion: model.SchemaVersion, Workspaces: []model.Workspace{}}
	ws, created = empty.CurrentWorkspace()
	if !created {
		t.Fatal("expected synthesized workspace")
	}
	if ws.Name != model.DefaultWorkspaceName {
		t.Errorf("expected %q, got %q", model.DefaultWorkspaceName, ws.Name)
	}
	if empty.SelectedWorkspaceID == nil || *empty.SelectedWorkspaceID != ws.ID {
		t.Error("synthesized workspace should be selected")
	}
}

func TestNewWorkspace_InvalidColorFallsBack(t *testing.T) {
	ws := model.NewWorkspace(model.NewWorkspaceParams{Name: "X", ColorID: "mauve"})
	if ws.ColorID != model.ColorEmber {
		t.Errorf("expected default color, got %q", ws.ColorID)
	}
}
