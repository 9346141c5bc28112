package model

// SchemaVersion is the current persisted schema version.
const SchemaVersion = 1

// DefaultWorkspaceName is the name of the workspace synthesized when
// none exist.
const DefaultWorkspaceName = "Inbox"

// AppState is the persisted root: every workspace plus the selection.
// Invariant: Workspaces is never empty after Normalize, and
// SelectedWorkspaceID (if set) references an existing workspace.
type AppState struct {
	SchemaVersion       int         `json:"schemaVersion"`
	Workspaces          []Workspace `json:"workspaces"`
	SelectedWorkspaceID *string     `json:"selectedWorkspaceId"`
}

// NewAppState creates a fresh state with a single default workspace.
func NewAppState() *AppState {
	ws := NewWorkspace(NewWorkspaceParams{Name: DefaultWorkspaceName})
	id := ws.ID
	return &AppState{
		SchemaVersion:       SchemaVersion,
		Workspaces:          []Workspace{ws},
		SelectedWorkspaceID: &id,
	}
}

// WorkspaceIndex returns the index of the workspace with the given id,
// or -1 if absent.
func (s *AppState) WorkspaceIndex(id string) int {
	for i := range s.Workspaces {
		if s.Workspaces[i].ID == id {
			return i
		}
	}
	return -1
}

// WorkspaceByID returns the workspace with the given id, or nil.
func (s *AppState) WorkspaceByID(id string) *Workspace {
	if i := s.WorkspaceIndex(id); i >= 0 {
		return &s.Workspaces[i]
	}
	return nil
}

// CurrentWorkspace resolves the selection, falling back to the first
// workspace when the selection is unset or dangling. If no workspaces
// exist at all it synthesizes the default one; created reports that
// safety-net path so the caller can persist.
func (s *AppState) CurrentWorkspace() (*Workspace, bool) {
	if s.SelectedWorkspaceID != nil {
		if ws := s.WorkspaceByID(*s.SelectedWorkspaceID); ws != nil {
			return ws, false
		}
	}
	if len(s.Workspaces) > 0 {
		return &s.Workspaces[0], false
	}
	ws := NewWorkspace(NewWorkspaceParams{Name: DefaultWorkspaceName})
	s.Workspaces = append(s.Workspaces, ws)
	id := ws.ID
	s.SelectedWorkspaceID = &id
	return &s.Workspaces[0], true
}

// Normalize repairs a decoded state: defaults for fields absent in
// older documents, nil slices replaced, unknown colors reset, dangling
// selection cleared, and the never-empty-workspaces invariant restored.
func (s *AppState) Normalize() {
	if s.SchemaVersion == 0 {
		s.SchemaVersion = SchemaVersion
	}
	if s.Workspaces == nil {
		s.Workspaces = []Workspace{}
	}
	for i := range s.Workspaces {
		ws := &s.Workspaces[i]
		if ws.Items == nil {
			ws.Items = Forest{}
		}
		if ws.PinnedLinks == nil {
			ws.PinnedLinks = []Link{}
		}
		if !ws.ColorID.Valid() {
			ws.ColorID = ColorEmber
		}
	}
	if len(s.Workspaces) == 0 {
		ws := NewWorkspace(NewWorkspaceParams{Name: DefaultWorkspaceName})
		s.Workspaces = append(s.Workspaces, ws)
	}
	if s.SelectedWorkspaceID != nil && s.WorkspaceByID(*s.SelectedWorkspaceID) == nil {
		s.SelectedWorkspaceID = nil
	}
}
