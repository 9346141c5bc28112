package app

import (
	"fmt"

	"github.com/nikbrunner/wb/internal/model"
)

// Direction names a horizontal workspace reorder.
type Direction int

const (
	MoveLeft Direction = iota
	MoveRight
)

// SelectWorkspace makes the given workspace current. The selection is
// persisted as standalone external state, not via a full state write.
func (a *App) SelectWorkspace(id string) error {
	if a.state.WorkspaceByID(id) == nil {
		return ErrWorkspaceNotFound
	}
	a.state.SelectedWorkspaceID = &id
	if a.selection != nil {
		if err := a.selection.Save(id); err != nil {
			return fmt.Errorf("persisting selection: %w", err)
		}
	}
	if a.onChange != nil {
		a.onChange()
	}
	return nil
}

// CreateWorkspace appends a new empty workspace and selects it.
func (a *App) CreateWorkspace(name string, colorID model.ColorID) (string, error) {
	ws := model.NewWorkspace(model.NewWorkspaceParams{Name: name, ColorID: colorID})
	a.state.Workspaces = append(a.state.Workspaces, ws)
	id := ws.ID
	a.state.SelectedWorkspaceID = &id
	if a.selection != nil {
		// Best effort; the main document carries the selection too
		_ = a.selection.Save(id)
	}
	return id, a.persist()
}

// RenameWorkspace sets the workspace's name.
func (a *App) RenameWorkspace(id, name string) error {
	ws := a.state.WorkspaceByID(id)
	if ws == nil {
		return ErrWorkspaceNotFound
	}
	ws.Name = name
	return a.persist()
}

// SetWorkspaceColor sets the workspace's accent color.
func (a *App) SetWorkspaceColor(id string, colorID model.ColorID) error {
	if !colorID.Valid() {
		return fmt.Errorf("unknown color id %q", colorID)
	}
	ws := a.state.WorkspaceByID(id)
	if ws == nil {
		return ErrWorkspaceNotFound
	}
	ws.ColorID = colorID
	return a.persist()
}

// DeleteWorkspace removes a workspace. The last remaining workspace
// cannot be deleted. Deleting the selected workspace moves the
// selection to the first remaining one.
func (a *App) DeleteWorkspace(id string) error {
	if len(a.state.Workspaces) <= 1 {
		return ErrLastWorkspace
	}
	idx := a.state.WorkspaceIndex(id)
	if idx < 0 {
		return ErrWorkspaceNotFound
	}
	a.state.Workspaces = append(a.state.Workspaces[:idx], a.state.Workspaces[idx+1:]...)

	if a.state.SelectedWorkspaceID != nil && *a.state.SelectedWorkspaceID == id {
		first := a.state.Workspaces[0].ID
		a.state.SelectedWorkspaceID = &first
		if a.selection != nil {
			_ = a.selection.Save(first)
		}
	}
	return a.persist()
}

// MoveWorkspace swaps a workspace with its immediate neighbor in the
// given direction. A boundary move is a no-op, not an error.
func (a *App) MoveWorkspace(id string, direction Direction) error {
	idx := a.state.WorkspaceIndex(id)
	if idx < 0 {
		return ErrWorkspaceNotFound
	}

	other := idx + 1
	if direction == MoveLeft {
		other = idx - 1
	}
	if other < 0 || other >= len(a.state.Workspaces) {
		return nil
	}

	ws := a.state.Workspaces
	ws[idx], ws[other] = ws[other], ws[idx]
	return a.persist()
}

// RestoreSelection applies the standalone selection hint when it still
// names an existing workspace. Called once on startup.
func (a *App) RestoreSelection() {
	if a.selection == nil {
		return
	}
	id, err := a.selection.Load()
	if err != nil || id == "" {
		return
	}
	if a.state.WorkspaceByID(id) != nil {
		a.state.SelectedWorkspaceID = &id
	}
}
