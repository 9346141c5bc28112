// Package app is the single mutation entry point over the workspace
// state. Every method reads the current state, applies one structural
// edit, persists, and notifies — or fails with a sentinel error and
// leaves the state untouched. Callers must invoke methods
// sequentially; the App does no internal locking.
package app

import (
	"errors"
	"fmt"

	"github.com/nikbrunner/wb/internal/model"
	"github.com/nikbrunner/wb/internal/storage"
)

// Sentinel errors for rejected mutations. A rejected mutation never
// leaves a partial state change behind.
var (
	ErrNotFound          = errors.New("node not found")
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrWouldCreateCycle  = errors.New("move would create a cycle")
	ErrPinLimit          = errors.New("pinned link limit reached")
	ErrLastWorkspace     = errors.New("cannot delete the last workspace")
	ErrNotALink          = errors.New("node is not a link")
	ErrNotAFolder        = errors.New("node is not a folder")
)

// App owns the AppState exclusively and wraps the tree and workspace
// operations with the cross-cutting rules.
type App struct {
	state     *model.AppState
	storage   storage.Storage
	selection *storage.SelectionFile
	onChange  func()
}

// Params holds parameters for creating an App.
type Params struct {
	State     *model.AppState        // nil = fresh default state
	Storage   storage.Storage        // nil = in-memory only
	Selection *storage.SelectionFile // optional fast-path selection hint
	OnChange  func()                 // called after every persisted mutation
}

// New creates an App around the given state.
func New(params Params) *App {
	state := params.State
	if state == nil {
		state = model.NewAppState()
	}
	state.Normalize()
	return &App{
		state:     state,
		storage:   params.Storage,
		selection: params.Selection,
		onChange:  params.OnChange,
	}
}

// State returns the live state. The App remains the only writer.
func (a *App) State() *model.AppState {
	return a.state
}

// Workspaces returns the workspaces in display order.
func (a *App) Workspaces() []model.Workspace {
	return a.state.Workspaces
}

// CurrentWorkspace resolves the selected workspace, falling back to
// the first one. The synthesize-if-empty safety net persists.
func (a *App) CurrentWorkspace() *model.Workspace {
	ws, created := a.state.CurrentWorkspace()
	if created {
		a.persist()
	}
	return ws
}

// FilterNodes returns the current workspace's forest filtered by query.
func (a *App) FilterNodes(query string) model.Forest {
	return a.CurrentWorkspace().Items.Filter(query)
}

// persist saves the state and notifies. Runs after every successful
// mutation, synchronously on the calling goroutine.
func (a *App) persist() error {
	if a.storage != nil {
		if err := a.storage.Save(a.state); err != nil {
			return fmt.Errorf("persisting state: %w", err)
		}
	}
	if a.onChange != nil {
		a.onChange()
	}
	return nil
}
