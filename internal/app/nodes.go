package app

import (
	"strings"

	"github.com/nikbrunner/wb/internal/model"
)

// AddFolder creates an expanded empty folder in the current workspace,
// at root level or inside the folder named by parentID.
func (a *App) AddFolder(name string, parentID *string) (string, error) {
	ws := a.CurrentWorkspace()
	folder := model.NewFolder(model.NewFolderParams{Name: name})
	if err := ws.Items.Insert(folder, parentID, -1); err != nil {
		return "", ErrNotFound
	}
	return folder.ID, a.persist()
}

// AddLink creates a link in the current workspace. An empty title
// derives the default title from the URL.
func (a *App) AddLink(url, title string, parentID *string) (string, error) {
	ws := a.CurrentWorkspace()
	link := model.NewLink(model.NewLinkParams{URL: url, Title: title})
	if err := ws.Items.Insert(link, parentID, -1); err != nil {
		return "", ErrNotFound
	}
	return link.ID, a.persist()
}

// RenameNode sets the folder name or link title of the node with the
// given id.
func (a *App) RenameNode(id, newName string) error {
	ws := a.CurrentWorkspace()
	found := ws.Items.Update(id, func(n model.Node) model.Node {
		switch v := n.(type) {
		case *model.Folder:
			v.Name = newName
		case *model.Link:
			v.Title = newName
		}
		return n
	})
	if !found {
		return ErrNotFound
	}
	return a.persist()
}

// DeleteNode removes the node with the given id from the current
// workspace's forest, cascading through a folder's whole subtree.
func (a *App) DeleteNode(id string) error {
	ws := a.CurrentWorkspace()
	if ws.Items.Remove(id) == nil {
		return ErrNotFound
	}
	return a.persist()
}

// MoveNode moves a node to the given parent (nil = root level) so it
// ends up at the given index of the destination list. Within the same
// parent the index is the final position: on [A, B, C], moving A to
// index 2 yields [B, C, A] — removal happens first, so the insertion
// index needs no further adjustment for the hole the node left behind.
// Negative and out-of-range indices clamp to valid bounds.
func (a *App) MoveNode(id string, toParentID *string, index int) error {
	ws := a.CurrentWorkspace()

	if toParentID != nil {
		// Moving a folder into itself or its own subtree would detach it
		if ws.Items.IsDescendant(*toParentID, id) {
			return ErrWouldCreateCycle
		}
		target := ws.Items.Find(*toParentID)
		if target == nil {
			return ErrNotFound
		}
		if _, ok := target.(*model.Folder); !ok {
			return ErrNotAFolder
		}
	}

	if _, ok := ws.Items.Locate(id); !ok {
		return ErrNotFound
	}

	if index < 0 {
		index = 0
	}

	node := ws.Items.Remove(id)
	if err := ws.Items.Insert(node, toParentID, index); err != nil {
		return err
	}
	return a.persist()
}

// MoveNodeToWorkspace moves a node out of the current workspace and
// appends it to the end of the target workspace's root list, dropping
// its original nesting. Same-workspace moves are a no-op.
func (a *App) MoveNodeToWorkspace(id, workspaceID string) error {
	target := a.state.WorkspaceByID(workspaceID)
	if target == nil {
		return ErrWorkspaceNotFound
	}
	ws := a.CurrentWorkspace()
	if target.ID == ws.ID {
		return nil
	}
	node := ws.Items.Remove(id)
	if node == nil {
		return ErrNotFound
	}
	target.Items = append(target.Items, node)
	return a.persist()
}

// SetFolderExpanded toggles a folder's expanded state.
func (a *App) SetFolderExpanded(id string, expanded bool) error {
	ws := a.CurrentWorkspace()
	node := ws.Items.Find(id)
	if node == nil {
		return ErrNotFound
	}
	folder, ok := node.(*model.Folder)
	if !ok {
		return ErrNotAFolder
	}
	folder.IsExpanded = expanded
	return a.persist()
}

// UpdateLinkFaviconPath stores the cached favicon path on a link. An
// unchanged path skips persistence and notification entirely, so the
// async fetcher's eventual redundant callback costs nothing.
func (a *App) UpdateLinkFaviconPath(id, path string) error {
	link, err := a.findLink(id)
	if err != nil {
		return err
	}
	if link.FaviconPath != nil && *link.FaviconPath == path {
		return nil
	}
	link.FaviconPath = &path
	return a.persist()
}

// UpdateLinkTitleIfDefault overwrites a link's title only while it
// still carries the default title derived from its URL, so an async
// page-title fetch never clobbers a manual rename. Reports whether a
// change was applied.
func (a *App) UpdateLinkTitleIfDefault(id, newTitle string) (bool, error) {
	link, err := a.findLink(id)
	if err != nil {
		return false, err
	}
	trimmed := strings.TrimSpace(newTitle)
	if trimmed == "" {
		return false, nil
	}
	if link.Title != model.DefaultTitle(link.URL) {
		return false, nil
	}
	if link.Title == trimmed {
		return false, nil
	}
	link.Title = trimmed
	return true, a.persist()
}

// PinLink moves a link from anywhere in the forest to the end of the
// pinned list. Folders cannot be pinned and the pinned list is capped;
// a rejected pin leaves the link where it was.
func (a *App) PinLink(id string) error {
	ws := a.CurrentWorkspace()
	node := ws.Items.Find(id)
	if node == nil {
		return ErrNotFound
	}
	link, ok := node.(*model.Link)
	if !ok {
		return ErrNotALink
	}
	if len(ws.PinnedLinks) >= model.MaxPinnedLinks {
		return ErrPinLimit
	}
	ws.Items.Remove(id)
	ws.PinnedLinks = append(ws.PinnedLinks, *link)
	return a.persist()
}

// UnpinLink moves a pinned link back to the end of the workspace's
// root list. The link keeps its id across the transition.
func (a *App) UnpinLink(id string) error {
	ws := a.CurrentWorkspace()
	idx := ws.PinnedIndex(id)
	if idx < 0 {
		return ErrNotFound
	}
	link := ws.PinnedLinks[idx]
	ws.PinnedLinks = append(ws.PinnedLinks[:idx], ws.PinnedLinks[idx+1:]...)
	ws.Items = append(ws.Items, &link)
	return a.persist()
}

// GroupNodes creates a folder at the position of the first listed node
// and moves all listed nodes into it in their given order. Returns the
// new folder's id.
func (a *App) GroupNodes(ids []string, name string) (string, error) {
	ws := a.CurrentWorkspace()
	if len(ids) == 0 {
		return "", ErrNotFound
	}
	loc, ok := ws.Items.Locate(ids[0])
	if !ok {
		return "", ErrNotFound
	}

	folder := model.NewFolder(model.NewFolderParams{Name: name})
	for _, id := range ids {
		if node := ws.Items.Remove(id); node != nil {
			folder.Children = append(folder.Children, node)
		}
	}
	if len(folder.Children) == 0 {
		return "", ErrNotFound
	}

	// The recorded position may have shifted or vanished with the
	// removals; never lose the group over that.
	if err := ws.Items.Insert(folder, loc.ParentID, loc.Index); err != nil {
		ws.Items = append(ws.Items, folder)
	}
	return folder.ID, a.persist()
}

// ImportForest appends imported root nodes to the end of the current
// workspace's root list, keeping their internal nesting. Returns the
// number of links imported.
func (a *App) ImportForest(forest model.Forest) (int, error) {
	if len(forest) == 0 {
		return 0, nil
	}
	ws := a.CurrentWorkspace()
	ws.Items = append(ws.Items, forest...)
	added := len(forest.Links())
	return added, a.persist()
}

// findLink locates a link by id in the current workspace's forest or
// pinned list.
func (a *App) findLink(id string) (*model.Link, error) {
	ws := a.CurrentWorkspace()
	if node := ws.Items.Find(id); node != nil {
		link, ok := node.(*model.Link)
		if !ok {
			return nil, ErrNotALink
		}
		return link, nil
	}
	if idx := ws.PinnedIndex(id); idx >= 0 {
		return &ws.PinnedLinks[idx], nil
	}
	return nil, ErrNotFound
}
