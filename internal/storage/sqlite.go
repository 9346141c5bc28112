package storage

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/nikbrunner/wb/internal/model"
)

const currentSchemaVersion = 1

// SQLiteStorage implements Storage using a SQLite database.
// The forest is stored as an adjacency list with explicit positions so
// the user-defined ordering round-trips exactly.
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

// NewSQLiteStorage creates a new SQLiteStorage with the given database path.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Set pragmas for performance
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	s := &SQLiteStorage{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// migrate runs database migrations.
func (s *SQLiteStorage) migrate() error {
	// Check current schema version
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		// Table doesn't exist or is empty, start fresh
		version = 0
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	return nil
}

// migrateV1 creates the initial schema.
func (s *SQLiteStorage) migrateV1() error {
	schema := `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY NOT NULL,
			value TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS workspaces (
			id TEXT PRIMARY KEY NOT NULL,
			name TEXT NOT NULL,
			color_id TEXT NOT NULL,
			position INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS nodes (
			id TEXT PRIMARY KEY NOT NULL,
			workspace_id TEXT NOT NULL,
			parent_id TEXT,
			position INTEGER NOT NULL,
			type TEXT NOT NULL,
			name TEXT NOT NULL,
			url TEXT,
			favicon_path TEXT,
			is_expanded INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_nodes_workspace_id ON nodes(workspace_id);
		CREATE INDEX IF NOT EXISTS idx_nodes_parent_id ON nodes(parent_id);

		CREATE TABLE IF NOT EXISTS pinned_links (
			id TEXT PRIMARY KEY NOT NULL,
			workspace_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			url TEXT NOT NULL,
			favicon_path TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_pinned_links_workspace_id ON pinned_links(workspace_id);

		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := s.db.Exec(schema)
	return err
}

// nodeRow is a flat node row before forest assembly.
type nodeRow struct {
	id          string
	parentID    *string
	nodeType    string
	name        string
	url         string
	faviconPath *string
	isExpanded  bool
}

// Load reads the state from the SQLite database.
func (s *SQLiteStorage) Load() (*model.AppState, error) {
	state := &model.AppState{
		SchemaVersion: model.SchemaVersion,
		Workspaces:    []model.Workspace{},
	}

	// Selection
	var selected string
	err := s.db.QueryRow("SELECT value FROM meta WHERE key = 'selected_workspace_id'").Scan(&selected)
	if err == nil && selected != "" {
		state.SelectedWorkspaceID = &selected
	}

	// Workspaces
	rows, err := s.db.Query(`
		SELECT id, name, color_id
		FROM workspaces
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var ws model.Workspace
		if err := rows.Scan(&ws.ID, &ws.Name, &ws.ColorID); err != nil {
			return nil, err
		}
		ws.Items = model.Forest{}
		ws.PinnedLinks = []model.Link{}
		state.Workspaces = append(state.Workspaces, ws)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range state.Workspaces {
		ws := &state.Workspaces[i]

		forest, err := s.loadForest(ws.ID)
		if err != nil {
			return nil, err
		}
		ws.Items = forest

		pinned, err := s.loadPinned(ws.ID)
		if err != nil {
			return nil, err
		}
		ws.PinnedLinks = pinned
	}

	state.Normalize()
	return state, nil
}

// loadForest reads all node rows of one workspace and reassembles the
// nested forest from the adjacency list.
func (s *SQLiteStorage) loadForest(workspaceID string) (model.Forest, error) {
	rows, err := s.db.Query(`
		SELECT id, parent_id, type, name, url, favicon_path, is_expanded
		FROM nodes
		WHERE workspace_id = ?
		ORDER BY position
	`, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// Children grouped by parent, in position order
	children := make(map[string][]nodeRow)
	var roots []nodeRow

	for rows.Next() {
		var r nodeRow
		var parentID, url, faviconPath sql.NullString
		var isExpanded int

		if err := rows.Scan(&r.id, &parentID, &r.nodeType, &r.name, &url, &faviconPath, &isExpanded); err != nil {
			return nil, err
		}

		r.url = url.String
		if faviconPath.Valid {
			r.faviconPath = &faviconPath.String
		}
		r.isExpanded = isExpanded == 1

		if parentID.Valid {
			children[parentID.String] = append(children[parentID.String], r)
		} else {
			roots = append(roots, r)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return buildForest(roots, children), nil
}

// buildForest turns flat rows back into the node tree.
func buildForest(rows []nodeRow, children map[string][]nodeRow) model.Forest {
	forest := model.Forest{}
	for _, r := range rows {
		switch r.nodeType {
		case model.NodeTypeFolder:
			forest = append(forest, &model.Folder{
				ID:         r.id,
				Name:       r.name,
				IsExpanded: r.isExpanded,
				Children:   buildForest(children[r.id], children),
			})
		case model.NodeTypeLink:
			forest = append(forest, &model.Link{
				ID:          r.id,
				Title:       r.name,
				URL:         r.url,
				FaviconPath: r.faviconPath,
			})
		}
	}
	return forest
}

// loadPinned reads one workspace's pinned links.
func (s *SQLiteStorage) loadPinned(workspaceID string) ([]model.Link, error) {
	rows, err := s.db.Query(`
		SELECT id, title, url, favicon_path
		FROM pinned_links
		WHERE workspace_id = ?
		ORDER BY position
	`, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pinned := []model.Link{}
	for rows.Next() {
		var link model.Link
		var faviconPath sql.NullString
		if err := rows.Scan(&link.ID, &link.Title, &link.URL, &faviconPath); err != nil {
			return nil, err
		}
		if faviconPath.Valid {
			link.FaviconPath = &faviconPath.String
		}
		pinned = append(pinned, link)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return pinned, nil
}

// Save writes the state to the SQLite database.
// Uses a transaction for atomicity - all or nothing.
func (s *SQLiteStorage) Save(state *model.AppState) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Clear existing data
	for _, table := range []string{"pinned_links", "nodes", "workspaces"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return err
		}
	}

	if state.SelectedWorkspaceID != nil {
		_, err = tx.Exec(
			"INSERT OR REPLACE INTO meta (key, value) VALUES ('selected_workspace_id', ?)",
			*state.SelectedWorkspaceID,
		)
	} else {
		_, err = tx.Exec("DELETE FROM meta WHERE key = 'selected_workspace_id'")
	}
	if err != nil {
		return err
	}

	wsStmt, err := tx.Prepare(`
		INSERT INTO workspaces (id, name, color_id, position)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer wsStmt.Close()

	nodeStmt, err := tx.Prepare(`
		INSERT INTO nodes (id, workspace_id, parent_id, position, type, name, url, favicon_path, is_expanded)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer nodeStmt.Close()

	pinStmt, err := tx.Prepare(`
		INSERT INTO pinned_links (id, workspace_id, position, title, url, favicon_path)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer pinStmt.Close()

	for i, ws := range state.Workspaces {
		if _, err := wsStmt.Exec(ws.ID, ws.Name, string(ws.ColorID), i); err != nil {
			return err
		}

		if err := insertForest(nodeStmt, ws.ID, nil, ws.Items); err != nil {
			return err
		}

		for j, link := range ws.PinnedLinks {
			if _, err := pinStmt.Exec(link.ID, ws.ID, j, link.Title, link.URL, link.FaviconPath); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// insertForest writes a forest level and recurses into folders.
func insertForest(stmt *sql.Stmt, workspaceID string, parentID *string, forest model.Forest) error {
	for i, n := range forest {
		switch v := n.(type) {
		case *model.Folder:
			expanded := 0
			if v.IsExpanded {
				expanded = 1
			}
			if _, err := stmt.Exec(v.ID, workspaceID, parentID, i, model.NodeTypeFolder, v.Name, nil, nil, expanded); err != nil {
				return err
			}
			if err := insertForest(stmt, workspaceID, &v.ID, v.Children); err != nil {
				return err
			}
		case *model.Link:
			if _, err := stmt.Exec(v.ID, workspaceID, parentID, i, model.NodeTypeLink, v.Title, v.URL, v.FaviconPath, 0); err != nil {
				return err
			}
		}
	}
	return nil
}

// DefaultSQLitePath returns the default SQLite database path: ~/.config/wb/workspaces.db
func DefaultSQLitePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "wb", "workspaces.db"), nil
}
