package model

import "net/url"

// Node is either a *Folder or a *Link. The two variants share nothing
// beyond identity and a display name, so this stays a closed union:
// no other type in this module implements it.
type Node interface {
	NodeID() string
	DisplayName() string
}

// Link represents a saved URL.
type Link struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	FaviconPath *string `json:"faviconPath"` // nil = no favicon cached yet
}

// NodeID implements Node.
func (l *Link) NodeID() string { return l.ID }

// DisplayName implements Node.
func (l *Link) DisplayName() string { return l.Title }

// NewLinkParams holds parameters for creating a new Link.
type NewLinkParams struct {
	URL   string
	Title string // empty = derive from URL
}

// NewLink creates a Link with a generated UUID.
// An empty title falls back to the URL's default title, which is what
// gates later automatic title updates (see DefaultTitle).
func NewLink(params NewLinkParams) *Link {
	title := params.Title
	if title == "" {
		title = DefaultTitle(params.URL)
	}
	return &Link{
		ID:    GenerateUUID(),
		Title: title,
		URL:   params.URL,
	}
}

// Folder represents a container for links and other folders.
// Children order is meaningful and preserved exactly as edited.
type Folder struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	IsExpanded bool   `json:"isExpanded"`
	Children   Forest `json:"children"`
}

// NodeID implements Node.
func (f *Folder) NodeID() string { return f.ID }

// DisplayName implements Node.
func (f *Folder) DisplayName() string { return f.Name }

// NewFolderParams holds parameters for creating a new Folder.
type NewFolderParams struct {
	Name string
}

// NewFolder creates an empty, expanded Folder with a generated UUID.
func NewFolder(params NewFolderParams) *Folder {
	return &Folder{
		ID:         GenerateUUID(),
		Name:       params.Name,
		IsExpanded: true,
		Children:   Forest{},
	}
}

// DefaultTitle returns the title a link carries before any fetch or
// manual edit: the URL's host, or the raw URL if it cannot be parsed.
func DefaultTitle(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return rawURL
	}
	return parsed.Host
}
