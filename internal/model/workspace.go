package model

// ColorID identifies one of the fixed workspace accent colors.
type ColorID string

// The eight workspace colors. ColorEmber is the default.
const (
	ColorEmber  ColorID = "ember"
	ColorRuby   ColorID = "ruby"
	ColorAmber  ColorID = "amber"
	ColorJade   ColorID = "jade"
	ColorAzure  ColorID = "azure"
	ColorIndigo ColorID = "indigo"
	ColorViolet ColorID = "violet"
	ColorSlate  ColorID = "slate"
)

// ColorIDs returns all workspace colors in display order.
func ColorIDs() []ColorID {
	return []ColorID{
		ColorEmber, ColorRuby, ColorAmber, ColorJade,
		ColorAzure, ColorIndigo, ColorViolet, ColorSlate,
	}
}

// Valid reports whether c is one of the known colors.
func (c ColorID) Valid() bool {
	for _, known := range ColorIDs() {
		if c == known {
			return true
		}
	}
	return false
}

// MaxPinnedLinks is the per-workspace cap on pinned links.
const MaxPinnedLinks = 9

// Workspace owns one forest of items plus a flat pinned-links list.
type Workspace struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	ColorID     ColorID `json:"colorId"`
	Items       Forest  `json:"items"`
	PinnedLinks []Link  `json:"pinnedLinks"`
}

// NewWorkspaceParams holds parameters for creating a new Workspace.
type NewWorkspaceParams struct {
	Name    string
	ColorID ColorID
}

// NewWorkspace creates an empty Workspace with a generated UUID.
// An unknown color falls back to the default.
func NewWorkspace(params NewWorkspaceParams) Workspace {
	colorID := params.ColorID
	if !colorID.Valid() {
		colorID = ColorEmber
	}
	return Workspace{
		ID:          GenerateUUID(),
		Name:        params.Name,
		ColorID:     colorID,
		Items:       Forest{},
		PinnedLinks: []Link{},
	}
}

// PinnedIndex returns the index of the pinned link with the given id,
// or -1 if absent.
func (w *Workspace) PinnedIndex(id string) int {
	for i := range w.PinnedLinks {
		if w.PinnedLinks[i].ID == id {
			return i
		}
	}
	return -1
}
