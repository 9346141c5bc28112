package search

import (
	"github.com/sahilm/fuzzy"

	"github.com/nikbrunner/wb/internal/model"
)

// Result represents a fuzzy search match.
type Result struct {
	Link           *model.Link
	WorkspaceID    string
	WorkspaceName  string
	Pinned         bool
	MatchedIndexes []int
	Score          int
}

// entry pairs a link with the workspace it lives in.
type entry struct {
	link   *model.Link
	wsID   string
	wsName string
	pinned bool
}

// linkTitles implements fuzzy.Source over collected entries.
type linkTitles []entry

func (lt linkTitles) String(i int) string {
	return lt[i].link.Title
}

func (lt linkTitles) Len() int {
	return len(lt)
}

// Links searches every link in every workspace (pinned included) by
// title using fuzzy matching. Results are sorted by match score, best
// first.
func Links(state *model.AppState, query string) []Result {
	if query == "" {
		return nil
	}

	var entries linkTitles
	for i := range state.Workspaces {
		ws := &state.Workspaces[i]
		for _, link := range ws.Items.Links() {
			entries = append(entries, entry{link: link, wsID: ws.ID, wsName: ws.Name})
		}
		for j := range ws.PinnedLinks {
			entries = append(entries, entry{
				link:   &ws.PinnedLinks[j],
				wsID:   ws.ID,
				wsName: ws.Name,
				pinned: true,
			})
		}
	}

	matches := fuzzy.FindFrom(query, entries)

	results := make([]Result, len(matches))
	for i, m := range matches {
		e := entries[m.Index]
		results[i] = Result{
			Link:           e.link,
			WorkspaceID:    e.wsID,
			WorkspaceName:  e.wsName,
			Pinned:         e.pinned,
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}

	return results
}
