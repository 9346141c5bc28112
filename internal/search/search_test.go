package search_test

import (
	"testing"

	"github.com/nikbrunner/wb/internal/model"
	"github.com/nikbrunner/wb/internal/search"
)

func testState() *model.AppState {
	return &model.AppState{
		SchemaVersion: model.SchemaVersion,
		Workspaces: []model.Workspace{
			{
				ID: "ws1", Name: "Work", ColorID: model.ColorAzure,
				Items: model.Forest{
					&model.Folder{
						ID: "f1", Name: "Dev", IsExpanded: true,
						Children: model.Forest{
							&model.Link{ID: "l1", Title: "GitHub", URL: "https://github.com"},
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
				Items: model.Forest{
					&model.Link{ID: "l4", Title: "GitLab", URL: "https://gitlab.com"},
				},
				PinnedLinks: []model.Link{},
			},
		},
	}
}

func TestLinks_MatchesAcrossWorkspaces(t *testing.T) {
	results := search.Links(testState(), "git")

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	seen := map[string]string{}
	for _, r := range results {
		seen[r.Link.ID] = r.WorkspaceID
	}
	if seen["l1"] != "ws1" {
		t.Errorf("GitHub should come from ws1, got %q", seen["l1"])
	}
	if seen["l4"] != "ws2" {
		t.Errorf("GitLab should come from ws2, got %q", seen["l4"])
	}
}

func TestLinks_IncludesPinned(t *testing.T) {
	results := search.Links(testState(), "mail")

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	r := results[0]
	if r.Link.ID != "l3" || !r.Pinned {
		t.Errorf("expected pinned l3, got %+v", r)
	}
	if r.WorkspaceName != "Work" {
		t.Errorf("expected workspace name Work, got %q", r.WorkspaceName)
	}
}

func TestLinks_FuzzyNotSubstring(t *testing.T) {
	// "hn" is not a substring of "Hacker News" but fuzzy-matches it
	results := search.Links(testState(), "hn")

	found := false
	for _, r := range results {
		if r.Link.ID == "l2" {
			found = true
			if len(r.MatchedIndexes) == 0 {
				t.Error("expected matched indexes for highlighting")
			}
		}
	}
	if !found {
		t.Error("expected fuzzy match on Hacker News")
	}
}

func TestLinks_EmptyQuery(t *testing.T) {
	if results := search.Links(testState(), ""); results != nil {
		t.Errorf("empty query should return nil, got %v", results)
	}
}

func TestLinks_NoMatches(t *testing.T) {
	if results := search.Links(testState(), "xyzzy"); len(results) != 0 {
		t.Errorf("expected no results, got %v", results)
	}
}
