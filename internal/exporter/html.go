package exporter

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikbrunner/wb/internal/model"
)

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/workspace-export-YYYY-MM-DD.html
func DefaultExportPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("workspace-export-%s.html", time.Now().Format("2006-01-02"))
	return filepath.Join(home, "Downloads", filename), nil
}

// ExportHTML exports one workspace to Netscape bookmark HTML format.
// Pinned links are exported as a trailing "Pinned" folder so no link
// is lost on a round trip through another browser.
func ExportHTML(ws *model.Workspace) string {
	var b strings.Builder

	// Header
	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	fmt.Fprintf(&b, "<TITLE>%s</TITLE>\n", html.EscapeString(ws.Name))
	fmt.Fprintf(&b, "<H1>%s</H1>\n", html.EscapeString(ws.Name))
	b.WriteString("<DL><p>\n")

	writeForest(&b, ws.Items, 1)

	if len(ws.PinnedLinks) > 0 {
		prefix := strings.Repeat("    ", 1)
		fmt.Fprintf(&b, "%s<DT><H3>Pinned</H3>\n", prefix)
		fmt.Fprintf(&b, "%s<DL><p>\n", prefix)
		for i := range ws.PinnedLinks {
			writeLink(&b, &ws.PinnedLinks[i], 2)
		}
		fmt.Fprintf(&b, "%s</DL><p>\n", prefix)
	}

	// Footer
	b.WriteString("</DL><p>\n")

	return b.String()
}

// writeForest recursively writes one level of the forest.
func writeForest(b *strings.Builder, forest model.Forest, indent int) {
	prefix := strings.Repeat("    ", indent)

	for _, n := range forest {
		switch v := n.(type) {
		case *model.Folder:
			fmt.Fprintf(b, "%s<DT><H3>%s</H3>\n", prefix, html.EscapeString(v.Name))
			fmt.Fprintf(b, "%s<DL><p>\n", prefix)
			writeForest(b, v.Children, indent+1)
			fmt.Fprintf(b, "%s</DL><p>\n", prefix)
		case *model.Link:
			writeLink(b, v, indent)
		}
	}
}

// writeLink writes a single link entry.
func writeLink(b *strings.Builder, link *model.Link, indent int) {
	prefix := strings.Repeat("    ", indent)
	fmt.Fprintf(b,
		"%s<DT><A HREF=\"%s\">%s</A>\n",
		prefix,
		html.EscapeString(link.URL),
		html.EscapeString(link.Title),
	)
}
