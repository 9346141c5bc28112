package importer

import (
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/nikbrunner/wb/internal/model"
)

// ParseHTMLBookmarks parses Netscape bookmark HTML into a nested
// forest of folders and links, preserving document order.
func ParseHTMLBookmarks(r io.Reader) (model.Forest, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	forest := model.Forest{}

	// Track the folder stack for hierarchy; nil target = root forest
	var folderStack []*model.Folder
	var pendingFolder *model.Folder // folder waiting to be pushed on next DL

	appendNode := func(n model.Node) {
		if len(folderStack) > 0 {
			top := folderStack[len(folderStack)-1]
			top.Children = append(top.Children, n)
		} else {
			forest = append(forest, n)
		}
	}

	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "h3":
				// Folder definition - get name from text content
				name := getTextContent(n)
				if name != "" {
					folder := model.NewFolder(model.NewFolderParams{Name: name})
					appendNode(folder)
					// Pushed when we see the folder's DL
					pendingFolder = folder
				}
				return // Don't recurse into H3

			case "a":
				href := getAttr(n, "href")
				if href == "" {
					// Skip bookmarks without URL
					return
				}
				appendNode(model.NewLink(model.NewLinkParams{
					URL:   href,
					Title: getTextContent(n),
				}))
				return // Don't recurse into A

			case "dl":
				// Definition list - marks folder contents
				pushedFolder := false
				if pendingFolder != nil {
					folderStack = append(folderStack, pendingFolder)
					pendingFolder = nil
					pushedFolder = true
				}

				for c := n.FirstChild; c != nil; c = c.NextSibling {
					parse(c)
				}

				if pushedFolder && len(folderStack) > 0 {
					folderStack = folderStack[:len(folderStack)-1]
				}
				return // Children handled above
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}

	parse(doc)
	return forest, nil
}

// getTextContent returns the text content of a node.
func getTextContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// getAttr returns the value of an attribute, case-insensitive.
func getAttr(n *html.Node, key string) string {
	key = strings.ToLower(key)
	for _, attr := range n.Attr {
		if strings.ToLower(attr.Key) == key {
			return attr.Val
		}
	}
	return ""
}
