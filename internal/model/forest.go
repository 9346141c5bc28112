package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrParentNotFound is returned by Insert when the parent id names no
// folder anywhere in the forest. The node is never silently dropped.
var ErrParentNotFound = errors.New("parent folder not found")

// Forest is an ordered list of root-level nodes: a workspace's items,
// or a folder's children. All operations are single depth-first
// traversals, short-circuiting on the first match.
type Forest []Node

// NodeLocation describes a node's position within a forest.
// ParentID nil means root level. Derived, never persisted.
type NodeLocation struct {
	ParentID *string
	Index    int
}

// Find returns the node with the given id, or nil if absent.
// Folders are matched before descending into their children.
func (f Forest) Find(id string) Node {
	for _, n := range f {
		if n.NodeID() == id {
			return n
		}
		if folder, ok := n.(*Folder); ok {
			if found := folder.Children.Find(id); found != nil {
				return found
			}
		}
	}
	return nil
}

// Locate returns the position of the node with the given id.
func (f Forest) Locate(id string) (NodeLocation, bool) {
	return f.locate(id, nil)
}

func (f Forest) locate(id string, parentID *string) (NodeLocation, bool) {
	for i, n := range f {
		if n.NodeID() == id {
			return NodeLocation{ParentID: parentID, Index: i}, true
		}
		if folder, ok := n.(*Folder); ok {
			if loc, ok := folder.Children.locate(id, &folder.ID); ok {
				return loc, true
			}
		}
	}
	return NodeLocation{}, false
}

// Insert places node under the folder named by parentID (or at root
// level if parentID is nil) at the given index. The index is clamped
// to [0, len]; a negative index appends. Returns ErrParentNotFound if
// parentID names no folder in the forest, leaving the forest unchanged.
func (f *Forest) Insert(node Node, parentID *string, index int) error {
	if parentID == nil {
		f.insertAt(node, index)
		return nil
	}
	target, ok := f.Find(*parentID).(*Folder)
	if !ok {
		return fmt.Errorf("%w: %s", ErrParentNotFound, *parentID)
	}
	target.Children.insertAt(node, index)
	return nil
}

func (f *Forest) insertAt(node Node, index int) {
	if index < 0 || index > len(*f) {
		index = len(*f)
	}
	*f = append(*f, nil)
	copy((*f)[index+1:], (*f)[index:])
	(*f)[index] = node
}

// Remove splices out and returns the node with the given id, wherever
// it sits in the forest. Returns nil if absent.
func (f *Forest) Remove(id string) Node {
	for i, n := range *f {
		if n.NodeID() == id {
			*f = append((*f)[:i], (*f)[i+1:]...)
			return n
		}
		if folder, ok := n.(*Folder); ok {
			if removed := folder.Children.Remove(id); removed != nil {
				return removed
			}
		}
	}
	return nil
}

// Update applies mutate to the node with the given id and stores the
// returned node back in its slot. Reports whether the node was found.
// The mutator may replace the node outright (e.g. swap variants).
func (f Forest) Update(id string, mutate func(Node) Node) bool {
	for i, n := range f {
		if n.NodeID() == id {
			if replaced := mutate(n); replaced != nil {
				f[i] = replaced
			}
			return true
		}
		if folder, ok := n.(*Folder); ok {
			if folder.Children.Update(id, mutate) {
				return true
			}
		}
	}
	return false
}

// IsDescendant reports whether nodeID equals ofID or appears anywhere
// within ofID's subtree. A link has no descendants.
func (f Forest) IsDescendant(nodeID, ofID string) bool {
	if nodeID == ofID {
		return true
	}
	folder, ok := f.Find(ofID).(*Folder)
	if !ok {
		return false
	}
	return folder.Children.Find(nodeID) != nil
}

// Filter returns a new forest containing the links whose titles
// contain query (case-insensitive) and every ancestor folder of such a
// link, forced expanded. Folders with no matching descendants are
// dropped, even if their own name matches. The source is not mutated.
func (f Forest) Filter(query string) Forest {
	query = strings.ToLower(query)
	result := Forest{}
	for _, n := range f {
		switch v := n.(type) {
		case *Link:
			if strings.Contains(strings.ToLower(v.Title), query) {
				link := *v
				result = append(result, &link)
			}
		case *Folder:
			children := v.Children.Filter(query)
			if len(children) > 0 {
				result = append(result, &Folder{
					ID:         v.ID,
					Name:       v.Name,
					IsExpanded: true,
					Children:   children,
				})
			}
		}
	}
	return result
}

// Links returns every link in the forest in depth-first order.
func (f Forest) Links() []*Link {
	var result []*Link
	for _, n := range f {
		switch v := n.(type) {
		case *Link:
			result = append(result, v)
		case *Folder:
			result = append(result, v.Children.Links()...)
		}
	}
	return result
}

// Node type discriminators used in the persisted JSON envelope.
const (
	NodeTypeFolder = "folder"
	NodeTypeLink   = "link"
)

// nodeEnvelope is the persisted form of a Node: an explicit type
// discriminator plus a payload keyed by that type, so a folder can
// never decode as a link or vice versa.
type nodeEnvelope struct {
	Type   string  `json:"type"`
	Folder *Folder `json:"folder,omitempty"`
	Link   *Link   `json:"link,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (f Forest) MarshalJSON() ([]byte, error) {
	envelopes := make([]nodeEnvelope, len(f))
	for i, n := range f {
		switch v := n.(type) {
		case *Folder:
			envelopes[i] = nodeEnvelope{Type: NodeTypeFolder, Folder: v}
		case *Link:
			envelopes[i] = nodeEnvelope{Type: NodeTypeLink, Link: v}
		default:
			return nil, fmt.Errorf("unknown node variant %T", n)
		}
	}
	return json.Marshal(envelopes)
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Forest) UnmarshalJSON(data []byte) error {
	var envelopes []nodeEnvelope
	if err := json.Unmarshal(data, &envelopes); err != nil {
		return err
	}
	result := make(Forest, 0, len(envelopes))
	for _, e := range envelopes {
		switch e.Type {
		case NodeTypeFolder:
			if e.Folder == nil {
				return fmt.Errorf("folder envelope missing payload")
			}
			if e.Folder.Children == nil {
				e.Folder.Children = Forest{}
			}
			result = append(result, e.Folder)
		case NodeTypeLink:
			if e.Link == nil {
				return fmt.Errorf("link envelope missing payload")
			}
			result = append(result, e.Link)
		default:
			return fmt.Errorf("unknown node type %q", e.Type)
		}
	}
	*f = result
	return nil
}
