// Package actions derives edit scripts from tree mappings and replays them.
package actions

import (
	"fmt"

	"github.com/ludo-technologies/treediff/internal/tree"
)

// Kind identifies an edit operation
type Kind int

const (
	Insert Kind = iota
	Delete
	Update
	Move
	// InsertTree and DeleteTree only appear in simplified scripts
	InsertTree
	DeleteTree
)

// Name returns the operation name used in reports
func (k Kind) Name() string {
	switch k {
	case Insert:
		return "insert-node"
	case Delete:
		return "delete-node"
	case Update:
		return "update-node"
	case Move:
		return "move-tree"
	case InsertTree:
		return "insert-tree"
	case DeleteTree:
		return "delete-tree"
	default:
		return "unknown"
	}
}

func (k Kind) String() string {
	return k.Name()
}

// Action is one edit operation.
//
// Node is a src node for Delete, Update and Move and a dst node for
// Insert. Parent is a src node, or the dst node of an earlier Insert; nil
// stands for the virtual parent of the root. Position is the index of the
// node among the children of Parent once the operation is applied.
type Action struct {
	Kind     Kind
	Node     *tree.Node
	Parent   *tree.Node
	Position int
	Value    string
}

func (a Action) String() string {
	switch a.Kind {
	case Insert, Move, InsertTree:
		return fmt.Sprintf("%s %s to %s at %d", a.Kind, a.Node, parentString(a.Parent), a.Position)
	case Update:
		return fmt.Sprintf("%s %s from %q to %q", a.Kind, a.Node, a.Node.Label, a.Value)
	default:
		return fmt.Sprintf("%s %s", a.Kind, a.Node)
	}
}

func parentString(p *tree.Node) string {
	if p == nil {
		return "root"
	}
	return p.String()
}

// EditScript is an ordered list of actions
type EditScript struct {
	actions []Action
}

// NewEditScript creates an empty script
func NewEditScript() *EditScript {
	return &EditScript{}
}

// Add appends an action
func (s *EditScript) Add(a Action) {
	s.actions = append(s.actions, a)
}

// Actions returns the actions in replay order
func (s *EditScript) Actions() []Action {
	return s.actions
}

// Len returns the number of actions
func (s *EditScript) Len() int {
	return len(s.actions)
}

// Counts returns the number of actions per kind
func (s *EditScript) Counts() map[Kind]int {
	counts := make(map[Kind]int)
	for _, a := range s.actions {
		counts[a.Kind]++
	}
	return counts
}
