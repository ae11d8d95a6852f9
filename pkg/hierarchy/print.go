package hierarchy

import (
	"fmt"
	"io"

	"github.com/colin4124/knitkit/pkg/types"
	"github.com/ddddddO/gtree"
)

// Label formats a node for display
func Label(n *types.Node) string {
	switch n.Kind {
	case types.KindDir, types.KindEmptyDir:
		return n.Name + "/"
	case types.KindTemplate:
		if n.Role == types.RoleOpaque {
			return fmt.Sprintf("%s <- %s", n.Name, n.Template)
		}
		return fmt.Sprintf("%s <- %s [%s]", n.Name, n.Template, n.Role)
	default:
		return n.Name
	}
}

// Print writes the declared tree under a root labelled title
func Print(w io.Writer, title string, root *types.Node) error {
	tree := gtree.NewRoot(title)
	addChildren(tree, root)
	return gtree.OutputFromRoot(w, tree)
}

func addChildren(parent *gtree.Node, n *types.Node) {
	for _, c := range n.Children {
		child := parent.Add(Label(c))
		if c.Kind == types.KindDir {
			addChildren(child, c)
		}
	}
}
