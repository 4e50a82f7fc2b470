package scene

import (
	"fmt"
	"io"
	"reflect"
	"strings"
)

// DumpString is a wrapper for Dump.
func DumpString(root *Node) string {
	w := new(strings.Builder)
	Dump(w, root)
	return w.String()
}

// Dump writes the subtree below root to w, one node per line, indented by
// depth. Disabled nodes are marked with "-", behaviors are listed in brackets.
func Dump(w io.Writer, root *Node) {
	if root == nil {
		return
	}
	dumpRec(w, root, 0)
}

func dumpRec(w io.Writer, n *Node, depth int) {
	mark := "+"
	if !n.enabled {
		mark = "-"
	}
	fmt.Fprintf(w, "%s%s %s", strings.Repeat("  ", depth), mark, n.name)
	if len(n.behaviors) > 0 {
		kinds := make([]string, 0, len(n.behaviors))
		for _, b := range n.behaviors {
			t := reflect.TypeOf(b)
			for t.Kind() == reflect.Pointer {
				t = t.Elem()
			}
			kinds = append(kinds, t.Name())
		}
		fmt.Fprintf(w, " [%s]", strings.Join(kinds, ","))
	}
	fmt.Fprintln(w)

	for _, c := range n.children {
		dumpRec(w, c, depth+1)
	}
}
