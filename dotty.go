package gaprope

import (
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/gaprope/btree"
	"github.com/npillmayer/gaprope/chunk"
)

type nodeRef = btree.NodeRef[chunk.ChunkSlice, chunk.Summary]

type nodeids struct {
	idTable map[nodeRef]int
	max     int
}

func newtable() nodeids {
	return nodeids{
		idTable: make(map[nodeRef]int),
		max:     1,
	}
}

func (ids nodeids) find(node nodeRef) int {
	return ids.idTable[node]
}

// alloc returns the id of node and whether it has been seen before.
func (ids *nodeids) alloc(node nodeRef) (int, bool) {
	if id := ids.find(node); id > 0 {
		return id, true
	}
	ids.idTable[node] = ids.max
	ids.max++
	return ids.max - 1, false
}

// Rope2Dot outputs the internal structure of ropes in Graphviz DOT format
// (for debugging purposes). Nodes shared between the ropes are output once,
// so structural sharing between versions of a text becomes visible.
func Rope2Dot(w io.Writer, ropes ...Rope) error {
	var nodelist, edgelist strings.Builder
	ids := newtable()
	var walk func(n nodeRef) int
	walk = func(n nodeRef) int {
		id, seen := ids.alloc(n)
		if seen {
			return id
		}
		styles := nodeDotStyles(n.IsLeaf())
		if leaf, ok := n.Leaf(); ok {
			label := fmt.Sprintf("%d\\n%s", leaf.Len(), dotEscape(leaf.GoString()))
			fmt.Fprintf(&nodelist, "\"%d\" [label=\"%s\"%s];\n", id, label, styles)
			return id
		}
		s := n.Summary()
		fmt.Fprintf(&nodelist, "\"%d\" [label=\"%d|%d\"%s];\n", id, s.Bytes, s.Lines, styles)
		for _, child := range n.Children() {
			fmt.Fprintf(&edgelist, "\"%d\" -> \"%d\";\n", id, walk(child))
		}
		return id
	}
	for i, r := range ropes {
		fmt.Fprintf(&nodelist, "\"r%d\" [label=\"rope %d\",shape=plaintext];\n", i, i)
		if r.tree == nil {
			continue
		}
		if root, ok := r.tree.Root(); ok {
			fmt.Fprintf(&edgelist, "\"r%d\" -> \"%d\";\n", i, walk(root))
		}
	}
	if _, err := io.WriteString(w, "strict digraph {\n\tnode [fontname=Arial,fontsize=12];\n"); err != nil {
		T().Errorf("rope DOT: %s", err.Error())
		return err
	}
	if _, err := io.WriteString(w, nodelist.String()+edgelist.String()+"}\n"); err != nil {
		T().Errorf("rope DOT: %s", err.Error())
		return err
	}
	return nil
}

func dotEscape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

func nodeDotStyles(isleaf bool) string {
	s := ",style=filled"
	if isleaf {
		s += ",shape=box"
	} else {
		s += ",color=black,fillcolor=\"#a3d7e4\""
		s += ",shape=circle"
	}
	return s
}
