package blocked

import (
	"bytes"
	"fmt"
	"io"

	"github.com/zeebo/stree/internal/node"
)

// Dump writes a dot graph of the tree to w. Every node is a row of its keys
// with an edge from each key slot to the child it routes to. Sentinel shows
// as an empty cell.
func (t *T) Dump(w io.Writer) error {
	var buf bytes.Buffer
	last := len(t.offsets) - 1

	id := func(h, i int) int { return t.offsets[h] + i }

	output := func(h, i int) {
		n := &t.nodes[id(h, i)]
		fmt.Fprintf(&buf, `node%d [label=<<TABLE BORDER="0" CELLBORDER="1" CELLSPACING="0"><TR>`, id(h, i))
		fmt.Fprintf(&buf, `<TD PORT="fn">h%d n%d</TD>`, h, i)
		for k, key := range n {
			if key == Sentinel {
				fmt.Fprintf(&buf, `<TD PORT="f%d"> </TD>`, k)
			} else {
				fmt.Fprintf(&buf, `<TD PORT="f%d">%d</TD>`, k, key)
			}
		}
		fmt.Fprintf(&buf, `<TD PORT="fe"> </TD></TR></TABLE>>];`+"\n")

		if h == last {
			return
		}

		// port r of the node routes to child r. the last child hangs off the
		// end port.
		size := t.levelSize(h + 1)
		for r := 0; r < node.Fanout; r++ {
			c := child(i, r)
			if c >= size {
				break
			}
			port := "fe"
			if r < node.Keys {
				port = fmt.Sprintf("f%d", r)
			}
			fmt.Fprintf(&buf, "node%d:%s:s -> node%d:fn:n;\n", id(h, i), port, id(h+1, c))
		}
	}

	fmt.Fprintln(&buf, "digraph stree { node[shape=plaintext]; ordering=out; splines=line;")
	for h := range t.offsets {
		size := t.levelSize(h)
		fmt.Fprintf(&buf, "{rank=same; ")
		for i := 0; i < size; i++ {
			fmt.Fprintf(&buf, "node%d ", id(h, i))
		}
		fmt.Fprintln(&buf, "}")

		for i := 0; i < size; i++ {
			output(h, i)
		}
	}
	fmt.Fprintln(&buf, "}")

	_, err := w.Write(buf.Bytes())
	return err
}

// levelSize returns how many nodes level h holds.
func (t *T) levelSize(h int) int {
	if h+1 < len(t.offsets) {
		return t.offsets[h+1] - t.offsets[h]
	}
	return len(t.nodes) - 1 - t.offsets[h]
}
