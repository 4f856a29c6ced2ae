//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"fmt"
	"io"
)

// Render writes a tree drawing of the circuit to w, one gate or input
// wire per line, indented with the same box-drawing glyphs the
// timing report uses for its Sent/Rcvd/Flcd sub-rows. It exists for
// eyeballing a circuit's shape before garbling it, not for any
// protocol exchange.
func (c *Circuit) Render(w io.Writer) error {
	return renderGate(w, "", true, true, c.Root)
}

func renderGate(w io.Writer, prefix string, last, root bool, g *Gate) error {
	connector := "├╴"
	if last {
		connector = "╰╴"
	}
	if root {
		connector = ""
	}
	if _, err := fmt.Fprintf(w, "%s%s%s(%s)\n", prefix, connector, g.Op, g.Identifier); err != nil {
		return err
	}

	childPrefix := prefix
	if !root {
		if last {
			childPrefix += "  "
		} else {
			childPrefix += "│ "
		}
	}

	if g.Op.Arity() == 2 {
		if err := renderNode(w, childPrefix, false, g.Left); err != nil {
			return err
		}
		return renderNode(w, childPrefix, true, g.Right)
	}
	return renderNode(w, childPrefix, true, g.Left)
}

func renderNode(w io.Writer, prefix string, last bool, n Node) error {
	if n.IsLeaf() {
		connector := "├╴"
		if last {
			connector = "╰╴"
		}
		_, err := fmt.Fprintf(w, "%s%s%s\n", prefix, connector, n.Leaf)
		return err
	}
	return renderGate(w, prefix, last, false, n.Gate)
}
