//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

package circuit

import "strings"

// Dump renders the circuit back into the gabes grammar text. Parsing
// Dump's output reproduces a structurally equal Circuit (testable
// property 6): Dump and Parse are written against exactly the same
// token grammar, so nothing is lost in the round trip.
func (c *Circuit) Dump() string {
	var b strings.Builder
	dumpGate(&b, c.Root)
	return b.String()
}

func dumpGate(b *strings.Builder, g *Gate) {
	b.WriteString("GATE(")
	b.WriteString(g.Op.String())
	b.WriteString(", ")
	b.WriteString(g.Identifier)
	b.WriteString(", ")
	dumpNode(b, g.Left)
	if g.Op.Arity() == 2 {
		b.WriteString(", ")
		dumpNode(b, g.Right)
	}
	b.WriteString(")")
}

func dumpNode(b *strings.Builder, n Node) {
	if n.IsLeaf() {
		b.WriteString(n.Leaf)
		return
	}
	dumpGate(b, n.Gate)
}

// Stats summarizes a circuit's shape, used for reporting.
type Stats struct {
	Gates       int
	Inputs      int
	ByOperation map[Operation]int
}

// Cost walks the circuit and tallies gate counts per operation. Gates
// is computed by NumGates rather than re-derived here, so the two
// stay in lockstep.
func (c *Circuit) Cost() Stats {
	s := Stats{Gates: c.NumGates(), Inputs: len(c.Inputs), ByOperation: map[Operation]int{}}
	tallyOps(c.Root, s.ByOperation)
	return s
}

func tallyOps(g *Gate, byOp map[Operation]int) {
	if g == nil {
		return
	}
	byOp[g.Op]++
	if !g.Left.IsLeaf() {
		tallyOps(g.Left.Gate, byOp)
	}
	if g.Op.Arity() == 2 && !g.Right.IsLeaf() {
		tallyOps(g.Right.Gate, byOp)
	}
}
