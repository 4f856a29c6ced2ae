//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"encoding/binary"

	"github.com/nachonavarro/gabes/gabeserr"
)

// Marshal encodes a cleaned circuit (tree shape, operations and
// garbled tables, no Output wires) into the binary form the garbler
// sends the evaluator. It is the wire counterpart of Dump: Dump
// round-trips structure for humans and for property 6's textual
// check, Marshal additionally carries the garbled tables a running
// protocol actually needs.
func (c *Circuit) Marshal() []byte {
	var buf []byte
	buf = appendUint32(buf, uint32(len(c.Inputs)))
	for _, id := range c.Inputs {
		buf = appendString(buf, id)
	}
	return marshalGate(buf, c.Root)
}

func marshalGate(buf []byte, g *Gate) []byte {
	buf = appendUint32(buf, uint32(g.ID))
	buf = append(buf, byte(g.Op))
	buf = appendString(buf, g.Identifier)
	buf = marshalNode(buf, g.Left)
	if g.Op.Arity() == 2 {
		buf = marshalNode(buf, g.Right)
	}
	buf = appendUint32(buf, uint32(len(g.Table)))
	for _, row := range g.Table {
		buf = appendBytes(buf, row)
	}
	return buf
}

func marshalNode(buf []byte, n Node) []byte {
	if n.IsLeaf() {
		buf = append(buf, 0)
		return appendString(buf, n.Leaf)
	}
	buf = append(buf, 1)
	return marshalGate(buf, n.Gate)
}

// Unmarshal decodes Marshal's output back into a Circuit ready for
// EvaluateTree. Every Gate's Output is left nil, matching what Clean
// would have produced on the garbler's side.
func Unmarshal(data []byte) (*Circuit, error) {
	d := &decoder{buf: data}
	n, err := d.uint32()
	if err != nil {
		return nil, err
	}
	inputs := make([]string, n)
	for i := range inputs {
		inputs[i], err = d.string()
		if err != nil {
			return nil, err
		}
	}
	root, err := d.gate()
	if err != nil {
		return nil, err
	}
	return &Circuit{Root: root, Inputs: inputs}, nil
}

type decoder struct {
	buf []byte
	pos int
}

func (d *decoder) uint32() (uint32, error) {
	if d.pos+4 > len(d.buf) {
		return 0, gabeserr.NewParseError("truncated circuit encoding")
	}
	v := binary.BigEndian.Uint32(d.buf[d.pos:])
	d.pos += 4
	return v, nil
}

func (d *decoder) byte() (byte, error) {
	if d.pos+1 > len(d.buf) {
		return 0, gabeserr.NewParseError("truncated circuit encoding")
	}
	b := d.buf[d.pos]
	d.pos++
	return b, nil
}

func (d *decoder) bytes() ([]byte, error) {
	n, err := d.uint32()
	if err != nil {
		return nil, err
	}
	if d.pos+int(n) > len(d.buf) {
		return nil, gabeserr.NewParseError("truncated circuit encoding")
	}
	b := d.buf[d.pos : d.pos+int(n)]
	d.pos += int(n)
	return b, nil
}

func (d *decoder) string() (string, error) {
	b, err := d.bytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (d *decoder) gate() (*Gate, error) {
	id, err := d.uint32()
	if err != nil {
		return nil, err
	}
	opByte, err := d.byte()
	if err != nil {
		return nil, err
	}
	op := Operation(opByte)
	identifier, err := d.string()
	if err != nil {
		return nil, err
	}
	left, err := d.node()
	if err != nil {
		return nil, err
	}
	var right Node
	if op.Arity() == 2 {
		right, err = d.node()
		if err != nil {
			return nil, err
		}
	}
	numRows, err := d.uint32()
	if err != nil {
		return nil, err
	}
	table := make([][]byte, numRows)
	for i := range table {
		row, err := d.bytes()
		if err != nil {
			return nil, err
		}
		table[i] = append([]byte{}, row...)
	}
	return &Gate{
		ID:         int(id),
		Identifier: identifier,
		Op:         op,
		Left:       left,
		Right:      right,
		Table:      table,
	}, nil
}

func (d *decoder) node() (Node, error) {
	tag, err := d.byte()
	if err != nil {
		return Node{}, err
	}
	if tag == 0 {
		id, err := d.string()
		if err != nil {
			return Node{}, err
		}
		return leaf(id), nil
	}
	g, err := d.gate()
	if err != nil {
		return Node{}, err
	}
	return sub(g), nil
}

func appendUint32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendBytes(buf, data []byte) []byte {
	buf = appendUint32(buf, uint32(len(data)))
	return append(buf, data...)
}

func appendString(buf []byte, s string) []byte {
	return appendBytes(buf, []byte(s))
}
