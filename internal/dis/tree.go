package dis

import (
	"encoding/hex"
	"fmt"
	"html"
	"strconv"
	"strings"

	"example.com/disgate/internal/ebv"
)

// Node is one field of a record dump. Records and list elements carry
// Children, primitive fields carry Value.
type Node struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Value       string `json:"value,omitempty"`
	Description string `json:"description,omitempty"`
	Children    []Node `json:"children,omitempty"`
}

// Describer names enumerated field values and entity types.
// *ebv.Store satisfies it, including a nil store.
type Describer interface {
	Describe(field string, value uint64) (string, bool)
	DescribeEntity(k ebv.EntityKey) (string, bool)
}

type TreeOption func(*treeBuilder)

// WithDescriber replaces the built-in enumeration tables.
func WithDescriber(d Describer) TreeOption {
	return func(t *treeBuilder) {
		if d != nil {
			t.desc = d
		}
	}
}

// Tree walks r into a field tree in wire order. Padding is omitted.
func Tree(r Record, opts ...TreeOption) Node {
	t := &treeBuilder{desc: (*ebv.Store)(nil), total: Size(r)}
	for _, opt := range opts {
		opt(t)
	}
	name := typeName(r)
	root := Node{Name: name, Type: name}
	t.cur = &root
	t.describeRecord(&root, r)
	r.walk(t)
	return root
}

// Dump renders r as indented pseudo-XML.
func Dump(r Record, opts ...TreeOption) string {
	var b strings.Builder
	writeNode(&b, Tree(r, opts...), 0, true)
	return b.String()
}

type keyed interface {
	Key() ebv.EntityKey
}

type treeBuilder struct {
	desc  Describer
	total int
	cur   *Node
}

func (t *treeBuilder) leaf(tag, typ, value string) {
	t.cur.Children = append(t.cur.Children, Node{Name: tag, Type: typ, Value: value})
}

func (t *treeBuilder) enum(tag, typ string, v uint64) {
	n := Node{Name: tag, Type: typ, Value: strconv.FormatUint(v, 10)}
	if s, ok := t.desc.Describe(tag, v); ok {
		n.Description = s
	}
	t.cur.Children = append(t.cur.Children, n)
}

func (t *treeBuilder) u8(tag string, v *uint8)   { t.enum(tag, "uint8", uint64(*v)) }
func (t *treeBuilder) u16(tag string, v *uint16) { t.enum(tag, "uint16", uint64(*v)) }
func (t *treeBuilder) u32(tag string, v *uint32) { t.enum(tag, "uint32", uint64(*v)) }
func (t *treeBuilder) u64(tag string, v *uint64) { t.enum(tag, "uint64", *v) }

func (t *treeBuilder) i8(tag string, v *int8) {
	t.leaf(tag, "int8", strconv.FormatInt(int64(*v), 10))
}

func (t *treeBuilder) i16(tag string, v *int16) {
	t.leaf(tag, "int16", strconv.FormatInt(int64(*v), 10))
}

func (t *treeBuilder) i32(tag string, v *int32) {
	t.leaf(tag, "int32", strconv.FormatInt(int64(*v), 10))
}

func (t *treeBuilder) i64(tag string, v *int64) {
	t.leaf(tag, "int64", strconv.FormatInt(*v, 10))
}

func (t *treeBuilder) f32(tag string, v *float32) {
	t.leaf(tag, "float32", strconv.FormatFloat(float64(*v), 'g', -1, 32))
}

func (t *treeBuilder) f64(tag string, v *float64) {
	t.leaf(tag, "float64", strconv.FormatFloat(*v, 'g', -1, 64))
}

func (t *treeBuilder) octets(tag string, v []byte) {
	t.leaf(tag, fmt.Sprintf("uint8[%d]", len(v)), hex.EncodeToString(v))
}

func (t *treeBuilder) record(tag string, r Record) {
	name := typeName(r)
	n := Node{Name: tag, Type: name}
	t.describeRecord(&n, r)
	parent := t.cur
	t.cur = &n
	r.walk(t)
	t.cur = parent
	t.cur.Children = append(t.cur.Children, n)
}

func (t *treeBuilder) describeRecord(n *Node, r Record) {
	if k, ok := r.(keyed); ok {
		if s, ok := t.desc.DescribeEntity(k.Key()); ok {
			n.Description = s
		}
	}
}

func (t *treeBuilder) count(tag string, width int, n *int) {
	t.leaf(tag, fmt.Sprintf("uint%d", width*8), strconv.Itoa(*n))
}

func (t *treeBuilder) blob(tag string, _ int, v *[]byte) {
	t.leaf(tag, fmt.Sprintf("uint8[%d]", len(*v)), hex.EncodeToString(*v))
}

func (t *treeBuilder) pad(string, int) {}

func (t *treeBuilder) list(tag string, _ int, s sequence) {
	for i := 0; i < s.len(); i++ {
		t.record(tag+strconv.Itoa(i), s.at(i))
	}
}

func (t *treeBuilder) pduLength(tag string) {
	t.leaf(tag, "uint16", strconv.Itoa(t.total))
}

func (t *treeBuilder) bitLength(tag string, bits *uint16, data []byte) {
	t.leaf(tag, "uint16", strconv.Itoa(effectiveBits(*bits, data)))
}

func writeNode(b *strings.Builder, n Node, depth int, root bool) {
	indent := strings.Repeat("  ", depth)
	b.WriteString(indent)
	b.WriteString("<")
	b.WriteString(n.Name)
	if !root {
		fmt.Fprintf(b, " type=%q", n.Type)
	}
	if n.Description != "" {
		b.WriteString(` desc="`)
		b.WriteString(html.EscapeString(n.Description))
		b.WriteString(`"`)
	}
	if len(n.Children) == 0 {
		b.WriteString(">")
		b.WriteString(html.EscapeString(n.Value))
		b.WriteString("</")
		b.WriteString(n.Name)
		b.WriteString(">\n")
		return
	}
	b.WriteString(">\n")
	for _, c := range n.Children {
		writeNode(b, c, depth+1, false)
	}
	b.WriteString(indent)
	b.WriteString("</")
	b.WriteString(n.Name)
	b.WriteString(">\n")
}
