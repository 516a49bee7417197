package proptree

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/benji-bou/annocfg/core/convert"
	"github.com/samber/lo"
)

const (
	ConfigTypeTag = "ConfigType"
	FileNameTag   = "FileName"
)

type Leaf struct {
	Tag   string
	Value convert.Value
	pos   uint64
}

// Node mirrors one XML element. Hidden and Deleted are edit state only: Hidden
// never changes serialization, Deleted children are kept in memory but not
// written.
type Node struct {
	Tag        string
	ConfigType string
	Hidden     bool
	Deleted    bool

	leaves   [numBuckets][]*Leaf
	children []*Node
	pos      uint64
	next     uint64
	conv     *convert.Registry
}

// New returns an empty tree. A nil registry selects convert.Default().
func New(tag string, conv *convert.Registry) *Node {
	if conv == nil {
		conv = convert.Default()
	}
	return &Node{Tag: tag, conv: conv}
}

func (n *Node) Registry() *convert.Registry {
	return n.conv
}

func (n *Node) stamp() uint64 {
	n.next++
	return n.next
}

// Set decodes raw with the converter resolved for tag and stores it. With
// replace, an existing leaf of the same tag in the target bucket is overwritten
// in place; otherwise a new leaf is appended even if the tag already exists.
// Fallback decodes are logged and stored as zero values.
func (n *Node) Set(tag, raw string, replace bool) error {
	v, err := n.conv.Resolve(tag, raw).Decode(raw)
	if err != nil {
		if !errors.Is(err, convert.ErrFallback) {
			return fmt.Errorf("set %s/%s: %w", n.Tag, tag, err)
		}
		slog.Warn("leaf decoded to fallback value", "node", n.Tag, "tag", tag, "raw", raw, "error", err)
	}
	n.SetValue(tag, v, replace)
	return nil
}

// SetValue stores an already typed value. ConfigType is captured into the
// ConfigType field instead of a bucket.
func (n *Node) SetValue(tag string, v convert.Value, replace bool) {
	if tag == ConfigTypeTag {
		n.ConfigType = v.Text()
		return
	}
	b := bucketFor(tag, v.Kind())
	if replace {
		for _, l := range n.leaves[b] {
			if l.Tag == tag {
				l.Value = v
				return
			}
		}
	}
	n.leaves[b] = append(n.leaves[b], &Leaf{Tag: tag, Value: v, pos: n.stamp()})
}

// Remove deletes the first leaf named tag, scanning buckets in declaration order.
// Children are never touched.
func (n *Node) Remove(tag string) bool {
	for b := range n.leaves {
		i := slices.IndexFunc(n.leaves[b], func(l *Leaf) bool { return l.Tag == tag })
		if i >= 0 {
			n.leaves[b] = slices.Delete(n.leaves[b], i, i+1)
			return true
		}
	}
	return false
}

// Leaf returns the first leaf named tag across all buckets.
func (n *Node) Leaf(tag string) (*Leaf, bool) {
	for b := range n.leaves {
		for _, l := range n.leaves[b] {
			if l.Tag == tag {
				return l, true
			}
		}
	}
	return nil, false
}

func (n *Node) Value(tag string) (convert.Value, bool) {
	l, ok := n.Leaf(tag)
	if !ok {
		return convert.Value{}, false
	}
	return l.Value, true
}

// Leaves returns the leaves of one bucket in order.
func (n *Node) Leaves(b Bucket) []*Leaf {
	return slices.Clone(n.leaves[b])
}

// LeafCount counts the leaves named tag across all buckets.
func (n *Node) LeafCount(tag string) int {
	count := 0
	for b := range n.leaves {
		count += lo.CountBy(n.leaves[b], func(l *Leaf) bool { return l.Tag == tag })
	}
	return count
}

// GetString looks tag up in the string bucket, then in the filename bucket.
func (n *Node) GetString(tag string) (string, bool) {
	for _, b := range []Bucket{Strings, Filenames} {
		for _, l := range n.leaves[b] {
			if l.Tag == tag {
				return l.Value.Text(), true
			}
		}
	}
	return "", false
}

func (n *Node) StringOr(tag, def string) string {
	if s, ok := n.GetString(tag); ok {
		return s
	}
	return def
}

// AddChild appends and returns a new empty child sharing this tree's registry.
func (n *Node) AddChild(tag string) *Node {
	child := New(tag, n.conv)
	n.AppendChild(child)
	return child
}

// AppendChild takes ownership of child.
func (n *Node) AppendChild(child *Node) {
	child.pos = n.stamp()
	n.children = append(n.children, child)
}

func (n *Node) Children() []*Node {
	return slices.Clone(n.children)
}

// Child returns the first child named tag.
func (n *Node) Child(tag string) (*Node, bool) {
	return lo.Find(n.children, func(c *Node) bool { return c.Tag == tag })
}

// RemoveChild destroys the first child named tag and its whole subtree.
func (n *Node) RemoveChild(tag string) bool {
	i := slices.IndexFunc(n.children, func(c *Node) bool { return c.Tag == tag })
	if i < 0 {
		return false
	}
	n.children = slices.Delete(n.children, i, i+1)
	return true
}

// Reset clears leaves, children and edit state. Tag is kept.
func (n *Node) Reset() {
	n.ConfigType = ""
	n.leaves = [numBuckets][]*Leaf{}
	n.children = nil
	n.Hidden = false
	n.Deleted = false
	n.next = 0
}

// Clone deep-copies the tree, including edit state and ordering.
func (n *Node) Clone() *Node {
	c := &Node{
		Tag:        n.Tag,
		ConfigType: n.ConfigType,
		Hidden:     n.Hidden,
		Deleted:    n.Deleted,
		pos:        n.pos,
		next:       n.next,
		conv:       n.conv,
	}
	for b := range n.leaves {
		c.leaves[b] = lo.Map(n.leaves[b], func(l *Leaf, _ int) *Leaf {
			cp := *l
			return &cp
		})
	}
	c.children = lo.Map(n.children, func(child *Node, _ int) *Node { return child.Clone() })
	return c
}

// Walk visits n and its descendants depth first until fn returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

type entry struct {
	pos   uint64
	leaf  *Leaf
	child *Node
}

// entries lists leaves and live children in insertion order.
func (n *Node) entries() []entry {
	res := make([]entry, 0, len(n.children))
	for b := range n.leaves {
		for _, l := range n.leaves[b] {
			res = append(res, entry{pos: l.pos, leaf: l})
		}
	}
	for _, c := range lo.Reject(n.children, func(c *Node, _ int) bool { return c.Deleted }) {
		res = append(res, entry{pos: c.pos, child: c})
	}
	slices.SortFunc(res, func(a, b entry) int { return cmp.Compare(a.pos, b.pos) })
	return res
}
