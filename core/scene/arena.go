// Package scene holds the objects of an imported Anno file in an arena.
// Objects are addressed by stable ObjectIDs and keep explicit parent links,
// so the arena doubles as the convert.ObjectRegistry that resolves
// ObjectReference leaves by name.
package scene

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/benji-bou/annocfg/core/convert"
	"github.com/benji-bou/annocfg/core/proptree"
	"github.com/benji-bou/annocfg/helper/collections/set"
)

type ObjectID uint64

// NoObject is the parent of root objects.
const NoObject ObjectID = 0

const (
	ClassMainFile   = "MainFile"
	ClassModel      = "Model"
	ClassDummy      = "Dummy"
	ClassAnimations = "AnimationsNode"
	ClassAnimation  = "Animation"

	propertiesTag = "Config"
)

var (
	ErrUnknownObject = errors.New("unknown object")
	ErrNameTaken     = errors.New("object name already taken")
	ErrCycle         = errors.New("object would become its own ancestor")
	ErrNoRoot        = errors.New("no enclosing object of class")
)

type Object struct {
	ID         ObjectID
	Name       string
	Class      string
	Parent     ObjectID
	Children   []ObjectID
	Properties *proptree.Node
}

// Arena owns every object of a scene. It is not safe for concurrent use.
type Arena struct {
	objects map[ObjectID]*Object
	byName  map[string]ObjectID
	next    ObjectID
	conv    *convert.Registry
}

// NewArena returns an empty arena whose converter registry resolves object
// references against it.
func NewArena(opt ...convert.Option) *Arena {
	a := &Arena{
		objects: map[ObjectID]*Object{},
		byName:  map[string]ObjectID{},
	}
	a.conv = convert.NewRegistry(append(slices.Clone(opt), convert.WithObjects(a))...)
	return a
}

func (a *Arena) Registry() *convert.Registry {
	return a.conv
}

func (a *Arena) Len() int {
	return len(a.objects)
}

// Add creates an object under parent. A nil props gets an empty Config tree.
func (a *Arena) Add(parent ObjectID, class, name string, props *proptree.Node) (*Object, error) {
	if _, taken := a.byName[name]; taken {
		return nil, fmt.Errorf("%w: %s", ErrNameTaken, name)
	}
	var p *Object
	if parent != NoObject {
		var ok bool
		if p, ok = a.objects[parent]; !ok {
			return nil, fmt.Errorf("%w: parent %d", ErrUnknownObject, parent)
		}
	}
	if props == nil {
		props = proptree.New(propertiesTag, a.conv)
	}
	a.next++
	o := &Object{ID: a.next, Name: name, Class: class, Parent: parent, Properties: props}
	a.objects[o.ID] = o
	a.byName[name] = o.ID
	if p != nil {
		p.Children = append(p.Children, o.ID)
	}
	return o, nil
}

func (a *Arena) Get(id ObjectID) (*Object, bool) {
	o, ok := a.objects[id]
	return o, ok
}

func (a *Arena) Lookup(name string) (*Object, bool) {
	id, ok := a.byName[name]
	if !ok {
		return nil, false
	}
	return a.objects[id], true
}

func (a *Arena) get(id ObjectID) (*Object, error) {
	o, ok := a.objects[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownObject, id)
	}
	return o, nil
}

// Resolve implements convert.ObjectRegistry. Handles are ObjectIDs.
func (a *Arena) Resolve(name string) (convert.Handle, error) {
	id, ok := a.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownObject, name)
	}
	return id, nil
}

func (a *Arena) NameOf(h convert.Handle) string {
	id, ok := h.(ObjectID)
	if !ok {
		return ""
	}
	if o, ok := a.objects[id]; ok {
		return o.Name
	}
	return ""
}

func (a *Arena) Rename(id ObjectID, name string) error {
	o, err := a.get(id)
	if err != nil {
		return err
	}
	if other, taken := a.byName[name]; taken && other != id {
		return fmt.Errorf("%w: %s", ErrNameTaken, name)
	}
	delete(a.byName, o.Name)
	o.Name = name
	a.byName[name] = id
	return nil
}

// Reparent moves id under parent, refusing to create a cycle.
func (a *Arena) Reparent(id, parent ObjectID) error {
	o, err := a.get(id)
	if err != nil {
		return err
	}
	if parent != NoObject {
		if _, err := a.get(parent); err != nil {
			return err
		}
		for cur := parent; cur != NoObject; cur = a.objects[cur].Parent {
			if cur == id {
				return fmt.Errorf("%w: %s under %d", ErrCycle, o.Name, parent)
			}
		}
	}
	a.detach(o)
	o.Parent = parent
	if parent != NoObject {
		p := a.objects[parent]
		p.Children = append(p.Children, id)
	}
	return nil
}

func (a *Arena) detach(o *Object) {
	if p, ok := a.objects[o.Parent]; ok {
		if i := slices.Index(p.Children, o.ID); i >= 0 {
			p.Children = slices.Delete(p.Children, i, i+1)
		}
	}
}

// Walk visits root and its descendants breadth first until fn returns false.
func (a *Arena) Walk(root ObjectID, fn func(*Object) bool) error {
	if _, err := a.get(root); err != nil {
		return err
	}
	queue := set.New(root)
	for id := range queue.Next() {
		o := a.objects[id]
		if !fn(o) {
			return nil
		}
		queue.Add(o.Children...)
	}
	return nil
}

// Remove destroys id and all its descendants and returns how many objects
// went away.
func (a *Arena) Remove(id ObjectID) (int, error) {
	o, err := a.get(id)
	if err != nil {
		return 0, err
	}
	var doomed []ObjectID
	_ = a.Walk(id, func(d *Object) bool {
		doomed = append(doomed, d.ID)
		return true
	})
	a.detach(o)
	for _, d := range doomed {
		delete(a.byName, a.objects[d].Name)
		delete(a.objects, d)
	}
	return len(doomed), nil
}

// EnclosingRoot returns the nearest object of class among id and its
// ancestors, typically the MainFile an object was imported from.
func (a *Arena) EnclosingRoot(id ObjectID, class string) (*Object, error) {
	o, err := a.get(id)
	if err != nil {
		return nil, err
	}
	for {
		if o.Class == class {
			return o, nil
		}
		if o.Parent == NoObject {
			return nil, fmt.Errorf("%w %s above %s", ErrNoRoot, class, o.Name)
		}
		o = a.objects[o.Parent]
	}
}

// splitNumber splits a trailing decimal number off s.
func splitNumber(s string) (head string, n int, ok bool) {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	if i == len(s) {
		return s, 0, false
	}
	n, err := strconv.Atoi(s[i:])
	if err != nil {
		return s, 0, false
	}
	return s[:i], n, true
}
