package convert

import "fmt"

// Kind is the semantic type of a leaf value. The set is closed.
type Kind int

const (
	String Kind = iota
	Bool
	Int
	Float
	Color3
	EnumSequenceID
	ObjectReference
)

var kindNames = [...]string{
	String:          "String",
	Bool:            "Bool",
	Int:             "Int",
	Float:           "Float",
	Color3:          "Color3",
	EnumSequenceID:  "EnumSequenceID",
	ObjectReference: "ObjectReference",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}
