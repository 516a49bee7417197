package proptree

import "github.com/benji-bou/annocfg/core/convert"

// Bucket is the per-kind collection a leaf lives in. The declaration order is
// the order Remove scans in.
type Bucket int

const (
	Sequences Bucket = iota
	Bools
	Filenames
	Strings
	Ints
	Floats
	Colors
	Objects
	numBuckets
)

var bucketNames = [...]string{"Sequences", "Bools", "Filenames", "Strings", "Ints", "Floats", "Colors", "Objects"}

func (b Bucket) String() string {
	if b < 0 || b >= numBuckets {
		return "Bucket(?)"
	}
	return bucketNames[b]
}

func bucketFor(tag string, kind convert.Kind) Bucket {
	switch kind {
	case convert.Bool:
		return Bools
	case convert.Int:
		return Ints
	case convert.Float:
		return Floats
	case convert.Color3:
		return Colors
	case convert.EnumSequenceID:
		return Sequences
	case convert.ObjectReference:
		return Objects
	}
	if tag == FileNameTag {
		return Filenames
	}
	return Strings
}
