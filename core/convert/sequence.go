package convert

import (
	_ "embed"
	"fmt"
	"io"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	NoSequence        = "none"
	UnknownSequenceID = -1
)

// SequenceTable is the static, externally owned mapping between feedback
// sequence ids and their symbolic names.
type SequenceTable interface {
	Name(id int) (string, bool)
	ID(name string) (int, bool)
}

type Sequences struct {
	byID   map[int]string
	byName map[string]int
}

func NewSequences(byName map[string]int) *Sequences {
	s := &Sequences{byID: make(map[int]string, len(byName)), byName: make(map[string]int, len(byName))}
	for name, id := range byName {
		s.byName[name] = id
		s.byID[id] = name
	}
	return s
}

// LoadSequences reads a YAML mapping of sequence name to id.
func LoadSequences(r io.Reader) (*Sequences, error) {
	byName := map[string]int{}
	if err := yaml.NewDecoder(r).Decode(&byName); err != nil {
		return nil, fmt.Errorf("decode sequence table: %w", err)
	}
	return NewSequences(byName), nil
}

func (s *Sequences) Name(id int) (string, bool) {
	name, ok := s.byID[id]
	return name, ok
}

func (s *Sequences) ID(name string) (int, bool) {
	id, ok := s.byName[name]
	return id, ok
}

func (s *Sequences) Len() int {
	return len(s.byName)
}

//go:embed sequences.yaml
var defaultSequencesYAML []byte

// DefaultSequences returns the embedded table. The result is shared and must not
// be mutated.
var DefaultSequences = sync.OnceValue(func() *Sequences {
	byName := map[string]int{}
	if err := yaml.Unmarshal(defaultSequencesYAML, &byName); err != nil {
		panic(fmt.Sprintf("embedded sequence table: %v", err))
	}
	return NewSequences(byName)
})
