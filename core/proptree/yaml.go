package proptree

import (
	"gopkg.in/yaml.v3"
)

// MarshalYAML renders the tree as {Tag: [ {leaf: text}, {child: [...]}, ... ]}.
// A sequence of single-key maps keeps duplicate tags and ordering intact.
func (n *Node) MarshalYAML() (any, error) {
	body, err := n.yamlBody()
	if err != nil {
		return nil, err
	}
	return mapping(n.Tag, body), nil
}

func (n *Node) yamlBody() (*yaml.Node, error) {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	if n.ConfigType != "" {
		seq.Content = append(seq.Content, mapping(ConfigTypeTag, scalar(n.ConfigType)))
	}
	for _, e := range n.entries() {
		if e.leaf != nil {
			text, err := n.conv.Encode(e.leaf.Value)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, mapping(e.leaf.Tag, scalar(text)))
			continue
		}
		body, err := e.child.yamlBody()
		if err != nil {
			return nil, err
		}
		seq.Content = append(seq.Content, mapping(e.child.Tag, body))
	}
	return seq, nil
}

func mapping(key string, value *yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{scalar(key), value}}
}

func scalar(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}
