package config

import (
	"fmt"
	"math/rand"

	"gopkg.in/yaml.v3"
)

// Range is an inclusive integer interval [Min, Max], written in YAML as [min, max].
type Range struct {
	Min int
	Max int
}

// UnmarshalYAML accepts either a two-element sequence or a {min, max} mapping.
func (r *Range) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var pair []int
		if err := node.Decode(&pair); err != nil {
			return err
		}
		if len(pair) != 2 {
			return fmt.Errorf("line %d: range needs exactly 2 values, got %d", node.Line, len(pair))
		}
		r.Min, r.Max = pair[0], pair[1]
		return nil
	case yaml.MappingNode:
		var m struct {
			Min int `yaml:"min"`
			Max int `yaml:"max"`
		}
		if err := node.Decode(&m); err != nil {
			return err
		}
		r.Min, r.Max = m.Min, m.Max
		return nil
	default:
		return fmt.Errorf("line %d: range must be a [min, max] sequence", node.Line)
	}
}

// MarshalYAML writes the range back as a flow sequence.
func (r Range) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range []int{r.Min, r.Max} {
		node.Content = append(node.Content, &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!int",
			Value: fmt.Sprint(v),
		})
	}
	return node, nil
}

// Scale divides both bounds by factor (integer division).
func (r Range) Scale(factor int) Range {
	if factor <= 1 {
		return r
	}
	return Range{Min: r.Min / factor, Max: r.Max / factor}
}

// Draw returns a uniform integer in [Min, Max].
func (r Range) Draw(rng *rand.Rand) int {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Intn(r.Max-r.Min+1)
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d]", r.Min, r.Max)
}
