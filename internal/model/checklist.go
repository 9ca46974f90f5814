package model

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Checklist is a cooperatively edited sequence of steps. Step order is the
// authoring order, not an execution order; execution order is derived from
// the dependency graph.
type Checklist struct {
	Requester   string `json:"requester" yaml:"requester"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Steps       Steps  `json:"steps" yaml:"steps"`
	Complete    bool   `json:"complete,omitempty" yaml:"complete,omitempty"`
}

// Step returns the step with the given ID, or nil if no such step exists.
func (c *Checklist) Step(id string) Step {
	for _, s := range c.Steps {
		if s.Head().ID == id {
			return s
		}
	}
	return nil
}

// Steps is an ordered list of heterogeneous steps. It carries the custom
// (de)serialization that discriminates the union by the "type" tag.
type Steps []Step

// MarshalJSON encodes each step as its concrete shape with the
// discriminator tag normalized from the in-memory kind.
func (s Steps) MarshalJSON() ([]byte, error) {
	out := make([]json.RawMessage, 0, len(s))
	for _, st := range s {
		st.Head().Type = st.Kind()
		b, err := json.Marshal(st)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a step list by peeking each element's "type" tag
// and decoding into the matching variant.
func (s *Steps) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	steps := make(Steps, 0, len(raws))
	for i, raw := range raws {
		var head struct {
			Type Kind `json:"type"`
		}
		if err := json.Unmarshal(raw, &head); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		step, err := newStep(head.Type)
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		if err := json.Unmarshal(raw, step); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		steps = append(steps, step)
	}
	*s = steps
	return nil
}

// MarshalYAML mirrors MarshalJSON for YAML checklist documents.
func (s Steps) MarshalYAML() (any, error) {
	out := make([]any, 0, len(s))
	for _, st := range s {
		st.Head().Type = st.Kind()
		out = append(out, st)
	}
	return out, nil
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML checklist documents.
func (s *Steps) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode {
		return fmt.Errorf("steps: expected a sequence, got %s", value.Tag)
	}
	steps := make(Steps, 0, len(value.Content))
	for i, n := range value.Content {
		var head struct {
			Type Kind `yaml:"type"`
		}
		if err := n.Decode(&head); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		step, err := newStep(head.Type)
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		if err := n.Decode(step); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		steps = append(steps, step)
	}
	*s = steps
	return nil
}
