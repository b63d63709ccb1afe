package domain

import "fmt"

// NodePhase is the position of a node in its lifecycle.
type NodePhase string

const (
	// PhaseDormant is the initial phase; the node has never been stimulated.
	PhaseDormant NodePhase = "dormant"
	// PhaseActive means the node carries live continuous state.
	PhaseActive NodePhase = "active"
	// PhaseUnstable means tension stayed above the instability threshold for
	// the configured number of consecutive steps.
	PhaseUnstable NodePhase = "unstable"
	// PhaseCollapsed means the activation has been discretized onto a basis
	// state. Only an external reset leaves this phase.
	PhaseCollapsed NodePhase = "collapsed"
)

// EdgeSpec declares a weighted directed edge in a topology document.
type EdgeSpec struct {
	To     string  `json:"to" yaml:"to" mapstructure:"to"`
	Weight float64 `json:"weight" yaml:"weight" mapstructure:"weight"`
}

// NodeSpec declares a node in a topology document. Gain scales the stimulus
// injected into this node each step; zero-gain nodes only hear neighbors.
type NodeSpec struct {
	ID    string            `json:"id" yaml:"id" mapstructure:"id"`
	Gain  float64           `json:"gain" yaml:"gain" mapstructure:"gain"`
	Edges []EdgeSpec        `json:"edges,omitempty" yaml:"edges,omitempty" mapstructure:"edges"`
	Meta  map[string]string `json:"meta,omitempty" yaml:"meta,omitempty" mapstructure:"meta"`
}

// BasisState is one discrete label a collapsed node can take. The basis set is
// configuration data, never hardcoded.
type BasisState struct {
	Label  string    `json:"label" yaml:"label" mapstructure:"label"`
	Vector []float64 `json:"vector" yaml:"vector" mapstructure:"vector"`
}

// TopologySpec is the full graph definition consumed at engine construction.
type TopologySpec struct {
	Nodes []NodeSpec   `json:"nodes" yaml:"nodes" mapstructure:"nodes"`
	Basis []BasisState `json:"basis,omitempty" yaml:"basis,omitempty" mapstructure:"basis"`
}

// Validate checks structural consistency against the configured dimension.
func (t TopologySpec) Validate(dimension int) error {
	if len(t.Nodes) == 0 {
		return &ConfigError{Field: "topology.nodes", Reason: "at least one node is required"}
	}
	seen := make(map[string]bool, len(t.Nodes))
	for _, n := range t.Nodes {
		if n.ID == "" {
			return &ConfigError{Field: "topology.nodes", Reason: "node with empty id"}
		}
		if seen[n.ID] {
			return &ConfigError{Field: "topology.nodes", Reason: fmt.Sprintf("duplicate node id %q", n.ID)}
		}
		seen[n.ID] = true
	}
	for _, n := range t.Nodes {
		for _, e := range n.Edges {
			if !seen[e.To] {
				return &ConfigError{Field: "topology.edges", Reason: fmt.Sprintf("edge %s -> %s targets an unknown node", n.ID, e.To)}
			}
			if e.To == n.ID {
				return &ConfigError{Field: "topology.edges", Reason: fmt.Sprintf("node %s has a self edge", n.ID)}
			}
		}
	}
	for i, b := range t.Basis {
		if len(b.Vector) != dimension {
			return &ConfigError{Field: "topology.basis", Reason: fmt.Sprintf("basis state %d (%q) has dimension %d, want %d", i, b.Label, len(b.Vector), dimension)}
		}
	}
	return nil
}

// EdgeView is the observable form of an edge, including the correlation
// derived coupling modifier in [0,1].
type EdgeView struct {
	To       string  `json:"to"`
	Weight   float64 `json:"weight"`
	Coupling float64 `json:"coupling"`
}

// NodeView is a read-only snapshot of a node at a step boundary.
type NodeView struct {
	ID         string     `json:"id"`
	Phase      NodePhase  `json:"phase"`
	Activation []float64  `json:"activation"`
	Tension    float64    `json:"tension"`
	Basis      string     `json:"basis,omitempty"` // label of the collapse target, if collapsed
	Edges      []EdgeView `json:"edges,omitempty"`
}
