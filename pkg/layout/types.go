package layout

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/brainlift/pkg/dok"
)

// =============================================================================
// Tiers and Columns
// =============================================================================

// Tier identifies one of the three hierarchical levels of the diagram.
// The tier tag doubles as the node id prefix, so tier plus item index is a
// globally unique node identity.
type Tier string

// Diagram tiers, left column to right column.
const (
	TierSPOV      Tier = "spov"      // DOK4, upper tier
	TierInsight   Tier = "insight"   // DOK3, middle tier (anchoring axis)
	TierKnowledge Tier = "knowledge" // DOK2, lower tier
)

// Column returns the fixed column index for the tier: SPOVs 0, insights 1,
// knowledge 2. Unknown tiers map to column 0.
func (t Tier) Column() int {
	switch t {
	case TierInsight:
		return 1
	case TierKnowledge:
		return 2
	default:
		return 0
	}
}

// NodeID builds the canonical node id for an item index within a tier.
func NodeID(t Tier, index int) string {
	return fmt.Sprintf("%s-%d", t, index)
}

// =============================================================================
// Node - Positioned Diagram Element
// =============================================================================

// Node is a positioned item ready for a diagramming surface.
// X and Y are the top-left corner of the node's box; the box dimensions are
// the Config's NodeWidth and NodeHeight. Content and Children are passed
// through from the source item so the surface can render expandable detail.
// Nodes are produced fresh on every Build call and never mutated afterward.
type Node struct {
	ID     string  `json:"id" bson:"id"`
	Tier   Tier    `json:"tier" bson:"tier"`
	Column int     `json:"column" bson:"column"`
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`

	// Dimmed marks items with no connection in either direction so the
	// surface can de-emphasize them.
	Dimmed bool `json:"dimmed,omitempty" bson:"dimmed,omitempty"`

	Content  string   `json:"content" bson:"content"`
	Children []string `json:"children,omitempty" bson:"children,omitempty"`
}

// Edge is a renderable connection between two positioned nodes.
// Kind is the preserved supports/contradicts classification; the concrete
// visual treatment (color, animation) is the surface's choice, but which of
// the two treatments applies is decided here.
type Edge struct {
	ID     string             `json:"id" bson:"id"`
	Source string             `json:"source" bson:"source"`
	Target string             `json:"target" bson:"target"`
	Kind   dok.ConnectionKind `json:"kind" bson:"kind"`
}

// Layout is the complete output of a Build call: every item of every tier
// positioned exactly once, every connection with two positioned endpoints as
// an edge, and the occupied frame size for the surface's initial viewport.
type Layout struct {
	Nodes  []Node  `json:"nodes" bson:"nodes"`
	Edges  []Edge  `json:"edges" bson:"edges"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// =============================================================================
// Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
