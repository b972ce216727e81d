package layout

// Default geometry, in user units (pixels on a typical surface).
// Any positive values work; the algorithm is scale-invariant.
const (
	DefaultNodeWidth  = 260.0
	DefaultNodeHeight = 100.0
	DefaultNodeGap    = 20.0
	DefaultColumnGap  = 140.0
	DefaultOrphanSlot = 130.0
)

// Config holds the geometry and filtering knobs of the layout engine.
// The zero value is usable: Build substitutes the documented defaults for
// any non-positive geometry field.
type Config struct {
	// NodeWidth and NodeHeight are the assumed collapsed dimensions of a
	// rendered node. Expansion on the surface does not feed back into layout.
	NodeWidth  float64
	NodeHeight float64

	// NodeGap is the vertical spacing unit between nodes inside a zone.
	NodeGap float64

	// ColumnGap is the horizontal spacing between tier columns.
	ColumnGap float64

	// OrphanSlot is the fixed vertical slot given to each orphaned item
	// below the zone region.
	OrphanSlot float64

	// MaxNeighbors caps the number of connections kept per anchoring
	// insight in each collection before grouping, retaining the
	// highest-scoring ones (ties broken by input order). Zero disables
	// the cap.
	MaxNeighbors int
}

// DefaultConfig returns the default layout geometry with no neighbor cap.
func DefaultConfig() Config {
	return Config{
		NodeWidth:  DefaultNodeWidth,
		NodeHeight: DefaultNodeHeight,
		NodeGap:    DefaultNodeGap,
		ColumnGap:  DefaultColumnGap,
		OrphanSlot: DefaultOrphanSlot,
	}
}

// normalize fills non-positive geometry fields with defaults.
func (c Config) normalize() Config {
	d := DefaultConfig()
	if c.NodeWidth <= 0 {
		c.NodeWidth = d.NodeWidth
	}
	if c.NodeHeight <= 0 {
		c.NodeHeight = d.NodeHeight
	}
	if c.NodeGap <= 0 {
		c.NodeGap = d.NodeGap
	}
	if c.ColumnGap <= 0 {
		c.ColumnGap = d.ColumnGap
	}
	if c.OrphanSlot <= 0 {
		c.OrphanSlot = d.OrphanSlot
	}
	if c.MaxNeighbors < 0 {
		c.MaxNeighbors = 0
	}
	return c
}

// unit is the vertical footprint of one node inside a zone.
func (c Config) unit() float64 { return c.NodeHeight + c.NodeGap }

// columnX returns the x coordinate of a column's left edge.
func (c Config) columnX(col int) float64 {
	return float64(col) * (c.NodeWidth + c.ColumnGap)
}

// frameWidth is the horizontal extent of the three columns.
func (c Config) frameWidth() float64 {
	return c.columnX(TierKnowledge.Column()) + c.NodeWidth
}
