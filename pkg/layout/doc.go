// Package layout computes node positions and renderable edges for the
// three-tier BrainLift connection diagram.
//
// The engine places each tier in its own fixed column (SPOVs left, insights
// center, knowledge right) and uses the insight column as the anchoring axis:
// every insight reserves a vertical zone sized to the larger of its SPOV and
// knowledge neighbor sets, its neighbors are distributed evenly across that
// zone, and items no zone claimed are appended below the zones as dimmed
// orphans. Because zones are pre-sized there is no collision resolution step,
// and because every input is processed in its given order the output is fully
// deterministic.
//
// Build is a pure function over in-memory slices: it performs no I/O, owns no
// state across invocations, and is safe to call concurrently with itself.
// Rendering of the result (pan, zoom, selection, node expansion) is the
// consuming diagram surface's concern; nodes carry their display content and
// children so the surface needs no other data source.
package layout
