package dok

import (
	"encoding/json"
	"fmt"
	"time"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// ConnectionKind classifies the relationship between two items in adjacent tiers.
type ConnectionKind string

// Connection kinds.
const (
	KindSupports    ConnectionKind = "supports"
	KindContradicts ConnectionKind = "contradicts"
)

// Valid reports whether k is a known connection kind.
func (k ConnectionKind) Valid() bool {
	return k == KindSupports || k == KindContradicts
}

// =============================================================================
// Item - A Single DOK Entry
// =============================================================================

// Item is a single entry in a DOK section.
// Items are immutable once produced by extraction: Index is the 1-based,
// stable identity of the item within its tier, Content is the display text,
// and Children holds the markdown of any nested sub-entries.
type Item struct {
	Index    int      `json:"index" bson:"index"`
	Content  string   `json:"content" bson:"content"`
	Children []string `json:"children,omitempty" bson:"children,omitempty"`
}

// Section is one DOK section: the raw markdown of the whole subtree plus the
// parsed items (the section node's direct children).
type Section struct {
	Raw   string `json:"raw" bson:"raw"`
	Items []Item `json:"items" bson:"items"`
}

// ItemCount returns the number of items, tolerating a nil section.
func (s *Section) ItemCount() int {
	if s == nil {
		return 0
	}
	return len(s.Items)
}

// SectionItems returns the items of a possibly-nil section.
func SectionItems(s *Section) []Item {
	if s == nil {
		return nil
	}
	return s.Items
}

// =============================================================================
// Sections - Extracted BrainLift Content
// =============================================================================

// Sections holds everything extracted from a BrainLift outline.
// The three DOK sections are nil when the outline does not contain them.
type Sections struct {
	Owners  string `json:"owners,omitempty" bson:"owners,omitempty"`
	Purpose string `json:"purpose,omitempty" bson:"purpose,omitempty"`
	Experts string `json:"experts,omitempty" bson:"experts,omitempty"`

	Knowledge *Section `json:"dok2_knowledge_tree,omitempty" bson:"dok2_knowledge_tree,omitempty"`
	Insights  *Section `json:"dok3_insights,omitempty" bson:"dok3_insights,omitempty"`
	SPOVs     *Section `json:"dok4_spov,omitempty" bson:"dok4_spov,omitempty"`
}

// Empty reports whether no DOK section contains any items.
func (s Sections) Empty() bool {
	return s.Knowledge.ItemCount() == 0 && s.Insights.ItemCount() == 0 && s.SPOVs.ItemCount() == 0
}

// =============================================================================
// Connection - Directed Tier Relationship
// =============================================================================

// Connection is a directed, classified relationship between an item in the
// lower tier of an adjacent pair (SourceIndex) and an item in the higher tier
// (TargetIndex). Score is the classifier's confidence and Reasoning its
// explanation; neither affects layout except when a per-node cap is applied.
type Connection struct {
	SourceIndex int            `json:"source_index" bson:"source_index"`
	TargetIndex int            `json:"target_index" bson:"target_index"`
	Kind        ConnectionKind `json:"type" bson:"type"`
	Score       int            `json:"score,omitempty" bson:"score,omitempty"`
	Reasoning   string         `json:"reasoning,omitempty" bson:"reasoning,omitempty"`
}

// Analysis holds the two disjoint connection collections of a BrainLift:
// knowledge→insights (dok2→dok3) and insights→SPOVs (dok3→dok4).
// Both slices are order-significant.
type Analysis struct {
	KnowledgeToInsights []Connection `json:"dok2_to_dok3" bson:"dok2_to_dok3"`
	InsightsToSPOVs     []Connection `json:"dok3_to_dok4" bson:"dok3_to_dok4"`
}

// Empty reports whether the analysis contains no connections.
func (a Analysis) Empty() bool {
	return len(a.KnowledgeToInsights) == 0 && len(a.InsightsToSPOVs) == 0
}

// =============================================================================
// BrainLift - Persisted Document
// =============================================================================

// BrainLift is a persisted, extracted outline together with its (optional)
// connection analysis.
type BrainLift struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	URL         string    `json:"url" bson:"url"`
	RawMarkdown string    `json:"raw_markdown,omitempty" bson:"raw_markdown,omitempty"`
	Sections    Sections  `json:"sections" bson:"sections"`
	Analysis    *Analysis `json:"connections,omitempty" bson:"connections,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// Summary is the listing view of a stored BrainLift.
type Summary struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// =============================================================================
// Serialization Helpers
// =============================================================================

// MarshalSections serializes sections to pretty-printed JSON.
func MarshalSections(s Sections) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// UnmarshalSections deserializes JSON bytes into Sections.
func UnmarshalSections(data []byte) (Sections, error) {
	var s Sections
	if err := json.Unmarshal(data, &s); err != nil {
		return Sections{}, fmt.Errorf("unmarshal sections: %w", err)
	}
	return s, nil
}

// MarshalAnalysis serializes an analysis to pretty-printed JSON.
func MarshalAnalysis(a Analysis) ([]byte, error) {
	return json.MarshalIndent(a, "", "  ")
}

// UnmarshalAnalysis deserializes JSON bytes into an Analysis.
// Unknown connection kinds are preserved as-is; callers that care should
// check Connection.Kind.Valid().
func UnmarshalAnalysis(data []byte) (Analysis, error) {
	var a Analysis
	if err := json.Unmarshal(data, &a); err != nil {
		return Analysis{}, fmt.Errorf("unmarshal analysis: %w", err)
	}
	return a, nil
}
