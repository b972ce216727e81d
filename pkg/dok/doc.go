// Package dok defines the domain model for BrainLift knowledge documents.
//
// A BrainLift organizes knowledge into three DOK (Depth of Knowledge) tiers:
//
//   - DOK2 Knowledge Tree: source material and collected facts (lower tier)
//   - DOK3 Insights: synthesized observations (middle tier)
//   - DOK4 SPOVs: spiky points of view, i.e. defensible claims (upper tier)
//
// Items within a tier are ordered and identified by a 1-based index that is
// stable within the tier. Connections are directed from the lower tier of an
// adjacent pair to the higher one and classified as supporting or
// contradicting. The two connection collections (knowledge→insights and
// insights→SPOVs) are disjoint.
//
// All serialized types carry both JSON tags (API responses, file export) and
// BSON tags (MongoDB persistence).
package dok
