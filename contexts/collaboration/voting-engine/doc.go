// Package votingengine implements dot voting inside the collaboration
// context.
//
// The module owns vote lifecycle (cast/remove) under the retrospective's
// voting rules: the phase gate, the per-item duplicate rule, and the
// per-user budget. A vote and the item's denormalized counter move together;
// a failed counter update rolls the vote back. The read side serves per-item
// tallies with competition ranking and per-user budget summaries.
package votingengine
