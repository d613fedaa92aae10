// Package retrospectiveservice implements the retrospective lifecycle inside
// the collaboration context.
//
// The module owns retrospective creation, metadata updates, and the phase
// state machine (draft, active, voting, discussing, completed). Phase
// transitions are compare-and-set operations in the repository, and every
// successful transition is broadcast to subscribers of that retrospective.
// Business rules live in the application/domain layers; infrastructure stays
// behind ports and adapters.
package retrospectiveservice
