// Package boardservice implements the retrospective board inside the
// collaboration context.
//
// The module owns the cards participants add to board columns and the
// follow-up action items carved out of them. Card mutations keep the owning
// retrospective's denormalized counters in step and are broadcast to that
// retrospective's subscribers.
package boardservice
