// Package presenceservice tracks live participants inside the collaboration
// context. A participant record is keyed by (retrospective_id, user_id):
// Join creates or revives it, Leave flips it offline without deleting, and
// Heartbeat keeps it fresh. Every Join/Leave recomputes the retrospective's
// denormalized participant count and broadcasts the change. The expiry
// worker in application/workers sweeps rows whose heartbeats stopped.
package presenceservice
