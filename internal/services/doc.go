// Package services defines the shared error taxonomy for the synthesis
// pipeline and hosts the clients for the external generation services
// (text completion, avatar video, short-form video, podcast).
//
// The sentinel errors plus the Wrap helper classify every failure so the
// application layer can decide uniformly between surfacing, falling back,
// and rejecting. Use them when wiring new external integrations so error
// behaviour stays consistent across channels.
package services
