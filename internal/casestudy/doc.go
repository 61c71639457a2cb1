// Package casestudy defines the persistent data model: case studies, their
// provider and client interviews, single-use invite tokens, and the artifact
// jobs fanning each study out to downstream channels.
//
// Persistence is SQLite with WAL journaling. Writes that can race (invite
// consumption, artifact job claims) are expressed as conditional SQL
// transitions so concurrent callers resolve to exactly one winner.
package casestudy
