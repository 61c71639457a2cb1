// Package language classifies transcript text into the generation language
// used by downstream narrative calls.
//
// Detection is statistical (lingua) over a closed candidate set; code-to-name
// mapping is consolidated here so prompts, metadata, and the HTTP layer all
// agree on display names. Anything unrecognized degrades to English rather
// than surfacing an error.
package language
