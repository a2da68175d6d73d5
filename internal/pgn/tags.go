// Package pgn extracts metadata from Portable Game Notation text.
package pgn

import "regexp"

// tagPairPattern matches the opening of a PGN tag pair at the start of a
// line and captures the tag name: `[Event "Live Chess"]` yields "Event".
var tagPairPattern = regexp.MustCompile(`(?m)^\[([A-Za-z0-9_-]+)\s+"`)

// ExtractTags returns the set of tag names appearing in text. Only names
// are collected, never values. Empty text yields an empty set.
func ExtractTags(text string) map[string]struct{} {
	tags := make(map[string]struct{})
	if text == "" {
		return tags
	}
	for _, match := range tagPairPattern.FindAllStringSubmatch(text, -1) {
		tags[match[1]] = struct{}{}
	}
	return tags
}
