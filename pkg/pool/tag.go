package pool

import "strings"

// TagSeparator joins a node's identity key and its pool name inside the
// display name of nodes owned by name-keyed pools.
const TagSeparator = "|RIME|"

// ComposeTag builds the display name "<key>|RIME|<name>"
func ComposeTag(key, name string) string {
	return key + TagSeparator + name
}

// ParseTag returns the pool name carried by a composite tag. Everything after
// the first separator is the name, so names may contain the separator.
func ParseTag(tag string) (string, bool) {
	_, name, found := strings.Cut(tag, TagSeparator)
	if !found {
		return "", false
	}
	return name, true
}
