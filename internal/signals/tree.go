// Package signals pulls typed signal bundles out of loosely structured
// inspection records. Every resolved value remembers the path it came from so
// coverage can be derived from where the evidence was recorded.
package signals

import (
	"strconv"
	"strings"
)

// Tree is a read-only view over a decoded JSON or YAML record.
type Tree struct {
	root any
}

// NewTree wraps a decoded record.
func NewTree(root any) Tree {
	return Tree{root: root}
}

// Lookup walks a dot-separated path. Numeric segments index into lists. The
// leaf is unwrapped once if it is a {value, status} wrapper; empty leaves are
// reported as missing.
func (t Tree) Lookup(path string) (any, bool) {
	path = strings.TrimSpace(path)
	if path == "" || t.root == nil {
		return nil, false
	}
	node := t.root
	for _, segment := range strings.Split(path, ".") {
		switch n := node.(type) {
		case map[string]any:
			next, ok := n[segment]
			if !ok {
				return nil, false
			}
			node = next
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(n) {
				return nil, false
			}
			node = n[idx]
		default:
			return nil, false
		}
	}
	leaf, ok := unwrap(node)
	if !ok || isEmpty(leaf) {
		return nil, false
	}
	return leaf, true
}

var missingStatuses = map[string]struct{}{
	"not_tested":     {},
	"not tested":     {},
	"unknown":        {},
	"n/a":            {},
	"na":             {},
	"not_applicable": {},
}

// unwrap strips exactly one {value, status} wrapper. A wrapper whose status
// marks the reading as not taken counts as missing.
func unwrap(node any) (any, bool) {
	m, ok := node.(map[string]any)
	if !ok {
		return node, true
	}
	value, hasValue := m["value"]
	if !hasValue {
		return node, true
	}
	if status, ok := m["status"].(string); ok {
		if _, missing := missingStatuses[strings.ToLower(strings.TrimSpace(status))]; missing {
			return nil, false
		}
	}
	return value, true
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}
