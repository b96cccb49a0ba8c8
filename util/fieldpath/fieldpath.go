// Package fieldpath provides generic get/set access into nested
// map[string]any / []any structures using dotted path strings with optional
// bracketed indices, e.g. "comments[0].content".
//
// It is a structural utility: paths are not checked against any schema, and
// only explicit [n] bracket syntax triggers slice semantics. A numeric key in
// a mapping context stays an ordinary string key.
package fieldpath

import (
	"regexp"
	"strconv"
	"strings"
)

var bracketRgx = regexp.MustCompile(`\[(\w+)\]`)

type segment struct {
	key     string
	index   int
	isIndex bool
}

func parse(path string) []segment {
	normalized := bracketRgx.ReplaceAllStringFunc(path, func(m string) string {
		inner := m[1 : len(m)-1]
		if _, err := strconv.Atoi(inner); err == nil {
			return ".#" + inner
		}
		return "." + inner
	})

	parts := strings.Split(normalized, ".")
	segs := make([]segment, 0, len(parts))
	for _, p := range parts {
		if strings.HasPrefix(p, "#") {
			idx, _ := strconv.Atoi(p[1:])
			segs = append(segs, segment{index: idx, isIndex: true})
			continue
		}
		segs = append(segs, segment{key: p})
	}
	return segs
}

// Get resolves path against root, returning nil if any intermediate segment
// is missing or nil.
func Get(root any, path string) any {
	current := root
	for _, seg := range parse(path) {
		if current == nil {
			return nil
		}
		switch c := current.(type) {
		case map[string]any:
			if seg.isIndex {
				// Bracket index against a mapping falls back to the string key.
				current = c[strconv.Itoa(seg.index)]
			} else {
				current = c[seg.key]
			}
		case []any:
			if !seg.isIndex || seg.index < 0 || seg.index >= len(c) {
				return nil
			}
			current = c[seg.index]
		default:
			return nil
		}
	}
	return current
}

// Set walks path against root, auto-vivifying missing intermediate
// containers (a slice when the next segment is a bracketed index, a mapping
// otherwise) and assigns value at the final segment.
// The (possibly grown) root is returned; slices are reallocated as needed,
// so callers should keep the returned value.
func Set(root any, path string, value any) any {
	segs := parse(path)
	if len(segs) == 0 {
		return root
	}
	return assign(root, segs, value)
}

func assign(container any, segs []segment, value any) any {
	seg := segs[0]

	if seg.isIndex {
		slice, ok := container.([]any)
		if !ok {
			slice = []any{}
		}
		for len(slice) <= seg.index {
			slice = append(slice, nil)
		}
		if len(segs) == 1 {
			slice[seg.index] = value
			return slice
		}
		slice[seg.index] = assign(vivify(slice[seg.index], segs[1]), segs[1:], value)
		return slice
	}

	m, ok := container.(map[string]any)
	if !ok {
		m = map[string]any{}
	}
	if len(segs) == 1 {
		m[seg.key] = value
		return m
	}
	m[seg.key] = assign(vivify(m[seg.key], segs[1]), segs[1:], value)
	return m
}

// vivify replaces a missing or mistyped child with the container the next
// segment needs.
func vivify(child any, next segment) any {
	if next.isIndex {
		if s, ok := child.([]any); ok {
			return s
		}
		return []any{}
	}
	if m, ok := child.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}
