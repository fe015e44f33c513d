package pongo

import (
	"strings"
	"unicode/utf8"

	"github.com/flosch/pongo2/v6"
)

func registerDefaultFilters() {
	if !pongo2.FilterExists("trim") {
		_ = pongo2.RegisterFilter("trim", filterTrim)
	}
	if !pongo2.FilterExists("lowerfirst") {
		_ = pongo2.RegisterFilter("lowerfirst", filterLowerFirst)
	}
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

// filterLowerFirst lowercases the first non-whitespace rune.
func filterLowerFirst(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	text := in.String()

	idx := strings.IndexFunc(text, func(r rune) bool {
		return !strings.ContainsRune(" \t\n\r", r)
	})
	if idx < 0 {
		return pongo2.AsValue(text), nil
	}
	r, size := utf8.DecodeRuneInString(text[idx:])
	return pongo2.AsValue(text[:idx] + strings.ToLower(string(r)) + text[idx+size:]), nil
}
