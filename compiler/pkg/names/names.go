// Package names holds naming-convention helpers shared by the collector
// and the backends. All generated identifiers flow through here so that
// every target sees the same casing decisions.
package names

import (
	"strings"
	"unicode"
)

// KnownAcronyms are common abbreviations that should stay uppercase in
// exported Go identifiers.
var KnownAcronyms = map[string]string{
	"id": "ID", "api": "API", "url": "URL", "uri": "URI",
	"http": "HTTP", "https": "HTTPS", "json": "JSON", "xml": "XML",
	"uuid": "UUID", "sql": "SQL", "db": "DB", "rpc": "RPC",
	"ip": "IP", "ui": "UI", "io": "IO", "html": "HTML", "css": "CSS",
	"jwt": "JWT", "ttl": "TTL", "dto": "DTO",
}

// KnownCompounds are compound words that would otherwise split wrong.
var KnownCompounds = map[string]string{
	"apikey":  "APIKey",
	"userid":  "UserID",
	"taskid":  "TaskID",
	"itemid":  "ItemID",
	"groupid": "GroupID",
}

// ExportName converts a contract field or group name into an exported
// PascalCase identifier with acronym normalization.
func ExportName(name string) string {
	if name == "" {
		return ""
	}

	lower := strings.ToLower(name)
	if compound, ok := KnownCompounds[lower]; ok {
		return compound
	}

	var words []string
	var current strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if r == '_' || r == '.' || r == '-' || r == ' ' {
			if current.Len() > 0 {
				words = append(words, current.String())
				current.Reset()
			}
			continue
		}
		if i > 0 && unicode.IsUpper(r) && unicode.IsLower(runes[i-1]) && current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
		current.WriteRune(r)
	}
	if current.Len() > 0 {
		words = append(words, current.String())
	}

	for i, w := range words {
		lw := strings.ToLower(w)
		if acr, ok := KnownAcronyms[lw]; ok {
			words[i] = acr
			continue
		}
		r := []rune(lw)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, "")
}

// CamelName converts a name to lowerCamelCase (JSON/TS field casing).
func CamelName(name string) string {
	pascal := ExportName(name)
	if pascal == "" {
		return ""
	}
	runes := []rune(pascal)
	i := 0
	for i < len(runes) && unicode.IsUpper(runes[i]) {
		i++
	}
	switch {
	case i > 1 && i < len(runes):
		// Leading acronym followed by another word: "URLPath" -> "urlPath".
		for j := 0; j < i-1; j++ {
			runes[j] = unicode.ToLower(runes[j])
		}
	default:
		for j := 0; j < i; j++ {
			runes[j] = unicode.ToLower(runes[j])
		}
	}
	return string(runes)
}

// ToTitle uppercases only the first rune.
func ToTitle(s string) string {
	if s == "" {
		return ""
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// SnakeName converts a name to snake_case (generated file names).
func SnakeName(s string) string {
	pascal := ExportName(s)
	runes := []rune(pascal)
	var res strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			if unicode.IsLower(prev) {
				res.WriteRune('_')
			} else if i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
				res.WriteRune('_')
			}
		}
		res.WriteRune(unicode.ToLower(r))
	}
	return res.String()
}
