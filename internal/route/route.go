// Package route derives the selected item identifier from a URL fragment.
package route

import "strings"

const idKey = "fileId="

// ParseFragment extracts the item identifier from a URL fragment of the
// form "#fileId=<value>". The value runs until the next '&' or the end of
// the string; no other fragment keys are recognized. A missing or
// malformed fragment yields "".
func ParseFragment(fragment string) string {
	fragment = strings.TrimPrefix(fragment, "#")

	idx := strings.Index(fragment, idKey)
	if idx < 0 {
		return ""
	}

	value := fragment[idx+len(idKey):]
	if amp := strings.IndexByte(value, '&'); amp >= 0 {
		value = value[:amp]
	}
	return value
}
