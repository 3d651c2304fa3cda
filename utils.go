package goblin

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// IsValidFileID validates that a file identifier is safe to hand to a
// storage backend. The verifier treats file IDs as opaque; this check
// belongs to the storage-facing layer and rejects IDs that:
//   - are empty, ".", or "/"
//   - are absolute (start with "/") or end with "/"
//   - contain ".." (path traversal) or "//" (empty segments)
//   - contain invalid characters: \ ? # ~
//   - are not valid UTF-8
//   - contain "." segments (/., /./, or ending with /.)
//   - contain null bytes, control characters (< 0x20), DEL (0x7f), or whitespace
//
// Returns true if the ID is valid, false otherwise.
func IsValidFileID(id string) bool {
	if id == "" || id == "/" || id == "." {
		return false
	}

	if id[0] == '/' {
		return false
	}

	if strings.HasSuffix(id, "/") {
		return false
	}

	if strings.Contains(id, "..") {
		return false
	}

	if strings.Contains(id, "//") {
		return false
	}

	if strings.ContainsAny(id, `\?#~`) {
		return false
	}

	if !utf8.ValidString(id) {
		return false
	}

	if strings.HasPrefix(id, "./") || strings.Contains(id, "/./") || strings.HasSuffix(id, "/.") {
		return false
	}

	for _, r := range id {
		if r == 0 || r < 0x20 || r == 0x7f || unicode.IsSpace(r) {
			return false
		}
	}

	return true
}
