package store

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// ResourceURI renders a local path as the editor's canonical file URI:
// unreserved characters and '/' stay literal, everything else is
// percent-encoded with uppercase hex, and Windows drive letters are
// lowercased with the colon encoded.
func ResourceURI(path string) string {
	p := filepath.ToSlash(path)

	authority := ""
	if strings.HasPrefix(p, "//") {
		rest := p[2:]
		idx := strings.IndexByte(rest, '/')
		if idx < 0 {
			authority, p = rest, "/"
		} else {
			authority, p = rest[:idx], rest[idx:]
		}
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) >= 3 && p[2] == ':' && isASCIILetter(p[1]) {
		p = "/" + strings.ToLower(p[1:2]) + p[2:]
	}

	return "file://" + encode(strings.ToLower(authority), false) + encode(p, true)
}

// ResourcePath resolves a file URI back to a local path.
func ResourcePath(resource string) (string, error) {
	u, err := url.Parse(resource)
	if err != nil {
		return "", fmt.Errorf("parse resource %q: %w", resource, err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("resource %q: unsupported scheme %q", resource, u.Scheme)
	}

	p := u.Path
	switch {
	case u.Host != "" && len(p) > 1:
		p = "//" + u.Host + p
	case len(p) >= 3 && p[0] == '/' && p[2] == ':' && isASCIILetter(p[1]):
		p = strings.ToLower(p[1:2]) + p[2:]
	}
	return filepath.FromSlash(p), nil
}

func encode(s string, isPath bool) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) || (isPath && c == '/') {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	return isASCIILetter(c) || ('0' <= c && c <= '9') || c == '-' || c == '.' || c == '_' || c == '~'
}

func isASCIILetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
