// Package history maps navigation positions to short location tokens and
// persists them.
//
// Token format: "/<id>" when the present panel has a non-numeric id, otherwise
// "/<h>[/<v>][/<f>]" with trailing zero segments dropped. "/" is the home
// panel.
package history

import (
	"net/url"
	"strconv"
	"strings"
)

// Location is the position a token encodes.
type Location struct {
	H, V int
	// F is the fragment cursor, nil when the panel has no revealed fragment
	// state worth recording.
	F *int
	// ID is the present panel's id, if any.
	ID string
}

// Codec encodes and decodes tokens.
type Codec struct {
	// OneBased shifts h and v by one in the token.
	OneBased bool
	// FragmentInURL records the fragment cursor and forces numeric tokens
	// whenever a cursor is defined.
	FragmentInURL bool
}

func (c Codec) base() int {
	if c.OneBased {
		return 1
	}
	return 0
}

// Encode renders loc as a token.
func (c Codec) Encode(loc Location) string {
	var f *int
	if c.FragmentInURL {
		f = loc.F
	}
	// An all-digit id would decode as an index.
	if loc.ID != "" && f == nil && !isDigits(loc.ID) {
		return "/" + url.PathEscape(loc.ID)
	}

	var b strings.Builder
	b.WriteString("/")
	if loc.H > 0 || loc.V > 0 || f != nil {
		b.WriteString(strconv.Itoa(loc.H + c.base()))
	}
	if loc.V > 0 || f != nil {
		b.WriteString("/")
		b.WriteString(strconv.Itoa(loc.V + c.base()))
	}
	if f != nil {
		b.WriteString("/")
		b.WriteString(strconv.Itoa(*f))
	}
	return b.String()
}

// Decoded is a parsed token. When ID is set the numeric fields are unused.
type Decoded struct {
	ID   string
	H, V int
	F    *int
}

// Decode parses a token. Unparseable numbers become 0 and negative indices
// clamp to 0, so a malformed token lands on the home panel.
func (c Codec) Decode(token string) Decoded {
	token = strings.TrimPrefix(token, "#")
	bits := strings.Split(strings.TrimPrefix(token, "/"), "/")
	name := strings.ReplaceAll(token, "/", "")

	if !isDigits(bits[0]) && name != "" {
		id, err := url.PathUnescape(name)
		if err != nil {
			id = name
		}
		return Decoded{ID: id}
	}

	var d Decoded
	d.H = c.index(bits, 0)
	d.V = c.index(bits, 1)
	if c.FragmentInURL && len(bits) > 2 {
		if f, err := strconv.Atoi(bits[2]); err == nil {
			d.F = &f
		}
	}
	return d
}

func (c Codec) index(bits []string, i int) int {
	if i >= len(bits) {
		return 0
	}
	n, err := strconv.Atoi(bits[i])
	if err != nil {
		return 0
	}
	return max(n-c.base(), 0)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
