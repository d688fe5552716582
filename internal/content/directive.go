package content

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// directivePattern matches an annotation comment such as
// <!-- .slide: id=intro state=dim autoslide=2s -->.
var directivePattern = regexp.MustCompile(`<!--\s*\.(slide|stack|fragment|media)(:?[^>]*?)-->`)

// directive is one parsed annotation.
type directive struct {
	kind  string
	attrs map[string]string
}

func parseDirectives(s string) []directive {
	var out []directive
	for _, m := range directivePattern.FindAllStringSubmatch(s, -1) {
		out = append(out, directive{kind: m[1], attrs: parseAttrs(strings.TrimPrefix(m[2], ":"))})
	}
	return out
}

func stripDirectives(s string) string {
	return directivePattern.ReplaceAllString(s, "")
}

// parseAttrs reads space separated key=value pairs. A bare key is "true".
// Values may be double quoted.
func parseAttrs(s string) map[string]string {
	attrs := make(map[string]string)
	for _, field := range splitQuoted(s) {
		k, v, ok := strings.Cut(field, "=")
		if !ok {
			v = "true"
		}
		attrs[strings.ToLower(k)] = strings.Trim(v, `"`)
	}
	return attrs
}

func splitQuoted(s string) []string {
	var (
		fields []string
		cur    strings.Builder
		quoted bool
	)
	flush := func() {
		if cur.Len() > 0 {
			fields = append(fields, cur.String())
			cur.Reset()
		}
	}
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r == '"':
			quoted = !quoted
			cur.WriteRune(r)
		case (r == ' ' || r == '\t') && !quoted:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return fields
}

// parseDuration accepts Go durations ("2s") and bare milliseconds ("2000").
func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	if ms, err := strconv.Atoi(s); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return d, nil
}

func parseIntAttr(attrs map[string]string, key string) (*int, error) {
	v, ok := attrs[key]
	if !ok {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", key, v)
	}
	return &n, nil
}
