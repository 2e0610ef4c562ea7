package normalize

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Hosts that block hotlinked profile images. A URL pointing there would
// render as a broken tile, so it is suppressed and the UI shows its
// placeholder instead.
var blockedImageHosts = []string{"licdn.com"}

var base64Pattern = regexp.MustCompile(`^[A-Za-z0-9+/]+={0,2}$`)

// SafeString stringifies any JSON value without ever failing: nil becomes
// "", numbers keep their decimal form, everything structured is serialized
// best-effort.
func SafeString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		if blob, err := json.Marshal(v); err == nil {
			return string(blob)
		}
		return fmt.Sprintf("%v", v)
	}
}

// BuildImageSrc classifies a raw logo value into a displayable image
// source. The backend variously sends data URIs, absolute URLs and bare
// base64 blobs; URLs on hotlink-blocking hosts and anything unrecognized
// resolve to "".
func BuildImageSrc(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "data:") {
		return s
	}

	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		u, err := url.Parse(s)
		if err != nil {
			return ""
		}
		host := strings.ToLower(u.Hostname())
		for _, blocked := range blockedImageHosts {
			if host == blocked || strings.HasSuffix(host, "."+blocked) {
				return ""
			}
		}
		return s
	}

	if len(s) >= 8 && base64Pattern.MatchString(s) {
		return "data:image/jpeg;base64," + s
	}
	return ""
}

// CleanBracedList unpacks the serialized-set artifact the upstream store
// produces for multi-valued text fields: `{"Fund A","Fund B"}` becomes
// "Fund A, Fund B". Anything not brace-wrapped passes through unchanged.
func CleanBracedList(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "{") || !strings.HasSuffix(s, "}") {
		return raw
	}

	parts := strings.Split(s[1:len(s)-1], ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.Trim(strings.TrimSpace(part), `"'`)
		if part != "" {
			out = append(out, part)
		}
	}
	return strings.Join(out, ", ")
}

// FlattenHTML strips markup out of free-text fields. Company descriptions
// occasionally arrive as HTML fragments; tables and cards want plain text.
func FlattenHTML(raw string) string {
	if !strings.Contains(raw, "<") {
		return strings.TrimSpace(raw)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return strings.TrimSpace(raw)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
