package coursehub

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// allowedTags maps each permitted element to its permitted attributes.
var allowedTags = map[string][]string{
	"a":          {"href", "title", "target", "rel"},
	"b":          nil,
	"blockquote": nil,
	"br":         nil,
	"code":       nil,
	"em":         nil,
	"figcaption": nil,
	"figure":     nil,
	"h1":         {"id"},
	"h2":         {"id"},
	"h3":         {"id"},
	"h4":         {"id"},
	"h5":         {"id"},
	"h6":         {"id"},
	"hr":         nil,
	"i":          nil,
	"img":        {"src", "alt", "title", "width", "height"},
	"li":         nil,
	"ol":         nil,
	"p":          nil,
	"pre":        nil,
	"s":          nil,
	"span":       nil,
	"strong":     nil,
	"sub":        nil,
	"sup":        nil,
	"table":      nil,
	"tbody":      nil,
	"td":         nil,
	"th":         nil,
	"thead":      nil,
	"tr":         nil,
	"u":          nil,
	"ul":         nil,
}

// droppedWithContent are removed together with everything inside them.
var droppedWithContent = map[string]bool{
	"script":   true,
	"style":    true,
	"iframe":   true,
	"object":   true,
	"embed":    true,
	"noscript": true,
	"template": true,
	"svg":      true,
	"math":     true,
}

// SanitizeHTML reduces admin-authored rich text to an allow-listed subset.
// Unknown elements are unwrapped (their text is kept), scripting elements
// are dropped with their content, and link/image URLs must be relative or
// use http, https, mailto or tel.
func SanitizeHTML(src string) string {
	z := html.NewTokenizer(strings.NewReader(src))
	var b strings.Builder
	skip := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			// io.EOF or a malformed tail; either way the output so far is safe.
			return b.String()
		}
		tok := z.Token()
		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			if droppedWithContent[tok.Data] {
				if tt == html.StartTagToken {
					skip++
				}
				continue
			}
			if skip > 0 {
				continue
			}
			attrs, ok := allowedTags[tok.Data]
			if !ok {
				continue
			}
			tok.Attr = filterAttrs(tok.Data, tok.Attr, attrs)
			b.WriteString(tok.String())
		case html.EndTagToken:
			if droppedWithContent[tok.Data] {
				if skip > 0 {
					skip--
				}
				continue
			}
			if skip > 0 {
				continue
			}
			if _, ok := allowedTags[tok.Data]; ok {
				b.WriteString(tok.String())
			}
		case html.TextToken:
			if skip == 0 {
				b.WriteString(tok.String())
			}
		}
	}
}

func filterAttrs(tag string, in []html.Attribute, allowed []string) []html.Attribute {
	var out []html.Attribute
	for _, a := range in {
		if a.Namespace != "" || !contains(allowed, a.Key) {
			continue
		}
		if a.Key == "href" || a.Key == "src" {
			u, ok := SafeURL(a.Val)
			if !ok {
				continue
			}
			a.Val = u
		}
		out = append(out, a)
	}
	if tag == "a" {
		for _, a := range out {
			if a.Key == "target" && a.Val == "_blank" {
				out = setAttr(out, "rel", "noopener noreferrer")
				break
			}
		}
	}
	return out
}

func setAttr(attrs []html.Attribute, key, val string) []html.Attribute {
	for i := range attrs {
		if attrs[i].Key == key {
			attrs[i].Val = val
			return attrs
		}
	}
	return append(attrs, html.Attribute{Key: key, Val: val})
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// SafeURL returns raw trimmed when it is relative or uses an allowed scheme.
func SafeURL(raw string) (string, bool) {
	val := strings.TrimSpace(raw)
	if val == "" {
		return "", false
	}
	if strings.HasPrefix(val, "//") {
		return "", false
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return val, true
	}
	parsed, err := url.Parse(val)
	if err != nil {
		return "", false
	}
	if parsed.Scheme == "" {
		return val, true
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return val, true
	default:
		return "", false
	}
}
