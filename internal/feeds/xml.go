package feeds

import "strings"

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"'", "&apos;",
	`"`, "&quot;",
	">", "&gt;",
	"<", "&lt;",
)

// escapeXML makes free text safe for XML element-text and attribute
// positions. Fields emitted inside CDATA must not also pass through
// here; a field uses exactly one of the two strategies.
func escapeXML(s string) string {
	if s == "" {
		return ""
	}
	return xmlEscaper.Replace(s)
}

// cdata wraps s in a CDATA section without escaping. An embedded "]]>"
// would terminate the section early, so it is split across two sections.
func cdata(s string) string {
	return "<![CDATA[" + strings.ReplaceAll(s, "]]>", "]]]]><![CDATA[>") + "]]>"
}

// truncate caps s at n bytes, mirroring the substring-based caps the
// feeds apply to descriptions. The cut is adjusted backward so a
// multi-byte rune is never split.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && s[n]&0xC0 == 0x80 {
		n--
	}
	return s[:n]
}
