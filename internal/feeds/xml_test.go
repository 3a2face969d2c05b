package feeds

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeXML(t *testing.T) {
	assert.Equal(t, "a &amp; b", escapeXML("a & b"))
	assert.Equal(t, "&lt;b&gt;", escapeXML("<b>"))
	assert.Equal(t, "&quot;hi&quot; &apos;there&apos;", escapeXML(`"hi" 'there'`))
	assert.Equal(t, "", escapeXML(""))
}

func TestEscapedTextReparses(t *testing.T) {
	for _, raw := range []string{`Tom & "Jerry" <3`, "a<b>c&d'e", "]]>"} {
		doc := "<x>" + escapeXML(raw) + "</x>"
		var out struct {
			Text string `xml:",chardata"`
		}
		require.NoError(t, xml.Unmarshal([]byte(doc), &out), "doc %q", doc)
		assert.Equal(t, raw, out.Text)
	}
}

func TestCDATANotDoubleEscaped(t *testing.T) {
	got := cdata("Tom & Jerry <3")
	assert.Equal(t, "<![CDATA[Tom & Jerry <3]]>", got)
	assert.NotContains(t, got, "&amp;")
}

func TestCDATAHandlesTerminator(t *testing.T) {
	raw := "evil ]]> payload"
	doc := "<x>" + cdata(raw) + "</x>"
	var out struct {
		Text string `xml:",chardata"`
	}
	require.NoError(t, xml.Unmarshal([]byte(doc), &out))
	assert.Equal(t, raw, out.Text)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abcdef", 3))
	assert.Equal(t, "abc", truncate("abc", 10))
	// never splits a rune
	s := strings.Repeat("é", 10) // 2 bytes each
	cut := truncate(s, 5)
	assert.Equal(t, "éé", cut)
}
