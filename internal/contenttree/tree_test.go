package contenttree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestContentDropsSpacesBetweenFragments(t *testing.T) {
	root, err := ParseString("<p>Hello <b>World</b></p>")
	require.NoError(t, err)

	assert.Equal(t, "HelloWorld", root.Content())

	ps := root.Find("p")
	require.Len(t, ps, 1)
	assert.Equal(t, "HelloWorld", ps[0].Content())
}

func TestContentOrderAndWhitespace(t *testing.T) {
	root, err := ParseString(`
<html>
  <body>
    <div>  first  </div>
    <div>
      <span>second</span>
      third
    </div>
    <p>   </p>
  </body>
</html>`)
	require.NoError(t, err)

	assert.Equal(t, "firstsecondthird", root.Content())
}

func TestContentSkipsStylesAndScripts(t *testing.T) {
	root, err := ParseString("<html><head><style>p{color:red}</style>" +
		"<script>var x=1;</script></head>" +
		"<body><noscript>enable js</noscript><p>Hi</p></body></html>")
	require.NoError(t, err)

	assert.Equal(t, "Hi", root.Content())
	assert.Empty(t, root.Find("style"))
	assert.Empty(t, root.Find("script"))
}

func TestContentResolvesEntities(t *testing.T) {
	root, err := ParseString("<p>Fish &amp; Chips &copy;</p>")
	require.NoError(t, err)

	assert.Equal(t, "Fish & Chips ©", root.Content())
}

func TestCommentsAreIgnored(t *testing.T) {
	root, err := ParseString("<p>a<!-- hidden -->b</p>")
	require.NoError(t, err)

	assert.Equal(t, "ab", root.Content())
}

func TestAttributes(t *testing.T) {
	root, err := ParseString(`<a href="https://example.com" title="Example">link</a>`)
	require.NoError(t, err)

	links := root.Find("a")
	require.Len(t, links, 1)
	a := links[0]

	href, ok := a.Attribute("href")
	require.True(t, ok)
	assert.Equal(t, "https://example.com", href)

	_, ok = a.Attribute("rel")
	assert.False(t, ok)

	attrs := a.Attributes()
	assert.Equal(t, map[string]string{
		"href":  "https://example.com",
		"title": "Example",
	}, attrs)

	attrs["href"] = "changed"
	href, _ = a.Attribute("href")
	assert.Equal(t, "https://example.com", href, "Attributes returns a copy")
}

func TestParentLinks(t *testing.T) {
	root, err := ParseString("<div><ul><li>one</li><li>two</li></ul></div>")
	require.NoError(t, err)

	assert.Nil(t, root.Parent())
	assert.Equal(t, "", root.Tag())

	items := root.Find("li")
	require.Len(t, items, 2)
	for _, li := range items {
		ul := li.Parent()
		require.NotNil(t, ul)
		assert.Equal(t, "ul", ul.Tag())
		assert.Contains(t, ul.Children(), li)
	}

	var seen []string
	root.Walk(func(n *Node) bool {
		for _, c := range n.Children() {
			assert.Same(t, n, c.Parent())
		}
		seen = append(seen, n.Tag())
		return true
	})
	assert.Equal(t, []string{"", "html", "head", "body", "div", "ul", "li", "li"}, seen)
}

func TestWalkSkipsSubtree(t *testing.T) {
	root, err := ParseString("<div><p>a</p></div><section><p>b</p></section>")
	require.NoError(t, err)

	var tags []string
	root.Walk(func(n *Node) bool {
		tags = append(tags, n.Tag())
		return n.Tag() != "div"
	})
	assert.NotContains(t, strings.Join(tags, ","), "div,p")
	assert.Len(t, root.Find("p"), 2)
}

func TestNewFromElement(t *testing.T) {
	doc, err := html.Parse(strings.NewReader("<ul><li>x</li></ul>"))
	require.NoError(t, err)

	var ul *html.Node
	var find func(*html.Node)
	find = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "ul" {
			ul = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			find(c)
		}
	}
	find(doc)
	require.NotNil(t, ul)

	node := New(ul)
	assert.Nil(t, node.Parent())
	assert.Equal(t, "ul", node.Tag())
	assert.Equal(t, "x", node.Content())
	require.Len(t, node.Children(), 1)
	assert.Equal(t, "li", node.Children()[0].Tag())
}
