package textprep

import (
	"regexp"
	"strings"

	"github.com/russross/blackfriday/v2"
)

var (
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
	tagPattern  = regexp.MustCompile(`<[^>]*>`)
)

// RemoveLinks keeps the text of markdown links and drops bare URLs.
func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1")
	input = urlPattern.ReplaceAllString(input, "")

	return strings.Join(strings.Fields(input), " ")
}

// ConvertMarkdownToText renders markdown and strips the resulting HTML so
// only the readable words remain.
func ConvertMarkdownToText(input string) string {
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	plainText := tagPattern.ReplaceAllString(string(output), " ")
	plainText = unescape(plainText)

	return RemoveLinks(plainText)
}

var htmlEntities = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
)

func unescape(s string) string {
	return htmlEntities.Replace(s)
}
