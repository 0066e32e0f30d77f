package extractor

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// builtinTags are lower-level markup tag names that never produce renders
// edges. Membership is checked case-insensitively so that a capitalized
// custom element such as Svg is still excluded when it collides with a
// known built-in name.
var builtinTags = map[string]struct{}{}

func init() {
	for _, tag := range []string{
		"a", "abbr", "address", "area", "article", "aside", "audio",
		"b", "base", "blockquote", "body", "br", "button",
		"canvas", "caption", "circle", "code", "col", "colgroup",
		"dd", "defs", "details", "dialog", "div", "dl", "dt",
		"ellipse", "em", "embed",
		"fieldset", "figcaption", "figure", "footer", "form",
		"g", "h1", "h2", "h3", "h4", "h5", "h6", "head", "header", "hr", "html",
		"i", "iframe", "img", "input", "ins",
		"kbd", "label", "legend", "li", "line", "link",
		"main", "map", "mark", "menu", "meta", "meter",
		"nav", "noscript", "object", "ol", "optgroup", "option", "output",
		"p", "param", "path", "picture", "polygon", "polyline", "pre", "progress",
		"q", "rect", "s", "samp", "script", "section", "select", "slot",
		"small", "source", "span", "strong", "style", "sub", "summary", "sup",
		"svg", "table", "tbody", "td", "template", "text", "textarea",
		"tfoot", "th", "thead", "time", "title", "tr", "track",
		"u", "ul", "use", "var", "video", "wbr",
	} {
		builtinTags[tag] = struct{}{}
	}
}

// isComponentTag reports whether a markup tag name should produce a renders
// edge: the name must start upper-case and must not match the built-in tag
// list. The first-character check is case-sensitive while the list lookup is
// not; the asymmetry is intentional.
func isComponentTag(name string) bool {
	if name == "" {
		return false
	}
	first, _ := utf8.DecodeRuneInString(name)
	if !unicode.IsUpper(first) {
		return false
	}
	_, builtin := builtinTags[strings.ToLower(name)]
	return !builtin
}
