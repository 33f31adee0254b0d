package models

import (
	"fmt"
	"strconv"
	"strings"
)

// LocatorScheme is the addressing scheme of a Locator
type LocatorScheme string

const (
	SchemeCSS   LocatorScheme = "css"
	SchemeXPath LocatorScheme = "xpath"
	SchemeText  LocatorScheme = "text"
)

// Locator describes one way of finding one UI element. Text locators match an
// element of Tag whose own text contains Expr.
type Locator struct {
	Scheme LocatorScheme
	Expr   string
	Tag    string
}

// CSS returns a CSS selector locator
func CSS(selector string) Locator {
	return Locator{Scheme: SchemeCSS, Expr: selector}
}

// XPath returns an XPath locator
func XPath(expr string) Locator {
	return Locator{Scheme: SchemeXPath, Expr: expr}
}

// Text returns a locator matching a tag whose text contains text. An empty tag matches any element.
func Text(tag, text string) Locator {
	return Locator{Scheme: SchemeText, Expr: text, Tag: tag}
}

// Selector returns the expression handed to the browser: the CSS selector for
// CSS locators, an XPath expression otherwise.
func (l Locator) Selector() string {
	switch l.Scheme {
	case SchemeText:
		tag := l.Tag
		if tag == "" {
			tag = "*"
		}
		return fmt.Sprintf("//%s[contains(text(), %s)]", tag, xpathLiteral(l.Expr))
	default:
		return l.Expr
	}
}

// IsCSS reports whether the selector is a CSS selector
func (l Locator) IsCSS() bool {
	return l.Scheme == SchemeCSS
}

// JSElement returns a JavaScript expression evaluating to the first matching element or null
func (l Locator) JSElement() string {
	if l.IsCSS() {
		return fmt.Sprintf("document.querySelector(%s)", strconv.Quote(l.Selector()))
	}
	return fmt.Sprintf("document.evaluate(%s, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue",
		strconv.Quote(l.Selector()))
}

func (l Locator) String() string {
	return fmt.Sprintf("%s(%s)", l.Scheme, l.Selector())
}

// xpathLiteral quotes s for XPath 1.0, which has no escape sequences
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	quoted := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `"'"`)
		}
		if p != "" {
			quoted = append(quoted, "'"+p+"'")
		}
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}
