package vdom

import "strings"

// attr creates an Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Identity attributes

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// StyleAttr sets the style attribute.
func StyleAttr(style string) Attr { return attr("style", style) }

// Key sets the reconciliation key. It is never rendered.
func Key(key string) Attr { return attr("key", key) }

// Data creates a data-* attribute.
// Example: Data("role", "counter") → data-role="counter"
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Form attributes

// Type sets the type attribute.
func Type(t string) Attr { return attr("type", t) }

// Disabled sets the boolean disabled attribute.
func Disabled(disabled bool) Attr { return attr("disabled", disabled) }

// Href sets the href attribute.
func Href(href string) Attr { return attr("href", href) }

// Lang sets the lang attribute.
func Lang(lang string) Attr { return attr("lang", lang) }

// Accessibility attributes

// Role sets the role attribute.
func Role(role string) Attr { return attr("role", role) }

// AriaLabel sets the aria-label attribute.
func AriaLabel(label string) Attr { return attr("aria-label", label) }

// AriaLive sets the aria-live attribute.
func AriaLive(mode string) Attr { return attr("aria-live", mode) }

// AriaPressed sets the aria-pressed attribute.
func AriaPressed(pressed bool) Attr {
	if pressed {
		return attr("aria-pressed", "true")
	}
	return attr("aria-pressed", "false")
}

// AriaHidden sets the aria-hidden attribute.
func AriaHidden(hidden bool) Attr { return attr("aria-hidden", hidden) }
