package vdom

import "strings"

// Attr represents a single prop passed to an element constructor.
type Attr struct {
	Key   string
	Value any
}

// attr creates an Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Identity attributes

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class, joining multiple classes with spaces. It writes the
// className prop, which the patcher maps to the class attribute.
func Class(classes ...string) Attr { return attr(classAlias, strings.Join(classes, " ")) }

// StyleAttr sets the style attribute.
func StyleAttr(style string) Attr { return attr("style", style) }

// TitleAttr sets the title attribute.
func TitleAttr(title string) Attr { return attr("title", title) }

// Data creates a data-* attribute.
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Link attributes

// Href sets the href attribute.
func Href(url string) Attr { return attr("href", url) }

// Target sets the target attribute.
func Target(target string) Attr { return attr("target", target) }

// Form input attributes

// Name sets the name attribute.
func Name(name string) Attr { return attr("name", name) }

// Value sets the live input value through the direct-state channel.
func Value(value string) Attr { return attr("value", value) }

// Checked sets the live checked state through the direct-state channel.
func Checked(checked bool) Attr { return attr("checked", checked) }

// Type sets the type attribute.
func Type(t string) Attr { return attr("type", t) }

// Placeholder sets the placeholder attribute.
func Placeholder(text string) Attr { return attr("placeholder", text) }

// Disabled sets the disabled attribute.
func Disabled() Attr { return attr("disabled", true) }

// For sets the for attribute (for labels).
func For(id string) Attr { return attr("for", id) }

// TabIndex sets the tabindex attribute.
func TabIndex(index int) Attr { return attr("tabindex", index) }

// Media attributes

// Src sets the src attribute.
func Src(url string) Attr { return attr("src", url) }

// Alt sets the alt attribute.
func Alt(text string) Attr { return attr("alt", text) }

// Ref registers a callback invoked with the mounted host node, and with nil
// when the node detaches. Pass func(HostNode), or func(Component) on a
// component node to receive the instance after mount.
func Ref(fn any) Attr { return attr(refProp, fn) }

// AttrIf adds an attribute conditionally.
func AttrIf(condition bool, a Attr) Attr {
	if condition {
		return a
	}
	return Attr{}
}
