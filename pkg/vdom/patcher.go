package vdom

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// patchProps reconciles a host node's attributes and listeners from prev to
// next, issuing the minimal set of adapter calls. Values are compared by
// identity/shallow equality, never deeply.
func patchProps(node HostNode, next, prev Props) {
	for name, nv := range next {
		if pv, had := prev[name]; had && propsEqual(pv, nv) {
			continue
		}
		switch {
		case isEventProp(name):
			if _, had := prev[name]; had {
				node.RemoveListener(eventName(name))
			}
			if l := toListener(nv); l != nil {
				node.AddListener(eventName(name), l)
			}
		case name == "value" || name == "checked":
			// Interactive runtime state; the attribute channel cannot
			// represent it faithfully.
			node.SetProp(name, nv)
		case name == childrenProp || name == refProp:
			// Structural, not attributes.
		case name == classAlias:
			node.SetAttr("class", attrString(nv))
		default:
			node.SetAttr(name, attrString(nv))
		}
	}

	for name := range prev {
		if nv, ok := next[name]; ok && !isFalsy(nv) {
			continue
		}
		switch {
		case isEventProp(name):
			node.RemoveListener(eventName(name))
		case name == "value" || name == "checked":
			// Written through the direct-state channel, so removing the
			// attribute would leave the live prop set.
			node.SetProp(name, nil)
		case name == childrenProp || name == refProp:
		case name == classAlias:
			node.RemoveAttr("class")
		default:
			node.RemoveAttr(name)
		}
	}
}

// isEventProp reports whether the prop key names an event handler.
// Case-insensitive so onClick and onclick both register.
func isEventProp(key string) bool {
	return len(key) > 2 && strings.EqualFold(key[:2], "on")
}

// eventName maps an event prop key to the lowercase host event name.
func eventName(key string) string {
	return strings.ToLower(key[2:])
}

// toListener normalizes the handler shapes accepted in props.
func toListener(v any) Listener {
	switch h := v.(type) {
	case nil:
		return nil
	case Listener:
		return h
	case func(Event):
		return h
	case func():
		return func(Event) { h() }
	default:
		panic(fmt.Sprintf("vdom: event handler is not callable: %T", v))
	}
}

// propsEqual compares two prop values by identity. Fast paths cover the
// common scalar types; functions compare by code pointer; incomparable
// values always count as changed.
func propsEqual(a, b any) bool {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case int64:
		bv, ok := b.(int64)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	}
	if b == nil {
		return false
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Type() != rb.Type() {
		return false
	}
	if ra.Kind() == reflect.Func {
		return ra.Pointer() == rb.Pointer()
	}
	if !ra.Type().Comparable() {
		return false
	}
	return a == b
}

// isFalsy mirrors the removal rule: a prop absent or falsy in the new
// description clears the old attribute or listener.
func isFalsy(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case bool:
		return !x
	case string:
		return x == ""
	case int:
		return x == 0
	case int64:
		return x == 0
	case float64:
		return x == 0
	}
	return false
}

// attrString renders a prop value for the generic attribute channel.
func attrString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
