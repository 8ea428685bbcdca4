// Package vdom provides the virtual node tree the page is described with.
//
// A VNode represents an element, text, fragment, component or raw HTML.
// Props holds attributes and event handlers; Attr and EventHandler build
// Props when passed to the element factories:
//
//	Section(Class("card"),
//	    H2("氏名"),
//	    P(Text("...")),
//	)
//
// Event handlers are never serialised. Elements that carry one are marked
// interactive and receive a hydration ID (data-hid) when rendered, which the
// client bootstrap uses to find the nodes it attaches behaviour to.
package vdom
