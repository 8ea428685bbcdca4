package render

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/vango-dev/introsite/pkg/vdom"
)

// Renderer handles server-side rendering of VNode trees to HTML.
//
// A Renderer is not safe for concurrent use; create one per render.
type Renderer struct {
	hids     *vdom.HIDGenerator
	handlers map[string]any
}

// NewRenderer creates a new Renderer.
func NewRenderer() *Renderer {
	return &Renderer{
		hids:     vdom.NewHIDGenerator(),
		handlers: make(map[string]any),
	}
}

// RenderToString renders a tree with a fresh Renderer.
func RenderToString(node *vdom.VNode) (string, error) {
	return NewRenderer().RenderToString(node)
}

// RenderToString renders a VNode tree to an HTML string.
func (r *Renderer) RenderToString(node *vdom.VNode) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter writes a VNode tree to w. Hydration IDs restart at h1.
func (r *Renderer) RenderToWriter(w io.Writer, node *vdom.VNode) error {
	r.Reset()
	return r.renderNode(w, node)
}

// Handlers returns the handlers collected during the last render, keyed by
// "<hid>_<event>" (e.g., "h1_onclick").
func (r *Renderer) Handlers() map[string]any {
	return r.handlers
}

// Reset clears the HID counter and handler registry.
func (r *Renderer) Reset() {
	r.hids.Reset()
	r.handlers = make(map[string]any)
}

func (r *Renderer) renderNode(w io.Writer, node *vdom.VNode) error {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case vdom.KindElement:
		return r.renderElement(w, node)
	case vdom.KindText:
		_, err := io.WriteString(w, EscapeHTML(node.Text))
		return err
	case vdom.KindFragment:
		return r.renderChildren(w, node.Children)
	case vdom.KindComponent:
		if node.Comp == nil {
			return nil
		}
		return r.renderNode(w, node.Comp.Render())
	case vdom.KindRaw:
		_, err := io.WriteString(w, node.Text)
		return err
	default:
		return fmt.Errorf("render: unknown node kind %d", node.Kind)
	}
}

func (r *Renderer) renderChildren(w io.Writer, children []*vdom.VNode) error {
	for _, child := range children {
		if err := r.renderNode(w, child); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderElement(w io.Writer, node *vdom.VNode) error {
	if node.Tag == "" {
		return fmt.Errorf("render: element without tag")
	}

	var open strings.Builder
	open.WriteByte('<')
	open.WriteString(node.Tag)
	events := writeAttributes(&open, node.Props)

	if node.IsInteractive() {
		node.HID = r.hids.Next()
		fmt.Fprintf(&open, ` data-hid="%s"`, node.HID)
		for _, ev := range events {
			r.handlers[node.HID+"_"+ev] = node.Props[ev]
			fmt.Fprintf(&open, ` data-on-%s="true"`, strings.ToLower(ev[2:]))
		}
	}
	open.WriteByte('>')

	if _, err := io.WriteString(w, open.String()); err != nil {
		return err
	}
	if vdom.IsVoidElement(node.Tag) {
		return nil
	}
	if err := r.renderChildren(w, node.Children); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "</%s>", node.Tag)
	return err
}

// writeAttributes writes props in sorted key order and returns the sorted
// event handler keys, which are not written as attributes.
func writeAttributes(b *strings.Builder, props vdom.Props) []string {
	keys := make([]string, 0, len(props))
	for key := range props {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var events []string
	for _, key := range keys {
		value := props[key]
		switch {
		case key == "key" || strings.HasPrefix(key, "_"):
			continue
		case strings.HasPrefix(key, "on"):
			events = append(events, key)
			continue
		}

		if booleanAttrs[key] {
			if on, ok := value.(bool); ok {
				if on {
					b.WriteByte(' ')
					b.WriteString(key)
				}
				continue
			}
		}

		s := attrToString(value)
		if s == "" {
			continue
		}
		fmt.Fprintf(b, ` %s="%s"`, key, escapeAttr(s))
	}
	return events
}

// attrToString converts an attribute value to a string.
func attrToString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
