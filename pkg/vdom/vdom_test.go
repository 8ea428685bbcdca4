package vdom

import "testing"

func TestCreateElement(t *testing.T) {
	t.Run("basic element", func(t *testing.T) {
		node := Div()
		if node.Kind != KindElement {
			t.Errorf("Kind = %v, want KindElement", node.Kind)
		}
		if node.Tag != "div" {
			t.Errorf("Tag = %v, want div", node.Tag)
		}
	})

	t.Run("with multiple attributes", func(t *testing.T) {
		node := Section(Class("card", "wide"), ID("main"))
		if node.Props["class"] != "card wide" {
			t.Errorf("class = %v, want card wide", node.Props["class"])
		}
		if node.Props["id"] != "main" {
			t.Errorf("id = %v, want main", node.Props["id"])
		}
	})

	t.Run("with children and string shorthand", func(t *testing.T) {
		node := Div(H2(Text("氏名")), "tail", nil, []*VNode{P(), nil})
		if len(node.Children) != 3 {
			t.Fatalf("Children len = %v, want 3", len(node.Children))
		}
		if node.Children[1].Kind != KindText || node.Children[1].Text != "tail" {
			t.Errorf("Child[1] = %+v, want text node tail", node.Children[1])
		}
	})

	t.Run("empty attr ignored", func(t *testing.T) {
		node := Div(Attr{})
		if len(node.Props) != 0 {
			t.Errorf("Props = %v, want empty", node.Props)
		}
	})

	t.Run("key attr", func(t *testing.T) {
		node := Div(Key("k1"))
		if node.Key != "k1" {
			t.Errorf("Key = %q, want k1", node.Key)
		}
	})

	t.Run("component child", func(t *testing.T) {
		node := Div(Func(func() *VNode { return Span() }))
		if node.Children[0].Kind != KindComponent {
			t.Errorf("Child kind = %v, want KindComponent", node.Children[0].Kind)
		}
	})
}

func TestAttributes(t *testing.T) {
	tests := []struct {
		attr  Attr
		key   string
		value any
	}{
		{Data("role", "counter"), "data-role", "counter"},
		{Type("button"), "type", "button"},
		{AriaPressed(true), "aria-pressed", "true"},
		{AriaPressed(false), "aria-pressed", "false"},
		{AriaLive("polite"), "aria-live", "polite"},
		{Role("status"), "role", "status"},
		{Disabled(true), "disabled", true},
	}
	for _, tt := range tests {
		if tt.attr.Key != tt.key || tt.attr.Value != tt.value {
			t.Errorf("attr = %+v, want %s=%v", tt.attr, tt.key, tt.value)
		}
	}
}

func TestIsInteractive(t *testing.T) {
	if Div().IsInteractive() {
		t.Error("plain div should not be interactive")
	}
	if !Button(OnClick(func() {})).IsInteractive() {
		t.Error("button with onclick should be interactive")
	}
	if Text("x").IsInteractive() {
		t.Error("text node should not be interactive")
	}
	var nilNode *VNode
	if nilNode.IsInteractive() {
		t.Error("nil node should not be interactive")
	}
}

func TestFragmentAndIf(t *testing.T) {
	frag := Fragment("a", nil, If(false, P()), If(true, P()), []*VNode{Span()})
	if frag.Kind != KindFragment {
		t.Fatalf("Kind = %v, want KindFragment", frag.Kind)
	}
	if len(frag.Children) != 3 {
		t.Errorf("Children len = %d, want 3", len(frag.Children))
	}
}

func TestRange(t *testing.T) {
	nodes := Range([]string{"a", "", "c"}, func(i int, s string) *VNode {
		if s == "" {
			return nil
		}
		return Li(Textf("%d:%s", i, s))
	})
	if len(nodes) != 2 {
		t.Fatalf("len = %d, want 2", len(nodes))
	}
	if nodes[1].Children[0].Text != "2:c" {
		t.Errorf("text = %q, want 2:c", nodes[1].Children[0].Text)
	}
}

func TestAssignHIDs(t *testing.T) {
	tree := Main(
		H1("title"),
		Button(OnClick(func() {})),
		Div(Button(OnClick(func() {}))),
	)
	gen := NewHIDGenerator()
	AssignHIDs(tree, gen)

	hids := CollectHIDs(tree)
	if len(hids) != 2 {
		t.Fatalf("hids = %v, want 2 entries", hids)
	}
	if hids["h1"] != tree.Children[1] {
		t.Error("h1 should be the first button")
	}
	if hids["h2"] != tree.Children[2].Children[0] {
		t.Error("h2 should be the nested button")
	}
	if tree.HID != "" || tree.Children[0].HID != "" {
		t.Error("non-interactive elements should not get a HID")
	}

	gen.Reset()
	if got := gen.Next(); got != "h1" {
		t.Errorf("after Reset Next() = %q, want h1", got)
	}
}

func TestVKindString(t *testing.T) {
	if KindRaw.String() != "Raw" || VKind(99).String() != "Unknown" {
		t.Error("unexpected VKind string")
	}
}
