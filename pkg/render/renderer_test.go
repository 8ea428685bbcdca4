package render

import (
	"strings"
	"testing"

	"github.com/vango-dev/introsite/pkg/vdom"
)

func TestRenderText(t *testing.T) {
	html, err := RenderToString(vdom.Text("Hello, World!"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if html != "Hello, World!" {
		t.Errorf("got %q, want %q", html, "Hello, World!")
	}
}

func TestRenderTextEscaping(t *testing.T) {
	html, err := RenderToString(vdom.Text("<script>alert('xss')</script>"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "&lt;script&gt;alert(&#39;xss&#39;)&lt;/script&gt;"
	if html != want {
		t.Errorf("got %q, want %q", html, want)
	}
}

func TestRenderElement(t *testing.T) {
	node := vdom.Section(vdom.Class("card"),
		vdom.H2(vdom.Text("氏名")),
		vdom.P(vdom.Text("日向野 方暉")),
	)
	html, err := RenderToString(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<section class="card"><h2>氏名</h2><p>日向野 方暉</p></section>`
	if html != want {
		t.Errorf("got %q, want %q", html, want)
	}
}

func TestRenderAttributes(t *testing.T) {
	tests := []struct {
		name string
		node *vdom.VNode
		want string
	}{
		{
			name: "sorted",
			node: vdom.Div(vdom.ID("x"), vdom.Class("a"), vdom.Data("role", "r")),
			want: `<div class="a" data-role="r" id="x"></div>`,
		},
		{
			name: "boolean true",
			node: vdom.Button(vdom.Disabled(true)),
			want: `<button disabled></button>`,
		},
		{
			name: "boolean false",
			node: vdom.Button(vdom.Disabled(false)),
			want: `<button></button>`,
		},
		{
			name: "escaped value",
			node: vdom.Div(vdom.Data("x", "a\"b\n")),
			want: `<div data-x="a&quot;b&#10;"></div>`,
		},
		{
			name: "key omitted",
			node: vdom.Div(vdom.Key("k")),
			want: `<div></div>`,
		},
		{
			name: "void element",
			node: vdom.Br(),
			want: `<br>`,
		},
		{
			name: "raw",
			node: vdom.Div(vdom.Raw("<em>ok</em>")),
			want: `<div><em>ok</em></div>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderToString(tt.node)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderHydrationMarkers(t *testing.T) {
	clicked := func() {}
	node := vdom.Div(
		vdom.Button(vdom.Data("role", "counter"), vdom.OnClick(clicked)),
		vdom.Span(vdom.Text("static")),
		vdom.Button(vdom.Data("role", "toggle"), vdom.OnClick(clicked)),
	)

	r := NewRenderer()
	html, err := r.RenderToString(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<div>` +
		`<button data-role="counter" data-hid="h1" data-on-click="true"></button>` +
		`<span>static</span>` +
		`<button data-role="toggle" data-hid="h2" data-on-click="true"></button>` +
		`</div>`
	if html != want {
		t.Errorf("got %q\nwant %q", html, want)
	}
	if strings.Contains(html, "onclick") {
		t.Error("handlers must not be serialised")
	}
	if len(r.Handlers()) != 2 {
		t.Errorf("Handlers() len = %d, want 2", len(r.Handlers()))
	}
	if _, ok := r.Handlers()["h2_onclick"]; !ok {
		t.Error("missing h2_onclick handler")
	}

	again, _ := r.RenderToString(node)
	if again != html {
		t.Errorf("second render differs:\n%q\n%q", again, html)
	}
}

func TestRenderFragmentAndComponent(t *testing.T) {
	comp := vdom.Func(func() *vdom.VNode { return vdom.Span("c") })
	html, err := RenderToString(vdom.Fragment("a", comp, vdom.P("b")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if html != `a<span>c</span><p>b</p>` {
		t.Errorf("got %q", html)
	}
}

func TestRenderErrors(t *testing.T) {
	if _, err := RenderToString(&vdom.VNode{Kind: vdom.VKind(42)}); err == nil {
		t.Error("expected error for unknown kind")
	}
	if _, err := RenderToString(&vdom.VNode{Kind: vdom.KindElement}); err == nil {
		t.Error("expected error for element without tag")
	}
	html, err := RenderToString(nil)
	if err != nil || html != "" {
		t.Errorf("nil node: got %q, %v", html, err)
	}
}
