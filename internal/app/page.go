package app

import (
	"strconv"

	"github.com/vango-dev/introsite/pkg/module"
	"github.com/vango-dev/introsite/pkg/render"
	"github.com/vango-dev/introsite/pkg/vdom"
)

// Renderer returns the render function for p. The URL is ignored: every
// path renders the same page.
func Renderer(p Profile) module.RenderFunc {
	return func(string) (string, error) {
		return render.RenderToString(Page(p, &State{}))
	}
}

// State is the interactive card's state. The server always renders the
// zero state; the client bootstrap applies the same transitions in the
// browser.
type State struct {
	Count int
	Dark  bool
}

// Increment is the counter's click handler.
func (s *State) Increment() { s.Count++ }

// Toggle is the toggle's click handler.
func (s *State) Toggle() { s.Dark = !s.Dark }

// Page builds the page tree for p in state s.
func Page(p Profile, s *State) *vdom.VNode {
	class := "page"
	if s.Dark {
		class = "page page--dark"
	}
	return vdom.Main(vdom.Class(class),
		vdom.H1(vdom.Class("page-title"), vdom.Text(p.Title)),
		vdom.Range(p.Sections, func(_ int, sec Section) *vdom.VNode {
			return card(sec)
		}),
		controls(p.Controls, s),
	)
}

func card(sec Section) *vdom.VNode {
	body := vdom.Text(sec.Body)
	if sec.HTML != "" {
		body = vdom.Raw(sanitizeBody(sec.HTML))
	}
	return vdom.Section(vdom.Class("card"),
		vdom.H2(vdom.Text(sec.Heading)),
		vdom.P(body),
	)
}

func controls(c Controls, s *State) *vdom.VNode {
	return vdom.Section(vdom.Class("card", "card--controls"), vdom.Data("role", "controls"),
		vdom.H3(vdom.Text(c.Heading)),
		vdom.P(
			vdom.Button(
				vdom.Type("button"),
				vdom.Data("role", "counter"),
				vdom.OnClick(s.Increment),
				vdom.Text(c.Counter+" "),
				vdom.Output(vdom.Data("role", "count"), vdom.AriaLive("polite"),
					vdom.Text(strconv.Itoa(s.Count)),
				),
			),
			vdom.Button(
				vdom.Type("button"),
				vdom.Data("role", "toggle"),
				vdom.AriaPressed(s.Dark),
				vdom.OnClick(s.Toggle),
				vdom.Text(c.Toggle),
			),
		),
	)
}
