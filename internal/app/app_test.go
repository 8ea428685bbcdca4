package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/introsite/internal/errors"
	"github.com/vango-dev/introsite/pkg/render"
)

func TestRendererIgnoresURL(t *testing.T) {
	fn := Renderer(DefaultProfile())

	first, err := fn("/")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, url := range []string{"/anything", "/a/b/c?x=1", "", "/%E6%B0%8F"} {
		got, err := fn(url)
		if err != nil {
			t.Fatalf("render(%q): %v", url, err)
		}
		if got != first {
			t.Errorf("render(%q) differs from render(\"/\")", url)
		}
	}
}

func TestRendererContent(t *testing.T) {
	html, err := Renderer(DefaultProfile())("/")
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if !strings.HasPrefix(html, `<main class="page"><h1 class="page-title">自己紹介ページ</h1>`) {
		t.Errorf("unexpected prefix: %q", html)
	}
	for _, want := range []string{
		`<section class="card"><h2>氏名</h2><p>日向野 方暉</p></section>`,
		`<section class="card"><h2>出身地</h2><p>栃木県</p></section>`,
		`<section class="card"><h2>趣味</h2><p>ランニング</p></section>`,
		`<section class="card"><h2>現在の仕事</h2><p>金融機関</p></section>`,
		`data-role="counter" type="button" data-hid="h1" data-on-click="true"`,
		`aria-pressed="false" data-role="toggle" type="button" data-hid="h2" data-on-click="true"`,
		`<output aria-live="polite" data-role="count">0</output>`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("missing %q in\n%s", want, html)
		}
	}
	for _, heading := range []string{"氏名", "出身地", "趣味", "現在の仕事"} {
		if n := strings.Count(html, heading); n != 1 {
			t.Errorf("heading %q appears %d times, want 1", heading, n)
		}
	}
}

func TestPageHandlers(t *testing.T) {
	state := &State{}
	r := render.NewRenderer()
	if _, err := r.RenderToString(Page(DefaultProfile(), state)); err != nil {
		t.Fatalf("render: %v", err)
	}

	handlers := r.Handlers()
	inc, ok := handlers["h1_onclick"].(func())
	if !ok {
		t.Fatalf("h1_onclick = %T, want func()", handlers["h1_onclick"])
	}
	toggle, ok := handlers["h2_onclick"].(func())
	if !ok {
		t.Fatalf("h2_onclick = %T, want func()", handlers["h2_onclick"])
	}
	inc()
	inc()
	toggle()

	html, err := render.RenderToString(Page(DefaultProfile(), state))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(html, `<output aria-live="polite" data-role="count">2</output>`) {
		t.Errorf("count not updated: %s", html)
	}
	if !strings.Contains(html, `aria-pressed="true"`) || !strings.Contains(html, `class="page page--dark"`) {
		t.Errorf("toggle not applied: %s", html)
	}
}

func TestSectionHTMLSanitised(t *testing.T) {
	p := DefaultProfile()
	p.Sections = []Section{{
		Heading: "リンク",
		HTML:    `<strong>走る</strong><script>alert(1)</script><a href="https://example.com" onclick="x()">blog</a>`,
	}}
	html, err := Renderer(p)("/")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(html, "<script>") || strings.Contains(html, "onclick=") {
		t.Errorf("unsafe markup survived: %s", html)
	}
	if !strings.Contains(html, "<strong>走る</strong>") {
		t.Errorf("inline formatting dropped: %s", html)
	}
	if !strings.Contains(html, `rel="nofollow`) {
		t.Errorf("link rel not applied: %s", html)
	}
}

func TestTextBodyEscaped(t *testing.T) {
	p := DefaultProfile()
	p.Sections = []Section{{Heading: "<b>", Body: "a & b"}}
	html, _ := Renderer(p)("/")
	if !strings.Contains(html, "<h2>&lt;b&gt;</h2><p>a &amp; b</p>") {
		t.Errorf("text not escaped: %s", html)
	}
}

func TestParseProfile(t *testing.T) {
	yamlSrc := `
title: 自己紹介ページ
sections:
  - heading: 氏名
    body: 日向野 方暉
controls:
  counter: 拍手
`
	got, err := ParseProfile([]byte(yamlSrc), "profile.yaml")
	if err != nil {
		t.Fatalf("ParseProfile: %v", err)
	}
	want := Profile{
		Title:    "自己紹介ページ",
		Sections: []Section{{Heading: "氏名", Body: "日向野 方暉"}},
		Controls: Controls{Heading: DefaultControlsHeading, Counter: "拍手", Toggle: DefaultToggleLabel},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("profile mismatch (-want +got):\n%s", diff)
	}

	jsonSrc := `{"title":"t","sections":[{"heading":"h","body":"b"}]}`
	if _, err := ParseProfile([]byte(jsonSrc), "profile.json"); err != nil {
		t.Errorf("json: %v", err)
	}
	if _, err := ParseProfile([]byte(jsonSrc), "profile"); err != nil {
		t.Errorf("sniffed json: %v", err)
	}
}

func TestParseProfileInvalid(t *testing.T) {
	tests := map[string]string{
		"empty":        "   ",
		"no title":     "sections:\n  - heading: a\n",
		"no sections":  "title: t\n",
		"blank header": "title: t\nsections:\n  - body: x\n",
		"bad yaml":     "title: [\n",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseProfile([]byte(src), "p.yaml")
			if !errors.HasCode(err, "E143") {
				t.Errorf("err = %v, want E143", err)
			}
		})
	}
}

func TestLoadProfile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.yaml")
	if err := os.WriteFile(path, []byte("title: x\nsections:\n  - heading: h\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if p.Title != "x" || len(p.Sections) != 1 {
		t.Errorf("unexpected profile %+v", p)
	}

	if _, err := LoadProfile(filepath.Join(dir, "missing.yaml")); !errors.HasCode(err, "E143") {
		t.Errorf("missing file err = %v, want E143", err)
	}
}
