package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/grainui/grain/pkg/dom"
	"github.com/grainui/grain/pkg/ui"
)

func TestConfigDefaults(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Address != ":8420" {
		t.Errorf("address %q", cfg.Address)
	}
	if cfg.ReadTimeout != 60*time.Second {
		t.Errorf("read timeout %v", cfg.ReadTimeout)
	}
	if cfg.MaxMessageSize != 64*1024 {
		t.Errorf("max message size %d", cfg.MaxMessageSize)
	}
	if cfg.Logger == nil {
		t.Errorf("nil default logger")
	}
}

func TestConfigWithDefaultsFillsUnset(t *testing.T) {
	cfg := (&Config{Address: ":9999"}).withDefaults()

	if cfg.Address != ":9999" {
		t.Errorf("explicit address overwritten: %q", cfg.Address)
	}
	if cfg.PageTitle != "Grain" {
		t.Errorf("page title not defaulted: %q", cfg.PageTitle)
	}
	if cfg.MaxEventQueue != 256 {
		t.Errorf("event queue not defaulted: %d", cfg.MaxEventQueue)
	}

	if got := (*Config)(nil).withDefaults(); got.Address != ":8420" {
		t.Errorf("nil config not defaulted")
	}
}

func testMount(doc *dom.Document) {
	doc.Root().AppendChild(ui.Build(doc, ui.Config{
		Tag:      "h1#title",
		Children: []ui.Child{ui.ChildText("hello <world>")},
	}))
}

func TestPageRendering(t *testing.T) {
	srv := New(&Config{PageTitle: "Test App"}, testMount)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	html := string(body)

	for _, want := range []string{
		"<title>Test App</title>",
		`id="title"`,
		"hello &lt;world&gt;", // SSR escapes text content
		"/grain/client.js",
		"data-grain-id",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q:\n%s", want, html)
		}
	}
}

// Each page render mounts into a fresh document; builds must not bleed
// state into each other.
func TestPageRenderIsolation(t *testing.T) {
	srv := New(nil, testMount)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	get := func() string {
		resp, err := http.Get(ts.URL + "/")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		return string(b)
	}

	first := get()
	second := get()
	if first != second {
		t.Errorf("renders differ:\n%s\n---\n%s", first, second)
	}
}

func TestClientScriptServed(t *testing.T) {
	srv := New(nil, testMount)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/grain/client.js")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "javascript") {
		t.Errorf("content type %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "WebSocket") {
		t.Errorf("client script looks wrong")
	}
}

func TestMetricsToggle(t *testing.T) {
	srv := New(&Config{EnableMetrics: true}, testMount)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("metrics endpoint returned %d", resp.StatusCode)
	}

	off := New(&Config{}, testMount)
	ts2 := httptest.NewServer(off.Handler())
	defer ts2.Close()

	resp2, err := http.Get(ts2.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	resp2.Body.Close()
	if resp2.StatusCode == http.StatusOK {
		t.Errorf("metrics served while disabled")
	}
}
