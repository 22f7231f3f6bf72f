package router

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
)

func buildRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry("api", "/api")
	if err := reg.RegisterResource("tools", "tool", ResourceHandlers{List: okHandler(), Retrieve: okHandler()}); err != nil {
		t.Fatalf("RegisterResource: %v", err)
	}
	// Detail-only resource: has no list route, so it must be skipped by the root.
	if err := reg.RegisterResource("books", "book", ResourceHandlers{Retrieve: okHandler()}); err != nil {
		t.Fatalf("RegisterResource: %v", err)
	}
	if err := reg.RegisterEndpoint("auth", "auth/", okHandler()); err != nil {
		t.Fatalf("RegisterEndpoint: %v", err)
	}
	return reg
}

func TestResolveRoot_SkipsUnresolvable(t *testing.T) {
	reg := buildRegistry(t)

	req := httptest.NewRequest("GET", "http://example.com/api/", nil)
	links := ResolveRoot(reg, req, nil)

	names := links.Names()
	if len(names) != 2 || names[0] != "tool" || names[1] != "auth" {
		t.Fatalf("names: got %v, want [tool auth]", names)
	}
	if u, _ := links.Get("tool"); u != "http://example.com/api/tools/" {
		t.Errorf("tool url: got %q", u)
	}
	if u, _ := links.Get("auth"); u != "http://example.com/api/auth/" {
		t.Errorf("auth url: got %q", u)
	}
	if _, ok := links.Get("book"); ok {
		t.Error("detail-only resource must be omitted, not included")
	}
}

func TestResolveRoot_OrderIsDeterministic(t *testing.T) {
	reg := NewRegistry("api", "/api")
	for _, res := range []struct{ prefix, base string }{
		{"tools", "tool"}, {"authors", "author"}, {"books", "book"},
	} {
		if err := reg.RegisterResource(res.prefix, res.base, ResourceHandlers{List: okHandler()}); err != nil {
			t.Fatalf("RegisterResource: %v", err)
		}
	}
	if err := reg.RegisterEndpoint("auth", "auth/", okHandler()); err != nil {
		t.Fatalf("RegisterEndpoint: %v", err)
	}
	if err := reg.RegisterEndpoint("audit", "audit/", okHandler()); err != nil {
		t.Fatalf("RegisterEndpoint: %v", err)
	}

	req := httptest.NewRequest("GET", "http://example.com/api/", nil)
	links := ResolveRoot(reg, req, nil)

	want := []string{"tool", "author", "book", "auth", "audit"}
	names := links.Names()
	if len(names) != len(want) {
		t.Fatalf("names: got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d]: got %q, want %q", i, names[i], want[i])
		}
	}
}

func TestResolveRoot_FormatParamCarriedThrough(t *testing.T) {
	reg := buildRegistry(t)

	req := httptest.NewRequest("GET", "http://example.com/api/?format=json", nil)
	links := ResolveRoot(reg, req, nil)

	if u, _ := links.Get("tool"); u != "http://example.com/api/tools/?format=json" {
		t.Errorf("tool url: got %q", u)
	}
}

func TestResolveRoot_ForwardedProto(t *testing.T) {
	reg := buildRegistry(t)

	req := httptest.NewRequest("GET", "http://example.com/api/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	links := ResolveRoot(reg, req, nil)

	if u, _ := links.Get("auth"); u != "https://example.com/api/auth/" {
		t.Errorf("auth url: got %q", u)
	}
}

func TestLinks_MarshalPreservesOrder(t *testing.T) {
	links := &Links{}
	links.Add("tool", "http://host/api/tools/")
	links.Add("auth", "http://host/api/auth/")
	links.Add("", "")             // empty URL dropped
	links.Add("tool", "http://x") // duplicate dropped

	b, err := json.Marshal(links)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"tool":"http://host/api/tools/","auth":"http://host/api/auth/"}`
	if string(b) != want {
		t.Errorf("marshal: got %s, want %s", b, want)
	}
}

func TestRoot_Handler(t *testing.T) {
	reg := buildRegistry(t)

	req := httptest.NewRequest("GET", "http://example.com/api/", nil)
	rr := httptest.NewRecorder()
	Root(reg)(rr, req)

	if rr.Code != 200 {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var out map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for name, u := range out {
		if u == "" {
			t.Errorf("entry %q has empty URL", name)
		}
	}
	if out["tool"] == "" || out["auth"] == "" {
		t.Errorf("missing expected entries: %v", out)
	}
}
