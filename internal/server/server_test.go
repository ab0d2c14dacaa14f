package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/graphspec/graphspec/pkg/pipeline"
	"github.com/graphspec/graphspec/pkg/profile"
	"github.com/graphspec/graphspec/pkg/render/dot"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	cfg := &profile.Config{
		Profiles: map[string]profile.Profile{
			"arch":   {Label: "Architecture", File: "arch.txt"},
			"deploy": {Shell: "true", Engine: "neato"},
		},
	}
	return New(cfg, pipeline.NewRunner(nil, nil), nil)
}

func get(t *testing.T, s *Server, path string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec.Result()
}

func TestHandleIndex(t *testing.T) {
	resp := get(t, testServer(t), "/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	for _, want := range []string{"Architecture", "deploy", `href="/arch"`} {
		if !strings.Contains(string(body), want) {
			t.Errorf("index missing %q:\n%s", want, body)
		}
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing")
	}
}

func TestHandleProfile_NotFound(t *testing.T) {
	resp := get(t, testServer(t), "/missing")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestHandleProfile_BadEngine(t *testing.T) {
	resp := get(t, testServer(t), "/arch?engine=circo")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestHandleProfile_MissingSourceFile(t *testing.T) {
	// The profile exists but its input file does not: a source failure,
	// not a client error.
	resp := get(t, testServer(t), "/arch")
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
}

func TestRequestOptions_QueryOverrides(t *testing.T) {
	p := profile.Profile{Reduce: true, Engine: "neato"}
	req := httptest.NewRequest(http.MethodGet, "/x?reduce=0&include_everything=yes&engine=fdp", nil)

	opts, err := requestOptions(req, p)
	if err != nil {
		t.Fatalf("requestOptions() error: %v", err)
	}
	if opts.Reduce {
		t.Error("reduce=0 should override the profile default")
	}
	if !opts.IncludeEverything {
		t.Error("include_everything=yes should be honored")
	}
	if opts.Engine != dot.EngineFDP {
		t.Errorf("Engine = %q, want fdp", opts.Engine)
	}
}

func TestRequestOptions_ProfileDefaults(t *testing.T) {
	p := profile.Profile{Reduce: true, Engine: "neato"}
	req := httptest.NewRequest(http.MethodGet, "/x", nil)

	opts, err := requestOptions(req, p)
	if err != nil {
		t.Fatalf("requestOptions() error: %v", err)
	}
	if !opts.Reduce || opts.Engine != dot.EngineNeato {
		t.Errorf("opts = %+v, want profile defaults", opts)
	}
}

func TestTruthy(t *testing.T) {
	for _, v := range []string{"0", "false", "no", "off"} {
		if truthy(v) {
			t.Errorf("truthy(%q) = true", v)
		}
	}
	for _, v := range []string{"1", "true", "yes", "on"} {
		if !truthy(v) {
			t.Errorf("truthy(%q) = false", v)
		}
	}
}

func TestNewCache_Backends(t *testing.T) {
	ctx := context.Background()

	c, err := NewCache(ctx, profile.CacheConfig{Backend: "none"})
	if err != nil || c == nil {
		t.Errorf("NewCache(none) = %v, %v", c, err)
	}
	c, err = NewCache(ctx, profile.CacheConfig{Backend: "memory", Size: 4})
	if err != nil || c == nil {
		t.Errorf("NewCache(memory) = %v, %v", c, err)
	}
	if _, err := NewCache(ctx, profile.CacheConfig{Backend: "etcd"}); err == nil {
		t.Error("NewCache should reject unknown backends")
	}
}
