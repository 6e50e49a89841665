package modkit

import (
	"net/http"
	"testing"

	phttp "querygate/internal/platform/net/http"
)

type stub struct {
	mounted bool
	ports   any
}

func (s *stub) MountRoutes(_ phttp.Router) { s.mounted = true }
func (s *stub) Ports() any                 { return s.ports }
func (s *stub) Name() string               { return "stub" }

var _ Module = (*stub)(nil)

func TestBuilder_TypeSignatureAndUse(t *testing.T) {
	t.Parallel()

	var b Builder = func(_ Deps, _ ...Option) Module { return &stub{ports: "ok"} }
	m := b(Deps{})
	if p := m.Ports(); p != "ok" {
		t.Fatalf("Ports = %v, want ok", p)
	}
	m.MountRoutes(nil)
	if !m.(*stub).mounted {
		t.Fatal("expected MountRoutes to be recorded")
	}
}

// recRouter records the calls Built.Mount makes
type recRouter struct {
	routes []string
	groups int
	uses   int
	posts  []string
}

func (f *recRouter) Get(string, phttp.Handler)             {}
func (f *recRouter) Post(p string, _ phttp.Handler)        { f.posts = append(f.posts, p) }
func (f *recRouter) Method(string, string, phttp.Handler)  {}
func (f *recRouter) Handle(string, http.Handler)           {}
func (f *recRouter) Use(...func(http.Handler) http.Handler) { f.uses++ }
func (f *recRouter) Group(fn func(phttp.Router))           { f.groups++; fn(f) }
func (f *recRouter) Route(p string, fn func(phttp.Router)) { f.routes = append(f.routes, p); fn(f) }
func (f *recRouter) NotFound(phttp.Handler)                {}
func (f *recRouter) MethodNotAllowed(phttp.Handler)        {}
func (f *recRouter) Mux() http.Handler                     { return http.NewServeMux() }
