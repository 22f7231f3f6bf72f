package router

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// ResourceHandlers holds the per-action handlers for one resource collection.
// Nil actions are simply not mounted, so a read-only resource sets only List
// and Retrieve.
type ResourceHandlers struct {
	List     http.Handler // GET    {prefix}/
	Create   http.Handler // POST   {prefix}/
	Retrieve http.Handler // GET    {prefix}/{id}/
	Update   http.Handler // PUT    {prefix}/{id}/
	Delete   http.Handler // DELETE {prefix}/{id}/
}

type resourceEntry struct {
	prefix   string
	baseName string
	handlers ResourceHandlers
}

type endpointEntry struct {
	name    string
	pattern string
	handler http.Handler
}

// Route is one concrete URL pattern known to the registry, in dispatch order.
type Route struct {
	Name    string
	Pattern string
}

// Registry holds two independent collections of routes: resource collections
// (which expand to list/detail patterns with derived names) and standalone
// endpoints (one pattern, one name). It is populated once at startup, mounted
// on the router before the listener starts, and read-only from then on, so
// request handling needs no locking.
type Registry struct {
	namespace string
	basePath  string
	resources []resourceEntry
	endpoints []endpointEntry
	names     map[string]bool
}

// NewRegistry creates a registry mounted at basePath (e.g. "/api") under the
// given namespace. The namespace qualifies route names during reverse lookup;
// pass "" for an unqualified mount.
func NewRegistry(namespace, basePath string) *Registry {
	return &Registry{
		namespace: namespace,
		basePath:  strings.TrimSuffix(basePath, "/"),
		names:     make(map[string]bool),
	}
}

// Namespace returns the namespace the registry was mounted under.
func (reg *Registry) Namespace() string { return reg.namespace }

// RegisterResource adds a resource collection under prefix. baseName derives
// the route names: "{baseName}-list" for the collection pattern and
// "{baseName}-detail" for the per-item pattern. Name collisions across the
// combined set are rejected rather than silently shadowed.
func (reg *Registry) RegisterResource(prefix, baseName string, h ResourceHandlers) error {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" || baseName == "" {
		return fmt.Errorf("router: resource prefix and base name must be non-empty")
	}
	var names []string
	if h.List != nil || h.Create != nil {
		names = append(names, baseName+"-list")
	}
	if h.Retrieve != nil || h.Update != nil || h.Delete != nil {
		names = append(names, baseName+"-detail")
	}
	for _, n := range names {
		if reg.names[n] {
			return fmt.Errorf("router: duplicate route name %q", n)
		}
	}
	for _, n := range names {
		reg.names[n] = true
	}
	reg.resources = append(reg.resources, resourceEntry{prefix: prefix, baseName: baseName, handlers: h})
	return nil
}

// RegisterEndpoint adds a standalone endpoint with its own name and pattern.
// The handler dispatches on method itself.
func (reg *Registry) RegisterEndpoint(name, pattern string, h http.Handler) error {
	if name == "" || pattern == "" {
		return fmt.Errorf("router: endpoint name and pattern must be non-empty")
	}
	if reg.names[name] {
		return fmt.Errorf("router: duplicate route name %q", name)
	}
	reg.names[name] = true
	reg.endpoints = append(reg.endpoints, endpointEntry{
		name:    name,
		pattern: "/" + strings.Trim(pattern, "/") + "/",
		handler: h,
	})
	return nil
}

// UnregisterEndpoint removes a previously registered standalone endpoint.
// Like registration, this is a startup-time operation.
func (reg *Registry) UnregisterEndpoint(name string) error {
	for i, ep := range reg.endpoints {
		if ep.name == name {
			reg.endpoints = append(reg.endpoints[:i], reg.endpoints[i+1:]...)
			delete(reg.names, name)
			return nil
		}
	}
	return fmt.Errorf("router: endpoint %q not registered", name)
}

// Routes returns every concrete pattern in dispatch order: resource patterns
// first, then standalone endpoints, each in registration order. First match
// wins in the dispatcher, mirroring this order.
func (reg *Registry) Routes() []Route {
	var out []Route
	for _, res := range reg.resources {
		if res.handlers.List != nil || res.handlers.Create != nil {
			out = append(out, Route{Name: res.baseName + "-list", Pattern: reg.basePath + "/" + res.prefix + "/"})
		}
		if res.handlers.Retrieve != nil || res.handlers.Update != nil || res.handlers.Delete != nil {
			out = append(out, Route{Name: res.baseName + "-detail", Pattern: reg.basePath + "/" + res.prefix + "/{id}/"})
		}
	}
	for _, ep := range reg.endpoints {
		out = append(out, Route{Name: ep.name, Pattern: reg.basePath + ep.pattern})
	}
	return out
}

// Mount attaches every registered route to r, which must already be scoped to
// the registry's base path. Registration order determines precedence.
func (reg *Registry) Mount(r chi.Router) {
	for _, res := range reg.resources {
		listPattern := "/" + res.prefix + "/"
		detailPattern := "/" + res.prefix + "/{id}/"
		h := res.handlers
		if h.List != nil {
			r.Method(http.MethodGet, listPattern, h.List)
		}
		if h.Create != nil {
			r.Method(http.MethodPost, listPattern, h.Create)
		}
		if h.Retrieve != nil {
			r.Method(http.MethodGet, detailPattern, h.Retrieve)
		}
		if h.Update != nil {
			r.Method(http.MethodPut, detailPattern, h.Update)
		}
		if h.Delete != nil {
			r.Method(http.MethodDelete, detailPattern, h.Delete)
		}
	}
	for _, ep := range reg.endpoints {
		r.Handle(ep.pattern, ep.handler)
	}
}

// Reverse resolves a possibly namespace-qualified route name to a concrete
// path, filling pattern parameters from kwargs. It reports ok=false when the
// name is unknown in the current namespace or a parameter cannot be filled;
// callers treat that as a recoverable skip, never an error.
func (reg *Registry) Reverse(name string, kwargs map[string]string) (string, bool) {
	if i := strings.Index(name, ":"); i >= 0 {
		if name[:i] != reg.namespace {
			return "", false
		}
		name = name[i+1:]
	} else if reg.namespace != "" {
		// Names inside a namespaced mount resolve only through the namespace.
		return "", false
	}
	for _, rt := range reg.Routes() {
		if rt.Name != name {
			continue
		}
		path, ok := fillPattern(rt.Pattern, kwargs)
		if !ok {
			return "", false
		}
		return path, true
	}
	return "", false
}

// fillPattern substitutes {param} segments from kwargs. A parameter with no
// matching kwarg makes the whole pattern unresolvable.
func fillPattern(pattern string, kwargs map[string]string) (string, bool) {
	if !strings.Contains(pattern, "{") {
		return pattern, true
	}
	segs := strings.Split(pattern, "/")
	for i, s := range segs {
		if !strings.HasPrefix(s, "{") || !strings.HasSuffix(s, "}") {
			continue
		}
		v, ok := kwargs[s[1:len(s)-1]]
		if !ok || v == "" {
			return "", false
		}
		segs[i] = v
	}
	return strings.Join(segs, "/"), true
}
