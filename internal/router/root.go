package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
)

// Links is an insertion-ordered name -> URL mapping. encoding/json would
// reorder a plain map, and the root document must keep resource-derived names
// first and standalone names after, each in registration order.
type Links struct {
	names []string
	urls  map[string]string
}

// Add appends a link, ignoring duplicates and empty URLs.
func (l *Links) Add(name, u string) {
	if u == "" {
		return
	}
	if l.urls == nil {
		l.urls = make(map[string]string)
	}
	if _, dup := l.urls[name]; dup {
		return
	}
	l.names = append(l.names, name)
	l.urls[name] = u
}

// Names returns the link names in insertion order.
func (l *Links) Names() []string { return l.names }

// Get returns the URL for name.
func (l *Links) Get(name string) (string, bool) {
	u, ok := l.urls[name]
	return u, ok
}

// MarshalJSON writes the links as a JSON object in insertion order.
func (l *Links) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range l.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(l.urls[name])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ResolveRoot walks the registry and builds the root document for the current
// request: every resource collection under its base name, then every
// standalone endpoint under its registered name. Names are qualified with the
// registry namespace before reverse lookup, and any name that does not resolve
// in that namespace is skipped so that a partially mounted deployment (e.g.
// detail-only routes) still serves a useful root instead of failing outright.
func ResolveRoot(reg *Registry, r *http.Request, kwargs map[string]string) *Links {
	links := &Links{}
	format := r.URL.Query().Get("format")
	resolve := func(key, name string) {
		if ns := reg.Namespace(); ns != "" {
			name = ns + ":" + name
		}
		path, ok := reg.Reverse(name, kwargs)
		if !ok {
			return
		}
		links.Add(key, absoluteURL(r, path, format))
	}
	for _, res := range reg.resources {
		resolve(res.baseName, res.baseName+"-list")
	}
	for _, ep := range reg.endpoints {
		resolve(ep.name, ep.name)
	}
	return links
}

// Root returns the API root handler: a discoverable JSON index of every route
// that resolves for the current request.
func Root(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ResolveRoot(reg, r, nil))
	}
}

// absoluteURL builds a scheme://host URL for path, carrying the request's
// format query parameter through when set.
func absoluteURL(r *http.Request, path, format string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	u := url.URL{Scheme: scheme, Host: r.Host, Path: path}
	if format != "" {
		u.RawQuery = url.Values{"format": {format}}.Encode()
	}
	return u.String()
}
