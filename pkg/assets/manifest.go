// Package assets resolves built front-end assets for the host document.
//
// The bundler writes a manifest.json mapping source entries to their
// fingerprinted output and the stylesheets they pull in:
//
//	{
//	  "src/app.js": {
//	    "file": "assets/app.4f2a1c.js",
//	    "css": ["assets/app.9be310.css"],
//	    "isEntry": true
//	  }
//	}
//
// In production a Resolver built from that manifest emits the hashed paths.
// In development a dev-server resolver points every asset at the bundler's
// dev server and adds its client script:
//
//	m, _ := assets.Load("static/dist/.vite/manifest.json")
//	r := assets.NewResolver(m, "/static/dist/")
//	r.Asset("src/app.js") // "/static/dist/assets/app.4f2a1c.js"
//	r.Tags("src/app.js")  // <link rel="stylesheet" ...><script type="module" ...>
package assets

import (
	"encoding/json"
	"os"
	"sync"
)

// Chunk is one manifest entry.
type Chunk struct {
	File    string   `json:"file"`
	Src     string   `json:"src,omitempty"`
	CSS     []string `json:"css,omitempty"`
	Imports []string `json:"imports,omitempty"`
	IsEntry bool     `json:"isEntry,omitempty"`
}

// Manifest holds the mapping from source entries to built chunks.
// It is safe for concurrent use.
type Manifest struct {
	entries map[string]Chunk
	mu      sync.RWMutex
}

// NewManifest creates an empty manifest.
// Use Load() to create a manifest from a JSON file.
func NewManifest() *Manifest {
	return &Manifest{
		entries: make(map[string]Chunk),
	}
}

// Load reads a manifest.json file and returns a Manifest.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes manifest JSON.
func Parse(data []byte) (*Manifest, error) {
	var entries map[string]Chunk
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = make(map[string]Chunk)
	}
	return &Manifest{entries: entries}, nil
}

// Resolve returns the built file for the given source path.
// If not found, returns the original path unchanged.
func (m *Manifest) Resolve(source string) string {
	if c, ok := m.Chunk(source); ok && c.File != "" {
		return c.File
	}
	return source
}

// Chunk returns the manifest entry for source.
func (m *Manifest) Chunk(source string) (Chunk, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.entries[source]
	return c, ok
}

// Has returns true if the manifest contains the given source path.
func (m *Manifest) Has(source string) bool {
	_, ok := m.Chunk(source)
	return ok
}

// Set adds or updates an entry in the manifest.
// This is primarily useful for testing.
func (m *Manifest) Set(source string, c Chunk) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[source] = c
}

// Len returns the number of entries in the manifest.
func (m *Manifest) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}

// stylesheets returns the CSS files of source and of its static imports,
// depth first, without duplicates.
func (m *Manifest) stylesheets(source string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []string
	seen := map[string]bool{}
	var walk func(string)
	walk = func(key string) {
		if seen[key] {
			return
		}
		seen[key] = true
		c, ok := m.entries[key]
		if !ok {
			return
		}
		for _, imp := range c.Imports {
			walk(imp)
		}
		out = append(out, c.CSS...)
	}
	walk(source)
	return out
}
