// Package transfer turns authenticated backend resources into locally
// usable binary handles and releases them deterministically.
package transfer

import "sync"

// Handle is a scoped, revocable reference to fetched binary content.
// Every handle must be released exactly once, either when a newer handle
// replaces it for the same resource or when the owning surface goes away.
// Releasing twice is a safe no-op.
type Handle struct {
	name string
	mime string

	mu       sync.Mutex
	data     []byte
	released bool
}

func newHandle(name, mimeType string, data []byte) *Handle {
	return &Handle{name: name, mime: mimeType, data: data}
}

// Name is the suggested file name for the content, when the server sent one.
func (h *Handle) Name() string { return h.name }

// MimeType is the content type reported by the server.
func (h *Handle) MimeType() string { return h.mime }

// Bytes returns the materialized content, or nil after release.
func (h *Handle) Bytes() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.data
}

// Released reports whether the handle has been revoked.
func (h *Handle) Released() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.released
}

// Release revokes the handle and drops its buffer. Safe to call more than
// once; later calls do nothing.
func (h *Handle) Release() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return
	}
	h.released = true
	h.data = nil
}
