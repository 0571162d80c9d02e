package changekit

import (
	"context"
	"encoding/json"

	"github.com/autom8ter/changekit/internal/safe"
)

type ctxKey int

const (
	metadataKey ctxKey = 0
)

// Metadata holds key value pairs describing the origin of a change set - it
// travels with every command the change set produces and is attached to the
// change events the commands broadcast
type Metadata struct {
	tags safe.Map[any]
}

// NewMetadata returns metadata holding the given tags
func NewMetadata(tags map[string]any) *Metadata {
	m := &Metadata{}
	m.SetAll(tags)
	return m
}

// Get returns the value stored under key and whether the key exists
func (m *Metadata) Get(key string) (any, bool) {
	if !m.tags.Exists(key) {
		return nil, false
	}
	return m.tags.Get(key), true
}

// Exists returns true when the metadata holds a value under key
func (m *Metadata) Exists(key string) bool {
	return m.tags.Exists(key)
}

// Set stores a key value pair on the metadata
func (m *Metadata) Set(key string, value any) {
	m.tags.Set(key, value)
}

// SetAll stores every pair of data on the metadata
func (m *Metadata) SetAll(data map[string]any) {
	for k, v := range data {
		m.tags.Set(k, v)
	}
}

// Del removes a key from the metadata
func (m *Metadata) Del(key string) {
	m.tags.Del(key)
}

// Map returns a copy of the metadata's tags
func (m *Metadata) Map() map[string]any {
	return m.tags.AsMap()
}

// MarshalJSON returns the tags as json bytes
func (m *Metadata) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Map())
}

// UnmarshalJSON merges json encoded tags into the metadata
func (m *Metadata) UnmarshalJSON(bits []byte) error {
	data := map[string]any{}
	if err := json.Unmarshal(bits, &data); err != nil {
		return err
	}
	m.SetAll(data)
	return nil
}

// String returns the metadata as a json string
func (m *Metadata) String() string {
	bits, _ := m.MarshalJSON()
	return string(bits)
}

// ToContext returns a child context carrying the metadata
func (m *Metadata) ToContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, metadataKey, m)
}

// GetMetadata returns the metadata carried by ctx - callers get fresh empty
// metadata and false when the context carries none
func GetMetadata(ctx context.Context) (*Metadata, bool) {
	if m, ok := ctx.Value(metadataKey).(*Metadata); ok {
		return m, true
	}
	return &Metadata{}, false
}
