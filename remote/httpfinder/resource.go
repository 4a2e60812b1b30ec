package httpfinder

import "encoding/json"

// PrimaryKeyAttribute is the attribute a Resource is identified by.
const PrimaryKeyAttribute = "id"

// Resource is a schemaless remote record. JSON payloads are the attribute
// object itself; msgpack and CBOR nest it under "attributes".
type Resource struct {
	Attributes map[string]any `msgpack:"attributes" cbor:"attributes"`

	persisted bool
}

// NewResource returns an unsaved resource with the given attributes.
func NewResource(attrs map[string]any) *Resource {
	return &Resource{Attributes: attrs}
}

func (r *Resource) PrimaryKey() any     { return r.Attributes[PrimaryKeyAttribute] }
func (r *Resource) IsPersisted() bool   { return r.persisted }
func (r *Resource) SetPersisted(p bool) { r.persisted = p }

// Get returns one attribute.
func (r *Resource) Get(name string) (any, bool) {
	v, ok := r.Attributes[name]
	return v, ok
}

func (r *Resource) MarshalJSON() ([]byte, error) {
	if r.Attributes == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r.Attributes)
}

func (r *Resource) UnmarshalJSON(b []byte) error {
	var attrs map[string]any
	if err := json.Unmarshal(b, &attrs); err != nil {
		return err
	}
	r.Attributes = attrs
	return nil
}
