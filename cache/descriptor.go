package cache

// Descriptor is a lightweight save/restore form of a cache: configuration
// flags only, never contents. Hooks (writer, listener, executor, loader)
// cannot be serialized; a Descriptor records their presence so Restore
// can verify the rebinding options match the saved shape.
type Descriptor struct {
	Shards      int  `json:"shards" msgpack:"shards" cbor:"shards"`
	RecordStats bool `json:"record_stats" msgpack:"record_stats" cbor:"record_stats"`
	HasWriter   bool `json:"has_writer" msgpack:"has_writer" cbor:"has_writer"`
	HasListener bool `json:"has_listener" msgpack:"has_listener" cbor:"has_listener"`
}

// Descriptor captures this cache's configuration. Use a codec.Codec to
// marshal it for storage.
func (c *Cache[K, V]) Descriptor() Descriptor {
	return Descriptor{
		Shards:      len(c.store.shards),
		RecordStats: c.recording,
		HasWriter:   c.writer != nil,
		HasListener: c.onRemoval != nil,
	}
}

// Restore reconstructs an empty cache from a Descriptor. Shape and flags
// come from the descriptor; live hooks are rebound from opt. Hooks absent
// at save time stay absent regardless of opt.
func Restore[K comparable, V comparable](d Descriptor, opt Options[K, V]) *Cache[K, V] {
	opt.Shards = d.Shards
	opt.RecordStats = d.RecordStats
	if !d.HasWriter {
		opt.Writer = nil
	}
	if !d.HasListener {
		opt.OnRemoval = nil
	}
	return New(opt)
}
