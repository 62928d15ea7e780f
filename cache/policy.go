package cache

// Eviction exposes live size bounds. Present only in bounded engines.
type Eviction struct{}

// Expiration exposes a live time bound. Present only in engines that
// expire entries.
type Expiration struct{}

// Policy is a read-only report of an engine's capabilities. This engine
// records statistics when configured to and has no bounding capabilities:
// every capability accessor reports absent.
type Policy struct {
	recordingStats bool
}

// RecordingStats reports whether hit/miss statistics are being recorded.
func (p Policy) RecordingStats() bool { return p.recordingStats }

// Eviction reports the size-bounding capability as absent.
func (p Policy) Eviction() (*Eviction, bool) { return nil, false }

// ExpireAfterAccess reports the access-expiration capability as absent.
func (p Policy) ExpireAfterAccess() (*Expiration, bool) { return nil, false }

// ExpireAfterWrite reports the write-expiration capability as absent.
func (p Policy) ExpireAfterWrite() (*Expiration, bool) { return nil, false }

// RefreshAfterWrite reports the refresh capability as absent.
func (p Policy) RefreshAfterWrite() (*Expiration, bool) { return nil, false }
