// Package state persists the portal's client state the way the browser's
// localStorage did: a flat set of string keys.
package state

// Well-known keys.
const (
	KeyToken    = "token"    // opaque bearer credential
	KeyUser     = "user"     // JSON-serialized user profile
	KeySettings = "settings" // JSON-serialized UI settings
)

// Store is a flat string key-value store.
type Store interface {
	// Get returns the stored value and whether the key was present.
	Get(key string) (string, bool)
	Set(key, value string) error
	Del(key string) error
	// Clear removes every key.
	Clear() error
}
