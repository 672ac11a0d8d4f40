// Package store persists generated source artifacts on disk.
//
// Each artifact is one plain-text .go file named <identifier>_<keyhash>.go.
// There is no metadata header, no checksum, no TTL, and no eviction: an entry
// lives until something outside the system deletes it. The directory is
// created eagerly at construction and write failures propagate to the caller.
package store
