// Package storage defines the media file-store abstraction.
package storage

import "time"

// FileInfo describes one stored media file.
type FileInfo struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// Provider is the interface for media file operations. Names are plain
// filenames; the provider owns directory layout under its root.
type Provider interface {
	// List returns metadata for every stored file.
	List() ([]FileInfo, error)
	// Read returns the raw bytes of the named file.
	Read(name string) ([]byte, error)
	// Write atomically writes content under name.
	Write(name string, content []byte) error
	// WriteHashed stores content under a content-addressed name with the
	// given extension and returns the name used. Writing the same bytes
	// twice yields the same name.
	WriteHashed(content []byte, ext string) (string, error)
	// Delete removes the named file.
	Delete(name string) error
	// Exists reports whether the named file is present.
	Exists(name string) bool
}
