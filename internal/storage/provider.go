// Package storage defines the vault file-system abstraction.
package storage

// Provider is the interface for vault file operations.
// All names are relative to the vault root.
type Provider interface {
	// List returns the names of regular files directly under the vault root,
	// sorted by name.
	List() ([]string, error)
	// Read returns the raw bytes of the named file.
	Read(name string) ([]byte, error)
	// Write atomically replaces the content of the named file.
	Write(name string, content []byte) error
	// Exists reports whether anything is present at name.
	Exists(name string) (bool, error)
	// Move renames oldName to newName, creating parent directories.
	Move(oldName, newName string) error
}
