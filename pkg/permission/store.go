package permission

import "github.com/google/uuid"

// Store is the permission gate consulted by the dispatcher and mutated by
// the management UI. Implementations must be safe for concurrent callers,
// and the known-identity list append must happen exactly once per identity
// even under concurrent first contact.
type Store interface {
	// IsPermitted reports whether the identity may mutate features.
	// Unknown identities are not permitted; the read creates no record.
	IsPermitted(id uuid.UUID) bool

	// RecordSeen notes a request from id. The first call for an identity
	// creates its record with permitted=false and registers the identity in
	// the known list. A non-empty displayName always updates the stored
	// name, including for already-known callers.
	RecordSeen(id uuid.UUID, displayName string) error

	// SetPermitted sets the permitted flag. Creates the record (and the
	// list entry) if the identity has never been seen.
	SetPermitted(id uuid.UUID, permitted bool) error

	// Name returns the stored display name for id.
	Name(id uuid.UUID) (string, bool)

	// List returns the known identities in first-contact order,
	// without duplicates.
	List() []uuid.UUID

	// Close releases any resources held by the store.
	Close() error
}
