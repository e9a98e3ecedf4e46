package types

import "errors"

// Error taxonomy of the collection platform. Callers classify failures by
// errors.Is against these sentinels; wrapped errors carry the detail.
var (
	// ErrConfiguration marks an unsupported input mode, observation type or
	// persisted-format name. Fatal at startup, never retried.
	ErrConfiguration = errors.New("configuration error")

	// ErrInvalidState marks recorder misuse, e.g. Record before Begin.
	// A programming-contract violation, not a runtime condition.
	ErrInvalidState = errors.New("invalid recorder state")

	// ErrDataIntegrity marks a malformed or unversioned artifact, or
	// misaligned parallel arrays on decode. Load aborts, no partial result.
	ErrDataIntegrity = errors.New("data integrity error")

	// ErrPersistence marks an I/O failure during encode or save. Episodes
	// stay in memory for a retry.
	ErrPersistence = errors.New("persistence error")

	// ErrEnvironment marks a failed environment reset or step. Propagated
	// after a best-effort save of the episodes held so far.
	ErrEnvironment = errors.New("environment error")

	// ErrUpload marks a failed dataset-hub push. Never affects the validity
	// of the already-persisted local artifact.
	ErrUpload = errors.New("upload error")
)
