package entry

import "errors"

var (
	// ErrStoreUnreadable reports that the snapshot store root or one of its
	// directories could not be listed.
	ErrStoreUnreadable = errors.New("snapshot store unreadable")

	// ErrIndexCorrupt reports a missing or malformed entries.json.
	ErrIndexCorrupt = errors.New("index record corrupt")

	// ErrHashCollision reports two distinct files predicted to share one
	// snapshot directory. The first registrant keeps the directory.
	ErrHashCollision = errors.New("snapshot directory hash collision")

	// ErrAborted reports a restore cancelled at a prompt before any mutation.
	ErrAborted = errors.New("restore aborted")

	// ErrPartialRestore reports a multi-file restore where some files failed.
	ErrPartialRestore = errors.New("restore partially failed")

	ErrUnknownEntry = errors.New("unknown history entry")
	ErrUnknownGroup = errors.New("unknown change group")
)
