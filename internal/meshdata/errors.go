package meshdata

import "errors"

// Every error returned by the assembler wraps exactly one of these, so
// callers can branch with errors.Is. The wrapping message names the
// offending file or key.
var (
	// ErrUnrecognizedFilename reports a directory entry that is neither a
	// grid file nor info.txt.
	ErrUnrecognizedFilename = errors.New("unrecognized filename")

	// ErrMalformedGrid reports a grid file with ragged rows, a
	// non-numeric cell or no rows at all.
	ErrMalformedGrid = errors.New("malformed grid")

	// ErrMalformedMetadata reports an info.txt line that is not a
	// key=value pair, has a non-numeric value, or repeats a key.
	ErrMalformedMetadata = errors.New("malformed metadata")

	// ErrInconsistentDataset reports series with differing frame counts,
	// grids of differing shape within a series, duplicate timestep
	// indices, a timestamp count that does not match the frame count, or
	// a directory without any grid files.
	ErrInconsistentDataset = errors.New("inconsistent dataset")
)
