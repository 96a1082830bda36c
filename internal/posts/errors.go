package posts

import "errors"

var (
	// ErrContentRootMissing indicates the configured content root does not
	// exist or is not a directory. Fatal configuration error.
	ErrContentRootMissing = errors.New("content root not found")
	// ErrContentWalkFailed indicates the recursive walk of the content root
	// failed partway through.
	ErrContentWalkFailed = errors.New("failed to walk content root")
	// ErrFileReadFailed indicates a post source could not be read.
	ErrFileReadFailed = errors.New("failed to read post source")
)
