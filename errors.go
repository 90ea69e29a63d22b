package backdrop

import "errors"

var (
	// ErrContainerNotFound reports that no element has the configured id.
	// Mount treats it as a silent no-op and only logs it.
	ErrContainerNotFound = errors.New("backdrop: container not found")

	// ErrNilEnvironment is logged when Mount is called without a host.
	ErrNilEnvironment = errors.New("backdrop: nil environment")

	// ErrTeardownPanic wraps a panic recovered from a teardown step.
	ErrTeardownPanic = errors.New("backdrop: teardown step panicked")
)
