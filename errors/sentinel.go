// Package errors provides predefined sentinel errors for common failure cases.
package errors

// Object-table errors (spec.md §7 "Object-layer I/O errors").
var (
	// ErrHandleNotFound indicates the handle does not exist in the object table.
	ErrHandleNotFound = &KernelError{
		Kind:   ErrNotFound,
		Detail: "handle not found",
	}

	// ErrWrongVariant indicates an operation does not apply to the
	// object's concrete variant (e.g. seek on a Window).
	ErrWrongVariant = &KernelError{
		Kind:   ErrInvalidInput,
		Detail: "operation not valid for object variant",
	}

	// ErrNotOpenForMode indicates the object was not opened for the
	// requested read/write mode.
	ErrNotOpenForMode = &KernelError{
		Kind:   ErrPermission,
		Detail: "object not open for requested mode",
	}

	// ErrObjectWouldBlock indicates a read with no data and an open writer
	// (pipe/console/socket).
	ErrObjectWouldBlock = &KernelError{
		Kind:   ErrWouldBlock,
		Detail: "would block",
	}

	// ErrPipeBroken indicates a write to a pipe whose read end is closed.
	ErrPipeBroken = &KernelError{
		Kind:   ErrBrokenPipe,
		Detail: "broken pipe",
	}
)

// Mount-table errors (spec.md §7 "MountError").
var (
	ErrMountPointNotFound = &KernelError{Kind: ErrNotFound, Detail: "mount point not found"}
	ErrAlreadyMounted     = &KernelError{Kind: ErrAlreadyExists, Detail: "already mounted"}
	ErrNotMounted         = &KernelError{Kind: ErrNotFound, Detail: "not mounted"}
	ErrUnsupportedFs      = &KernelError{Kind: ErrNotSupported, Detail: "unsupported filesystem"}
	ErrMountPermission    = &KernelError{Kind: ErrPermission, Detail: "permission denied"}
	ErrMountBusy          = &KernelError{Kind: ErrBusy, Detail: "mount point busy"}
	ErrInvalidOptions     = &KernelError{Kind: ErrInvalidInput, Detail: "invalid mount options"}
)

// Unix-domain-socket errors (spec.md §4.4/§6 error set).
var (
	ErrSocketNotFound       = &KernelError{Kind: ErrNotFound, Detail: "socket not found"}
	ErrAddressInUse         = &KernelError{Kind: ErrAlreadyExists, Detail: "address already in use"}
	ErrConnectionRefusedErr = &KernelError{Kind: ErrConnectionRefused, Detail: "connection refused"}
	ErrNotConnected         = &KernelError{Kind: ErrInvalidState, Detail: "socket not connected"}
	ErrAlreadyConnected     = &KernelError{Kind: ErrInvalidState, Detail: "socket already connected"}
	ErrSocketInvalidState   = &KernelError{Kind: ErrInvalidState, Detail: "invalid socket state for operation"}
	ErrSocketWouldBlock     = &KernelError{Kind: ErrWouldBlock, Detail: "would block"}
	ErrConnectionReset      = &KernelError{Kind: ErrBrokenPipe, Detail: "connection reset"}
	ErrBufferFull           = &KernelError{Kind: ErrResource, Detail: "buffer full"}
	ErrSocketPermission     = &KernelError{Kind: ErrPermission, Detail: "permission denied"}
	ErrSocketNotSupported   = &KernelError{Kind: ErrNotSupported, Detail: "operation not supported for socket type"}
)

// Credential errors (spec.md §7 "Credential errors").
var (
	// ErrNotPermitted indicates a non-root caller attempted to raise a
	// hard rlimit or set an arbitrary uid/gid.
	ErrNotPermitted = &KernelError{Kind: ErrPermission, Detail: "operation not permitted"}

	// ErrInvalidCredentialId indicates a malformed uid/gid/pid argument.
	ErrInvalidCredentialId = &KernelError{Kind: ErrInvalidId, Detail: "invalid id"}
)

// Process errors.
var (
	ErrProcessNotFound  = &KernelError{Kind: ErrNotFound, Detail: "process not found"}
	ErrNoSuchChild      = &KernelError{Kind: ErrNotFound, Detail: "no such child process"}
	ErrFdTableFull      = &KernelError{Kind: ErrResource, Detail: "file descriptor table full"}
	ErrFdNotFound       = &KernelError{Kind: ErrNotFound, Detail: "file descriptor not found"}
	ErrRlimitInvalid    = &KernelError{Kind: ErrInvalidInput, Detail: "soft limit exceeds hard limit"}
	ErrCannotCatchKill  = &KernelError{Kind: ErrNotSupported, Detail: "signal cannot be caught or ignored"}

	// ErrMemoryLimitExceeded indicates a region allocation would push a
	// process's tracked memory past its configured limit.
	ErrMemoryLimitExceeded = &KernelError{Kind: ErrResource, Detail: "memory limit exceeded"}

	// ErrRegionNotFound indicates an operation named a region id the
	// process does not own.
	ErrRegionNotFound = &KernelError{Kind: ErrNotFound, Detail: "memory region not found"}
)

// User/group database errors.
var (
	ErrUserExists   = &KernelError{Kind: ErrAlreadyExists, Detail: "user already exists"}
	ErrGroupExists  = &KernelError{Kind: ErrAlreadyExists, Detail: "group already exists"}
	ErrUserNotFound = &KernelError{Kind: ErrNotFound, Detail: "user not found"}
)

// Console/PTY errors (attach demo).
var (
	ErrConsoleSetup      = &KernelError{Kind: ErrResource, Detail: "failed to setup console"}
	ErrInvalidSocketPath = &KernelError{Kind: ErrInvalidInput, Detail: "invalid socket path"}
)

// TTY errors.
var (
	// ErrTtyNotFound indicates the named terminal device is not registered.
	ErrTtyNotFound = &KernelError{Kind: ErrNotFound, Detail: "tty not found"}
)
