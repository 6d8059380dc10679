package process

import kerrors "axeberg-kernel/errors"

// RlimitResource names a single resource-limit category, mirroring
// POSIX RLIMIT_*.
type RlimitResource int

const (
	RlimitNoFile RlimitResource = iota
	RlimitNProc
	RlimitFSize
	RlimitStack
	RlimitCpu
	RlimitCore
	RlimitData
	RlimitAs
)

// RlimitResourceFromUint32 maps a raw syscall-layer resource number to
// its RlimitResource, reporting false for anything out of range.
func RlimitResourceFromUint32(n uint32) (RlimitResource, bool) {
	if n > uint32(RlimitAs) {
		return 0, false
	}
	return RlimitResource(n), true
}

// RlimitInfinity is the unbounded limit value.
const RlimitInfinity uint64 = ^uint64(0)

// Rlimit is a single resource limit with a soft (currently enforced)
// and hard (ceiling a non-root process may raise the soft limit to)
// bound.
type Rlimit struct {
	Soft uint64
	Hard uint64
}

// NewRlimit returns the limit (soft, hard).
func NewRlimit(soft, hard uint64) Rlimit { return Rlimit{Soft: soft, Hard: hard} }

// UnlimitedRlimit returns a limit with both bounds at RlimitInfinity.
func UnlimitedRlimit() Rlimit { return Rlimit{Soft: RlimitInfinity, Hard: RlimitInfinity} }

// ResourceLimits holds every rlimit for a process.
type ResourceLimits struct {
	NoFile       Rlimit
	NProc        Rlimit
	FSize        Rlimit
	Stack        Rlimit
	Cpu          Rlimit
	Core         Rlimit
	Data         Rlimit
	AddressSpace Rlimit
}

// NewResourceLimits returns the default rlimit set: 1024/4096 open
// files and processes, an 8MB soft stack, core dumps disabled, and
// everything else unlimited.
func NewResourceLimits() ResourceLimits {
	return ResourceLimits{
		NoFile:       NewRlimit(1024, 4096),
		NProc:        NewRlimit(1024, 4096),
		FSize:        UnlimitedRlimit(),
		Stack:        NewRlimit(8*1024*1024, RlimitInfinity),
		Cpu:          UnlimitedRlimit(),
		Core:         NewRlimit(0, RlimitInfinity),
		Data:         UnlimitedRlimit(),
		AddressSpace: UnlimitedRlimit(),
	}
}

// Get returns the limit for resource.
func (r ResourceLimits) Get(resource RlimitResource) Rlimit {
	switch resource {
	case RlimitNoFile:
		return r.NoFile
	case RlimitNProc:
		return r.NProc
	case RlimitFSize:
		return r.FSize
	case RlimitStack:
		return r.Stack
	case RlimitCpu:
		return r.Cpu
	case RlimitCore:
		return r.Core
	case RlimitData:
		return r.Data
	case RlimitAs:
		return r.AddressSpace
	default:
		return Rlimit{}
	}
}

// Set installs limit for resource. Callers that are not root must
// reject a limit whose Hard exceeds the existing Hard before calling
// Set; Set itself only validates soft <= hard.
func (r *ResourceLimits) Set(resource RlimitResource, limit Rlimit) error {
	if limit.Soft > limit.Hard {
		return kerrors.ErrRlimitInvalid
	}

	switch resource {
	case RlimitNoFile:
		r.NoFile = limit
	case RlimitNProc:
		r.NProc = limit
	case RlimitFSize:
		r.FSize = limit
	case RlimitStack:
		r.Stack = limit
	case RlimitCpu:
		r.Cpu = limit
	case RlimitCore:
		r.Core = limit
	case RlimitData:
		r.Data = limit
	case RlimitAs:
		r.AddressSpace = limit
	}
	return nil
}
