package process

import (
	kerrors "axeberg-kernel/errors"
	"axeberg-kernel/ids"
)

// memoryRegion is one allocated region of a process's address space. A
// region starts out exclusively owned; cowFork marks the parent's
// regions shared and gives the child a region id backed by the same
// bytes until either side writes, at which point Write duplicates the
// backing slice for the writer only.
type memoryRegion struct {
	size   uint64
	data   []byte
	shared bool
}

// ProcessMemory tracks the memory regions owned by a process and
// enforces an optional byte ceiling (RLIMIT_AS-style accounting).
type ProcessMemory struct {
	regions map[ids.RegionId]*memoryRegion
	nextId  uint64
	limit   uint64 // 0 means unlimited
	used    uint64
}

// NewProcessMemory returns an empty, unlimited memory record.
func NewProcessMemory() *ProcessMemory {
	return &ProcessMemory{regions: make(map[ids.RegionId]*memoryRegion), nextId: 1}
}

// NewProcessMemoryWithLimit returns an empty memory record that
// refuses to grow past limit bytes.
func NewProcessMemoryWithLimit(limit uint64) *ProcessMemory {
	m := NewProcessMemory()
	m.limit = limit
	return m
}

// Used returns the total bytes currently attributed to this process.
func (m *ProcessMemory) Used() uint64 { return m.used }

// Limit returns the configured byte ceiling, or 0 if unlimited.
func (m *ProcessMemory) Limit() uint64 { return m.limit }

// SetLimit adjusts the byte ceiling, e.g. in response to an
// RLIMIT_AS change.
func (m *ProcessMemory) SetLimit(limit uint64) { m.limit = limit }

// Allocate reserves a fresh, exclusively-owned region of size bytes.
// Fails with ErrMemoryLimitExceeded if the process has a limit and
// this allocation would exceed it.
func (m *ProcessMemory) Allocate(size uint64) (ids.RegionId, error) {
	if m.limit != 0 && m.used+size > m.limit {
		return 0, kerrors.ErrMemoryLimitExceeded
	}

	id := ids.RegionId(m.nextId)
	m.nextId++
	m.regions[id] = &memoryRegion{size: size, data: make([]byte, size)}
	m.used += size
	return id, nil
}

// Free releases region, returning its size to the process's budget.
func (m *ProcessMemory) Free(region ids.RegionId) error {
	r, ok := m.regions[region]
	if !ok {
		return kerrors.ErrRegionNotFound
	}
	delete(m.regions, region)
	m.used -= r.size
	return nil
}

// ReadRegion returns the bytes currently backing region.
func (m *ProcessMemory) ReadRegion(region ids.RegionId) ([]byte, error) {
	r, ok := m.regions[region]
	if !ok {
		return nil, kerrors.ErrRegionNotFound
	}
	return r.data, nil
}

// WriteRegion overwrites region's contents starting at offset. If the
// region is shared with another process (post-fork, pre-write), the
// backing slice is duplicated first so the two processes diverge —
// copy-on-write.
func (m *ProcessMemory) WriteRegion(region ids.RegionId, offset int, data []byte) error {
	r, ok := m.regions[region]
	if !ok {
		return kerrors.ErrRegionNotFound
	}

	if r.shared {
		owned := make([]byte, len(r.data))
		copy(owned, r.data)
		r = &memoryRegion{size: r.size, data: owned}
		m.regions[region] = r
	}

	if offset+len(data) > len(r.data) {
		growth := uint64(offset+len(data)) - r.size
		if m.limit != 0 && m.used+growth > m.limit {
			return kerrors.ErrMemoryLimitExceeded
		}
		grown := make([]byte, offset+len(data))
		copy(grown, r.data)
		r.data = grown
		r.size = uint64(len(grown))
		m.used += growth
	}
	copy(r.data[offset:], data)
	return nil
}

// RegionIds returns every region id this process currently owns.
func (m *ProcessMemory) RegionIds() []ids.RegionId {
	out := make([]ids.RegionId, 0, len(m.regions))
	for id := range m.regions {
		out = append(out, id)
	}
	return out
}

// cowFork clones every region as copy-on-write: both parent and child
// regions point at the same backing bytes and are marked shared, so
// the next WriteRegion on either side duplicates instead of mutating
// in place. genRegionId mints fresh ids for the child's copies.
// Returns the child's memory record and a map from the parent's region
// ids to the child's corresponding region ids.
func (m *ProcessMemory) cowFork(genRegionId func() ids.RegionId) (*ProcessMemory, map[ids.RegionId]ids.RegionId) {
	child := NewProcessMemoryWithLimit(m.limit)
	mapping := make(map[ids.RegionId]ids.RegionId, len(m.regions))

	for parentId, r := range m.regions {
		r.shared = true
		childId := genRegionId()
		child.regions[childId] = &memoryRegion{size: r.size, data: r.data, shared: true}
		child.used += r.size
		mapping[parentId] = childId
	}

	return child, mapping
}
