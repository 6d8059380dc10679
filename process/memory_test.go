package process

import (
	"testing"

	kerrors "axeberg-kernel/errors"
	"axeberg-kernel/ids"
)

func TestProcessMemory_AllocateFree(t *testing.T) {
	m := NewProcessMemory()

	id, err := m.Allocate(1024)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	if m.Used() != 1024 {
		t.Errorf("Used() = %d, want 1024", m.Used())
	}

	if err := m.Free(id); err != nil {
		t.Fatalf("Free failed: %v", err)
	}
	if m.Used() != 0 {
		t.Errorf("Used() after Free = %d, want 0", m.Used())
	}
}

func TestProcessMemory_LimitEnforced(t *testing.T) {
	m := NewProcessMemoryWithLimit(1024)

	if _, err := m.Allocate(1024); err != nil {
		t.Fatalf("allocation at the limit should succeed: %v", err)
	}
	if _, err := m.Allocate(1); !kerrors.Is(err, kerrors.ErrMemoryLimitExceeded) {
		t.Errorf("expected ErrMemoryLimitExceeded, got %v", err)
	}
}

func TestProcessMemory_CowForkSharesUntilWrite(t *testing.T) {
	parent := NewProcessMemory()
	region, _ := parent.Allocate(4)
	_ = parent.WriteRegion(region, 0, []byte("abcd"))

	nextRegion := ids.RegionId(100)
	child, mapping := parent.cowFork(func() ids.RegionId {
		nextRegion++
		return nextRegion
	})

	childRegion, ok := mapping[region]
	if !ok {
		t.Fatal("expected parent region to be present in the mapping")
	}

	childData, err := child.ReadRegion(childRegion)
	if err != nil || string(childData) != "abcd" {
		t.Fatalf("child should see parent's bytes before any write, got %q, %v", childData, err)
	}

	if err := child.WriteRegion(childRegion, 0, []byte("WXYZ")); err != nil {
		t.Fatalf("WriteRegion failed: %v", err)
	}

	parentData, _ := parent.ReadRegion(region)
	if string(parentData) != "abcd" {
		t.Errorf("writing the child's region must not mutate the parent's, got %q", parentData)
	}
}

func TestProcessMemory_RegionNotFound(t *testing.T) {
	m := NewProcessMemory()
	if _, err := m.ReadRegion(999); !kerrors.Is(err, kerrors.ErrRegionNotFound) {
		t.Errorf("expected ErrRegionNotFound, got %v", err)
	}
}
