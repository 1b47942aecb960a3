package workspace

import (
	"context"
	"os"
	"testing"
)

func TestScanAllocator_FreshWorkspace(t *testing.T) {
	ws := buildTestWorkspace(t)
	alloc := NewScanAllocator(ws, testLogger())

	port, err := alloc.Next()
	if err != nil {
		t.Fatalf("Failed to allocate: %v", err)
	}
	if port != ws.Config.BasePort {
		t.Errorf("Expected base port %d, got %d", ws.Config.BasePort, port)
	}
}

func TestScanAllocator_CountsExistingMembers(t *testing.T) {
	ws := buildTestWorkspace(t)
	alloc := NewScanAllocator(ws, testLogger())
	inst := NewInstantiator(ws, alloc, testLogger())

	if _, err := inst.Instantiate(context.Background(), "client-blue"); err != nil {
		t.Fatalf("Failed to instantiate: %v", err)
	}
	if _, err := inst.Instantiate(context.Background(), "client-purple"); err != nil {
		t.Fatalf("Failed to instantiate: %v", err)
	}

	port, err := alloc.Next()
	if err != nil {
		t.Fatalf("Failed to allocate: %v", err)
	}
	if want := ws.Config.BasePort + 2; port != want {
		t.Errorf("Expected port %d after two members, got %d", want, port)
	}
}

// The counting heuristic reassigns ports after an out-of-order deletion.
// This is a documented limitation of the scan allocator, not a bug: the
// test pins the behavior so a future allocator replacing it has to change
// this expectation deliberately.
func TestScanAllocator_OutOfOrderDeletionReusesPort(t *testing.T) {
	ws := buildTestWorkspace(t)
	alloc := NewScanAllocator(ws, testLogger())
	inst := NewInstantiator(ws, alloc, testLogger())

	for _, name := range []string{"client-blue", "client-purple"} {
		if _, err := inst.Instantiate(context.Background(), name); err != nil {
			t.Fatalf("Failed to instantiate %s: %v", name, err)
		}
	}

	// Delete the first member; the survivor keeps basePort+1.
	if err := os.RemoveAll(ws.MemberDir("client-blue")); err != nil {
		t.Fatalf("Failed to remove member: %v", err)
	}

	port, err := alloc.Next()
	if err != nil {
		t.Fatalf("Failed to allocate: %v", err)
	}
	if want := ws.Config.BasePort + 1; port != want {
		t.Errorf("Expected count-based port %d, got %d", want, port)
	}

	members, err := ws.Members()
	if err != nil {
		t.Fatalf("Failed to scan members: %v", err)
	}
	if len(members) != 1 || members[0].Port != port {
		t.Fatalf("Expected the allocated port to collide with the survivor, members=%v port=%d", members, port)
	}
}

func TestScanAllocator_ReleaseIsNoOp(t *testing.T) {
	ws := buildTestWorkspace(t)
	alloc := NewScanAllocator(ws, testLogger())

	before, err := alloc.Next()
	if err != nil {
		t.Fatalf("Failed to allocate: %v", err)
	}
	alloc.Release(before)
	after, err := alloc.Next()
	if err != nil {
		t.Fatalf("Failed to allocate: %v", err)
	}
	if before != after {
		t.Errorf("Release changed the counting allocator's result: %d vs %d", before, after)
	}
}
