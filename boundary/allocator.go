package boundary

import (
	"context"
	"sync"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/bytebridge/errors"
)

// Allocator reserves and releases regions of foreign memory.
type Allocator interface {
	Alloc(ctx context.Context, size, align uint32) (uint32, error)
	Free(ctx context.Context, ptr, size, align uint32)
}

// Guest export names probed by NewExportedAllocator, in order.
const (
	CabiRealloc = "cabi_realloc"
	CabiFree    = "cabi_free"
	simpleAlloc = "alloc"
	simpleFree  = "free"
)

// ExportedAllocator calls the guest's own allocator exports. It accepts
// either cabi_realloc(old_ptr, old_size, align, new_size) or
// alloc(size), and optionally cabi_free or free. Without a free export,
// Free is a no-op.
type ExportedAllocator struct {
	allocFn       api.Function
	freeFn        api.Function
	stackBuf      []uint64
	freeParams    int
	isSimpleAlloc bool
	mu            sync.Mutex
}

// NewExportedAllocator looks up the allocator exports of mod.
func NewExportedAllocator(mod api.Module) (*ExportedAllocator, error) {
	a := &ExportedAllocator{stackBuf: make([]uint64, 4)}

	defs := mod.ExportedFunctionDefinitions()
	for _, name := range []string{CabiRealloc, simpleAlloc} {
		if def, ok := defs[name]; ok {
			a.allocFn = mod.ExportedFunction(name)
			a.isSimpleAlloc = len(def.ParamTypes()) < 4
			break
		}
	}
	if a.allocFn == nil {
		return nil, errors.New(errors.PhaseBoundary, errors.KindAllocation).
			Detail("guest exports neither %s nor %s", CabiRealloc, simpleAlloc).
			Build()
	}

	for _, name := range []string{CabiFree, simpleFree} {
		if def, ok := defs[name]; ok {
			a.freeFn = mod.ExportedFunction(name)
			a.freeParams = min(len(def.ParamTypes()), 3)
			break
		}
	}
	return a, nil
}

func (a *ExportedAllocator) Alloc(ctx context.Context, size, align uint32) (uint32, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var err error
	if a.isSimpleAlloc {
		a.stackBuf[0] = uint64(size)
		err = a.allocFn.CallWithStack(ctx, a.stackBuf[:1])
	} else {
		a.stackBuf[0] = 0
		a.stackBuf[1] = 0
		a.stackBuf[2] = uint64(align)
		a.stackBuf[3] = uint64(size)
		err = a.allocFn.CallWithStack(ctx, a.stackBuf[:4])
	}
	if err != nil {
		return 0, errors.Wrap(errors.PhaseBoundary, errors.KindAllocation, err, "guest allocator call failed")
	}
	ptr := uint32(a.stackBuf[0])
	if ptr == 0 && size > 0 {
		return 0, errors.New(errors.PhaseBoundary, errors.KindAllocation).
			Value(size).
			Detail("guest allocator returned null for %d bytes", size).
			Build()
	}
	return ptr, nil
}

// Free is a no-op for the null pointer, which Alloc never hands out for a
// non-empty region.
func (a *ExportedAllocator) Free(ctx context.Context, ptr, size, align uint32) {
	if a.freeFn == nil || ptr == 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stackBuf[0] = uint64(ptr)
	a.stackBuf[1] = uint64(size)
	a.stackBuf[2] = uint64(align)
	if err := a.freeFn.CallWithStack(ctx, a.stackBuf[:max(a.freeParams, 1)]); err != nil {
		Logger().Warn("guest free failed",
			zap.Uint32("ptr", ptr),
			zap.Uint32("size", size),
			zap.Error(err))
	}
}

// Allocation is one region handed out by an Allocator.
type Allocation struct {
	Ptr   uint32
	Size  uint32
	Align uint32
}

// AllocationList tracks regions so they can be freed together. It is not
// safe for concurrent use.
type AllocationList struct {
	allocations []Allocation
}

var allocationListPool = sync.Pool{
	New: func() any {
		return &AllocationList{allocations: make([]Allocation, 0, 8)}
	},
}

func NewAllocationList() *AllocationList {
	return allocationListPool.Get().(*AllocationList)
}

const maxPooledAllocationCapacity = 128

// Release returns the list to the pool. The list is invalid afterwards.
func (al *AllocationList) Release() {
	if cap(al.allocations) > maxPooledAllocationCapacity {
		return
	}
	al.Reset()
	allocationListPool.Put(al)
}

func (al *AllocationList) FreeAndRelease(ctx context.Context, allocator Allocator) {
	al.Free(ctx, allocator)
	al.Release()
}

func (al *AllocationList) Add(ptr, size, align uint32) {
	al.allocations = append(al.allocations, Allocation{Ptr: ptr, Size: size, Align: align})
}

// Remove forgets the allocation at ptr without freeing it and returns it.
func (al *AllocationList) Remove(ptr uint32) (Allocation, bool) {
	for i, a := range al.allocations {
		if a.Ptr == ptr {
			al.allocations = append(al.allocations[:i], al.allocations[i+1:]...)
			return a, true
		}
	}
	return Allocation{}, false
}

// Free releases every tracked region and empties the list. Address 0 is
// a valid guest address and is freed like any other.
func (al *AllocationList) Free(ctx context.Context, allocator Allocator) {
	if allocator != nil {
		for _, a := range al.allocations {
			allocator.Free(ctx, a.Ptr, a.Size, a.Align)
		}
	}
	al.Reset()
}

func (al *AllocationList) Reset() {
	al.allocations = al.allocations[:0]
}

func (al *AllocationList) Count() int {
	return len(al.allocations)
}
