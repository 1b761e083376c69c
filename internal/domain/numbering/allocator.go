package numbering

import (
	"context"
	"fmt"

	"github.com/sopas/backend/internal/domain/shared"
)

// EntityKind names a numbering space. Sequence numbers are owned by the
// (kind, prefix) pair, so identically prefixed identifiers of different
// kinds never contend.
type EntityKind string

const (
	KindParty   EntityKind = "party"
	KindAgent   EntityKind = "agent"
	KindStore   EntityKind = "store"
	KindOrder   EntityKind = "order"
	KindProduct EntityKind = "product"
	KindUser    EntityKind = "user"
)

// SeedFunc reports the highest sequence number already persisted for a
// prefix. It is consulted only when the sequence counter for that prefix
// does not exist yet, or when the counter has fallen behind rows inserted
// out of band.
type SeedFunc func(ctx context.Context) (int64, error)

// SequenceStore owns the per-(kind, prefix) monotonic counters. Reservations
// must be atomic: two concurrent reservations for the same pair never
// overlap, even across processes.
type SequenceStore interface {
	// Reserve atomically claims count consecutive sequence numbers and
	// returns the first. A missing counter is created seeded from seed().
	Reserve(ctx context.Context, kind EntityKind, prefix Prefix, count int64, seed SeedFunc) (int64, error)

	// Resync raises the counter to at least floor. Used after a uniqueness
	// conflict reveals rows numbered above the counter.
	Resync(ctx context.Context, kind EntityKind, prefix Prefix, floor int64) error
}

// Allocator issues identifiers backed by a SequenceStore.
type Allocator struct {
	store SequenceStore
}

// NewAllocator creates an Allocator on top of the given store.
func NewAllocator(store SequenceStore) *Allocator {
	return &Allocator{store: store}
}

// Allocate claims the next sequence number for (kind, prefix) and renders
// it as an identifier.
func (a *Allocator) Allocate(ctx context.Context, kind EntityKind, prefix Prefix, seed SeedFunc) (Identifier, error) {
	n, err := a.store.Reserve(ctx, kind, prefix, 1, seed)
	if err != nil {
		return "", fmt.Errorf("allocate %s identifier: %w", kind, err)
	}
	return FormatIdentifier(prefix, n), nil
}

// Resync raises the (kind, prefix) counter past rows the counter does not
// know about. Callers invoke it before retrying a conflicted insert.
func (a *Allocator) Resync(ctx context.Context, kind EntityKind, prefix Prefix, seed SeedFunc) error {
	floor, err := seed(ctx)
	if err != nil {
		return err
	}
	return a.store.Resync(ctx, kind, prefix, floor)
}

// NewBatch starts a batch allocation for one import. Blocks of sequence
// numbers are reserved per prefix up front, then handed out row by row, so
// rows later in the batch observe the allocations made to earlier rows
// before anything is persisted.
func (a *Allocator) NewBatch(kind EntityKind) *BatchAllocator {
	return &BatchAllocator{
		alloc:  a,
		kind:   kind,
		blocks: make(map[Prefix][]block),
	}
}

// block is one contiguous run of reserved sequence numbers.
type block struct {
	next int64
	left int64
}

// BatchAllocator threads allocation state through the rows of one batch.
// Not safe for concurrent use; a batch is processed by a single request.
type BatchAllocator struct {
	alloc  *Allocator
	kind   EntityKind
	blocks map[Prefix][]block
}

// Reserve claims a block of count numbers for prefix. Calling it again for
// the same prefix reserves a further block; blocks are handed out in
// reservation order. Two blocks need not be contiguous: another allocator
// may have claimed numbers in between, and those must never be reissued
// here.
func (b *BatchAllocator) Reserve(ctx context.Context, prefix Prefix, count int64, seed SeedFunc) error {
	if count <= 0 {
		return nil
	}
	first, err := b.alloc.store.Reserve(ctx, b.kind, prefix, count, seed)
	if err != nil {
		return fmt.Errorf("reserve %d %s identifiers: %w", count, b.kind, err)
	}
	b.blocks[prefix] = append(b.blocks[prefix], block{next: first, left: count})
	return nil
}

// Next returns the next identifier from the blocks reserved for prefix.
func (b *BatchAllocator) Next(prefix Prefix) (Identifier, error) {
	blocks := b.blocks[prefix]
	for len(blocks) > 0 && blocks[0].left <= 0 {
		blocks = blocks[1:]
	}
	b.blocks[prefix] = blocks
	if len(blocks) == 0 {
		return "", shared.NewDomainError("SEQUENCE_EXHAUSTED",
			fmt.Sprintf("no reserved sequence numbers left for prefix %q", prefix))
	}
	n := blocks[0].next
	blocks[0].next = n + 1
	blocks[0].left--
	return FormatIdentifier(prefix, n), nil
}
