package service

import "vidquiz/internal/domain"

// DefaultMaxBatchQuota is the default cap on summed question counts per batch.
const DefaultMaxBatchQuota = 25

// Batcher greedily packs segment requests into ordered batches whose summed
// question counts stay under a fixed quota.
type Batcher struct {
	maxQuota int
}

// NewBatcher creates a new Batcher. A non-positive quota falls back to
// DefaultMaxBatchQuota.
func NewBatcher(maxQuota int) *Batcher {
	if maxQuota <= 0 {
		maxQuota = DefaultMaxBatchQuota
	}
	return &Batcher{maxQuota: maxQuota}
}

// Pack performs a single greedy order-preserving pass: a request that would
// push the running sum over the quota closes the current batch first, unless
// that batch is empty — a single request whose own count exceeds the quota is
// placed alone in its own batch, never dropped or split. Concatenating the
// returned batches reproduces the input order exactly.
func (b *Batcher) Pack(requests []domain.SegmentRequest) []domain.Batch {
	var batches []domain.Batch
	var current []domain.SegmentRequest
	running := 0

	for _, req := range requests {
		if running+req.QuestionCount > b.maxQuota && len(current) > 0 {
			batches = append(batches, domain.Batch{Requests: current})
			current = nil
			running = 0
		}
		current = append(current, req)
		running += req.QuestionCount
	}

	if len(current) > 0 {
		batches = append(batches, domain.Batch{Requests: current})
	}
	return batches
}
