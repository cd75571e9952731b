package auth

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Digester is the synchronous hashing work a HashPool schedules. *Hasher implements it.
type Digester interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) (bool, error)
}

// HashPool bounds how many bcrypt operations run at once so slow hashing
// cannot starve the rest of the server.
type HashPool struct {
	hasher Digester
	sem    *semaphore.Weighted
}

// NewHashPool allows at most workers concurrent hash or verify calls.
func NewHashPool(hasher Digester, workers int) *HashPool {
	if workers < 1 {
		workers = 1
	}
	return &HashPool{
		hasher: hasher,
		sem:    semaphore.NewWeighted(int64(workers)),
	}
}

// Hash waits for a free slot and hashes plaintext. It returns ctx.Err() if the
// context ends before a slot frees up.
func (p *HashPool) Hash(ctx context.Context, plaintext string) (string, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer p.sem.Release(1)
	return p.hasher.Hash(plaintext)
}

// Verify waits for a free slot and compares plaintext against digest.
func (p *HashPool) Verify(ctx context.Context, plaintext, digest string) (bool, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer p.sem.Release(1)
	return p.hasher.Verify(plaintext, digest)
}
