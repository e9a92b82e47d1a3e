package service

import (
	"context"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// keyedMutex serializes writers per key (socio or lote id). Entries are
// created on first use and kept for the process lifetime — the key space is
// bounded by the member/drawer population, so no eviction is needed.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (k *keyedMutex) Lock(id uuid.UUID) {
	k.mu.Lock()
	m, ok := k.locks[id]
	if !ok {
		m = &sync.Mutex{}
		k.locks[id] = m
	}
	k.mu.Unlock()
	m.Lock()
}

func (k *keyedMutex) Unlock(id uuid.UUID) {
	k.mu.Lock()
	m := k.locks[id]
	k.mu.Unlock()
	m.Unlock()
}

const (
	lockTTL      = 30 * time.Second
	lockRetryGap = 50 * time.Millisecond
	lockRetries  = 20
)

// SocioLocks serializes ledger writes per member: one logical account per
// socio, mutated only while its lock is held.
type SocioLocks struct{ *distLock }

func NewSocioLocks(locker *redislock.Client) *SocioLocks {
	return &SocioLocks{newDistLock(locker, "lock:socio")}
}

// LoteLocks serializes lifecycle transitions and postings per cash session.
type LoteLocks struct{ *distLock }

func NewLoteLocks(locker *redislock.Client) *LoteLocks {
	return &LoteLocks{newDistLock(locker, "lock:lote")}
}

// distLock layers a Redis lock over the in-process mutex for multi-instance
// deployments. With a nil locker (unit tests, dev without Redis) it degrades
// to the in-process mutex alone, which still serializes within one process;
// the database row locks remain the last line of defense either way.
type distLock struct {
	local  *keyedMutex
	locker *redislock.Client
	prefix string
}

func newDistLock(locker *redislock.Client, prefix string) *distLock {
	return &distLock{local: newKeyedMutex(), locker: locker, prefix: prefix}
}

// Acquire blocks until both layers are held and returns the release func.
func (d *distLock) Acquire(ctx context.Context, id uuid.UUID) (func(), error) {
	d.local.Lock(id)

	if d.locker == nil {
		return func() { d.local.Unlock(id) }, nil
	}

	lock, err := d.locker.Obtain(ctx, d.prefix+":"+id.String(), lockTTL, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(lockRetryGap), lockRetries),
	})
	if err != nil {
		d.local.Unlock(id)
		if err == redislock.ErrNotObtained {
			log.Warn().Str("key", d.prefix+":"+id.String()).Msg("lock contention: could not obtain redis lock")
		}
		return nil, err
	}

	return func() {
		if err := lock.Release(ctx); err != nil && err != redislock.ErrLockNotHeld {
			log.Warn().Err(err).Str("key", d.prefix+":"+id.String()).Msg("failed to release redis lock")
		}
		d.local.Unlock(id)
	}, nil
}
