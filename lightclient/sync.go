// Copyright 2025 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package lightclient orchestrates the protocol package's predicates into
// the single state transition a light client performs on every new block:
// advance the trusted head and, at an epoch boundary, adopt the next
// epoch's block producer set. It is the composition root the rest of the
// codebase exists to serve; orchestration and instrumentation live here so
// the protocol package itself can stay pure.
package lightclient

import (
	"time"

	"near-light-verifier/cache"
	protoerrors "near-light-verifier/errors"
	"near-light-verifier/logging"
	"near-light-verifier/protocol"
	"near-light-verifier/types"
)

// Client advances a trusted head across blocks, memoizing results in an
// optional sync cache and emitting step-level traces through logger.
type Client struct {
	logger   *logging.Logger
	cache    *cache.SyncCache
	metrics  *types.Metrics
	maxSeats int
}

// Option configures a Client.
type Option func(*Client)

// WithLogger attaches a logger used to trace the step that rejects a sync and
// the completion of a successful one; passing steps are not logged
// individually.
func WithLogger(logger *logging.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithCache attaches a sync-memo cache consulted before, and populated
// after, every Sync call.
func WithCache(syncCache *cache.SyncCache) Option {
	return func(c *Client) { c.cache = syncCache }
}

// WithMaxBlockProducerSeats overrides the number of (approval, block
// producer) pairs considered during signature validation. Intended for test
// harnesses exercising a smaller seat count than types.NumBlockProducerSeats;
// production callers should leave this unset.
func WithMaxBlockProducerSeats(n int) Option {
	return func(c *Client) { c.maxSeats = n }
}

// NewClient builds a Client. With no options it logs nowhere, never
// memoizes, and caps signature validation at types.NumBlockProducerSeats,
// matching a pure, cache-free invocation of Sync.
func NewClient(opts ...Option) *Client {
	c := &Client{metrics: types.NewMetrics(), maxSeats: types.NumBlockProducerSeats}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Metrics returns a copy of the client's sync metrics.
func (c *Client) Metrics() *types.Metrics {
	m := *c.metrics
	return &m
}

// Sync advances head by one block, following the fixed nine-step ordering:
// height progress, epoch admissibility, new-epoch bps presence, new_head
// derivation, approval message reconstruction, stake accumulation,
// super-majority check, next-bps hash binding, and finally the Synced
// result. Any step's failure aborts with that step's error and no partial
// state; epochBPs is the block producer set active in head's current
// epoch, the set whose signatures are checked against nextBlock.
func (c *Client) Sync(head types.Header, epochBPs []types.ValidatorStake, nextBlock types.LightClientBlockView) (types.Synced, error) {
	if c.cache != nil {
		if cached, ok := c.cache.Get(head.Hash(), nextBlock.Header().Hash()); ok {
			return cached, nil
		}
	}

	start := time.Now()

	result, err := c.sync(head, epochBPs, nextBlock)
	latency := time.Since(start)
	c.metrics.RecordSyncAttempt(latency.Milliseconds())

	if err != nil {
		c.metrics.RecordSyncFailure()
		return types.Synced{}, err
	}

	c.metrics.RecordSyncSuccess()
	if c.cache != nil {
		c.cache.Store(head.Hash(), nextBlock.Header().Hash(), result)
	}
	if c.logger != nil {
		c.logger.LogSyncStep("sync", true, latency,
			logging.Field{Key: "new_height", Value: uint64(result.NewHead.InnerLite.Height)},
			logging.Field{Key: "epoch_changed", Value: result.NextBPs != nil},
		)
	}
	return result, nil
}

func (c *Client) sync(head types.Header, epochBPs []types.ValidatorStake, nextBlock types.LightClientBlockView) (types.Synced, error) {
	// P1 — height progress.
	if err := protocol.EnsureNotAlreadyVerified(head.InnerLite.Height, nextBlock.InnerLite.Height); err != nil {
		c.traceStep("ensure_not_already_verified", err)
		return types.Synced{}, err
	}

	// P2 — epoch admissibility.
	if err := protocol.EnsureEpochIsCurrentOrNext(head.InnerLite.EpochID, head.InnerLite.NextEpochID, nextBlock.InnerLite.EpochID); err != nil {
		c.traceStep("ensure_epoch_is_current_or_next", err)
		return types.Synced{}, err
	}

	// P3 — new-epoch bps presence.
	if err := protocol.EnsureIfNextEpochContainsNextBPs(head.InnerLite.NextEpochID, nextBlock.InnerLite.EpochID, nextBlock.NextBPs); err != nil {
		c.traceStep("ensure_if_next_epoch_contains_next_bps", err)
		return types.Synced{}, err
	}

	// Step 4 — derive new_head from next_block's own three inner fields.
	newHead := nextBlock.Header()

	// P5 — approval message reconstruction.
	message := protocol.ReconstructApprovalMessage(nextBlock)

	// P7 — stake accumulation, zipping approvals against the current
	// epoch's block producers.
	stakeInfo := protocol.ValidateSignatures(nextBlock.ApprovalsAfterNext, epochBPs, message, c.maxSeats)

	// P8 — super-majority.
	if err := protocol.EnsureStakeIsSufficient(stakeInfo); err != nil {
		c.traceStep("ensure_stake_is_sufficient", err)
		return types.Synced{}, err
	}

	// P4 — next-bps hash binding.
	if err := protocol.EnsureNextBPsIsValid(nextBlock.NextBPs, nextBlock.InnerLite.NextBPHash); err != nil {
		c.traceStep("ensure_next_bps_is_valid", err)
		return types.Synced{}, err
	}

	synced := types.Synced{NewHead: newHead}
	if nextBlock.NextBPs != nil {
		synced.NextEpochID = head.InnerLite.NextEpochID
		synced.NextBPs = nextBlock.NextBPs
	}
	return synced, nil
}

func (c *Client) traceStep(step string, err error) {
	if c.logger == nil {
		return
	}
	logger := c.logger
	if pe, ok := protoerrors.As(err); ok {
		logger = logger.WithError(pe)
	}
	logger.LogSyncStep(step, false, 0)
}
