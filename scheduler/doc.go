// Package scheduler implements Kinetic's three-phase job queue: pre,
// main, and post, flushed in that order with reference-keyed
// deduplication within each phase, grounded on
// vango/pkg/vango/batch.go's Batch/processPendingUpdates dedup-by-ID
// drain and owner.go's RunPendingEffects, generalized from a single flat
// pending list into three ordered phases per spec §4.7.
package scheduler
