// Package stats tracks operational counters for an imgfs store - requests
// served, bytes served, lazy-resizes performed, dedup hits - and persists
// them to a small flat JSON file on graceful shutdown.
/*
 * Copyright (c) 2018, NVIDIA CORPORATION. All rights reserved.
 */
package stats

import (
	"sync/atomic"

	"github.com/golang/glog"
	"github.com/sdomino/scribble"
)

const (
	countersCollection = "counters"
	countersResource   = "imgfs"
)

// Counters is the persisted document: plain int64 fields so it marshals
// to and from scribble's flat JSON file without any custom codec.
type Counters struct {
	RequestsServed int64 `json:"requests_served"`
	BytesServed    int64 `json:"bytes_served"`
	LazyResizes    int64 `json:"lazy_resizes"`
	DedupHits      int64 `json:"dedup_hits"`
}

// Runner holds the live, atomically-updated counters plus the scribble
// driver they are flushed through. A Runner with a nil driver (NewRunner
// called with dir == "") still tracks in-memory counters; it simply never
// persists them - as in httpsrv's end-to-end tests.
type Runner struct {
	driver *scribble.Driver
	live   Counters
}

// NewRunner opens (or lazily creates) the counters document under dir. An
// empty dir disables persistence. A missing prior document is not an
// error: the Runner starts from zero counters.
func NewRunner(dir string) (*Runner, error) {
	r := &Runner{}
	if dir == "" {
		return r, nil
	}
	driver, err := scribble.New(dir, nil)
	if err != nil {
		return nil, err
	}
	r.driver = driver

	var prev Counters
	if err := driver.Read(countersCollection, countersResource, &prev); err == nil {
		r.live = prev
	}
	return r, nil
}

func (r *Runner) AddRequest()             { atomic.AddInt64(&r.live.RequestsServed, 1) }
func (r *Runner) AddBytesServed(n int64)  { atomic.AddInt64(&r.live.BytesServed, n) }
func (r *Runner) AddLazyResize()          { atomic.AddInt64(&r.live.LazyResizes, 1) }
func (r *Runner) AddDedupHit()            { atomic.AddInt64(&r.live.DedupHits, 1) }

// Snapshot returns a copy of the current counters.
func (r *Runner) Snapshot() Counters {
	return Counters{
		RequestsServed: atomic.LoadInt64(&r.live.RequestsServed),
		BytesServed:    atomic.LoadInt64(&r.live.BytesServed),
		LazyResizes:    atomic.LoadInt64(&r.live.LazyResizes),
		DedupHits:      atomic.LoadInt64(&r.live.DedupHits),
	}
}

// Flush persists the current counters, if persistence is enabled. Called
// on graceful shutdown.
func (r *Runner) Flush() {
	if r.driver == nil {
		return
	}
	snap := r.Snapshot()
	if err := r.driver.Write(countersCollection, countersResource, snap); err != nil {
		glog.Warningf("stats: flush counters: %v", err)
	}
}
