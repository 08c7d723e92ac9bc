// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package aggregator

import (
	"sort"
	"sync"
	"sync/atomic"

	"pii-scan/internal/validators/ssn"

	"github.com/cespare/xxhash/v2"
)

// DefaultShardCount is the number of independently locked shards used for
// both the per-file counts and the distinct digest set.
const DefaultShardCount = 32

// Category separates flat files from spreadsheets in the report.
type Category int

const (
	CategoryFlat Category = iota
	CategorySpreadsheet
)

func (c Category) String() string {
	switch c {
	case CategoryFlat:
		return "flat"
	case CategorySpreadsheet:
		return "spreadsheet"
	default:
		return "unknown"
	}
}

// FileFinding is the aggregate record for one file that contained at least
// one SSN. Count is the number of matching units, not distinct SSNs.
type FileFinding struct {
	File     string
	Category Category
	Count    int
}

// Snapshot is a read of the aggregator after all producers have finished.
type Snapshot struct {
	// Findings are ordered by first discovery.
	Findings     []FileFinding
	DistinctSSNs int
}

// FilesWithSSNs returns the number of files with at least one match.
func (s Snapshot) FilesWithSSNs() int {
	return len(s.Findings)
}

// TotalMatches returns the sum of all per-file counts.
func (s Snapshot) TotalMatches() int {
	total := 0
	for _, f := range s.Findings {
		total += f.Count
	}
	return total
}

// Find returns the finding for file, if any.
func (s Snapshot) Find(file string) (FileFinding, bool) {
	for _, f := range s.Findings {
		if f.File == file {
			return f, true
		}
	}
	return FileFinding{}, false
}

// ByCategory returns the findings of one category in discovery order.
func (s Snapshot) ByCategory(c Category) []FileFinding {
	var out []FileFinding
	for _, f := range s.Findings {
		if f.Category == c {
			out = append(out, f)
		}
	}
	return out
}

type fileEntry struct {
	seq      uint64
	category Category
	count    int
}

type fileShard struct {
	mu    sync.Mutex
	files map[string]*fileEntry
}

type digestShard struct {
	mu      sync.Mutex
	digests map[ssn.Digest]struct{}
}

// Aggregator is the concurrency-safe store of per-file match counts and the
// set of distinct SSN digests. Keys are spread over shards so that records
// for unrelated files or digests do not contend on one lock.
type Aggregator struct {
	files    []*fileShard
	digests  []*digestShard
	seq      atomic.Uint64
	distinct atomic.Int64
}

// New creates an empty aggregator with DefaultShardCount shards.
func New() *Aggregator {
	return NewWithShards(DefaultShardCount)
}

// NewWithShards creates an empty aggregator. A shard count below one is
// treated as one, which degrades to a single lock per map.
func NewWithShards(n int) *Aggregator {
	if n < 1 {
		n = 1
	}
	a := &Aggregator{
		files:   make([]*fileShard, n),
		digests: make([]*digestShard, n),
	}
	for i := 0; i < n; i++ {
		a.files[i] = &fileShard{files: make(map[string]*fileEntry)}
		a.digests[i] = &digestShard{digests: make(map[ssn.Digest]struct{})}
	}
	return a
}

// Record stores one matching unit from fileID. It returns true when raw is
// the first occurrence of its SSN in this run.
func (a *Aggregator) Record(fileID string, category Category, raw string) bool {
	isNew := a.insertDigest(ssn.CanonicalizeAndHash(raw))
	a.incrementFile(fileID, category)
	return isNew
}

func (a *Aggregator) insertDigest(d ssn.Digest) bool {
	shard := a.digests[a.index(string(d))]

	shard.mu.Lock()
	defer shard.mu.Unlock()

	if _, seen := shard.digests[d]; seen {
		return false
	}
	shard.digests[d] = struct{}{}
	a.distinct.Add(1)
	return true
}

func (a *Aggregator) incrementFile(fileID string, category Category) {
	shard := a.files[a.index(fileID)]

	shard.mu.Lock()
	defer shard.mu.Unlock()

	if entry, ok := shard.files[fileID]; ok {
		entry.count++
		return
	}
	shard.files[fileID] = &fileEntry{
		seq:      a.seq.Add(1),
		category: category,
		count:    1,
	}
}

func (a *Aggregator) index(key string) uint64 {
	return xxhash.Sum64String(key) % uint64(len(a.files))
}

// DistinctCount returns the number of distinct SSN digests recorded so far.
func (a *Aggregator) DistinctCount() int {
	return int(a.distinct.Load())
}

// Len returns the number of files with at least one recorded match.
func (a *Aggregator) Len() int {
	n := 0
	for _, shard := range a.files {
		shard.mu.Lock()
		n += len(shard.files)
		shard.mu.Unlock()
	}
	return n
}

// Snapshot collects every finding. The result is only guaranteed to be
// consistent across fields once all producers have returned.
func (a *Aggregator) Snapshot() Snapshot {
	type ordered struct {
		seq uint64
		FileFinding
	}
	var all []ordered
	for _, shard := range a.files {
		shard.mu.Lock()
		for file, entry := range shard.files {
			all = append(all, ordered{
				seq:         entry.seq,
				FileFinding: FileFinding{File: file, Category: entry.category, Count: entry.count},
			})
		}
		shard.mu.Unlock()
	}
	sort.Slice(all, func(i, j int) bool { return all[i].seq < all[j].seq })

	findings := make([]FileFinding, len(all))
	for i, o := range all {
		findings[i] = o.FileFinding
	}
	return Snapshot{
		Findings:     findings,
		DistinctSSNs: a.DistinctCount(),
	}
}
