package allotment

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jakechorley/seat-allotment/pkg/core/model"
)

// SeatKey identifies one seat bucket
type SeatKey struct {
	Group    string
	Type     string
	College  string
	Course   string
	Category model.Category
}

func (k SeatKey) String() string {
	return fmt.Sprintf("%s/%s/%s/%s/%s", k.Group, k.Type, k.College, k.Course, k.Category)
}

// baseKey is a seat key without its category: one physical seat allocation
type baseKey struct {
	Group   string
	Type    string
	College string
	Course  string
}

func (k SeatKey) base() baseKey {
	return baseKey{Group: k.Group, Type: k.Type, College: k.College, Course: k.Course}
}

// SeatPool tracks remaining capacity per seat bucket.
// It is not safe for concurrent use: a run has exactly one writer.
type SeatPool struct {
	remaining map[SeatKey]int
	byBase    map[baseKey][]SeatKey
}

// NewSeatPool builds a pool from raw seat rows, summing counts of rows that share a key.
// Negative counts are treated as zero.
func NewSeatPool(rows []model.SeatRow) *SeatPool {
	pool := &SeatPool{
		remaining: make(map[SeatKey]int),
		byBase:    make(map[baseKey][]SeatKey),
	}

	for _, row := range rows {
		key := SeatKey{
			Group:    normalizeField(row.Group),
			Type:     normalizeField(row.Type),
			College:  normalizeField(row.College),
			Course:   normalizeField(row.Course),
			Category: model.NormalizeCategory(string(row.Category)),
		}

		if _, exists := pool.remaining[key]; !exists {
			pool.byBase[key.base()] = append(pool.byBase[key.base()], key)
		}
		pool.remaining[key] += max(row.Seats, 0)
	}

	return pool
}

// Remaining returns the capacity left in a bucket (0 if the bucket does not exist)
func (p *SeatPool) Remaining(key SeatKey) int {
	return p.remaining[key]
}

// Consume takes one seat from a bucket.
// Callers must check Remaining first; consuming from an empty bucket is a bug and panics.
func (p *SeatPool) Consume(key SeatKey) {
	if p.remaining[key] <= 0 {
		panic(fmt.Sprintf("seat pool: consume from empty bucket %s", key))
	}
	p.remaining[key]--
}

// Buckets returns every bucket of the given seat allocation, across all categories,
// in the order they were first seen.
func (p *SeatPool) Buckets(group, typ, college, course string) []SeatKey {
	return p.byBase[baseKey{Group: group, Type: typ, College: college, Course: course}]
}

// Snapshot copies the current remaining capacity of every bucket
func (p *SeatPool) Snapshot() map[SeatKey]int {
	snapshot := make(map[SeatKey]int, len(p.remaining))
	for key, count := range p.remaining {
		snapshot[key] = count
	}
	return snapshot
}

// Keys returns all bucket keys in a stable order
func (p *SeatPool) Keys() []SeatKey {
	keys := make([]SeatKey, 0, len(p.remaining))
	for key := range p.remaining {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})
	return keys
}

// Total returns the sum of remaining capacity across all buckets
func (p *SeatPool) Total() int {
	total := 0
	for _, count := range p.remaining {
		total += count
	}
	return total
}

func normalizeField(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
