package idgen

import (
	"fmt"
	"sync"
	"time"
)

// Layout: 41 bits of milliseconds since Epoch, 5 datacenter bits, 5 worker bits, 12 sequence bits.
const (
	workerIDBits     = 5
	datacenterIDBits = 5
	sequenceBits     = 12

	maxWorkerID     = 1<<workerIDBits - 1
	maxDatacenterID = 1<<datacenterIDBits - 1
	maxSequence     = 1<<sequenceBits - 1

	workerIDShift     = sequenceBits
	datacenterIDShift = sequenceBits + workerIDBits
	timestampShift    = sequenceBits + workerIDBits + datacenterIDBits
)

// Epoch is 2024-01-01T00:00:00Z in unix milliseconds.
const Epoch int64 = 1704067200000

type Generator struct {
	mu            sync.Mutex
	datacenterID  int64
	workerID      int64
	sequence      int64
	lastTimestamp int64
	now           func() time.Time
}

func NewGenerator(datacenterID, workerID int64) (*Generator, error) {
	if datacenterID < 0 || datacenterID > maxDatacenterID {
		return nil, fmt.Errorf("datacenter ID must be between 0 and %d", maxDatacenterID)
	}
	if workerID < 0 || workerID > maxWorkerID {
		return nil, fmt.Errorf("worker ID must be between 0 and %d", maxWorkerID)
	}

	return &Generator{
		datacenterID:  datacenterID,
		workerID:      workerID,
		lastTimestamp: -1,
		now:           time.Now,
	}, nil
}

func (g *Generator) NextID() (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ts := g.elapsed()
	if ts < g.lastTimestamp {
		return 0, fmt.Errorf("clock moved backwards by %dms", g.lastTimestamp-ts)
	}

	if ts == g.lastTimestamp {
		g.sequence = (g.sequence + 1) & maxSequence
		if g.sequence == 0 {
			for ts <= g.lastTimestamp {
				ts = g.elapsed()
			}
		}
	} else {
		g.sequence = 0
	}
	g.lastTimestamp = ts

	return ts<<timestampShift |
		g.datacenterID<<datacenterIDShift |
		g.workerID<<workerIDShift |
		g.sequence, nil
}

func (g *Generator) elapsed() int64 {
	return g.now().UnixMilli() - Epoch
}
