package idgen

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestNewGenerator_Bounds(t *testing.T) {
	tests := []struct {
		datacenter, worker int64
		wantErr            bool
	}{
		{0, 0, false},
		{31, 31, false},
		{-1, 0, true},
		{32, 0, true},
		{0, -1, true},
		{0, 32, true},
	}

	for _, tt := range tests {
		_, err := NewGenerator(tt.datacenter, tt.worker)
		if (err != nil) != tt.wantErr {
			t.Errorf("NewGenerator(%d, %d) error = %v, wantErr %v", tt.datacenter, tt.worker, err, tt.wantErr)
		}
	}
}

func TestNextID_Layout(t *testing.T) {
	g, err := NewGenerator(3, 7)
	if err != nil {
		t.Fatal(err)
	}
	fixed := time.Date(2025, 4, 2, 8, 30, 0, 0, time.UTC)
	g.now = func() time.Time { return fixed }

	first, err := g.NextID()
	if err != nil {
		t.Fatal(err)
	}
	second, err := g.NextID()
	if err != nil {
		t.Fatal(err)
	}

	if got := second >> timestampShift; got != fixed.UnixMilli()-Epoch {
		t.Errorf("expected %d ms since epoch, got %d", fixed.UnixMilli()-Epoch, got)
	}
	if dc, w := (second>>datacenterIDShift)&maxDatacenterID, (second>>workerIDShift)&maxWorkerID; dc != 3 || w != 7 {
		t.Errorf("expected datacenter 3 worker 7, got %d %d", dc, w)
	}
	if second-first != 1 {
		t.Errorf("expected sequence to advance by 1 within the same millisecond, got %d then %d", first, second)
	}
}

func TestNextID_ClockBackwards(t *testing.T) {
	g, _ := NewGenerator(1, 1)
	now := time.Date(2025, 4, 2, 8, 30, 0, 0, time.UTC)
	g.now = func() time.Time { return now }

	if _, err := g.NextID(); err != nil {
		t.Fatal(err)
	}

	now = now.Add(-time.Second)
	if _, err := g.NextID(); err == nil {
		t.Error("expected error when the clock moves backwards")
	}
}

func TestNextID_ConcurrentUnique(t *testing.T) {
	g, _ := NewGenerator(1, 1)

	const workers, perWorker = 8, 500
	ids := make(chan int64, workers*perWorker)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				id, err := g.NextID()
				if err != nil {
					t.Errorf("NextID failed: %v", err)
					return
				}
				ids <- id
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool, workers*perWorker)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
	}
}

func TestStudentNumber(t *testing.T) {
	g, _ := NewGenerator(1, 2)

	number, err := g.StudentNumber()
	if err != nil {
		t.Fatal(err)
	}
	encoded, ok := strings.CutPrefix(number, "S-")
	if !ok || encoded == "" {
		t.Fatalf("expected S- prefix, got %q", number)
	}
	for _, r := range encoded {
		if !strings.ContainsRune(base62Chars, r) {
			t.Errorf("unexpected character %q in %q", r, number)
		}
	}

	next, err := g.StudentNumber()
	if err != nil {
		t.Fatal(err)
	}
	if next == number {
		t.Errorf("expected distinct numbers, both were %q", number)
	}
}

func BenchmarkNextID(b *testing.B) {
	g, _ := NewGenerator(1, 1)
	for i := 0; i < b.N; i++ {
		g.NextID()
	}
}
