package weather

import (
	"context"
	"sync"
	"testing"
)

func TestSequencerLatestWins(t *testing.T) {
	var seq Sequencer

	ctx1, t1 := seq.Begin(context.Background())
	ctx2, t2 := seq.Begin(context.Background())

	if t2.Seq <= t1.Seq {
		t.Fatalf("sequence not monotonic: %d then %d", t1.Seq, t2.Seq)
	}
	if t1.ID == "" || t1.ID == t2.ID {
		t.Fatalf("expected distinct request ids, got %q and %q", t1.ID, t2.ID)
	}
	if ctx1.Err() == nil {
		t.Fatal("first request should be canceled once a newer one begins")
	}
	if ctx2.Err() != nil {
		t.Fatal("latest request must stay live")
	}
	if seq.Finish(t1) {
		t.Fatal("stale response must be discarded")
	}
	if !seq.Finish(t2) {
		t.Fatal("latest response must be delivered")
	}
	if seq.Latest() != t2.Seq {
		t.Fatalf("Latest() = %d, want %d", seq.Latest(), t2.Seq)
	}
}

func TestSequencerOutOfOrderCompletion(t *testing.T) {
	var seq Sequencer
	_, older := seq.Begin(context.Background())
	_, newer := seq.Begin(context.Background())

	// Newer resolves first, older arrives late.
	if !seq.Finish(newer) {
		t.Fatal("newer response should be delivered")
	}
	if seq.Finish(older) {
		t.Fatal("late older response should be dropped")
	}
}

func TestSequencerConcurrentBegin(t *testing.T) {
	var seq Sequencer
	const n = 50

	var wg sync.WaitGroup
	seen := make(chan uint64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, tk := seq.Begin(context.Background())
			seen <- tk.Seq
		}()
	}
	wg.Wait()
	close(seen)

	uniq := make(map[uint64]bool)
	for s := range seen {
		if uniq[s] {
			t.Fatalf("duplicate sequence %d", s)
		}
		uniq[s] = true
	}
	if seq.Latest() != n {
		t.Fatalf("Latest() = %d, want %d", seq.Latest(), n)
	}
}

func TestSequencerStop(t *testing.T) {
	var seq Sequencer
	ctx, _ := seq.Begin(context.Background())
	seq.Stop()
	if ctx.Err() == nil {
		t.Fatal("Stop should cancel the in-flight request")
	}
}
