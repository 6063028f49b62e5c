package session

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeTimer records scheduled reverts so tests can fire them on demand.
type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	wasActive := !t.stopped
	t.stopped = true
	return wasActive
}

type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{d: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

// fire runs timer i as if its duration elapsed, even when stopped, to
// simulate a revert that was already in flight.
func (s *fakeScheduler) fire(i int) {
	s.mu.Lock()
	t := s.timers[i]
	s.mu.Unlock()
	t.f()
}

func newTestStore(sched *fakeScheduler, opts ...Option) *Store {
	n := 0
	base := []Option{
		WithAfterFunc(sched.AfterFunc),
		WithClock(func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("doc-%d", n)
		}),
	}
	return New(append(base, opts...)...)
}

// ---------------------------------------------------------------------------
// TestStore_Transitions - Idle -> Loading -> Displayed/Failed
// ---------------------------------------------------------------------------

func TestStore_InitialState(t *testing.T) {
	t.Parallel()

	s := newTestStore(&fakeScheduler{})
	snap := s.Snapshot()

	if snap.Phase != Idle || snap.PhaseName != "idle" {
		t.Errorf("Phase = %v (%q), want idle", snap.Phase, snap.PhaseName)
	}
	if snap.HasDocument() {
		t.Error("new store should have no document")
	}
	if snap.CopyLabel != IdleLabel {
		t.Errorf("CopyLabel = %q, want %q", snap.CopyLabel, IdleLabel)
	}
	if _, ok := s.Document(); ok {
		t.Error("Document() reported a document before any upload")
	}
}

func TestStore_UploadSuccess(t *testing.T) {
	t.Parallel()

	s := newTestStore(&fakeScheduler{})

	s.BeginUpload()
	if snap := s.Snapshot(); snap.Phase != Loading || !snap.Loading {
		t.Fatalf("after BeginUpload: phase=%v loading=%v", snap.Phase, snap.Loading)
	}

	id := s.Complete("<p><strong>A</strong>x</p>")
	snap := s.Snapshot()
	if snap.Phase != Displayed || snap.Loading {
		t.Errorf("after Complete: phase=%v loading=%v", snap.Phase, snap.Loading)
	}
	if id != "doc-1" || snap.DocumentID != id {
		t.Errorf("DocumentID = %q (returned %q), want doc-1", snap.DocumentID, id)
	}
	if snap.Document != "<p><strong>A</strong>x</p>" {
		t.Errorf("Document = %q", snap.Document)
	}
}

func TestStore_UploadFailureKeepsPreviousDocument(t *testing.T) {
	t.Parallel()

	s := newTestStore(&fakeScheduler{})
	s.BeginUpload()
	s.Complete("<p>old</p>")

	s.BeginUpload()
	s.Fail("Dosya okuma hatası: broken")

	snap := s.Snapshot()
	if snap.Phase != Failed || snap.Loading {
		t.Errorf("phase=%v loading=%v, want failed and not loading", snap.Phase, snap.Loading)
	}
	if snap.Error != "Dosya okuma hatası: broken" {
		t.Errorf("Error = %q", snap.Error)
	}
	if snap.Document != "<p>old</p>" || snap.DocumentID != "doc-1" {
		t.Errorf("previous document lost: %q (%s)", snap.Document, snap.DocumentID)
	}
}

func TestStore_RejectLeavesDocumentUnchanged(t *testing.T) {
	t.Parallel()

	s := newTestStore(&fakeScheduler{})
	s.BeginUpload()
	s.Complete("<p>kept</p>")

	s.Reject("Lütfen sadece .docx dosyası yükleyin")

	snap := s.Snapshot()
	if snap.Document != "<p>kept</p>" || snap.DocumentID != "doc-1" {
		t.Errorf("document changed on reject: %q (%s)", snap.Document, snap.DocumentID)
	}
	if snap.Phase != Displayed {
		t.Errorf("Phase = %v, want displayed", snap.Phase)
	}
	if snap.Error != "Lütfen sadece .docx dosyası yükleyin" {
		t.Errorf("Error = %q", snap.Error)
	}
}

func TestStore_BeginUploadClearsErrorAndStatus(t *testing.T) {
	t.Parallel()

	sched := &fakeScheduler{}
	s := newTestStore(sched)
	s.BeginUpload()
	s.Complete("<p>x</p>")
	s.ShowStatus("Kopyalandı!")
	s.Reject("bad")

	s.BeginUpload()

	snap := s.Snapshot()
	if snap.Error != "" || snap.Status != "" {
		t.Errorf("error=%q status=%q, want both cleared", snap.Error, snap.Status)
	}
	if !sched.timers[0].stopped {
		t.Error("pending status revert should be stopped")
	}
}

func TestStore_OverlappingUploadsLastCompletedWins(t *testing.T) {
	t.Parallel()

	s := newTestStore(&fakeScheduler{})
	s.BeginUpload()
	s.BeginUpload()

	s.Complete("<p>second</p>")
	if snap := s.Snapshot(); !snap.Loading || snap.Phase != Loading {
		t.Errorf("one upload still in flight: loading=%v phase=%v", snap.Loading, snap.Phase)
	}

	s.Complete("<p>first</p>")
	snap := s.Snapshot()
	if snap.Loading || snap.Phase != Displayed {
		t.Errorf("loading=%v phase=%v, want displayed", snap.Loading, snap.Phase)
	}
	if snap.Document != "<p>first</p>" {
		t.Errorf("Document = %q, want the last completed", snap.Document)
	}
}

// ---------------------------------------------------------------------------
// TestStore_Status - Transient export status
// ---------------------------------------------------------------------------

func TestStore_StatusRevertsToIdleLabel(t *testing.T) {
	t.Parallel()

	sched := &fakeScheduler{}
	s := newTestStore(sched)

	s.ShowStatus("Kopyalandı!")
	if got := s.CopyLabel(); got != "Kopyalandı!" {
		t.Fatalf("CopyLabel = %q, want Kopyalandı!", got)
	}
	if len(sched.timers) != 1 || sched.timers[0].d != DefaultStatusDuration {
		t.Fatalf("expected one revert scheduled after %v", DefaultStatusDuration)
	}

	sched.fire(0)
	if got := s.CopyLabel(); got != IdleLabel {
		t.Errorf("CopyLabel after revert = %q, want %q", got, IdleLabel)
	}
}

func TestStore_StaleRevertDoesNotClearNewerStatus(t *testing.T) {
	t.Parallel()

	sched := &fakeScheduler{}
	s := newTestStore(sched)

	s.ShowStatus("Kopyalama başarısız")
	s.ShowStatus("Kopyalandı!")

	if !sched.timers[0].stopped {
		t.Error("first revert should be stopped by the second status")
	}

	sched.fire(0)
	if got := s.CopyLabel(); got != "Kopyalandı!" {
		t.Errorf("stale revert cleared newer status: label = %q", got)
	}

	sched.fire(1)
	if got := s.CopyLabel(); got != IdleLabel {
		t.Errorf("CopyLabel = %q, want %q", got, IdleLabel)
	}
}

func TestStore_ExpireStatusVersion(t *testing.T) {
	t.Parallel()

	s := newTestStore(&fakeScheduler{})
	v := s.ShowStatus("Kopyalandı!")

	if s.ExpireStatus(v + 1) {
		t.Error("ExpireStatus with a future version should be a no-op")
	}
	if !s.ExpireStatus(v) {
		t.Error("ExpireStatus with the current version should clear")
	}
	if s.ExpireStatus(v) {
		t.Error("second ExpireStatus should report nothing cleared")
	}
}

func TestStore_CustomStatusDuration(t *testing.T) {
	t.Parallel()

	sched := &fakeScheduler{}
	s := newTestStore(sched, WithStatusDuration(500*time.Millisecond))
	s.ShowStatus("Kopyalandı!")

	if sched.timers[0].d != 500*time.Millisecond {
		t.Errorf("duration = %v, want 500ms", sched.timers[0].d)
	}
}

func TestWithStatusDuration_PanicsOnNonPositive(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("expected panic for zero duration")
		}
	}()
	WithStatusDuration(0)
}

func TestStore_RealTimerReverts(t *testing.T) {
	t.Parallel()

	s := New(WithStatusDuration(10 * time.Millisecond))
	defer s.Close()

	s.ShowStatus("Kopyalandı!")
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.CopyLabel() == IdleLabel {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Errorf("status did not revert, label = %q", s.CopyLabel())
}

func TestStore_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	s := New()
	defer s.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.BeginUpload()
			if i%3 == 0 {
				s.Fail("err")
			} else {
				s.Complete(fmt.Sprintf("<p>%d</p>", i))
			}
			s.ShowStatus("Kopyalandı!")
			_ = s.Snapshot()
		}(i)
	}
	wg.Wait()

	if snap := s.Snapshot(); snap.Loading {
		t.Error("all uploads finished but store still loading")
	}
}

func TestPhase_String(t *testing.T) {
	t.Parallel()

	want := map[Phase]string{Idle: "idle", Loading: "loading", Displayed: "displayed", Failed: "failed"}
	for p, name := range want {
		if p.String() != name {
			t.Errorf("Phase(%d).String() = %q, want %q", p, p.String(), name)
		}
	}
}
