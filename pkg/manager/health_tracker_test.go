package manager

import (
	"errors"
	"testing"

	"aria-hq/chatbridge/pkg/providers"
)

func TestHealthTrackerEligibility(t *testing.T) {
	authErr := &providers.AuthError{Provider: "p", Message: "bad key"}
	connErr := &providers.ConnectionError{Provider: "p", Message: "timeout"}

	t.Run("fresh provider is eligible", func(t *testing.T) {
		tr := NewHealthTracker([]string{"p"}, 3)
		if !tr.Eligible("p") {
			t.Error("expected a fresh provider to be eligible")
		}
	})

	t.Run("unknown provider is not eligible", func(t *testing.T) {
		tr := NewHealthTracker([]string{"p"}, 3)
		if tr.Eligible("ghost") {
			t.Error("expected unknown provider to be ineligible")
		}
	})

	t.Run("fatal failures past the threshold disqualify", func(t *testing.T) {
		tr := NewHealthTracker([]string{"p"}, 3)
		for i := 0; i < 4; i++ {
			tr.RecordFailure("p", authErr)
		}
		if tr.Eligible("p") {
			t.Error("expected ineligibility after fatal failures past the threshold")
		}
	})

	t.Run("fatal failures at the threshold remain eligible", func(t *testing.T) {
		tr := NewHealthTracker([]string{"p"}, 3)
		for i := 0; i < 3; i++ {
			tr.RecordFailure("p", authErr)
		}
		if !tr.Eligible("p") {
			t.Error("expected eligibility while within the threshold")
		}
	})

	t.Run("transient failures never disqualify", func(t *testing.T) {
		tr := NewHealthTracker([]string{"p"}, 3)
		for i := 0; i < 20; i++ {
			tr.RecordFailure("p", connErr)
		}
		if !tr.Eligible("p") {
			t.Error("transient failures must not remove eligibility")
		}
	})

	t.Run("a transient failure after fatal ones resets the class", func(t *testing.T) {
		tr := NewHealthTracker([]string{"p"}, 2)
		tr.RecordFailure("p", authErr)
		tr.RecordFailure("p", authErr)
		tr.RecordFailure("p", connErr)
		// The run is past the threshold but the last failure is transient.
		if !tr.Eligible("p") {
			t.Error("only a fatal last failure disqualifies")
		}
	})
}

func TestHealthTrackerSuccessResetsRun(t *testing.T) {
	authErr := &providers.AuthError{Provider: "p"}
	tr := NewHealthTracker([]string{"p"}, 1)

	tr.RecordFailure("p", authErr)
	tr.RecordFailure("p", authErr)
	if tr.Eligible("p") {
		t.Fatal("expected ineligibility")
	}

	tr.RecordSuccess("p")
	if !tr.Eligible("p") {
		t.Error("a success must restore eligibility")
	}

	snap := tr.Snapshot()["p"]
	if snap.ConsecutiveFailures != 0 {
		t.Errorf("ConsecutiveFailures = %d after success, want 0", snap.ConsecutiveFailures)
	}
	if snap.Failures != 2 || snap.Successes != 1 {
		t.Errorf("cumulative counters wrong: %+v", snap)
	}
}

func TestHealthTrackerReset(t *testing.T) {
	authErr := &providers.AuthError{Provider: "p"}
	tr := NewHealthTracker([]string{"p"}, 0)

	tr.RecordFailure("p", authErr)
	if tr.Eligible("p") {
		t.Fatal("expected ineligibility with threshold 0")
	}

	tr.Reset("p")
	if !tr.Eligible("p") {
		t.Error("Reset must restore eligibility")
	}

	// Cumulative history survives a reset.
	if snap := tr.Snapshot()["p"]; snap.Failures != 1 {
		t.Errorf("Failures = %d after reset, want 1", snap.Failures)
	}
}

func TestHealthTrackerRecordsKind(t *testing.T) {
	tr := NewHealthTracker([]string{"p"}, 3)

	tr.RecordFailure("p", &providers.QuotaError{Provider: "p"})
	snap := tr.Snapshot()["p"]

	if snap.LastFailureKind != "quota" {
		t.Errorf("LastFailureKind = %q, want quota", snap.LastFailureKind)
	}
	if snap.LastFailureClass != providers.ClassFatal {
		t.Errorf("LastFailureClass = %v, want fatal", snap.LastFailureClass)
	}
	if snap.LastFailureAt.IsZero() {
		t.Error("LastFailureAt not stamped")
	}

	tr.RecordFailure("p", errors.New("mystery"))
	if snap := tr.Snapshot()["p"]; snap.LastFailureKind != "other" {
		t.Errorf("LastFailureKind = %q, want other", snap.LastFailureKind)
	}
}

func TestHealthTrackerSnapshotIsCopy(t *testing.T) {
	tr := NewHealthTracker([]string{"p"}, 3)
	snap := tr.Snapshot()

	s := snap["p"]
	s.Failures = 99
	snap["p"] = s

	if tr.Snapshot()["p"].Failures != 0 {
		t.Error("snapshot mutation leaked into the tracker")
	}
}
