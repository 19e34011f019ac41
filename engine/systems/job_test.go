package systems

import (
	"errors"
	"testing"
	"time"

	"github.com/spaghettifunk/quadn/engine/renderer/metadata"
)

// pump calls Update until done reports true or a few seconds pass.
func pump(t *testing.T, update func(), done func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !done() {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for job completions")
		}
		update()
		time.Sleep(time.Millisecond)
	}
}

func newJobSystem(t *testing.T) *JobSystem {
	t.Helper()
	js, err := NewJobSystem(2, 8)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = js.Shutdown() })
	return js
}

func TestNewJobSystemValidatesArguments(t *testing.T) {
	if _, err := NewJobSystem(0, 1); !errors.Is(err, ErrNoWorkers) {
		t.Fatalf("err = %v, want ErrNoWorkers", err)
	}
	if _, err := NewJobSystem(1, -1); !errors.Is(err, ErrNegativeChannelSize) {
		t.Fatalf("err = %v, want ErrNegativeChannelSize", err)
	}
}

func TestCompletionsAreDeliveredOnUpdate(t *testing.T) {
	js := newJobSystem(t)

	var got interface{}
	completed := false
	err := js.Submit(metadata.JobTask{
		Name:       "answer",
		OnStart:    func() (interface{}, error) { return 42, nil },
		OnComplete: func(result interface{}) { got = result; completed = true },
	})
	if err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for len(js.results) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("job never finished")
		}
		time.Sleep(time.Millisecond)
	}
	if completed {
		t.Fatal("completion ran before Update")
	}
	if js.Pending() != 1 {
		t.Fatalf("pending = %d, want 1", js.Pending())
	}

	js.Update()
	if !completed || got != 42 {
		t.Fatalf("completed = %v, result = %v", completed, got)
	}
	if js.Pending() != 0 {
		t.Fatalf("pending = %d, want 0", js.Pending())
	}
}

func TestFailuresAndPanicsReachOnFailure(t *testing.T) {
	js := newJobSystem(t)
	boom := errors.New("boom")

	var failures []error
	onFailure := func(err error) { failures = append(failures, err) }
	onComplete := func(interface{}) { t.Error("OnComplete called for a failed job") }

	if err := js.Submit(metadata.JobTask{
		Name:       "error",
		OnStart:    func() (interface{}, error) { return nil, boom },
		OnComplete: onComplete,
		OnFailure:  onFailure,
	}); err != nil {
		t.Fatal(err)
	}
	if err := js.Submit(metadata.JobTask{
		Name:       "panic",
		OnStart:    func() (interface{}, error) { panic("bad") },
		OnComplete: onComplete,
		OnFailure:  onFailure,
	}); err != nil {
		t.Fatal(err)
	}

	pump(t, js.Update, func() bool { return len(failures) == 2 })
	sawBoom := false
	for _, err := range failures {
		if errors.Is(err, boom) {
			sawBoom = true
		}
	}
	if !sawBoom {
		t.Fatalf("failures = %v, want one wrapping boom", failures)
	}
}

func TestSubmitAfterShutdown(t *testing.T) {
	js, err := NewJobSystem(1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := js.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if err := js.Shutdown(); err != nil {
		t.Fatalf("second shutdown: %v", err)
	}
	err = js.Submit(metadata.JobTask{OnStart: func() (interface{}, error) { return nil, nil }})
	if !errors.Is(err, ErrJobSystemStopped) {
		t.Fatalf("err = %v, want ErrJobSystemStopped", err)
	}
	if err := js.Submit(metadata.JobTask{}); !errors.Is(err, ErrJobWithoutStart) {
		t.Fatalf("err = %v, want ErrJobWithoutStart", err)
	}
}

func TestSubmitReportsAFullQueue(t *testing.T) {
	js, err := NewJobSystem(1, 1)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = js.Shutdown() })

	started := make(chan struct{})
	release := make(chan struct{})
	completed := 0
	wait := metadata.JobTask{
		Name: "wait",
		OnStart: func() (interface{}, error) {
			close(started)
			<-release
			return nil, nil
		},
		OnComplete: func(interface{}) { completed++ },
	}
	queued := metadata.JobTask{
		Name:       "queued",
		OnStart:    func() (interface{}, error) { return nil, nil },
		OnComplete: func(interface{}) { completed++ },
	}

	if err := js.Submit(wait); err != nil {
		t.Fatal(err)
	}
	<-started
	if err := js.Submit(queued); err != nil {
		t.Fatal(err)
	}

	// the only worker is busy and the queue holds one job
	done := make(chan error, 1)
	go func() { done <- js.Submit(queued) }()
	select {
	case err := <-done:
		if !errors.Is(err, ErrJobQueueFull) {
			t.Fatalf("err = %v, want ErrJobQueueFull", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Submit blocked on a full queue")
	}
	if js.Pending() != 2 {
		t.Fatalf("pending = %d, want 2", js.Pending())
	}

	close(release)
	pump(t, js.Update, func() bool { return js.Pending() == 0 })
	if completed != 2 {
		t.Fatalf("completed = %d, want 2", completed)
	}
}
