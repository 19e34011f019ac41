package systems

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/spaghettifunk/quadn/engine/core"
	"github.com/spaghettifunk/quadn/engine/renderer/metadata"
)

var (
	ErrNoWorkers           = errors.New("attempting to create worker pool with less than 1 worker")
	ErrNegativeChannelSize = errors.New("attempting to create worker pool with a negative channel size")
	ErrJobSystemStopped    = errors.New("job system is shut down")
	ErrJobWithoutStart     = errors.New("job has no start function")
	ErrJobQueueFull        = errors.New("job queue is full")
)

/**
 * @brief Runs jobs on a pool of worker goroutines. Results are queued
 * and handed to OnComplete/OnFailure from Update, which is called on the
 * main thread once per frame.
 */
type JobSystem struct {
	numWorkers int
	jobQueue   chan metadata.JobTask
	results    chan metadata.JobResultEntry
	wg         sync.WaitGroup

	nextID  atomic.Uint64
	pending atomic.Int64

	mutex   sync.RWMutex
	stopped bool
}

func NewJobSystem(numWorkers int, channelSize int) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, ErrNegativeChannelSize
	}

	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   make(chan metadata.JobTask, channelSize),
		results:    make(chan metadata.JobResultEntry, metadata.MAX_JOB_RESULTS),
	}
	js.start()

	core.LogInfo("Job system started with %d workers.", numWorkers)
	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func() {
			defer js.wg.Done()
			for job := range js.jobQueue {
				js.results <- js.run(job)
			}
		}()
	}
}

func (js *JobSystem) run(job metadata.JobTask) (entry metadata.JobResultEntry) {
	entry = metadata.JobResultEntry{
		ID:   js.nextID.Add(1),
		Task: job,
	}
	defer func() {
		if r := recover(); r != nil {
			entry.Err = fmt.Errorf("job `%s` panicked: %v", job.Name, r)
		}
	}()
	entry.Result, entry.Err = job.OnStart()
	return entry
}

/**
 * @brief Shuts the job system down. Queued jobs still run, but their
 * results are dropped.
 */
func (js *JobSystem) Shutdown() error {
	js.mutex.Lock()
	if js.stopped {
		js.mutex.Unlock()
		return nil
	}
	js.stopped = true
	close(js.jobQueue)
	js.mutex.Unlock()

	done := make(chan struct{})
	go func() {
		js.wg.Wait()
		close(done)
	}()
	for {
		select {
		case entry := <-js.results:
			core.LogDebug("Dropping result of job `%s` on shutdown.", entry.Task.Name)
			js.pending.Add(-1)
		case <-done:
			return nil
		}
	}
}

/**
 * @brief Updates the job system. Should happen once an update cycle.
 * Delivers the completions of finished jobs on the calling goroutine.
 */
func (js *JobSystem) Update() {
	for i := 0; i < metadata.MAX_JOB_RESULTS; i++ {
		select {
		case entry := <-js.results:
			js.pending.Add(-1)
			js.deliver(entry)
		default:
			return
		}
	}
}

func (js *JobSystem) deliver(entry metadata.JobResultEntry) {
	if entry.Err != nil {
		core.LogError("job `%s` failed: %s", entry.Task.Name, entry.Err)
		if entry.Task.OnFailure != nil {
			entry.Task.OnFailure(entry.Err)
		}
		return
	}
	if entry.Task.OnComplete != nil {
		entry.Task.OnComplete(entry.Result)
	}
}

/**
 * @brief Submits the provided job to be queued for execution. Never
 * blocks: a full queue is reported as ErrJobQueueFull.
 * @param jt The description of the job to be executed.
 */
func (js *JobSystem) Submit(jt metadata.JobTask) error {
	if jt.OnStart == nil {
		return ErrJobWithoutStart
	}
	js.mutex.RLock()
	defer js.mutex.RUnlock()
	if js.stopped {
		return ErrJobSystemStopped
	}
	js.pending.Add(1)
	select {
	case js.jobQueue <- jt:
		return nil
	default:
		js.pending.Add(-1)
		return ErrJobQueueFull
	}
}

// Pending returns the number of submitted jobs whose completion has not
// been delivered yet.
func (js *JobSystem) Pending() int {
	return int(js.pending.Load())
}
