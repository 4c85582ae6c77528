package systems

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/trainyard/engine/containers"
	"github.com/spaghettifunk/trainyard/engine/core"
	"github.com/spaghettifunk/trainyard/engine/renderer/metadata"
)

/** @brief The job system configuration. */
type JobSystemConfig struct {
	/** @brief Number of worker goroutines. */
	NumWorkers int
	/** @brief Jobs that can wait per priority before Submit blocks. */
	QueueSize int
	/** @brief Finished jobs buffered until the next Update. */
	MaxResults int
}

/**
 * @brief Runs jobs on worker goroutines. Results are buffered and their
 * callbacks are dispatched by Update, on the goroutine that calls it.
 */
type JobSystem struct {
	config *JobSystemConfig

	queues [3]chan metadata.JobTask
	done   chan struct{}
	wg     sync.WaitGroup

	resultsMu sync.Mutex
	results   *containers.RingQueue[metadata.JobResultEntry]
	// one token per buffered result so workers never overflow the ring
	slots chan struct{}

	closeOnce sync.Once
}

var ErrNoWorkers = fmt.Errorf("attempting to create worker pool with less than 1 worker")
var ErrNegativeChannelSize = fmt.Errorf("attempting to create worker pool with a negative channel size")

func NewJobSystem(config *JobSystemConfig) (*JobSystem, error) {
	if config.NumWorkers <= 0 {
		core.LogError(ErrNoWorkers.Error())
		return nil, ErrNoWorkers
	}
	if config.QueueSize < 0 {
		core.LogError(ErrNegativeChannelSize.Error())
		return nil, ErrNegativeChannelSize
	}
	if config.MaxResults <= 0 {
		config.MaxResults = metadata.MAX_JOB_RESULTS
	}

	js := &JobSystem{
		config:  config,
		done:    make(chan struct{}),
		results: containers.NewRingQueue[metadata.JobResultEntry](config.MaxResults),
		slots:   make(chan struct{}, config.MaxResults),
	}
	for i := range js.queues {
		js.queues[i] = make(chan metadata.JobTask, config.QueueSize)
	}

	js.start()
	core.LogInfo("Job system started with %d workers.", config.NumWorkers)

	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.config.NumWorkers; i++ {
		js.wg.Add(1)
		go func() {
			defer js.wg.Done()
			for {
				job, ok := js.next()
				if !ok {
					return
				}
				result, err := js.run(job)
				if err != nil {
					core.LogDebug("job '%s' failed: %s", job.Name, err)
				}
				if !js.push(metadata.JobResultEntry{
					ID:     core.NewIdentifier(),
					Task:   job,
					Result: result,
					Err:    err,
				}) {
					return
				}
			}
		}()
	}
}

// next blocks for the highest priority job available.
func (js *JobSystem) next() (metadata.JobTask, bool) {
	high := js.queues[metadata.JOB_PRIORITY_HIGH]
	normal := js.queues[metadata.JOB_PRIORITY_NORMAL]
	low := js.queues[metadata.JOB_PRIORITY_LOW]

	select {
	case <-js.done:
		return metadata.JobTask{}, false
	case job := <-high:
		return job, true
	default:
	}
	select {
	case <-js.done:
		return metadata.JobTask{}, false
	case job := <-high:
		return job, true
	case job := <-normal:
		return job, true
	default:
	}
	select {
	case <-js.done:
		return metadata.JobTask{}, false
	case job := <-high:
		return job, true
	case job := <-normal:
		return job, true
	case job := <-low:
		return job, true
	}
}

func (js *JobSystem) run(job metadata.JobTask) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job '%s' panicked: %v", job.Name, r)
		}
	}()
	if job.OnStart == nil {
		return nil, fmt.Errorf("job '%s' has no entry point", job.Name)
	}
	return job.OnStart(job.InputParams)
}

func (js *JobSystem) push(entry metadata.JobResultEntry) bool {
	select {
	case js.slots <- struct{}{}:
	case <-js.done:
		core.LogWarn("job '%s' finished after shutdown, result dropped", entry.Task.Name)
		return false
	}
	js.resultsMu.Lock()
	defer js.resultsMu.Unlock()
	if err := js.results.Enqueue(entry); err != nil {
		// unreachable while slots and ring share a capacity
		core.LogError("job result queue: %s", err)
	}
	return true
}

/**
 * @brief Shuts the job system down. Queued jobs are discarded and
 * undispatched results are dropped.
 */
func (js *JobSystem) Shutdown() error {
	js.closeOnce.Do(func() {
		close(js.done)
	})
	js.wg.Wait()
	return nil
}

/**
 * @brief Updates the job system. Should happen once an update cycle.
 * Runs the callbacks of every finished job and returns how many ran.
 */
func (js *JobSystem) Update() int {
	count := 0
	for {
		js.resultsMu.Lock()
		entry, err := js.results.Dequeue()
		js.resultsMu.Unlock()
		if err != nil {
			return count
		}
		<-js.slots
		count++

		if entry.Err != nil {
			if entry.Task.OnFailure != nil {
				entry.Task.OnFailure(entry.Err)
			}
			continue
		}
		if entry.Task.OnComplete != nil {
			entry.Task.OnComplete(entry.Result)
		}
	}
}

// Pending returns the number of finished jobs waiting for Update.
func (js *JobSystem) Pending() int {
	js.resultsMu.Lock()
	defer js.resultsMu.Unlock()
	return js.results.Len()
}

/**
 * @brief Submits the provided job to be queued for execution. Blocks while
 * the queue for the job's priority is full.
 */
func (js *JobSystem) Submit(jt metadata.JobTask) error {
	if jt.Priority < metadata.JOB_PRIORITY_LOW || jt.Priority > metadata.JOB_PRIORITY_HIGH {
		jt.Priority = metadata.JOB_PRIORITY_NORMAL
	}
	select {
	case <-js.done:
		return fmt.Errorf("cannot submit job '%s': %w", jt.Name, core.ErrShutdown)
	default:
	}
	select {
	case js.queues[jt.Priority] <- jt:
		return nil
	case <-js.done:
		return fmt.Errorf("cannot submit job '%s': %w", jt.Name, core.ErrShutdown)
	}
}

/**
 * @brief Queues the job without blocking the caller. When the queue for the
 * job's priority is full the job is handed to a goroutine that waits for
 * room. Only a shut down system is reported as an error.
 */
func (js *JobSystem) AddWorkNonBlocking(jt metadata.JobTask) error {
	if jt.Priority < metadata.JOB_PRIORITY_LOW || jt.Priority > metadata.JOB_PRIORITY_HIGH {
		jt.Priority = metadata.JOB_PRIORITY_NORMAL
	}
	select {
	case <-js.done:
		return fmt.Errorf("cannot submit job '%s': %w", jt.Name, core.ErrShutdown)
	case js.queues[jt.Priority] <- jt:
		return nil
	default:
	}
	go func() {
		if err := js.Submit(jt); err != nil {
			core.LogWarn(err.Error())
		}
	}()
	return nil
}
