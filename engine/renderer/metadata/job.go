package metadata

/** @brief The work of a job. Runs on a worker goroutine. */
type JobStart func(params interface{}) (interface{}, error)

/** @brief Completion callbacks. Run on the thread calling JobSystem.Update. */
type JobOnComplete func(result interface{})
type JobOnFailure func(err error)

/**
 * @brief Determines which job queue a job uses. The high-priority queue is always
 * drained before the normal-priority queue, which is drained before the low one.
 */
type JobPriority int

const (
	JOB_PRIORITY_LOW JobPriority = iota
	JOB_PRIORITY_NORMAL
	JOB_PRIORITY_HIGH
)

/**
 * @brief Describes a job to be run.
 */
type JobTask struct {
	/** @brief Used in logs. */
	Name     string
	Priority JobPriority
	/** @brief Invoked on a worker when the job starts. Required. */
	OnStart JobStart
	/** @brief Invoked when the job succeeded. Optional. */
	OnComplete JobOnComplete
	/** @brief Invoked when the job failed. Optional. */
	OnFailure JobOnFailure
	/** @brief Data passed to OnStart. */
	InputParams interface{}
}

/** @brief A finished job waiting for its callbacks to be dispatched. */
type JobResultEntry struct {
	ID     string
	Task   JobTask
	Result interface{}
	Err    error
}

// The max number of job results that can be stored at once.
const MAX_JOB_RESULTS int = 512
