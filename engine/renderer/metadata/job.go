package metadata

/** Definition for jobs. Runs on a worker goroutine. */
type JobStart func() (interface{}, error)

/** Definition for completion of a job. Runs on the main thread. */
type JobOnComplete func(result interface{})

/** Definition for failure of a job. Runs on the main thread. */
type JobOnFailure func(err error)

/**
 * @brief Describes a job to be run.
 */
type JobTask struct {
	/** @brief Used in logs only. */
	Name string
	/** @brief A function to be invoked when the job starts. Required. */
	OnStart JobStart
	/** @brief A function to be invoked when the job successfully completes. Optional. */
	OnComplete JobOnComplete
	/** @brief A function to be invoked when the job fails. Optional. */
	OnFailure JobOnFailure
}

type JobResultEntry struct {
	ID     uint64
	Task   JobTask
	Result interface{}
	Err    error
}

// The max number of job results that can be stored at once.
const MAX_JOB_RESULTS int = 512
