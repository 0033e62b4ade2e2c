// internal/common/camunda/worker.go
package camunda

import (
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.uber.org/zap"
)

// HandlerFunc is the signature every worker handler exposes. Handlers
// complete or fail the job themselves via the JobClient.
type HandlerFunc func(client worker.JobClient, job entities.Job)

// WorkerOptions controls job polling for a single task type.
type WorkerOptions struct {
	MaxJobsActive int
	// Timeout is how long the broker reserves a job for this worker
	// before making it available to others.
	Timeout time.Duration
}

// Worker subscribes to one Zeebe task type and dispatches jobs to a handler.
type Worker struct {
	worker   worker.JobWorker
	logger   *zap.Logger
	taskType string
}

// NewWorker opens a job subscription for taskType. The returned Worker
// polls until Close is called.
func NewWorker(
	client zbc.Client,
	taskType string,
	opts WorkerOptions,
	handler HandlerFunc,
	logger *zap.Logger,
) *Worker {
	builder := client.NewJobWorker().
		JobType(taskType).
		Handler(worker.JobHandler(handler))

	if opts.MaxJobsActive > 0 {
		builder = builder.MaxJobsActive(opts.MaxJobsActive)
	}
	if opts.Timeout > 0 {
		builder = builder.Timeout(opts.Timeout)
	}

	jobWorker := builder.Open()
	logger.Info("worker started", zap.String("taskType", taskType))

	return &Worker{
		worker:   jobWorker,
		logger:   logger,
		taskType: taskType,
	}
}

// TaskType returns the task type this worker is subscribed to.
func (w *Worker) TaskType() string {
	return w.taskType
}

// Close stops polling and waits for in-flight jobs to finish.
func (w *Worker) Close() {
	w.logger.Info("stopping worker", zap.String("taskType", w.taskType))
	w.worker.Close()
	w.worker.AwaitClose()
}
