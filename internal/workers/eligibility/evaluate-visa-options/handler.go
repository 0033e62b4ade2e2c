// internal/workers/eligibility/evaluate-visa-options/handler.go
package evaluatevisaoptions

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	commonerrors "visa-eligibility-workers/internal/common/errors"
	"visa-eligibility-workers/internal/common/logger"
	"visa-eligibility-workers/internal/common/metrics"
	"visa-eligibility-workers/internal/eligibility"
	"visa-eligibility-workers/internal/models"
	"visa-eligibility-workers/internal/scoring"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "evaluate-visa-options"
)

type Handler struct {
	config  *Config
	service *eligibility.Service
	scorer  *scoring.Scorer
	logger  logger.Logger
	errors  *commonerrors.ErrorHandler
}

func NewHandler(config *Config, service *eligibility.Service, scorer *scoring.Scorer, log logger.Logger) *Handler {
	scopedLog := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:  config,
		service: service,
		scorer:  scorer,
		logger:  scopedLog,
		errors:  commonerrors.NewErrorHandler(scopedLog),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, string(commonerrors.ErrCodeValidationFailed), fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		code := string(commonerrors.ErrCodeStoreQueryFailed)
		if stdErr, ok := err.(*commonerrors.StandardError); ok {
			code = string(stdErr.Code)
		}
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, code).Inc()
		h.errors.HandleJobError(context.Background(), client, job, err)
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
}

// execute scores the profile against each requested visa type (or every
// stored one) and surfaces the strongest option. A visa type that cannot be
// evaluated is skipped inside the service, so the output covers whatever
// rule sets were actually available.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	evaluations, skipped, err := h.service.EvaluateMultiple(ctx, input.Profile, input.VisaTypes)
	if err != nil {
		return nil, err
	}

	output := &Output{
		Assessments: make([]models.Assessment, 0, len(evaluations)),
		Skipped:     skipped,
	}
	for _, evaluation := range evaluations {
		assessment := h.scorer.Assess(evaluation, input.Profile)
		output.Assessments = append(output.Assessments, assessment)
		if assessment.Score > output.BestScore {
			output.BestScore = assessment.Score
			output.BestOption = assessment.VisaType
		}
	}
	output.Evaluated = len(output.Assessments)

	h.logger.Info("visa options evaluated", map[string]interface{}{
		"evaluated":  output.Evaluated,
		"skipped":    output.Skipped,
		"bestOption": output.BestOption,
		"bestScore":  output.BestScore,
	})

	return output, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err = cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
