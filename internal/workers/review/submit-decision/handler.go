// internal/workers/review/submit-decision/handler.go
package submitdecision

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/xeipuuv/gojsonschema"

	commonerrors "scholarship-workflow/internal/common/errors"
	"scholarship-workflow/internal/common/logger"
	"scholarship-workflow/internal/models"
)

const TaskType = "submit-decision"

// Workflow is the slice of the engine this worker drives.
type Workflow interface {
	SubmitDecision(ctx context.Context, applicationID, approverID string, decision models.Decision) (*models.ApprovalOutcome, error)
}

type Handler struct {
	config   *Config
	workflow Workflow
	logger   logger.Logger
	schema   *gojsonschema.Schema
}

func NewHandler(config *Config, wf Workflow, log logger.Logger) (*Handler, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(inputSchema))
	if err != nil {
		return nil, fmt.Errorf("compile input schema: %w", err)
	}
	return &Handler{
		config:   config,
		workflow: wf,
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
		schema:   schema,
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err), 0)
		return
	}
	if err := h.validateInput(job.Variables); err != nil {
		h.failJob(client, job, string(commonerrors.ErrCodeValidationFailed), err.Error(), 0)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		code, ok := commonerrors.CodeOf(err)
		if !ok {
			code = commonerrors.ErrCodeStorageFailed
		}
		h.failJob(client, job, string(code), err.Error(), int32(commonerrors.GetRetryCount(code)))
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	outcome, err := h.workflow.SubmitDecision(ctx, input.ApplicationID, input.ApproverID,
		models.Decision(input.Decision))
	if err != nil {
		return nil, err
	}

	return &Output{
		ApplicationID:     input.ApplicationID,
		Status:            string(outcome.Status),
		ApproversSoFar:    outcome.ApproversSoFar,
		RequiredApprovers: outcome.RequiredApprovers,
		Finalized:         outcome.Status.IsTerminal(),
	}, nil
}

func (h *Handler) validateInput(variables string) error {
	result, err := h.schema.Validate(gojsonschema.NewStringLoader(variables))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("invalid input: %s", strings.Join(errs, "; "))
	}
	return nil
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
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string, _ int32) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

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
