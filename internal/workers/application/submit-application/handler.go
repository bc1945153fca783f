// internal/workers/application/submit-application/handler.go
package submitapplication

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/xeipuuv/gojsonschema"

	commonerrors "scholarship-workflow/internal/common/errors"
	"scholarship-workflow/internal/common/logger"
	"scholarship-workflow/internal/models"
	"scholarship-workflow/internal/workflow"
)

const TaskType = "submit-application"

// Workflow is the slice of the engine this worker drives.
type Workflow interface {
	CreateDraft(ctx context.Context, req workflow.NewApplication) (*models.Application, error)
	Submit(ctx context.Context, applicationID string) (*models.WorkflowState, error)
	Get(ctx context.Context, applicationID string) (*models.Application, error)
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
	applicationID := input.ApplicationID
	if applicationID == "" {
		app, err := h.workflow.CreateDraft(ctx, workflow.NewApplication{
			ScholarshipID: input.ScholarshipID,
			StudentID:     input.StudentID,
			FirstName:     input.FirstName,
			LastName:      input.LastName,
		})
		if err != nil {
			return nil, err
		}
		applicationID = app.ID
	}

	state, err := h.workflow.Submit(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	app, err := h.workflow.Get(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	submittedAt := ""
	if app.SubmittedAt != nil {
		submittedAt = app.SubmittedAt.UTC().Format(time.RFC3339)
	}

	return &Output{
		ApplicationID:     applicationID,
		Status:            string(state.Status),
		RequiredGraders:   state.RequiredGraders,
		RequiredApprovers: state.RequiredApprovers,
		SubmittedAt:       submittedAt,
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
