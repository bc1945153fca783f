package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scholarship-workflow/internal/common/logger"
	"scholarship-workflow/internal/models"
)

type fakeSES struct {
	inputs []*ses.SendEmailInput
	err    error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{}, nil
}

type fakeSNS struct {
	inputs []*sns.PublishInput
	err    error
}

func (f *fakeSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{}, nil
}

type staticRecipients struct {
	emails map[string]string
}

func (s *staticRecipients) StudentEmail(ctx context.Context, studentID string) (string, error) {
	email, ok := s.emails[studentID]
	if !ok {
		return "", errors.New("student not found")
	}
	return email, nil
}

func testDecision(outcome models.Outcome) Decision {
	return Decision{
		ApplicationID: "app-1",
		StudentID:     "stu-1",
		ScholarshipID: "sch-1",
		StudentName:   "Siti Rahma",
		Outcome:       outcome,
		CombinedScore: 245,
	}
}

// ==========================================
// AWSNotifier Tests
// ==========================================

func TestAWSNotifier_NotifyDecision(t *testing.T) {
	cfg := AWSConfig{FromAddress: "noreply@scholarships.example", FromName: "Scholarship Office"}
	recipients := &staticRecipients{emails: map[string]string{"stu-1": "siti@example.com"}}

	t.Run("approved decision sends congratulation email", func(t *testing.T) {
		sesClient := &fakeSES{}
		n := NewAWSNotifier(cfg, sesClient, nil, recipients, logger.NewTestLogger(t))

		err := n.NotifyDecision(context.Background(), testDecision(models.OutcomeApproved))

		require.NoError(t, err)
		require.Len(t, sesClient.inputs, 1)
		sent := sesClient.inputs[0]
		assert.Equal(t, []string{"siti@example.com"}, sent.Destination.ToAddresses)
		assert.Contains(t, *sent.Message.Subject.Data, "approved")
		assert.Contains(t, *sent.Message.Body.Text.Data, "245")
	})

	t.Run("rejected decision sends regret email", func(t *testing.T) {
		sesClient := &fakeSES{}
		n := NewAWSNotifier(cfg, sesClient, nil, recipients, logger.NewTestLogger(t))

		err := n.NotifyDecision(context.Background(), testDecision(models.OutcomeRejected))

		require.NoError(t, err)
		require.Len(t, sesClient.inputs, 1)
		assert.Contains(t, *sesClient.inputs[0].Message.Body.Text.Data, "not approved")
	})

	t.Run("topic fan-out when configured", func(t *testing.T) {
		sesClient := &fakeSES{}
		snsClient := &fakeSNS{}
		withTopic := cfg
		withTopic.TopicARN = "arn:aws:sns:ap-southeast-1:000000000000:decisions"
		n := NewAWSNotifier(withTopic, sesClient, snsClient, recipients, logger.NewTestLogger(t))

		err := n.NotifyDecision(context.Background(), testDecision(models.OutcomeApproved))

		require.NoError(t, err)
		require.Len(t, snsClient.inputs, 1)
		assert.Equal(t, withTopic.TopicARN, *snsClient.inputs[0].TopicArn)
	})

	t.Run("SNS failure does not fail the notification", func(t *testing.T) {
		sesClient := &fakeSES{}
		snsClient := &fakeSNS{err: errors.New("throttled")}
		withTopic := cfg
		withTopic.TopicARN = "arn:aws:sns:ap-southeast-1:000000000000:decisions"
		n := NewAWSNotifier(withTopic, sesClient, snsClient, recipients, logger.NewTestLogger(t))

		err := n.NotifyDecision(context.Background(), testDecision(models.OutcomeApproved))

		assert.NoError(t, err)
		assert.Len(t, sesClient.inputs, 1)
	})

	t.Run("SES failure is returned", func(t *testing.T) {
		sesClient := &fakeSES{err: errors.New("mailbox unavailable")}
		n := NewAWSNotifier(cfg, sesClient, nil, recipients, logger.NewTestLogger(t))

		err := n.NotifyDecision(context.Background(), testDecision(models.OutcomeApproved))

		assert.Error(t, err)
	})

	t.Run("unknown recipient is returned", func(t *testing.T) {
		sesClient := &fakeSES{}
		n := NewAWSNotifier(cfg, sesClient, nil, &staticRecipients{emails: map[string]string{}}, logger.NewTestLogger(t))

		err := n.NotifyDecision(context.Background(), testDecision(models.OutcomeApproved))

		assert.Error(t, err)
		assert.Empty(t, sesClient.inputs)
	})
}

func TestRecorder(t *testing.T) {
	rec := &Recorder{}
	require.NoError(t, rec.NotifyDecision(context.Background(), testDecision(models.OutcomeApproved)))

	rec.Err = errors.New("delivery down")
	assert.Error(t, rec.NotifyDecision(context.Background(), testDecision(models.OutcomeRejected)))

	assert.Len(t, rec.Decisions(), 2)
}
