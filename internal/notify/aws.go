package notify

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"scholarship-workflow/internal/common/logger"
	"scholarship-workflow/internal/models"
)

// Define interfaces for mocking
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// RecipientResolver maps a student id to a contact email.
type RecipientResolver interface {
	StudentEmail(ctx context.Context, studentID string) (string, error)
}

// PostgresRecipients resolves student contacts from the students table.
type PostgresRecipients struct {
	db *sql.DB
}

func NewPostgresRecipients(db *sql.DB) *PostgresRecipients {
	return &PostgresRecipients{db: db}
}

func (r *PostgresRecipients) StudentEmail(ctx context.Context, studentID string) (string, error) {
	var email string
	err := r.db.QueryRowContext(ctx,
		`SELECT email FROM students WHERE id = $1`, studentID).Scan(&email)
	if err != nil {
		return "", fmt.Errorf("resolve student contact: %w", err)
	}
	return email, nil
}

// AWSConfig holds the delivery settings for the AWS notifier.
type AWSConfig struct {
	FromAddress string
	FromName    string
	// TopicARN, when set, mirrors each decision to an SNS topic for
	// downstream consumers.
	TopicARN string
}

// AWSNotifier delivers decisions over SES, optionally fanning out to SNS.
type AWSNotifier struct {
	config     AWSConfig
	sesClient  SESService
	snsClient  SNSService
	recipients RecipientResolver
	logger     logger.Logger
}

func NewAWSNotifier(cfg AWSConfig, sesClient SESService, snsClient SNSService, recipients RecipientResolver, log logger.Logger) *AWSNotifier {
	return &AWSNotifier{
		config:     cfg,
		sesClient:  sesClient,
		snsClient:  snsClient,
		recipients: recipients,
		logger:     log.WithFields(map[string]interface{}{"component": "notifier"}),
	}
}

func (n *AWSNotifier) NotifyDecision(ctx context.Context, decision Decision) error {
	email, err := n.recipients.StudentEmail(ctx, decision.StudentID)
	if err != nil {
		return err
	}

	subject, body := renderDecision(decision)

	if err := n.sendEmail(ctx, email, subject, body); err != nil {
		return fmt.Errorf("send decision email: %w", err)
	}

	if n.config.TopicARN != "" && n.snsClient != nil {
		if err := n.publishTopic(ctx, decision, body); err != nil {
			// Email already went out, fan-out is advisory.
			n.logger.Error("SNS publish failed", map[string]interface{}{
				"error":         err,
				"applicationId": decision.ApplicationID,
			})
		}
	}

	n.logger.Info("decision notification sent", map[string]interface{}{
		"applicationId": decision.ApplicationID,
		"outcome":       string(decision.Outcome),
	})
	return nil
}

func (n *AWSNotifier) sendEmail(ctx context.Context, to, subject, body string) error {
	_, err := n.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(fmt.Sprintf("%s <%s>", n.config.FromName, n.config.FromAddress)),
	})
	return err
}

func (n *AWSNotifier) publishTopic(ctx context.Context, decision Decision, body string) error {
	_, err := n.snsClient.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.config.TopicARN),
		Subject:  aws.String(fmt.Sprintf("application %s %s", decision.ApplicationID, strings.ToLower(string(decision.Outcome)))),
		Message:  aws.String(body),
	})
	return err
}

func renderDecision(decision Decision) (subject, body string) {
	name := decision.StudentName
	if name == "" {
		name = "Applicant"
	}

	switch decision.Outcome {
	case models.OutcomeApproved:
		subject = "Your scholarship application has been approved"
		body = fmt.Sprintf(
			"Dear %s,\n\nCongratulations! Your application %s for scholarship %s has been approved with a combined score of %d.\n",
			name, decision.ApplicationID, decision.ScholarshipID, decision.CombinedScore)
	case models.OutcomeRejected:
		subject = "Your scholarship application decision"
		body = fmt.Sprintf(
			"Dear %s,\n\nWe are sorry to inform you that your application %s for scholarship %s was not approved.\n",
			name, decision.ApplicationID, decision.ScholarshipID)
	default:
		subject = "Your scholarship application decision"
		body = fmt.Sprintf("Dear %s,\n\nA decision has been recorded for application %s.\n", name, decision.ApplicationID)
	}
	return subject, body
}
