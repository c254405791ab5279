package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"mockmate/internal/feedback"
	"mockmate/internal/models"
)

// ReportService emails interview feedback summaries via Amazon SES
type ReportService struct {
	client    *sesv2.Client
	fromEmail string
	fromName  string
	enabled   bool
	debug     bool
}

// NewReportService creates the report mailer. An empty fromEmail yields
// a disabled service whose sends are silently skipped.
func NewReportService(awsRegion, fromEmail, fromName string, debug bool) (*ReportService, error) {
	if fromEmail == "" {
		log.Println("Report email disabled: SES_FROM_EMAIL not configured")
		return &ReportService{enabled: false, debug: debug}, nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Report email enabled: from=%s, region=%s", fromEmail, awsRegion)
	return &ReportService{
		client:    sesv2.NewFromConfig(cfg),
		fromEmail: fromEmail,
		fromName:  fromName,
		enabled:   true,
		debug:     debug,
	}, nil
}

// IsEnabled returns whether report emails will actually be sent
func (s *ReportService) IsEnabled() bool {
	return s.enabled
}

// SendFeedbackReport emails the completed interview's feedback to the
// user. Scores are rescaled to the 1-100 display range.
func (s *ReportService) SendFeedbackReport(ctx context.Context, toEmail string, setup models.InterviewSetup, fb *models.InterviewFeedback) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): feedback report to %s", toEmail)
		return nil
	}
	if s.debug {
		log.Printf("[DEBUG] SendFeedbackReport called: to=%s, job=%s", toEmail, setup.JobTitle)
	}

	position := setup.JobTitle
	if position == "" {
		position = "your interview"
	}
	if setup.CompanyName != "" {
		position = fmt.Sprintf("%s at %s", position, setup.CompanyName)
	}

	subject := fmt.Sprintf("Your Interview Feedback: %s", position)
	htmlBody := buildHTMLReport(position, fb)
	textBody := buildTextReport(position, fb)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

func buildHTMLReport(position string, fb *models.InterviewFeedback) string {
	var strengths, improvements strings.Builder
	for _, item := range fb.Strengths {
		fmt.Fprintf(&strengths, "<li><strong>%s</strong>: %s</li>\n", item.Title, item.Description)
	}
	for _, item := range fb.Improvements {
		fmt.Fprintf(&improvements, "<li><strong>%s</strong>: %s</li>\n", item.Title, item.Description)
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #4a90e2; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.score { font-size: 36px; font-weight: bold; text-align: center; color: #4a90e2; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>Interview Feedback</h1>
		</div>
		<div class="content">
			<p>Here is your feedback for %s.</p>
			<p class="score">%d / 100</p>
			<p>%s</p>
			<h3>Strengths</h3>
			<ul>%s</ul>
			<h3>Areas to Improve</h3>
			<ul>%s</ul>
			<table>
				<tr><td>Communication</td><td>%d</td></tr>
				<tr><td>Technical</td><td>%d</td></tr>
				<tr><td>Problem Solving</td><td>%d</td></tr>
				<tr><td>Behavioral</td><td>%d</td></tr>
			</table>
		</div>
		<div class="footer">
			<p>This is an automated email from MockMate. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, position,
		feedback.RescaleScore(fb.OverallScore),
		fb.Summary,
		strengths.String(),
		improvements.String(),
		feedback.RescaleScore(fb.CategoryScores.Communication),
		feedback.RescaleScore(fb.CategoryScores.Technical),
		feedback.RescaleScore(fb.CategoryScores.ProblemSolving),
		feedback.RescaleScore(fb.CategoryScores.Behavioral))
}

func buildTextReport(position string, fb *models.InterviewFeedback) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Interview feedback for %s\n\n", position)
	fmt.Fprintf(&b, "Overall score: %d / 100\n\n", feedback.RescaleScore(fb.OverallScore))
	if fb.Summary != "" {
		fmt.Fprintf(&b, "%s\n\n", fb.Summary)
	}

	if len(fb.Strengths) > 0 {
		b.WriteString("Strengths:\n")
		for _, item := range fb.Strengths {
			fmt.Fprintf(&b, "- %s: %s\n", item.Title, item.Description)
		}
		b.WriteString("\n")
	}
	if len(fb.Improvements) > 0 {
		b.WriteString("Areas to improve:\n")
		for _, item := range fb.Improvements {
			fmt.Fprintf(&b, "- %s: %s\n", item.Title, item.Description)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Communication: %d\n", feedback.RescaleScore(fb.CategoryScores.Communication))
	fmt.Fprintf(&b, "Technical: %d\n", feedback.RescaleScore(fb.CategoryScores.Technical))
	fmt.Fprintf(&b, "Problem solving: %d\n", feedback.RescaleScore(fb.CategoryScores.ProblemSolving))
	fmt.Fprintf(&b, "Behavioral: %d\n", feedback.RescaleScore(fb.CategoryScores.Behavioral))
	b.WriteString("\n---\nThis is an automated email from MockMate. Please do not reply.\n")
	return b.String()
}

// sendEmail sends an email using Amazon SES
func (s *ReportService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}
	if s.debug && result.MessageId != nil {
		log.Printf("[DEBUG] Message ID: %s", *result.MessageId)
	}

	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}
