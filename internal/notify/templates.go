package notify

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"hirescore/pkg/models"
)

const defaultSignOff = "The Hiring Team"

// statusTemplate is the per-status part of a status email
type statusTemplate struct {
	Subject   string
	Message   string
	Color     string
	NextSteps string
	// NextStepsColor and NextStepsBackground style the next steps block
	NextStepsColor      string
	NextStepsBackground string
}

// templateFor is total over the five application statuses
func templateFor(status models.ApplicationStatus) (statusTemplate, error) {
	switch status {
	case models.StatusPending:
		return statusTemplate{
			Subject: "Application Received - Thank You for Applying",
			Message: "Your application has been received and is being reviewed by our team.",
			Color:   "#f59e0b",
		}, nil
	case models.StatusReviewing:
		return statusTemplate{
			Subject: "Application Under Review",
			Message: "Great news! Your application is currently being reviewed by our hiring team.",
			Color:   "#3b82f6",
		}, nil
	case models.StatusInterviewed:
		return statusTemplate{
			Subject:             "Interview Scheduled - Next Steps",
			Message:             "Congratulations! You have progressed to the interview stage.",
			Color:               "#8b5cf6",
			NextSteps:           "Next Steps: Our team will reach out to schedule your interview. Please keep an eye on your email.",
			NextStepsColor:      "#5b21b6",
			NextStepsBackground: "#ede9fe",
		}, nil
	case models.StatusHired:
		return statusTemplate{
			Subject:             "Congratulations - Job Offer!",
			Message:             "Excellent news! We are pleased to offer you the position.",
			Color:               "#10b981",
			NextSteps:           "Next Steps: Our HR team will contact you within 24-48 hours with offer details and next steps.",
			NextStepsColor:      "#065f46",
			NextStepsBackground: "#ecfdf5",
		}, nil
	case models.StatusRejected:
		return statusTemplate{
			Subject: "Application Update",
			Message: "Thank you for your interest. While we have decided to move forward with other candidates, " +
				"we encourage you to apply for future positions.",
			Color: "#ef4444",
			NextSteps: "We appreciate the time you invested in the application process. " +
				"Please consider applying for future opportunities that match your skills and experience.",
			NextStepsColor:      "#991b1b",
			NextStepsBackground: "#fef2f2",
		}, nil
	}
	return statusTemplate{}, fmt.Errorf("no email template for status %q", status)
}

// Message is a rendered email ready for a Sender
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
	Text    string
}

type templateData struct {
	statusTemplate
	CandidateName string
	JobTitle      string
	CompanyName   string
	StatusLabel   string
	SignOff       string
	ApplicationID string
}

var htmlBody = htmltemplate.Must(htmltemplate.New("status.html").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Subject}}</title>
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
<div style="background-color: #ffffff; border-radius: 8px; overflow: hidden;">
<div style="background-color: {{.Color}}; color: white; padding: 30px 40px; text-align: center;">
<h1 style="margin: 0; font-size: 28px; font-weight: 600;">{{.Subject}}</h1>
</div>
<div style="padding: 40px;">
<p style="font-size: 18px;">Hello <strong>{{.CandidateName}}</strong>,</p>
<p style="font-size: 16px; line-height: 1.8;">{{.Message}}</p>
<div style="background-color: #f9fafb; border-radius: 8px; padding: 25px; margin: 25px 0;">
<h3 style="margin: 0 0 15px 0; color: #1f2937;">Application Details</h3>
<table style="width: 100%; border-collapse: collapse;">
<tr><td style="padding: 8px 0; font-weight: 600; color: #6b7280; width: 120px;">Position:</td><td style="padding: 8px 0;">{{.JobTitle}}</td></tr>
{{- if .CompanyName}}
<tr><td style="padding: 8px 0; font-weight: 600; color: #6b7280;">Company:</td><td style="padding: 8px 0;">{{.CompanyName}}</td></tr>
{{- end}}
<tr><td style="padding: 8px 0; font-weight: 600; color: #6b7280;">Status:</td><td style="padding: 8px 0;"><span style="background-color: {{.Color}}; color: white; padding: 4px 12px; border-radius: 20px;">{{.StatusLabel}}</span></td></tr>
</table>
</div>
{{- if .NextSteps}}
<div style="background-color: {{.NextStepsBackground}}; border-left: 4px solid {{.Color}}; padding: 20px; margin: 25px 0;">
<p style="margin: 0; font-weight: 600; color: {{.NextStepsColor}};">{{.NextSteps}}</p>
</div>
{{- end}}
<p style="font-size: 16px; margin-top: 30px;">Thank you for your interest in working with us!</p>
<p style="font-size: 16px; margin-bottom: 0;">Best regards,<br><strong>{{.SignOff}}</strong></p>
</div>
<div style="background-color: #f9fafb; padding: 20px 40px; text-align: center; border-top: 1px solid #e5e7eb;">
<p style="margin: 0; font-size: 14px; color: #6b7280;">This is an automated message from HireScore. Please do not reply to this email.</p>
<p style="margin: 5px 0 0 0; font-size: 12px; color: #9ca3af;">Application ID: {{.ApplicationID}}</p>
</div>
</div>
</body>
</html>
`))

var textBody = texttemplate.Must(texttemplate.New("status.txt").Parse(`{{.Subject}}

Hello {{.CandidateName}},

{{.Message}}

Application Details:
- Position: {{.JobTitle}}
{{- if .CompanyName}}
- Company: {{.CompanyName}}
{{- end}}
- Status: {{.StatusLabel}}
{{if .NextSteps}}
{{.NextSteps}}
{{end}}
Thank you for your interest in working with us!

Best regards,
{{.SignOff}}

---
This is an automated message from HireScore. Please do not reply to this email.
Application ID: {{.ApplicationID}}
`))

// Render builds the status email for a notification
func Render(from string, n models.StatusNotification) (*Message, error) {
	tmpl, err := templateFor(n.Status)
	if err != nil {
		return nil, err
	}

	data := templateData{
		statusTemplate: tmpl,
		CandidateName:  n.CandidateName,
		JobTitle:       n.JobTitle,
		CompanyName:    n.CompanyName,
		StatusLabel:    n.Status.Label(),
		SignOff:        n.CompanyName,
		ApplicationID:  n.ApplicationID,
	}
	if data.SignOff == "" {
		data.SignOff = defaultSignOff
	}

	var html, text bytes.Buffer
	if err := htmlBody.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("render html body: %w", err)
	}
	if err := textBody.Execute(&text, data); err != nil {
		return nil, fmt.Errorf("render text body: %w", err)
	}

	return &Message{
		From:    from,
		To:      n.CandidateEmail,
		Subject: tmpl.Subject,
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}
