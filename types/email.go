package types

import "context"

// EmailData carries an outbound email request to the email service.
type EmailData struct {
	To           string
	Subject      string
	TemplateData map[string]interface{}
}

// EmailService dispatches invite notification emails. Dispatch is
// best-effort: failures are logged and never roll back the invite that
// triggered them.
type EmailService interface {
	SendInviteEmail(ctx context.Context, data EmailData) error
}
