package mailer

import "embed"

const (
	FromName                  = "Vairanya"
	maxRetries                = 3
	UserWelcomeTemplate       = "user_invitation.tmpl"
	OrderConfirmationTemplate = "order_confirmation.tmpl"
)

//go:embed "templates"
var FS embed.FS

type Client interface {
	Send(templateFile, username, email string, data any) (int, error)
}
