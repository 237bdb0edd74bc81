package mailer

// Notification kinds carried on the email queue.
const (
	KindVerifyEmail          = "verify_email"
	KindResetPassword        = "reset_password"
	KindReservationCreated   = "reservation_created"
	KindReservationExtended  = "reservation_extended"
	KindReservationCancelled = "reservation_cancelled"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Kind selects the template; Data feeds it. Subject/Text/HTML may be set
// directly for raw sends without a template.
type EmailJob struct {
	To      string         `json:"to"`
	Kind    string         `json:"kind,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	Subject string         `json:"subject,omitempty"`
	Text    string         `json:"text,omitempty"`
	HTML    string         `json:"html,omitempty"`
}
