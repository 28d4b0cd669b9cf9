package notify

import "github.com/rs/zerolog/log"

// Notifier is the fire-and-forget notification sink. Implementations must
// treat delivery as best-effort: callers log failures and move on, they never
// roll back data changes because an email did not go out.
type Notifier interface {
	Send(recipient, subject, body string) error
}

// LogNotifier writes notifications to the application log instead of a mail
// relay. It is the default sink in development and in the batch-pass dry runs.
type LogNotifier struct{}

func NewLogNotifier() Notifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Send(recipient, subject, body string) error {
	log.Info().
		Str("recipient", recipient).
		Str("subject", subject).
		Str("body", body).
		Msg("notification")
	return nil
}
