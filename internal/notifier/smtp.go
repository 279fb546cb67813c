package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/taskmanager/backend/internal/config"
	"gopkg.in/mail.v2"
)

// smtpNotifier sends emails over SMTP using gopkg.in/mail.v2
type smtpNotifier struct {
	dialer *mail.Dialer
	from   string
}

// NewSMTPNotifier creates a notifier backed by the configured SMTP server
func NewSMTPNotifier(cfg config.SMTPConfig) *smtpNotifier {
	dialer := mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	dialer.Timeout = 10 * time.Second

	return &smtpNotifier{
		dialer: dialer,
		from:   cfg.From,
	}
}

// SendWelcome sends the post-registration welcome email
func (n *smtpNotifier) SendWelcome(ctx context.Context, email, username string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<h2 style="color: #4a90e2;">Welcome to Task Manager, %s!</h2>
			<p>Thank you for registering with us. You can now start managing your tasks efficiently.</p>
			<p>Get started by:</p>
			<ul>
				<li>Creating your first task</li>
				<li>Setting due dates for important tasks</li>
				<li>Marking tasks as completed</li>
			</ul>
			<p>If you have any questions, feel free to reach out to our support team.</p>
			<p>Best regards,<br>Task Manager Team</p>
		</div>
	`, username)

	return n.send(email, "Welcome to Task Manager!", body)
}

// SendTaskReminder sends a due-date reminder for one task
func (n *smtpNotifier) SendTaskReminder(ctx context.Context, email, taskTitle string, dueDate time.Time) error {
	subject := fmt.Sprintf("Task Reminder: %s", taskTitle)
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<h2 style="color: #e74c3c;">Task Reminder</h2>
			<p>This is a reminder that your task "<strong>%s</strong>" is due on:</p>
			<p style="font-size: 18px; color: #e74c3c;"><strong>%s</strong></p>
			<p>Don't forget to complete it on time!</p>
			<p>Best regards,<br>Task Manager Team</p>
		</div>
	`, taskTitle, dueDate.Format("January 2, 2006"))

	return n.send(email, subject, body)
}

// send delivers one message. The dialer's timeout bounds the call, so a slow
// SMTP server cannot hold a request open indefinitely.
func (n *smtpNotifier) send(to, subject, body string) error {
	m := mail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
