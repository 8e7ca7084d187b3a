package services

import (
	"crypto/tls"
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
)

// EmailService handles sending emails via SMTP
type EmailService struct {
	host     string
	port     int
	username string
	password string
	from     string
	appURL   string
}

// NewEmailService creates a new email service instance
func NewEmailService() *EmailService {
	port := 587
	if p := os.Getenv("SMTP_PORT"); p != "" {
		fmt.Sscanf(p, "%d", &port)
	}

	return &EmailService{
		host:     getEnvOrDefault("SMTP_HOST", "smtp.gmail.com"),
		port:     port,
		username: os.Getenv("SMTP_USERNAME"),
		password: os.Getenv("SMTP_PASSWORD"),
		from:     getEnvOrDefault("SMTP_FROM", "noreply@rehbar.pk"),
		appURL:   getEnvOrDefault("APP_URL", "http://localhost:3000"),
	}
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// IsConfigured checks if SMTP is properly configured
func (e *EmailService) IsConfigured() bool {
	return e.username != "" && e.password != ""
}

// SendVerificationEmail sends the account verification link to a new user.
// When SMTP is not configured the token is logged instead so registration
// still completes in development.
func (e *EmailService) SendVerificationEmail(toEmail, verifyToken, userName string) error {
	if !e.IsConfigured() {
		log.Printf("SMTP not configured. Verification token for %s: %s", toEmail, verifyToken)
		return nil
	}

	verifyLink := fmt.Sprintf("%s/verify-email?token=%s", e.appURL, verifyToken)

	subject := "Verify Your Email - Rehbar Directory"
	body := e.buildVerificationEmailBody(userName, verifyLink)

	return e.sendEmail(toEmail, subject, body)
}

// SendPasswordResetEmail sends a password reset email to the user
func (e *EmailService) SendPasswordResetEmail(toEmail, resetToken, userName string) error {
	if !e.IsConfigured() {
		log.Printf("SMTP not configured. Reset token for %s: %s", toEmail, resetToken)
		return fmt.Errorf("SMTP not configured")
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", e.appURL, resetToken)

	subject := "Reset Your Password - Rehbar Directory"
	body := e.buildPasswordResetEmailBody(userName, resetLink)

	return e.sendEmail(toEmail, subject, body)
}

// SendApprovalEmail notifies a listing owner of the admin decision
func (e *EmailService) SendApprovalEmail(toEmail, listingName string, approved bool, notes string) error {
	if !e.IsConfigured() {
		log.Printf("SMTP not configured. Approval notice for %s skipped", toEmail)
		return nil
	}

	var subject, verdict string
	if approved {
		subject = fmt.Sprintf("Your listing %q is live - Rehbar Directory", listingName)
		verdict = "has been approved and is now visible in the directory"
	} else {
		subject = fmt.Sprintf("Update on your listing %q - Rehbar Directory", listingName)
		verdict = "was not approved"
	}

	body := fmt.Sprintf(`%s
	<h2>Listing review complete</h2>
	<p>Your listing <strong>%s</strong> %s.</p>
	%s
	%s`, emailHeader, listingName, verdict, notesBlock(notes), emailFooter)

	return e.sendEmail(toEmail, subject, body)
}

func notesBlock(notes string) string {
	if notes == "" {
		return ""
	}
	return fmt.Sprintf(`<p>Reviewer notes: %s</p>`, notes)
}

const emailHeader = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
            background-color: #f5f5f5;
        }
        .container {
            background-color: #ffffff;
            border-radius: 8px;
            padding: 40px;
            box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);
        }
        h2 {
            color: #14532d;
            margin-top: 0;
        }
        .button {
            display: inline-block;
            background-color: #14532d;
            color: #ffffff !important;
            padding: 14px 28px;
            border-radius: 6px;
            text-decoration: none;
            font-weight: 600;
            margin: 20px 0;
        }
        .footer {
            margin-top: 30px;
            padding-top: 20px;
            border-top: 1px solid #eee;
            font-size: 13px;
            color: #888;
        }
    </style>
</head>
<body>
<div class="container">
<div class="logo"><h1>Rehbar Directory</h1></div>`

const emailFooter = `
<div class="footer">
    <p>If you did not expect this email you can safely ignore it.</p>
    <p>Rehbar Directory &middot; rehbar.pk</p>
</div>
</div>
</body>
</html>`

// buildVerificationEmailBody creates the HTML email body for email verification
func (e *EmailService) buildVerificationEmailBody(userName, verifyLink string) string {
	if userName == "" {
		userName = "User"
	}

	return fmt.Sprintf(`%s
	<h2>Welcome, %s!</h2>
	<p>Confirm your email address to activate your account.</p>
	<p style="text-align:center;"><a class="button" href="%s">Verify Email</a></p>
	<p>This link expires in 24 hours.</p>
	%s`, emailHeader, userName, verifyLink, emailFooter)
}

// buildPasswordResetEmailBody creates the HTML email body for password reset
func (e *EmailService) buildPasswordResetEmailBody(userName, resetLink string) string {
	if userName == "" {
		userName = "User"
	}

	return fmt.Sprintf(`%s
	<h2>Hi %s,</h2>
	<p>We received a request to reset your password.</p>
	<p style="text-align:center;"><a class="button" href="%s">Reset Password</a></p>
	<p>This link expires in 1 hour. If you did not request a reset, no action is needed.</p>
	%s`, emailHeader, userName, resetLink, emailFooter)
}

// sendEmail sends an email using SMTP with TLS
func (e *EmailService) sendEmail(to, subject, htmlBody string) error {
	// Build the email message with proper headers
	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("Rehbar Directory | rehbar.pk <%s>", e.from)
	headers["Reply-To"] = "support@rehbar.pk"
	headers["To"] = to
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"
	headers["X-Mailer"] = "Rehbar Directory Mailer"

	var message strings.Builder
	for k, v := range headers {
		message.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	message.WriteString("\r\n")
	message.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%d", e.host, e.port)
	auth := smtp.PlainAuth("", e.username, e.password, e.host)

	tlsConfig := &tls.Config{
		InsecureSkipVerify: false,
		ServerName:         e.host,
	}

	conn, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	if err := conn.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if err := conn.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}

	if err := conn.Mail(e.from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	if err := conn.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := conn.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}

	_, err = w.Write([]byte(message.String()))
	if err != nil {
		return fmt.Errorf("failed to write email body: %w", err)
	}

	err = w.Close()
	if err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	conn.Quit()

	log.Printf("Email sent successfully to: %s", to)
	return nil
}
