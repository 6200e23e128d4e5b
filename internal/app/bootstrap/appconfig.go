// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//   - Database connection timeouts
//
// AppConfig is where everything specific to OrgDesk lives: the MongoDB
// connection, session and CSRF keys, SMTP settings for invite email, and
// the Google OAuth client used for sign-in.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionDomain string // Cookie domain (blank means current host)

	// CSRF protection
	CSRFKey string // 32-byte key for CSRF tokens; falls back to SessionKey when blank

	// Email/SMTP configuration for invite mail
	MailSMTPHost string // SMTP server host (blank disables outbound mail)
	MailSMTPPort int    // SMTP server port (e.g., 1025 for Mailpit, 587 for SES)
	MailSMTPUser string // SMTP username (empty for Mailpit)
	MailSMTPPass string // SMTP password
	MailFrom     string // From email address (e.g., noreply@orgdesk.example)
	MailFromName string // From display name (e.g., OrgDesk)

	// Base URL for invite links and OAuth callbacks
	BaseURL string // e.g., "https://orgdesk.example" or "http://localhost:3000"

	// Invite settings
	InviteExpiry time.Duration // How long invite codes/links stay valid

	// Audit logging settings
	AuditLogAuth  string // "all", "db", "log", or "off"
	AuditLogAdmin string

	// Google OAuth configuration
	GoogleClientID     string
	GoogleClientSecret string
}
