// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"

	assignmentsfeature "github.com/dalemusser/orgdesk/internal/app/features/assignments"
	authgooglefeature "github.com/dalemusser/orgdesk/internal/app/features/authgoogle"
	errorsfeature "github.com/dalemusser/orgdesk/internal/app/features/errors"
	healthfeature "github.com/dalemusser/orgdesk/internal/app/features/health"
	homefeature "github.com/dalemusser/orgdesk/internal/app/features/home"
	loginfeature "github.com/dalemusser/orgdesk/internal/app/features/login"
	logoutfeature "github.com/dalemusser/orgdesk/internal/app/features/logout"
	_ "github.com/dalemusser/orgdesk/internal/app/features/shared/views"
	auditstore "github.com/dalemusser/orgdesk/internal/app/store/audit"
	"github.com/dalemusser/orgdesk/internal/app/store/oauthstate"
	"github.com/dalemusser/orgdesk/internal/app/system/auditlog"
	"github.com/dalemusser/orgdesk/internal/app/system/auth"
	"github.com/dalemusser/orgdesk/internal/app/system/flash"
	"github.com/dalemusser/orgdesk/internal/app/system/mailer"
	"github.com/dalemusser/orgdesk/internal/app/system/orgcache"
	"github.com/dalemusser/orgdesk/internal/app/system/viewdata"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// OrgDesk initializes the template engine, the session store, flash toasts,
// and CSRF protection, then mounts feature routers: home, login (Google
// sign-in), the organization assignment screens, and invite acceptance.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.OrgDeskMongoDatabase
	secure := coreCfg.Env == "prod"

	if err := auth.InitSessionStore(appCfg.SessionKey, appCfg.SessionDomain, secure, logger); err != nil {
		logger.Error("session store init failed", zap.Error(err))
		return nil, err
	}

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	// Flash toast queue, shared by handlers and the base view model.
	flashQueue := flash.NewQueue(appCfg.SessionKey, secure)
	viewdata.Init(flashQueue)

	// Audit trail: assignment lifecycle, invites, and auth events.
	audit := auditlog.New(auditstore.New(db), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	// Cached per-organization member/pending counts for the roster header.
	cache := orgcache.New(db, logger)

	// Outbound invite mail. Nil when SMTP is not configured; sends become
	// logged no-ops.
	mail := mailer.New(mailer.Config{
		Host:     appCfg.MailSMTPHost,
		Port:     appCfg.MailSMTPPort,
		Username: appCfg.MailSMTPUser,
		Password: appCfg.MailSMTPPass,
		From:     mailFrom(appCfg),
	}, logger)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(auth.LoadSessionUser)

	// CSRF protection for all form posts. Templates embed the token via the
	// base view model.
	r.Use(csrf.Protect(
		[]byte(appCfg.CSRFKey),
		csrf.Secure(secure),
		csrf.Path("/"),
	))

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.OrgDeskMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Public pages
	homeHandler := homefeature.NewHandler(logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Authentication
	googleEnabled := appCfg.GoogleClientID != "" && appCfg.GoogleClientSecret != ""

	loginHandler := loginfeature.NewHandler(googleEnabled, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(audit, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	googleHandler := authgooglefeature.NewHandler(
		db, audit, oauthstate.New(db),
		appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL,
		logger)
	r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

	// Error pages
	r.Get("/forbidden", func(w http.ResponseWriter, r *http.Request) {
		errorsfeature.RenderForbidden(w, r, "You do not have access to this page.", "")
	})
	r.Get("/unauthorized", func(w http.ResponseWriter, r *http.Request) {
		errorsfeature.RenderUnauthorized(w, r, "")
	})

	// Organization assignment screens and invite acceptance
	assignHandler := assignmentsfeature.NewHandler(db, audit, flashQueue, cache, mail, appCfg.BaseURL, appCfg.InviteExpiry, logger)
	r.Mount("/organization", assignmentsfeature.Routes(assignHandler))
	r.Mount("/invites", assignmentsfeature.AcceptRoutes(assignHandler))

	// Router-level 404 so unknown paths get the styled page.
	r.NotFound(errorsfeature.RenderNotFound)

	return r, nil
}

func mailFrom(appCfg AppConfig) string {
	if appCfg.MailFromName != "" {
		return appCfg.MailFromName + " <" + appCfg.MailFrom + ">"
	}
	return appCfg.MailFrom
}
