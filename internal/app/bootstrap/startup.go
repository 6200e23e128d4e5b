// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/dalemusser/orgdesk/internal/app/store/oauthstate"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
//
// OrgDesk sweeps stale OAuth state documents here. The TTL index removes
// them eventually anyway, but a sweep at boot keeps the collection tidy
// after long downtime.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	removed, err := oauthstate.New(deps.OrgDeskMongoDatabase).CleanupExpired(ctx)
	if err != nil {
		// Not fatal; the TTL index will catch up.
		logger.Warn("oauth state cleanup failed", zap.Error(err))
		return nil
	}
	if removed > 0 {
		logger.Info("removed expired oauth state documents", zap.Int64("count", removed))
	}
	return nil
}
