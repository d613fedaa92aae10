package workers

import (
	"context"
	"log/slog"
	"time"

	application "retroboard/contexts/collaboration/presence-service/application"
	"retroboard/contexts/collaboration/presence-service/ports"
)

// PresenceExpirer sweeps stale presence rows. Participants whose last
// heartbeat predates OnlineTimeout flip offline; rows idle past TTL are
// removed outright. Both passes use LastActive so a live client is never
// touched.
type PresenceExpirer struct {
	Participants  ports.PresenceSweepRepository
	Clock         ports.Clock
	OnlineTimeout time.Duration
	TTL           time.Duration
	Logger        *slog.Logger
}

func (e PresenceExpirer) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(e.Logger)
	now := time.Now().UTC()
	if e.Clock != nil {
		now = e.Clock.Now().UTC()
	}

	onlineTimeout := e.OnlineTimeout
	if onlineTimeout <= 0 {
		onlineTimeout = 2 * time.Minute
	}
	ttl := e.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	marked, err := e.Participants.MarkStaleOffline(ctx, now.Add(-onlineTimeout))
	if err != nil {
		logger.Error("presence offline sweep failed",
			"event", "presence_offline_sweep_failed",
			"module", "collaboration/presence-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	deleted, err := e.Participants.DeleteExpiredParticipants(ctx, now.Add(-ttl))
	if err != nil {
		logger.Error("presence expiry sweep failed",
			"event", "presence_expiry_sweep_failed",
			"module", "collaboration/presence-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	if marked > 0 || deleted > 0 {
		logger.Info("presence sweep completed",
			"event", "presence_sweep_completed",
			"module", "collaboration/presence-service",
			"layer", "worker",
			"marked_offline", marked,
			"deleted", deleted,
		)
	}
	return nil
}
