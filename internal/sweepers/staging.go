package sweepers

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/priceapp/backoffice/internal/jobs"
	"github.com/priceapp/backoffice/internal/session"
)

// StagingSweeper periodically clears staging rows left behind by expired
// operator sessions
type StagingSweeper struct {
	pool     *pgxpool.Pool
	sessions *session.Manager
	logger   *zerolog.Logger
	interval time.Duration
	ttl      time.Duration
	stopChan chan struct{}
}

// NewStagingSweeper creates a new sweeper for staging table maintenance
func NewStagingSweeper(pool *pgxpool.Pool, sessions *session.Manager, logger *zerolog.Logger, interval, ttl time.Duration) *StagingSweeper {
	return &StagingSweeper{
		pool:     pool,
		sessions: sessions,
		logger:   logger,
		interval: interval,
		ttl:      ttl,
		stopChan: make(chan struct{}),
	}
}

// Start begins the periodic sweep
func (s *StagingSweeper) Start(ctx context.Context) {
	s.logger.Info().
		Dur("interval", s.interval).
		Dur("ttl", s.ttl).
		Msg("Starting staging sweeper")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Staging sweeper stopping (context cancelled)")
			return
		case <-s.stopChan:
			s.logger.Info().Msg("Staging sweeper stopping (stop signal)")
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				s.logger.Error().Err(err).Msg("Failed to sweep staging tables")
			}
		}
	}
}

// Stop signals the sweeper to stop
func (s *StagingSweeper) Stop() {
	close(s.stopChan)
}

// Sweep drops expired sessions and their staging rows, then age-sweeps
// rows orphaned by earlier restarts. Sessions still tracked after the
// expiry pass are live and their rows are exempt from the age sweep, no
// matter how old their first queued tag is.
func (s *StagingSweeper) Sweep(ctx context.Context) error {
	expired := s.sessions.Expired(s.ttl)
	if len(expired) > 0 {
		deleted, err := jobs.CleanupSessionStaging(ctx, expired)
		if err != nil {
			return err
		}
		s.sessions.Remove(expired)
		s.logger.Info().
			Int("sessions", len(expired)).
			Int("rows", deleted).
			Msg("Cleared staging for expired sessions")
	}

	deleted, err := jobs.CleanupExpiredStaging(ctx, s.ttl, s.sessions.IDs())
	if err != nil {
		return err
	}
	if deleted > 0 {
		s.logger.Info().Int("rows", deleted).Msg("Cleared orphaned staging rows")
	}

	return nil
}
