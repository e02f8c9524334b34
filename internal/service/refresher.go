package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/deviro/influencer-post-tracker/internal/config"
	"github.com/deviro/influencer-post-tracker/internal/store"
)

// Refresher periodically re-pulls campaigns and the currently selected
// campaign's influencers so view counts don't go stale between user actions.
type Refresher struct {
	config *config.RefresherConfig
	logger *zap.Logger
	store  *store.Store
	ticker *time.Ticker
	stopCh chan struct{}
}

func NewRefresher(cfg *config.RefresherConfig, logger *zap.Logger, st *store.Store) *Refresher {
	return &Refresher{
		config: cfg,
		logger: logger,
		store:  st,
		stopCh: make(chan struct{}),
	}
}

func (r *Refresher) Start(ctx context.Context) error {
	if !r.config.Enabled {
		r.logger.Info("Refresher is disabled")
		return nil
	}

	interval, err := time.ParseDuration(r.config.Interval)
	if err != nil {
		r.logger.Error("Invalid refresh interval", zap.String("interval", r.config.Interval), zap.Error(err))
		return err
	}

	r.logger.Info("Starting refresher", zap.String("interval", r.config.Interval))

	r.ticker = time.NewTicker(interval)

	go func() {
		for {
			select {
			case <-r.ticker.C:
				r.runRefresh(ctx)
			case <-r.stopCh:
				r.logger.Info("Refresher stopped")
				return
			case <-ctx.Done():
				r.logger.Info("Refresher context cancelled")
				return
			}
		}
	}()

	return nil
}

func (r *Refresher) Stop() {
	if r.ticker != nil {
		r.ticker.Stop()
	}
	close(r.stopCh)
	r.logger.Info("Refresher shutdown completed")
}

func (r *Refresher) runRefresh(ctx context.Context) {
	start := time.Now()

	res := r.store.FetchCampaigns(ctx)
	if !res.Success {
		r.logger.Error("Campaign refresh failed", zap.String("error", res.Error))
		return
	}

	if campaignID := r.store.CurrentCampaignID(); campaignID != "" {
		infRes := r.store.FetchInfluencersForCampaign(ctx, campaignID)
		if !infRes.Success {
			r.logger.Error("Influencer refresh failed",
				zap.String("campaign_id", campaignID),
				zap.String("error", infRes.Error))
			return
		}
	}

	r.logger.Info("Refresh completed", zap.Duration("duration", time.Since(start)))
}
