// Package store holds the client-facing application state and applies every
// mutation optimistically: local state changes first, the persistence
// gateway is called second, and the change is reconciled or rolled back when
// the call resolves.
//
// Videos are stored once, nested under their owning influencer; the flat
// video slice (populated by FetchVideosForInfluencer) and the id-to-owner
// index are only ever written by the same mutation funnel that writes the
// nested copy.
package store

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/deviro/influencer-post-tracker/internal/gateway"
	"github.com/deviro/influencer-post-tracker/internal/models"
)

type Store struct {
	mu     sync.Mutex
	gw     gateway.Gateway
	logger *zap.Logger
	now    func() time.Time

	campaigns         []models.Campaign
	influencers       []*models.Influencer
	videos            []models.Video
	videoOwner        map[string]string
	currentCampaignID string
	loading           bool
	lastError         string

	// epoch invalidates in-flight reconciliations across a Reset. A
	// mutation captures the epoch before suspending on the gateway; if it
	// resumes under a different one, it returns its envelope without
	// touching state.
	epoch uint64
}

func New(gw gateway.Gateway, logger *zap.Logger) *Store {
	return &Store{
		gw:         gw,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
		videoOwner: make(map[string]string),
	}
}

// State is a point-in-time deep copy of the store, safe for rendering.
type State struct {
	Campaigns         []models.Campaign   `json:"campaigns"`
	Influencers       []models.Influencer `json:"influencers"`
	Videos            []models.Video      `json:"videos"`
	CurrentCampaignID string              `json:"current_campaign_id"`
	Loading           bool                `json:"loading"`
	Error             string              `json:"error,omitempty"`
}

func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	influencers := make([]models.Influencer, len(s.influencers))
	for i, inf := range s.influencers {
		influencers[i] = inf.Clone()
	}
	return State{
		Campaigns:         cloneCampaigns(s.campaigns),
		Influencers:       influencers,
		Videos:            cloneVideos(s.videos),
		CurrentCampaignID: s.currentCampaignID,
		Loading:           s.loading,
		Error:             s.lastError,
	}
}

func (s *Store) CurrentCampaignID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentCampaignID
}

// SetCurrentCampaign records which campaign the view is scoped to. Called on
// navigation before fetching that campaign's influencers.
func (s *Store) SetCurrentCampaign(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentCampaignID = id
}

func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// Reset clears every state slice back to initial. Safe to invoke at any
// time: it supersedes in-flight reconciliations via the epoch counter.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.campaigns = nil
	s.influencers = nil
	s.videos = nil
	s.videoOwner = make(map[string]string)
	s.currentCampaignID = ""
	s.loading = false
	s.lastError = ""
	s.logger.Info("Store reset", zap.Uint64("epoch", s.epoch))
}

// GetInfluencerByID returns a copy of the influencer as currently held.
func (s *Store) GetInfluencerByID(id string) (models.Influencer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if inf := s.findInfluencerLocked(id); inf != nil {
		return inf.Clone(), true
	}
	return models.Influencer{}, false
}

// GetVideoByID searches the flat slice first and the nested collections
// second; a record may be reachable via either path depending on how it was
// last written.
func (s *Store) GetVideoByID(id string) (models.Video, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.findVideoLocked(id); ok {
		return v.Clone(), true
	}
	return models.Video{}, false
}

// --- Fetches (non-optimistic: loading flag, wholesale replace) ---

func (s *Store) FetchCampaigns(ctx context.Context) Result[[]models.Campaign] {
	epoch := s.beginFetch()

	rows, err := s.gw.ListCampaigns(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return fetchEnvelope(rows, err)
	}
	s.loading = false
	if err != nil {
		s.lastError = err.Error()
		s.logger.Error("Failed to fetch campaigns", zap.Error(err))
		return failure[[]models.Campaign](err)
	}
	s.campaigns = cloneCampaigns(rows)
	return succeed(rows)
}

func (s *Store) FetchInfluencersForCampaign(ctx context.Context, campaignID string) Result[[]models.Influencer] {
	epoch := s.beginFetch()

	rows, err := s.gw.ListInfluencers(ctx, campaignID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return fetchEnvelope(rows, err)
	}
	s.loading = false
	if err != nil {
		s.lastError = err.Error()
		s.logger.Error("Failed to fetch influencers",
			zap.String("campaign_id", campaignID), zap.Error(err))
		return failure[[]models.Influencer](err)
	}
	s.influencers = make([]*models.Influencer, len(rows))
	for i := range rows {
		clone := rows[i].Clone()
		s.influencers[i] = &clone
	}
	s.rebuildVideoOwnerLocked()
	return succeed(rows)
}

func (s *Store) FetchVideosForInfluencer(ctx context.Context, influencerID string) Result[[]models.Video] {
	epoch := s.beginFetch()

	rows, err := s.gw.ListVideos(ctx, influencerID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return fetchEnvelope(rows, err)
	}
	s.loading = false
	if err != nil {
		s.lastError = err.Error()
		s.logger.Error("Failed to fetch videos",
			zap.String("influencer_id", influencerID), zap.Error(err))
		return failure[[]models.Video](err)
	}
	s.videos = cloneVideos(rows)
	s.rebuildVideoOwnerLocked()
	return succeed(rows)
}

func (s *Store) beginFetch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = true
	s.lastError = ""
	return s.epoch
}

// fetchEnvelope reports a fetch outcome that resolved after a reset without
// letting it overwrite post-reset state.
func fetchEnvelope[T any](rows T, err error) Result[T] {
	if err != nil {
		return failure[T](err)
	}
	return succeed(rows)
}

// --- Locked helpers ---

func (s *Store) findCampaignLocked(id string) int {
	for i := range s.campaigns {
		if s.campaigns[i].ID == id {
			return i
		}
	}
	return -1
}

// insertCampaignSortedLocked re-inserts a campaign preserving newest-first
// ordering by creation time, used when a delete rolls back.
func (s *Store) insertCampaignSortedLocked(c models.Campaign) {
	pos := len(s.campaigns)
	for i := range s.campaigns {
		if c.CreatedAt.After(s.campaigns[i].CreatedAt) {
			pos = i
			break
		}
	}
	s.campaigns = append(s.campaigns, models.Campaign{})
	copy(s.campaigns[pos+1:], s.campaigns[pos:])
	s.campaigns[pos] = c
}

func (s *Store) removeCampaignLocked(id string) {
	for i := range s.campaigns {
		if s.campaigns[i].ID == id {
			s.campaigns = append(s.campaigns[:i], s.campaigns[i+1:]...)
			return
		}
	}
}

func (s *Store) findInfluencerLocked(id string) *models.Influencer {
	for _, inf := range s.influencers {
		if inf.ID == id {
			return inf
		}
	}
	return nil
}

func (s *Store) findVideoLocked(id string) (models.Video, bool) {
	for i := range s.videos {
		if s.videos[i].ID == id {
			return s.videos[i], true
		}
	}
	for _, inf := range s.influencers {
		for i := range inf.Videos {
			if inf.Videos[i].ID == id {
				return inf.Videos[i], true
			}
		}
	}
	return models.Video{}, false
}

// ownerOfVideoLocked resolves the influencer whose nested collection holds
// the video, via the index first and a scan as fallback.
func (s *Store) ownerOfVideoLocked(videoID string) *models.Influencer {
	if ownerID, ok := s.videoOwner[videoID]; ok {
		if inf := s.findInfluencerLocked(ownerID); inf != nil {
			return inf
		}
	}
	for _, inf := range s.influencers {
		for i := range inf.Videos {
			if inf.Videos[i].ID == videoID {
				return inf
			}
		}
	}
	return nil
}

// replaceVideoLocked swaps the record in every collection it appears in and
// re-derives the owner's metrics. Handles id changes (temp id -> server id).
func (s *Store) replaceVideoLocked(oldID string, v models.Video) {
	for i := range s.videos {
		if s.videos[i].ID == oldID {
			s.videos[i] = v.Clone()
		}
	}
	if owner := s.ownerOfVideoLocked(oldID); owner != nil {
		for i := range owner.Videos {
			if owner.Videos[i].ID == oldID {
				owner.Videos[i] = v.Clone()
			}
		}
		owner.RecomputeMetrics()
	}
	s.rebuildVideoOwnerLocked()
}

func (s *Store) removeVideoLocked(id string) {
	for i := range s.videos {
		if s.videos[i].ID == id {
			s.videos = append(s.videos[:i], s.videos[i+1:]...)
			break
		}
	}
	if owner := s.ownerOfVideoLocked(id); owner != nil {
		for i := range owner.Videos {
			if owner.Videos[i].ID == id {
				owner.Videos = append(owner.Videos[:i], owner.Videos[i+1:]...)
				break
			}
		}
		owner.RecomputeMetrics()
	}
	s.rebuildVideoOwnerLocked()
}

// restoreVideoLocked undoes a delete: the record returns to the head of the
// flat slice and of its owner's collection.
func (s *Store) restoreVideoLocked(v models.Video) {
	s.videos = append([]models.Video{v.Clone()}, s.videos...)
	if inf := s.findInfluencerLocked(v.InfluencerID); inf != nil {
		inf.Videos = append([]models.Video{v.Clone()}, inf.Videos...)
		inf.RecomputeMetrics()
	}
	s.rebuildVideoOwnerLocked()
}

func (s *Store) rebuildVideoOwnerLocked() {
	index := make(map[string]string)
	for _, inf := range s.influencers {
		for i := range inf.Videos {
			index[inf.Videos[i].ID] = inf.ID
		}
	}
	for i := range s.videos {
		if _, ok := index[s.videos[i].ID]; !ok {
			index[s.videos[i].ID] = s.videos[i].InfluencerID
		}
	}
	s.videoOwner = index
}

func (s *Store) recordError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = err.Error()
}

func cloneCampaigns(in []models.Campaign) []models.Campaign {
	out := make([]models.Campaign, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}

func cloneVideos(in []models.Video) []models.Video {
	out := make([]models.Video, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}
