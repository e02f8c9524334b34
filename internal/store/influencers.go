package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/deviro/influencer-post-tracker/internal/models"
)

func (s *Store) CreateInfluencer(ctx context.Context, draft models.InfluencerDraft) Result[models.Influencer] {
	if err := draft.Validate(); err != nil {
		s.recordError(err)
		return failure[models.Influencer](err)
	}

	s.mu.Lock()
	epoch := s.epoch
	temp := draft.Materialize(models.NewTempID(), s.now())
	s.influencers = append([]*models.Influencer{&temp}, s.influencers...)
	s.mu.Unlock()

	created, err := s.gw.InsertInfluencer(ctx, draft)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		if err != nil {
			return failure[models.Influencer](err)
		}
		return succeed(created.Clone())
	}
	if err != nil {
		s.removeInfluencerLocked(temp.ID)
		s.lastError = err.Error()
		s.logger.Warn("Influencer create rolled back", zap.Error(err))
		return failure[models.Influencer](err)
	}
	for i, inf := range s.influencers {
		if inf.ID == temp.ID {
			clone := created.Clone()
			s.influencers[i] = &clone
			break
		}
	}
	s.lastError = ""
	return succeed(created.Clone())
}

// UpdateInfluencer merges the patch into the record in place. The campaign
// foreign key is immutable: a patch carrying it fails validation before any
// network call.
func (s *Store) UpdateInfluencer(ctx context.Context, id string, patch models.InfluencerPatch) Result[models.Influencer] {
	if err := patch.Validate(); err != nil {
		s.recordError(err)
		return failure[models.Influencer](err)
	}

	s.mu.Lock()
	epoch := s.epoch
	inf := s.findInfluencerLocked(id)
	if inf == nil {
		err := notFoundErr("Influencer")
		s.lastError = err.Message
		s.mu.Unlock()
		return failure[models.Influencer](err)
	}
	snapshot := inf.Clone()
	patch.ApplyTo(inf, s.now())
	s.mu.Unlock()

	updated, err := s.gw.UpdateInfluencer(ctx, id, patch)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		if err != nil {
			return failure[models.Influencer](err)
		}
		return succeed(updated.Clone())
	}
	if err != nil {
		if inf := s.findInfluencerLocked(id); inf != nil {
			*inf = snapshot
		}
		s.lastError = err.Error()
		s.logger.Warn("Influencer update rolled back", zap.String("id", id), zap.Error(err))
		return failure[models.Influencer](err)
	}
	if inf := s.findInfluencerLocked(id); inf != nil {
		// Authoritative persisted fields over the local record; videos and
		// metrics stay as held.
		inf.CampaignID = updated.CampaignID
		inf.Username = updated.Username
		inf.Link = updated.Link
		inf.CreatedAt = updated.CreatedAt
		inf.UpdatedAt = updated.UpdatedAt
	}
	s.lastError = ""
	return succeed(updated.Clone())
}

// DeleteInfluencer removes the influencer and, with it, every one of its
// videos from all views of state; the backing store cascades the same way.
func (s *Store) DeleteInfluencer(ctx context.Context, id string) Result[struct{}] {
	s.mu.Lock()
	epoch := s.epoch
	inf := s.findInfluencerLocked(id)
	if inf == nil {
		err := notFoundErr("Influencer")
		s.lastError = err.Message
		s.mu.Unlock()
		return failure[struct{}](err)
	}
	snapshot := inf.Clone()
	removedFlat := s.removeInfluencerLocked(id)
	s.mu.Unlock()

	err := s.gw.DeleteInfluencer(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		if err != nil {
			return failure[struct{}](err)
		}
		return succeed(struct{}{})
	}
	if err != nil {
		s.restoreInfluencerLocked(snapshot, removedFlat)
		s.lastError = err.Error()
		s.logger.Warn("Influencer delete rolled back", zap.String("id", id), zap.Error(err))
		return failure[struct{}](err)
	}
	s.lastError = ""
	return succeed(struct{}{})
}

// removeInfluencerLocked drops the influencer and strips its videos from the
// flat slice so nothing is orphaned. The stripped flat entries are returned
// so a rollback can restore exactly what was removed.
func (s *Store) removeInfluencerLocked(id string) []models.Video {
	for i, inf := range s.influencers {
		if inf.ID == id {
			s.influencers = append(s.influencers[:i], s.influencers[i+1:]...)
			break
		}
	}
	var removed []models.Video
	kept := s.videos[:0]
	for _, v := range s.videos {
		if v.InfluencerID == id {
			removed = append(removed, v)
		} else {
			kept = append(kept, v)
		}
	}
	s.videos = kept
	s.rebuildVideoOwnerLocked()
	return removed
}

func (s *Store) restoreInfluencerLocked(snapshot models.Influencer, flat []models.Video) {
	s.influencers = append([]*models.Influencer{&snapshot}, s.influencers...)
	for i := len(flat) - 1; i >= 0; i-- {
		s.videos = append([]models.Video{flat[i]}, s.videos...)
	}
	s.rebuildVideoOwnerLocked()
}
