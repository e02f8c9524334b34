package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/deviro/influencer-post-tracker/internal/models"
)

// CreateCampaign inserts a synthetic record at the head of the campaign
// list, persists the draft, and swaps in the authoritative row on success.
func (s *Store) CreateCampaign(ctx context.Context, draft models.CampaignDraft) Result[models.Campaign] {
	if err := draft.Validate(); err != nil {
		s.recordError(err)
		return failure[models.Campaign](err)
	}

	s.mu.Lock()
	epoch := s.epoch
	temp := draft.Materialize(models.NewTempID(), s.now())
	s.campaigns = append([]models.Campaign{temp}, s.campaigns...)
	s.mu.Unlock()

	created, err := s.gw.InsertCampaign(ctx, draft)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		if err != nil {
			return failure[models.Campaign](err)
		}
		return succeed(created.Clone())
	}
	if err != nil {
		s.removeCampaignLocked(temp.ID)
		s.lastError = err.Error()
		s.logger.Warn("Campaign create rolled back", zap.Error(err))
		return failure[models.Campaign](err)
	}
	if idx := s.findCampaignLocked(temp.ID); idx >= 0 {
		s.campaigns[idx] = created.Clone()
	}
	s.lastError = ""
	return succeed(created.Clone())
}

func (s *Store) UpdateCampaign(ctx context.Context, id string, patch models.CampaignPatch) Result[models.Campaign] {
	if err := patch.Validate(); err != nil {
		s.recordError(err)
		return failure[models.Campaign](err)
	}

	s.mu.Lock()
	epoch := s.epoch
	idx := s.findCampaignLocked(id)
	if idx < 0 {
		err := notFoundErr("Campaign")
		s.lastError = err.Message
		s.mu.Unlock()
		return failure[models.Campaign](err)
	}
	snapshot := s.campaigns[idx].Clone()
	patch.ApplyTo(&s.campaigns[idx], s.now())
	s.mu.Unlock()

	updated, err := s.gw.UpdateCampaign(ctx, id, patch)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		if err != nil {
			return failure[models.Campaign](err)
		}
		return succeed(updated.Clone())
	}
	if err != nil {
		if idx := s.findCampaignLocked(id); idx >= 0 {
			s.campaigns[idx] = snapshot
		}
		s.lastError = err.Error()
		s.logger.Warn("Campaign update rolled back", zap.String("id", id), zap.Error(err))
		return failure[models.Campaign](err)
	}
	if idx := s.findCampaignLocked(id); idx >= 0 {
		s.campaigns[idx] = updated.Clone()
	}
	s.lastError = ""
	return succeed(updated.Clone())
}

// DeleteCampaign removes the record immediately; a failed persist restores
// it in its original position among campaigns sorted newest-first.
func (s *Store) DeleteCampaign(ctx context.Context, id string) Result[struct{}] {
	s.mu.Lock()
	epoch := s.epoch
	idx := s.findCampaignLocked(id)
	if idx < 0 {
		err := notFoundErr("Campaign")
		s.lastError = err.Message
		s.mu.Unlock()
		return failure[struct{}](err)
	}
	snapshot := s.campaigns[idx].Clone()
	s.campaigns = append(s.campaigns[:idx], s.campaigns[idx+1:]...)
	s.mu.Unlock()

	err := s.gw.DeleteCampaign(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		if err != nil {
			return failure[struct{}](err)
		}
		return succeed(struct{}{})
	}
	if err != nil {
		s.insertCampaignSortedLocked(snapshot)
		s.lastError = err.Error()
		s.logger.Warn("Campaign delete rolled back", zap.String("id", id), zap.Error(err))
		return failure[struct{}](err)
	}
	s.lastError = ""
	return succeed(struct{}{})
}
