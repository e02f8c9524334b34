package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/deviro/influencer-post-tracker/internal/models"
)

// CreateVideo attaches a video to its influencer: the synthetic record goes
// to the head of the nested and flat collections and the owner's metrics are
// re-derived before the persist call is issued.
func (s *Store) CreateVideo(ctx context.Context, draft models.VideoDraft) Result[models.Video] {
	if err := draft.Validate(s.now()); err != nil {
		s.recordError(err)
		return failure[models.Video](err)
	}

	s.mu.Lock()
	epoch := s.epoch
	owner := s.findInfluencerLocked(draft.InfluencerID)
	if owner == nil {
		err := notFoundErr("Influencer")
		s.lastError = err.Message
		s.mu.Unlock()
		return failure[models.Video](err)
	}
	temp := draft.Materialize(models.NewTempID(), s.now())
	owner.Videos = append([]models.Video{temp.Clone()}, owner.Videos...)
	owner.RecomputeMetrics()
	s.videos = append([]models.Video{temp.Clone()}, s.videos...)
	s.videoOwner[temp.ID] = owner.ID
	s.mu.Unlock()

	created, err := s.gw.InsertVideo(ctx, draft)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		if err != nil {
			return failure[models.Video](err)
		}
		return succeed(created.Clone())
	}
	if err != nil {
		s.removeVideoLocked(temp.ID)
		s.lastError = err.Error()
		s.logger.Warn("Video create rolled back", zap.Error(err))
		return failure[models.Video](err)
	}
	s.replaceVideoLocked(temp.ID, *created)
	s.lastError = ""
	return succeed(created.Clone())
}

// UpdateVideo merges the patch into the record wherever it appears. The
// influencer foreign key is immutable: a patch carrying it fails validation
// before any network call.
func (s *Store) UpdateVideo(ctx context.Context, id string, patch models.VideoPatch) Result[models.Video] {
	if err := patch.Validate(s.now()); err != nil {
		s.recordError(err)
		return failure[models.Video](err)
	}

	s.mu.Lock()
	epoch := s.epoch
	current, ok := s.findVideoLocked(id)
	if !ok {
		err := notFoundErr("Video")
		s.lastError = err.Message
		s.mu.Unlock()
		return failure[models.Video](err)
	}
	snapshot := current.Clone()
	optimistic := current.Clone()
	patch.ApplyTo(&optimistic, s.now())
	s.replaceVideoLocked(id, optimistic)
	s.mu.Unlock()

	updated, err := s.gw.UpdateVideo(ctx, id, patch)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		if err != nil {
			return failure[models.Video](err)
		}
		return succeed(updated.Clone())
	}
	if err != nil {
		s.replaceVideoLocked(id, snapshot)
		s.lastError = err.Error()
		s.logger.Warn("Video update rolled back", zap.String("id", id), zap.Error(err))
		return failure[models.Video](err)
	}
	s.replaceVideoLocked(id, *updated)
	s.lastError = ""
	return succeed(updated.Clone())
}

func (s *Store) DeleteVideo(ctx context.Context, id string) Result[struct{}] {
	s.mu.Lock()
	epoch := s.epoch
	current, ok := s.findVideoLocked(id)
	if !ok {
		err := notFoundErr("Video")
		s.lastError = err.Message
		s.mu.Unlock()
		return failure[struct{}](err)
	}
	snapshot := current.Clone()
	s.removeVideoLocked(id)
	s.mu.Unlock()

	err := s.gw.DeleteVideo(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		if err != nil {
			return failure[struct{}](err)
		}
		return succeed(struct{}{})
	}
	if err != nil {
		s.restoreVideoLocked(snapshot)
		s.lastError = err.Error()
		s.logger.Warn("Video delete rolled back", zap.String("id", id), zap.Error(err))
		return failure[struct{}](err)
	}
	s.lastError = ""
	return succeed(struct{}{})
}
