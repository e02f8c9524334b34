// Package gateway is the persistence boundary: it translates store intents
// into calls against the remote data service and normalizes rows and errors
// on the way back. It never touches store state.
package gateway

import (
	"context"

	"github.com/deviro/influencer-post-tracker/internal/models"
)

// Gateway is one method per (entity, operation) pair. Returned rows have
// been decoded and validated; failures are always a *Error carrying a
// translated, human-readable message.
//
// ListInfluencers fetches each influencer together with its nested videos in
// one round trip and returns them with derived metrics already computed.
type Gateway interface {
	ListCampaigns(ctx context.Context) ([]models.Campaign, error)
	InsertCampaign(ctx context.Context, draft models.CampaignDraft) (*models.Campaign, error)
	UpdateCampaign(ctx context.Context, id string, patch models.CampaignPatch) (*models.Campaign, error)
	DeleteCampaign(ctx context.Context, id string) error

	ListInfluencers(ctx context.Context, campaignID string) ([]models.Influencer, error)
	InsertInfluencer(ctx context.Context, draft models.InfluencerDraft) (*models.Influencer, error)
	UpdateInfluencer(ctx context.Context, id string, patch models.InfluencerPatch) (*models.Influencer, error)
	DeleteInfluencer(ctx context.Context, id string) error

	ListVideos(ctx context.Context, influencerID string) ([]models.Video, error)
	InsertVideo(ctx context.Context, draft models.VideoDraft) (*models.Video, error)
	UpdateVideo(ctx context.Context, id string, patch models.VideoPatch) (*models.Video, error)
	DeleteVideo(ctx context.Context, id string) error
}
