package models

import (
	"time"
)

// Metrics are the derived aggregates for one influencer. They are a pure
// function of the current video set, recomputed on every video mutation and
// never persisted.
type Metrics struct {
	Platforms   []Platform `json:"platforms"`
	VideoCount  int        `json:"video_count"`
	ViewsMedian int64      `json:"views_median"`
	TotalViews  int64      `json:"total_views"`
	ViewsNow    int64      `json:"views_now"`
}

// Influencer is a creator tracked within a campaign. It owns its videos
// (deleting the influencer deletes them) and carries the derived metrics.
type Influencer struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	CampaignID string    `gorm:"type:uuid;not null;index" json:"campaign_id"`
	Username   string    `gorm:"not null;size:255" json:"username"`
	Link       string    `gorm:"not null;size:2048" json:"link"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Videos []Video `gorm:"foreignKey:InfluencerID;constraint:OnDelete:CASCADE" json:"videos"`

	Metrics `gorm:"-"`
}

func (i *Influencer) Validate() error {
	if i.ID == "" {
		return invalid("id", "id is required")
	}
	if i.CampaignID == "" {
		return invalid("campaign_id", "campaign_id is required")
	}
	if i.Username == "" {
		return invalid("username", "Username is required")
	}
	if !validURL(i.Link) {
		return invalid("link", "Must be a valid URL")
	}
	return nil
}

// RecomputeMetrics re-derives the aggregate fields from the current video
// set. Every mutation of Videos must call this before the record is
// considered consistent.
func (i *Influencer) RecomputeMetrics() {
	i.Metrics = CalculateMetrics(i.Videos)
}

func (i Influencer) Clone() Influencer {
	out := i
	out.Videos = make([]Video, len(i.Videos))
	for idx, v := range i.Videos {
		out.Videos[idx] = v.Clone()
	}
	out.Platforms = append([]Platform(nil), i.Platforms...)
	return out
}

// InfluencerDraft is the payload for attaching an influencer to a campaign.
type InfluencerDraft struct {
	CampaignID string `json:"campaign_id"`
	Username   string `json:"username"`
	Link       string `json:"link"`
}

func (d *InfluencerDraft) Validate() error {
	if d.CampaignID == "" {
		return invalid("campaign_id", "campaign_id is required")
	}
	if d.Username == "" {
		return invalid("username", "Username is required")
	}
	if !validURL(d.Link) {
		return invalid("link", "Must be a valid URL")
	}
	return nil
}

func (d InfluencerDraft) Materialize(id string, now time.Time) Influencer {
	inf := Influencer{
		ID:         id,
		CampaignID: d.CampaignID,
		Username:   d.Username,
		Link:       d.Link,
		CreatedAt:  now,
		UpdatedAt:  now,
		Videos:     []Video{},
	}
	inf.RecomputeMetrics()
	return inf
}

// InfluencerPatch is a partial update. The campaign_id foreign key is
// immutable after creation; a patch carrying it is rejected before any
// network call.
type InfluencerPatch struct {
	CampaignID *string `json:"campaign_id,omitempty"`
	Username   *string `json:"username,omitempty"`
	Link       *string `json:"link,omitempty"`
}

func (p *InfluencerPatch) Validate() error {
	if p.CampaignID != nil {
		return invalid("campaign_id", "an influencer cannot be moved to a different campaign")
	}
	if p.Username != nil && *p.Username == "" {
		return invalid("username", "Username is required")
	}
	if p.Link != nil && !validURL(*p.Link) {
		return invalid("link", "Must be a valid URL")
	}
	return nil
}

// ApplyTo merges the patch into the persisted fields of i, leaving videos
// and metrics untouched.
func (p InfluencerPatch) ApplyTo(i *Influencer, now time.Time) {
	if p.Username != nil {
		i.Username = *p.Username
	}
	if p.Link != nil {
		i.Link = *p.Link
	}
	i.UpdatedAt = now
}
