package models

import (
	"time"
)

// Video is a single tracked post belonging to an influencer.
type Video struct {
	ID           string      `gorm:"type:uuid;primaryKey" json:"id"`
	InfluencerID string      `gorm:"type:uuid;not null;index" json:"influencer_id"`
	Link         string      `gorm:"not null;size:2048" json:"link"`
	Platform     Platform    `gorm:"size:50;not null" json:"platform"`
	Status       VideoStatus `gorm:"size:50;default:'Draft'" json:"status"`
	PostedOn     *Date       `gorm:"type:date" json:"posted_on"`
	Views        int64       `gorm:"not null;default:0" json:"views"`
	CreatedAt    time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

// Validate checks a video row read back from the backend. It is lenient
// about the link (existing rows predate URL validation) but strict about
// everything else.
func (v *Video) Validate() error {
	if v.Status == "" {
		v.Status = StatusDraft
	}
	if v.ID == "" {
		return invalid("id", "id is required")
	}
	if v.InfluencerID == "" {
		return invalid("influencer_id", "influencer_id is required")
	}
	if v.Link == "" {
		return invalid("link", "Link is required")
	}
	if !v.Platform.Valid() {
		return invalid("platform", "unknown platform")
	}
	if !v.Status.Valid() {
		return invalid("status", "unknown video status")
	}
	if v.Views < 0 {
		return invalid("views", "views must not be negative")
	}
	return nil
}

// ValidateStrict additionally requires a well-formed URL. Applied to rows
// that were just created, never to pre-existing data.
func (v *Video) ValidateStrict() error {
	if err := v.Validate(); err != nil {
		return err
	}
	if !validURL(v.Link) {
		return invalid("link", "Must be a valid URL")
	}
	return nil
}

func (v Video) Clone() Video {
	out := v
	if v.PostedOn != nil {
		d := *v.PostedOn
		out.PostedOn = &d
	}
	return out
}

// VideoDraft is the payload for creating a video.
type VideoDraft struct {
	InfluencerID string      `json:"influencer_id"`
	Link         string      `json:"link"`
	Platform     Platform    `json:"platform"`
	Status       VideoStatus `json:"status,omitempty"`
	PostedOn     *Date       `json:"posted_on,omitempty"`
	Views        int64       `json:"views"`
}

// Validate applies defaults and checks the draft. Creation is strict: the
// link must be a URL and posted_on must not be in the future.
func (d *VideoDraft) Validate(now time.Time) error {
	if d.Status == "" {
		d.Status = StatusDraft
	}
	if d.InfluencerID == "" {
		return invalid("influencer_id", "influencer_id is required")
	}
	if !validURL(d.Link) {
		return invalid("link", "Must be a valid URL")
	}
	if !d.Platform.Valid() {
		return invalid("platform", "unknown platform")
	}
	if !d.Status.Valid() {
		return invalid("status", "unknown video status")
	}
	if d.Views < 0 {
		return invalid("views", "views must not be negative")
	}
	if d.PostedOn != nil && d.PostedOn.After(Date{now}) {
		return invalid("posted_on", "posted date must not be in the future")
	}
	return nil
}

func (d VideoDraft) Materialize(id string, now time.Time) Video {
	return Video{
		ID:           id,
		InfluencerID: d.InfluencerID,
		Link:         d.Link,
		Platform:     d.Platform,
		Status:       d.Status,
		PostedOn:     d.PostedOn,
		Views:        d.Views,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// VideoPatch is a partial update. The influencer_id foreign key is immutable
// after creation; a patch carrying it is rejected before any network call.
type VideoPatch struct {
	InfluencerID *string      `json:"influencer_id,omitempty"`
	Link         *string      `json:"link,omitempty"`
	Platform     *Platform    `json:"platform,omitempty"`
	Status       *VideoStatus `json:"status,omitempty"`
	PostedOn     *Date        `json:"posted_on,omitempty"`
	Views        *int64       `json:"views,omitempty"`
}

func (p *VideoPatch) Validate(now time.Time) error {
	if p.InfluencerID != nil {
		return invalid("influencer_id", "a video cannot be moved to a different influencer")
	}
	if p.Link != nil && !validURL(*p.Link) {
		return invalid("link", "Must be a valid URL")
	}
	if p.Platform != nil && !p.Platform.Valid() {
		return invalid("platform", "unknown platform")
	}
	if p.Status != nil && !p.Status.Valid() {
		return invalid("status", "unknown video status")
	}
	if p.Views != nil && *p.Views < 0 {
		return invalid("views", "views must not be negative")
	}
	if p.PostedOn != nil && p.PostedOn.After(Date{now}) {
		return invalid("posted_on", "posted date must not be in the future")
	}
	return nil
}

func (p VideoPatch) ApplyTo(v *Video, now time.Time) {
	if p.Link != nil {
		v.Link = *p.Link
	}
	if p.Platform != nil {
		v.Platform = *p.Platform
	}
	if p.Status != nil {
		v.Status = *p.Status
	}
	if p.PostedOn != nil {
		v.PostedOn = p.PostedOn
	}
	if p.Views != nil {
		v.Views = *p.Views
	}
	v.UpdatedAt = now
}
