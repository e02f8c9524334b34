package models

import "fmt"

// Platform identifies where a tracked video was posted. The set matches the
// persisted schema; all four values are canonical.
type Platform string

const (
	PlatformYouTube   Platform = "YouTube"
	PlatformInstagram Platform = "Instagram"
	PlatformTikTok    Platform = "TikTok"
	PlatformTwitch    Platform = "Twitch"
)

var platforms = []Platform{PlatformYouTube, PlatformInstagram, PlatformTikTok, PlatformTwitch}

func (p Platform) Valid() bool {
	for _, known := range platforms {
		if p == known {
			return true
		}
	}
	return false
}

func ParsePlatform(s string) (Platform, error) {
	p := Platform(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown platform %q", s)
	}
	return p, nil
}

// VideoStatus is the publication state of a tracked video.
type VideoStatus string

const (
	StatusPublished   VideoStatus = "Published"
	StatusScheduled   VideoStatus = "Scheduled"
	StatusDraft       VideoStatus = "Draft"
	StatusLive        VideoStatus = "Live"
	StatusUnderReview VideoStatus = "Under Review"
	StatusArchived    VideoStatus = "Archived"
)

var videoStatuses = []VideoStatus{
	StatusPublished, StatusScheduled, StatusDraft,
	StatusLive, StatusUnderReview, StatusArchived,
}

func (s VideoStatus) Valid() bool {
	for _, known := range videoStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func ParseVideoStatus(s string) (VideoStatus, error) {
	vs := VideoStatus(s)
	if !vs.Valid() {
		return "", fmt.Errorf("unknown video status %q", s)
	}
	return vs, nil
}

// CampaignStatusActive is the default label for new campaigns. Campaign
// status is free-form, unlike the video status enumeration.
const CampaignStatusActive = "Active"
