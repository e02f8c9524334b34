package models

import (
	"time"
)

// Campaign groups the influencers and videos tracked for one marketing
// effort. Rows live in the campaigns table; ids are server-assigned except
// for optimistic records, which carry a temp-id until confirmed.
type Campaign struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"not null;size:255" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
	StartDate   *Date     `gorm:"type:date" json:"start_date"`
	EndDate     *Date     `gorm:"type:date" json:"end_date"`
	Budget      *float64  `json:"budget"`
	Status      string    `gorm:"size:50;default:'Active'" json:"status"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Validate checks a campaign row as returned by the backend. It fails closed:
// a row that does not parse is never handed to the store.
func (c *Campaign) Validate() error {
	if c.ID == "" {
		return invalid("id", "id is required")
	}
	if c.Name == "" {
		return invalid("name", "Campaign name is required")
	}
	if c.Budget != nil && *c.Budget < 0 {
		return invalid("budget", "budget must not be negative")
	}
	if c.StartDate != nil && c.EndDate != nil && c.StartDate.After(*c.EndDate) {
		return invalid("end_date", "end date must not be before start date")
	}
	return nil
}

// Clone returns a deep copy, safe to hold as a rollback snapshot.
func (c Campaign) Clone() Campaign {
	out := c
	if c.Description != nil {
		v := *c.Description
		out.Description = &v
	}
	if c.StartDate != nil {
		v := *c.StartDate
		out.StartDate = &v
	}
	if c.EndDate != nil {
		v := *c.EndDate
		out.EndDate = &v
	}
	if c.Budget != nil {
		v := *c.Budget
		out.Budget = &v
	}
	return out
}

// CampaignDraft is the payload for creating a campaign. Server-assigned
// fields (id, timestamps) are absent.
type CampaignDraft struct {
	Name        string   `json:"name"`
	Description *string  `json:"description,omitempty"`
	StartDate   *Date    `json:"start_date,omitempty"`
	EndDate     *Date    `json:"end_date,omitempty"`
	Budget      *float64 `json:"budget,omitempty"`
	Status      string   `json:"status,omitempty"`
}

// Validate applies defaults and checks the draft before anything is sent or
// applied optimistically.
func (d *CampaignDraft) Validate() error {
	if d.Status == "" {
		d.Status = CampaignStatusActive
	}
	if d.Name == "" {
		return invalid("name", "Campaign name is required")
	}
	if d.Budget != nil && *d.Budget < 0 {
		return invalid("budget", "budget must not be negative")
	}
	if d.StartDate != nil && d.EndDate != nil && d.StartDate.After(*d.EndDate) {
		return invalid("end_date", "end date must not be before start date")
	}
	return nil
}

// Materialize builds the record this draft will become, with the given id
// and derived timestamps.
func (d CampaignDraft) Materialize(id string, now time.Time) Campaign {
	return Campaign{
		ID:          id,
		Name:        d.Name,
		Description: d.Description,
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
		Budget:      d.Budget,
		Status:      d.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// CampaignPatch is a partial update; nil fields are left untouched.
type CampaignPatch struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	StartDate   *Date    `json:"start_date,omitempty"`
	EndDate     *Date    `json:"end_date,omitempty"`
	Budget      *float64 `json:"budget,omitempty"`
	Status      *string  `json:"status,omitempty"`
}

func (p *CampaignPatch) Validate() error {
	if p.Name != nil && *p.Name == "" {
		return invalid("name", "Campaign name is required")
	}
	if p.Budget != nil && *p.Budget < 0 {
		return invalid("budget", "budget must not be negative")
	}
	if p.StartDate != nil && p.EndDate != nil && p.StartDate.After(*p.EndDate) {
		return invalid("end_date", "end date must not be before start date")
	}
	return nil
}

// ApplyTo merges the patch into c and refreshes updated_at.
func (p CampaignPatch) ApplyTo(c *Campaign, now time.Time) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Description != nil {
		c.Description = p.Description
	}
	if p.StartDate != nil {
		c.StartDate = p.StartDate
	}
	if p.EndDate != nil {
		c.EndDate = p.EndDate
	}
	if p.Budget != nil {
		c.Budget = p.Budget
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	c.UpdatedAt = now
}
