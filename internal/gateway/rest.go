package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/deviro/influencer-post-tracker/internal/config"
	"github.com/deviro/influencer-post-tracker/internal/models"
)

// REST talks to a hosted row-level REST API (PostgREST conventions: filter
// and order query parameters, Prefer: return=representation on writes,
// nested child selection for joins).
type REST struct {
	cfg    config.RESTConfig
	logger *zap.Logger
	client *http.Client
}

func NewREST(cfg config.RESTConfig, logger *zap.Logger) *REST {
	timeout := 30 * time.Second
	if cfg.Timeout != "" {
		if d, err := time.ParseDuration(cfg.Timeout); err == nil {
			timeout = d
		}
	}
	return &REST{
		cfg:    cfg,
		logger: logger,
		client: &http.Client{Timeout: timeout},
	}
}

// restError is the error body the service returns alongside a non-2xx
// status.
type restError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (g *REST) do(ctx context.Context, method, table string, query url.Values, body, out any) error {
	endpoint := strings.TrimRight(g.cfg.URL, "/") + "/rest/v1/" + table
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("apikey", g.cfg.APIKey)
	req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return transport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return g.translateStatus(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &Error{Kind: KindValidation, Message: fmt.Sprintf("Validation error: malformed response: %v", err)}
		}
	}
	return nil
}

func (g *REST) translateStatus(resp *http.Response) *Error {
	raw, _ := io.ReadAll(resp.Body)

	var body restError
	if err := json.Unmarshal(raw, &body); err == nil && (body.Code != "" || body.Message != "") {
		g.logger.Debug("Data service error",
			zap.Int("status", resp.StatusCode),
			zap.String("code", body.Code),
			zap.String("message", body.Message))

		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return &Error{Kind: KindPermission, Message: "You do not have permission to perform this action"}
		}
		return translateCode(body.Code, body.Message)
	}

	g.logger.Debug("Data service error without structured body",
		zap.Int("status", resp.StatusCode))

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &Error{Kind: KindPermission, Message: "You do not have permission to perform this action"}
	case http.StatusNotFound:
		return &Error{Kind: KindNotFound, Message: "Record not found"}
	default:
		return &Error{Kind: KindUnknown, Message: fmt.Sprintf("Database error: service returned status %d", resp.StatusCode)}
	}
}

// single unwraps the one-row array that insert/update return with
// return=representation.
func single[T any](rows []T, entity string) (*T, error) {
	if len(rows) == 0 {
		return nil, notFound(entity)
	}
	return &rows[0], nil
}

func eq(id string) url.Values {
	return url.Values{"id": {"eq." + id}}
}

func (g *REST) ListCampaigns(ctx context.Context) ([]models.Campaign, error) {
	query := url.Values{
		"select": {"*"},
		"order":  {"created_at.desc"},
	}

	var rows []models.Campaign
	if err := g.do(ctx, http.MethodGet, "campaigns", query, nil, &rows); err != nil {
		return nil, err
	}
	for i := range rows {
		if err := rows[i].Validate(); err != nil {
			return nil, fromValidation(err)
		}
	}
	return rows, nil
}

func (g *REST) InsertCampaign(ctx context.Context, draft models.CampaignDraft) (*models.Campaign, error) {
	var rows []models.Campaign
	if err := g.do(ctx, http.MethodPost, "campaigns", nil, draft, &rows); err != nil {
		return nil, err
	}
	row, err := single(rows, "Campaign")
	if err != nil {
		return nil, err
	}
	if err := row.Validate(); err != nil {
		return nil, fromValidation(err)
	}
	return row, nil
}

func (g *REST) UpdateCampaign(ctx context.Context, id string, patch models.CampaignPatch) (*models.Campaign, error) {
	var rows []models.Campaign
	if err := g.do(ctx, http.MethodPatch, "campaigns", eq(id), patch, &rows); err != nil {
		return nil, err
	}
	row, err := single(rows, "Campaign")
	if err != nil {
		return nil, err
	}
	if err := row.Validate(); err != nil {
		return nil, fromValidation(err)
	}
	return row, nil
}

func (g *REST) DeleteCampaign(ctx context.Context, id string) error {
	var rows []models.Campaign
	if err := g.do(ctx, http.MethodDelete, "campaigns", eq(id), nil, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return notFound("Campaign")
	}
	return nil
}

func (g *REST) ListInfluencers(ctx context.Context, campaignID string) ([]models.Influencer, error) {
	// One round trip: each influencer row comes back with its videos nested.
	query := url.Values{
		"select":      {"*,videos(*)"},
		"campaign_id": {"eq." + campaignID},
	}

	var rows []models.Influencer
	if err := g.do(ctx, http.MethodGet, "influencers", query, nil, &rows); err != nil {
		return nil, err
	}
	for i := range rows {
		if err := rows[i].Validate(); err != nil {
			return nil, fromValidation(err)
		}
		for j := range rows[i].Videos {
			if err := rows[i].Videos[j].Validate(); err != nil {
				return nil, fromValidation(err)
			}
		}
		rows[i].RecomputeMetrics()
	}
	return rows, nil
}

func (g *REST) InsertInfluencer(ctx context.Context, draft models.InfluencerDraft) (*models.Influencer, error) {
	var rows []models.Influencer
	if err := g.do(ctx, http.MethodPost, "influencers", nil, draft, &rows); err != nil {
		return nil, err
	}
	row, err := single(rows, "Influencer")
	if err != nil {
		return nil, err
	}
	if err := row.Validate(); err != nil {
		return nil, fromValidation(err)
	}
	row.Videos = []models.Video{}
	row.RecomputeMetrics()
	return row, nil
}

func (g *REST) UpdateInfluencer(ctx context.Context, id string, patch models.InfluencerPatch) (*models.Influencer, error) {
	var rows []models.Influencer
	if err := g.do(ctx, http.MethodPatch, "influencers", eq(id), patch, &rows); err != nil {
		return nil, err
	}
	row, err := single(rows, "Influencer")
	if err != nil {
		return nil, err
	}
	if err := row.Validate(); err != nil {
		return nil, fromValidation(err)
	}
	return row, nil
}

func (g *REST) DeleteInfluencer(ctx context.Context, id string) error {
	var rows []models.Influencer
	if err := g.do(ctx, http.MethodDelete, "influencers", eq(id), nil, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return notFound("Influencer")
	}
	return nil
}

func (g *REST) ListVideos(ctx context.Context, influencerID string) ([]models.Video, error) {
	query := url.Values{
		"select":        {"*"},
		"influencer_id": {"eq." + influencerID},
		"order":         {"posted_on.desc.nullslast"},
	}

	var rows []models.Video
	if err := g.do(ctx, http.MethodGet, "videos", query, nil, &rows); err != nil {
		return nil, err
	}
	for i := range rows {
		if err := rows[i].Validate(); err != nil {
			return nil, fromValidation(err)
		}
	}
	return rows, nil
}

func (g *REST) InsertVideo(ctx context.Context, draft models.VideoDraft) (*models.Video, error) {
	var rows []models.Video
	if err := g.do(ctx, http.MethodPost, "videos", nil, draft, &rows); err != nil {
		return nil, err
	}
	row, err := single(rows, "Video")
	if err != nil {
		return nil, err
	}
	if err := row.ValidateStrict(); err != nil {
		return nil, fromValidation(err)
	}
	return row, nil
}

func (g *REST) UpdateVideo(ctx context.Context, id string, patch models.VideoPatch) (*models.Video, error) {
	var rows []models.Video
	if err := g.do(ctx, http.MethodPatch, "videos", eq(id), patch, &rows); err != nil {
		return nil, err
	}
	row, err := single(rows, "Video")
	if err != nil {
		return nil, err
	}
	if err := row.ValidateStrict(); err != nil {
		return nil, fromValidation(err)
	}
	return row, nil
}

func (g *REST) DeleteVideo(ctx context.Context, id string) error {
	var rows []models.Video
	if err := g.do(ctx, http.MethodDelete, "videos", eq(id), nil, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return notFound("Video")
	}
	return nil
}
