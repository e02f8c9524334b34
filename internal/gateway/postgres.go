package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/deviro/influencer-post-tracker/internal/config"
	"github.com/deviro/influencer-post-tracker/internal/models"
)

// Postgres implements the gateway directly against a database for
// deployments that own their Postgres instead of going through the hosted
// REST service.
type Postgres struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
		cfg.Host, cfg.Username, cfg.Password, cfg.Database, cfg.Port, cfg.SSLMode, cfg.TimeZone)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto migrate the schema
	if err := db.AutoMigrate(
		&models.Campaign{},
		&models.Influencer{},
		&models.Video{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

func NewPostgres(db *gorm.DB, logger *zap.Logger) *Postgres {
	return &Postgres{db: db, logger: logger}
}

// translate maps database failures onto the gateway taxonomy.
func (g *Postgres) translate(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(entity)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return translateCode("23505", err.Error())
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return translateCode("23503", err.Error())
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return translateCode(pgErr.Code, pgErr.Message)
	}
	return &Error{Kind: KindUnknown, Message: fmt.Sprintf("Database error: %v", err)}
}

func (g *Postgres) ListCampaigns(ctx context.Context) ([]models.Campaign, error) {
	var rows []models.Campaign
	if err := g.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, g.translate(err, "Campaign")
	}
	return rows, nil
}

func (g *Postgres) InsertCampaign(ctx context.Context, draft models.CampaignDraft) (*models.Campaign, error) {
	row := draft.Materialize(uuid.NewString(), time.Now().UTC())
	if err := g.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, g.translate(err, "Campaign")
	}
	return &row, nil
}

func (g *Postgres) UpdateCampaign(ctx context.Context, id string, patch models.CampaignPatch) (*models.Campaign, error) {
	var row models.Campaign
	if err := g.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, g.translate(err, "Campaign")
	}
	patch.ApplyTo(&row, time.Now().UTC())
	if err := g.db.WithContext(ctx).Save(&row).Error; err != nil {
		return nil, g.translate(err, "Campaign")
	}
	return &row, nil
}

func (g *Postgres) DeleteCampaign(ctx context.Context, id string) error {
	res := g.db.WithContext(ctx).Delete(&models.Campaign{}, "id = ?", id)
	if res.Error != nil {
		return g.translate(res.Error, "Campaign")
	}
	if res.RowsAffected == 0 {
		return notFound("Campaign")
	}
	return nil
}

func (g *Postgres) ListInfluencers(ctx context.Context, campaignID string) ([]models.Influencer, error) {
	var rows []models.Influencer
	err := g.db.WithContext(ctx).
		Preload("Videos").
		Where("campaign_id = ?", campaignID).
		Find(&rows).Error
	if err != nil {
		return nil, g.translate(err, "Influencer")
	}
	for i := range rows {
		if rows[i].Videos == nil {
			rows[i].Videos = []models.Video{}
		}
		rows[i].RecomputeMetrics()
	}
	return rows, nil
}

func (g *Postgres) InsertInfluencer(ctx context.Context, draft models.InfluencerDraft) (*models.Influencer, error) {
	row := draft.Materialize(uuid.NewString(), time.Now().UTC())
	if err := g.db.WithContext(ctx).Omit("Videos").Create(&row).Error; err != nil {
		return nil, g.translate(err, "Influencer")
	}
	row.RecomputeMetrics()
	return &row, nil
}

func (g *Postgres) UpdateInfluencer(ctx context.Context, id string, patch models.InfluencerPatch) (*models.Influencer, error) {
	var row models.Influencer
	if err := g.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, g.translate(err, "Influencer")
	}
	patch.ApplyTo(&row, time.Now().UTC())
	if err := g.db.WithContext(ctx).Omit("Videos").Save(&row).Error; err != nil {
		return nil, g.translate(err, "Influencer")
	}
	return &row, nil
}

func (g *Postgres) DeleteInfluencer(ctx context.Context, id string) error {
	// Videos go with their influencer (ON DELETE CASCADE).
	res := g.db.WithContext(ctx).Select("Videos").Delete(&models.Influencer{ID: id})
	if res.Error != nil {
		return g.translate(res.Error, "Influencer")
	}
	if res.RowsAffected == 0 {
		return notFound("Influencer")
	}
	return nil
}

func (g *Postgres) ListVideos(ctx context.Context, influencerID string) ([]models.Video, error) {
	var rows []models.Video
	err := g.db.WithContext(ctx).
		Where("influencer_id = ?", influencerID).
		Order("posted_on DESC NULLS LAST").
		Find(&rows).Error
	if err != nil {
		return nil, g.translate(err, "Video")
	}
	return rows, nil
}

func (g *Postgres) InsertVideo(ctx context.Context, draft models.VideoDraft) (*models.Video, error) {
	row := draft.Materialize(uuid.NewString(), time.Now().UTC())
	if err := g.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, g.translate(err, "Video")
	}
	return &row, nil
}

func (g *Postgres) UpdateVideo(ctx context.Context, id string, patch models.VideoPatch) (*models.Video, error) {
	var row models.Video
	if err := g.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, g.translate(err, "Video")
	}
	patch.ApplyTo(&row, time.Now().UTC())
	if err := g.db.WithContext(ctx).Save(&row).Error; err != nil {
		return nil, g.translate(err, "Video")
	}
	return &row, nil
}

func (g *Postgres) DeleteVideo(ctx context.Context, id string) error {
	res := g.db.WithContext(ctx).Delete(&models.Video{}, "id = ?", id)
	if res.Error != nil {
		return g.translate(res.Error, "Video")
	}
	if res.RowsAffected == 0 {
		return notFound("Video")
	}
	return nil
}
