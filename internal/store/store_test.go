package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/deviro/influencer-post-tracker/internal/gateway"
	"github.com/deviro/influencer-post-tracker/internal/models"
)

var refTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// fakeGateway is a scripted gateway.Gateway. Each method records the call and
// delegates to its function field; unscripted mutations fail loudly so a test
// cannot silently depend on behavior it never defined.
type fakeGateway struct {
	mu    sync.Mutex
	calls map[string]int

	listCampaignsFn    func(ctx context.Context) ([]models.Campaign, error)
	insertCampaignFn   func(draft models.CampaignDraft) (*models.Campaign, error)
	updateCampaignFn   func(id string, patch models.CampaignPatch) (*models.Campaign, error)
	deleteCampaignFn   func(id string) error
	listInfluencersFn  func(campaignID string) ([]models.Influencer, error)
	insertInfluencerFn func(draft models.InfluencerDraft) (*models.Influencer, error)
	updateInfluencerFn func(id string, patch models.InfluencerPatch) (*models.Influencer, error)
	deleteInfluencerFn func(id string) error
	listVideosFn       func(influencerID string) ([]models.Video, error)
	insertVideoFn      func(draft models.VideoDraft) (*models.Video, error)
	updateVideoFn      func(id string, patch models.VideoPatch) (*models.Video, error)
	deleteVideoFn      func(id string) error
}

var _ gateway.Gateway = (*fakeGateway)(nil)

func newFakeGateway() *fakeGateway {
	return &fakeGateway{calls: make(map[string]int)}
}

func (f *fakeGateway) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeGateway) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

func notScripted(method string) *gateway.Error {
	return &gateway.Error{Kind: gateway.KindUnknown, Message: "unscripted gateway call: " + method}
}

func (f *fakeGateway) ListCampaigns(ctx context.Context) ([]models.Campaign, error) {
	f.record("ListCampaigns")
	if f.listCampaignsFn != nil {
		return f.listCampaignsFn(ctx)
	}
	return nil, nil
}

func (f *fakeGateway) InsertCampaign(_ context.Context, draft models.CampaignDraft) (*models.Campaign, error) {
	f.record("InsertCampaign")
	if f.insertCampaignFn != nil {
		return f.insertCampaignFn(draft)
	}
	return nil, notScripted("InsertCampaign")
}

func (f *fakeGateway) UpdateCampaign(_ context.Context, id string, patch models.CampaignPatch) (*models.Campaign, error) {
	f.record("UpdateCampaign")
	if f.updateCampaignFn != nil {
		return f.updateCampaignFn(id, patch)
	}
	return nil, notScripted("UpdateCampaign")
}

func (f *fakeGateway) DeleteCampaign(_ context.Context, id string) error {
	f.record("DeleteCampaign")
	if f.deleteCampaignFn != nil {
		return f.deleteCampaignFn(id)
	}
	return nil
}

func (f *fakeGateway) ListInfluencers(_ context.Context, campaignID string) ([]models.Influencer, error) {
	f.record("ListInfluencers")
	if f.listInfluencersFn != nil {
		return f.listInfluencersFn(campaignID)
	}
	return nil, nil
}

func (f *fakeGateway) InsertInfluencer(_ context.Context, draft models.InfluencerDraft) (*models.Influencer, error) {
	f.record("InsertInfluencer")
	if f.insertInfluencerFn != nil {
		return f.insertInfluencerFn(draft)
	}
	return nil, notScripted("InsertInfluencer")
}

func (f *fakeGateway) UpdateInfluencer(_ context.Context, id string, patch models.InfluencerPatch) (*models.Influencer, error) {
	f.record("UpdateInfluencer")
	if f.updateInfluencerFn != nil {
		return f.updateInfluencerFn(id, patch)
	}
	return nil, notScripted("UpdateInfluencer")
}

func (f *fakeGateway) DeleteInfluencer(_ context.Context, id string) error {
	f.record("DeleteInfluencer")
	if f.deleteInfluencerFn != nil {
		return f.deleteInfluencerFn(id)
	}
	return nil
}

func (f *fakeGateway) ListVideos(_ context.Context, influencerID string) ([]models.Video, error) {
	f.record("ListVideos")
	if f.listVideosFn != nil {
		return f.listVideosFn(influencerID)
	}
	return nil, nil
}

func (f *fakeGateway) InsertVideo(_ context.Context, draft models.VideoDraft) (*models.Video, error) {
	f.record("InsertVideo")
	if f.insertVideoFn != nil {
		return f.insertVideoFn(draft)
	}
	return nil, notScripted("InsertVideo")
}

func (f *fakeGateway) UpdateVideo(_ context.Context, id string, patch models.VideoPatch) (*models.Video, error) {
	f.record("UpdateVideo")
	if f.updateVideoFn != nil {
		return f.updateVideoFn(id, patch)
	}
	return nil, notScripted("UpdateVideo")
}

func (f *fakeGateway) DeleteVideo(_ context.Context, id string) error {
	f.record("DeleteVideo")
	if f.deleteVideoFn != nil {
		return f.deleteVideoFn(id)
	}
	return nil
}

// --- Fixtures ---

func newTestStore(gw *fakeGateway) *Store {
	s := New(gw, zap.NewNop())
	s.now = func() time.Time { return refTime }
	return s
}

func makeCampaign(id, name string, createdAt time.Time) models.Campaign {
	return models.Campaign{
		ID:        id,
		Name:      name,
		Status:    models.CampaignStatusActive,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func makeInfluencer(id, campaignID, username string, videos ...models.Video) models.Influencer {
	inf := models.Influencer{
		ID:         id,
		CampaignID: campaignID,
		Username:   username,
		Link:       "https://youtube.com/@" + username,
		CreatedAt:  refTime,
		UpdatedAt:  refTime,
		Videos:     videos,
	}
	if inf.Videos == nil {
		inf.Videos = []models.Video{}
	}
	inf.RecomputeMetrics()
	return inf
}

func makeVideo(id, influencerID string, views int64) models.Video {
	return models.Video{
		ID:           id,
		InfluencerID: influencerID,
		Link:         "https://youtube.com/watch?v=" + id,
		Platform:     models.PlatformYouTube,
		Status:       models.StatusPublished,
		Views:        views,
		CreatedAt:    refTime,
		UpdatedAt:    refTime,
	}
}

func seedCampaigns(t *testing.T, s *Store, gw *fakeGateway, rows ...models.Campaign) {
	t.Helper()
	gw.listCampaignsFn = func(context.Context) ([]models.Campaign, error) { return rows, nil }
	require.True(t, s.FetchCampaigns(context.Background()).Success)
	gw.listCampaignsFn = nil
}

func seedInfluencers(t *testing.T, s *Store, gw *fakeGateway, campaignID string, rows ...models.Influencer) {
	t.Helper()
	gw.listInfluencersFn = func(string) ([]models.Influencer, error) { return rows, nil }
	require.True(t, s.FetchInfluencersForCampaign(context.Background(), campaignID).Success)
	gw.listInfluencersFn = nil
}

func seedVideos(t *testing.T, s *Store, gw *fakeGateway, influencerID string, rows ...models.Video) {
	t.Helper()
	gw.listVideosFn = func(string) ([]models.Video, error) { return rows, nil }
	require.True(t, s.FetchVideosForInfluencer(context.Background(), influencerID).Success)
	gw.listVideosFn = nil
}

func campaignIDs(campaigns []models.Campaign) []string {
	ids := make([]string, len(campaigns))
	for i, c := range campaigns {
		ids[i] = c.ID
	}
	return ids
}

// --- Fetches ---

func TestFetchCampaignsReplacesState(t *testing.T) {
	gw := newFakeGateway()
	s := newTestStore(gw)

	rows := []models.Campaign{
		makeCampaign("c2", "Summer", refTime),
		makeCampaign("c1", "Spring", refTime.Add(-time.Hour)),
	}
	seedCampaigns(t, s, gw, rows...)

	state := s.Snapshot()
	assert.Equal(t, []string{"c2", "c1"}, campaignIDs(state.Campaigns))
	assert.False(t, state.Loading)
	assert.Empty(t, state.Error)
}

func TestFetchCampaignsFailureKeepsState(t *testing.T) {
	gw := newFakeGateway()
	s := newTestStore(gw)
	seedCampaigns(t, s, gw, makeCampaign("c1", "Spring", refTime))

	gw.listCampaignsFn = func(context.Context) ([]models.Campaign, error) {
		return nil, &gateway.Error{Kind: gateway.KindTransport, Message: "Request failed: connection refused"}
	}
	res := s.FetchCampaigns(context.Background())

	assert.False(t, res.Success)
	assert.Equal(t, gateway.KindTransport, res.Kind())
	state := s.Snapshot()
	assert.Equal(t, []string{"c1"}, campaignIDs(state.Campaigns))
	assert.False(t, state.Loading)
	assert.Equal(t, "Request failed: connection refused", state.Error)
}

func TestFetchInfluencersBuildsOwnerIndex(t *testing.T) {
	gw := newFakeGateway()
	s := newTestStore(gw)

	v := makeVideo("v1", "i1", 100)
	seedInfluencers(t, s, gw, "c1", makeInfluencer("i1", "c1", "creator", v))

	got, ok := s.GetVideoByID("v1")
	require.True(t, ok)
	assert.Equal(t, int64(100), got.Views)

	inf, ok := s.GetInfluencerByID("i1")
	require.True(t, ok)
	assert.Equal(t, 1, inf.VideoCount)
}

// --- Campaigns ---

func TestCreateCampaignReconciles(t *testing.T) {
	gw := newFakeGateway()
	s := newTestStore(gw)
	seedCampaigns(t, s, gw, makeCampaign("c1", "Spring", refTime.Add(-time.Hour)))

	gw.insertCampaignFn = func(draft models.CampaignDraft) (*models.Campaign, error) {
		row := draft.Materialize("c2", refTime)
		return &row, nil
	}
	res := s.CreateCampaign(context.Background(), models.CampaignDraft{Name: "Summer"})

	require.True(t, res.Success)
	assert.Equal(t, "c2", res.Data.ID)
	assert.Equal(t, models.CampaignStatusActive, res.Data.Status)

	state := s.Snapshot()
	assert.Equal(t, []string{"c2", "c1"}, campaignIDs(state.Campaigns))
	for _, c := range state.Campaigns {
		assert.False(t, models.IsTempID(c.ID))
	}
}

func TestCreateCampaignValidationShortCircuits(t *testing.T) {
	gw := newFakeGateway()
	s := newTestStore(gw)

	res := s.CreateCampaign(context.Background(), models.CampaignDraft{})

	assert.False(t, res.Success)
	assert.Equal(t, gateway.KindValidation, res.Kind())
	assert.Equal(t, "Validation error: Campaign name is required (field: name)", res.Error)
	assert.Zero(t, gw.totalCalls())
	assert.Empty(t, s.Snapshot().Campaigns)
}

func TestCreateCampaignRollback(t *testing.T) {
	gw := newFakeGateway()
	s := newTestStore(gw)
	seedCampaigns(t, s, gw, makeCampaign("c1", "Spring", refTime.Add(-time.Hour)))
	before := s.Snapshot().Campaigns

	gw.insertCampaignFn = func(models.CampaignDraft) (*models.Campaign, error) {
		return nil, &gateway.Error{Kind: gateway.KindConflict, Message: "This record already exists"}
	}
	res := s.CreateCampaign(context.Background(), models.CampaignDraft{Name: "Summer"})

	assert.False(t, res.Success)
	assert.Equal(t, gateway.KindConflict, res.Kind())
	assert.Equal(t, "This record already exists", res.Error)
	assert.Equal(t, before, s.Snapshot().Campaigns)
	assert.Equal(t, "This record already exists", s.Err())
}

func TestUpdateCampaignRollbackRestoresSnapshot(t *testing.T) {
	gw := newFakeGateway()
	s := newTestStore(gw)
	seedCampaigns(t, s, gw, makeCampaign("c1", "Spring", refTime.Add(-time.Hour)))
	before := s.Snapshot().Campaigns

	name := "Renamed"
	gw.updateCampaignFn = func(string, models.CampaignPatch) (*models.Campaign, error) {
		return nil, &gateway.Error{Kind: gateway.KindPermission, Message: "You do not have permission to perform this action"}
	}
	res := s.UpdateCampaign(context.Background(), "c1", models.CampaignPatch{Name: &name})

	assert.False(t, res.Success)
	assert.Equal(t, gateway.KindPermission, res.Kind())
	assert.Equal(t, before, s.Snapshot().Campaigns)
}

func TestUpdateCampaignNotFound(t *testing.T) {
	gw := newFakeGateway()
	s := newTestStore(gw)

	name := "Renamed"
	res := s.UpdateCampaign(context.Background(), "missing", models.CampaignPatch{Name: &name})

	assert.False(t, res.Success)
	assert.Equal(t, gateway.KindNotFound, res.Kind())
	assert.Equal(t, "Campaign not found", res.Error)
	assert.Zero(t, gw.totalCalls())
}

func TestDeleteCampaignRollbackKeepsOrdering(t *testing.T) {
	gw := newFakeGateway()
	s := newTestStore(gw)
	seedCampaigns(t, s, gw,
		makeCampaign("c3", "Fall", refTime),
		makeCampaign("c2", "Summer", refTime.Add(-time.Hour)),
		makeCampaign("c1", "Spring", refTime.Add(-2*time.Hour)),
	)

	gw.deleteCampaignFn = func(string) error {
		return &gateway.Error{Kind: gateway.KindReference, Message: "Cannot delete this record because it is referenced by other data"}
	}
	res := s.DeleteCampaign(context.Background(), "c2")

	assert.False(t, res.Success)
	assert.Equal(t, gateway.KindReference, res.Kind())
	assert.Equal(t, []string{"c3", "c2", "c1"}, campaignIDs(s.Snapshot().Campaigns))
}

func TestDeleteCampaignSuccess(t *testing.T) {
	gw := newFakeGateway()
	s := newTestStore(gw)
	seedCampaigns(t, s, gw,
		makeCampaign("c2", "Summer", refTime),
		makeCampaign("c1", "Spring", refTime.Add(-time.Hour)),
	)

	res := s.DeleteCampaign(context.Background(), "c2")

	require.True(t, res.Success)
	assert.Equal(t, []string{"c1"}, campaignIDs(s.Snapshot().Campaigns))
}

// --- Influencers ---

func TestCreateInfluencerReconciles(t *testing.T) {
	gw := newFakeGateway()
	s := newTestStore(gw)
	seedInfluencers(t, s, gw, "c1", makeInfluencer("i1", "c1", "first"))

	gw.insertInfluencerFn = func(draft models.InfluencerDraft) (*models.Influencer, error) {
		row := draft.Materialize("i2", refTime)
		return &row, nil
	}
	res := s.CreateInfluencer(context.Background(), models.InfluencerDraft{
		CampaignID: "c1",
		Username:   "second",
		Link:       "https://tiktok.com/@second",
	})

	require.True(t, res.Success)
	assert.Equal(t, "i2", res.Data.ID)
	assert.Equal(t, 0, res.Data.VideoCount)

	state := s.Snapshot()
	require.Len(t, state.Influencers, 2)
	assert.Equal(t, "i2", state.Influencers[0].ID)
	for _, inf := range state.Influencers {
		assert.False(t, models.IsTempID(inf.ID))
	}
}

func TestUpdateInfluencerPreservesVideosAndMetrics(t *testing.T) {
	gw := newFakeGateway()
	s := newTestStore(gw)
	seedInfluencers(t, s, gw, "c1",
		makeInfluencer("i1", "c1", "creator", makeVideo("v1", "i1", 100), makeVideo("v2", "i1", 300)))

	// The update endpoint returns the bare row, no nested videos.
	gw.updateInfluencerFn = func(id string, patch models.InfluencerPatch) (*models.Influencer, error) {
		return &models.Influencer{
			ID:         id,
			CampaignID: "c1",
			Username:   *patch.Username,
			Link:       "https://youtube.com/@creator",
			CreatedAt:  refTime,
			UpdatedAt:  refTime.Add(time.Minute),
		}, nil
	}
	username := "renamed"
	res := s.UpdateInfluencer(context.Background(), "i1", models.InfluencerPatch{Username: &username})

	require.True(t, res.Success)
	inf, ok := s.GetInfluencerByID("i1")
	require.True(t, ok)
	assert.Equal(t, "renamed", inf.Username)
	assert.Len(t, inf.Videos, 2)
	assert.Equal(t, int64(400), inf.TotalViews)
	assert.Equal(t, int64(200), inf.ViewsMedian)
}

func TestUpdateInfluencerRejectsCampaignMove(t *testing.T) {
	gw := newFakeGateway()
	s := newTestStore(gw)
	seedInfluencers(t, s, gw, "c1", makeInfluencer("i1", "c1", "creator"))

	other := "c2"
	res := s.UpdateInfluencer(context.Background(), "i1", models.InfluencerPatch{CampaignID: &other})

	assert.False(t, res.Success)
	assert.Equal(t, gateway.KindValidation, res.Kind())
	assert.Equal(t, 1, gw.totalCalls()) // only the seeding fetch
}

func TestDeleteInfluencerCascadesLocally(t *testing.T) {
	gw := newFakeGateway()
	s := newTestStore(gw)
	v1 := makeVideo("v1", "i1", 100)
	v2 := makeVideo("v2", "i2", 200)
	seedInfluencers(t, s, gw, "c1",
		makeInfluencer("i1", "c1", "first", v1),
		makeInfluencer("i2", "c1", "second", v2))
	seedVideos(t, s, gw, "i1", v1)

	res := s.DeleteInfluencer(context.Background(), "i1")

	require.True(t, res.Success)
	_, ok := s.GetInfluencerByID("i1")
	assert.False(t, ok)
	_, ok = s.GetVideoByID("v1")
	assert.False(t, ok, "videos of a deleted influencer must not linger in any collection")
	_, ok = s.GetVideoByID("v2")
	assert.True(t, ok)
}

func TestDeleteInfluencerRollbackRestoresEverything(t *testing.T) {
	gw := newFakeGateway()
	s := newTestStore(gw)
	v1 := makeVideo("v1", "i1", 100)
	seedInfluencers(t, s, gw, "c1",
		makeInfluencer("i1", "c1", "first", v1),
		makeInfluencer("i2", "c1", "second"))
	seedVideos(t, s, gw, "i1", v1)
	before := s.Snapshot()

	gw.deleteInfluencerFn = func(string) error {
		return &gateway.Error{Kind: gateway.KindTransport, Message: "Request failed: timeout"}
	}
	res := s.DeleteInfluencer(context.Background(), "i1")

	assert.False(t, res.Success)
	after := s.Snapshot()
	assert.Equal(t, before.Influencers, after.Influencers)
	assert.Equal(t, before.Videos, after.Videos)
}

// --- Videos ---

func TestCreateVideoRequiresKnownInfluencer(t *testing.T) {
	gw := newFakeGateway()
	s := newTestStore(gw)

	res := s.CreateVideo(context.Background(), models.VideoDraft{
		InfluencerID: "missing",
		Link:         "https://youtube.com/watch?v=abc",
		Platform:     models.PlatformYouTube,
	})

	assert.False(t, res.Success)
	assert.Equal(t, gateway.KindNotFound, res.Kind())
	assert.Equal(t, "Influencer not found", res.Error)
	assert.Zero(t, gw.totalCalls())
}

func TestCreateVideoReconcilesAndRecomputes(t *testing.T) {
	gw := newFakeGateway()
	s := newTestStore(gw)
	seedInfluencers(t, s, gw, "c1",
		makeInfluencer("i1", "c1", "creator", makeVideo("v1", "i1", 100)))

	gw.insertVideoFn = func(draft models.VideoDraft) (*models.Video, error) {
		row := draft.Materialize("v2", refTime)
		return &row, nil
	}
	res := s.CreateVideo(context.Background(), models.VideoDraft{
		InfluencerID: "i1",
		Link:         "https://youtube.com/watch?v=v2",
		Platform:     models.PlatformYouTube,
		Status:       models.StatusPublished,
		Views:        300,
	})

	require.True(t, res.Success)
	assert.Equal(t, "v2", res.Data.ID)

	inf, ok := s.GetInfluencerByID("i1")
	require.True(t, ok)
	assert.Equal(t, 2, inf.VideoCount)
	assert.Equal(t, int64(400), inf.TotalViews)
	assert.Equal(t, int64(200), inf.ViewsMedian)
	assert.Equal(t, int64(300), inf.ViewsNow)
	for _, v := range inf.Videos {
		assert.False(t, models.IsTempID(v.ID), "reconciliation must leave no synthetic record behind")
	}

	got, ok := s.GetVideoByID("v2")
	require.True(t, ok)
	assert.Equal(t, int64(300), got.Views)
}

func TestCreateVideoRollbackRestoresMetrics(t *testing.T) {
	gw := newFakeGateway()
	s := newTestStore(gw)
	seedInfluencers(t, s, gw, "c1",
		makeInfluencer("i1", "c1", "creator", makeVideo("v1", "i1", 100)))
	before, ok := s.GetInfluencerByID("i1")
	require.True(t, ok)

	gw.insertVideoFn = func(models.VideoDraft) (*models.Video, error) {
		return nil, &gateway.Error{Kind: gateway.KindConflict, Message: "This record already exists"}
	}
	res := s.CreateVideo(context.Background(), models.VideoDraft{
		InfluencerID: "i1",
		Link:         "https://youtube.com/watch?v=dup",
		Platform:     models.PlatformYouTube,
		Views:        300,
	})

	assert.False(t, res.Success)
	after, ok := s.GetInfluencerByID("i1")
	require.True(t, ok)
	assert.Equal(t, before, after)
}

func TestUpdateVideoRecomputesMetrics(t *testing.T) {
	gw := newFakeGateway()
	s := newTestStore(gw)
	v1 := makeVideo("v1", "i1", 100)
	v2 := makeVideo("v2", "i1", 300)
	seedInfluencers(t, s, gw, "c1", makeInfluencer("i1", "c1", "creator", v1, v2))

	gw.updateVideoFn = func(id string, patch models.VideoPatch) (*models.Video, error) {
		row := v1.Clone()
		row.Views = *patch.Views
		row.UpdatedAt = refTime.Add(time.Minute)
		return &row, nil
	}
	views := int64(500)
	res := s.UpdateVideo(context.Background(), "v1", models.VideoPatch{Views: &views})

	require.True(t, res.Success)
	inf, ok := s.GetInfluencerByID("i1")
	require.True(t, ok)
	assert.Equal(t, int64(800), inf.TotalViews)
	assert.Equal(t, int64(400), inf.ViewsMedian)
	assert.Equal(t, int64(500), inf.ViewsNow)
}

func TestUpdateVideoRejectsInfluencerMove(t *testing.T) {
	gw := newFakeGateway()
	s := newTestStore(gw)
	seedInfluencers(t, s, gw, "c1",
		makeInfluencer("i1", "c1", "creator", makeVideo("v1", "i1", 100)))

	other := "i2"
	res := s.UpdateVideo(context.Background(), "v1", models.VideoPatch{InfluencerID: &other})

	assert.False(t, res.Success)
	assert.Equal(t, gateway.KindValidation, res.Kind())
	assert.Equal(t, 1, gw.totalCalls()) // only the seeding fetch
}

func TestUpdateVideoRollback(t *testing.T) {
	gw := newFakeGateway()
	s := newTestStore(gw)
	seedInfluencers(t, s, gw, "c1",
		makeInfluencer("i1", "c1", "creator", makeVideo("v1", "i1", 100)))
	before, ok := s.GetInfluencerByID("i1")
	require.True(t, ok)

	gw.updateVideoFn = func(string, models.VideoPatch) (*models.Video, error) {
		return nil, &gateway.Error{Kind: gateway.KindTransport, Message: "Request failed: timeout"}
	}
	views := int64(500)
	res := s.UpdateVideo(context.Background(), "v1", models.VideoPatch{Views: &views})

	assert.False(t, res.Success)
	after, ok := s.GetInfluencerByID("i1")
	require.True(t, ok)
	assert.Equal(t, before, after)
}

func TestDeleteVideoRollbackRestores(t *testing.T) {
	gw := newFakeGateway()
	s := newTestStore(gw)
	v1 := makeVideo("v1", "i1", 100)
	v2 := makeVideo("v2", "i1", 300)
	seedInfluencers(t, s, gw, "c1", makeInfluencer("i1", "c1", "creator", v1, v2))
	seedVideos(t, s, gw, "i1", v1, v2)
	before := s.Snapshot()

	gw.deleteVideoFn = func(string) error {
		return &gateway.Error{Kind: gateway.KindTransport, Message: "Request failed: timeout"}
	}
	res := s.DeleteVideo(context.Background(), "v1")

	assert.False(t, res.Success)
	after := s.Snapshot()
	assert.Equal(t, before.Influencers, after.Influencers)
	assert.Equal(t, before.Videos, after.Videos)
}

func TestDeleteVideoSuccess(t *testing.T) {
	gw := newFakeGateway()
	s := newTestStore(gw)
	v1 := makeVideo("v1", "i1", 100)
	v2 := makeVideo("v2", "i1", 300)
	seedInfluencers(t, s, gw, "c1", makeInfluencer("i1", "c1", "creator", v1, v2))

	res := s.DeleteVideo(context.Background(), "v2")

	require.True(t, res.Success)
	inf, ok := s.GetInfluencerByID("i1")
	require.True(t, ok)
	assert.Equal(t, 1, inf.VideoCount)
	assert.Equal(t, int64(100), inf.TotalViews)
	assert.Equal(t, int64(100), inf.ViewsMedian)
	assert.Equal(t, int64(100), inf.ViewsNow)
}

// --- Reset and error surfacing ---

func TestResetClearsState(t *testing.T) {
	gw := newFakeGateway()
	s := newTestStore(gw)
	seedCampaigns(t, s, gw, makeCampaign("c1", "Spring", refTime))
	seedInfluencers(t, s, gw, "c1", makeInfluencer("i1", "c1", "creator", makeVideo("v1", "i1", 100)))
	s.SetCurrentCampaign("c1")

	s.Reset()

	state := s.Snapshot()
	assert.Empty(t, state.Campaigns)
	assert.Empty(t, state.Influencers)
	assert.Empty(t, state.Videos)
	assert.Empty(t, state.CurrentCampaignID)
	assert.False(t, state.Loading)
	assert.Empty(t, state.Error)
}

func TestResetSupersedesInFlightMutation(t *testing.T) {
	gw := newFakeGateway()
	s := newTestStore(gw)

	entered := make(chan struct{})
	release := make(chan struct{})
	gw.insertCampaignFn = func(draft models.CampaignDraft) (*models.Campaign, error) {
		close(entered)
		<-release
		row := draft.Materialize("c1", refTime)
		return &row, nil
	}

	done := make(chan Result[models.Campaign], 1)
	go func() {
		done <- s.CreateCampaign(context.Background(), models.CampaignDraft{Name: "Launch"})
	}()

	<-entered
	assert.Len(t, s.Snapshot().Campaigns, 1, "optimistic record should be visible while the call is in flight")
	s.Reset()
	close(release)

	res := <-done
	assert.True(t, res.Success, "the persist itself succeeded and reports so")
	assert.Equal(t, "c1", res.Data.ID)
	assert.Empty(t, s.Snapshot().Campaigns, "a reconciliation resolving after reset must not resurrect state")
}

func TestSuccessClearsLastError(t *testing.T) {
	gw := newFakeGateway()
	s := newTestStore(gw)
	seedCampaigns(t, s, gw, makeCampaign("c1", "Spring", refTime))

	gw.deleteCampaignFn = func(string) error {
		return &gateway.Error{Kind: gateway.KindTransport, Message: "Request failed: timeout"}
	}
	require.False(t, s.DeleteCampaign(context.Background(), "c1").Success)
	assert.Equal(t, "Request failed: timeout", s.Err())

	gw.deleteCampaignFn = nil
	require.True(t, s.DeleteCampaign(context.Background(), "c1").Success)
	assert.Empty(t, s.Err())
}
