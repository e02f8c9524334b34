package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/deviro/influencer-post-tracker/internal/gateway"
	"github.com/deviro/influencer-post-tracker/internal/models"
	"github.com/deviro/influencer-post-tracker/internal/store"
)

// respond writes the store's envelope with a status derived from the failure
// kind. Mutation failures have already been rolled back by the store, so a
// non-2xx here never leaves state inconsistent.
func respond[T any](c *gin.Context, res store.Result[T], successCode int) {
	if res.Success {
		c.JSON(successCode, res)
		return
	}
	c.JSON(statusFor(res.Kind()), res)
}

func statusFor(kind gateway.Kind) int {
	switch kind {
	case gateway.KindValidation:
		return http.StatusBadRequest
	case gateway.KindNotFound:
		return http.StatusNotFound
	case gateway.KindConflict, gateway.KindReference:
		return http.StatusConflict
	case gateway.KindPermission:
		return http.StatusForbidden
	case gateway.KindTransport:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   "Invalid request body: " + err.Error(),
	})
}

func (s *Server) handleState(c *gin.Context) {
	c.JSON(http.StatusOK, s.Store.Snapshot())
}

func (s *Server) handleReset(c *gin.Context) {
	s.Store.Reset()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleFetchCampaigns(c *gin.Context) {
	respond(c, s.Store.FetchCampaigns(c.Request.Context()), http.StatusOK)
}

func (s *Server) handleCreateCampaign(c *gin.Context) {
	var draft models.CampaignDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		badRequest(c, err)
		return
	}
	respond(c, s.Store.CreateCampaign(c.Request.Context(), draft), http.StatusCreated)
}

func (s *Server) handleUpdateCampaign(c *gin.Context) {
	var patch models.CampaignPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}
	respond(c, s.Store.UpdateCampaign(c.Request.Context(), c.Param("id"), patch), http.StatusOK)
}

func (s *Server) handleDeleteCampaign(c *gin.Context) {
	respond(c, s.Store.DeleteCampaign(c.Request.Context(), c.Param("id")), http.StatusOK)
}

// handleFetchInfluencers scopes the store to the campaign being viewed and
// loads its influencers with nested videos and derived metrics.
func (s *Server) handleFetchInfluencers(c *gin.Context) {
	id := c.Param("id")
	s.Store.SetCurrentCampaign(id)
	respond(c, s.Store.FetchInfluencersForCampaign(c.Request.Context(), id), http.StatusOK)
}

func (s *Server) handleCreateInfluencer(c *gin.Context) {
	var draft models.InfluencerDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		badRequest(c, err)
		return
	}
	respond(c, s.Store.CreateInfluencer(c.Request.Context(), draft), http.StatusCreated)
}

func (s *Server) handleUpdateInfluencer(c *gin.Context) {
	var patch models.InfluencerPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}
	respond(c, s.Store.UpdateInfluencer(c.Request.Context(), c.Param("id"), patch), http.StatusOK)
}

func (s *Server) handleDeleteInfluencer(c *gin.Context) {
	respond(c, s.Store.DeleteInfluencer(c.Request.Context(), c.Param("id")), http.StatusOK)
}

func (s *Server) handleFetchVideos(c *gin.Context) {
	respond(c, s.Store.FetchVideosForInfluencer(c.Request.Context(), c.Param("id")), http.StatusOK)
}

func (s *Server) handleCreateVideo(c *gin.Context) {
	var draft models.VideoDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		badRequest(c, err)
		return
	}
	respond(c, s.Store.CreateVideo(c.Request.Context(), draft), http.StatusCreated)
}

func (s *Server) handleUpdateVideo(c *gin.Context) {
	var patch models.VideoPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}
	respond(c, s.Store.UpdateVideo(c.Request.Context(), c.Param("id"), patch), http.StatusOK)
}

func (s *Server) handleDeleteVideo(c *gin.Context) {
	respond(c, s.Store.DeleteVideo(c.Request.Context(), c.Param("id")), http.StatusOK)
}
