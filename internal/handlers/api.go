// Package handlers exposes the gift-exchange API over HTTP as JSON.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mmynk/santaswap/internal/models"
	"github.com/mmynk/santaswap/internal/service"
	"github.com/mmynk/santaswap/internal/storage"
	"github.com/mmynk/santaswap/internal/toss"
)

// APIHandler serves the group and participant endpoints.
type APIHandler struct {
	service *service.GroupService
}

// NewAPIHandler creates an APIHandler backed by the given service.
func NewAPIHandler(service *service.GroupService) *APIHandler {
	return &APIHandler{service: service}
}

// Register mounts all API routes under /api.
func (h *APIHandler) Register(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.POST("/groups", h.CreateGroup)
		api.GET("/groups", h.ListGroups)
		api.GET("/groups/:groupID", h.GetGroup)
		api.PUT("/groups/:groupID", h.UpdateGroup)
		api.DELETE("/groups/:groupID", h.DeleteGroup)

		api.POST("/groups/:groupID/participants", h.AddParticipant)
		api.DELETE("/groups/:groupID/participants/:participantID", h.DeleteParticipant)
		api.GET("/groups/:groupID/participants/:participantID/recipient", h.GetRecipient)

		api.POST("/groups/:groupID/toss", h.Toss)
	}
}

type groupRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type participantRequest struct {
	Name string `json:"name" binding:"required"`
	Wish string `json:"wish"`
}

// groupSummary is the list form of a group: participants omitted.
type groupSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type participantResponse struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Wish      string             `json:"wish"`
	Recipient *recipientResponse `json:"recipient"`
}

type recipientResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Wish string `json:"wish"`
}

type groupResponse struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	Description  string                `json:"description"`
	Participants []participantResponse `json:"participants"`
}

// toGroupResponse resolves recipient references through the group's own
// participant list; recipients never point outside the group.
func toGroupResponse(group *models.Group) groupResponse {
	byID := make(map[string]*models.Participant, len(group.Participants))
	for i := range group.Participants {
		byID[group.Participants[i].ID] = &group.Participants[i]
	}

	participants := make([]participantResponse, len(group.Participants))
	for i, p := range group.Participants {
		resp := participantResponse{
			ID:   p.ID,
			Name: p.Name,
			Wish: p.Wish,
		}
		if recipient, ok := byID[p.RecipientID]; ok {
			resp.Recipient = &recipientResponse{
				ID:   recipient.ID,
				Name: recipient.Name,
				Wish: recipient.Wish,
			}
		}
		participants[i] = resp
	}

	return groupResponse{
		ID:           group.ID,
		Name:         group.Name,
		Description:  group.Description,
		Participants: participants,
	}
}

// CreateGroup handles POST /api/groups.
func (h *APIHandler) CreateGroup(c *gin.Context) {
	var req groupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	group, err := h.service.CreateGroup(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toGroupResponse(group))
}

// ListGroups handles GET /api/groups.
func (h *APIHandler) ListGroups(c *gin.Context) {
	groups, err := h.service.ListGroups(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	summaries := make([]groupSummary, len(groups))
	for i, g := range groups {
		summaries[i] = groupSummary{ID: g.ID, Name: g.Name, Description: g.Description}
	}

	c.JSON(http.StatusOK, summaries)
}

// GetGroup handles GET /api/groups/:groupID.
func (h *APIHandler) GetGroup(c *gin.Context) {
	group, err := h.service.GetGroup(c.Request.Context(), c.Param("groupID"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toGroupResponse(group))
}

// UpdateGroup handles PUT /api/groups/:groupID.
func (h *APIHandler) UpdateGroup(c *gin.Context) {
	var req groupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	group, err := h.service.UpdateGroup(c.Request.Context(), c.Param("groupID"), req.Name, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toGroupResponse(group))
}

// DeleteGroup handles DELETE /api/groups/:groupID.
func (h *APIHandler) DeleteGroup(c *gin.Context) {
	if err := h.service.DeleteGroup(c.Request.Context(), c.Param("groupID")); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AddParticipant handles POST /api/groups/:groupID/participants.
func (h *APIHandler) AddParticipant(c *gin.Context) {
	var req participantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	participant, err := h.service.AddParticipant(c.Request.Context(), c.Param("groupID"), req.Name, req.Wish)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, participantResponse{
		ID:   participant.ID,
		Name: participant.Name,
		Wish: participant.Wish,
	})
}

// DeleteParticipant handles DELETE /api/groups/:groupID/participants/:participantID.
func (h *APIHandler) DeleteParticipant(c *gin.Context) {
	err := h.service.DeleteParticipant(c.Request.Context(), c.Param("groupID"), c.Param("participantID"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetRecipient handles GET /api/groups/:groupID/participants/:participantID/recipient.
func (h *APIHandler) GetRecipient(c *gin.Context) {
	recipient, err := h.service.GetRecipient(c.Request.Context(), c.Param("groupID"), c.Param("participantID"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipientResponse{
		ID:   recipient.ID,
		Name: recipient.Name,
		Wish: recipient.Wish,
	})
}

// Toss handles POST /api/groups/:groupID/toss.
func (h *APIHandler) Toss(c *gin.Context) {
	group, err := h.service.Toss(c.Request.Context(), c.Param("groupID"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toGroupResponse(group).Participants)
}

// writeError maps service errors onto HTTP statuses: missing records are
// 404, a toss on a too-small group is 409, everything else is 500.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, storage.ErrNoRecipient):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, toss.ErrInsufficientParticipants):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
