package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IsaacCheng9/student-network-backend/internal/requestdata"
	"github.com/IsaacCheng9/student-network-backend/internal/services"
)

type ProfileHandler struct {
	profileService services.ProfileService
}

func NewProfileHandler(profileService services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

func (ph *ProfileHandler) GetProfile(c *gin.Context) {
	username := c.Param("username")
	view, err := ph.profileService.GetProfile(c.Request.Context(), username)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, view)
}

func (ph *ProfileHandler) GetOwnProfile(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	view, err := ph.profileService.GetProfile(c.Request.Context(), rd.Username)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, view)
}

func (ph *ProfileHandler) UpdateProfile(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	var req struct {
		Bio       string   `json:"bio"`
		DegreeID  int      `json:"degree_id"`
		Hobbies   []string `json:"hobbies"`
		Interests []string `json:"interests"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	update := services.ProfileUpdate{
		Bio:       req.Bio,
		DegreeID:  req.DegreeID,
		Hobbies:   req.Hobbies,
		Interests: req.Interests,
	}
	if err := ph.profileService.UpdateProfile(c.Request.Context(), rd.Username, update); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "profile updated"})
}

func (ph *ProfileHandler) ListDegrees(c *gin.Context) {
	degrees, err := ph.profileService.ListDegrees(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, degrees)
}
