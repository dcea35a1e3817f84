package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/IsaacCheng9/student-network-backend/internal/requestdata"
	"github.com/IsaacCheng9/student-network-backend/internal/services"
)

type RecommendationHandler struct {
	recommendationService services.RecommendationService
}

func NewRecommendationHandler(recommendationService services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{recommendationService: recommendationService}
}

func (rh *RecommendationHandler) Recommend(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	recommendations, err := rh.recommendationService.Recommend(c.Request.Context(), rd.Username)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"recommendations": recommendations})
}
