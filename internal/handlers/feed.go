package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/IsaacCheng9/student-network-backend/internal/requestdata"
	"github.com/IsaacCheng9/student-network-backend/internal/services"
)

type FeedHandler struct {
	feedService services.FeedService
}

func NewFeedHandler(feedService services.FeedService) *FeedHandler {
	return &FeedHandler{feedService: feedService}
}

func (fh *FeedHandler) CreatePost(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	var req struct {
		Body    string `json:"body"`
		Privacy string `json:"privacy"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	post, err := fh.feedService.CreatePost(c.Request.Context(), rd.Username, req.Body, req.Privacy)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (fh *FeedHandler) GetPost(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	view, err := fh.feedService.GetPost(c.Request.Context(), rd.Username, postID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, view)
}

func (fh *FeedHandler) DeletePost(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := fh.feedService.DeletePost(c.Request.Context(), rd.Username, postID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "post deleted"})
}

func (fh *FeedHandler) Feed(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	posts, err := fh.feedService.Feed(c.Request.Context(), rd.Username, parseLimit(c, 50))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"posts": posts})
}

func (fh *FeedHandler) ProfilePosts(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	posts, err := fh.feedService.ProfilePosts(c.Request.Context(), rd.Username, c.Param("username"), parseLimit(c, 50))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"posts": posts})
}

func (fh *FeedHandler) AddComment(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	var req struct {
		Body string `json:"body"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	comment, err := fh.feedService.AddComment(c.Request.Context(), rd.Username, postID, req.Body)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (fh *FeedHandler) ListComments(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	comments, err := fh.feedService.ListComments(c.Request.Context(), rd.Username, postID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"comments": comments})
}

func (fh *FeedHandler) DeleteComment(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := fh.feedService.DeleteComment(c.Request.Context(), rd.Username, commentID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "comment deleted"})
}

func (fh *FeedHandler) Like(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := fh.feedService.Like(c.Request.Context(), rd.Username, postID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "post liked"})
}

func (fh *FeedHandler) Unlike(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := fh.feedService.Unlike(c.Request.Context(), rd.Username, postID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "like removed"})
}
