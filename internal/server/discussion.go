package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hanvq/nungdict/internal/discussion"
)

// DiscussionHandler serves the threaded discussion and moderation
// endpoints.
type DiscussionHandler struct {
	service *discussion.Service
}

func NewDiscussionHandler(service *discussion.Service) *DiscussionHandler {
	return &DiscussionHandler{service: service}
}

func writeDiscussionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, discussion.ErrEmptyContent):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, discussion.ErrParentNotFound),
		errors.Is(err, discussion.ErrNodeNotFound),
		errors.Is(err, discussion.ErrReportNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, discussion.ErrNotAuthor):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		slog.ErrorContext(c.Request.Context(), "discussion operation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "discussion operation failed"})
	}
}

func nodeIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// subjectKeyFrom resolves the discussion grouping key from either an
// explicit subject_key or an (original text, target language) pair.
func subjectKeyFrom(subjectKey, text, lang string) (string, bool) {
	if subjectKey != "" {
		return subjectKey, true
	}
	if text != "" && lang != "" {
		return discussion.SubjectKey(text, lang), true
	}
	return "", false
}

type createDiscussionRequest struct {
	SubjectKey string  `json:"subject_key"`
	Text       string  `json:"text"`
	Lang       string  `json:"lang"`
	AuthorID   *string `json:"author_id"`
	Content    string  `json:"content" binding:"required"`
	ParentID   *int64  `json:"parent_id,string"`
}

func (h *DiscussionHandler) Create(c *gin.Context) {
	var req createDiscussionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	subjectKey, ok := subjectKeyFrom(req.SubjectKey, req.Text, req.Lang)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subject_key or text and lang are required"})
		return
	}

	node, err := h.service.CreateNode(c.Request.Context(), subjectKey, req.AuthorID, req.Content, req.ParentID)
	if err != nil {
		writeDiscussionError(c, err)
		return
	}
	c.JSON(http.StatusCreated, node)
}

func (h *DiscussionHandler) List(c *gin.Context) {
	subjectKey, ok := subjectKeyFrom(c.Query("subject_key"), c.Query("text"), c.Query("lang"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subject_key or text and lang are required"})
		return
	}
	sort, err := discussion.ParseSortOrder(c.Query("sort"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	page, _ := strconv.Atoi(c.Query("page"))
	pageSize, _ := strconv.Atoi(c.Query("page_size"))
	var viewerID *string
	if viewer := c.Query("viewer_id"); viewer != "" {
		viewerID = &viewer
	}

	nodes, total, err := h.service.ListThread(c.Request.Context(), subjectKey, page, pageSize, sort, viewerID)
	if err != nil {
		writeDiscussionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"nodes": nodes, "total": total})
}

type updateDiscussionRequest struct {
	EditorID string `json:"editor_id" binding:"required"`
	Content  string `json:"content" binding:"required"`
}

func (h *DiscussionHandler) Update(c *gin.Context) {
	id, ok := nodeIDParam(c)
	if !ok {
		return
	}
	var req updateDiscussionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	node, err := h.service.UpdateNode(c.Request.Context(), id, req.EditorID, req.Content)
	if err != nil {
		writeDiscussionError(c, err)
		return
	}
	c.JSON(http.StatusOK, node)
}

type toggleLikeRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

func (h *DiscussionHandler) ToggleLike(c *gin.Context) {
	id, ok := nodeIDParam(c)
	if !ok {
		return
	}
	var req toggleLikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	liked, count, err := h.service.ToggleLike(c.Request.Context(), id, req.UserID)
	if err != nil {
		writeDiscussionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked, "like_count": count})
}

type reportRequest struct {
	ReporterID string `json:"reporter_id" binding:"required"`
	Reason     string `json:"reason"`
}

func (h *DiscussionHandler) Report(c *gin.Context) {
	id, ok := nodeIDParam(c)
	if !ok {
		return
	}
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.ReportNode(c.Request.Context(), id, req.ReporterID, req.Reason); err != nil {
		writeDiscussionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *DiscussionHandler) ListReports(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	pageSize, _ := strconv.Atoi(c.Query("page_size"))
	status := discussion.ReportStatus(c.Query("status"))

	reports, total, err := h.service.ListReports(c.Request.Context(), status, page, pageSize)
	if err != nil {
		writeDiscussionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports, "total": total})
}

type moderateRequest struct {
	ReviewerID string  `json:"reviewer_id" binding:"required"`
	Outcome    string  `json:"outcome" binding:"required"`
	ActionNote *string `json:"action_note"`
	DeleteNode bool    `json:"delete_node"`
}

func (h *DiscussionHandler) Moderate(c *gin.Context) {
	id, ok := nodeIDParam(c)
	if !ok {
		return
	}
	var req moderateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.service.Moderate(c.Request.Context(), id, req.ReviewerID, req.Outcome, req.ActionNote, req.DeleteNode)
	if err != nil {
		if _, parseErr := discussion.ParseReportOutcome(req.Outcome); parseErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": parseErr.Error()})
			return
		}
		writeDiscussionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
