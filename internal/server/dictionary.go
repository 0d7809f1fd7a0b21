package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hanvq/nungdict/internal/dictionary"
)

// DictionaryHandler serves the curated dictionary admin endpoints.
type DictionaryHandler struct {
	repo dictionary.Repository
}

func NewDictionaryHandler(repo dictionary.Repository) *DictionaryHandler {
	return &DictionaryHandler{repo: repo}
}

func (h *DictionaryHandler) parseLang(c *gin.Context) (dictionary.Language, bool) {
	lang, err := dictionary.ParseLanguage(c.Param("lang"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return lang, true
}

func (h *DictionaryHandler) List(c *gin.Context) {
	lang, ok := h.parseLang(c)
	if !ok {
		return
	}
	entries, err := h.repo.FindAll(c.Request.Context(), lang)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "listing dictionary entries failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listing dictionary entries failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (h *DictionaryHandler) Get(c *gin.Context) {
	lang, ok := h.parseLang(c)
	if !ok {
		return
	}
	entry, err := h.repo.FindByKey(c.Request.Context(), lang, c.Param("key"))
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "dictionary lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "dictionary lookup failed"})
		return
	}
	if entry == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "entry not found"})
		return
	}
	c.JSON(http.StatusOK, entry)
}

type upsertEntryRequest struct {
	Script   string `json:"script" binding:"required"`
	Phonetic string `json:"phonetic"`
	Notes    string `json:"notes"`
}

func (h *DictionaryHandler) Put(c *gin.Context) {
	lang, ok := h.parseLang(c)
	if !ok {
		return
	}
	var req upsertEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry := &dictionary.StoredEntry{
		Lang:     lang,
		Key:      c.Param("key"),
		Script:   req.Script,
		Phonetic: req.Phonetic,
		Notes:    req.Notes,
	}
	if err := h.repo.Upsert(c.Request.Context(), entry); err != nil {
		slog.ErrorContext(c.Request.Context(), "dictionary upsert failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "dictionary upsert failed"})
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *DictionaryHandler) Delete(c *gin.Context) {
	lang, ok := h.parseLang(c)
	if !ok {
		return
	}
	if err := h.repo.Delete(c.Request.Context(), lang, c.Param("key")); err != nil {
		slog.ErrorContext(c.Request.Context(), "dictionary delete failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "dictionary delete failed"})
		return
	}
	c.Status(http.StatusNoContent)
}
