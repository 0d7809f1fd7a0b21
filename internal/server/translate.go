package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hanvq/nungdict/internal/dictionary"
	"github.com/hanvq/nungdict/internal/inference"
	"github.com/hanvq/nungdict/internal/translator"
)

// TranslateHandler serves the tiered translator and the direct inference
// endpoints (chat, spell check).
type TranslateHandler struct {
	resolver Resolver
	client   inference.Client
}

func NewTranslateHandler(resolver Resolver, client inference.Client) *TranslateHandler {
	return &TranslateHandler{
		resolver: resolver,
		client:   client,
	}
}

type translateRequest struct {
	Text       string `json:"text" binding:"required"`
	TargetLang string `json:"target_lang" binding:"required"`
}

func (h *TranslateHandler) Translate(c *gin.Context) {
	var req translateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.resolver.Resolve(c.Request.Context(), req.Text, req.TargetLang)
	if err != nil {
		if errors.Is(err, translator.ErrEmptyInput) || errors.Is(err, dictionary.ErrUnknownLanguage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		slog.ErrorContext(c.Request.Context(), "translation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "translation failed"})
		return
	}
	c.JSON(http.StatusOK, result)
}

type chatRequest struct {
	Messages []inference.ChatMessage `json:"messages" binding:"required,min=1,dive"`
}

func (h *TranslateHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.client.Chat(c.Request.Context(), inference.ChatRequest{Messages: req.Messages})
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "chat completion failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "chat failed"})
		return
	}
	c.JSON(http.StatusOK, res)
}

type spellCheckRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *TranslateHandler) CheckSpelling(c *gin.Context) {
	var req spellCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.client.CheckSpelling(c.Request.Context(), inference.SpellCheckRequest{Text: req.Text})
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "spell check failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "spell check failed"})
		return
	}
	c.JSON(http.StatusOK, res)
}
