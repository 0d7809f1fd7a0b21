package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/hanvq/nungdict/internal/config"
	"github.com/hanvq/nungdict/internal/dictionary"
	"github.com/hanvq/nungdict/internal/discussion"
	"github.com/hanvq/nungdict/internal/inference"
	mock_dictionary "github.com/hanvq/nungdict/internal/mocks/dictionary"
	mock_inference "github.com/hanvq/nungdict/internal/mocks/inference"
	"github.com/hanvq/nungdict/internal/translator"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router        *gin.Engine
	inference     *mock_inference.MockClient
	dictionary    *mock_dictionary.MockRepository
	discussions   *discussion.Service
	discussionsDB *discussion.MemoryRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctrl := gomock.NewController(t)

	dict, err := dictionary.New(map[dictionary.Language]map[string]dictionary.Entry{
		dictionary.LanguageNung: {
			"tôi": {Script: "khỏi", Phonetic: "khoj"},
			"ngủ": {Script: "nòn", Phonetic: "nɔn"},
		},
	})
	require.NoError(t, err)

	inferenceClient := mock_inference.NewMockClient(ctrl)
	dictRepo := mock_dictionary.NewMockRepository(ctrl)
	repo := discussion.NewMemoryRepository()
	discussions, err := discussion.NewService(repo, 1)
	require.NoError(t, err)

	router := NewRouter(config.ServerConfig{AllowOrigin: "*"}, Dependencies{
		Resolver:    translator.NewResolver(dict, inferenceClient),
		Inference:   inferenceClient,
		Dictionary:  dictRepo,
		Discussions: discussions,
	})
	return &testServer{
		router:        router,
		inference:     inferenceClient,
		dictionary:    dictRepo,
		discussions:   discussions,
		discussionsDB: repo,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	s.router.ServeHTTP(recorder, req)
	return recorder
}

func TestTranslateHandler_Translate(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		wantStatus int
		assert     func(t *testing.T, body map[string]any)
	}{
		{
			name:       "fully resolved locally",
			body:       gin.H{"text": "Tôi ngủ", "target_lang": "nung"},
			wantStatus: http.StatusOK,
			assert: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "khỏi nòn", body["translation"])
				assert.Equal(t, false, body["apiCalled"])
			},
		},
		{
			name:       "unknown target language",
			body:       gin.H{"text": "Tôi ngủ", "target_lang": "klingon"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing text",
			body:       gin.H{"target_lang": "nung"},
			wantStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t)
			recorder := server.do(t, http.MethodPost, "/api/translate", tt.body)
			require.Equal(t, tt.wantStatus, recorder.Code, recorder.Body.String())
			if tt.assert != nil {
				var body map[string]any
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
				tt.assert(t, body)
			}
		})
	}
}

func TestTranslateHandler_Chat(t *testing.T) {
	server := newTestServer(t)
	server.inference.EXPECT().
		Chat(gomock.Any(), inference.ChatRequest{
			Messages: []inference.ChatMessage{{Role: inference.RoleUser, Content: "xin chào"}},
		}).
		Return(inference.ChatResponse{Reply: "chào bạn"}, nil)

	recorder := server.do(t, http.MethodPost, "/api/chat", gin.H{
		"messages": []gin.H{{"role": "user", "content": "xin chào"}},
	})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	assert.JSONEq(t, `{"reply":"chào bạn"}`, recorder.Body.String())
}

func TestTranslateHandler_CheckSpelling(t *testing.T) {
	server := newTestServer(t)
	server.inference.EXPECT().
		CheckSpelling(gomock.Any(), inference.SpellCheckRequest{Text: "toi ngu"}).
		Return(inference.SpellCheckResponse{Corrected: "tôi ngủ"}, nil)

	recorder := server.do(t, http.MethodPost, "/api/spellcheck", gin.H{"text": "toi ngu"})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	assert.JSONEq(t, `{"corrected":"tôi ngủ"}`, recorder.Body.String())
}

func TestDictionaryHandler(t *testing.T) {
	t.Run("get existing entry", func(t *testing.T) {
		server := newTestServer(t)
		server.dictionary.EXPECT().
			FindByKey(gomock.Any(), dictionary.LanguageNung, "ngủ").
			Return(&dictionary.StoredEntry{Lang: dictionary.LanguageNung, Key: "ngủ", Script: "nòn"}, nil)

		recorder := server.do(t, http.MethodGet, "/api/dictionary/nung/ngủ", nil)
		require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	})

	t.Run("get missing entry", func(t *testing.T) {
		server := newTestServer(t)
		server.dictionary.EXPECT().
			FindByKey(gomock.Any(), dictionary.LanguageNung, "vắng").
			Return(nil, nil)

		recorder := server.do(t, http.MethodGet, "/api/dictionary/nung/vắng", nil)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("invalid language", func(t *testing.T) {
		server := newTestServer(t)
		recorder := server.do(t, http.MethodGet, "/api/dictionary/klingon/ngủ", nil)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("upsert entry", func(t *testing.T) {
		server := newTestServer(t)
		server.dictionary.EXPECT().
			Upsert(gomock.Any(), &dictionary.StoredEntry{
				Lang:   dictionary.LanguageNung,
				Key:    "lợn",
				Script: "mu",
			}).
			Return(nil)

		recorder := server.do(t, http.MethodPut, "/api/dictionary/nung/lợn", gin.H{"script": "mu"})
		require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	})

	t.Run("delete entry", func(t *testing.T) {
		server := newTestServer(t)
		server.dictionary.EXPECT().
			Delete(gomock.Any(), dictionary.LanguageNung, "lợn").
			Return(nil)

		recorder := server.do(t, http.MethodDelete, "/api/dictionary/nung/lợn", nil)
		assert.Equal(t, http.StatusNoContent, recorder.Code)
	})
}

func TestDiscussionHandler_CreateAndList(t *testing.T) {
	server := newTestServer(t)

	recorder := server.do(t, http.MethodPost, "/api/discussions", gin.H{
		"text":      "Tôi ngủ",
		"lang":      "nung",
		"author_id": "user-1",
		"content":   "first comment",
	})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var created discussion.Node
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))
	assert.Equal(t, 1, created.Depth)

	recorder = server.do(t, http.MethodPost, "/api/discussions", gin.H{
		"text":      "Tôi ngủ",
		"lang":      "nung",
		"author_id": "user-2",
		"content":   "a reply",
		"parent_id": fmt.Sprintf("%d", created.ID),
	})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	recorder = server.do(t, http.MethodGet, "/api/discussions?text=Tôi+ngủ&lang=nung&sort=newest", nil)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var listed struct {
		Nodes []*discussion.Node `json:"nodes"`
		Total int                `json:"total"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &listed))
	assert.Equal(t, 1, listed.Total)
	require.Len(t, listed.Nodes, 1)
	require.Len(t, listed.Nodes[0].Replies, 1)
	assert.Equal(t, "a reply", listed.Nodes[0].Replies[0].Content)
}

func TestDiscussionHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		body       any
		wantStatus int
	}{
		{
			name:       "create without subject",
			method:     http.MethodPost,
			path:       "/api/discussions",
			body:       gin.H{"content": "hello"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "create with missing parent",
			method:     http.MethodPost,
			path:       "/api/discussions",
			body:       gin.H{"subject_key": "abc", "content": "hello", "parent_id": "12345"},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "list with invalid sort",
			method:     http.MethodGet,
			path:       "/api/discussions?subject_key=abc&sort=sideways",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "like a missing node",
			method:     http.MethodPost,
			path:       "/api/discussions/999/like",
			body:       gin.H{"user_id": "user-1"},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "invalid node id",
			method:     http.MethodPost,
			path:       "/api/discussions/abc/like",
			body:       gin.H{"user_id": "user-1"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "moderate with invalid outcome",
			method:     http.MethodPost,
			path:       "/api/reports/1/moderate",
			body:       gin.H{"reviewer_id": "mod", "outcome": "escalated"},
			wantStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t)
			recorder := server.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, recorder.Code, recorder.Body.String())
		})
	}
}

func TestDiscussionHandler_LikeReportModerate(t *testing.T) {
	server := newTestServer(t)

	recorder := server.do(t, http.MethodPost, "/api/discussions", gin.H{
		"subject_key": "abc",
		"author_id":   "user-1",
		"content":     "to be moderated",
	})
	require.Equal(t, http.StatusCreated, recorder.Code)
	var node discussion.Node
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &node))

	recorder = server.do(t, http.MethodPost, fmt.Sprintf("/api/discussions/%d/like", node.ID), gin.H{"user_id": "user-2"})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	assert.JSONEq(t, `{"liked":true,"like_count":1}`, recorder.Body.String())

	recorder = server.do(t, http.MethodPost, fmt.Sprintf("/api/discussions/%d/report", node.ID), gin.H{
		"reporter_id": "user-2",
		"reason":      "spam",
	})
	require.Equal(t, http.StatusNoContent, recorder.Code)

	recorder = server.do(t, http.MethodGet, "/api/reports?status=pending", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var reports struct {
		Reports []*discussion.Report `json:"reports"`
		Total   int                  `json:"total"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &reports))
	require.Equal(t, 1, reports.Total)

	recorder = server.do(t, http.MethodPost, fmt.Sprintf("/api/reports/%d/moderate", reports.Reports[0].ID), gin.H{
		"reviewer_id": "moderator",
		"outcome":     "resolved",
		"delete_node": true,
	})
	require.Equal(t, http.StatusNoContent, recorder.Code, recorder.Body.String())

	recorder = server.do(t, http.MethodGet, "/api/discussions?subject_key=abc", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var listed struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &listed))
	assert.Equal(t, 0, listed.Total)
}
