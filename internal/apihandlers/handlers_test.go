package apihandlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"categorization-service/internal/categorizer"
	"categorization-service/internal/models"
)

type stubCategorizer struct {
	calls   int
	lastReq categorizer.Request
	result  []models.CategoryScore
	err     error
}

func (s *stubCategorizer) Categorize(ctx context.Context, req categorizer.Request) ([]models.CategoryScore, error) {
	s.calls++
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func setupRouter(cat *stubCategorizer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(NewAPIHandler(cat))
}

func TestRootHandler_Liveness(t *testing.T) {
	router := setupRouter(&stubCategorizer{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Categorization Service is running", body["message"])
}

func TestCategorizeHandler_Success(t *testing.T) {
	cat := &stubCategorizer{result: []models.CategoryScore{
		{Category: "Tecnologia e Inovação", Score: 0.9},
		{Category: "Ciência e Inovação", Score: 0.1},
	}}
	router := setupRouter(cat)

	payload := `{"transcription": "novidades de IA", "tags": ["IA"], "category": "Tecnologia", "topK": 2}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/categorize", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Category []models.CategoryScore `json:"category"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Category, 2)
	assert.Equal(t, "Tecnologia e Inovação", body.Category[0].Category)

	// The tag/category-aware contract: extras reach the categorizer.
	assert.Equal(t, "novidades de IA", cat.lastReq.Text)
	assert.Equal(t, []string{"IA"}, cat.lastReq.Tags)
	assert.Equal(t, "Tecnologia", cat.lastReq.Category)
	assert.Equal(t, 2, cat.lastReq.TopK)
}

func TestCategorizeHandler_EmptyTranscriptionIsBadRequest(t *testing.T) {
	cat := &stubCategorizer{err: fmt.Errorf("input text cannot be empty: %w", models.ErrInvalidInput)}
	router := setupRouter(cat)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/categorize", strings.NewReader(`{"transcription": ""}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["detail"], "cannot be empty")
}

func TestCategorizeHandler_MalformedBodyIsBadRequest(t *testing.T) {
	cat := &stubCategorizer{}
	router := setupRouter(cat)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/categorize", strings.NewReader(`{not json`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, cat.calls, "categorizer must not run on a malformed body")
}

func TestCategorizeHandler_OracleErrorIsBadGateway(t *testing.T) {
	cat := &stubCategorizer{err: fmt.Errorf("%w: model unavailable", models.ErrOracle)}
	router := setupRouter(cat)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/categorize", strings.NewReader(`{"transcription": "texto"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadGateway, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["detail"], "model unavailable")
}

func TestCategorizeHandler_UnknownErrorIsInternal(t *testing.T) {
	cat := &stubCategorizer{err: fmt.Errorf("something unexpected")}
	router := setupRouter(cat)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/categorize", strings.NewReader(`{"transcription": "texto"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
