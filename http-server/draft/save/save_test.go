package save

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"calibration-report/internal/storage"
)

type MockSession struct {
	mock.Mock
}

func (m *MockSession) Replace(d storage.ReportDraft) {
	m.Called(d)
}

type MockWriter struct {
	mock.Mock
}

func (m *MockWriter) SaveNow(ctx context.Context) (storage.Draft, error) {
	args := m.Called(ctx)
	return args.Get(0).(storage.Draft), args.Error(1)
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSaveDraft_EmptyBodySavesSession(t *testing.T) {
	s, wr := new(MockSession), new(MockWriter)
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	wr.On("SaveNow", mock.Anything).Return(storage.Draft{SavedAt: at, Version: storage.DraftVersion}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/draft", nil)
	rr := httptest.NewRecorder()

	SaveDraft(discard(), s, wr).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp Resp
	require.NoError(t, render.DecodeJSON(rr.Body, &resp))
	assert.True(t, at.Equal(resp.SavedAt))
	assert.Equal(t, "1.0", resp.Version)
	s.AssertNotCalled(t, "Replace", mock.Anything)
}

func TestSaveDraft_BodyReplacesSession(t *testing.T) {
	s, wr := new(MockSession), new(MockWriter)
	s.On("Replace", mock.MatchedBy(func(d storage.ReportDraft) bool {
		return d.ReportNumber == "INF-001"
	})).Return()
	wr.On("SaveNow", mock.Anything).Return(storage.Draft{Version: storage.DraftVersion}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/draft", strings.NewReader(`{"report_number":"INF-001"}`))
	rr := httptest.NewRecorder()

	SaveDraft(discard(), s, wr).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	s.AssertExpectations(t)
	wr.AssertExpectations(t)
}

func TestSaveDraft_StorageError(t *testing.T) {
	s, wr := new(MockSession), new(MockWriter)
	wr.On("SaveNow", mock.Anything).Return(storage.Draft{}, errors.New("db down"))

	req := httptest.NewRequest(http.MethodPost, "/api/draft", nil)
	rr := httptest.NewRecorder()

	SaveDraft(discard(), s, wr).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestSaveDraft_BadJSON(t *testing.T) {
	s, wr := new(MockSession), new(MockWriter)

	req := httptest.NewRequest(http.MethodPost, "/api/draft", strings.NewReader(`{"report_number":`))
	rr := httptest.NewRecorder()

	SaveDraft(discard(), s, wr).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	wr.AssertNotCalled(t, "SaveNow", mock.Anything)
}
