package get

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"calibration-report/internal/storage"
)

type MockLoader struct {
	mock.Mock
}

func (m *MockLoader) LoadDraft(ctx context.Context) (*storage.Draft, error) {
	args := m.Called(ctx)
	d, _ := args.Get(0).(*storage.Draft)
	return d, args.Error(1)
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGetDraft(t *testing.T) {
	m := new(MockLoader)
	m.On("LoadDraft", mock.Anything).Return(&storage.Draft{
		Report:  storage.ReportDraft{ReportNumber: "INF-9"},
		Version: storage.DraftVersion,
	}, nil)

	rr := httptest.NewRecorder()
	GetDraft(discard(), m).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/draft", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var got storage.Draft
	require.NoError(t, render.DecodeJSON(rr.Body, &got))
	assert.Equal(t, "INF-9", got.Report.ReportNumber)
}

func TestGetDraft_NotFound(t *testing.T) {
	m := new(MockLoader)
	m.On("LoadDraft", mock.Anything).Return(nil, fmt.Errorf("storage.mysql.LoadDraft: %w", storage.ErrDraftNotFound))

	rr := httptest.NewRecorder()
	GetDraft(discard(), m).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/draft", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
