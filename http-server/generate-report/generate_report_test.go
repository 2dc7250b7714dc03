package generate_report

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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"calibration-report/internal/service/budget"
	"calibration-report/internal/service/report"
	"calibration-report/internal/storage"
)

type MockAssembler struct {
	mock.Mock
}

func (m *MockAssembler) Assemble(ctx context.Context, draft storage.ReportDraft) (*report.Document, error) {
	args := m.Called(ctx, draft)
	doc, _ := args.Get(0).(*report.Document)
	return doc, args.Error(1)
}

type MockSource struct {
	mock.Mock
}

func (m *MockSource) Snapshot() (storage.ReportDraft, uint64) {
	args := m.Called()
	return args.Get(0).(storage.ReportDraft), uint64(args.Int(1))
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func realAssembler(t *testing.T) *report.Assembler {
	t.Helper()
	agg, err := budget.NewAggregator(string(budget.PolicyTaxInclusive), 0.18)
	require.NoError(t, err)
	return report.NewAssembler(agg)
}

func TestFileName(t *testing.T) {
	at := time.Date(2026, 5, 4, 15, 0, 0, 0, time.UTC)

	assert.Equal(t, "Informe_INF-001_2026-05-04.pdf", FileName("INF-001", at, ".pdf"))
	assert.Equal(t, "Informe_TECFRESH_2026-05-04.xlsx", FileName("", at, ".xlsx"))
	assert.Equal(t, "Informe_INF_12_2026-05-04.pdf", FileName("INF 12", at, ".pdf"))
}

func TestPreview_UsesSessionWhenBodyEmpty(t *testing.T) {
	src := new(MockSource)
	src.On("Snapshot").Return(storage.ReportDraft{
		ReportNumber: "INF-77",
		Equipments:   []storage.Equipment{{Serial: "S-1"}},
	}, 3)

	e := NewExporter(discard(), realAssembler(t), src, time.Second)
	rr := httptest.NewRecorder()
	e.Preview().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/report/preview", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	assert.Empty(t, rr.Header().Get("Content-Disposition"))
	assert.Contains(t, rr.Body.String(), "INF-77")
	src.AssertExpectations(t)
}

func TestPDF_FromBody(t *testing.T) {
	src := new(MockSource)

	e := NewExporter(discard(), realAssembler(t), src, time.Second)
	body := `{"report_number":"INF-5","equipments":[{"serial":"X"}],"budget_items":[{"description":"Servicio","quantity":1,"price":100}]}`
	rr := httptest.NewRecorder()
	e.PDF().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/report/pdf", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, contentTypePDF, rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "Informe_INF-5_")
	assert.True(t, strings.HasPrefix(rr.Body.String(), "%PDF-"))
	src.AssertNotCalled(t, "Snapshot")
}

func TestExcel_Attachment(t *testing.T) {
	src := new(MockSource)
	src.On("Snapshot").Return(storage.ReportDraft{ReportNumber: "INF-6"}, 1)

	e := NewExporter(discard(), realAssembler(t), src, time.Second)
	rr := httptest.NewRecorder()
	e.Excel().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/report/excel", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, contentTypeXLSX, rr.Header().Get("Content-Type"))
	assert.True(t, strings.HasSuffix(rr.Header().Get("Content-Disposition"), ".xlsx"))
	// xlsx is a zip archive
	assert.True(t, strings.HasPrefix(rr.Body.String(), "PK"))
}

func TestExport_AssembleError(t *testing.T) {
	asm := new(MockAssembler)
	asm.On("Assemble", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))
	src := new(MockSource)
	src.On("Snapshot").Return(storage.ReportDraft{}, 0)

	e := NewExporter(discard(), asm, src, time.Second)
	rr := httptest.NewRecorder()
	e.PDF().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/report/pdf", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestExport_BadJSON(t *testing.T) {
	asm := new(MockAssembler)
	e := NewExporter(discard(), asm, new(MockSource), time.Second)

	rr := httptest.NewRecorder()
	e.Excel().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/report/excel", strings.NewReader("{")))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	asm.AssertNotCalled(t, "Assemble", mock.Anything, mock.Anything)
}
