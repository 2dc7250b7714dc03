package workspace

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"calibration-report/internal/lib/numeric"
	"calibration-report/internal/service/images"
	"calibration-report/internal/storage"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type MockDraftSaver struct {
	mock.Mock
}

func (m *MockDraftSaver) SaveDraft(ctx context.Context, draft storage.Draft) error {
	args := m.Called(ctx, draft)
	return args.Error(0)
}

func newSession() *Session {
	return NewSession(images.NewStore(images.Limits{MaxBytes: 1 << 20, MaxCount: 20}))
}

func TestSession_EquipmentRenumbering(t *testing.T) {
	s := newSession()

	a := s.AddEquipment(storage.Equipment{Serial: "A"})
	b := s.AddEquipment(storage.Equipment{Serial: "B"})
	c := s.AddEquipment(storage.Equipment{Serial: "C"})
	assert.NotEqual(t, a.ID, b.ID)

	require.NoError(t, s.RemoveEquipment(b.ID))

	v := s.View()
	require.Len(t, v.Items, 2)
	assert.Equal(t, 1, v.Items[0].Number)
	assert.Equal(t, "ITEM 01", v.Items[0].Label)
	assert.Equal(t, 2, v.Items[1].Number)
	assert.Equal(t, "ITEM 02", v.Items[1].Label)
	assert.Equal(t, c.ID, v.Items[1].Equipment.ID)

	assert.ErrorIs(t, s.RemoveEquipment(b.ID), ErrEquipmentNotFound)
}

func TestSession_UpdateEquipmentKeepsID(t *testing.T) {
	s := newSession()
	eq := s.AddEquipment(storage.Equipment{Serial: "A"})

	require.NoError(t, s.UpdateEquipment(eq.ID, storage.Equipment{ID: "other", Serial: "A2", PH701Calibration: numeric.Of(7.01)}))

	d, _ := s.Snapshot()
	require.Len(t, d.Equipments, 1)
	assert.Equal(t, eq.ID, d.Equipments[0].ID)
	assert.Equal(t, "A2", d.Equipments[0].Serial)

	assert.ErrorIs(t, s.UpdateEquipment("missing", storage.Equipment{}), ErrEquipmentNotFound)
}

func TestSession_BudgetRenumbering(t *testing.T) {
	s := newSession()
	s.AddBudgetItem(storage.BudgetItem{Description: "one", Quantity: numeric.Of(1), Price: numeric.Of(10)})
	two := s.AddBudgetItem(storage.BudgetItem{Description: "two", Quantity: numeric.Of(1), Price: numeric.Of(20)})
	s.AddBudgetItem(storage.BudgetItem{Description: "three", Quantity: numeric.Of(1), Price: numeric.Of(30)})

	require.NoError(t, s.RemoveBudgetItem(two.ID))

	lines := s.View().Budget
	require.Len(t, lines, 2)
	assert.Equal(t, []int{1, 2}, []int{lines[0].Number, lines[1].Number})
	assert.Equal(t, "three", lines[1].Description)

	assert.ErrorIs(t, s.RemoveBudgetItem(two.ID), ErrBudgetItemNotFound)
	assert.ErrorIs(t, s.UpdateBudgetItem(two.ID, storage.BudgetItem{}), ErrBudgetItemNotFound)
}

func TestSession_ReplaceAssignsIDs(t *testing.T) {
	s := newSession()
	s.Replace(storage.ReportDraft{
		ReportNumber: "INF-1",
		Equipments:   []storage.Equipment{{Serial: "A"}},
		BudgetItems:  []storage.BudgetItem{{Description: "x", Quantity: numeric.Of(1)}},
	})

	d, _ := s.Snapshot()
	assert.Equal(t, "INF-1", d.ReportNumber)
	assert.NotEmpty(t, d.Equipments[0].ID)
	assert.NotEmpty(t, d.BudgetItems[0].ID)
	assert.NotNil(t, d.Images)
}

func TestSession_SnapshotIsACopy(t *testing.T) {
	s := newSession()
	s.AddEquipment(storage.Equipment{Serial: "A"})

	d, _ := s.Snapshot()
	d.Equipments[0].Serial = "changed"

	again, _ := s.Snapshot()
	assert.Equal(t, "A", again.Equipments[0].Serial)
}

func TestSession_Images(t *testing.T) {
	s := newSession()
	eq := s.AddEquipment(storage.Equipment{Serial: "A"})

	added, failures, err := s.AddImages(images.SlotEquipmentIntake, []images.Upload{
		{FileName: "a.png", EquipmentID: eq.ID, Data: pngHeader},
		{FileName: "b.txt", EquipmentID: eq.ID, Data: []byte("text")},
	})
	require.NoError(t, err)
	require.Len(t, added, 1)
	assert.Len(t, failures, 1)

	_, _, err = s.AddImages(images.SlotEquipmentIntake, []images.Upload{{FileName: "c.png", EquipmentID: "nope", Data: pngHeader}})
	assert.ErrorIs(t, err, ErrEquipmentNotFound)

	_, _, err = s.AddImages("unknown", nil)
	assert.ErrorIs(t, err, images.ErrUnknownSlot)

	require.NoError(t, s.RemoveEquipment(eq.ID))
	d, _ := s.Snapshot()
	assert.Empty(t, d.Images)
	assert.ErrorIs(t, s.RemoveImage(images.SlotEquipmentIntake, added[0].ID), ErrImageNotFound)
}

func TestSession_DirtyTracking(t *testing.T) {
	s := newSession()
	assert.False(t, s.Dirty())

	s.AddEquipment(storage.Equipment{})
	_, rev := s.Snapshot()
	s.AddEquipment(storage.Equipment{})

	s.MarkSaved(rev)
	assert.True(t, s.Dirty(), "a change made after the snapshot stays unsaved")

	_, rev = s.Snapshot()
	s.MarkSaved(rev)
	assert.False(t, s.Dirty())
}

func TestAutosaver_SaveIfDirty(t *testing.T) {
	s := newSession()
	saver := new(MockDraftSaver)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	a, err := NewAutosaver(log, s, saver, "@every 30s", time.Second)
	require.NoError(t, err)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return fixed }

	saved, err := a.SaveIfDirty(context.Background())
	require.NoError(t, err)
	assert.False(t, saved)
	saver.AssertNotCalled(t, "SaveDraft", mock.Anything, mock.Anything)

	s.AddEquipment(storage.Equipment{Serial: "A"})

	saver.On("SaveDraft", mock.Anything, mock.MatchedBy(func(d storage.Draft) bool {
		return d.Version == storage.DraftVersion && d.SavedAt.Equal(fixed) && len(d.Report.Equipments) == 1
	})).Return(nil).Once()

	saved, err = a.SaveIfDirty(context.Background())
	require.NoError(t, err)
	assert.True(t, saved)
	assert.False(t, s.Dirty())

	saver.AssertExpectations(t)
}

func TestAutosaver_FailureKeepsDirty(t *testing.T) {
	s := newSession()
	saver := new(MockDraftSaver)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	a, err := NewAutosaver(log, s, saver, "@every 30s", time.Second)
	require.NoError(t, err)

	s.AddEquipment(storage.Equipment{})
	saver.On("SaveDraft", mock.Anything, mock.Anything).Return(errors.New("db down"))

	_, err = a.SaveIfDirty(context.Background())
	assert.Error(t, err)
	assert.True(t, s.Dirty())
}

func TestNewAutosaver_BadSchedule(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err := NewAutosaver(log, newSession(), new(MockDraftSaver), "not a schedule", time.Second)
	assert.Error(t, err)
}

func TestSession_RestoreStartsClean(t *testing.T) {
	s := newSession()
	s.AddEquipment(storage.Equipment{Serial: "A"})
	require.True(t, s.Dirty())

	s.Restore(storage.ReportDraft{ReportNumber: "INF-7", Equipments: []storage.Equipment{{Serial: "B"}}})

	assert.False(t, s.Dirty())
	v := s.View()
	assert.Equal(t, "INF-7", v.Draft.ReportNumber)
	require.Len(t, v.Items, 1)
	assert.NotEmpty(t, v.Items[0].Equipment.ID)
}
