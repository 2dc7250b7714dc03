// Package workspace holds the report the technician is currently editing.
package workspace

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"calibration-report/internal/service/budget"
	"calibration-report/internal/service/images"
	"calibration-report/internal/storage"
)

var (
	ErrEquipmentNotFound  = errors.New("equipment not found")
	ErrBudgetItemNotFound = errors.New("budget item not found")
	ErrImageNotFound      = errors.New("image not found")
)

// Item is an equipment with the number it is shown under.
type Item struct {
	Number    int               `json:"number"`
	Label     string            `json:"label"`
	Equipment storage.Equipment `json:"equipment"`
}

// View is the session as the form displays it.
type View struct {
	Draft  storage.ReportDraft `json:"draft"`
	Items  []Item              `json:"items"`
	Budget []budget.Line       `json:"budget"`
	Dirty  bool                `json:"dirty"`
}

// Session is the single shared working draft. All methods are safe for concurrent use.
type Session struct {
	mu       sync.Mutex
	draft    storage.ReportDraft
	sheet    *budget.Sheet
	images   *images.Store
	revision uint64
	saved    uint64
}

func NewSession(store *images.Store) *Session {
	s := &Session{images: store}
	s.reset(storage.ReportDraft{})
	return s
}

func (s *Session) reset(d storage.ReportDraft) {
	for i := range d.Equipments {
		if d.Equipments[i].ID == "" {
			d.Equipments[i].ID = uuid.NewString()
		}
	}
	if d.Images == nil {
		d.Images = map[string][]storage.Image{}
	}
	s.sheet = budget.NewSheet(d.BudgetItems)
	d.BudgetItems = nil
	s.draft = d
}

// touch records a change. Callers hold mu.
func (s *Session) touch() {
	s.revision++
}

// Replace swaps the whole working draft, e.g. after loading the saved slot.
func (s *Session) Replace(d storage.ReportDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset(d)
	s.touch()
}

// Restore loads a draft that is already persisted, so the session starts clean.
func (s *Session) Restore(d storage.ReportDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset(d)
	s.touch()
	s.saved = s.revision
}

// Snapshot returns a copy of the working draft and the revision it reflects.
func (s *Session) Snapshot() (storage.ReportDraft, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.copyDraft(), s.revision
}

func (s *Session) copyDraft() storage.ReportDraft {
	d := s.draft
	d.Equipments = append([]storage.Equipment(nil), s.draft.Equipments...)
	d.BudgetItems = s.sheet.Items()
	d.Images = make(map[string][]storage.Image, len(s.draft.Images))
	for slot, list := range s.draft.Images {
		d.Images[slot] = append([]storage.Image(nil), list...)
	}
	return d
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.copyDraft()
	items := make([]Item, len(d.Equipments))
	for i, eq := range d.Equipments {
		items[i] = Item{Number: i + 1, Label: fmt.Sprintf("ITEM %02d", i+1), Equipment: eq}
	}

	return View{
		Draft:  d,
		Items:  items,
		Budget: s.sheet.Lines(),
		Dirty:  s.revision != s.saved,
	}
}

// Dirty reports whether there are changes newer than the last save.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.revision != s.saved
}

// MarkSaved records that the given revision reached the draft slot. A newer
// revision stays dirty.
func (s *Session) MarkSaved(revision uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if revision > s.saved {
		s.saved = revision
	}
}

func (s *Session) AddEquipment(eq storage.Equipment) storage.Equipment {
	s.mu.Lock()
	defer s.mu.Unlock()

	eq.ID = uuid.NewString()
	s.draft.Equipments = append(s.draft.Equipments, eq)
	s.touch()
	return eq
}

func (s *Session) UpdateEquipment(id string, eq storage.Equipment) error {
	const op = "workspace.UpdateEquipment"

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%s: %s: %w", op, id, ErrEquipmentNotFound)
	}
	eq.ID = id
	s.draft.Equipments[i] = eq
	s.touch()
	return nil
}

// RemoveEquipment deletes the equipment and its photos. Remaining items are
// renumbered by position.
func (s *Session) RemoveEquipment(id string) error {
	const op = "workspace.RemoveEquipment"

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%s: %s: %w", op, id, ErrEquipmentNotFound)
	}
	s.draft.Equipments = append(s.draft.Equipments[:i], s.draft.Equipments[i+1:]...)
	images.RemoveEquipment(s.draft.Images, id)
	s.touch()
	return nil
}

func (s *Session) indexOf(id string) int {
	for i := range s.draft.Equipments {
		if s.draft.Equipments[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Session) AddBudgetItem(item storage.BudgetItem) storage.BudgetItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	// ids are assigned here, never taken from the client
	item.ID = ""
	item.ID = s.sheet.Add(item)
	s.touch()
	return item
}

func (s *Session) UpdateBudgetItem(id string, item storage.BudgetItem) error {
	const op = "workspace.UpdateBudgetItem"

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.sheet.Update(id, item) {
		return fmt.Errorf("%s: %s: %w", op, id, ErrBudgetItemNotFound)
	}
	s.touch()
	return nil
}

func (s *Session) RemoveBudgetItem(id string) error {
	const op = "workspace.RemoveBudgetItem"

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.sheet.Remove(id) {
		return fmt.Errorf("%s: %s: %w", op, id, ErrBudgetItemNotFound)
	}
	s.touch()
	return nil
}

// AddImages files a batch of uploads under slot. Files that fail are reported and
// skipped; the others are kept.
func (s *Session) AddImages(slot string, batch []images.Upload) ([]storage.Image, []images.Failure, error) {
	const op = "workspace.AddImages"

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range batch {
		if u.EquipmentID != "" && s.indexOf(u.EquipmentID) < 0 {
			return nil, nil, fmt.Errorf("%s: %s: %w", op, u.EquipmentID, ErrEquipmentNotFound)
		}
	}

	added, failures, err := s.images.Add(s.draft.Images, slot, batch)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(added) > 0 {
		s.touch()
	}
	return added, failures, nil
}

func (s *Session) RemoveImage(slot, id string) error {
	const op = "workspace.RemoveImage"

	s.mu.Lock()
	defer s.mu.Unlock()

	if !images.Remove(s.draft.Images, slot, id) {
		return fmt.Errorf("%s: %s/%s: %w", op, slot, id, ErrImageNotFound)
	}
	s.touch()
	return nil
}
