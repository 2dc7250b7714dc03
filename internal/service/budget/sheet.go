package budget

import (
	"github.com/google/uuid"

	"calibration-report/internal/storage"
)

// Line is a budget row as displayed: its position number and computed subtotal.
type Line struct {
	Number int `json:"number"`
	storage.BudgetItem
	Subtotal float64 `json:"subtotal"`
}

// Sheet is the ordered list of budget rows on the form. Row numbers are derived
// from position, so they stay 1..N whatever is removed.
type Sheet struct {
	items []storage.BudgetItem
}

func NewSheet(items []storage.BudgetItem) *Sheet {
	s := &Sheet{items: make([]storage.BudgetItem, 0, len(items))}
	for _, it := range items {
		s.Add(it)
	}
	return s
}

// Add appends a row and returns its id.
func (s *Sheet) Add(item storage.BudgetItem) string {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	s.items = append(s.items, item)
	return item.ID
}

func (s *Sheet) Update(id string, item storage.BudgetItem) bool {
	for i := range s.items {
		if s.items[i].ID == id {
			item.ID = id
			s.items[i] = item
			return true
		}
	}
	return false
}

func (s *Sheet) Remove(id string) bool {
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Sheet) Len() int {
	return len(s.items)
}

func (s *Sheet) Items() []storage.BudgetItem {
	out := make([]storage.BudgetItem, len(s.items))
	copy(out, s.items)
	return out
}

// Lines numbers every row, complete or not.
func (s *Sheet) Lines() []Line {
	return Number(s.items)
}

// Number turns rows into numbered lines in their current order.
func Number(items []storage.BudgetItem) []Line {
	lines := make([]Line, len(items))
	for i, it := range items {
		lines[i] = Line{
			Number:     i + 1,
			BudgetItem: it,
			Subtotal:   RoundCurrency(LineSubtotal(it.Quantity, it.Price)),
		}
	}
	return lines
}
