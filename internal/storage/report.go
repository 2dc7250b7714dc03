package storage

import (
	"errors"
	"time"

	"calibration-report/internal/lib/numeric"
)

var ErrDraftNotFound = errors.New("draft not found")

const (
	DocumentRUC = "RUC"
	DocumentDNI = "DNI"
	DocumentCE  = "CE"

	CurrencyPEN = "PEN"
	CurrencyUSD = "USD"

	DraftVersion = "1.0"
)

type Client struct {
	DocumentType   string `json:"document_type"`
	DocumentNumber string `json:"document_number"`
	BusinessName   string `json:"business_name"`
	Address        string `json:"address"`
	ContactName    string `json:"contact_name"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
}

type BudgetItem struct {
	ID          string        `json:"id"`
	Description string        `json:"description"`
	Quantity    numeric.Value `json:"quantity"`
	Price       numeric.Value `json:"price"`
}

// Image is an uploaded photo referenced from the report by slot.
type Image struct {
	ID          string    `json:"id"`
	EquipmentID string    `json:"equipment_id,omitempty"`
	Data        string    `json:"data"`
	FileName    string    `json:"file_name"`
	Timestamp   time.Time `json:"timestamp"`
}

// ReportDraft is everything the technician has entered for one report.
type ReportDraft struct {
	ReportNumber string             `json:"report_number"`
	ReportDate   string             `json:"report_date"`
	Client       Client             `json:"client"`
	Equipments   []Equipment        `json:"equipments"`
	BudgetItems  []BudgetItem       `json:"budget_items"`
	Currency     string             `json:"currency"`
	Warranty     bool               `json:"warranty"`
	Technician   string             `json:"technician,omitempty"`
	Images       map[string][]Image `json:"images,omitempty"`
}

// Totals is the budget summary under the deployment's totalling policy.
// Subtotal and Tax are only meaningful when Breakdown is set.
type Totals struct {
	Policy    string  `json:"policy"`
	Currency  string  `json:"currency"`
	Breakdown bool    `json:"breakdown"`
	Subtotal  float64 `json:"subtotal"`
	Tax       float64 `json:"tax"`
	Total     float64 `json:"total"`
}

// Draft is the single autosaved slot.
type Draft struct {
	Report  ReportDraft `json:"data"`
	SavedAt time.Time   `json:"timestamp"`
	Version string      `json:"version"`
}

type HistoryEntry struct {
	ID      string      `json:"id"`
	SavedAt time.Time   `json:"saved_at"`
	Report  ReportDraft `json:"report"`
	Totals  Totals      `json:"totals"`
}

// ImagesFor returns the images of a slot that belong to the given equipment.
func (r ReportDraft) ImagesFor(slot, equipmentID string) []Image {
	var out []Image
	for _, img := range r.Images[slot] {
		if img.EquipmentID == "" || img.EquipmentID == equipmentID {
			out = append(out, img)
		}
	}
	return out
}
