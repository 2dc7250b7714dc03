// Package images validates uploaded photos and files them under the report's
// fixed slot names.
package images

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"calibration-report/internal/storage"
)

var (
	ErrNotImage    = errors.New("file is not an image")
	ErrTooLarge    = errors.New("image exceeds size limit")
	ErrLimit       = errors.New("image count limit reached")
	ErrUnknownSlot = errors.New("unknown image slot")
	ErrBadData     = errors.New("malformed image data")
)

const (
	SlotEquipmentIntake    = "equipment_intake"
	SlotPH701Initial       = "ph_7_01_initial"
	SlotPH401Initial       = "ph_4_01_initial"
	SlotEC1288Initial      = "ec_12_88_initial"
	SlotCalibrationPH701   = "calibration_ph_7_01"
	SlotCalibrationPH401   = "calibration_ph_4_01"
	SlotCalibrationEC1288  = "calibration_ec_12_88"
	SlotECPostConditioning = "ec_post_conditioning"
	SlotPatronElectrode    = "patron_electrode"
)

var slots = []struct {
	name, label string
}{
	{SlotEquipmentIntake, "Estado de ingreso del equipo"},
	{SlotPH701Initial, "Lectura inicial pH 7.01"},
	{SlotPH401Initial, "Lectura inicial pH 4.01"},
	{SlotEC1288Initial, "Lectura inicial EC 12.88 mS/cm"},
	{SlotCalibrationPH701, "Calibración pH 7.01"},
	{SlotCalibrationPH401, "Calibración pH 4.01"},
	{SlotCalibrationEC1288, "Calibración EC 12.88 mS/cm"},
	{SlotECPostConditioning, "EC después del acondicionamiento"},
	{SlotPatronElectrode, "Prueba con electrodo patrón"},
}

// Slots lists the slot names in report order.
func Slots() []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.name
	}
	return out
}

func ValidSlot(name string) bool {
	return Label(name) != ""
}

// Label is the caption printed under photos of the slot.
func Label(name string) string {
	for _, s := range slots {
		if s.name == name {
			return s.label
		}
	}
	return ""
}

type Limits struct {
	MaxBytes int64
	MaxCount int
}

// Upload is one file from a multi-file selection.
type Upload struct {
	FileName    string
	EquipmentID string
	Data        []byte
}

type Failure struct {
	FileName string `json:"file_name"`
	Err      error  `json:"-"`
}

type Store struct {
	limits Limits
	now    func() time.Time
}

func NewStore(limits Limits) *Store {
	return &Store{limits: limits, now: time.Now}
}

func (s *Store) Limits() Limits {
	return s.limits
}

// Encode checks size and content type and returns the image as a data URL.
func (s *Store) Encode(u Upload) (storage.Image, error) {
	const op = "images.Encode"

	if s.limits.MaxBytes > 0 && int64(len(u.Data)) > s.limits.MaxBytes {
		return storage.Image{}, fmt.Errorf("%s: %s: %w", op, u.FileName, ErrTooLarge)
	}

	mime := mimetype.Detect(u.Data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return storage.Image{}, fmt.Errorf("%s: %s is %s: %w", op, u.FileName, mime.String(), ErrNotImage)
	}

	return storage.Image{
		ID:          uuid.NewString(),
		EquipmentID: u.EquipmentID,
		Data:        "data:" + mime.String() + ";base64," + base64.StdEncoding.EncodeToString(u.Data),
		FileName:    u.FileName,
		Timestamp:   s.now(),
	}, nil
}

// Add files every upload of a batch under slot. A file that fails is recorded and
// skipped; the rest of the batch is still processed.
func (s *Store) Add(set map[string][]storage.Image, slot string, batch []Upload) ([]storage.Image, []Failure, error) {
	const op = "images.Add"

	if !ValidSlot(slot) {
		return nil, nil, fmt.Errorf("%s: %q: %w", op, slot, ErrUnknownSlot)
	}

	var (
		added    []storage.Image
		failures []Failure
		total    = Count(set)
	)

	for _, u := range batch {
		if s.limits.MaxCount > 0 && total >= s.limits.MaxCount {
			failures = append(failures, Failure{FileName: u.FileName, Err: ErrLimit})
			continue
		}

		img, err := s.Encode(u)
		if err != nil {
			failures = append(failures, Failure{FileName: u.FileName, Err: err})
			continue
		}

		set[slot] = append(set[slot], img)
		added = append(added, img)
		total++
	}

	return added, failures, nil
}

// Remove deletes the image with the given id from slot.
func Remove(set map[string][]storage.Image, slot, id string) bool {
	list := set[slot]
	for i := range list {
		if list[i].ID == id {
			set[slot] = append(list[:i], list[i+1:]...)
			if len(set[slot]) == 0 {
				delete(set, slot)
			}
			return true
		}
	}
	return false
}

// RemoveEquipment drops every image tied to the equipment.
func RemoveEquipment(set map[string][]storage.Image, equipmentID string) {
	for slot, list := range set {
		kept := list[:0]
		for _, img := range list {
			if img.EquipmentID != equipmentID {
				kept = append(kept, img)
			}
		}
		if len(kept) == 0 {
			delete(set, slot)
			continue
		}
		set[slot] = kept
	}
}

func Count(set map[string][]storage.Image) int {
	n := 0
	for _, list := range set {
		n += len(list)
	}
	return n
}

// Decode splits a stored data URL into its content type and bytes.
func Decode(img storage.Image) (string, []byte, error) {
	const op = "images.Decode"

	rest, ok := strings.CutPrefix(img.Data, "data:")
	if !ok {
		return "", nil, fmt.Errorf("%s: %w", op, ErrBadData)
	}
	mime, payload, ok := strings.Cut(rest, ";base64,")
	if !ok {
		return "", nil, fmt.Errorf("%s: %w", op, ErrBadData)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	return mime, data, nil
}
