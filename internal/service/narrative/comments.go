package narrative

import (
	"strings"

	"calibration-report/internal/storage"
)

// Section is one titled block of the comments.
type Section struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Style selects how comments are laid out.
type Style int

const (
	// StyleFlat is a plain sequence of paragraphs.
	StyleFlat Style = iota
	// StyleLabeled starts every section with a bold lead-in.
	StyleLabeled
)

// Sections gathers the non-empty narrative blocks in report order.
func Sections(eq storage.Equipment) []Section {
	all := []Section{
		{Title: "Estado de ingreso", Body: Intake(eq)},
		{Title: "Lecturas iniciales", Body: InitialReadings(eq)},
		{Title: "Limpieza y calibración", Body: Calibration(eq)},
		{Title: "Solución de problemas", Body: Troubleshooting(eq)},
	}

	out := all[:0]
	for _, s := range all {
		if s.Body != "" {
			out = append(out, s)
		}
	}
	return out
}

// Render lays sections out in the given style. Both styles carry the same facts.
func Render(sections []Section, style Style) string {
	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		if style == StyleLabeled {
			parts = append(parts, "**"+s.Title+":** "+s.Body)
			continue
		}
		parts = append(parts, s.Body)
	}
	return strings.Join(parts, "\n\n")
}

// Comments is the flat rendering.
func Comments(eq storage.Equipment) string {
	return Render(Sections(eq), StyleFlat)
}

// ComprehensiveComments is the labeled rendering.
func ComprehensiveComments(eq storage.Equipment) string {
	return Render(Sections(eq), StyleLabeled)
}

// Narrative bundles every generator's output for one equipment.
type Narrative struct {
	Intake                string    `json:"intake"`
	InitialReadings       string    `json:"initial_readings"`
	Calibration           string    `json:"calibration"`
	Troubleshooting       string    `json:"troubleshooting"`
	Comments              string    `json:"comments"`
	ComprehensiveComments string    `json:"comprehensive_comments"`
	Sections              []Section `json:"sections"`
}

func Generate(eq storage.Equipment) Narrative {
	sections := Sections(eq)
	return Narrative{
		Intake:                Intake(eq),
		InitialReadings:       InitialReadings(eq),
		Calibration:           Calibration(eq),
		Troubleshooting:       Troubleshooting(eq),
		Comments:              Render(sections, StyleFlat),
		ComprehensiveComments: Render(sections, StyleLabeled),
		Sections:              sections,
	}
}
