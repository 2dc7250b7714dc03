// Package report assembles a draft into a finished technical report and renders it
// as an HTML preview, a PDF or an XLSX workbook.
package report

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"calibration-report/internal/lib/numeric"
	"calibration-report/internal/service/budget"
	"calibration-report/internal/service/images"
	"calibration-report/internal/service/narrative"
	"calibration-report/internal/service/tolerance"
	"calibration-report/internal/service/verdict"
	"calibration-report/internal/storage"
)

// NotAvailable is printed wherever a value was not entered.
const NotAvailable = "N/A"

// Reading is one row of a readings table.
type Reading struct {
	Label     string `json:"label"`
	Expected  string `json:"expected"`
	Value     string `json:"value"`
	Range     string `json:"range"`
	Status    string `json:"status"`
	Valid     bool   `json:"valid"`
	// Deviation is only set for relative bands, as a percentage of the target.
	Deviation string `json:"deviation,omitempty"`
}

type Photo struct {
	Slot    string        `json:"slot"`
	Caption string        `json:"caption"`
	Image   storage.Image `json:"image"`
}

// Analysis is everything the report says about one equipment.
type Analysis struct {
	Number    int                 `json:"number"`
	Label     string              `json:"label"`
	Equipment storage.Equipment   `json:"equipment"`
	Initial   []Reading           `json:"initial"`
	Calibrate []Reading           `json:"calibration"`
	Patron    []Reading           `json:"patron,omitempty"`
	Narrative narrative.Narrative `json:"narrative"`
	Axes      verdict.Axes        `json:"axes"`
	Verdict   verdict.Verdict     `json:"verdict"`
	Overall   verdict.Overall     `json:"overall"`
	Photos    []Photo             `json:"photos,omitempty"`
}

type Document struct {
	ReportNumber string         `json:"report_number"`
	ReportDate   string         `json:"report_date"`
	Technician   string         `json:"technician"`
	Client       storage.Client `json:"client"`
	Warranty     bool           `json:"warranty"`
	Equipments   []Analysis     `json:"equipments"`
	Budget       []budget.Line  `json:"budget"`
	Totals       storage.Totals `json:"totals"`
	TaxLabel     string         `json:"tax_label,omitempty"`
	Photos       []Photo        `json:"photos,omitempty"`
}

// ItemLabel is the heading of the n-th equipment, "ITEM 01" for the first.
func ItemLabel(n int) string {
	return fmt.Sprintf("ITEM %02d", n)
}

// Analyze validates, narrates and concludes one equipment.
func Analyze(number int, eq storage.Equipment) Analysis {
	a := Analysis{
		Number:    number,
		Label:     ItemLabel(number),
		Equipment: eq,
		Initial: []Reading{
			reading("pH 7.01", tolerance.PH701, eq.PH701Initial),
			reading("pH 4.01", tolerance.PH401, eq.PH401Initial),
			reading("EC 12.88 mS/cm", tolerance.EC1288, eq.ECInitial),
		},
		Calibrate: []Reading{
			reading("pH 7.01", tolerance.PH701, eq.PH701Calibration),
			reading("pH 4.01", tolerance.PH401, eq.PH401Calibration),
			reading("EC 12.88 mS/cm", tolerance.EC1288, eq.ECCalibration),
		},
		Narrative: narrative.Generate(eq),
		Axes:      verdict.AxesOf(eq),
		Verdict:   verdict.Select(eq),
	}
	a.Overall = verdict.OverallStatus(a.Axes)

	if ts := eq.Troubleshooting; ts != nil && ts.PatronTested {
		a.Patron = []Reading{
			reading("pH 7.01", tolerance.PH701, ts.PH701Patron),
			reading("pH 4.01", tolerance.PH401, ts.PH401Patron),
		}
	}

	return a
}

func reading(label string, band tolerance.Band, v numeric.Value) Reading {
	res := band.Check(v)
	r := Reading{
		Label:    label,
		Expected: fmt.Sprintf("%.2f %s", band.Target, band.MarginLabel()),
		Value:    v.String(),
		Range:    res.Range(),
		Status:   res.Status(),
		Valid:    res.IsWithinRange,
	}
	if r.Value == "" {
		r.Value = NotAvailable
	}
	if band.Relative && v.Present() {
		r.Deviation = fmt.Sprintf("%.2f%%", res.DeviationPercent())
	}
	return r
}

type Assembler struct {
	agg *budget.Aggregator
}

func NewAssembler(agg *budget.Aggregator) *Assembler {
	return &Assembler{agg: agg}
}

// Assemble builds the document for a draft. Equipments are analyzed concurrently
// and keep their draft order.
func (a *Assembler) Assemble(ctx context.Context, draft storage.ReportDraft) (*Document, error) {
	const op = "report.Assemble"

	analyses := make([]Analysis, len(draft.Equipments))

	g, ctx := errgroup.WithContext(ctx)
	for i, eq := range draft.Equipments {
		i, eq := i, eq
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			an := Analyze(i+1, eq)
			an.Photos = photosFor(draft, eq.ID)
			analyses[i] = an
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items := budget.Collect(draft.BudgetItems)
	totals := a.agg.Aggregate(items, draft.Currency)

	doc := &Document{
		ReportNumber: draft.ReportNumber,
		ReportDate:   draft.ReportDate,
		Technician:   draft.Technician,
		Client:       draft.Client,
		Warranty:     draft.Warranty,
		Equipments:   analyses,
		Budget:       budget.Number(items),
		Totals:       totals,
		Photos:       photosFor(draft, ""),
	}
	if totals.Breakdown {
		doc.TaxLabel = a.agg.TaxLabel()
	}

	return doc, nil
}

// photosFor collects photos in slot order. An empty equipmentID selects the photos
// that are not tied to any equipment.
func photosFor(draft storage.ReportDraft, equipmentID string) []Photo {
	var out []Photo
	for _, slot := range images.Slots() {
		for _, img := range draft.Images[slot] {
			if img.EquipmentID != equipmentID {
				continue
			}
			out = append(out, Photo{Slot: slot, Caption: images.Label(slot), Image: img})
		}
	}
	return out
}

// Money formats an amount in the document's currency.
func (d *Document) Money(amount float64) string {
	return budget.Format(amount, d.Totals.Currency)
}
