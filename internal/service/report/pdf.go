package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"calibration-report/internal/service/images"
)

const (
	pdfMargin     = 15.0
	pdfLineHeight = 5.0
	pdfPhotoWidth = 55.0
)

var pdfImageTypes = map[string]string{
	"image/jpeg": "JPG",
	"image/png":  "PNG",
	"image/gif":  "GIF",
}

type pdfWriter struct {
	pdf   *fpdf.Fpdf
	tr    func(string) string
	width float64
}

// PDF renders the document on A4 pages with a page counter in the footer.
func PDF(doc *Document) ([]byte, error) {
	const op = "report.PDF"

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AliasNbPages("")
	pdf.SetTitle("Informe Técnico "+doc.ReportNumber, true)

	pageW, _ := pdf.GetPageSize()
	w := &pdfWriter{
		pdf:   pdf,
		tr:    pdf.UnicodeTranslatorFromDescriptor(""),
		width: pageW - 2*pdfMargin,
	}

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 6, w.tr(fmt.Sprintf("Página %d de {nb}", pdf.PageNo())), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	w.header(doc)
	w.client(doc)
	for i := range doc.Equipments {
		w.equipment(&doc.Equipments[i])
	}
	w.budget(doc)
	if len(doc.Photos) > 0 {
		w.section("Anexo fotográfico")
		w.photos(doc.Photos)
	}
	w.signature(doc.Technician)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return buf.Bytes(), nil
}

func (w *pdfWriter) header(doc *Document) {
	p := w.pdf
	p.SetFont("Helvetica", "B", 16)
	p.SetTextColor(33, 97, 140)
	p.CellFormat(0, 8, w.tr("INFORME TÉCNICO N° "+orNA(doc.ReportNumber)), "", 1, "C", false, 0, "")
	p.SetFont("Helvetica", "", 10)
	p.SetTextColor(0, 0, 0)
	p.CellFormat(0, 6, w.tr("Fecha: "+orNA(doc.ReportDate)), "", 1, "C", false, 0, "")
	if doc.Warranty {
		p.CellFormat(0, 6, w.tr("Servicio en garantía"), "", 1, "C", false, 0, "")
	}
	p.Ln(4)
}

func (w *pdfWriter) section(title string) {
	p := w.pdf
	p.Ln(2)
	p.SetFillColor(33, 97, 140)
	p.SetTextColor(255, 255, 255)
	p.SetFont("Helvetica", "B", 11)
	p.CellFormat(0, 7, w.tr(" "+title), "", 1, "L", true, 0, "")
	p.SetTextColor(0, 0, 0)
	p.Ln(2)
}

func (w *pdfWriter) subsection(title string) {
	p := w.pdf
	p.SetFont("Helvetica", "B", 10)
	p.SetTextColor(33, 97, 140)
	p.CellFormat(0, 6, w.tr(title), "B", 1, "L", false, 0, "")
	p.SetTextColor(0, 0, 0)
	p.Ln(1)
}

func (w *pdfWriter) field(label, value string) {
	p := w.pdf
	p.SetFont("Helvetica", "B", 9)
	p.CellFormat(40, pdfLineHeight, w.tr(label+":"), "", 0, "L", false, 0, "")
	p.SetFont("Helvetica", "", 9)
	p.MultiCell(0, pdfLineHeight, w.tr(orNA(value)), "", "L", false)
}

func (w *pdfWriter) text(s string) {
	w.pdf.SetFont("Helvetica", "", 9)
	for _, para := range paragraphs(s) {
		w.pdf.MultiCell(0, pdfLineHeight, w.tr(para), "", "J", false)
		w.pdf.Ln(1)
	}
}

func (w *pdfWriter) client(doc *Document) {
	c := doc.Client
	w.section("1. Datos del Cliente")
	w.field("Razón Social", c.BusinessName)
	docType := c.DocumentType
	if docType == "" {
		docType = "RUC"
	}
	w.field(docType, c.DocumentNumber)
	w.field("Dirección", c.Address)
	w.field("Contacto", c.ContactName)
	w.field("Teléfono", c.Phone)
	w.field("Correo", c.Email)
}

func (w *pdfWriter) equipment(a *Analysis) {
	eq := a.Equipment
	w.section(fmt.Sprintf("%s: %s %s", a.Label, eq.Brand, eq.Model))
	w.field("Serie", eq.Serial)
	w.field("Electrodo HI73127", eq.ElectrodeSerial)
	status := a.Overall.Status
	if len(a.Overall.Issues) > 0 {
		status += " (" + strings.Join(a.Overall.Issues, ", ") + ")"
	}
	w.field("Estado general", status)
	w.pdf.Ln(2)

	w.subsection("Lecturas iniciales")
	w.readings(a.Initial)
	w.subsection("Calibración")
	w.readings(a.Calibrate)
	if len(a.Patron) > 0 {
		w.subsection("Prueba con electrodo patrón")
		w.readings(a.Patron)
	}

	w.subsection("Comentarios técnicos")
	for _, s := range a.Narrative.Sections {
		w.pdf.SetFont("Helvetica", "B", 9)
		w.pdf.CellFormat(0, pdfLineHeight, w.tr(s.Title+":"), "", 1, "L", false, 0, "")
		w.text(s.Body)
	}

	if len(a.Photos) > 0 {
		w.subsection("Registro fotográfico")
		w.photos(a.Photos)
	}

	w.subsection("Conclusiones")
	w.text(a.Verdict.Conclusion)

	w.subsection("Recomendaciones")
	w.pdf.SetFont("Helvetica", "", 9)
	for _, r := range a.Verdict.Recommendations {
		w.pdf.SetX(pdfMargin + 2)
		w.pdf.MultiCell(w.width-2, pdfLineHeight, w.tr("- "+r), "", "L", false)
	}
}

func (w *pdfWriter) readings(rows []Reading) {
	p := w.pdf
	cols := []float64{35, 35, 30, 45, w.width - 145}

	p.SetFont("Helvetica", "B", 8)
	p.SetFillColor(234, 241, 247)
	for i, h := range []string{"Solución", "Valor esperado", "Lectura", "Rango aceptable", "Estado"} {
		p.CellFormat(cols[i], 6, w.tr(h), "1", 0, "C", true, 0, "")
	}
	p.Ln(-1)

	p.SetFont("Helvetica", "", 8)
	for _, r := range rows {
		for i, v := range []string{r.Label, r.Expected, r.Value, r.Range} {
			p.CellFormat(cols[i], 6, w.tr(v), "1", 0, "C", false, 0, "")
		}
		if r.Valid {
			p.SetTextColor(30, 126, 52)
		} else {
			p.SetTextColor(192, 57, 43)
		}
		p.CellFormat(cols[4], 6, w.tr(r.Status), "1", 1, "C", false, 0, "")
		p.SetTextColor(0, 0, 0)
	}
	p.Ln(2)
}

func (w *pdfWriter) budget(doc *Document) {
	if len(doc.Budget) == 0 {
		return
	}

	p := w.pdf
	w.section("Presupuesto")
	cols := []float64{12, w.width - 112, 25, 35, 40}

	p.SetFont("Helvetica", "B", 8)
	p.SetFillColor(234, 241, 247)
	for i, h := range []string{"N°", "Descripción", "Cantidad", "Precio", "Subtotal"} {
		p.CellFormat(cols[i], 6, w.tr(h), "1", 0, "C", true, 0, "")
	}
	p.Ln(-1)

	p.SetFont("Helvetica", "", 8)
	for _, l := range doc.Budget {
		p.CellFormat(cols[0], 6, fmt.Sprint(l.Number), "1", 0, "C", false, 0, "")
		p.CellFormat(cols[1], 6, w.tr(l.Description), "1", 0, "L", false, 0, "")
		p.CellFormat(cols[2], 6, quantity(l.Quantity), "1", 0, "R", false, 0, "")
		p.CellFormat(cols[3], 6, w.tr(doc.Money(l.Price.Or(0))), "1", 0, "R", false, 0, "")
		p.CellFormat(cols[4], 6, w.tr(doc.Money(l.Subtotal)), "1", 1, "R", false, 0, "")
	}

	labelW := w.width - cols[4]
	total := func(label string, amount float64, style string) {
		p.SetFont("Helvetica", style, 9)
		p.CellFormat(labelW, 6, w.tr(label), "1", 0, "R", false, 0, "")
		p.CellFormat(cols[4], 6, w.tr(doc.Money(amount)), "1", 1, "R", false, 0, "")
	}
	if doc.Totals.Breakdown {
		total("Subtotal", doc.Totals.Subtotal, "")
		total(doc.TaxLabel, doc.Totals.Tax, "")
	}
	total("TOTAL", doc.Totals.Total, "B")
}

// photos lays images out three per row. Unreadable images are left out.
func (w *pdfWriter) photos(list []Photo) {
	p := w.pdf
	_, pageH := p.GetPageSize()
	x := pdfMargin
	rowH := 0.0

	for _, ph := range list {
		mime, data, err := images.Decode(ph.Image)
		if err != nil {
			continue
		}
		kind, ok := pdfImageTypes[mime]
		if !ok {
			continue
		}

		opts := fpdf.ImageOptions{ImageType: kind}
		info := p.RegisterImageOptionsReader(ph.Image.ID, opts, bytes.NewReader(data))
		if !p.Ok() || info == nil {
			p.ClearError()
			continue
		}
		h := pdfPhotoWidth * info.Height() / info.Width()

		if x+pdfPhotoWidth > pdfMargin+w.width+0.1 {
			p.SetY(p.GetY() + rowH + 8)
			x, rowH = pdfMargin, 0
		}
		if p.GetY()+h+8 > pageH-20 {
			p.AddPage()
			x, rowH = pdfMargin, 0
		}

		y := p.GetY()
		p.ImageOptions(ph.Image.ID, x, y, pdfPhotoWidth, h, false, opts, 0, "")
		p.SetXY(x, y+h+1)
		p.SetFont("Helvetica", "", 7)
		p.CellFormat(pdfPhotoWidth, 4, w.tr(ph.Caption), "", 0, "C", false, 0, "")
		p.SetY(y)

		x += pdfPhotoWidth + 5
		if h > rowH {
			rowH = h
		}
	}

	if rowH > 0 {
		p.SetY(p.GetY() + rowH + 8)
	}
}

func (w *pdfWriter) signature(technician string) {
	p := w.pdf
	pageW, _ := p.GetPageSize()
	p.Ln(25)
	y := p.GetY()
	p.SetLineWidth(0.5)
	p.Line(pageW/2-40, y, pageW/2+40, y)
	p.Ln(2)
	p.SetFont("Helvetica", "B", 10)
	name := technician
	if name == "" {
		name = "Técnico Responsable"
	}
	p.CellFormat(0, 5, w.tr(name), "", 1, "C", false, 0, "")
	p.SetFont("Helvetica", "", 9)
	p.CellFormat(0, 5, w.tr("Técnico Responsable"), "", 1, "C", false, 0, "")
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	return s
}
