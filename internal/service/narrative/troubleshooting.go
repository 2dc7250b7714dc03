package narrative

import (
	"strings"

	"calibration-report/internal/service/tolerance"
	"calibration-report/internal/storage"
)

// Troubleshooting describes EC conditioning, the reference ("patrón") electrode test
// and the cloth junction adjustment. Each part appears only if it was carried out.
func Troubleshooting(eq storage.Equipment) string {
	ts := eq.Troubleshooting
	if ts == nil {
		return ""
	}

	return joinParagraphs(conditioning(ts), patronTest(ts), junta(ts))
}

func conditioning(ts *storage.Troubleshooting) string {
	if !ts.ECConditioningDone {
		return ""
	}

	var p paragraph
	p.add("Se realizó el acondicionamiento del sensor de EC, dejándolo sumergido en solución de calibración durante 1 hora.")

	if ts.ECPostConditioning.Present() {
		if tolerance.EC1288.Check(ts.ECPostConditioning).IsWithinRange {
			p.addf("Después del acondicionamiento, la lectura fue de %s mS/cm, dentro del rango aceptable.", ts.ECPostConditioning)
		} else {
			p.addf("Después del acondicionamiento, la lectura fue de %s mS/cm, fuera del rango aceptable.", ts.ECPostConditioning)
		}
	}

	switch ts.ECFinalStatus {
	case storage.ECResolved:
		p.add("Con el acondicionamiento se corrigió la desviación y el equipo logró lecturas correctas de EC.")
	case storage.ECUnresolved:
		p.add("El acondicionamiento no corrigió la desviación; el sensor de EC no logra tomar lecturas confiables.")
	}

	return p.String()
}

func patronTest(ts *storage.Troubleshooting) string {
	if !ts.PatronTested {
		return ""
	}

	ok701 := tolerance.PH701.Check(ts.PH701Patron).IsWithinRange
	ok401 := tolerance.PH401.Check(ts.PH401Patron).IsWithinRange

	var p paragraph
	p.add("Posteriormente, se realizó la calibración con un electrodo patrón de pH.")

	switch {
	case ok701 && ok401:
		p.addf("Con el electrodo patrón, el equipo logró calibrar en los puntos de 7.01 pH (%s) y 4.01 pH (%s), por lo que se confirma que el electrodo de pH requiere reemplazo.",
			ts.PH701Patron, ts.PH401Patron)
	case ok701:
		p.addf("Con el electrodo patrón, el equipo solo logró calibrar en el punto de 7.01 pH (%s), lo que indica un posible fallo interno del equipo.",
			ts.PH701Patron)
	case ok401:
		p.addf("Con el electrodo patrón, el equipo solo logró calibrar en el punto de 4.01 pH (%s), lo que indica un posible fallo interno del equipo.",
			ts.PH401Patron)
	default:
		p.add("El equipo no logra calibrar incluso con el electrodo patrón, por lo que requiere servicio técnico especializado.")
	}

	return p.String()
}

func junta(ts *storage.Troubleshooting) string {
	if !ts.JuntaAdjusted {
		return ""
	}

	var p paragraph
	p.add("Se realizó el ajuste de la junta de tela del electrodo de pH.")
	if ts.PostJuntaStatus != "" {
		p.addf("Resultado: %s.", strings.TrimRight(strings.TrimSpace(ts.PostJuntaStatus), "."))
	}
	return p.String()
}
