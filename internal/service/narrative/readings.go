package narrative

import (
	"calibration-report/internal/service/tolerance"
	"calibration-report/internal/storage"
)

// InitialReadings describes the readings taken before any cleaning or calibration.
func InitialReadings(eq storage.Equipment) string {
	var p paragraph

	p.add(initialPH(eq))

	if eq.ECInitial.Present() {
		ec := tolerance.EC1288.Check(eq.ECInitial)
		if ec.IsWithinRange {
			p.addf("La lectura inicial de conductividad (EC) en la solución estándar de 12.88 mS/cm fue de %s mS/cm, dentro del rango aceptable (%s mS/cm).",
				eq.ECInitial, ec.Range())
		} else {
			p.addf("La lectura inicial de conductividad (EC) en la solución estándar de 12.88 mS/cm fue de %s mS/cm, fuera del rango aceptable (%s mS/cm).",
				eq.ECInitial, ec.Range())
		}
	}

	if eq.TemperatureReading.Present() {
		p.addf("La temperatura registrada durante las pruebas fue de %s °C.", eq.TemperatureReading)
	}

	return p.String()
}

func initialPH(eq storage.Equipment) string {
	if !eq.PH701Initial.Present() || !eq.PH401Initial.Present() {
		return ""
	}

	ok701 := tolerance.PH701.Check(eq.PH701Initial).IsWithinRange
	ok401 := tolerance.PH401.Check(eq.PH401Initial).IsWithinRange
	a, b := eq.PH701Initial.String(), eq.PH401Initial.String()

	switch {
	case ok701 && ok401:
		return "En la inspección inicial, las lecturas de pH se encontraron dentro del margen de precisión (±0.05): " +
			a + " en la solución buffer 7.01 y " + b + " en la solución buffer 4.01."
	case !ok701 && !ok401:
		return "En la inspección inicial, las lecturas de pH se encontraron fuera del margen de precisión (±0.05): " +
			a + " en la solución buffer 7.01 y " + b + " en la solución buffer 4.01."
	case !ok701:
		return "En la inspección inicial, la lectura de pH en la solución buffer 7.01 (" + a +
			") se encontró fuera del margen de precisión (±0.05), mientras que la lectura en la solución buffer 4.01 (" +
			b + ") se encontró dentro del margen."
	default:
		return "En la inspección inicial, la lectura de pH en la solución buffer 4.01 (" + b +
			") se encontró fuera del margen de precisión (±0.05), mientras que la lectura en la solución buffer 7.01 (" +
			a + ") se encontró dentro del margen."
	}
}
