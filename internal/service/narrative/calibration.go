package narrative

import (
	"calibration-report/internal/service/tolerance"
	"calibration-report/internal/storage"
)

const cleaningSentence = "Se realizó el proceso de limpieza del electrodo de pH con solución de limpieza."

// Calibration describes the cleaning and the calibration outcome at both pH points and for EC.
func Calibration(eq storage.Equipment) string {
	var p paragraph

	if eq.CleaningDone {
		p.add(cleaningSentence)
	}

	p.add(calibrationPH(eq))

	if eq.ECCalibration.Present() {
		ec := tolerance.EC1288.Check(eq.ECCalibration)
		if ec.IsWithinRange {
			p.addf("La calibración de conductividad (EC) fue satisfactoria, con una lectura de %s mS/cm en la solución estándar de 12.88 mS/cm.",
				eq.ECCalibration)
		} else {
			p.addf("La calibración de conductividad (EC) no fue satisfactoria: la lectura de %s mS/cm se encuentra fuera del rango aceptable (%s mS/cm).",
				eq.ECCalibration, ec.Range())
		}
	}

	return p.String()
}

func calibrationPH(eq storage.Equipment) string {
	if !eq.PH701Calibration.Present() || !eq.PH401Calibration.Present() {
		return ""
	}

	ok701 := tolerance.PH701.Check(eq.PH701Calibration).IsWithinRange
	ok401 := tolerance.PH401.Check(eq.PH401Calibration).IsWithinRange
	a, b := eq.PH701Calibration.String(), eq.PH401Calibration.String()

	switch {
	case ok701 && ok401:
		return "Después de la limpieza y calibración, el equipo logró calibrar correctamente en los puntos de 7.01 pH (" +
			a + ") y 4.01 pH (" + b + ")."
	case ok701:
		return "Después de la limpieza y calibración, el equipo solo logró calibrar en el punto de 7.01 pH (" + a +
			"); la lectura en el punto de 4.01 pH (" + b + ") quedó fuera del margen de precisión, lo que indica un posible problema en el electrodo."
	case ok401:
		return "Después de la limpieza y calibración, el equipo solo logró calibrar en el punto de 4.01 pH (" + b +
			"); la lectura en el punto de 7.01 pH (" + a + ") quedó fuera del margen de precisión, lo que indica un posible problema en el electrodo."
	default:
		return "Después de la limpieza y calibración, el equipo no logró calibrar en ninguno de los puntos de pH (7.01 y 4.01)."
	}
}
