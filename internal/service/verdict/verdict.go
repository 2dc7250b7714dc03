// Package verdict picks the conclusion and the recommendations of a report from the
// calibration outcome and the technician's final diagnosis.
package verdict

import (
	"fmt"
	"strings"

	"calibration-report/internal/service/tolerance"
	"calibration-report/internal/storage"
)

const fallbackConclusion = "El equipo ha sido evaluado. Ver detalles en las secciones anteriores."

var baseline = []string{
	"Mantenimiento Preventivo: Realizar limpieza de electrodos después de cada uso con agua destilada.",
	"Almacenamiento: Mantener el electrodo de pH en solución de almacenamiento KCl 3M cuando no esté en uso.",
	"Calibración: Calibrar el equipo antes de cada jornada de mediciones con soluciones buffer certificadas.",
}

const (
	recReplaceElectrode = "ACCIÓN REQUERIDA: Adquirir electrodo de pH " + storage.ElectrodeModelName +
		" nuevo. El electrodo actual no proporciona lecturas dentro del margen de precisión."
	recAuthorizedService = "ACCIÓN CRÍTICA: Enviar equipo a servicio técnico autorizado de Hanna Instruments para diagnóstico y reparación. Posible fallo interno detectado."
	recAvoidEC           = "LIMITACIÓN: Evitar uso del equipo para mediciones de conductividad hasta reparación. El sensor de EC no proporciona lecturas confiables."
)

// Axes are the inputs of the decision table.
type Axes struct {
	PHCalibrationValid bool   `json:"ph_calibration_valid"`
	ECCalibrationValid bool   `json:"ec_calibration_valid"`
	PHFinalStatus      string `json:"ph_final_status,omitempty"`
	ECFinalStatus      string `json:"ec_final_status,omitempty"`
}

// AxesOf validates the calibration-phase readings. A missing reading counts as invalid.
func AxesOf(eq storage.Equipment) Axes {
	return Axes{
		PHCalibrationValid: tolerance.PH701.Check(eq.PH701Calibration).IsWithinRange &&
			tolerance.PH401.Check(eq.PH401Calibration).IsWithinRange,
		ECCalibrationValid: tolerance.EC1288.Check(eq.ECCalibration).IsWithinRange,
		PHFinalStatus:      eq.PHFinalStatus(),
		ECFinalStatus:      eq.ECFinalStatus(),
	}
}

type Verdict struct {
	Case            int      `json:"case"`
	Conclusion      string   `json:"conclusion"`
	Recommendations []string `json:"recommendations"`
}

func Select(eq storage.Equipment) Verdict {
	a := AxesOf(eq)
	n, text := conclude(eq, a)

	return Verdict{
		Case:            n,
		Conclusion:      text,
		Recommendations: Recommendations(a),
	}
}

// conclude walks the decision table top to bottom; the first matching row wins.
func conclude(eq storage.Equipment, a Axes) (int, string) {
	subject := fmt.Sprintf("El equipo %s %s serie %s", eq.Brand, eq.Model, eq.Serial)
	ph, ec := a.PHCalibrationValid, a.ECCalibrationValid

	switch {
	case ph && ec:
		return 1, fmt.Sprintf("%s con electrodo %s serie %s ha sido evaluado y calibrado satisfactoriamente. "+
			"Todas las lecturas de pH y conductividad (EC) están dentro de los márgenes de precisión establecidos (±0.05 pH y ±2%% EC). "+
			"El equipo está listo para su uso en mediciones precisas.",
			subject, storage.ElectrodeModelName, eq.ElectrodeSerial)

	case !ph && a.PHFinalStatus == storage.PHNeedsElectrode:
		return 2, fmt.Sprintf("%s presenta lecturas de pH fuera del margen de precisión (±0.05). "+
			"Se realizó prueba con electrodo patrón confirmando que el problema es del electrodo %s serie %s. "+
			"Se requiere reemplazo del electrodo de pH para obtener mediciones precisas.",
			subject, storage.ElectrodeModelName, eq.ElectrodeSerial)

	case !ph && a.PHFinalStatus == storage.PHInternalFailure:
		return 3, subject + " presenta lecturas de pH fuera del margen de precisión (±0.05). " +
			"Se realizó prueba con electrodo patrón sin resultados satisfactorios, indicando posible fallo interno del equipo. " +
			"No es posible obtener lecturas de pH precisas ni con electrodo nuevo. Se recomienda enviar a servicio técnico autorizado."

	case !ec && a.ECFinalStatus == storage.ECUnresolved:
		s := subject + " presenta lecturas de conductividad (EC) fuera del margen de precisión (±2%). " +
			"Se realizó proceso de acondicionamiento del sensor sin resultados satisfactorios. " +
			"El equipo no logra tomar lecturas de EC correctamente."
		if ph {
			s += " Las mediciones de pH funcionan correctamente."
		}
		return 4, s

	case !ph && !ec:
		return 5, subject + " presenta observaciones tanto en las mediciones de pH como de conductividad (EC). " +
			"Se requiere atención técnica especializada para resolver los problemas detectados."

	case !ph:
		return 6, withStatus(subject+" presenta lecturas de pH fuera del margen de precisión. "+
			"Las mediciones de conductividad (EC) funcionan correctamente.", a.PHFinalStatus)

	case !ec:
		return 7, withStatus(subject+" presenta lecturas de conductividad (EC) fuera del margen de precisión. "+
			"Las mediciones de pH funcionan correctamente.", a.ECFinalStatus)
	}

	return 8, fallbackConclusion
}

func withStatus(s, status string) string {
	status = strings.TrimSpace(status)
	if status == "" {
		return s
	}
	return s + " Estado: " + status
}

// Recommendations always starts with the baseline advice and appends every
// conditional item that applies. Conditions are independent of each other.
func Recommendations(a Axes) []string {
	out := make([]string, len(baseline), len(baseline)+3)
	copy(out, baseline)

	if !a.PHCalibrationValid && a.PHFinalStatus == storage.PHNeedsElectrode {
		out = append(out, recReplaceElectrode)
	}
	if !a.PHCalibrationValid && a.PHFinalStatus == storage.PHInternalFailure {
		out = append(out, recAuthorizedService)
	}
	if !a.ECCalibrationValid && a.ECFinalStatus == storage.ECUnresolved {
		out = append(out, recAvoidEC)
	}

	return out
}

// Overall is the pass/fail summary shown next to each equipment.
type Overall struct {
	Status string   `json:"status"`
	Issues []string `json:"issues,omitempty"`
}

func OverallStatus(a Axes) Overall {
	var issues []string
	if !a.PHCalibrationValid {
		issues = append(issues, "pH fuera de especificación")
	}
	if !a.ECCalibrationValid {
		issues = append(issues, "EC fuera de especificación")
	}

	if len(issues) == 0 {
		return Overall{Status: tolerance.StatusConforme}
	}
	return Overall{Status: tolerance.StatusNoConforme, Issues: issues}
}
