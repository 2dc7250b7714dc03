// Package narrative turns an equipment record into the prose of the technical report.
// Every generator is a pure function of its input: the same record always yields the
// same text.
package narrative

import (
	"fmt"
	"strings"

	"calibration-report/internal/storage"
)

var screenSentences = map[string]string{
	storage.ScreenScratched:  "La pantalla presenta rayaduras.",
	storage.ScreenBroken:     "La pantalla se encuentra rota.",
	storage.ScreenNotWorking: "La pantalla no funciona.",
}

var buttonSentences = map[string]string{
	storage.ButtonsSomeFail: "Algunos botones del equipo no responden.",
	storage.ButtonsNoneWork: "Ninguno de los botones del equipo funciona.",
}

var electrodeSentences = map[string]string{
	storage.ElectrodeDirty:        "El electrodo de pH se encuentra sucio, con restos de impureza.",
	storage.ElectrodeBroken:       "El electrodo de pH se encuentra roto.",
	storage.ElectrodeNeedsReplace: "El electrodo de pH requiere reemplazo.",
}

var ecSensorSentences = map[string]string{
	storage.ECSensorDirty:   "El sensor de EC se encuentra sucio.",
	storage.ECSensorDamaged: "El sensor de EC se encuentra dañado.",
}

// Intake describes the state the equipment arrived in. Condition fields are only
// mentioned when they deviate from their nominal value.
func Intake(eq storage.Equipment) string {
	var p paragraph

	p.add(identity(eq))

	if eq.PowerOn != nil {
		switch {
		case !*eq.PowerOn:
			p.add("El equipo no enciende al momento del ingreso.")
		case eq.BatteryLevel != "":
			p.addf("El equipo enciende correctamente y presenta un nivel de batería %s.", strings.ToLower(eq.BatteryLevel))
		default:
			p.add("El equipo enciende correctamente.")
		}
	}

	p.add(deviation(eq.ScreenStatus, storage.ScreenGood, screenSentences, "La pantalla presenta la condición: %s."))
	p.add(deviation(eq.ButtonsStatus, storage.ButtonsAllWork, buttonSentences, "Los botones presentan la condición: %s."))
	p.add(deviation(eq.PHElectrodeStatus, storage.ElectrodeGood, electrodeSentences, "El electrodo de pH presenta la condición: %s."))
	p.add(deviation(eq.ECSensorStatus, storage.ECSensorGood, ecSensorSentences, "El sensor de EC presenta la condición: %s."))

	if eq.StorageSolution != nil {
		if *eq.StorageSolution {
			p.add("El electrodo de pH se encontraba hidratado con solución de almacenamiento al momento del ingreso.")
		} else {
			p.add("El electrodo de pH no se encontraba hidratado con solución de almacenamiento al momento del ingreso.")
		}
	}

	switch eq.TempSensorStatus {
	case storage.TempSensorConforme:
		p.add("El sensor de temperatura se encuentra conforme.")
	case storage.TempSensorNoConforme:
		p.add("El sensor de temperatura no se encuentra conforme.")
	}

	return p.String()
}

func identity(eq storage.Equipment) string {
	name := strings.TrimSpace(eq.Brand + " " + eq.Model)
	if name == "" && eq.Serial == "" {
		return ""
	}

	var b strings.Builder
	b.WriteString("Se recibió el equipo")
	if name != "" {
		b.WriteString(" " + name)
	}
	if eq.Serial != "" {
		fmt.Fprintf(&b, " con número de serie %s", eq.Serial)
	}
	if eq.ElectrodeSerial != "" {
		fmt.Fprintf(&b, " y electrodo %s serie %s", storage.ElectrodeModelName, eq.ElectrodeSerial)
	}
	b.WriteString(".")

	return b.String()
}

// deviation returns the sentence for a non-nominal condition, or "" for the nominal
// value and for fields left empty.
func deviation(value, nominal string, known map[string]string, fallback string) string {
	if value == "" || value == nominal {
		return ""
	}
	if s, ok := known[value]; ok {
		return s
	}
	return fmt.Sprintf(fallback, value)
}
