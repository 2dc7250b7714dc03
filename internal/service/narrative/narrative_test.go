package narrative

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calibration-report/internal/lib/numeric"
	"calibration-report/internal/storage"
)

func ptr(b bool) *bool { return &b }

func passingEquipment() storage.Equipment {
	return storage.Equipment{
		ID:                "eq-1",
		Brand:             "Hanna",
		Model:             "HI98130",
		Serial:            "A123",
		ElectrodeSerial:   "E456",
		PowerOn:           ptr(true),
		BatteryLevel:      storage.BatteryHigh,
		ScreenStatus:      storage.ScreenGood,
		ButtonsStatus:     storage.ButtonsAllWork,
		PHElectrodeStatus: storage.ElectrodeGood,
		ECSensorStatus:    storage.ECSensorGood,
		TempSensorStatus:  storage.TempSensorConforme,
		StorageSolution:   ptr(true),

		PH701Initial:       numeric.Of(7.03),
		PH401Initial:       numeric.Of(4.02),
		ECInitial:          numeric.Of(12.85),
		TemperatureReading: numeric.Of(24.5),

		CleaningDone:     true,
		PH701Calibration: numeric.Of(7.00),
		PH401Calibration: numeric.Of(4.01),
		ECCalibration:    numeric.Of(12.88),
	}
}

func TestIntake_NominalConditionsAreNotNarrated(t *testing.T) {
	got := Intake(passingEquipment())

	assert.Equal(t,
		"Se recibió el equipo Hanna HI98130 con número de serie A123 y electrodo HI73127 serie E456. "+
			"El equipo enciende correctamente y presenta un nivel de batería alto (>70%). "+
			"El electrodo de pH se encontraba hidratado con solución de almacenamiento al momento del ingreso. "+
			"El sensor de temperatura se encuentra conforme.",
		got)
	assert.NotContains(t, got, "pantalla")
	assert.NotContains(t, got, "botones")
}

func TestIntake_Deviations(t *testing.T) {
	eq := passingEquipment()
	eq.PowerOn = ptr(false)
	eq.ScreenStatus = storage.ScreenScratched
	eq.ButtonsStatus = storage.ButtonsSomeFail
	eq.PHElectrodeStatus = storage.ElectrodeBroken
	eq.ECSensorStatus = storage.ECSensorDamaged
	eq.StorageSolution = ptr(false)
	eq.TempSensorStatus = storage.TempSensorNoConforme

	got := Intake(eq)

	order := []string{
		"Se recibió el equipo",
		"El equipo no enciende al momento del ingreso.",
		"La pantalla presenta rayaduras.",
		"Algunos botones del equipo no responden.",
		"El electrodo de pH se encuentra roto.",
		"El sensor de EC se encuentra dañado.",
		"no se encontraba hidratado",
		"El sensor de temperatura no se encuentra conforme.",
	}
	assertInOrder(t, got, order)
	assert.NotContains(t, got, "batería")
}

func TestIntake_UnknownConditionFallsBack(t *testing.T) {
	eq := storage.Equipment{Brand: "Hanna", ScreenStatus: "Opaca"}
	assert.Equal(t, "Se recibió el equipo Hanna. La pantalla presenta la condición: Opaca.", Intake(eq))
}

func TestIntake_OmitsUnansweredFields(t *testing.T) {
	assert.Equal(t, "", Intake(storage.Equipment{}))
}

func TestInitialReadings_FourCases(t *testing.T) {
	tests := []struct {
		name     string
		ph7, ph4 float64
		contains string
	}{
		{"both in", 7.03, 4.02, "las lecturas de pH se encontraron dentro del margen de precisión (±0.05): 7.03 en la solución buffer 7.01 y 4.02"},
		{"both out", 7.30, 4.50, "las lecturas de pH se encontraron fuera del margen de precisión (±0.05): 7.30 en la solución buffer 7.01 y 4.50"},
		{"7.01 out", 7.30, 4.02, "la lectura de pH en la solución buffer 7.01 (7.30) se encontró fuera del margen de precisión (±0.05), mientras que la lectura en la solución buffer 4.01 (4.02)"},
		{"4.01 out", 7.03, 4.50, "la lectura de pH en la solución buffer 4.01 (4.50) se encontró fuera del margen de precisión (±0.05), mientras que la lectura en la solución buffer 7.01 (7.03)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eq := passingEquipment()
			eq.PH701Initial = numeric.Of(tt.ph7)
			eq.PH401Initial = numeric.Of(tt.ph4)
			assert.Contains(t, InitialReadings(eq), tt.contains)
		})
	}
}

func TestInitialReadings_ECAndTemperature(t *testing.T) {
	eq := passingEquipment()
	got := InitialReadings(eq)
	assert.Contains(t, got, "fue de 12.85 mS/cm, dentro del rango aceptable (12.62 - 13.14 mS/cm).")
	assert.True(t, strings.HasSuffix(got, "La temperatura registrada durante las pruebas fue de 24.50 °C."))

	eq.ECInitial = numeric.Of(14)
	eq.TemperatureReading = numeric.Missing()
	got = InitialReadings(eq)
	assert.Contains(t, got, "fue de 14.00 mS/cm, fuera del rango aceptable (12.62 - 13.14 mS/cm).")
	assert.NotContains(t, got, "temperatura")
}

func TestInitialReadings_MissingPHOmitsSentence(t *testing.T) {
	eq := passingEquipment()
	eq.PH401Initial = numeric.Parse("")
	assert.NotContains(t, InitialReadings(eq), "pH")
}

func TestCalibration(t *testing.T) {
	eq := passingEquipment()
	got := Calibration(eq)
	assert.True(t, strings.HasPrefix(got, cleaningSentence))
	assert.Contains(t, got, "logró calibrar correctamente en los puntos de 7.01 pH (7.00) y 4.01 pH (4.01).")
	assert.Contains(t, got, "La calibración de conductividad (EC) fue satisfactoria, con una lectura de 12.88 mS/cm")

	eq.CleaningDone = false
	eq.PH401Calibration = numeric.Of(4.30)
	eq.ECCalibration = numeric.Of(12.00)
	got = Calibration(eq)
	assert.False(t, strings.HasPrefix(got, cleaningSentence))
	assert.Contains(t, got, "solo logró calibrar en el punto de 7.01 pH (7.00); la lectura en el punto de 4.01 pH (4.30) quedó fuera del margen de precisión, lo que indica un posible problema en el electrodo.")
	assert.Contains(t, got, "no fue satisfactoria: la lectura de 12.00 mS/cm se encuentra fuera del rango aceptable (12.62 - 13.14 mS/cm).")

	eq.PH701Calibration = numeric.Of(7.5)
	eq.PH401Calibration = numeric.Of(4.01)
	assert.Contains(t, Calibration(eq), "solo logró calibrar en el punto de 4.01 pH (4.01); la lectura en el punto de 7.01 pH (7.50)")

	eq.PH401Calibration = numeric.Of(3.5)
	assert.Contains(t, Calibration(eq), "no logró calibrar en ninguno de los puntos de pH")
}

func TestCalibration_MissingPHOmitsSentence(t *testing.T) {
	eq := passingEquipment()
	eq.PH401Calibration = numeric.Missing()

	got := Calibration(eq)
	assert.NotContains(t, got, "pH (")
	assert.NotContains(t, got, "posible problema en el electrodo")
	assert.Contains(t, got, "La calibración de conductividad (EC) fue satisfactoria")

	eq = passingEquipment()
	eq.PH701Calibration = numeric.Missing()
	assert.NotContains(t, Calibration(eq), "solo logró calibrar")
}

func TestTroubleshooting(t *testing.T) {
	eq := passingEquipment()
	assert.Empty(t, Troubleshooting(eq))

	eq.Troubleshooting = &storage.Troubleshooting{
		ECConditioningDone: true,
		ECPostConditioning: numeric.Of(13.9),
		ECFinalStatus:      storage.ECUnresolved,
		PatronTested:       true,
		PH701Patron:        numeric.Of(7.02),
		PH401Patron:        numeric.Of(4.00),
		JuntaAdjusted:      true,
		PostJuntaStatus:    "Sin mejora.",
	}

	got := Troubleshooting(eq)
	paragraphs := strings.Split(got, "\n\n")
	require.Len(t, paragraphs, 3)
	assert.Contains(t, paragraphs[0], "lectura fue de 13.90 mS/cm, fuera del rango aceptable.")
	assert.Contains(t, paragraphs[0], "no logra tomar lecturas confiables")
	assert.Contains(t, paragraphs[1], "se confirma que el electrodo de pH requiere reemplazo")
	assert.Equal(t, "Se realizó el ajuste de la junta de tela del electrodo de pH. Resultado: Sin mejora.", paragraphs[2])
}

func TestTroubleshooting_PatronBranches(t *testing.T) {
	eq := storage.Equipment{Troubleshooting: &storage.Troubleshooting{
		PatronTested: true,
		PH701Patron:  numeric.Of(7.01),
		PH401Patron:  numeric.Of(4.40),
	}}
	assert.Contains(t, Troubleshooting(eq), "posible fallo interno del equipo")

	eq.Troubleshooting.PH701Patron = numeric.Missing()
	assert.Contains(t, Troubleshooting(eq), "requiere servicio técnico especializado")
}

func TestComments_BothStylesCarrySameFacts(t *testing.T) {
	eq := passingEquipment()

	flat := Comments(eq)
	labeled := ComprehensiveComments(eq)

	sections := Sections(eq)
	require.Len(t, sections, 3)
	for _, s := range sections {
		assert.Contains(t, flat, s.Body)
		assert.Contains(t, labeled, "**"+s.Title+":** "+s.Body)
	}
	assert.NotContains(t, flat, "**")
	assert.Equal(t, strings.Count(flat, "\n\n"), strings.Count(labeled, "\n\n"))
}

func TestGenerate_Idempotent(t *testing.T) {
	eq := passingEquipment()
	eq.Troubleshooting = &storage.Troubleshooting{ECConditioningDone: true, ECFinalStatus: storage.ECResolved}

	assert.Equal(t, Generate(eq), Generate(eq))
	assert.Equal(t, ComprehensiveComments(eq), ComprehensiveComments(eq))
}

func assertInOrder(t *testing.T, s string, parts []string) {
	t.Helper()
	pos := 0
	for _, p := range parts {
		idx := strings.Index(s[pos:], p)
		if !assert.GreaterOrEqual(t, idx, 0, "missing or out of order: %q", p) {
			return
		}
		pos += idx + len(p)
	}
}
