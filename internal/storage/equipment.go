package storage

import "calibration-report/internal/lib/numeric"

// Condition values as the technician selects them in the intake form.
const (
	BatteryHigh   = "Alto (>70%)"
	BatteryMedium = "Medio (30-70%)"
	BatteryLow    = "Bajo (<30%)"
	BatteryEmpty  = "Descargado"

	ScreenGood       = "Bueno"
	ScreenScratched  = "Rayado"
	ScreenBroken     = "Roto"
	ScreenNotWorking = "No funciona"

	ButtonsAllWork  = "Todos funcionan"
	ButtonsSomeFail = "Algunos no responden"
	ButtonsNoneWork = "Ninguno funciona"

	ElectrodeGood         = "Bueno"
	ElectrodeDirty        = "Sucio"
	ElectrodeBroken       = "Roto"
	ElectrodeNeedsReplace = "Requiere reemplazo"

	ECSensorGood    = "Bueno"
	ECSensorDirty   = "Sucio"
	ECSensorDamaged = "Dañado"

	TempSensorConforme   = "Conforme"
	TempSensorNoConforme = "No conforme"
)

// Final diagnostic statuses recorded after troubleshooting.
const (
	PHResolved         = "Resuelto"
	PHNeedsElectrode   = "Requiere electrodo nuevo"
	PHInternalFailure  = "Fallo interno"
	PHUnresolved       = "No resuelto"
	ECResolved         = "Resuelto"
	ECUnresolved       = "No resuelto"
	ElectrodeModelName = "HI73127"
)

// Equipment is one meter under test, as filled in by the technician.
type Equipment struct {
	ID string `json:"id"`

	Brand           string `json:"brand"`
	Model           string `json:"model"`
	Serial          string `json:"serial"`
	ElectrodeSerial string `json:"electrode_serial"`

	PowerOn           *bool  `json:"power_on,omitempty"`
	BatteryLevel      string `json:"battery_level,omitempty"`
	ScreenStatus      string `json:"screen_status,omitempty"`
	ButtonsStatus     string `json:"buttons_status,omitempty"`
	PHElectrodeStatus string `json:"ph_electrode_status,omitempty"`
	ECSensorStatus    string `json:"ec_sensor_status,omitempty"`
	TempSensorStatus  string `json:"temp_sensor_status,omitempty"`
	StorageSolution   *bool  `json:"storage_solution,omitempty"`

	PH701Initial       numeric.Value `json:"ph701_initial"`
	PH401Initial       numeric.Value `json:"ph401_initial"`
	ECInitial          numeric.Value `json:"ec_initial"`
	TemperatureReading numeric.Value `json:"temperature_reading"`

	CleaningDone           bool `json:"cleaning_done"`
	StorageSolutionApplied bool `json:"storage_solution_applied"`

	PH701Calibration numeric.Value `json:"ph701_calibration"`
	PH401Calibration numeric.Value `json:"ph401_calibration"`
	ECCalibration    numeric.Value `json:"ec_calibration"`

	Troubleshooting *Troubleshooting `json:"troubleshooting,omitempty"`
}

// Troubleshooting holds the optional steps taken when calibration fails.
type Troubleshooting struct {
	ECConditioningDone bool          `json:"ec_conditioning_done"`
	ECPostConditioning numeric.Value `json:"ec_post_conditioning"`
	ECFinalStatus      string        `json:"ec_final_status,omitempty"`

	JuntaAdjusted   bool   `json:"junta_adjusted"`
	PostJuntaStatus string `json:"post_junta_status,omitempty"`

	PatronTested  bool          `json:"patron_tested"`
	PH701Patron   numeric.Value `json:"ph701_patron"`
	PH401Patron   numeric.Value `json:"ph401_patron"`
	PHFinalStatus string        `json:"ph_final_status,omitempty"`
}

// PHFinalStatus returns the recorded pH diagnosis or "" when no troubleshooting was done.
func (e Equipment) PHFinalStatus() string {
	if e.Troubleshooting == nil {
		return ""
	}
	return e.Troubleshooting.PHFinalStatus
}

func (e Equipment) ECFinalStatus() string {
	if e.Troubleshooting == nil {
		return ""
	}
	return e.Troubleshooting.ECFinalStatus
}

// IsPHFinalStatus reports whether s belongs to the closed pH diagnosis set.
func IsPHFinalStatus(s string) bool {
	switch s {
	case PHResolved, PHNeedsElectrode, PHInternalFailure, PHUnresolved:
		return true
	}
	return false
}

func IsECFinalStatus(s string) bool {
	return s == ECResolved || s == ECUnresolved
}
