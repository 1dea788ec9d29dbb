package clinic

import "fmt"

// BloodType is the closed set of ABO/Rh blood groups.
type BloodType string

const (
	BloodONeg  BloodType = "O_NEG"
	BloodOPos  BloodType = "O_POS"
	BloodANeg  BloodType = "A_NEG"
	BloodAPos  BloodType = "A_POS"
	BloodBNeg  BloodType = "B_NEG"
	BloodBPos  BloodType = "B_POS"
	BloodABNeg BloodType = "AB_NEG"
	BloodABPos BloodType = "AB_POS"
)

var bloodTypes = map[BloodType]bool{
	BloodONeg: true, BloodOPos: true, BloodANeg: true, BloodAPos: true,
	BloodBNeg: true, BloodBPos: true, BloodABNeg: true, BloodABPos: true,
}

// Valid reports whether b is one of the known blood groups.
func (b BloodType) Valid() bool { return bloodTypes[b] }

// ParseBloodType converts a stored token into a BloodType.
func ParseBloodType(s string) (BloodType, error) {
	b := BloodType(s)
	if !b.Valid() {
		return "", fmt.Errorf("blood type %q: %w", s, ErrFormat)
	}
	return b, nil
}

// Specialty is the closed set of medical specialties shared by departments
// and doctors; compatibility between the two is checked on assignment.
type Specialty string

const (
	SpecialtyGeneralMedicine Specialty = "GENERAL_MEDICINE"
	SpecialtyCardiology      Specialty = "CARDIOLOGY"
	SpecialtyNeurology       Specialty = "NEUROLOGY"
	SpecialtyPediatrics      Specialty = "PEDIATRICS"
	SpecialtyTraumatology    Specialty = "TRAUMATOLOGY"
	SpecialtyDermatology     Specialty = "DERMATOLOGY"
	SpecialtyGynecology      Specialty = "GYNECOLOGY"
	SpecialtyOncology        Specialty = "ONCOLOGY"
)

var specialties = map[Specialty]bool{
	SpecialtyGeneralMedicine: true, SpecialtyCardiology: true,
	SpecialtyNeurology: true, SpecialtyPediatrics: true,
	SpecialtyTraumatology: true, SpecialtyDermatology: true,
	SpecialtyGynecology: true, SpecialtyOncology: true,
}

// Valid reports whether s is one of the known specialties.
func (s Specialty) Valid() bool { return specialties[s] }

// ParseSpecialty converts a stored token into a Specialty.
func ParseSpecialty(raw string) (Specialty, error) {
	s := Specialty(raw)
	if !s.Valid() {
		return "", fmt.Errorf("specialty %q: %w", raw, ErrFormat)
	}
	return s, nil
}

// AppointmentStatus is the closed set of appointment states. StatusScheduled
// is the initial state; any status may move to any other via SetStatus (the
// domain imposes no transition table).
type AppointmentStatus string

const (
	StatusScheduled  AppointmentStatus = "SCHEDULED"
	StatusInProgress AppointmentStatus = "IN_PROGRESS"
	StatusCompleted  AppointmentStatus = "COMPLETED"
	StatusCancelled  AppointmentStatus = "CANCELLED"
	StatusNoShow     AppointmentStatus = "NO_SHOW"
)

var appointmentStatuses = map[AppointmentStatus]bool{
	StatusScheduled: true, StatusInProgress: true, StatusCompleted: true,
	StatusCancelled: true, StatusNoShow: true,
}

// Valid reports whether st is one of the known statuses.
func (st AppointmentStatus) Valid() bool { return appointmentStatuses[st] }

// ParseAppointmentStatus converts a stored token into an AppointmentStatus.
func ParseAppointmentStatus(raw string) (AppointmentStatus, error) {
	st := AppointmentStatus(raw)
	if !st.Valid() {
		return "", fmt.Errorf("appointment status %q: %w", raw, ErrFormat)
	}
	return st, nil
}

// LicenseNumber is a doctor's professional registration number.
type LicenseNumber struct {
	value string
}

// NewLicenseNumber validates and wraps a license number.
func NewLicenseNumber(value string) (LicenseNumber, error) {
	v, err := requireText("license number", value)
	if err != nil {
		return LicenseNumber{}, err
	}
	return LicenseNumber{value: v}, nil
}

func (l LicenseNumber) String() string { return l.value }

// IsZero reports whether l carries no value.
func (l LicenseNumber) IsZero() bool { return l.value == "" }
