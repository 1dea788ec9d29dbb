package clinic

import "fmt"

// Doctor is a practitioner assigned to at most one department at a time.
type Doctor struct {
	Person
	license      LicenseNumber
	specialty    Specialty
	department   *Department
	appointments []*Appointment
}

// DoctorConfig holds the fields for constructing a Doctor.
type DoctorConfig struct {
	PersonConfig
	License   string
	Specialty Specialty
}

// NewDoctor validates cfg and returns a new unassigned doctor.
func NewDoctor(cfg DoctorConfig) (*Doctor, error) {
	person, err := newPerson(cfg.PersonConfig)
	if err != nil {
		return nil, err
	}
	license, err := NewLicenseNumber(cfg.License)
	if err != nil {
		return nil, err
	}
	if cfg.Specialty == "" {
		return nil, fmt.Errorf("specialty: %w", ErrRequired)
	}
	if !cfg.Specialty.Valid() {
		return nil, fmt.Errorf("specialty %q: %w", cfg.Specialty, ErrFormat)
	}
	return &Doctor{
		Person:    person,
		license:   license,
		specialty: cfg.Specialty,
	}, nil
}

func (d *Doctor) License() LicenseNumber { return d.license }
func (d *Doctor) Specialty() Specialty   { return d.specialty }

// Department returns the department the doctor is assigned to, or nil.
func (d *Doctor) Department() *Department { return d.department }

// setDepartment updates only this side of the relationship; Department.
// AddDoctor is the public entry point that keeps both sides in sync.
func (d *Doctor) setDepartment(dept *Department) {
	d.department = dept
}

// addAppointment appends a to the doctor's list, skipping nil and entries
// already present.
func (d *Doctor) addAppointment(a *Appointment) {
	if a == nil || containsAppointment(d.appointments, a) {
		return
	}
	d.appointments = append(d.appointments, a)
}

// Appointments returns a copy of the doctor's appointment list.
func (d *Doctor) Appointments() []*Appointment {
	out := make([]*Appointment, len(d.appointments))
	copy(out, d.appointments)
	return out
}

func containsAppointment(list []*Appointment, a *Appointment) bool {
	for _, existing := range list {
		if existing == a {
			return true
		}
	}
	return false
}
