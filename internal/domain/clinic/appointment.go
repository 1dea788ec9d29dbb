package clinic

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Appointment is a scheduled encounter between a patient and a doctor in a
// specific room. It is shared by the patient, doctor and room aggregates;
// registration into all three lists happens atomically through the registry.
//
// Construction checks only local invariants (required fields, non-negative
// cost). Cross-entity consistency — future timestamp, positive cost, doctor
// specialty matching the room's department — is enforced on the scheduling
// and record-import paths, which must reject anything that would not have
// been accepted as a freshly scheduled appointment.
type Appointment struct {
	id      uuid.UUID
	patient *Patient
	doctor  *Doctor
	room    *Room
	time    time.Time
	cost    float64
	status  AppointmentStatus
	notes   string
}

// AppointmentConfig holds the fields for constructing an Appointment.
// Status defaults to StatusScheduled and Notes to the empty string.
type AppointmentConfig struct {
	Patient *Patient
	Doctor  *Doctor
	Room    *Room
	Time    time.Time
	Cost    float64
	Status  AppointmentStatus
	Notes   string
}

// NewAppointment validates cfg and returns a new unregistered appointment.
func NewAppointment(cfg AppointmentConfig) (*Appointment, error) {
	if cfg.Patient == nil {
		return nil, fmt.Errorf("patient: %w", ErrRequired)
	}
	if cfg.Doctor == nil {
		return nil, fmt.Errorf("doctor: %w", ErrRequired)
	}
	if cfg.Room == nil {
		return nil, fmt.Errorf("room: %w", ErrRequired)
	}
	if cfg.Time.IsZero() {
		return nil, fmt.Errorf("appointment time: %w", ErrRequired)
	}
	if cfg.Cost < 0 {
		return nil, fmt.Errorf("cost %v must not be negative: %w", cfg.Cost, ErrDomainRule)
	}
	status := cfg.Status
	if status == "" {
		status = StatusScheduled
	}
	if !status.Valid() {
		return nil, fmt.Errorf("appointment status %q: %w", status, ErrFormat)
	}
	return &Appointment{
		id:      uuid.New(),
		patient: cfg.Patient,
		doctor:  cfg.Doctor,
		room:    cfg.Room,
		time:    cfg.Time,
		cost:    cfg.Cost,
		status:  status,
		notes:   cfg.Notes,
	}, nil
}

func (a *Appointment) ID() uuid.UUID             { return a.id }
func (a *Appointment) Patient() *Patient         { return a.patient }
func (a *Appointment) Doctor() *Doctor           { return a.doctor }
func (a *Appointment) Room() *Room               { return a.room }
func (a *Appointment) Time() time.Time           { return a.time }
func (a *Appointment) Cost() float64             { return a.cost }
func (a *Appointment) Status() AppointmentStatus { return a.status }
func (a *Appointment) Notes() string             { return a.notes }

// SetStatus replaces the status. Any known status may follow any other; only
// unknown values are rejected.
func (a *Appointment) SetStatus(status AppointmentStatus) error {
	if status == "" {
		return fmt.Errorf("appointment status: %w", ErrRequired)
	}
	if !status.Valid() {
		return fmt.Errorf("appointment status %q: %w", status, ErrFormat)
	}
	a.status = status
	return nil
}

// SetNotes replaces the notes. Notes are never nil-like; the stored value is
// whatever the caller passes, including the empty string.
func (a *Appointment) SetNotes(notes string) {
	a.notes = notes
}

// Equal compares by the natural key: same patient, same doctor, same
// instant. Room, cost, status and notes do not participate.
func (a *Appointment) Equal(other *Appointment) bool {
	if other == nil {
		return false
	}
	return a.patient == other.patient && a.doctor == other.doctor && a.time.Equal(other.time)
}

// register links a into the patient, doctor and room appointment lists. Each
// append is idempotent. Callers hold the registry lock so no reader observes
// a partially registered appointment.
func (a *Appointment) register() {
	a.patient.addAppointment(a)
	a.doctor.addAppointment(a)
	a.room.addAppointment(a)
}

// validateSchedulable applies the stricter rules shared by the scheduling
// service and the record importer: the slot must be in the future, the cost
// strictly positive, and the doctor's specialty must match the department of
// the room.
func validateSchedulable(doc *Doctor, room *Room, at time.Time, cost float64) error {
	if at.Before(time.Now()) {
		return fmt.Errorf("appointment time %s is in the past: %w", at.Format(recordTimeLayout), ErrDomainRule)
	}
	if cost <= 0 {
		return fmt.Errorf("cost %v must be greater than zero: %w", cost, ErrDomainRule)
	}
	if doc.Specialty() != room.Department().Specialty() {
		return fmt.Errorf("doctor specialty %s does not match department specialty %s: %w",
			doc.Specialty(), room.Department().Specialty(), ErrDomainRule)
	}
	return nil
}
