package clinic

import "github.com/google/uuid"

// Registry is the arena holding every loaded entity. The surrounding
// persistence layer populates it with already-validated graphs; the domain
// only reads and links entities through it.
//
// PutAppointment must be atomic: once it returns, the appointment appears in
// the patient, doctor and room lists and in the registry, and no observer
// sees any intermediate state.
type Registry interface {
	PutHospital(h *Hospital) error
	Hospital(id uuid.UUID) (*Hospital, error)
	Hospitals() []*Hospital

	PutDepartment(d *Department) error
	Department(id uuid.UUID) (*Department, error)
	Departments() []*Department

	PutRoom(r *Room) error
	Room(id uuid.UUID) (*Room, error)
	RoomByNumber(number string) (*Room, error)
	Rooms() []*Room

	PutDoctor(d *Doctor) error
	Doctor(id uuid.UUID) (*Doctor, error)
	DoctorByNationalID(nationalID string) (*Doctor, error)
	Doctors() []*Doctor

	PutPatient(p *Patient) error
	Patient(id uuid.UUID) (*Patient, error)
	PatientByNationalID(nationalID string) (*Patient, error)
	Patients() []*Patient

	PutAppointment(a *Appointment) error
	Appointment(id uuid.UUID) (*Appointment, error)
	Appointments() []*Appointment

	// Lookup maps keyed the way the appointment record format references
	// entities. The returned maps are snapshots; mutating them does not
	// affect the registry.
	PatientIndex() map[string]*Patient
	DoctorIndex() map[string]*Doctor
	RoomIndex() map[string]*Room
}
