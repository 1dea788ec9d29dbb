package clinic

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service orchestrates the entity graph: it builds entities, keeps the
// bidirectional links consistent through the entities' own sync helpers, and
// owns the appointment scheduling and record import/export flows.
//
// Service is the concurrency boundary for the graph. The entities themselves
// are unsynchronized, so every mutation of an entity's lists or
// back-references runs under mu, and readers that walk entity state use View.
// The registry's own lock only protects its maps; a bidirectional update
// (hospital gains a department, the department gains the back-reference, the
// registry gains the entry) is one critical section here.
type Service struct {
	mu  sync.RWMutex
	reg Registry
	log zerolog.Logger
}

func NewService(reg Registry, logger zerolog.Logger) *Service {
	return &Service{reg: reg, log: logger}
}

// View runs fn while holding the graph read lock. Callers mapping entities
// into responses use it so a concurrent mutation never produces a torn read
// of an entity's lists or back-references. fn must not call back into the
// service.
func (s *Service) View(fn func()) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn()
}

// -- Hospital --

func (s *Service) RegisterHospital(ctx context.Context, cfg HospitalConfig) (*Hospital, error) {
	h, err := NewHospital(cfg)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	err = s.reg.PutHospital(h)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("hospital", h.Name()).Msg("hospital registered")
	return h, nil
}

func (s *Service) Hospital(ctx context.Context, id uuid.UUID) (*Hospital, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reg.Hospital(id)
}

func (s *Service) ListHospitals(ctx context.Context) []*Hospital {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reg.Hospitals()
}

// -- Department / Room --

func (s *Service) CreateDepartment(ctx context.Context, hospitalID uuid.UUID, name string, specialty Specialty) (*Department, error) {
	d, err := NewDepartment(name, specialty)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	h, err := s.reg.Hospital(hospitalID)
	if err != nil {
		return nil, err
	}
	h.AddDepartment(d)
	if err := s.reg.PutDepartment(d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) Department(ctx context.Context, id uuid.UUID) (*Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reg.Department(id)
}

func (s *Service) ListDepartments(ctx context.Context) []*Department {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reg.Departments()
}

// CreateRoom creates a room inside the department. Room numbers stay unique
// across the whole registry so appointment records can reference rooms by
// number alone; the duplicate check and the attach run in one critical
// section, so a failed create leaves the department untouched.
func (s *Service) CreateRoom(ctx context.Context, departmentID uuid.UUID, number, kind string) (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.reg.Department(departmentID)
	if err != nil {
		return nil, err
	}
	if _, err := s.reg.RoomByNumber(number); err == nil {
		return nil, fmt.Errorf("room number %s: %w", number, ErrDuplicate)
	}
	room, err := d.CreateRoom(number, kind)
	if err != nil {
		return nil, err
	}
	if err := s.reg.PutRoom(room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *Service) ListRooms(ctx context.Context) []*Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reg.Rooms()
}

// -- Doctor / Patient --

// HireDoctor constructs a doctor and assigns them to the department. The
// assignment fails, and the doctor is not kept, when the specialties differ
// or the national ID is already registered; a failed hire leaves the
// department's list and the doctor's back-reference unchanged.
func (s *Service) HireDoctor(ctx context.Context, departmentID uuid.UUID, cfg DoctorConfig) (*Doctor, error) {
	doc, err := NewDoctor(cfg)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	dept, err := s.reg.Department(departmentID)
	if err != nil {
		return nil, err
	}
	if _, err := s.reg.DoctorByNationalID(doc.NationalID()); err == nil {
		return nil, fmt.Errorf("doctor national ID %s: %w", doc.NationalID(), ErrDuplicate)
	}
	if err := dept.AddDoctor(doc); err != nil {
		return nil, err
	}
	if err := s.reg.PutDoctor(doc); err != nil {
		return nil, err
	}
	s.log.Info().Str("doctor", doc.FullName()).Str("department", dept.Name()).Msg("doctor hired")
	return doc, nil
}

func (s *Service) DoctorByNationalID(ctx context.Context, nationalID string) (*Doctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reg.DoctorByNationalID(nationalID)
}

func (s *Service) ListDoctors(ctx context.Context) []*Doctor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reg.Doctors()
}

// AdmitPatient constructs a patient, stores them and admits them to the
// hospital. The registry put runs first so a duplicate national ID fails
// before the hospital's list is touched.
func (s *Service) AdmitPatient(ctx context.Context, hospitalID uuid.UUID, cfg PatientConfig) (*Patient, error) {
	p, err := NewPatient(cfg)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	h, err := s.reg.Hospital(hospitalID)
	if err != nil {
		return nil, err
	}
	if err := s.reg.PutPatient(p); err != nil {
		return nil, err
	}
	h.AddPatient(p)
	s.log.Info().Str("patient", p.FullName()).Str("hospital", h.Name()).Msg("patient admitted")
	return p, nil
}

// TransferPatient moves the patient to another hospital; the old hospital's
// list and the patient's back-reference change together.
func (s *Service) TransferPatient(ctx context.Context, patientID, hospitalID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.reg.Patient(patientID)
	if err != nil {
		return err
	}
	h, err := s.reg.Hospital(hospitalID)
	if err != nil {
		return err
	}
	p.SetHospital(h)
	return nil
}

func (s *Service) PatientByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reg.Patient(id)
}

func (s *Service) PatientByNationalID(ctx context.Context, nationalID string) (*Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reg.PatientByNationalID(nationalID)
}

func (s *Service) ListPatients(ctx context.Context) []*Patient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reg.Patients()
}

// -- Medical record --

func (s *Service) AddDiagnosis(ctx context.Context, patientID uuid.UUID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.reg.Patient(patientID)
	if err != nil {
		return err
	}
	p.Record().AddDiagnosis(text)
	return nil
}

func (s *Service) AddTreatment(ctx context.Context, patientID uuid.UUID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.reg.Patient(patientID)
	if err != nil {
		return err
	}
	p.Record().AddTreatment(text)
	return nil
}

func (s *Service) AddAllergy(ctx context.Context, patientID uuid.UUID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.reg.Patient(patientID)
	if err != nil {
		return err
	}
	p.Record().AddAllergy(text)
	return nil
}

// -- Scheduling --

// ScheduleRequest references the participants by the same natural keys the
// record format uses.
type ScheduleRequest struct {
	PatientNationalID string
	DoctorNationalID  string
	RoomNumber        string
	Time              time.Time
	Cost              float64
	Notes             string
}

// ScheduleAppointment books a new appointment. Unlike bare construction it
// applies the full scheduling rules: the slot must be in the future, the
// cost strictly positive and the doctor's specialty must match the room's
// department. Registration into the patient, doctor and room lists is atomic.
func (s *Service) ScheduleAppointment(ctx context.Context, req ScheduleRequest) (*Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	patient, err := s.reg.PatientByNationalID(req.PatientNationalID)
	if err != nil {
		return nil, err
	}
	doctor, err := s.reg.DoctorByNationalID(req.DoctorNationalID)
	if err != nil {
		return nil, err
	}
	room, err := s.reg.RoomByNumber(req.RoomNumber)
	if err != nil {
		return nil, err
	}
	if err := validateSchedulable(doctor, room, req.Time, req.Cost); err != nil {
		return nil, err
	}
	a, err := NewAppointment(AppointmentConfig{
		Patient: patient,
		Doctor:  doctor,
		Room:    room,
		Time:    req.Time,
		Cost:    req.Cost,
		Notes:   req.Notes,
	})
	if err != nil {
		return nil, err
	}
	if err := s.reg.PutAppointment(a); err != nil {
		return nil, err
	}
	s.log.Info().
		Str("patient", patient.NationalID()).
		Str("doctor", doctor.NationalID()).
		Str("room", room.Number()).
		Time("at", req.Time).
		Msg("appointment scheduled")
	return a, nil
}

func (s *Service) Appointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reg.Appointment(id)
}

func (s *Service) ListAppointments(ctx context.Context) []*Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reg.Appointments()
}

func (s *Service) UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, status AppointmentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, err := s.reg.Appointment(id)
	if err != nil {
		return err
	}
	return a.SetStatus(status)
}

func (s *Service) AnnotateAppointment(ctx context.Context, id uuid.UUID, notes string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, err := s.reg.Appointment(id)
	if err != nil {
		return err
	}
	a.SetNotes(notes)
	return nil
}

// -- Record import / export --

// ImportAppointments reads newline-delimited appointment records, decodes
// each against the current registry and registers the results. The first bad
// line aborts the import; its line number is part of the error. Returns the
// number of appointments imported.
func (s *Service) ImportAppointments(ctx context.Context, r io.Reader) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	patients := s.reg.PatientIndex()
	doctors := s.reg.DoctorIndex()
	rooms := s.reg.RoomIndex()

	count := 0
	lineNo := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		a, err := UnmarshalRecord(line, patients, doctors, rooms)
		if err != nil {
			return count, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if err := s.reg.PutAppointment(a); err != nil {
			return count, fmt.Errorf("line %d: %w", lineNo, err)
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return count, err
	}
	s.log.Info().Int("count", count).Msg("appointments imported")
	return count, nil
}

// ExportAppointments writes every registered appointment as one record per
// line, in insertion order. Returns the number of records written. The read
// lock is held for the whole export so the stream is a consistent snapshot.
func (s *Service) ExportAppointments(ctx context.Context, w io.Writer) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, a := range s.reg.Appointments() {
		if _, err := io.WriteString(w, a.MarshalRecord()+"\n"); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
