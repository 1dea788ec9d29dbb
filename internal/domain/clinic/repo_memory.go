package clinic

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemoryRegistry is the in-process Registry implementation. A single mutex
// guards every map, which also gives PutAppointment its atomicity: the
// three-way registration happens entirely inside one critical section. The
// entities' own lists and back-references are guarded one level up, by the
// Service's graph lock.
//
// Doctors and patients are additionally indexed by national ID and rooms by
// number, because those are the keys the record format uses. Room numbers
// are kept globally unique here so a record's room field resolves to exactly
// one room.
type MemoryRegistry struct {
	mu sync.RWMutex

	hospitals    map[uuid.UUID]*Hospital
	departments  map[uuid.UUID]*Department
	rooms        map[uuid.UUID]*Room
	doctors      map[uuid.UUID]*Doctor
	patients     map[uuid.UUID]*Patient
	appointments map[uuid.UUID]*Appointment

	roomsByNumber   map[string]*Room
	doctorsByNatID  map[string]*Doctor
	patientsByNatID map[string]*Patient
	insertionOrder  []uuid.UUID // appointment ordering for stable export
	hospitalOrder   []uuid.UUID
	departmentOrder []uuid.UUID
	roomOrder       []uuid.UUID
	doctorOrder     []uuid.UUID
	patientOrder    []uuid.UUID
}

// NewMemoryRegistry returns an empty registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		hospitals:       make(map[uuid.UUID]*Hospital),
		departments:     make(map[uuid.UUID]*Department),
		rooms:           make(map[uuid.UUID]*Room),
		doctors:         make(map[uuid.UUID]*Doctor),
		patients:        make(map[uuid.UUID]*Patient),
		appointments:    make(map[uuid.UUID]*Appointment),
		roomsByNumber:   make(map[string]*Room),
		doctorsByNatID:  make(map[string]*Doctor),
		patientsByNatID: make(map[string]*Patient),
	}
}

func (m *MemoryRegistry) PutHospital(h *Hospital) error {
	if h == nil {
		return fmt.Errorf("hospital: %w", ErrRequired)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.hospitals[h.ID()]; ok {
		return fmt.Errorf("hospital %s: %w", h.ID(), ErrDuplicate)
	}
	m.hospitals[h.ID()] = h
	m.hospitalOrder = append(m.hospitalOrder, h.ID())
	return nil
}

func (m *MemoryRegistry) Hospital(id uuid.UUID) (*Hospital, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.hospitals[id]
	if !ok {
		return nil, fmt.Errorf("hospital %s: %w", id, ErrNotFound)
	}
	return h, nil
}

func (m *MemoryRegistry) Hospitals() []*Hospital {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Hospital, 0, len(m.hospitalOrder))
	for _, id := range m.hospitalOrder {
		out = append(out, m.hospitals[id])
	}
	return out
}

func (m *MemoryRegistry) PutDepartment(d *Department) error {
	if d == nil {
		return fmt.Errorf("department: %w", ErrRequired)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.departments[d.ID()]; ok {
		return fmt.Errorf("department %s: %w", d.ID(), ErrDuplicate)
	}
	m.departments[d.ID()] = d
	m.departmentOrder = append(m.departmentOrder, d.ID())
	return nil
}

func (m *MemoryRegistry) Department(id uuid.UUID) (*Department, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.departments[id]
	if !ok {
		return nil, fmt.Errorf("department %s: %w", id, ErrNotFound)
	}
	return d, nil
}

func (m *MemoryRegistry) Departments() []*Department {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Department, 0, len(m.departmentOrder))
	for _, id := range m.departmentOrder {
		out = append(out, m.departments[id])
	}
	return out
}

func (m *MemoryRegistry) PutRoom(r *Room) error {
	if r == nil {
		return fmt.Errorf("room: %w", ErrRequired)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[r.ID()]; ok {
		return fmt.Errorf("room %s: %w", r.ID(), ErrDuplicate)
	}
	if _, ok := m.roomsByNumber[r.Number()]; ok {
		return fmt.Errorf("room number %s: %w", r.Number(), ErrDuplicate)
	}
	m.rooms[r.ID()] = r
	m.roomsByNumber[r.Number()] = r
	m.roomOrder = append(m.roomOrder, r.ID())
	return nil
}

func (m *MemoryRegistry) Room(id uuid.UUID) (*Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[id]
	if !ok {
		return nil, fmt.Errorf("room %s: %w", id, ErrNotFound)
	}
	return r, nil
}

func (m *MemoryRegistry) RoomByNumber(number string) (*Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.roomsByNumber[number]
	if !ok {
		return nil, fmt.Errorf("room %s: %w", number, ErrNotFound)
	}
	return r, nil
}

func (m *MemoryRegistry) Rooms() []*Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Room, 0, len(m.roomOrder))
	for _, id := range m.roomOrder {
		out = append(out, m.rooms[id])
	}
	return out
}

func (m *MemoryRegistry) PutDoctor(d *Doctor) error {
	if d == nil {
		return fmt.Errorf("doctor: %w", ErrRequired)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.doctors[d.ID()]; ok {
		return fmt.Errorf("doctor %s: %w", d.ID(), ErrDuplicate)
	}
	if _, ok := m.doctorsByNatID[d.NationalID()]; ok {
		return fmt.Errorf("doctor national ID %s: %w", d.NationalID(), ErrDuplicate)
	}
	m.doctors[d.ID()] = d
	m.doctorsByNatID[d.NationalID()] = d
	m.doctorOrder = append(m.doctorOrder, d.ID())
	return nil
}

func (m *MemoryRegistry) Doctor(id uuid.UUID) (*Doctor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.doctors[id]
	if !ok {
		return nil, fmt.Errorf("doctor %s: %w", id, ErrNotFound)
	}
	return d, nil
}

func (m *MemoryRegistry) DoctorByNationalID(nationalID string) (*Doctor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.doctorsByNatID[nationalID]
	if !ok {
		return nil, fmt.Errorf("doctor %s: %w", nationalID, ErrNotFound)
	}
	return d, nil
}

func (m *MemoryRegistry) Doctors() []*Doctor {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Doctor, 0, len(m.doctorOrder))
	for _, id := range m.doctorOrder {
		out = append(out, m.doctors[id])
	}
	return out
}

func (m *MemoryRegistry) PutPatient(p *Patient) error {
	if p == nil {
		return fmt.Errorf("patient: %w", ErrRequired)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.patients[p.ID()]; ok {
		return fmt.Errorf("patient %s: %w", p.ID(), ErrDuplicate)
	}
	if _, ok := m.patientsByNatID[p.NationalID()]; ok {
		return fmt.Errorf("patient national ID %s: %w", p.NationalID(), ErrDuplicate)
	}
	m.patients[p.ID()] = p
	m.patientsByNatID[p.NationalID()] = p
	m.patientOrder = append(m.patientOrder, p.ID())
	return nil
}

func (m *MemoryRegistry) Patient(id uuid.UUID) (*Patient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.patients[id]
	if !ok {
		return nil, fmt.Errorf("patient %s: %w", id, ErrNotFound)
	}
	return p, nil
}

func (m *MemoryRegistry) PatientByNationalID(nationalID string) (*Patient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.patientsByNatID[nationalID]
	if !ok {
		return nil, fmt.Errorf("patient %s: %w", nationalID, ErrNotFound)
	}
	return p, nil
}

func (m *MemoryRegistry) Patients() []*Patient {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Patient, 0, len(m.patientOrder))
	for _, id := range m.patientOrder {
		out = append(out, m.patients[id])
	}
	return out
}

// PutAppointment stores a and links it into the patient, doctor and room
// appointment lists inside one critical section.
func (m *MemoryRegistry) PutAppointment(a *Appointment) error {
	if a == nil {
		return fmt.Errorf("appointment: %w", ErrRequired)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.appointments[a.ID()]; ok {
		return fmt.Errorf("appointment %s: %w", a.ID(), ErrDuplicate)
	}
	a.register()
	m.appointments[a.ID()] = a
	m.insertionOrder = append(m.insertionOrder, a.ID())
	return nil
}

func (m *MemoryRegistry) Appointment(id uuid.UUID) (*Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.appointments[id]
	if !ok {
		return nil, fmt.Errorf("appointment %s: %w", id, ErrNotFound)
	}
	return a, nil
}

func (m *MemoryRegistry) Appointments() []*Appointment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Appointment, 0, len(m.insertionOrder))
	for _, id := range m.insertionOrder {
		out = append(out, m.appointments[id])
	}
	return out
}

func (m *MemoryRegistry) PatientIndex() map[string]*Patient {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]*Patient, len(m.patientsByNatID))
	for k, v := range m.patientsByNatID {
		out[k] = v
	}
	return out
}

func (m *MemoryRegistry) DoctorIndex() map[string]*Doctor {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]*Doctor, len(m.doctorsByNatID))
	for k, v := range m.doctorsByNatID {
		out[k] = v
	}
	return out
}

func (m *MemoryRegistry) RoomIndex() map[string]*Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]*Room, len(m.roomsByNumber))
	for k, v := range m.roomsByNumber {
		out[k] = v
	}
	return out
}
