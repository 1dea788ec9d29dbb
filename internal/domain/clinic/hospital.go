package clinic

import "github.com/google/uuid"

// Hospital is the aggregate root owning departments and patients. Membership
// and the child back-references always change together: for every department
// d, d.Hospital() == h exactly when d appears in h.Departments(), and the
// same holds for patients.
type Hospital struct {
	id          uuid.UUID
	name        string
	address     string
	phone       string
	departments []*Department
	patients    []*Patient
}

// HospitalConfig holds the fields for constructing a Hospital.
type HospitalConfig struct {
	Name    string
	Address string
	Phone   string
}

// NewHospital validates cfg and returns an empty hospital.
func NewHospital(cfg HospitalConfig) (*Hospital, error) {
	name, err := requireText("hospital name", cfg.Name)
	if err != nil {
		return nil, err
	}
	address, err := requireText("address", cfg.Address)
	if err != nil {
		return nil, err
	}
	phone, err := requireText("phone", cfg.Phone)
	if err != nil {
		return nil, err
	}
	return &Hospital{
		id:      uuid.New(),
		name:    name,
		address: address,
		phone:   phone,
	}, nil
}

func (h *Hospital) ID() uuid.UUID   { return h.id }
func (h *Hospital) Name() string    { return h.name }
func (h *Hospital) Address() string { return h.address }
func (h *Hospital) Phone() string   { return h.phone }

// AddDepartment attaches d to this hospital. Nil and already-attached
// departments are ignored.
func (h *Hospital) AddDepartment(d *Department) {
	if d == nil {
		return
	}
	d.SetHospital(h)
}

// AddPatient admits p to this hospital. Nil and already-admitted patients
// are ignored.
func (h *Hospital) AddPatient(p *Patient) {
	if p == nil {
		return
	}
	p.SetHospital(h)
}

// Departments returns a copy of the hospital's department list.
func (h *Hospital) Departments() []*Department {
	out := make([]*Department, len(h.departments))
	copy(out, h.departments)
	return out
}

// Patients returns a copy of the hospital's patient list.
func (h *Hospital) Patients() []*Patient {
	out := make([]*Patient, len(h.patients))
	copy(out, h.patients)
	return out
}

// attachDepartment and the helpers below touch only this side of the
// relationship; SetHospital on the child drives them so each mutation leaves
// both sides consistent.

func (h *Hospital) attachDepartment(d *Department) {
	for _, existing := range h.departments {
		if existing == d {
			return
		}
	}
	h.departments = append(h.departments, d)
}

func (h *Hospital) removeDepartment(d *Department) {
	for i, existing := range h.departments {
		if existing == d {
			h.departments = append(h.departments[:i], h.departments[i+1:]...)
			return
		}
	}
}

func (h *Hospital) attachPatient(p *Patient) {
	for _, existing := range h.patients {
		if existing == p {
			return
		}
	}
	h.patients = append(h.patients, p)
}

func (h *Hospital) removePatient(p *Patient) {
	for i, existing := range h.patients {
		if existing == p {
			h.patients = append(h.patients[:i], h.patients[i+1:]...)
			return
		}
	}
}
