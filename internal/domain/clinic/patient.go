package clinic

// Patient is a person admitted to at most one hospital at a time. Every
// patient owns exactly one medical record, created with the patient and never
// replaced.
type Patient struct {
	Person
	phone        string
	address      string
	hospital     *Hospital
	record       *MedicalRecord
	appointments []*Appointment
}

// PatientConfig holds the fields for constructing a Patient.
type PatientConfig struct {
	PersonConfig
	Phone   string
	Address string
}

// NewPatient validates cfg and returns a new patient with a freshly created
// medical record.
func NewPatient(cfg PatientConfig) (*Patient, error) {
	person, err := newPerson(cfg.PersonConfig)
	if err != nil {
		return nil, err
	}
	phone, err := requireText("phone", cfg.Phone)
	if err != nil {
		return nil, err
	}
	address, err := requireText("address", cfg.Address)
	if err != nil {
		return nil, err
	}
	p := &Patient{
		Person:  person,
		phone:   phone,
		address: address,
	}
	p.record = newMedicalRecord(p)
	return p, nil
}

func (p *Patient) Phone() string   { return p.phone }
func (p *Patient) Address() string { return p.address }

// Hospital returns the hospital the patient is admitted to, or nil.
func (p *Patient) Hospital() *Hospital { return p.hospital }

// Record returns the patient's medical record. It is never nil.
func (p *Patient) Record() *MedicalRecord { return p.record }

// SetHospital moves the patient to h, detaching from the previous hospital
// first. Both sides of the relationship are consistent when it returns:
// p.Hospital() == h exactly when p appears in h's patient list.
func (p *Patient) SetHospital(h *Hospital) {
	if p.hospital == h {
		return
	}
	if p.hospital != nil {
		p.hospital.removePatient(p)
	}
	p.hospital = h
	if h != nil {
		h.attachPatient(p)
	}
}

// addAppointment appends a to the patient's list, skipping nil and entries
// already present.
func (p *Patient) addAppointment(a *Appointment) {
	if a == nil || containsAppointment(p.appointments, a) {
		return
	}
	p.appointments = append(p.appointments, a)
}

// Appointments returns a copy of the patient's appointment list.
func (p *Patient) Appointments() []*Appointment {
	out := make([]*Appointment, len(p.appointments))
	copy(out, p.appointments)
	return out
}
