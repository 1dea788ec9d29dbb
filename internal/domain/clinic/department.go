package clinic

import (
	"fmt"

	"github.com/google/uuid"
)

// Department groups the doctors and rooms of a single specialty within a
// hospital. It is the only creator of rooms.
type Department struct {
	id        uuid.UUID
	name      string
	specialty Specialty
	hospital  *Hospital
	doctors   []*Doctor
	rooms     []*Room
}

// NewDepartment validates the name and specialty and returns a department
// not yet attached to any hospital.
func NewDepartment(name string, specialty Specialty) (*Department, error) {
	n, err := requireText("department name", name)
	if err != nil {
		return nil, err
	}
	if specialty == "" {
		return nil, fmt.Errorf("specialty: %w", ErrRequired)
	}
	if !specialty.Valid() {
		return nil, fmt.Errorf("specialty %q: %w", specialty, ErrFormat)
	}
	return &Department{
		id:        uuid.New(),
		name:      n,
		specialty: specialty,
	}, nil
}

func (d *Department) ID() uuid.UUID        { return d.id }
func (d *Department) Name() string         { return d.name }
func (d *Department) Specialty() Specialty { return d.specialty }

// Hospital returns the owning hospital, or nil.
func (d *Department) Hospital() *Hospital { return d.hospital }

// SetHospital moves the department to h, detaching from the previous
// hospital first. Both sides of the relationship are consistent when it
// returns.
func (d *Department) SetHospital(h *Hospital) {
	if d.hospital == h {
		return
	}
	if d.hospital != nil {
		d.hospital.removeDepartment(d)
	}
	d.hospital = h
	if h != nil {
		h.attachDepartment(d)
	}
}

// AddDoctor assigns doc to this department. Nil and already-assigned doctors
// are ignored. A doctor whose specialty differs from the department's is
// rejected and not added.
func (d *Department) AddDoctor(doc *Doctor) error {
	if doc == nil || containsDoctor(d.doctors, doc) {
		return nil
	}
	if doc.Specialty() != d.specialty {
		return fmt.Errorf("doctor specialty %s incompatible with department %s (%s): %w",
			doc.Specialty(), d.name, d.specialty, ErrDomainRule)
	}
	d.doctors = append(d.doctors, doc)
	doc.setDepartment(d)
	return nil
}

// CreateRoom constructs a room owned by this department, registers it and
// returns it. Room numbers must be unique within the department.
func (d *Department) CreateRoom(number, kind string) (*Room, error) {
	for _, r := range d.rooms {
		if r.Number() == number {
			return nil, fmt.Errorf("room %s in department %s: %w", number, d.name, ErrDuplicate)
		}
	}
	room, err := newRoom(number, kind, d)
	if err != nil {
		return nil, err
	}
	d.rooms = append(d.rooms, room)
	return room, nil
}

// Doctors returns a copy of the department's doctor list.
func (d *Department) Doctors() []*Doctor {
	out := make([]*Doctor, len(d.doctors))
	copy(out, d.doctors)
	return out
}

// Rooms returns a copy of the department's room list.
func (d *Department) Rooms() []*Room {
	out := make([]*Room, len(d.rooms))
	copy(out, d.rooms)
	return out
}

func containsDoctor(list []*Doctor, doc *Doctor) bool {
	for _, existing := range list {
		if existing == doc {
			return true
		}
	}
	return false
}
