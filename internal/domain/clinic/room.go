package clinic

import (
	"fmt"

	"github.com/google/uuid"
)

// Room belongs to exactly one department for its whole lifetime. Rooms are
// created only through Department.CreateRoom.
type Room struct {
	id           uuid.UUID
	number       string
	kind         string
	department   *Department
	appointments []*Appointment
}

func newRoom(number, kind string, dept *Department) (*Room, error) {
	n, err := requireText("room number", number)
	if err != nil {
		return nil, err
	}
	k, err := requireText("room type", kind)
	if err != nil {
		return nil, err
	}
	if dept == nil {
		return nil, fmt.Errorf("department: %w", ErrRequired)
	}
	return &Room{
		id:         uuid.New(),
		number:     n,
		kind:       k,
		department: dept,
	}, nil
}

func (r *Room) ID() uuid.UUID { return r.id }

// Number identifies the room within its department and is the lookup key of
// the appointment record format.
func (r *Room) Number() string { return r.number }

// Kind is a free-form label such as "Consult" or "Surgery".
func (r *Room) Kind() string { return r.kind }

// Department returns the owning department. It is never nil.
func (r *Room) Department() *Department { return r.department }

// addAppointment appends a to the room's list, skipping nil and entries
// already present.
func (r *Room) addAppointment(a *Appointment) {
	if a == nil || containsAppointment(r.appointments, a) {
		return
	}
	r.appointments = append(r.appointments, a)
}

// Appointments returns a copy of the room's appointment list.
func (r *Room) Appointments() []*Appointment {
	out := make([]*Appointment, len(r.appointments))
	copy(out, r.appointments)
	return out
}
