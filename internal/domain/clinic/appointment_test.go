package clinic

import (
	"errors"
	"testing"
	"time"
)

// scheduleGraph wires up a hospital with one cardiology department, one room,
// one matching doctor and one patient, the minimal graph for appointment tests.
type scheduleGraph struct {
	hospital *Hospital
	dept     *Department
	room     *Room
	doctor   *Doctor
	patient  *Patient
}

func newScheduleGraph(t *testing.T) scheduleGraph {
	t.Helper()
	h := newTestHospital(t, "Hospital Central")
	dept := newTestDepartment(t, "Cardiology", SpecialtyCardiology)
	h.AddDepartment(dept)
	room, err := dept.CreateRoom("101", "Consult")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	doc := newTestDoctor(t, "30111222", SpecialtyCardiology)
	if err := dept.AddDoctor(doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := newTestPatient(t, "28345678")
	h.AddPatient(p)
	return scheduleGraph{hospital: h, dept: dept, room: room, doctor: doc, patient: p}
}

func (g scheduleGraph) config(at time.Time, cost float64) AppointmentConfig {
	return AppointmentConfig{
		Patient: g.patient,
		Doctor:  g.doctor,
		Room:    g.room,
		Time:    at,
		Cost:    cost,
	}
}

func futureSlot() time.Time {
	return time.Now().Add(48 * time.Hour).Truncate(time.Second)
}

func TestNewAppointment_Defaults(t *testing.T) {
	g := newScheduleGraph(t)
	a, err := NewAppointment(g.config(futureSlot(), 150))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Status() != StatusScheduled {
		t.Errorf("expected default status SCHEDULED, got %s", a.Status())
	}
	if a.Notes() != "" {
		t.Errorf("expected empty notes, got %q", a.Notes())
	}
}

func TestNewAppointment_NegativeCost(t *testing.T) {
	g := newScheduleGraph(t)
	_, err := NewAppointment(g.config(futureSlot(), -1))
	if !errors.Is(err, ErrDomainRule) {
		t.Errorf("expected ErrDomainRule, got %v", err)
	}
}

func TestNewAppointment_ZeroCostAllowedAtConstruction(t *testing.T) {
	// Construction only forbids negative cost; the scheduling and import
	// paths are where zero is rejected.
	g := newScheduleGraph(t)
	if _, err := NewAppointment(g.config(futureSlot(), 0)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNewAppointment_MissingParticipants(t *testing.T) {
	g := newScheduleGraph(t)
	cases := []struct {
		name   string
		mutate func(*AppointmentConfig)
	}{
		{"nil patient", func(c *AppointmentConfig) { c.Patient = nil }},
		{"nil doctor", func(c *AppointmentConfig) { c.Doctor = nil }},
		{"nil room", func(c *AppointmentConfig) { c.Room = nil }},
		{"zero time", func(c *AppointmentConfig) { c.Time = time.Time{} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := g.config(futureSlot(), 150)
			tc.mutate(&cfg)
			if _, err := NewAppointment(cfg); !errors.Is(err, ErrRequired) {
				t.Errorf("expected ErrRequired, got %v", err)
			}
		})
	}
}

func TestAppointment_SetStatus(t *testing.T) {
	g := newScheduleGraph(t)
	a, err := NewAppointment(g.config(futureSlot(), 150))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := a.SetStatus(StatusCompleted); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Status() != StatusCompleted {
		t.Errorf("expected COMPLETED, got %s", a.Status())
	}
	if err := a.SetStatus(""); !errors.Is(err, ErrRequired) {
		t.Errorf("expected ErrRequired for empty status, got %v", err)
	}
	if err := a.SetStatus("ARCHIVED"); !errors.Is(err, ErrFormat) {
		t.Errorf("expected ErrFormat for unknown status, got %v", err)
	}
	if a.Status() != StatusCompleted {
		t.Error("rejected status must leave the current one unchanged")
	}
}

func TestAppointment_EqualNaturalKey(t *testing.T) {
	g := newScheduleGraph(t)
	at := futureSlot()
	a, _ := NewAppointment(g.config(at, 150))
	b, _ := NewAppointment(g.config(at, 900)) // different cost, same key
	b.SetNotes("different notes")

	if !a.Equal(b) {
		t.Error("appointments sharing patient, doctor and time must be equal")
	}

	c, _ := NewAppointment(g.config(at.Add(time.Hour), 150))
	if a.Equal(c) {
		t.Error("appointments at different times must not be equal")
	}
	if a.Equal(nil) {
		t.Error("an appointment never equals nil")
	}
}

func TestAppointment_RegisterIdempotent(t *testing.T) {
	g := newScheduleGraph(t)
	a, err := NewAppointment(g.config(futureSlot(), 150))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a.register()
	a.register()

	if got := len(g.patient.Appointments()); got != 1 {
		t.Errorf("patient list: expected 1, got %d", got)
	}
	if got := len(g.doctor.Appointments()); got != 1 {
		t.Errorf("doctor list: expected 1, got %d", got)
	}
	if got := len(g.room.Appointments()); got != 1 {
		t.Errorf("room list: expected 1, got %d", got)
	}
}

func TestValidateSchedulable(t *testing.T) {
	g := newScheduleGraph(t)
	neuroDept := newTestDepartment(t, "Neurology", SpecialtyNeurology)
	neuroRoom, err := neuroDept.CreateRoom("201", "Consult")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		name string
		doc  *Doctor
		room *Room
		at   time.Time
		cost float64
		ok   bool
	}{
		{"valid", g.doctor, g.room, futureSlot(), 150, true},
		{"past slot", g.doctor, g.room, time.Now().Add(-time.Hour), 150, false},
		{"zero cost", g.doctor, g.room, futureSlot(), 0, false},
		{"specialty mismatch", g.doctor, neuroRoom, futureSlot(), 150, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateSchedulable(tc.doc, tc.room, tc.at, tc.cost)
			if tc.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tc.ok && !errors.Is(err, ErrDomainRule) {
				t.Errorf("expected ErrDomainRule, got %v", err)
			}
		})
	}
}
