package clinic

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Flat text record format for appointments: 7 comma-separated fields in
// fixed order — patient national ID, doctor national ID, room number, local
// timestamp without offset, plain decimal cost, status name, notes. There is
// no header row and no quoting. Commas inside notes are written as
// semicolons; decoding turns every semicolon back into a comma, so notes
// that genuinely contained semicolons come back altered. That lossiness is
// part of the format and is kept for compatibility with existing files.

const (
	recordFieldCount = 7

	recordTimeLayout = "2006-01-02T15:04:05"
	// Emitters that drop zero seconds produce this shorter form.
	recordTimeLayoutShort = "2006-01-02T15:04"
)

// MarshalRecord encodes the appointment as one flat text record.
func (a *Appointment) MarshalRecord() string {
	return strings.Join([]string{
		a.patient.NationalID(),
		a.doctor.NationalID(),
		a.room.Number(),
		a.time.Format(recordTimeLayout),
		strconv.FormatFloat(a.cost, 'f', -1, 64),
		string(a.status),
		strings.ReplaceAll(a.notes, ",", ";"),
	}, ",")
}

// UnmarshalRecord decodes one flat text record into an appointment, resolving
// the patient, doctor and room through the supplied lookup maps. The decoded
// appointment must pass the same rules as a freshly scheduled one: a future
// timestamp, a strictly positive cost and a doctor whose specialty matches
// the room's department. Status and notes are applied afterwards, so records
// carrying a non-SCHEDULED status still decode as long as the rest would
// have been schedulable.
//
// The returned appointment is not registered into any entity's list; that is
// the caller's responsibility.
func UnmarshalRecord(
	line string,
	patients map[string]*Patient,
	doctors map[string]*Doctor,
	rooms map[string]*Room,
) (*Appointment, error) {
	fields := strings.Split(line, ",")
	if len(fields) != recordFieldCount {
		return nil, fmt.Errorf("appointment record %q has %d fields, want %d: %w",
			line, len(fields), recordFieldCount, ErrFormat)
	}

	patientID := fields[0]
	doctorID := fields[1]
	roomNumber := fields[2]

	at, err := parseRecordTime(fields[3])
	if err != nil {
		return nil, err
	}
	cost, err := strconv.ParseFloat(fields[4], 64)
	if err != nil {
		return nil, fmt.Errorf("cost token %q: %w", fields[4], ErrFormat)
	}
	status, err := ParseAppointmentStatus(fields[5])
	if err != nil {
		return nil, err
	}
	notes := strings.ReplaceAll(fields[6], ";", ",")

	patient, ok := patients[patientID]
	if !ok {
		return nil, fmt.Errorf("patient %s: %w", patientID, ErrNotFound)
	}
	doctor, ok := doctors[doctorID]
	if !ok {
		return nil, fmt.Errorf("doctor %s: %w", doctorID, ErrNotFound)
	}
	room, ok := rooms[roomNumber]
	if !ok {
		return nil, fmt.Errorf("room %s: %w", roomNumber, ErrNotFound)
	}

	if err := validateSchedulable(doctor, room, at, cost); err != nil {
		return nil, err
	}

	a, err := NewAppointment(AppointmentConfig{
		Patient: patient,
		Doctor:  doctor,
		Room:    room,
		Time:    at,
		Cost:    cost,
	})
	if err != nil {
		return nil, err
	}
	if err := a.SetStatus(status); err != nil {
		return nil, err
	}
	a.SetNotes(notes)
	return a, nil
}

func parseRecordTime(token string) (time.Time, error) {
	for _, layout := range []string{recordTimeLayout, recordTimeLayoutShort} {
		if at, err := time.ParseInLocation(layout, token, time.Local); err == nil {
			return at, nil
		}
	}
	return time.Time{}, fmt.Errorf("timestamp token %q: %w", token, ErrFormat)
}
