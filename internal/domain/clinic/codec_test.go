package clinic

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func lookupMaps(g scheduleGraph) (map[string]*Patient, map[string]*Doctor, map[string]*Room) {
	return map[string]*Patient{g.patient.NationalID(): g.patient},
		map[string]*Doctor{g.doctor.NationalID(): g.doctor},
		map[string]*Room{g.room.Number(): g.room}
}

func TestMarshalRecord(t *testing.T) {
	g := newScheduleGraph(t)
	at := futureSlot()
	a, err := NewAppointment(g.config(at, 150.5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a.SetNotes("bring previous ECG")

	line := a.MarshalRecord()
	fields := strings.Split(line, ",")
	if len(fields) != 7 {
		t.Fatalf("expected 7 fields, got %d: %q", len(fields), line)
	}
	if fields[0] != "28345678" || fields[1] != "30111222" || fields[2] != "101" {
		t.Errorf("unexpected identity fields in %q", line)
	}
	if fields[3] != at.Format("2006-01-02T15:04:05") {
		t.Errorf("unexpected timestamp field %q", fields[3])
	}
	if fields[4] != "150.5" {
		t.Errorf("unexpected cost field %q", fields[4])
	}
	if fields[5] != "SCHEDULED" {
		t.Errorf("unexpected status field %q", fields[5])
	}
}

func TestMarshalRecord_NotesCommasBecomeSemicolons(t *testing.T) {
	g := newScheduleGraph(t)
	a, err := NewAppointment(g.config(futureSlot(), 150))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a.SetNotes("fasting, no caffeine")

	line := a.MarshalRecord()
	if got := len(strings.Split(line, ",")); got != 7 {
		t.Fatalf("comma in notes must not add fields, got %d", got)
	}
	if !strings.HasSuffix(line, "fasting; no caffeine") {
		t.Errorf("expected semicolon substitution, got %q", line)
	}
}

func TestRecordRoundTrip(t *testing.T) {
	g := newScheduleGraph(t)
	at := futureSlot()
	a, err := NewAppointment(g.config(at, 275.25))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := a.SetStatus(StatusInProgress); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a.SetNotes("follow-up, second opinion")

	patients, doctors, rooms := lookupMaps(g)
	b, err := UnmarshalRecord(a.MarshalRecord(), patients, doctors, rooms)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if b.Patient() != a.Patient() || b.Doctor() != a.Doctor() || b.Room() != a.Room() {
		t.Error("decoded appointment must resolve to the same entities")
	}
	if !b.Time().Equal(a.Time()) {
		t.Errorf("time mismatch: %s vs %s", b.Time(), a.Time())
	}
	if b.Cost() != a.Cost() {
		t.Errorf("cost mismatch: %v vs %v", b.Cost(), a.Cost())
	}
	if b.Status() != StatusInProgress {
		t.Errorf("status mismatch: %s", b.Status())
	}
	if b.Notes() != "follow-up; second opinion" {
		t.Errorf("unexpected notes %q", b.Notes())
	}
	// Encoding again must reproduce the line exactly.
	if b.MarshalRecord() != a.MarshalRecord() {
		t.Errorf("re-encode mismatch:\n %q\n %q", b.MarshalRecord(), a.MarshalRecord())
	}
}

func TestUnmarshalRecord_ShortTimestamp(t *testing.T) {
	g := newScheduleGraph(t)
	at := time.Now().Add(48 * time.Hour).Truncate(time.Minute)
	line := strings.Join([]string{
		"28345678", "30111222", "101",
		at.Format("2006-01-02T15:04"),
		"150", "SCHEDULED", "",
	}, ",")

	patients, doctors, rooms := lookupMaps(g)
	a, err := UnmarshalRecord(line, patients, doctors, rooms)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !a.Time().Equal(at) {
		t.Errorf("time mismatch: %s vs %s", a.Time(), at)
	}
}

func TestUnmarshalRecord_Failures(t *testing.T) {
	g := newScheduleGraph(t)
	future := futureSlot().Format("2006-01-02T15:04:05")
	past := time.Now().Add(-48 * time.Hour).Format("2006-01-02T15:04:05")

	cases := []struct {
		name string
		line string
		want error
	}{
		{"too few fields", "28345678,30111222,101," + future + ",150,SCHEDULED", ErrFormat},
		{"too many fields", "28345678,30111222,101," + future + ",150,SCHEDULED,notes,extra", ErrFormat},
		{"bad timestamp", "28345678,30111222,101,tomorrow,150,SCHEDULED,", ErrFormat},
		{"bad cost", "28345678,30111222,101," + future + ",abc,SCHEDULED,", ErrFormat},
		{"unknown status", "28345678,30111222,101," + future + ",150,PENDING,", ErrFormat},
		{"unknown patient", "99999999,30111222,101," + future + ",150,SCHEDULED,", ErrNotFound},
		{"unknown doctor", "28345678,99999999,101," + future + ",150,SCHEDULED,", ErrNotFound},
		{"unknown room", "28345678,30111222,999," + future + ",150,SCHEDULED,", ErrNotFound},
		{"past timestamp", "28345678,30111222,101," + past + ",150,SCHEDULED,", ErrDomainRule},
		{"zero cost", "28345678,30111222,101," + future + ",0,SCHEDULED,", ErrDomainRule},
		{"negative cost", "28345678,30111222,101," + future + ",-5,SCHEDULED,", ErrDomainRule},
	}

	patients, doctors, rooms := lookupMaps(g)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := UnmarshalRecord(tc.line, patients, doctors, rooms)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestUnmarshalRecord_SpecialtyMismatch(t *testing.T) {
	g := newScheduleGraph(t)
	neuroDept := newTestDepartment(t, "Neurology", SpecialtyNeurology)
	neuroRoom, err := neuroDept.CreateRoom("201", "Consult")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	patients, doctors, rooms := lookupMaps(g)
	rooms[neuroRoom.Number()] = neuroRoom

	line := strings.Join([]string{
		"28345678", "30111222", "201",
		futureSlot().Format("2006-01-02T15:04:05"),
		"150", "SCHEDULED", "",
	}, ",")
	if _, err := UnmarshalRecord(line, patients, doctors, rooms); !errors.Is(err, ErrDomainRule) {
		t.Errorf("expected ErrDomainRule, got %v", err)
	}
}

func TestUnmarshalRecord_DoesNotRegister(t *testing.T) {
	g := newScheduleGraph(t)
	a, err := NewAppointment(g.config(futureSlot(), 150))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	patients, doctors, rooms := lookupMaps(g)
	if _, err := UnmarshalRecord(a.MarshalRecord(), patients, doctors, rooms); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(g.patient.Appointments()); got != 0 {
		t.Errorf("decoding must not register appointments, patient has %d", got)
	}
}
