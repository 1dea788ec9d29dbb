package clinic

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MedicalRecord is the one-to-one clinical history companion of a patient.
// The record number is derived once at creation and never changes.
type MedicalRecord struct {
	id         uuid.UUID
	number     string
	patient    *Patient
	createdAt  time.Time
	diagnoses  []string
	treatments []string
	allergies  []string
}

// newMedicalRecord is called only from NewPatient, after the patient's
// identity fields have been validated.
func newMedicalRecord(p *Patient) *MedicalRecord {
	createdAt := time.Now()
	return &MedicalRecord{
		id:        uuid.New(),
		number:    fmt.Sprintf("HC-%s-%d", p.NationalID(), createdAt.Year()),
		patient:   p,
		createdAt: createdAt,
	}
}

func (r *MedicalRecord) ID() uuid.UUID        { return r.id }
func (r *MedicalRecord) Number() string       { return r.number }
func (r *MedicalRecord) Patient() *Patient    { return r.patient }
func (r *MedicalRecord) CreatedAt() time.Time { return r.createdAt }

// AddDiagnosis appends a diagnosis entry. Blank input is silently dropped.
func (r *MedicalRecord) AddDiagnosis(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	r.diagnoses = append(r.diagnoses, text)
}

// AddTreatment appends a treatment entry. Blank input is silently dropped.
func (r *MedicalRecord) AddTreatment(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	r.treatments = append(r.treatments, text)
}

// AddAllergy appends an allergy entry. Blank input is silently dropped.
func (r *MedicalRecord) AddAllergy(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	r.allergies = append(r.allergies, text)
}

// Diagnoses returns a copy of the diagnosis list.
func (r *MedicalRecord) Diagnoses() []string { return copyStrings(r.diagnoses) }

// Treatments returns a copy of the treatment list.
func (r *MedicalRecord) Treatments() []string { return copyStrings(r.treatments) }

// Allergies returns a copy of the allergy list.
func (r *MedicalRecord) Allergies() []string { return copyStrings(r.allergies) }

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
