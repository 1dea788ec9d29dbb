package clinic

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

var nationalIDPattern = regexp.MustCompile(`^\d{7,8}$`)

// Person carries the identity attributes shared by doctors and patients.
// It is only ever constructed through NewDoctor or NewPatient.
type Person struct {
	id         uuid.UUID
	firstName  string
	lastName   string
	nationalID string
	birthDate  time.Time
	bloodType  BloodType
}

// PersonConfig holds the shared identity fields for constructing a doctor or
// a patient.
type PersonConfig struct {
	FirstName  string
	LastName   string
	NationalID string
	BirthDate  time.Time
	BloodType  BloodType
}

// newPerson validates the shared identity fields. Presence checks run before
// format checks so error messages stay stable across entity kinds.
func newPerson(cfg PersonConfig) (Person, error) {
	firstName, err := requireText("first name", cfg.FirstName)
	if err != nil {
		return Person{}, err
	}
	lastName, err := requireText("last name", cfg.LastName)
	if err != nil {
		return Person{}, err
	}
	if cfg.NationalID == "" {
		return Person{}, fmt.Errorf("national ID: %w", ErrRequired)
	}
	if !nationalIDPattern.MatchString(cfg.NationalID) {
		return Person{}, fmt.Errorf("national ID %q must be 7 or 8 digits: %w", cfg.NationalID, ErrFormat)
	}
	if cfg.BirthDate.IsZero() {
		return Person{}, fmt.Errorf("birth date: %w", ErrRequired)
	}
	if cfg.BloodType == "" {
		return Person{}, fmt.Errorf("blood type: %w", ErrRequired)
	}
	if !cfg.BloodType.Valid() {
		return Person{}, fmt.Errorf("blood type %q: %w", cfg.BloodType, ErrFormat)
	}
	return Person{
		id:         uuid.New(),
		firstName:  firstName,
		lastName:   lastName,
		nationalID: cfg.NationalID,
		birthDate:  cfg.BirthDate,
		bloodType:  cfg.BloodType,
	}, nil
}

func (p *Person) ID() uuid.UUID        { return p.id }
func (p *Person) FirstName() string    { return p.firstName }
func (p *Person) LastName() string     { return p.lastName }
func (p *Person) NationalID() string   { return p.nationalID }
func (p *Person) BirthDate() time.Time { return p.birthDate }
func (p *Person) BloodType() BloodType { return p.bloodType }

// FullName returns the first and last name joined with a space.
func (p *Person) FullName() string {
	return p.firstName + " " + p.lastName
}

// Age is the current year minus the birth year. The month and day are
// ignored, so the result can be one year high before the person's birthday.
// This calendar-naive arithmetic is the documented behavior, not a bug.
func (p *Person) Age() int {
	return time.Now().Year() - p.birthDate.Year()
}
