package clinic

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hms/hms/pkg/pagination"
)

// Handler exposes the clinic service over HTTP. Response mapping walks
// entity lists and back-references, so it always runs inside Service.View.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/hospitals", h.CreateHospital)
	api.GET("/hospitals", h.ListHospitals)
	api.GET("/hospitals/:id", h.GetHospital)
	api.POST("/hospitals/:id/departments", h.CreateDepartment)
	api.POST("/hospitals/:id/patients", h.AdmitPatient)

	api.GET("/departments", h.ListDepartments)
	api.POST("/departments/:id/rooms", h.CreateRoom)
	api.POST("/departments/:id/doctors", h.HireDoctor)

	api.GET("/rooms", h.ListRooms)
	api.GET("/doctors", h.ListDoctors)

	api.GET("/patients", h.ListPatients)
	api.PUT("/patients/:id/hospital", h.TransferPatient)
	api.GET("/patients/:id/record", h.GetRecord)
	api.POST("/patients/:id/diagnoses", h.AddDiagnosis)
	api.POST("/patients/:id/treatments", h.AddTreatment)
	api.POST("/patients/:id/allergies", h.AddAllergy)

	api.POST("/appointments", h.ScheduleAppointment)
	api.GET("/appointments", h.ListAppointments)
	api.GET("/appointments/:id", h.GetAppointment)
	api.PUT("/appointments/:id/status", h.UpdateAppointmentStatus)
	api.PUT("/appointments/:id/notes", h.AnnotateAppointment)
	api.POST("/appointments/import", h.ImportAppointments)
	api.GET("/appointments/export", h.ExportAppointments)
}

// httpError translates a domain error into the matching HTTP status.
func httpError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrDuplicate):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrDomainRule):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}

// -- Request / response shapes --

type hospitalRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type hospitalResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	Phone       string    `json:"phone"`
	Departments int       `json:"departments"`
	Patients    int       `json:"patients"`
}

func toHospitalResponse(h *Hospital) hospitalResponse {
	return hospitalResponse{
		ID:          h.ID(),
		Name:        h.Name(),
		Address:     h.Address(),
		Phone:       h.Phone(),
		Departments: len(h.Departments()),
		Patients:    len(h.Patients()),
	}
}

type departmentRequest struct {
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
}

type departmentResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Specialty Specialty  `json:"specialty"`
	Hospital  *uuid.UUID `json:"hospital_id,omitempty"`
	Doctors   int        `json:"doctors"`
	Rooms     int        `json:"rooms"`
}

func toDepartmentResponse(d *Department) departmentResponse {
	resp := departmentResponse{
		ID:        d.ID(),
		Name:      d.Name(),
		Specialty: d.Specialty(),
		Doctors:   len(d.Doctors()),
		Rooms:     len(d.Rooms()),
	}
	if h := d.Hospital(); h != nil {
		id := h.ID()
		resp.Hospital = &id
	}
	return resp
}

type roomRequest struct {
	Number string `json:"number"`
	Type   string `json:"type"`
}

type roomResponse struct {
	ID         uuid.UUID `json:"id"`
	Number     string    `json:"number"`
	Type       string    `json:"type"`
	Department uuid.UUID `json:"department_id"`
}

func toRoomResponse(r *Room) roomResponse {
	return roomResponse{
		ID:         r.ID(),
		Number:     r.Number(),
		Type:       r.Kind(),
		Department: r.Department().ID(),
	}
}

type doctorRequest struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	NationalID string `json:"national_id"`
	BirthDate  string `json:"birth_date"`
	BloodType  string `json:"blood_type"`
	License    string `json:"license"`
	Specialty  string `json:"specialty"`
}

type doctorResponse struct {
	ID         uuid.UUID  `json:"id"`
	FullName   string     `json:"full_name"`
	NationalID string     `json:"national_id"`
	License    string     `json:"license"`
	Specialty  Specialty  `json:"specialty"`
	Department *uuid.UUID `json:"department_id,omitempty"`
}

func toDoctorResponse(d *Doctor) doctorResponse {
	resp := doctorResponse{
		ID:         d.ID(),
		FullName:   d.FullName(),
		NationalID: d.NationalID(),
		License:    d.License().String(),
		Specialty:  d.Specialty(),
	}
	if dept := d.Department(); dept != nil {
		id := dept.ID()
		resp.Department = &id
	}
	return resp
}

type patientRequest struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	NationalID string `json:"national_id"`
	BirthDate  string `json:"birth_date"`
	BloodType  string `json:"blood_type"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
}

type patientResponse struct {
	ID           uuid.UUID  `json:"id"`
	FullName     string     `json:"full_name"`
	NationalID   string     `json:"national_id"`
	Phone        string     `json:"phone"`
	Address      string     `json:"address"`
	Hospital     *uuid.UUID `json:"hospital_id,omitempty"`
	RecordNumber string     `json:"record_number"`
}

func toPatientResponse(p *Patient) patientResponse {
	resp := patientResponse{
		ID:           p.ID(),
		FullName:     p.FullName(),
		NationalID:   p.NationalID(),
		Phone:        p.Phone(),
		Address:      p.Address(),
		RecordNumber: p.Record().Number(),
	}
	if h := p.Hospital(); h != nil {
		id := h.ID()
		resp.Hospital = &id
	}
	return resp
}

type recordResponse struct {
	Number     string    `json:"number"`
	CreatedAt  time.Time `json:"created_at"`
	Diagnoses  []string  `json:"diagnoses"`
	Treatments []string  `json:"treatments"`
	Allergies  []string  `json:"allergies"`
}

type appointmentRequest struct {
	PatientNationalID string  `json:"patient_national_id"`
	DoctorNationalID  string  `json:"doctor_national_id"`
	RoomNumber        string  `json:"room_number"`
	Time              string  `json:"time"`
	Cost              float64 `json:"cost"`
	Notes             string  `json:"notes"`
}

type appointmentResponse struct {
	ID                uuid.UUID         `json:"id"`
	PatientNationalID string            `json:"patient_national_id"`
	DoctorNationalID  string            `json:"doctor_national_id"`
	RoomNumber        string            `json:"room_number"`
	Time              time.Time         `json:"time"`
	Cost              float64           `json:"cost"`
	Status            AppointmentStatus `json:"status"`
	Notes             string            `json:"notes"`
}

func toAppointmentResponse(a *Appointment) appointmentResponse {
	return appointmentResponse{
		ID:                a.ID(),
		PatientNationalID: a.Patient().NationalID(),
		DoctorNationalID:  a.Doctor().NationalID(),
		RoomNumber:        a.Room().Number(),
		Time:              a.Time(),
		Cost:              a.Cost(),
		Status:            a.Status(),
		Notes:             a.Notes(),
	}
}

// -- Hospital handlers --

func (h *Handler) CreateHospital(c echo.Context) error {
	var req hospitalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	hosp, err := h.svc.RegisterHospital(c.Request().Context(), HospitalConfig(req))
	if err != nil {
		return httpError(err)
	}
	var resp hospitalResponse
	h.svc.View(func() { resp = toHospitalResponse(hosp) })
	return c.JSON(http.StatusCreated, resp)
}

func (h *Handler) GetHospital(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	hosp, err := h.svc.Hospital(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	var resp hospitalResponse
	h.svc.View(func() { resp = toHospitalResponse(hosp) })
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) ListHospitals(c echo.Context) error {
	pg := pagination.FromContext(c)
	all := h.svc.ListHospitals(c.Request().Context())
	page := make([]hospitalResponse, 0, pg.Limit)
	h.svc.View(func() {
		for _, hosp := range pagination.Slice(all, pg) {
			page = append(page, toHospitalResponse(hosp))
		}
	})
	return c.JSON(http.StatusOK, pagination.NewResponse(page, len(all), pg.Limit, pg.Offset))
}

// -- Department / room handlers --

func (h *Handler) CreateDepartment(c echo.Context) error {
	hospitalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req departmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	specialty, err := ParseSpecialty(req.Specialty)
	if err != nil {
		return httpError(err)
	}
	d, err := h.svc.CreateDepartment(c.Request().Context(), hospitalID, req.Name, specialty)
	if err != nil {
		return httpError(err)
	}
	var resp departmentResponse
	h.svc.View(func() { resp = toDepartmentResponse(d) })
	return c.JSON(http.StatusCreated, resp)
}

func (h *Handler) ListDepartments(c echo.Context) error {
	pg := pagination.FromContext(c)
	all := h.svc.ListDepartments(c.Request().Context())
	page := make([]departmentResponse, 0, pg.Limit)
	h.svc.View(func() {
		for _, d := range pagination.Slice(all, pg) {
			page = append(page, toDepartmentResponse(d))
		}
	})
	return c.JSON(http.StatusOK, pagination.NewResponse(page, len(all), pg.Limit, pg.Offset))
}

func (h *Handler) CreateRoom(c echo.Context) error {
	departmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req roomRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	room, err := h.svc.CreateRoom(c.Request().Context(), departmentID, req.Number, req.Type)
	if err != nil {
		return httpError(err)
	}
	var resp roomResponse
	h.svc.View(func() { resp = toRoomResponse(room) })
	return c.JSON(http.StatusCreated, resp)
}

func (h *Handler) ListRooms(c echo.Context) error {
	pg := pagination.FromContext(c)
	all := h.svc.ListRooms(c.Request().Context())
	page := make([]roomResponse, 0, pg.Limit)
	h.svc.View(func() {
		for _, r := range pagination.Slice(all, pg) {
			page = append(page, toRoomResponse(r))
		}
	})
	return c.JSON(http.StatusOK, pagination.NewResponse(page, len(all), pg.Limit, pg.Offset))
}

// -- Doctor handlers --

func (h *Handler) HireDoctor(c echo.Context) error {
	departmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req doctorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	cfg, err := doctorConfigFromRequest(req)
	if err != nil {
		return httpError(err)
	}
	doc, err := h.svc.HireDoctor(c.Request().Context(), departmentID, cfg)
	if err != nil {
		return httpError(err)
	}
	var resp doctorResponse
	h.svc.View(func() { resp = toDoctorResponse(doc) })
	return c.JSON(http.StatusCreated, resp)
}

func (h *Handler) ListDoctors(c echo.Context) error {
	pg := pagination.FromContext(c)
	all := h.svc.ListDoctors(c.Request().Context())
	page := make([]doctorResponse, 0, pg.Limit)
	h.svc.View(func() {
		for _, d := range pagination.Slice(all, pg) {
			page = append(page, toDoctorResponse(d))
		}
	})
	return c.JSON(http.StatusOK, pagination.NewResponse(page, len(all), pg.Limit, pg.Offset))
}

// -- Patient handlers --

func (h *Handler) AdmitPatient(c echo.Context) error {
	hospitalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req patientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	cfg, err := patientConfigFromRequest(req)
	if err != nil {
		return httpError(err)
	}
	p, err := h.svc.AdmitPatient(c.Request().Context(), hospitalID, cfg)
	if err != nil {
		return httpError(err)
	}
	var resp patientResponse
	h.svc.View(func() { resp = toPatientResponse(p) })
	return c.JSON(http.StatusCreated, resp)
}

func (h *Handler) ListPatients(c echo.Context) error {
	pg := pagination.FromContext(c)
	all := h.svc.ListPatients(c.Request().Context())
	page := make([]patientResponse, 0, pg.Limit)
	h.svc.View(func() {
		for _, p := range pagination.Slice(all, pg) {
			page = append(page, toPatientResponse(p))
		}
	})
	return c.JSON(http.StatusOK, pagination.NewResponse(page, len(all), pg.Limit, pg.Offset))
}

func (h *Handler) TransferPatient(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req struct {
		HospitalID uuid.UUID `json:"hospital_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.TransferPatient(c.Request().Context(), patientID, req.HospitalID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) GetRecord(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.PatientByID(c.Request().Context(), patientID)
	if err != nil {
		return httpError(err)
	}
	var resp recordResponse
	h.svc.View(func() {
		rec := p.Record()
		resp = recordResponse{
			Number:     rec.Number(),
			CreatedAt:  rec.CreatedAt(),
			Diagnoses:  rec.Diagnoses(),
			Treatments: rec.Treatments(),
			Allergies:  rec.Allergies(),
		}
	})
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) AddDiagnosis(c echo.Context) error {
	return h.addRecordEntry(c, h.svc.AddDiagnosis)
}

func (h *Handler) AddTreatment(c echo.Context) error {
	return h.addRecordEntry(c, h.svc.AddTreatment)
}

func (h *Handler) AddAllergy(c echo.Context) error {
	return h.addRecordEntry(c, h.svc.AddAllergy)
}

func (h *Handler) addRecordEntry(c echo.Context, add func(ctx context.Context, id uuid.UUID, text string) error) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := add(c.Request().Context(), patientID, req.Text); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Appointment handlers --

func (h *Handler) ScheduleAppointment(c echo.Context) error {
	var req appointmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	at, err := parseRequestTime(req.Time)
	if err != nil {
		return httpError(err)
	}
	a, err := h.svc.ScheduleAppointment(c.Request().Context(), ScheduleRequest{
		PatientNationalID: req.PatientNationalID,
		DoctorNationalID:  req.DoctorNationalID,
		RoomNumber:        req.RoomNumber,
		Time:              at,
		Cost:              req.Cost,
		Notes:             req.Notes,
	})
	if err != nil {
		return httpError(err)
	}
	var resp appointmentResponse
	h.svc.View(func() { resp = toAppointmentResponse(a) })
	return c.JSON(http.StatusCreated, resp)
}

func (h *Handler) GetAppointment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.Appointment(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	var resp appointmentResponse
	h.svc.View(func() { resp = toAppointmentResponse(a) })
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) ListAppointments(c echo.Context) error {
	pg := pagination.FromContext(c)
	all := h.svc.ListAppointments(c.Request().Context())
	page := make([]appointmentResponse, 0, pg.Limit)
	h.svc.View(func() {
		for _, a := range pagination.Slice(all, pg) {
			page = append(page, toAppointmentResponse(a))
		}
	})
	return c.JSON(http.StatusOK, pagination.NewResponse(page, len(all), pg.Limit, pg.Offset))
}

func (h *Handler) UpdateAppointmentStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	status, err := ParseAppointmentStatus(req.Status)
	if err != nil {
		return httpError(err)
	}
	if err := h.svc.UpdateAppointmentStatus(c.Request().Context(), id, status); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) AnnotateAppointment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req struct {
		Notes string `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.AnnotateAppointment(c.Request().Context(), id, req.Notes); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ImportAppointments(c echo.Context) error {
	count, err := h.svc.ImportAppointments(c.Request().Context(), c.Request().Body)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]int{"imported": count})
}

func (h *Handler) ExportAppointments(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextPlainCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	_, err := h.svc.ExportAppointments(c.Request().Context(), c.Response())
	return err
}

// -- Request parsing helpers --

func doctorConfigFromRequest(req doctorRequest) (DoctorConfig, error) {
	person, err := personConfigFromRequest(req.FirstName, req.LastName, req.NationalID, req.BirthDate, req.BloodType)
	if err != nil {
		return DoctorConfig{}, err
	}
	return DoctorConfig{
		PersonConfig: person,
		License:      req.License,
		Specialty:    Specialty(req.Specialty),
	}, nil
}

func patientConfigFromRequest(req patientRequest) (PatientConfig, error) {
	person, err := personConfigFromRequest(req.FirstName, req.LastName, req.NationalID, req.BirthDate, req.BloodType)
	if err != nil {
		return PatientConfig{}, err
	}
	return PatientConfig{
		PersonConfig: person,
		Phone:        req.Phone,
		Address:      req.Address,
	}, nil
}

func personConfigFromRequest(first, last, nationalID, birthDate, bloodType string) (PersonConfig, error) {
	var born time.Time
	if birthDate != "" {
		var err error
		born, err = time.Parse("2006-01-02", birthDate)
		if err != nil {
			return PersonConfig{}, fmt.Errorf("birth date %q: %w", birthDate, ErrFormat)
		}
	}
	return PersonConfig{
		FirstName:  first,
		LastName:   last,
		NationalID: nationalID,
		BirthDate:  born,
		BloodType:  BloodType(bloodType),
	}, nil
}

func parseRequestTime(token string) (time.Time, error) {
	if token == "" {
		return time.Time{}, nil
	}
	if at, err := time.Parse(time.RFC3339, token); err == nil {
		return at, nil
	}
	return parseRecordTime(token)
}
