package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/medicare-hq/staff-console/internal/model"
)

const doctorsCacheKey = "doctors"

// PatientClient wraps the patient-facing endpoints of the platform API.
// The doctor roster changes rarely, so ListDoctors keeps a short-lived
// cache in front of the network.
type PatientClient struct {
	*Client
	roster *cache.Cache
}

func NewPatientClient(c *Client) *PatientClient {
	return &PatientClient{
		Client: c,
		roster: cache.New(5*time.Minute, 10*time.Minute),
	}
}

func (c *PatientClient) Register(ctx context.Context, req model.RegisterRequest) (*model.LoginResponse, error) {
	var resp model.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *PatientClient) Chat(ctx context.Context, message string, history []model.ChatMessage) (*model.ChatResponse, error) {
	var resp model.ChatResponse
	req := model.ChatRequest{Message: message, History: history}
	if err := c.do(ctx, http.MethodPost, "/patient/chat", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *PatientClient) ListDoctors(ctx context.Context) ([]model.Doctor, error) {
	if cached, ok := c.roster.Get(doctorsCacheKey); ok {
		return cached.([]model.Doctor), nil
	}

	var doctors []model.Doctor
	if err := c.do(ctx, http.MethodGet, "/patient/doctors", nil, nil, &doctors); err != nil {
		return nil, err
	}
	c.roster.SetDefault(doctorsCacheKey, doctors)
	return doctors, nil
}

// InvalidateRoster drops the cached doctor list, e.g. at logout.
func (c *PatientClient) InvalidateRoster() {
	c.roster.Delete(doctorsCacheKey)
}

func (c *PatientClient) ListSlots(ctx context.Context, doctorID int, date string) ([]string, error) {
	query := url.Values{}
	query.Set("doctor_id", strconv.Itoa(doctorID))
	query.Set("date_str", date)

	var slots []string
	if err := c.do(ctx, http.MethodGet, "/patient/slots", query, nil, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func (c *PatientClient) BookAppointment(ctx context.Context, req model.BookAppointmentRequest) error {
	return c.do(ctx, http.MethodPost, "/patient/book_appointment", nil, req, nil)
}

func (c *PatientClient) BookLab(ctx context.Context, req model.BookLabRequest) error {
	return c.do(ctx, http.MethodPost, "/patient/book_lab", nil, req, nil)
}

// UploadPrescription posts the prescription image as a multipart form,
// matching the platform's upload endpoint.
func (c *PatientClient) UploadPrescription(ctx context.Context, patientID int, filename string, file io.Reader) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("patient_id", strconv.Itoa(patientID)); err != nil {
		return fmt.Errorf("failed to write form field: %w", err)
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("failed to copy file contents: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize form: %w", err)
	}

	return c.doRaw(ctx, http.MethodPost, "/patient/upload_prescription", nil, &buf, writer.FormDataContentType(), nil)
}

func (c *PatientClient) MyAppointments(ctx context.Context, patientID int) ([]model.Appointment, error) {
	var appointments []model.Appointment
	path := fmt.Sprintf("/patient/my_appointments/%d", patientID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

func (c *PatientClient) MyPrescriptions(ctx context.Context, patientID int) ([]model.Prescription, error) {
	var prescriptions []model.Prescription
	path := fmt.Sprintf("/patient/my_prescriptions/%d", patientID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &prescriptions); err != nil {
		return nil, err
	}
	return prescriptions, nil
}
