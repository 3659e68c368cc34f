package model

// Types for the patient-facing API surface.

type Doctor struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty,omitempty"`
}

type ChatRequest struct {
	Message string        `json:"message"`
	History []ChatMessage `json:"history"`
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

type BookAppointmentRequest struct {
	PatientID int    `json:"patient_id" binding:"required"`
	DoctorID  int    `json:"doctor_id" binding:"required"`
	Date      string `json:"date" binding:"required"`
	Time      string `json:"time" binding:"required"`
	Notes     string `json:"notes,omitempty"`
}

type BookLabRequest struct {
	PatientID      int    `json:"patient_id" binding:"required"`
	TestName       string `json:"test_name" binding:"required"`
	Date           string `json:"date" binding:"required"`
	Time           string `json:"time" binding:"required"`
	HomeCollection bool   `json:"home_collection"`
	Address        string `json:"address,omitempty"`
}

type Prescription struct {
	ID            int         `json:"id"`
	Status        OrderStatus `json:"status"`
	ExtractedData string      `json:"extracted_data,omitempty"`
	UploadedAt    string      `json:"uploaded_at,omitempty"`
}
