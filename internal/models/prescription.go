package models

import "time"

// PrescriptionStatus is the workflow state of a renewal request
type PrescriptionStatus string

const (
	PrescriptionPending   PrescriptionStatus = "pending"
	PrescriptionInReview  PrescriptionStatus = "in_review"
	PrescriptionApproved  PrescriptionStatus = "approved"
	PrescriptionRejected  PrescriptionStatus = "rejected"
	PrescriptionReady     PrescriptionStatus = "ready"
	PrescriptionDelivered PrescriptionStatus = "delivered"
)

// Valid reports whether s is a known status
func (s PrescriptionStatus) Valid() bool {
	switch s {
	case PrescriptionPending, PrescriptionInReview, PrescriptionApproved,
		PrescriptionRejected, PrescriptionReady, PrescriptionDelivered:
		return true
	}
	return false
}

// DeliveryMethod is how the renewed prescription reaches the patient
type DeliveryMethod string

const (
	DeliveryClinic DeliveryMethod = "clinic"
	DeliveryEmail  DeliveryMethod = "email"
)

// Valid reports whether d is a known delivery method
func (d DeliveryMethod) Valid() bool {
	return d == DeliveryClinic || d == DeliveryEmail
}

// PrescriptionRequest is a patient's medication renewal request
type PrescriptionRequest struct {
	ID              string             `json:"id,omitempty"`
	PatientID       string             `json:"patientId,omitempty"`
	PatientName     string             `json:"patientName,omitempty"`
	PatientTaxID    string             `json:"patientCpf,omitempty"`
	PatientPhone    string             `json:"patientPhone,omitempty"`
	MedicationName  string             `json:"medicationName"`
	Dosage          string             `json:"dosage"`
	NumberOfBoxes   int                `json:"numberOfBoxes"`
	DeliveryMethod  DeliveryMethod     `json:"deliveryMethod"`
	Status          PrescriptionStatus `json:"status"`
	RejectionReason string             `json:"rejectionReason,omitempty"`
	Notes           string             `json:"notes,omitempty"`
	CreatedAt       *time.Time         `json:"createdAt,omitempty"`
	UpdatedAt       *time.Time         `json:"updatedAt,omitempty"`
}

// SavePrescriptionRequest is the payload accepted by the save endpoint
type SavePrescriptionRequest struct {
	Prescription PrescriptionRequest `json:"prescription"`
	Patient      IdentityForm        `json:"patient"`
}

// PrescriptionStatusUpdate is the payload for a status transition
type PrescriptionStatusUpdate struct {
	Status          PrescriptionStatus `json:"status" binding:"required"`
	RejectionReason string             `json:"rejectionReason,omitempty"`
}

// SaveOutcome is returned by a prescription save. The save itself
// succeeded whenever an outcome is returned; Warnings carry secondary
// effect failures.
type SaveOutcome struct {
	Prescription PrescriptionRequest `json:"prescription"`
	Upsert       *UpsertOutcome      `json:"upsert,omitempty"`
	Warnings     []string            `json:"warnings,omitempty"`
	Message      string              `json:"message,omitempty"`
}

// Note is an administrator annotation kept by the backend
type Note struct {
	ID             string     `json:"id,omitempty"`
	PrescriptionID string     `json:"prescriptionId,omitempty"`
	PatientID      string     `json:"patientId,omitempty"`
	Content        string     `json:"content"`
	CreatedAt      *time.Time `json:"createdAt,omitempty"`
}

// NoteRequest is the body of a new administrator note
type NoteRequest struct {
	Content   string `json:"content" binding:"required"`
	PatientID string `json:"patientId,omitempty"`
}
