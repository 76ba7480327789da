package services

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/clinica-bage/app-rx/internal/models"
	"github.com/clinica-bage/app-rx/internal/utils"
)

// Global prescription service instance
var PrescriptionServiceInstance *PrescriptionService

const upsertWarning = "Prescription saved, but the patient record update failed"

// PrescriptionBackend is the part of the backend the workflow needs
type PrescriptionBackend interface {
	CreatePrescription(ctx context.Context, token string, p models.PrescriptionRequest) (*models.PrescriptionRequest, error)
	UpdatePrescription(ctx context.Context, token, id string, p models.PrescriptionRequest) (*models.PrescriptionRequest, error)
	UpdatePrescriptionStatus(ctx context.Context, token, id string, update models.PrescriptionStatusUpdate) (*models.PrescriptionRequest, string, error)
	ListPrescriptions(ctx context.Context, token string, params url.Values) ([]models.PrescriptionRequest, error)
	GetPrescription(ctx context.Context, token, id string) (*models.PrescriptionRequest, error)
	DeletePrescription(ctx context.Context, token, id string) error
	IdentityLookup(token string) IdentityLookup
}

// PrescriptionService saves renewal requests. Saving is the primary
// action; keeping the patient record in sync is a secondary effect that
// never fails the save.
type PrescriptionService struct {
	backend PrescriptionBackend
	upserts *IdentityUpsertService
	logger  *zap.Logger
}

// NewPrescriptionService creates a new prescription service. upserts may be
// nil, in which case no patient record is touched.
func NewPrescriptionService(backend PrescriptionBackend, upserts *IdentityUpsertService, logger *zap.Logger) *PrescriptionService {
	return &PrescriptionService{backend: backend, upserts: upserts, logger: logger}
}

// InitPrescriptionService initializes the global prescription service instance
func InitPrescriptionService() {
	logger := zap.L().Named("prescription_service")
	PrescriptionServiceInstance = NewPrescriptionService(BackendClientInstance, IdentityUpsertServiceInstance, logger)
	logger.Info("prescription service initialized")
}

// fillPatient copies the contact fields onto the request where it has none.
// A patient always files for themselves.
func fillPatient(p *models.PrescriptionRequest, session *models.Session, form models.IdentityForm) {
	if !session.User.IsAdmin() {
		p.PatientID = session.User.ID
	}
	if p.PatientName == "" {
		p.PatientName = strings.TrimSpace(form.FullName)
	}
	if p.PatientTaxID == "" {
		if digits := utils.OnlyDigits(form.TaxID); len(digits) == utils.CPFLength {
			p.PatientTaxID = digits
		}
	}
	if p.PatientPhone == "" {
		p.PatientPhone = utils.NormalizePhone(form.Phone)
	}
}

// Save validates and stores request, then, for admin sessions, reconciles
// the patient record from form. Patient sessions can only file pending
// requests and never touch patient records. A validation failure is
// returned as *utils.ValidationResult.
func (s *PrescriptionService) Save(ctx context.Context, session *models.Session, request models.PrescriptionRequest, form models.IdentityForm) (*models.SaveOutcome, error) {
	ctx, span := utils.TraceBusinessLogic(ctx, "prescription_save")
	defer span.End()

	admin := session.User.IsAdmin()
	if !admin {
		if request.Status != "" && request.Status != models.PrescriptionPending {
			s.logger.Info("ignoring status sent by patient",
				zap.String("status", string(request.Status)),
				zap.String("by", session.User.ID))
		}
		request.Status = models.PrescriptionPending
		request.RejectionReason = ""
	}
	if request.Status == "" {
		request.Status = models.PrescriptionPending
	}
	if v := utils.ValidatePrescription(request); !v.IsValid {
		return nil, v
	}
	fillPatient(&request, session, form)

	var (
		saved *models.PrescriptionRequest
		err   error
	)
	if request.ID == "" {
		saved, err = s.backend.CreatePrescription(ctx, session.Token, request)
	} else {
		saved, err = s.backend.UpdatePrescription(ctx, session.Token, request.ID, request)
	}
	if err != nil {
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"prescription_id": request.ID})
		return nil, err
	}

	outcome := &models.SaveOutcome{Prescription: *saved}
	s.logger.Info("prescription saved",
		zap.String("prescription_id", saved.ID),
		zap.String("status", string(saved.Status)),
		zap.String("patient", utils.MaskName(saved.PatientName)))

	if s.upserts == nil || !admin {
		return outcome, nil
	}

	if v := utils.ValidateIdentityForm(form); !v.IsValid {
		s.logger.Info("patient record not updated: invalid contact fields", zap.String("errors", v.Error()))
		outcome.Warnings = append(outcome.Warnings, upsertWarning+": "+v.Error())
		return outcome, nil
	}

	upsert := s.upserts.Run(ctx, session.Token, form, s.backend.IdentityLookup(session.Token))
	outcome.Upsert = &upsert
	if upsert.Warning != "" {
		outcome.Warnings = append(outcome.Warnings, upsertWarning)
	}
	return outcome, nil
}

// UpdateStatus moves a request through the workflow and relays the
// backend's message
func (s *PrescriptionService) UpdateStatus(ctx context.Context, session *models.Session, id string, status models.PrescriptionStatus, reason string) (*models.SaveOutcome, error) {
	ctx, span := utils.TraceBusinessLogic(ctx, "prescription_update_status")
	defer span.End()

	update := models.PrescriptionStatusUpdate{Status: status, RejectionReason: strings.TrimSpace(reason)}
	if v := utils.ValidateStatusUpdate(update); !v.IsValid {
		return nil, v
	}

	saved, message, err := s.backend.UpdatePrescriptionStatus(ctx, session.Token, id, update)
	if err != nil {
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"prescription_id": id})
		return nil, err
	}
	if saved == nil {
		saved = &models.PrescriptionRequest{ID: id, Status: status, RejectionReason: update.RejectionReason}
	}

	s.logger.Info("prescription status changed",
		zap.String("prescription_id", id),
		zap.String("status", string(status)),
		zap.String("by", session.User.ID))
	return &models.SaveOutcome{Prescription: *saved, Message: message}, nil
}

// List returns the requests visible to session. params (status, ...) are
// forwarded; a patient's listing is always narrowed to their own requests.
func (s *PrescriptionService) List(ctx context.Context, session *models.Session, params url.Values) ([]models.PrescriptionRequest, error) {
	ctx, span := utils.TraceBusinessLogic(ctx, "prescription_list")
	defer span.End()

	query := url.Values{}
	for k, v := range params {
		query[k] = v
	}
	admin := session.User.IsAdmin()
	if !admin {
		query.Set("patientId", session.User.ID)
	}

	list, err := s.backend.ListPrescriptions(ctx, session.Token, query)
	if err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		return nil, err
	}
	if admin {
		return list, nil
	}
	// the backend applies patientId; anything it lets through for someone else is dropped
	own := make([]models.PrescriptionRequest, 0, len(list))
	for _, p := range list {
		if p.PatientID == session.User.ID {
			own = append(own, p)
		}
	}
	return own, nil
}

// Get returns the request, or nil when it does not exist or belongs to
// another patient
func (s *PrescriptionService) Get(ctx context.Context, session *models.Session, id string) (*models.PrescriptionRequest, error) {
	ctx, span := utils.TraceBusinessLogic(ctx, "prescription_get")
	defer span.End()

	p, err := s.backend.GetPrescription(ctx, session.Token, id)
	if err != nil {
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"prescription_id": id})
		return nil, err
	}
	if p == nil || (!session.User.IsAdmin() && p.PatientID != session.User.ID) {
		return nil, nil
	}
	return p, nil
}

// Delete removes a request
func (s *PrescriptionService) Delete(ctx context.Context, session *models.Session, id string) error {
	ctx, span := utils.TraceBusinessLogic(ctx, "prescription_delete")
	defer span.End()

	if err := s.backend.DeletePrescription(ctx, session.Token, id); err != nil {
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"prescription_id": id})
		return err
	}
	s.logger.Info("prescription deleted",
		zap.String("prescription_id", id),
		zap.String("by", session.User.ID))
	return nil
}
