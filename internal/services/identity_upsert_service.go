package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clinica-bage/app-rx/internal/config"
	"github.com/clinica-bage/app-rx/internal/models"
	"github.com/clinica-bage/app-rx/internal/observability"
	"github.com/clinica-bage/app-rx/internal/utils"
)

// Global identity upsert service instance
var IdentityUpsertServiceInstance *IdentityUpsertService

// maxPlaceholderDraws bounds the checked generator
const maxPlaceholderDraws = 5

// IdentityLookup finds the backend identity holding a CPF. A nil identity
// with a nil error means none exists.
type IdentityLookup interface {
	FindByTaxID(ctx context.Context, taxID string) (*models.Identity, error)
}

// IdentityLookupFunc adapts a function to IdentityLookup
type IdentityLookupFunc func(ctx context.Context, taxID string) (*models.Identity, error)

// FindByTaxID implements IdentityLookup
func (f IdentityLookupFunc) FindByTaxID(ctx context.Context, taxID string) (*models.Identity, error) {
	return f(ctx, taxID)
}

// IdentityWriter creates and patches backend identities
type IdentityWriter interface {
	CreatePatient(ctx context.Context, token string, payload models.IdentityPayload) (*models.Identity, error)
	UpdatePatient(ctx context.Context, token, id string, payload models.IdentityPayload) (*models.Identity, error)
}

// PlaceholderTaxIDGenerator draws an 11-digit CPF for identities that
// arrive without one
type PlaceholderTaxIDGenerator interface {
	Name() string
	Generate(ctx context.Context, lookup IdentityLookup) (string, error)
}

func randomTaxID() string {
	var b strings.Builder
	b.Grow(utils.CPFLength)
	for i := 0; i < utils.CPFLength; i++ {
		b.WriteByte(byte('0' + rand.IntN(10)))
	}
	return b.String()
}

// RandomTaxIDGenerator draws random digits without checking whether the
// result already belongs to someone. Two patients without a CPF can
// collide.
type RandomTaxIDGenerator struct {
	draw func() string
}

// NewRandomTaxIDGenerator creates the default generator
func NewRandomTaxIDGenerator() *RandomTaxIDGenerator {
	return &RandomTaxIDGenerator{draw: randomTaxID}
}

// Name implements PlaceholderTaxIDGenerator
func (g *RandomTaxIDGenerator) Name() string { return config.PlaceholderRandom }

// Generate implements PlaceholderTaxIDGenerator
func (g *RandomTaxIDGenerator) Generate(ctx context.Context, lookup IdentityLookup) (string, error) {
	return g.draw(), nil
}

// CheckedTaxIDGenerator re-draws until the lookup reports the CPF as free
type CheckedTaxIDGenerator struct {
	draw        func() string
	maxAttempts int
}

// NewCheckedTaxIDGenerator creates the collision-checking generator
func NewCheckedTaxIDGenerator() *CheckedTaxIDGenerator {
	return &CheckedTaxIDGenerator{draw: randomTaxID, maxAttempts: maxPlaceholderDraws}
}

// Name implements PlaceholderTaxIDGenerator
func (g *CheckedTaxIDGenerator) Name() string { return config.PlaceholderChecked }

// Generate implements PlaceholderTaxIDGenerator
func (g *CheckedTaxIDGenerator) Generate(ctx context.Context, lookup IdentityLookup) (string, error) {
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		candidate := g.draw()
		existing, err := lookup.FindByTaxID(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check placeholder tax id: %w", err)
		}
		if existing == nil {
			return candidate, nil
		}
	}
	return "", models.ErrPlaceholderExhaust
}

// NewPlaceholderTaxIDGenerator returns the generator for strategy
func NewPlaceholderTaxIDGenerator(strategy string) PlaceholderTaxIDGenerator {
	if strategy == config.PlaceholderChecked {
		return NewCheckedTaxIDGenerator()
	}
	return NewRandomTaxIDGenerator()
}

// IdentityUpsertService decides whether a prescription form creates or
// patches a backend identity, and carries the decision out
type IdentityUpsertService struct {
	writer      IdentityWriter
	generator   PlaceholderTaxIDGenerator
	emailDomain string
	suffix      func() string
	logger      *zap.Logger
}

// NewIdentityUpsertService creates a new identity upsert service
func NewIdentityUpsertService(writer IdentityWriter, generator PlaceholderTaxIDGenerator, emailDomain string, logger *zap.Logger) *IdentityUpsertService {
	if generator == nil {
		generator = NewRandomTaxIDGenerator()
	}
	return &IdentityUpsertService{
		writer:      writer,
		generator:   generator,
		emailDomain: emailDomain,
		suffix:      func() string { return strings.ReplaceAll(uuid.NewString(), "-", "")[:8] },
		logger:      logger,
	}
}

// InitIdentityUpsertService initializes the global identity upsert service instance
func InitIdentityUpsertService() {
	logger := zap.L().Named("identity_upsert_service")

	IdentityUpsertServiceInstance = NewIdentityUpsertService(
		BackendClientInstance,
		NewPlaceholderTaxIDGenerator(config.AppConfig.PlaceholderTaxIDStrategy),
		config.AppConfig.PlaceholderEmailDomain,
		logger,
	)

	logger.Info("identity upsert service initialized",
		zap.String("placeholder_strategy", IdentityUpsertServiceInstance.generator.Name()),
		zap.String("placeholder_email_domain", config.AppConfig.PlaceholderEmailDomain))
}

func (s *IdentityUpsertService) placeholderEmail(taxID string) string {
	return fmt.Sprintf("patient%s%s@%s", taxID, s.suffix(), s.emailDomain)
}

// Decide works out what to do with form. Nothing is written; the only
// network traffic is the lookup. A form without a phone is skipped
// without any lookup.
func (s *IdentityUpsertService) Decide(ctx context.Context, form models.IdentityForm, lookup IdentityLookup) (models.UpsertDecision, error) {
	ctx, span := utils.TraceBusinessLogic(ctx, "identity_upsert_decide")
	defer span.End()

	phone := utils.NormalizePhone(form.Phone)
	if phone == "" {
		return models.UpsertDecision{Action: models.UpsertActionSkip}, nil
	}

	decision := models.UpsertDecision{}
	taxID := utils.OnlyDigits(form.TaxID)
	if len(taxID) != utils.CPFLength {
		drawn, err := s.generator.Generate(ctx, lookup)
		if err != nil {
			utils.RecordErrorInSpan(span, err, map[string]interface{}{"strategy": s.generator.Name()})
			return models.UpsertDecision{}, fmt.Errorf("draw placeholder tax id: %w", err)
		}
		taxID = drawn
		decision.PlaceholderTaxID = true
		observability.PlaceholderTaxIDs.WithLabelValues(s.generator.Name()).Inc()
		s.logger.Warn("drew placeholder tax id for identity without one",
			zap.String("strategy", s.generator.Name()),
			zap.String("cpf", observability.MaskCPF(taxID)))
	}

	existing, err := lookup.FindByTaxID(ctx, taxID)
	if err != nil {
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"operation": "lookup"})
		return models.UpsertDecision{}, fmt.Errorf("look up identity: %w", err)
	}

	if existing != nil {
		if decision.PlaceholderTaxID {
			s.logger.Warn("placeholder tax id matched an existing identity",
				zap.String("identity_id", existing.ID),
				zap.String("cpf", observability.MaskCPF(taxID)))
		}
		// only the phone is patched, even when other fields changed
		s.logger.Debug("existing identity found, patching phone only",
			zap.String("identity_id", existing.ID))
		decision.Action = models.UpsertActionUpdate
		decision.TargetID = existing.ID
		decision.Payload = models.IdentityPayload{Phone: phone}
		utils.AddSpanAttribute(span, "upsert.action", string(decision.Action))
		return decision, nil
	}

	email := strings.TrimSpace(form.Email)
	if email == "" {
		email = s.placeholderEmail(taxID)
		decision.PlaceholderEmail = true
	}

	decision.Action = models.UpsertActionCreate
	decision.Payload = models.IdentityPayload{
		Name:  strings.TrimSpace(form.FullName),
		CPF:   taxID,
		Phone: phone,
		Email: email,
		Role:  models.RolePatient,
	}
	if !form.Address.IsEmpty() {
		address := form.Address
		address.PostalCode = utils.NormalizeCEP(address.PostalCode)
		decision.Payload.Address = &address
	}
	utils.AddSpanAttribute(span, "upsert.action", string(decision.Action))
	return decision, nil
}

// Execute carries out decision with the caller's token. Failures are
// logged and reported as a warning on the outcome, never returned.
func (s *IdentityUpsertService) Execute(ctx context.Context, token string, decision models.UpsertDecision) models.UpsertOutcome {
	outcome := models.UpsertOutcome{Decision: decision}
	if decision.Action == models.UpsertActionSkip {
		observability.IdentityUpserts.WithLabelValues(string(decision.Action), "skipped").Inc()
		return outcome
	}

	ctx, span := utils.TraceBusinessLogic(ctx, "identity_upsert_execute")
	defer span.End()

	var (
		identity *models.Identity
		err      error
	)
	switch decision.Action {
	case models.UpsertActionCreate:
		identity, err = s.writer.CreatePatient(ctx, token, decision.Payload)
	case models.UpsertActionUpdate:
		identity, err = s.writer.UpdatePatient(ctx, token, decision.TargetID, decision.Payload)
	default:
		err = fmt.Errorf("unknown upsert action %q", decision.Action)
	}

	if err != nil {
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"action": string(decision.Action)})
		s.logger.Warn("identity upsert failed",
			zap.String("action", string(decision.Action)),
			zap.String("target_id", decision.TargetID),
			zap.Error(err))
		observability.IdentityUpserts.WithLabelValues(string(decision.Action), "failed").Inc()
		outcome.Warning = fmt.Sprintf("patient record %s failed: %v", decision.Action, err)
		return outcome
	}

	s.logger.Info("identity upserted",
		zap.String("action", string(decision.Action)),
		zap.String("name", utils.MaskName(decision.Payload.Name)),
		zap.String("email", utils.MaskEmail(decision.Payload.Email)))
	observability.IdentityUpserts.WithLabelValues(string(decision.Action), "success").Inc()
	outcome.Identity = identity
	return outcome
}

// Run decides and executes in one step. Like Execute it never fails:
// a decision error becomes the outcome's warning.
func (s *IdentityUpsertService) Run(ctx context.Context, token string, form models.IdentityForm, lookup IdentityLookup) models.UpsertOutcome {
	decision, err := s.Decide(ctx, form, lookup)
	if err != nil {
		s.logger.Warn("identity upsert decision failed", zap.Error(err))
		observability.IdentityUpserts.WithLabelValues("decide", "failed").Inc()
		return models.UpsertOutcome{
			Decision: models.UpsertDecision{Action: models.UpsertActionSkip},
			Warning:  fmt.Sprintf("patient record lookup failed: %v", err),
		}
	}
	return s.Execute(ctx, token, decision)
}
