package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/clinica-bage/app-rx/internal/config"
	"github.com/clinica-bage/app-rx/internal/models"
	"github.com/clinica-bage/app-rx/internal/observability"
	"github.com/clinica-bage/app-rx/internal/utils"
)

// Global session service instance
var SessionServiceInstance *SessionService

// SessionBackend is the part of the backend a session needs
type SessionBackend interface {
	Login(ctx context.Context, email, password string) (string, *models.Identity, error)
	Register(ctx context.Context, req models.RegisterRequest) (string, *models.Identity, error)
	Me(ctx context.Context, token string) (*models.Identity, error)
	UpdateProfile(ctx context.Context, token string, payload models.IdentityPayload) (*models.Identity, error)
}

// SessionService keeps the logged-in user's token and user snapshot in
// Redis for the lifetime of the token
type SessionService struct {
	backend SessionBackend
	cache   Cache
	ttl     time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

// NewSessionService creates a new session service
func NewSessionService(backend SessionBackend, cache Cache, ttl time.Duration, logger *zap.Logger) *SessionService {
	return &SessionService{
		backend: backend,
		cache:   cache,
		ttl:     ttl,
		now:     time.Now,
		logger:  logger,
	}
}

// InitSessionService initializes the global session service instance
func InitSessionService() {
	logger := zap.L().Named("session_service")
	var cache Cache
	if config.Redis != nil {
		cache = config.Redis
	}
	SessionServiceInstance = NewSessionService(BackendClientInstance, cache, config.AppConfig.SessionTTL, logger)
	logger.Info("session service initialized", zap.Duration("ttl", config.AppConfig.SessionTTL))
}

// SessionID derives the storage id of a token. Tokens are never used as
// keys directly.
func SessionID(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func sessionKey(id string) string {
	return "session:" + id
}

// ParseTokenClaims reads the claims of a bearer token without verifying
// its signature. Verification is the backend's job; the claims are only
// used to bound the session lifetime.
func ParseTokenClaims(token string) (*models.TokenClaims, error) {
	claims := &models.TokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidToken, err)
	}
	return claims, nil
}

// Login authenticates against the backend and opens a session
func (s *SessionService) Login(ctx context.Context, email, password string) (*models.Session, error) {
	token, _, err := s.backend.Login(ctx, email, password)
	if err != nil {
		s.logger.Info("login rejected", zap.String("email", utils.MaskEmail(email)), zap.Error(err))
		return nil, err
	}
	return s.Init(ctx, token)
}

// Register creates a patient account. When the backend logs the new user
// in, a session is opened as well; otherwise only the account is returned.
func (s *SessionService) Register(ctx context.Context, req models.RegisterRequest) (*models.Session, *models.Identity, error) {
	if v := utils.ValidateRegistration(req); !v.IsValid {
		return nil, nil, v
	}
	req.CPF = utils.OnlyDigits(req.CPF)
	req.Phone = utils.NormalizePhone(req.Phone)

	token, user, err := s.backend.Register(ctx, req)
	if err != nil {
		s.logger.Info("registration rejected", zap.String("email", utils.MaskEmail(req.Email)), zap.Error(err))
		return nil, nil, err
	}
	s.logger.Info("account registered", zap.String("email", utils.MaskEmail(req.Email)), zap.Bool("logged_in", token != ""))
	if token == "" {
		return nil, user, nil
	}

	session, err := s.Init(ctx, token)
	if err != nil {
		return nil, user, err
	}
	return session, &session.User, nil
}

// Init opens a session for a token issued by the backend
func (s *SessionService) Init(ctx context.Context, token string) (*models.Session, error) {
	if s.cache == nil {
		return nil, models.ErrSessionStore
	}

	ctx, span := utils.TraceBusinessLogic(ctx, "session_init")
	defer span.End()

	claims, err := ParseTokenClaims(token)
	if err != nil {
		return nil, err
	}

	now := s.now()
	ttl := s.ttl
	expiresAt := now.Add(ttl)
	if claims.ExpiresAt != nil {
		untilExpiry := claims.ExpiresAt.Time.Sub(now)
		if untilExpiry <= 0 {
			return nil, models.ErrSessionExpired
		}
		if untilExpiry < ttl {
			ttl = untilExpiry
			expiresAt = claims.ExpiresAt.Time
		}
	}

	user, err := s.backend.Me(ctx, token)
	if err != nil {
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"operation": "me"})
		return nil, err
	}
	if user == nil {
		return nil, models.ErrInvalidToken
	}

	session := &models.Session{
		ID:        SessionID(token),
		Token:     token,
		User:      *user,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}
	if err := s.store(ctx, session, ttl); err != nil {
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"operation": "store"})
		return nil, err
	}

	observability.SessionEvents.WithLabelValues("opened").Inc()
	s.logger.Info("session opened",
		zap.String("session", session.ID[:12]),
		zap.String("user", utils.MaskEmail(user.Email)),
		zap.String("role", string(user.Role)),
		zap.Duration("ttl", ttl))
	return session, nil
}

func (s *SessionService) store(ctx context.Context, session *models.Session, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.cache.Set(ctx, sessionKey(session.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// UpdateProfile patches the session user's own record and refreshes the
// stored snapshot for the rest of the session lifetime
func (s *SessionService) UpdateProfile(ctx context.Context, session *models.Session, payload models.IdentityPayload) (*models.Identity, error) {
	if s.cache == nil {
		return nil, models.ErrSessionStore
	}
	if v := utils.ValidateProfileUpdate(payload); !v.IsValid {
		return nil, v
	}
	payload.CPF = utils.OnlyDigits(payload.CPF)
	payload.Phone = utils.NormalizePhone(payload.Phone)
	// the role is never self-assigned
	payload.Role = ""

	ctx, span := utils.TraceBusinessLogic(ctx, "session_update_profile")
	defer span.End()

	user, err := s.backend.UpdateProfile(ctx, session.Token, payload)
	if err != nil {
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"operation": "update_profile"})
		return nil, err
	}
	if user == nil {
		return nil, models.ErrSessionNotFound
	}

	refreshed := *session
	refreshed.User = *user
	ttl := s.ttl
	if !session.ExpiresAt.IsZero() {
		ttl = session.ExpiresAt.Sub(s.now())
		if ttl <= 0 {
			return nil, models.ErrSessionExpired
		}
	}
	if err := s.store(ctx, &refreshed, ttl); err != nil {
		// the backend already holds the new profile; the snapshot catches up on next login
		s.logger.Warn("profile updated but session snapshot not refreshed", zap.Error(err))
		return user, nil
	}

	observability.SessionEvents.WithLabelValues("refreshed").Inc()
	s.logger.Info("profile updated", zap.String("user", user.ID))
	return user, nil
}

// Get returns the stored session for token
func (s *SessionService) Get(ctx context.Context, token string) (*models.Session, error) {
	if s.cache == nil {
		return nil, models.ErrSessionStore
	}
	key := sessionKey(SessionID(token))
	ctx, span := utils.TraceCacheGet(ctx, key)
	defer span.End()

	raw, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			observability.CacheHits.WithLabelValues("session_miss").Inc()
			return nil, models.ErrSessionNotFound
		}
		return nil, fmt.Errorf("read session: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		s.logger.Warn("discarding corrupt session", zap.Error(err))
		_ = s.cache.Del(ctx, key).Err()
		return nil, models.ErrSessionNotFound
	}
	if session.Expired(s.now()) {
		_ = s.cache.Del(ctx, key).Err()
		return nil, models.ErrSessionExpired
	}

	observability.CacheHits.WithLabelValues("session").Inc()
	return &session, nil
}

// Teardown removes the session for token. Removing a missing session is
// not an error.
func (s *SessionService) Teardown(ctx context.Context, token string) error {
	if s.cache == nil {
		return models.ErrSessionStore
	}
	key := sessionKey(SessionID(token))
	removed, err := s.cache.Del(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("remove session: %w", err)
	}
	if removed > 0 {
		observability.SessionEvents.WithLabelValues("closed").Inc()
		s.logger.Info("session closed", zap.String("session", SessionID(token)[:12]))
	}
	return nil
}
