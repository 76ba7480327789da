package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/clinica-bage/app-rx/internal/config"
	"github.com/clinica-bage/app-rx/internal/models"
	"github.com/clinica-bage/app-rx/internal/observability"
	"github.com/clinica-bage/app-rx/internal/utils"
	"github.com/clinica-bage/app-rx/internal/utils/httpclient"
)

// Global postal lookup service instance
var PostalLookupServiceInstance *PostalLookupService

// PostalLookupConfig configures the ViaCEP adapter
type PostalLookupConfig struct {
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
	Retry    RetryConfig
}

// PostalLookupService resolves Brazilian postal codes through ViaCEP.
// Lookups never fail the caller: every outcome is reported as a status.
type PostalLookupService struct {
	baseURL  string
	timeout  time.Duration
	cacheTTL time.Duration
	retry    RetryConfig
	client   *http.Client
	cache    Cache
	limiter  *RateLimiter
	logger   *zap.Logger
}

// NewPostalLookupService creates a new postal lookup service. cache and
// limiter are optional.
func NewPostalLookupService(cfg PostalLookupConfig, client *http.Client, cache Cache, limiter *RateLimiter, logger *zap.Logger) *PostalLookupService {
	return &PostalLookupService{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		timeout:  cfg.Timeout,
		cacheTTL: cfg.CacheTTL,
		retry:    cfg.Retry,
		client:   client,
		cache:    cache,
		limiter:  limiter,
		logger:   logger,
	}
}

// InitPostalLookupService initializes the global postal lookup service instance
func InitPostalLookupService() {
	logger := zap.L().Named("postal_lookup_service")

	retry := DefaultRetryConfig()
	retry.MaxRetries = config.AppConfig.PostalLookupMaxRetries

	var cache Cache
	if config.Redis != nil {
		cache = config.Redis
	}

	PostalLookupServiceInstance = NewPostalLookupService(
		PostalLookupConfig{
			BaseURL:  config.AppConfig.PostalLookupURL,
			Timeout:  config.AppConfig.PostalLookupTimeout,
			CacheTTL: config.AppConfig.PostalCacheTTL,
			Retry:    retry,
		},
		httpclient.New(config.AppConfig.PostalLookupTimeout),
		cache,
		NewPerMinuteRateLimiter(config.AppConfig.PostalRateLimit, logger),
		logger,
	)

	logger.Info("postal lookup service initialized",
		zap.String("base_url", config.AppConfig.PostalLookupURL),
		zap.Duration("timeout", config.AppConfig.PostalLookupTimeout),
		zap.Int("rate_limit_per_minute", config.AppConfig.PostalRateLimit))
}

func postalCacheKey(code string) string {
	return "postal:cep:" + code
}

// Lookup resolves a postal code. Codes that do not have exactly 8 digits
// are skipped without a network call.
func (s *PostalLookupService) Lookup(ctx context.Context, postalCode string) models.PostalLookupResult {
	code := utils.OnlyDigits(postalCode)
	if len(code) != utils.CEPLength {
		observability.PostalLookups.WithLabelValues(string(models.PostalLookupSkipped)).Inc()
		return models.PostalLookupResult{PostalCode: code, Status: models.PostalLookupSkipped}
	}

	ctx, span := utils.TraceExternalService(ctx, "viacep", "lookup")
	defer span.End()
	utils.AddSpanAttribute(span, "postal_code", code)

	if address, ok := s.getCached(ctx, code); ok {
		observability.PostalLookups.WithLabelValues(string(models.PostalLookupFound)).Inc()
		return models.PostalLookupResult{PostalCode: code, Status: models.PostalLookupFound, Address: address, Cached: true}
	}

	if !s.limiter.Allow(ctx, "postal_lookup") {
		observability.PostalLookups.WithLabelValues(string(models.PostalLookupFailed)).Inc()
		return models.PostalLookupResult{PostalCode: code, Status: models.PostalLookupFailed, Message: "postal code lookup is rate limited"}
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var body models.ViaCEPResponse
	err := withRetry(ctx, s.retry, s.logger, "postal_lookup", func(ctx context.Context) error {
		return s.fetch(ctx, code, &body)
	})
	if err != nil {
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"postal_code": code})
		s.logger.Warn("postal code lookup failed",
			zap.String("postal_code", code),
			zap.Error(err))
		observability.PostalLookups.WithLabelValues(string(models.PostalLookupFailed)).Inc()
		return models.PostalLookupResult{PostalCode: code, Status: models.PostalLookupFailed, Message: "postal code lookup failed"}
	}

	if body.Erro {
		s.logger.Debug("postal code not found", zap.String("postal_code", code))
		observability.PostalLookups.WithLabelValues(string(models.PostalLookupNotFound)).Inc()
		return models.PostalLookupResult{PostalCode: code, Status: models.PostalLookupNotFound}
	}

	address := &models.Address{
		PostalCode:   code,
		Street:       strings.TrimSpace(body.Logradouro),
		Neighborhood: strings.TrimSpace(body.Bairro),
		City:         strings.TrimSpace(body.Localidade),
		StateCode:    strings.ToUpper(strings.TrimSpace(body.UF)),
	}
	s.setCached(ctx, code, address)

	observability.PostalLookups.WithLabelValues(string(models.PostalLookupFound)).Inc()
	return models.PostalLookupResult{PostalCode: code, Status: models.PostalLookupFound, Address: address}
}

func (s *PostalLookupService) fetch(ctx context.Context, code string, out *models.ViaCEPResponse) error {
	url := fmt.Sprintf("%s/%s/json/", s.baseURL, code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return permanent(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("request postal code: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return fmt.Errorf("postal service returned status %d", resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return permanent(fmt.Errorf("postal service returned status %d", resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read postal response: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return permanent(fmt.Errorf("decode postal response: %w", err))
	}
	return nil
}

func (s *PostalLookupService) getCached(ctx context.Context, code string) (*models.Address, bool) {
	if s.cache == nil {
		return nil, false
	}

	key := postalCacheKey(code)
	ctx, span := utils.TraceCacheGet(ctx, key)
	defer span.End()

	raw, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("postal cache read failed", zap.String("key", key), zap.Error(err))
		}
		observability.CacheHits.WithLabelValues("postal_lookup_miss").Inc()
		return nil, false
	}

	var address models.Address
	if err := json.Unmarshal([]byte(raw), &address); err != nil {
		s.logger.Warn("discarding corrupt postal cache entry", zap.String("key", key), zap.Error(err))
		observability.CacheHits.WithLabelValues("postal_lookup_miss").Inc()
		return nil, false
	}

	s.logger.Debug("postal code served from cache", zap.String("postal_code", code))
	observability.CacheHits.WithLabelValues("postal_lookup").Inc()
	return &address, true
}

func (s *PostalLookupService) setCached(ctx context.Context, code string, address *models.Address) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}

	key := postalCacheKey(code)
	ctx, span := utils.TraceCacheSet(ctx, key, s.cacheTTL)
	defer span.End()

	data, err := json.Marshal(address)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("postal cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// LookupLatest runs Lookup for code on behalf of a form field tracked by
// tracker. When the field has moved on to another code by the time the
// response arrives, the result is reported as stale and carries no address.
func (s *PostalLookupService) LookupLatest(ctx context.Context, tracker *PostalLookupTracker, code string) models.PostalLookupResult {
	return s.LookupTicket(ctx, tracker, tracker.Begin(code))
}

// LookupTicket runs the lookup for a ticket already issued by tracker.
// Callers that must record the field's value before the lookup is
// scheduled take the ticket themselves.
func (s *PostalLookupService) LookupTicket(ctx context.Context, tracker *PostalLookupTracker, ticket PostalLookupTicket) models.PostalLookupResult {
	result := s.Lookup(ctx, ticket.PostalCode)
	if !tracker.Accept(ticket) {
		s.logger.Debug("discarding stale postal lookup",
			zap.String("postal_code", ticket.PostalCode),
			zap.String("current", tracker.Current()))
		return models.PostalLookupResult{PostalCode: ticket.PostalCode, Status: models.PostalLookupStale}
	}
	return result
}

// ApplyPostalLookup fills street, neighborhood, city and state from a
// found result. Number and complement are never touched, and any other
// outcome leaves current unchanged.
func ApplyPostalLookup(current models.Address, result models.PostalLookupResult) models.Address {
	if result.Status != models.PostalLookupFound || result.Address == nil {
		return current
	}
	current.PostalCode = result.PostalCode
	current.Street = result.Address.Street
	current.Neighborhood = result.Address.Neighborhood
	current.City = result.Address.City
	current.StateCode = result.Address.StateCode
	return current
}
