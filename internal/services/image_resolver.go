package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"

	"github.com/clinica-bage/app-rx/internal/config"
	"github.com/clinica-bage/app-rx/internal/models"
	"github.com/clinica-bage/app-rx/internal/observability"
	"github.com/clinica-bage/app-rx/internal/utils"
	"github.com/clinica-bage/app-rx/internal/utils/httpclient"
)

// Global image resolver instance
var ImageResolverInstance *ImageResolver

var schemePrefix = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*:`)

// ObjectProber reports whether an object exists in the image store
type ObjectProber interface {
	Exists(ctx context.Context, key string) (bool, error)
}

// MinIOProber checks profile images in a MinIO bucket
type MinIOProber struct {
	client *minio.Client
	bucket string
}

// NewMinIOProber creates a prober for bucket
func NewMinIOProber(client *minio.Client, bucket string) *MinIOProber {
	return &MinIOProber{client: client, bucket: bucket}
}

// Exists implements ObjectProber
func (p *MinIOProber) Exists(ctx context.Context, key string) (bool, error) {
	_, err := p.client.StatObject(ctx, p.bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	return false, err
}

// ImageResolverConfig configures where profile images may live
type ImageResolverConfig struct {
	// BaseURL is the origin relative references are resolved against
	BaseURL       string
	PrimaryPath   string
	FallbackPaths []string
}

// ImageResolver turns opaque image references into candidate URLs
type ImageResolver struct {
	baseURL       string
	primaryPath   string
	fallbackPaths []string
	client        *http.Client
	prober        ObjectProber
	logger        *zap.Logger
}

// NewImageResolver creates a new image resolver. client and prober are
// only needed by ResolveAvailable; prober may be nil.
func NewImageResolver(cfg ImageResolverConfig, client *http.Client, prober ObjectProber, logger *zap.Logger) *ImageResolver {
	fallbacks := make([]string, 0, len(cfg.FallbackPaths))
	for _, p := range cfg.FallbackPaths {
		fallbacks = append(fallbacks, storagePath(p))
	}
	return &ImageResolver{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		primaryPath:   storagePath(cfg.PrimaryPath),
		fallbackPaths: fallbacks,
		client:        client,
		prober:        prober,
		logger:        logger,
	}
}

// InitImageResolver initializes the global image resolver instance
func InitImageResolver() {
	logger := zap.L().Named("image_resolver")

	var prober ObjectProber
	if config.ObjectStorage != nil {
		prober = NewMinIOProber(config.ObjectStorage, config.AppConfig.MinIOBucket)
	}

	ImageResolverInstance = NewImageResolver(
		ImageResolverConfig{
			BaseURL:       config.AppConfig.ImageBaseURL,
			PrimaryPath:   config.AppConfig.ImagePrimaryPath,
			FallbackPaths: config.AppConfig.ImageFallbackPaths,
		},
		httpclient.New(config.AppConfig.ImageProbeTimeout),
		prober,
		logger,
	)

	logger.Info("image resolver initialized",
		zap.String("base_url", config.AppConfig.ImageBaseURL),
		zap.String("primary_path", config.AppConfig.ImagePrimaryPath),
		zap.Strings("fallback_paths", config.AppConfig.ImageFallbackPaths),
		zap.Bool("object_storage", prober != nil))
}

// storagePath renders p as /segment/.../
func storagePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return "/"
	}
	return "/" + p + "/"
}

// IsAbsoluteImageRef reports whether ref already is a full URL, including
// data: and blob: URLs and protocol-relative //host/path references.
func IsAbsoluteImageRef(ref models.ImageReference) bool {
	r := strings.TrimSpace(string(ref))
	return schemePrefix.MatchString(r) || strings.HasPrefix(r, "//")
}

// normalizeRef cleans a relative reference into an escaped path without a
// leading slash
func normalizeRef(ref string) string {
	r := strings.ReplaceAll(strings.TrimSpace(ref), `\`, "/")
	segments := make([]string, 0, 4)
	for _, seg := range strings.Split(r, "/") {
		if seg == "" || seg == "." {
			continue
		}
		segments = append(segments, url.PathEscape(seg))
	}
	return strings.Join(segments, "/")
}

// storagePaths is the primary path followed by the fallback paths
func (r *ImageResolver) storagePaths() []string {
	return append([]string{r.primaryPath}, r.fallbackPaths...)
}

// split returns the normalized reference and, when it already starts with
// one of the storage paths, that path
func (r *ImageResolver) split(ref models.ImageReference) (rel string, rooted bool) {
	rel = normalizeRef(string(ref))
	for _, p := range r.storagePaths() {
		if p != "/" && strings.HasPrefix("/"+rel, p) {
			return rel, true
		}
	}
	return rel, false
}

// PrimaryURL resolves ref against the primary storage path. Absolute
// references are returned unchanged.
func (r *ImageResolver) PrimaryURL(ref models.ImageReference) string {
	raw := strings.TrimSpace(string(ref))
	if raw == "" {
		return ""
	}
	if IsAbsoluteImageRef(ref) {
		return raw
	}

	rel, rooted := r.split(ref)
	if rel == "" {
		return ""
	}
	if rooted {
		return r.baseURL + "/" + rel
	}
	return r.baseURL + r.primaryPath + rel
}

// FallbackChain lists the alternate URLs for ref in order, without the
// primary URL or duplicates. Absolute and empty references have none.
func (r *ImageResolver) FallbackChain(ref models.ImageReference) []string {
	chain := []string{}
	if IsAbsoluteImageRef(ref) {
		return chain
	}
	primary := r.PrimaryURL(ref)
	if primary == "" {
		return chain
	}

	rel, rooted := r.split(ref)
	if rooted {
		// strip the storage path the reference came with
		for _, p := range r.storagePaths() {
			if p != "/" && strings.HasPrefix("/"+rel, p) {
				rel = strings.TrimPrefix("/"+rel, p)
				break
			}
		}
	}

	seen := map[string]bool{primary: true}
	for _, p := range r.storagePaths() {
		u := r.baseURL + p + rel
		if seen[u] {
			continue
		}
		seen[u] = true
		chain = append(chain, u)
	}
	return chain
}

// Candidates is the primary URL followed by the fallback chain
func (r *ImageResolver) Candidates(ref models.ImageReference) []string {
	primary := r.PrimaryURL(ref)
	if primary == "" {
		return nil
	}
	return append([]string{primary}, r.FallbackChain(ref)...)
}

// Resolve describes every URL a client may try for ref
func (r *ImageResolver) Resolve(ref models.ImageReference) models.ImageResolution {
	return models.ImageResolution{
		Ref:       ref,
		Absolute:  IsAbsoluteImageRef(ref),
		Primary:   r.PrimaryURL(ref),
		Fallbacks: r.FallbackChain(ref),
	}
}

// nextCandidate returns the first candidate after current that is not in
// tried. A current URL outside the list starts the scan from the top.
func nextCandidate(candidates []string, current string, tried map[string]bool) (string, bool) {
	start := 0
	for i, c := range candidates {
		if c == current {
			start = i + 1
			break
		}
	}
	for _, c := range candidates[start:] {
		if !tried[c] {
			return c, true
		}
	}
	return "", false
}

// OnLoadError is the stateless form of ImageLoadAttempt.OnLoadError: the
// caller supplies the URLs it has already tried. onExhausted runs when no
// untried candidate follows current.
func (r *ImageResolver) OnLoadError(current string, ref models.ImageReference, tried []string, onExhausted func()) (string, bool) {
	seen := make(map[string]bool, len(tried)+1)
	for _, t := range tried {
		seen[t] = true
	}
	seen[current] = true

	next, ok := nextCandidate(r.Candidates(ref), current, seen)
	if !ok && onExhausted != nil {
		onExhausted()
	}
	return next, ok
}

// ImageLoadAttempt walks the candidates of one reference as loads fail.
// It never hands out a URL twice and reports exhaustion exactly once.
type ImageLoadAttempt struct {
	mu         sync.Mutex
	candidates []string
	tried      map[string]bool
	exhausted  bool
}

// NewImageLoadAttempt starts an attempt for ref. The primary URL counts as
// handed out.
func (r *ImageResolver) NewImageLoadAttempt(ref models.ImageReference) *ImageLoadAttempt {
	a := &ImageLoadAttempt{
		candidates: r.Candidates(ref),
		tried:      map[string]bool{},
	}
	if len(a.candidates) > 0 {
		a.tried[a.candidates[0]] = true
	}
	return a
}

// First returns the URL to load first, "" when ref resolves to nothing
func (a *ImageLoadAttempt) First() string {
	if len(a.candidates) == 0 {
		return ""
	}
	return a.candidates[0]
}

// OnLoadError records that currentURL failed and returns the next
// candidate. When none is left, onExhausted is called (only on the first
// exhaustion) and ok is false.
func (a *ImageLoadAttempt) OnLoadError(currentURL string, onExhausted func()) (next string, ok bool) {
	a.mu.Lock()
	a.tried[currentURL] = true
	if a.exhausted {
		a.mu.Unlock()
		return "", false
	}

	next, ok = nextCandidate(a.candidates, currentURL, a.tried)
	if ok {
		a.tried[next] = true
		a.mu.Unlock()
		return next, true
	}

	a.exhausted = true
	a.mu.Unlock()
	if onExhausted != nil {
		onExhausted()
	}
	return "", false
}

// Exhausted reports whether every candidate has failed
func (a *ImageLoadAttempt) Exhausted() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.exhausted
}

// ResolveAvailable probes the candidates of ref in order and returns the
// first one that can be loaded. The primary image is checked in object
// storage when a prober is configured; every candidate is checked over
// HTTP. ErrImageUnavailable is returned when nothing loads.
func (r *ImageResolver) ResolveAvailable(ctx context.Context, ref models.ImageReference) (string, error) {
	ctx, span := utils.TraceBusinessLogic(ctx, "image_resolve_available")
	defer span.End()

	candidates := r.Candidates(ref)
	if len(candidates) == 0 {
		return "", models.ErrImageUnavailable
	}

	raw := strings.TrimSpace(string(ref))
	if strings.HasPrefix(raw, "data:") || strings.HasPrefix(raw, "blob:") {
		// inline or client-local; nothing to probe
		return raw, nil
	}

	for i, candidate := range candidates {
		if i == 0 && r.prober != nil && !IsAbsoluteImageRef(ref) {
			key := r.objectKey(ref)
			exists, err := r.prober.Exists(ctx, key)
			switch {
			case err != nil:
				r.logger.Warn("object storage probe failed, falling back to HTTP",
					zap.String("key", key), zap.Error(err))
			case exists:
				observability.ImageResolutions.WithLabelValues("object_storage", "found").Inc()
				return candidate, nil
			default:
				observability.ImageResolutions.WithLabelValues("object_storage", "missing").Inc()
				continue
			}
		}

		if r.probeHTTP(ctx, candidate) {
			observability.ImageResolutions.WithLabelValues("http", "found").Inc()
			return candidate, nil
		}
		observability.ImageResolutions.WithLabelValues("http", "missing").Inc()
	}

	r.logger.Debug("no image candidate available", zap.String("ref", string(ref)), zap.Int("candidates", len(candidates)))
	return "", models.ErrImageUnavailable
}

// objectKey is the reference relative to the primary storage path
func (r *ImageResolver) objectKey(ref models.ImageReference) string {
	rel := normalizeRef(string(ref))
	if unescaped, err := url.PathUnescape(rel); err == nil {
		rel = unescaped
	}
	return strings.TrimLeft(strings.TrimPrefix("/"+rel, r.primaryPath), "/")
}

func (r *ImageResolver) probeHTTP(ctx context.Context, u string) bool {
	if r.client == nil {
		return false
	}
	for _, method := range []string{http.MethodHead, http.MethodGet} {
		status, err := r.request(ctx, method, u)
		if err != nil {
			r.logger.Debug("image probe failed", zap.String("url", u), zap.Error(err))
			return false
		}
		if status != http.StatusMethodNotAllowed {
			return status >= 200 && status < 300
		}
	}
	return false
}

func (r *ImageResolver) request(ctx context.Context, method, u string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return 0, fmt.Errorf("build probe request: %w", err)
	}
	if method == http.MethodGet {
		req.Header.Set("Range", "bytes=0-0")
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}
