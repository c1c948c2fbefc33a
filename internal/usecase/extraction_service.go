package usecase

import (
	"context"
	"log"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/orderlens/backend/internal/domain"
)

// RecordStoreKey is the well-known key the latest extracted record is
// stashed under, so a fill pass on a different page can pick it up.
const RecordStoreKey = "record:latest"

var cacheKeyCleanPattern = regexp.MustCompile(`\s+`)

// ExtractionServiceConfig holds configuration for the extraction service.
type ExtractionServiceConfig struct {
	CacheTTL           time.Duration // classification cache window
	StoreTTL           time.Duration // extracted record retention
	EnableDebugLogging bool
}

// ExtractionService runs the full pipeline: normalize -> extract -> classify,
// with a TTL cache for classification and best-effort record persistence.
// Flow mirrors the extension: the user triggers "extract" on an order page,
// later triggers "fill" on the grievance portal.
type ExtractionService struct {
	normalizer *Normalizer
	orderID    *KeywordTokenExtractor
	tracking   *KeywordTokenExtractor
	price      *PriceExtractor
	dates      *DateExtractor
	seller     *SellerExtractor
	product    *ProductExtractor
	contact    *ContactExtractor
	classifier *Classifier

	cache    domain.ClassificationCache
	store    domain.RecordStore
	cacheTTL time.Duration
	storeTTL time.Duration

	// inflight collapses concurrent classification requests for one page so
	// at most one fresh computation runs per key per cache window.
	mu       sync.Mutex
	inflight map[string]*inflightCall

	enableDebugLogging bool
}

type inflightCall struct {
	done   chan struct{}
	result *domain.ClassificationResult
}

// NewExtractionService wires the engine together. cache and store may be nil
// for a purely in-process host.
func NewExtractionService(
	cache domain.ClassificationCache,
	store domain.RecordStore,
	classifier *Classifier,
	config ExtractionServiceConfig,
) *ExtractionService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 5 * time.Minute
	}
	storeTTL := config.StoreTTL
	if storeTTL == 0 {
		storeTTL = 24 * time.Hour
	}

	debug := config.EnableDebugLogging
	return &ExtractionService{
		normalizer: NewNormalizer(debug),
		orderID:    NewOrderIDExtractor(debug),
		tracking:   NewTrackingExtractor(debug),
		price:      NewPriceExtractor(debug),
		dates:      NewDateExtractor(debug),
		seller:     NewSellerExtractor(debug),
		product:    NewProductExtractor(debug),
		contact:    NewContactExtractor(debug),
		classifier: classifier,
		cache:      cache,
		store:      store,
		cacheTTL:   cacheTTL,
		storeTTL:   storeTTL,
		inflight:   make(map[string]*inflightCall),

		enableDebugLogging: debug,
	}
}

// ExtractRecord scrapes a structured record out of raw page text. The record
// is persisted under RecordStoreKey only when the strict-mode classification
// accepts the page, so browse pages never pollute the store. The record and
// classification are returned either way for the caller's review UI.
func (s *ExtractionService) ExtractRecord(
	ctx context.Context,
	url, rawText string,
	headings []string,
) (*domain.ExtractedRecord, *domain.ClassificationResult, error) {
	if rawText == "" {
		return nil, nil, domain.ErrInvalidInput
	}

	text := s.normalizer.NormalizeLimit(rawText, ExtractorTextLimit)
	record := &domain.ExtractedRecord{SourceURL: url}

	setBest := func(fieldName string, candidates []domain.Candidate, floor float64) {
		if best, ok := bestCandidate(candidates, floor); ok {
			record.SetField(fieldName, best.Value, domain.FieldDiagnostic{
				Confidence: best.Score,
				Method:     best.Method,
			})
		}
	}

	setBest(domain.FieldOrderID, s.orderID.Extract(text), minOrderIDScore)
	setBest(domain.FieldTrackingNumber, s.tracking.Extract(text), minTrackingScore)
	setBest(domain.FieldPrice, s.price.Extract(text), minPriceScore)

	orderDates, deliveryDates := s.dates.Extract(text)
	setBest(domain.FieldOrderDate, orderDates, minDateScore)
	setBest(domain.FieldDeliveryDate, deliveryDates, minDateScore)

	setBest(domain.FieldSellerName, s.seller.Extract(text), minSellerScore)
	setBest(domain.FieldProductName, s.product.Extract(text, headings), minProductScore)

	emails, phones := s.contact.Extract(text)
	setBest(domain.FieldCustomerEmail, emails, minContactScore)
	setBest(domain.FieldCustomerPhone, phones, minContactScore)

	classification := s.classifier.ClassifyStrict(s.normalizer.NormalizeLimit(rawText, ClassifierTextLimit))

	if s.enableDebugLogging {
		log.Printf("[EXTRACT] %s: %d field(s), order-page=%v (%.2f)",
			url, record.FieldCount(), classification.IsOrderPage, classification.Confidence)
	}

	if classification.IsOrderPage && s.store != nil {
		record.CachedAt = time.Now()
		if err := s.store.Save(ctx, RecordStoreKey, record, s.storeTTL); err != nil {
			// Best-effort: the caller still gets the record for review.
			log.Printf("[EXTRACT] store save failed: %v", err)
		}
	}

	return record, &classification, nil
}

// Classify scores raw page text in permissive mode, cached by page URL for
// the configured window. Concurrent calls for the same URL share one
// computation.
func (s *ExtractionService) Classify(ctx context.Context, url, rawText string) (*domain.ClassificationResult, error) {
	if rawText == "" {
		return nil, domain.ErrInvalidInput
	}

	key := classificationCacheKey(url)
	if key == "" || s.cache == nil {
		result := s.classifier.Classify(s.normalizer.NormalizeLimit(rawText, ClassifierTextLimit))
		return &result, nil
	}

	if cached, err := s.cache.Get(ctx, key); err == nil && cached != nil {
		out := *cached
		out.Source = "Cache"
		return &out, nil
	}

	s.mu.Lock()
	if call, ok := s.inflight[key]; ok {
		s.mu.Unlock()
		select {
		case <-call.done:
			out := *call.result
			return &out, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	call := &inflightCall{done: make(chan struct{})}
	s.inflight[key] = call
	s.mu.Unlock()

	result := s.classifier.Classify(s.normalizer.NormalizeLimit(rawText, ClassifierTextLimit))
	result.CachedAt = time.Now()
	call.result = &result

	if err := s.cache.Set(ctx, key, &result, s.cacheTTL); err != nil && s.enableDebugLogging {
		log.Printf("[CLASSIFY] cache set failed: %v", err)
	}

	s.mu.Lock()
	delete(s.inflight, key)
	s.mu.Unlock()
	close(call.done)

	out := result
	return &out, nil
}

// StoredRecord fetches a previously extracted record. Absence is reported as
// domain.ErrRecordNotFound, which callers treat as "nothing extracted yet".
func (s *ExtractionService) StoredRecord(ctx context.Context, key string) (*domain.ExtractedRecord, error) {
	if s.store == nil {
		return nil, domain.ErrRecordNotFound
	}
	if key == "" {
		key = RecordStoreKey
	}
	return s.store.Get(ctx, key)
}

// DeleteRecord drops a stored record.
func (s *ExtractionService) DeleteRecord(ctx context.Context, key string) error {
	if s.store == nil {
		return nil
	}
	if key == "" {
		key = RecordStoreKey
	}
	return s.store.Delete(ctx, key)
}

// classificationCacheKey normalizes the page identity for cache lookup.
func classificationCacheKey(url string) string {
	url = strings.TrimSpace(strings.ToLower(url))
	if url == "" {
		return ""
	}
	return "classification:" + cacheKeyCleanPattern.ReplaceAllString(url, "")
}
