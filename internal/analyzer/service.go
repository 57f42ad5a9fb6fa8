package analyzer

import (
	"context"
	"strings"
	"time"

	"github.com/guestpulse/insights/internal/cache"
	"github.com/guestpulse/insights/internal/domain"
	"github.com/guestpulse/insights/internal/logger"
	"github.com/guestpulse/insights/internal/sentiment"
	"github.com/guestpulse/insights/internal/telemetry"
)

// Service is the local analysis orchestrator: cache in front, the
// aspect engine and the holistic classifier behind it, the rating
// fallback underneath. Analyze never fails outward.
type Service struct {
	engine     *Engine
	classifier sentiment.Classifier
	cache      cache.Cache
	telemetry  *telemetry.Provider
	log        logger.Logger
}

// NewService wires the orchestrator. cache and telemetry may be nil;
// the service then runs uncached and unmetered.
func NewService(engine *Engine, classifier sentiment.Classifier, c cache.Cache, tel *telemetry.Provider, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		engine:     engine,
		classifier: classifier,
		cache:      c,
		telemetry:  tel,
		log:        log,
	}
}

// Analyze produces the combined analysis for one (text, rating) pair.
// The tag list is always non-empty: when nothing is extracted the
// rating-derived fallback tag is substituted. Empty text is analyzed
// but never cached.
func (s *Service) Analyze(ctx context.Context, text string, rating int) domain.AnalysisResult {
	start := time.Now()
	cacheable := strings.TrimSpace(text) != ""
	key := cache.Key(text, rating)

	if s.cache != nil && cacheable {
		if result, ok := s.cache.Get(ctx, key); ok {
			s.recordCacheLookup(true)
			result.Method = domain.MethodCache
			result.ProcessingTimeMs = time.Since(start).Milliseconds()
			s.recordAnalysis(ctx, domain.MethodCache, time.Since(start))
			return result
		}
		s.recordCacheLookup(false)
	}

	tags := s.safeAspectTags(text)
	classification := s.classify(ctx, text, rating)

	method := domain.MethodRules
	if len(tags) == 0 {
		tags = []domain.AspectTag{domain.FallbackTag(rating)}
		method = domain.MethodFallback
	}

	result := domain.AnalysisResult{
		Tags:             tags,
		OverallScore:     classification.Score(),
		Sentiment:        classification.Sentiment,
		Confidence:       classification.Confidence,
		Method:           method,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
		AnalyzedAt:       time.Now().UTC(),
	}

	if s.cache != nil && cacheable {
		s.cache.Set(ctx, key, result)
	}
	s.recordAnalysis(ctx, method, time.Since(start))
	return result
}

// safeAspectTags runs the rule engine with panic isolation: a bug in
// a pattern must degrade one review to the fallback tag, not take the
// caller down.
func (s *Service) safeAspectTags(text string) (tags []domain.AspectTag) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("rule evaluation panic", logger.Any("panic", r))
			if s.telemetry != nil {
				s.telemetry.RecordPanicRecovered()
			}
			tags = nil
		}
	}()
	return s.engine.AspectTags(text)
}

func (s *Service) classify(ctx context.Context, text string, rating int) sentiment.Classification {
	if s.classifier == nil {
		return sentiment.Floor
	}
	classification, err := s.classifier.Classify(ctx, text, rating)
	if err != nil {
		s.log.Debug("holistic classification unavailable", logger.Error(err))
		return sentiment.Floor
	}
	return classification
}

func (s *Service) recordAnalysis(ctx context.Context, method string, elapsed time.Duration) {
	if s.telemetry != nil {
		s.telemetry.RecordAnalysis(ctx, method, elapsed)
	}
}

func (s *Service) recordCacheLookup(hit bool) {
	if s.telemetry != nil {
		s.telemetry.RecordCacheLookup(hit)
	}
}
