package ai

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"property-ops/config"
	apperrors "property-ops/errors"
	"property-ops/logging"
	"property-ops/metrics"
	"property-ops/model"
	"property-ops/services"
)

const (
	OutcomeApprove  = "approve"
	OutcomeReject   = "reject"
	OutcomeEscalate = "escalate"

	SourceHeuristic = "heuristic"
	SourceLLM       = "llm"
)

var confidence = map[string]float64{
	OutcomeApprove:  0.9,
	OutcomeReject:   0.85,
	OutcomeEscalate: 0.6,
}

const cooSystemPrompt = "You are the chief operating officer of a short-term rental company. " +
	"Explain the booking decision below to the operations team in two or three plain sentences. " +
	"Do not change the decision."

type Thresholds struct {
	MaxNights int
	MaxAmount decimal.Decimal
	MaxGuests int
}

func ThresholdsFrom(opts config.AICOOOptions) Thresholds {
	return Thresholds{
		MaxNights: opts.MaxAutoApproveNights,
		MaxAmount: opts.AmountLimit(),
		MaxGuests: opts.MaxGuests,
	}
}

// Evaluate applies the fixed decision rules. Reject rules win over escalation rules.
func Evaluate(b model.Booking, approvedOverlaps int, t Thresholds) (string, []string) {
	rejections := []string{}
	if !b.CheckOut.After(b.CheckIn) {
		rejections = append(rejections, "Check-out is not after check-in")
	}
	if t.MaxGuests > 0 && b.Guests > t.MaxGuests {
		rejections = append(rejections, fmt.Sprintf("%d guests exceeds the limit of %d", b.Guests, t.MaxGuests))
	}
	if len(rejections) > 0 {
		return OutcomeReject, rejections
	}

	escalations := []string{}
	if nights := b.Nights(); t.MaxNights > 0 && nights > t.MaxNights {
		escalations = append(escalations, fmt.Sprintf("%d nights exceeds the auto-approve limit of %d", nights, t.MaxNights))
	}
	if t.MaxAmount.IsPositive() && b.Amount.GreaterThan(t.MaxAmount) {
		escalations = append(escalations, fmt.Sprintf("Amount %s exceeds the auto-approve limit of %s",
			b.Amount.StringFixed(2), t.MaxAmount.StringFixed(2)))
	}
	if approvedOverlaps > 0 {
		escalations = append(escalations, fmt.Sprintf("Overlaps %d approved booking(s) for the same property", approvedOverlaps))
	}
	if len(escalations) > 0 {
		return OutcomeEscalate, escalations
	}
	return OutcomeApprove, []string{"Within all auto-approve limits"}
}

// BookingOps is the part of the booking service the COO drives.
type BookingOps interface {
	Get(ctx context.Context, id string) (model.Booking, error)
	ApprovedOverlapping(ctx context.Context, booking model.Booking) ([]model.Booking, error)
	RecordDecision(ctx context.Context, id string, decision model.Decision) (model.Booking, error)
	Approve(ctx context.Context, actor, id string) (model.Booking, *model.Job, error)
	Reject(ctx context.Context, actor, id, reason string) (model.Booking, error)
}

type DecisionResult struct {
	Booking  model.Booking  `json:"booking"`
	Decision model.Decision `json:"decision"`
	Applied  bool           `json:"applied"`
	Cached   bool           `json:"cached"`
	Job      *model.Job     `json:"job,omitempty"`
}

type COO struct {
	bookings   BookingOps
	llm        Completer
	cache      Cache
	auditor    *services.Auditor
	notifier   *services.Notifier
	thresholds Thresholds
	now        func() time.Time
}

// NewCOO builds the decision engine; llm and cache may be nil.
func NewCOO(bookings BookingOps, llm Completer, cache Cache, auditor *services.Auditor, notifier *services.Notifier, thresholds Thresholds) *COO {
	return &COO{
		bookings:   bookings,
		llm:        llm,
		cache:      cache,
		auditor:    auditor,
		notifier:   notifier,
		thresholds: thresholds,
		now:        time.Now,
	}
}

// Decide evaluates a booking, stores the decision on it and, with apply set,
// approves or rejects it. Escalations always stay pending.
func (c *COO) Decide(ctx context.Context, actor, bookingId string, apply bool) (DecisionResult, error) {
	booking, err := c.bookings.Get(ctx, bookingId)
	if err != nil {
		return DecisionResult{}, err
	}
	if booking.Status != model.BookingPending {
		return DecisionResult{}, fmt.Errorf("booking %s is already %s: %w", bookingId, booking.Status, apperrors.ErrInvalidState)
	}
	overlapping, err := c.bookings.ApprovedOverlapping(ctx, booking)
	if err != nil {
		return DecisionResult{}, fmt.Errorf("cannot check overlapping bookings: %w", err)
	}

	outcome, reasons := Evaluate(booking, len(overlapping), c.thresholds)
	rationale, source, cached := c.rationale(ctx, booking, outcome, reasons)
	decision := model.Decision{
		Outcome:    outcome,
		Confidence: confidence[outcome],
		Reasons:    reasons,
		Rationale:  rationale,
		Source:     source,
		DecidedAt:  c.now().UTC(),
	}
	metrics.RecordDecision(outcome, source)

	booking, err = c.bookings.RecordDecision(ctx, bookingId, decision)
	if err != nil {
		return DecisionResult{}, err
	}
	c.auditor.Record(ctx, actor, "ai.decision", "booking", bookingId, map[string]interface{}{
		"outcome":    outcome,
		"confidence": decision.Confidence,
		"source":     source,
		"apply":      apply,
	})

	result := DecisionResult{Booking: booking, Decision: decision, Cached: cached}
	if outcome == OutcomeEscalate {
		c.notifier.Notify(ctx, services.AdminRecipient, "Booking needs review",
			fmt.Sprintf("%s for %s: %s", booking.GuestName, booking.PropertyId, strings.Join(reasons, "; ")))
		return result, nil
	}
	if !apply {
		return result, nil
	}

	switch outcome {
	case OutcomeApprove:
		approved, job, err := c.bookings.Approve(ctx, actor, bookingId)
		if err != nil {
			return result, err
		}
		result.Booking, result.Job = approved, job
	case OutcomeReject:
		rejected, err := c.bookings.Reject(ctx, actor, bookingId, "AI COO: "+strings.Join(reasons, "; "))
		if err != nil {
			return result, err
		}
		result.Booking = rejected
	}
	result.Applied = true
	return result, nil
}

// rationale explains the outcome. The LLM text is cached; any LLM or cache
// failure falls back to the rule reasons.
func (c *COO) rationale(ctx context.Context, b model.Booking, outcome string, reasons []string) (string, string, bool) {
	heuristic := strings.Join(reasons, "; ") + "."
	if c.llm == nil {
		return heuristic, SourceHeuristic, false
	}
	log := logging.FromContext(ctx).WithFields(logrus.Fields{"booking_id": b.Id.Hex(), "outcome": outcome})

	key := CacheKey(b.Id.Hex(), b.PropertyId, b.CheckIn.Format(time.RFC3339), b.CheckOut.Format(time.RFC3339),
		strconv.Itoa(b.Guests), b.Amount.String(), outcome, strings.Join(reasons, "|"))
	if c.cache != nil {
		text, err := c.cache.Get(ctx, key)
		switch {
		case err == nil:
			metrics.RecordCacheRequest(true)
			return text, SourceLLM, true
		case errors.Is(err, ErrKeyNotFound):
			metrics.RecordCacheRequest(false)
		default:
			log.WithError(err).Warn("AI cache read failed")
		}
	}

	text, err := c.llm.Complete(ctx, cooSystemPrompt, describeBooking(b, outcome, reasons))
	if err != nil {
		log.WithError(err).Warn("AI rationale unavailable, using rule reasons")
		return heuristic, SourceHeuristic, false
	}
	if c.cache != nil {
		if err := c.cache.Set(ctx, key, text); err != nil {
			log.WithError(err).Warn("AI cache write failed")
		}
	}
	return text, SourceLLM, false
}

func describeBooking(b model.Booking, outcome string, reasons []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Guest: %s\n", b.GuestName)
	fmt.Fprintf(&sb, "Property: %s\n", firstNonEmpty(b.PropertyName, b.PropertyId))
	fmt.Fprintf(&sb, "Stay: %s to %s (%d nights)\n", b.CheckIn.Format("2006-01-02"), b.CheckOut.Format("2006-01-02"), b.Nights())
	fmt.Fprintf(&sb, "Guests: %d\n", b.Guests)
	fmt.Fprintf(&sb, "Amount: %s\n", b.Amount.StringFixed(2))
	if b.Notes != "" {
		fmt.Fprintf(&sb, "Notes: %s\n", b.Notes)
	}
	fmt.Fprintf(&sb, "Decision: %s\n", outcome)
	fmt.Fprintf(&sb, "Reasons: %s\n", strings.Join(reasons, "; "))
	return sb.String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
