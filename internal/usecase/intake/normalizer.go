package intake

import (
	"fmt"
	"strings"
	"time"

	"github.com/johnquangdev/call-review/internal/domain/entities"
	"github.com/johnquangdev/call-review/pkg/analysis"
	"github.com/johnquangdev/call-review/pkg/validator"
)

const (
	defaultIntentLabel    = "General Inquiry"
	defaultConfidence     = "Medium"
	defaultPriority       = "Medium"
	defaultSentimentLabel = "Neutral"
	negativeSentiment     = "Negative"
	aiUnavailable         = "AI verification not available"
	defaultCustomerName   = "Customer"
	escalationTask        = "Escalate to senior banker — high priority case"
)

// Normalizer converts a raw analysis payload into a canonical call record
type Normalizer struct {
	validate *validator.CustomValidator
	now      func() time.Time
}

// NewNormalizer creates a new normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{
		validate: validator.New(),
		now:      time.Now,
	}
}

// Normalize maps raw onto a completed CallRecord, applying the defaulting chain
// (final decision, then rule-based, then literal default) to every derived field.
func (n *Normalizer) Normalize(callID, title string, seq int64, submittedAt time.Time, raw *analysis.ResultResponse) (*entities.CallRecord, error) {
	if raw == nil {
		return nil, entities.ErrNilPayload
	}
	if callID == "" {
		return nil, entities.ErrMissingCallID
	}
	if err := n.validate.Validate(raw); err != nil {
		return nil, fmt.Errorf("invalid analysis payload: %w", err)
	}
	if !raw.IsCompleted() {
		return nil, entities.ErrNotCompleted
	}

	var customer entities.CustomerDetails
	if cd := raw.CustomerDetails; cd != nil {
		customer = entities.CustomerDetails{
			Name:          cd.Name,
			PhoneNumber:   cd.PhoneNumber,
			AccountNumber: cd.AccountNumber,
			CardNumber:    cd.CardNumber,
		}
	}

	var ruleBased entities.RuleBasedAnalysis
	var ruleSentiment *analysis.SentimentResult
	if rb := raw.RuleBased; rb != nil {
		if rb.Intent != nil {
			ruleBased.Intent = entities.Intent{Label: rb.Intent.Label, Confidence: rb.Intent.Confidence}
		}
		ruleBased.Priority = rb.Priority
		if rb.Sentiment != nil {
			ruleSentiment = rb.Sentiment
			ruleBased.Sentiment = entities.Sentiment{Label: rb.Sentiment.Label, Score: rb.Sentiment.Score}
		}
	}

	var finalDecision entities.FinalDecision
	if fd := raw.FinalDecision; fd != nil {
		finalDecision = entities.FinalDecision{Intent: fd.Intent, Priority: fd.Priority}
	} else {
		finalDecision = entities.FinalDecision{Intent: ruleBased.Intent.Label, Priority: ruleBased.Priority}
	}

	var verification entities.AIVerification
	if av := raw.AIVerification; av != nil {
		reasoning := make([]string, len(av.Reasoning))
		copy(reasoning, av.Reasoning)
		verification = entities.AIVerification{
			VerifiedIntent:   av.VerifiedIntent,
			VerifiedPriority: av.VerifiedPriority,
			Reasoning:        reasoning,
		}
	} else {
		verification = entities.AIVerification{
			VerifiedIntent:   ruleBased.Intent.Label,
			VerifiedPriority: ruleBased.Priority,
			Reasoning:        []string{aiUnavailable},
		}
	}

	var finalIntent, finalPriority string
	if raw.FinalDecision != nil {
		finalIntent = raw.FinalDecision.Intent
		finalPriority = raw.FinalDecision.Priority
	}

	intent := entities.Intent{
		Label:      firstNonEmpty(finalIntent, ruleBased.Intent.Label, defaultIntentLabel),
		Confidence: firstNonEmpty(ruleBased.Intent.Confidence, defaultConfidence),
	}
	priorityLabel := firstNonEmpty(finalPriority, ruleBased.Priority, defaultPriority)

	sentiment := entities.Sentiment{Label: defaultSentimentLabel, Score: 0}
	if ruleSentiment != nil && ruleSentiment.Label != "" {
		sentiment = entities.Sentiment{Label: ruleSentiment.Label, Score: ruleSentiment.Score}
	}

	risk := entities.RiskLow
	if isNegative(sentiment.Label) {
		risk = entities.RiskHigh
	}

	summary := make([]string, len(raw.Summary))
	copy(summary, raw.Summary)

	transcript := ""
	if raw.Transcript != nil {
		transcript = *raw.Transcript
	}

	completedAt := n.now()
	return &entities.CallRecord{
		ID:              callID,
		Seq:             seq,
		Title:           title,
		Status:          entities.CallStatusCompleted,
		SubmittedAt:     submittedAt,
		CompletedAt:     &completedAt,
		CustomerDetails: customer,
		RuleBased:       ruleBased,
		AIVerification:  verification,
		FinalDecision:   finalDecision,
		Intent:          intent,
		Sentiment:       sentiment,
		Priority:        entities.ParsePriority(priorityLabel),
		RiskLevel:       risk,
		Summary:         summary,
		Transcript:      transcript,
		ActionItems:     BuildActionItems(intent.Label, priorityLabel, sentiment.Label, customer.Name),
	}, nil
}

// BuildActionItems derives follow-up tasks from the resolved intent, priority and sentiment.
// The result always holds at least one item.
func BuildActionItems(intentLabel, priority, sentimentLabel, customerName string) []entities.ActionItem {
	name := firstNonEmpty(customerName, defaultCustomerName)
	label := strings.ToLower(intentLabel)

	var task string
	switch {
	case strings.Contains(label, "loan"):
		task = fmt.Sprintf("Process loan inquiry for %s", name)
	case strings.Contains(label, "withdrawal"):
		task = fmt.Sprintf("Process withdrawal request for %s", name)
	case strings.Contains(label, "deposit"):
		task = fmt.Sprintf("Process deposit request for %s", name)
	case strings.Contains(label, "complaint"):
		task = fmt.Sprintf("Resolve complaint from %s", name)
	default:
		task = fmt.Sprintf("Follow up with %s regarding inquiry", name)
	}

	items := []entities.ActionItem{{Task: task}}
	if entities.ParsePriority(priority) == entities.PriorityHigh || isNegative(sentimentLabel) {
		items = append(items, entities.ActionItem{Task: escalationTask})
	}
	return items
}

func isNegative(label string) bool {
	return strings.EqualFold(strings.TrimSpace(label), negativeSentiment)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
