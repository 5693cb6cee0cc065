// ABOUTME: Rule-based dialogue classifier mapping customer text to canned replies
// ABOUTME: Fixed rule precedence with first-match-wins and substring containment

package bot

import (
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/kruxfin/support-gateway/internal/store"
)

// applicationIDPattern matches an application id like "app12345" in
// normalized (lower-cased) text.
var applicationIDPattern = regexp.MustCompile(`app\d+`)

// Classifier maps customer messages to canned replies using an ordered rule
// list. Deterministic given its templates, except for the uniform random
// choice among equally valid greeting and fallback variants.
//
// All keyword checks are substring containment on the lower-cased, trimmed
// text, not word-boundary matching. A message containing "agentic" therefore
// matches the "agent" escalation rule. This imprecision is inherited behavior
// and is kept as-is.
type Classifier struct {
	rng *rand.Rand
}

// New creates a Classifier. Pass nil to seed from the wall clock.
func New(rng *rand.Rand) *Classifier {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Classifier{rng: rng}
}

// Reply returns the canned response for a customer message. The conversation
// is accepted for context but the current rules are text-only. Rules are
// evaluated top to bottom, first match wins; the order must stay stable
// because callers depend on it (e.g. "loan application" resolves through the
// loan rule, never the document rule).
func (c *Classifier) Reply(text string, conv *store.Conversation) string {
	msg := strings.ToLower(strings.TrimSpace(text))

	// 1. Farewell / closing
	if containsAny(msg, "bye", "goodbye", "see you", "thank", "stop", "end", "that's all") {
		if strings.Contains(msg, "thank") {
			return thanksReply
		}
		return goodbyeReply
	}

	// 2. Sentiment / rating, most positive first
	switch {
	case containsAny(msg, "excellent", "awesome", "great", "amazing"):
		return feedbackExcellent
	case containsAny(msg, "good", "nice", "fine"):
		return feedbackGood
	case containsAny(msg, "average", "okay", "ok"):
		return feedbackOkay
	case containsAny(msg, "poor", "bad"):
		return feedbackPoor
	}

	// 3. Greeting
	if containsAny(msg, "hello", "hi", "hey", "morning", "afternoon", "evening") {
		return c.pick(greetingTemplates)
	}

	// 4. Loan applications
	if containsAny(msg, "loan", "apply", "application") {
		switch {
		case strings.Contains(msg, "business"):
			return loanBusiness
		case strings.Contains(msg, "personal"):
			return loanPersonal
		case strings.Contains(msg, "msme"):
			return loanMSME
		case strings.Contains(msg, "eligib"):
			return loanEligibility
		case containsAny(msg, "interest", "rate"):
			return loanInterest
		case containsAny(msg, "process", "time", "duration"):
			return loanProcess
		}
		return loanGeneral
	}

	// 5. Documents
	if containsAny(msg, "document", "doc", "paper", "require") {
		switch {
		case containsAny(msg, "format", "scan", "upload"):
			return documentsFormats
		case strings.Contains(msg, "aadhaar"):
			return documentsAadhaar
		case strings.Contains(msg, "pan"):
			return documentsPAN
		case strings.Contains(msg, "address"):
			return documentsAddress
		case containsAny(msg, "income", "salary"):
			return documentsIncome
		}
		return documentsGeneral
	}

	// 6. Application status
	if containsAny(msg, "status", "check", "track", "update") {
		if applicationIDPattern.MatchString(msg) || containsAny(msg, "stage", "step") {
			return statusSample
		}
		return statusGeneral
	}

	// 7. Repayment
	if containsAny(msg, "emi", "repay", "installment", "prepayment", "late payment") {
		switch {
		case containsAny(msg, "prepay", "foreclos"):
			return repaymentPrepay
		case containsAny(msg, "late", "penalty", "miss"):
			return repaymentLate
		}
		return repaymentGeneral
	}

	// 8. Benefits / features
	if containsAny(msg, "benefit", "feature", "advantage", "why choose", "offer") {
		return benefitsReply
	}

	// 9. Security / privacy
	if containsAny(msg, "security", "secure", "privacy", "safe", "confidential") {
		return securityReply
	}

	// 10. Contact
	if containsAny(msg, "contact", "phone", "email", "reach you", "branch", "office") {
		return contactReply
	}

	// 11. Escalation to a human
	if containsAny(msg, "human", "agent", "representative", "person", "manager") {
		switch {
		case containsAny(msg, "urgent", "emergency", "immediately", "right now"):
			return escalationUrgent
		case containsAny(msg, "callback", "call back"):
			return escalationCallback
		}
		return escalationGeneral
	}

	// 12. Explicit feedback request
	if containsAny(msg, "rate", "feedback", "review") {
		return feedbackRequestReply
	}

	// 13. No match
	return c.pick(fallbackTemplates)
}

// Greetings returns the closed set of greeting replies.
func Greetings() []string {
	out := make([]string, len(greetingTemplates))
	copy(out, greetingTemplates)
	return out
}

// Fallbacks returns the closed set of no-match replies.
func Fallbacks() []string {
	out := make([]string, len(fallbackTemplates))
	copy(out, fallbackTemplates)
	return out
}

func (c *Classifier) pick(variants []string) string {
	return variants[c.rng.Intn(len(variants))]
}

func containsAny(msg string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	return false
}
