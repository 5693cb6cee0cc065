// Package bot implements the rule-based dialogue assistant.
//
// # Overview
//
// The classifier maps a customer message to one of the canned reply
// templates. It is deliberately simple: lower-case the message, trim it, and
// walk a fixed list of keyword rules in priority order. The first rule whose
// keywords appear anywhere in the message wins. There is no NLP, no session
// memory, and no learning.
//
// # Rule Order
//
// Rules are evaluated in a fixed order; earlier rules shadow later ones:
//
//  1. Farewell / thanks
//  2. Sentiment feedback (excellent / good / okay / poor)
//  3. Greeting
//  4. Loan enquiries (with business/personal/MSME/eligibility/interest/process sub-rules)
//  5. Document requirements (formats/Aadhaar/PAN/address/income sub-rules)
//  6. Application status
//  7. Repayment and EMI
//  8. Benefits
//  9. Data security
//  10. Contact details
//  11. Escalation to a human agent
//  12. Feedback request
//  13. Random fallback
//
// Matching is substring containment, not word-boundary matching, so "hi"
// inside "this" counts as a greeting keyword. That imprecision is part of
// the contract: reordering rules or tightening the matching changes observed
// replies.
//
// # Usage
//
//	c := bot.New(nil) // nil seeds the RNG from the clock
//	reply := c.Reply("What documents do I need?", conv)
package bot
