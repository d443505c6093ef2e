package ap

import (
	"fmt"

	"github.com/bahikhata-erp/bahikhata-erp/internal/accounting/shared"
)

// DocStatus enumerates document lifecycle states shared by bills and
// debit notes. APPLIED is reachable only by debit notes; PARTIAL and
// PAID only by bills.
type DocStatus string

const (
	StatusDraft   DocStatus = "DRAFT"
	StatusPosted  DocStatus = "POSTED"
	StatusPartial DocStatus = "PARTIAL"
	StatusPaid    DocStatus = "PAID"
	StatusApplied DocStatus = "APPLIED"
	StatusVoid    DocStatus = "VOID"
)

// DocEvent names the actions that move a document between states.
type DocEvent string

const (
	EventPost   DocEvent = "post"
	EventPay    DocEvent = "pay"
	EventSettle DocEvent = "settle"
	EventApply  DocEvent = "apply"
	EventVoid   DocEvent = "void"
)

// Transition is the single authority on status changes. Every legal
// (status, event) pair is listed; anything else fails with the error
// that tells the caller why:
//
//	DRAFT   --post--> POSTED        DRAFT --void--> VOID
//	POSTED  --pay---> PARTIAL       POSTED  --settle--> PAID
//	PARTIAL --pay---> PARTIAL       PARTIAL --settle--> PAID
//	POSTED  --apply-> APPLIED
//
// Posted documents are immutable; corrections go through debit notes,
// never through voiding or editing.
func Transition(current DocStatus, event DocEvent) (DocStatus, error) {
	switch {
	case current == StatusDraft && event == EventPost:
		return StatusPosted, nil
	case current == StatusDraft && event == EventVoid:
		return StatusVoid, nil
	case (current == StatusPosted || current == StatusPartial) && event == EventPay:
		return StatusPartial, nil
	case (current == StatusPosted || current == StatusPartial) && event == EventSettle:
		return StatusPaid, nil
	case current == StatusPosted && event == EventApply:
		return StatusApplied, nil
	}

	switch event {
	case EventPost:
		if current == StatusVoid {
			return "", fmt.Errorf("cannot post a void document: %w", shared.ErrInvalidTransition)
		}
		return "", fmt.Errorf("document is %s: %w", current, shared.ErrAlreadyPosted)
	case EventPay, EventSettle, EventApply:
		if current == StatusDraft {
			return "", fmt.Errorf("document is a draft: %w", shared.ErrNotPosted)
		}
		return "", fmt.Errorf("%s not allowed while %s: %w", event, current, shared.ErrInvalidTransition)
	case EventVoid:
		if current == StatusVoid {
			return "", fmt.Errorf("document is already void: %w", shared.ErrInvalidTransition)
		}
		return "", fmt.Errorf("posted documents cannot be voided: %w", shared.ErrAlreadyPosted)
	}
	return "", fmt.Errorf("unknown event %q: %w", event, shared.ErrInvalidTransition)
}
