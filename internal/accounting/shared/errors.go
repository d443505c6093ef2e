package shared

import "errors"

var (
	// ErrUnbalancedEntry indicates debit != credit on an assembled entry.
	ErrUnbalancedEntry = errors.New("accounting: journal lines must balance")
	// ErrTooFewLines indicates less than two lines.
	ErrTooFewLines = errors.New("accounting: journal requires at least two lines")
	// ErrAccountNotConfigured indicates a required control or tax account mapping is missing.
	ErrAccountNotConfigured = errors.New("accounting: posting account not configured")
	// ErrAccountNotFound indicates a journal line references a missing account.
	ErrAccountNotFound = errors.New("accounting: account not found")
	// ErrAlreadyPosted indicates the document or source was posted before.
	ErrAlreadyPosted = errors.New("accounting: document already posted")
	// ErrNotPosted indicates the document is still a draft.
	ErrNotPosted = errors.New("accounting: document not posted")
	// ErrOverpayment indicates the amount exceeds the outstanding balance.
	ErrOverpayment = errors.New("accounting: amount exceeds balance due")
	// ErrSerializationConflict indicates a transient transaction conflict; the operation may be retried.
	ErrSerializationConflict = errors.New("accounting: transaction serialization conflict")
	// ErrJournalNotFound indicates missing entry.
	ErrJournalNotFound = errors.New("accounting: journal entry not found")
	// ErrInvalidTransition indicates the requested lifecycle event is not legal from the current status.
	ErrInvalidTransition = errors.New("accounting: invalid status transition")
	// ErrSourceConflict indicates the source link already exists.
	ErrSourceConflict = errors.New("accounting: source link conflict")
)
