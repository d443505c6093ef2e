package ap

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bahikhata-erp/bahikhata-erp/internal/accounting/shared"
)

func TestTransitionLegalMoves(t *testing.T) {
	cases := []struct {
		name  string
		from  DocStatus
		event DocEvent
		want  DocStatus
	}{
		{"post draft", StatusDraft, EventPost, StatusPosted},
		{"void draft", StatusDraft, EventVoid, StatusVoid},
		{"pay posted", StatusPosted, EventPay, StatusPartial},
		{"pay partial", StatusPartial, EventPay, StatusPartial},
		{"settle posted", StatusPosted, EventSettle, StatusPaid},
		{"settle partial", StatusPartial, EventSettle, StatusPaid},
		{"apply posted note", StatusPosted, EventApply, StatusApplied},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Transition(tc.from, tc.event)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestTransitionRejectsIllegalMoves(t *testing.T) {
	cases := []struct {
		name    string
		from    DocStatus
		event   DocEvent
		wantErr error
	}{
		{"repost posted", StatusPosted, EventPost, shared.ErrAlreadyPosted},
		{"repost partial", StatusPartial, EventPost, shared.ErrAlreadyPosted},
		{"repost paid", StatusPaid, EventPost, shared.ErrAlreadyPosted},
		{"repost applied", StatusApplied, EventPost, shared.ErrAlreadyPosted},
		{"post void", StatusVoid, EventPost, shared.ErrInvalidTransition},
		{"pay draft", StatusDraft, EventPay, shared.ErrNotPosted},
		{"settle draft", StatusDraft, EventSettle, shared.ErrNotPosted},
		{"apply draft", StatusDraft, EventApply, shared.ErrNotPosted},
		{"pay paid", StatusPaid, EventPay, shared.ErrInvalidTransition},
		{"pay void", StatusVoid, EventPay, shared.ErrInvalidTransition},
		{"pay applied", StatusApplied, EventPay, shared.ErrInvalidTransition},
		{"apply partial", StatusPartial, EventApply, shared.ErrInvalidTransition},
		{"apply applied", StatusApplied, EventApply, shared.ErrInvalidTransition},
		{"void posted", StatusPosted, EventVoid, shared.ErrAlreadyPosted},
		{"void partial", StatusPartial, EventVoid, shared.ErrAlreadyPosted},
		{"void paid", StatusPaid, EventVoid, shared.ErrAlreadyPosted},
		{"void applied", StatusApplied, EventVoid, shared.ErrAlreadyPosted},
		{"void void", StatusVoid, EventVoid, shared.ErrInvalidTransition},
		{"unknown event", StatusDraft, DocEvent("archive"), shared.ErrInvalidTransition},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Transition(tc.from, tc.event)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}
