package service

import (
	"errors"
	"testing"

	"github.com/RatishMoondra/pharma-backend/internal/procurement/entity"
)

func TestNextStatusHappyChain(t *testing.T) {
	steps := []struct {
		action string
		from   string
		want   string
	}{
		{ActionSubmit, entity.POStatusDraft, entity.POStatusPendingApproval},
		{ActionApprove, entity.POStatusPendingApproval, entity.POStatusApproved},
		{ActionMarkReady, entity.POStatusApproved, entity.POStatusReady},
		{ActionSendToVendor, entity.POStatusReady, entity.POStatusSent},
	}

	for _, s := range steps {
		got, err := NextStatus(s.action, s.from)
		if err != nil {
			t.Fatalf("%s from %s: %v", s.action, s.from, err)
		}
		if got != s.want {
			t.Errorf("%s from %s = %s, want %s", s.action, s.from, got, s.want)
		}
	}
}

func TestNextStatusReject(t *testing.T) {
	for _, from := range []string{entity.POStatusPendingApproval, entity.POStatusApproved} {
		got, err := NextStatus(ActionReject, from)
		if err != nil {
			t.Fatalf("reject from %s: %v", from, err)
		}
		if got != entity.POStatusRejected {
			t.Errorf("reject from %s = %s", from, got)
		}
	}

	// no rejecting a draft or an already sent order
	for _, from := range []string{entity.POStatusDraft, entity.POStatusReady, entity.POStatusSent, entity.POStatusRejected} {
		if _, err := NextStatus(ActionReject, from); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("reject from %s should be invalid, got %v", from, err)
		}
	}
}

func TestNextStatusInvalid(t *testing.T) {
	cases := []struct {
		action string
		from   string
	}{
		{ActionSubmit, entity.POStatusPendingApproval},
		{ActionSubmit, entity.POStatusSent},
		{ActionApprove, entity.POStatusDraft},
		{ActionApprove, entity.POStatusApproved},
		{ActionMarkReady, entity.POStatusDraft},
		{ActionMarkReady, entity.POStatusReady},
		{ActionSendToVendor, entity.POStatusApproved},
		{ActionSendToVendor, entity.POStatusSent},
		{"cancel", entity.POStatusDraft},
	}

	for _, c := range cases {
		if _, err := NextStatus(c.action, c.from); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("%s from %s should be invalid, got %v", c.action, c.from, err)
		}
	}
}

func TestCanDelete(t *testing.T) {
	deletable := map[string]bool{
		entity.POStatusDraft:           true,
		entity.POStatusPendingApproval: true,
		entity.POStatusApproved:        false,
		entity.POStatusReady:           false,
		entity.POStatusSent:            false,
		entity.POStatusRejected:        false,
	}

	for status, want := range deletable {
		if got := CanDelete(status); got != want {
			t.Errorf("CanDelete(%s) = %v, want %v", status, got, want)
		}
	}
}
