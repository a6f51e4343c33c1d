package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/storage"
)

var (
	errUnauthenticated     = errors.New("authentication required")
	errNotGroupMember      = errors.New("you must be a member of this group")
	errNotParticipant      = errors.New("you must take part in this expense")
	errSettlementImmutable = errors.New("settlement expenses cannot be changed")
	errMissingField        = errors.New("missing required field")
)

// toConnectError maps domain and storage errors onto Connect codes.
func toConnectError(err error) error {
	if err == nil {
		return nil
	}
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}
	return connect.NewError(codeOf(err), err)
}

func codeOf(err error) connect.Code {
	switch {
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, calculator.ErrNotFound):
		return connect.CodeNotFound
	case errors.Is(err, storage.ErrConflict), errors.Is(err, auth.ErrEmailExists):
		return connect.CodeAlreadyExists
	case calculator.IsValidationFailure(err),
		errors.Is(err, calculator.ErrInvalidAmount),
		errors.Is(err, errMissingField),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrInvalidEmail),
		errors.Is(err, auth.ErrMissingName):
		return connect.CodeInvalidArgument
	case errors.Is(err, calculator.ErrNoSuchDebt),
		errors.Is(err, calculator.ErrAmountExceedsDebt),
		errors.Is(err, errSettlementImmutable):
		return connect.CodeFailedPrecondition
	case errors.Is(err, errNotGroupMember), errors.Is(err, errNotParticipant):
		return connect.CodePermissionDenied
	case errors.Is(err, errUnauthenticated), errors.Is(err, auth.ErrInvalidCredentials):
		return connect.CodeUnauthenticated
	default:
		return connect.CodeInternal
	}
}

// settlementRejection labels a refused settlement for metrics.
func settlementRejection(err error) string {
	switch {
	case errors.Is(err, calculator.ErrNoSuchDebt):
		return "no_such_debt"
	case errors.Is(err, calculator.ErrAmountExceedsDebt):
		return "amount_exceeds_debt"
	case errors.Is(err, calculator.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, calculator.ErrNotFound), errors.Is(err, storage.ErrNotFound):
		return "not_found"
	default:
		return "other"
	}
}
