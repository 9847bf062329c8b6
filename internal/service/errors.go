package service

import (
	"errors"
	"fmt"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mmynk/minishop/internal/auth"
	"github.com/mmynk/minishop/internal/cart"
	"github.com/mmynk/minishop/internal/storage"
)

// toConnectError maps domain and storage errors onto Connect codes.
// A missing principal means the session outlived its account; the caller
// gets a generic internal error rather than NotFound.
func toConnectError(err error) error {
	var connectErr *connect.Error
	switch {
	case errors.As(err, &connectErr):
		return err
	case errors.Is(err, auth.ErrUnknownPrincipal):
		return connect.NewError(connect.CodeInternal, errors.New("internal error"))
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrConflict):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, auth.ErrEmptyUsername),
		errors.Is(err, auth.ErrEmptyPassword):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, auth.ErrInvalidCredentials):
		return connect.NewError(connect.CodeUnauthenticated, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// missingField reports a required request field that was left empty. The
// field name is attached as a structured detail so clients can highlight it.
func missingField(name string) error {
	err := connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("%s is required", name))
	detail, detailErr := structpb.NewStruct(map[string]any{"field": name})
	if detailErr != nil {
		return err
	}
	if d, detailErr := connect.NewErrorDetail(detail); detailErr == nil {
		err.AddDetail(d)
	}
	return err
}
