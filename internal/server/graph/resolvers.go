package graph

import (
	"context"

	"github.com/dkarpov/shopgraph/internal/server/identities"
)

// RegisterCredentialMutations binds the credential service's operations to
// the signUp and signIn mutations. Each returns the session token as the
// mutation's scalar result.
func (h *Handler) RegisterCredentialMutations(svc *identities.Service) {
	h.RegisterMutation("signUp", func(ctx context.Context, vars Variables) (any, error) {
		token, err := svc.SignUp(ctx, vars.String("handle"), vars.String("email"), vars.String("password"))
		if err != nil {
			return nil, err
		}
		return token, nil
	})

	h.RegisterMutation("signIn", func(ctx context.Context, vars Variables) (any, error) {
		token, err := svc.SignIn(ctx, vars.String("handle"), vars.String("password"))
		if err != nil {
			return nil, err
		}
		return token, nil
	})
}
