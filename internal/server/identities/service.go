package identities

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/dkarpov/shopgraph/internal/common"
	"github.com/dkarpov/shopgraph/internal/server/auth"
)

// emailRegexp is the syntactic pattern applied to signup email addresses.
var emailRegexp = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$")

// Service orchestrates the credential operations. SignUp and SignIn both
// finish by minting a session token; no session state is retained in the
// process.
//
// SignIn reports an unknown handle (ErrUserNotFound) distinctly from a wrong
// password (ErrInvalidCredentials). That allows username enumeration;
// collapsing both onto ErrInvalidCredentials is a product call, made in the
// graph error mapping if ever taken.
type Service struct {
	repo   Repository
	hasher *auth.PasswordHasher
	issuer *auth.TokenIssuer
}

func NewService(repo Repository, hasher *auth.PasswordHasher, issuer *auth.TokenIssuer) *Service {
	return &Service{repo: repo, hasher: hasher, issuer: issuer}
}

// SignUp registers a new identity and returns a session token for it.
//
// Steps, each short-circuiting on failure: validate input, pre-check handle
// and email for clean error attribution, hash the password, insert, issue
// the token. The store's duplicate signal on insert is authoritative; the
// pre-checks alone cannot close the race between two concurrent signups.
//
// The identity is durably created before the token is issued. If the reply
// carrying the token is lost, the client retries SignIn; creation and
// issuance are not jointly transactional.
func (s *Service) SignUp(ctx context.Context, handle, email, password string) (string, error) {

	if handle == "" || email == "" || password == "" {
		return "", common.ErrEmptyField
	}

	if !emailRegexp.MatchString(email) {
		return "", common.ErrInvalidEmail
	}

	if _, err := s.repo.GetByHandle(ctx, handle); err == nil {
		return "", common.ErrDuplicateHandle
	} else if !errors.Is(err, common.ErrNotFound) {
		return "", s.storeError(err)
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return "", common.ErrDuplicateEmail
	} else if !errors.Is(err, common.ErrNotFound) {
		return "", s.storeError(err)
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return "", common.ErrInternal
	}

	identity := &UserIdentity{
		Handle:       handle,
		Email:        email,
		PasswordHash: digest,
	}

	identity, err = s.repo.Create(ctx, identity)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateHandle) || errors.Is(err, common.ErrDuplicateEmail) {
			return "", err
		}
		return "", s.storeError(err)
	}

	token, err := s.issuer.Issue(identity.Handle)
	if err != nil {
		return "", common.ErrInternal
	}

	return token, nil
}

// SignIn verifies the handle/password pair and returns a session token.
func (s *Service) SignIn(ctx context.Context, handle, password string) (string, error) {

	identity, err := s.repo.GetByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrUserNotFound
		}
		return "", s.storeError(err)
	}

	if !s.hasher.Verify(password, identity.PasswordHash) {
		return "", common.ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(identity.Handle)
	if err != nil {
		return "", common.ErrInternal
	}

	return token, nil
}

// storeError maps a failed store call onto the service taxonomy: an expired
// or cancelled request deadline becomes ErrUnavailable, anything else is
// wrapped as internal.
func (s *Service) storeError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return common.ErrUnavailable
	}
	return fmt.Errorf("%w: %v", common.ErrInternal, err)
}
