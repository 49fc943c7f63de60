// Package auth connects the external auth provider to a store's identity slot.
package auth

import (
	"context"
	"fmt"

	apperrors "github.com/Danii44/PRIMEHODDIE/errors"
	"github.com/Danii44/PRIMEHODDIE/models"
	"github.com/Danii44/PRIMEHODDIE/store"

	"go.uber.org/zap"
)

// ProfileLookup resolves a user's role from the profile store. A user without
// a profile is a customer and must not be reported as an error.
type ProfileLookup interface {
	LookupRole(ctx context.Context, userID string) (models.Role, error)
}

type Authenticator struct {
	verifier *TokenVerifier
	profiles ProfileLookup
	logger   *zap.Logger
}

func NewAuthenticator(verifier *TokenVerifier, profiles ProfileLookup, logger *zap.Logger) *Authenticator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Authenticator{verifier: verifier, profiles: profiles, logger: logger}
}

// SignIn verifies token, resolves the role and fills the identity slot of s.
// On any failure the slot is left untouched.
func (a *Authenticator) SignIn(ctx context.Context, s *store.Store, token string) (*models.User, error) {
	claims, err := a.verifier.Verify(token)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidToken, err)
	}

	role := models.RoleCustomer
	if a.profiles != nil {
		role, err = a.profiles.LookupRole(ctx, claims.UserID)
		if err != nil {
			a.logger.Error("Profile lookup failed", zap.String("user_id", claims.UserID), zap.Error(err))
			return nil, apperrors.Wrap(apperrors.ErrProfileLookup, fmt.Errorf("lookup role for %s: %w", claims.UserID, err))
		}
	}

	user := &models.User{
		ID:    claims.UserID,
		Email: claims.Email,
		Name:  claims.Name,
		Role:  role,
	}
	s.SetUser(user)

	a.logger.Info("User signed in", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return s.User(), nil
}

func (a *Authenticator) SignOut(s *store.Store) {
	if u := s.User(); u != nil {
		a.logger.Info("User signed out", zap.String("user_id", u.ID))
	}
	s.SetUser(nil)
}
