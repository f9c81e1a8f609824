package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/portal/internal/portal/domain"
	"github.com/aussiebroadwan/portal/internal/portal/store"
	"github.com/aussiebroadwan/portal/pkg/cryptox"
	"github.com/aussiebroadwan/portal/pkg/idx"
	"github.com/aussiebroadwan/portal/pkg/slogx"
)

// AccountService implements the login and registration actions.
type AccountService struct {
	Store    store.Store
	Sessions *SessionService

	// AdminEmails are registered with the admin flag set. Matching is
	// case-insensitive.
	AdminEmails []string
}

// Register creates a user for email and password and issues its first
// session. The user and session are written in one transaction; a taken
// email is reported as a FieldErrors on FieldEmailReg.
func (s *AccountService) Register(ctx context.Context, email, password string) (domain.Session, error) {
	log := slogx.FromContext(ctx)

	if fe := required(email, password, FieldEmailReg, FieldPasswordReg); fe != nil {
		return domain.Session{}, fe
	}

	salt, hash, err := cryptox.DerivePassword(password)
	if err != nil {
		return domain.Session{}, fmt.Errorf("derive password: %w", err)
	}

	user := domain.User{
		ID:        idx.New().String(),
		Email:     email,
		Salt:      salt,
		Hash:      hash,
		IsAdmin:   s.isAdminEmail(email),
		CreatedAt: s.Sessions.now().UTC(),
	}

	var sess domain.Session
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return FieldErrors{FieldEmailReg: msgEmailInUse}
			}
			return fmt.Errorf("create user: %w", err)
		}

		issued, err := s.Sessions.issue(ctx, tx.Sessions(), user.ID)
		if err != nil {
			return err
		}
		sess = issued
		return nil
	})
	if fe, ok := IsFieldError(err); ok {
		log.Info("registration rejected", "reason", "email_in_use")
		return domain.Session{}, fe
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("register user: %w", err)
	}

	log.Info("user registered", "user_id", user.ID, "is_admin", user.IsAdmin)
	return sess, nil
}

// Login verifies email and password and issues a new session.
func (s *AccountService) Login(ctx context.Context, email, password string) (domain.Session, error) {
	log := slogx.FromContext(ctx)

	if fe := required(email, password, FieldEmailLogin, FieldPasswordLogin); fe != nil {
		return domain.Session{}, fe
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		log.Info("login rejected", "reason", "unknown_email")
		return domain.Session{}, FieldErrors{FieldEmailLogin: msgEmailNotInUse}
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("lookup user: %w", err)
	}

	if !cryptox.VerifyPassword(password, user.Salt, user.Hash) {
		log.Info("login rejected", "reason", "bad_password", "user_id", user.ID)
		return domain.Session{}, FieldErrors{FieldPasswordLogin: msgIncorrectPassword}
	}

	sess, err := s.Sessions.Issue(ctx, user.ID)
	if err != nil {
		return domain.Session{}, err
	}

	log.Info("user logged in", "user_id", user.ID)
	return sess, nil
}

func (s *AccountService) isAdminEmail(email string) bool {
	for _, admin := range s.AdminEmails {
		if strings.EqualFold(strings.TrimSpace(admin), email) {
			return true
		}
	}
	return false
}

func required(email, password, emailField, passwordField string) FieldErrors {
	fe := FieldErrors{}
	if email == "" {
		fe[emailField] = msgEmailRequired
	}
	if password == "" {
		fe[passwordField] = msgPasswordRequired
	}
	if len(fe) == 0 {
		return nil
	}
	return fe
}
