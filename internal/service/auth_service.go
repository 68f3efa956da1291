package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"storefront/internal/domain"
)

type Initializer interface {
	Initialize(ctx context.Context) (*domain.Document, error)
}

type SessionStore interface {
	Get(ctx context.Context) (*domain.Session, error)
	Save(ctx context.Context, s domain.Session) error
	Delete(ctx context.Context) error
}

// AuthService is the login/register/logout wrapper over the user repository
// and the session record.
type AuthService struct {
	store    Initializer
	users    domain.UserRepository
	sessions SessionStore
	log      *zap.Logger
	now      func() time.Time
}

func NewAuthService(st Initializer, users domain.UserRepository, sessions SessionStore, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{store: st, users: users, sessions: sessions, log: log, now: time.Now}
}

// Restore initializes the store and returns the user of the saved session.
// A session pointing at a user that no longer exists is discarded.
func (s *AuthService) Restore(ctx context.Context) (*domain.User, error) {
	if _, err := s.store.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("initialize store: %w", err)
	}
	return s.Current(ctx)
}

func (s *AuthService) Current(ctx context.Context) (*domain.User, error) {
	sess, err := s.sessions.Get(ctx)
	if err != nil || sess == nil {
		return nil, err
	}
	u, err := s.users.FindByID(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		s.log.Info("dropping session of unknown user", zap.String("user_id", sess.UserID))
		return nil, s.sessions.Delete(ctx)
	}
	return u, nil
}

// Authenticate checks credentials without touching the session record.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := s.users.ValidateCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrInvalidCredentials
	}
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return u, s.startSession(ctx, u.ID)
}

// SignUp validates and creates the account without logging it in.
func (s *AuthService) SignUp(ctx context.Context, in domain.UserInput) (*domain.User, error) {
	if err := validateEmail(in.Email); err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}
	if in.FirstNameEn == "" {
		in.FirstNameEn = in.FirstName
	}
	if in.LastNameEn == "" {
		in.LastNameEn = in.LastName
	}
	u, err := s.users.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrStoreUnavailable
	}
	s.log.Info("user registered", zap.String("user_id", u.ID), zap.String("role", string(u.Role)))
	return u, nil
}

// Register signs up and logs the new user in.
func (s *AuthService) Register(ctx context.Context, in domain.UserInput) (*domain.User, error) {
	u, err := s.SignUp(ctx, in)
	if err != nil {
		return nil, err
	}
	return u, s.startSession(ctx, u.ID)
}

func (s *AuthService) Logout(ctx context.Context) error { return s.sessions.Delete(ctx) }

// UpdateProfile edits the logged-in user.
func (s *AuthService) UpdateProfile(ctx context.Context, upd domain.UserUpdate) (*domain.User, error) {
	u, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotLoggedIn
	}
	return s.UpdateProfileFor(ctx, u.ID, upd)
}

func (s *AuthService) UpdateProfileFor(ctx context.Context, userID string, upd domain.UserUpdate) (*domain.User, error) {
	if upd.Password != nil {
		if err := validatePassword(*upd.Password); err != nil {
			return nil, err
		}
	}
	u, err := s.users.Update(ctx, userID, upd)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotLoggedIn
	}
	return u, nil
}

func (s *AuthService) startSession(ctx context.Context, userID string) error {
	return s.sessions.Save(ctx, domain.Session{UserID: userID, CreatedAt: s.now().UTC()})
}
