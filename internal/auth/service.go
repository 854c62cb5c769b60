// Package auth implements account flows: sign-up and sign-in, email
// verification, password reset and access token checks.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"todotrek/internal/apperr"
	"todotrek/internal/model"
	"todotrek/internal/notify"
	"todotrek/internal/repository"
)

const (
	hashBytes         = 64
	minPasswordLength = 6
)

// Dispatcher hands notifications off for background delivery.
type Dispatcher interface {
	Dispatch(n notify.Notification)
}

// Session is returned by sign-up and sign-in.
type Session struct {
	Token string            `json:"token"`
	User  model.UserSummary `json:"user"`
}

type SignUpInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

type GoogleInput struct {
	FirstName string
	LastName  string
	Email     string
	GoogleID  string
}

// Service wraps account business logic.
type Service struct {
	store       *repository.Store
	tokens      *TokenIssuer
	dispatcher  Dispatcher
	frontendURL string
	log         *logrus.Entry
	now         func() time.Time
}

func NewService(store *repository.Store, tokens *TokenIssuer, dispatcher Dispatcher, frontendURL string, log *logrus.Entry) *Service {
	return &Service{
		store:       store,
		tokens:      tokens,
		dispatcher:  dispatcher,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		log:         log.WithField("component", "auth"),
		now:         time.Now,
	}
}

func (s *Service) SignUp(ctx context.Context, input SignUpInput) (*Session, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, apperr.New(apperr.KindInvalidArgument, "Bad Request! email or password should be provided")
	}
	if len(input.Password) < minPasswordLength {
		return nil, apperr.Newf(apperr.KindInvalidArgument, "password must be at least %d characters", minPasswordLength)
	}
	if _, err := s.store.Users.GetByEmail(ctx, email); err == nil {
		return nil, apperr.New(apperr.KindConflict, "This email already exist. Please login using this email")
	} else if !apperr.IsKind(err, apperr.KindNotFound) {
		return nil, err
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        email,
		PasswordHash: hash,
		AccountType:  model.AccountLocal,
	}
	var verification notify.Notification
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Users.Create(ctx, user); err != nil {
			return err
		}
		n, err := s.issueLink(ctx, tx, user, model.PurposeEmailVerification)
		verification = n
		return err
	})
	if err != nil {
		return nil, err
	}
	s.dispatcher.Dispatch(verification)

	s.log.WithField("user_id", user.ID).Info("user signed up")
	return s.session(user)
}

func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.New(apperr.KindInvalidArgument, "Bad Request! email or password should be provided")
	}
	user, err := s.store.Users.GetByEmail(ctx, email)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "User does not exist")
		}
		return nil, err
	}
	if !user.IsVerified {
		return nil, apperr.New(apperr.KindUnauthenticated, "User email is not verified")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, apperr.New(apperr.KindUnauthenticated, "Invalid Password")
	}
	return s.session(user)
}

// RegisterGoogle signs in a Google account, creating a verified user on
// first use. A local account with the same email is not taken over.
func (s *Service) RegisterGoogle(ctx context.Context, input GoogleInput) (*Session, error) {
	email := normalizeEmail(input.Email)
	googleID := strings.TrimSpace(input.GoogleID)
	if email == "" || googleID == "" {
		return nil, apperr.New(apperr.KindInvalidArgument, "email and googleId are required")
	}

	user, err := s.store.Users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if user.GoogleID == nil || *user.GoogleID != googleID {
			return nil, apperr.New(apperr.KindConflict, "Please login using the email and password. This account was not signed up using Google")
		}
		return s.session(user)
	case !apperr.IsKind(err, apperr.KindNotFound):
		return nil, err
	}

	secret, err := randomHex(16)
	if err != nil {
		return nil, err
	}
	hash, err := hashPassword(secret)
	if err != nil {
		return nil, err
	}
	user = &model.User{
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        email,
		PasswordHash: hash,
		IsVerified:   true,
		AccountType:  model.AccountGoogle,
		GoogleID:     &googleID,
	}
	if err := s.store.Users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.log.WithField("user_id", user.ID).Info("google account registered")
	return s.session(user)
}

func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	return s.redeem(ctx, token, model.PurposeEmailVerification, func(tx *repository.Store, userID string) error {
		return tx.Users.MarkVerified(ctx, userID)
	})
}

func (s *Service) ResendVerification(ctx context.Context, email string) error {
	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return apperr.New(apperr.KindConflict, "email is already verified")
	}
	return s.sendLink(ctx, user, model.PurposeEmailVerification)
}

func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return err
	}
	return s.sendLink(ctx, user, model.PurposePasswordReset)
}

func (s *Service) ResetPassword(ctx context.Context, token, password string) error {
	if len(password) < minPasswordLength {
		return apperr.Newf(apperr.KindInvalidArgument, "password must be at least %d characters", minPasswordLength)
	}
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}

	var userID string
	err = s.redeem(ctx, token, model.PurposePasswordReset, func(tx *repository.Store, id string) error {
		userID = id
		return tx.Users.UpdatePasswordHash(ctx, id, hash)
	})
	if err != nil {
		return err
	}

	user, err := s.store.Users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	s.dispatcher.Dispatch(s.notification(user, notify.KindPasswordChanged, ""))
	s.log.WithField("user_id", userID).Info("password reset")
	return nil
}

// Authenticate resolves an access token to the id of an existing user.
func (s *Service) Authenticate(ctx context.Context, token string) (string, error) {
	userID, err := s.tokens.VerifyAccess(token)
	if err != nil {
		return "", err
	}
	if _, err := s.store.Users.GetByID(ctx, userID); err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return "", apperr.New(apperr.KindUnauthenticated, "user no longer exists")
		}
		return "", err
	}
	return userID, nil
}

func (s *Service) CurrentUser(ctx context.Context, userID string) (*model.UserSummary, error) {
	user, err := s.store.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary := user.Summary()
	return &summary, nil
}

// LinkTelegram stores the chat that receives the user's notifications.
func (s *Service) LinkTelegram(ctx context.Context, userID string, chatID int64) error {
	if chatID == 0 {
		return apperr.New(apperr.KindInvalidArgument, "chatId is required")
	}
	if err := s.store.Users.SetTelegramChat(ctx, userID, chatID); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"user_id": userID, "chat_id": chatID}).Info("telegram chat linked")
	return nil
}

// PurgeExpired drops verification hashes whose tokens can no longer be used.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	return s.store.Hashes.PurgeExpired(ctx, s.now())
}

func (s *Service) redeem(ctx context.Context, token string, purpose model.HashPurpose, apply func(tx *repository.Store, userID string) error) error {
	hash, err := s.tokens.VerifyVerification(token)
	if err != nil {
		return err
	}
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		stored, err := tx.Hashes.Consume(ctx, hash, purpose, s.now())
		if err != nil {
			if apperr.IsKind(err, apperr.KindNotFound) {
				return apperr.New(apperr.KindInvalidArgument, "Something went wrong. Please try again or send a new verification request.")
			}
			return err
		}
		return apply(tx, stored.UserID)
	})
}

// sendLink stores a fresh one-shot hash and dispatches the link that
// carries it.
func (s *Service) sendLink(ctx context.Context, user *model.User, purpose model.HashPurpose) error {
	n, err := s.issueLink(ctx, s.store, user, purpose)
	if err != nil {
		return err
	}
	s.dispatcher.Dispatch(n)
	return nil
}

// issueLink stores a one-shot hash through store and returns the
// notification carrying its link. Nothing is sent.
func (s *Service) issueLink(ctx context.Context, store *repository.Store, user *model.User, purpose model.HashPurpose) (notify.Notification, error) {
	secret, err := randomHex(hashBytes)
	if err != nil {
		return notify.Notification{}, err
	}
	token, err := s.tokens.VerificationToken(secret)
	if err != nil {
		return notify.Notification{}, err
	}
	record := &model.VerificationHash{
		Hash:      secret,
		UserID:    user.ID,
		Purpose:   purpose,
		ExpiresAt: s.now().Add(s.tokens.VerificationTTL()),
	}
	if err := store.Hashes.Create(ctx, record); err != nil {
		return notify.Notification{}, err
	}

	kind, path := notify.KindEmailVerification, "/verify/email/action"
	if purpose == model.PurposePasswordReset {
		kind, path = notify.KindPasswordReset, "/reset/password"
	}
	link := s.frontendURL + path + "?t=" + url.QueryEscape(token)
	return s.notification(user, kind, link), nil
}

func (s *Service) notification(user *model.User, kind notify.Kind, link string) notify.Notification {
	n := notify.Notification{Kind: kind, UserID: user.ID, Address: user.Email, Link: link}
	if user.TelegramChatID != nil {
		n.ChatID = *user.TelegramChatID
	}
	return n
}

func (s *Service) userByEmail(ctx context.Context, email string) (*model.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, apperr.New(apperr.KindInvalidArgument, "email is required")
	}
	user, err := s.store.Users.GetByEmail(ctx, email)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "This email does not exist")
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) session(user *model.User) (*Session, error) {
	token, err := s.tokens.AccessToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: user.Summary()}, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperr.Wrap(apperr.KindInvalidArgument, "password cannot be hashed", err)
	}
	return string(hash), nil
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
