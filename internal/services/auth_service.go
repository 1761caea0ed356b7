package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/blogfeed/backend/internal/apperrors"
	"github.com/anonto42/blogfeed/backend/internal/models"
	"github.com/anonto42/blogfeed/backend/internal/repositories"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

const badCredentials = "Please enter a correct username and password. Note that both fields may be case-sensitive."

// Usernames that would be shadowed by top-level routes.
var reservedUsernames = map[string]bool{
	"about": true, "admin": true, "auth": true, "follow": true,
	"group": true, "health": true, "media": true, "new": true,
}

type AuthService struct {
	users    repositories.UserRepository
	validate Validator
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

func NewAuthService(users repositories.UserRepository, validate Validator, jwtSecret string, sessionTTL time.Duration) *AuthService {
	return &AuthService{
		users:    users,
		validate: validate,
		secret:   []byte(jwtSecret),
		ttl:      sessionTTL,
		now:      time.Now,
	}
}

// Signup creates a local account with a bcrypt password hash.
func (s *AuthService) Signup(ctx context.Context, req models.SignupRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validate.Validate(&req); err != nil {
		return nil, err
	}
	if reservedUsernames[strings.ToLower(req.Username)] {
		return nil, apperrors.Invalid(map[string]string{"username": "This username is reserved."})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  string(hashedPassword),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if apperrors.IsConflict(err) {
			return nil, apperrors.Invalid(map[string]string{"username": "A user with that username already exists."})
		}
		return nil, err
	}
	return user, nil
}

// Login checks a username and password. Unknown users and wrong passwords
// get the same Unauthorized error.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := s.validate.Validate(&req); err != nil {
		return nil, err
	}
	user, err := s.users.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.New(apperrors.KindUnauthorized, badCredentials)
		}
		return nil, err
	}
	if user.Password == "" {
		return nil, apperrors.New(apperrors.KindUnauthorized, badCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperrors.New(apperrors.KindUnauthorized, badCredentials)
	}
	return user, nil
}

// FirebaseLogin maps a verified Firebase ID token onto a local user,
// creating the user on first sign-in.
func (s *AuthService) FirebaseLogin(ctx context.Context, token *auth.Token) (*models.User, error) {
	user, err := s.users.GetUserByFirebaseUID(ctx, token.UID)
	if err == nil {
		return user, nil
	}
	if !apperrors.IsNotFound(err) {
		return nil, err
	}

	uid := token.UID
	email, _ := token.Claims["email"].(string)
	name, _ := token.Claims["name"].(string)
	user = &models.User{
		Username:    firebaseUsername(email, uid),
		Email:       email,
		FirstName:   name,
		FirebaseUID: &uid,
	}
	err = s.users.CreateUser(ctx, user)
	if apperrors.IsConflict(err) && user.Username != uid {
		// Email-derived name is taken; the uid is unique.
		user.ID = 0
		user.Username = uid
		err = s.users.CreateUser(ctx, user)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func firebaseUsername(email, uid string) string {
	local, _, _ := strings.Cut(email, "@")
	local = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', strings.ContainsRune("_.+-", r):
			return r
		}
		return -1
	}, local)
	if local == "" || reservedUsernames[strings.ToLower(local)] {
		return uid
	}
	return local
}

// IssueSession signs a session token for user.
func (s *AuthService) IssueSession(user *models.User) (string, error) {
	now := s.now()
	claims := &models.SessionClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// SessionTTL is how long an issued session stays valid.
func (s *AuthService) SessionTTL() time.Duration {
	return s.ttl
}

// CurrentUser parses a session token and loads its user.
func (s *AuthService) CurrentUser(ctx context.Context, tokenString string) (*models.User, error) {
	claims := &models.SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.Wrap(apperrors.KindUnauthorized, "invalid session", err)
	}
	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.Wrap(apperrors.KindUnauthorized, "session user no longer exists", err)
		}
		return nil, err
	}
	return user, nil
}
