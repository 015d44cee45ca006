// internal/service/auth_service.go
package service

import (
    "context"
    "errors"
    "fmt"
    "strconv"
    "strings"
    "sync"
    "time"

    "github.com/golang-jwt/jwt"
    "github.com/google/uuid"
    "golang.org/x/crypto/bcrypt"

    "github.com/unclebandit/crm-backend/internal/db"
    appErrors "github.com/unclebandit/crm-backend/internal/errors"
    "github.com/unclebandit/crm-backend/internal/logging"
    "github.com/unclebandit/crm-backend/internal/model"
    "github.com/unclebandit/crm-backend/internal/repository"
)

const tokenIssuer = "crm-backend"

// Authenticator resolves a bearer token to the owner id it belongs to.
type Authenticator interface {
    Authenticate(ctx context.Context, token string) (int64, error)
}

// AuthService registers users, issues tokens and resolves them back to users.
type AuthService struct {
    UserRepo   repository.UserRepositoryInterface
    Secret     []byte
    TokenTTL   time.Duration
    BcryptCost int // zero means bcrypt.DefaultCost
}

var (
    dummyHashOnce sync.Once
    dummyHash     []byte
)

func (s *AuthService) Register(ctx context.Context, reg model.Registration) (*model.User, error) {
    reg.Name = strings.TrimSpace(reg.Name)
    reg.Email = strings.ToLower(strings.TrimSpace(reg.Email))
    if err := validateStruct(reg); err != nil {
        return nil, err
    }

    hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), s.cost())
    if err != nil {
        return nil, fmt.Errorf("hash password: %w", err)
    }

    u, err := s.UserRepo.Create(ctx, reg.Name, reg.Email, string(hash))
    if err != nil {
        if errors.Is(err, db.ErrDuplicate) {
            return nil, appErrors.NewDuplicateEmail(reg.Email)
        }
        logging.Errorf("register user failed: %v", err)
        return nil, appErrors.NewPersistence("register user", err)
    }
    return u, nil
}

// Login returns a signed token. Unknown email and wrong password fail the same way.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
    u, err := s.UserRepo.GetByEmail(ctx, strings.TrimSpace(email))
    if err != nil {
        logging.Errorf("login lookup failed: %v", err)
        return "", appErrors.NewPersistence("login", err)
    }

    if u == nil {
        // Burn the same bcrypt time as a real comparison.
        _ = bcrypt.CompareHashAndPassword(s.dummyHash(), []byte(password))
        return "", appErrors.NewAuthentication("invalid email or password")
    }
    if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
        return "", appErrors.NewAuthentication("invalid email or password")
    }

    return s.IssueToken(u.ID, time.Now())
}

// IssueToken signs an HS256 token for userID, valid for TokenTTL from now.
func (s *AuthService) IssueToken(userID int64, now time.Time) (string, error) {
    claims := jwt.StandardClaims{
        Subject:   strconv.FormatInt(userID, 10),
        Issuer:    tokenIssuer,
        Id:        uuid.NewString(),
        IssuedAt:  now.Unix(),
        ExpiresAt: now.Add(s.TokenTTL).Unix(),
    }
    signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
    if err != nil {
        return "", fmt.Errorf("sign token: %w", err)
    }
    return signed, nil
}

// Authenticate verifies the token and confirms the user still exists.
func (s *AuthService) Authenticate(ctx context.Context, token string) (int64, error) {
    claims := &jwt.StandardClaims{}
    parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
        }
        return s.Secret, nil
    })
    if err != nil || !parsed.Valid {
        return 0, appErrors.NewAuthentication("invalid or expired token")
    }
    if claims.Issuer != tokenIssuer {
        return 0, appErrors.NewAuthentication("invalid token issuer")
    }

    userID, err := strconv.ParseInt(claims.Subject, 10, 64)
    if err != nil || userID <= 0 {
        return 0, appErrors.NewAuthentication("invalid token subject")
    }

    if _, err := s.UserRepo.GetByID(ctx, userID); err != nil {
        if appErrors.IsNotFound(err) {
            return 0, appErrors.NewAuthentication("unknown user")
        }
        logging.Errorf("authenticate lookup failed: %v", err)
        return 0, appErrors.NewPersistence("authenticate", err)
    }
    return userID, nil
}

// CurrentUser loads the authenticated user's profile.
func (s *AuthService) CurrentUser(ctx context.Context, userID int64) (*model.User, error) {
    u, err := s.UserRepo.GetByID(ctx, userID)
    if err != nil {
        if appErrors.IsNotFound(err) {
            return nil, err
        }
        return nil, appErrors.NewPersistence("current user", err)
    }
    return u, nil
}

func (s *AuthService) cost() int {
    if s.BcryptCost == 0 {
        return bcrypt.DefaultCost
    }
    return s.BcryptCost
}

func (s *AuthService) dummyHash() []byte {
    dummyHashOnce.Do(func() {
        dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.cost())
    })
    return dummyHash
}

var _ Authenticator = (*AuthService)(nil)
