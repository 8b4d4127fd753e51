package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/legastream/legastream/internal/models"
)

var (
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired reset token")
)

var emailPattern = regexp.MustCompile(`^[\w+\-.]+@[a-z\d\-]+(\.[a-z\d\-]+)*\.[a-z]+$`)

// UserService owns all reads and writes to the users table.
type UserService struct {
	db *sql.DB
}

func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ValidationErrors reports every failed field check at once, matching the
// API's 422 error-list shape.
func (r *RegisterRequest) ValidationErrors() []string {
	var errs []string
	email := strings.ToLower(strings.TrimSpace(r.Email))
	if email == "" {
		errs = append(errs, "Email is required")
	} else if !emailPattern.MatchString(email) {
		errs = append(errs, "Invalid email format")
	}
	if r.Password == "" {
		errs = append(errs, "Password is required")
	} else if len(r.Password) < MinPasswordLength {
		errs = append(errs, fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	}
	if strings.TrimSpace(r.FirstName) == "" {
		errs = append(errs, "First name is required")
	}
	if strings.TrimSpace(r.LastName) == "" {
		errs = append(errs, "Last name is required")
	}
	return errs
}

func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var exists bool
	err := s.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)", email).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	// Accounts are auto-confirmed; the token is kept so confirm_email
	// stays a valid no-op for older clients.
	confirmationToken := uuid.NewString()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, first_name, last_name, confirmation_token, email_confirmed)
		 VALUES (?, ?, ?, ?, ?, 1)`,
		email, hash, strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName), confirmationToken,
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return &models.User{
		ID:                id,
		Email:             email,
		FirstName:         strings.TrimSpace(req.FirstName),
		LastName:          strings.TrimSpace(req.LastName),
		Role:              models.RoleUser,
		EmailConfirmed:    true,
		ConfirmationToken: confirmationToken,
	}, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	_, err = s.db.ExecContext(ctx, "UPDATE users SET updated_at = CURRENT_TIMESTAMP WHERE id = ?", user.ID)
	if err != nil {
		return nil, fmt.Errorf("touch user: %w", err)
	}

	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, first_name, last_name, role, email_confirmed, created_at, updated_at
		 FROM users WHERE id = ?`, id))
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, first_name, last_name, role, email_confirmed, created_at, updated_at
		 FROM users WHERE email = ?`, email))
}

// CreateResetToken stores a fresh reset token valid for two hours and
// returns it. Callers must not reveal whether the account exists.
func (s *UserService) CreateResetToken(ctx context.Context, email string) (*models.User, string, error) {
	user, err := s.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", err
	}

	token := uuid.NewString()
	expiresAt := time.Now().Add(2 * time.Hour).UTC().Format("2006-01-02 15:04:05")

	_, err = s.db.ExecContext(ctx,
		"UPDATE users SET reset_token = ?, reset_token_expires_at = ? WHERE id = ?",
		token, expiresAt, user.ID,
	)
	if err != nil {
		return nil, "", fmt.Errorf("store reset token: %w", err)
	}

	return user, token, nil
}

func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	var userID int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM users WHERE reset_token = ? AND reset_token_expires_at > CURRENT_TIMESTAMP",
		token,
	).Scan(&userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrInvalidToken
		}
		return fmt.Errorf("lookup reset token: %w", err)
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		"UPDATE users SET password_hash = ?, reset_token = NULL, reset_token_expires_at = NULL WHERE id = ?",
		hash, userID,
	)
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	return nil
}

func (s *UserService) ConfirmEmail(ctx context.Context, token string) (*models.User, error) {
	var userID int64
	err := s.db.QueryRowContext(ctx, "SELECT id FROM users WHERE confirmation_token = ?", token).Scan(&userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("lookup confirmation token: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"UPDATE users SET email_confirmed = 1, confirmation_token = NULL, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("confirm email: %w", err)
	}

	return s.GetByID(ctx, userID)
}

func (s *UserService) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Role, &u.EmailConfirmed, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
