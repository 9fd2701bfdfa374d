// Package auth реализует admin gate: общий пароль, сверяемый с хранимым
// argon2id-хешем, и сессионный токен, который admin view проверяет при
// каждой загрузке. Секрет подписи случаен и живет только в памяти процесса,
// поэтому сессии не переживают перезапуск контекста.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/argon2"

	"github.com/iudanet/giftstream/internal/storage"
	"github.com/iudanet/giftstream/internal/validation"
)

// DefaultPassword — пароль администратора, устанавливаемый при первом
// запуске, если никакой пароль еще не сохранен.
const DefaultPassword = "admin666"

// DefaultSessionTTL задает срок жизни админской сессии.
const DefaultSessionTTL = 12 * time.Hour

// Параметры argon2id
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	saltLen      = 16
)

// Ошибки admin gate
var (
	// ErrInvalidPassword indicates a wrong admin password.
	// Показывается inline, без блокировок и rate limiting.
	ErrInvalidPassword = errors.New("invalid admin password")

	// ErrInvalidSession indicates a missing, malformed or expired session token
	ErrInvalidSession = errors.New("invalid admin session")
)

// Options configures a Gate.
type Options struct {
	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// SessionTTL defaults to DefaultSessionTTL.
	SessionTTL time.Duration
}

// Gate mediates admin access to the state store's mutating operations.
type Gate struct {
	storage storage.AdminStorage
	logger  *slog.Logger
	secret  []byte
	ttl     time.Duration
}

// NewGate creates a Gate with a fresh random session secret.
func NewGate(st storage.AdminStorage, opts Options) (*Gate, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("failed to generate session secret: %w", err)
	}

	return &Gate{
		storage: st,
		logger:  logger,
		secret:  secret,
		ttl:     ttl,
	}, nil
}

// Bootstrap устанавливает пароль по умолчанию, если никакой пароль
// еще не сохранен. Вызывается при старте админского контекста.
func (g *Gate) Bootstrap(ctx context.Context) error {
	_, err := g.storage.GetAdminCredential(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrCredentialNotFound) {
		return fmt.Errorf("failed to check admin credential: %w", err)
	}

	g.logger.Info("no admin credential found, bootstrapping default password")
	return g.savePassword(ctx, DefaultPassword)
}

// Login verifies the shared password and returns a session token.
// Returns ErrInvalidPassword on mismatch.
func (g *Gate) Login(ctx context.Context, password string) (string, error) {
	if err := g.verifyPassword(ctx, password); err != nil {
		return "", err
	}
	return g.newSessionToken()
}

// SetPassword заменяет пароль администратора, предварительно проверив
// текущий. Новый пароль проходит валидацию.
func (g *Gate) SetPassword(ctx context.Context, current, next string) error {
	if err := g.verifyPassword(ctx, current); err != nil {
		return err
	}
	if err := validation.ValidatePassword(next); err != nil {
		return fmt.Errorf("invalid new password: %w", err)
	}
	return g.savePassword(ctx, next)
}

// verifyPassword сверяет пароль с хранимым argon2id-хешем.
func (g *Gate) verifyPassword(ctx context.Context, password string) error {
	cred, err := g.storage.GetAdminCredential(ctx)
	if errors.Is(err, storage.ErrCredentialNotFound) {
		// первый вход до Bootstrap: сверяем с паролем по умолчанию
		if subtle.ConstantTimeCompare([]byte(password), []byte(DefaultPassword)) == 1 {
			return nil
		}
		return ErrInvalidPassword
	}
	if err != nil {
		return fmt.Errorf("failed to load admin credential: %w", err)
	}

	salt, err := base64.StdEncoding.DecodeString(cred.Salt)
	if err != nil {
		return fmt.Errorf("failed to decode credential salt: %w", err)
	}
	expected, err := base64.StdEncoding.DecodeString(cred.Hash)
	if err != nil {
		return fmt.Errorf("failed to decode credential hash: %w", err)
	}

	hash := hashPassword(password, salt)
	if subtle.ConstantTimeCompare(hash, expected) != 1 {
		return ErrInvalidPassword
	}

	return nil
}

// savePassword хеширует пароль со свежей солью и сохраняет credential.
func (g *Gate) savePassword(ctx context.Context, password string) error {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}

	hash := hashPassword(password, salt)
	cred := &storage.AdminCredential{
		Hash:      base64.StdEncoding.EncodeToString(hash),
		Salt:      base64.StdEncoding.EncodeToString(salt),
		UpdatedAt: time.Now().Unix(),
	}

	if err := g.storage.SaveAdminCredential(ctx, cred); err != nil {
		return fmt.Errorf("failed to save admin credential: %w", err)
	}

	return nil
}

// hashPassword вычисляет argon2id-хеш пароля
func hashPassword(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}
