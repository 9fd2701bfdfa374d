// Package identity управляет локальной записью "кто я" giver-контекста.
// Запись хранится отдельно от коллекции дарителей и при каждой загрузке
// сверяется с ней через дедупликацию AddGiver по номеру телефона.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iudanet/giftstream/internal/models"
	"github.com/iudanet/giftstream/internal/storage"
	"github.com/iudanet/giftstream/internal/store"
	"github.com/iudanet/giftstream/internal/validation"
)

// Registrar is the part of the state store the identity service uses.
type Registrar interface {
	AddGiver(ctx context.Context, input store.GiverInput) models.Giver
}

// Service reconciles the local giver identity with the shared store.
type Service struct {
	storage   storage.IdentityStorage
	registrar Registrar
	logger    *slog.Logger
}

// NewService creates an identity Service.
func NewService(st storage.IdentityStorage, registrar Registrar, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		storage:   st,
		registrar: registrar,
		logger:    logger,
	}
}

// Bootstrap загружает сохраненную запись и повторно регистрирует ее
// в store. Благодаря дедупликации по телефону повторная регистрация —
// no-op, возвращающий каноническую запись; если коллекция дарителей была
// очищена, запись пересоздается. Возвращает nil без ошибки, если
// пользователь еще не регистрировался.
func (s *Service) Bootstrap(ctx context.Context) (*models.Giver, error) {
	saved, err := s.storage.GetIdentity(ctx)
	if errors.Is(err, storage.ErrIdentityNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load identity: %w", err)
	}

	giver := s.registrar.AddGiver(ctx, store.GiverInput{
		Nickname:   saved.Nickname,
		Avatar:     saved.Avatar,
		RealName:   saved.RealName,
		Phone:      saved.Phone,
		Department: saved.Department,
	})

	// канонический id мог измениться после пересоздания коллекции
	if giver.ID != saved.ID {
		if err := s.storage.SaveIdentity(ctx, &giver); err != nil {
			s.logger.Warn("failed to refresh identity record", "error", err)
		}
	}

	return &giver, nil
}

// Register validates the input, registers the giver in the shared store
// and persists the local identity record.
func (s *Service) Register(ctx context.Context, input store.GiverInput) (models.Giver, error) {
	if err := validation.ValidateNickname(input.Nickname); err != nil {
		return models.Giver{}, fmt.Errorf("invalid nickname: %w", err)
	}
	if err := validation.ValidatePhone(input.Phone); err != nil {
		return models.Giver{}, fmt.Errorf("invalid phone: %w", err)
	}

	giver := s.registrar.AddGiver(ctx, input)

	if err := s.storage.SaveIdentity(ctx, &giver); err != nil {
		return models.Giver{}, fmt.Errorf("failed to save identity: %w", err)
	}

	return giver, nil
}

// Reset удаляет локальную запись. Запись в общей коллекции дарителей
// остается: она append-only.
func (s *Service) Reset(ctx context.Context) error {
	err := s.storage.DeleteIdentity(ctx)
	if err != nil && !errors.Is(err, storage.ErrIdentityNotFound) {
		return fmt.Errorf("failed to delete identity: %w", err)
	}
	return nil
}
