// Package organization は取引先組織管理のドメインロジックを提供する。
package organization

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minoru/makanai/internal/model"
	"github.com/minoru/makanai/internal/repository"
	"github.com/minoru/makanai/internal/security"
)

// Input は組織の作成・更新の入力値。
type Input struct {
	Name          string
	ContactPerson string
	Email         string
}

// Service は取引先組織管理のサービス層。
// すべての操作は所有ユーザーのスコープ内で行われ、
// 他ユーザーの組織は存在しないものとして扱われる。
type Service struct {
	orgRepo   repository.OrganizationRepository
	sanitizer security.InputSanitizerService
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(orgRepo repository.OrganizationRepository, sanitizer security.InputSanitizerService) *Service {
	return &Service{
		orgRepo:   orgRepo,
		sanitizer: sanitizer,
	}
}

// List はユーザーが所有する組織一覧を返す。
func (s *Service) List(ctx context.Context, userID string) ([]*model.Organization, error) {
	orgs, err := s.orgRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("組織一覧の取得に失敗しました: %w", err)
	}
	return orgs, nil
}

// Get は指定IDの組織を返す。
// 存在しない、または他ユーザーの組織の場合はNotFoundを返す。
func (s *Service) Get(ctx context.Context, userID, id string) (*model.Organization, error) {
	return s.findOwned(ctx, userID, id)
}

// Create は組織を作成し、所有者として現在のユーザーを記録する。
func (s *Service) Create(ctx context.Context, userID string, input Input) (*model.Organization, error) {
	if err := s.validate(&input); err != nil {
		return nil, err
	}

	org := &model.Organization{
		ID:            uuid.New().String(),
		UserID:        userID,
		Name:          input.Name,
		ContactPerson: input.ContactPerson,
		Email:         input.Email,
		CreatedAt:     time.Now(),
	}

	if err := s.orgRepo.Create(ctx, org); err != nil {
		return nil, fmt.Errorf("組織の作成に失敗しました: %w", err)
	}

	return org, nil
}

// Update は組織情報を更新する。所有者以外は更新できない。
func (s *Service) Update(ctx context.Context, userID, id string, input Input) (*model.Organization, error) {
	org, err := s.findOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := s.validate(&input); err != nil {
		return nil, err
	}

	org.Name = input.Name
	org.ContactPerson = input.ContactPerson
	org.Email = input.Email

	if err := s.orgRepo.Update(ctx, org); err != nil {
		return nil, fmt.Errorf("組織の更新に失敗しました: %w", err)
	}

	return org, nil
}

// Delete は組織を削除する。所有者以外は削除できない。
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.findOwned(ctx, userID, id); err != nil {
		return err
	}

	if err := s.orgRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("組織の削除に失敗しました: %w", err)
	}

	return nil
}

// findOwned は指定IDの組織を取得し、所有者を検証する。
func (s *Service) findOwned(ctx context.Context, userID, id string) (*model.Organization, error) {
	org, err := s.orgRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("組織の取得に失敗しました: %w", err)
	}
	if org == nil || org.UserID != userID {
		return nil, model.NewOrganizationNotFoundError(id)
	}
	return org, nil
}

// validate は入力値をサニタイズして検証する。
func (s *Service) validate(input *Input) error {
	input.Name = s.sanitizer.Sanitize(input.Name)
	input.ContactPerson = s.sanitizer.Sanitize(input.ContactPerson)
	input.Email = strings.TrimSpace(input.Email)

	if input.Name == "" {
		return model.NewInvalidRequestError("組織名は必須です")
	}
	return nil
}
