// Package expense は経費管理のドメインロジックを提供する。
package expense

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/minoru/makanai/internal/model"
	"github.com/minoru/makanai/internal/repository"
	"github.com/minoru/makanai/internal/security"
)

// Input は経費の作成・更新の入力値。
type Input struct {
	Description string
	Amount      int
	Category    string
	ExpenseDate time.Time
}

// Service は経費管理のサービス層。
type Service struct {
	expenseRepo repository.ExpenseRepository
	sanitizer   security.InputSanitizerService
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(expenseRepo repository.ExpenseRepository, sanitizer security.InputSanitizerService) *Service {
	return &Service{
		expenseRepo: expenseRepo,
		sanitizer:   sanitizer,
	}
}

// List はユーザーの経費一覧を返す。
// categoryが空でない場合はカテゴリで絞り込む。
func (s *Service) List(ctx context.Context, userID, category string) ([]*model.Expense, error) {
	expenses, err := s.expenseRepo.ListByUserID(ctx, userID, category)
	if err != nil {
		return nil, fmt.Errorf("経費一覧の取得に失敗しました: %w", err)
	}
	return expenses, nil
}

// Get は指定IDの経費を返す。
// 存在しない、または他ユーザーの経費の場合はNotFoundを返す。
func (s *Service) Get(ctx context.Context, userID, id string) (*model.Expense, error) {
	return s.findOwned(ctx, userID, id)
}

// Create は経費を作成する。
func (s *Service) Create(ctx context.Context, userID string, input Input) (*model.Expense, error) {
	if err := s.validate(&input); err != nil {
		return nil, err
	}

	expenseDate := input.ExpenseDate
	if expenseDate.IsZero() {
		expenseDate = time.Now()
	}

	exp := &model.Expense{
		ID:          uuid.New().String(),
		UserID:      userID,
		Description: input.Description,
		Amount:      input.Amount,
		Category:    input.Category,
		ExpenseDate: expenseDate,
		CreatedAt:   time.Now(),
	}

	if err := s.expenseRepo.Create(ctx, exp); err != nil {
		return nil, fmt.Errorf("経費の作成に失敗しました: %w", err)
	}

	return exp, nil
}

// Update は経費を更新する。所有者以外は更新できない。
func (s *Service) Update(ctx context.Context, userID, id string, input Input) (*model.Expense, error) {
	exp, err := s.findOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := s.validate(&input); err != nil {
		return nil, err
	}

	exp.Description = input.Description
	exp.Amount = input.Amount
	exp.Category = input.Category
	if !input.ExpenseDate.IsZero() {
		exp.ExpenseDate = input.ExpenseDate
	}

	if err := s.expenseRepo.Update(ctx, exp); err != nil {
		return nil, fmt.Errorf("経費の更新に失敗しました: %w", err)
	}

	return exp, nil
}

// Delete は経費を削除する。所有者以外は削除できない。
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.findOwned(ctx, userID, id); err != nil {
		return err
	}

	if err := s.expenseRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("経費の削除に失敗しました: %w", err)
	}

	return nil
}

// findOwned は指定IDの経費を取得し、所有者を検証する。
func (s *Service) findOwned(ctx context.Context, userID, id string) (*model.Expense, error) {
	exp, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("経費の取得に失敗しました: %w", err)
	}
	if exp == nil || exp.UserID != userID {
		return nil, model.NewExpenseNotFoundError(id)
	}
	return exp, nil
}

// validate は入力値をサニタイズして検証する。
func (s *Service) validate(input *Input) error {
	input.Description = s.sanitizer.Sanitize(input.Description)
	input.Category = s.sanitizer.Sanitize(input.Category)

	if input.Description == "" {
		return model.NewInvalidRequestError("経費の説明は必須です")
	}
	if input.Amount <= 0 {
		return model.NewInvalidRequestError("金額は1以上で指定してください")
	}
	if input.Category == "" {
		return model.NewInvalidRequestError("カテゴリは必須です")
	}
	return nil
}
