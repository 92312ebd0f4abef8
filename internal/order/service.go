// Package order は飲食注文管理のドメインロジックを提供する。
package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/minoru/makanai/internal/menu"
	"github.com/minoru/makanai/internal/model"
	"github.com/minoru/makanai/internal/repository"
)

// Input は注文の作成・更新の入力値。
// Itemsの単価はカタログから解決されるため、入力値のRateは無視される。
type Input struct {
	OrganizationID string
	Items          []model.OrderItem
	OrderDate      time.Time
}

// Service は飲食注文管理のサービス層。
// 注文品目はメニューカタログと照合され、単価と合計金額は
// 常にサーバー側で計算される。
type Service struct {
	orderRepo repository.FoodOrderRepository
	orgRepo   repository.OrganizationRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(orderRepo repository.FoodOrderRepository, orgRepo repository.OrganizationRepository) *Service {
	return &Service{
		orderRepo: orderRepo,
		orgRepo:   orgRepo,
	}
}

// List はユーザーの注文一覧を返す。
// organizationIDが空でない場合は対象組織の注文に絞り込む。
// 絞り込み対象の組織は所有者検証を行う。
func (s *Service) List(ctx context.Context, userID, organizationID string) ([]*model.FoodOrder, error) {
	if organizationID != "" {
		if err := s.verifyOrganization(ctx, userID, organizationID); err != nil {
			return nil, err
		}
	}

	orders, err := s.orderRepo.ListByUserID(ctx, userID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("注文一覧の取得に失敗しました: %w", err)
	}
	return orders, nil
}

// Get は指定IDの注文を返す。
// 存在しない、または他ユーザーの注文の場合はNotFoundを返す。
func (s *Service) Get(ctx context.Context, userID, id string) (*model.FoodOrder, error) {
	return s.findOwned(ctx, userID, id)
}

// Create は注文を作成する。
// 品目はカタログと照合され、単価はカタログの値で上書きされる。
// 合計金額はサーバー側で再計算される。
func (s *Service) Create(ctx context.Context, userID string, input Input) (*model.FoodOrder, error) {
	if err := s.verifyOrganization(ctx, userID, input.OrganizationID); err != nil {
		return nil, err
	}

	items, total, err := resolveItems(input.Items)
	if err != nil {
		return nil, err
	}

	orderDate := input.OrderDate
	if orderDate.IsZero() {
		orderDate = time.Now()
	}

	order := &model.FoodOrder{
		ID:             uuid.New().String(),
		UserID:         userID,
		OrganizationID: input.OrganizationID,
		Items:          items,
		TotalAmount:    total,
		OrderDate:      orderDate,
		CreatedAt:      time.Now(),
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("注文の作成に失敗しました: %w", err)
	}

	return order, nil
}

// Update は注文を更新する。品目と合計金額は作成時と同様に再計算される。
func (s *Service) Update(ctx context.Context, userID, id string, input Input) (*model.FoodOrder, error) {
	order, err := s.findOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := s.verifyOrganization(ctx, userID, input.OrganizationID); err != nil {
		return nil, err
	}

	items, total, err := resolveItems(input.Items)
	if err != nil {
		return nil, err
	}

	order.OrganizationID = input.OrganizationID
	order.Items = items
	order.TotalAmount = total
	if !input.OrderDate.IsZero() {
		order.OrderDate = input.OrderDate
	}

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("注文の更新に失敗しました: %w", err)
	}

	return order, nil
}

// Delete は注文を削除する。所有者以外は削除できない。
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.findOwned(ctx, userID, id); err != nil {
		return err
	}

	if err := s.orderRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("注文の削除に失敗しました: %w", err)
	}

	return nil
}

// findOwned は指定IDの注文を取得し、所有者を検証する。
func (s *Service) findOwned(ctx context.Context, userID, id string) (*model.FoodOrder, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("注文の取得に失敗しました: %w", err)
	}
	if order == nil || order.UserID != userID {
		return nil, model.NewOrderNotFoundError(id)
	}
	return order, nil
}

// verifyOrganization は注文先の組織が存在し、ユーザーが所有していることを検証する。
func (s *Service) verifyOrganization(ctx context.Context, userID, organizationID string) error {
	if organizationID == "" {
		return model.NewInvalidRequestError("組織IDは必須です")
	}
	org, err := s.orgRepo.FindByID(ctx, organizationID)
	if err != nil {
		return fmt.Errorf("組織の取得に失敗しました: %w", err)
	}
	if org == nil || org.UserID != userID {
		return model.NewOrganizationNotFoundError(organizationID)
	}
	return nil
}

// resolveItems は品目をカタログと照合し、解決済み品目と合計金額を返す。
func resolveItems(items []model.OrderItem) ([]model.OrderItem, int, error) {
	if len(items) == 0 {
		return nil, 0, model.NewEmptyOrderError()
	}

	resolved, err := menu.ResolveItems(items)
	if err != nil {
		return nil, 0, err
	}

	return resolved, menu.Total(resolved), nil
}
