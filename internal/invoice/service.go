// Package invoice は請求書管理のドメインロジックを提供する。
package invoice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/minoru/makanai/internal/model"
	"github.com/minoru/makanai/internal/repository"
)

// Input は請求書の作成・更新の入力値。
// Amountが0の場合は対象注文の合計金額が使用される。
type Input struct {
	OrganizationID string
	OrderID        string
	Amount         int
	Status         string
}

// Service は請求書管理のサービス層。
// 請求書は同一ユーザーが所有する注文と組織を参照しなければならない。
type Service struct {
	invoiceRepo repository.InvoiceRepository
	orderRepo   repository.FoodOrderRepository
	orgRepo     repository.OrganizationRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	invoiceRepo repository.InvoiceRepository,
	orderRepo repository.FoodOrderRepository,
	orgRepo repository.OrganizationRepository,
) *Service {
	return &Service{
		invoiceRepo: invoiceRepo,
		orderRepo:   orderRepo,
		orgRepo:     orgRepo,
	}
}

// List はユーザーの請求書一覧を返す。
// statusまたはorganizationIDが空でない場合は絞り込む。
func (s *Service) List(ctx context.Context, userID, status, organizationID string) ([]*model.Invoice, error) {
	if status != "" && !model.ValidInvoiceStatus(status) {
		return nil, model.NewInvalidStatusError(status)
	}

	invoices, err := s.invoiceRepo.ListByUserID(ctx, userID, status, organizationID)
	if err != nil {
		return nil, fmt.Errorf("請求書一覧の取得に失敗しました: %w", err)
	}
	return invoices, nil
}

// Get は指定IDの請求書を返す。
// 存在しない、または他ユーザーの請求書の場合はNotFoundを返す。
func (s *Service) Get(ctx context.Context, userID, id string) (*model.Invoice, error) {
	return s.findOwned(ctx, userID, id)
}

// Create は請求書を作成する。
// 参照先の注文と組織はユーザー所有のものでなければならない。
// Amountが0の場合は注文の合計金額が使用される。
// Statusが空の場合はpendingとなる。
func (s *Service) Create(ctx context.Context, userID string, input Input) (*model.Invoice, error) {
	order, err := s.verifyReferences(ctx, userID, input.OrganizationID, input.OrderID)
	if err != nil {
		return nil, err
	}

	status := model.InvoiceStatusPending
	if input.Status != "" {
		if !model.ValidInvoiceStatus(input.Status) {
			return nil, model.NewInvalidStatusError(input.Status)
		}
		status = model.InvoiceStatus(input.Status)
	}

	amount := input.Amount
	if amount == 0 {
		amount = order.TotalAmount
	}

	inv := &model.Invoice{
		ID:             uuid.New().String(),
		UserID:         userID,
		OrganizationID: input.OrganizationID,
		OrderID:        input.OrderID,
		Amount:         amount,
		Status:         status,
		CreatedAt:      time.Now(),
	}

	if err := s.invoiceRepo.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("請求書の作成に失敗しました: %w", err)
	}

	return inv, nil
}

// Update は請求書を更新する。
func (s *Service) Update(ctx context.Context, userID, id string, input Input) (*model.Invoice, error) {
	inv, err := s.findOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	order, err := s.verifyReferences(ctx, userID, input.OrganizationID, input.OrderID)
	if err != nil {
		return nil, err
	}

	if input.Status != "" {
		if !model.ValidInvoiceStatus(input.Status) {
			return nil, model.NewInvalidStatusError(input.Status)
		}
		inv.Status = model.InvoiceStatus(input.Status)
	}

	inv.OrganizationID = input.OrganizationID
	inv.OrderID = input.OrderID
	if input.Amount != 0 {
		inv.Amount = input.Amount
	} else {
		inv.Amount = order.TotalAmount
	}

	if err := s.invoiceRepo.Update(ctx, inv); err != nil {
		return nil, fmt.Errorf("請求書の更新に失敗しました: %w", err)
	}

	return inv, nil
}

// UpdateStatus は請求書の支払いステータスのみを更新する。
func (s *Service) UpdateStatus(ctx context.Context, userID, id, status string) (*model.Invoice, error) {
	inv, err := s.findOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if !model.ValidInvoiceStatus(status) {
		return nil, model.NewInvalidStatusError(status)
	}

	if err := s.invoiceRepo.UpdateStatus(ctx, id, model.InvoiceStatus(status)); err != nil {
		return nil, fmt.Errorf("請求書ステータスの更新に失敗しました: %w", err)
	}

	inv.Status = model.InvoiceStatus(status)
	return inv, nil
}

// Delete は請求書を削除する。所有者以外は削除できない。
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.findOwned(ctx, userID, id); err != nil {
		return err
	}

	if err := s.invoiceRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("請求書の削除に失敗しました: %w", err)
	}

	return nil
}

// findOwned は指定IDの請求書を取得し、所有者を検証する。
func (s *Service) findOwned(ctx context.Context, userID, id string) (*model.Invoice, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("請求書の取得に失敗しました: %w", err)
	}
	if inv == nil || inv.UserID != userID {
		return nil, model.NewInvoiceNotFoundError(id)
	}
	return inv, nil
}

// verifyReferences は参照先の組織と注文の存在と所有者を検証し、注文を返す。
func (s *Service) verifyReferences(ctx context.Context, userID, organizationID, orderID string) (*model.FoodOrder, error) {
	if organizationID == "" || orderID == "" {
		return nil, model.NewInvalidRequestError("組織IDと注文IDは必須です")
	}

	org, err := s.orgRepo.FindByID(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("組織の取得に失敗しました: %w", err)
	}
	if org == nil || org.UserID != userID {
		return nil, model.NewOrganizationNotFoundError(organizationID)
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("注文の取得に失敗しました: %w", err)
	}
	if order == nil || order.UserID != userID {
		return nil, model.NewOrderNotFoundError(orderID)
	}

	return order, nil
}
