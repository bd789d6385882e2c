package layaway

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tiendamx/pos-mostrador/internal/domain"
	"github.com/tiendamx/pos-mostrador/internal/domain/entity"
	"github.com/tiendamx/pos-mostrador/internal/domain/repository"
	"github.com/tiendamx/pos-mostrador/internal/domain/session"
)

// depositNote nota del abono sintético que registra el depósito inicial.
const depositNote = "Depósito inicial"

// ItemInput línea de un apartado nuevo.
type ItemInput struct {
	ProductID int64
	Qty       decimal.Decimal
	Price     decimal.Decimal
	Discount  decimal.Decimal
}

// CreateInput entrada de Create.
type CreateInput struct {
	Session    session.Session
	CustomerID *int64
	Items      []ItemInput
	Deposit    decimal.Decimal
	DueDate    *time.Time
	Notes      string
}

// Create registra un apartado: calcula el total, acota el depósito, reserva
// el stock de cada línea y registra el depósito como primer abono. Si el
// depósito cubre el total, el apartado nace liquidado y la reserva se
// convierte en salida real.
func (uc *Usecase) Create(ctx context.Context, input CreateInput) (*entity.Layaway, error) {
	if len(input.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	total := decimal.Zero
	for _, item := range input.Items {
		if !item.Qty.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
		total = total.Add(item.Qty.Mul(item.Price).Sub(item.Discount))
	}

	deposit := input.Deposit
	if deposit.IsNegative() {
		return nil, domain.ErrAmountNotPositive
	}
	if deposit.GreaterThan(total) {
		deposit = total
	}
	balance := total.Sub(deposit)
	if balance.IsNegative() {
		balance = decimal.Zero
	}
	status := entity.LayawayPending
	if !balance.IsPositive() {
		status = entity.LayawayLiquidated
	}

	lay := &entity.Layaway{
		BranchID:   input.Session.BranchID,
		CustomerID: input.CustomerID,
		Total:      total,
		Deposit:    deposit,
		Balance:    balance,
		Status:     status,
		DueDate:    input.DueDate,
		Notes:      input.Notes,
	}

	err := uc.txRunner.Run(ctx, func(r *repository.Atomic) error {
		id, err := r.Layaways.Create(lay)
		if err != nil {
			return err
		}
		lay.ID = id

		for _, item := range input.Items {
			lineTotal := item.Qty.Mul(item.Price).Sub(item.Discount)
			if err := r.Layaways.CreateItem(&entity.LayawayItem{
				LayawayID: id,
				ProductID: item.ProductID,
				Qty:       item.Qty,
				Price:     item.Price,
				Discount:  item.Discount,
				Total:     lineTotal,
			}); err != nil {
				return err
			}
			if err := r.Stocks.Reserve(item.ProductID, input.Session.BranchID, item.Qty); err != nil {
				return err
			}
			if err := r.InventoryLogs.Create(&entity.InventoryLog{
				ProductID: item.ProductID,
				BranchID:  input.Session.BranchID,
				Delta:     item.Qty.Neg(),
				Reason:    entity.ReasonLayawayReserve,
				RefType:   "layaway",
				RefID:     &id,
			}); err != nil {
				return err
			}
		}

		if deposit.IsPositive() {
			if _, err := r.Layaways.CreatePayment(&entity.LayawayPayment{
				LayawayID: id,
				Amount:    deposit,
				Notes:     depositNote,
				IsDeposit: true,
				UserID:    &input.Session.UserID,
			}); err != nil {
				return err
			}
		}

		if status == entity.LayawayLiquidated {
			if err := consumeReserved(r, lay); err != nil {
				return err
			}
		}

		audit(r, &input.Session, "create_layaway", map[string]any{
			"layaway_id": id,
			"total":      total.String(),
			"deposit":    deposit.String(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Int64("layaway_id", lay.ID).
		Str("balance", lay.Balance.String()).
		Msg("apartado creado")
	return lay, nil
}

// consumeReserved convierte la reserva de cada línea en salida real de stock.
func consumeReserved(r *repository.Atomic, lay *entity.Layaway) error {
	items, err := r.Layaways.Items(lay.ID)
	if err != nil {
		return err
	}
	for _, item := range items {
		if err := r.Stocks.ConsumeReserved(item.ProductID, lay.BranchID, item.Qty); err != nil {
			return err
		}
		if err := r.InventoryLogs.Create(&entity.InventoryLog{
			ProductID: item.ProductID,
			BranchID:  lay.BranchID,
			Delta:     item.Qty.Neg(),
			Reason:    entity.ReasonLayawayLiquidate,
			RefType:   "layaway",
			RefID:     &lay.ID,
		}); err != nil {
			return err
		}
	}
	return nil
}

// releaseReserved regresa la reserva de cada línea al piso.
func releaseReserved(r *repository.Atomic, lay *entity.Layaway) error {
	items, err := r.Layaways.Items(lay.ID)
	if err != nil {
		return err
	}
	for _, item := range items {
		if err := r.Stocks.ReleaseReserved(item.ProductID, lay.BranchID, item.Qty); err != nil {
			return err
		}
		if err := r.InventoryLogs.Create(&entity.InventoryLog{
			ProductID: item.ProductID,
			BranchID:  lay.BranchID,
			Delta:     item.Qty,
			Reason:    entity.ReasonLayawayCancel,
			RefType:   "layaway",
			RefID:     &lay.ID,
		}); err != nil {
			return err
		}
	}
	return nil
}

func audit(r *repository.Atomic, s *session.Session, action string, payload map[string]any) {
	_ = r.Audits.Create(&entity.AuditLog{
		UserID:  &s.UserID,
		Action:  action,
		Payload: auditPayload(payload),
	})
}
