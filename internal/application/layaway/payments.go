package layaway

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/tiendamx/pos-mostrador/internal/domain"
	"github.com/tiendamx/pos-mostrador/internal/domain/entity"
	"github.com/tiendamx/pos-mostrador/internal/domain/repository"
	"github.com/tiendamx/pos-mostrador/internal/domain/session"
)

// PaymentInput entrada de AddPayment.
type PaymentInput struct {
	Session   session.Session
	LayawayID int64
	Amount    decimal.Decimal
	Notes     string
}

// AddPayment registra un abono: valida monto y estado, recalcula el saldo y,
// si el abono liquida el apartado, consume la reserva de stock.
func (uc *Usecase) AddPayment(ctx context.Context, input PaymentInput) (*entity.Layaway, error) {
	if !input.Amount.IsPositive() {
		return nil, domain.ErrAmountNotPositive
	}

	var updated *entity.Layaway
	err := uc.txRunner.Run(ctx, func(r *repository.Atomic) error {
		lay, err := r.Layaways.GetByID(input.LayawayID)
		if err != nil {
			return err
		}
		if lay.Status == entity.LayawayCancelled {
			return domain.ErrLayawayCancelled
		}

		paid, err := r.Layaways.SumPayments(input.LayawayID)
		if err != nil {
			return err
		}
		paidSoFar := lay.Deposit.Add(paid)
		balanceBefore := lay.Total.Sub(paidSoFar)
		if balanceBefore.IsNegative() {
			balanceBefore = decimal.Zero
		}
		if input.Amount.GreaterThan(balanceBefore) {
			return domain.ErrAmountExceedsBalance
		}

		if _, err := r.Layaways.CreatePayment(&entity.LayawayPayment{
			LayawayID: input.LayawayID,
			Amount:    input.Amount,
			Notes:     input.Notes,
			UserID:    &input.Session.UserID,
		}); err != nil {
			return err
		}

		newBalance := lay.Total.Sub(paidSoFar.Add(input.Amount))
		if newBalance.IsNegative() {
			newBalance = decimal.Zero
		}
		newStatus := entity.LayawayPending
		if !newBalance.IsPositive() {
			newStatus = entity.LayawayLiquidated
		}
		if err := r.Layaways.UpdateBalanceStatus(input.LayawayID, newBalance, newStatus); err != nil {
			return err
		}
		if newStatus == entity.LayawayLiquidated && lay.Status != entity.LayawayLiquidated {
			if err := consumeReserved(r, lay); err != nil {
				return err
			}
		}

		audit(r, &input.Session, "layaway_payment", map[string]any{
			"layaway_id": input.LayawayID,
			"amount":     input.Amount.String(),
			"balance":    newBalance.String(),
		})

		lay.Balance = newBalance
		lay.Status = newStatus
		updated = lay
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Int64("layaway_id", updated.ID).
		Str("balance", updated.Balance.String()).
		Msg("abono a apartado registrado")
	return updated, nil
}

// Liquidate marca el apartado como liquidado sin exigir saldo en cero (vía
// manual del mostrador) y consume la reserva. Rechaza cancelados.
func (uc *Usecase) Liquidate(ctx context.Context, s session.Session, layawayID int64) (*entity.Layaway, error) {
	var updated *entity.Layaway
	err := uc.txRunner.Run(ctx, func(r *repository.Atomic) error {
		lay, err := r.Layaways.GetByID(layawayID)
		if err != nil {
			return err
		}
		if lay.Status == entity.LayawayCancelled {
			return domain.ErrLayawayCancelled
		}
		if lay.Status != entity.LayawayLiquidated {
			if err := consumeReserved(r, lay); err != nil {
				return err
			}
		}
		if err := r.Layaways.UpdateBalanceStatus(layawayID, decimal.Zero, entity.LayawayLiquidated); err != nil {
			return err
		}
		audit(r, &s, "layaway_liquidate", map[string]any{"layaway_id": layawayID})
		lay.Balance = decimal.Zero
		lay.Status = entity.LayawayLiquidated
		updated = lay
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Cancel cancela el apartado y regresa la reserva al piso. Cancelar un
// apartado ya cancelado es un no-op.
func (uc *Usecase) Cancel(ctx context.Context, s session.Session, layawayID int64) (*entity.Layaway, error) {
	var updated *entity.Layaway
	err := uc.txRunner.Run(ctx, func(r *repository.Atomic) error {
		lay, err := r.Layaways.GetByID(layawayID)
		if err != nil {
			return err
		}
		if lay.Status == entity.LayawayCancelled {
			updated = lay
			return nil
		}
		if err := releaseReserved(r, lay); err != nil {
			return err
		}
		if err := r.Layaways.UpdateBalanceStatus(layawayID, decimal.Zero, entity.LayawayCancelled); err != nil {
			return err
		}
		audit(r, &s, "layaway_cancel", map[string]any{"layaway_id": layawayID})
		lay.Balance = decimal.Zero
		lay.Status = entity.LayawayCancelled
		updated = lay
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func auditPayload(payload map[string]any) string {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "{}"
	}
	return string(raw)
}
