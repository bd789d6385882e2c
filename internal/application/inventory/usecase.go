package inventory

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/tiendamx/pos-mostrador/internal/domain"
	"github.com/tiendamx/pos-mostrador/internal/domain/entity"
	"github.com/tiendamx/pos-mostrador/internal/domain/repository"
	"github.com/tiendamx/pos-mostrador/internal/domain/session"
	"github.com/tiendamx/pos-mostrador/pkg/logger"
)

// Usecase inventario: ajustes manuales, niveles mínimo/máximo y aplicación
// de ventas remotas (cajas cliente). Cada mutación queda en inventory_logs y
// genera un evento de inventario best-effort para el pull incremental.
type Usecase struct {
	txRunner  repository.TxRunner
	stockRepo repository.StockRepository
	logRepo   repository.InventoryLogRepository
	log       *logger.Logger
}

// New construye el caso de uso.
func New(txRunner repository.TxRunner, stockRepo repository.StockRepository,
	logRepo repository.InventoryLogRepository, log *logger.Logger) *Usecase {
	return &Usecase{txRunner: txRunner, stockRepo: stockRepo, logRepo: logRepo, log: log}
}

// AdjustInput entrada de Adjust.
type AdjustInput struct {
	Session   session.Session
	ProductID int64
	Delta     decimal.Decimal
	Reason    string
	RefType   string
	RefID     *int64
}

// Adjust aplica un ajuste relativo de stock y lo deja en la bitácora.
func (uc *Usecase) Adjust(ctx context.Context, input AdjustInput) error {
	if input.Delta.IsZero() {
		return domain.ErrInvalidInput
	}
	reason := input.Reason
	if reason == "" {
		reason = entity.ReasonAdjust
	}
	return uc.txRunner.Run(ctx, func(r *repository.Atomic) error {
		if err := r.Stocks.AdjustStock(input.ProductID, input.Session.BranchID, input.Delta); err != nil {
			return err
		}
		if err := r.InventoryLogs.Create(&entity.InventoryLog{
			ProductID: input.ProductID,
			BranchID:  input.Session.BranchID,
			Delta:     input.Delta,
			Reason:    reason,
			RefType:   input.RefType,
			RefID:     input.RefID,
		}); err != nil {
			return err
		}
		recordInventoryEvent(r, entity.EventInventoryAdjust, map[string]any{
			"product_id": input.ProductID,
			"branch_id":  input.Session.BranchID,
			"delta":      input.Delta.String(),
			"reason":     reason,
		})
		return nil
	})
}

// SetStock fija el stock en un valor absoluto registrando la diferencia como
// ajuste.
func (uc *Usecase) SetStock(ctx context.Context, s session.Session, productID int64, newStock decimal.Decimal) error {
	if newStock.IsNegative() {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.Run(ctx, func(r *repository.Atomic) error {
		current, err := r.Stocks.Get(productID, s.BranchID)
		if err != nil {
			return err
		}
		delta := newStock.Sub(current.Stock)
		if delta.IsZero() {
			return nil
		}
		if err := r.Stocks.AdjustStock(productID, s.BranchID, delta); err != nil {
			return err
		}
		if err := r.InventoryLogs.Create(&entity.InventoryLog{
			ProductID: productID,
			BranchID:  s.BranchID,
			Delta:     delta,
			Reason:    entity.ReasonAdjust,
			RefType:   "set_stock",
		}); err != nil {
			return err
		}
		recordInventoryEvent(r, entity.EventInventoryAdjust, map[string]any{
			"product_id": productID,
			"branch_id":  s.BranchID,
			"stock":      newStock.String(),
		})
		return nil
	})
}

// SetLevels fija los niveles mínimo y máximo del producto en la sucursal.
func (uc *Usecase) SetLevels(ctx context.Context, s session.Session, productID int64, minStock, maxStock decimal.Decimal) error {
	if minStock.IsNegative() || maxStock.IsNegative() {
		return domain.ErrInvalidInput
	}
	return uc.stockRepo.SetLevels(productID, s.BranchID, minStock, maxStock)
}

// RemoteSaleLine línea de una venta remota reportada por una caja cliente.
type RemoteSaleLine struct {
	ProductID int64           `json:"product_id"`
	Qty       decimal.Decimal `json:"qty"`
}

// ApplyRemoteSale descuenta el stock de una venta hecha en otra caja,
// explotando kits en sus componentes igual que una venta local.
func (uc *Usecase) ApplyRemoteSale(ctx context.Context, s session.Session, lines []RemoteSaleLine) error {
	if len(lines) == 0 {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.Run(ctx, func(r *repository.Atomic) error {
		for _, line := range lines {
			if !line.Qty.IsPositive() {
				return domain.ErrInvalidInput
			}
			product, err := r.Products.GetByID(line.ProductID)
			if err != nil {
				return err
			}
			if !product.UsesInventory {
				continue
			}
			if product.IsKit() {
				for _, comp := range product.KitItems {
					compQty := line.Qty.Mul(comp.Qty)
					if err := r.Stocks.AdjustStock(comp.ProductID, s.BranchID, compQty.Neg()); err != nil {
						return err
					}
					if err := r.InventoryLogs.Create(&entity.InventoryLog{
						ProductID: comp.ProductID,
						BranchID:  s.BranchID,
						Delta:     compQty.Neg(),
						Reason:    entity.ReasonSaleKit,
						RefType:   "remote_sale",
					}); err != nil {
						return err
					}
				}
				continue
			}
			if err := r.Stocks.AdjustStock(line.ProductID, s.BranchID, line.Qty.Neg()); err != nil {
				return err
			}
			if err := r.InventoryLogs.Create(&entity.InventoryLog{
				ProductID: line.ProductID,
				BranchID:  s.BranchID,
				Delta:     line.Qty.Neg(),
				Reason:    entity.ReasonSale,
				RefType:   "remote_sale",
			}); err != nil {
				return err
			}
		}
		recordInventoryEvent(r, entity.EventInventorySale, map[string]any{
			"branch_id": s.BranchID,
			"lines":     lines,
		})
		return nil
	})
}

// GetStock existencia de un producto en la sucursal.
func (uc *Usecase) GetStock(ctx context.Context, productID, branchID int64) (*entity.ProductStock, error) {
	return uc.stockRepo.Get(productID, branchID)
}

// ListStock existencias de la sucursal.
func (uc *Usecase) ListStock(ctx context.Context, branchID int64) ([]*entity.ProductStock, error) {
	return uc.stockRepo.ListByBranch(branchID)
}

// Logs bitácora de movimientos, filtrable por producto y sucursal.
func (uc *Usecase) Logs(ctx context.Context, productID, branchID int64, limit int) ([]*entity.InventoryLog, error) {
	if limit <= 0 || limit > 1000 {
		limit = 200
	}
	return uc.logRepo.List(productID, branchID, limit)
}

// recordInventoryEvent registra el evento best-effort.
func recordInventoryEvent(r *repository.Atomic, eventType string, payload map[string]any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		raw = []byte("{}")
	}
	_ = r.SyncEvents.RecordInventory(&entity.InventoryEvent{
		EventType: eventType,
		Payload:   string(raw),
	})
}
