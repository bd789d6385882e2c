package sales

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tiendamx/pos-mostrador/internal/domain"
	"github.com/tiendamx/pos-mostrador/internal/domain/entity"
	"github.com/tiendamx/pos-mostrador/internal/domain/payment"
	"github.com/tiendamx/pos-mostrador/internal/domain/repository"
	"github.com/tiendamx/pos-mostrador/internal/domain/session"
)

// LineInput es una línea del carrito. ProductID en cero marca una venta común
// (línea ad-hoc sin producto de catálogo).
type LineInput struct {
	ProductID        int64
	Description      string
	Qty              decimal.Decimal
	Price            decimal.Decimal
	Discount         decimal.Decimal
	Wholesale        bool
	PriceIncludesTax bool
}

// CreateSaleInput entrada de CreateSale.
type CreateSaleInput struct {
	Session    session.Session
	CustomerID *int64
	Items      []LineInput
	Discount   decimal.Decimal
	Breakdown  payment.Breakdown
}

// CreateSaleResult resultado de una venta registrada.
type CreateSaleResult struct {
	SaleID      int64
	Subtotal    decimal.Decimal
	Tax         decimal.Decimal
	Total       decimal.Decimal
	CreditDelta decimal.Decimal
	TurnID      *int64
}

type lineComputed struct {
	input LineInput
	base  decimal.Decimal
	tax   decimal.Decimal
	total decimal.Decimal
}

// CreateSale registra una venta completa en una sola transacción: calcula
// totales por línea (impuesto incluido o desglosado), valida el crédito del
// cliente, descuenta inventario (explotando kits en sus componentes), liga la
// venta al turno abierto y actualiza el saldo deudor si hubo crédito.
func (uc *Usecase) CreateSale(ctx context.Context, input CreateSaleInput) (*CreateSaleResult, error) {
	if len(input.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}
	if !input.Breakdown.Method.Valid() {
		return nil, domain.ErrInvalidInput
	}

	var result *CreateSaleResult
	err := uc.txRunner.Run(ctx, func(r *repository.Atomic) error {
		res, err := uc.createSaleTx(r, input)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Int64("sale_id", result.SaleID).
		Str("method", string(input.Breakdown.Method)).
		Str("total", result.Total.String()).
		Msg("venta registrada")
	if uc.notifier != nil {
		uc.notifier.SaleRegistered(ctx, input.Items)
	}
	return result, nil
}

func (uc *Usecase) createSaleTx(r *repository.Atomic, input CreateSaleInput) (*CreateSaleResult, error) {
	subtotal := decimal.Zero
	taxTotal := decimal.Zero
	total := decimal.Zero

	lines := make([]lineComputed, 0, len(input.Items))
	for _, item := range input.Items {
		if !item.Qty.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
		base, tax, lineTotal := uc.computeLine(item)
		subtotal = subtotal.Add(base)
		taxTotal = taxTotal.Add(tax)
		total = total.Add(lineTotal)
		lines = append(lines, lineComputed{input: item, base: base, tax: tax, total: lineTotal})
	}

	finalTotal := total.Sub(input.Discount)
	if finalTotal.IsNegative() {
		finalTotal = decimal.Zero
	}
	// La comisión de tarjeta se cobra por encima del total de la venta.
	finalTotal = finalTotal.Add(input.Breakdown.TotalCardFee())

	creditDelta := input.Breakdown.CreditPortion(finalTotal)
	if creditDelta.IsPositive() {
		if input.CustomerID == nil {
			return nil, domain.ErrCreditNeedsCustomer
		}
		customer, err := r.Customers.GetByID(*input.CustomerID)
		if err != nil {
			return nil, err
		}
		if !customer.CreditAuthorized {
			return nil, domain.ErrCreditNotAuthorized
		}
		projected := customer.CreditBalance.Add(creditDelta)
		if !customer.CreditLimit.Allows(projected) {
			return nil, domain.ErrCreditLimitExceeded
		}
	}

	// Atribución al turno: se guarda el turno abierto (si existe) al momento
	// del cobro. Una venta sin turno abierto queda con turn_id nulo.
	var turnID *int64
	if turn, err := r.Turns.GetOpen(input.Session.BranchID, input.Session.UserID); err != nil {
		return nil, err
	} else if turn != nil {
		turnID = &turn.ID
	}

	usdAmount, usdExchange := input.Breakdown.USDDetail()
	sale := &entity.Sale{
		BranchID:      input.Session.BranchID,
		UserID:        &input.Session.UserID,
		CustomerID:    input.CustomerID,
		Subtotal:      subtotal,
		Discount:      input.Discount,
		Total:         finalTotal,
		PaymentMethod: input.Breakdown.Method,
		Breakdown:     input.Breakdown,
		Reference:     input.Breakdown.ResolveReference(),
		CardFee:       input.Breakdown.TotalCardFee(),
		USDAmount:     usdAmount,
		USDExchange:   usdExchange,
		VoucherAmount: input.Breakdown.VoucherTotal(),
		CheckNumber:   input.Breakdown.ResolveCheckNumber(),
		TurnID:        turnID,
	}
	saleID, err := r.Sales.Create(sale)
	if err != nil {
		return nil, err
	}

	for _, line := range lines {
		if err := uc.persistLine(r, saleID, input.Session.BranchID, line); err != nil {
			return nil, err
		}
	}

	if creditDelta.IsPositive() {
		if err := r.Customers.AddCreditBalance(*input.CustomerID, creditDelta); err != nil {
			return nil, err
		}
	}

	audit(r, &input.Session, "create_sale", map[string]any{
		"sale_id": saleID,
		"total":   finalTotal.String(),
		"method":  string(input.Breakdown.Method),
	})

	return &CreateSaleResult{
		SaleID:      saleID,
		Subtotal:    subtotal,
		Tax:         taxTotal,
		Total:       finalTotal,
		CreditDelta: creditDelta,
		TurnID:      turnID,
	}, nil
}

// computeLine calcula (base sin impuesto, impuesto, total) de una línea. Si el
// precio incluye impuesto se desglosa hacia atrás; si no, se suma encima. El
// descuento de línea se ignora en mayoreo (el precio mayorista ya lo trae).
func (uc *Usecase) computeLine(item LineInput) (base, tax, total decimal.Decimal) {
	lineBase := item.Price.Mul(item.Qty)
	lineDiscount := item.Discount
	if item.Wholesale {
		lineDiscount = decimal.Zero
	}

	if item.PriceIncludesTax {
		gross := lineBase.Sub(lineDiscount)
		if gross.IsNegative() {
			gross = decimal.Zero
		}
		base = gross.Div(decimal.NewFromInt(1).Add(uc.taxRate)).Round(2)
		tax = gross.Sub(base)
		total = gross
		return base, tax, total
	}

	base = lineBase.Sub(lineDiscount)
	if base.IsNegative() {
		base = decimal.Zero
	}
	tax = base.Mul(uc.taxRate).Round(2)
	total = base.Add(tax)
	return base, tax, total
}

// persistLine inserta la línea y descuenta inventario. Los kits no se
// stockean: se explotan en sus componentes con la proporción de cada uno.
func (uc *Usecase) persistLine(r *repository.Atomic, saleID, branchID int64, line lineComputed) error {
	item := line.input
	productID := item.ProductID

	var product *entity.Product
	if productID == 0 {
		// Venta común: línea sin producto de catálogo.
		commonID, err := r.Products.EnsureCommon()
		if err != nil {
			return err
		}
		productID = commonID
	} else {
		p, err := r.Products.GetByID(productID)
		if err != nil {
			return err
		}
		product = p
	}

	meta := entity.SaleItemMeta{
		Wholesale: item.Wholesale,
		Kit:       product != nil && product.IsKit(),
		Weight:    product != nil && product.SaleType == entity.SaleTypeWeight,
	}
	saleItem := &entity.SaleItem{
		SaleID:           saleID,
		ProductID:        productID,
		Qty:              item.Qty,
		Price:            item.Price,
		Discount:         item.Discount,
		Total:            line.total,
		PriceIncludesTax: item.PriceIncludesTax,
		Metadata:         meta,
	}
	if err := r.Sales.CreateItem(saleItem); err != nil {
		return err
	}

	if product == nil || !product.UsesInventory {
		return nil
	}

	if product.IsKit() {
		for _, comp := range product.KitItems {
			compQty := item.Qty.Mul(comp.Qty)
			if err := r.Stocks.AdjustStock(comp.ProductID, branchID, compQty.Neg()); err != nil {
				return err
			}
			if err := r.InventoryLogs.Create(&entity.InventoryLog{
				ProductID: comp.ProductID,
				BranchID:  branchID,
				Delta:     compQty.Neg(),
				Reason:    entity.ReasonSaleKit,
				RefType:   fmt.Sprintf("kit:%d", product.ID),
				RefID:     &saleID,
			}); err != nil {
				return err
			}
		}
		return nil
	}

	if err := r.Stocks.AdjustStock(productID, branchID, item.Qty.Neg()); err != nil {
		return err
	}
	return r.InventoryLogs.Create(&entity.InventoryLog{
		ProductID: productID,
		BranchID:  branchID,
		Delta:     item.Qty.Neg(),
		Reason:    entity.ReasonSale,
		RefType:   "sale",
		RefID:     &saleID,
	})
}

// audit registra la acción best-effort: un fallo aquí no tumba la venta.
func audit(r *repository.Atomic, s *session.Session, action string, payload map[string]any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		raw = []byte("{}")
	}
	_ = r.Audits.Create(&entity.AuditLog{
		UserID:  &s.UserID,
		Action:  action,
		Payload: string(raw),
	})
}
