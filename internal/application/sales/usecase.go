package sales

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tiendamx/pos-mostrador/internal/domain/repository"
	"github.com/tiendamx/pos-mostrador/pkg/logger"
)

// Notifier reenvía una venta recién cobrada a otra caja. La implementación
// absorbe los fallos de red (cola offline); aquí solo se dispara.
type Notifier interface {
	SaleRegistered(ctx context.Context, items []LineInput)
}

// Usecase ventas: cobro en mostrador con impuesto incluido o desglosado,
// kits, crédito de clientes y atribución al turno abierto.
type Usecase struct {
	txRunner repository.TxRunner
	saleRepo repository.SaleRepository
	turnRepo repository.TurnRepository
	taxRate  decimal.Decimal
	notifier Notifier
	log      *logger.Logger
}

// New construye el caso de uso. taxRate es la tasa de IVA (p.ej. 0.16).
func New(txRunner repository.TxRunner, saleRepo repository.SaleRepository,
	turnRepo repository.TurnRepository, taxRate decimal.Decimal, log *logger.Logger) *Usecase {
	return &Usecase{
		txRunner: txRunner,
		saleRepo: saleRepo,
		turnRepo: turnRepo,
		taxRate:  taxRate,
		log:      log,
	}
}

// SetNotifier registra el reenvío de ventas al servidor MultiCaja. Sin
// notifier la caja opera de forma autónoma (o es ella el servidor).
func (uc *Usecase) SetNotifier(n Notifier) {
	uc.notifier = n
}
