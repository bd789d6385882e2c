package credit

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tiendamx/pos-mostrador/internal/domain"
	"github.com/tiendamx/pos-mostrador/internal/domain/entity"
	"github.com/tiendamx/pos-mostrador/internal/domain/repository"
	"github.com/tiendamx/pos-mostrador/internal/domain/session"
	"github.com/tiendamx/pos-mostrador/pkg/logger"
)

// Usecase crédito de clientes: abonos a cuenta y estado de cuenta con saldo
// corrido. Los abonos no se asignan a ventas específicas: el saldo es global
// por cliente.
type Usecase struct {
	txRunner     repository.TxRunner
	customerRepo repository.CustomerRepository
	creditRepo   repository.CreditRepository
	saleRepo     repository.SaleRepository
	log          *logger.Logger
}

// New construye el caso de uso.
func New(txRunner repository.TxRunner, customerRepo repository.CustomerRepository,
	creditRepo repository.CreditRepository, saleRepo repository.SaleRepository,
	log *logger.Logger) *Usecase {
	return &Usecase{
		txRunner:     txRunner,
		customerRepo: customerRepo,
		creditRepo:   creditRepo,
		saleRepo:     saleRepo,
		log:          log,
	}
}

// PaymentInput entrada de RegisterPayment.
type PaymentInput struct {
	Session    session.Session
	CustomerID int64
	Amount     decimal.Decimal
	Notes      string
	SaleIDs    []int64
}

// RegisterPayment registra un abono a cuenta y reduce el saldo deudor con
// piso en cero, todo en una transacción.
func (uc *Usecase) RegisterPayment(ctx context.Context, input PaymentInput) (int64, error) {
	if !input.Amount.IsPositive() {
		return 0, domain.ErrAmountNotPositive
	}

	var paymentID int64
	err := uc.txRunner.Run(ctx, func(r *repository.Atomic) error {
		if _, err := r.Customers.GetByID(input.CustomerID); err != nil {
			return err
		}
		id, err := r.Credits.CreatePayment(&entity.CreditPayment{
			CustomerID: input.CustomerID,
			Amount:     input.Amount,
			Notes:      input.Notes,
			UserID:     &input.Session.UserID,
			SaleIDs:    input.SaleIDs,
		})
		if err != nil {
			return err
		}
		paymentID = id
		if err := r.Customers.ReduceCreditBalance(input.CustomerID, input.Amount); err != nil {
			return err
		}
		payload, _ := json.Marshal(map[string]any{
			"customer_id": input.CustomerID,
			"amount":      input.Amount.String(),
		})
		_ = r.Audits.Create(&entity.AuditLog{
			UserID:  &input.Session.UserID,
			Action:  "credit_payment",
			Payload: string(payload),
		})
		return nil
	})
	if err != nil {
		return 0, err
	}
	uc.log.Info().
		Int64("customer_id", input.CustomerID).
		Str("amount", input.Amount.String()).
		Msg("abono a crédito registrado")
	return paymentID, nil
}

// Tipos de renglón del estado de cuenta.
const (
	EntryPreviousBalance = "saldo_anterior"
	EntrySale            = "venta"
	EntryPayment         = "abono"
)

// StatementEntry renglón del estado de cuenta con saldo corrido.
type StatementEntry struct {
	Date        time.Time
	Type        string
	Description string
	Charge      decimal.Decimal
	Payment     decimal.Decimal
	Balance     decimal.Decimal
	RefID       int64
}

// Statement estado de cuenta de un cliente.
type Statement struct {
	Customer *entity.Customer
	Entries  []StatementEntry
	Balance  decimal.Decimal
}

// GetStatement arma el estado de cuenta: saldo consolidado anterior (si hay),
// cargos por la porción a crédito de cada venta y abonos, ordenados por fecha
// con saldo corrido.
func (uc *Usecase) GetStatement(ctx context.Context, customerID int64) (*Statement, error) {
	customer, err := uc.customerRepo.GetByID(customerID)
	if err != nil {
		return nil, err
	}

	var entries []StatementEntry

	prev, err := uc.creditRepo.GetPreviousBalance(customerID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if prev != nil {
		desc := prev.Description
		if desc == "" {
			desc = "Saldo anterior"
		}
		entries = append(entries, StatementEntry{
			Date:        prev.CreatedAt,
			Type:        EntryPreviousBalance,
			Description: desc,
			Charge:      prev.Balance,
			RefID:       prev.ID,
		})
	}

	sales, err := uc.saleRepo.ListByCustomer(customerID, 1000)
	if err != nil {
		return nil, err
	}
	for _, s := range sales {
		charge := s.Breakdown.CreditPortion(s.Total)
		if !charge.IsPositive() {
			continue
		}
		entries = append(entries, StatementEntry{
			Date:        s.Timestamp,
			Type:        EntrySale,
			Description: "Venta a crédito",
			Charge:      charge,
			RefID:       s.ID,
		})
	}

	payments, err := uc.creditRepo.PaymentsByCustomer(customerID)
	if err != nil {
		return nil, err
	}
	for _, p := range payments {
		desc := p.Notes
		if desc == "" {
			desc = "Abono a cuenta"
		}
		entries = append(entries, StatementEntry{
			Date:        p.Timestamp,
			Type:        EntryPayment,
			Description: desc,
			Payment:     p.Amount,
			RefID:       p.ID,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})

	running := decimal.Zero
	for i := range entries {
		running = running.Add(entries[i].Charge).Sub(entries[i].Payment)
		entries[i].Balance = running
	}

	return &Statement{Customer: customer, Entries: entries, Balance: running}, nil
}

// ListDebtors devuelve los clientes con saldo deudor.
func (uc *Usecase) ListDebtors(ctx context.Context) ([]*entity.Customer, error) {
	return uc.customerRepo.ListWithBalance()
}
