package dto

import (
	"github.com/shopspring/decimal"

	"github.com/tiendamx/pos-mostrador/internal/domain/credit"
	"github.com/tiendamx/pos-mostrador/internal/domain/entity"
)

// CustomerRequest alta/edición de cliente. credit_limit negativo significa
// ilimitado.
type CustomerRequest struct {
	FirstName        string          `json:"first_name"`
	LastName         string          `json:"last_name"`
	Phone            string          `json:"phone"`
	Email            string          `json:"email"`
	EmailFiscal      string          `json:"email_fiscal"`
	Notes            string          `json:"notes"`
	VIP              bool            `json:"vip"`
	CreditLimit      decimal.Decimal `json:"credit_limit"`
	CreditAuthorized bool            `json:"credit_authorized"`
	RFC              string          `json:"rfc"`
	RazonSocial      string          `json:"razon_social"`
	Domicilio1       string          `json:"domicilio_1"`
	Domicilio2       string          `json:"domicilio_2"`
	Colonia          string          `json:"colonia"`
	Municipio        string          `json:"municipio"`
	Estado           string          `json:"estado"`
	Pais             string          `json:"pais"`
	CodigoPostal     string          `json:"codigo_postal"`
	RegimenFiscal    string          `json:"regimen_fiscal"`
}

// ToEntity convierte la petición a la entidad de dominio.
func (r CustomerRequest) ToEntity() *entity.Customer {
	return &entity.Customer{
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		Phone:            r.Phone,
		Email:            r.Email,
		EmailFiscal:      r.EmailFiscal,
		Notes:            r.Notes,
		VIP:              r.VIP,
		CreditLimit:      credit.FromStored(r.CreditLimit),
		CreditAuthorized: r.CreditAuthorized,
		IsActive:         true,
		RFC:              r.RFC,
		RazonSocial:      r.RazonSocial,
		Domicilio1:       r.Domicilio1,
		Domicilio2:       r.Domicilio2,
		Colonia:          r.Colonia,
		Municipio:        r.Municipio,
		Estado:           r.Estado,
		Pais:             r.Pais,
		CodigoPostal:     r.CodigoPostal,
		RegimenFiscal:    r.RegimenFiscal,
	}
}

// CustomerResponse cliente serializado para la API.
type CustomerResponse struct {
	ID               int64           `json:"id"`
	FirstName        string          `json:"first_name"`
	LastName         string          `json:"last_name"`
	FullName         string          `json:"full_name"`
	Phone            string          `json:"phone"`
	Email            string          `json:"email"`
	EmailFiscal      string          `json:"email_fiscal"`
	Notes            string          `json:"notes"`
	VIP              bool            `json:"vip"`
	CreditLimit      decimal.Decimal `json:"credit_limit"`
	CreditBalance    decimal.Decimal `json:"credit_balance"`
	CreditAuthorized bool            `json:"credit_authorized"`
	IsActive         bool            `json:"is_active"`
	RFC              string          `json:"rfc"`
	RazonSocial      string          `json:"razon_social"`
	CodigoPostal     string          `json:"codigo_postal"`
	RegimenFiscal    string          `json:"regimen_fiscal"`
}

// CustomerFromEntity arma la respuesta desde la entidad.
func CustomerFromEntity(c *entity.Customer) CustomerResponse {
	return CustomerResponse{
		ID:               c.ID,
		FirstName:        c.FirstName,
		LastName:         c.LastName,
		FullName:         c.FullName(),
		Phone:            c.Phone,
		Email:            c.Email,
		EmailFiscal:      c.EmailFiscal,
		Notes:            c.Notes,
		VIP:              c.VIP,
		CreditLimit:      c.CreditLimit.Stored(),
		CreditBalance:    c.CreditBalance,
		CreditAuthorized: c.CreditAuthorized,
		IsActive:         c.IsActive,
		RFC:              c.RFC,
		RazonSocial:      c.RazonSocial,
		CodigoPostal:     c.CodigoPostal,
		RegimenFiscal:    c.RegimenFiscal,
	}
}

// CustomersFromEntities convierte un listado.
func CustomersFromEntities(cs []*entity.Customer) []CustomerResponse {
	out := make([]CustomerResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, CustomerFromEntity(c))
	}
	return out
}
