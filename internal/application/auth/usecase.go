package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/tiendamx/pos-mostrador/internal/domain"
	"github.com/tiendamx/pos-mostrador/internal/domain/entity"
	"github.com/tiendamx/pos-mostrador/internal/domain/repository"
	"github.com/tiendamx/pos-mostrador/pkg/jwt"
	"github.com/tiendamx/pos-mostrador/pkg/logger"
)

// Usecase autenticación: login de usuarios con bcrypt + JWT para la API y
// tokens estáticos (X-Token) para las cajas cliente.
type Usecase struct {
	userRepo   repository.UserRepository
	branchRepo repository.BranchRepository
	tokenRepo  repository.APITokenRepository
	secret     string
	issuer     string
	expMinutes int
	log        *logger.Logger
}

// New construye el caso de uso.
func New(userRepo repository.UserRepository, branchRepo repository.BranchRepository,
	tokenRepo repository.APITokenRepository, secret, issuer string, expMinutes int,
	log *logger.Logger) *Usecase {
	return &Usecase{
		userRepo:   userRepo,
		branchRepo: branchRepo,
		tokenRepo:  tokenRepo,
		secret:     secret,
		issuer:     issuer,
		expMinutes: expMinutes,
		log:        log,
	}
}

// LoginResult token emitido y datos del usuario.
type LoginResult struct {
	Token    string
	User     *entity.User
	BranchID int64
}

// Login valida credenciales y emite un JWT con usuario, rol y sucursal. Un
// usuario inactivo no puede entrar.
func (uc *Usecase) Login(ctx context.Context, username, password string, branchID int64) (*LoginResult, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	user, err := uc.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if branchID == 0 {
		branch, err := uc.branchRepo.GetDefault()
		if err != nil {
			return nil, err
		}
		branchID = branch.ID
	} else if _, err := uc.branchRepo.GetByID(branchID); err != nil {
		return nil, err
	}

	token, err := jwt.Generate(uc.secret, user.ID, branchID, user.Role, uc.issuer, uc.expMinutes)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("username", username).Int64("branch_id", branchID).Msg("login exitoso")
	return &LoginResult{Token: token, User: user, BranchID: branchID}, nil
}

// HashPassword genera el hash bcrypt para altas de usuario.
func HashPassword(password string) (string, error) {
	raw, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// ValidateAPIToken resuelve un token estático de caja (header X-Token).
func (uc *Usecase) ValidateAPIToken(ctx context.Context, token string) (*entity.APIToken, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}
	t, err := uc.tokenRepo.GetByToken(token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	return t, nil
}
