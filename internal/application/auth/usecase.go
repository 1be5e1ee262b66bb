package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
	"github.com/jhoicas/Facturacion-api/pkg/jwt"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
)

// TokenType tipo de token devuelto en el login.
const TokenType = "Bearer"

const (
	minUsernameLen = 3
	maxUsernameLen = 50
	minPasswordLen = 6
)

var errBadCredentials = fmt.Errorf("%w: usuario o contraseña incorrectos", domain.ErrUnauthorized)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// LoginLimiter limita los intentos fallidos de login por usuario.
type LoginLimiter interface {
	// Allow devuelve domain.ErrTooManyAttempts si la clave está bloqueada.
	Allow(ctx context.Context, key string) error
	Fail(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

// NoopLimiter no limita nada; se usa cuando no hay Redis configurado.
type NoopLimiter struct{}

func (NoopLimiter) Allow(context.Context, string) error { return nil }
func (NoopLimiter) Fail(context.Context, string) error  { return nil }
func (NoopLimiter) Reset(context.Context, string) error { return nil }

// AuthUseCase casos de uso de autenticación: registro y login.
type AuthUseCase struct {
	userRepo repository.UserRepository
	limiter  LoginLimiter
	jwtCfg   JWTConfig
	log      *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth. limiter nil equivale a NoopLimiter.
func NewAuthUseCase(userRepo repository.UserRepository, limiter LoginLimiter, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	if limiter == nil {
		limiter = NoopLimiter{}
	}
	return &AuthUseCase{userRepo: userRepo, limiter: limiter, jwtCfg: jwtCfg, log: log}
}

// Register crea un usuario: valida, hashea password con bcrypt y persiste.
// El registro es público, así que el usuario siempre recibe ROLE_USER.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	return uc.createUser(ctx, in, []entity.Role{entity.RoleUser})
}

func (uc *AuthUseCase) createUser(ctx context.Context, in dto.RegisterRequest, roles []entity.Role) (*dto.UserResponse, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	switch n := utf8.RuneCountInString(username); {
	case n < minUsernameLen || n > maxUsernameLen:
		return nil, fmt.Errorf("%w: el usuario debe tener entre %d y %d caracteres", domain.ErrInvalidInput, minUsernameLen, maxUsernameLen)
	case len(in.Password) < minPasswordLen:
		return nil, fmt.Errorf("%w: la contraseña debe tener al menos %d caracteres", domain.ErrInvalidInput, minPasswordLen)
	case email == "":
		return nil, fmt.Errorf("%w: el email es obligatorio", domain.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
	}
	exists, err := uc.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.NewConflict("usuario", "username", username)
	}
	exists, err = uc.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %w", domain.ErrConflict, domain.ErrEmailAlreadyExists)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Nombre:       strings.TrimSpace(in.Nombre),
		Apellido:     strings.TrimSpace(in.Apellido),
		Roles:        roles,
		Enabled:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("username", user.Username).Strs("roles", user.RoleNames()).Msg("usuario registrado")
	return toUserResponse(user), nil
}

// Login verifica usuario/password, genera JWT y retorna token + datos básicos.
// Los intentos fallidos se cuentan por usuario; superado el límite responde ErrTooManyAttempts.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: usuario y contraseña son obligatorios", domain.ErrInvalidInput)
	}
	if err := uc.limiter.Allow(ctx, username); err != nil {
		return nil, err
	}
	user, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, uc.fail(ctx, username)
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, uc.fail(ctx, username)
	}
	if !user.Enabled {
		return nil, fmt.Errorf("%w: usuario deshabilitado", domain.ErrForbidden)
	}
	if err := uc.limiter.Reset(ctx, username); err != nil {
		uc.log.Warn().Err(err).Str("username", username).Msg("no se pudo reiniciar el contador de intentos")
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Username, user.RoleNames(), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:    token,
		Type:     TokenType,
		Username: user.Username,
		Email:    user.Email,
		Roles:    user.RoleNames(),
	}, nil
}

func (uc *AuthUseCase) fail(ctx context.Context, username string) error {
	if err := uc.limiter.Fail(ctx, username); err != nil {
		uc.log.Warn().Err(err).Str("username", username).Msg("no se pudo registrar el intento fallido")
	}
	uc.log.Warn().Str("username", username).Msg("login fallido")
	return errBadCredentials
}

// EnsureAdmin crea el usuario administrador si no existe.
func (uc *AuthUseCase) EnsureAdmin(ctx context.Context, username, password, email string) error {
	exists, err := uc.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	_, err = uc.createUser(ctx, dto.RegisterRequest{
		Username: username,
		Password: password,
		Email:    email,
		Nombre:   "Administrador",
	}, []entity.Role{entity.RoleAdmin, entity.RoleUser})
	return err
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Nombre:    u.Nombre,
		Apellido:  u.Apellido,
		Roles:     u.RoleNames(),
		Enabled:   u.Enabled,
		CreatedAt: u.CreatedAt,
	}
}
