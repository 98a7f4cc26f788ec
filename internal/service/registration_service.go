package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"lishe/internal/domain"
	"lishe/internal/events"
	"lishe/internal/repository"
	"lishe/internal/sms"
)

var otpSpace = big.NewInt(1_000_000)

// RegistrationService coordina el alta de cuentas: registro, verificacion del
// telefono por SMS, contrasena y onboarding del perfil de salud.
type RegistrationService struct {
	logger  *zap.Logger
	users   repository.UserRepository
	otps    repository.OTPRepository
	tx      repository.Transactor
	sender  sms.Sender
	hasher  PasswordHasher
	limiter OTPRateLimiter
	events  events.Publisher

	now     func() time.Time
	genCode func() (string, error)
}

func NewRegistrationService(
	logger *zap.Logger,
	users repository.UserRepository,
	otps repository.OTPRepository,
	tx repository.Transactor,
	sender sms.Sender,
	hasher PasswordHasher,
	limiter OTPRateLimiter,
	publisher events.Publisher,
) *RegistrationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if hasher == nil {
		hasher = NewBcryptHasher(0)
	}
	if limiter == nil {
		limiter = NewOTPRateLimiter(10*time.Minute, 3)
	}
	if publisher == nil {
		publisher = events.NewNopPublisher()
	}
	return &RegistrationService{
		logger:  logger,
		users:   users,
		otps:    otps,
		tx:      tx,
		sender:  sender,
		hasher:  hasher,
		limiter: limiter,
		events:  publisher,
		now:     time.Now,
		genCode: generateOTP,
	}
}

// Register crea el usuario en PENDING_VERIFICATION junto con su codigo y lo envia por SMS.
// Si el SMS falla el usuario y el codigo se conservan y se devuelve ErrDeliveryFailed;
// el cliente puede pedir otro envio con ResendCode.
func (s *RegistrationService) Register(ctx context.Context, username, mobile string) (domain.User, error) {
	username = strings.TrimSpace(username)
	mobile = strings.TrimSpace(mobile)
	if username == "" {
		return domain.User{}, validationError("username is required")
	}
	if mobile == "" {
		return domain.User{}, validationError("mobile is required")
	}
	if err := s.ensureAvailable(ctx, username, mobile); err != nil {
		return domain.User{}, err
	}
	// Solo cuenta contra el limite un registro que va a mandar SMS.
	if !s.limiter.Allow(ctx, mobile) {
		return domain.User{}, ErrRateLimited
	}

	code, err := s.genCode()
	if err != nil {
		return domain.User{}, fmt.Errorf("generate otp: %w", err)
	}

	now := s.now().UTC()
	user := domain.User{
		Username:  username,
		Mobile:    mobile,
		Role:      domain.RoleMember,
		Status:    domain.StatusPendingVerification,
		CreatedAt: now,
	}
	otp := domain.OTPCode{Code: code, CreatedAt: now}

	err = s.tx.WithinTx(ctx, func(users repository.UserRepository, otps repository.OTPRepository) error {
		if err := users.Create(ctx, &user); err != nil {
			return err
		}
		otp.UserID = user.ID
		return otps.Create(ctx, &otp)
	})
	if err != nil {
		return domain.User{}, mapCreateError(err)
	}

	if err := s.deliver(ctx, user, otp); err != nil {
		return user, err
	}
	return user, nil
}

// ResendCode reemplaza el codigo vivo de un usuario pendiente y reinicia la ventana de expiracion.
func (s *RegistrationService) ResendCode(ctx context.Context, mobile string) error {
	mobile = strings.TrimSpace(mobile)
	if mobile == "" {
		return validationError("mobile is required")
	}

	user, err := s.userByMobile(ctx, mobile)
	if err != nil {
		return err
	}
	if user.Status != domain.StatusPendingVerification {
		return ErrAlreadyVerified
	}
	if !s.limiter.Allow(ctx, mobile) {
		return ErrRateLimited
	}

	code, err := s.genCode()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	otp := domain.OTPCode{UserID: user.ID, Code: code, CreatedAt: s.now().UTC()}
	if err := s.otps.ReplaceForUser(ctx, &otp); err != nil {
		return fmt.Errorf("replace otp: %w", err)
	}
	return s.deliver(ctx, user, otp)
}

// VerifyCode consume el codigo vivo del usuario. Un codigo vencido se borra en el
// primer intento posterior a la expiracion; un codigo incorrecto sigue vivo.
func (s *RegistrationService) VerifyCode(ctx context.Context, mobile, code string) error {
	mobile = strings.TrimSpace(mobile)
	if mobile == "" {
		return validationError("mobile is required")
	}
	if strings.TrimSpace(code) == "" {
		return validationError("code is required")
	}

	user, err := s.userByMobile(ctx, mobile)
	if err != nil {
		return err
	}
	otp, err := s.otps.GetByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrCodeNotFound
		}
		return fmt.Errorf("get otp: %w", err)
	}

	if otp.IsExpired(s.now()) {
		if _, err := s.otps.Delete(ctx, otp.ID); err != nil {
			return fmt.Errorf("delete expired otp: %w", err)
		}
		return ErrExpired
	}
	if subtle.ConstantTimeCompare([]byte(otp.Code), []byte(code)) != 1 {
		return ErrInvalidCode
	}

	err = s.tx.WithinTx(ctx, func(users repository.UserRepository, otps repository.OTPRepository) error {
		deleted, err := otps.Delete(ctx, otp.ID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrCodeNotFound
		}
		return users.UpdateStatus(ctx, user.ID, domain.StatusVerified)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("consume otp: %w", err)
	}

	user.Status = domain.StatusVerified
	s.publish(ctx, events.KeyUserVerified, user)
	return nil
}

// SetPassword guarda el hash de la contrasena; volver a llamarlo la reemplaza.
func (s *RegistrationService) SetPassword(ctx context.Context, username, password string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.User{}, validationError("username is required")
	}
	if strings.TrimSpace(password) == "" {
		return domain.User{}, validationError("password is required")
	}

	user, err := s.userByUsername(ctx, username)
	if err != nil {
		return domain.User{}, err
	}
	if !user.IsVerified() {
		return domain.User{}, ErrNotVerified
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	if user.Role == "" {
		user.Role = domain.RoleMember
	}
	if user.Status == domain.StatusVerified {
		user.Status = domain.StatusPasswordSet
	}

	if err := s.users.UpdateCredentials(ctx, user.ID, hash, user.Role, user.Status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("update credentials: %w", err)
	}
	user.PasswordHash = hash
	return user, nil
}

// Authenticate valida usuario y contrasena para el login.
func (s *RegistrationService) Authenticate(ctx context.Context, username, password string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// Profile devuelve el usuario autenticado.
func (s *RegistrationService) Profile(ctx context.Context, id int64) (domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *RegistrationService) ensureAvailable(ctx context.Context, username, mobile string) error {
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return ErrUsernameTaken
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("check username: %w", err)
	}
	if _, err := s.users.GetByMobile(ctx, mobile); err == nil {
		return ErrMobileTaken
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("check mobile: %w", err)
	}
	return nil
}

func (s *RegistrationService) userByMobile(ctx context.Context, mobile string) (domain.User, error) {
	user, err := s.users.GetByMobile(ctx, mobile)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *RegistrationService) userByUsername(ctx context.Context, username string) (domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *RegistrationService) deliver(ctx context.Context, user domain.User, otp domain.OTPCode) error {
	if s.sender == nil {
		return ErrDeliveryFailed
	}
	if err := s.sender.SendOTP(ctx, user.Mobile, otp.Code, otp.ExpiresAt()); err != nil {
		s.logger.Warn("send verification otp failed",
			zap.Error(err),
			zap.String("mobile", user.Mobile),
			zap.Int64("user_id", user.ID),
		)
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	return nil
}

func (s *RegistrationService) publish(ctx context.Context, key string, user domain.User) {
	ev := events.UserEvent{
		UserID:     user.ID,
		Username:   user.Username,
		Mobile:     user.Mobile,
		Status:     string(user.Status),
		OccurredAt: s.now().UTC(),
	}
	if err := s.events.PublishJSON(ctx, key, ev); err != nil {
		s.logger.Warn("publish event failed", zap.Error(err), zap.String("key", key), zap.String("username", user.Username))
	}
}

func mapCreateError(err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateUsername):
		return ErrUsernameTaken
	case errors.Is(err, repository.ErrDuplicateMobile):
		return ErrMobileTaken
	default:
		return fmt.Errorf("create account: %w", err)
	}
}

// generateOTP devuelve un codigo uniforme en 000000-999999.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpSpace)
	if err != nil {
		return "", err
	}
	return formatOTP(n.Int64()), nil
}

func formatOTP(n int64) string {
	return fmt.Sprintf("%0*d", domain.OTPDigits, n)
}
