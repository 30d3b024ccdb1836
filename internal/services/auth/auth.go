// Package services содержит логику бизнес-уровня для работы
// с пользователями, сессиями и аутентификацией.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/AvinFlower/shadow-link/internal/cache"
	"github.com/AvinFlower/shadow-link/internal/lib/jwt"
	"github.com/AvinFlower/shadow-link/internal/lib/password"
	"github.com/AvinFlower/shadow-link/internal/models"
)

// ErrInvalidCredentials возвращается при неудачной проверке пароля.
// «Нет такого пользователя» и «неверный пароль» снаружи неразличимы,
// чтобы по ответу нельзя было перебирать имена.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его ID.
	CreateUser(ctx context.Context, user models.User) (int64, error)
	// GetUser возвращает пользователя по ID или ошибку, если не найден.
	GetUser(ctx context.Context, id int64) (*models.User, error)
	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// UpdateUser выполняет частичное обновление профиля.
	UpdateUser(ctx context.Context, id int64, upd models.UpdateUser) (*models.User, error)
	// UpdateUserPassword заменяет хэш пароля.
	UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error
	// UpdateLastLogin фиксирует момент успешного входа.
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	// AdjustUserCredits атомарно меняет баланс кредитов.
	AdjustUserCredits(ctx context.Context, id int64, delta int) (*models.User, error)
}

// SessionStore описывает серверное хранилище сессий.
type SessionStore interface {
	CreateSession(ctx context.Context, uid string, session cache.Session, ttl time.Duration) error
	GetSession(ctx context.Context, uid string) (*cache.Session, bool, error)
	DeleteSession(ctx context.Context, uid string) error
}

// AuthService отвечает за регистрацию, вход, сессии и операции над профилем.
type AuthService struct {
	users       UserRepository
	sessions    SessionStore
	jwtMaker    jwt.Maker
	sessionTTL  time.Duration
	hashTimeout time.Duration
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, sessions SessionStore, jwtMaker jwt.Maker, sessionTTL time.Duration) *AuthService {
	return &AuthService{
		users:       users,
		sessions:    sessions,
		jwtMaker:    jwtMaker,
		sessionTTL:  sessionTTL,
		hashTimeout: 2 * time.Second,
	}
}

// hashPassword считает scrypt-хеш под таймаутом: KDF нарочно медленный,
// и под нагрузкой его время должно быть ограничено.
func (s *AuthService) hashPassword(ctx context.Context, raw string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.hashTimeout)
	defer cancel()

	type result struct {
		hash string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		h, err := password.GetHash(raw)
		ch <- result{hash: h, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		return r.hash, r.err
	}
}

// openSession создает серверную запись сессии и выпускает токен под неё.
func (s *AuthService) openSession(ctx context.Context, user *models.User) (string, error) {
	sessionUID := uuid.New().String()
	session := cache.Session{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}
	if err := s.sessions.CreateSession(ctx, sessionUID, session, s.sessionTTL); err != nil {
		return "", err
	}
	return s.jwtMaker.GenerateToken(user.ID, user.Username, user.Role, sessionUID)
}

// Register создает нового пользователя с хэшированием пароля и дефолтной
// ролью "user", открывает для него сессию и возвращает пользователя с токеном.
// Повторное имя пользователя — repository.ErrUsernameTaken, частичной записи
// не остается.
func (s *AuthService) Register(ctx context.Context, req models.RegisterUser) (*models.User, string, error) {
	const op = "auth.Register"

	hashed, err := s.hashPassword(ctx, req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		FullName:     req.FullName,
		BirthDate:    req.BirthDate,
		PasswordHash: hashed,
		Role:         models.RoleUser, // дефолтная роль при регистрации
		ProxyCredits: 0,
		LastLogin:    &now,
		CreatedAt:    now,
	}
	id, err := s.users.CreateUser(ctx, user)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	user.ID = id

	token, err := s.openSession(ctx, &user)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	return &user, token, nil
}

// Login проверяет пароль пользователя, обновляет last_login,
// открывает сессию и возвращает пользователя с токеном.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (*models.User, string, error) {
	const op = "auth.Login"

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	user.LastLogin = &now

	token, err := s.openSession(ctx, user)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	return user, token, nil
}

// Logout уничтожает сессию токена. Идемпотентен: повторный выход с тем же
// токеном не ошибка — сессии уже нет, удалять нечего. Токен проверяется
// только криптографически, живая сессия не требуется.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	const op = "auth.Logout"
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	if err := s.sessions.DeleteSession(ctx, claims.SessionUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ValidateToken проверяет подпись токена и существование серверной сессии.
// Отсутствующая или истёкшая сессия — ErrInvalidCredentials; недоступность
// хранилища сессий — ошибка, которая должна дойти до клиента как 500,
// а не как «аноним».
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*jwt.CustomClaims, error) {
	const op = "auth.ValidateToken"

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	_, found, err := s.sessions.GetSession(ctx, claims.SessionUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	return claims, nil
}

// CurrentUser возвращает пользователя текущей сессии.
func (s *AuthService) CurrentUser(ctx context.Context, userID int64) (*models.User, error) {
	const op = "auth.CurrentUser"
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// ChangePassword проверяет текущий пароль и заменяет хэш на хэш нового.
// При неверном текущем пароле хэш в базе остается нетронутым.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) (*models.User, error) {
	const op = "auth.ChangePassword"

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, oldPassword); err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	hashed, err := s.hashPassword(ctx, newPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.users.UpdateUserPassword(ctx, userID, hashed); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user.PasswordHash = hashed
	return user, nil
}

// UpdateProfile выполняет частичное обновление изменяемых полей профиля.
// Уникальность нового имени пользователя гарантирует хранилище.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, upd models.UpdateUser) (*models.User, error) {
	const op = "auth.UpdateProfile"
	user, err := s.users.UpdateUser(ctx, userID, upd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// AddCredits пополняет баланс кредитов на amount.
func (s *AuthService) AddCredits(ctx context.Context, userID int64, amount int) (*models.User, error) {
	const op = "auth.AddCredits"
	user, err := s.users.AdjustUserCredits(ctx, userID, amount)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}
