// Package models содержит доменную модель пользователя системы,
// включающую данные учётной записи, хэш пароля и служебные даты.
// Структуры используются в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// Роли пользователей. Роль admin открывает административные данные
// (список серверов); все остальные запросы равноправны.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID           int64      // Числовой идентификатор, назначается при создании
	Username     string     // Имя пользователя (уникальное, после создания не меняется снаружи профиля)
	Email        string     // Электронная почта
	FullName     string     // Полное имя
	BirthDate    string     // Дата рождения в формате dd.mm.yyyy
	PasswordHash string     // Хэш пароля пользователя, наружу не отдается
	Role         string     // Роль пользователя, admin или user
	ProxyCredits int        // Баланс кредитов, меняется только отдельной операцией
	LastLogin    *time.Time // Обновляется при каждом успешном входе
	CreatedAt    time.Time  // Дата создания записи
}

// PublicUser — представление пользователя для JSON-ответов.
// Хэш пароля в эту структуру не попадает ни при каких условиях.
type PublicUser struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	BirthDate    string `json:"birth_date"`
	Role         string `json:"role"`
	ProxyCredits int    `json:"proxy_credits"`
	LastLogin    string `json:"last_login,omitempty"`
	CreatedAt    string `json:"created_at"`
}

const timestampLayout = "02.01.2006 15:04:05"

// Public возвращает пользователя в форме, пригодной для ответа клиенту.
func (u User) Public() PublicUser {
	p := PublicUser{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		FullName:     u.FullName,
		BirthDate:    u.BirthDate,
		Role:         u.Role,
		ProxyCredits: u.ProxyCredits,
		CreatedAt:    u.CreatedAt.Format(timestampLayout),
	}
	if u.LastLogin != nil {
		p.LastLogin = u.LastLogin.Format(timestampLayout)
	}
	return p
}

// RegisterUser используется для приёма данных регистрации из JSON-запроса.
type RegisterUser struct {
	Username  string `json:"username" validate:"required,min=3,max=50"`
	Password  string `json:"password" validate:"required,min=6"`
	Email     string `json:"email" validate:"required,email"`
	FullName  string `json:"full_name"`
	BirthDate string `json:"birth_date" validate:"required,datetime=02.01.2006"`
}

// UpdateUser описывает частичное обновление профиля.
// Отсутствующие в JSON поля остаются нетронутыми; id и пароль
// через этот путь не меняются.
type UpdateUser struct {
	Username  *string `json:"username,omitempty" validate:"omitempty,min=3,max=50"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	FullName  *string `json:"full_name,omitempty"`
	BirthDate *string `json:"birth_date,omitempty" validate:"omitempty,datetime=02.01.2006"`
}
