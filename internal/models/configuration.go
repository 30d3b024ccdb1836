// Package models содержит доменные структуры купленных прокси-конфигураций
// и вспомогательные типы для приёма данных покупки из JSON-запросов.
package models

import "time"

// Configuration — купленная пользователем прокси-конфигурация.
// Ссылка ConfigLink несёт учётные данные подключения и считается секретом.
// Запись неизменяема после создания; активность — чистая функция времени.
type Configuration struct {
	ID             int64     // Идентификатор конфигурации
	UserID         int64     // Владелец, конфигурация никогда не передается
	ServerID       int64     // Сервер, на котором заведен клиент
	ClientUID      string    // UUID клиента в x-ui (уникальный)
	ConfigLink     string    // Ссылка vless://
	Tariff         string    // Название тарифа
	Price          int       // Зафиксированная при покупке цена
	ExpirationDate time.Time // Дата истечения
	CreatedAt      time.Time // Дата покупки
}

// PurchaseRequest используется для приёма данных покупки из JSON-запроса.
// Тариф по умолчанию — базовый.
type PurchaseRequest struct {
	Country string `json:"country" validate:"required"`
	Months  int    `json:"months" validate:"required,gt=0"`
	Tariff  string `json:"tariff,omitempty"`
}

// ConfigurationInfo — данные конфигурации с почтой владельца,
// используются планировщиком уведомлений об истечении.
type ConfigurationInfo struct {
	Email          string
	Username       string
	ConfigLink     string
	ExpirationDate time.Time
}
