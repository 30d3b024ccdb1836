// Package vless собирает конфигурационные ссылки vless:// для клиентов x-ui.
//
// Ссылка несёт UUID клиента и является учётными данными подключения:
// она непредсказуема и должна храниться и передаваться как секрет.
package vless

import (
	"fmt"
	"net/url"

	"github.com/google/uuid"
)

// Params параметры генерации ссылки, общие для всех клиентов инсталляции.
type Params struct {
	PublicKey string // Публичный ключ reality (pbk)
	Domain    string // SNI, под который маскируется трафик
	Flow      string // Flow клиента, обычно xtls-rprx-vision
}

// NewClientUID генерирует UUID клиента x-ui.
func NewClientUID() string {
	return uuid.New().String()
}

// NewClientTag генерирует уникальную метку клиента для поля email в x-ui.
func NewClientTag() string {
	return fmt.Sprintf("UnknownSoldier_%s", uuid.New().String()[:8])
}

// Link составляет vless:// ссылку для клиента с заданным UUID
// на сервере host с портом панели x-ui.
func (p Params) Link(clientUID, tag, host string, xuiPort int) string {
	query := fmt.Sprintf(
		"type=tcp&security=reality&pbk=%s&fp=chrome&sni=%s&spx=%s&flow=%s",
		p.PublicKey, p.Domain, url.QueryEscape("/"), p.Flow,
	)
	return fmt.Sprintf("vless://%s@%s:%d?%s#%s", clientUID, host, xuiPort, query, tag)
}
