// Package models содержит доменную модель прокси-сервера (VPS с панелью x-ui),
// на котором заводятся клиенты при покупке конфигураций.
package models

// Server — backend-сервер, продающий места под клиентов.
// SSH-учётные данные наружу не отдаются.
type Server struct {
	ID          int64  // Идентификатор сервера
	Country     string // Страна размещения
	Host        string // Адрес
	SSHPort     int    // Порт SSH для провижининга
	SSHUsername string // Логин SSH
	SSHPassword string // Пароль SSH
	MaxUsers    int    // Вместимость
	UsersCount  int    // Текущее число клиентов
	XUIPort     int    // Порт inbound панели x-ui
	UIPanelLink string // Ссылка на панель управления
}

// PublicServer — представление сервера для административного списка.
type PublicServer struct {
	ID          int64  `json:"id"`
	Host        string `json:"host"`
	Country     string `json:"country"`
	MaxUsers    int    `json:"max_users"`
	UsersCount  int    `json:"users_count"`
	UIPanelLink string `json:"ui_panel_link"`
}

// Public возвращает сервер без SSH-учётных данных.
func (s Server) Public() PublicServer {
	return PublicServer{
		ID:          s.ID,
		Host:        s.Host,
		Country:     s.Country,
		MaxUsers:    s.MaxUsers,
		UsersCount:  s.UsersCount,
		UIPanelLink: s.UIPanelLink,
	}
}
