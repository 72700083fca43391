package models

import "time"

type User struct {
	ID            string
	Name          string
	HasPermission bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Group struct {
	ID           string
	Name         string
	ExpireRental *time.Time
	// WelcomeMessage - шаблон приветствия; пустая строка означает шаблон по умолчанию.
	WelcomeMessage string
	WelcomeEnabled bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (g *Group) RentalActive(now time.Time) bool {
	return g.ExpireRental != nil && g.ExpireRental.After(now)
}

// DailyStatus - состояние игры очков пользователя в конкретной группе.
type DailyStatus struct {
	Points     int64
	Roulettes  int
	StoleToday bool
}

type Incident struct {
	ID        string
	Command   string
	SenderID  string
	ChatID    string
	Error     string
	Stack     string
	CreatedAt time.Time
}

type Suggestion struct {
	SenderID  string
	ChatID    string
	PushName  string
	Text      string
	CreatedAt time.Time
}
