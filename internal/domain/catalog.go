package domain

import "time"

// PlanType определяет тарифный план ресторана.
type PlanType string

const (
	PlanTrial      PlanType = "trial"
	PlanBasic      PlanType = "basic"
	PlanPro        PlanType = "pro"
	PlanEnterprise PlanType = "enterprise"
)

// Valid проверяет, что план относится к поддерживаемым значениям.
func (p PlanType) Valid() bool {
	switch p {
	case PlanTrial, PlanBasic, PlanPro, PlanEnterprise:
		return true
	default:
		return false
	}
}

// Plan описывает тарифный план с ценой в сентаво за месяц.
type Plan struct {
	Type            PlanType
	Name            string
	MonthlyFeeMinor int64
	TrialDays       int
	Features        []string
}

// Plans — каталог тарифов платформы.
var Plans = map[PlanType]Plan{
	PlanTrial: {
		Type:      PlanTrial,
		Name:      "Trial",
		TrialDays: 30,
		Features:  []string{"Cardápio Digital", "Pedidos via WhatsApp", "Suporte Básico"},
	},
	PlanBasic: {
		Type:            PlanBasic,
		Name:            "Básico",
		MonthlyFeeMinor: 4990,
		Features:        []string{"Cardápio Digital", "Pedidos via WhatsApp", "Suporte Básico", "Relatórios Básicos"},
	},
	PlanPro: {
		Type:            PlanPro,
		Name:            "Profissional",
		MonthlyFeeMinor: 9990,
		Features:        []string{"Tudo do Plano Básico", "Personalização Avançada", "Relatórios Detalhados", "Suporte Prioritário"},
	},
	PlanEnterprise: {
		Type:            PlanEnterprise,
		Name:            "Enterprise",
		MonthlyFeeMinor: 19990,
		Features:        []string{"Tudo do Plano Profissional", "API Personalizada", "Gerente de Conta Dedicado", "SLA Garantido"},
	},
}

// RestaurantStatus описывает состояние арендатора на платформе.
type RestaurantStatus string

const (
	// RestaurantStatusActive — ресторан работает и принимает заказы.
	RestaurantStatusActive RestaurantStatus = "active"
	// RestaurantStatusSuspended — ресторан приостановлен администратором.
	RestaurantStatusSuspended RestaurantStatus = "suspended"
)

// RestaurantTheme хранит настройки оформления витрины.
type RestaurantTheme struct {
	PrimaryColor    string `json:"primary_color"`
	SecondaryColor  string `json:"secondary_color"`
	AccentColor     string `json:"accent_color"`
	BackgroundColor string `json:"background_color"`
	TextColor       string `json:"text_color"`
}

// Restaurant — арендатор платформы со своей витриной и меню.
type Restaurant struct {
	ID             string
	Name           string
	Subdomain      string
	LogoURL        string
	Theme          RestaurantTheme
	WhatsAppNumber string
	Plan           PlanType
	PlanStartedAt  time.Time
	PlanExpiresAt  time.Time
	Status         RestaurantStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Category группирует позиции меню внутри ресторана.
type Category struct {
	ID           string
	RestaurantID string
	Name         string
	SortOrder    int32
}

// MenuOptionChoice — один из вариантов выбора внутри группы опций,
// с доплатой в сентаво (0 — без доплаты).
type MenuOptionChoice struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceMinor int64  `json:"price_minor"`
}

// MenuItemOption — группа опций позиции меню (например, «Размер»).
type MenuItemOption struct {
	Name           string             `json:"name"`
	Choices        []MenuOptionChoice `json:"choices"`
	MultipleChoice bool               `json:"multiple_choice,omitempty"`
}

// MenuItem — позиция меню ресторана. PriceMinor — базовая цена в сентаво.
type MenuItem struct {
	ID           string
	RestaurantID string
	CategoryID   string
	Name         string
	Description  string
	ImageURL     string
	PriceMinor   int64
	IsActive     bool
	Options      []MenuItemOption
}
