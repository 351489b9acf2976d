package checkout

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/vladislavdragonenkov/cardapio/internal/domain"
	"github.com/vladislavdragonenkov/cardapio/internal/money"
)

// Формат даты pt-BR: дд/мм/гггг чч:мм:сс.
const ptBRDateLayout = "02/01/2006 15:04:05"

// BuildWhatsAppMessage собирает текст заказа для отправки ресторану в WhatsApp.
// Структура сообщения: шапка с рестораном и датой, данные клиента,
// нумерованные позиции с опциями и примечаниями, итоговая сумма.
func BuildWhatsAppMessage(restaurant domain.Restaurant, order domain.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🛍️ *Novo Pedido - %s*\n", restaurant.Name)
	fmt.Fprintf(&b, "📅 %s\n\n", order.CreatedAt.Format(ptBRDateLayout))

	b.WriteString("👤 *Dados do Cliente*\n")
	fmt.Fprintf(&b, "Nome: %s\n", order.CustomerName)
	fmt.Fprintf(&b, "Telefone: %s\n\n", FormatPhoneBR(order.CustomerPhone))

	b.WriteString("📝 *Detalhes do Pedido*\n")
	for i, item := range order.Items {
		fmt.Fprintf(&b, "\n%d. *%s*\n", i+1, item.MenuItemName)
		fmt.Fprintf(&b, "   Quantidade: %dx\n", item.Quantity)
		fmt.Fprintf(&b, "   Preço: %s\n", money.FormatBRL(item.UnitPriceMinor))

		if len(item.SelectedOptions) > 0 {
			b.WriteString("   Opções:\n")
			for _, option := range item.SelectedOptions {
				fmt.Fprintf(&b, "   - %s: %s", option.Name, option.OptionLabel)
				if option.PriceMinor > 0 {
					fmt.Fprintf(&b, " (+%s)", money.FormatBRL(option.PriceMinor))
				}
				b.WriteString("\n")
			}
		}

		if item.Notes != "" {
			fmt.Fprintf(&b, "   Observações: %s\n", item.Notes)
		}
	}

	fmt.Fprintf(&b, "\n💰 *Total: %s*\n\n", money.FormatBRL(order.TotalAmountMinor))

	if order.Notes != "" {
		fmt.Fprintf(&b, "📌 *Observações Adicionais*\n%s\n\n", order.Notes)
	}

	b.WriteString("Obrigado pelo seu pedido! Vamos prepará-lo imediatamente.")

	return b.String()
}

// WhatsAppLink строит deep link wa.me на номер ресторана с предзаполненным
// текстом заказа. Номер дополняется кодом страны 55 (Бразилия).
func WhatsAppLink(restaurant domain.Restaurant, message string) string {
	number := digitsOnly(restaurant.WhatsAppNumber)
	if !strings.HasPrefix(number, "55") {
		number = "55" + number
	}
	// encodeURIComponent-совместимое экранирование: пробел как %20, не '+'.
	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return "https://wa.me/" + number + "?text=" + text
}

// FormatPhoneBR форматирует нормализованный номер как "(dd) ddddd-dddd".
// Номера неожиданной длины возвращаются как есть.
func FormatPhoneBR(phone string) string {
	digits := digitsOnly(phone)
	switch len(digits) {
	case 11:
		return fmt.Sprintf("(%s) %s-%s", digits[:2], digits[2:7], digits[7:])
	case 10:
		return fmt.Sprintf("(%s) %s-%s", digits[:2], digits[2:6], digits[6:])
	default:
		return phone
	}
}

// NormalizePhone приводит телефон клиента к цифрам и проверяет, что это
// бразильский номер: DDD из двух цифр плюс 8 или 9 цифр номера.
func NormalizePhone(raw string) (string, error) {
	digits := digitsOnly(raw)
	// Допускаем номер с кодом страны, сохраняем только локальную часть.
	if strings.HasPrefix(digits, "55") && (len(digits) == 12 || len(digits) == 13) {
		digits = digits[2:]
	}
	if len(digits) != 10 && len(digits) != 11 {
		return "", domain.ErrCustomerPhoneInvalid
	}
	return digits, nil
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
