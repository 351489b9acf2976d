package money

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Денежные суммы в системе хранятся в минимальных единицах (сентаво, int64),
// чтобы не накапливать дрейф плавающей точки при пересчётах корзины.
// Форматирование выполняется только на границе — в сообщениях и ответах API.

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL форматирует сумму в сентаво как бразильский реал: "R$ 1.234,56".
func FormatBRL(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	value := float64(minor) / 100
	return ptBR.Sprintf("%sR$ %v", sign,
		number.Decimal(value, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}
