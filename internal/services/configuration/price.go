package services

import "errors"

// Названия тарифов, как они приходят от клиента.
const (
	TariffBasic   = "Базовый сервер"
	TariffPremium = "Премиум сервер"
)

// ErrUnknownTariff возвращается для неизвестной пары (тариф, страна)
// или недопустимого срока.
var ErrUnknownTariff = errors.New("unknown tariff, country or duration")

// basePrices — базовая месячная цена по паре (тариф, страна).
var basePrices = map[string]map[string]int{
	TariffBasic: {
		"Russia":  200,
		"Poland":  300,
		"USA":     400,
		"UK":      380,
		"Denmark": 360,
	},
	TariffPremium: {
		"Russia":  400,
		"Poland":  500,
		"USA":     600,
		"UK":      580,
		"Denmark": 560,
	},
}

// annualPrices — фиксированная цена за год по тарифу.
// При покупке на 12 месяцев применяется она, а не base*12.
var annualPrices = map[string]int{
	TariffBasic:   2000,
	TariffPremium: 4000,
}

// allowedMonths — допустимые сроки покупки.
var allowedMonths = map[int]struct{}{
	1:  {},
	3:  {},
	6:  {},
	12: {},
}

// ComputePrice считает итоговую цену покупки: base(tariff, country) * months,
// при months == 12 — фиксированная годовая цена тарифа.
// Неизвестная пара (тариф, страна) или срок вне {1,3,6,12} — ErrUnknownTariff.
func ComputePrice(tariff, country string, months int) (int, error) {
	countries, ok := basePrices[tariff]
	if !ok {
		return 0, ErrUnknownTariff
	}
	base, ok := countries[country]
	if !ok {
		return 0, ErrUnknownTariff
	}
	if _, ok := allowedMonths[months]; !ok {
		return 0, ErrUnknownTariff
	}
	if months == 12 {
		return annualPrices[tariff], nil
	}
	return base * months, nil
}
