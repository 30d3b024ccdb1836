package month

import (
	"time"
)

// Expiration считает дату истечения конфигурации: старт плюс заданное
// число календарных месяцев. Не фиксированные 30-дневные интервалы:
// 31 января + 1 месяц по правилам time.AddDate нормализуется в начало марта.
func Expiration(start time.Time, months int) time.Time {
	return start.AddDate(0, months, 0)
}

// IsActive сообщает, активна ли конфигурация на момент now.
// Граница строгая: в момент, равный дате истечения, конфигурация уже истекла.
func IsActive(expiration, now time.Time) bool {
	return now.Before(expiration)
}
