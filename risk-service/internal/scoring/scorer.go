// scoring содержит чистую функцию расчёта категории риска диабета
// по демографии пациента и числу срабатываний триггер-слов в его заметках.
package scoring

import (
	"time"

	"github.com/vetrovaas/go-clinical-platform/risk-service/internal/models"
)

// Пороговые значения числа срабатываний по возрастным/половым группам.
// Проверяются от старшей категории к младшей, поэтому диапазоны
// фактически эксклюзивны (45 лет и 6–7 срабатываний — In danger, не Borderline).
const (
	youngMaleEarlyOnset   = 5
	youngMaleInDanger     = 3
	youngFemaleEarlyOnset = 7
	youngFemaleInDanger   = 4
	adultEarlyOnset       = 8
	adultInDanger         = 6
	adultBorderline       = 2

	adultAge = 30
)

// Score вычисляет категорию риска.
//
// Возраст считается вычитанием годов без учёта месяца и дня рождения:
// так откалиброваны пороги, менять определение нельзя без их пересмотра.
// Нулевое число срабатываний всегда даёт None. Неизвестный код пола
// в группе до 30 лет тоже даёт None — без ошибки.
func Score(dateOfBirth time.Time, gender models.Gender, triggerHits int64, now time.Time) models.RiskCategory {
	if triggerHits == 0 {
		return models.RiskNone
	}

	age := now.Year() - dateOfBirth.Year()

	if age < adultAge {
		switch gender {
		case models.GenderMale:
			switch {
			case triggerHits >= youngMaleEarlyOnset:
				return models.RiskEarlyOnset
			case triggerHits >= youngMaleInDanger:
				return models.RiskInDanger
			}
		case models.GenderFemale:
			switch {
			case triggerHits >= youngFemaleEarlyOnset:
				return models.RiskEarlyOnset
			case triggerHits >= youngFemaleInDanger:
				return models.RiskInDanger
			}
		}

		return models.RiskNone
	}

	switch {
	case triggerHits >= adultEarlyOnset:
		return models.RiskEarlyOnset
	case triggerHits >= adultInDanger:
		return models.RiskInDanger
	case triggerHits >= adultBorderline:
		return models.RiskBorderline
	}

	return models.RiskNone
}
