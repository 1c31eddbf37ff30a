package models

// Gender — код пола пациента из регистратуры.
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

// RiskCategory — упорядоченная категория риска диабета.
// Порядок значим: None < Borderline < InDanger < EarlyOnset.
type RiskCategory int

const (
	RiskNone RiskCategory = iota
	RiskBorderline
	RiskInDanger
	RiskEarlyOnset
)

// String возвращает отображаемое имя категории.
func (c RiskCategory) String() string {
	switch c {
	case RiskNone:
		return "None"
	case RiskBorderline:
		return "Borderline"
	case RiskInDanger:
		return "In danger"
	case RiskEarlyOnset:
		return "Early onset"
	default:
		return "None"
	}
}
