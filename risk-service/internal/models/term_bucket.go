package models

// TermBucket — результат терм-агрегации поискового индекса:
// сколько документов заметки совпало с конкретным триггер-словом.
type TermBucket struct {
	Term     string
	DocCount int64
}
