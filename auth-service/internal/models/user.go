package models

import (
	"time"

	"github.com/google/uuid"
)

// User — учётная запись сотрудника клиники.
// Roles определяют права (например, "practitioner", "admin");
// проверка ролей — через service.HasRole.
// LastLoginAt обновляется побочным эффектом при успешном входе.
type User struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	Roles        []string
	LastLoginAt  time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
