package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleCustomer UserRole = "customer"
	UserRoleAdmin    UserRole = "admin"
)

type User struct {
	Id        uuid.UUID
	Email     string
	FullName  string
	Role      UserRole
	CreatedAt time.Time
	UpdatedAt time.Time
}
