package user

import (
	"time"

	"gorm.io/gorm"
)

type PersonType string

const (
	PersonTypeEmployee PersonType = "employee"
	PersonTypeContact  PersonType = "contact"
)

const (
	RoleSuperAdmin = "super_admin"
	RoleHRManager  = "hr_manager"
	RoleEmployee   = "employee"
)

// Person is the employee identity. A User may link to at most one Person.
type Person struct {
	ID        uint64         `gorm:"primaryKey;column:id" json:"id"`
	Name      string         `gorm:"size:191;not null" json:"name"`
	Type      PersonType     `gorm:"type:varchar(20);not null;default:'employee'" json:"type"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Person) TableName() string { return "people" }

func (p *Person) IsEmployee() bool { return p != nil && p.Type == PersonTypeEmployee }

type Role struct {
	ID   uint64 `gorm:"primaryKey;column:id" json:"id"`
	Name string `gorm:"size:64;uniqueIndex;not null" json:"name"`
}

func (Role) TableName() string { return "roles" }

// User is the authenticated account.
type User struct {
	ID        uint64         `gorm:"primaryKey;column:id" json:"id"`
	Name      string         `gorm:"size:191;not null" json:"name"`
	Email     string         `gorm:"size:191;uniqueIndex;not null" json:"email"`
	PersonID  *uint64        `gorm:"column:person_id;uniqueIndex" json:"person_id"`
	Person    *Person        `gorm:"foreignKey:PersonID" json:"person,omitempty"`
	Roles     []Role         `gorm:"many2many:user_roles;" json:"roles,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

func (u *User) HasRole(name string) bool {
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

func (u *User) HasAnyRole(names ...string) bool {
	for _, n := range names {
		if u.HasRole(n) {
			return true
		}
	}
	return false
}

// LinkedPerson returns the user's person or nil when the user or link is missing.
func (u *User) LinkedPerson() *Person {
	if u == nil || u.Person == nil {
		return nil
	}
	return u.Person
}
