package mysql

import (
	"testing"
	"time"

	absenceDomain "github.com/channor/open-manage/internal/domain/absence"
	userDomain "github.com/channor/open-manage/internal/domain/user"
	"github.com/channor/open-manage/pkg/id"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// openTestDB creates an in-memory sqlite DB with the full schema.
// A single connection keeps every query on the same in-memory database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func seedType(t *testing.T, db *gorm.DB, name string, hasHours bool) *absenceDomain.AbsenceType {
	t.Helper()
	at := &absenceDomain.AbsenceType{Name: name, HasHours: hasHours}
	if err := db.Create(at).Error; err != nil {
		t.Fatalf("seed type: %v", err)
	}
	return at
}

func seedUser(t *testing.T, db *gorm.DB, name string, person *userDomain.Person, roles ...string) *userDomain.User {
	t.Helper()
	u := &userDomain.User{Name: name, Email: name + "@example.com"}
	if person != nil {
		if err := db.Create(person).Error; err != nil {
			t.Fatalf("seed person: %v", err)
		}
		u.PersonID = &person.ID
	}
	for _, r := range roles {
		role := userDomain.Role{Name: r}
		if err := db.Where(userDomain.Role{Name: r}).FirstOrCreate(&role).Error; err != nil {
			t.Fatalf("seed role: %v", err)
		}
		u.Roles = append(u.Roles, role)
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func makeAbsence(personID, typeID uint64, start time.Time) *absenceDomain.Absence {
	return &absenceDomain.Absence{
		AbsenceID:     id.NewID32(),
		PersonID:      personID,
		AbsenceTypeID: typeID,
		StartDate:     start.UTC(),
		Status:        absenceDomain.StatusRequested,
	}
}
