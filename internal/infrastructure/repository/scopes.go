package repository

import (
	"github.com/google/uuid"
	domainRepo "github.com/sangkips/bizcoach-api/internal/domain/repository"
	"gorm.io/gorm"
)

// OwnerScope returns a GORM scope that filters by owning user.
// A nil owner matches nothing, so a missing identity never leaks other owners' rows.
func OwnerScope(ownerID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if ownerID == uuid.Nil {
			return db.Where("1 = 0")
		}
		return db.Where("user_id = ?", ownerID)
	}
}

// DateScope limits dated records to the range. Unbounded ranges apply no filter.
func DateScope(r domainRepo.DateRange) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !r.Bounded {
			return db
		}
		return db.Where("date >= ? AND date < ?", r.From, r.EndExclusive())
	}
}
