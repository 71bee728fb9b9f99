package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockedFirst loads one row under SELECT ... FOR UPDATE so a
// check-and-update sequence holds the row until the transaction ends.
func lockedFirst(tx *gorm.DB, dest interface{}, conds ...interface{}) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(dest, conds...)
}
