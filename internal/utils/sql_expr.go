package utils

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func Increment(column string) clause.Expr {
	return gorm.Expr(column+" + ?", 1)
}

// Decrement builds a counter update that never goes below zero.
func Decrement(column string) clause.Expr {
	return gorm.Expr("CASE WHEN " + column + " > 0 THEN " + column + " - 1 ELSE 0 END")
}
