package specification

import "gorm.io/gorm"

// Specification is a composable query fragment; repositories chain them
// onto the base query before executing.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
