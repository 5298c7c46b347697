// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from the quote aggregate to keep the domain layer pure and
// free from ORM concerns.
//
// A quote is stored across three tables:
//   - quotes: client metadata and the frozen adjustment columns (NULL when none applied)
//   - quote_spaces: one row per space, ordered by position
//   - quote_items: one row per cabinet item, ordered by position within its space
package models
