// Package models contains GORM-specific persistence models that map to
// database tables. Domain types stay free of ORM tags; mappers on each model
// convert between the two representations.
package models
