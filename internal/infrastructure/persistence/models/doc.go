// Package models contains the GORM persistence models for the mall tables.
// Domain entities stay free of ORM tags; each model carries its table mapping
// and ToDomain/FromDomain mappers, and repositories only ever hand domain
// types across the package boundary.
//
// Every table except the tb_areas reference data carries create_time and
// update_time columns, filled by GORM's autoCreateTime/autoUpdateTime hooks.
package models
