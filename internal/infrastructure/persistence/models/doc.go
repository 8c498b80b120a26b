// Package models contains the GORM persistence models of the storefront
// tables. Domain entities stay free of ORM tags; each model converts to and
// from its entity with ToDomain/FromDomain.
//
// List and JSON columns (gallery urls, tag lists, attributes, theme values)
// use GORM's json serializer so the same models run on Postgres (jsonb) and
// on the SQLite database used by repository tests.
package models
