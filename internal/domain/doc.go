// Package domain holds the catalog records: units of measure, nomenclature
// groups and items, recipes with their ingredients and cooking steps, and the
// organization record.
//
// Records validate on construction and in every setter; an invalid value is
// rejected with an ARGUMENT_INVALID error and the record is left unchanged.
// Each record publishes its field table for the response encoders.
package domain
