// Package loader reads the raw Olist dataset files into in-memory tables.
//
// Every file is read by its fixed name under a base directory into a gota
// DataFrame whose columns are all strings, so identifiers such as zip code
// prefixes keep their leading zeros. Columns and row order are preserved and
// no business transformation is applied. A file that is absent, unreadable or
// malformed fails the whole load; nothing is substituted with empty data.
package loader
