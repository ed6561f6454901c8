// Package errors defines the typed application errors shared by the loader,
// the dataset builder and the CLI.
//
// Every failure that aborts a build is an *AppError carrying an ErrorType, so
// callers can tell an absent input file (NOT_FOUND) from a malformed one
// (PARSING) or a table without a required join column (SCHEMA):
//
//	if apperrors.IsType(err, apperrors.ErrTypeSchema) {
//	    // fix the input, not the code
//	}
package errors
