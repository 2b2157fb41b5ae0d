// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

// Package validation provides struct and parameter validation using
// go-playground/validator v10.
//
// Features:
//   - Singleton validator instance (thread-safe, caches struct info)
//   - Human-readable messages for common tags
//   - RequestValidationError that matches ErrValidation through errors.Is
//   - NewParameterError for inputs that are not struct fields (filter parameters)
//
// Example usage:
//
//	if err := validation.ValidateStruct(cfg); err != nil {
//	    return fmt.Errorf("invalid configuration: %w", err)
//	}
package validation
