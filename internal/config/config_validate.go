// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package config

import (
	"fmt"

	"github.com/tomtom215/playerstats/internal/validation"
)

// Validate checks struct tags and the rules tags cannot express.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}

	if c.Backup.Path == c.Database.Path && c.Backup.Backend == c.Database.Backend && c.Backup.Path != ":memory:" {
		return fmt.Errorf("backup.path must differ from database.path")
	}
	return nil
}
