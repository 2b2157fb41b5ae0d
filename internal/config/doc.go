// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

/*
Package config loads Playerstats configuration with koanf.

Sources, in increasing order of precedence:

 1. Built-in defaults (defaultConfig)
 2. A YAML file: $CONFIG_PATH, else config.yaml / config.yml in the working
    directory, else /etc/playerstats/config.yaml
 3. Environment variables listed in envMappings (DB_BACKEND, POOL_WORKERS, ...)

The result is validated with go-playground/validator struct tags plus a few
cross-field rules in Validate.

Example config.yaml:

	database:
	  backend: duckdb
	  path: /data/playerstats.duckdb
	  batch_size: 4096
	backup:
	  backend: sqlite
	  path: /data/backups/playerstats.db
	  interval: 24h
	activity:
	  play_threshold: 30m
	  login_threshold: 2
	filters:
	  timezone: Europe/Helsinki
	  cache_ttl: 5m
*/
package config
