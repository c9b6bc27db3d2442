// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

/*
Package config loads Pricemap configuration with koanf.

Sources are layered, later ones winning:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: $CONFIG_PATH, ./config.yaml, ./config.yml,
    /etc/pricemap/config.yaml
 3. Environment variables, mapped explicitly in envTransformFunc

Example config.yaml:

	server:
	  port: 3000
	store:
	  backend: badger
	  badger:
	    path: /data/pricemap
	reliability:
	  step: 2
	  elimination_threshold: 2
	auth:
	  jwt_secret: change-me-to-at-least-32-bytes-of-entropy
	  google:
	    enabled: true
	    client_id: xxx.apps.googleusercontent.com
	security:
	  cors_origins:
	    - http://localhost:5173

Comma separated environment values (CORS_ORIGINS, ADMIN_EMAILS) become slices.
*/
package config
