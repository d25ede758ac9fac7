// RDS Dashboard BFF - Operations dashboard backend-for-frontend
// Copyright 2026 RDS Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration for startup-fatal problems: struct
// tags first, then the cross-field rules no tag can express. A non-nil
// error means the process must not start.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration fields: %s", strings.Join(fields, ", "))
		}
		return err
	}

	if err := c.validateOrigins(); err != nil {
		return err
	}
	return c.validateRouting()
}

// validateOrigins rejects an empty or malformed allowlist. An empty
// allowlist would block every browser request, which is always a
// misconfiguration.
func (c *Config) validateOrigins() error {
	origins := trimOrigins(c.Security.CORSOrigins)
	if len(origins) == 0 {
		return errors.New("security.cors_origins: allowlist is empty; set CORS_ORIGINS or a recognized ENVIRONMENT")
	}

	for _, origin := range origins {
		u, err := url.Parse(origin)
		if err != nil {
			return fmt.Errorf("security.cors_origins: entry %q: %w", origin, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("security.cors_origins: entry %q: scheme must be http or https", origin)
		}
		if u.Host == "" {
			return fmt.Errorf("security.cors_origins: entry %q: missing host", origin)
		}
	}

	c.Security.CORSOrigins = origins
	return nil
}

// stagePathSegments are API-gateway deployment stages. An internal API
// URL containing one points at a gateway stage root, which in deployed
// environments routes requests back through the BFF.
var stagePathSegments = []string{"prod", "staging", "dev", "$default"}

// validateRouting enforces the circular-reference and stage-segment
// guards on the internal API URL.
func (c *Config) validateRouting() error {
	internal, err := url.Parse(c.Services.InternalAPIURL)
	if err != nil {
		return fmt.Errorf("services.internal_api_url: %w", err)
	}

	if c.Services.BFFAPIURL != "" {
		bff, err := url.Parse(c.Services.BFFAPIURL)
		if err != nil {
			return fmt.Errorf("services.bff_api_url: %w", err)
		}
		if bff.Host != "" && strings.EqualFold(internal.Host, bff.Host) {
			return fmt.Errorf("services.internal_api_url: host %q matches the BFF's own host: circular reference", internal.Host)
		}
	}

	for _, part := range strings.Split(internal.Path, "/") {
		for _, stage := range stagePathSegments {
			if part == stage {
				return fmt.Errorf("services.internal_api_url: path contains gateway stage segment %q", "/"+stage)
			}
		}
	}
	return nil
}
