package http

import (
	"time"

	xutil "FinDash/pkg/util"
)

// ParseTimeDefault parses RFC3339, a plain date or unix seconds, or returns def.
func ParseTimeDefault(s string, def time.Time) time.Time { return xutil.ParseTimeDefault(s, def) }
