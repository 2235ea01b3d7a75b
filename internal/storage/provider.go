package storage

import "factory/internal/ports"

// Uploader is the artifact storage contract used across the sweep and the
// server. It is an alias to ports.Uploader to keep call-sites simple.
type Uploader = ports.Uploader
