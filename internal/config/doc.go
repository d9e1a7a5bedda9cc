// Package config loads and validates application settings from environment
// variables and optional config files. It gives the server, auth, and store
// layers typed access to their knobs while keeping configuration concerns
// out of the domain and service packages.
package config
