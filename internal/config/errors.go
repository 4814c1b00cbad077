package config

import "errors"

// ErrConfigNotFound indicates the scripts configuration file does not exist.
var ErrConfigNotFound = errors.New("scripts configuration file not found")

// ErrScriptsNotList indicates the scripts key holds something other than a sequence.
var ErrScriptsNotList = errors.New("scripts must be a list of filenames")

// ErrMissingConnectionParams indicates one or more required connection fields are empty.
var ErrMissingConnectionParams = errors.New("missing database connection parameters")

// ErrInvalidPort indicates the configured port is outside 1-65535.
var ErrInvalidPort = errors.New("invalid database port")
