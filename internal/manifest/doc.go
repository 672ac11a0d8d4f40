// Package manifest parses the YAML file that declares functions and constants
// for batch synthesis via the gen command.
package manifest
