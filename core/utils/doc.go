// Package utils provides loose value conversion for remote catalog payloads.
// Remote servers disagree on whether identifiers are numbers or strings;
// ToString normalizes them.
package utils
