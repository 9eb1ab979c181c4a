// Package services implements the driving ports.
//
// A search ranks the library lexically and hands the top matches to the
// synthesizer. Uploads pass through the analyzer before they are stored.
// Model errors stop at the synthesizer and analyzer, which return degraded
// results instead.
package services
