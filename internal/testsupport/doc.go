// Package testsupport provides shared helpers for package tests: temp-dir
// configs and catalog store setup with automatic cleanup.
package testsupport
