// Package fingerprint derives stable identity keys for event candidates.
//
// A fingerprint hashes the normalized (title, venue name, start date) tuple.
// Two candidates with equal fingerprints are treated as the same real-world
// occurrence by the reconciler and must never persist as independent live
// rows. Key is pure: no randomness and no time-of-day dependence.
package fingerprint
