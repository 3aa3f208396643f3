// Package venues resolves source-reported venue descriptions to persisted
// venue rows. Identity is a normalized slug derived from the venue name
// (qualified by city when known); the slug's uniqueness constraint in the
// store makes concurrent find-or-create safe.
package venues
