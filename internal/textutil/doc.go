// Package textutil provides text normalization and slug helpers shared by
// fingerprinting and venue identity.
//
// Normalize collapses case, diacritics, punctuation, and whitespace so that
// trivially different source spellings ("The Bakery" vs "the   bakery")
// compare equal. Slugify builds URL-safe identity slugs from venue names.
package textutil
