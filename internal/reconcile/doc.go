// Package reconcile decides, per candidate record, whether to insert a new
// catalog row or merge into the existing row holding the same fingerprint.
//
// Merging follows a smart-merge policy: field by field, a candidate's value
// replaces the stored one only when the stored value is empty, when the
// field's rule prefers richer content and the candidate's is richer, or when
// the adapter asserts high extraction confidence for the field. A populated
// field is never downgraded to empty. The policy is commutative for
// non-conflicting fields, so processing order across adapter runs does not
// change the merged result.
package reconcile
