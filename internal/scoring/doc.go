// Package scoring computes completeness scores for catalog entities. Each
// entity kind carries a weight table summing to 100; an entity's score is
// the sum of the weights of its populated fields, so a fully populated
// record scores exactly 100 and an empty one scores 0.
package scoring
