// Package series links reconciled events to the recurring show they belong
// to. Series identity is the (title, frequency) tuple, backed by a UNIQUE
// constraint so concurrent adapter runs converge on one series row.
package series
