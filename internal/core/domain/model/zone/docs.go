// Package zone models delivery zones and the postal codes that map onto them.
//
// A zone owns an ordered set of forward sortation area prefixes (the first
// three characters of a Canadian postal code) and a flat delivery fee. No two
// active zones may claim the same prefix; the repository write path enforces
// that and reports PrefixConflictError.
package zone
