// meta/meta.go
package meta

// GO_ROUTINES defines the number of goroutines searching root moves.
const GO_ROUTINES = 4

// KING_WEIGHT, PAWN_WEIGHT and MOBILITY_WEIGHT define the default evaluation weights.
const (
	KING_WEIGHT     = 6
	PAWN_WEIGHT     = 3
	MOBILITY_WEIGHT = 1
)

// MAX_PLY defines the default search depth.
const MAX_PLY = 5

// MAX_TURNS caps the length of a game; reaching it is a draw.
const MAX_TURNS = 300

// TRACE_LIMIT caps the nodes recorded when dumping a search tree.
const TRACE_LIMIT = 5000
