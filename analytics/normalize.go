package analytics

import (
	"encoding/json"
	"math/big"
	"strconv"

	"github.com/jackc/pgx/v5/pgtype"
)

// ToFloat converts a value coming out of the database into a plain float64.
// Postgres aggregates surface as wide types (pgtype.Numeric for SUM/AVG over
// numeric columns, int64 for COUNT); anything left in those representations
// breaks JSON serialization further down the pipeline, so every number is
// funneled through here before it enters a snapshot.
func ToFloat(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	case pgtype.Numeric:
		f, err := n.Float64Value()
		if err != nil || !f.Valid {
			return 0
		}
		return f.Float64
	case *big.Int:
		f, _ := new(big.Float).SetInt(n).Float64()
		return f
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// NormalizeTree recursively walks a decoded structure and rewrites any wide
// numeric representation into float64. Maps and slices are normalized in
// place shape-wise; scalars pass through ToFloat only when they are numeric.
func NormalizeTree(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = NormalizeTree(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = NormalizeTree(val)
		}
		return out
	case pgtype.Numeric, *big.Int, json.Number, int, int32, int64, uint64, float32:
		return ToFloat(t)
	default:
		return v
	}
}
