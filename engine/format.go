package engine

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// normalizeValue maps driver values onto the small set of Go types the rest
// of the code handles: int64, float64, bool, string, time.Time, nil, plus
// whatever nested LIST/STRUCT/MAP values the driver returns.
func normalizeValue(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case int:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		if x <= math.MaxInt64 {
			return int64(x)
		}
		return strconv.FormatUint(x, 10)
	case float32:
		return finite(float64(x))
	case float64:
		return finite(x)
	case *big.Int: // HUGEINT, e.g. SUM over BIGINT
		if x == nil {
			return nil
		}
		if x.IsInt64() {
			return x.Int64()
		}
		return x.String()
	case []byte:
		return string(x)
	case interface{ Float64() float64 }: // duckdb.Decimal
		return x.Float64()
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalizeValue(e)
		}
		return out
	case map[string]any: // STRUCT
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = normalizeValue(e)
		}
		return out
	}
	return v
}

// normalizeColumn is normalizeValue with the column's engine type name at
// hand. UUID columns arrive as 16 raw bytes and are rendered canonically.
func normalizeColumn(v any, typeName string) any {
	if typeName == "UUID" {
		switch x := v.(type) {
		case []byte:
			if id, err := uuid.FromBytes(x); err == nil {
				return id.String()
			}
		case [16]byte:
			return uuid.UUID(x).String()
		}
	}
	return normalizeValue(v)
}

// finite keeps v as a number unless it is NaN or infinite, which JSON
// cannot carry; those become "NaN", "Infinity" or "-Infinity".
func finite(v float64) any {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	return v
}

// FormatValue renders one cell for text output. NULL is the empty string.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		h, m, s := x.Clock()
		if h == 0 && m == 0 && s == 0 && x.Nanosecond() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format("2006-01-02 15:04:05")
	}
	return fmt.Sprint(v)
}
