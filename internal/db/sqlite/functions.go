package sqlite

import (
	"database/sql/driver"
	"strconv"
	"strings"
	"sync"

	"modernc.org/sqlite"

	"github.com/kailas-cloud/fuzzdex/internal/trgm"
)

var registerOnce sync.Once

// registerFunctions installs the trigram primitives and casefold into the
// driver. SQLite ships without pg_trgm, so similarity and word_similarity
// come from the in-process implementation and rendered queries stay
// identical across backends. Registration is driver-global and runs once
// per process.
func registerFunctions() {
	registerOnce.Do(func() {
		sqlite.MustRegisterDeterministicScalarFunction("similarity", 2,
			func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
				a, aok := text(args[0])
				b, bok := text(args[1])
				if !aok || !bok {
					return nil, nil
				}
				return trgm.Similarity(a, b), nil
			})

		sqlite.MustRegisterDeterministicScalarFunction("word_similarity", 2,
			func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
				needle, nok := text(args[0])
				haystack, hok := text(args[1])
				if !nok || !hok {
					return nil, nil
				}
				return trgm.WordSimilarity(needle, haystack), nil
			})

		// SQLite's built-in lower() folds ASCII only. casefold applies the
		// full Unicode mapping so containment agrees with term normalization.
		sqlite.MustRegisterDeterministicScalarFunction("casefold", 1,
			func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
				s, ok := text(args[0])
				if !ok {
					return nil, nil
				}
				return strings.ToLower(s), nil
			})
	})
}

// text coerces a driver value to text. Numeric column values compare by
// their decimal rendering, matching SQLite's CAST to TEXT; nil stays nil
// so the functions are null-propagating like their Postgres originals.
func text(v driver.Value) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case []byte:
		return string(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), true
	default:
		return "", false
	}
}
