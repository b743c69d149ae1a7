package source

import (
	"strconv"
	"strings"

	"github.com/courtdata/statpipe/internal/domain/dataset"
)

// Transform computes one canonical cell from a whole raw record. Returning
// ok=false means the source data could not be interpreted; the normalizer
// records a coercion failure and writes a typed null.
type Transform func(raw RawRecord) (dataset.Value, bool)

// Rule resolves one canonical column. Exactly one field should be set;
// when several are, Const wins over Transform wins over SourceKey.
type Rule struct {
	// SourceKey copies the named raw key's value, coerced to the column type.
	SourceKey string
	// Const pins the column to a fixed value, e.g. league or season metadata.
	Const *dataset.Value
	// Transform derives the column from the raw record.
	Transform Transform
}

// FieldMap is a per-(source, kind) declarative mapping from canonical column
// name to the rule that resolves it. All source-specific knowledge lives in
// these maps; the normalizer itself never branches on source identity.
type FieldMap map[string]Rule

// Key builds a rule that copies a raw key.
func Key(sourceKey string) Rule { return Rule{SourceKey: sourceKey} }

// Const builds a rule that pins a constant value.
func Const(v dataset.Value) Rule { return Rule{Const: &v} }

// Derived builds a rule backed by a transform.
func Derived(fn Transform) Rule { return Rule{Transform: fn} }

// ReferencedKeys returns the set of raw keys any rule reads directly. Raw
// keys outside this set are dropped by normalization and counted as such.
func (m FieldMap) ReferencedKeys() map[string]struct{} {
	out := make(map[string]struct{}, len(m))
	for _, rule := range m {
		if rule.SourceKey != "" {
			out[rule.SourceKey] = struct{}{}
		}
	}
	return out
}

// SplitFraction parses "made/attempt" strings such as "5/10". Part selects
// the made (0) or attempt (1) side. A common shape in scraped box scores.
func SplitFraction(sourceKey string, part int) Transform {
	return func(raw RawRecord) (dataset.Value, bool) {
		text, ok := raw[sourceKey].(string)
		if !ok {
			return dataset.Value{}, false
		}
		pieces := strings.Split(strings.TrimSpace(text), "/")
		if len(pieces) != 2 || part < 0 || part > 1 {
			return dataset.Value{}, false
		}
		n, err := strconv.ParseInt(strings.TrimSpace(pieces[part]), 10, 64)
		if err != nil {
			return dataset.Value{}, false
		}
		return dataset.Int(n), true
	}
}
