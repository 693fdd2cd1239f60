package mongo

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const updatedAtField = "updatedAt"

// withUpdatedAt returns a copy of update whose $set also writes updatedAt.
// update must be an operator document (bson.M or bson.D); replacement
// documents are rejected so system fields cannot be dropped by accident.
// When an operator other than $set already names updatedAt (for example
// $currentDate), the caller owns the field and update is left as is.
func withUpdatedAt(update any, now time.Time) (any, error) {
	switch u := update.(type) {
	case bson.M:
		if err := requireOperators(keysOfM(u)); err != nil {
			return nil, err
		}
		for op, v := range u {
			if op != "$set" && namesUpdatedAt(v) {
				return u, nil
			}
		}
		out := maps.Clone(u)
		set, err := mergeSet(u["$set"], now)
		if err != nil {
			return nil, err
		}
		out["$set"] = set
		return out, nil

	case bson.D:
		keys := make([]string, 0, len(u))
		for _, e := range u {
			keys = append(keys, e.Key)
		}
		if err := requireOperators(keys); err != nil {
			return nil, err
		}
		for _, e := range u {
			if e.Key != "$set" && namesUpdatedAt(e.Value) {
				return u, nil
			}
		}
		out := make(bson.D, 0, len(u)+1)
		merged := false
		for _, e := range u {
			if e.Key == "$set" {
				set, err := mergeSet(e.Value, now)
				if err != nil {
					return nil, err
				}
				e.Value = set
				merged = true
			}
			out = append(out, e)
		}
		if !merged {
			out = append(out, bson.E{Key: "$set", Value: bson.M{updatedAtField: now}})
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unsupported update type %T", update)
	}
}

func mergeSet(set any, now time.Time) (any, error) {
	switch s := set.(type) {
	case nil:
		return bson.M{updatedAtField: now}, nil
	case bson.M:
		out := maps.Clone(s)
		out[updatedAtField] = now
		return out, nil
	case bson.D:
		out := make(bson.D, 0, len(s)+1)
		for _, e := range s {
			if e.Key != updatedAtField {
				out = append(out, e)
			}
		}
		return append(out, bson.E{Key: updatedAtField, Value: now}), nil
	default:
		return nil, fmt.Errorf("unsupported $set type %T", set)
	}
}

func namesUpdatedAt(fields any) bool {
	switch f := fields.(type) {
	case bson.M:
		_, ok := f[updatedAtField]
		return ok
	case bson.D:
		for _, e := range f {
			if e.Key == updatedAtField {
				return true
			}
		}
	}
	return false
}

func requireOperators(keys []string) error {
	if len(keys) == 0 {
		return fmt.Errorf("empty update document")
	}
	for _, k := range keys {
		if !strings.HasPrefix(k, "$") {
			return fmt.Errorf("update key %q is not an operator", k)
		}
	}
	return nil
}

func keysOfM(m bson.M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
