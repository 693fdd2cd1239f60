package mongo

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

const redacted = "***"

// sensitiveFields hold personal data and never reach the logs verbatim.
var sensitiveFields = map[string]bool{
	"email":        true,
	"passwordHash": true,
}

// redactFilter returns a copy of filter safe for logging. Values under
// sensitive keys are masked at any depth, including inside $or/$and arrays.
func redactFilter(filter any) any {
	switch f := filter.(type) {
	case bson.M:
		out := make(bson.M, len(f))
		for k, v := range f {
			out[k] = redactValue(k, v)
		}
		return out
	case bson.D:
		out := make(bson.D, 0, len(f))
		for _, e := range f {
			out = append(out, bson.E{Key: e.Key, Value: redactValue(e.Key, e.Value)})
		}
		return out
	case bson.A:
		out := make(bson.A, 0, len(f))
		for _, v := range f {
			out = append(out, redactFilter(v))
		}
		return out
	case []any:
		out := make([]any, 0, len(f))
		for _, v := range f {
			out = append(out, redactFilter(v))
		}
		return out
	default:
		return filter
	}
}

func redactValue(key string, v any) any {
	if sensitiveFields[key] {
		return redacted
	}
	return redactFilter(v)
}
