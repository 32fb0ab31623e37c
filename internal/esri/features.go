package esri

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// FeatureSet is the feature list shape shared by the attribute and spatial
// query endpoints. ArcGIS reports request-level failures as HTTP 200 with an
// error object in the body, so that is part of the shape too.
type FeatureSet struct {
	Features []Feature     `json:"features"`
	Error    *ServiceError `json:"error,omitempty"`
}

type Feature struct {
	Attributes map[string]any `json:"attributes"`
}

// ServiceError is the in-body error object of the ArcGIS REST API.
type ServiceError struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("service error %d: %s", e.Code, e.Message)
}

// DecodeFeatureSet parses a query response body. A decoded error object is
// returned as the error, so callers handle transport and in-body failures
// the same way.
func DecodeFeatureSet(body []byte) (FeatureSet, error) {
	var fs FeatureSet
	if err := json.Unmarshal(body, &fs); err != nil {
		return FeatureSet{}, fmt.Errorf("decode feature set: %w", err)
	}
	if fs.Error != nil {
		return FeatureSet{}, fs.Error
	}
	return fs, nil
}

// AttributeString normalizes an attribute value to its string form. Services
// return sheet identifiers as strings and object ids as numbers; both are
// accepted.
func AttributeString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case json.Number:
		return t.String(), true
	case int64:
		return strconv.FormatInt(t, 10), true
	default:
		return "", false
	}
}

// AttributeInt64 reads a numeric attribute such as an object id.
func AttributeInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case float64:
		return int64(t), true
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return 0, false
		}
		return n, true
	case int64:
		return t, true
	default:
		return 0, false
	}
}
