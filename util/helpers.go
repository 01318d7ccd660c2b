package util

import (
	"fmt"
	"sort"
)

func GetStringField(m map[string]interface{}, key string) (string, error) {
	val, ok := m[key]
	if !ok {
		return "", fmt.Errorf("missing key: %s", key)
	}
	str, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("key %s is not a string", key)
	}
	return str, nil
}

// StringFieldOr returns the string stored under key, or fallback when the key is
// missing or holds something other than a string.
func StringFieldOr(m map[string]interface{}, key string, fallback string) string {
	str, err := GetStringField(m, key)
	if err != nil {
		return fallback
	}
	return str
}

// IsTrue reports whether key holds the boolean true. Strings like "true" and
// numbers do not count.
func IsTrue(m map[string]interface{}, key string) bool {
	val, ok := m[key].(bool)
	return ok && val
}

// CollectRisks drains the pass results, restores persona order and concatenates the
// risks of every pass that finished without an error.
func CollectRisks(resultsChan <-chan PassResult) ([]map[string]interface{}, []PassResult) {
	var results []PassResult
	for result := range resultsChan {
		results = append(results, result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Index < results[j].Index
	})

	risks := make([]map[string]interface{}, 0)
	for _, result := range results {
		// Failed passes stay in the breakdown but contribute nothing
		if result.Err == nil {
			risks = append(risks, result.Risks...)
		}
	}
	return risks, results
}
