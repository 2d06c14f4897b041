package handler

import "encoding/json"

// toMap round-trips v through JSON so every tool result, whatever struct
// shape it was built as, renders as the plain map the RPC transport
// pretty-prints into the `content` text block.
func toMap(v interface{}) map[string]interface{} {
	raw, err := json.Marshal(v)
	if err != nil {
		return map[string]interface{}{"error": "failed to encode result: " + err.Error()}
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return map[string]interface{}{"error": "failed to decode result: " + err.Error()}
	}
	return out
}
