package aws

import "encoding/json"

// snsEnvelope is the wrapper SNS puts around messages it delivers to an SQS
// subscription. Payloads published straight to a queue arrive bare, so
// unwrapping has to be best-effort.
type snsEnvelope struct {
	Type    string `json:"Type"`
	Message string `json:"Message"`
}

// unwrapNotification strips the SNS delivery envelope when present and
// returns the inner payload; anything else passes through untouched.
func unwrapNotification(body []byte) []byte {
	var env snsEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return body
	}
	if env.Type != "Notification" || env.Message == "" {
		return body
	}
	return []byte(env.Message)
}
