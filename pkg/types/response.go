package types

// ErrorEnvelope is the body of every non-2xx response.
type ErrorEnvelope struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

// MessageEnvelope is used by delete endpoints and the wishlist resource.
type MessageEnvelope struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

const MessageSuccess = "success"
