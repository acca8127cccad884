package types

// SuccessEnvelope wraps every JSON success body except admin acks.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// Ack is the bare acknowledgement returned by admin mutations.
type Ack struct {
	Success bool `json:"success"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
