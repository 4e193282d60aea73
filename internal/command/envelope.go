// Package command exposes the connector commands over HTTP and shapes
// every outcome into the uniform response envelope the workflow engine
// expects.
package command

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// commandResponseVersion identifies the envelope format.
const commandResponseVersion = 2

// CommandResponse is the business payload inside the envelope. HTTPStatus
// is a string ("200"/"500") carrying the business outcome; the transport
// status is always 200.
type CommandResponse struct {
	Body       any    `json:"body"`
	Mimetype   string `json:"mimetype"`
	HTTPStatus string `json:"http_status"`
}

// Envelope is the uniform wrapper returned by every command.
type Envelope struct {
	CommandResponse        CommandResponse `json:"command_response"`
	CommandResponseVersion int             `json:"command_response_version"`
	Error                  *string         `json:"error"`
	Logs                   []string        `json:"spiff__logs"`
}

// successEnvelope wraps a successful command body.
func successEnvelope(body any) Envelope {
	return Envelope{
		CommandResponse: CommandResponse{
			Body:       body,
			Mimetype:   "application/json",
			HTTPStatus: "200",
		},
		CommandResponseVersion: commandResponseVersion,
		Logs:                   []string{},
	}
}

// errorEnvelope is the single error-to-envelope adapter: whatever failed,
// the body is the literal string "error", the business status is "500",
// and the error field carries a JSON-stringified {"error": message}.
func errorEnvelope(err error) Envelope {
	msg, marshalErr := json.Marshal(map[string]string{"error": err.Error()})
	if marshalErr != nil {
		msg = []byte(`{"error":"unserializable error"}`)
	}
	errStr := string(msg)
	return Envelope{
		CommandResponse: CommandResponse{
			Body:       "error",
			Mimetype:   "application/json",
			HTTPStatus: "500",
		},
		CommandResponseVersion: commandResponseVersion,
		Error:                  &errStr,
		Logs:                   []string{},
	}
}

// writeEnvelope serializes the envelope with transport status 200. Callers
// must honor the http_status field inside the envelope, not the transport
// status.
func writeEnvelope(w http.ResponseWriter, logger *slog.Logger, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		logger.Error("encoding response envelope", slog.String("error", err.Error()))
	}
}
