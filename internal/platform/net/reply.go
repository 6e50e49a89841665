package net

import (
	"encoding/json"
	"net/http"

	perr "querygate/internal/platform/errors"
)

// StatusOK is the only value the envelope status field ever carries
const StatusOK = "ok"

// Message is one entry of the envelope error list
type Message struct {
	Message string `json:"message"`
}

// Envelope is the single wire shape every gateway response uses
// Errors is never nil so it always encodes as a list
type Envelope struct {
	Data    any       `json:"data,omitempty"`
	Errors  []Message `json:"errors"`
	BizCode int       `json:"biz_code"`
	Status  string    `json:"status"`
}

// Reply builds an envelope carrying data, the given messages and bizCode
// data that is nil or a raw JSON null is dropped from the wire
func Reply(bizCode int, data any, messages ...string) Envelope {
	errs := make([]Message, 0, len(messages))
	for _, m := range messages {
		errs = append(errs, Message{Message: m})
	}
	return Envelope{
		Data:    dropNull(data),
		Errors:  errs,
		BizCode: bizCode,
		Status:  StatusOK,
	}
}

// OK builds a 200 envelope around data
func OK(data any) Envelope { return Reply(http.StatusOK, data) }

// Fail builds an envelope with a single message and no data
func Fail(bizCode int, message string) Envelope { return Reply(bizCode, nil, message) }

// Error builds an envelope for err, biz_code follows the perr HTTP mapping
func Error(err error) (int, Envelope) {
	if err == nil {
		return http.StatusOK, OK(nil)
	}
	status := perr.HTTPStatus(err)
	return status, Fail(status, perr.MessageOf(err))
}

// Messages returns the plain error strings of e
func (e Envelope) Messages() []string {
	out := make([]string, len(e.Errors))
	for i, m := range e.Errors {
		out[i] = m.Message
	}
	return out
}

func dropNull(data any) any {
	switch v := data.(type) {
	case nil:
		return nil
	case json.RawMessage:
		if len(v) == 0 || string(v) == "null" {
			return nil
		}
	}
	return data
}
