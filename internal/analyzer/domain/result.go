package domain

import (
	"encoding/json"
	"fmt"
)

// Names of the configured analyzers. Each contributes exactly one entry
// to the result document of a scan.
const (
	AnalyzerBandit   = "bandit"
	AnalyzerSemgrep  = "semgrep"
	AnalyzerPipAudit = "pip_audit"
	AnalyzerPylint   = "pylint"
)

// Result is the outcome of a single analyzer run. Exactly one of Payload
// or Err is set; an analyzer failure is data, never a Go error.
type Result struct {
	Payload json.RawMessage
	Err     string
}

func OK(payload json.RawMessage) Result {
	return Result{Payload: payload}
}

func Errf(format string, args ...interface{}) Result {
	return Result{Err: fmt.Sprintf(format, args...)}
}

func (r Result) Failed() bool {
	return r.Err != ""
}

// MarshalJSON serializes the result as {"ok": <payload>} or
// {"error": "<reason>"}.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Failed() {
		return json.Marshal(map[string]string{"error": r.Err})
	}
	payload := r.Payload
	if len(payload) == 0 {
		payload = json.RawMessage("null")
	}
	return json.Marshal(map[string]json.RawMessage{"ok": payload})
}

func (r *Result) UnmarshalJSON(data []byte) error {
	var envelope struct {
		OK    json.RawMessage `json:"ok"`
		Error *string         `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}

	if envelope.Error != nil {
		*r = Result{Err: *envelope.Error}
		return nil
	}

	*r = Result{Payload: envelope.OK}
	return nil
}

// Document maps analyzer name to its result for one scan. It is stored
// verbatim as the job's result column on completion.
type Document map[string]Result
