package poller

import "encoding/json"

// Record is a single homework entry from a validated payload.
//
// Record is immutable once constructed; RawStatus holds the remote's
// status string before verdict mapping.
type Record struct {
	ID        json.Number `json:"id"`
	Name      string      `json:"homework_name"`
	RawStatus string      `json:"status"`
}

// Validated is the outcome of validating one API payload.
//
// An empty Records slice is a legitimate "nothing new this cycle" result,
// distinct from a validation failure.
type Validated struct {
	// Records holds the homework entries, newest first.
	Records []Record

	// Cursor is the server-reported current timestamp; the loop advances
	// its own cursor to this value after a fully successful cycle.
	Cursor int64
}

// Empty reports whether the payload contained no records.
func (v *Validated) Empty() bool {
	return len(v.Records) == 0
}

// Validate checks the structural shape of a raw API payload.
//
// The payload must be a JSON object with a "homeworks" array and an
// integer "current_date". Shape violations return [KindMalformedPayload];
// a missing or non-integer current date returns [KindCursorMissing]
// because the loop cannot safely advance without it. An empty homeworks
// array is not an error.
func Validate(body []byte) (*Validated, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, wrapError(KindMalformedPayload, err, "response is not a JSON object")
	}

	rawRecords, ok := top["homeworks"]
	if !ok {
		return nil, newError(KindMalformedPayload, `response has no "homeworks" field`)
	}

	var records []Record
	if err := json.Unmarshal(rawRecords, &records); err != nil {
		return nil, wrapError(KindMalformedPayload, err, `"homeworks" is not a list of records`)
	}

	rawCursor, ok := top["current_date"]
	if !ok {
		return nil, newError(KindCursorMissing, `response has no "current_date" field`)
	}

	var cursor int64
	if err := json.Unmarshal(rawCursor, &cursor); err != nil {
		return nil, wrapError(KindCursorMissing, err, `"current_date" is not an integer timestamp`)
	}

	return &Validated{Records: records, Cursor: cursor}, nil
}
