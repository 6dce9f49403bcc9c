package poller

// verdicts is the closed verdict vocabulary mapped to human-readable text.
// A raw status outside this map is a validation failure, never a silent
// pass-through.
var verdicts = map[string]string{
	"pending":  "🔎 The submission was taken for review.",
	"accepted": "✅ Review finished: the reviewer liked everything. Hooray!",
	"rejected": "⚠️ Review finished: the reviewer left remarks.",
}

// VerdictText returns the human-readable text for a mapped status,
// or an empty string if the status is not in the vocabulary.
func VerdictText(status string) string {
	return verdicts[status]
}

// KnownStatus reports whether raw is part of the verdict vocabulary.
func KnownStatus(raw string) bool {
	_, ok := verdicts[raw]
	return ok
}

// Change describes a detected status change worth notifying about.
type Change struct {
	// Name is the homework's display name.
	Name string

	// Status is the newly observed verdict value.
	Status string

	// Verdict is the human-readable verdict text.
	Verdict string
}

// Detect inspects the newest record and decides whether its status differs
// from the last observed one.
//
// Only the first (newest) record is ever inspected per cycle; older
// unacknowledged changes are not queued or replayed. This system reports
// current state, not a change log.
//
// Returns (nil, nil) when the mapped status equals observed. Fails with
// [KindUnknownStatus] for a raw status outside the verdict vocabulary and
// with [KindIncompleteRecord] for a record without an identifying name.
func Detect(records []Record, observed string) (*Change, error) {
	rec := records[0]

	verdict, ok := verdicts[rec.RawStatus]
	if !ok {
		return nil, newError(KindUnknownStatus, "undocumented status %q for homework %q", rec.RawStatus, rec.Name)
	}

	if rec.Name == "" {
		return nil, newError(KindIncompleteRecord, "record %s has no homework_name", rec.ID)
	}

	if rec.RawStatus == observed {
		return nil, nil
	}

	return &Change{Name: rec.Name, Status: rec.RawStatus, Verdict: verdict}, nil
}
