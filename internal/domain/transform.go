package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// ParseRawEvent deserializes a source message into an AIS record and checks
// its structural invariants. Geometry fields absent from the payload stay NaN.
func ParseRawEvent(raw RawEvent) (AISRecord, error) {
	rec := AISRecord{VesselGeometry: UnknownGeometry()}
	if err := json.Unmarshal(raw.Value, &rec); err != nil {
		return AISRecord{}, fmt.Errorf("parse raw event: %w", err)
	}
	if err := rec.Validate(); err != nil {
		return AISRecord{}, err
	}
	return rec, nil
}

// RecordKey is the message key of an enriched record: "<mmsi>-<t>".
func RecordKey(r AISRecord) string {
	return strconv.FormatInt(r.SourceMMSI, 10) + "-" + strconv.FormatInt(r.T, 10)
}

// SerializeEnriched marshals an enriched record for the sink topic. Headers
// carry the vessel MMSI, the run that produced it and the processing time.
func SerializeEnriched(rec EnrichedRecord, runID string) (OutputEvent, error) {
	data, err := json.Marshal(rec.Row())
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize enriched record: %w", err)
	}
	return OutputEvent{
		Key:   []byte(RecordKey(rec.AISRecord)),
		Value: data,
		Headers: map[string]string{
			"sourcemmsi":   strconv.FormatInt(rec.SourceMMSI, 10),
			"run_id":       runID,
			"processed_at": clock.Now().UTC().Format(time.RFC3339),
		},
	}, nil
}
