package onboarding

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const recordVersion = 1

var ErrUnsupportedVersion = errors.New("unsupported onboarding record version")

// recordDoc is the persisted shape. It has no field for the voice greeting,
// so the artifact cannot round-trip through storage.
type recordDoc struct {
	Version             int        `json:"version"`
	Aesthetic           *Aesthetic `json:"aesthetic"`
	Intent              *Intent    `json:"intent"`
	OnboardingCompleted bool       `json:"onboardingCompleted"`
	FirstVisit          *time.Time `json:"firstVisit"`
	ScreenIndex         int        `json:"screenIndex"`
}

// EncodeRecord serializes the durable part of a record.
func EncodeRecord(r Record, screenIndex int) ([]byte, error) {
	doc := recordDoc{
		Version:             recordVersion,
		OnboardingCompleted: r.OnboardingCompleted,
		ScreenIndex:         screenIndex,
	}
	if r.Aesthetic != "" {
		a := r.Aesthetic
		doc.Aesthetic = &a
	}
	if r.Intent != "" {
		i := r.Intent
		doc.Intent = &i
	}
	if r.FirstVisit != nil {
		fv := r.FirstVisit.UTC()
		doc.FirstVisit = &fv
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode onboarding record: %w", err)
	}
	return data, nil
}

// DecodeRecord parses a persisted record. Unknown enum values decode as
// unset; the voice greeting is always nil.
func DecodeRecord(data []byte) (Record, int, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Record{}, 0, fmt.Errorf("decode onboarding record: empty payload")
	}

	var doc recordDoc
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return Record{}, 0, fmt.Errorf("decode onboarding record: %w", err)
	}
	// Documents written before versioning carry no version field.
	if doc.Version == 0 {
		doc.Version = recordVersion
	}
	if doc.Version != recordVersion {
		return Record{}, 0, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}

	r := Record{OnboardingCompleted: doc.OnboardingCompleted}
	if doc.Aesthetic != nil && doc.Aesthetic.Valid() {
		r.Aesthetic = *doc.Aesthetic
	}
	if doc.Intent != nil && doc.Intent.Valid() {
		r.Intent = *doc.Intent
	}
	if doc.FirstVisit != nil && !doc.FirstVisit.IsZero() {
		fv := *doc.FirstVisit
		r.FirstVisit = &fv
	}
	return r, doc.ScreenIndex, nil
}
