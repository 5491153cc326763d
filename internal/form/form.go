// Package form holds the data-driven schema behind the datastore editor:
// field descriptors, mode-dependent constraints, client-side validation
// and payload building for insert/replace requests.
package form

import (
	"errors"
	"fmt"
	"strconv"
)

// Mode selects between creating a new record and editing an existing one.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

// Kind describes how a field's value is parsed and rendered.
type Kind int

const (
	KindText Kind = iota
	KindPath
	KindSchedule
	// KindCount is a positive integer retention counter.
	KindCount
)

// Field describes one editable property of the backing record.
type Field struct {
	Name  string
	Label string
	Kind  Kind

	// CreateOnly fields are fixed once the record exists: editable and
	// required in create mode, read-only afterwards.
	CreateOnly bool

	// DeleteOnEmpty fields that are cleared during an edit must be
	// reported to the server as deletions, not silently omitted.
	DeleteOnEmpty bool
}

// Constraint is the per-mode rendering/validation contract of a field.
type Constraint struct {
	Editable bool
	Required bool
}

// ConstraintFor computes the field's constraint for the given mode.
func (f Field) ConstraintFor(mode Mode) Constraint {
	if f.CreateOnly {
		return Constraint{
			Editable: mode == ModeCreate,
			Required: mode == ModeCreate,
		}
	}
	return Constraint{Editable: true}
}

// Schema is an ordered list of field descriptors.
type Schema []Field

// Datastore is the editor schema for the backend's datastore
// configuration record.
func Datastore() Schema {
	return Schema{
		{Name: "name", Label: "Name", Kind: KindText, CreateOnly: true},
		{Name: "path", Label: "Backing Path", Kind: KindPath, CreateOnly: true},
		{Name: "gc-schedule", Label: "GC Schedule", Kind: KindSchedule, DeleteOnEmpty: true},
		{Name: "prune-schedule", Label: "Prune Schedule", Kind: KindSchedule, DeleteOnEmpty: true},
		{Name: "verify-schedule", Label: "Verify Schedule", Kind: KindSchedule, DeleteOnEmpty: true},
		{Name: "comment", Label: "Comment", Kind: KindText, DeleteOnEmpty: true},
		{Name: "keep-last", Label: "Keep Last", Kind: KindCount, DeleteOnEmpty: true},
		{Name: "keep-hourly", Label: "Keep Hourly", Kind: KindCount, DeleteOnEmpty: true},
		{Name: "keep-daily", Label: "Keep Daily", Kind: KindCount, DeleteOnEmpty: true},
		{Name: "keep-weekly", Label: "Keep Weekly", Kind: KindCount, DeleteOnEmpty: true},
		{Name: "keep-monthly", Label: "Keep Monthly", Kind: KindCount, DeleteOnEmpty: true},
		{Name: "keep-yearly", Label: "Keep Yearly", Kind: KindCount, DeleteOnEmpty: true},
	}
}

// Field looks a descriptor up by wire name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// FocusField names the field that receives initial focus: the record
// identity when creating, the comment when editing (identity fields are
// read-only there).
func (s Schema) FocusField(mode Mode) string {
	if mode == ModeEdit {
		return "comment"
	}
	for _, f := range s {
		if f.ConstraintFor(mode).Editable {
			return f.Name
		}
	}
	return ""
}

// Validate checks submitted values against the schema for the given
// mode. Missing optional values are fine; counters must parse as
// integers >= 1 when present. All field errors are reported together.
func (s Schema) Validate(mode Mode, values map[string]string) error {
	var errs []error

	for _, f := range s {
		c := f.ConstraintFor(mode)
		value := values[f.Name]

		if value == "" {
			if c.Required {
				errs = append(errs, fmt.Errorf("%s: value is required", f.Name))
			}
			continue
		}
		if f.Kind != KindCount {
			continue
		}
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %q is not a valid number", f.Name, value))
			continue
		}
		if n < 1 {
			errs = append(errs, fmt.Errorf("%s: value must be at least 1", f.Name))
		}
	}

	return errors.Join(errs...)
}

// Insert builds a create payload. Empty optional fields are simply left
// out. Validate must have passed first; counter values that no longer
// parse are dropped rather than guessed at.
func (s Schema) Insert(values map[string]string) map[string]any {
	payload := make(map[string]any)

	for _, f := range s {
		value := values[f.Name]
		if value == "" {
			continue
		}
		if v, ok := f.wireValue(value); ok {
			payload[f.Name] = v
		}
	}

	return payload
}

// Replace builds an update payload against the previously stored
// values. Read-only fields never travel. A field cleared by the user
// that had a value before is returned in deletes, signalling removal to
// the server rather than "no change".
func (s Schema) Replace(values, previous map[string]string) (map[string]any, []string) {
	payload := make(map[string]any)
	var deletes []string

	for _, f := range s {
		if !f.ConstraintFor(ModeEdit).Editable {
			continue
		}

		value := values[f.Name]
		if value == "" {
			if f.DeleteOnEmpty && previous[f.Name] != "" {
				deletes = append(deletes, f.Name)
			}
			continue
		}
		if v, ok := f.wireValue(value); ok {
			payload[f.Name] = v
		}
	}

	return payload, deletes
}

func (f Field) wireValue(value string) (any, bool) {
	if f.Kind != KindCount {
		return value, true
	}
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return nil, false
	}
	return n, true
}
