package entities

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidPrice     = errors.New("price must be a positive decimal")
	ErrInvalidDate      = errors.New("date must use the YYYY-MM-DD layout")
	ErrInvalidTime      = errors.New("time must use the HH:MM layout")
	ErrUnknownTermField = errors.New("unknown term field")
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// TermField names one negotiable attribute. The values double as history
// entry field names and persistence attribute names.
type TermField string

const (
	TermPrice     TermField = "price"
	TermDate      TermField = "date"
	TermTime      TermField = "time"
	TermMaterials TermField = "materials"
	TermScope     TermField = "scope"
)

// TermFields is the canonical field order. Diffs and history entries produced
// by one edit follow it.
var TermFields = []TermField{TermPrice, TermDate, TermTime, TermMaterials, TermScope}

// NegotiationTerms is one proposal. A nil field means "not yet proposed" on a
// current-terms value and "leave unchanged" on a partial edit.
//
// Values are treated as immutable: Merge and With always return a fresh value
// and never share pointers with their inputs.
type NegotiationTerms struct {
	Price     *decimal.Decimal `json:"price,omitempty"`
	Date      *string          `json:"date,omitempty"`
	Time      *string          `json:"time,omitempty"`
	Materials *string          `json:"materials,omitempty"`
	Scope     *string          `json:"scope,omitempty"`
}

// FieldChange is one field-level difference between two terms values, in
// canonical string form.
type FieldChange struct {
	Field    TermField
	OldValue *string
	NewValue *string
}

func (t NegotiationTerms) IsEmpty() bool {
	return t.Price == nil && t.Date == nil && t.Time == nil && t.Materials == nil && t.Scope == nil
}

// Normalized validates every provided field and returns a copy with date and
// time rewritten to their canonical layouts.
func (t NegotiationTerms) Normalized() (NegotiationTerms, error) {
	out := NegotiationTerms{}
	for _, f := range TermFields {
		v, err := canonical(f, t.rawValue(f))
		if err != nil {
			return NegotiationTerms{}, err
		}
		out, err = out.With(f, v)
		if err != nil {
			return NegotiationTerms{}, err
		}
	}
	return out, nil
}

// Value returns the canonical string form of field f, or nil when unset.
func (t NegotiationTerms) Value(f TermField) *string {
	v, _ := canonical(f, t.rawValue(f))
	return v
}

// With returns a copy of t with field f set from its canonical string form.
// A nil value unsets the field.
func (t NegotiationTerms) With(f TermField, v *string) (NegotiationTerms, error) {
	out := t.Clone()
	switch f {
	case TermPrice:
		if v == nil {
			out.Price = nil
			return out, nil
		}
		d, err := decimal.NewFromString(*v)
		if err != nil || !d.IsPositive() {
			return NegotiationTerms{}, ErrInvalidPrice
		}
		out.Price = &d
	case TermDate:
		out.Date = cloneString(v)
	case TermTime:
		out.Time = cloneString(v)
	case TermMaterials:
		out.Materials = cloneString(v)
	case TermScope:
		out.Scope = cloneString(v)
	default:
		return NegotiationTerms{}, fmt.Errorf("%w: %q", ErrUnknownTermField, f)
	}
	return out, nil
}

// Merge overlays the provided fields of partial onto t and reports which
// fields actually changed. partial must already be normalized.
func (t NegotiationTerms) Merge(partial NegotiationTerms) (NegotiationTerms, []FieldChange) {
	out := t.Clone()
	var changes []FieldChange
	for _, f := range TermFields {
		proposed := partial.Value(f)
		if proposed == nil {
			continue
		}
		current := t.Value(f)
		if current != nil && *current == *proposed {
			continue
		}
		// proposed is canonical, so With cannot fail here.
		out, _ = out.With(f, proposed)
		changes = append(changes, FieldChange{Field: f, OldValue: current, NewValue: cloneString(proposed)})
	}
	return out, changes
}

func (t NegotiationTerms) Equal(other NegotiationTerms) bool {
	for _, f := range TermFields {
		a, b := t.Value(f), other.Value(f)
		if (a == nil) != (b == nil) {
			return false
		}
		if a != nil && *a != *b {
			return false
		}
	}
	return true
}

func (t NegotiationTerms) Clone() NegotiationTerms {
	out := NegotiationTerms{
		Date:      cloneString(t.Date),
		Time:      cloneString(t.Time),
		Materials: cloneString(t.Materials),
		Scope:     cloneString(t.Scope),
	}
	if t.Price != nil {
		p := *t.Price
		out.Price = &p
	}
	return out
}

func (t NegotiationTerms) rawValue(f TermField) *string {
	switch f {
	case TermPrice:
		if t.Price == nil {
			return nil
		}
		s := t.Price.String()
		return &s
	case TermDate:
		return t.Date
	case TermTime:
		return t.Time
	case TermMaterials:
		return t.Materials
	case TermScope:
		return t.Scope
	}
	return nil
}

func canonical(f TermField, v *string) (*string, error) {
	if v == nil {
		return nil, nil
	}
	switch f {
	case TermPrice:
		d, err := decimal.NewFromString(*v)
		if err != nil || !d.IsPositive() {
			return nil, ErrInvalidPrice
		}
		s := d.String()
		return &s, nil
	case TermDate:
		parsed, err := time.Parse(DateLayout, *v)
		if err != nil {
			return nil, ErrInvalidDate
		}
		s := parsed.Format(DateLayout)
		return &s, nil
	case TermTime:
		parsed, err := time.Parse(TimeLayout, *v)
		if err != nil {
			return nil, ErrInvalidTime
		}
		s := parsed.Format(TimeLayout)
		return &s, nil
	}
	return cloneString(v), nil
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	s := *v
	return &s
}
