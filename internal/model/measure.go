package model

import (
	"encoding/json"
	"fmt"
)

// Attribute is an attribute bucket item of an execution definition.
type Attribute struct {
	LocalIdentifier string
	DisplayForm     ObjRef
	Alias           string
}

// Measure is a measure bucket item of an execution definition.
type Measure struct {
	LocalIdentifier string
	Alias           string
	Format          string
	Definition      MeasureDefinition
}

// MeasureDefinition is a sealed interface over the ways a measure can be
// defined.
type MeasureDefinition interface {
	measureDefinition()
}

// SimpleMeasureDefinition computes a measure from a metadata object (a
// metric, fact or attribute). ComputeRatio marks show-in-% measures.
type SimpleMeasureDefinition struct {
	Item         ObjRef
	Aggregation  string
	ComputeRatio bool
	Filters      []json.RawMessage
}

func (SimpleMeasureDefinition) measureDefinition() {}

// PoPMeasureDefinition is a same-period-previous-year measure derived from
// the master measure MeasureIdentifier.
type PoPMeasureDefinition struct {
	MeasureIdentifier string
	PopAttribute      ObjRef
}

func (PoPMeasureDefinition) measureDefinition() {}

// PreviousPeriodDateDataSet shifts one date data set by PeriodsAgo.
type PreviousPeriodDateDataSet struct {
	DataSet    ObjRef
	PeriodsAgo int
}

// PreviousPeriodMeasureDefinition is a previous-period measure derived from
// the master measure MeasureIdentifier.
type PreviousPeriodMeasureDefinition struct {
	MeasureIdentifier string
	DateDataSets      []PreviousPeriodDateDataSet
}

func (PreviousPeriodMeasureDefinition) measureDefinition() {}

// ArithmeticMeasureDefinition combines other measures of the same
// execution, referenced by local identifier.
type ArithmeticMeasureDefinition struct {
	MeasureIdentifiers []string
	Operator           string
}

func (ArithmeticMeasureDefinition) measureDefinition() {}

// MasterLocalIdentifier returns the master of a derived measure.
func MasterLocalIdentifier(m Measure) (string, bool) {
	switch d := m.Definition.(type) {
	case PoPMeasureDefinition:
		return d.MeasureIdentifier, true
	case PreviousPeriodMeasureDefinition:
		return d.MeasureIdentifier, true
	default:
		return "", false
	}
}

// OperandLocalIdentifiers returns the operands of an arithmetic measure,
// or nil for any other definition.
func OperandLocalIdentifiers(m Measure) []string {
	if d, ok := m.Definition.(ArithmeticMeasureDefinition); ok {
		return d.MeasureIdentifiers
	}
	return nil
}

// IsArithmetic reports whether m is an arithmetic measure.
func IsArithmetic(m Measure) bool {
	_, ok := m.Definition.(ArithmeticMeasureDefinition)
	return ok
}

// IsDerived reports whether m is a PoP or previous-period measure.
func IsDerived(m Measure) bool {
	_, ok := MasterLocalIdentifier(m)
	return ok
}

// SimpleItem returns the item ref of a simple measure.
func SimpleItem(m Measure) (ObjRef, bool) {
	if d, ok := m.Definition.(SimpleMeasureDefinition); ok && d.Item != nil {
		return d.Item, true
	}
	return nil, false
}

// JSON wire forms.

type objRefJSON struct{ ref ObjRef }

func (o objRefJSON) MarshalJSON() ([]byte, error) { return MarshalObjRef(o.ref) }

func (o *objRefJSON) UnmarshalJSON(data []byte) error {
	ref, err := UnmarshalObjRef(data)
	if err != nil {
		return err
	}
	o.ref = ref
	return nil
}

type attributeJSON struct {
	LocalIdentifier string      `json:"localIdentifier"`
	DisplayForm     *objRefJSON `json:"displayForm"`
	Alias           string      `json:"alias,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (a Attribute) MarshalJSON() ([]byte, error) {
	return json.Marshal(attributeJSON{
		LocalIdentifier: a.LocalIdentifier,
		DisplayForm:     &objRefJSON{a.DisplayForm},
		Alias:           a.Alias,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Attribute) UnmarshalJSON(data []byte) error {
	var aux attributeJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("attribute: %w", err)
	}
	if aux.LocalIdentifier == "" {
		return fmt.Errorf("attribute: localIdentifier is required")
	}
	*a = Attribute{LocalIdentifier: aux.LocalIdentifier, Alias: aux.Alias}
	if aux.DisplayForm != nil {
		a.DisplayForm = aux.DisplayForm.ref
	}
	return nil
}

type measureJSON struct {
	LocalIdentifier string          `json:"localIdentifier"`
	Alias           string          `json:"alias,omitempty"`
	Format          string          `json:"format,omitempty"`
	Definition      json.RawMessage `json:"definition"`
}

type simpleDefJSON struct {
	Item         *objRefJSON       `json:"item"`
	Aggregation  string            `json:"aggregation,omitempty"`
	ComputeRatio bool              `json:"computeRatio,omitempty"`
	Filters      []json.RawMessage `json:"filters,omitempty"`
}

type popDefJSON struct {
	MeasureIdentifier string      `json:"measureIdentifier"`
	PopAttribute      *objRefJSON `json:"popAttribute"`
}

type dateDataSetJSON struct {
	DataSet    *objRefJSON `json:"dataSet"`
	PeriodsAgo int         `json:"periodsAgo"`
}

type previousPeriodDefJSON struct {
	MeasureIdentifier string            `json:"measureIdentifier"`
	DateDataSets      []dateDataSetJSON `json:"dateDataSets"`
}

type arithmeticDefJSON struct {
	MeasureIdentifiers []string `json:"measureIdentifiers"`
	Operator           string   `json:"operator"`
}

type definitionJSON struct {
	Simple         *simpleDefJSON         `json:"measureDefinition,omitempty"`
	PoP            *popDefJSON            `json:"popMeasureDefinition,omitempty"`
	PreviousPeriod *previousPeriodDefJSON `json:"previousPeriodMeasure,omitempty"`
	Arithmetic     *arithmeticDefJSON     `json:"arithmeticMeasure,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (m Measure) MarshalJSON() ([]byte, error) {
	def, err := marshalDefinition(m.Definition)
	if err != nil {
		return nil, fmt.Errorf("measure %q: %w", m.LocalIdentifier, err)
	}
	return json.Marshal(measureJSON{
		LocalIdentifier: m.LocalIdentifier,
		Alias:           m.Alias,
		Format:          m.Format,
		Definition:      def,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Measure) UnmarshalJSON(data []byte) error {
	var aux measureJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("measure: %w", err)
	}
	if aux.LocalIdentifier == "" {
		return fmt.Errorf("measure: localIdentifier is required")
	}
	def, err := unmarshalDefinition(aux.Definition)
	if err != nil {
		return fmt.Errorf("measure %q: %w", aux.LocalIdentifier, err)
	}
	*m = Measure{
		LocalIdentifier: aux.LocalIdentifier,
		Alias:           aux.Alias,
		Format:          aux.Format,
		Definition:      def,
	}
	return nil
}

func marshalDefinition(d MeasureDefinition) ([]byte, error) {
	var out definitionJSON
	switch v := d.(type) {
	case SimpleMeasureDefinition:
		out.Simple = &simpleDefJSON{
			Item:         &objRefJSON{v.Item},
			Aggregation:  v.Aggregation,
			ComputeRatio: v.ComputeRatio,
			Filters:      v.Filters,
		}
	case PoPMeasureDefinition:
		out.PoP = &popDefJSON{MeasureIdentifier: v.MeasureIdentifier, PopAttribute: &objRefJSON{v.PopAttribute}}
	case PreviousPeriodMeasureDefinition:
		sets := make([]dateDataSetJSON, len(v.DateDataSets))
		for i, ds := range v.DateDataSets {
			sets[i] = dateDataSetJSON{DataSet: &objRefJSON{ds.DataSet}, PeriodsAgo: ds.PeriodsAgo}
		}
		out.PreviousPeriod = &previousPeriodDefJSON{MeasureIdentifier: v.MeasureIdentifier, DateDataSets: sets}
	case ArithmeticMeasureDefinition:
		out.Arithmetic = &arithmeticDefJSON{MeasureIdentifiers: v.MeasureIdentifiers, Operator: v.Operator}
	default:
		return nil, fmt.Errorf("unknown measure definition type: %T", d)
	}
	return json.Marshal(out)
}

func unmarshalDefinition(data json.RawMessage) (MeasureDefinition, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("definition is required")
	}
	var aux definitionJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return nil, fmt.Errorf("definition: %w", err)
	}

	set := 0
	for _, present := range []bool{aux.Simple != nil, aux.PoP != nil, aux.PreviousPeriod != nil, aux.Arithmetic != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("definition: expected exactly one of measureDefinition, popMeasureDefinition, previousPeriodMeasure, arithmeticMeasure")
	}

	switch {
	case aux.Simple != nil:
		d := SimpleMeasureDefinition{
			Aggregation:  aux.Simple.Aggregation,
			ComputeRatio: aux.Simple.ComputeRatio,
			Filters:      aux.Simple.Filters,
		}
		if aux.Simple.Item != nil {
			d.Item = aux.Simple.Item.ref
		}
		return d, nil
	case aux.PoP != nil:
		d := PoPMeasureDefinition{MeasureIdentifier: aux.PoP.MeasureIdentifier}
		if aux.PoP.PopAttribute != nil {
			d.PopAttribute = aux.PoP.PopAttribute.ref
		}
		return d, nil
	case aux.PreviousPeriod != nil:
		d := PreviousPeriodMeasureDefinition{MeasureIdentifier: aux.PreviousPeriod.MeasureIdentifier}
		for _, ds := range aux.PreviousPeriod.DateDataSets {
			set := PreviousPeriodDateDataSet{PeriodsAgo: ds.PeriodsAgo}
			if ds.DataSet != nil {
				set.DataSet = ds.DataSet.ref
			}
			d.DateDataSets = append(d.DateDataSets, set)
		}
		return d, nil
	default:
		return ArithmeticMeasureDefinition{
			MeasureIdentifiers: aux.Arithmetic.MeasureIdentifiers,
			Operator:           aux.Arithmetic.Operator,
		}, nil
	}
}
