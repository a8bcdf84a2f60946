package testutil

import (
	"github.com/roach88/drillkit/internal/execution"
	"github.com/roach88/drillkit/internal/model"
)

// Workspace is the current workspace of the predicate fixture execution.
const Workspace = "testWorkspace"

const fixtureFormat = "#,##0.00"

// Local identifiers of the predicate fixture measures.
const (
	URIBasedMeasure                  = "uriBasedMeasureLocalIdentifier"
	IdentifierBasedMeasure           = "identifierBasedMeasureLocalIdentifier"
	URIBasedRatioMeasure             = "uriBasedRatioMeasureLocalIdentifier"
	IdentifierBasedRatioMeasure      = "identifierBasedRatioMeasureLocalIdentifier"
	URIBasedAdhocMeasure             = "uriBasedAdhocMeasureLocalIdentifier"
	IdentifierBasedAdhocMeasure      = "identifierBasedAdhocMeasureLocalIdentifier"
	URIBasedPPMeasure                = "uriBasedPPMeasureLocalIdentifier"
	IdentifierBasedPPMeasure         = "identifierBasedPPMeasureLocalIdentifier"
	URIBasedSPMeasure                = "uriBasedSPMeasureLocalIdentifier"
	IdentifierBasedSPMeasure         = "identifierBasedSPMeasureLocalIdentifier"
	URIBasedPPRatioMeasure           = "uriBasedPPRatioMeasureLocalIdentifier"
	IdentifierBasedPPRatioMeasure    = "identifierBasedPPRatioMeasureLocalIdentifier"
	URIBasedSPRatioMeasure           = "uriBasedSPRatioMeasureLocalIdentifier"
	IdentifierBasedSPRatioMeasure    = "identifierBasedSPRatioMeasureLocalIdentifier"
	ArithmeticMeasure                = "arithmeticMeasureLocalIdentifier"
	ArithmeticMeasureOf2ndOrder      = "arithmeticMeasureOf2ndOrderLocalIdentifier"
	URIBasedCompareArithmetic        = "uriBasedCompareArithmeticMeasureLocalIdentifier"
	IdentifierBasedCompareArithmetic = "identifierBasedCompareArithmeticMeasureLocalIdentifier"
	DerivedPPFromArithmeticMeasure   = "identifierComparePPDerivedFromAM"
	DerivedSPFromArithmeticMeasure   = "identifierCompareSPDerivedFromAM"
	AttributeLocalIdentifier         = "attributeLocalIdentifier"
)

func simple(localID string, item model.ObjRef, computeRatio bool, aggregation string) model.Measure {
	return model.Measure{
		LocalIdentifier: localID,
		Format:          fixtureFormat,
		Definition: model.SimpleMeasureDefinition{
			Item:         item,
			ComputeRatio: computeRatio,
			Aggregation:  aggregation,
		},
	}
}

func previousPeriod(localID, master string) model.Measure {
	return model.Measure{
		LocalIdentifier: localID,
		Definition: model.PreviousPeriodMeasureDefinition{
			MeasureIdentifier: master,
			DateDataSets: []model.PreviousPeriodDateDataSet{
				{DataSet: model.URIRef{URI: "/bar"}, PeriodsAgo: 1},
			},
		},
	}
}

func samePeriod(localID, master string) model.Measure {
	return model.Measure{
		LocalIdentifier: localID,
		Definition: model.PoPMeasureDefinition{
			MeasureIdentifier: master,
			PopAttribute:      model.URIRef{URI: "/foo"},
		},
	}
}

func arithmetic(localID string, operands ...string) model.Measure {
	return model.Measure{
		LocalIdentifier: localID,
		Definition: model.ArithmeticMeasureDefinition{
			MeasureIdentifiers: operands,
			Operator:           "sum",
		},
	}
}

// PredicateDefinition returns the execution definition covering every kind
// of measure the predicates distinguish: simple, show-in-%, ad-hoc from an
// attribute, PP/SP derived, arithmetic of first and second order and
// derived-from-arithmetic.
func PredicateDefinition() execution.Definition {
	return execution.Definition{
		Workspace: Workspace,
		Measures: []model.Measure{
			simple(URIBasedMeasure, model.URIRef{URI: "/uriBasedMeasureUri"}, false, ""),
			simple(IdentifierBasedMeasure, model.IdentifierRef{Identifier: "identifierBasedMeasureIdentifier"}, false, ""),
			simple(URIBasedRatioMeasure, model.URIRef{URI: "/uriBasedRatioMeasureUri"}, true, ""),
			simple(IdentifierBasedRatioMeasure, model.IdentifierRef{Identifier: "identifierBasedRatioMeasureIdentifier"}, true, ""),
			simple(URIBasedAdhocMeasure, model.URIRef{URI: "/attributeUri"}, false, "count"),
			simple(IdentifierBasedAdhocMeasure, model.IdentifierRef{Identifier: "attributeIdentifier"}, false, "count"),
			previousPeriod(URIBasedPPMeasure, URIBasedMeasure),
			previousPeriod(IdentifierBasedPPMeasure, IdentifierBasedMeasure),
			samePeriod(URIBasedSPMeasure, URIBasedMeasure),
			samePeriod(IdentifierBasedSPMeasure, IdentifierBasedMeasure),
			previousPeriod(URIBasedPPRatioMeasure, URIBasedRatioMeasure),
			previousPeriod(IdentifierBasedPPRatioMeasure, IdentifierBasedRatioMeasure),
			samePeriod(URIBasedSPRatioMeasure, URIBasedRatioMeasure),
			samePeriod(IdentifierBasedSPRatioMeasure, IdentifierBasedRatioMeasure),
			arithmetic(ArithmeticMeasure, URIBasedMeasure, IdentifierBasedMeasure),
			arithmetic(ArithmeticMeasureOf2ndOrder, ArithmeticMeasure, ArithmeticMeasure),
			arithmetic(URIBasedCompareArithmetic, URIBasedPPMeasure, URIBasedSPMeasure),
			arithmetic(IdentifierBasedCompareArithmetic, IdentifierBasedPPMeasure, IdentifierBasedSPMeasure),
			previousPeriod(DerivedPPFromArithmeticMeasure, ArithmeticMeasure),
			samePeriod(DerivedSPFromArithmeticMeasure, ArithmeticMeasure),
		},
		Attributes: []model.Attribute{
			{LocalIdentifier: AttributeLocalIdentifier, DisplayForm: model.URIRef{URI: "/attributeDisplayFormUri"}},
		},
	}
}

// MeasureDescriptors maps each fixture measure local id to its result
// descriptor. Only the two plain measures carry uri and identifier; every
// other descriptor is bare, as the backend returns them.
func MeasureDescriptors() map[string]model.MeasureDescriptor {
	out := map[string]model.MeasureDescriptor{
		URIBasedMeasure: {
			LocalIdentifier: URIBasedMeasure,
			URI:             "/uriBasedMeasureUri",
			Identifier:      "uriBasedMeasureIdentifier",
			Name:            "uriBasedMeasureName",
			Format:          fixtureFormat,
		},
		IdentifierBasedMeasure: {
			LocalIdentifier: IdentifierBasedMeasure,
			URI:             "identifierBasedMeasureUri",
			Identifier:      "identifierBasedMeasureIdentifier",
			Name:            "identifierBasedMeasureName",
			Format:          fixtureFormat,
		},
	}
	for _, m := range PredicateDefinition().Measures {
		if _, ok := out[m.LocalIdentifier]; ok {
			continue
		}
		out[m.LocalIdentifier] = model.MeasureDescriptor{
			LocalIdentifier: m.LocalIdentifier,
			Name:            m.LocalIdentifier + "Name",
			Format:          fixtureFormat,
		}
	}
	return out
}

// AttributeDescriptor is the fixture attribute descriptor.
func AttributeDescriptor() model.AttributeDescriptor {
	return model.AttributeDescriptor{
		LocalIdentifier: AttributeLocalIdentifier,
		URI:             "/attributeUri",
		Identifier:      "attributeIdentifier",
		Name:            "attributeName",
		FormOf: model.AttributeFormOf{
			URI:        "/attributeElementUri",
			Identifier: "attributeElementIdentifier",
			Name:       "attributeElementName",
		},
	}
}

// AttributeHeaderItem is the fixture attribute value.
func AttributeHeaderItem() model.ResultAttributeHeaderItem {
	return model.ResultAttributeHeaderItem{URI: "/attributeItemUri", Name: "attributeItemName"}
}

// PredicateDescriptors returns the result descriptors of the fixture
// execution in definition order.
func PredicateDescriptors() execution.ResultDescriptors {
	byID := MeasureDescriptors()
	var descs execution.ResultDescriptors
	for _, m := range PredicateDefinition().Measures {
		descs.Measures = append(descs.Measures, byID[m.LocalIdentifier])
	}
	descs.Attributes = []model.AttributeDescriptor{AttributeDescriptor()}
	return descs
}

// PredicateFacade builds the fixture facade. It panics on error since the
// fixture is static.
func PredicateFacade() *execution.Facade {
	f, err := execution.New(PredicateDefinition(), PredicateDescriptors())
	if err != nil {
		panic(err)
	}
	return f
}
