package predicate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/drillkit/internal/model"
	"github.com/roach88/drillkit/internal/testutil"
)

func TestExpressionMatch(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		header model.MappingHeader
		want   bool
	}{
		{"kind and local id", `kind == "measure" && localIdentifier startsWith "uriBased"`, measureHeader(testutil.URIBasedMeasure), true},
		{"kind mismatch", `kind == "attribute"`, measureHeader(testutil.URIBasedMeasure), false},
		{"attribute item name", `kind == "attributeItem" && name == "attributeItemName"`, testutil.AttributeHeaderItem(), true},
		{"workspace", `workspace == "testWorkspace" && identifier == "attributeIdentifier"`, testutil.AttributeDescriptor(), true},
		{"uri contains", `uri contains "attribute"`, testutil.AttributeDescriptor(), true},
		{"descriptor name is display form name", `kind == "attribute" && name == "attributeElementName"`, testutil.AttributeDescriptor(), true},
		{"descriptor own name is not exposed", `name == "attributeName"`, testutil.AttributeDescriptor(), false},
		{"total formatted name", `kind == "total" && formattedName == "Sum"`, model.TotalDescriptor{Name: "sum", FormattedName: "Sum"}, true},
		{"unknown header", `kind == ""`, nil, true},
	}

	ctx := makeTestContext()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ExpressionMatch(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p(tt.header, ctx))
		})
	}
}

func TestExpressionMatchCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"syntax", `kind ==`},
		{"unknown field", `color == "red"`},
		{"not boolean", `name + "x"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ExpressionMatch(tt.src)
			assert.Nil(t, p)
			require.Error(t, err)

			var exprErr *ExpressionError
			require.True(t, errors.As(err, &exprErr))
			assert.Equal(t, tt.src, exprErr.Source)
		})
	}
}

func TestExpressionMatchRuntimeErrorIsFalse(t *testing.T) {
	p, err := ExpressionMatch(`int(name) > 0`)
	require.NoError(t, err)
	assert.False(t, p(model.ResultAttributeHeaderItem{Name: "not a number"}, Context{}))
	assert.True(t, p(model.ResultAttributeHeaderItem{Name: "7"}, Context{}))
}

func TestNewHeaderView(t *testing.T) {
	view := NewHeaderView(testutil.AttributeDescriptor(), Context{Workspace: "ws"})
	assert.Equal(t, HeaderView{
		Kind:            "attribute",
		LocalIdentifier: testutil.AttributeLocalIdentifier,
		Identifier:      "attributeIdentifier",
		URI:             "/attributeUri",
		Name:            "attributeElementName",
		FormattedName:   "attributeElementName",
		Workspace:       "ws",
	}, view)
}
