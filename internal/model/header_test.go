package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTestAttributeDescriptor() AttributeDescriptor {
	return AttributeDescriptor{
		LocalIdentifier: "a1",
		Identifier:      "label.region",
		URI:             "/gdc/md/p/obj/1028",
		Name:            "Region Name",
		FormOf: AttributeFormOf{
			Identifier: "attr.region",
			URI:        "/gdc/md/p/obj/1027",
			Name:       "Region",
		},
	}
}

func makeTestMeasureDescriptor() MeasureDescriptor {
	return MeasureDescriptor{
		LocalIdentifier: "m1",
		Identifier:      "id1",
		URI:             "/uri1",
		Name:            "Revenue",
		Format:          "#,#",
	}
}

// foreignHeader satisfies MappingHeader only inside this package's tests.
type foreignHeader struct{}

func (foreignHeader) mappingHeader() {}

func TestLocalIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		header  MappingHeader
		want    string
		errCode HeaderErrorCode
	}{
		{"attribute descriptor", makeTestAttributeDescriptor(), "a1", ""},
		{"measure descriptor", makeTestMeasureDescriptor(), "m1", ""},
		{"color descriptor", ColorDescriptor{ID: "c1", Name: "Red"}, "c1", ""},
		{"attribute value", AttributeValueHeader{Attribute: makeTestAttributeDescriptor()}, "a1", ""},
		{"result item", ResultAttributeHeaderItem{URI: "/e/1", Name: "East"}, "", ErrCodeNoLocalIdentifier},
		{"total", TotalDescriptor{Name: "sum"}, "", ErrCodeNoLocalIdentifier},
		{"nil", nil, "", ErrCodeUnknownHeaderKind},
		{"pointer is not a header value", &MeasureDescriptor{}, "", ErrCodeUnknownHeaderKind},
		{"foreign type", foreignHeader{}, "", ErrCodeUnknownHeaderKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LocalIdentifier(tt.header)
			if tt.errCode != "" {
				require.Error(t, err)
				var he *HeaderError
				require.ErrorAs(t, err, &he)
				assert.Equal(t, tt.errCode, he.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIdentifier(t *testing.T) {
	got, err := Identifier(makeTestAttributeDescriptor())
	require.NoError(t, err)
	assert.Equal(t, "label.region", got)

	got, err = Identifier(makeTestMeasureDescriptor())
	require.NoError(t, err)
	assert.Equal(t, "id1", got)

	for _, h := range []MappingHeader{
		ResultAttributeHeaderItem{URI: "/e/1"},
		TotalDescriptor{Name: "sum"},
		ColorDescriptor{ID: "c1"},
	} {
		_, err := Identifier(h)
		assert.True(t, IsNoIdentifier(err), "%T must fail with NO_IDENTIFIER", h)
	}

	_, err = Identifier(nil)
	assert.True(t, IsUnknownHeaderKind(err))
}

func TestURI(t *testing.T) {
	assert.Equal(t, "/gdc/md/p/obj/1028", URI(makeTestAttributeDescriptor()))
	assert.Equal(t, "/e/1", URI(ResultAttributeHeaderItem{URI: "/e/1"}))
	assert.Equal(t, "/uri1", URI(makeTestMeasureDescriptor()))
	assert.Equal(t, "", URI(TotalDescriptor{Name: "sum"}))
	assert.Equal(t, "", URI(ColorDescriptor{ID: "c1"}))
	assert.Equal(t, "", URI(nil))
	assert.Equal(t, "/e/2", URI(AttributeValueHeader{
		Item:      ResultAttributeHeaderItem{URI: "/e/2"},
		Attribute: makeTestAttributeDescriptor(),
	}))
}

func TestName(t *testing.T) {
	// The attribute name, not the display form name.
	assert.Equal(t, "Region", Name(makeTestAttributeDescriptor()))
	assert.Equal(t, "East", Name(ResultAttributeHeaderItem{Name: "East"}))
	assert.Equal(t, "Revenue", Name(makeTestMeasureDescriptor()))
	assert.Equal(t, "Red", Name(ColorDescriptor{Name: "Red"}))
	assert.Equal(t, "sum", Name(TotalDescriptor{Name: "sum"}))
}

func TestFormattedName(t *testing.T) {
	assert.Equal(t, "East (1)", FormattedName(ResultAttributeHeaderItem{Name: "East", FormattedName: "East (1)"}))
	assert.Equal(t, "East", FormattedName(ResultAttributeHeaderItem{Name: "East"}))
	assert.Equal(t, "Sum", FormattedName(TotalDescriptor{Name: "sum", FormattedName: "Sum"}))
	assert.Equal(t, "Revenue", FormattedName(makeTestMeasureDescriptor()))
	assert.Equal(t, "Region", FormattedName(makeTestAttributeDescriptor()))
}

func TestKind(t *testing.T) {
	assert.Equal(t, KindAttributeDescriptor, Kind(makeTestAttributeDescriptor()))
	assert.Equal(t, KindAttributeItem, Kind(ResultAttributeHeaderItem{}))
	assert.Equal(t, KindMeasureDescriptor, Kind(makeTestMeasureDescriptor()))
	assert.Equal(t, KindTotalDescriptor, Kind(TotalDescriptor{}))
	assert.Equal(t, KindColorDescriptor, Kind(ColorDescriptor{}))
	assert.Equal(t, KindAttributeValue, Kind(AttributeValueHeader{}))
	assert.Equal(t, KindUnknown, Kind(nil))
}

func TestHeaderErrorMessage(t *testing.T) {
	_, err := LocalIdentifier(TotalDescriptor{Name: "sum"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NO_LOCAL_IDENTIFIER")
	assert.Contains(t, err.Error(), "kind=totalHeaderItem")
}
