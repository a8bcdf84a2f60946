package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalHeaderWrapsWireKey(t *testing.T) {
	data, err := MarshalHeader(makeTestMeasureDescriptor())
	require.NoError(t, err)
	assert.JSONEq(t, `{"measureHeaderItem":{"localIdentifier":"m1","identifier":"id1","uri":"/uri1","name":"Revenue","format":"#,#"}}`, string(data))

	data, err = MarshalHeader(TotalDescriptor{Name: "sum"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"totalHeaderItem":{"name":"sum"}}`, string(data))

	_, err = MarshalHeader(nil)
	assert.True(t, IsUnknownHeaderKind(err))
}

func TestMarshalAttributeValueHeaderCarriesBothKeys(t *testing.T) {
	h := AttributeValueHeader{
		Item:      ResultAttributeHeaderItem{URI: "/e/1", Name: "East"},
		Attribute: makeTestAttributeDescriptor(),
	}
	data, err := MarshalHeader(h)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"attributeHeaderItem": {"uri":"/e/1","name":"East"},
		"attributeHeader": {
			"localIdentifier":"a1","identifier":"label.region","uri":"/gdc/md/p/obj/1028","name":"Region Name",
			"formOf":{"identifier":"attr.region","uri":"/gdc/md/p/obj/1027","name":"Region"}
		}
	}`, string(data))
}

func TestUnmarshalHeaderRoundTrip(t *testing.T) {
	headers := []MappingHeader{
		makeTestAttributeDescriptor(),
		ResultAttributeHeaderItem{URI: "/e/1", Name: "East", FormattedName: "East!"},
		makeTestMeasureDescriptor(),
		TotalDescriptor{Name: "sum", FormattedName: "Sum"},
		ColorDescriptor{ID: "c1", Name: "Red"},
		AttributeValueHeader{Item: ResultAttributeHeaderItem{URI: "/e/1", Name: "East"}, Attribute: makeTestAttributeDescriptor()},
	}
	for _, h := range headers {
		t.Run(string(Kind(h)), func(t *testing.T) {
			data, err := MarshalHeader(h)
			require.NoError(t, err)
			got, err := UnmarshalHeader(data)
			require.NoError(t, err)
			assert.Equal(t, h, got)
		})
	}
}

func TestUnmarshalHeaderNullItemFields(t *testing.T) {
	got, err := UnmarshalHeader([]byte(`{"attributeHeaderItem":{"uri":null,"name":null}}`))
	require.NoError(t, err)
	assert.Equal(t, ResultAttributeHeaderItem{}, got)
}

func TestUnmarshalHeaderRejectsUnknownShapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty object", `{}`},
		{"unknown key", `{"fooHeader":{}}`},
		{"two unrelated keys", `{"measureHeaderItem":{},"totalHeaderItem":{}}`},
		{"null", `null`},
		{"null descriptor", `{"attributeHeader":null}`},
		{"null item", `{"attributeHeaderItem":null}`},
		{"null measure", `{"measureHeaderItem": null }`},
		{"pair with null descriptor", `{"attributeHeader":null,"attributeHeaderItem":{"uri":"/e/1","name":"East"}}`},
		{"pair with null item", `{"attributeHeader":{"localIdentifier":"a1"},"attributeHeaderItem":null}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalHeader([]byte(tt.input))
			assert.True(t, IsUnknownHeaderKind(err), "got %v", err)
		})
	}
}

func TestUnmarshalHeaders(t *testing.T) {
	got, err := UnmarshalHeaders([]byte(`[
		{"attributeHeaderItem":{"uri":"/e/1","name":"East"}},
		{"attributeHeader":{"localIdentifier":"a1","name":"Region Name","formOf":{"identifier":"attr","uri":"/attr","name":"Region"}}}
	]`))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, KindAttributeItem, Kind(got[0]))
	assert.Equal(t, KindAttributeDescriptor, Kind(got[1]))

	_, err = UnmarshalHeaders([]byte(`[{"nope":{}}]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "headers[0]")
}
