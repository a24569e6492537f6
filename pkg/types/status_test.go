package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTemplateValueStatus(t *testing.T) {
	tests := []struct {
		in   string
		want TemplateValueStatus
	}{
		{"defined", StatusDefined},
		{"inherited", StatusInherited},
		{"undefined", StatusUndefined},
		{"INHERITED", StatusInherited},
		{" Undefined ", StatusUndefined},
		{"excluded", StatusUndefined},
		{"", StatusDefined},
		{"garbage", StatusDefined},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTemplateValueStatus(tt.in))
		})
	}
}

func TestTemplateValueStatusStringRoundTrip(t *testing.T) {
	for _, s := range []TemplateValueStatus{StatusDefined, StatusInherited, StatusUndefined} {
		assert.Equal(t, s, ParseTemplateValueStatus(s.String()))
	}
}

func TestTemplateValueStatusJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		S TemplateValueStatus `json:"s"`
	}{StatusInherited})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"s":"inherited"}`, string(data))

	var out struct {
		S TemplateValueStatus `json:"s"`
	}
	assert.NoError(t, json.Unmarshal([]byte(`{"s":"bogus"}`), &out))
	assert.Equal(t, StatusDefined, out.S)
}
