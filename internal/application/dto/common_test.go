package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericInput_AceptaTextoYNumero(t *testing.T) {
	var in struct {
		A NumericInput `json:"a"`
		B NumericInput `json:"b"`
		C NumericInput `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"1.234,56","b":35.5,"c":null}`), &in))
	assert.Equal(t, "1.234,56", in.A.String())
	assert.Equal(t, "35.5", in.B.String())
	assert.Equal(t, "", in.C.String())

	assert.Error(t, json.Unmarshal([]byte(`{"a":true}`), &in))
}

func TestPageRequest_DefaultPage(t *testing.T) {
	p := PageRequest{Limit: 5000, Offset: -3}
	p.DefaultPage()
	assert.Equal(t, 1000, p.Limit)
	assert.Equal(t, 0, p.Offset)

	p = PageRequest{}
	p.DefaultPage()
	assert.Equal(t, 100, p.Limit)
}
