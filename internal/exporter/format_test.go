package exporter

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "zero value", input: "0", expected: "0.00"},
		{name: "one decimal", input: "13.4", expected: "13.40"},
		{name: "exact cents", input: "58.62", expected: "58.62"},
		{name: "half cent rounds away from zero", input: "74.595", expected: "74.60"},
		{name: "large amount", input: "1234567.891", expected: "1234567.89"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatMoney(decimal.RequireFromString(tt.input)))
		})
	}
}

func TestFormatCoordinate(t *testing.T) {
	v := -23.562
	assert.Equal(t, "-23.562", formatCoordinate(&v))
	assert.Equal(t, "", formatCoordinate(nil))
}

func TestFormatScore(t *testing.T) {
	tests := []struct {
		name     string
		input    *float64
		expected string
	}{
		{name: "whole score", input: floatPtr(5), expected: "5"},
		{name: "averaged score", input: floatPtr(4.5), expected: "4.5"},
		{name: "no review", input: nil, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatScore(tt.input))
		})
	}
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "2017-01-10 10:56:33", formatTime(time.Date(2017, 1, 10, 10, 56, 33, 0, time.UTC)))
	assert.Equal(t, "", formatTime(time.Time{}))
}

func TestFormatIntAndBool(t *testing.T) {
	assert.Equal(t, "13", formatInt(13))
	assert.Equal(t, "-1", formatInt(-1))
	assert.Equal(t, "true", formatBool(true))
	assert.Equal(t, "false", formatBool(false))
}

func floatPtr(v float64) *float64 { return &v }
