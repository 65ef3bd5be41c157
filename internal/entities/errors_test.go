package entities

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	base := errors.New("connection refused")
	err := fmt.Errorf("fetch rows: %w", NewError(KindDataSource, "sheets get", base))

	assert.Equal(t, KindDataSource, KindOf(err))
	assert.True(t, IsKind(err, KindDataSource))
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "fetch rows: sheets get: connection refused", err.Error())
}

func TestKindOf_Unknown(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(errors.New("boom")))
	assert.False(t, IsKind(nil, KindDecode))
}

func TestErrConfigurationMissing(t *testing.T) {
	err := ErrConfigurationMissing("SHEET_URL")
	assert.Equal(t, KindConfigurationMissing, KindOf(err))
	assert.Equal(t, "SHEET_URL is not configured", err.Error())
}

func TestIsCategory(t *testing.T) {
	assert.Len(t, Categories, 7)
	for _, c := range Categories {
		assert.True(t, IsCategory(c), c)
	}
	assert.False(t, IsCategory("nopol"))
	assert.False(t, IsCategory(" NOPOL"))
	assert.False(t, IsCategory("KILOMETER"))
}

func TestRowGet(t *testing.T) {
	r := Row{ColNopol: "B123"}
	assert.Equal(t, "B123", r.Get(ColNopol))
	assert.Equal(t, "", r.Get(ColPemakai))
}
