package vr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVR_LengthForm(t *testing.T) {
	for _, v := range []VR{OB, OW, SQ, UN, UT} {
		assert.False(t, v.IsExplicitLength(), v)
	}
	for _, v := range []VR{PN, LO, SH, CS, DA, TM, UI, US, UL} {
		assert.True(t, v.IsExplicitLength(), v)
	}
}

func TestVR_PadByte(t *testing.T) {
	assert.Equal(t, byte(' '), PN.PadByte())
	assert.Equal(t, byte(' '), DA.PadByte())
	assert.Equal(t, byte(0x00), UI.PadByte())
	assert.Equal(t, byte(0x00), OB.PadByte())
}

func TestVR_Classes(t *testing.T) {
	assert.True(t, US.IsNumeric())
	assert.True(t, FD.IsNumeric())
	assert.False(t, OB.IsNumeric())
	assert.True(t, SQ.IsSequence())
	assert.True(t, CS.IsMultiValued())
	assert.False(t, LT.IsMultiValued())
	assert.Equal(t, 64, UI.MaxLength())
	assert.Equal(t, 0, UT.MaxLength())
	assert.True(t, AE.IsKnown())
	assert.False(t, VR("ZZ").IsKnown())
}
