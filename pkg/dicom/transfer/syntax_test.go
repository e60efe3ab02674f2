package transfer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	ts, err := Parse("implicit")
	require.NoError(t, err)
	assert.Equal(t, ImplicitVRLittleEndian, ts)

	ts, err = Parse("Explicit")
	require.NoError(t, err)
	assert.Equal(t, ExplicitVRLittleEndian, ts)

	ts, err = Parse("1.2.840.10008.1.2.1")
	require.NoError(t, err)
	assert.Equal(t, ExplicitVRLittleEndian, ts)

	_, err = Parse(string(ExplicitVRBigEndian))
	assert.Error(t, err)
	_, err = Parse("jpeg")
	assert.Error(t, err)
}

func TestSyntax_Flags(t *testing.T) {
	assert.False(t, ImplicitVRLittleEndian.IsExplicitVR())
	assert.True(t, ExplicitVRLittleEndian.IsExplicitVR())
	assert.True(t, ExplicitVRLittleEndian.IsLittleEndian())
	assert.False(t, ExplicitVRBigEndian.IsLittleEndian())
	assert.False(t, DeflatedExplicitVR.IsSupported())
	assert.Equal(t, ImplicitVRLittleEndian, FromUID("1.2.840.10008.1.2\x00"))
	assert.Equal(t, "Explicit VR Little Endian", ExplicitVRLittleEndian.Name())
}
