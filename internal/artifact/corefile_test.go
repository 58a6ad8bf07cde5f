package artifact

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteReadCoreFileRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	orderPos := []int32{3, 1, 0, 2}
	core := []bool{false, true, true, false}

	require.NoError(t, WriteCoreFile(&buf, 0xabc, orderPos, core))

	gotOrder, gotCore, err := ReadCoreFile(&buf)
	require.NoError(t, err)
	require.Equal(t, orderPos, gotOrder)
	require.Equal(t, core, gotCore)
}
