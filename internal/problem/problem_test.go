package problem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseVariant(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Variant
	}{{"SD", SD}, {"qc", QC}, {"Go", GO}, {"lw", LW}} {
		v, err := ParseVariant(tc.in)
		require.NoError(t, err)
		require.Equal(t, tc.want, v)
	}
	_, err := ParseVariant("bogus")
	require.Error(t, err)
}

func TestParseSDBuildsIdentityAndSyndrome(t *testing.T) {
	// n=4, k=2, r=2. H block columns (one file line per column): column 0
	// is [1 1], column 1 is [0 1]. s = [1 0].
	content := "# comment\n4\n0\n1\n11\n01\n10\n"
	path := writeTemp(t, content)

	p, err := Parse(path, SD, false)
	require.NoError(t, err)
	require.Equal(t, 4, p.N)
	require.Equal(t, 2, p.K)
	require.Equal(t, 2, p.R)
	require.Equal(t, 1, p.W)

	// identity block on [0,r)
	require.Equal(t, 1, p.A.Get(0, 0))
	require.Equal(t, 0, p.A.Get(0, 1))
	require.Equal(t, 0, p.A.Get(1, 0))
	require.Equal(t, 1, p.A.Get(1, 1))

	// H block at columns [r, r+k): line j of the file is column j
	require.Equal(t, 1, p.A.Get(0, 2))
	require.Equal(t, 1, p.A.Get(1, 2))
	require.Equal(t, 0, p.A.Get(0, 3))
	require.Equal(t, 1, p.A.Get(1, 3))

	// syndrome at column n
	require.Equal(t, 1, p.A.Get(0, 4))
	require.Equal(t, 0, p.A.Get(1, 4))
}

func TestParseLWHasNoSyndromeColumn(t *testing.T) {
	content := "4\n0\n10\n01\n"
	path := writeTemp(t, content)

	p, err := Parse(path, LW, false)
	require.NoError(t, err)
	require.Equal(t, 4, p.A.Cols)
	require.Equal(t, p.N, p.W)
}

func TestParseGOArbitraryKR(t *testing.T) {
	// n=5, k=2, r=3, w=1. H block given as k=2 lines of r=3 bits, one
	// line per column.
	content := "5\n2\n1\n101\n011\n101\n"
	path := writeTemp(t, content)

	p, err := Parse(path, GO, false)
	require.NoError(t, err)
	require.Equal(t, 5, p.N)
	require.Equal(t, 2, p.K)
	require.Equal(t, 3, p.R)
	require.Equal(t, 1, p.W)

	// column r+0 = [1 0 1], column r+1 = [0 1 1]
	require.Equal(t, 1, p.A.Get(0, 3))
	require.Equal(t, 0, p.A.Get(1, 3))
	require.Equal(t, 1, p.A.Get(2, 3))
	require.Equal(t, 0, p.A.Get(0, 4))
	require.Equal(t, 1, p.A.Get(1, 4))
	require.Equal(t, 1, p.A.Get(2, 4))

	require.Equal(t, 1, p.A.Get(2, p.N)) // syndrome bit sv[2]=1 at column n
	require.Equal(t, 0, p.A.Get(1, p.N)) // sv[1]=0
}

func TestCirculantBitMatchesSpecFormula(t *testing.T) {
	h := []byte{1, 0, 1, 0} // k=4
	k := 4
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			want := h[((i-j)%k+k)%k]
			require.Equal(t, want, circulantBit(h, k, i, j), "i=%d j=%d", i, j)
		}
	}
}

func TestParseQCBuildsCirculantAndSyndrome(t *testing.T) {
	// n=4, k=2, r=2. circulant row h=[1,0], s=[0,1].
	content := "4\n0\n10\n01\n"
	path := writeTemp(t, content)

	p, err := Parse(path, QC, false)
	require.NoError(t, err)
	require.Equal(t, 4, p.N)
	require.Equal(t, 2, p.K)
	require.Equal(t, 2, p.R)
	require.Equal(t, 5, p.A.Cols) // n+1, no DOOM

	h := []byte{1, 0}
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			require.Equal(t, int(circulantBit(h, 2, i, j)), p.A.Get(i, 2+j))
		}
	}
}

func TestParseQCDoomExpandsSyndromeColumns(t *testing.T) {
	content := "4\n0\n10\n01\n"
	path := writeTemp(t, content)

	p, err := Parse(path, QC, true)
	require.NoError(t, err)
	require.True(t, p.DOOM)
	require.Equal(t, 6, p.A.Cols) // n+k = 4+2

	// s=[0,1]; shift column j holds s rotated down by j
	require.Equal(t, 0, p.A.Get(0, 4))
	require.Equal(t, 1, p.A.Get(1, 4))
	require.Equal(t, 1, p.A.Get(0, 5)) // s[(0-1) mod 2] = s[1]
	require.Equal(t, 0, p.A.Get(1, 5)) // s[(1-1) mod 2] = s[0]
}
