package transcript

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"b_2.txt":   "Second\ntranscript.\n",
		"a_1.txt":   "  First one.  ",
		"notes.md":  "ignored",
		"c_3.txt.x": "ignored",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.txt"), 0o755))

	ts, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, ts, 2)
	assert.Equal(t, Transcript{ID: "a_1", Text: "First one."}, ts[0])
	assert.Equal(t, Transcript{ID: "b_2", Text: "Second transcript."}, ts[1])
}

func TestReadList(t *testing.T) {
	in := "utt1 hello [NOISE] world\n\nutt2   spaced    out  \n"
	ts, err := ReadList(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, ts, 2)
	assert.Equal(t, Transcript{ID: "utt1", Text: "hello world"}, ts[0])
	assert.Equal(t, "utt2", ts[1].ID)
	assert.Equal(t, " spaced out", ts[1].Text)

	_, err = ReadList(strings.NewReader("onlyanid\n"))
	assert.ErrorContains(t, err, "line 1")

	m := ByID(ts)
	assert.Equal(t, "hello world", m["utt1"].Text)
}

func TestLevels(t *testing.T) {
	n, ok := Level("voa_0001_2")
	assert.True(t, ok)
	assert.Equal(t, 2, n)
	_, ok = Level("voa_x")
	assert.False(t, ok)
	_, ok = Level("")
	assert.False(t, ok)

	assert.Equal(t, "beginner", LevelLabel(VOA, "a1"))
	assert.Equal(t, "advanced", LevelLabel(VOA, "a3"))
	assert.Equal(t, UnknownLevel, LevelLabel(VOA, "a4"))
	assert.Equal(t, UnknownLevel, LevelLabel(VOA, "a0"))
	assert.Equal(t, "mid int", LevelLabel(ELLLO, "e5"))
	assert.Equal(t, "adv", LevelLabel(ELLLO, "e7"))
	assert.Equal(t, UnknownLevel, LevelLabel(Source("other"), "e1"))

	_, err := ParseSource("ted")
	assert.Error(t, err)
	src, err := ParseSource("elllo")
	require.NoError(t, err)
	assert.Equal(t, ELLLO, src)
}
