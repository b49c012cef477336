package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryGetUnknown(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Get(".csv"))
}

func TestRegistryCaseInsensitive(t *testing.T) {
	r := DefaultRegistry()
	assert.NotNil(t, r.Get(".CSV"))
	assert.NotNil(t, r.Get(".Xlsx"))
}

func TestRegistryDuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(CSVReader{})
	assert.Panics(t, func() { r.Register(CSVReader{}) })
}

func TestRegistryForPath(t *testing.T) {
	r := DefaultRegistry()

	rd, err := r.ForPath("/tmp/家計簿.csv")
	require.NoError(t, err)
	assert.Equal(t, ".csv", rd.Extension())

	_, err = r.ForPath("statement.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Equal(t, []string{".csv", ".xlsx"}, r.Extensions())
}

func TestCSVReaderRead(t *testing.T) {
	src, err := CSVReader{}.Read(strings.NewReader("日付,内容\n2026/1/5,コーヒー\n"), ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "utf-8", src.Encoding)
	assert.Equal(t, []string{"日付", "内容"}, src.Table.Headers)
	require.Len(t, src.Table.Rows, 1)
	assert.Equal(t, "コーヒー", src.Table.Rows[0].Get("内容"))
}

func TestScanFindsSupportedFiles(t *testing.T) {
	inbox := filepath.Join(t.TempDir(), "import")
	require.NoError(t, os.MkdirAll(inbox, 0o755))

	for _, name := range []string{"bank.csv", "assets.xlsx", "other.txt", ".hidden.csv"} {
		require.NoError(t, os.WriteFile(filepath.Join(inbox, name), []byte("data"), 0o644))
	}

	files, err := Scan(inbox, DefaultRegistry())
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "assets.xlsx", files[0].Name)
	assert.Equal(t, "bank.csv", files[1].Name)
	assert.Equal(t, int64(4), files[1].Size)
}

func TestScanIgnoresProcessedDir(t *testing.T) {
	inbox := filepath.Join(t.TempDir(), "import")
	processed := filepath.Join(inbox, "processed")
	require.NoError(t, os.MkdirAll(processed, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(inbox, "new.csv"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(processed, "old.csv"), []byte("data"), 0o644))

	files, err := Scan(inbox, DefaultRegistry())
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "new.csv", files[0].Name)
}

func TestScanMissingDir(t *testing.T) {
	files, err := Scan(filepath.Join(t.TempDir(), "nope"), DefaultRegistry())
	require.NoError(t, err)
	assert.Nil(t, files)
}

func TestMarkProcessed(t *testing.T) {
	dir := t.TempDir()
	inbox := filepath.Join(dir, "import")
	processed := filepath.Join(inbox, "processed")
	require.NoError(t, os.MkdirAll(inbox, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(inbox, "bank.csv"), []byte("data"), 0o644))

	require.NoError(t, MarkProcessed(inbox, processed, "bank.csv"))

	_, err := os.Stat(filepath.Join(inbox, "bank.csv"))
	assert.True(t, os.IsNotExist(err))
	info, err := os.Stat(filepath.Join(processed, "bank.csv"))
	require.NoError(t, err)
	assert.False(t, info.IsDir())
}

func TestMarkProcessedMissingFile(t *testing.T) {
	dir := t.TempDir()
	err := MarkProcessed(dir, filepath.Join(dir, "processed"), "gone.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "moving gone.csv")
}
