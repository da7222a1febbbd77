package catalog

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

const sampleCSV = `Dimensions,Questions,Description,Options,Scores
Implementation,Do you review code?,Peer review practice.,A) Never.,1
,,,B) Sometimes.,2
,,,C) Always.,3
,Do you lint?,Static analysis.,A) No.,1
,,,B) Yes.,2
Response,Do you have on-call?,Incident readiness.,A) No.,1
,,,B) Yes.,2
`

func TestLoadParsesRowReducer(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "rubric.csv", []byte(sampleCSV))
	c := Load(path, discardLogger())

	assert.Equal(t, []string{"Implementation", "Response"}, c.OrderedSections())
	assert.Equal(t, 3, c.TotalQuestions())

	impl := c.Questions("Implementation")
	require.Len(t, impl, 2)
	assert.Equal(t, "Do you review code?", impl[0].Text)
	assert.Equal(t, "Peer review practice.", impl[0].Description)
	require.Len(t, impl[0].Options, 3)
	assert.Equal(t, Option{Text: "C) Always.", Score: 3}, impl[0].Options[2])
	require.Len(t, impl[1].Options, 2)

	assert.Equal(t, 3, c.ScoreFor("Implementation", "Do you review code?", "C) Always."))
}

func TestLoadHandlesUTF8BOM(t *testing.T) {
	t.Parallel()

	bom := append([]byte{0xEF, 0xBB, 0xBF}, []byte(sampleCSV)...)
	path := writeTemp(t, "bom.csv", bom)
	c := Load(path, discardLogger())

	assert.Equal(t, 3, c.TotalQuestions())
	assert.Equal(t, []string{"Implementation", "Response"}, c.OrderedSections())
}

func TestLoadDecodesWindows1252(t *testing.T) {
	t.Parallel()

	// "café" with 0xE9, invalid as UTF-8.
	raw := []byte("Dimensions,Questions,Description,Options,Scores\n" +
		"Caf\xe9,Question one?,desc,A) Never.,1\n" +
		",,,B) Often.,2\n")
	path := writeTemp(t, "legacy.csv", raw)
	c := Load(path, discardLogger())

	assert.Equal(t, []string{"Café"}, c.OrderedSections())
	require.Len(t, c.Questions("Café"), 1)
	assert.Equal(t, 2, c.ScoreFor("Café", "Question one?", "B) Often."))
}

func TestLoadFallsBackOnMissingFile(t *testing.T) {
	t.Parallel()

	c := Load(filepath.Join(t.TempDir(), "nope.csv"), discardLogger())
	assert.Equal(t, Default().OrderedSections(), c.OrderedSections())
	assert.Equal(t, Default().TotalQuestions(), c.TotalQuestions())
}

func TestLoadFallsBackOnBadHeader(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "bad.csv", []byte("Foo,Bar\n1,2\n"))
	c := Load(path, discardLogger())
	assert.Equal(t, Default().TotalQuestions(), c.TotalQuestions())
}

func TestLoadFallsBackOnEmptyBody(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "empty.csv", []byte("Dimensions,Questions,Description,Options,Scores\n"))
	c := Load(path, discardLogger())
	assert.Equal(t, Default().TotalQuestions(), c.TotalQuestions())
}

func TestLoadSkipsRowsOutsideDimension(t *testing.T) {
	t.Parallel()

	raw := "Dimensions,Questions,Description,Options,Scores\n" +
		",Floating question?,desc,A) Orphan.,1\n" +
		"Implementation,Do you lint?,desc,A) No.,1\n"
	path := writeTemp(t, "orphans.csv", []byte(raw))
	c := Load(path, discardLogger())

	assert.Equal(t, 1, c.TotalQuestions())
	assert.Equal(t, []string{"Implementation"}, c.OrderedSections())
}

func TestLoadTreatsUnparseableScoreAsUnscored(t *testing.T) {
	t.Parallel()

	raw := "Dimensions,Questions,Description,Options,Scores\n" +
		"Implementation,Do you lint?,desc,D) Broken score.,high\n"
	path := writeTemp(t, "scores.csv", []byte(raw))
	c := Load(path, discardLogger())

	require.Equal(t, 1, c.TotalQuestions())
	// The option survives with score 0; lookup falls back to its label.
	assert.Equal(t, 4, c.ScoreFor("Implementation", "Do you lint?", "D) Broken score."))
}
