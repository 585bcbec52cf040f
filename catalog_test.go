package facet

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testManifest = `
[[section]]
name = "Categories of service"
questions = ["serviceTypesSaaS", "serviceTypesSCS"]

[[section]]
name = "Pricing"
questions = ["trialOption", "minimumContractPeriod"]
`

var testQuestions = map[string]string{
	"serviceTypesSaaS": `
question = "Service categories"
type = "checkboxes"
dependsOnLots = "SaaS"

[[options]]
label = "Collaboration"

[[options]]
label = "Energy and environment"

[[options]]
label = "Healthcare"
`,
	"serviceTypesSCS": `
question = "Service categories"
type = "checkboxes"
dependsOnLots = "SCS"

[[options]]
label = "Planning"
`,
	"trialOption": `
question = "Does the service have a free trial option?"
type = "boolean"
filterLabel = "Free trial option"
`,
	"minimumContractPeriod": `
question = "Minimum contract period"
type = "radios"

[[options]]
label = "Hour"

[[options]]
label = "Day"

[[options]]
label = "Month"
`,
}

// writeTestContent lays out a content directory with the shared question
// fixtures and returns its path.
func writeTestContent(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "questions_manifest.toml"), []byte(testManifest), 0o644))

	for id, content := range testQuestions {
		require.NoError(t, os.WriteFile(
			filepath.Join(dir, id+".toml"), []byte(content), 0o644))
	}

	return dir
}

func newTestCatalog(t *testing.T) *QuestionCatalog {
	t.Helper()

	catalog, err := NewQuestionCatalog(writeTestContent(t))
	require.NoError(t, err)
	t.Cleanup(func() { catalog.Close() })

	return catalog
}

func Test_NewQuestionCatalog_SectionOrder(t *testing.T) {
	catalog := newTestCatalog(t)

	sections := catalog.Sections()
	require.Len(t, sections, 2)

	assert.Equal(t, "categories_of_service", sections[0].ID)
	assert.Equal(t, "Categories of service", sections[0].Name)
	assert.Equal(t, "pricing", sections[1].ID)

	var ids []string
	for _, q := range sections[0].Questions {
		ids = append(ids, q.ID)
	}
	assert.Equal(t, []string{"serviceTypesSaaS", "serviceTypesSCS"}, ids)
}

func Test_NewQuestionCatalog_MissingManifest(t *testing.T) {
	_, err := NewQuestionCatalog(t.TempDir())
	assert.Error(t, err)
}

func Test_GetQuestion(t *testing.T) {
	catalog := newTestCatalog(t)

	q := catalog.GetQuestion("minimumContractPeriod")
	assert.Equal(t, RadiosQuestion, q.Type)
	assert.Equal(t, "Minimum contract period", q.Text)
	assert.Equal(t, RealLots(), q.DependsOnLots)
	require.Len(t, q.Options, 3)
	assert.Equal(t, "Hour", q.Options[0].Label)
}

func Test_GetQuestion_DependentLots(t *testing.T) {
	catalog := newTestCatalog(t)

	q := catalog.GetQuestion("serviceTypesSaaS")
	assert.Equal(t, []Lot{LotSaaS}, q.DependsOnLots)
}

func Test_GetQuestion_MissingFileIsSoft(t *testing.T) {
	catalog := newTestCatalog(t)

	q := catalog.GetQuestion("noSuchQuestion")
	assert.Equal(t, "noSuchQuestion", q.ID)
	assert.Equal(t, OtherQuestion, q.Type)
	assert.Empty(t, q.Options)
	assert.Equal(t, RealLots(), q.DependsOnLots)
}

func Test_GetQuestion_Cached(t *testing.T) {
	catalog := newTestCatalog(t)

	first := catalog.GetQuestion("trialOption")
	second := catalog.GetQuestion("trialOption")
	assert.Equal(t, first, second)

	// cached even for soft-missing ids
	missing := catalog.GetQuestion("noSuchQuestion")
	assert.Equal(t, missing, catalog.GetQuestion("noSuchQuestion"))
}

func Test_WithContentWatcher_MissingDirFails(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "no-such-content")

	_, err := NewQuestionCatalog(dir, WithContentWatcher())
	require.Error(t, err)
	assert.ErrorContains(t, err, "watching content directory")
}

func Test_WithContentWatcher_ReloadsOnChange(t *testing.T) {
	dir := writeTestContent(t)

	catalog, err := NewQuestionCatalog(dir, WithContentWatcher())
	require.NoError(t, err)
	t.Cleanup(func() { catalog.Close() })

	assert.Equal(t, "Free trial option", catalog.GetQuestion("trialOption").FilterLabel)

	updated := `
question = "Does the service have a free trial option?"
type = "boolean"
filterLabel = "Trial available"
`
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "trialOption.toml"), []byte(updated), 0o644))

	assert.Eventually(t, func() bool {
		return catalog.GetQuestion("trialOption").FilterLabel == "Trial available"
	}, 5*time.Second, 25*time.Millisecond)
}

func Test_GetSection(t *testing.T) {
	catalog := newTestCatalog(t)

	section, ok := catalog.GetSection("pricing")
	require.True(t, ok)
	assert.Equal(t, "Pricing", section.Name)
	assert.Equal(t, RealLots(), section.DependsOnLots)

	_, ok = catalog.GetSection("no_such_section")
	assert.False(t, ok)
}

func Test_SectionLots_FirstSeenOrder(t *testing.T) {
	catalog := newTestCatalog(t)

	section, ok := catalog.GetSection("categories_of_service")
	require.True(t, ok)
	assert.Equal(t, []Lot{LotSaaS, LotSCS}, section.DependsOnLots)
}

func Test_SnakeCase(t *testing.T) {
	table := []struct {
		in  string
		out string
	}{
		{"Pricing", "pricing"},
		{"Categories of service", "categories_of_service"},
		{"UserSupport", "user_support"},
	}

	for _, tt := range table {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.out, snakeCase(tt.in))
		})
	}
}
