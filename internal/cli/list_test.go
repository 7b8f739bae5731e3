package cli_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/virtuallist/internal/cli"
	"github.com/rshade/virtuallist/internal/dataset"
)

const listFixture = `{"reservations": [
  {"id": 1, "status": "active", "date": "2024-03-01T00:00:00Z", "paymentOption": "visa",
   "customer": {"firstName": "Ann", "lastName": "Lee"}, "room": {"price": 300}},
  {"id": 2, "status": "pending", "date": "2024-03-02T00:00:00Z", "paymentOption": "cash",
   "discount": {"type": "percent", "value": 50},
   "customer": {"firstName": "Bob", "lastName": "Stone"}, "room": {"price": 100}},
  {"id": 3, "status": "cancelled", "date": "2024-03-03T00:00:00Z", "paymentOption": "check",
   "customer": {"firstName": "Cy", "lastName": "Park"}, "room": {"price": 200}}
]}`

func writeListFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte(listFixture), 0o600))
	return path
}

func TestListCmd_JSONSortedByPrice(t *testing.T) {
	setupCLITest(t)
	path := writeListFixture(t)

	out, err := executeCmd(t, "list", "--data", path, "--sort", "price:desc", "--output", "json")
	require.NoError(t, err)

	var resp cli.ListResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Items, 3)
	assert.Equal(t, []int{1, 3, 2}, []int{resp.Items[0].ID, resp.Items[1].ID, resp.Items[2].ID})
	assert.InDelta(t, 50.0, resp.Items[2].Price, 0.001)
	assert.Equal(t, 3, resp.Pagination.TotalItems)
	assert.Equal(t, 1, resp.Pagination.TotalPages)
}

func TestListCmd_PageBased(t *testing.T) {
	setupCLITest(t)
	path := writeListFixture(t)

	out, err := executeCmd(t, "list", "--data", path,
		"--page", "2", "--page-size", "2", "--sort", "id", "--output", "json")
	require.NoError(t, err)

	var resp cli.ListResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 3, resp.Items[0].ID)
	assert.Equal(t, 2, resp.Pagination.CurrentPage)
	assert.True(t, resp.Pagination.HasPrevious)
	assert.False(t, resp.Pagination.HasNext)
}

func TestListCmd_NDJSONGenerated(t *testing.T) {
	setupCLITest(t)

	out, err := executeCmd(t, "list", "--generate", "25", "--seed", "7", "--limit", "5", "--output", "ndjson")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	var row dataset.Row
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &row))
	assert.NotZero(t, row.ID)
}

func TestListCmd_Table(t *testing.T) {
	setupCLITest(t)
	path := writeListFixture(t)

	out, err := executeCmd(t, "list", "--data", path)
	require.NoError(t, err)
	assert.Contains(t, out, "CUSTOMER")
	assert.Contains(t, out, "Bob Stone")
	assert.Contains(t, out, "$50.00")
	assert.Contains(t, out, "page 1 of 1")
}

func TestListCmd_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "mixed modes", args: []string{"--page", "1", "--page-size", "2", "--offset", "3"}},
		{name: "unknown sort field", args: []string{"--sort", "weight"}},
		{name: "bad sort order", args: []string{"--sort", "price:up"}},
		{name: "negative limit", args: []string{"--limit", "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCLITest(t)

			_, err := executeCmd(t, append([]string{"list", "--generate", "3"}, tt.args...)...)
			require.Error(t, err)
			assert.Equal(t, 3, cli.ExitCode(err))
		})
	}
}

func TestListCmd_MissingFile(t *testing.T) {
	setupCLITest(t)

	_, err := executeCmd(t, "list", "--data", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Equal(t, 1, cli.ExitCode(err))
}
