package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freelancehub/api/internal/core/domain"
)

func TestLoadFixtures(t *testing.T) {
	doc := `
clients:
  - name: Bob
    email: bob@x.com
    company_name: Acme Corp
    projects:
      - title: Website
        budget: 1500
      - title: Logo
        description: vector mark
        budget: "200.50"
        status: Completed
  - name: Carol
    email: carol@x.com
`
	jobs, err := loadFixtures(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	bob := jobs[0]
	assert.Equal(t, "Acme Corp", bob.Client.CompanyName)
	require.Len(t, bob.Projects, 2)
	assert.Equal(t, "1500", bob.Projects[0].Input.Budget)
	assert.Equal(t, domain.ProjectStatus(""), bob.Projects[0].Status)
	assert.Equal(t, "200.50", bob.Projects[1].Input.Budget)
	assert.Equal(t, domain.StatusCompleted, bob.Projects[1].Status)

	assert.Empty(t, jobs[1].Projects)
}

func TestLoadFixtures_Empty(t *testing.T) {
	jobs, err := loadFixtures(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestLoadFixtures_Rejects(t *testing.T) {
	cases := map[string]string{
		"unknown key":    "clients:\n  - name: Bob\n    phone: 123\n",
		"unknown status": "clients:\n  - name: Bob\n    projects:\n      - title: X\n        status: Paused\n",
		"bad shape":      "clients: nope\n",
	}
	for name, doc := range cases {
		_, err := loadFixtures(strings.NewReader(doc))
		assert.Error(t, err, name)
	}
}

func TestPromptPassword_FromPipe(t *testing.T) {
	var out strings.Builder
	pw, err := promptPassword(strings.NewReader("s3cret\nignored\n"), &out)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", pw)
	assert.Empty(t, out.String())

	pw, err = promptPassword(strings.NewReader("no-newline"), &out)
	require.NoError(t, err)
	assert.Equal(t, "no-newline", pw)

	_, err = promptPassword(strings.NewReader(""), &out)
	assert.Error(t, err)
}
