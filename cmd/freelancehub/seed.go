package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/freelancehub/api/internal/core/domain"
	"github.com/freelancehub/api/internal/core/ports"
	"github.com/freelancehub/api/internal/core/service"
	"github.com/freelancehub/api/internal/infrastructure/db"
	"github.com/freelancehub/api/internal/infrastructure/queue"
	"github.com/freelancehub/api/pkg/logger"
)

var (
	seedFile    string
	seedWorkers int
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load clients and projects from a YAML fixture file",
	Long: `Load clients and projects from a YAML fixture file.

Example file:
  clients:
    - name: Bob
      email: bob@example.com
      company_name: Acme Corp
      projects:
        - title: Website
          budget: 1500
        - title: Logo
          budget: 200
          status: Completed`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "fixture file")
	seedCmd.Flags().IntVarP(&seedWorkers, "workers", "w", 4, "concurrent importers")
	_ = seedCmd.MarkFlagRequired("file")
}

type fixtureFile struct {
	Clients []clientFixture `yaml:"clients"`
}

type clientFixture struct {
	Name        string           `yaml:"name"`
	Email       string           `yaml:"email"`
	CompanyName string           `yaml:"company_name"`
	Projects    []projectFixture `yaml:"projects"`
}

type projectFixture struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	// Budget keeps the raw scalar; the service coerces it.
	Budget string `yaml:"budget"`
	Status string `yaml:"status"`
}

// loadFixtures decodes a fixture document into import jobs. Unknown keys
// and unknown statuses are rejected.
func loadFixtures(r io.Reader) ([]queue.Job, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f fixtureFile
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}

	jobs := make([]queue.Job, 0, len(f.Clients))
	for i, c := range f.Clients {
		job := queue.Job{Client: ports.CreateClientInput{
			Name:        c.Name,
			Email:       c.Email,
			CompanyName: c.CompanyName,
		}}
		for j, p := range c.Projects {
			status := domain.ProjectStatus(strings.TrimSpace(p.Status))
			if status != "" && !status.Valid() {
				return nil, fmt.Errorf("clients[%d].projects[%d]: unknown status %q", i, j, p.Status)
			}
			job.Projects = append(job.Projects, queue.ProjectJob{
				Input: ports.CreateProjectInput{
					Title:       p.Title,
					Description: p.Description,
					Budget:      p.Budget,
				},
				Status: status,
			})
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func runSeed(cmd *cobra.Command, _ []string) error {
	f, err := os.Open(seedFile)
	if err != nil {
		return err
	}
	defer f.Close()

	jobs, err := loadFixtures(f)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := db.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	log := logger.Named("seed")
	importer := queue.NewImporter(seedWorkers,
		service.NewClientService(store.Clients, log),
		service.NewProjectService(store.Projects, log),
		log,
	)
	importer.Start(ctx)
	importer.EnqueueBatch(jobs)
	report := importer.Wait()

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d client(s) and %d project(s)\n", report.Clients, report.Projects)
	for _, failure := range report.Failures {
		fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %v\n", failure.Email, failure.Err)
	}
	if len(report.Failures) > 0 {
		return fmt.Errorf("seed: %d fixture(s) failed", len(report.Failures))
	}
	return nil
}
