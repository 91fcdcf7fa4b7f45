package queue

import (
	"context"
	"hash/fnv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/freelancehub/api/internal/core/domain"
	"github.com/freelancehub/api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// ProjectJob is one project to attach to the job's client. Status, when set,
// is reached by toggling from Active.
type ProjectJob struct {
	Input  ports.CreateProjectInput
	Status domain.ProjectStatus
}

// Job creates a client and then its projects, in order.
type Job struct {
	Client   ports.CreateClientInput
	Projects []ProjectJob
}

// Failure records a job that did not fully import.
type Failure struct {
	Email string
	Err   error
}

// Report summarises an import run.
type Report struct {
	Clients  int
	Projects int
	Failures []Failure
}

// Importer fans client jobs out to a fixed set of workers. Jobs are sharded
// on the lowercased email, so repeated entries for one client are handled
// by the same worker in submission order.
type Importer struct {
	workers  []chan Job
	clients  ports.ClientService
	projects ports.ProjectService
	log      zerolog.Logger
	ctx      context.Context

	wg     sync.WaitGroup
	mu     sync.Mutex
	report Report
}

// NewImporter creates an Importer with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewImporter(numWorkers int, clients ports.ClientService, projects ports.ProjectService, log zerolog.Logger) *Importer {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	im := &Importer{
		workers:  make([]chan Job, numWorkers),
		clients:  clients,
		projects: projects,
		log:      log,
		ctx:      context.Background(),
	}
	for i := range im.workers {
		im.workers[i] = make(chan Job, channelBuffer)
	}
	return im
}

// Start launches the worker goroutines. Once ctx is cancelled, queued and
// later jobs are reported as failures instead of imported.
func (im *Importer) Start(ctx context.Context) {
	im.ctx = ctx
	for i, ch := range im.workers {
		im.wg.Add(1)
		go im.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a job to the worker that owns its email. It does not block
// after the import context is cancelled.
func (im *Importer) Enqueue(job Job) {
	if err := im.ctx.Err(); err != nil {
		im.record(job, -1, err)
		return
	}
	select {
	case im.workers[im.shardIndex(job.Client.Email)] <- job:
	case <-im.ctx.Done():
		im.record(job, -1, im.ctx.Err())
	}
}

// EnqueueBatch enqueues jobs preserving their relative order per client.
func (im *Importer) EnqueueBatch(jobs []Job) {
	for _, j := range jobs {
		im.Enqueue(j)
	}
}

// Wait closes the queues, blocks until every worker has drained, and
// returns the accumulated report. Enqueue must not be called afterwards.
func (im *Importer) Wait() Report {
	for _, ch := range im.workers {
		close(ch)
	}
	im.wg.Wait()

	im.mu.Lock()
	defer im.mu.Unlock()
	return im.report
}

func (im *Importer) shardIndex(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(email)))
	return int(h.Sum32() % uint32(len(im.workers)))
}

func (im *Importer) runWorker(ctx context.Context, id int, ch <-chan Job) {
	defer im.wg.Done()
	for {
		select {
		case <-ctx.Done():
			// Wait closes ch, so every job already queued is accounted for.
			for job := range ch {
				im.record(job, -1, ctx.Err())
			}
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			if err := ctx.Err(); err != nil {
				im.record(job, -1, err)
				continue
			}
			projects, err := im.process(ctx, job)
			im.record(job, projects, err)
			if err != nil {
				im.log.Error().Err(err).
					Str("email", job.Client.Email).
					Int("worker_id", id).
					Msg("fixture import failed")
			}
		}
	}
}

// process creates the client and its projects, returning how many projects
// were stored before any error. A client is counted once it exists.
func (im *Importer) process(ctx context.Context, job Job) (int, error) {
	client, err := im.clients.CreateClient(ctx, job.Client)
	if err != nil {
		return -1, err
	}

	created := 0
	for _, pj := range job.Projects {
		input := pj.Input
		input.ClientID = client.ID
		project, err := im.projects.CreateProject(ctx, input)
		if err != nil {
			return created, err
		}
		created++

		target := domain.NormalizeStatus(string(pj.Status))
		for hops := 0; project.Status != target && hops < 2; hops++ {
			if project, err = im.projects.ToggleStatus(ctx, project.ID); err != nil {
				return created, err
			}
		}
	}
	return created, nil
}

func (im *Importer) record(job Job, projects int, err error) {
	im.mu.Lock()
	defer im.mu.Unlock()

	if projects >= 0 {
		im.report.Clients++
		im.report.Projects += projects
	}
	if err != nil {
		im.report.Failures = append(im.report.Failures, Failure{Email: job.Client.Email, Err: err})
	}
}
