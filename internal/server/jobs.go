package server

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/scan"
)

// jobRetention bounds how long a finished job nobody polls is kept.
const jobRetention = 10 * time.Minute

type job struct {
	resp     scan.JobResponse
	finished time.Time
}

// jobQueue runs scan submissions in the background and keeps their state
// until the result has been delivered once.
type jobQueue struct {
	mu      sync.Mutex
	jobs    map[string]*job
	service scan.Service
	ctx     context.Context
	wg      sync.WaitGroup
	log     logrus.FieldLogger
	now     func() time.Time
}

func newJobQueue(ctx context.Context, service scan.Service, log logrus.FieldLogger) *jobQueue {
	return &jobQueue{
		jobs:    make(map[string]*job),
		service: service,
		ctx:     ctx,
		log:     log,
		now:     time.Now,
	}
}

// submit registers a pending job and starts the scan.
func (q *jobQueue) submit(repository string) scan.JobResponse {
	j := &job{resp: scan.JobResponse{
		JobID:      uuid.NewString(),
		Repository: repository,
		Status:     scan.JobPending,
	}}

	q.mu.Lock()
	q.expireLocked()
	q.jobs[j.resp.JobID] = j
	pending := j.resp
	q.mu.Unlock()

	q.wg.Add(1)
	go q.run(pending.JobID, repository)
	return pending
}

func (q *jobQueue) run(id, repository string) {
	defer q.wg.Done()

	report, err := q.service.Submit(q.ctx, repository)

	q.mu.Lock()
	defer q.mu.Unlock()
	j, ok := q.jobs[id]
	if !ok {
		return
	}
	j.finished = q.now()
	if err != nil {
		j.resp.Status = scan.JobFailed
		j.resp.Error = err.Error()
		q.log.WithError(err).WithField("job_id", id).Warn("scan job failed")
		return
	}
	j.resp.Status = scan.JobDone
	j.resp.Report = report
	q.log.WithFields(logrus.Fields{"job_id": id, "report": report != nil}).Info("scan job done")
}

// get returns a copy of the job state. A finished job is handed out once
// and then forgotten.
func (q *jobQueue) get(id string) (scan.JobResponse, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	j, ok := q.jobs[id]
	if !ok {
		return scan.JobResponse{}, false
	}
	if j.resp.Status != scan.JobPending {
		delete(q.jobs, id)
	}
	return j.resp, true
}

// size reports how many jobs are held.
func (q *jobQueue) size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

func (q *jobQueue) expireLocked() {
	cutoff := q.now().Add(-jobRetention)
	for id, j := range q.jobs {
		if j.resp.Status != scan.JobPending && j.finished.Before(cutoff) {
			delete(q.jobs, id)
		}
	}
}

// wait blocks until every started job has finished.
func (q *jobQueue) wait() {
	q.wg.Wait()
}
