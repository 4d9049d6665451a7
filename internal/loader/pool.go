package loader

import "sync"

// maxWorkers bounds the parallelism of dataset loading.
const maxWorkers = 4

// runJobs fans a fixed job list out over at most maxWorkers goroutines and
// returns one result per job. Results arrive in completion order; callers
// that care about identity carry it inside the result.
func runJobs[Job, Result any](jobs []Job, workerFn func(Job) Result) []Result {
	if len(jobs) == 0 {
		return nil
	}

	in := make(chan Job, len(jobs))
	out := make(chan Result, len(jobs))

	var wg sync.WaitGroup
	for i := 0; i < min(maxWorkers, len(jobs)); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range in {
				out <- workerFn(job)
			}
		}()
	}

	for _, job := range jobs {
		in <- job
	}
	close(in)
	wg.Wait()
	close(out)

	results := make([]Result, 0, len(jobs))
	for res := range out {
		results = append(results, res)
	}
	return results
}
