// Load generator: issues a randomized, weighted request mix against a running
// perfapi server and reports per-endpoint latency and error counts. It runs a
// worker pool of concurrent clients and aggregates measurements at the end.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"sync"
	"text/tabwriter"
	"time"
)

// task is one weighted entry of the request mix. The weights mirror a typical
// read-heavy CRUD workload: listings dominate, writes are rare.
type task struct {
	name   string
	weight int
	run    func(c *http.Client, base string) error
}

func tasks() []task {
	return []task{
		{"list users", 3, func(c *http.Client, base string) error {
			return get(c, base+"/users")
		}},
		{"get user", 2, func(c *http.Client, base string) error {
			return get(c, fmt.Sprintf("%s/users/%d", base, 1+rand.Intn(50)))
		}},
		{"list posts", 2, func(c *http.Client, base string) error {
			return get(c, base+"/posts")
		}},
		{"get post", 1, func(c *http.Client, base string) error {
			return get(c, fmt.Sprintf("%s/posts/%d", base, 1+rand.Intn(200)))
		}},
		{"search", 1, func(c *http.Client, base string) error {
			return get(c, fmt.Sprintf("%s/search?q=user%d", base, 1+rand.Intn(50)))
		}},
		{"heavy", 1, func(c *http.Client, base string) error {
			return get(c, base+"/heavy")
		}},
		{"create user", 1, func(c *http.Client, base string) error {
			n := 1000 + rand.Intn(9000)
			body, _ := json.Marshal(map[string]string{
				"username": fmt.Sprintf("newuser%d", n),
				"email":    fmt.Sprintf("newuser%d@example.com", n),
				"password": "testpassword123",
			})
			resp, err := c.Post(base+"/users", "application/json", bytes.NewReader(body))
			if err != nil {
				return err
			}
			return drain(resp)
		}},
	}
}

func get(c *http.Client, url string) error {
	resp, err := c.Get(url)
	if err != nil {
		return err
	}
	return drain(resp)
}

func drain(resp *http.Response) error {
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= 500 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}

func main() {
	var base string
	var requests int
	var concurrency int
	var timeout time.Duration
	flag.StringVar(&base, "base", "http://localhost:4000", "base URL of the target server")
	flag.IntVar(&requests, "requests", 1000, "total number of requests")
	flag.IntVar(&concurrency, "concurrency", 10, "number of concurrent workers")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "per-request timeout")
	flag.Parse()

	client := &http.Client{Timeout: timeout}

	// Seed once before generating load, like a fresh benchmark run.
	resp, err := client.Post(base+"/seed", "application/json", nil)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	if err := drain(resp); err != nil {
		log.Fatalf("seed: %v", err)
	}
	log.Printf("database seeded, starting %d requests with %d workers", requests, concurrency)

	all := tasks()
	totalWeight := 0
	for _, t := range all {
		totalWeight += t.weight
	}

	// pick returns a task index proportionally to its weight.
	pick := func(rng *rand.Rand) task {
		n := rng.Intn(totalWeight)
		for _, t := range all {
			if n < t.weight {
				return t
			}
			n -= t.weight
		}
		return all[0]
	}

	type result struct {
		name    string
		latency time.Duration
		err     error
	}

	jobs := make(chan struct{}, requests)
	results := make(chan result, requests)
	for i := 0; i < requests; i++ {
		jobs <- struct{}{}
	}
	close(jobs)

	var wg sync.WaitGroup
	wg.Add(concurrency)

	startAll := time.Now()
	for w := 0; w < concurrency; w++ {
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for range jobs {
				t := pick(rng)
				start := time.Now()
				err := t.run(client, base)
				results <- result{name: t.name, latency: time.Since(start), err: err}
			}
		}(time.Now().UnixNano() + int64(w))
	}
	wg.Wait()
	close(results)
	totalDur := time.Since(startAll)

	// Aggregate per task: count, errors, latency quantiles.
	type agg struct {
		latencies []time.Duration
		errs      int
	}
	byTask := map[string]*agg{}
	for r := range results {
		a := byTask[r.name]
		if a == nil {
			a = &agg{}
			byTask[r.name] = a
		}
		if r.err != nil {
			a.errs++
		}
		a.latencies = append(a.latencies, r.latency)
	}

	names := make([]string, 0, len(byTask))
	for name := range byTask {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "task\tcount\terrors\tp50\tp95\tp99")
	for _, name := range names {
		a := byTask[name]
		sort.Slice(a.latencies, func(i, j int) bool { return a.latencies[i] < a.latencies[j] })
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\t%s\n",
			name, len(a.latencies), a.errs,
			quantile(a.latencies, 0.50), quantile(a.latencies, 0.95), quantile(a.latencies, 0.99))
	}
	tw.Flush()

	fmt.Printf("\n%d requests in %s (%.1f req/s)\n",
		requests, totalDur.Round(time.Millisecond), float64(requests)/totalDur.Seconds())
}

// quantile assumes latencies is sorted ascending.
func quantile(latencies []time.Duration, q float64) time.Duration {
	if len(latencies) == 0 {
		return 0
	}
	idx := int(float64(len(latencies)-1) * q)
	return latencies[idx].Round(time.Microsecond)
}
