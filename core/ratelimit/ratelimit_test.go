package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func testConfig() Config {
	return Config{
		Enabled:     true,
		MaxRequests: 100,
		Window:      time.Hour,
		SweepEvery:  time.Minute,
	}
}

func TestAdmitUpToLimit(t *testing.T) {
	l := New(testConfig())
	now := time.Now()

	for i := 0; i < 100; i++ {
		if !l.Admit("client", now.Add(time.Duration(i)*time.Second)) {
			t.Fatalf("request %d should be admitted", i+1)
		}
	}
	if l.Admit("client", now.Add(101*time.Second)) {
		t.Error("101st request within the window should be rejected")
	}
}

func TestWindowSlides(t *testing.T) {
	l := New(testConfig())
	now := time.Now()

	for i := 0; i < 100; i++ {
		l.Admit("client", now)
	}
	if l.Admit("client", now.Add(30*time.Minute)) {
		t.Error("request inside the window should be rejected")
	}
	// Past the trailing window the old timestamps expire.
	if !l.Admit("client", now.Add(time.Hour+time.Second)) {
		t.Error("request after the window should be admitted")
	}
}

func TestRejectionNotRecorded(t *testing.T) {
	cfg := testConfig()
	cfg.MaxRequests = 1
	l := New(cfg)
	now := time.Now()

	if !l.Admit("client", now) {
		t.Fatal("first request should be admitted")
	}
	// Rejected attempts must not extend the lockout.
	for i := 1; i <= 10; i++ {
		if l.Admit("client", now.Add(time.Duration(i)*time.Minute)) {
			t.Fatalf("request at minute %d should be rejected", i)
		}
	}
	if !l.Admit("client", now.Add(time.Hour+time.Second)) {
		t.Error("request after the original window should be admitted")
	}
}

func TestClientsIndependent(t *testing.T) {
	cfg := testConfig()
	cfg.MaxRequests = 1
	l := New(cfg)
	now := time.Now()

	if !l.Admit("a", now) {
		t.Fatal("client a should be admitted")
	}
	if l.Admit("a", now) {
		t.Error("client a should be over budget")
	}
	if !l.Admit("b", now) {
		t.Error("client b has its own budget")
	}
}

func TestRemaining(t *testing.T) {
	l := New(testConfig())
	now := time.Now()

	if got := l.Remaining("client", now); got != 100 {
		t.Errorf("Remaining = %d, want 100", got)
	}
	for i := 0; i < 30; i++ {
		l.Admit("client", now)
	}
	if got := l.Remaining("client", now); got != 70 {
		t.Errorf("Remaining = %d, want 70", got)
	}
}

func TestDisabledAdmitsEverything(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	cfg.MaxRequests = 1
	l := New(cfg)
	now := time.Now()

	for i := 0; i < 1000; i++ {
		if !l.Admit("client", now) {
			t.Fatalf("disabled limiter rejected request %d", i+1)
		}
	}
	// A disabled limiter must not accumulate client state.
	if got := l.Clients(); got != 0 {
		t.Errorf("Clients = %d, want 0", got)
	}
}

func TestSweepReclaimsStaleClients(t *testing.T) {
	l := New(testConfig())
	now := time.Now()

	for i := 0; i < 50; i++ {
		l.Admit(fmt.Sprintf("client-%d", i), now)
	}
	if got := l.Clients(); got != 50 {
		t.Fatalf("Clients = %d, want 50", got)
	}

	// Nothing is stale yet.
	l.Sweep(now.Add(30 * time.Minute))
	if got := l.Clients(); got != 50 {
		t.Errorf("early sweep removed clients: %d left", got)
	}

	l.Sweep(now.Add(time.Hour + time.Second))
	if got := l.Clients(); got != 0 {
		t.Errorf("Clients after sweep = %d, want 0", got)
	}
}

func TestSweepKeepsActiveClients(t *testing.T) {
	l := New(testConfig())
	now := time.Now()

	l.Admit("stale", now)
	l.Admit("active", now.Add(50*time.Minute))

	l.Sweep(now.Add(time.Hour + time.Second))
	if got := l.Clients(); got != 1 {
		t.Errorf("Clients = %d, want 1", got)
	}
	// The surviving client keeps its recorded request.
	if got := l.Remaining("active", now.Add(time.Hour+time.Second)); got != 99 {
		t.Errorf("Remaining for active = %d, want 99", got)
	}
}

func TestStartSweeperStop(t *testing.T) {
	cfg := testConfig()
	cfg.SweepEvery = time.Millisecond
	l := New(cfg)

	l.StartSweeper()
	l.StartSweeper() // second call is a no-op
	time.Sleep(5 * time.Millisecond)
	l.Stop()
	l.Stop() // idempotent
}

func TestConcurrentAdmit(t *testing.T) {
	cfg := testConfig()
	cfg.MaxRequests = 500
	l := New(cfg)
	now := time.Now()

	var wg sync.WaitGroup
	admitted := make([]int, 10)
	for g := 0; g < 10; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				if l.Admit("shared", now) {
					admitted[g]++
				}
				l.Admit(fmt.Sprintf("own-%d", g), now)
			}
		}(g)
	}
	wg.Wait()

	total := 0
	for _, n := range admitted {
		total += n
	}
	// 1000 attempts against a budget of 500: exactly the budget admitted.
	if total != 500 {
		t.Errorf("admitted %d requests for shared client, want 500", total)
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	l := New(Config{Enabled: true})
	now := time.Now()
	for i := 0; i < DefaultConfig().MaxRequests; i++ {
		if !l.Admit("client", now) {
			t.Fatalf("request %d rejected under default budget", i+1)
		}
	}
	if l.Admit("client", now) {
		t.Error("request over the default budget should be rejected")
	}
}
