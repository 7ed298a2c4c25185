package game

import (
	"runtime"
	"sync"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/protozoa/systems"
)

// parallelThreshold is the minimum entity count to use parallel planning.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 64

// planChunk represents a range of entities for a worker to plan.
type planChunk struct {
	start, end int
	delta      float32
}

// parallelState holds resources for parallel movement planning. Planning a
// leader touches only its own intent and its colony's compound bags, and
// colonies partition the entity set, so chunks never write to shared state.
// Submission happens single-threaded afterwards to keep physics commands
// deterministic.
type parallelState struct {
	entities   []ecs.Entity
	plans      []systems.ControlPlan
	numWorkers int

	workChan chan planChunk
	doneChan chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
}

func newParallelState() *parallelState {
	return &parallelState{
		numWorkers: runtime.GOMAXPROCS(0),
		entities:   make([]ecs.Entity, 0, 512),
		plans:      make([]systems.ControlPlan, 0, 512),
	}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers(g *Game) {
	if p.running {
		return
	}

	p.workChan = make(chan planChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(g)
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, planning chunks until stopped.
func (p *parallelState) worker(g *Game) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			for i := chunk.start; i < chunk.end; i++ {
				p.plans[i] = g.movement.PlanEntity(p.entities[i], chunk.delta)
			}
			p.doneChan <- struct{}{}
		}
	}
}

// updateMovement plans every controllable entity, in parallel when the
// population is large enough, then submits the plans in entity order.
func (g *Game) updateMovement(delta float32) {
	p := g.parallel
	p.entities = g.movement.Entities(p.entities[:0])

	n := len(p.entities)
	if n == 0 {
		return
	}

	if cap(p.plans) < n {
		p.plans = make([]systems.ControlPlan, n)
	}
	p.plans = p.plans[:n]

	if g.opts.Serial || n < parallelThreshold {
		for i, e := range p.entities {
			p.plans[i] = g.movement.PlanEntity(e, delta)
		}
	} else {
		g.planParallel(n, delta)
	}

	// Single-threaded submission preserves determinism
	for i := range p.plans {
		g.movement.Submit(p.plans[i])
	}
}

// planParallel dispatches chunks to the worker pool and waits.
func (g *Game) planParallel(n int, delta float32) {
	p := g.parallel
	if !p.running {
		p.startWorkers(g)
	}

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers

	dispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}
		p.workChan <- planChunk{start: start, end: end, delta: delta}
		dispatched++
	}

	for i := 0; i < dispatched; i++ {
		<-p.doneChan
	}
}
