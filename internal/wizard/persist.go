package wizard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/claude/forgeplan/internal/models"
)

const persistTimeout = 5 * time.Second

type persistJob struct {
	snap  models.WizardSnapshot
	clear bool
}

// persister writes cache snapshots on a single goroutine. Only the latest
// queued job is kept, so a burst of field edits costs one write.
type persister struct {
	cache Cache
	log   *slog.Logger

	mu      sync.Mutex
	idle    *sync.Cond
	pending *persistJob
	busy    bool
	closed  bool

	wake chan struct{}
	done chan struct{}
}

func newPersister(cache Cache, log *slog.Logger) *persister {
	p := &persister{
		cache: cache,
		log:   log,
		wake:  make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
	p.idle = sync.NewCond(&p.mu)
	go p.run()
	return p
}

func (p *persister) enqueue(j persistJob) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.pending = &j
	select {
	case p.wake <- struct{}{}:
	default:
	}
	p.mu.Unlock()
}

func (p *persister) run() {
	defer close(p.done)
	for range p.wake {
		for {
			p.mu.Lock()
			j := p.pending
			p.pending = nil
			if j == nil {
				p.busy = false
				p.idle.Broadcast()
				p.mu.Unlock()
				break
			}
			p.busy = true
			p.mu.Unlock()

			p.write(*j)
		}
	}
}

func (p *persister) write(j persistJob) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	var err error
	if j.clear {
		err = p.cache.Clear(ctx)
	} else {
		err = p.cache.Save(ctx, j.snap)
	}
	if err != nil {
		p.log.Warn("wizard cache write failed", "clear", j.clear, "error", err)
	}
}

// flush blocks until every queued job has been written.
func (p *persister) flush() {
	p.mu.Lock()
	for p.pending != nil || p.busy {
		p.idle.Wait()
	}
	p.mu.Unlock()
}

func (p *persister) close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	p.flush()
	p.mu.Lock()
	close(p.wake)
	p.mu.Unlock()
	<-p.done
}
