// Package concurrency provides the per-contract serialization shell that
// spec.md §5 requires: one exclusive section ("book lock") per contract
// guarding submit/cancel, a clock that assigns placed_at/generated_at
// strictly under that lock, and an off-lock, per-contract serialized
// handoff for trade persistence. It generalizes the teacher's
// WorkerPool/tomb.Tomb pattern (internal/worker.go) from a fixed pool of
// TCP connection handlers to one supervised persistence worker per
// contract book.
package concurrency

import (
	"sync"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"fenrir/domain"
)

const tradeHandoffBufferSize = 256

// TradeSink durably records a trade. Invoked off the book lock, once per
// trade, serialized per contract by that contract's persistence worker.
type TradeSink func(domain.Trade)

// Book is the exclusive section for one contract: a mutex guarding all
// mutating operations on that contract's order book, a monotonic clock for
// placed_at/generated_at, and a buffered channel draining into a single
// persistence worker.
type Book struct {
	ContractId domain.ContractCode

	mu     sync.Mutex
	Clock  Clock
	trades chan domain.Trade
}

// Lock acquires the book's exclusive section. The match loop runs entirely
// between Lock and Unlock with no suspension points, per spec.md §5.
func (b *Book) Lock() { b.mu.Lock() }

// Unlock releases the book's exclusive section.
func (b *Book) Unlock() { b.mu.Unlock() }

// Handoff enqueues a matched trade for off-lock, serialized persistence.
// Callers invoke this after releasing the book lock, so the in-memory book
// always reflects a match before the corresponding trade is durably
// written — a crash between the two is recoverable by replaying order
// residuals against the trade log. A full buffer blocks the caller; since
// Handoff always runs outside the book lock this cannot stall matching on
// this or any other contract.
func (b *Book) Handoff(trade domain.Trade) {
	b.trades <- trade
}

// Shell owns one Book per supported contract plus the tomb supervising
// their persistence workers.
type Shell struct {
	t     *tomb.Tomb
	books map[domain.ContractCode]*Book
	sink  TradeSink
}

// NewShell creates a Book for each contract in contractIDs and starts one
// persistence worker per contract. sink may be nil, in which case handed-off
// trades are simply drained and discarded — acceptable since the trade log
// is an external collaborator per spec.md §1.
func NewShell(contractIDs []domain.ContractCode, sink TradeSink) *Shell {
	s := &Shell{
		t:     new(tomb.Tomb),
		books: make(map[domain.ContractCode]*Book, len(contractIDs)),
		sink:  sink,
	}
	for _, id := range contractIDs {
		book := &Book{ContractId: id, trades: make(chan domain.Trade, tradeHandoffBufferSize)}
		s.books[id] = book
		s.t.Go(func() error { return s.persistenceWorker(book) })
	}
	return s
}

// persistenceWorker drains one contract's trade handoff channel until the
// shell is stopped, writing each trade through sink in the order it was
// handed off — preserving the strictly-increasing generated_at guarantee.
func (s *Shell) persistenceWorker(book *Book) error {
	log.Debug().Str("contract_id", string(book.ContractId)).Msg("trade persistence worker starting")
	for {
		select {
		case <-s.t.Dying():
			for {
				select {
				case trade := <-book.trades:
					if s.sink != nil {
						s.sink(trade)
					}
				default:
					return nil
				}
			}
		case trade := <-book.trades:
			if s.sink != nil {
				s.sink(trade)
			}
		}
	}
}

// Stop signals every persistence worker to exit and waits for them to
// drain.
func (s *Shell) Stop() error {
	s.t.Kill(nil)
	return s.t.Wait()
}

// Book looks up the exclusive section for a contract, or false if the
// contract is not known to this shell.
func (s *Shell) Book(contractID domain.ContractCode) (*Book, bool) {
	b, ok := s.books[contractID]
	return b, ok
}
