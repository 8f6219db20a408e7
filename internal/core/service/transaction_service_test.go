package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/shelfwise/library-system/internal/core/domain"
)

// stubRentalStore backs both the book and transaction repositories with one
// mutex, mirroring the guarded decrement the SQL implementation performs.
type stubRentalStore struct {
	mu     sync.Mutex
	nextID int64
	books  map[int64]*domain.Book
	txs    map[int64]*domain.Transaction
}

func newStubRentalStore(books ...*domain.Book) *stubRentalStore {
	s := &stubRentalStore{
		books: make(map[int64]*domain.Book),
		txs:   make(map[int64]*domain.Transaction),
	}
	for _, b := range books {
		copy := *b
		s.books[b.ID] = &copy
	}
	return s
}

func (s *stubRentalStore) Create(_ context.Context, book *domain.Book) (*domain.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	copy := *book
	copy.ID = s.nextID
	s.books[copy.ID] = &copy
	out := copy
	return &out, nil
}

func (s *stubRentalStore) FindByID(_ context.Context, id int64) (*domain.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[id]
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	copy := *b
	return &copy, nil
}

func (s *stubRentalStore) List(_ context.Context, skip, limit int) ([]*domain.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Book, 0, len(s.books))
	for _, b := range s.books {
		copy := *b
		out = append(out, &copy)
	}
	return out, nil
}

func (s *stubRentalStore) Update(_ context.Context, book *domain.Book) (*domain.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.books[book.ID]; !ok {
		return nil, domain.ErrBookNotFound
	}
	copy := *book
	s.books[book.ID] = &copy
	out := copy
	return &out, nil
}

func (s *stubRentalStore) Delete(_ context.Context, id int64) (*domain.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[id]
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	delete(s.books, id)
	return b, nil
}

type stubTransactionRepo struct {
	store *stubRentalStore
}

func (r *stubTransactionRepo) Rent(_ context.Context, userID, bookID int64) (*domain.Transaction, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.books[bookID]
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	if b.InventoryCount <= 0 {
		return nil, domain.ErrBookUnavailable
	}
	b.InventoryCount--

	s.nextID++
	tx := &domain.Transaction{
		ID:       s.nextID,
		UserID:   userID,
		BookID:   bookID,
		RentedAt: time.Now().UTC(),
	}
	s.txs[tx.ID] = tx
	copy := *tx
	return &copy, nil
}

func (r *stubTransactionRepo) Return(_ context.Context, transactionID int64) (*domain.Transaction, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.txs[transactionID]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	if tx.ReturnedAt != nil {
		return nil, domain.ErrAlreadyReturned
	}
	now := time.Now().UTC()
	tx.ReturnedAt = &now
	if b, ok := s.books[tx.BookID]; ok {
		b.InventoryCount++
	}
	copy := *tx
	return &copy, nil
}

func (r *stubTransactionRepo) FindByID(_ context.Context, id int64) (*domain.Transaction, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.txs[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	copy := *tx
	return &copy, nil
}

func (r *stubTransactionRepo) List(_ context.Context, skip, limit int) ([]*domain.Transaction, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Transaction, 0, len(s.txs))
	for _, tx := range s.txs {
		copy := *tx
		out = append(out, &copy)
	}
	return out, nil
}

func newTestTransactionService(store *stubRentalStore) *TransactionService {
	return NewTransactionService(&stubTransactionRepo{store: store}, store, zerolog.Nop())
}

func TestTransactionService_RentAndReturn(t *testing.T) {
	store := newStubRentalStore(&domain.Book{ID: 1, Title: "Dune", InventoryCount: 2})
	svc := newTestTransactionService(store)

	tx, err := svc.Rent(context.Background(), 7, 1)
	if err != nil {
		t.Fatalf("rent failed: %v", err)
	}
	if tx.UserID != 7 || tx.BookID != 1 {
		t.Fatalf("unexpected transaction: %+v", tx)
	}
	if tx.ReturnedAt != nil {
		t.Fatalf("fresh rental should not be returned")
	}

	if b, _ := store.FindByID(context.Background(), 1); b.InventoryCount != 1 {
		t.Fatalf("expected inventory 1 after rent, got %d", b.InventoryCount)
	}

	returned, err := svc.Return(context.Background(), tx.ID)
	if err != nil {
		t.Fatalf("return failed: %v", err)
	}
	if returned.ReturnedAt == nil {
		t.Fatalf("expected returned_at to be set")
	}

	if b, _ := store.FindByID(context.Background(), 1); b.InventoryCount != 2 {
		t.Fatalf("expected inventory restored to 2, got %d", b.InventoryCount)
	}
}

func TestTransactionService_Rent_MissingBook(t *testing.T) {
	store := newStubRentalStore()
	svc := newTestTransactionService(store)

	if _, err := svc.Rent(context.Background(), 7, 99); !errors.Is(err, domain.ErrBookNotFound) {
		t.Fatalf("expected ErrBookNotFound, got %v", err)
	}
}

func TestTransactionService_Rent_Exhausted(t *testing.T) {
	store := newStubRentalStore(&domain.Book{ID: 1, Title: "Dune", InventoryCount: 0})
	svc := newTestTransactionService(store)

	if _, err := svc.Rent(context.Background(), 7, 1); !errors.Is(err, domain.ErrBookUnavailable) {
		t.Fatalf("expected ErrBookUnavailable, got %v", err)
	}
}

// Concurrent rentals of the last copy: exactly one wins, the inventory never
// goes negative.
func TestTransactionService_Rent_LastCopyRace(t *testing.T) {
	store := newStubRentalStore(&domain.Book{ID: 1, Title: "Dune", InventoryCount: 1})
	svc := newTestTransactionService(store)

	const racers = 16
	errs := make(chan error, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			_, err := svc.Rent(context.Background(), userID, 1)
			errs <- err
		}(int64(i + 1))
	}
	wg.Wait()
	close(errs)

	var wins, losses int
	for err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, domain.ErrBookUnavailable):
			losses++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one winner, got %d", wins)
	}
	if losses != racers-1 {
		t.Fatalf("expected %d losers, got %d", racers-1, losses)
	}

	b, _ := store.FindByID(context.Background(), 1)
	if b.InventoryCount != 0 {
		t.Fatalf("expected inventory 0, got %d", b.InventoryCount)
	}
}

func TestTransactionService_Return_Twice(t *testing.T) {
	store := newStubRentalStore(&domain.Book{ID: 1, Title: "Dune", InventoryCount: 1})
	svc := newTestTransactionService(store)

	tx, err := svc.Rent(context.Background(), 7, 1)
	if err != nil {
		t.Fatalf("rent: %v", err)
	}
	if _, err := svc.Return(context.Background(), tx.ID); err != nil {
		t.Fatalf("first return: %v", err)
	}
	if _, err := svc.Return(context.Background(), tx.ID); !errors.Is(err, domain.ErrAlreadyReturned) {
		t.Fatalf("expected ErrAlreadyReturned, got %v", err)
	}
}

func TestTransactionService_Return_Unknown(t *testing.T) {
	store := newStubRentalStore()
	svc := newTestTransactionService(store)

	if _, err := svc.Return(context.Background(), 42); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
}
