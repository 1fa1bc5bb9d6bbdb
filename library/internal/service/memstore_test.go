package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Astemirdum/library-borrow/library/internal/errs"
	"github.com/Astemirdum/library-borrow/library/internal/model"
	"github.com/Astemirdum/library-borrow/library/internal/repository"
)

var _ repository.Repository = (*memStore)(nil)

// memStore is an in-memory Repository whose operations are atomic under mu.
type memStore struct {
	mu        sync.Mutex
	nextID    int64
	users     map[int64]model.User
	books     map[int64]model.Book
	borrows   map[int64]model.Borrow
	events    []model.BorrowEvent
	transient int
}

func newMemStore() *memStore {
	return &memStore{
		users:   map[int64]model.User{},
		books:   map[int64]model.Book{},
		borrows: map[int64]model.Borrow{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) addUser(name string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.id()
	m.users[id] = model.User{ID: id, Name: name, Email: name + "@example.com"}
	return id
}

func (m *memStore) addBook(title string, quantity int) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.id()
	m.books[id] = model.Book{ID: id, Title: title, Author: "author", Quantity: quantity, TotalCopies: quantity}
	return id
}

func (m *memStore) quantity(bookID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.books[bookID].Quantity
}

func (m *memStore) borrow(id int64) (model.Borrow, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.borrows[id]
	return b, ok
}

func (m *memStore) CreateRequest(_ context.Context, bookID, userID int64, at time.Time) (model.Borrow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[userID]; !ok {
		return model.Borrow{}, errs.NotFound("user %d", userID)
	}
	book, ok := m.books[bookID]
	if !ok {
		return model.Borrow{}, errs.NotFound("book %d", bookID)
	}
	if !book.Requestable() {
		return model.Borrow{}, errs.ErrOutOfStock
	}
	if v := m.activeFor(bookID, userID); v.Status != nil {
		return model.Borrow{}, errs.WithStatus(errs.ErrConflict, string(*v.Status), "already requested")
	}
	b := model.Borrow{ID: m.id(), BookID: bookID, UserID: userID, Status: model.StatusPending, RequestDate: at}
	m.borrows[b.ID] = b
	return b, nil
}

func (m *memStore) ApplyTransition(_ context.Context, t model.Transition) (model.Borrow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.transient > 0 {
		m.transient--
		return model.Borrow{}, errs.ErrTransient
	}
	cur, ok := m.borrows[t.BorrowID]
	if !ok {
		return model.Borrow{}, errs.NotFound("borrow %d", t.BorrowID)
	}
	if t.OwnerID != 0 && cur.UserID != t.OwnerID {
		return model.Borrow{}, errs.Forbidden("not yours")
	}
	if cur.Status != t.From {
		return model.Borrow{}, errs.InvalidState(string(cur.Status))
	}
	book := m.books[cur.BookID]
	if book.Quantity+t.QuantityDelta < 0 {
		return model.Borrow{}, errs.ErrOutOfStock
	}
	book.Quantity += t.QuantityDelta
	m.books[cur.BookID] = book

	if t.Delete {
		delete(m.borrows, cur.ID)
		cur.Status = t.To
		return cur, nil
	}
	cur.Status = t.To
	at := t.At
	switch t.Date {
	case model.DateApproval:
		cur.ApprovalDate = &at
	case model.DateBorrow:
		cur.BorrowDate = &at
	case model.DateReturn:
		cur.ReturnDate = &at
	}
	if t.Notes != "" {
		notes := t.Notes
		if cur.AdminNotes != nil && *cur.AdminNotes != "" {
			notes = strings.Join([]string{*cur.AdminNotes, t.Notes}, "\n")
		}
		cur.AdminNotes = &notes
	}
	m.borrows[cur.ID] = cur
	return cur, nil
}

func (m *memStore) GetBorrow(_ context.Context, id int64) (model.Borrow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.borrows[id]
	if !ok {
		return model.Borrow{}, errs.NotFound("borrow %d", id)
	}
	return b, nil
}

func (m *memStore) activeFor(bookID, userID int64) model.StatusView {
	for _, b := range m.borrows {
		if b.BookID == bookID && b.UserID == userID && b.Status.Active() {
			st, id := b.Status, b.ID
			return model.StatusView{Status: &st, BorrowID: &id}
		}
	}
	return model.StatusView{}
}

func (m *memStore) StatusFor(_ context.Context, bookID, userID int64) (model.StatusView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeFor(bookID, userID), nil
}

func (m *memStore) views(keep func(model.Borrow) bool) []model.BorrowView {
	var out []model.BorrowView
	for _, b := range m.borrows {
		if !keep(b) {
			continue
		}
		book, user := m.books[b.BookID], m.users[b.UserID]
		out = append(out, model.BorrowView{
			ID: b.ID, BookID: b.BookID, UserID: b.UserID, Status: b.Status,
			RequestDate: b.RequestDate, ApprovalDate: b.ApprovalDate, BorrowDate: b.BorrowDate,
			ReturnDate: b.ReturnDate, AdminNotes: b.AdminNotes,
			BookTitle: book.Title, BookAuthor: book.Author, BookImageURL: book.ImageURL,
			UserName: user.Name, UserEmail: user.Email,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RequestDate.Equal(out[j].RequestDate) {
			return out[i].ID > out[j].ID
		}
		return out[i].RequestDate.After(out[j].RequestDate)
	})
	return out
}

func (m *memStore) ListForUser(_ context.Context, userID int64) ([]model.BorrowView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.views(func(b model.Borrow) bool { return b.UserID == userID }), nil
}

func (m *memStore) ListAll(_ context.Context, f model.BorrowFilter) (model.ListBorrows, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := m.views(func(b model.Borrow) bool { return f.Status == "" || b.Status == f.Status })
	total := len(items)
	if f.Page > 0 && f.Size > 0 {
		from := (f.Page - 1) * f.Size
		if from > len(items) {
			from = len(items)
		}
		to := from + f.Size
		if to > len(items) {
			to = len(items)
		}
		items = items[from:to]
	}
	return model.ListBorrows{
		Paging: model.Paging{Page: f.Page, PageSize: f.Size, TotalElements: total},
		Items:  items,
	}, nil
}

func (m *memStore) ListBooks(_ context.Context, page, size int) (model.ListBooks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []model.Book
	for _, b := range m.books {
		items = append(items, b)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return model.ListBooks{Paging: model.Paging{Page: page, PageSize: size, TotalElements: len(items)}, Items: items}, nil
}

func (m *memStore) GetBook(_ context.Context, id int64) (model.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.books[id]
	if !ok {
		return model.Book{}, errs.NotFound("book %d", id)
	}
	return b, nil
}

func (m *memStore) CreateBook(_ context.Context, in model.BookInput) (model.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := model.Book{ID: m.id(), Title: in.Title, Author: in.Author, Description: in.Description,
		ImageURL: in.ImageURL, Quantity: in.Quantity, TotalCopies: in.Quantity}
	m.books[b.ID] = b
	return b, nil
}

func (m *memStore) UpdateBook(_ context.Context, id int64, in model.BookInput) (model.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.books[id]
	if !ok {
		return model.Book{}, errs.NotFound("book %d", id)
	}
	b.Title, b.Author, b.Description, b.ImageURL = in.Title, in.Author, in.Description, in.ImageURL
	m.books[id] = b
	return b, nil
}

func (m *memStore) AdjustStock(_ context.Context, id int64, delta int) (model.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.books[id]
	if !ok {
		return model.Book{}, errs.NotFound("book %d", id)
	}
	if b.Quantity+delta < 0 || b.TotalCopies+delta < 0 {
		return model.Book{}, errs.New(errs.ErrConflict, "stock cannot drop below zero")
	}
	b.Quantity += delta
	b.TotalCopies += delta
	m.books[id] = b
	return b, nil
}

func (m *memStore) DeleteBook(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.books[id]; !ok {
		return errs.NotFound("book %d", id)
	}
	for _, b := range m.borrows {
		if b.BookID == id {
			return errs.New(errs.ErrConflict, "book %d has borrow records", id)
		}
	}
	delete(m.books, id)
	return nil
}

func (m *memStore) CreateUser(_ context.Context, u model.User) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return model.User{}, errs.New(errs.ErrConflict, "email %s is already registered", u.Email)
		}
	}
	u.ID = m.id()
	u.Email = strings.ToLower(u.Email)
	m.users[u.ID] = u
	return u, nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return model.User{}, errs.NotFound("user %s", email)
}

func (m *memStore) GetUserByID(_ context.Context, id int64) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return model.User{}, errs.NotFound("user %d", id)
	}
	return u, nil
}

func (m *memStore) InsertEvent(_ context.Context, ev model.BorrowEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.EventID == ev.EventID {
			return nil
		}
	}
	m.events = append(m.events, ev)
	return nil
}

func (m *memStore) Stats(_ context.Context) ([]model.UserStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byUser := map[int64]*model.UserStats{}
	for _, e := range m.events {
		st, ok := byUser[e.UserID]
		if !ok {
			st = &model.UserStats{UserID: e.UserID}
			byUser[e.UserID] = st
		}
		switch e.Action {
		case model.ActionRequest:
			st.Requests++
		case model.ActionApprove:
			st.Approvals++
		case model.ActionReject:
			st.Rejections++
		case model.ActionConfirmBorrow:
			st.Borrows++
		case model.ActionConfirmReturn, model.ActionSelfReturn:
			st.Returns++
		case model.ActionCancel:
			st.Cancellations++
		}
		if e.OccurredAt.After(st.LastActivity) {
			st.LastActivity = e.OccurredAt
		}
	}
	var out []model.UserStats
	for _, st := range byUser {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (m *memStore) LedgerDrift(_ context.Context) ([]model.LedgerDrift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.LedgerDrift
	for _, book := range m.books {
		borrowed := 0
		for _, b := range m.borrows {
			if b.BookID == book.ID && b.Status == model.StatusBorrowed {
				borrowed++
			}
		}
		if book.Quantity < 0 || book.Quantity+borrowed != book.TotalCopies {
			out = append(out, model.LedgerDrift{BookID: book.ID, Title: book.Title,
				Quantity: book.Quantity, TotalCopies: book.TotalCopies, Borrowed: borrowed})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookID < out[j].BookID })
	return out, nil
}
