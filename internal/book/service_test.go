package book

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errStorage = errors.New("connection reset")

func newMockService(t *testing.T) (*Service, *MockRepository) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)
	return NewService(repo, NewValidator()), repo
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("stores canonical isbn", func(t *testing.T) {
		svc, repo := newMockService(t)
		in := validBook()
		in.ID = 99
		in.ISBN = "9783161484100"

		want := in
		want.ID = 0
		want.ISBN = "978-3-161-48410-0"
		repo.EXPECT().FindByISBN(ctx, "978-3-161-48410-0").Return(Book{}, ErrNotFound)
		repo.EXPECT().Insert(ctx, want).DoAndReturn(func(_ context.Context, b Book) (Book, error) {
			b.ID = 1
			return b, nil
		})

		out, err := svc.Create(ctx, in)

		require.NoError(t, err)
		assert.Equal(t, ResultCreated, out.Result)
		assert.Equal(t, int64(1), out.Book.ID)
		assert.Equal(t, "978-3-161-48410-0", out.Book.ISBN)
	})

	t.Run("invalid book never reaches the store", func(t *testing.T) {
		svc, _ := newMockService(t)
		in := validBook()
		in.Title = ""

		out, err := svc.Create(ctx, in)

		require.NoError(t, err)
		assert.Equal(t, ResultInvalid, out.Result)
		assert.Equal(t, "Title is required.", out.Message)
	})

	t.Run("existing isbn conflicts", func(t *testing.T) {
		svc, repo := newMockService(t)
		repo.EXPECT().FindByISBN(ctx, "978-3-161-48410-0").Return(Book{ID: 7}, nil)

		out, err := svc.Create(ctx, validBook())

		require.NoError(t, err)
		assert.Equal(t, ResultConflict, out.Result)
		assert.Equal(t, "978-3-161-48410-0", out.ISBN)
	})

	t.Run("lost insert race conflicts", func(t *testing.T) {
		svc, repo := newMockService(t)
		repo.EXPECT().FindByISBN(ctx, gomock.Any()).Return(Book{}, ErrNotFound)
		repo.EXPECT().Insert(ctx, gomock.Any()).Return(Book{}, ErrDuplicateISBN)

		out, err := svc.Create(ctx, validBook())

		require.NoError(t, err)
		assert.Equal(t, ResultConflict, out.Result)
	})

	t.Run("storage failure is an error", func(t *testing.T) {
		svc, repo := newMockService(t)
		repo.EXPECT().FindByISBN(ctx, gomock.Any()).Return(Book{}, errStorage)

		_, err := svc.Create(ctx, validBook())

		assert.True(t, errors.Is(err, errStorage))
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	current := validBook()
	current.ID = 5

	t.Run("absent id", func(t *testing.T) {
		svc, repo := newMockService(t)
		repo.EXPECT().FindByID(ctx, int64(5)).Return(Book{}, ErrNotFound)

		in := validBook()
		in.Title = ""
		out, err := svc.Update(ctx, 5, in)

		require.NoError(t, err)
		assert.Equal(t, ResultNotFound, out.Result, "not found is reported before validation")
	})

	t.Run("validates like create", func(t *testing.T) {
		svc, repo := newMockService(t)
		repo.EXPECT().FindByID(ctx, int64(5)).Return(current, nil)

		in := validBook()
		in.PageCount = 0
		out, err := svc.Update(ctx, 5, in)

		require.NoError(t, err)
		assert.Equal(t, ResultInvalid, out.Result)
		assert.Equal(t, "Page count must be greater than 0.", out.Message)
	})

	t.Run("isbn owned by another book", func(t *testing.T) {
		svc, repo := newMockService(t)
		repo.EXPECT().FindByID(ctx, int64(5)).Return(current, nil)
		repo.EXPECT().FindByISBN(ctx, "979-1-234-56789-6").Return(Book{ID: 6}, nil)

		in := validBook()
		in.ISBN = "979-1234567896"
		out, err := svc.Update(ctx, 5, in)

		require.NoError(t, err)
		assert.Equal(t, ResultConflict, out.Result)
		assert.Equal(t, "979-1-234-56789-6", out.ISBN)
	})

	t.Run("keeping its own isbn replaces every field", func(t *testing.T) {
		svc, repo := newMockService(t)
		repo.EXPECT().FindByID(ctx, int64(5)).Return(current, nil)
		repo.EXPECT().FindByISBN(ctx, current.ISBN).Return(current, nil)

		in := Book{
			ID:               42,
			Title:            "New title",
			Author:           "New author",
			ISBN:             "9783161484100",
			Publisher:        "New publisher",
			YearOfPublishing: 1999,
			Genre:            "Essay",
			PageCount:        12,
			Price:            0,
		}
		want := in
		want.ID = 5
		want.ISBN = current.ISBN
		repo.EXPECT().Update(ctx, want).Return(want, nil)

		out, err := svc.Update(ctx, 5, in)

		require.NoError(t, err)
		assert.Equal(t, ResultUpdated, out.Result)
		assert.Equal(t, want, out.Book)
	})

	t.Run("row vanished before write", func(t *testing.T) {
		svc, repo := newMockService(t)
		repo.EXPECT().FindByID(ctx, int64(5)).Return(current, nil)
		repo.EXPECT().FindByISBN(ctx, gomock.Any()).Return(Book{}, ErrNotFound)
		repo.EXPECT().Update(ctx, gomock.Any()).Return(Book{}, ErrNotFound)

		out, err := svc.Update(ctx, 5, validBook())

		require.NoError(t, err)
		assert.Equal(t, ResultNotFound, out.Result)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()

	svc, repo := newMockService(t)
	repo.EXPECT().Delete(ctx, int64(1)).Return(nil)
	repo.EXPECT().Delete(ctx, int64(2)).Return(ErrNotFound)
	repo.EXPECT().Delete(ctx, int64(3)).Return(errStorage)

	out, err := svc.Delete(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, ResultDeleted, out.Result)

	out, err = svc.Delete(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, ResultNotFound, out.Result)

	_, err = svc.Delete(ctx, 3)
	assert.True(t, errors.Is(err, errStorage))
}

func TestService_GetByISBN(t *testing.T) {
	ctx := context.Background()

	t.Run("blank or malformed is bad input", func(t *testing.T) {
		svc, _ := newMockService(t)
		for _, raw := range []string{"", "  ", "1234567890123"} {
			out, err := svc.GetByISBN(ctx, raw)
			require.NoError(t, err)
			assert.Equal(t, ResultBadInput, out.Result, raw)
		}
	})

	t.Run("normalizes before lookup", func(t *testing.T) {
		svc, repo := newMockService(t)
		stored := validBook()
		stored.ID = 3
		repo.EXPECT().FindByISBN(ctx, "978-3-161-48410-0").Return(stored, nil)

		out, err := svc.GetByISBN(ctx, "978 3161 484100")

		require.NoError(t, err)
		assert.Equal(t, ResultFound, out.Result)
		assert.Equal(t, stored, out.Book)
	})

	t.Run("missing", func(t *testing.T) {
		svc, repo := newMockService(t)
		repo.EXPECT().FindByISBN(ctx, gomock.Any()).Return(Book{}, ErrNotFound)

		out, err := svc.GetByISBN(ctx, "9783161484100")

		require.NoError(t, err)
		assert.Equal(t, ResultNotFound, out.Result)
	})
}

func TestService_Searches(t *testing.T) {
	ctx := context.Background()

	t.Run("blank query is bad input", func(t *testing.T) {
		svc, _ := newMockService(t)
		for _, find := range []func(context.Context, string) (Outcome, error){
			svc.FindByTitle, svc.FindByAuthor, svc.FindByPublisher, svc.FindByGenre,
		} {
			out, err := find(ctx, " ")
			require.NoError(t, err)
			assert.Equal(t, ResultBadInput, out.Result)
		}
	})

	t.Run("no matches is empty", func(t *testing.T) {
		svc, repo := newMockService(t)
		repo.EXPECT().FindByAuthor(ctx, "nobody").Return([]Book{}, nil)

		out, err := svc.FindByAuthor(ctx, "nobody")

		require.NoError(t, err)
		assert.Equal(t, ResultEmpty, out.Result)
	})

	t.Run("matches are found", func(t *testing.T) {
		svc, repo := newMockService(t)
		repo.EXPECT().FindByGenre(ctx, "sci").Return([]Book{{ID: 1}, {ID: 2}}, nil)

		out, err := svc.FindByGenre(ctx, "sci")

		require.NoError(t, err)
		assert.Equal(t, ResultFound, out.Result)
		assert.Len(t, out.Books, 2)
	})
}

func TestService_FindByYear(t *testing.T) {
	ctx := context.Background()
	svc, repo := newMockService(t)

	for _, year := range []int{0, -5, 2101, 3000} {
		out, err := svc.FindByYear(ctx, year)
		require.NoError(t, err)
		assert.Equal(t, ResultBadInput, out.Result, year)
	}

	repo.EXPECT().FindByYearOfPublishing(ctx, 1999).Return(nil, nil)
	out, err := svc.FindByYear(ctx, 1999)
	require.NoError(t, err)
	assert.Equal(t, ResultEmpty, out.Result)
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	svc, repo := newMockService(t)
	repo.EXPECT().FindAll(ctx).Return(nil, nil)

	out, err := svc.List(ctx)

	require.NoError(t, err)
	assert.Equal(t, ResultFound, out.Result)
	assert.NotNil(t, out.Books)
	assert.Empty(t, out.Books)
}
